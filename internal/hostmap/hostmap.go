// Package hostmap classifies host Go values against the shape catalog.
//
// It answers two questions for the descriptor layer: which
// representation kind a host value belongs to, and which catalog shape
// a bare value with no explicit SQL type maps to. Alongside the
// primitive Go types it understands time.Time, shopspring decimals,
// google UUIDs and the common pgtype wrappers so that values scanned
// through pgx can be validated directly.
package hostmap

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/electwix/sqlshape/internal/shape"
)

// KindOf reports the representation kind of a host value.
// The second return is false for unsupported host types.
func KindOf(v any) (shape.Kind, bool) {
	switch v.(type) {
	case bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		pgtype.Bool, pgtype.Int2, pgtype.Int4, pgtype.Int8:
		return shape.KindInteger, true
	case float32, float64, pgtype.Float4, pgtype.Float8:
		return shape.KindFloat, true
	case decimal.Decimal, pgtype.Numeric:
		return shape.KindDecimal, true
	case string, uuid.UUID, pgtype.Text, pgtype.UUID:
		return shape.KindString, true
	case []byte:
		return shape.KindBytes, true
	case time.Time, pgtype.Timestamp, pgtype.Date, pgtype.Time:
		return shape.KindTemporal, true
	default:
		return shape.KindUnknown, false
	}
}

// InRange reports whether an integer-kind host value lies within the
// inclusive range [min, max]. Max is unsigned so the full uint64 range
// is representable. Non-integer values report false.
func InRange(v any, min int64, max uint64) bool {
	switch n := v.(type) {
	case bool:
		i := int64(0)
		if n {
			i = 1
		}
		return signedInRange(i, min, max)
	case int:
		return signedInRange(int64(n), min, max)
	case int8:
		return signedInRange(int64(n), min, max)
	case int16:
		return signedInRange(int64(n), min, max)
	case int32:
		return signedInRange(int64(n), min, max)
	case int64:
		return signedInRange(n, min, max)
	case uint:
		return unsignedInRange(uint64(n), min, max)
	case uint8:
		return unsignedInRange(uint64(n), min, max)
	case uint16:
		return unsignedInRange(uint64(n), min, max)
	case uint32:
		return unsignedInRange(uint64(n), min, max)
	case uint64:
		return unsignedInRange(n, min, max)
	case pgtype.Bool:
		return InRange(n.Bool, min, max)
	case pgtype.Int2:
		return signedInRange(int64(n.Int16), min, max)
	case pgtype.Int4:
		return signedInRange(int64(n.Int32), min, max)
	case pgtype.Int8:
		return signedInRange(n.Int64, min, max)
	default:
		return false
	}
}

func signedInRange(v, min int64, max uint64) bool {
	if v < min {
		return false
	}
	return v < 0 || uint64(v) <= max
}

func unsignedInRange(v uint64, min int64, max uint64) bool {
	if min > 0 && v < uint64(min) {
		return false
	}
	return v <= max
}

// Str extracts the string form of a string-kind host value.
func Str(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case uuid.UUID:
		return s.String(), true
	case pgtype.Text:
		return s.String, true
	case pgtype.UUID:
		return uuid.UUID(s.Bytes).String(), true
	default:
		return "", false
	}
}

// Len reports the length of a string- or bytes-kind host value.
// Strings are measured in characters, matching CHAR/VARCHAR(n)
// semantics; byte sequences are measured in bytes.
func Len(v any) (int, bool) {
	if b, ok := v.([]byte); ok {
		return len(b), true
	}
	if s, ok := Str(v); ok {
		return utf8.RuneCountInString(s), true
	}
	return 0, false
}

// Default names the catalog shape a bare host value maps to when no
// explicit SQL type is given. Length is non-zero when the default
// shape requires a length parameter.
type Default struct {
	Shape  string
	Length int
}

// DefaultFor returns the default shape mapping for a host value.
// The second return is false for unsupported host types.
func DefaultFor(v any) (Default, bool) {
	switch v.(type) {
	case bool, pgtype.Bool:
		// Smallest integer shape doubling as a boolean.
		return Default{Shape: "TinyInt"}, true
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32,
		pgtype.Int2, pgtype.Int4:
		return Default{Shape: "Int"}, true
	case pgtype.Int8:
		return Default{Shape: "BigInt"}, true
	case uint64:
		return Default{Shape: "UnsignedBigInt"}, true
	case float32, float64, pgtype.Float4, pgtype.Float8:
		return Default{Shape: "Double"}, true
	case decimal.Decimal, pgtype.Numeric:
		return Default{Shape: "Decimal"}, true
	case string, pgtype.Text:
		return Default{Shape: "Text"}, true
	case uuid.UUID, pgtype.UUID:
		return Default{Shape: "Char", Length: 36}, true
	case []byte:
		return Default{Shape: "Blob"}, true
	case time.Time, pgtype.Timestamp:
		return Default{Shape: "DateTime"}, true
	case pgtype.Date:
		return Default{Shape: "Date"}, true
	case pgtype.Time:
		return Default{Shape: "Time"}, true
	default:
		return Default{}, false
	}
}
