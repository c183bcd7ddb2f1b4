// Package shape defines the fixed catalog of SQL value shapes.
//
// A Shape describes one SQL type family: its underlying representation
// kind, an optional inclusive numeric range, its length policy, and
// whether it carries a fixed set of allowed string values. Shapes are
// immutable; parameter binding happens in the descriptor package.
package shape

// Kind identifies the underlying representation of a shape,
// independent of any SQL dialect.
type Kind int

const (
	// KindUnknown is used when the representation cannot be determined.
	KindUnknown Kind = iota
	// KindInteger represents signed and unsigned integer values.
	KindInteger
	// KindFloat represents IEEE 754 floating point values.
	KindFloat
	// KindDecimal represents exact fixed-point decimal values.
	KindDecimal
	// KindString represents character data.
	KindString
	// KindBytes represents raw binary data.
	KindBytes
	// KindTemporal represents date and time values.
	KindTemporal
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindDecimal:
		return "decimal"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindTemporal:
		return "temporal"
	default:
		return "unknown"
	}
}

// LengthPolicy describes whether a shape accepts a length parameter.
type LengthPolicy int

const (
	// LengthNone means the shape takes no length parameter.
	LengthNone LengthPolicy = iota
	// LengthOptional means a length may be supplied; omitted means unbounded.
	LengthOptional
	// LengthRequired means a length must be supplied at binding time.
	LengthRequired
)

// Shape is one entry of the value-shape catalog. The capability fields
// are orthogonal tags: validation and binding dispatch on them rather
// than on any type hierarchy.
type Shape struct {
	// Name is the programmatic catalog name (e.g. "VarChar").
	Name string

	// Keyword is the SQL rendering keyword. Defaults to Name.
	Keyword string

	// Kind is the underlying representation kind.
	Kind Kind

	// HasRange, Min and Max describe the inclusive numeric range for
	// integer shapes. Max is unsigned so that UnsignedBigInt can carry
	// its full upper bound.
	HasRange bool
	Min      int64
	Max      uint64

	// Length is the length-parameter policy.
	Length LengthPolicy

	// HasValues marks shapes bound to an ordered set of string
	// literals (ENUM and SET).
	HasValues bool

	// SetSemantics marks value-set shapes whose values are validated
	// as comma-separated members rather than a single literal.
	SetSemantics bool
}

// IsNumeric reports whether the shape holds numeric data.
func (s Shape) IsNumeric() bool {
	switch s.Kind {
	case KindInteger, KindFloat, KindDecimal:
		return true
	default:
		return false
	}
}

// IsText reports whether the shape holds character data.
func (s Shape) IsText() bool {
	return s.Kind == KindString
}

// IsTemporal reports whether the shape holds date or time data.
func (s Shape) IsTemporal() bool {
	return s.Kind == KindTemporal
}
