package shape

import "math"

// The built-in catalog. Hand-authored and fixed: binding code never adds
// shapes at runtime, only aliases.
func init() {
	intShape := func(name string, min int64, max uint64) Shape {
		return Shape{Name: name, Kind: KindInteger, HasRange: true, Min: min, Max: max}
	}
	charShape := func(name string) Shape {
		return Shape{Name: name, Kind: KindString, Length: LengthRequired}
	}
	textShape := func(name string) Shape {
		return Shape{Name: name, Kind: KindString, Length: LengthOptional}
	}
	blobShape := func(name string) Shape {
		return Shape{Name: name, Kind: KindBytes, Length: LengthOptional}
	}

	for _, s := range []Shape{
		intShape("TinyInt", math.MinInt8, math.MaxInt8),
		intShape("SmallInt", math.MinInt16, math.MaxInt16),
		intShape("MediumInt", -1<<23, 1<<23-1),
		intShape("Int", math.MinInt32, math.MaxInt32),
		intShape("BigInt", math.MinInt64, math.MaxInt64),
		intShape("UnsignedTinyInt", 0, math.MaxUint8),
		intShape("UnsignedSmallInt", 0, math.MaxUint16),
		intShape("UnsignedMediumInt", 0, 1<<24-1),
		intShape("UnsignedInt", 0, math.MaxUint32),
		intShape("UnsignedBigInt", 0, math.MaxUint64),

		{Name: "Float", Kind: KindFloat},
		{Name: "Double", Kind: KindFloat},
		{Name: "Decimal", Kind: KindDecimal},
		{Name: "Bit", Kind: KindBytes},

		{Name: "DateTime", Kind: KindTemporal},
		{Name: "Date", Kind: KindTemporal},
		{Name: "Time", Kind: KindTemporal},

		charShape("Char"),
		charShape("VarChar"),
		{Name: "Binary", Kind: KindBytes, Length: LengthRequired},
		{Name: "VarBinary", Kind: KindBytes, Length: LengthRequired},

		blobShape("Blob"),
		blobShape("TinyBlob"),
		blobShape("MediumBlob"),
		blobShape("LongBlob"),
		textShape("Text"),
		textShape("TinyText"),
		textShape("MediumText"),
		textShape("LongText"),

		{Name: "Enum", Kind: KindString, HasValues: true},
		{Name: "Set", Kind: KindString, HasValues: true, SetSemantics: true},
	} {
		registry.register(s)
	}

	// Legacy and alternate names. Pure redirections: an alias renders
	// under its target's keyword and validates exactly like it.
	for _, a := range []struct{ name, target string }{
		{"Bool", "TinyInt"},
		{"Boolean", "TinyInt"},
		{"CharacterVarying", "VarChar"},
		{"Fixed", "Decimal"},
		{"Numeric", "Decimal"},
		{"Float4", "Float"},
		{"Float8", "Double"},
		{"Real", "Double"},
		{"INT1", "TinyInt"},
		{"INT2", "SmallInt"},
		{"INT3", "MediumInt"},
		{"INT4", "Int"},
		{"INT8", "BigInt"},
		{"MiddleInt", "MediumInt"},
		{"LongVarchar", "MediumText"},
		{"Long", "MediumText"},
		{"LongVarBinary", "MediumBlob"},
	} {
		if err := registry.registerAlias(a.name, a.target); err != nil {
			panic(err)
		}
	}
}
