// Package descriptor implements parameter binding for catalog shapes.
//
// A Descriptor is a shape bound to a concrete parameter: nothing, one
// length, or an ordered list of string values. Descriptors are
// canonical: binding the same (shape, parameter) pair twice returns
// the same *Descriptor, so callers may compare descriptors by pointer
// identity.
package descriptor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/electwix/sqlshape/internal/shape"
)

type paramKind int

const (
	paramNone paramKind = iota
	paramLength
	paramValues
)

// Descriptor is an immutable shape-plus-parameter binding. Obtain
// descriptors through a Binder; two descriptors for equal bindings are
// the same pointer.
type Descriptor struct {
	shape  shape.Shape
	param  paramKind
	length int
	values []string
}

// Shape returns the underlying catalog shape.
func (d *Descriptor) Shape() shape.Shape {
	return d.shape
}

// Length returns the bound length parameter, if any.
func (d *Descriptor) Length() (int, bool) {
	return d.length, d.param == paramLength
}

// Values returns a copy of the bound value set, if any.
func (d *Descriptor) Values() ([]string, bool) {
	if d.param != paramValues {
		return nil, false
	}
	out := make([]string, len(d.values))
	copy(out, d.values)
	return out, true
}

// SQL renders the descriptor as SQL DDL type text.
func (d *Descriptor) SQL() string {
	kw := d.shape.Keyword
	switch d.param {
	case paramLength:
		return kw + "(" + strconv.Itoa(d.length) + ")"
	case paramValues:
		var buf strings.Builder
		buf.WriteString(kw)
		buf.WriteString("(")
		for i, v := range d.values {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString("'")
			buf.WriteString(v)
			buf.WriteString("'")
		}
		buf.WriteString(")")
		return buf.String()
	default:
		return kw + " NOT NULL"
	}
}

// String implements fmt.Stringer using the SQL rendering.
func (d *Descriptor) String() string {
	return d.SQL()
}

// cacheKey returns the normalized canonicalization key for a binding.
// Each value is length-prefixed so lists remain distinguishable even
// when a value itself contains the separator byte.
func cacheKey(shapeName string, param paramKind, length int, values []string) string {
	switch param {
	case paramLength:
		return shapeName + "\x00len:" + strconv.Itoa(length)
	case paramValues:
		var buf strings.Builder
		buf.WriteString(shapeName)
		buf.WriteString("\x00set:")
		for _, v := range values {
			buf.WriteString(strconv.Itoa(len(v)))
			buf.WriteString(":")
			buf.WriteString(v)
			buf.WriteString("\x00")
		}
		return buf.String()
	default:
		return shapeName
	}
}

// TypedValue pairs a raw host value with the descriptor it claims to
// satisfy. Construction never validates; call Valid explicitly.
type TypedValue struct {
	Value any
	Desc  *Descriptor
}

// Valid reports whether the value satisfies its descriptor.
func (tv TypedValue) Valid() bool {
	return tv.Desc.Validate(tv.Value)
}

// WithValue wraps a host value with this descriptor.
func (d *Descriptor) WithValue(v any) TypedValue {
	return TypedValue{Value: v, Desc: d}
}

// String renders the typed value for diagnostics.
func (tv TypedValue) String() string {
	return fmt.Sprintf("%v: %s", tv.Value, tv.Desc.SQL())
}
