package descriptor

import (
	"fmt"
	"strings"

	"github.com/electwix/sqlshape/internal/hostmap"
	"github.com/electwix/sqlshape/internal/shape"
)

// Validate reports whether a host value satisfies the descriptor.
//
// Two stages, both of which must pass: the value's representation kind
// must match the shape's kind, then the shape-specific constraint
// (range, length, membership) is applied. Out-of-range or mismatched
// values are a false result, never an error.
//
// Validate panics if the descriptor lacks a parameter its shape
// mandates; the binder makes that state unreachable.
func (d *Descriptor) Validate(v any) bool {
	kind, ok := hostmap.KindOf(v)
	if !ok || kind != d.shape.Kind {
		return false
	}

	switch {
	case d.shape.HasValues:
		if d.param != paramValues || len(d.values) == 0 {
			panic(fmt.Sprintf("descriptor: %s bound without its value list", d.shape.Name))
		}
		s, ok := hostmap.Str(v)
		if !ok {
			return false
		}
		if d.shape.SetSemantics {
			return d.validSet(s)
		}
		return d.member(s)

	case d.shape.HasRange:
		return hostmap.InRange(v, d.shape.Min, d.shape.Max)

	case d.shape.Length != shape.LengthNone:
		if d.shape.Length == shape.LengthRequired && d.param != paramLength {
			panic(fmt.Sprintf("descriptor: %s bound without its required length", d.shape.Name))
		}
		if d.param != paramLength {
			return true // unbounded
		}
		n, ok := hostmap.Len(v)
		return ok && n <= d.length

	default:
		// Float, decimal, temporal and bit shapes carry no constraint
		// beyond their representation kind.
		return true
	}
}

func (d *Descriptor) member(s string) bool {
	for _, v := range d.values {
		if s == v {
			return true
		}
	}
	return false
}

// validSet checks a SET literal: every comma-separated part, with
// surrounding whitespace trimmed, must be an allowed member. Duplicate
// members and ordering are deliberately not checked.
func (d *Descriptor) validSet(s string) bool {
	for _, part := range strings.Split(s, ",") {
		if !d.member(strings.TrimSpace(part)) {
			return false
		}
	}
	return true
}
