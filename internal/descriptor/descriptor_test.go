package descriptor

import (
	"errors"
	"sync"
	"testing"

	"github.com/electwix/sqlshape/internal/shape"
)

func mustShape(t *testing.T, name string) shape.Shape {
	t.Helper()
	s, err := shape.Lookup(name)
	if err != nil {
		t.Fatalf("Lookup(%q) error: %v", name, err)
	}
	return s
}

func TestBindCanonicalization(t *testing.T) {
	b := NewBinder()
	varchar := mustShape(t, "VarChar")
	enum := mustShape(t, "Enum")
	intShape := mustShape(t, "Int")

	d1, err := b.BindLength(varchar, 64)
	if err != nil {
		t.Fatalf("BindLength error: %v", err)
	}
	d2, err := b.BindLength(varchar, 64)
	if err != nil {
		t.Fatalf("BindLength error: %v", err)
	}
	if d1 != d2 {
		t.Error("BindLength(VarChar, 64) twice returned distinct descriptors")
	}

	d3, err := b.BindLength(varchar, 32)
	if err != nil {
		t.Fatalf("BindLength error: %v", err)
	}
	if d3 == d1 {
		t.Error("BindLength(VarChar, 32) shares identity with length 64")
	}

	e1, err := b.BindValues(enum, "a", "b")
	if err != nil {
		t.Fatalf("BindValues error: %v", err)
	}
	e2, err := b.BindValues(enum, "a", "b")
	if err != nil {
		t.Fatalf("BindValues error: %v", err)
	}
	if e1 != e2 {
		t.Error("BindValues(Enum, a, b) twice returned distinct descriptors")
	}
	e3, err := b.BindValues(enum, "b", "a")
	if err != nil {
		t.Fatalf("BindValues error: %v", err)
	}
	if e3 == e1 {
		t.Error("value order must distinguish descriptor identity")
	}

	// A value containing a NUL byte must not collide with the list
	// it would join to.
	e4, err := b.BindValues(enum, "a\x00b")
	if err != nil {
		t.Fatalf("BindValues error: %v", err)
	}
	if e4 == e1 {
		t.Error("BindValues(Enum, \"a\\x00b\") shares identity with (a, b)")
	}
	if vals, _ := e4.Values(); len(vals) != 1 || vals[0] != "a\x00b" {
		t.Errorf("Values() = %q, want the single bound value", vals)
	}

	i1, err := b.Bind(intShape)
	if err != nil {
		t.Fatalf("Bind error: %v", err)
	}
	i2, err := b.Bind(intShape)
	if err != nil {
		t.Fatalf("Bind error: %v", err)
	}
	if i1 != i2 {
		t.Error("Bind(Int) twice returned distinct descriptors")
	}

	if got := b.Len(); got != 6 {
		t.Errorf("cache Len() = %d, want 6", got)
	}
}

func TestBindConcurrent(t *testing.T) {
	b := NewBinder()
	varchar := mustShape(t, "VarChar")

	const workers = 16
	out := make([]*Descriptor, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d, err := b.BindLength(varchar, 255)
			if err != nil {
				t.Errorf("BindLength error: %v", err)
				return
			}
			out[i] = d
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		if out[i] != out[0] {
			t.Fatalf("worker %d saw a different canonical descriptor", i)
		}
	}
	if got := b.Len(); got != 1 {
		t.Errorf("cache Len() = %d, want 1", got)
	}
}

func TestBindInvalidParameter(t *testing.T) {
	b := NewBinder()

	tests := []struct {
		name string
		bind func() (*Descriptor, error)
	}{
		{"char_without_length", func() (*Descriptor, error) {
			return b.Bind(mustShape(t, "Char"))
		}},
		{"char_zero_length", func() (*Descriptor, error) {
			return b.BindLength(mustShape(t, "Char"), 0)
		}},
		{"varchar_negative_length", func() (*Descriptor, error) {
			return b.BindLength(mustShape(t, "VarChar"), -3)
		}},
		{"int_with_length", func() (*Descriptor, error) {
			return b.BindLength(mustShape(t, "Int"), 10)
		}},
		{"enum_without_values", func() (*Descriptor, error) {
			return b.Bind(mustShape(t, "Enum"))
		}},
		{"enum_empty_values", func() (*Descriptor, error) {
			return b.BindValues(mustShape(t, "Enum"))
		}},
		{"enum_duplicate_values", func() (*Descriptor, error) {
			return b.BindValues(mustShape(t, "Set"), "a", "b", "a")
		}},
		{"enum_with_length", func() (*Descriptor, error) {
			return b.BindLength(mustShape(t, "Enum"), 4)
		}},
		{"text_with_values", func() (*Descriptor, error) {
			return b.BindValues(mustShape(t, "Text"), "a")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.bind(); !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("error = %v, want ErrInvalidParameter", err)
			}
		})
	}

	// Failed binds must not leak cache entries.
	if got := b.Len(); got != 0 {
		t.Errorf("cache Len() = %d after failed binds, want 0", got)
	}
}

func TestRequiredLengthEnforcement(t *testing.T) {
	b := NewBinder()
	char := mustShape(t, "Char")

	if _, err := b.Bind(char); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("Bind(Char) error = %v, want ErrInvalidParameter", err)
	}
	if _, err := b.BindLength(char, 0); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("BindLength(Char, 0) error = %v, want ErrInvalidParameter", err)
	}
	if _, err := b.BindLength(char, 10); err != nil {
		t.Errorf("BindLength(Char, 10) error = %v, want nil", err)
	}
}

func TestSQLRendering(t *testing.T) {
	b := NewBinder()

	tests := []struct {
		name string
		bind func() (*Descriptor, error)
		want string
	}{
		{"varchar_length", func() (*Descriptor, error) {
			return b.BindLength(mustShape(t, "VarChar"), 64)
		}, "VarChar(64)"},
		{"int_plain", func() (*Descriptor, error) {
			return b.Bind(mustShape(t, "Int"))
		}, "Int NOT NULL"},
		{"text_plain", func() (*Descriptor, error) {
			return b.Bind(mustShape(t, "Text"))
		}, "Text NOT NULL"},
		{"text_length", func() (*Descriptor, error) {
			return b.BindLength(mustShape(t, "Text"), 128)
		}, "Text(128)"},
		{"enum_values", func() (*Descriptor, error) {
			return b.BindValues(mustShape(t, "Enum"), "red", "green", "blue")
		}, "Enum('red', 'green', 'blue')"},
		{"set_values", func() (*Descriptor, error) {
			return b.BindValues(mustShape(t, "Set"), "a", "b")
		}, "Set('a', 'b')"},
		{"alias_renders_canonical", func() (*Descriptor, error) {
			return b.BindName("Boolean")
		}, "TinyInt NOT NULL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := tt.bind()
			if err != nil {
				t.Fatalf("bind error: %v", err)
			}
			if got := d.SQL(); got != tt.want {
				t.Errorf("SQL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBindNameAliasTransparency(t *testing.T) {
	b := NewBinder()

	alias, err := b.BindName("Boolean")
	if err != nil {
		t.Fatalf("BindName(Boolean) error: %v", err)
	}
	canonical, err := b.BindName("TinyInt")
	if err != nil {
		t.Fatalf("BindName(TinyInt) error: %v", err)
	}
	if alias != canonical {
		t.Error("alias descriptor is not identical to its canonical target")
	}

	for v, want := range map[int]bool{-129: false, -128: true, 127: true, 128: false} {
		if got := alias.Validate(v); got != want {
			t.Errorf("Validate(%d) = %v, want %v", v, got, want)
		}
	}
}

func TestBindNameUnknown(t *testing.T) {
	if _, err := NewBinder().BindName("NoSuchType"); !errors.Is(err, shape.ErrNotFound) {
		t.Errorf("BindName error = %v, want ErrNotFound", err)
	}
}

func TestForValueDefaults(t *testing.T) {
	b := NewBinder()

	tests := []struct {
		name string
		v    any
		want string
	}{
		{"bool", true, "TinyInt NOT NULL"},
		{"int", 42, "Int NOT NULL"},
		{"float", 2.5, "Double NOT NULL"},
		{"string", "hello", "Text NOT NULL"},
		{"bytes", []byte{0x1}, "Blob NOT NULL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := b.ForValue(tt.v)
			if err != nil {
				t.Fatalf("ForValue error: %v", err)
			}
			if got := d.SQL(); got != tt.want {
				t.Errorf("SQL() = %q, want %q", got, tt.want)
			}
			if !d.Validate(tt.v) {
				t.Errorf("default descriptor rejects its own value %v", tt.v)
			}
		})
	}

	if _, err := b.ForValue(struct{}{}); !errors.Is(err, shape.ErrNotFound) {
		t.Errorf("ForValue(struct{}{}) error = %v, want ErrNotFound", err)
	}
}

func TestTypedValueLazy(t *testing.T) {
	b := NewBinder()
	d, err := b.BindLength(mustShape(t, "VarChar"), 3)
	if err != nil {
		t.Fatalf("BindLength error: %v", err)
	}

	// Construction never validates; only the explicit call does.
	tv := d.WithValue("toolong")
	if tv.Valid() {
		t.Error("Valid() = true for an over-length value")
	}
	if !d.WithValue("ok").Valid() {
		t.Error("Valid() = false for an in-bounds value")
	}
}

func TestDescriptorAccessors(t *testing.T) {
	b := NewBinder()

	d, err := b.BindValues(mustShape(t, "Enum"), "x", "y")
	if err != nil {
		t.Fatalf("BindValues error: %v", err)
	}
	vals, ok := d.Values()
	if !ok || len(vals) != 2 {
		t.Fatalf("Values() = (%v, %v)", vals, ok)
	}
	vals[0] = "mutated"
	again, _ := d.Values()
	if again[0] != "x" {
		t.Error("Values() exposes internal state")
	}
	if _, ok := d.Length(); ok {
		t.Error("Length() ok = true for a value-set descriptor")
	}

	l, err := b.BindLength(mustShape(t, "Char"), 8)
	if err != nil {
		t.Fatalf("BindLength error: %v", err)
	}
	if n, ok := l.Length(); !ok || n != 8 {
		t.Errorf("Length() = (%d, %v), want (8, true)", n, ok)
	}
	if _, ok := l.Values(); ok {
		t.Error("Values() ok = true for a length descriptor")
	}
}

func TestPackageLevelBinder(t *testing.T) {
	d1, err := BindName("Int")
	if err != nil {
		t.Fatalf("BindName error: %v", err)
	}
	d2, err := Bind(mustShape(t, "Int"))
	if err != nil {
		t.Fatalf("Bind error: %v", err)
	}
	if d1 != d2 {
		t.Error("package-level binder does not share one cache")
	}
}
