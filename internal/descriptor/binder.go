package descriptor

import (
	"errors"
	"fmt"
	"sync"

	"github.com/electwix/sqlshape/internal/hostmap"
	"github.com/electwix/sqlshape/internal/shape"
)

// ErrInvalidParameter is returned when a binding parameter is absent
// when required, present when disallowed, or malformed.
var ErrInvalidParameter = errors.New("invalid type parameter")

// Binder owns the canonicalization cache. Successful binds for equal
// (shape, parameter) pairs always return the same *Descriptor; failed
// binds never touch the cache. Entries are never evicted.
type Binder struct {
	mu    sync.RWMutex
	cache map[string]*Descriptor
}

// NewBinder creates an empty Binder.
func NewBinder() *Binder {
	return &Binder{cache: make(map[string]*Descriptor)}
}

// defaultBinder backs the package-level binding functions. One
// instance per process, constructed once, reachable only through them.
var defaultBinder = NewBinder()

// canonical returns the cached descriptor for key, creating it with
// create on first use. Concurrent creators race benignly: the insert is
// re-checked under the write lock so exactly one instance wins.
func (b *Binder) canonical(key string, create func() *Descriptor) *Descriptor {
	b.mu.RLock()
	d, ok := b.cache[key]
	b.mu.RUnlock()
	if ok {
		return d
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if d, ok := b.cache[key]; ok {
		return d
	}
	d = create()
	b.cache[key] = d
	return d
}

// Len returns the number of canonicalized descriptors.
func (b *Binder) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.cache)
}

// Bind produces the unparameterized descriptor for a shape. Fails when
// the shape mandates a length or a value set.
func (b *Binder) Bind(s shape.Shape) (*Descriptor, error) {
	if s.Length == shape.LengthRequired {
		return nil, fmt.Errorf("%w: %s requires a length", ErrInvalidParameter, s.Name)
	}
	if s.HasValues {
		return nil, fmt.Errorf("%w: %s requires a value list", ErrInvalidParameter, s.Name)
	}
	key := cacheKey(s.Name, paramNone, 0, nil)
	return b.canonical(key, func() *Descriptor {
		return &Descriptor{shape: s, param: paramNone}
	}), nil
}

// BindLength produces a length-bound descriptor. Fails when the shape
// takes no length or when n is not positive.
func (b *Binder) BindLength(s shape.Shape, n int) (*Descriptor, error) {
	if s.Length == shape.LengthNone || s.HasValues {
		return nil, fmt.Errorf("%w: %s does not accept a length", ErrInvalidParameter, s.Name)
	}
	if n <= 0 {
		return nil, fmt.Errorf("%w: %s length must be positive, got %d", ErrInvalidParameter, s.Name, n)
	}
	key := cacheKey(s.Name, paramLength, n, nil)
	return b.canonical(key, func() *Descriptor {
		return &Descriptor{shape: s, param: paramLength, length: n}
	}), nil
}

// BindValues produces a value-set-bound descriptor. Fails when the
// shape takes no value set, or when values is empty or contains
// duplicates. Order is preserved.
func (b *Binder) BindValues(s shape.Shape, values ...string) (*Descriptor, error) {
	if !s.HasValues {
		return nil, fmt.Errorf("%w: %s does not accept a value list", ErrInvalidParameter, s.Name)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: %s requires at least one value", ErrInvalidParameter, s.Name)
	}
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, dup := seen[v]; dup {
			return nil, fmt.Errorf("%w: %s has duplicate value %q", ErrInvalidParameter, s.Name, v)
		}
		seen[v] = struct{}{}
	}
	key := cacheKey(s.Name, paramValues, 0, values)
	return b.canonical(key, func() *Descriptor {
		vals := make([]string, len(values))
		copy(vals, values)
		return &Descriptor{shape: s, param: paramValues, values: vals}
	}), nil
}

// BindName resolves a shape or alias name and binds it without
// parameters. Aliases behave exactly like their targets.
func (b *Binder) BindName(name string) (*Descriptor, error) {
	s, err := shape.Lookup(name)
	if err != nil {
		return nil, err
	}
	return b.Bind(s)
}

// ForValue returns the default descriptor for a bare host value with
// no explicit SQL type annotation.
func (b *Binder) ForValue(v any) (*Descriptor, error) {
	def, ok := hostmap.DefaultFor(v)
	if !ok {
		return nil, fmt.Errorf("%w: no default shape for host type %T", shape.ErrNotFound, v)
	}
	s, err := shape.Lookup(def.Shape)
	if err != nil {
		return nil, err
	}
	if def.Length > 0 {
		return b.BindLength(s, def.Length)
	}
	return b.Bind(s)
}

// Default returns the process-wide binder backing the package-level
// binding functions.
func Default() *Binder {
	return defaultBinder
}

// Bind binds on the process-wide default binder.
func Bind(s shape.Shape) (*Descriptor, error) {
	return defaultBinder.Bind(s)
}

// BindLength binds a length on the process-wide default binder.
func BindLength(s shape.Shape, n int) (*Descriptor, error) {
	return defaultBinder.BindLength(s, n)
}

// BindValues binds a value set on the process-wide default binder.
func BindValues(s shape.Shape, values ...string) (*Descriptor, error) {
	return defaultBinder.BindValues(s, values...)
}

// BindName resolves and binds a name on the process-wide default binder.
func BindName(name string) (*Descriptor, error) {
	return defaultBinder.BindName(name)
}

// ForValue maps a bare host value on the process-wide default binder.
func ForValue(v any) (*Descriptor, error) {
	return defaultBinder.ForValue(v)
}
