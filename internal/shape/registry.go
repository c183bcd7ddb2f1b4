package shape

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrNotFound is returned when a shape or alias name is not in the catalog.
var ErrNotFound = errors.New("unknown shape")

// registry is the process-wide shape catalog instance.
var registry = &Registry{
	shapes:  make(map[string]Shape),
	aliases: make(map[string]string),
}

// Registry holds the shape catalog and its alias table. Lookups are
// case-insensitive. The built-in catalog is registered at package init;
// callers may add further aliases but never new shapes.
type Registry struct {
	mu      sync.RWMutex
	shapes  map[string]Shape
	aliases map[string]string
}

// register adds a shape to the catalog.
// Panics if the name is already taken.
func (r *Registry) register(s Shape) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(s.Name)
	if _, exists := r.shapes[key]; exists {
		panic(fmt.Sprintf("shape: %q already registered", s.Name))
	}
	if s.Keyword == "" {
		s.Keyword = s.Name
	}
	r.shapes[key] = s
}

// registerAlias adds an alias redirection to a canonical shape.
func (r *Registry) registerAlias(name, target string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(name)
	if _, exists := r.shapes[key]; exists {
		return fmt.Errorf("alias %q collides with a shape name", name)
	}
	targetKey := strings.ToLower(target)
	// Chase alias-to-alias targets so every stored entry points at a shape.
	if t, ok := r.aliases[targetKey]; ok {
		targetKey = t
	}
	if existing, exists := r.aliases[key]; exists {
		// Re-registering the same mapping is a no-op.
		if existing == targetKey {
			return nil
		}
		return fmt.Errorf("alias %q already registered", name)
	}
	if _, ok := r.shapes[targetKey]; !ok {
		return fmt.Errorf("alias %q: %w: %s", name, ErrNotFound, target)
	}
	r.aliases[key] = targetKey
	return nil
}

// lookup resolves a name, following the alias table, to a catalog shape.
func (r *Registry) lookup(name string) (Shape, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := strings.ToLower(name)
	if target, ok := r.aliases[key]; ok {
		key = target
	}
	s, ok := r.shapes[key]
	if !ok {
		return Shape{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return s, nil
}

// names returns all catalog shape names, sorted.
func (r *Registry) names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.shapes))
	for _, s := range r.shapes {
		out = append(out, s.Name)
	}
	sort.Strings(out)
	return out
}

// Lookup resolves a shape or alias name to its catalog entry.
// Returns an error wrapping ErrNotFound for unknown names.
func Lookup(name string) (Shape, error) {
	return registry.lookup(name)
}

// RegisterAlias adds an alias for a canonical shape. Intended for
// configuration-supplied legacy names; the built-in alias table is
// installed at package init.
func RegisterAlias(name, target string) error {
	return registry.registerAlias(name, target)
}

// Names returns the catalog shape names in sorted order.
func Names() []string {
	return registry.names()
}
