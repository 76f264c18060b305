package render

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry stores generators by key. Get is strict and reports unknown keys;
// Lookup is permissive and falls back to the default generator. Request
// boundaries validate with Has or Get before handing keys to internal callers
// that rely on Lookup.
type Registry struct {
	mu         sync.RWMutex
	generators map[string]Generator
	defaultKey string
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		generators: make(map[string]Generator),
	}
}

// Register adds a generator by its Key(). Duplicate keys return an error. The
// first registered generator becomes the default until SetDefault is called.
func (r *Registry) Register(gen Generator) error {
	if gen == nil {
		return fmt.Errorf("render: generator is required")
	}
	key := strings.TrimSpace(gen.Key())
	if key == "" {
		return fmt.Errorf("render: generator key is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.generators[key]; exists {
		return fmt.Errorf("render: generator %q already registered", key)
	}

	r.generators[key] = gen
	if r.defaultKey == "" {
		r.defaultKey = key
	}
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(gen Generator) {
	if err := r.Register(gen); err != nil {
		panic(err)
	}
}

// SetDefault selects the generator Lookup falls back to.
func (r *Registry) SetDefault(key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.generators[key]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTemplate, key)
	}
	r.defaultKey = key
	return nil
}

// Default returns the fallback generator, or nil for an empty registry.
func (r *Registry) Default() Generator {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.generators[r.defaultKey]
}

// Get retrieves a generator by key. Use Lookup to fall back to the default.
func (r *Registry) Get(key string) (Generator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	gen, ok := r.generators[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, key)
	}
	return gen, nil
}

// Lookup retrieves a generator by key, returning the default generator for
// unknown keys. It only returns nil when the registry is empty.
func (r *Registry) Lookup(key string) Generator {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if gen, ok := r.generators[key]; ok {
		return gen
	}
	return r.generators[r.defaultKey]
}

// List returns the descriptors of every generator sorted by key.
func (r *Registry) List() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.generators))
	for key := range r.generators {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]Descriptor, 0, len(keys))
	for _, key := range keys {
		out = append(out, r.generators[key].Describe())
	}
	return out
}

// Has reports whether a generator is registered.
func (r *Registry) Has(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.generators[key]
	return ok
}
