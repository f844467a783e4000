// Package registry provides the process-wide directory that resolves schema
// names to schema definitions.
//
// Definitions register themselves when they are built. Nested field
// references are resolved against the registry lazily, on first use, so a
// schema may reference itself or a schema that has not been defined yet.
package registry

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrNotFound          = errors.New("schema name not found in registry")
	ErrAlreadyRegistered = errors.New("schema name already registered")
	ErrEmptyName         = errors.New("schema name must not be empty")
)

// Definition is the class-level view of a schema: an ordered field set
// registered under a stable, unique name.
type Definition interface {
	// Name returns the qualified name the definition is registered under.
	Name() string
}

// Instance is a bound schema carrying a (possibly narrowed) field set and a
// default treatment of its input as a single object or a sequence.
type Instance interface {
	// Many reports whether the instance serializes sequences by default.
	Many() bool
}

// Registry maps qualified schema names to definitions. Entries are
// write-once: registering a name twice is an error. Safe for concurrent use.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]Definition
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

// Register stores def under name. The name must be non-empty and not taken.
func (r *Registry) Register(name string, def Definition) error {
	if name == "" {
		return ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.defs[name]; exists {
		return fmt.Errorf("%w: %q", ErrAlreadyRegistered, name)
	}

	r.defs[name] = def

	return nil
}

// Get returns the definition registered under name.
func (r *Registry) Get(name string) (Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.defs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	return def, nil
}

// Names returns the registered names in unspecified order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}

	return names
}

// global is the process-wide registry used by schema definitions.
var global = New()

// Register stores def under name in the global registry.
func Register(name string, def Definition) error {
	return global.Register(name, def)
}

// Get resolves name against the global registry.
func Get(name string) (Definition, error) {
	return global.Get(name)
}
