package codegen

import (
	"fmt"
	"sort"
)

// Factory creates a generator for the given options
type Factory func(opts Options) (Generator, error)

// Registry manages available generators
type Registry struct {
	generators map[string]Factory
}

// NewRegistry creates a new generator registry
func NewRegistry() *Registry {
	r := &Registry{
		generators: make(map[string]Factory),
	}
	return r
}

// Register adds a new generator factory to the registry
func (r *Registry) Register(name string, factory Factory) {
	r.generators[name] = factory
}

// Get returns a generator for the specified target
func (r *Registry) Get(name string, opts Options) (Generator, error) {
	factory, exists := r.generators[name]
	if !exists {
		return nil, fmt.Errorf("unsupported target: %s", name)
	}

	return factory(opts)
}

// Targets returns the registered target names in sorted order
func (r *Registry) Targets() []string {
	targets := make([]string, 0, len(r.generators))
	for name := range r.generators {
		targets = append(targets, name)
	}
	sort.Strings(targets)
	return targets
}
