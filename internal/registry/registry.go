package registry

import (
	"sort"
)

// Module is the interface that all compiled-in handler modules must implement
// to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds all registered component and transformer handlers for a
// single application instance. The two kind namespaces are independent.
type Registry struct {
	components   map[string]*Component
	transformers map[string]*Transformer
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		components:   make(map[string]*Component),
		transformers: make(map[string]*Transformer),
	}
}

// Component returns the component handler registered under kind.
func (r *Registry) Component(kind string) (*Component, bool) {
	c, ok := r.components[kind]
	return c, ok
}

// Transformer returns the transformer handler registered under kind.
func (r *Registry) Transformer(kind string) (*Transformer, bool) {
	t, ok := r.transformers[kind]
	return t, ok
}

// Kinds returns every registered kind name from both families, sorted. The
// validator feeds these into its suggestion search alongside the vanilla
// field names.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.components)+len(r.transformers))
	for name := range r.components {
		kinds = append(kinds, name)
	}
	for name := range r.transformers {
		if _, ok := r.components[name]; !ok {
			kinds = append(kinds, name)
		}
	}
	sort.Strings(kinds)
	return kinds
}
