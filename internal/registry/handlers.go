package registry

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
)

// RenderFunc produces a component's rendered fragment from its decoded input
// struct. A nil fragment means the component contributes nothing; the
// attribute itself never appears in the output either way.
type RenderFunc func(ctx context.Context, input any) (map[string]any, error)

// TransformFunc produces the replacement value for the attribute a
// transformer binds to. A nil result leaves the declared value untouched.
type TransformFunc func(ctx context.Context, input any) (any, error)

// PostRenderFunc runs after every handler has rendered, over the full
// accumulated output. Hooks mutate the output in place and are the last
// content-producing step of resolution.
type PostRenderFunc func(ctx context.Context, input any, output map[string]any)

// Component holds the compiled Go parts of a custom component handler.
type Component struct {
	// NewInput returns a fresh input struct, pre-filled with defaults. Field
	// shape is declared with `cty` struct tags.
	NewInput  func() any
	InputType reflect.Type

	Render     RenderFunc
	PostRender PostRenderFunc

	// NoCache forces this component's render to re-execute on every access
	// even when the definition-level cache is warm. Needed by handlers whose
	// render depends on mutable state at access time.
	NoCache bool
}

// Transformer holds the compiled Go parts of a custom transformer handler.
type Transformer struct {
	NewInput  func() any
	InputType reflect.Type

	Transform  TransformFunc
	PostRender PostRenderFunc
}

// RegisterComponent registers a component handler under the given kind name.
// Duplicate registration within or across families is a programmer error.
func (r *Registry) RegisterComponent(kind string, c *Component) {
	if _, exists := r.components[kind]; exists {
		panic(fmt.Sprintf("component handler with kind '%s' already registered", kind))
	}
	if _, exists := r.transformers[kind]; exists {
		panic(fmt.Sprintf("kind '%s' already registered as a transformer", kind))
	}
	if c.NewInput == nil || c.Render == nil {
		panic(fmt.Sprintf("component handler '%s' must provide NewInput and Render", kind))
	}
	slog.Debug("Registering component handler.", "kind", kind)
	r.components[kind] = c
}

// RegisterTransformer registers a transformer handler under the given kind name.
func (r *Registry) RegisterTransformer(kind string, t *Transformer) {
	if _, exists := r.transformers[kind]; exists {
		panic(fmt.Sprintf("transformer handler with kind '%s' already registered", kind))
	}
	if _, exists := r.components[kind]; exists {
		panic(fmt.Sprintf("kind '%s' already registered as a component", kind))
	}
	if t.NewInput == nil || t.Transform == nil {
		panic(fmt.Sprintf("transformer handler '%s' must provide NewInput and Transform", kind))
	}
	slog.Debug("Registering transformer handler.", "kind", kind)
	r.transformers[kind] = t
}
