package on_use

import (
	"context"
	"reflect"

	"github.com/vk/itemforge/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the 'on_use' component. Callback is an
// opaque reference resolved by the consuming game layer, not by the compiler.
type Input struct {
	Callback string   `cty:"callback"`
	Cooldown *float64 `cty:"cooldown"`
}

// Render is the handler for the 'on_use' component. The callback reference
// itself already travels in the custom_components record, where the runtime
// event hook looks it up; the render only contributes the cooldown, when set.
// The fragment is non-nil even when empty so the component is always recorded.
func Render(ctx context.Context, input any) (map[string]any, error) {
	in := input.(*Input)

	out := map[string]any{}
	if in.Cooldown != nil {
		out["use_cooldown"] = map[string]any{"seconds": *in.Cooldown}
	}
	return out, nil
}

// Register registers the handler with the resolver.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterComponent("on_use", &registry.Component{
		NewInput:  func() any { return new(Input) },
		InputType: reflect.TypeOf(Input{}),
		Render:    Render,
	})
}
