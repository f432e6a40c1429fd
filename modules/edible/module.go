package edible

import (
	"context"
	"reflect"

	"github.com/vk/itemforge/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// defaultConsumeSeconds matches the game's standard eating duration.
const defaultConsumeSeconds = 1.6

// Input defines the arguments for the 'edible' component.
type Input struct {
	Nutrition      int64    `cty:"nutrition"`
	Saturation     float64  `cty:"saturation"`
	CanAlwaysEat   *bool    `cty:"can_always_eat"`
	ConsumeSeconds *float64 `cty:"consume_seconds"`
}

// Render is the handler for the 'edible' component. The vanilla food fragment
// alone does not make an item eatable, so a consumable fragment is emitted
// with it. The kind is named 'edible' rather than 'food' so authors can still
// set the vanilla food field directly when they want full control.
func Render(ctx context.Context, input any) (map[string]any, error) {
	in := input.(*Input)

	foodData := map[string]any{
		"nutrition":  in.Nutrition,
		"saturation": in.Saturation,
	}
	if in.CanAlwaysEat != nil {
		foodData["can_always_eat"] = *in.CanAlwaysEat
	}

	seconds := defaultConsumeSeconds
	if in.ConsumeSeconds != nil {
		seconds = *in.ConsumeSeconds
	}

	return map[string]any{
		"food":       foodData,
		"consumable": map[string]any{"consume_seconds": seconds, "animation": "eat"},
	}, nil
}

// Register registers the handler with the resolver.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterComponent("edible", &registry.Component{
		NewInput:  func() any { return new(Input) },
		InputType: reflect.TypeOf(Input{}),
		Render:    Render,
	})
}
