package attack

import (
	"context"
	"reflect"

	"github.com/vk/itemforge/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the 'attack' component.
type Input struct {
	Damage float64  `cty:"damage"`
	Speed  *float64 `cty:"speed"`
}

// Render is the handler for the 'attack' component. Declared values are the
// effective in-game stats; the emitted modifier amounts are relative to the
// player base values (1 attack damage, 4 attack speed).
func Render(ctx context.Context, input any) (map[string]any, error) {
	in := input.(*Input)

	modifiers := []any{
		map[string]any{
			"type":      "attack_damage",
			"id":        "minecraft:base_attack_damage",
			"slot":      "mainhand",
			"amount":    in.Damage - 1,
			"operation": "add_value",
		},
	}
	if in.Speed != nil {
		modifiers = append(modifiers, map[string]any{
			"type":      "attack_speed",
			"id":        "minecraft:base_attack_speed",
			"slot":      "mainhand",
			"amount":    *in.Speed - 4,
			"operation": "add_value",
		})
	}

	return map[string]any{"attribute_modifiers": modifiers}, nil
}

// Register registers the handler with the resolver.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterComponent("attack", &registry.Component{
		NewInput:  func() any { return new(Input) },
		InputType: reflect.TypeOf(Input{}),
		Render:    Render,
	})
}
