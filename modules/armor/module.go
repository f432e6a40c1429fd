package armor

import (
	"context"
	"reflect"

	"github.com/vk/itemforge/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the 'armor' component.
type Input struct {
	Armor     float64  `cty:"armor"`
	Toughness *float64 `cty:"toughness"`
	Slot      string   `cty:"slot"`
}

// Render is the handler for the 'armor' component.
func Render(ctx context.Context, input any) (map[string]any, error) {
	in := input.(*Input)

	modifiers := []any{
		map[string]any{
			"type":      "armor",
			"id":        "minecraft:armor." + in.Slot,
			"slot":      in.Slot,
			"amount":    in.Armor,
			"operation": "add_value",
		},
	}
	if in.Toughness != nil {
		modifiers = append(modifiers, map[string]any{
			"type":      "armor_toughness",
			"id":        "minecraft:armor_toughness." + in.Slot,
			"slot":      in.Slot,
			"amount":    *in.Toughness,
			"operation": "add_value",
		})
	}

	return map[string]any{"attribute_modifiers": modifiers}, nil
}

// PostRender makes the piece wearable: a definition that declared no
// equippable component of its own gets one for the declared slot. Runs over
// the full output so an explicit equippable declaration always wins.
func PostRender(ctx context.Context, input any, output map[string]any) {
	in := input.(*Input)
	if _, ok := output["equippable"]; ok {
		return
	}
	output["equippable"] = map[string]any{"slot": in.Slot}
}

// Register registers the handler with the resolver.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterComponent("armor", &registry.Component{
		NewInput:   func() any { return new(Input) },
		InputType:  reflect.TypeOf(Input{}),
		Render:     Render,
		PostRender: PostRender,
	})
}
