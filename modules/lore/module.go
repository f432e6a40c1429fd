package lore

import (
	"context"
	"fmt"
	"reflect"

	"github.com/vk/itemforge/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input accepts the declared lore lines in any mix of bare strings and full
// text component objects.
type Input struct {
	Lines any `cty:"lines"`
}

// Transform is the handler for the 'lore' transformer. Bare strings become
// text components with italics disabled, since the game renders plain lore
// strings in purple italics by default. Object entries pass through untouched.
func Transform(ctx context.Context, input any) (any, error) {
	in := input.(*Input)

	lines, ok := in.Lines.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a list of lore lines, got %T", in.Lines)
	}

	out := make([]any, 0, len(lines))
	for _, line := range lines {
		if s, ok := line.(string); ok {
			out = append(out, map[string]any{"text": s, "italic": false})
			continue
		}
		out = append(out, line)
	}
	return out, nil
}

// Register registers the handler with the resolver.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTransformer("lore", &registry.Transformer{
		NewInput:  func() any { return new(Input) },
		InputType: reflect.TypeOf(Input{}),
		Transform: Transform,
	})
}
