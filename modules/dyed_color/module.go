package dyed_color

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/vk/itemforge/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input accepts the declared color as a CSS-style hex string, with or without
// the leading '#'.
type Input struct {
	Color string `cty:"color"`
}

// Transform is the handler for the 'dyed_color' transformer. The game encodes
// dye colors as packed RGB integers, so the declared hex string is replaced
// with its integer value.
func Transform(ctx context.Context, input any) (any, error) {
	in := input.(*Input)

	hex := strings.TrimPrefix(in.Color, "#")
	if len(hex) != 6 {
		return nil, fmt.Errorf("expected a 6-digit hex color, got %q", in.Color)
	}

	rgb, err := strconv.ParseInt(hex, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid hex color %q: %w", in.Color, err)
	}
	return rgb, nil
}

// Register registers the handler with the resolver.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTransformer("dyed_color", &registry.Transformer{
		NewInput:  func() any { return new(Input) },
		InputType: reflect.TypeOf(Input{}),
		Transform: Transform,
	})
}
