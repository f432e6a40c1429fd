package config

import (
	"context"

	"github.com/zclconf/go-cty/cty"
)

// Loader is the interface for a format-specific item file loader.
type Loader interface {
	// Load reads item declarations from the given paths, translates them into
	// the format-agnostic model, and returns a matching Converter.
	Load(ctx context.Context, paths ...string) (*Model, Converter, error)
}

// Converter is the interface for a format-specific data binding
// implementation. It bridges raw attribute values and the Go structs that
// handler modules declare their field shapes with.
type Converter interface {
	// DecodeInput populates a handler's input struct from a raw attribute
	// value, checking the declared field shape. Shape mismatches are reported
	// through a *FieldDecodeError carrying one entry per failing field.
	DecodeInput(ctx context.Context, inputStruct any, value cty.Value) error

	// ToNative converts a raw attribute value into its plain Go
	// representation (nested map[string]any / []any / scalars).
	ToNative(value cty.Value) (any, error)

	// ToCtyValue converts a native Go value into its equivalent cty.Value.
	ToCtyValue(v any) (cty.Value, error)
}

// FieldError describes a single failing field inside a handler input value.
// Missing distinguishes an absent required field from a present-but-mistyped
// one.
type FieldError struct {
	Name     string
	Value    any
	Expected string
	Missing  bool
	Msg      string
}

func (e *FieldError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "field '" + e.Name + "': expected " + e.Expected
}

// FieldDecodeError aggregates every failing field of one handler input so a
// single resolution pass reports all of them at once.
type FieldDecodeError struct {
	Fields []*FieldError
}

func (e *FieldDecodeError) Error() string {
	if len(e.Fields) == 1 {
		return e.Fields[0].Error()
	}
	msg := "input has invalid fields:"
	for _, f := range e.Fields {
		msg += "\n  " + f.Error()
	}
	return msg
}
