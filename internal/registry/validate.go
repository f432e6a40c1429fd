package registry

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/vk/itemforge/internal/ctxlog"
)

// FieldNamer is the slice of the vanilla catalog the registry needs for its
// startup checks.
type FieldNamer interface {
	Fields() []string
}

// Validate performs a strict startup check over every registered handler: the
// input struct must expose at least one `cty`-tagged field, tags must be
// well-formed, and a component kind must not shadow a vanilla field name
// (components replace their attribute entirely, so shadowing would silently
// swallow vanilla data). Transformers bind to existing fields, so for them
// shadowing is the point, not a fault.
func (r *Registry) Validate(ctx context.Context, vanilla FieldNamer) error {
	logger := ctxlog.FromContext(ctx)

	vanillaSet := make(map[string]struct{})
	for _, name := range vanilla.Fields() {
		vanillaSet[name] = struct{}{}
	}

	var errs []string

	for kind, c := range r.components {
		if _, shadows := vanillaSet[kind]; shadows {
			errs = append(errs, fmt.Sprintf("component '%s': kind name shadows a vanilla field", kind))
		}
		if msg := checkInputType(kind, c.InputType); msg != "" {
			errs = append(errs, msg)
		}
	}

	for kind, t := range r.transformers {
		if msg := checkInputType(kind, t.InputType); msg != "" {
			errs = append(errs, msg)
		}
		if _, known := vanillaSet[kind]; !known {
			logger.Warn("Transformer kind does not match any vanilla field; it will only fire on custom attributes.", "kind", kind)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	return nil
}

func checkInputType(kind string, inputType reflect.Type) string {
	if inputType == nil || inputType.Kind() != reflect.Struct {
		return fmt.Sprintf("handler '%s': InputType must be a struct type", kind)
	}

	tagged := 0
	for i := 0; i < inputType.NumField(); i++ {
		field := inputType.Field(i)
		if !field.IsExported() {
			continue
		}
		tag := field.Tag.Get("cty")
		tagName := strings.Split(tag, ",")[0]
		if tagName == "" || tagName == "-" {
			continue
		}
		tagged++
	}

	if tagged == 0 {
		return fmt.Sprintf("handler '%s': input struct %s declares no cty-tagged fields", kind, inputType)
	}
	return ""
}
