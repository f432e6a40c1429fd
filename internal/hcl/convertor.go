package hcl

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/vk/itemforge/internal/config"
	"github.com/vk/itemforge/internal/ctxlog"
)

// Converter is the HCL-specific implementation of the config.Converter
// interface. Handler input structs declare their field shape with `cty` tags;
// a field is optional when its tag carries ",optional" or its Go type is a
// pointer.
type Converter struct{}

// NewConverter creates a new HCL converter.
func NewConverter() *Converter {
	return &Converter{}
}

// inputField is the reflected view of one declared field on an input struct.
type inputField struct {
	name     string
	optional bool
	value    reflect.Value
}

// DecodeInput populates inputStruct from a raw attribute value. All field
// failures are collected into a single *config.FieldDecodeError so one pass
// reports every problem at once.
func (c *Converter) DecodeInput(ctx context.Context, inputStruct any, value cty.Value) error {
	logger := ctxlog.FromContext(ctx)

	structVal := reflect.ValueOf(inputStruct)
	if structVal.Kind() != reflect.Ptr || structVal.IsNil() {
		return fmt.Errorf("inputStruct must be a non-nil pointer")
	}
	structVal = structVal.Elem()
	structType := structVal.Type()

	fields := make([]*inputField, 0, structType.NumField())
	byName := make(map[string]*inputField)
	for i := 0; i < structType.NumField(); i++ {
		fieldDef := structType.Field(i)
		fieldVal := structVal.Field(i)
		if !fieldDef.IsExported() || !fieldVal.CanSet() {
			continue
		}

		tag := fieldDef.Tag.Get("cty")
		parts := strings.Split(tag, ",")
		name := parts[0]
		if name == "" || name == "-" {
			continue
		}

		f := &inputField{
			name:     name,
			optional: fieldDef.Type.Kind() == reflect.Ptr,
			value:    fieldVal,
		}
		for _, opt := range parts[1:] {
			if opt == "optional" {
				f.optional = true
			}
		}
		fields = append(fields, f)
		byName[name] = f
	}

	var fieldErrs []*config.FieldError

	if value.IsNull() || !value.IsKnown() {
		fieldErrs = c.missingRequired(fields, nil)
		return asDecodeError(fieldErrs)
	}

	ty := value.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		// Scalar shorthand: a single-field handler accepts the bare value in
		// place of a one-key object, e.g. `dyed_color = "#ff0000"`.
		if len(fields) == 1 {
			if err := c.decode(ctx, value, fields[0].value); err != nil {
				fieldErrs = append(fieldErrs, &config.FieldError{
					Name:     fields[0].name,
					Value:    nativeOrNil(value),
					Expected: expectedName(fields[0].value.Type()),
					Msg:      err.Error(),
				})
			}
			return asDecodeError(fieldErrs)
		}
		return asDecodeError([]*config.FieldError{{
			Name:     "",
			Value:    nativeOrNil(value),
			Expected: "object",
			Msg:      fmt.Sprintf("expected an object with fields %s, got %s", fieldNames(fields), ty.FriendlyName()),
		}})
	}

	attrMap := map[string]cty.Value{}
	if value.LengthInt() > 0 {
		attrMap = value.AsValueMap()
	}

	present := make(map[string]struct{}, len(attrMap))
	for name, attrVal := range attrMap {
		f, ok := byName[name]
		if !ok {
			fieldErrs = append(fieldErrs, &config.FieldError{
				Name:     name,
				Value:    nativeOrNil(attrVal),
				Expected: "no such field",
				Msg:      fmt.Sprintf("unexpected field %q, valid fields: %s", name, fieldNames(fields)),
			})
			continue
		}
		present[name] = struct{}{}

		if attrVal.IsNull() {
			if !f.optional {
				fieldErrs = append(fieldErrs, missingField(f))
			}
			continue
		}

		if err := c.decode(ctx, attrVal, f.value); err != nil {
			logger.Debug("Input field failed to decode.", "field", name, "error", err)
			fieldErrs = append(fieldErrs, &config.FieldError{
				Name:     name,
				Value:    nativeOrNil(attrVal),
				Expected: expectedName(f.value.Type()),
				Msg:      err.Error(),
			})
		}
	}

	fieldErrs = append(fieldErrs, c.missingRequired(fields, present)...)
	return asDecodeError(fieldErrs)
}

// missingRequired reports every required field without a supplied value.
func (c *Converter) missingRequired(fields []*inputField, present map[string]struct{}) []*config.FieldError {
	var errs []*config.FieldError
	for _, f := range fields {
		if f.optional {
			continue
		}
		if _, ok := present[f.name]; !ok {
			errs = append(errs, missingField(f))
		}
	}
	return errs
}

func missingField(f *inputField) *config.FieldError {
	return &config.FieldError{
		Name:     f.name,
		Expected: expectedName(f.value.Type()),
		Missing:  true,
		Msg:      fmt.Sprintf("missing required field %q (%s)", f.name, expectedName(f.value.Type())),
	}
}

// decode converts a cty.Value into one Go struct field.
func (c *Converter) decode(ctx context.Context, val cty.Value, target reflect.Value) error {
	targetType := target.Type()

	// Pointer fields are allocated on demand so optional values stay nil
	// when absent.
	if targetType.Kind() == reflect.Ptr {
		elem := reflect.New(targetType.Elem())
		if err := c.decode(ctx, val, elem.Elem()); err != nil {
			return err
		}
		target.Set(elem)
		return nil
	}

	// Fields declared as cty.Value receive the raw value untouched. Handlers
	// use this when they accept more than one input shape.
	if targetType == reflect.TypeOf(cty.Value{}) {
		target.Set(reflect.ValueOf(val))
		return nil
	}

	// Fields declared as `any` receive the native Go representation.
	if targetType.Kind() == reflect.Interface && targetType.NumMethod() == 0 {
		native, err := ctyToNative(val)
		if err != nil {
			return err
		}
		if native != nil {
			target.Set(reflect.ValueOf(native))
		}
		return nil
	}

	impliedType, err := gocty.ImpliedType(target.Interface())
	if err != nil {
		return gocty.FromCtyValue(val, target.Addr().Interface())
	}

	convertedVal, err := convert.Convert(val, impliedType)
	if err != nil {
		return fmt.Errorf("cannot convert %s to required type %s: %w",
			val.Type().FriendlyName(), impliedType.FriendlyName(), err)
	}

	return gocty.FromCtyValue(convertedVal, target.Addr().Interface())
}

// ToNative converts a raw attribute value into plain Go data.
func (c *Converter) ToNative(value cty.Value) (any, error) {
	return ctyToNative(value)
}

// ToCtyValue converts a native Go value into its corresponding cty.Value.
func (c *Converter) ToCtyValue(v any) (cty.Value, error) {
	if v == nil {
		return cty.NilVal, nil
	}
	ty, err := gocty.ImpliedType(v)
	if err != nil {
		return cty.NilVal, fmt.Errorf("unable to infer cty.Type: %w", err)
	}
	return gocty.ToCtyValue(v, ty)
}

func asDecodeError(fieldErrs []*config.FieldError) error {
	if len(fieldErrs) == 0 {
		return nil
	}
	return &config.FieldDecodeError{Fields: fieldErrs}
}

func expectedName(t reflect.Type) string {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == reflect.TypeOf(cty.Value{}) {
		return "any"
	}
	return t.String()
}

func fieldNames(fields []*inputField) string {
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.name)
	}
	return "[" + strings.Join(names, ", ") + "]"
}

func nativeOrNil(v cty.Value) any {
	native, err := ctyToNative(v)
	if err != nil {
		return nil
	}
	return native
}
