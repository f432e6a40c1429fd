package validate

import (
	"fmt"
	"math"
	"sort"

	"github.com/vk/itemforge/internal/config"
	"github.com/vk/itemforge/internal/itemerr"
)

// exempt lists output fields that carry free-form data and skip validation.
var exempt = map[string]struct{}{
	"custom_data": {},
	"count":       {},
}

// Output validates every top-level field of a resolved item output against
// the catalog. kinds is the set of registered handler kind names, fed into
// the suggestion search together with the catalog's field names. sources maps
// top-level output fields to the attribute that produced them; defSource
// localizes definition-level errors.
func Output(output map[string]any, catalog Catalog, kinds []string, sources map[string]*config.SourceRecord, defSource *config.SourceRecord) []error {
	var errs []error

	candidates := append(catalog.Fields(), kinds...)

	names := make([]string, 0, len(output))
	for name := range output {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, ok := exempt[name]; ok {
			continue
		}

		spec, ok := catalog.Schema(name)
		if !ok {
			errs = append(errs, &itemerr.ComponentError{
				Kind:        itemerr.NonExistentComponent,
				Name:        name,
				Value:       output[name],
				Source:      sources[name],
				Suggestions: itemerr.Suggest(name, candidates),
			})
			continue
		}

		if err := value(name, output[name], spec, sources[name]); err != nil {
			errs = append(errs, err)
		}
	}

	for _, name := range catalog.RequiredFields() {
		if _, present := output[name]; present {
			continue
		}
		spec, _ := catalog.Schema(name)
		expected := "value"
		if spec != nil {
			expected = spec.Describe()
		}
		errs = append(errs, &itemerr.ValidationError{
			Kind:     itemerr.MissingField,
			Name:     name,
			Expected: expected,
			Source:   defSource,
		})
	}

	return errs
}

// value checks a single value against a spec, returning nil on success or a
// ValidationError whose suberror chain names the deepest failing paths.
func value(name string, v any, spec *Spec, src *config.SourceRecord) error {
	if spec == nil || spec.Kind == Any {
		return nil
	}

	switch spec.Kind {
	case String:
		if _, ok := v.(string); !ok {
			return typeError(name, v, spec, src, nil)
		}

	case Int:
		n, ok := asInt(v)
		if !ok {
			return typeError(name, v, spec, src, nil)
		}
		if msg := checkRange(float64(n), spec); msg != "" {
			return &itemerr.ValidationError{
				Kind: itemerr.UnexpectedType, Name: name, Value: v,
				Expected: spec.Describe(), Source: src, Msg: msg,
			}
		}

	case Float:
		f, ok := asFloat(v)
		if !ok {
			return typeError(name, v, spec, src, nil)
		}
		if msg := checkRange(f, spec); msg != "" {
			return &itemerr.ValidationError{
				Kind: itemerr.UnexpectedType, Name: name, Value: v,
				Expected: spec.Describe(), Source: src, Msg: msg,
			}
		}

	case Bool:
		if _, ok := v.(bool); !ok {
			return typeError(name, v, spec, src, nil)
		}

	case List:
		list, ok := v.([]any)
		if !ok {
			return typeError(name, v, spec, src, nil)
		}
		if msg := checkRange(float64(len(list)), spec); msg != "" {
			return &itemerr.ValidationError{
				Kind: itemerr.UnexpectedType, Name: name, Value: v,
				Expected: spec.Describe(), Source: src,
				Msg: "list length " + msg,
			}
		}
		var subs []error
		for i, item := range list {
			if err := value(fmt.Sprintf("%s[%d]", name, i), item, spec.Elem, src); err != nil {
				subs = append(subs, err)
			}
		}
		if len(subs) > 0 {
			return typeError(name, v, spec, src, subs)
		}

	case Struct:
		obj, ok := v.(map[string]any)
		if !ok {
			return typeError(name, v, spec, src, nil)
		}

		var subs []error

		fieldNames := make([]string, 0, len(spec.Fields))
		for fieldName := range spec.Fields {
			fieldNames = append(fieldNames, fieldName)
		}
		sort.Strings(fieldNames)

		for _, fieldName := range fieldNames {
			field := spec.Fields[fieldName]
			sub, present := obj[fieldName]
			if !present {
				if field.Required {
					subs = append(subs, &itemerr.ValidationError{
						Kind:     itemerr.MissingField,
						Name:     fieldName,
						Expected: field.Spec.Describe(),
						Source:   src,
					})
				}
				continue
			}
			if err := value(fieldName, sub, field.Spec, src); err != nil {
				subs = append(subs, err)
			}
		}

		extras := make([]string, 0)
		for key := range obj {
			if _, known := spec.Fields[key]; !known {
				extras = append(extras, key)
			}
		}
		sort.Strings(extras)
		for _, key := range extras {
			subs = append(subs, &itemerr.ValidationError{
				Kind: itemerr.UnexpectedType, Name: key, Value: obj[key],
				Expected: "no such field", Source: src,
				Msg: fmt.Sprintf("unexpected field %q", key),
			})
		}

		if len(subs) > 0 {
			return typeError(name, v, spec, src, subs)
		}

	case Enum:
		for _, allowed := range spec.Values {
			if looseEqual(v, allowed) {
				return nil
			}
		}
		return typeError(name, v, spec, src, nil)

	case Union:
		var subs []error
		for _, member := range spec.Members {
			err := value(name, v, member, src)
			if err == nil {
				return nil
			}
			subs = append(subs, err)
		}
		return &itemerr.ValidationError{
			Kind: itemerr.UnexpectedType, Name: name, Value: v,
			Expected: spec.Describe(), Source: src, Suberrors: subs,
			Msg: fmt.Sprintf("value matches none of %d union members", len(spec.Members)),
		}
	}

	return nil
}

func typeError(name string, v any, spec *Spec, src *config.SourceRecord, subs []error) error {
	return &itemerr.ValidationError{
		Kind:      itemerr.UnexpectedType,
		Name:      name,
		Value:     v,
		Expected:  spec.Describe(),
		Source:    src,
		Suberrors: subs,
	}
}

func checkRange(f float64, spec *Spec) string {
	if spec.Min != nil && f < *spec.Min {
		return fmt.Sprintf("%v is less than minimum %v", f, *spec.Min)
	}
	if spec.Max != nil && f > *spec.Max {
		return fmt.Sprintf("%v is greater than maximum %v", f, *spec.Max)
	}
	return ""
}

func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n == math.Trunc(n) {
			return int64(n), true
		}
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func looseEqual(a, b any) bool {
	if a == b {
		return true
	}
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	return aok && bok && af == bf
}
