// Package nbt serializes resolved item data into SNBT, the stringified NBT
// syntax used inside give commands and item predicates. Map keys are emitted
// in sorted order so output is stable across runs.
package nbt

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Dump serializes a value into SNBT text.
func Dump(v any) string {
	var b strings.Builder
	writeValue(&b, v)
	return b.String()
}

// ItemString renders the `id[component=value,...]` form used by give
// commands. An item without an id cannot be given, so an empty id is an
// error.
func ItemString(id string, components map[string]any) (string, error) {
	if id == "" {
		return "", errors.New("cannot render a give string for an item without an id")
	}

	keys := make([]string, 0, len(components))
	for k := range components {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+Dump(components[k]))
	}
	return id + "[" + strings.Join(parts, ",") + "]", nil
}

// ConditionalString renders the predicate form matching any item stack
// carrying the given item_id marker, regardless of its other components. An
// empty id matches every item kind.
func ConditionalString(id, itemID string) string {
	if id == "" {
		id = "*"
	}
	return fmt.Sprintf("%s[custom_data~{item_id:'%s'}]", id, itemID)
}

func writeValue(b *strings.Builder, v any) {
	switch val := v.(type) {
	case nil:
		b.WriteString("{}")
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteString("{")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(k)
			b.WriteString(": ")
			writeValue(b, val[k])
		}
		b.WriteString("}")
	case []any:
		b.WriteString("[")
		for i, item := range val {
			if i > 0 {
				b.WriteString(", ")
			}
			writeValue(b, item)
		}
		b.WriteString("]")
	case string:
		b.WriteString("'")
		b.WriteString(strings.ReplaceAll(val, "'", `\'`))
		b.WriteString("'")
	case bool:
		if val {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case int:
		b.WriteString(strconv.Itoa(val))
	case int64:
		b.WriteString(strconv.FormatInt(val, 10))
	case float64:
		b.WriteString(strconv.FormatFloat(val, 'g', -1, 64))
	default:
		fmt.Fprintf(b, "%v", val)
	}
}
