package resolver

import (
	"strings"

	"github.com/vk/itemforge/internal/config"
)

// privatePrefix marks attributes that are never treated as item data.
const privatePrefix = "_"

// discovered is the flattened, filtered view of one definition: the ordered
// attribute set after inheritance overrides, plus the scoped transformers in
// effect for it.
type discovered struct {
	attributes   []*config.Attribute
	transformers map[string]*config.ScopedTransformer
}

// discover flattens a definition's inheritance chain into an ordered
// attribute mapping and applies the exclusion rules. Child definitions
// override parents attribute-by-attribute; an overridden attribute keeps its
// first-declared position but takes the child's value and source record,
// while inherited attributes keep the parent's source record untouched.
func (r *Resolver) discover(def *config.Definition) *discovered {
	d := &discovered{
		transformers: make(map[string]*config.ScopedTransformer),
	}

	index := make(map[string]int)
	for _, ancestor := range r.tree.Chain(def.Name) {
		ancestorDef := r.model.Definitions[ancestor]

		for _, attr := range ancestorDef.Attributes {
			if i, seen := index[attr.Name]; seen {
				d.attributes[i] = attr
				continue
			}
			index[attr.Name] = len(d.attributes)
			d.attributes = append(d.attributes, attr)
		}

		for _, st := range ancestorDef.Transformers {
			d.transformers[st.Name] = st
		}
	}

	kept := d.attributes[:0]
	for _, attr := range d.attributes {
		if excluded(attr) {
			continue
		}
		kept = append(kept, attr)
	}
	d.attributes = kept

	return d
}

// excluded applies the discovery exclusion rules: private-prefixed names
// never become item data, null values are the sanctioned way to subtract an
// inherited attribute, and non-data values (capsule-typed, e.g. an injected
// function handle) are dropped unless the author wrapped the reference in a
// plain mapping.
func excluded(attr *config.Attribute) bool {
	if strings.HasPrefix(attr.Name, privatePrefix) {
		return true
	}
	if attr.Value.IsNull() {
		return true
	}
	if attr.Value.Type().IsCapsuleType() {
		return true
	}
	return false
}
