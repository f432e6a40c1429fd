package vanilla

import (
	"sort"

	"github.com/vk/itemforge/internal/validate"
)

// Catalog is a static, in-memory validate.Catalog.
type Catalog struct {
	specs    map[string]*validate.Spec
	required []string
}

// Schema returns the shape spec for a top-level field.
func (c *Catalog) Schema(field string) (*validate.Spec, bool) {
	spec, ok := c.specs[field]
	return spec, ok
}

// Fields returns every known vanilla field name, sorted.
func (c *Catalog) Fields() []string {
	names := make([]string, 0, len(c.specs))
	for name := range c.specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RequiredFields returns the fields every resolved item must carry.
func (c *Catalog) RequiredFields() []string {
	return c.required
}

// spec construction helpers, local shorthand for the literal tables below.

func str() *validate.Spec { return &validate.Spec{Kind: validate.String} }

func boolean() *validate.Spec { return &validate.Spec{Kind: validate.Bool} }

func integer(min, max float64) *validate.Spec {
	return &validate.Spec{Kind: validate.Int, Min: &min, Max: &max}
}

func number() *validate.Spec { return &validate.Spec{Kind: validate.Float} }

func list(elem *validate.Spec) *validate.Spec {
	return &validate.Spec{Kind: validate.List, Elem: elem}
}

func enum(values ...any) *validate.Spec {
	return &validate.Spec{Kind: validate.Enum, Values: values}
}

func union(members ...*validate.Spec) *validate.Spec {
	return &validate.Spec{Kind: validate.Union, Members: members}
}

func object(fields map[string]*validate.Field) *validate.Spec {
	return &validate.Spec{Kind: validate.Struct, Fields: fields}
}

func req(s *validate.Spec) *validate.Field { return &validate.Field{Spec: s, Required: true} }

func opt(s *validate.Spec) *validate.Field { return &validate.Field{Spec: s} }

// textComponent is the accepted shape of user-facing text: a bare string or a
// text component object.
func textComponent() *validate.Spec {
	return union(str(), object(map[string]*validate.Field{
		"text":          req(str()),
		"color":         opt(str()),
		"italic":        opt(boolean()),
		"bold":          opt(boolean()),
		"underlined":    opt(boolean()),
		"strikethrough": opt(boolean()),
		"obfuscated":    opt(boolean()),
	}))
}

func attributeModifier() *validate.Spec {
	return object(map[string]*validate.Field{
		"type":      req(str()),
		"slot":      opt(enum("any", "hand", "armor", "mainhand", "offhand", "head", "chest", "legs", "feet", "body")),
		"id":        req(str()),
		"amount":    req(number()),
		"operation": req(enum("add_value", "add_multiplied_base", "add_multiplied_total")),
	})
}

// Default returns the catalog of supported vanilla item fields. Shapes follow
// the game's component registry; unknown vanilla fields simply are not listed
// and surface as non-existent components with suggestions.
func Default() *Catalog {
	specs := map[string]*validate.Spec{
		"item_name":   textComponent(),
		"custom_name": textComponent(),
		"lore":        list(textComponent()),
		"rarity":      enum("common", "uncommon", "rare", "epic"),

		"max_stack_size": integer(1, 99),
		"max_damage":     integer(1, 2147483647),
		"damage":         integer(0, 2147483647),
		"repair_cost":    integer(0, 2147483647),

		"dyed_color":                 integer(0, 16777215),
		"unbreakable":                boolean(),
		"enchantment_glint_override": boolean(),
		"glider":                     boolean(),
		"item_model":                 str(),

		"custom_model_data": object(map[string]*validate.Field{
			"floats":  opt(list(number())),
			"flags":   opt(list(boolean())),
			"strings": opt(list(str())),
			"colors":  opt(list(integer(0, 16777215))),
		}),

		"attribute_modifiers": list(attributeModifier()),

		"food": object(map[string]*validate.Field{
			"nutrition":      req(integer(0, 2147483647)),
			"saturation":     req(number()),
			"can_always_eat": opt(boolean()),
		}),

		"consumable": object(map[string]*validate.Field{
			"consume_seconds":       opt(number()),
			"animation":             opt(enum("none", "eat", "drink", "block", "bow", "spear", "crossbow", "spyglass", "toot_horn", "brush")),
			"sound":                 opt(str()),
			"has_consume_particles": opt(boolean()),
		}),

		"use_cooldown": object(map[string]*validate.Field{
			"seconds":        req(number()),
			"cooldown_group": opt(str()),
		}),

		"equippable": object(map[string]*validate.Field{
			"slot":        req(enum("head", "chest", "legs", "feet", "body", "mainhand", "offhand")),
			"model":       opt(str()),
			"dispensable": opt(boolean()),
			"swappable":   opt(boolean()),
		}),

		"weapon": object(map[string]*validate.Field{
			"item_damage_per_attack":       opt(integer(0, 2147483647)),
			"disable_blocking_for_seconds": opt(number()),
		}),

		"tool": object(map[string]*validate.Field{
			"default_mining_speed":           opt(number()),
			"damage_per_block":               opt(integer(0, 2147483647)),
			"can_destroy_blocks_in_creative": opt(boolean()),
		}),

		"repairable": object(map[string]*validate.Field{
			"items": req(union(str(), list(str()))),
		}),

		// enchantments maps arbitrary enchantment ids to levels; there is no
		// closed field table to check against.
		"enchantments": &validate.Spec{Kind: validate.Any},

		"tooltip_display": object(map[string]*validate.Field{
			"hide_tooltip":      opt(boolean()),
			"hidden_components": opt(list(str())),
		}),
	}

	return &Catalog{specs: specs}
}
