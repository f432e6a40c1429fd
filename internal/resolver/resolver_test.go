package resolver

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/itemforge/internal/config"
	"github.com/vk/itemforge/internal/hcl"
	"github.com/vk/itemforge/internal/itemerr"
	"github.com/vk/itemforge/internal/registry"
	"github.com/vk/itemforge/internal/validate"
	"github.com/vk/itemforge/internal/vanilla"
	"github.com/vk/itemforge/modules/dyed_color"
	"github.com/vk/itemforge/modules/on_use"
)

// loadItems parses an in-memory item file through the real HCL loader.
func loadItems(t *testing.T, src string) (*config.Model, config.Converter) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "items.hcl")
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))

	model, conv, err := hcl.NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	return model, conv
}

func newTestResolver(t *testing.T, src string, modules ...registry.Module) *Resolver {
	t.Helper()
	model, conv := loadItems(t, src)

	reg := registry.New()
	for _, mod := range modules {
		mod.Register(reg)
	}

	r, err := New(model, reg, conv, vanilla.Default())
	require.NoError(t, err)
	return r
}

func resolveOK(t *testing.T, r *Resolver, name string) map[string]any {
	t.Helper()
	output, report, err := r.Resolve(context.Background(), name)
	require.NoError(t, err)
	if report != nil {
		t.Fatalf("item %q failed: %s\n%s", name, report.Summary(), report.Tree())
	}
	return output
}

func resolveFailed(t *testing.T, r *Resolver, name string) *itemerr.Report {
	t.Helper()
	output, report, err := r.Resolve(context.Background(), name)
	require.NoError(t, err)
	require.Nil(t, output)
	require.NotNil(t, report, "item %q resolved cleanly, expected failures", name)
	return report
}

// chargeInput drives the counting component used by the cache tests.
type chargeInput struct {
	Level int64 `cty:"level"`
}

// countingComponent renders max_damage from its level and counts render calls.
type countingComponent struct {
	renders atomic.Int64
	noCache bool
}

func (m *countingComponent) Register(r *registry.Registry) {
	r.RegisterComponent("charge", &registry.Component{
		NewInput:  func() any { return new(chargeInput) },
		InputType: reflect.TypeOf(chargeInput{}),
		NoCache:   m.noCache,
		Render: func(ctx context.Context, input any) (map[string]any, error) {
			m.renders.Add(1)
			in := input.(*chargeInput)
			return map[string]any{"max_damage": in.Level * 10}, nil
		},
	})
}

func TestResolveIdentityPassthrough(t *testing.T) {
	r := newTestResolver(t, `
item "dart" {
  components {
    item_name      = "Dart"
    max_stack_size = 16
    unbreakable    = true
  }
}
`)

	output := resolveOK(t, r, "dart")

	assert.Equal(t, map[string]any{
		"item_name":      "Dart",
		"max_stack_size": int64(16),
		"unbreakable":    true,
		"custom_data":    map[string]any{"item_id": "dart"},
	}, output)
}

func TestResolveUnknownDefinition(t *testing.T) {
	r := newTestResolver(t, `item "dart" {}`)

	_, _, err := r.Resolve(context.Background(), "missing")
	assert.ErrorContains(t, err, `unknown item definition "missing"`)
}

func TestResolveInheritance(t *testing.T) {
	r := newTestResolver(t, `
item "weapon" {
  components {
    unbreakable    = true
    max_stack_size = 1
    rarity         = "common"
  }
}

item "sword" {
  inherits = "weapon"

  components {
    rarity = "rare"
  }
}
`)

	t.Run("child overrides, parent fills the rest", func(t *testing.T) {
		parent := resolveOK(t, r, "weapon")
		child := resolveOK(t, r, "sword")

		assert.Equal(t, "rare", child["rarity"])
		assert.Equal(t, parent["unbreakable"], child["unbreakable"])
		assert.Equal(t, parent["max_stack_size"], child["max_stack_size"])
	})

	t.Run("item_id is the definition's own name", func(t *testing.T) {
		child := resolveOK(t, r, "sword")
		assert.Equal(t, map[string]any{"item_id": "sword"}, child["custom_data"])
	})
}

func TestResolveNullSubtractsInheritedAttribute(t *testing.T) {
	r := newTestResolver(t, `
item "weapon" {
  components {
    unbreakable = true
    rarity      = "rare"
  }
}

item "training_sword" {
  inherits = "weapon"

  components {
    unbreakable = null
  }
}
`)

	output := resolveOK(t, r, "training_sword")
	assert.NotContains(t, output, "unbreakable")
	assert.Equal(t, "rare", output["rarity"])
}

func TestResolvePrivateAttributesExcluded(t *testing.T) {
	r := newTestResolver(t, `
item "dart" {
  components {
    _notes    = "internal scribbles"
    item_name = "Dart"
  }
}
`)

	output := resolveOK(t, r, "dart")
	assert.NotContains(t, output, "_notes")
	assert.Equal(t, "Dart", output["item_name"])
}

func TestResolveCaching(t *testing.T) {
	t.Run("cacheable handler renders exactly once", func(t *testing.T) {
		comp := &countingComponent{}
		r := newTestResolver(t, `
item "battery" {
  components {
    charge = { level = 5 }
  }
}
`, comp)

		first := resolveOK(t, r, "battery")
		second := resolveOK(t, r, "battery")

		assert.Equal(t, int64(1), comp.renders.Load())
		assert.Equal(t, first, second)
		assert.Equal(t, int64(50), first["max_damage"])
	})

	t.Run("returned output is a private copy", func(t *testing.T) {
		comp := &countingComponent{}
		r := newTestResolver(t, `
item "battery" {
  components {
    charge = { level = 5 }
  }
}
`, comp)

		first := resolveOK(t, r, "battery")
		first["max_damage"] = int64(0)
		first["custom_data"].(map[string]any)["item_id"] = "tampered"

		second := resolveOK(t, r, "battery")
		assert.Equal(t, int64(50), second["max_damage"])
		assert.Equal(t, "battery", second["custom_data"].(map[string]any)["item_id"])
	})

	t.Run("volatile handler re-renders on warm access", func(t *testing.T) {
		comp := &countingComponent{noCache: true}
		r := newTestResolver(t, `
item "battery" {
  components {
    charge = { level = 5 }
  }
}
`, comp)

		resolveOK(t, r, "battery")
		afterFirst := comp.renders.Load()

		resolveOK(t, r, "battery")
		afterSecond := comp.renders.Load()

		assert.Greater(t, afterSecond, afterFirst)
	})
}

func TestResolveComponentMerging(t *testing.T) {
	registerFragment := func(kind string, fragment map[string]any) registry.Module {
		return moduleFunc(func(r *registry.Registry) {
			r.RegisterComponent(kind, &registry.Component{
				NewInput:  func() any { return new(chargeInput) },
				InputType: reflect.TypeOf(chargeInput{}),
				Render: func(ctx context.Context, input any) (map[string]any, error) {
					return fragment, nil
				},
			})
		})
	}

	t.Run("disjoint sub-keys under one field both survive", func(t *testing.T) {
		r := newTestResolver(t, `
item "snack" {
  components {
    part_a = { level = 1 }
    part_b = { level = 2 }
  }
}
`,
			registerFragment("part_a", map[string]any{
				"food": map[string]any{"nutrition": int64(4), "saturation": 0.5},
			}),
			registerFragment("part_b", map[string]any{
				"food": map[string]any{"can_always_eat": true},
			}),
		)

		output := resolveOK(t, r, "snack")
		assert.Equal(t, map[string]any{
			"nutrition":      int64(4),
			"saturation":     0.5,
			"can_always_eat": true,
		}, output["food"])
	})

	t.Run("same terminal path, later component wins", func(t *testing.T) {
		r := newTestResolver(t, `
item "snack" {
  components {
    part_a = { level = 1 }
    part_b = { level = 2 }
  }
}
`,
			registerFragment("part_a", map[string]any{"repair_cost": int64(1)}),
			registerFragment("part_b", map[string]any{"repair_cost": int64(2)}),
		)

		output := resolveOK(t, r, "snack")
		assert.Equal(t, int64(2), output["repair_cost"])
	})

	t.Run("handler output overlays passthrough fields", func(t *testing.T) {
		r := newTestResolver(t, `
item "snack" {
  components {
    part_a      = { level = 1 }
    repair_cost = 9
  }
}
`,
			registerFragment("part_a", map[string]any{"repair_cost": int64(1)}),
		)

		output := resolveOK(t, r, "snack")
		assert.Equal(t, int64(1), output["repair_cost"])
	})
}

func TestResolveDartScenario(t *testing.T) {
	r := newTestResolver(t, `
item "dart" {
  id = "minecraft:arrow"

  components {
    item_name = "Dart"
    on_use    = { callback = "~/on_use" }
  }
}
`, &on_use.Module{})

	output := resolveOK(t, r, "dart")

	assert.Equal(t, "Dart", output["item_name"])
	assert.NotContains(t, output, "on_use")
	assert.Equal(t, map[string]any{
		"item_id": "dart",
		"custom_components": map[string]any{
			"on_use": map[string]any{"callback": "~/on_use"},
		},
	}, output["custom_data"])

	id, ok := r.ItemID("dart")
	require.True(t, ok)
	assert.Equal(t, "minecraft:arrow", id)
}

func TestResolveTransformers(t *testing.T) {
	t.Run("registered transformer replaces the value", func(t *testing.T) {
		r := newTestResolver(t, `
item "ruby_rose" {
  components {
    dyed_color = "#ff0000"
  }
}
`, &dyed_color.Module{})

		output := resolveOK(t, r, "ruby_rose")
		assert.Equal(t, int64(16711680), output["dyed_color"])
	})

	t.Run("scoped transformer evaluates its render expression", func(t *testing.T) {
		r := newTestResolver(t, `
item "faded_rose" {
  components {
    dyed_color = 8
  }

  transformer "dyed_color" {
    render = value * 2
  }
}
`, &dyed_color.Module{})

		output := resolveOK(t, r, "faded_rose")
		assert.Equal(t, int64(16), output["dyed_color"])
	})

	t.Run("scoped transformers are inherited", func(t *testing.T) {
		r := newTestResolver(t, `
item "rose" {
  components {
    dyed_color = 8
  }

  transformer "dyed_color" {
    render = value * 2
  }
}

item "big_rose" {
  inherits = "rose"

  components {
    dyed_color = 100
  }
}
`)

		output := resolveOK(t, r, "big_rose")
		assert.Equal(t, int64(200), output["dyed_color"])
	})

	t.Run("transformer yielding nothing passes the raw value through", func(t *testing.T) {
		identity := moduleFunc(func(reg *registry.Registry) {
			reg.RegisterTransformer("rarity", &registry.Transformer{
				NewInput:  func() any { return new(rawValueInput) },
				InputType: reflect.TypeOf(rawValueInput{}),
				Transform: func(ctx context.Context, input any) (any, error) {
					return nil, nil
				},
			})
		})

		r := newTestResolver(t, `
item "dart" {
  components {
    rarity = "epic"
  }
}
`, identity)

		output := resolveOK(t, r, "dart")
		assert.Equal(t, "epic", output["rarity"])
	})
}

func TestResolveErrorAggregation(t *testing.T) {
	t.Run("unknown attribute gets suggestions", func(t *testing.T) {
		r := newTestResolver(t, `
item "dart" {
  components {
    item_nam = "Dart"
  }
}
`)

		report := resolveFailed(t, r, "dart")
		require.Len(t, report.Errors(), 1)

		ce, ok := report.Errors()[0].(*itemerr.ComponentError)
		require.True(t, ok)
		assert.Equal(t, itemerr.NonExistentComponent, ce.Kind)
		assert.Equal(t, "item_nam", ce.Name)
		assert.Contains(t, ce.Suggestions, "item_name")
		require.NotNil(t, ce.Source)
		assert.Equal(t, "dart", ce.Source.Definition)
	})

	t.Run("unknown attribute without near match has no suggestions", func(t *testing.T) {
		r := newTestResolver(t, `
item "dart" {
  components {
    totally_bogus_field = 1
  }
}
`)

		report := resolveFailed(t, r, "dart")
		require.Len(t, report.Errors(), 1)
		ce := report.Errors()[0].(*itemerr.ComponentError)
		assert.Empty(t, ce.Suggestions)
	})

	t.Run("component input failures carry per-field suberrors", func(t *testing.T) {
		r := newTestResolver(t, `
item "dart" {
  components {
    on_use = { callbak = "~/on_use" }
  }
}
`, &on_use.Module{})

		report := resolveFailed(t, r, "dart")
		require.Len(t, report.Errors(), 1)

		ce := report.Errors()[0].(*itemerr.ComponentError)
		assert.Equal(t, itemerr.CustomComponentFailure, ce.Kind)
		require.Len(t, ce.Suberrors, 2) // unknown callbak + missing callback

		var kinds []itemerr.ValidationKind
		for _, sub := range ce.Suberrors {
			kinds = append(kinds, sub.(*itemerr.ValidationError).Kind)
		}
		assert.Contains(t, kinds, itemerr.MissingField)
	})

	t.Run("failures from multiple attributes are all reported", func(t *testing.T) {
		r := newTestResolver(t, `
item "dart" {
  components {
    item_nam    = "Dart"
    unbreakable = "yes"
    rarity      = "legendary"
  }
}
`)

		report := resolveFailed(t, r, "dart")
		assert.Len(t, report.Errors(), 3)
	})

	t.Run("failed definitions are cached too", func(t *testing.T) {
		r := newTestResolver(t, `
item "dart" {
  components {
    item_nam = "Dart"
  }
}
`)

		first := resolveFailed(t, r, "dart")
		second := resolveFailed(t, r, "dart")
		assert.Same(t, first, second)
	})
}

func TestResolveMissingRequiredField(t *testing.T) {
	model, conv := loadItems(t, `
item "dart" {
  components {
    unbreakable = true
  }
}
`)

	catalog := &requiredCatalog{Catalog: vanilla.Default(), required: []string{"item_name"}}
	r, err := New(model, registry.New(), conv, catalog)
	require.NoError(t, err)

	report := resolveFailed(t, r, "dart")
	require.Len(t, report.Errors(), 1)

	ve := report.Errors()[0].(*itemerr.ValidationError)
	assert.Equal(t, itemerr.MissingField, ve.Kind)
	assert.Equal(t, "item_name", ve.Name)
	require.NotNil(t, ve.Source)
	assert.Equal(t, "dart", ve.Source.Definition)
	assert.Contains(t, ve.Source.Filename, "items.hcl")
}

func TestResolveHookInjectedFieldCarriesSource(t *testing.T) {
	mod := moduleFunc(func(r *registry.Registry) {
		r.RegisterComponent("glow", &registry.Component{
			NewInput:  func() any { return new(rawValueInput) },
			InputType: reflect.TypeOf(rawValueInput{}),
			Render: func(ctx context.Context, input any) (map[string]any, error) {
				return map[string]any{"unbreakable": true}, nil
			},
			PostRender: func(ctx context.Context, input any, output map[string]any) {
				// wrong shape on purpose: equippable must be an object
				output["equippable"] = "mainhand"
			},
		})
	})

	r := newTestResolver(t, `
item "lamp" {
  components {
    glow = { value = true }
  }
}
`, mod)

	report := resolveFailed(t, r, "lamp")
	require.Len(t, report.Errors(), 1)

	ve := report.Errors()[0].(*itemerr.ValidationError)
	assert.Equal(t, itemerr.UnexpectedType, ve.Kind)
	assert.Equal(t, "equippable", ve.Name)
	require.NotNil(t, ve.Source)
	assert.Equal(t, "lamp", ve.Source.Definition)
	assert.Contains(t, ve.Source.Filename, "items.hcl")
}

func TestItemID(t *testing.T) {
	r := newTestResolver(t, `
item "weapon" {
  id = "minecraft:stick"
}

item "sword" {
  inherits = "weapon"
}

item "named_sword" {
  inherits = "sword"
  id       = "minecraft:iron_sword"
}

item "mystery" {}
`)

	t.Run("declared id", func(t *testing.T) {
		id, ok := r.ItemID("weapon")
		require.True(t, ok)
		assert.Equal(t, "minecraft:stick", id)
	})

	t.Run("inherited id", func(t *testing.T) {
		id, ok := r.ItemID("sword")
		require.True(t, ok)
		assert.Equal(t, "minecraft:stick", id)
	})

	t.Run("nearest declaration wins", func(t *testing.T) {
		id, ok := r.ItemID("named_sword")
		require.True(t, ok)
		assert.Equal(t, "minecraft:iron_sword", id)
	})

	t.Run("no id anywhere", func(t *testing.T) {
		_, ok := r.ItemID("mystery")
		assert.False(t, ok)
	})

	t.Run("unknown definition", func(t *testing.T) {
		var (
			id string
			ok bool
		)
		assert.NotPanics(t, func() {
			id, ok = r.ItemID("missing")
		})
		assert.False(t, ok)
		assert.Empty(t, id)
	})
}

func TestDebugInspect(t *testing.T) {
	r := newTestResolver(t, `
item "dart" {
  components {
    item_name = "Dart"
    on_use    = { callback = "~/on_use" }
  }
}
`, &on_use.Module{})

	insp, err := r.DebugInspect(context.Background(), "dart")
	require.NoError(t, err)

	assert.Equal(t, []string{"item_name", "on_use"}, insp.AttributeOrder)
	assert.Equal(t, "Dart", insp.RawAttributes["item_name"])
	assert.Contains(t, insp.AppliedHandlers, "on_use")
	assert.Equal(t, "Dart", insp.Output["item_name"])
	assert.Contains(t, insp.Summary, "ok")

	t.Run("unknown definition", func(t *testing.T) {
		_, err := r.DebugInspect(context.Background(), "missing")
		assert.Error(t, err)
	})

	t.Run("failing definition reports instead of output", func(t *testing.T) {
		r := newTestResolver(t, `
item "broken" {
  components {
    item_nam = "typo"
  }
}
`)
		insp, err := r.DebugInspect(context.Background(), "broken")
		require.NoError(t, err)
		assert.Nil(t, insp.Output)
		assert.Contains(t, insp.Summary, "failed")
	})
}

// moduleFunc adapts a function to the registry.Module interface for tests.
type moduleFunc func(r *registry.Registry)

func (f moduleFunc) Register(r *registry.Registry) { f(r) }

// rawValueInput accepts any single value, for transformer stubs.
type rawValueInput struct {
	Value any `cty:"value"`
}

// requiredCatalog wraps the vanilla catalog with a required-field override.
type requiredCatalog struct {
	validate.Catalog
	required []string
}

func (c *requiredCatalog) RequiredFields() []string { return c.required }
