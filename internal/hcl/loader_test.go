package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/itemforge/internal/config"
)

// loadString writes content to a temp .hcl file and runs the loader on it.
func loadString(t *testing.T, content string) (*config.Model, config.Converter, error) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "items.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return NewLoader().Load(context.Background(), path)
}

func TestLoad(t *testing.T) {
	t.Run("single item with attributes", func(t *testing.T) {
		model, conv, err := loadString(t, `
item "dart" {
  id = "minecraft:arrow"

  components {
    item_name      = "Dart"
    max_stack_size = 16
  }
}
`)
		require.NoError(t, err)
		require.NotNil(t, conv)
		require.Len(t, model.Order, 1)

		def := model.Definitions["dart"]
		require.NotNil(t, def)
		assert.Equal(t, "minecraft:arrow", def.ID)
		assert.Empty(t, def.Parent)
		require.Len(t, def.Attributes, 2)

		// declaration order is preserved
		assert.Equal(t, "item_name", def.Attributes[0].Name)
		assert.Equal(t, "max_stack_size", def.Attributes[1].Name)
		assert.Equal(t, cty.StringVal("Dart"), def.Attributes[0].Value)
	})

	t.Run("source records carry file, line, and raw text", func(t *testing.T) {
		model, _, err := loadString(t, `item "dart" {
  components {
    item_name = "Dart"
  }
}
`)
		require.NoError(t, err)

		src := model.Definitions["dart"].Attributes[0].Source
		require.NotNil(t, src)
		assert.Equal(t, "dart", src.Definition)
		assert.Equal(t, 3, src.Line)
		assert.Contains(t, src.Filename, "items.hcl")
		assert.Equal(t, `"Dart"`, src.Raw)
	})

	t.Run("inheritance link", func(t *testing.T) {
		model, _, err := loadString(t, `
item "weapon" {
  components {
    unbreakable = true
  }
}

item "sword" {
  inherits = "weapon"
}
`)
		require.NoError(t, err)
		assert.Equal(t, []string{"weapon", "sword"}, model.Order)
		assert.Equal(t, "weapon", model.Definitions["sword"].Parent)
	})

	t.Run("scoped transformer blocks", func(t *testing.T) {
		model, _, err := loadString(t, `
item "glowstick" {
  components {
    brightness = 10
  }

  transformer "brightness" {
    render = value
  }
}
`)
		require.NoError(t, err)

		def := model.Definitions["glowstick"]
		require.Len(t, def.Transformers, 1)
		assert.Equal(t, "brightness", def.Transformers[0].Name)
		assert.NotNil(t, def.Transformers[0].Render)
		assert.Equal(t, "glowstick", def.Transformers[0].Source.Definition)
	})

	t.Run("item without components block", func(t *testing.T) {
		model, _, err := loadString(t, `item "bare" {}`)
		require.NoError(t, err)
		assert.Empty(t, model.Definitions["bare"].Attributes)
	})

	t.Run("non-snake-case name is rejected with suggestion", func(t *testing.T) {
		_, _, err := loadString(t, `item "FireSword" {}`)
		require.Error(t, err)
		assert.ErrorContains(t, err, "must be defined in snake_case")
		assert.ErrorContains(t, err, `"fire_sword"`)
	})

	t.Run("duplicate definitions are fatal", func(t *testing.T) {
		_, _, err := loadString(t, `
item "dart" {}
item "dart" {}
`)
		require.Error(t, err)
		var dupErr *config.DuplicateDefinitionError
		require.ErrorAs(t, err, &dupErr)
		assert.Equal(t, "dart", dupErr.Name)
	})

	t.Run("syntax errors are fatal", func(t *testing.T) {
		_, _, err := loadString(t, `item "dart" { components {`)
		require.Error(t, err)
		assert.ErrorContains(t, err, "failed to parse")
	})

	t.Run("directory discovery walks recursively and deduplicates", func(t *testing.T) {
		dir := t.TempDir()
		sub := filepath.Join(dir, "weapons")
		require.NoError(t, os.Mkdir(sub, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "a.hcl"), []byte(`item "apple" {}`), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(sub, "b.hcl"), []byte(`item "blade" {}`), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(`ignored`), 0644))

		model, _, err := NewLoader().Load(context.Background(), dir, filepath.Join(dir, "a.hcl"))
		require.NoError(t, err)
		assert.Len(t, model.Order, 2)
	})

	t.Run("missing path is an error", func(t *testing.T) {
		_, _, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "nope"))
		require.Error(t, err)
		assert.ErrorContains(t, err, "cannot access items path")
	})
}

func TestTitleToSnake(t *testing.T) {
	cases := map[string]string{
		"FireSword":  "fire_sword",
		"fireSword":  "fire_sword",
		"Dart":       "dart",
		"dart":       "dart",
		"HTTPThing":  "h_t_t_p_thing",
		"fire_sword": "fire_sword",
	}
	for in, want := range cases {
		assert.Equal(t, want, titleToSnake(in), "input %q", in)
	}
}
