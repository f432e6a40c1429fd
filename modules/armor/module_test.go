package armor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/itemforge/internal/registry"
)

func TestRender(t *testing.T) {
	ctx := context.Background()

	t.Run("armor only", func(t *testing.T) {
		got, err := Render(ctx, &Input{Armor: 3, Slot: "chest"})
		require.NoError(t, err)

		modifiers := got["attribute_modifiers"].([]any)
		require.Len(t, modifiers, 1)

		m := modifiers[0].(map[string]any)
		assert.Equal(t, "armor", m["type"])
		assert.Equal(t, "chest", m["slot"])
		assert.Equal(t, 3.0, m["amount"])
	})

	t.Run("with toughness", func(t *testing.T) {
		toughness := 2.0
		got, err := Render(ctx, &Input{Armor: 8, Toughness: &toughness, Slot: "legs"})
		require.NoError(t, err)

		modifiers := got["attribute_modifiers"].([]any)
		require.Len(t, modifiers, 2)
		assert.Equal(t, "armor_toughness", modifiers[1].(map[string]any)["type"])
	})
}

func TestPostRender(t *testing.T) {
	ctx := context.Background()
	input := &Input{Armor: 3, Slot: "head"}

	t.Run("injects equippable when absent", func(t *testing.T) {
		output := map[string]any{}
		PostRender(ctx, input, output)

		assert.Equal(t, map[string]any{"slot": "head"}, output["equippable"])
	})

	t.Run("explicit equippable wins", func(t *testing.T) {
		explicit := map[string]any{"slot": "head", "swappable": false}
		output := map[string]any{"equippable": explicit}
		PostRender(ctx, input, output)

		assert.Equal(t, explicit, output["equippable"])
	})
}

func TestRegister(t *testing.T) {
	r := registry.New()
	(&Module{}).Register(r)

	c, ok := r.Component("armor")
	require.True(t, ok)
	assert.NotNil(t, c.PostRender)
}
