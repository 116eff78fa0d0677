package catalog

import (
	"context"
	"testing"

	"carbwise/internal/portion"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bundledDataset = "../../data/foods.json"

func TestBundledDataset_Loads(t *testing.T) {
	c := New(NewFileLoader(zerolog.Nop()), bundledDataset, zerolog.Nop())
	require.NoError(t, c.Load(context.Background()))

	stats := c.Stats()
	assert.True(t, stats.Loaded)
	assert.GreaterOrEqual(t, stats.Foods, 30)

	rice, err := c.GetByDescription("Rice, white, cooked")
	require.NoError(t, err)
	assert.Equal(t, 158.0, rice.StandardServingGrams)
	assert.Equal(t, 28.0, rice.CarbsPer100g)
}

func TestBundledDataset_CoversDefaultAliases(t *testing.T) {
	c := New(NewFileLoader(zerolog.Nop()), bundledDataset, zerolog.Nop())
	require.NoError(t, c.Load(context.Background()))

	aliases := portion.DefaultAliasTable()
	names := []string{
		"cooked white rice", "brown rice", "apple", "banana", "white bread",
		"whole wheat bread", "spaghetti", "porridge", "baked potato",
		"chicken breast", "boiled egg", "milk", "oj",
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			canonical, ok := aliases.Canonical(name)
			require.True(t, ok)

			_, err := c.GetByDescription(canonical)
			assert.NoError(t, err)
		})
	}
}
