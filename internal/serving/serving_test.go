package serving

import (
	"testing"

	"carbwise/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rice() model.FoodRecord {
	return model.FoodRecord{
		Description:          "Rice, white, cooked",
		StandardServingGrams: 158,
		StandardServingUnit:  "g",
		CarbsPer100g:         28.0,
		Portions:             []model.NamedPortion{{Label: "1 cup", Grams: 158}, {Label: "1/2 cup", Grams: 79}},
	}
}

func TestCalculator_GramsFor(t *testing.T) {
	calc := NewCalculator(zerolog.Nop())

	tests := []struct {
		name     string
		label    string
		quantity int
		expected float64
	}{
		{name: "Medium", label: "Medium", quantity: 1, expected: 158.0},
		{name: "Small", label: "Small", quantity: 1, expected: 105.9},
		{name: "Large twice", label: "Large", quantity: 2, expected: 474.0},
		{name: "Serving", label: "Serving", quantity: 3, expected: 474.0},
		{name: "Absolute grams", label: "100 g", quantity: 1, expected: 100.0},
		{name: "Absolute grams compact", label: "30g", quantity: 2, expected: 60.0},
		{name: "Named portion", label: "1/2 cup", quantity: 1, expected: 79.0},
		{name: "Named portion case insensitive", label: "1 CUP", quantity: 1, expected: 158.0},
		{name: "Unknown label defaults to standard", label: "Bucket", quantity: 1, expected: 158.0},
		{name: "Empty label defaults to standard", label: "", quantity: 2, expected: 316.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grams, err := calc.GramsFor(rice(), tt.label, tt.quantity)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, grams, 1e-9)
		})
	}
}

func TestCalculator_GramsFor_Errors(t *testing.T) {
	calc := NewCalculator(zerolog.Nop())

	_, err := calc.GramsFor(rice(), "Medium", 0)
	assert.ErrorIs(t, err, model.ErrInvalidQuantity)

	_, err = calc.GramsFor(rice(), "Medium", -2)
	assert.ErrorIs(t, err, model.ErrInvalidQuantity)

	bad := rice()
	bad.StandardServingGrams = 0
	_, err = calc.GramsFor(bad, "Medium", 1)
	assert.ErrorIs(t, err, model.ErrInvalidServingSize)
}

func TestCalculator_Multiplier(t *testing.T) {
	calc := NewCalculator(zerolog.Nop())

	m, ok := calc.Multiplier(rice(), "large")
	assert.True(t, ok)
	assert.Equal(t, 1.5, m)

	m, ok = calc.Multiplier(rice(), "79 grams")
	assert.True(t, ok)
	assert.InDelta(t, 0.5, m, 1e-9)

	m, ok = calc.Multiplier(rice(), "0 g")
	assert.False(t, ok)
	assert.Equal(t, 1.0, m)

	m, ok = calc.Multiplier(rice(), "Jumbo")
	assert.False(t, ok)
	assert.Equal(t, 1.0, m)
}

func TestPercentageAndLabel(t *testing.T) {
	assert.Equal(t, 67, PercentageOfStandard(0.67))
	assert.Equal(t, 100, PercentageOfStandard(1.0))
	assert.Equal(t, 150, PercentageOfStandard(1.5))
	assert.Equal(t, "Small (67%)", Label("Small", 67))
	assert.Equal(t, "Large (150%)", Label("Large", PercentageOfStandard(1.5)))
}

func TestCalculator_Options(t *testing.T) {
	calc := NewCalculator(zerolog.Nop())

	options := calc.Options(rice())
	require.Len(t, options, 7)

	assert.Equal(t, "Small", options[0].Label)
	assert.Equal(t, "Small (67%)", options[0].Display)
	assert.Equal(t, 105.9, options[0].Grams)
	assert.Equal(t, "Serving", options[3].Label)
	assert.Equal(t, "1/2 cup (50%)", options[5].Display)
	assert.Equal(t, "100 g", options[6].Label)
	assert.Equal(t, 100.0, options[6].Grams)
	assert.Equal(t, 63, options[6].Percentage)
}

func TestCalculator_Compare(t *testing.T) {
	calc := NewCalculator(zerolog.Nop())

	cmp, err := calc.Compare(rice(), "Small", "Large")
	require.NoError(t, err)
	assert.Equal(t, 105.9, cmp.FromGrams)
	assert.Equal(t, 237.0, cmp.ToGrams)
	assert.Equal(t, 131.1, cmp.DiffGrams)
	assert.Equal(t, 2.24, cmp.Ratio)

	bad := rice()
	bad.StandardServingGrams = -1
	_, err = calc.Compare(bad, "Small", "Large")
	assert.ErrorIs(t, err, model.ErrInvalidServingSize)
}
