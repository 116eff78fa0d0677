// Package nutrition scales per-100 g food values to actual weights and sums
// them into meal totals.
package nutrition

import (
	"fmt"
	"math"

	"carbwise/internal/model"
)

// Energy density in kcal per gram.
const (
	KcalPerGramCarbs   = 4.0
	KcalPerGramProtein = 4.0
	KcalPerGramFat     = 9.0
)

// Scale returns record's nutrients for grams of the food, rounded to one
// decimal. Calories are derived from the macros when the record carries no
// energy value.
func Scale(record model.FoodRecord, grams float64) (model.ScaledNutrition, error) {
	if grams < 0 || math.IsNaN(grams) || math.IsInf(grams, 0) {
		return model.ScaledNutrition{}, fmt.Errorf("%w: got %v", model.ErrInvalidGrams, grams)
	}

	factor := grams / 100
	carbs := record.CarbsPer100g * factor
	fiber := record.FiberPer100g * factor
	protein := record.ProteinPer100g * factor
	fat := record.FatPer100g * factor

	calories := record.CaloriesPer100g * factor
	if record.CaloriesPer100g <= 0 {
		calories = Calories(carbs, protein, fat)
	}

	out := model.ScaledNutrition{
		Description: record.Description,
		Grams:       round1(grams),
		Carbs:       round1(carbs),
		Fiber:       round1(fiber),
		Protein:     round1(protein),
		Fat:         round1(fat),
		Calories:    round1(calories),
	}
	out.NetCarbs = NetCarbs(out.Carbs, out.Fiber)

	return out, nil
}

// NetCarbs returns max(0, carbs − fiber).
func NetCarbs(carbs, fiber float64) float64 {
	return round1(math.Max(0, carbs-fiber))
}

// Calories derives energy from macro grams.
func Calories(carbs, protein, fat float64) float64 {
	return carbs*KcalPerGramCarbs + protein*KcalPerGramProtein + fat*KcalPerGramFat
}

// Aggregate sums items in order. An empty meal yields zero totals.
func Aggregate(items []model.ScaledNutrition) model.MealTotals {
	var t model.MealTotals
	for _, item := range items {
		t.TotalGrams += item.Grams
		t.TotalCarbs += item.Carbs
		t.TotalFiber += item.Fiber
		t.TotalNetCarbs += item.NetCarbs
		t.TotalProtein += item.Protein
		t.TotalFat += item.Fat
		t.TotalCalories += item.Calories
	}

	t.TotalGrams = round1(t.TotalGrams)
	t.TotalCarbs = round1(t.TotalCarbs)
	t.TotalFiber = round1(t.TotalFiber)
	t.TotalNetCarbs = round1(t.TotalNetCarbs)
	t.TotalProtein = round1(t.TotalProtein)
	t.TotalFat = round1(t.TotalFat)
	t.TotalCalories = round1(t.TotalCalories)
	t.ItemCount = len(items)
	t.Distribution = MacroDistribution(t.TotalCarbs, t.TotalProtein, t.TotalFat)

	return t
}

// MacroDistribution returns each macro's share of derived calories in
// percent. All shares are zero when the macros carry no energy.
func MacroDistribution(carbs, protein, fat float64) model.MacroDistribution {
	c := carbs * KcalPerGramCarbs
	p := protein * KcalPerGramProtein
	f := fat * KcalPerGramFat

	total := c + p + f
	if total <= 0 {
		return model.MacroDistribution{}
	}

	return model.MacroDistribution{
		CarbsPct:   c / total * 100,
		ProteinPct: p / total * 100,
		FatPct:     f / total * 100,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
