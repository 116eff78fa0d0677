package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"carbwise/internal/model"
	"carbwise/internal/portion"
)

const defaultBaseline = 100.0

// parseItem reads a meal item written as "description|portion|quantity".
// The portion defaults to Medium and the quantity to 1. A pipe separates the
// fields because catalog descriptions contain commas.
func parseItem(value string) (model.PortionSelection, error) {
	parts := strings.Split(value, "|")
	if len(parts) > 3 {
		return model.PortionSelection{}, fmt.Errorf("invalid item %q (expected description|portion|quantity)", value)
	}

	sel := model.PortionSelection{
		FoodDescription: strings.TrimSpace(parts[0]),
		PortionLabel:    portion.Medium,
		Quantity:        1,
	}
	if sel.FoodDescription == "" {
		return model.PortionSelection{}, fmt.Errorf("invalid item %q: description is required", value)
	}

	if len(parts) > 1 && strings.TrimSpace(parts[1]) != "" {
		sel.PortionLabel = strings.TrimSpace(parts[1])
	}

	if len(parts) > 2 && strings.TrimSpace(parts[2]) != "" {
		q, err := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil {
			return model.PortionSelection{}, fmt.Errorf("invalid quantity %q in item %q", parts[2], value)
		}
		if q <= 0 {
			return model.PortionSelection{}, fmt.Errorf("quantity must be > 0 in item %q", value)
		}
		sel.Quantity = q
	}

	return sel, nil
}

func parseItems(values []string) ([]model.PortionSelection, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("at least one --item is required")
	}
	items := make([]model.PortionSelection, 0, len(values))
	for _, v := range values {
		sel, err := parseItem(v)
		if err != nil {
			return nil, err
		}
		items = append(items, sel)
	}
	return items, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Fprintln(w, string(b))
	return nil
}

func writeFood(w io.Writer, rec model.FoodRecord) {
	fmt.Fprintf(w, "Food: %s\n", rec.Description)
	if rec.Category != "" {
		fmt.Fprintf(w, "Category: %s\n", rec.Category)
	}
	fmt.Fprintf(w, "Serving: %.1f %s\n", rec.StandardServingGrams, rec.StandardServingUnit)
	fmt.Fprintf(w, "Per 100g: carbs %.1fg, fiber %.1fg, protein %.1fg, fat %.1fg, %.0f kcal\n",
		rec.CarbsPer100g, rec.FiberPer100g, rec.ProteinPer100g, rec.FatPer100g, rec.CaloriesPer100g)
	if rec.Source != "" {
		fmt.Fprintf(w, "Source: %s\n", rec.Source)
	}
}

func writePortions(w io.Writer, options []model.PortionOption) {
	for _, o := range options {
		fmt.Fprintf(w, "%-24s %7.1fg  x%.2f\n", o.Display, o.Grams, o.Multiplier)
	}
}

func writeEstimate(w io.Writer, est *model.MealEstimate) {
	for _, item := range est.Items {
		n := item.Nutrition
		fmt.Fprintf(w, "%d. %s (%s x%d): %.1fg, carbs %.1fg, net %.1fg, %.0f kcal\n",
			item.Index+1, item.Food.Description, item.Selection.PortionLabel, item.Selection.Quantity,
			n.Grams, n.Carbs, n.NetCarbs, n.Calories)
	}
	for _, u := range est.Unresolved {
		fmt.Fprintf(w, "%d. %s: skipped (%s)\n", u.Index+1, u.Description, u.Code)
	}

	t := est.Totals
	fmt.Fprintf(w, "Totals: carbs %.1fg, net carbs %.1fg, protein %.1fg, fat %.1fg, %.0f kcal\n",
		t.TotalCarbs, t.TotalNetCarbs, t.TotalProtein, t.TotalFat, t.TotalCalories)
	writeGlucose(w, est.Glucose)
}

func writeGlucose(w io.Writer, g model.GlucoseImpactEstimate) {
	fmt.Fprintf(w, "Glucose: +%.1f mg/dL, peak %.1f mg/dL, risk %s\n", g.GlucoseRise, g.EstimatedPeakGlucose, g.RiskLevel)
	if g.Recommendations != "" {
		fmt.Fprintf(w, "Advice: %s\n", g.Recommendations)
	}
}
