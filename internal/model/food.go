package model

// FoodRecord is one catalog entry. Macro values are per 100 g.
type FoodRecord struct {
	ID                   string         `json:"id"`
	Description          string         `json:"description"`
	Category             string         `json:"category,omitempty"`
	StandardServingGrams float64        `json:"standardServingGrams"`
	StandardServingUnit  string         `json:"standardServingUnit"`
	CarbsPer100g         float64        `json:"carbsPer100g"`
	ProteinPer100g       float64        `json:"proteinPer100g"`
	FatPer100g           float64        `json:"fatPer100g"`
	CaloriesPer100g      float64        `json:"caloriesPer100g"`
	FiberPer100g         float64        `json:"fiberPer100g"`
	Portions             []NamedPortion `json:"portions,omitempty"`
	Source               string         `json:"source,omitempty"`
}

// NamedPortion is a food-specific serving such as "1 cup" with an absolute weight.
type NamedPortion struct {
	Label string  `json:"label"`
	Grams float64 `json:"grams"`
}

// PortionSelection is a user's choice for one food instance in a meal.
type PortionSelection struct {
	FoodDescription string `json:"foodDescription"`
	PortionLabel    string `json:"portionLabel"`
	Quantity        int    `json:"quantity"`
}

// PortionOption describes one selectable portion for a food.
type PortionOption struct {
	Label      string  `json:"label"`
	Multiplier float64 `json:"multiplier"`
	Grams      float64 `json:"grams"`
	Percentage int     `json:"percentage"`
	Display    string  `json:"display"`
}

// PortionComparison is the difference between two portions of the same food.
type PortionComparison struct {
	FromLabel string  `json:"fromLabel"`
	ToLabel   string  `json:"toLabel"`
	FromGrams float64 `json:"fromGrams"`
	ToGrams   float64 `json:"toGrams"`
	DiffGrams float64 `json:"diffGrams"`
	Ratio     float64 `json:"ratio"`
}

// CatalogStats summarises the active catalog snapshot.
type CatalogStats struct {
	Loaded   bool   `json:"loaded"`
	Foods    int    `json:"foods"`
	Source   string `json:"source,omitempty"`
	LoadedAt string `json:"loadedAt,omitempty"`
	Updating bool   `json:"updating"`
}
