package model

// ScaledNutrition holds one food's nutrients at an actual gram weight.
type ScaledNutrition struct {
	Description string  `json:"description,omitempty"`
	Grams       float64 `json:"grams"`
	Carbs       float64 `json:"carbs"`
	Fiber       float64 `json:"fiber"`
	NetCarbs    float64 `json:"netCarbs"`
	Protein     float64 `json:"protein"`
	Fat         float64 `json:"fat"`
	Calories    float64 `json:"calories"`
}

// MacroDistribution is the calorie share of each macro in percent.
type MacroDistribution struct {
	CarbsPct   float64 `json:"carbsPct"`
	ProteinPct float64 `json:"proteinPct"`
	FatPct     float64 `json:"fatPct"`
}

// MealTotals sums a list of ScaledNutrition entries.
type MealTotals struct {
	TotalGrams    float64           `json:"totalGrams"`
	TotalCarbs    float64           `json:"totalCarbs"`
	TotalFiber    float64           `json:"totalFiber"`
	TotalNetCarbs float64           `json:"totalNetCarbs"`
	TotalProtein  float64           `json:"totalProtein"`
	TotalFat      float64           `json:"totalFat"`
	TotalCalories float64           `json:"totalCalories"`
	ItemCount     int               `json:"itemCount"`
	Distribution  MacroDistribution `json:"distribution"`
}
