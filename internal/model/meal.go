package model

import (
	"time"

	"github.com/google/uuid"
)

// MealRequest represents the request payload for estimating or saving a meal.
type MealRequest struct {
	Items           []PortionSelection `json:"items"`
	BaselineGlucose *float64           `json:"baselineGlucose,omitempty"`
	Sensitivity     *float64           `json:"sensitivity,omitempty"`
	CarbBasis       CarbBasis          `json:"carbBasis,omitempty"`
	Notes           string             `json:"notes,omitempty"`
}

// ResolvedItem is a meal item that was matched and scaled.
type ResolvedItem struct {
	Index     int              `json:"index"`
	Selection PortionSelection `json:"selection"`
	Food      FoodRecord       `json:"food"`
	Nutrition ScaledNutrition  `json:"nutrition"`
}

// UnresolvedItem is a meal item excluded from the totals.
type UnresolvedItem struct {
	Index       int    `json:"index"`
	Description string `json:"description"`
	Code        string `json:"code"`
	Reason      string `json:"reason"`
}

// MealEstimate is the result of running a meal through the pipeline.
type MealEstimate struct {
	Items      []ResolvedItem        `json:"items"`
	Unresolved []UnresolvedItem      `json:"unresolved"`
	Totals     MealTotals            `json:"totals"`
	Glucose    GlucoseImpactEstimate `json:"glucose"`
	CarbBasis  CarbBasis             `json:"carbBasis"`
}

// MealLog is a persisted meal estimate.
type MealLog struct {
	ID                   uuid.UUID `json:"id" db:"id"`
	Notes                string    `json:"notes,omitempty" db:"notes"`
	CarbBasis            CarbBasis `json:"carbBasis" db:"carb_basis"`
	BaselineGlucose      float64   `json:"baselineGlucose" db:"baseline_glucose"`
	Sensitivity          float64   `json:"sensitivity" db:"sensitivity"`
	TotalCarbs           float64   `json:"totalCarbs" db:"total_carbs"`
	TotalNetCarbs        float64   `json:"totalNetCarbs" db:"total_net_carbs"`
	TotalProtein         float64   `json:"totalProtein" db:"total_protein"`
	TotalFat             float64   `json:"totalFat" db:"total_fat"`
	TotalCalories        float64   `json:"totalCalories" db:"total_calories"`
	GlucoseRise          float64   `json:"glucoseRise" db:"glucose_rise"`
	EstimatedPeakGlucose float64   `json:"estimatedPeakGlucose" db:"estimated_peak_glucose"`
	RiskLevel            RiskLevel `json:"riskLevel" db:"risk_level"`
	CreatedAt            time.Time `json:"createdAt" db:"created_at"`
}

// MealLogItem is one resolved line of a persisted meal.
type MealLogItem struct {
	ID              uuid.UUID `json:"-" db:"id"`
	MealID          uuid.UUID `json:"-" db:"meal_id"`
	Position        int       `json:"position" db:"position"`
	FoodDescription string    `json:"foodDescription" db:"food_description"`
	PortionLabel    string    `json:"portionLabel" db:"portion_label"`
	Quantity        int       `json:"quantity" db:"quantity"`
	Grams           float64   `json:"grams" db:"grams"`
	Carbs           float64   `json:"carbs" db:"carbs"`
	NetCarbs        float64   `json:"netCarbs" db:"net_carbs"`
	Calories        float64   `json:"calories" db:"calories"`
}

// MealLogResponse represents the response payload for a saved meal.
type MealLogResponse struct {
	Meal       MealLog          `json:"meal"`
	Items      []MealLogItem    `json:"items"`
	Unresolved []UnresolvedItem `json:"unresolved,omitempty"`
}
