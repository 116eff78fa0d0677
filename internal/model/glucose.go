package model

// RiskLevel classifies a predicted glucose rise.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// CarbBasis selects which carbohydrate figure drives the glucose estimate.
type CarbBasis string

const (
	CarbBasisTotal CarbBasis = "total"
	CarbBasisNet   CarbBasis = "net"
)

// GlucoseImpactEstimate is the predicted effect of a carb load on blood glucose.
type GlucoseImpactEstimate struct {
	Carbs                float64   `json:"carbs"`
	Sensitivity          float64   `json:"sensitivity"`
	BaselineGlucose      float64   `json:"baselineGlucose"`
	GlucoseRise          float64   `json:"glucoseRise"`
	EstimatedPeakGlucose float64   `json:"estimatedPeakGlucose"`
	RiskLevel            RiskLevel `json:"riskLevel"`
	RiskDescription      string    `json:"riskDescription"`
	Recommendations      string    `json:"recommendations"`
}

// GlucoseRequest is the payload for a standalone glucose estimate.
type GlucoseRequest struct {
	Carbs           float64  `json:"carbs"`
	BaselineGlucose *float64 `json:"baselineGlucose,omitempty"`
	Sensitivity     *float64 `json:"sensitivity,omitempty"`
}
