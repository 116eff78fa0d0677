// Package glucose predicts the glucose rise caused by a carbohydrate load
// using a linear sensitivity model.
package glucose

import (
	"fmt"
	"math"

	"carbwise/internal/model"

	"github.com/rs/zerolog"
)

// DefaultSensitivity is the mg/dL rise per 10 g of carbohydrate used when no
// patient-specific value is configured.
const DefaultSensitivity = 12.0

// Risk tier boundaries in mg/dL. Both are inclusive on the medium side.
const (
	MediumRiskFloor   = 40.0
	MediumRiskCeiling = 80.0
)

// ValidateSensitivity rejects sensitivities that are not finite and positive.
func ValidateSensitivity(sensitivity float64) error {
	if !(sensitivity > 0) || math.IsInf(sensitivity, 0) {
		return fmt.Errorf("%w: got %v", model.ErrInvalidSensitivity, sensitivity)
	}
	return nil
}

// ValidateBaseline rejects negative or non-finite baseline glucose values.
func ValidateBaseline(baseline float64) error {
	if baseline < 0 || math.IsNaN(baseline) || math.IsInf(baseline, 0) {
		return fmt.Errorf("%w: got %v", model.ErrInvalidBaselineGlucose, baseline)
	}
	return nil
}

// GlucoseRise returns (carbs / 10) × sensitivity rounded to one decimal.
func GlucoseRise(carbs, sensitivity float64) (float64, error) {
	if err := ValidateSensitivity(sensitivity); err != nil {
		return 0, err
	}
	if carbs < 0 || math.IsNaN(carbs) || math.IsInf(carbs, 0) {
		return 0, fmt.Errorf("%w: got %v", model.ErrInvalidCarbs, carbs)
	}
	return math.Round(carbs/10*sensitivity*10) / 10, nil
}

// RiskLevelFor classifies a rise: low below 40, medium from 40 to 80
// inclusive, high above 80.
func RiskLevelFor(rise float64) model.RiskLevel {
	switch {
	case rise < MediumRiskFloor:
		return model.RiskLow
	case rise <= MediumRiskCeiling:
		return model.RiskMedium
	default:
		return model.RiskHigh
	}
}

// Estimator builds glucose impact estimates with a recommendation table.
type Estimator struct {
	rules  RuleTable
	logger zerolog.Logger
}

// NewEstimator creates an estimator. A nil table uses DefaultRules.
func NewEstimator(rules RuleTable, logger zerolog.Logger) *Estimator {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Estimator{
		rules:  rules,
		logger: logger.With().Str("component", "glucose").Logger(),
	}
}

// Estimate predicts the peak glucose after eating carbs grams.
func (e *Estimator) Estimate(baseline, carbs, sensitivity float64) (model.GlucoseImpactEstimate, error) {
	if err := ValidateBaseline(baseline); err != nil {
		return model.GlucoseImpactEstimate{}, err
	}

	rise, err := GlucoseRise(carbs, sensitivity)
	if err != nil {
		return model.GlucoseImpactEstimate{}, err
	}

	risk := RiskLevelFor(rise)
	est := model.GlucoseImpactEstimate{
		Carbs:                carbs,
		Sensitivity:          sensitivity,
		BaselineGlucose:      baseline,
		GlucoseRise:          rise,
		EstimatedPeakGlucose: baseline + rise,
		RiskLevel:            risk,
		RiskDescription:      DescribeRisk(risk),
	}

	if rule, ok := e.rules.Recommend(Facts{Risk: risk, Carbs: carbs, Rise: rise}); ok {
		est.Recommendations = rule.Message
		e.logger.Debug().
			Str("rule", rule.Name).
			Float64("carbs", carbs).
			Float64("rise", rise).
			Msg("recommendation selected")
	}

	return est, nil
}

// EstimateMeal sums carbs over items, using net carbs when basis is
// model.CarbBasisNet, and estimates the combined load. An empty meal has no
// rise.
func (e *Estimator) EstimateMeal(baseline float64, items []model.ScaledNutrition, sensitivity float64, basis model.CarbBasis) (model.GlucoseImpactEstimate, error) {
	var carbs float64
	for _, item := range items {
		if basis == model.CarbBasisNet {
			carbs += item.NetCarbs
		} else {
			carbs += item.Carbs
		}
	}
	return e.Estimate(baseline, math.Round(carbs*10)/10, sensitivity)
}
