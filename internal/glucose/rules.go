package glucose

import "carbwise/internal/model"

// Facts are the inputs a recommendation rule can inspect.
type Facts struct {
	Risk  model.RiskLevel
	Carbs float64
	Rise  float64
}

// Rule pairs a predicate with the advice shown when it matches.
type Rule struct {
	Name    string
	Matches func(Facts) bool
	Message string
}

// RuleTable is evaluated top-down; the first matching rule wins.
type RuleTable []Rule

// Thresholds used by the default rules.
const (
	HeavyCarbLoad = 80.0
	SevereRise    = 100.0
	LightCarbLoad = 15.0
)

// DefaultRules returns the built-in recommendation table.
func DefaultRules() RuleTable {
	return RuleTable{
		{
			Name: "reduce-portion",
			Matches: func(f Facts) bool {
				return f.Carbs > HeavyCarbLoad || f.Rise > SevereRise
			},
			Message: "This meal is likely to cause a large glucose spike. Consider reducing the portion size or replacing part of it with protein or non-starchy vegetables.",
		},
		{
			Name: "good-choice",
			Matches: func(f Facts) bool {
				return f.Risk == model.RiskLow && f.Carbs < LightCarbLoad
			},
			Message: "Good choice. This meal should have minimal impact on your glucose levels.",
		},
		{
			Name:    "high-risk",
			Matches: riskIs(model.RiskHigh),
			Message: "Expect a significant rise. Consider a smaller portion, pair it with protein or fibre, and take a short walk after eating.",
		},
		{
			Name:    "medium-risk",
			Matches: riskIs(model.RiskMedium),
			Message: "Expect a moderate rise. Pairing this meal with protein or fibre can help flatten the curve.",
		},
		{
			Name:    "low-risk",
			Matches: riskIs(model.RiskLow),
			Message: "Expect a mild rise. Keep monitoring as usual.",
		},
	}
}

func riskIs(level model.RiskLevel) func(Facts) bool {
	return func(f Facts) bool { return f.Risk == level }
}

// Recommend returns the first matching rule.
func (t RuleTable) Recommend(f Facts) (Rule, bool) {
	for _, r := range t {
		if r.Matches != nil && r.Matches(f) {
			return r, true
		}
	}
	return Rule{}, false
}

var riskDescriptions = map[model.RiskLevel]string{
	model.RiskLow:    "Low impact: glucose is expected to rise by less than 40 mg/dL.",
	model.RiskMedium: "Moderate impact: glucose is expected to rise by 40 to 80 mg/dL.",
	model.RiskHigh:   "High impact: glucose is expected to rise by more than 80 mg/dL.",
}

// DescribeRisk returns the description for a risk tier.
func DescribeRisk(level model.RiskLevel) string {
	return riskDescriptions[level]
}
