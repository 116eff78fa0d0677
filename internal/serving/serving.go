// Package serving converts a food's standard serving, a portion label and a
// quantity into grams.
package serving

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"carbwise/internal/model"
	"carbwise/internal/portion"

	"github.com/rs/zerolog"
)

// LabelServing selects exactly one standard serving.
const LabelServing = "Serving"

// gramsLabel matches absolute-weight labels such as "100 g" or "30 grams".
var gramsLabel = regexp.MustCompile(`(?i)^\s*(\d+(?:\.\d+)?)\s*(?:g|gram|grams)\s*$`)

// Calculator resolves portion labels against a food record. Every label is
// expressed as a multiplier of the record's standard serving.
type Calculator struct {
	logger zerolog.Logger
}

// NewCalculator creates a new serving size calculator.
func NewCalculator(logger zerolog.Logger) *Calculator {
	return &Calculator{
		logger: logger.With().Str("component", "serving").Logger(),
	}
}

// Multiplier returns the multiple of the standard serving that label stands
// for. Labels are tried in this order: Small/Medium/Large, "Serving",
// absolute grams ("100 g"), then the record's named portions. Anything else
// resolves to 1.0 and reports false.
func (c *Calculator) Multiplier(record model.FoodRecord, label string) (float64, bool) {
	if m, err := portion.ResolvePortionMultiplier(label); err == nil {
		return m, true
	}

	trimmed := strings.TrimSpace(label)
	if strings.EqualFold(trimmed, LabelServing) {
		return 1.0, true
	}

	if record.StandardServingGrams > 0 {
		if match := gramsLabel.FindStringSubmatch(trimmed); match != nil {
			grams, err := strconv.ParseFloat(match[1], 64)
			if err == nil && grams > 0 {
				return grams / record.StandardServingGrams, true
			}
		}

		for _, p := range record.Portions {
			if strings.EqualFold(p.Label, trimmed) {
				return p.Grams / record.StandardServingGrams, true
			}
		}
	}

	return 1.0, false
}

// GramsFor returns standardServingGrams × multiplier × quantity rounded to
// one decimal. Unknown labels fall back to one standard serving.
func (c *Calculator) GramsFor(record model.FoodRecord, label string, quantity int) (float64, error) {
	if quantity <= 0 {
		return 0, fmt.Errorf("%w: got %d", model.ErrInvalidQuantity, quantity)
	}
	if record.StandardServingGrams <= 0 {
		return 0, fmt.Errorf("%w: %q has %.2f", model.ErrInvalidServingSize, record.Description, record.StandardServingGrams)
	}

	m, ok := c.Multiplier(record, label)
	if !ok {
		c.logger.Debug().
			Str("food", record.Description).
			Str("portion_label", label).
			Msg("unknown portion label, using standard serving")
	}

	return round1(record.StandardServingGrams * m * float64(quantity)), nil
}

// Options lists the selectable portions for record.
func (c *Calculator) Options(record model.FoodRecord) []model.PortionOption {
	labels := append(portion.Labels(), LabelServing)
	for _, p := range record.Portions {
		labels = append(labels, p.Label)
	}
	labels = append(labels, "100 g")

	options := make([]model.PortionOption, 0, len(labels))
	for _, label := range labels {
		m, _ := c.Multiplier(record, label)
		pct := PercentageOfStandard(m)
		options = append(options, model.PortionOption{
			Label:      label,
			Multiplier: m,
			Grams:      round1(record.StandardServingGrams * m),
			Percentage: pct,
			Display:    Label(label, pct),
		})
	}
	return options
}

// Compare reports how the from portion differs from the to portion for one
// unit of the same food.
func (c *Calculator) Compare(record model.FoodRecord, from, to string) (model.PortionComparison, error) {
	fromGrams, err := c.GramsFor(record, from, 1)
	if err != nil {
		return model.PortionComparison{}, err
	}
	toGrams, err := c.GramsFor(record, to, 1)
	if err != nil {
		return model.PortionComparison{}, err
	}

	cmp := model.PortionComparison{
		FromLabel: from,
		ToLabel:   to,
		FromGrams: fromGrams,
		ToGrams:   toGrams,
		DiffGrams: round1(toGrams - fromGrams),
	}
	if fromGrams > 0 {
		cmp.Ratio = math.Round(toGrams/fromGrams*100) / 100
	}
	return cmp, nil
}

// PercentageOfStandard converts a multiplier to a whole percentage.
func PercentageOfStandard(multiplier float64) int {
	return int(math.Round(multiplier * 100))
}

// Label renders a portion as "{label} ({percentage}%)".
func Label(label string, percentage int) string {
	return fmt.Sprintf("%s (%d%%)", label, percentage)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
