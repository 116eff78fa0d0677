// Package portion maps portion labels to serving multipliers and folds
// free-text food names into catalog lookup keys.
package portion

import (
	"fmt"
	"strings"

	"carbwise/internal/model"
)

// Fixed portion labels.
const (
	Small  = "Small"
	Medium = "Medium"
	Large  = "Large"
)

var multipliers = map[string]float64{
	"small":  0.67,
	"medium": 1.0,
	"large":  1.5,
}

// Labels returns the fixed labels in display order.
func Labels() []string {
	return []string{Small, Medium, Large}
}

// ResolvePortionMultiplier returns the multiplier of the standard serving for
// one of the fixed labels. Matching ignores case and surrounding spaces.
// Catalog-specific labels such as "Serving" or "100 g" are not handled here.
func ResolvePortionMultiplier(label string) (float64, error) {
	m, ok := multipliers[strings.ToLower(strings.TrimSpace(label))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", model.ErrInvalidPortionLabel, label)
	}
	return m, nil
}
