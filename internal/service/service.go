package service

import (
	"context"

	"carbwise/internal/model"

	"github.com/google/uuid"
)

// Catalog is the read side of the food catalog used by the services.
// *catalog.Catalog satisfies it.
type Catalog interface {
	Search(query string) ([]model.FoodRecord, error)
	GetByDescription(name string) (model.FoodRecord, error)
	GetByNormalizedName(name string) (model.FoodRecord, error)
	Stats() model.CatalogStats
	Reload(ctx context.Context) error
}

// RemoteSource looks up foods missing from the local catalog.
// *usda.Client satisfies it.
type RemoteSource interface {
	Lookup(ctx context.Context, description string) (model.FoodRecord, error)
}

// FoodService defines catalog queries.
type FoodService interface {
	// Search returns ranked matches for query, minus any description in exclude.
	Search(ctx context.Context, query string, exclude []string) ([]model.FoodRecord, error)

	// Lookup resolves a free-text food name to a record.
	Lookup(ctx context.Context, description string) (model.FoodRecord, error)

	// Portions lists the portion choices for a food.
	Portions(ctx context.Context, description string) ([]model.PortionOption, error)

	// ComparePortions compares two portion labels for the same food.
	ComparePortions(ctx context.Context, description, from, to string) (model.PortionComparison, error)

	// Stats describes the active catalog snapshot.
	Stats() model.CatalogStats

	// Reload refreshes the catalog from its source.
	Reload(ctx context.Context) error
}

// MealService defines meal estimation and the meal log.
type MealService interface {
	// Estimate runs a meal through resolution, scaling, aggregation and the glucose model.
	Estimate(ctx context.Context, req *model.MealRequest) (*model.MealEstimate, error)

	// EstimateGlucose estimates the impact of a bare carbohydrate amount.
	EstimateGlucose(ctx context.Context, req *model.GlucoseRequest) (*model.GlucoseImpactEstimate, error)

	// Save estimates the meal and stores it in the meal log.
	Save(ctx context.Context, req *model.MealRequest) (*model.MealLogResponse, error)

	// GetByID retrieves a saved meal. A missing meal yields nil and no error.
	GetByID(ctx context.Context, id uuid.UUID) (*model.MealLogResponse, error)
}
