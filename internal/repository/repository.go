package repository

import (
	"context"

	"carbwise/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// FoodRepository defines the data access operations for the foods table.
// It satisfies catalog.Loader so the catalog can be served from PostgreSQL.
type FoodRepository interface {
	// Load returns every stored food record. The source argument is only logged.
	Load(ctx context.Context, source string) ([]model.FoodRecord, error)

	// Upsert inserts or replaces the given records by ID and returns how many were written.
	Upsert(ctx context.Context, records []model.FoodRecord) (int, error)

	// Count returns the number of stored foods.
	Count(ctx context.Context) (int, error)
}

// MealRepository defines the interface for meal log data access operations.
type MealRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateMeal inserts a new meal log within the provided transaction.
	CreateMeal(ctx context.Context, tx pgx.Tx, meal *model.MealLog) error

	// CreateMealItems inserts the meal's resolved lines within the provided transaction.
	CreateMealItems(ctx context.Context, tx pgx.Tx, items []model.MealLogItem) error

	// GetByID retrieves a meal log by its ID along with its items.
	// A missing meal yields nil values and no error.
	GetByID(ctx context.Context, id uuid.UUID) (*model.MealLog, []model.MealLogItem, error)
}
