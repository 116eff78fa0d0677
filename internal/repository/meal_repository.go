package repository

import (
	"context"
	"errors"
	"fmt"

	"carbwise/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// mealRepository implements MealRepository using PostgreSQL.
type mealRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewMealRepository creates a new PostgreSQL-backed meal repository.
func NewMealRepository(pool *pgxpool.Pool, logger zerolog.Logger) MealRepository {
	return &mealRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "meal").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *mealRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateMeal inserts a new meal log within the provided transaction.
func (r *mealRepository) CreateMeal(ctx context.Context, tx pgx.Tx, meal *model.MealLog) error {
	query := `
		INSERT INTO meal_logs (
			id, notes, carb_basis, baseline_glucose, sensitivity,
			total_carbs, total_net_carbs, total_protein, total_fat, total_calories,
			glucose_rise, estimated_peak_glucose, risk_level, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := tx.Exec(ctx, query,
		meal.ID,
		meal.Notes,
		string(meal.CarbBasis),
		meal.BaselineGlucose,
		meal.Sensitivity,
		meal.TotalCarbs,
		meal.TotalNetCarbs,
		meal.TotalProtein,
		meal.TotalFat,
		meal.TotalCalories,
		meal.GlucoseRise,
		meal.EstimatedPeakGlucose,
		string(meal.RiskLevel),
		meal.CreatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("meal_id", meal.ID.String()).
			Msg("failed to create meal")
		return fmt.Errorf("failed to create meal: %w", err)
	}

	r.logger.Debug().
		Str("meal_id", meal.ID.String()).
		Msg("meal created successfully")

	return nil
}

// CreateMealItems inserts multiple meal items within the provided transaction.
func (r *mealRepository) CreateMealItems(ctx context.Context, tx pgx.Tx, items []model.MealLogItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO meal_log_items (
			id, meal_id, position, food_description, portion_label,
			quantity, grams, carbs, net_carbs, calories
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query,
			item.ID,
			item.MealID,
			item.Position,
			item.FoodDescription,
			item.PortionLabel,
			item.Quantity,
			item.Grams,
			item.Carbs,
			item.NetCarbs,
			item.Calories,
		)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("meal_id", items[i].MealID.String()).
				Str("food", items[i].FoodDescription).
				Msg("failed to create meal item")
			return fmt.Errorf("failed to create meal item: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(items)).
		Msg("meal items created successfully")

	return nil
}

// GetByID retrieves a meal log by its ID along with its items.
func (r *mealRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.MealLog, []model.MealLogItem, error) {
	mealQuery := `
		SELECT id, notes, carb_basis, baseline_glucose, sensitivity,
			total_carbs, total_net_carbs, total_protein, total_fat, total_calories,
			glucose_rise, estimated_peak_glucose, risk_level, created_at
		FROM meal_logs
		WHERE id = $1
	`

	var (
		meal      model.MealLog
		basis     string
		riskLevel string
	)
	err := r.pool.QueryRow(ctx, mealQuery, id).Scan(
		&meal.ID,
		&meal.Notes,
		&basis,
		&meal.BaselineGlucose,
		&meal.Sensitivity,
		&meal.TotalCarbs,
		&meal.TotalNetCarbs,
		&meal.TotalProtein,
		&meal.TotalFat,
		&meal.TotalCalories,
		&meal.GlucoseRise,
		&meal.EstimatedPeakGlucose,
		&riskLevel,
		&meal.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("meal_id", id.String()).Msg("meal not found")
			return nil, nil, nil
		}
		r.logger.Error().Err(err).Str("meal_id", id.String()).Msg("failed to query meal")
		return nil, nil, fmt.Errorf("failed to query meal: %w", err)
	}
	meal.CarbBasis = model.CarbBasis(basis)
	meal.RiskLevel = model.RiskLevel(riskLevel)

	itemsQuery := `
		SELECT id, meal_id, position, food_description, portion_label,
			quantity, grams, carbs, net_carbs, calories
		FROM meal_log_items
		WHERE meal_id = $1
		ORDER BY position
	`

	rows, err := r.pool.Query(ctx, itemsQuery, id)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("meal_id", id.String()).
			Msg("failed to query meal items")
		return nil, nil, fmt.Errorf("failed to query meal items: %w", err)
	}
	defer rows.Close()

	items := []model.MealLogItem{}
	for rows.Next() {
		var item model.MealLogItem
		err := rows.Scan(
			&item.ID,
			&item.MealID,
			&item.Position,
			&item.FoodDescription,
			&item.PortionLabel,
			&item.Quantity,
			&item.Grams,
			&item.Carbs,
			&item.NetCarbs,
			&item.Calories,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan meal item row")
			return nil, nil, fmt.Errorf("failed to scan meal item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating meal item rows")
		return nil, nil, fmt.Errorf("error iterating meal items: %w", err)
	}

	return &meal, items, nil
}
