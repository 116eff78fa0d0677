package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"carbwise/internal/catalog"
	"carbwise/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// foodRepository implements FoodRepository using PostgreSQL.
type foodRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewFoodRepository creates a new PostgreSQL-backed food repository.
func NewFoodRepository(pool *pgxpool.Pool, logger zerolog.Logger) FoodRepository {
	return &foodRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "food").Logger(),
	}
}

// Load returns all stored foods ordered by description.
func (r *foodRepository) Load(ctx context.Context, source string) ([]model.FoodRecord, error) {
	query := `
		SELECT id, description, category, serving_grams, serving_unit,
			carbs_per_100g, protein_per_100g, fat_per_100g, calories_per_100g,
			fiber_per_100g, portions, source
		FROM foods
		ORDER BY description
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Str("source", source).Msg("failed to query foods")
		return nil, fmt.Errorf("failed to query foods: %w", err)
	}
	defer rows.Close()

	var records []model.FoodRecord
	for rows.Next() {
		var (
			rec      model.FoodRecord
			portions []byte
		)
		err := rows.Scan(
			&rec.ID,
			&rec.Description,
			&rec.Category,
			&rec.StandardServingGrams,
			&rec.StandardServingUnit,
			&rec.CarbsPer100g,
			&rec.ProteinPer100g,
			&rec.FatPer100g,
			&rec.CaloriesPer100g,
			&rec.FiberPer100g,
			&portions,
			&rec.Source,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan food row")
			return nil, fmt.Errorf("failed to scan food: %w", err)
		}

		if len(portions) > 0 {
			if err := json.Unmarshal(portions, &rec.Portions); err != nil {
				r.logger.Warn().Err(err).Str("food_id", rec.ID).Msg("ignoring malformed portions")
				rec.Portions = nil
			}
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating food rows")
		return nil, fmt.Errorf("error iterating foods: %w", err)
	}

	if len(records) == 0 {
		return nil, catalog.ErrNoValidRecords
	}

	r.logger.Info().
		Str("source", source).
		Int("count", len(records)).
		Msg("foods loaded from database")

	return records, nil
}

// Upsert writes the records in a single transaction.
func (r *foodRepository) Upsert(ctx context.Context, records []model.FoodRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO foods (
			id, description, category, serving_grams, serving_unit,
			carbs_per_100g, protein_per_100g, fat_per_100g, calories_per_100g,
			fiber_per_100g, portions, source
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			description = EXCLUDED.description,
			category = EXCLUDED.category,
			serving_grams = EXCLUDED.serving_grams,
			serving_unit = EXCLUDED.serving_unit,
			carbs_per_100g = EXCLUDED.carbs_per_100g,
			protein_per_100g = EXCLUDED.protein_per_100g,
			fat_per_100g = EXCLUDED.fat_per_100g,
			calories_per_100g = EXCLUDED.calories_per_100g,
			fiber_per_100g = EXCLUDED.fiber_per_100g,
			portions = EXCLUDED.portions,
			source = EXCLUDED.source
	`

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, rec := range records {
		portions := rec.Portions
		if portions == nil {
			portions = []model.NamedPortion{}
		}
		encoded, err := json.Marshal(portions)
		if err != nil {
			return 0, fmt.Errorf("failed to encode portions for %s: %w", rec.ID, err)
		}
		source := rec.Source
		if source == "" {
			source = "database"
		}
		unit := rec.StandardServingUnit
		if unit == "" {
			unit = "g"
		}

		batch.Queue(query,
			rec.ID,
			rec.Description,
			rec.Category,
			rec.StandardServingGrams,
			unit,
			rec.CarbsPer100g,
			rec.ProteinPer100g,
			rec.FatPer100g,
			rec.CaloriesPer100g,
			rec.FiberPer100g,
			string(encoded),
			source,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for i := range records {
		if _, err := results.Exec(); err != nil {
			results.Close()
			r.logger.Error().
				Err(err).
				Str("food_id", records[i].ID).
				Msg("failed to upsert food")
			return 0, fmt.Errorf("failed to upsert food %s: %w", records[i].ID, err)
		}
	}
	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("failed to close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Msg("failed to commit transaction")
		return 0, fmt.Errorf("failed to commit foods: %w", err)
	}

	r.logger.Info().Int("count", len(records)).Msg("foods upserted")

	return len(records), nil
}

// Count returns the number of stored foods.
func (r *foodRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM foods").Scan(&n); err != nil {
		r.logger.Error().Err(err).Msg("failed to count foods")
		return 0, fmt.Errorf("failed to count foods: %w", err)
	}
	return n, nil
}
