package database

import (
	"context"
	"fmt"
	"time"

	"carbwise/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Schema holds the tables backing the food catalog and the meal log.
const Schema = `
	CREATE TABLE IF NOT EXISTS foods (
		id TEXT PRIMARY KEY,
		description TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		serving_grams DOUBLE PRECISION NOT NULL CHECK (serving_grams > 0),
		serving_unit TEXT NOT NULL DEFAULT 'g',
		carbs_per_100g DOUBLE PRECISION NOT NULL CHECK (carbs_per_100g >= 0),
		protein_per_100g DOUBLE PRECISION NOT NULL DEFAULT 0,
		fat_per_100g DOUBLE PRECISION NOT NULL DEFAULT 0,
		calories_per_100g DOUBLE PRECISION NOT NULL DEFAULT 0,
		fiber_per_100g DOUBLE PRECISION NOT NULL DEFAULT 0,
		portions JSONB NOT NULL DEFAULT '[]',
		source TEXT NOT NULL DEFAULT 'database'
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_foods_description ON foods (LOWER(description));

	CREATE TABLE IF NOT EXISTS meal_logs (
		id UUID PRIMARY KEY,
		notes TEXT NOT NULL DEFAULT '',
		carb_basis TEXT NOT NULL,
		baseline_glucose DOUBLE PRECISION NOT NULL,
		sensitivity DOUBLE PRECISION NOT NULL CHECK (sensitivity > 0),
		total_carbs DOUBLE PRECISION NOT NULL,
		total_net_carbs DOUBLE PRECISION NOT NULL,
		total_protein DOUBLE PRECISION NOT NULL,
		total_fat DOUBLE PRECISION NOT NULL,
		total_calories DOUBLE PRECISION NOT NULL,
		glucose_rise DOUBLE PRECISION NOT NULL,
		estimated_peak_glucose DOUBLE PRECISION NOT NULL,
		risk_level TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS meal_log_items (
		id UUID PRIMARY KEY,
		meal_id UUID NOT NULL REFERENCES meal_logs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		food_description TEXT NOT NULL,
		portion_label TEXT NOT NULL,
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		grams DOUBLE PRECISION NOT NULL,
		carbs DOUBLE PRECISION NOT NULL,
		net_carbs DOUBLE PRECISION NOT NULL,
		calories DOUBLE PRECISION NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_meal_log_items_meal_id ON meal_log_items(meal_id);
`

// NewPool creates a new PostgreSQL connection pool.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = int32(cfg.MinConnections)
	poolConfig.MaxConnLifetime = time.Duration(cfg.MaxConnLifetime) * time.Second
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	logger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Database).
		Int("max_connections", cfg.MaxConnections).
		Int("min_connections", cfg.MinConnections).
		Msg("creating database connection pool")

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().Msg("database connection pool created successfully")

	return pool, nil
}

// EnsureSchema creates the catalog and meal log tables when they are missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		logger.Error().Err(err).Msg("failed to apply database schema")
		return fmt.Errorf("failed to apply database schema: %w", err)
	}

	logger.Debug().Msg("database schema applied")
	return nil
}
