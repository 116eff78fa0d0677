package integration

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"carbwise/internal/catalog"
	"carbwise/internal/database"
	"carbwise/internal/glucose"
	"carbwise/internal/handler"
	"carbwise/internal/middleware"
	"carbwise/internal/portion"
	"carbwise/internal/repository"
	"carbwise/internal/router"
	"carbwise/internal/service"
	"carbwise/internal/serving"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Shared values for the integration suite.
const (
	TestAPIKey     = "test-api-key"
	BundledDataset = "../../data/foods.json"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container, a connection pool and
// the application schema.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	// Create PostgreSQL container
	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	// Get connection string
	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	if err := database.EnsureSchema(ctx, pool, zerolog.Nop()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// SeedFoods copies the bundled dataset into the foods table.
func SeedFoods(t *testing.T, pool *pgxpool.Pool) int {
	t.Helper()

	ctx := context.Background()
	logger := zerolog.Nop()

	records, err := catalog.NewFileLoader(logger).Load(ctx, BundledDataset)
	if err != nil {
		t.Fatalf("failed to load bundled dataset: %v", err)
	}

	n, err := repository.NewFoodRepository(pool, logger).Upsert(ctx, records)
	if err != nil {
		t.Fatalf("failed to seed foods: %v", err)
	}
	return n
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"meal_log_items", "meal_logs", "foods"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}

// SetupTestServer wires the full HTTP stack with the catalog read from the
// foods table and meal logs stored in the same database.
func SetupTestServer(t *testing.T, testDB *TestDB) (http.Handler, *catalog.Catalog) {
	t.Helper()

	logger := zerolog.Nop()

	foods := catalog.New(repository.NewFoodRepository(testDB.Pool, logger), "database", logger)
	if err := foods.Load(context.Background()); err != nil {
		t.Fatalf("failed to load catalog from database: %v", err)
	}

	calc := serving.NewCalculator(logger)
	foodService := service.NewFoodService(foods, portion.DefaultAliasTable(), nil, calc, logger)
	mealService := service.NewMealService(foodService, calc, glucose.NewEstimator(nil, logger),
		repository.NewMealRepository(testDB.Pool, logger),
		service.MealDefaults{Sensitivity: 12, Baseline: 100}, logger)

	return router.New(router.Handlers{
		Food:           handler.NewFoodHandler(foodService, logger),
		Meal:           handler.NewMealHandler(mealService, logger),
		Catalog:        handler.NewCatalogHandler(foodService, logger),
		MealLogEnabled: true,
	}, middleware.NewRateLimiter(100, 1000, logger), TestAPIKey, logger), foods
}
