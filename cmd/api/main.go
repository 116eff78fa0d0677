package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carbwise/internal/catalog"
	"carbwise/internal/config"
	"carbwise/internal/database"
	"carbwise/internal/glucose"
	"carbwise/internal/handler"
	"carbwise/internal/middleware"
	"carbwise/internal/model"
	"carbwise/internal/portion"
	"carbwise/internal/repository"
	"carbwise/internal/router"
	"carbwise/internal/scheduler"
	"carbwise/internal/service"
	"carbwise/internal/serving"
	"carbwise/internal/usda"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting carbwise API server")

	// Cancelled on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database connection pool when meal logs or the database catalog need it
	var pool *pgxpool.Pool
	if cfg.Database.Enabled {
		pool, err = database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer pool.Close()

		if err := database.EnsureSchema(ctx, pool, logger); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	// Initialize the food catalog
	loader, err := newCatalogLoader(ctx, cfg, pool, logger)
	if err != nil {
		return err
	}
	foods := catalog.New(loader, cfg.Catalog.Path, logger)
	if err := foods.Load(ctx); err != nil {
		// The server still starts; estimates answer 503 until a reload succeeds.
		logger.Error().Err(err).Str("path", cfg.Catalog.Path).Msg("initial catalog load failed")
	}

	// Optional FoodData Central fallback
	var remote service.RemoteSource
	if cfg.USDA.Enabled {
		remote = usda.NewClient(cfg.USDA.APIKey, cfg.USDA.BaseURL)
		logger.Info().Str("base_url", cfg.USDA.BaseURL).Msg("USDA remote lookup enabled")
	}

	// Initialize repositories
	var mealRepo repository.MealRepository
	if pool != nil {
		mealRepo = repository.NewMealRepository(pool, logger)
	}

	// Initialize services
	calc := serving.NewCalculator(logger)
	foodService := service.NewFoodService(foods, portion.DefaultAliasTable(), remote, calc, logger)
	mealService := service.NewMealService(foodService, calc, glucose.NewEstimator(nil, logger), mealRepo,
		service.MealDefaults{
			Sensitivity: cfg.Glucose.DefaultSensitivity,
			Baseline:    cfg.Glucose.DefaultBaseline,
			CarbBasis:   model.CarbBasis(cfg.Glucose.CarbBasis),
		}, logger)

	// Initialize HTTP handlers and router
	limiter := middleware.NewRateLimiter(cfg.RateLimit.Rate, cfg.RateLimit.Capacity, logger)
	mux := router.New(router.Handlers{
		Food:           handler.NewFoodHandler(foodService, logger),
		Meal:           handler.NewMealHandler(mealService, logger),
		Catalog:        handler.NewCatalogHandler(foodService, logger),
		MealLogEnabled: mealRepo != nil,
	}, limiter, cfg.Auth.APIKey, logger)

	// Background jobs
	schedule := ""
	if cfg.Catalog.ReloadEnabled {
		schedule = cfg.Catalog.ReloadSchedule
	}
	jobs := scheduler.New(foods, schedule, limiter, logger)
	if err := jobs.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer jobs.Stop()

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
		return nil
	})

	return g.Wait()
}

// newCatalogLoader picks the dataset source: the foods table, or a file read
// from S3 with a local fallback.
func newCatalogLoader(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, logger zerolog.Logger) (catalog.Loader, error) {
	if cfg.Catalog.Source == config.CatalogSourceDatabase {
		if pool == nil {
			return nil, fmt.Errorf("catalog source %q requires DB_ENABLED", cfg.Catalog.Source)
		}
		logger.Info().Msg("loading food catalog from database")
		return repository.NewFoodRepository(pool, logger), nil
	}

	fileLoader := catalog.NewFileLoader(logger)
	if !cfg.S3.Enabled {
		logger.Info().Msg("using local file system for the food dataset (S3 disabled)")
		return fileLoader, nil
	}

	s3Loader, err := catalog.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("failed to initialise S3 loader, falling back to local file system only")
		return fileLoader, nil
	}

	return catalog.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, true, logger), nil
}
