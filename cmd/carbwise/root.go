package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"carbwise/internal/catalog"
	"carbwise/internal/config"
	"carbwise/internal/glucose"
	"carbwise/internal/portion"
	"carbwise/internal/service"
	"carbwise/internal/serving"
	"carbwise/internal/usda"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	catalogPath string
	logLevel    string
	jsonOutput  bool
	usdaAPIKey  string
)

var rootCmd = &cobra.Command{
	Use:   "carbwise",
	Short: "carbwise estimates meal nutrition and glucose impact",
	Long: "carbwise looks up foods in a nutrition dataset, scales them to portions, " +
		"and predicts the glucose rise of a meal.",
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "data/foods.json", "Path to the food dataset (.json or .json.gz)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print JSON instead of text")
	rootCmd.PersistentFlags().StringVar(&usdaAPIKey, "usda-api-key", os.Getenv("USDA_API_KEY"), "FoodData Central key for foods missing from the dataset")

	rootCmd.AddCommand(searchCmd, lookupCmd, portionsCmd, estimateCmd, seedCmd)
}

// newLogger writes console logs to stderr so stdout stays parseable.
func newLogger() (zerolog.Logger, error) {
	cfg := config.LoggerConfig{Level: logLevel, Format: "console"}
	if err := cfg.Validate(); err != nil {
		return zerolog.Nop(), err
	}
	return config.NewLoggerTo(cfg, os.Stderr), nil
}

// withServices loads the dataset and builds the services used by the
// commands.
func withServices(ctx context.Context, run func(service.FoodService, service.MealService) error) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}

	foods := catalog.New(catalog.NewFileLoader(logger), catalogPath, logger)
	if err := foods.Load(ctx); err != nil {
		return err
	}

	var remote service.RemoteSource
	if usdaAPIKey != "" {
		remote = usda.NewClient(usdaAPIKey, "")
	}

	calc := serving.NewCalculator(logger)
	foodService := service.NewFoodService(foods, portion.DefaultAliasTable(), remote, calc, logger)
	mealService := service.NewMealService(foodService, calc, glucose.NewEstimator(nil, logger), nil,
		service.MealDefaults{Sensitivity: glucose.DefaultSensitivity, Baseline: defaultBaseline}, logger)

	return run(foodService, mealService)
}
