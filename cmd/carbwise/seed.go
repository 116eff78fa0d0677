package main

import (
	"fmt"

	"carbwise/internal/catalog"
	"carbwise/internal/config"
	"carbwise/internal/database"
	"carbwise/internal/repository"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Copy the food dataset into the foods table",
	Long: "seed parses the dataset given by --catalog and upserts every valid record " +
		"into PostgreSQL using the DB_* environment variables.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger, err := newLogger()
		if err != nil {
			return err
		}

		dbCfg, err := config.LoadDatabase()
		if err != nil {
			return err
		}

		records, err := catalog.NewFileLoader(logger).Load(ctx, catalogPath)
		if err != nil {
			return err
		}

		pool, err := database.NewPool(ctx, dbCfg, logger)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := database.EnsureSchema(ctx, pool, logger); err != nil {
			return err
		}

		repo := repository.NewFoodRepository(pool, logger)
		n, err := repo.Upsert(ctx, records)
		if err != nil {
			return err
		}
		total, err := repo.Count(ctx)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d foods from %s (%d in table)\n", n, catalogPath, total)
		return nil
	},
}
