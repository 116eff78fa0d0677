package main

import (
	"fmt"
	"strings"

	"carbwise/internal/service"

	"github.com/spf13/cobra"
)

var (
	searchExclude []string
	searchLimit   int
	portionFrom   string
	portionTo     string
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the food dataset",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		return withServices(cmd.Context(), func(foods service.FoodService, _ service.MealService) error {
			results, err := foods.Search(cmd.Context(), query, searchExclude)
			if err != nil {
				return err
			}
			if searchLimit > 0 && len(results) > searchLimit {
				results = results[:searchLimit]
			}
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), results)
			}
			if len(results) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No foods match %q\n", query)
				return nil
			}
			for _, rec := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%.1fg carbs per 100g)\n", rec.Description, rec.CarbsPer100g)
			}
			return nil
		})
	},
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <description>",
	Short: "Show one food by description or alias",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		description := strings.Join(args, " ")
		return withServices(cmd.Context(), func(foods service.FoodService, _ service.MealService) error {
			rec, err := foods.Lookup(cmd.Context(), description)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), rec)
			}
			writeFood(cmd.OutOrStdout(), rec)
			return nil
		})
	},
}

var portionsCmd = &cobra.Command{
	Use:   "portions <description>",
	Short: "List portions for a food, or compare two with --from and --to",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		description := strings.Join(args, " ")
		if (portionFrom == "") != (portionTo == "") {
			return fmt.Errorf("--from and --to must be used together")
		}
		return withServices(cmd.Context(), func(foods service.FoodService, _ service.MealService) error {
			if portionFrom != "" {
				cmp, err := foods.ComparePortions(cmd.Context(), description, portionFrom, portionTo)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd.OutOrStdout(), cmp)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %.1fg -> %s %.1fg: %+.1fg (x%.2f)\n",
					cmp.FromLabel, cmp.FromGrams, cmp.ToLabel, cmp.ToGrams, cmp.DiffGrams, cmp.Ratio)
				return nil
			}

			options, err := foods.Portions(cmd.Context(), description)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), options)
			}
			writePortions(cmd.OutOrStdout(), options)
			return nil
		})
	},
}

func init() {
	searchCmd.Flags().StringArrayVar(&searchExclude, "exclude", nil, "Description to leave out (repeatable)")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 10, "Maximum results (0 for all)")

	portionsCmd.Flags().StringVar(&portionFrom, "from", "", "Portion to compare from")
	portionsCmd.Flags().StringVar(&portionTo, "to", "", "Portion to compare to")
}
