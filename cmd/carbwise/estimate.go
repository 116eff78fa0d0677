package main

import (
	"fmt"

	"carbwise/internal/glucose"
	"carbwise/internal/model"
	"carbwise/internal/service"

	"github.com/spf13/cobra"
)

var (
	estimateItems       []string
	estimateBaseline    float64
	estimateSensitivity float64
	estimateNet         bool
	glucoseCarbs        float64
)

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate nutrition and glucose impact of a meal",
	Example: `  carbwise estimate --item "Rice, white, cooked|Medium|1" --item "apple|Small"
  carbwise estimate --item banana --baseline 110 --sensitivity 15 --net`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &model.MealRequest{CarbBasis: model.CarbBasisTotal}
		if estimateNet {
			req.CarbBasis = model.CarbBasisNet
		}
		if cmd.Flags().Changed("baseline") {
			req.BaselineGlucose = &estimateBaseline
		}
		if cmd.Flags().Changed("sensitivity") {
			req.Sensitivity = &estimateSensitivity
		}

		// A bare carb load needs no dataset.
		if cmd.Flags().Changed("carbs") {
			if len(estimateItems) > 0 {
				return fmt.Errorf("--carbs cannot be combined with --item")
			}
			logger, err := newLogger()
			if err != nil {
				return err
			}
			est, err := glucose.NewEstimator(nil, logger).Estimate(estimateBaseline, glucoseCarbs, estimateSensitivity)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), est)
			}
			writeGlucose(cmd.OutOrStdout(), est)
			return nil
		}

		items, err := parseItems(estimateItems)
		if err != nil {
			return err
		}
		req.Items = items

		return withServices(cmd.Context(), func(_ service.FoodService, meals service.MealService) error {
			est, err := meals.Estimate(cmd.Context(), req)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), est)
			}
			writeEstimate(cmd.OutOrStdout(), est)
			return nil
		})
	},
}

func init() {
	estimateCmd.Flags().StringArrayVar(&estimateItems, "item", nil, `Meal item as "description|portion|quantity" (repeatable)`)
	estimateCmd.Flags().Float64Var(&estimateBaseline, "baseline", defaultBaseline, "Baseline glucose in mg/dL")
	estimateCmd.Flags().Float64Var(&estimateSensitivity, "sensitivity", 12, "Glucose rise in mg/dL per 10g of carbs")
	estimateCmd.Flags().BoolVar(&estimateNet, "net", false, "Use net carbs (carbs minus fiber)")
	estimateCmd.Flags().Float64Var(&glucoseCarbs, "carbs", 0, "Estimate a bare carb load in grams instead of a meal")
}
