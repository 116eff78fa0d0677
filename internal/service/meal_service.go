package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carbwise/internal/glucose"
	"carbwise/internal/metrics"
	"carbwise/internal/model"
	"carbwise/internal/nutrition"
	"carbwise/internal/repository"
	"carbwise/internal/serving"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentLookups bounds item resolution, which may call the remote source.
const maxConcurrentLookups = 8

// ErrMealLogDisabled is returned by Save and GetByID when no repository is configured.
var ErrMealLogDisabled = errors.New("meal log is not configured")

// MealDefaults are applied to requests that omit glucose parameters.
type MealDefaults struct {
	Sensitivity float64
	Baseline    float64
	CarbBasis   model.CarbBasis
}

// mealService implements MealService.
type mealService struct {
	foods     FoodService
	calc      *serving.Calculator
	estimator *glucose.Estimator
	mealRepo  repository.MealRepository
	defaults  MealDefaults
	logger    zerolog.Logger
}

// NewMealService creates a new meal service. mealRepo may be nil, in which
// case the meal log is unavailable.
func NewMealService(
	foods FoodService,
	calc *serving.Calculator,
	estimator *glucose.Estimator,
	mealRepo repository.MealRepository,
	defaults MealDefaults,
	logger zerolog.Logger,
) MealService {
	if defaults.CarbBasis == "" {
		defaults.CarbBasis = model.CarbBasisTotal
	}
	if defaults.Sensitivity <= 0 {
		defaults.Sensitivity = glucose.DefaultSensitivity
	}
	return &mealService{
		foods:     foods,
		calc:      calc,
		estimator: estimator,
		mealRepo:  mealRepo,
		defaults:  defaults,
		logger:    logger.With().Str("service", "meal").Logger(),
	}
}

// itemResult is the outcome of resolving one selection.
type itemResult struct {
	resolved   *model.ResolvedItem
	unresolved *model.UnresolvedItem
	fatal      error
}

// Estimate resolves every item, aggregates the resolvable subset and runs
// the meal glucose estimate. Items that fail to resolve are reported in
// Unresolved and left out of the totals.
func (s *mealService) Estimate(ctx context.Context, req *model.MealRequest) (*model.MealEstimate, error) {
	if req == nil {
		return nil, fmt.Errorf("meal request is nil")
	}

	baseline, sensitivity, basis, err := s.parameters(req.BaselineGlucose, req.Sensitivity, req.CarbBasis)
	if err != nil {
		return nil, err
	}

	results := make([]itemResult, len(req.Items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)
	for i, sel := range req.Items {
		i, sel := i, sel
		g.Go(func() error {
			results[i] = s.resolve(gctx, i, sel)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	est := &model.MealEstimate{
		Items:      []model.ResolvedItem{},
		Unresolved: []model.UnresolvedItem{},
		CarbBasis:  basis,
	}
	scaled := make([]model.ScaledNutrition, 0, len(req.Items))
	for _, r := range results {
		if r.fatal != nil {
			return nil, r.fatal
		}
		if r.unresolved != nil {
			est.Unresolved = append(est.Unresolved, *r.unresolved)
			continue
		}
		est.Items = append(est.Items, *r.resolved)
		scaled = append(scaled, r.resolved.Nutrition)
	}

	est.Totals = nutrition.Aggregate(scaled)

	impact, err := s.estimator.EstimateMeal(baseline, scaled, sensitivity, basis)
	if err != nil {
		return nil, err
	}
	est.Glucose = impact

	metrics.MealEstimates.WithLabelValues(string(impact.RiskLevel)).Inc()
	if n := len(est.Unresolved); n > 0 {
		metrics.UnresolvedItems.Add(float64(n))
	}

	s.logger.Debug().
		Int("items", len(est.Items)).
		Int("unresolved", len(est.Unresolved)).
		Float64("carbs", impact.Carbs).
		Str("risk", string(impact.RiskLevel)).
		Msg("meal estimated")

	return est, nil
}

// resolve looks up, sizes and scales one selection. Only a catalog that is
// not loaded is fatal to the whole meal.
func (s *mealService) resolve(ctx context.Context, index int, sel model.PortionSelection) itemResult {
	rec, err := s.foods.Lookup(ctx, sel.FoodDescription)
	if err == nil {
		var grams float64
		grams, err = s.calc.GramsFor(rec, sel.PortionLabel, sel.Quantity)
		if err == nil {
			var scaled model.ScaledNutrition
			scaled, err = nutrition.Scale(rec, grams)
			if err == nil {
				return itemResult{resolved: &model.ResolvedItem{
					Index:     index,
					Selection: sel,
					Food:      rec,
					Nutrition: scaled,
				}}
			}
		}
	}

	if errors.Is(err, model.ErrCatalogNotLoaded) || ctx.Err() != nil {
		return itemResult{fatal: err}
	}

	s.logger.Warn().
		Err(err).
		Int("index", index).
		Str("description", sel.FoodDescription).
		Str("portion", sel.PortionLabel).
		Msg("skipping unresolved meal item")

	return itemResult{unresolved: &model.UnresolvedItem{
		Index:       index,
		Description: sel.FoodDescription,
		Code:        errorCode(err),
		Reason:      err.Error(),
	}}
}

// EstimateGlucose applies the configured defaults and estimates a bare carb load.
func (s *mealService) EstimateGlucose(ctx context.Context, req *model.GlucoseRequest) (*model.GlucoseImpactEstimate, error) {
	if req == nil {
		return nil, fmt.Errorf("glucose request is nil")
	}

	baseline, sensitivity, _, err := s.parameters(req.BaselineGlucose, req.Sensitivity, "")
	if err != nil {
		return nil, err
	}

	est, err := s.estimator.Estimate(baseline, req.Carbs, sensitivity)
	if err != nil {
		s.logger.Debug().Err(err).Float64("carbs", req.Carbs).Msg("invalid glucose request")
		return nil, err
	}
	return &est, nil
}

// Save estimates the meal and stores it with its resolved items in one transaction.
func (s *mealService) Save(ctx context.Context, req *model.MealRequest) (*model.MealLogResponse, error) {
	if s.mealRepo == nil {
		return nil, ErrMealLogDisabled
	}

	est, err := s.Estimate(ctx, req)
	if err != nil {
		return nil, err
	}

	// Start transaction
	tx, err := s.mealRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to save meal: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	meal := &model.MealLog{
		ID:                   uuid.New(),
		Notes:                req.Notes,
		CarbBasis:            est.CarbBasis,
		BaselineGlucose:      est.Glucose.BaselineGlucose,
		Sensitivity:          est.Glucose.Sensitivity,
		TotalCarbs:           est.Totals.TotalCarbs,
		TotalNetCarbs:        est.Totals.TotalNetCarbs,
		TotalProtein:         est.Totals.TotalProtein,
		TotalFat:             est.Totals.TotalFat,
		TotalCalories:        est.Totals.TotalCalories,
		GlucoseRise:          est.Glucose.GlucoseRise,
		EstimatedPeakGlucose: est.Glucose.EstimatedPeakGlucose,
		RiskLevel:            est.Glucose.RiskLevel,
		CreatedAt:            time.Now().UTC(),
	}

	if err = s.mealRepo.CreateMeal(ctx, tx, meal); err != nil {
		s.logger.Error().Err(err).Str("meal_id", meal.ID.String()).Msg("failed to create meal")
		return nil, fmt.Errorf("failed to save meal: %w", err)
	}

	items := make([]model.MealLogItem, len(est.Items))
	for i, item := range est.Items {
		items[i] = model.MealLogItem{
			ID:              uuid.New(),
			MealID:          meal.ID,
			Position:        item.Index,
			FoodDescription: item.Food.Description,
			PortionLabel:    item.Selection.PortionLabel,
			Quantity:        item.Selection.Quantity,
			Grams:           item.Nutrition.Grams,
			Carbs:           item.Nutrition.Carbs,
			NetCarbs:        item.Nutrition.NetCarbs,
			Calories:        item.Nutrition.Calories,
		}
	}

	if err = s.mealRepo.CreateMealItems(ctx, tx, items); err != nil {
		s.logger.Error().
			Err(err).
			Str("meal_id", meal.ID.String()).
			Int("item_count", len(items)).
			Msg("failed to create meal items")
		return nil, fmt.Errorf("failed to save meal items: %w", err)
	}

	// Commit transaction
	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("meal_id", meal.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to save meal: %w", err)
	}

	s.logger.Info().
		Str("meal_id", meal.ID.String()).
		Int("item_count", len(items)).
		Str("risk", string(meal.RiskLevel)).
		Msg("meal saved")

	return &model.MealLogResponse{
		Meal:       *meal,
		Items:      items,
		Unresolved: est.Unresolved,
	}, nil
}

// GetByID retrieves a saved meal with its items.
func (s *mealService) GetByID(ctx context.Context, id uuid.UUID) (*model.MealLogResponse, error) {
	if s.mealRepo == nil {
		return nil, ErrMealLogDisabled
	}

	meal, items, err := s.mealRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("meal_id", id.String()).Msg("failed to get meal")
		return nil, fmt.Errorf("failed to get meal: %w", err)
	}

	if meal == nil {
		s.logger.Debug().Str("meal_id", id.String()).Msg("meal not found")
		return nil, nil
	}

	return &model.MealLogResponse{
		Meal:  *meal,
		Items: items,
	}, nil
}

// parameters fills omitted glucose inputs from the defaults and validates
// them before any item is resolved.
func (s *mealService) parameters(baseline, sensitivity *float64, basis model.CarbBasis) (float64, float64, model.CarbBasis, error) {
	b := s.defaults.Baseline
	if baseline != nil {
		b = *baseline
	}

	sens := s.defaults.Sensitivity
	if sensitivity != nil {
		sens = *sensitivity
	}

	if basis == "" {
		basis = s.defaults.CarbBasis
	}
	if basis != model.CarbBasisTotal && basis != model.CarbBasisNet {
		return 0, 0, "", fmt.Errorf("%w: got %q", model.ErrInvalidCarbBasis, basis)
	}
	if err := glucose.ValidateBaseline(b); err != nil {
		return 0, 0, "", err
	}
	if err := glucose.ValidateSensitivity(sens); err != nil {
		return 0, 0, "", err
	}

	return b, sens, basis, nil
}

// errorCode extracts the domain error code carried by err.
func errorCode(err error) string {
	var de *model.DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return model.ErrCodeInternalError
}
