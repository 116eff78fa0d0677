package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"carbwise/internal/model"
	"carbwise/internal/portion"
	"carbwise/internal/serving"

	"github.com/rs/zerolog"
)

// foodService implements FoodService.
type foodService struct {
	catalog Catalog
	aliases *portion.AliasTable
	remote  RemoteSource
	calc    *serving.Calculator
	logger  zerolog.Logger
}

// NewFoodService creates a new food service. remote may be nil.
func NewFoodService(
	catalog Catalog,
	aliases *portion.AliasTable,
	remote RemoteSource,
	calc *serving.Calculator,
	logger zerolog.Logger,
) FoodService {
	return &foodService{
		catalog: catalog,
		aliases: aliases,
		remote:  remote,
		calc:    calc,
		logger:  logger.With().Str("service", "food").Logger(),
	}
}

// Search returns ranked matches with excluded descriptions removed.
func (s *foodService) Search(ctx context.Context, query string, exclude []string) ([]model.FoodRecord, error) {
	results, err := s.catalog.Search(query)
	if err != nil {
		s.logger.Warn().Err(err).Str("query", query).Msg("search failed")
		return nil, err
	}

	if len(exclude) == 0 {
		return results, nil
	}

	skip := make(map[string]struct{}, len(exclude))
	for _, d := range exclude {
		skip[strings.ToLower(strings.TrimSpace(d))] = struct{}{}
	}

	filtered := make([]model.FoodRecord, 0, len(results))
	for _, rec := range results {
		if _, ok := skip[strings.ToLower(rec.Description)]; ok {
			continue
		}
		filtered = append(filtered, rec)
	}

	s.logger.Debug().
		Str("query", query).
		Int("results", len(results)).
		Int("excluded", len(results)-len(filtered)).
		Msg("search results filtered")

	return filtered, nil
}

// Lookup tries an exact match, then the alias table, then the normalized
// name, then the remote source when one is configured.
func (s *foodService) Lookup(ctx context.Context, description string) (model.FoodRecord, error) {
	rec, err := s.catalog.GetByDescription(description)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, model.ErrFoodNotFound) {
		return model.FoodRecord{}, err
	}

	if canonical, ok := s.aliases.Canonical(description); ok {
		if rec, err := s.catalog.GetByDescription(canonical); err == nil {
			s.logger.Debug().
				Str("description", description).
				Str("canonical", canonical).
				Msg("resolved through alias table")
			return rec, nil
		}
	}

	if rec, err := s.catalog.GetByNormalizedName(description); err == nil {
		return rec, nil
	}

	if s.remote == nil {
		return model.FoodRecord{}, fmt.Errorf("%w: %q", model.ErrFoodNotFound, description)
	}

	if err := ctx.Err(); err != nil {
		return model.FoodRecord{}, err
	}

	rec, err = s.remote.Lookup(ctx, description)
	if err != nil {
		s.logger.Warn().Err(err).Str("description", description).Msg("remote lookup failed")
		if errors.Is(err, model.ErrFoodNotFound) {
			return model.FoodRecord{}, err
		}
		return model.FoodRecord{}, fmt.Errorf("%w: %q", model.ErrFoodNotFound, description)
	}

	s.logger.Info().
		Str("description", description).
		Str("match", rec.Description).
		Msg("resolved through remote source")

	return rec, nil
}

// Portions lists the portion choices for the food named by description.
func (s *foodService) Portions(ctx context.Context, description string) ([]model.PortionOption, error) {
	rec, err := s.Lookup(ctx, description)
	if err != nil {
		return nil, err
	}
	return s.calc.Options(rec), nil
}

// ComparePortions compares two portion labels for the food named by description.
func (s *foodService) ComparePortions(ctx context.Context, description, from, to string) (model.PortionComparison, error) {
	rec, err := s.Lookup(ctx, description)
	if err != nil {
		return model.PortionComparison{}, err
	}
	return s.calc.Compare(rec, from, to)
}

func (s *foodService) Stats() model.CatalogStats {
	return s.catalog.Stats()
}

func (s *foodService) Reload(ctx context.Context) error {
	return s.catalog.Reload(ctx)
}
