package handler

import (
	"context"

	"carbwise/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockFoodService is a mock implementation of FoodService.
type MockFoodService struct {
	mock.Mock
}

func (m *MockFoodService) Search(ctx context.Context, query string, exclude []string) ([]model.FoodRecord, error) {
	args := m.Called(ctx, query, exclude)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.FoodRecord), args.Error(1)
}

func (m *MockFoodService) Lookup(ctx context.Context, description string) (model.FoodRecord, error) {
	args := m.Called(ctx, description)
	return args.Get(0).(model.FoodRecord), args.Error(1)
}

func (m *MockFoodService) Portions(ctx context.Context, description string) ([]model.PortionOption, error) {
	args := m.Called(ctx, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PortionOption), args.Error(1)
}

func (m *MockFoodService) ComparePortions(ctx context.Context, description, from, to string) (model.PortionComparison, error) {
	args := m.Called(ctx, description, from, to)
	return args.Get(0).(model.PortionComparison), args.Error(1)
}

func (m *MockFoodService) Stats() model.CatalogStats {
	args := m.Called()
	return args.Get(0).(model.CatalogStats)
}

func (m *MockFoodService) Reload(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockMealService is a mock implementation of MealService.
type MockMealService struct {
	mock.Mock
}

func (m *MockMealService) Estimate(ctx context.Context, req *model.MealRequest) (*model.MealEstimate, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MealEstimate), args.Error(1)
}

func (m *MockMealService) EstimateGlucose(ctx context.Context, req *model.GlucoseRequest) (*model.GlucoseImpactEstimate, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GlucoseImpactEstimate), args.Error(1)
}

func (m *MockMealService) Save(ctx context.Context, req *model.MealRequest) (*model.MealLogResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MealLogResponse), args.Error(1)
}

func (m *MockMealService) GetByID(ctx context.Context, id uuid.UUID) (*model.MealLogResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MealLogResponse), args.Error(1)
}
