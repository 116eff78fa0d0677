package service

import (
	"context"
	"errors"
	"testing"

	"carbwise/internal/catalog"
	"carbwise/internal/model"
	"carbwise/internal/portion"
	"carbwise/internal/serving"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestFoodService(remote RemoteSource) FoodService {
	logger := zerolog.Nop()
	return NewFoodService(
		catalog.NewWithRecords(testFoods(), logger),
		portion.DefaultAliasTable(),
		remote,
		serving.NewCalculator(logger),
		logger,
	)
}

func descriptions(records []model.FoodRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Description
	}
	return out
}

func TestFoodService_Search(t *testing.T) {
	svc := newTestFoodService(nil)
	ctx := context.Background()

	tests := []struct {
		name     string
		query    string
		exclude  []string
		expected []string
	}{
		{
			name:     "Without exclusions",
			query:    "apple",
			expected: []string{"Apple juice", "Apple, raw"},
		},
		{
			name:     "Exclusion is case-insensitive",
			query:    "apple",
			exclude:  []string{"  APPLE JUICE "},
			expected: []string{"Apple, raw"},
		},
		{
			name:     "Exclusion keeps weaker fuzzy matches",
			query:    "aplj",
			exclude:  []string{"Apple, raw"},
			expected: []string{"Apple juice"},
		},
		{
			name:     "Empty query",
			query:    "",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := svc.Search(ctx, tt.query, tt.exclude)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, descriptions(results))
		})
	}
}

func TestFoodService_Search_CatalogNotLoaded(t *testing.T) {
	logger := zerolog.Nop()
	svc := NewFoodService(catalog.New(nil, "missing.json", logger), nil, nil, serving.NewCalculator(logger), logger)

	results, err := svc.Search(context.Background(), "rice", nil)

	require.ErrorIs(t, err, model.ErrCatalogNotLoaded)
	assert.Nil(t, results)
}

func TestFoodService_Lookup(t *testing.T) {
	svc := newTestFoodService(nil)
	ctx := context.Background()

	tests := []struct {
		name        string
		description string
		expectedID  string
		expectedErr error
	}{
		{
			name:        "Exact match ignoring case",
			description: "RICE, WHITE, COOKED",
			expectedID:  "rice",
		},
		{
			name:        "Alias table",
			description: "cooked white rice",
			expectedID:  "rice",
		},
		{
			name:        "Normalized name",
			description: "Apple Juice!!",
			expectedID:  "apple-juice",
		},
		{
			name:        "Unknown food",
			description: "Unicorn steak",
			expectedErr: model.ErrFoodNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := svc.Lookup(ctx, tt.description)

			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedID, rec.ID)
		})
	}
}

func TestFoodService_Lookup_Remote(t *testing.T) {
	ctx := context.Background()

	quinoa := model.FoodRecord{
		ID:                   "fdc-168917",
		Description:          "Quinoa, cooked",
		StandardServingGrams: 100,
		CarbsPer100g:         21.3,
		Source:               "usda",
	}

	tests := []struct {
		name        string
		description string
		setupMock   func(*MockRemoteSource)
		expectedID  string
		expectedErr error
	}{
		{
			name:        "Local hit skips remote",
			description: "Apple, raw",
			setupMock:   func(m *MockRemoteSource) {},
			expectedID:  "apple",
		},
		{
			name:        "Remote hit",
			description: "quinoa",
			setupMock: func(m *MockRemoteSource) {
				m.On("Lookup", mock.Anything, "quinoa").Return(quinoa, nil)
			},
			expectedID: "fdc-168917",
		},
		{
			name:        "Remote failure reads as not found",
			description: "quinoa",
			setupMock: func(m *MockRemoteSource) {
				m.On("Lookup", mock.Anything, "quinoa").Return(model.FoodRecord{}, errors.New("connection refused"))
			},
			expectedErr: model.ErrFoodNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote := new(MockRemoteSource)
			tt.setupMock(remote)

			svc := newTestFoodService(remote)
			rec, err := svc.Lookup(ctx, tt.description)

			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedID, rec.ID)
			}
			remote.AssertExpectations(t)
		})
	}
}

func TestFoodService_Lookup_NotLoadedSkipsRemote(t *testing.T) {
	logger := zerolog.Nop()
	remote := new(MockRemoteSource)
	svc := NewFoodService(catalog.New(nil, "missing.json", logger), nil, remote, serving.NewCalculator(logger), logger)

	_, err := svc.Lookup(context.Background(), "quinoa")

	require.ErrorIs(t, err, model.ErrCatalogNotLoaded)
	remote.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
}

func TestFoodService_Portions(t *testing.T) {
	svc := newTestFoodService(nil)

	options, err := svc.Portions(context.Background(), "rice")
	require.NoError(t, err)

	byLabel := make(map[string]model.PortionOption, len(options))
	for _, o := range options {
		byLabel[o.Label] = o
	}

	assert.Equal(t, "Medium (100%)", byLabel["Medium"].Display)
	assert.Equal(t, 158.0, byLabel["Medium"].Grams)
	assert.Equal(t, 237.0, byLabel["Large"].Grams)
	assert.Equal(t, 158.0, byLabel["1 cup"].Grams)
	assert.Equal(t, 100.0, byLabel["100 g"].Grams)

	_, err = svc.Portions(context.Background(), "Unicorn steak")
	require.ErrorIs(t, err, model.ErrFoodNotFound)
}

func TestFoodService_ComparePortions(t *testing.T) {
	svc := newTestFoodService(nil)

	cmp, err := svc.ComparePortions(context.Background(), "Rice, white, cooked", "Medium", "Large")
	require.NoError(t, err)

	assert.Equal(t, 158.0, cmp.FromGrams)
	assert.Equal(t, 237.0, cmp.ToGrams)
	assert.Equal(t, 79.0, cmp.DiffGrams)
	assert.Equal(t, 1.5, cmp.Ratio)
}

func TestFoodService_StatsAndReload(t *testing.T) {
	svc := newTestFoodService(nil)

	stats := svc.Stats()
	assert.True(t, stats.Loaded)
	assert.Equal(t, 3, stats.Foods)
	assert.Equal(t, "memory", stats.Source)

	// an in-memory catalog has no loader to reload from
	err := svc.Reload(context.Background())
	require.ErrorIs(t, err, model.ErrCatalogLoad)
	assert.Equal(t, 3, svc.Stats().Foods)
}
