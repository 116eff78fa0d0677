package service

import (
	"context"

	"carbwise/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"
)

// MockRemoteSource is a mock implementation of RemoteSource.
type MockRemoteSource struct {
	mock.Mock
}

func (m *MockRemoteSource) Lookup(ctx context.Context, description string) (model.FoodRecord, error) {
	args := m.Called(ctx, description)
	return args.Get(0).(model.FoodRecord), args.Error(1)
}

// MockMealRepository is a mock implementation of MealRepository.
type MockMealRepository struct {
	mock.Mock
}

func (m *MockMealRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	// Return a MockTx interface value, not a pointer
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMealRepository) CreateMeal(ctx context.Context, tx pgx.Tx, meal *model.MealLog) error {
	args := m.Called(ctx, tx, meal)
	return args.Error(0)
}

func (m *MockMealRepository) CreateMealItems(ctx context.Context, tx pgx.Tx, items []model.MealLogItem) error {
	args := m.Called(ctx, tx, items)
	return args.Error(0)
}

func (m *MockMealRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.MealLog, []model.MealLogItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*model.MealLog), args.Get(1).([]model.MealLogItem), args.Error(2)
}

// MockTx is a minimal mock implementation of pgx.Tx for testing.
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Stub methods to satisfy pgx.Tx interface - these are not used in our tests
func (m *MockTx) Begin(ctx context.Context) (pgx.Tx, error) { return nil, nil }
func (m *MockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (m *MockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (m *MockTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (m *MockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (m *MockTx) Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error) {
	return
}
func (m *MockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (m *MockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (m *MockTx) Conn() *pgx.Conn                                               { return nil }

// testFoods is a small catalog shared by the service tests.
func testFoods() []model.FoodRecord {
	return []model.FoodRecord{
		{
			ID:                   "rice",
			Description:          "Rice, white, cooked",
			StandardServingGrams: 158,
			StandardServingUnit:  "g",
			CarbsPer100g:         28.0,
			ProteinPer100g:       2.7,
			FatPer100g:           0.3,
			CaloriesPer100g:      130,
			FiberPer100g:         0.4,
			Portions:             []model.NamedPortion{{Label: "1 cup", Grams: 158}},
		},
		{
			ID:                   "apple",
			Description:          "Apple, raw",
			StandardServingGrams: 182,
			StandardServingUnit:  "g",
			CarbsPer100g:         13.8,
			ProteinPer100g:       0.3,
			FatPer100g:           0.2,
			CaloriesPer100g:      52,
			FiberPer100g:         2.4,
		},
		{
			ID:                   "apple-juice",
			Description:          "Apple juice",
			StandardServingGrams: 248,
			StandardServingUnit:  "g",
			CarbsPer100g:         11.3,
			ProteinPer100g:       0.1,
			FatPer100g:           0.1,
			CaloriesPer100g:      46,
			FiberPer100g:         0.2,
		},
	}
}
