package service

import (
	"context"

	"meal-planner/internal/model"
	"meal-planner/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// MockCategoryRepository is a mock implementation of CategoryRepository.
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *model.ProductCategory) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) GetAll(ctx context.Context) ([]model.ProductCategory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ProductCategory), args.Error(1)
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id int64) (*model.ProductCategory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProductCategory), args.Error(1)
}

// MockProductRepository is a mock implementation of ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *model.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, product *model.Product) (bool, error) {
	args := m.Called(ctx, product)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) ValidateProductsExist(ctx context.Context, ids []int64) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockRecipeRepository is a mock implementation of RecipeRepository.
type MockRecipeRepository struct {
	mock.Mock
}

func (m *MockRecipeRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRecipeRepository) Create(ctx context.Context, tx pgx.Tx, recipe *model.Recipe, productIDs []int64) error {
	args := m.Called(ctx, tx, recipe, productIDs)
	return args.Error(0)
}

func (m *MockRecipeRepository) Update(ctx context.Context, tx pgx.Tx, recipe *model.Recipe, productIDs []int64) (bool, error) {
	args := m.Called(ctx, tx, recipe, productIDs)
	return args.Bool(0), args.Error(1)
}

func (m *MockRecipeRepository) GetAll(ctx context.Context, limit, offset int) ([]model.Recipe, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) GetByID(ctx context.Context, q repository.Querier, id int64) (*model.Recipe, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) GetByIDs(ctx context.Context, q repository.Querier, ids []int64) (map[int64]*model.Recipe, error) {
	args := m.Called(ctx, q, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]*model.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) SetQuantity(ctx context.Context, recipeID, productID int64, quantity decimal.Decimal) (bool, error) {
	args := m.Called(ctx, recipeID, productID, quantity)
	return args.Bool(0), args.Error(1)
}

func (m *MockRecipeRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockPlanRepository is a mock implementation of PlanRepository.
type MockPlanRepository struct {
	mock.Mock
}

func (m *MockPlanRepository) BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error) {
	args := m.Called(ctx, opts)
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPlanRepository) CreatePerson(ctx context.Context, person *model.Person) error {
	args := m.Called(ctx, person)
	return args.Error(0)
}

func (m *MockPlanRepository) GetPersons(ctx context.Context, userID int64) ([]model.Person, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Person), args.Error(1)
}

func (m *MockPlanRepository) GetPerson(ctx context.Context, id int64) (*model.Person, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Person), args.Error(1)
}

func (m *MockPlanRepository) UpdatePerson(ctx context.Context, person *model.Person) (bool, error) {
	args := m.Called(ctx, person)
	return args.Bool(0), args.Error(1)
}

func (m *MockPlanRepository) DeletePerson(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockPlanRepository) ValidatePersonsExist(ctx context.Context, ids []int64) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

func (m *MockPlanRepository) Create(ctx context.Context, tx pgx.Tx, plan *model.Plan, personIDs []int64) error {
	args := m.Called(ctx, tx, plan, personIDs)
	return args.Error(0)
}

func (m *MockPlanRepository) Update(ctx context.Context, tx pgx.Tx, plan *model.Plan, personIDs []int64) (bool, error) {
	args := m.Called(ctx, tx, plan, personIDs)
	return args.Bool(0), args.Error(1)
}

func (m *MockPlanRepository) GetAll(ctx context.Context, userID int64) ([]model.Plan, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Plan), args.Error(1)
}

func (m *MockPlanRepository) GetByID(ctx context.Context, q repository.Querier, id int64) (*model.Plan, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Plan), args.Error(1)
}

func (m *MockPlanRepository) LockForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*model.Plan, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Plan), args.Error(1)
}

func (m *MockPlanRepository) Calories(ctx context.Context, q repository.Querier, planID int64) (int64, error) {
	args := m.Called(ctx, q, planID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPlanRepository) Touch(ctx context.Context, q repository.Querier, planID int64) error {
	args := m.Called(ctx, q, planID)
	return args.Error(0)
}

func (m *MockPlanRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockMealRepository is a mock implementation of MealRepository.
type MockMealRepository struct {
	mock.Mock
}

func (m *MockMealRepository) GetByID(ctx context.Context, id int64) (*model.Meal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Meal), args.Error(1)
}

func (m *MockMealRepository) ListDay(ctx context.Context, q repository.Querier, planID int64, day int) ([]model.Meal, error) {
	args := m.Called(ctx, q, planID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Meal), args.Error(1)
}

func (m *MockMealRepository) ListByPlan(ctx context.Context, q repository.Querier, planID int64) ([]model.Meal, error) {
	args := m.Called(ctx, q, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Meal), args.Error(1)
}

func (m *MockMealRepository) FindSlot(ctx context.Context, q repository.Querier, planID int64, day int, slot model.MealSlot, userID int64) (*model.Meal, error) {
	args := m.Called(ctx, q, planID, day, slot, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Meal), args.Error(1)
}

func (m *MockMealRepository) FirstInSlot(ctx context.Context, q repository.Querier, planID int64, day int, slot model.MealSlot) (*model.Meal, error) {
	args := m.Called(ctx, q, planID, day, slot)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Meal), args.Error(1)
}

func (m *MockMealRepository) Upsert(ctx context.Context, tx pgx.Tx, meal *model.Meal) error {
	args := m.Called(ctx, tx, meal)
	return args.Error(0)
}

func (m *MockMealRepository) UpdatePortions(ctx context.Context, tx pgx.Tx, id int64, portions decimal.Decimal) error {
	args := m.Called(ctx, tx, id, portions)
	return args.Error(0)
}

func (m *MockMealRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockShoppingListRepository is a mock implementation of ShoppingListRepository.
type MockShoppingListRepository struct {
	mock.Mock
}

func (m *MockShoppingListRepository) Create(ctx context.Context, tx pgx.Tx, list *model.ShoppingList) error {
	args := m.Called(ctx, tx, list)
	return args.Error(0)
}

func (m *MockShoppingListRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ShoppingList, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ShoppingList), args.Error(1)
}

// MockExporter is a mock implementation of shopping.Exporter.
type MockExporter struct {
	mock.Mock
}

func (m *MockExporter) Export(ctx context.Context, name string, rows []model.ShoppingListRow) (string, error) {
	args := m.Called(ctx, name, rows)
	return args.String(0), args.Error(1)
}

// MockTx is a minimal mock implementation of pgx.Tx for testing.
type MockTx struct {
	mock.Mock
	committed  bool
	rolledBack bool
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	m.committed = true
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	m.rolledBack = true
	return args.Error(0)
}

// Stub methods to satisfy pgx.Tx interface - repositories are mocked, so these are never reached
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
