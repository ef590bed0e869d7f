package handler

import (
	"context"

	"meal-planner/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockProductService is a mock implementation of ProductService.
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) CreateCategory(ctx context.Context, input *model.CategoryInput) (*model.ProductCategory, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProductCategory), args.Error(1)
}

func (m *MockProductService) GetCategories(ctx context.Context) ([]model.ProductCategory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ProductCategory), args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, input *model.ProductInput) (*model.ProductResponse, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProductResponse), args.Error(1)
}

func (m *MockProductService) Update(ctx context.Context, id int64, input *model.ProductInput) (*model.ProductResponse, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProductResponse), args.Error(1)
}

func (m *MockProductService) GetAll(ctx context.Context, limit, offset int) ([]model.ProductResponse, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ProductResponse), args.Error(1)
}

func (m *MockProductService) GetByID(ctx context.Context, id int64) (*model.ProductResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProductResponse), args.Error(1)
}

func (m *MockProductService) Calories(ctx context.Context, id int64) (decimal.Decimal, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockProductService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockRecipeService is a mock implementation of RecipeService.
type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) Create(ctx context.Context, input *model.RecipeInput) (*model.RecipeResponse, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RecipeResponse), args.Error(1)
}

func (m *MockRecipeService) Update(ctx context.Context, id int64, input *model.RecipeInput) (*model.RecipeResponse, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RecipeResponse), args.Error(1)
}

func (m *MockRecipeService) GetAll(ctx context.Context, limit, offset int) ([]model.RecipeResponse, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RecipeResponse), args.Error(1)
}

func (m *MockRecipeService) GetByID(ctx context.Context, id int64) (*model.RecipeResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RecipeResponse), args.Error(1)
}

func (m *MockRecipeService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRecipeService) Calories(ctx context.Context, id int64) (decimal.Decimal, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockRecipeService) PortionCalories(ctx context.Context, id int64) (decimal.Decimal, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockRecipeService) SetQuantity(ctx context.Context, recipeID, productID int64, grams decimal.Decimal) error {
	args := m.Called(ctx, recipeID, productID, grams)
	return args.Error(0)
}

// MockPlanService is a mock implementation of PlanService.
type MockPlanService struct {
	mock.Mock
}

func (m *MockPlanService) CreatePerson(ctx context.Context, input *model.PersonInput) (*model.Person, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Person), args.Error(1)
}

func (m *MockPlanService) GetPersons(ctx context.Context, userID int64) ([]model.Person, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Person), args.Error(1)
}

func (m *MockPlanService) UpdatePerson(ctx context.Context, id int64, input *model.PersonInput) (*model.Person, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Person), args.Error(1)
}

func (m *MockPlanService) DeletePerson(ctx context.Context, id, userID int64) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockPlanService) Create(ctx context.Context, input *model.PlanInput) (*model.Plan, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Plan), args.Error(1)
}

func (m *MockPlanService) Update(ctx context.Context, id int64, input *model.PlanInput) (*model.Plan, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Plan), args.Error(1)
}

func (m *MockPlanService) GetAll(ctx context.Context, userID int64) ([]model.Plan, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Plan), args.Error(1)
}

func (m *MockPlanService) GetByID(ctx context.Context, id int64) (*model.PlanSummary, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PlanSummary), args.Error(1)
}

func (m *MockPlanService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPlanService) Budget(ctx context.Context, planID int64) (int64, error) {
	args := m.Called(ctx, planID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPlanService) DayCalories(ctx context.Context, planID int64, day int) (decimal.Decimal, error) {
	args := m.Called(ctx, planID, day)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockPlanService) DayReport(ctx context.Context, planID int64, day int) (*model.DayCaloriesResponse, error) {
	args := m.Called(ctx, planID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DayCaloriesResponse), args.Error(1)
}

func (m *MockPlanService) DaysCalories(ctx context.Context, planID int64) ([]decimal.Decimal, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]decimal.Decimal), args.Error(1)
}

func (m *MockPlanService) SaveMeal(ctx context.Context, req *model.MealRequest) (*model.Meal, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Meal), args.Error(1)
}

func (m *MockPlanService) DeleteMeal(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPlanService) CompleteDayMeal(ctx context.Context, planID int64, day int, slot model.MealSlot) (*model.CompletionResponse, error) {
	args := m.Called(ctx, planID, day, slot)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CompletionResponse), args.Error(1)
}

// MockShoppingListService is a mock implementation of ShoppingListService.
type MockShoppingListService struct {
	mock.Mock
}

func (m *MockShoppingListService) Generate(ctx context.Context, planID int64) (*model.ShoppingListResponse, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ShoppingListResponse), args.Error(1)
}

func (m *MockShoppingListService) GetByID(ctx context.Context, id uuid.UUID) (*model.ShoppingListResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ShoppingListResponse), args.Error(1)
}

func (m *MockShoppingListService) Export(ctx context.Context, id uuid.UUID) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}
