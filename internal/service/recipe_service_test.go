package service

import (
	"context"
	"errors"
	"testing"

	"meal-planner/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	bread  = model.Product{ID: 1, Name: "Chleb", CategoryName: "Pieczywo", Proteins: dec("10"), Carbohydrates: dec("50"), Fats: dec("2")}
	cheese = model.Product{ID: 2, Name: "Ser", CategoryName: "Nabiał", Proteins: dec("25"), Carbohydrates: dec("0"), Fats: dec("27")}
)

// sandwich is 4 portions of 200 g bread and 100 g cheese: 859 kcal, 214.75 per portion.
func sandwich(id int64) *model.Recipe {
	return &model.Recipe{
		ID:       id,
		Name:     "Kanapka",
		Portions: dec("4"),
		Ingredients: []model.Ingredient{
			{RecipeID: id, ProductID: bread.ID, Quantity: dec("200"), Product: bread},
			{RecipeID: id, ProductID: cheese.ID, Quantity: dec("100"), Product: cheese},
		},
	}
}

func TestRecipeService_Create_Success(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	recipeRepo := new(MockRecipeRepository)
	productRepo := new(MockProductRepository)
	mockTx := new(MockTx)
	service := NewRecipeService(recipeRepo, productRepo, logger)

	productRepo.On("ValidateProductsExist", ctx, []int64{1, 2}).Return(nil)
	recipeRepo.On("BeginTx", ctx).Return(mockTx, nil)
	recipeRepo.On("Create", ctx, mockTx, mock.MatchedBy(func(r *model.Recipe) bool {
		return r.Name == "Kanapka" && r.Portions.Equal(model.DefaultRecipePortions)
	}), []int64{1, 2}).Run(func(args mock.Arguments) {
		args.Get(2).(*model.Recipe).ID = 5
	}).Return(nil)
	mockTx.On("Commit", ctx).Return(nil)
	recipeRepo.On("GetByID", ctx, nil, int64(5)).Return(sandwich(5), nil)

	resp, err := service.Create(ctx, &model.RecipeInput{Name: "Kanapka", ProductIDs: []int64{2, 1, 2}})

	require.NoError(t, err)
	assert.Equal(t, int64(5), resp.ID)
	assert.Equal(t, "859", resp.RecipeCalories.String())
	assert.Equal(t, "214.75", resp.PortionCalories.String())
	assert.True(t, mockTx.committed)
	assert.False(t, mockTx.rolledBack)

	recipeRepo.AssertExpectations(t)
	productRepo.AssertExpectations(t)
	mockTx.AssertExpectations(t)
}

func TestRecipeService_Create_ValidationErrors(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	recipeRepo := new(MockRecipeRepository)
	productRepo := new(MockProductRepository)
	service := NewRecipeService(recipeRepo, productRepo, logger)

	tests := []struct {
		name  string
		input *model.RecipeInput
	}{
		{name: "Nil input", input: nil},
		{name: "Empty name", input: &model.RecipeInput{Name: " "}},
		{name: "Negative preparation time", input: &model.RecipeInput{Name: "Zupa", PreparationTime: -1}},
		{name: "Zero portions", input: &model.RecipeInput{Name: "Zupa", Portions: decPtr("0")}},
		{name: "Negative portions", input: &model.RecipeInput{Name: "Zupa", Portions: decPtr("-2")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := service.Create(ctx, tt.input)

			require.Error(t, err)
			assert.True(t, errors.Is(err, model.ErrInvalidInput), "got %v", err)
			assert.Nil(t, resp)
		})
	}

	productRepo.AssertNotCalled(t, "ValidateProductsExist")
	recipeRepo.AssertNotCalled(t, "BeginTx")
}

func TestRecipeService_Create_UnknownProduct(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	recipeRepo := new(MockRecipeRepository)
	productRepo := new(MockProductRepository)
	service := NewRecipeService(recipeRepo, productRepo, logger)

	productRepo.On("ValidateProductsExist", ctx, []int64{9}).Return(model.NotFoundf("product 9 not found"))

	_, err := service.Create(ctx, &model.RecipeInput{Name: "Zupa", ProductIDs: []int64{9}})

	assert.True(t, errors.Is(err, model.ErrNotFound))
	recipeRepo.AssertNotCalled(t, "BeginTx")
}

func TestRecipeService_Create_RollsBackOnError(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	recipeRepo := new(MockRecipeRepository)
	productRepo := new(MockProductRepository)
	mockTx := new(MockTx)
	service := NewRecipeService(recipeRepo, productRepo, logger)

	duplicate := model.InvalidInputf("recipe %q already exists", "Kanapka")
	productRepo.On("ValidateProductsExist", ctx, []int64{}).Return(nil)
	recipeRepo.On("BeginTx", ctx).Return(mockTx, nil)
	recipeRepo.On("Create", ctx, mockTx, mock.AnythingOfType("*model.Recipe"), []int64{}).Return(duplicate)
	mockTx.On("Rollback", ctx).Return(nil)

	_, err := service.Create(ctx, &model.RecipeInput{Name: "Kanapka", ProductIDs: []int64{}})

	assert.Equal(t, duplicate, err)
	assert.True(t, mockTx.rolledBack)
	mockTx.AssertNotCalled(t, "Commit", ctx)
}

func TestRecipeService_Update(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	tests := []struct {
		name        string
		found       bool
		expectedErr error
	}{
		{name: "Success", found: true},
		{name: "Recipe not found", found: false, expectedErr: model.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recipeRepo := new(MockRecipeRepository)
			productRepo := new(MockProductRepository)
			mockTx := new(MockTx)
			service := NewRecipeService(recipeRepo, productRepo, logger)

			productRepo.On("ValidateProductsExist", ctx, []int64{1}).Return(nil)
			recipeRepo.On("BeginTx", ctx).Return(mockTx, nil)
			recipeRepo.On("Update", ctx, mockTx, mock.MatchedBy(func(r *model.Recipe) bool {
				return r.ID == 5 && r.Portions.Equal(dec("2"))
			}), []int64{1}).Return(tt.found, nil)

			if tt.found {
				mockTx.On("Commit", ctx).Return(nil)
				recipeRepo.On("GetByID", ctx, nil, int64(5)).Return(sandwich(5), nil)
			} else {
				mockTx.On("Rollback", ctx).Return(nil)
			}

			resp, err := service.Update(ctx, 5, &model.RecipeInput{Name: "Kanapka", Portions: decPtr("2"), ProductIDs: []int64{1}})

			if tt.expectedErr != nil {
				assert.True(t, errors.Is(err, tt.expectedErr))
				assert.Nil(t, resp)
				assert.True(t, mockTx.rolledBack)
			} else {
				require.NoError(t, err)
				assert.Equal(t, int64(5), resp.ID)
				assert.True(t, mockTx.committed)
			}
			recipeRepo.AssertExpectations(t)
			mockTx.AssertExpectations(t)
		})
	}
}

func TestRecipeService_Calories(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	empty := &model.Recipe{ID: 6, Name: "Pusty", Portions: dec("0")}

	tests := []struct {
		name        string
		recipeID    int64
		mockReturn  *model.Recipe
		recipeKcal  string
		portionKcal string
		recipeErr   error
		portionErr  error
	}{
		{name: "Sandwich", recipeID: 5, mockReturn: sandwich(5), recipeKcal: "859", portionKcal: "214.75"},
		{name: "Zero portions", recipeID: 6, mockReturn: empty, recipeKcal: "0", portionErr: model.ErrDivision},
		{name: "Not found", recipeID: 7, recipeErr: model.ErrNotFound, portionErr: model.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recipeRepo := new(MockRecipeRepository)
			service := NewRecipeService(recipeRepo, new(MockProductRepository), logger)
			recipeRepo.On("GetByID", ctx, nil, tt.recipeID).Return(tt.mockReturn, nil)

			kcal, err := service.Calories(ctx, tt.recipeID)
			if tt.recipeErr != nil {
				assert.True(t, errors.Is(err, tt.recipeErr))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.recipeKcal, kcal.String())
			}

			portion, err := service.PortionCalories(ctx, tt.recipeID)
			if tt.portionErr != nil {
				assert.True(t, errors.Is(err, tt.portionErr), "got %v", err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.portionKcal, portion.String())
			}
		})
	}
}

func TestRecipeService_SetQuantity(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	tests := []struct {
		name        string
		grams       string
		setup       func(r *MockRecipeRepository)
		expectedErr error
	}{
		{
			name:  "Success",
			grams: "150",
			setup: func(r *MockRecipeRepository) {
				r.On("SetQuantity", ctx, int64(5), int64(1), dec("150")).Return(true, nil)
			},
		},
		{
			name:  "Zero grams",
			grams: "0",
			setup: func(r *MockRecipeRepository) {
				r.On("SetQuantity", ctx, int64(5), int64(1), dec("0")).Return(true, nil)
			},
		},
		{
			name:  "Link missing",
			grams: "150",
			setup: func(r *MockRecipeRepository) {
				r.On("SetQuantity", ctx, int64(5), int64(1), dec("150")).Return(false, nil)
			},
			expectedErr: model.ErrNotFound,
		},
		{
			name:        "Negative grams",
			grams:       "-0.5",
			expectedErr: model.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recipeRepo := new(MockRecipeRepository)
			if tt.setup != nil {
				tt.setup(recipeRepo)
			}
			service := NewRecipeService(recipeRepo, new(MockProductRepository), logger)

			err := service.SetQuantity(ctx, 5, 1, dec(tt.grams))

			if tt.expectedErr != nil {
				assert.True(t, errors.Is(err, tt.expectedErr), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
			recipeRepo.AssertExpectations(t)
		})
	}
}

func TestRecipeService_Delete(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	recipeRepo := new(MockRecipeRepository)
	service := NewRecipeService(recipeRepo, new(MockProductRepository), logger)

	recipeRepo.On("Delete", ctx, int64(1)).Return(true, nil)
	recipeRepo.On("Delete", ctx, int64(2)).Return(false, nil)
	recipeRepo.On("Delete", ctx, int64(3)).Return(false, errors.New("database error"))

	assert.NoError(t, service.Delete(ctx, 1))
	assert.True(t, errors.Is(service.Delete(ctx, 2), model.ErrNotFound))
	assert.Error(t, service.Delete(ctx, 3))
}

func TestRecipeService_GetAll(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	empty := model.Recipe{ID: 6, Name: "Woda", Portions: dec("1"), Ingredients: []model.Ingredient{}}

	tests := []struct {
		name          string
		limit         int
		offset        int
		expectedLimit int
		mockReturn    []model.Recipe
		mockError     error
		expectError   bool
	}{
		{name: "Success", limit: 10, expectedLimit: 10, mockReturn: []model.Recipe{*sandwich(5), empty}},
		{name: "Zero limit defaults to 10", limit: 0, expectedLimit: 10, mockReturn: []model.Recipe{}},
		{name: "Limit exceeding max caps at 100", limit: 500, expectedLimit: 100, mockReturn: []model.Recipe{}},
		{name: "Negative offset defaults to 0", limit: 5, offset: -1, expectedLimit: 5, mockReturn: []model.Recipe{}},
		{name: "Repository error", limit: 10, expectedLimit: 10, mockError: errors.New("database error"), expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recipeRepo := new(MockRecipeRepository)
			service := NewRecipeService(recipeRepo, new(MockProductRepository), logger)

			expectedOffset := max(tt.offset, 0)
			recipeRepo.On("GetAll", ctx, tt.expectedLimit, expectedOffset).Return(tt.mockReturn, tt.mockError)

			recipes, err := service.GetAll(ctx, tt.limit, tt.offset)

			if tt.expectError {
				require.Error(t, err)
				assert.Nil(t, recipes)
			} else {
				require.NoError(t, err)
				require.Len(t, recipes, len(tt.mockReturn))
				if len(recipes) > 0 {
					assert.Equal(t, "859", recipes[0].RecipeCalories.String())
					assert.Equal(t, "214.75", recipes[0].PortionCalories.String())
					assert.True(t, recipes[1].RecipeCalories.IsZero())
				}
			}
			recipeRepo.AssertExpectations(t)
		})
	}
}
