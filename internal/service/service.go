package service

import (
	"context"

	"meal-planner/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductService defines operations for the product catalog.
type ProductService interface {
	// CreateCategory adds a product category.
	CreateCategory(ctx context.Context, input *model.CategoryInput) (*model.ProductCategory, error)

	// GetCategories lists categories ordered by name.
	GetCategories(ctx context.Context) ([]model.ProductCategory, error)

	// Create validates macros and adds a product.
	Create(ctx context.Context, input *model.ProductInput) (*model.ProductResponse, error)

	// Update validates like Create and rewrites an existing product.
	Update(ctx context.Context, id int64, input *model.ProductInput) (*model.ProductResponse, error)

	// GetAll retrieves products with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.ProductResponse, error)

	// GetByID retrieves a single product with its calories.
	GetByID(ctx context.Context, id int64) (*model.ProductResponse, error)

	// Calories returns the energy of 100 g of a product.
	Calories(ctx context.Context, id int64) (decimal.Decimal, error)

	Delete(ctx context.Context, id int64) error
}

// RecipeService defines operations for recipes and their ingredient quantities.
type RecipeService interface {
	Create(ctx context.Context, input *model.RecipeInput) (*model.RecipeResponse, error)

	// Update rewrites a recipe and reconciles its product set.
	Update(ctx context.Context, id int64, input *model.RecipeInput) (*model.RecipeResponse, error)

	// GetAll retrieves recipes ordered by name with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.RecipeResponse, error)

	GetByID(ctx context.Context, id int64) (*model.RecipeResponse, error)

	Delete(ctx context.Context, id int64) error

	// Calories returns the energy of one full batch.
	Calories(ctx context.Context, id int64) (decimal.Decimal, error)

	// PortionCalories returns the energy of one serving.
	PortionCalories(ctx context.Context, id int64) (decimal.Decimal, error)

	// SetQuantity writes the grams of a product already linked to the recipe.
	SetQuantity(ctx context.Context, recipeID, productID int64, grams decimal.Decimal) error
}

// PlanService defines operations for persons, plans and scheduled meals.
type PlanService interface {
	CreatePerson(ctx context.Context, input *model.PersonInput) (*model.Person, error)

	// GetPersons lists the persons of a user.
	GetPersons(ctx context.Context, userID int64) ([]model.Person, error)

	// UpdatePerson rewrites a person owned by input.UserID.
	UpdatePerson(ctx context.Context, id int64, input *model.PersonInput) (*model.Person, error)

	// DeletePerson removes a person owned by userID from every plan.
	DeletePerson(ctx context.Context, id, userID int64) error

	Create(ctx context.Context, input *model.PlanInput) (*model.Plan, error)

	// Update rewrites a plan and its person set. Meals past a shortened
	// length are dropped.
	Update(ctx context.Context, id int64, input *model.PlanInput) (*model.Plan, error)

	// GetAll lists the plans of a user, most recently modified first.
	GetAll(ctx context.Context, userID int64) ([]model.Plan, error)

	// GetByID returns the plan with its budget, meals and per-day consumption.
	GetByID(ctx context.Context, id int64) (*model.PlanSummary, error)

	Delete(ctx context.Context, id int64) error

	// Budget returns the plan's daily calorie budget.
	Budget(ctx context.Context, planID int64) (int64, error)

	// DayCalories returns the calories consumed on one plan day.
	DayCalories(ctx context.Context, planID int64, day int) (decimal.Decimal, error)

	// DayReport returns one day's consumption and the budget read from the
	// same snapshot.
	DayReport(ctx context.Context, planID int64, day int) (*model.DayCaloriesResponse, error)

	// DaysCalories returns consumption for every day of the plan.
	DaysCalories(ctx context.Context, planID int64) ([]decimal.Decimal, error)

	// SaveMeal creates or replaces the meal in a slot if it fits the day's budget.
	SaveMeal(ctx context.Context, req *model.MealRequest) (*model.Meal, error)

	DeleteMeal(ctx context.Context, id int64) error

	// CompleteDayMeal adjusts the portions of the meal in a slot so the day
	// reaches the plan budget.
	CompleteDayMeal(ctx context.Context, planID int64, day int, slot model.MealSlot) (*model.CompletionResponse, error)
}

// ShoppingListService defines operations for shopping list snapshots.
type ShoppingListService interface {
	// Generate aggregates the plan's meals into a new persisted list.
	Generate(ctx context.Context, planID int64) (*model.ShoppingListResponse, error)

	GetByID(ctx context.Context, id uuid.UUID) (*model.ShoppingListResponse, error)

	// Export writes a stored list through the configured exporter and returns its location.
	Export(ctx context.Context, id uuid.UUID) (string, error)
}
