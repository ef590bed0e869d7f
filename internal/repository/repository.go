package repository

import (
	"context"

	"meal-planner/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Methods taking a Querier run on the pool when it is nil.

// CategoryRepository defines data access for product categories.
type CategoryRepository interface {
	// Create inserts a category. A duplicate name is an invalid input.
	Create(ctx context.Context, category *model.ProductCategory) error

	// GetAll lists categories ordered by name.
	GetAll(ctx context.Context) ([]model.ProductCategory, error)

	// GetByID returns nil when the category does not exist.
	GetByID(ctx context.Context, id int64) (*model.ProductCategory, error)
}

// ProductRepository defines data access for products.
type ProductRepository interface {
	// Create inserts a product and fills its ID, category name and timestamp.
	Create(ctx context.Context, product *model.Product) error

	// GetAll retrieves products with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID returns nil when the product does not exist.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// Update rewrites name, category and macros. It reports whether the product exists.
	Update(ctx context.Context, product *model.Product) (bool, error)

	// ValidateProductsExist returns a not-found error naming the first missing ID.
	ValidateProductsExist(ctx context.Context, ids []int64) error

	// Delete removes a product with its recipe links and shopping list entries. It reports whether a row was deleted.
	Delete(ctx context.Context, id int64) (bool, error)
}

// RecipeRepository defines data access for recipes and their product links.
type RecipeRepository interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// Create inserts a recipe and links each product with a quantity of zero.
	Create(ctx context.Context, tx pgx.Tx, recipe *model.Recipe, productIDs []int64) error

	// Update rewrites recipe fields and reconciles links with productIDs:
	// missing links are dropped and new ones start at zero. Existing
	// quantities are kept. It reports whether the recipe exists.
	Update(ctx context.Context, tx pgx.Tx, recipe *model.Recipe, productIDs []int64) (bool, error)

	// GetAll loads a page of recipes ordered by name, with ingredients.
	GetAll(ctx context.Context, limit, offset int) ([]model.Recipe, error)

	// GetByID loads a recipe with its ingredients and their products.
	GetByID(ctx context.Context, q Querier, id int64) (*model.Recipe, error)

	// GetByIDs loads several recipes keyed by ID. Missing IDs are absent from the map.
	GetByIDs(ctx context.Context, q Querier, ids []int64) (map[int64]*model.Recipe, error)

	// SetQuantity writes the grams of an existing link. It reports whether the link exists.
	SetQuantity(ctx context.Context, recipeID, productID int64, quantity decimal.Decimal) (bool, error)

	Delete(ctx context.Context, id int64) (bool, error)
}

// PlanRepository defines data access for persons and plans.
type PlanRepository interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)

	CreatePerson(ctx context.Context, person *model.Person) error

	// GetPersons lists a user's persons ordered by ID.
	GetPersons(ctx context.Context, userID int64) ([]model.Person, error)

	// GetPerson returns nil when the person does not exist.
	GetPerson(ctx context.Context, id int64) (*model.Person, error)

	// UpdatePerson rewrites name and calories. It reports whether the person exists.
	UpdatePerson(ctx context.Context, person *model.Person) (bool, error)

	// DeletePerson removes a person from every plan it belongs to.
	DeletePerson(ctx context.Context, id int64) (bool, error)

	// ValidatePersonsExist returns a not-found error naming the first missing ID.
	ValidatePersonsExist(ctx context.Context, ids []int64) error

	// Create inserts a plan and its person assignments.
	Create(ctx context.Context, tx pgx.Tx, plan *model.Plan, personIDs []int64) error

	// Update rewrites name and length, replaces the person set and drops
	// meals scheduled past the new length. It reports whether the plan exists.
	Update(ctx context.Context, tx pgx.Tx, plan *model.Plan, personIDs []int64) (bool, error)

	// GetAll lists a user's plans, most recently modified first, without persons.
	GetAll(ctx context.Context, userID int64) ([]model.Plan, error)

	// GetByID loads a plan with its persons.
	GetByID(ctx context.Context, q Querier, id int64) (*model.Plan, error)

	// LockForUpdate row-locks the plan until tx ends and returns it without persons.
	LockForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*model.Plan, error)

	// Calories sums the daily requirement of the plan's persons.
	Calories(ctx context.Context, q Querier, planID int64) (int64, error)

	// Touch bumps the plan's modification time.
	Touch(ctx context.Context, q Querier, planID int64) error

	Delete(ctx context.Context, id int64) (bool, error)
}

// MealRepository defines data access for scheduled meals.
type MealRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Meal, error)

	// ListDay returns every meal of one plan day ordered by ID.
	ListDay(ctx context.Context, q Querier, planID int64, day int) ([]model.Meal, error)

	// ListByPlan returns every meal of a plan ordered by ID.
	ListByPlan(ctx context.Context, q Querier, planID int64) ([]model.Meal, error)

	// FindSlot returns the user's meal in a slot, or nil.
	FindSlot(ctx context.Context, q Querier, planID int64, day int, slot model.MealSlot, userID int64) (*model.Meal, error)

	// FirstInSlot returns the lowest-ID meal in a slot across users, or nil.
	FirstInSlot(ctx context.Context, q Querier, planID int64, day int, slot model.MealSlot) (*model.Meal, error)

	// Upsert inserts or replaces the meal for its (plan, day, slot, user) and
	// fills ID and modification time.
	Upsert(ctx context.Context, tx pgx.Tx, meal *model.Meal) error

	// UpdatePortions overwrites the portions of a meal.
	UpdatePortions(ctx context.Context, tx pgx.Tx, id int64, portions decimal.Decimal) error

	Delete(ctx context.Context, id int64) (bool, error)
}

// ShoppingListRepository defines data access for shopping list snapshots.
type ShoppingListRepository interface {
	// Create inserts the list and its entries within the provided transaction.
	Create(ctx context.Context, tx pgx.Tx, list *model.ShoppingList) error

	// GetByID loads a list with entries in their original order.
	GetByID(ctx context.Context, id uuid.UUID) (*model.ShoppingList, error)
}
