package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultRecipePortions is the number of servings a batch yields when none is given.
var DefaultRecipePortions = decimal.NewFromInt(4)

// Recipe is a set of products with quantities for one full batch.
type Recipe struct {
	ID              int64           `json:"id" db:"id"`
	Name            string          `json:"name" db:"name"`
	Description     string          `json:"description" db:"description"`
	PreparationTime int             `json:"preparationTime" db:"preparation_time"`
	Portions        decimal.Decimal `json:"portions" db:"portions"`
	Ingredients     []Ingredient    `json:"ingredients"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time       `json:"updatedAt" db:"updated_at"`
}

// Ingredient links a recipe to a product with the grams used in one batch.
type Ingredient struct {
	RecipeID  int64           `json:"recipeId" db:"recipe_id"`
	ProductID int64           `json:"productId" db:"product_id"`
	Quantity  decimal.Decimal `json:"quantity" db:"product_quantity"`
	Product   Product         `json:"product"`
}

// RecipeInput is the validated payload for creating or updating a recipe.
type RecipeInput struct {
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	PreparationTime int              `json:"preparationTime"`
	Portions        *decimal.Decimal `json:"portions,omitempty"`
	ProductIDs      []int64          `json:"productIds"`
}

// QuantityInput sets the grams of one product in a recipe batch.
type QuantityInput struct {
	Quantity decimal.Decimal `json:"quantity"`
}

// RecipeResponse is a recipe with its derived calorie values.
type RecipeResponse struct {
	Recipe
	RecipeCalories  decimal.Decimal `json:"recipeCalories"`
	PortionCalories decimal.Decimal `json:"portionCalories"`
}
