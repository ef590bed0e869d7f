package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductCategory groups products on shopping lists.
type ProductCategory struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Product represents a food product with macro-nutrients per 100 g.
type Product struct {
	ID            int64           `json:"id" db:"id"`
	Name          string          `json:"name" db:"name"`
	CategoryID    int64           `json:"categoryId" db:"category_id"`
	CategoryName  string          `json:"categoryName" db:"category_name"`
	Proteins      decimal.Decimal `json:"proteins" db:"proteins"`
	Carbohydrates decimal.Decimal `json:"carbohydrates" db:"carbohydrates"`
	Fats          decimal.Decimal `json:"fats" db:"fats"`
	CreatedAt     time.Time       `json:"createdAt" db:"created_at"`
}

// ProductInput is the validated payload for creating a product.
// Nil macros are treated as missing and rejected.
type ProductInput struct {
	Name          string           `json:"name"`
	CategoryID    int64            `json:"categoryId"`
	Proteins      *decimal.Decimal `json:"proteins"`
	Carbohydrates *decimal.Decimal `json:"carbohydrates"`
	Fats          *decimal.Decimal `json:"fats"`
}

// CategoryInput is the payload for creating a product category.
type CategoryInput struct {
	Name string `json:"name"`
}

// ProductResponse is a product together with its derived energy value.
type ProductResponse struct {
	Product
	CaloriesPer100g decimal.Decimal `json:"caloriesPer100g"`
}
