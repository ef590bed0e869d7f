package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShoppingList is a point-in-time aggregation of the products a plan needs.
type ShoppingList struct {
	ID        uuid.UUID           `json:"id" db:"id"`
	PlanID    int64               `json:"planId" db:"plan_id"`
	Name      string              `json:"name" db:"name"`
	CreatedAt time.Time           `json:"createdAt" db:"date_created"`
	Entries   []ShoppingListEntry `json:"entries"`
}

// ShoppingListEntry is the aggregated grams of one product.
type ShoppingListEntry struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	ShoppingListID uuid.UUID       `json:"-" db:"shopping_list_id"`
	Position       int             `json:"-" db:"position"`
	ProductID      int64           `json:"productId" db:"product_id"`
	ProductName    string          `json:"productName"`
	CategoryName   string          `json:"categoryName"`
	Quantity       decimal.Decimal `json:"quantity" db:"quantity"`
}

// CategoryGroup holds the entries of one product category.
type CategoryGroup struct {
	Category string              `json:"category"`
	Entries  []ShoppingListEntry `json:"entries"`
}

// ShoppingListRow is the flat shape consumed by document renderers.
type ShoppingListRow struct {
	Category string          `json:"category"`
	Product  string          `json:"product"`
	Quantity decimal.Decimal `json:"quantity"`
}

// ShoppingListResponse is a snapshot together with its category grouping.
type ShoppingListResponse struct {
	ShoppingList
	Groups []CategoryGroup `json:"groups"`
}

// ExportResponse reports where an exported list was written.
type ExportResponse struct {
	Location string `json:"location"`
}
