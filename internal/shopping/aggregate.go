// Package shopping aggregates the product quantities a plan needs and exports
// the resulting shopping lists.
package shopping

import (
	"cmp"
	"slices"

	"meal-planner/internal/model"
	"meal-planner/internal/nutrition"
)

// PlannedMeal is a scheduled meal with its recipe and ingredients loaded.
type PlannedMeal struct {
	Meal   model.Meal
	Recipe model.Recipe
}

// Aggregate sums, per product, one-portion quantity times meal portions over
// every ingredient of every meal. Meals are visited by ID and ingredients by
// product ID, so entry order depends only on the data. Quantities are rounded
// once, after summation.
func Aggregate(meals []PlannedMeal) ([]model.ShoppingListEntry, error) {
	ordered := slices.Clone(meals)
	slices.SortStableFunc(ordered, func(a, b PlannedMeal) int {
		return cmp.Compare(a.Meal.ID, b.Meal.ID)
	})

	index := make(map[int64]int)
	entries := make([]model.ShoppingListEntry, 0)

	for _, pm := range ordered {
		ingredients := slices.Clone(pm.Recipe.Ingredients)
		slices.SortStableFunc(ingredients, func(a, b model.Ingredient) int {
			return cmp.Compare(a.ProductID, b.ProductID)
		})

		for _, ing := range ingredients {
			perPortion, err := nutrition.OnePortionQuantity(ing.Quantity, pm.Recipe.Portions)
			if err != nil {
				return nil, err
			}
			contribution := perPortion.Mul(pm.Meal.Portions)

			if i, ok := index[ing.ProductID]; ok {
				entries[i].Quantity = entries[i].Quantity.Add(contribution)
				continue
			}
			index[ing.ProductID] = len(entries)
			entries = append(entries, model.ShoppingListEntry{
				Position:     len(entries),
				ProductID:    ing.ProductID,
				ProductName:  ing.Product.Name,
				CategoryName: ing.Product.CategoryName,
				Quantity:     contribution,
			})
		}
	}

	for i := range entries {
		entries[i].Quantity = entries[i].Quantity.Round(nutrition.QuantityDecimals)
	}
	return entries, nil
}

// GroupByCategory buckets entries by category name, keeping the order in which
// each category is first seen and the entry order within it.
func GroupByCategory(entries []model.ShoppingListEntry) []model.CategoryGroup {
	index := make(map[string]int)
	groups := make([]model.CategoryGroup, 0)
	for _, e := range entries {
		i, ok := index[e.CategoryName]
		if !ok {
			i = len(groups)
			index[e.CategoryName] = i
			groups = append(groups, model.CategoryGroup{Category: e.CategoryName})
		}
		groups[i].Entries = append(groups[i].Entries, e)
	}
	return groups
}

// Rows flattens a list into (category, product, grams) rows grouped by category.
func Rows(list *model.ShoppingList) []model.ShoppingListRow {
	rows := make([]model.ShoppingListRow, 0, len(list.Entries))
	for _, g := range GroupByCategory(list.Entries) {
		for _, e := range g.Entries {
			rows = append(rows, model.ShoppingListRow{
				Category: g.Category,
				Product:  e.ProductName,
				Quantity: e.Quantity,
			})
		}
	}
	return rows
}
