// Package nutrition derives energy values along the product → recipe → portion →
// meal → day chain. All functions are pure.
package nutrition

import (
	"meal-planner/internal/model"

	"github.com/shopspring/decimal"
)

// Rounding policy, in decimal places.
const (
	CalorieDecimals  int32 = 2
	PortionDecimals  int32 = 1
	QuantityDecimals int32 = 1
)

var (
	proteinKcalPerGram      = decimal.NewFromInt(4)
	carbohydrateKcalPerGram = decimal.NewFromInt(4)
	fatKcalPerGram          = decimal.NewFromInt(9)
	hundredGrams            = decimal.NewFromInt(100)
)

// ValidateMacros rejects missing or negative macro-nutrient values.
func ValidateMacros(proteins, carbohydrates, fats *decimal.Decimal) error {
	macros := []struct {
		name  string
		value *decimal.Decimal
	}{
		{"proteins", proteins},
		{"carbohydrates", carbohydrates},
		{"fats", fats},
	}
	for _, m := range macros {
		if m.value == nil {
			return model.InvalidInputf("%s is required", m.name)
		}
		if m.value.IsNegative() {
			return model.InvalidInputf("%s must not be negative, got %s", m.name, m.value.String())
		}
	}
	return nil
}

// ProductCalories returns kcal per 100 g: 4 per gram of protein and
// carbohydrate, 9 per gram of fat, rounded half-up to two places.
func ProductCalories(p model.Product) (decimal.Decimal, error) {
	if err := ValidateMacros(&p.Proteins, &p.Carbohydrates, &p.Fats); err != nil {
		return decimal.Zero, err
	}
	kcal := p.Proteins.Mul(proteinKcalPerGram).
		Add(p.Carbohydrates.Mul(carbohydrateKcalPerGram)).
		Add(p.Fats.Mul(fatKcalPerGram))
	return kcal.Round(CalorieDecimals), nil
}

// RecipeCalories returns the energy of one full batch. Each ingredient
// contributes its product calories scaled by grams/100; the sum is rounded once.
func RecipeCalories(r model.Recipe) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, ing := range r.Ingredients {
		if ing.Quantity.IsNegative() {
			return decimal.Zero, model.InvalidInputf("quantity of product %d in recipe %d is negative", ing.ProductID, r.ID)
		}
		kcal, err := ProductCalories(ing.Product)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(kcal.Mul(ing.Quantity).Div(hundredGrams))
	}
	return total.Round(CalorieDecimals), nil
}

// PortionCalories returns the energy of one serving of r.
func PortionCalories(r model.Recipe) (decimal.Decimal, error) {
	if !r.Portions.IsPositive() {
		return decimal.Zero, model.Divisionf("recipe %d has %s portions", r.ID, r.Portions.String())
	}
	kcal, err := RecipeCalories(r)
	if err != nil {
		return decimal.Zero, err
	}
	return kcal.Div(r.Portions).Round(CalorieDecimals), nil
}

// OnePortionQuantity returns the grams of an ingredient in a single serving.
func OnePortionQuantity(quantity, portions decimal.Decimal) (decimal.Decimal, error) {
	if !portions.IsPositive() {
		return decimal.Zero, model.Divisionf("cannot split %s g over %s portions", quantity.String(), portions.String())
	}
	return quantity.Div(portions), nil
}

// MealCalories returns the energy of eating portions servings.
func MealCalories(portionCalories, portions decimal.Decimal) decimal.Decimal {
	return portionCalories.Mul(portions).Round(CalorieDecimals)
}

// DayCalories sums already-rounded meal values.
func DayCalories(meals []decimal.Decimal) decimal.Decimal {
	return decimal.Sum(decimal.Zero, meals...).Round(CalorieDecimals)
}
