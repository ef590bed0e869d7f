// Package budget gates meal mutations against a plan's daily calorie budget
// and computes auto-fill completions.
package budget

import (
	"meal-planner/internal/model"
	"meal-planner/internal/nutrition"

	"github.com/shopspring/decimal"
)

// SlotState is the occupancy of one (plan, day, slot) position.
type SlotState int

const (
	Empty SlotState = iota
	Filled
)

func (s SlotState) String() string {
	if s == Filled {
		return "filled"
	}
	return "empty"
}

// Entry is one scheduled meal's contribution to a day, already rounded.
type Entry struct {
	MealID   int64
	Calories decimal.Decimal
}

// Decision describes an accepted or rejected mutation.
type Decision struct {
	From      SlotState
	Budget    decimal.Decimal
	Consumed  decimal.Decimal
	Remaining decimal.Decimal
	Requested decimal.Decimal
}

// DayConsumed sums the calories of a day's meals.
func DayConsumed(entries []Entry) decimal.Decimal {
	values := make([]decimal.Decimal, len(entries))
	for i, e := range entries {
		values[i] = e.Calories
	}
	return nutrition.DayCalories(values)
}

// Evaluate decides whether a meal worth candidate kcal fits into the day.
// replacing is the ID of the meal currently occupying the slot, or 0 when the
// slot is empty; its contribution is excluded from the consumed total.
// Equality with the remaining budget is accepted.
func Evaluate(planCalories int64, day []Entry, replacing int64, candidate decimal.Decimal) (Decision, error) {
	others := make([]Entry, 0, len(day))
	from := Empty
	for _, e := range day {
		if replacing != 0 && e.MealID == replacing {
			from = Filled
			continue
		}
		others = append(others, e)
	}

	d := Decision{
		From:      from,
		Budget:    decimal.NewFromInt(planCalories),
		Consumed:  DayConsumed(others),
		Requested: candidate.Round(nutrition.CalorieDecimals),
	}
	d.Remaining = d.Budget.Sub(d.Consumed)

	if d.Requested.GreaterThan(d.Remaining) {
		return d, model.BudgetExceededf(
			"meal needs %s kcal but only %s kcal of the %s kcal daily budget remain",
			d.Requested.StringFixed(nutrition.CalorieDecimals),
			d.Remaining.StringFixed(nutrition.CalorieDecimals),
			d.Budget.String(),
		)
	}
	return d, nil
}

// Complete returns how many portions to add to a meal so that the day reaches
// the plan budget, rounded to one decimal. A negative gap yields a negative
// value, bounded so that the meal's portions never drop below zero.
func Complete(planCalories int64, day []Entry, portionCalories, currentPortions decimal.Decimal) (decimal.Decimal, error) {
	if !portionCalories.IsPositive() {
		return decimal.Zero, model.Divisionf("portion calories are %s", portionCalories.String())
	}
	gap := decimal.NewFromInt(planCalories).Sub(DayConsumed(day))
	additional := gap.Div(portionCalories).Round(nutrition.PortionDecimals)
	if currentPortions.Add(additional).IsNegative() {
		additional = currentPortions.Neg()
	}
	return additional, nil
}
