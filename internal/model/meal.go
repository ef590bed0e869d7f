package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MealSlot is one of the five fixed daily eating occasions.
type MealSlot int

const (
	SlotBreakfast MealSlot = iota + 1
	SlotSecondBreakfast
	SlotLunch
	SlotAfternoonSnack
	SlotDinner
)

var mealSlotNames = map[MealSlot]string{
	SlotBreakfast:       "breakfast",
	SlotSecondBreakfast: "second-breakfast",
	SlotLunch:           "lunch",
	SlotAfternoonSnack:  "afternoon-snack",
	SlotDinner:          "dinner",
}

// MealSlots lists every slot in daily order.
func MealSlots() []MealSlot {
	return []MealSlot{SlotBreakfast, SlotSecondBreakfast, SlotLunch, SlotAfternoonSnack, SlotDinner}
}

// Valid reports whether s is one of the five slots.
func (s MealSlot) Valid() bool {
	_, ok := mealSlotNames[s]
	return ok
}

func (s MealSlot) String() string {
	if name, ok := mealSlotNames[s]; ok {
		return name
	}
	return fmt.Sprintf("slot(%d)", int(s))
}

// ParseMealSlot accepts a slot name ("lunch") or its ordinal ("3").
func ParseMealSlot(value string) (MealSlot, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	if n, err := strconv.Atoi(value); err == nil {
		slot := MealSlot(n)
		if !slot.Valid() {
			return 0, InvalidInputf("meal slot %d out of range 1..5", n)
		}
		return slot, nil
	}
	value = strings.ReplaceAll(value, "_", "-")
	for slot, name := range mealSlotNames {
		if name == value {
			return slot, nil
		}
	}
	return 0, InvalidInputf("unknown meal slot %q", value)
}

// MarshalJSON encodes the slot by name.
func (s MealSlot) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts either the slot name or its ordinal.
func (s *MealSlot) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	slot, err := ParseMealSlot(raw)
	if err != nil {
		return err
	}
	*s = slot
	return nil
}

// Meal schedules portions of a recipe in one slot of one plan day.
type Meal struct {
	ID         int64           `json:"id" db:"id"`
	PlanID     int64           `json:"planId" db:"plan_id"`
	Day        int             `json:"day" db:"plan_day"`
	Slot       MealSlot        `json:"slot" db:"meal_slot"`
	RecipeID   int64           `json:"recipeId" db:"recipe_id"`
	Portions   decimal.Decimal `json:"portions" db:"meal_portions"`
	UserID     int64           `json:"userId" db:"user_id"`
	ModifiedAt time.Time       `json:"modifiedAt" db:"modified_at"`
}

// MealRequest creates or replaces the meal in a (plan, day, slot, user) slot.
type MealRequest struct {
	PlanID   int64           `json:"-"`
	Day      int             `json:"day"`
	Slot     MealSlot        `json:"slot"`
	RecipeID int64           `json:"recipeId"`
	Portions decimal.Decimal `json:"portions"`
	UserID   int64           `json:"-"`
}

// CompletionResponse reports the portions added by auto-fill.
type CompletionResponse struct {
	MealID              int64           `json:"mealId"`
	AdditionalPortions  decimal.Decimal `json:"additionalPortions"`
	Portions            decimal.Decimal `json:"portions"`
	DayCaloriesAfterFix decimal.Decimal `json:"dayCalories"`
}
