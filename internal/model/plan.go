package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Person is someone whose daily calorie requirement feeds a plan budget.
type Person struct {
	ID       int64  `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Calories int    `json:"calories" db:"calories"`
	UserID   int64  `json:"userId" db:"user_id"`
}

// PersonInput is the payload for creating a person.
type PersonInput struct {
	Name     string `json:"name"`
	Calories int    `json:"calories"`
	UserID   int64  `json:"-"`
}

// Plan is a multi-day meal schedule for a set of persons.
type Plan struct {
	ID         int64     `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Length     int       `json:"length" db:"plan_length"`
	UserID     int64     `json:"userId" db:"user_id"`
	Persons    []Person  `json:"persons"`
	ModifiedAt time.Time `json:"modifiedAt" db:"modified_at"`
}

// PlanInput is the payload for creating a plan.
type PlanInput struct {
	Name      string  `json:"name"`
	Length    int     `json:"length"`
	PersonIDs []int64 `json:"personIds"`
	UserID    int64   `json:"-"`
}

// PlanSummary reports a plan with its budget and per-day consumption.
type PlanSummary struct {
	Plan
	Budget       int64             `json:"budget"`
	DaysCalories []decimal.Decimal `json:"daysCalories"`
	Meals        []Meal            `json:"meals"`
}

// DayCaloriesResponse reports one plan day against the daily budget.
type DayCaloriesResponse struct {
	PlanID    int64           `json:"planId"`
	Day       int             `json:"day"`
	Calories  decimal.Decimal `json:"calories"`
	Budget    int64           `json:"budget"`
	Remaining decimal.Decimal `json:"remaining"`
}
