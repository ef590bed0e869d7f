package repository

import (
	"context"
	"errors"
	"fmt"

	"meal-planner/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// mealRepository implements MealRepository using PostgreSQL.
type mealRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewMealRepository creates a new PostgreSQL-backed meal repository.
func NewMealRepository(pool *pgxpool.Pool, logger zerolog.Logger) MealRepository {
	return &mealRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "meal").Logger(),
	}
}

const mealColumns = `id, plan_id, plan_day, meal_slot, recipe_id, meal_portions, user_id, modified_at`

func scanMeal(row pgx.Row, m *model.Meal) error {
	var slot int16
	if err := row.Scan(&m.ID, &m.PlanID, &m.Day, &slot, &m.RecipeID, &m.Portions, &m.UserID, &m.ModifiedAt); err != nil {
		return err
	}
	m.Slot = model.MealSlot(slot)
	return nil
}

func (r *mealRepository) queryMeals(ctx context.Context, q Querier, query string, args ...any) ([]model.Meal, error) {
	rows, err := on(q, r.pool).Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query meals")
		return nil, fmt.Errorf("failed to query meals: %w", err)
	}
	defer rows.Close()

	meals := make([]model.Meal, 0)
	for rows.Next() {
		var m model.Meal
		if err := scanMeal(rows, &m); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan meal row")
			return nil, fmt.Errorf("failed to scan meal: %w", err)
		}
		meals = append(meals, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating meals: %w", err)
	}
	return meals, nil
}

func (r *mealRepository) queryMeal(ctx context.Context, q Querier, query string, args ...any) (*model.Meal, error) {
	var m model.Meal
	if err := scanMeal(on(q, r.pool).QueryRow(ctx, query, args...), &m); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query meal")
		return nil, fmt.Errorf("failed to query meal: %w", err)
	}
	return &m, nil
}

func (r *mealRepository) GetByID(ctx context.Context, id int64) (*model.Meal, error) {
	return r.queryMeal(ctx, nil, `SELECT `+mealColumns+` FROM meals WHERE id = $1`, id)
}

func (r *mealRepository) ListDay(ctx context.Context, q Querier, planID int64, day int) ([]model.Meal, error) {
	return r.queryMeals(ctx, q, `
		SELECT `+mealColumns+`
		FROM meals
		WHERE plan_id = $1 AND plan_day = $2
		ORDER BY id
	`, planID, day)
}

func (r *mealRepository) ListByPlan(ctx context.Context, q Querier, planID int64) ([]model.Meal, error) {
	return r.queryMeals(ctx, q, `
		SELECT `+mealColumns+`
		FROM meals
		WHERE plan_id = $1
		ORDER BY id
	`, planID)
}

func (r *mealRepository) FindSlot(ctx context.Context, q Querier, planID int64, day int, slot model.MealSlot, userID int64) (*model.Meal, error) {
	return r.queryMeal(ctx, q, `
		SELECT `+mealColumns+`
		FROM meals
		WHERE plan_id = $1 AND plan_day = $2 AND meal_slot = $3 AND user_id = $4
	`, planID, day, int16(slot), userID)
}

func (r *mealRepository) FirstInSlot(ctx context.Context, q Querier, planID int64, day int, slot model.MealSlot) (*model.Meal, error) {
	return r.queryMeal(ctx, q, `
		SELECT `+mealColumns+`
		FROM meals
		WHERE plan_id = $1 AND plan_day = $2 AND meal_slot = $3
		ORDER BY id
		LIMIT 1
	`, planID, day, int16(slot))
}

// Upsert writes the meal for its slot, replacing recipe and portions of an existing one.
func (r *mealRepository) Upsert(ctx context.Context, tx pgx.Tx, meal *model.Meal) error {
	query := `
		INSERT INTO meals (plan_id, plan_day, meal_slot, recipe_id, meal_portions, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (plan_id, plan_day, meal_slot, user_id)
		DO UPDATE SET recipe_id = EXCLUDED.recipe_id,
		              meal_portions = EXCLUDED.meal_portions,
		              modified_at = NOW()
		RETURNING id, modified_at
	`

	err := tx.QueryRow(ctx, query,
		meal.PlanID, meal.Day, int16(meal.Slot), meal.RecipeID, meal.Portions, meal.UserID,
	).Scan(&meal.ID, &meal.ModifiedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("plan_id", meal.PlanID).
			Int("day", meal.Day).
			Str("slot", meal.Slot.String()).
			Msg("failed to save meal")
		return fmt.Errorf("failed to save meal: %w", err)
	}

	r.logger.Debug().Int64("meal_id", meal.ID).Msg("meal saved")
	return nil
}

func (r *mealRepository) UpdatePortions(ctx context.Context, tx pgx.Tx, id int64, portions decimal.Decimal) error {
	_, err := tx.Exec(ctx,
		`UPDATE meals SET meal_portions = $2, modified_at = NOW() WHERE id = $1`,
		id, portions,
	)
	if err != nil {
		r.logger.Error().Err(err).Int64("meal_id", id).Msg("failed to update meal portions")
		return fmt.Errorf("failed to update meal portions: %w", err)
	}
	return nil
}

func (r *mealRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM meals WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Int64("meal_id", id).Msg("failed to delete meal")
		return false, fmt.Errorf("failed to delete meal: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
