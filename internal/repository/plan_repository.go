package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"meal-planner/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// planRepository implements PlanRepository using PostgreSQL.
type planRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPlanRepository creates a new PostgreSQL-backed plan repository.
func NewPlanRepository(pool *pgxpool.Pool, logger zerolog.Logger) PlanRepository {
	return &planRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "plan").Logger(),
	}
}

func (r *planRepository) BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error) {
	return beginTx(ctx, r.pool, opts, r.logger)
}

func (r *planRepository) CreatePerson(ctx context.Context, person *model.Person) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO persons (name, calories, user_id) VALUES ($1, $2, $3) RETURNING id`,
		person.Name, person.Calories, person.UserID,
	).Scan(&person.ID)
	if err != nil {
		if isCheckViolation(err) {
			return model.InvalidInputf("calories must not be negative")
		}
		r.logger.Error().Err(err).Str("name", person.Name).Msg("failed to create person")
		return fmt.Errorf("failed to create person: %w", err)
	}
	return nil
}

// GetPersons lists the persons a user created.
func (r *planRepository) GetPersons(ctx context.Context, userID int64) ([]model.Person, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, calories, user_id
		FROM persons
		WHERE user_id = $1
		ORDER BY id
	`, userID)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to query persons")
		return nil, fmt.Errorf("failed to query persons: %w", err)
	}
	persons, err := pgx.CollectRows(rows, pgx.RowToStructByPos[model.Person])
	if err != nil {
		return nil, fmt.Errorf("failed to scan persons: %w", err)
	}
	return persons, nil
}

func (r *planRepository) GetPerson(ctx context.Context, id int64) (*model.Person, error) {
	var p model.Person
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, calories, user_id FROM persons WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.Calories, &p.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("person_id", id).Msg("failed to query person")
		return nil, fmt.Errorf("failed to query person: %w", err)
	}
	return &p, nil
}

// UpdatePerson rewrites a person. Budgets of every plan it belongs to follow.
func (r *planRepository) UpdatePerson(ctx context.Context, person *model.Person) (bool, error) {
	err := r.pool.QueryRow(ctx,
		`UPDATE persons SET name = $2, calories = $3 WHERE id = $1 RETURNING user_id`,
		person.ID, person.Name, person.Calories,
	).Scan(&person.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		if isCheckViolation(err) {
			return false, model.InvalidInputf("calories must not be negative")
		}
		r.logger.Error().Err(err).Int64("person_id", person.ID).Msg("failed to update person")
		return false, fmt.Errorf("failed to update person: %w", err)
	}
	return true, nil
}

// DeletePerson removes a person. Plan assignments cascade.
func (r *planRepository) DeletePerson(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM persons WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Int64("person_id", id).Msg("failed to delete person")
		return false, fmt.Errorf("failed to delete person: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *planRepository) ValidatePersonsExist(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	rows, err := r.pool.Query(ctx, `SELECT id FROM persons WHERE id = ANY($1)`, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to validate persons exist")
		return fmt.Errorf("failed to validate persons exist: %w", err)
	}
	found, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return fmt.Errorf("failed to validate persons exist: %w", err)
	}

	for _, id := range ids {
		if !slices.Contains(found, id) {
			return model.NotFoundf("person %d not found", id)
		}
	}
	return nil
}

// Create inserts the plan and assigns persons to it.
func (r *planRepository) Create(ctx context.Context, tx pgx.Tx, plan *model.Plan, personIDs []int64) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO plans (name, plan_length, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, modified_at
	`, plan.Name, plan.Length, plan.UserID).Scan(&plan.ID, &plan.ModifiedAt)
	if err != nil {
		if isCheckViolation(err) {
			return model.InvalidInputf("plan length must be at least 1")
		}
		r.logger.Error().Err(err).Str("name", plan.Name).Msg("failed to create plan")
		return fmt.Errorf("failed to create plan: %w", err)
	}

	if len(personIDs) > 0 {
		_, err = tx.Exec(ctx, `
			INSERT INTO plan_persons (plan_id, person_id)
			SELECT $1, unnest($2::bigint[])
			ON CONFLICT DO NOTHING
		`, plan.ID, personIDs)
		if err != nil {
			if isForeignKeyViolation(err) {
				return model.NotFoundf("plan references a person that does not exist")
			}
			r.logger.Error().Err(err).Int64("plan_id", plan.ID).Msg("failed to assign persons")
			return fmt.Errorf("failed to assign persons: %w", err)
		}
	}

	r.logger.Debug().Int64("plan_id", plan.ID).Int("persons", len(personIDs)).Msg("plan created")
	return nil
}

// Update rewrites the plan and replaces its person assignments.
func (r *planRepository) Update(ctx context.Context, tx pgx.Tx, plan *model.Plan, personIDs []int64) (bool, error) {
	err := tx.QueryRow(ctx, `
		UPDATE plans
		SET name = $2, plan_length = $3, modified_at = NOW()
		WHERE id = $1
		RETURNING user_id, modified_at
	`, plan.ID, plan.Name, plan.Length).Scan(&plan.UserID, &plan.ModifiedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		if isCheckViolation(err) {
			return false, model.InvalidInputf("plan length must be at least 1")
		}
		r.logger.Error().Err(err).Int64("plan_id", plan.ID).Msg("failed to update plan")
		return false, fmt.Errorf("failed to update plan: %w", err)
	}

	dropped, err := tx.Exec(ctx, `DELETE FROM meals WHERE plan_id = $1 AND plan_day > $2`, plan.ID, plan.Length)
	if err != nil {
		r.logger.Error().Err(err).Int64("plan_id", plan.ID).Msg("failed to drop meals past plan length")
		return false, fmt.Errorf("failed to drop meals past plan length: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM plan_persons WHERE plan_id = $1`, plan.ID); err != nil {
		r.logger.Error().Err(err).Int64("plan_id", plan.ID).Msg("failed to clear plan persons")
		return false, fmt.Errorf("failed to clear plan persons: %w", err)
	}
	if len(personIDs) > 0 {
		_, err = tx.Exec(ctx, `
			INSERT INTO plan_persons (plan_id, person_id)
			SELECT $1, unnest($2::bigint[])
			ON CONFLICT DO NOTHING
		`, plan.ID, personIDs)
		if err != nil {
			if isForeignKeyViolation(err) {
				return false, model.NotFoundf("plan references a person that does not exist")
			}
			r.logger.Error().Err(err).Int64("plan_id", plan.ID).Msg("failed to assign persons")
			return false, fmt.Errorf("failed to assign persons: %w", err)
		}
	}

	r.logger.Debug().
		Int64("plan_id", plan.ID).
		Int("persons", len(personIDs)).
		Int64("meals_dropped", dropped.RowsAffected()).
		Msg("plan updated")
	return true, nil
}

// GetAll lists the plans a user owns.
func (r *planRepository) GetAll(ctx context.Context, userID int64) ([]model.Plan, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, plan_length, user_id, modified_at
		FROM plans
		WHERE user_id = $1
		ORDER BY modified_at DESC, id DESC
	`, userID)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to query plans")
		return nil, fmt.Errorf("failed to query plans: %w", err)
	}
	defer rows.Close()

	plans := make([]model.Plan, 0)
	for rows.Next() {
		p := model.Plan{Persons: []model.Person{}}
		if err := rows.Scan(&p.ID, &p.Name, &p.Length, &p.UserID, &p.ModifiedAt); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan plan row")
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating plans: %w", err)
	}
	return plans, nil
}

// GetByID loads a plan with its persons ordered by ID.
func (r *planRepository) GetByID(ctx context.Context, q Querier, id int64) (*model.Plan, error) {
	q = on(q, r.pool)

	var plan model.Plan
	err := q.QueryRow(ctx, `
		SELECT id, name, plan_length, user_id, modified_at
		FROM plans
		WHERE id = $1
	`, id).Scan(&plan.ID, &plan.Name, &plan.Length, &plan.UserID, &plan.ModifiedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("plan_id", id).Msg("plan not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("plan_id", id).Msg("failed to query plan")
		return nil, fmt.Errorf("failed to query plan: %w", err)
	}

	rows, err := q.Query(ctx, `
		SELECT p.id, p.name, p.calories, p.user_id
		FROM persons p
		JOIN plan_persons pp ON pp.person_id = p.id
		WHERE pp.plan_id = $1
		ORDER BY p.id
	`, id)
	if err != nil {
		r.logger.Error().Err(err).Int64("plan_id", id).Msg("failed to query plan persons")
		return nil, fmt.Errorf("failed to query plan persons: %w", err)
	}
	plan.Persons, err = pgx.CollectRows(rows, pgx.RowToStructByPos[model.Person])
	if err != nil {
		return nil, fmt.Errorf("failed to scan plan persons: %w", err)
	}

	return &plan, nil
}

// LockForUpdate takes a row lock on the plan that serialises meal mutations.
func (r *planRepository) LockForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*model.Plan, error) {
	var plan model.Plan
	err := tx.QueryRow(ctx, `
		SELECT id, name, plan_length, user_id, modified_at
		FROM plans
		WHERE id = $1
		FOR UPDATE
	`, id).Scan(&plan.ID, &plan.Name, &plan.Length, &plan.UserID, &plan.ModifiedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("plan_id", id).Msg("failed to lock plan")
		return nil, fmt.Errorf("failed to lock plan: %w", err)
	}
	return &plan, nil
}

// Calories sums the calorie requirements of the plan's persons.
func (r *planRepository) Calories(ctx context.Context, q Querier, planID int64) (int64, error) {
	var total int64
	err := on(q, r.pool).QueryRow(ctx, `
		SELECT COALESCE(SUM(p.calories), 0)::bigint
		FROM persons p
		JOIN plan_persons pp ON pp.person_id = p.id
		WHERE pp.plan_id = $1
	`, planID).Scan(&total)
	if err != nil {
		r.logger.Error().Err(err).Int64("plan_id", planID).Msg("failed to sum plan calories")
		return 0, fmt.Errorf("failed to sum plan calories: %w", err)
	}
	return total, nil
}

func (r *planRepository) Touch(ctx context.Context, q Querier, planID int64) error {
	if _, err := on(q, r.pool).Exec(ctx, `UPDATE plans SET modified_at = NOW() WHERE id = $1`, planID); err != nil {
		return fmt.Errorf("failed to touch plan: %w", err)
	}
	return nil
}

// Delete removes a plan. Meals and shopping lists cascade.
func (r *planRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM plans WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Int64("plan_id", id).Msg("failed to delete plan")
		return false, fmt.Errorf("failed to delete plan: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
