package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

type migration struct {
	version int
	name    string
	sql     string
}

// migrationLockID serialises concurrent migrators through an advisory lock.
const migrationLockID = 7_141_900

var migrations = []migration{
	{
		version: 1,
		name:    "catalog",
		sql: `
CREATE TABLE product_categories (
  id BIGSERIAL PRIMARY KEY,
  name TEXT NOT NULL UNIQUE
);

CREATE TABLE products (
  id BIGSERIAL PRIMARY KEY,
  name TEXT NOT NULL,
  category_id BIGINT NOT NULL REFERENCES product_categories(id) ON DELETE CASCADE,
  proteins NUMERIC NOT NULL CHECK (proteins >= 0),
  carbohydrates NUMERIC NOT NULL CHECK (carbohydrates >= 0),
  fats NUMERIC NOT NULL CHECK (fats >= 0),
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX idx_products_category_id ON products(category_id);

CREATE TABLE recipes (
  id BIGSERIAL PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  description TEXT NOT NULL DEFAULT '',
  preparation_time INTEGER NOT NULL DEFAULT 0 CHECK (preparation_time >= 0),
  portions NUMERIC NOT NULL DEFAULT 4 CHECK (portions > 0),
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE recipe_products (
  recipe_id BIGINT NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
  product_id BIGINT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  product_quantity NUMERIC NOT NULL DEFAULT 0 CHECK (product_quantity >= 0),
  PRIMARY KEY (recipe_id, product_id)
);
CREATE INDEX idx_recipe_products_product_id ON recipe_products(product_id);
`,
	},
	{
		version: 2,
		name:    "plans",
		sql: `
CREATE TABLE persons (
  id BIGSERIAL PRIMARY KEY,
  name TEXT NOT NULL,
  calories INTEGER NOT NULL CHECK (calories >= 0),
  user_id BIGINT NOT NULL
);

CREATE TABLE plans (
  id BIGSERIAL PRIMARY KEY,
  name TEXT NOT NULL,
  plan_length INTEGER NOT NULL CHECK (plan_length >= 1),
  user_id BIGINT NOT NULL,
  modified_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE plan_persons (
  plan_id BIGINT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
  person_id BIGINT NOT NULL REFERENCES persons(id) ON DELETE CASCADE,
  PRIMARY KEY (plan_id, person_id)
);

CREATE TABLE meals (
  id BIGSERIAL PRIMARY KEY,
  plan_id BIGINT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
  plan_day INTEGER NOT NULL CHECK (plan_day >= 1),
  meal_slot SMALLINT NOT NULL CHECK (meal_slot BETWEEN 1 AND 5),
  recipe_id BIGINT NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
  meal_portions NUMERIC NOT NULL CHECK (meal_portions >= 0),
  user_id BIGINT NOT NULL,
  modified_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  UNIQUE (plan_id, plan_day, meal_slot, user_id)
);
CREATE INDEX idx_meals_plan_day ON meals(plan_id, plan_day);
`,
	},
	{
		version: 3,
		name:    "shopping_lists",
		sql: `
CREATE TABLE shopping_lists (
  id UUID PRIMARY KEY,
  plan_id BIGINT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
  name TEXT NOT NULL,
  date_created TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX idx_shopping_lists_plan_id ON shopping_lists(plan_id);

CREATE TABLE shopping_list_entries (
  id UUID PRIMARY KEY,
  shopping_list_id UUID NOT NULL REFERENCES shopping_lists(id) ON DELETE CASCADE,
  position INTEGER NOT NULL,
  product_id BIGINT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  product_name TEXT NOT NULL,
  category_name TEXT NOT NULL,
  quantity NUMERIC(12,1) NOT NULL CHECK (quantity >= 0),
  UNIQUE (shopping_list_id, position)
);
CREATE INDEX idx_shopping_list_entries_product_id ON shopping_list_entries(product_id);
`,
	},
}

// Migrate applies every pending schema version, each in its own transaction,
// and returns how many were applied.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) (int, error) {
	logger = logger.With().Str("component", "migrations").Logger()

	if _, err := pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`); err != nil {
		return 0, fmt.Errorf("failed to ensure schema_migrations table: %w", err)
	}

	applied := 0
	for _, m := range migrations {
		ok, err := apply(ctx, pool, m)
		if err != nil {
			logger.Error().Err(err).Int("version", m.version).Str("name", m.name).Msg("migration failed")
			return applied, err
		}
		if ok {
			applied++
			logger.Info().Int("version", m.version).Str("name", m.name).Msg("migration applied")
		}
	}

	logger.Debug().Int("applied", applied).Int("known", len(migrations)).Msg("schema up to date")
	return applied, nil
}

func apply(ctx context.Context, pool *pgxpool.Pool, m migration) (bool, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin migration tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, migrationLockID); err != nil {
		return false, fmt.Errorf("failed to acquire migration lock: %w", err)
	}

	var exists int
	err = tx.QueryRow(ctx, `SELECT 1 FROM schema_migrations WHERE version = $1`, m.version).Scan(&exists)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return false, fmt.Errorf("failed to check migration version %d: %w", m.version, err)
	}

	if _, err := tx.Exec(ctx, m.sql); err != nil {
		return false, fmt.Errorf("failed to apply migration version %d (%s): %w", m.version, m.name, err)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, m.version, m.name); err != nil {
		return false, fmt.Errorf("failed to record migration version %d: %w", m.version, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit migration version %d: %w", m.version, err)
	}
	return true, nil
}

// Versions returns the number of known schema versions.
func Versions() int {
	return len(migrations)
}
