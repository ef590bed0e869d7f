package database

import (
	"context"
	"testing"
	"time"

	"meal-planner/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T) *postgres.PostgresContainer {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("mealplanner"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgContainer.Terminate(ctx) })

	return pgContainer
}

func TestMigrate_IdempotentAndComplete(t *testing.T) {
	ctx := context.Background()
	pgContainer := startPostgres(t)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	defer pool.Close()

	applied, err := Migrate(ctx, pool, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, Versions(), applied)

	applied, err = Migrate(ctx, pool, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 0, applied)

	var count int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(1) FROM schema_migrations`).Scan(&count))
	assert.Equal(t, Versions(), count)

	for _, table := range []string{
		"product_categories", "products", "recipes", "recipe_products",
		"persons", "plans", "plan_persons", "meals",
		"shopping_lists", "shopping_list_entries",
	} {
		var exists bool
		err := pool.QueryRow(ctx, `SELECT to_regclass($1) IS NOT NULL`, "public."+table).Scan(&exists)
		require.NoError(t, err)
		assert.True(t, exists, "table %s should exist", table)
	}
}

func TestMigrate_Constraints(t *testing.T) {
	ctx := context.Background()
	pgContainer := startPostgres(t)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	defer pool.Close()

	_, err = Migrate(ctx, pool, zerolog.Nop())
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `
		INSERT INTO product_categories (id, name) VALUES (1, 'Pieczywo');
		INSERT INTO products (id, name, category_id, proteins, carbohydrates, fats) VALUES (1, 'Chleb', 1, 10, 50, 2);
		INSERT INTO recipes (id, name) VALUES (1, 'Kanapka');
		INSERT INTO plans (id, name, plan_length, user_id) VALUES (1, 'Tydzień', 7, 1);
		INSERT INTO meals (plan_id, plan_day, meal_slot, recipe_id, meal_portions, user_id) VALUES (1, 1, 1, 1, 2, 1);
		INSERT INTO shopping_lists (id, plan_id, name) VALUES ('6f1c2a0e-3b7d-4d8e-9a51-0c2f4e6b8a11', 1, 'Lista zakupów');
	`)
	require.NoError(t, err)

	tests := []struct {
		name string
		sql  string
	}{
		{name: "Negative macro", sql: `INSERT INTO products (name, category_id, proteins, carbohydrates, fats) VALUES ('X', 1, -1, 0, 0)`},
		{name: "Zero recipe portions", sql: `INSERT INTO recipes (name, portions) VALUES ('Zero', 0)`},
		{name: "Duplicate recipe name", sql: `INSERT INTO recipes (name) VALUES ('Kanapka')`},
		{name: "Slot out of range", sql: `INSERT INTO meals (plan_id, plan_day, meal_slot, recipe_id, meal_portions, user_id) VALUES (1, 1, 6, 1, 1, 1)`},
		{name: "Occupied slot", sql: `INSERT INTO meals (plan_id, plan_day, meal_slot, recipe_id, meal_portions, user_id) VALUES (1, 1, 1, 1, 1, 1)`},
		{name: "Empty plan", sql: `INSERT INTO plans (name, plan_length, user_id) VALUES ('None', 0, 1)`},
		{name: "Entry for unknown product", sql: `INSERT INTO shopping_list_entries (id, shopping_list_id, position, product_id, product_name, category_name, quantity) VALUES (gen_random_uuid(), '6f1c2a0e-3b7d-4d8e-9a51-0c2f4e6b8a11', 0, 99, 'X', 'Y', 1)`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pool.Exec(ctx, tt.sql)
			assert.Error(t, err)
		})
	}

	// Another user may use the same slot.
	_, err = pool.Exec(ctx, `INSERT INTO meals (plan_id, plan_day, meal_slot, recipe_id, meal_portions, user_id) VALUES (1, 1, 1, 1, 1, 2)`)
	assert.NoError(t, err)

	_, err = pool.Exec(ctx, `DELETE FROM plans WHERE id = 1`)
	require.NoError(t, err)
	var meals int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(1) FROM meals`).Scan(&meals))
	assert.Equal(t, 0, meals, "meals cascade with their plan")
}

func TestNewPool(t *testing.T) {
	ctx := context.Background()
	pgContainer := startPostgres(t)

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	cfg := config.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		User:            "postgres",
		Password:        "postgres",
		Database:        "mealplanner",
		MaxConnections:  4,
		MinConnections:  1,
		MaxConnLifetime: 60,
	}

	pool, err := NewPool(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	defer pool.Close()

	assert.NoError(t, pool.Ping(ctx))
	assert.Equal(t, int32(4), pool.Config().MaxConns)
}

func TestNewPool_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg := config.DatabaseConfig{
		Host:           "invalid-host.invalid",
		Port:           5432,
		User:           "postgres",
		Database:       "mealplanner",
		MaxConnections: 2,
		MinConnections: 1,
	}

	pool, err := NewPool(ctx, cfg, zerolog.Nop())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to ping database")
	assert.Nil(t, pool)
}
