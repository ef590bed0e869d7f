package repository

import (
	"context"
	"errors"
	"fmt"

	"meal-planner/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// shoppingListRepository implements ShoppingListRepository using PostgreSQL.
type shoppingListRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewShoppingListRepository creates a new PostgreSQL-backed shopping list repository.
func NewShoppingListRepository(pool *pgxpool.Pool, logger zerolog.Logger) ShoppingListRepository {
	return &shoppingListRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "shopping_list").Logger(),
	}
}

// Create inserts the list header and its entries in one batch.
func (r *shoppingListRepository) Create(ctx context.Context, tx pgx.Tx, list *model.ShoppingList) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO shopping_lists (id, plan_id, name, date_created)
		VALUES ($1, $2, $3, $4)
	`, list.ID, list.PlanID, list.Name, list.CreatedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("shopping_list_id", list.ID.String()).
			Msg("failed to create shopping list")
		return fmt.Errorf("failed to create shopping list: %w", err)
	}

	if len(list.Entries) == 0 {
		return nil
	}

	query := `
		INSERT INTO shopping_list_entries
			(id, shopping_list_id, position, product_id, product_name, category_name, quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	batch := &pgx.Batch{}
	for _, e := range list.Entries {
		batch.Queue(query, e.ID, list.ID, e.Position, e.ProductID, e.ProductName, e.CategoryName, e.Quantity)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for _, e := range list.Entries {
		if _, err := results.Exec(); err != nil {
			if isForeignKeyViolation(err) {
				return model.NotFoundf("product %d not found", e.ProductID)
			}
			r.logger.Error().
				Err(err).
				Str("shopping_list_id", list.ID.String()).
				Int64("product_id", e.ProductID).
				Msg("failed to create shopping list entry")
			return fmt.Errorf("failed to create shopping list entry: %w", err)
		}
	}

	r.logger.Debug().
		Str("shopping_list_id", list.ID.String()).
		Int("entries", len(list.Entries)).
		Msg("shopping list created")
	return nil
}

// GetByID retrieves a list with its entries in position order.
func (r *shoppingListRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ShoppingList, error) {
	var list model.ShoppingList
	err := r.pool.QueryRow(ctx, `
		SELECT id, plan_id, name, date_created
		FROM shopping_lists
		WHERE id = $1
	`, id).Scan(&list.ID, &list.PlanID, &list.Name, &list.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("shopping_list_id", id.String()).Msg("shopping list not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("shopping_list_id", id.String()).Msg("failed to query shopping list")
		return nil, fmt.Errorf("failed to query shopping list: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, shopping_list_id, position, product_id, product_name, category_name, quantity
		FROM shopping_list_entries
		WHERE shopping_list_id = $1
		ORDER BY position
	`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("shopping_list_id", id.String()).Msg("failed to query shopping list entries")
		return nil, fmt.Errorf("failed to query shopping list entries: %w", err)
	}

	list.Entries, err = pgx.CollectRows(rows, pgx.RowToStructByPos[model.ShoppingListEntry])
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to scan shopping list entry")
		return nil, fmt.Errorf("failed to scan shopping list entries: %w", err)
	}

	return &list, nil
}
