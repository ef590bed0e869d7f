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

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

const productColumns = `
	p.id, p.name, p.category_id, c.name, p.proteins, p.carbohydrates, p.fats, p.created_at`

func scanProduct(row pgx.Row, p *model.Product) error {
	return row.Scan(&p.ID, &p.Name, &p.CategoryID, &p.CategoryName, &p.Proteins, &p.Carbohydrates, &p.Fats, &p.CreatedAt)
}

// Create inserts a product and fills its ID, category name and timestamp.
func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	query := `
		WITH inserted AS (
			INSERT INTO products (name, category_id, proteins, carbohydrates, fats)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at, category_id
		)
		SELECT i.id, i.created_at, c.name
		FROM inserted i
		JOIN product_categories c ON c.id = i.category_id
	`

	err := r.pool.QueryRow(ctx, query,
		product.Name, product.CategoryID, product.Proteins, product.Carbohydrates, product.Fats,
	).Scan(&product.ID, &product.CreatedAt, &product.CategoryName)
	if err != nil {
		if isForeignKeyViolation(err) {
			return model.NotFoundf("category %d not found", product.CategoryID)
		}
		if isCheckViolation(err) {
			return model.InvalidInputf("macro-nutrients must not be negative")
		}
		r.logger.Error().Err(err).Str("name", product.Name).Msg("failed to create product")
		return fmt.Errorf("failed to create product: %w", err)
	}

	r.logger.Debug().Int64("product_id", product.ID).Msg("product created")
	return nil
}

// GetAll retrieves products with pagination support.
func (r *productRepository) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	query := `
		SELECT` + productColumns + `
		FROM products p
		JOIN product_categories c ON c.id = p.category_id
		ORDER BY p.name, p.id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]model.Product, 0)
	for rows.Next() {
		var p model.Product
		if err := scanProduct(rows, &p); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	query := `
		SELECT` + productColumns + `
		FROM products p
		JOIN product_categories c ON c.id = p.category_id
		WHERE p.id = $1
	`

	var p model.Product
	if err := scanProduct(r.pool.QueryRow(ctx, query, id), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// Update rewrites a product and refreshes its category name.
func (r *productRepository) Update(ctx context.Context, product *model.Product) (bool, error) {
	query := `
		WITH updated AS (
			UPDATE products
			SET name = $2, category_id = $3, proteins = $4, carbohydrates = $5, fats = $6
			WHERE id = $1
			RETURNING created_at, category_id
		)
		SELECT u.created_at, c.name
		FROM updated u
		JOIN product_categories c ON c.id = u.category_id
	`

	err := r.pool.QueryRow(ctx, query,
		product.ID, product.Name, product.CategoryID, product.Proteins, product.Carbohydrates, product.Fats,
	).Scan(&product.CreatedAt, &product.CategoryName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		if isForeignKeyViolation(err) {
			return false, model.NotFoundf("category %d not found", product.CategoryID)
		}
		if isCheckViolation(err) {
			return false, model.InvalidInputf("macro-nutrients must not be negative")
		}
		r.logger.Error().Err(err).Int64("product_id", product.ID).Msg("failed to update product")
		return false, fmt.Errorf("failed to update product: %w", err)
	}

	r.logger.Debug().Int64("product_id", product.ID).Msg("product updated")
	return true, nil
}

// ValidateProductsExist checks that every ID refers to a product.
func (r *productRepository) ValidateProductsExist(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	rows, err := r.pool.Query(ctx, `SELECT id FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to validate products exist")
		return fmt.Errorf("failed to validate products exist: %w", err)
	}
	found, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return fmt.Errorf("failed to validate products exist: %w", err)
	}

	for _, id := range ids {
		if !slices.Contains(found, id) {
			r.logger.Warn().Int64("product_id", id).Msg("product does not exist")
			return model.NotFoundf("product %d not found", id)
		}
	}
	return nil
}

// Delete removes a product. Recipe links and shopping list entries cascade.
func (r *productRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to delete product")
		return false, fmt.Errorf("failed to delete product: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
