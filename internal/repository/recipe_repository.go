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

// recipeRepository implements RecipeRepository using PostgreSQL.
type recipeRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewRecipeRepository creates a new PostgreSQL-backed recipe repository.
func NewRecipeRepository(pool *pgxpool.Pool, logger zerolog.Logger) RecipeRepository {
	return &recipeRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "recipe").Logger(),
	}
}

func (r *recipeRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return beginTx(ctx, r.pool, pgx.TxOptions{}, r.logger)
}

func (r *recipeRepository) translate(err error, recipe *model.Recipe) error {
	switch {
	case isUniqueViolation(err):
		return model.InvalidInputf("recipe %q already exists", recipe.Name)
	case isCheckViolation(err):
		return model.InvalidInputf("recipe portions must be positive and preparation time not negative")
	case isForeignKeyViolation(err):
		return model.NotFoundf("recipe references a product that does not exist")
	}
	return nil
}

// Create inserts the recipe row and a zero-quantity link per product.
func (r *recipeRepository) Create(ctx context.Context, tx pgx.Tx, recipe *model.Recipe, productIDs []int64) error {
	query := `
		INSERT INTO recipes (name, description, preparation_time, portions)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := tx.QueryRow(ctx, query, recipe.Name, recipe.Description, recipe.PreparationTime, recipe.Portions).
		Scan(&recipe.ID, &recipe.CreatedAt, &recipe.UpdatedAt)
	if err != nil {
		if domainErr := r.translate(err, recipe); domainErr != nil {
			return domainErr
		}
		r.logger.Error().Err(err).Str("name", recipe.Name).Msg("failed to create recipe")
		return fmt.Errorf("failed to create recipe: %w", err)
	}

	if err := r.addLinks(ctx, tx, recipe, productIDs); err != nil {
		return err
	}

	r.logger.Debug().
		Int64("recipe_id", recipe.ID).
		Int("products", len(productIDs)).
		Msg("recipe created")
	return nil
}

// addLinks inserts zero-quantity links, leaving existing ones untouched.
func (r *recipeRepository) addLinks(ctx context.Context, tx pgx.Tx, recipe *model.Recipe, productIDs []int64) error {
	if len(productIDs) == 0 {
		return nil
	}

	query := `
		INSERT INTO recipe_products (recipe_id, product_id, product_quantity)
		VALUES ($1, $2, 0)
		ON CONFLICT (recipe_id, product_id) DO NOTHING
	`

	batch := &pgx.Batch{}
	for _, productID := range productIDs {
		batch.Queue(query, recipe.ID, productID)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for _, productID := range productIDs {
		if _, err := results.Exec(); err != nil {
			if isForeignKeyViolation(err) {
				return model.NotFoundf("product %d not found", productID)
			}
			r.logger.Error().
				Err(err).
				Int64("recipe_id", recipe.ID).
				Int64("product_id", productID).
				Msg("failed to link product")
			return fmt.Errorf("failed to link product %d: %w", productID, err)
		}
	}
	return nil
}

// Update rewrites the recipe and reconciles its product links.
func (r *recipeRepository) Update(ctx context.Context, tx pgx.Tx, recipe *model.Recipe, productIDs []int64) (bool, error) {
	query := `
		UPDATE recipes
		SET name = $2, description = $3, preparation_time = $4, portions = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`

	err := tx.QueryRow(ctx, query, recipe.ID, recipe.Name, recipe.Description, recipe.PreparationTime, recipe.Portions).
		Scan(&recipe.CreatedAt, &recipe.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		if domainErr := r.translate(err, recipe); domainErr != nil {
			return false, domainErr
		}
		r.logger.Error().Err(err).Int64("recipe_id", recipe.ID).Msg("failed to update recipe")
		return false, fmt.Errorf("failed to update recipe: %w", err)
	}

	keep := productIDs
	if keep == nil {
		keep = []int64{}
	}
	tag, err := tx.Exec(ctx,
		`DELETE FROM recipe_products WHERE recipe_id = $1 AND NOT (product_id = ANY($2))`,
		recipe.ID, keep,
	)
	if err != nil {
		r.logger.Error().Err(err).Int64("recipe_id", recipe.ID).Msg("failed to drop recipe links")
		return false, fmt.Errorf("failed to drop recipe links: %w", err)
	}

	if err := r.addLinks(ctx, tx, recipe, productIDs); err != nil {
		return false, err
	}

	r.logger.Debug().
		Int64("recipe_id", recipe.ID).
		Int64("links_dropped", tag.RowsAffected()).
		Msg("recipe updated")
	return true, nil
}

// GetAll loads a page of recipes ordered by name.
func (r *recipeRepository) GetAll(ctx context.Context, limit, offset int) ([]model.Recipe, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM recipes ORDER BY name, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query recipes")
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("failed to scan recipe ids: %w", err)
	}

	byID, err := r.GetByIDs(ctx, nil, ids)
	if err != nil {
		return nil, err
	}

	recipes := make([]model.Recipe, 0, len(ids))
	for _, id := range ids {
		// Deleted between the two queries.
		if rc, ok := byID[id]; ok {
			recipes = append(recipes, *rc)
		}
	}
	return recipes, nil
}

// GetByID loads one recipe with its ingredients.
func (r *recipeRepository) GetByID(ctx context.Context, q Querier, id int64) (*model.Recipe, error) {
	recipes, err := r.GetByIDs(ctx, q, []int64{id})
	if err != nil {
		return nil, err
	}
	recipe, ok := recipes[id]
	if !ok {
		r.logger.Debug().Int64("recipe_id", id).Msg("recipe not found")
		return nil, nil
	}
	return recipe, nil
}

// GetByIDs loads recipes with ingredients ordered by product ID.
func (r *recipeRepository) GetByIDs(ctx context.Context, q Querier, ids []int64) (map[int64]*model.Recipe, error) {
	recipes := make(map[int64]*model.Recipe, len(ids))
	if len(ids) == 0 {
		return recipes, nil
	}
	q = on(q, r.pool)

	rows, err := q.Query(ctx, `
		SELECT id, name, description, preparation_time, portions, created_at, updated_at
		FROM recipes
		WHERE id = ANY($1)
	`, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query recipes")
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rc model.Recipe
		if err := rows.Scan(&rc.ID, &rc.Name, &rc.Description, &rc.PreparationTime, &rc.Portions, &rc.CreatedAt, &rc.UpdatedAt); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan recipe row")
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		rc.Ingredients = []model.Ingredient{}
		recipes[rc.ID] = &rc
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recipes: %w", err)
	}
	rows.Close()

	if len(recipes) == 0 {
		return recipes, nil
	}

	ingredients, err := q.Query(ctx, `
		SELECT rp.recipe_id, rp.product_quantity,`+productColumns+`
		FROM recipe_products rp
		JOIN products p ON p.id = rp.product_id
		JOIN product_categories c ON c.id = p.category_id
		WHERE rp.recipe_id = ANY($1)
		ORDER BY rp.recipe_id, rp.product_id
	`, ids)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query recipe ingredients")
		return nil, fmt.Errorf("failed to query recipe ingredients: %w", err)
	}
	defer ingredients.Close()

	for ingredients.Next() {
		var ing model.Ingredient
		p := &ing.Product
		err := ingredients.Scan(&ing.RecipeID, &ing.Quantity,
			&p.ID, &p.Name, &p.CategoryID, &p.CategoryName, &p.Proteins, &p.Carbohydrates, &p.Fats, &p.CreatedAt)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan ingredient row")
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		ing.ProductID = p.ID
		if rc, ok := recipes[ing.RecipeID]; ok {
			rc.Ingredients = append(rc.Ingredients, ing)
		}
	}
	if err := ingredients.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ingredients: %w", err)
	}

	return recipes, nil
}

// SetQuantity writes the grams of one product link.
func (r *recipeRepository) SetQuantity(ctx context.Context, recipeID, productID int64, quantity decimal.Decimal) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE recipe_products SET product_quantity = $3
		WHERE recipe_id = $1 AND product_id = $2
	`, recipeID, productID, quantity)
	if err != nil {
		if isCheckViolation(err) {
			return false, model.InvalidInputf("quantity must not be negative")
		}
		r.logger.Error().Err(err).
			Int64("recipe_id", recipeID).
			Int64("product_id", productID).
			Msg("failed to set quantity")
		return false, fmt.Errorf("failed to set quantity: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Delete removes a recipe. Links and meals using it cascade.
func (r *recipeRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Int64("recipe_id", id).Msg("failed to delete recipe")
		return false, fmt.Errorf("failed to delete recipe: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
