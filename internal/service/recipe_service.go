package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"meal-planner/internal/model"
	"meal-planner/internal/nutrition"
	"meal-planner/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// recipeService implements RecipeService.
type recipeService struct {
	recipeRepo  repository.RecipeRepository
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewRecipeService creates a new recipe service.
func NewRecipeService(
	recipeRepo repository.RecipeRepository,
	productRepo repository.ProductRepository,
	logger zerolog.Logger,
) RecipeService {
	return &recipeService{
		recipeRepo:  recipeRepo,
		productRepo: productRepo,
		logger:      logger.With().Str("service", "recipe").Logger(),
	}
}

// Create inserts a recipe linking each chosen product with zero grams.
func (s *recipeService) Create(ctx context.Context, input *model.RecipeInput) (_ *model.RecipeResponse, err error) {
	recipe, productIDs, err := s.validateInput(ctx, input)
	if err != nil {
		return nil, err
	}

	tx, err := s.recipeRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}
	defer func() { rollbackOnError(ctx, tx, err, s.logger) }()

	if err = s.recipeRepo.Create(ctx, tx, recipe, productIDs); err != nil {
		return nil, err
	}
	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("name", recipe.Name).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	s.logger.Info().
		Int64("recipe_id", recipe.ID).
		Int("products", len(productIDs)).
		Msg("recipe created")

	return s.GetByID(ctx, recipe.ID)
}

// Update rewrites recipe fields and reconciles its product links.
func (s *recipeService) Update(ctx context.Context, id int64, input *model.RecipeInput) (_ *model.RecipeResponse, err error) {
	recipe, productIDs, err := s.validateInput(ctx, input)
	if err != nil {
		return nil, err
	}
	recipe.ID = id

	tx, err := s.recipeRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}
	defer func() { rollbackOnError(ctx, tx, err, s.logger) }()

	found, err := s.recipeRepo.Update(ctx, tx, recipe, productIDs)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, model.NotFoundf("recipe %d not found", id)
	}
	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Int64("recipe_id", id).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}

	s.logger.Info().Int64("recipe_id", id).Msg("recipe updated")
	return s.GetByID(ctx, id)
}

// GetAll retrieves recipes with pagination, each with its calories.
func (s *recipeService) GetAll(ctx context.Context, limit, offset int) ([]model.RecipeResponse, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	recipes, err := s.recipeRepo.GetAll(ctx, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to get all recipes")
		return nil, fmt.Errorf("failed to get recipes: %w", err)
	}

	responses := make([]model.RecipeResponse, 0, len(recipes))
	for i := range recipes {
		resp, err := toRecipeResponse(&recipes[i])
		if err != nil {
			return nil, err
		}
		responses = append(responses, *resp)
	}

	s.logger.Debug().
		Int("count", len(responses)).
		Int("limit", limit).
		Int("offset", offset).
		Msg("retrieved recipes")

	return responses, nil
}

// GetByID returns a recipe with its batch and portion calories.
func (s *recipeService) GetByID(ctx context.Context, id int64) (*model.RecipeResponse, error) {
	recipe, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toRecipeResponse(recipe)
}

func toRecipeResponse(recipe *model.Recipe) (*model.RecipeResponse, error) {
	total, err := nutrition.RecipeCalories(*recipe)
	if err != nil {
		return nil, err
	}
	portion, err := nutrition.PortionCalories(*recipe)
	if err != nil {
		return nil, err
	}

	return &model.RecipeResponse{
		Recipe:          *recipe,
		RecipeCalories:  total,
		PortionCalories: portion,
	}, nil
}

func (s *recipeService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.recipeRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	if !deleted {
		return model.NotFoundf("recipe %d not found", id)
	}
	s.logger.Info().Int64("recipe_id", id).Msg("recipe deleted")
	return nil
}

func (s *recipeService) Calories(ctx context.Context, id int64) (decimal.Decimal, error) {
	recipe, err := s.load(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	return nutrition.RecipeCalories(*recipe)
}

func (s *recipeService) PortionCalories(ctx context.Context, id int64) (decimal.Decimal, error) {
	recipe, err := s.load(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	return nutrition.PortionCalories(*recipe)
}

// SetQuantity writes the grams of an existing recipe-product link.
func (s *recipeService) SetQuantity(ctx context.Context, recipeID, productID int64, grams decimal.Decimal) error {
	if grams.IsNegative() {
		s.logger.Warn().
			Int64("recipe_id", recipeID).
			Int64("product_id", productID).
			Str("grams", grams.String()).
			Msg("negative quantity")
		return model.InvalidInputf("quantity must not be negative, got %s", grams.String())
	}

	found, err := s.recipeRepo.SetQuantity(ctx, recipeID, productID, grams)
	if err != nil {
		return err
	}
	if !found {
		return model.NotFoundf("product %d is not part of recipe %d", productID, recipeID)
	}

	s.logger.Info().
		Int64("recipe_id", recipeID).
		Int64("product_id", productID).
		Str("grams", grams.String()).
		Msg("ingredient quantity set")
	return nil
}

func (s *recipeService) load(ctx context.Context, id int64) (*model.Recipe, error) {
	recipe, err := s.recipeRepo.GetByID(ctx, nil, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("recipe_id", id).Msg("failed to get recipe")
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	if recipe == nil {
		s.logger.Debug().Int64("recipe_id", id).Msg("recipe not found")
		return nil, model.NotFoundf("recipe %d not found", id)
	}
	return recipe, nil
}

// validateInput checks the payload and returns the recipe to store together
// with its deduplicated product set.
func (s *recipeService) validateInput(ctx context.Context, input *model.RecipeInput) (*model.Recipe, []int64, error) {
	if input == nil {
		return nil, nil, model.InvalidInputf("recipe is required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, nil, model.InvalidInputf("recipe name is required")
	}
	if input.PreparationTime < 0 {
		return nil, nil, model.InvalidInputf("preparation time must not be negative, got %d", input.PreparationTime)
	}

	portions := model.DefaultRecipePortions
	if input.Portions != nil {
		portions = *input.Portions
	}
	if !portions.IsPositive() {
		return nil, nil, model.InvalidInputf("portions must be positive, got %s", portions.String())
	}

	productIDs := slices.Clone(input.ProductIDs)
	slices.Sort(productIDs)
	productIDs = slices.Compact(productIDs)

	if err := s.productRepo.ValidateProductsExist(ctx, productIDs); err != nil {
		s.logger.Warn().
			Int("product_count", len(productIDs)).
			Err(err).
			Msg("product validation failed")
		return nil, nil, err
	}

	return &model.Recipe{
		Name:            name,
		Description:     input.Description,
		PreparationTime: input.PreparationTime,
		Portions:        portions,
	}, productIDs, nil
}

// rollbackOnError rolls tx back when err is set.
func rollbackOnError(ctx context.Context, tx pgx.Tx, err error, logger zerolog.Logger) {
	if err == nil {
		return
	}
	if rbErr := tx.Rollback(ctx); rbErr != nil {
		logger.Error().Err(rbErr).Msg("failed to rollback transaction")
	}
}
