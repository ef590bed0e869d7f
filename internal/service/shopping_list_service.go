package service

import (
	"context"
	"fmt"
	"time"

	"meal-planner/internal/model"
	"meal-planner/internal/repository"
	"meal-planner/internal/shopping"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// shoppingListService implements ShoppingListService.
type shoppingListService struct {
	listRepo   repository.ShoppingListRepository
	planRepo   repository.PlanRepository
	mealRepo   repository.MealRepository
	recipeRepo repository.RecipeRepository
	exporter   shopping.Exporter
	logger     zerolog.Logger
}

// NewShoppingListService creates a new shopping list service.
func NewShoppingListService(
	listRepo repository.ShoppingListRepository,
	planRepo repository.PlanRepository,
	mealRepo repository.MealRepository,
	recipeRepo repository.RecipeRepository,
	exporter shopping.Exporter,
	logger zerolog.Logger,
) ShoppingListService {
	return &shoppingListService{
		listRepo:   listRepo,
		planRepo:   planRepo,
		mealRepo:   mealRepo,
		recipeRepo: recipeRepo,
		exporter:   exporter,
		logger:     logger.With().Str("service", "shopping_list").Logger(),
	}
}

// Generate reads the plan's meals in one repeatable-read snapshot, aggregates
// their ingredients and stores the result as a new list.
func (s *shoppingListService) Generate(ctx context.Context, planID int64) (_ *model.ShoppingListResponse, err error) {
	tx, err := s.planRepo.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to generate shopping list: %w", err)
	}
	defer func() { rollbackOnError(ctx, tx, err, s.logger) }()

	plan, err := s.planRepo.GetByID(ctx, tx, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	if plan == nil {
		return nil, model.NotFoundf("plan %d not found", planID)
	}

	meals, err := s.mealRepo.ListByPlan(ctx, tx, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to get plan meals: %w", err)
	}

	ids := make([]int64, 0, len(meals))
	for _, m := range meals {
		ids = append(ids, m.RecipeID)
	}
	recipes, err := s.recipeRepo.GetByIDs(ctx, tx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipes: %w", err)
	}

	planned := make([]shopping.PlannedMeal, 0, len(meals))
	for _, m := range meals {
		recipe, ok := recipes[m.RecipeID]
		if !ok {
			return nil, model.NotFoundf("recipe %d of meal %d not found", m.RecipeID, m.ID)
		}
		planned = append(planned, shopping.PlannedMeal{Meal: m, Recipe: *recipe})
	}

	entries, err := shopping.Aggregate(planned)
	if err != nil {
		s.logger.Warn().Err(err).Int64("plan_id", planID).Msg("failed to aggregate shopping list")
		return nil, err
	}

	now := time.Now().UTC()
	list := &model.ShoppingList{
		ID:        uuid.New(),
		PlanID:    planID,
		Name:      fmt.Sprintf("%s %s", plan.Name, now.Format("2006-01-02 15:04")),
		CreatedAt: now,
		Entries:   entries,
	}
	for i := range list.Entries {
		list.Entries[i].ID = uuid.New()
		list.Entries[i].ShoppingListID = list.ID
	}

	if err = s.listRepo.Create(ctx, tx, list); err != nil {
		s.logger.Error().Err(err).Str("shopping_list_id", list.ID.String()).Msg("failed to create shopping list")
		return nil, fmt.Errorf("failed to create shopping list: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("shopping_list_id", list.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to generate shopping list: %w", err)
	}

	s.logger.Info().
		Str("shopping_list_id", list.ID.String()).
		Int64("plan_id", planID).
		Int("meals", len(meals)).
		Int("entries", len(list.Entries)).
		Msg("shopping list generated")

	return &model.ShoppingListResponse{
		ShoppingList: *list,
		Groups:       shopping.GroupByCategory(list.Entries),
	}, nil
}

// GetByID retrieves a stored list with its category grouping.
func (s *shoppingListService) GetByID(ctx context.Context, id uuid.UUID) (*model.ShoppingListResponse, error) {
	list, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.ShoppingListResponse{
		ShoppingList: *list,
		Groups:       shopping.GroupByCategory(list.Entries),
	}, nil
}

// Export renders a stored list and hands it to the configured exporter.
func (s *shoppingListService) Export(ctx context.Context, id uuid.UUID) (string, error) {
	list, err := s.load(ctx, id)
	if err != nil {
		return "", err
	}

	location, err := s.exporter.Export(ctx, shopping.FileName(list), shopping.Rows(list))
	if err != nil {
		s.logger.Error().Err(err).Str("shopping_list_id", id.String()).Msg("failed to export shopping list")
		return "", fmt.Errorf("failed to export shopping list: %w", err)
	}

	s.logger.Info().
		Str("shopping_list_id", id.String()).
		Str("location", location).
		Msg("shopping list exported")
	return location, nil
}

func (s *shoppingListService) load(ctx context.Context, id uuid.UUID) (*model.ShoppingList, error) {
	list, err := s.listRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("shopping_list_id", id.String()).Msg("failed to get shopping list")
		return nil, fmt.Errorf("failed to get shopping list: %w", err)
	}
	if list == nil {
		s.logger.Debug().Str("shopping_list_id", id.String()).Msg("shopping list not found")
		return nil, model.NotFoundf("shopping list %s not found", id)
	}
	return list, nil
}
