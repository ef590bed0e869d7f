package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"meal-planner/internal/budget"
	"meal-planner/internal/model"
	"meal-planner/internal/nutrition"
	"meal-planner/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// planService implements PlanService.
type planService struct {
	planRepo   repository.PlanRepository
	mealRepo   repository.MealRepository
	recipeRepo repository.RecipeRepository
	logger     zerolog.Logger
}

// NewPlanService creates a new plan service.
func NewPlanService(
	planRepo repository.PlanRepository,
	mealRepo repository.MealRepository,
	recipeRepo repository.RecipeRepository,
	logger zerolog.Logger,
) PlanService {
	return &planService{
		planRepo:   planRepo,
		mealRepo:   mealRepo,
		recipeRepo: recipeRepo,
		logger:     logger.With().Str("service", "plan").Logger(),
	}
}

func (s *planService) CreatePerson(ctx context.Context, input *model.PersonInput) (*model.Person, error) {
	person, err := validatePerson(input)
	if err != nil {
		return nil, err
	}
	if err := s.planRepo.CreatePerson(ctx, person); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("person_id", person.ID).Int("calories", person.Calories).Msg("person created")
	return person, nil
}

func (s *planService) GetPersons(ctx context.Context, userID int64) ([]model.Person, error) {
	persons, err := s.planRepo.GetPersons(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to get persons")
		return nil, fmt.Errorf("failed to get persons: %w", err)
	}
	return persons, nil
}

// UpdatePerson rewrites a person. Budgets of plans it belongs to change with it.
func (s *planService) UpdatePerson(ctx context.Context, id int64, input *model.PersonInput) (*model.Person, error) {
	person, err := validatePerson(input)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedPerson(ctx, id, input.UserID); err != nil {
		return nil, err
	}

	person.ID = id
	found, err := s.planRepo.UpdatePerson(ctx, person)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, model.NotFoundf("person %d not found", id)
	}

	s.logger.Info().Int64("person_id", id).Int("calories", person.Calories).Msg("person updated")
	return person, nil
}

func (s *planService) DeletePerson(ctx context.Context, id, userID int64) error {
	if _, err := s.ownedPerson(ctx, id, userID); err != nil {
		return err
	}
	deleted, err := s.planRepo.DeletePerson(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete person: %w", err)
	}
	if !deleted {
		return model.NotFoundf("person %d not found", id)
	}
	s.logger.Info().Int64("person_id", id).Msg("person deleted")
	return nil
}

// ownedPerson hides persons of other users behind a not-found error.
func (s *planService) ownedPerson(ctx context.Context, id, userID int64) (*model.Person, error) {
	person, err := s.planRepo.GetPerson(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("person_id", id).Msg("failed to get person")
		return nil, fmt.Errorf("failed to get person: %w", err)
	}
	if person == nil || person.UserID != userID {
		return nil, model.NotFoundf("person %d not found", id)
	}
	return person, nil
}

// Create inserts a plan and assigns its persons.
func (s *planService) Create(ctx context.Context, input *model.PlanInput) (_ *model.Plan, err error) {
	plan, personIDs, err := s.validatePlan(ctx, input)
	if err != nil {
		return nil, err
	}

	tx, err := s.planRepo.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}
	defer func() { rollbackOnError(ctx, tx, err, s.logger) }()

	if err = s.planRepo.Create(ctx, tx, plan, personIDs); err != nil {
		return nil, err
	}
	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}

	s.logger.Info().
		Int64("plan_id", plan.ID).
		Int("length", plan.Length).
		Int("persons", len(personIDs)).
		Msg("plan created")

	return s.loadPlan(ctx, nil, plan.ID)
}

// Update rewrites a plan under its row lock so it cannot interleave with
// meal mutations of the same plan.
func (s *planService) Update(ctx context.Context, id int64, input *model.PlanInput) (_ *model.Plan, err error) {
	plan, personIDs, err := s.validatePlan(ctx, input)
	if err != nil {
		return nil, err
	}
	plan.ID = id

	tx, err := s.planRepo.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to update plan: %w", err)
	}
	defer func() { rollbackOnError(ctx, tx, err, s.logger) }()

	locked, err := s.planRepo.LockForUpdate(ctx, tx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to lock plan: %w", err)
	}
	if locked == nil {
		return nil, model.NotFoundf("plan %d not found", id)
	}

	found, err := s.planRepo.Update(ctx, tx, plan, personIDs)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, model.NotFoundf("plan %d not found", id)
	}
	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Int64("plan_id", id).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to update plan: %w", err)
	}

	s.logger.Info().
		Int64("plan_id", id).
		Int("length", plan.Length).
		Int("previous_length", locked.Length).
		Int("persons", len(personIDs)).
		Msg("plan updated")

	return s.loadPlan(ctx, nil, id)
}

func (s *planService) GetAll(ctx context.Context, userID int64) ([]model.Plan, error) {
	plans, err := s.planRepo.GetAll(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to get plans")
		return nil, fmt.Errorf("failed to get plans: %w", err)
	}
	return plans, nil
}

// GetByID returns the plan with its budget, meals and per-day consumption,
// all read from one snapshot.
func (s *planService) GetByID(ctx context.Context, id int64) (*model.PlanSummary, error) {
	var summary *model.PlanSummary
	err := s.snapshot(ctx, func(tx pgx.Tx) error {
		plan, err := s.loadPlan(ctx, tx, id)
		if err != nil {
			return err
		}

		calories, err := s.planRepo.Calories(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("failed to get plan budget: %w", err)
		}

		meals, err := s.mealRepo.ListByPlan(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("failed to get plan meals: %w", err)
		}

		days, err := s.daysCalories(ctx, tx, plan.Length, meals)
		if err != nil {
			return err
		}

		summary = &model.PlanSummary{
			Plan:         *plan,
			Budget:       calories,
			DaysCalories: days,
			Meals:        meals,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func (s *planService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.planRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	if !deleted {
		return model.NotFoundf("plan %d not found", id)
	}
	s.logger.Info().Int64("plan_id", id).Msg("plan deleted")
	return nil
}

// Budget returns the sum of the daily requirements of the plan's persons.
func (s *planService) Budget(ctx context.Context, planID int64) (int64, error) {
	if _, err := s.loadPlan(ctx, nil, planID); err != nil {
		return 0, err
	}
	calories, err := s.planRepo.Calories(ctx, nil, planID)
	if err != nil {
		return 0, fmt.Errorf("failed to get plan budget: %w", err)
	}
	return calories, nil
}

// DayCalories returns the calories of every meal scheduled on one plan day.
func (s *planService) DayCalories(ctx context.Context, planID int64, day int) (decimal.Decimal, error) {
	plan, err := s.loadPlan(ctx, nil, planID)
	if err != nil {
		return decimal.Zero, err
	}
	if err := checkDay(plan, day); err != nil {
		return decimal.Zero, err
	}
	return s.dayConsumed(ctx, nil, planID, day)
}

// DayReport reads the day's meals and the plan budget in one repeatable-read
// snapshot, so the remaining budget never mixes two states of the plan.
func (s *planService) DayReport(ctx context.Context, planID int64, day int) (*model.DayCaloriesResponse, error) {
	var report *model.DayCaloriesResponse
	err := s.snapshot(ctx, func(tx pgx.Tx) error {
		plan, err := s.loadPlan(ctx, tx, planID)
		if err != nil {
			return err
		}
		if err := checkDay(plan, day); err != nil {
			return err
		}

		calories, err := s.planRepo.Calories(ctx, tx, planID)
		if err != nil {
			return fmt.Errorf("failed to get plan budget: %w", err)
		}
		consumed, err := s.dayConsumed(ctx, tx, planID, day)
		if err != nil {
			return err
		}

		report = &model.DayCaloriesResponse{
			PlanID:    planID,
			Day:       day,
			Calories:  consumed,
			Budget:    calories,
			Remaining: decimal.NewFromInt(calories).Sub(consumed),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// DaysCalories returns consumption for days 1..Length of the plan.
func (s *planService) DaysCalories(ctx context.Context, planID int64) ([]decimal.Decimal, error) {
	plan, err := s.loadPlan(ctx, nil, planID)
	if err != nil {
		return nil, err
	}
	meals, err := s.mealRepo.ListByPlan(ctx, nil, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to get plan meals: %w", err)
	}
	return s.daysCalories(ctx, nil, plan.Length, meals)
}

// SaveMeal creates or replaces the caller's meal in a slot. The plan row is
// locked for the duration, so concurrent mutations of the same plan see each
// other's results before the budget is evaluated.
func (s *planService) SaveMeal(ctx context.Context, req *model.MealRequest) (_ *model.Meal, err error) {
	if err = validateMealRequest(req); err != nil {
		s.logger.Warn().Err(err).Msg("invalid meal request")
		return nil, err
	}

	tx, err := s.planRepo.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to save meal: %w", err)
	}
	defer func() { rollbackOnError(ctx, tx, err, s.logger) }()

	plan, err := s.planRepo.LockForUpdate(ctx, tx, req.PlanID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock plan: %w", err)
	}
	if plan == nil {
		return nil, model.NotFoundf("plan %d not found", req.PlanID)
	}
	if err = checkDay(plan, req.Day); err != nil {
		return nil, err
	}

	calories, err := s.planRepo.Calories(ctx, tx, req.PlanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get plan budget: %w", err)
	}

	dayMeals, err := s.mealRepo.ListDay(ctx, tx, req.PlanID, req.Day)
	if err != nil {
		return nil, fmt.Errorf("failed to get day meals: %w", err)
	}

	recipes, err := s.loadRecipes(ctx, tx, dayMeals, req.RecipeID)
	if err != nil {
		return nil, err
	}
	recipe, ok := recipes[req.RecipeID]
	if !ok {
		return nil, model.NotFoundf("recipe %d not found", req.RecipeID)
	}

	entries, err := mealEntries(dayMeals, recipes)
	if err != nil {
		return nil, err
	}
	portion, err := nutrition.PortionCalories(*recipe)
	if err != nil {
		return nil, err
	}

	existing, err := s.mealRepo.FindSlot(ctx, tx, req.PlanID, req.Day, req.Slot, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find meal slot: %w", err)
	}
	var replacing int64
	if existing != nil {
		replacing = existing.ID
	}

	decision, err := budget.Evaluate(calories, entries, replacing, nutrition.MealCalories(portion, req.Portions))
	if err != nil {
		s.logger.Warn().
			Int64("plan_id", req.PlanID).
			Int("day", req.Day).
			Str("slot", req.Slot.String()).
			Str("requested", decision.Requested.String()).
			Str("remaining", decision.Remaining.String()).
			Msg("meal rejected by calorie budget")
		return nil, err
	}

	meal := &model.Meal{
		PlanID:   req.PlanID,
		Day:      req.Day,
		Slot:     req.Slot,
		RecipeID: req.RecipeID,
		Portions: req.Portions,
		UserID:   req.UserID,
	}
	if err = s.mealRepo.Upsert(ctx, tx, meal); err != nil {
		return nil, err
	}
	if err = s.planRepo.Touch(ctx, tx, req.PlanID); err != nil {
		return nil, err
	}
	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Int64("plan_id", req.PlanID).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to save meal: %w", err)
	}

	s.logger.Info().
		Int64("meal_id", meal.ID).
		Int64("plan_id", meal.PlanID).
		Int("day", meal.Day).
		Str("slot", meal.Slot.String()).
		Str("transition", decision.From.String()+"->"+budget.Filled.String()).
		Msg("meal saved")

	return meal, nil
}

// DeleteMeal removes a meal and bumps the modification time of its plan.
func (s *planService) DeleteMeal(ctx context.Context, id int64) error {
	meal, err := s.mealRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("meal_id", id).Msg("failed to get meal")
		return fmt.Errorf("failed to get meal: %w", err)
	}
	if meal == nil {
		return model.NotFoundf("meal %d not found", id)
	}

	deleted, err := s.mealRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete meal: %w", err)
	}
	if !deleted {
		return model.NotFoundf("meal %d not found", id)
	}
	if err := s.planRepo.Touch(ctx, nil, meal.PlanID); err != nil {
		return err
	}

	s.logger.Info().
		Int64("meal_id", id).
		Int64("plan_id", meal.PlanID).
		Int("day", meal.Day).
		Str("slot", meal.Slot.String()).
		Msg("meal deleted")
	return nil
}

// CompleteDayMeal changes the portions of the first meal in a slot so that the
// day's consumption reaches the plan budget. It is not gated by the budget.
func (s *planService) CompleteDayMeal(ctx context.Context, planID int64, day int, slot model.MealSlot) (_ *model.CompletionResponse, err error) {
	if !slot.Valid() {
		return nil, model.InvalidInputf("meal slot %d out of range 1..5", int(slot))
	}

	tx, err := s.planRepo.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to complete meal: %w", err)
	}
	defer func() { rollbackOnError(ctx, tx, err, s.logger) }()

	plan, err := s.planRepo.LockForUpdate(ctx, tx, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock plan: %w", err)
	}
	if plan == nil {
		return nil, model.NotFoundf("plan %d not found", planID)
	}
	if err = checkDay(plan, day); err != nil {
		return nil, err
	}

	meal, err := s.mealRepo.FirstInSlot(ctx, tx, planID, day, slot)
	if err != nil {
		return nil, fmt.Errorf("failed to find meal slot: %w", err)
	}
	if meal == nil {
		return nil, model.NotFoundf("no meal on day %d in slot %s of plan %d", day, slot, planID)
	}

	calories, err := s.planRepo.Calories(ctx, tx, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to get plan budget: %w", err)
	}
	dayMeals, err := s.mealRepo.ListDay(ctx, tx, planID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to get day meals: %w", err)
	}
	recipes, err := s.loadRecipes(ctx, tx, dayMeals)
	if err != nil {
		return nil, err
	}
	entries, err := mealEntries(dayMeals, recipes)
	if err != nil {
		return nil, err
	}
	recipe, ok := recipes[meal.RecipeID]
	if !ok {
		return nil, model.NotFoundf("recipe %d not found", meal.RecipeID)
	}
	portion, err := nutrition.PortionCalories(*recipe)
	if err != nil {
		return nil, err
	}

	additional, err := budget.Complete(calories, entries, portion, meal.Portions)
	if err != nil {
		return nil, err
	}
	portions := meal.Portions.Add(additional)

	if err = s.mealRepo.UpdatePortions(ctx, tx, meal.ID, portions); err != nil {
		return nil, err
	}
	if err = s.planRepo.Touch(ctx, tx, planID); err != nil {
		return nil, err
	}
	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Int64("plan_id", planID).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to complete meal: %w", err)
	}

	for i := range entries {
		if entries[i].MealID == meal.ID {
			entries[i].Calories = nutrition.MealCalories(portion, portions)
		}
	}

	s.logger.Info().
		Int64("meal_id", meal.ID).
		Str("additional", additional.String()).
		Str("portions", portions.String()).
		Msg("meal completed")

	return &model.CompletionResponse{
		MealID:              meal.ID,
		AdditionalPortions:  additional,
		Portions:            portions,
		DayCaloriesAfterFix: budget.DayConsumed(entries),
	}, nil
}

// snapshot runs fn in a read-only repeatable-read transaction.
func (s *planService) snapshot(ctx context.Context, fn func(tx pgx.Tx) error) (err error) {
	tx, err := s.planRepo.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return fmt.Errorf("failed to begin snapshot: %w", err)
	}
	defer func() { rollbackOnError(ctx, tx, err, s.logger) }()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to end snapshot: %w", err)
	}
	return nil
}

func (s *planService) loadPlan(ctx context.Context, q repository.Querier, id int64) (*model.Plan, error) {
	plan, err := s.planRepo.GetByID(ctx, q, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("plan_id", id).Msg("failed to get plan")
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	if plan == nil {
		s.logger.Debug().Int64("plan_id", id).Msg("plan not found")
		return nil, model.NotFoundf("plan %d not found", id)
	}
	return plan, nil
}

// loadRecipes fetches the recipes of meals plus any extra IDs.
func (s *planService) loadRecipes(ctx context.Context, q repository.Querier, meals []model.Meal, extra ...int64) (map[int64]*model.Recipe, error) {
	ids := make([]int64, 0, len(meals)+len(extra))
	for _, m := range meals {
		ids = append(ids, m.RecipeID)
	}
	ids = append(ids, extra...)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	recipes, err := s.recipeRepo.GetByIDs(ctx, q, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipes: %w", err)
	}
	return recipes, nil
}

func (s *planService) dayConsumed(ctx context.Context, q repository.Querier, planID int64, day int) (decimal.Decimal, error) {
	meals, err := s.mealRepo.ListDay(ctx, q, planID, day)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get day meals: %w", err)
	}
	recipes, err := s.loadRecipes(ctx, q, meals)
	if err != nil {
		return decimal.Zero, err
	}
	entries, err := mealEntries(meals, recipes)
	if err != nil {
		return decimal.Zero, err
	}
	return budget.DayConsumed(entries), nil
}

func (s *planService) daysCalories(ctx context.Context, q repository.Querier, length int, meals []model.Meal) ([]decimal.Decimal, error) {
	recipes, err := s.loadRecipes(ctx, q, meals)
	if err != nil {
		return nil, err
	}
	entries, err := mealEntries(meals, recipes)
	if err != nil {
		return nil, err
	}

	perDay := make([][]budget.Entry, length)
	for i, m := range meals {
		if m.Day < 1 || m.Day > length {
			continue
		}
		perDay[m.Day-1] = append(perDay[m.Day-1], entries[i])
	}

	days := make([]decimal.Decimal, length)
	for i := range perDay {
		days[i] = budget.DayConsumed(perDay[i])
	}
	return days, nil
}

// mealEntries computes each meal's rounded calories in meal order.
func mealEntries(meals []model.Meal, recipes map[int64]*model.Recipe) ([]budget.Entry, error) {
	entries := make([]budget.Entry, 0, len(meals))
	for _, m := range meals {
		recipe, ok := recipes[m.RecipeID]
		if !ok {
			return nil, model.NotFoundf("recipe %d of meal %d not found", m.RecipeID, m.ID)
		}
		portion, err := nutrition.PortionCalories(*recipe)
		if err != nil {
			return nil, err
		}
		entries = append(entries, budget.Entry{
			MealID:   m.ID,
			Calories: nutrition.MealCalories(portion, m.Portions),
		})
	}
	return entries, nil
}

// validatePlan checks the payload and returns the plan to store together
// with its deduplicated person set.
func (s *planService) validatePlan(ctx context.Context, input *model.PlanInput) (*model.Plan, []int64, error) {
	if input == nil || strings.TrimSpace(input.Name) == "" {
		return nil, nil, model.InvalidInputf("plan name is required")
	}
	if input.Length < 1 {
		return nil, nil, model.InvalidInputf("plan length must be at least 1, got %d", input.Length)
	}

	personIDs := slices.Clone(input.PersonIDs)
	slices.Sort(personIDs)
	personIDs = slices.Compact(personIDs)

	if err := s.planRepo.ValidatePersonsExist(ctx, personIDs); err != nil {
		s.logger.Warn().Err(err).Int("person_count", len(personIDs)).Msg("person validation failed")
		return nil, nil, err
	}

	return &model.Plan{
		Name:   strings.TrimSpace(input.Name),
		Length: input.Length,
		UserID: input.UserID,
	}, personIDs, nil
}

func validatePerson(input *model.PersonInput) (*model.Person, error) {
	if input == nil || strings.TrimSpace(input.Name) == "" {
		return nil, model.InvalidInputf("person name is required")
	}
	if input.Calories < 0 {
		return nil, model.InvalidInputf("calories must not be negative, got %d", input.Calories)
	}
	return &model.Person{
		Name:     strings.TrimSpace(input.Name),
		Calories: input.Calories,
		UserID:   input.UserID,
	}, nil
}

func checkDay(plan *model.Plan, day int) error {
	if day < 1 || day > plan.Length {
		return model.InvalidInputf("day %d is outside plan %d (1..%d)", day, plan.ID, plan.Length)
	}
	return nil
}

func validateMealRequest(req *model.MealRequest) error {
	if req == nil {
		return model.InvalidInputf("meal request is required")
	}
	if !req.Slot.Valid() {
		return model.InvalidInputf("meal slot %d out of range 1..5", int(req.Slot))
	}
	if req.RecipeID <= 0 {
		return model.InvalidInputf("recipe is required")
	}
	if req.Portions.IsNegative() {
		return model.InvalidInputf("portions must not be negative, got %s", req.Portions.String())
	}
	return nil
}
