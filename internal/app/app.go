// Package app wires configuration, storage and services for the binaries.
package app

import (
	"context"
	"fmt"

	"meal-planner/internal/config"
	"meal-planner/internal/database"
	"meal-planner/internal/repository"
	"meal-planner/internal/service"
	"meal-planner/internal/shopping"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// App holds the shared dependencies of the API server and the CLI.
type App struct {
	Pool          *pgxpool.Pool
	Products      service.ProductService
	Recipes       service.RecipeService
	Plans         service.PlanService
	ShoppingLists service.ShoppingListService
}

// New connects to the database and builds every service. Callers must call Close.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	categoryRepo := repository.NewCategoryRepository(pool, logger)
	productRepo := repository.NewProductRepository(pool, logger)
	recipeRepo := repository.NewRecipeRepository(pool, logger)
	planRepo := repository.NewPlanRepository(pool, logger)
	mealRepo := repository.NewMealRepository(pool, logger)
	listRepo := repository.NewShoppingListRepository(pool, logger)

	exporter := newExporter(ctx, cfg.Export, logger)

	return &App{
		Pool:          pool,
		Products:      service.NewProductService(categoryRepo, productRepo, logger),
		Recipes:       service.NewRecipeService(recipeRepo, productRepo, logger),
		Plans:         service.NewPlanService(planRepo, mealRepo, recipeRepo, logger),
		ShoppingLists: service.NewShoppingListService(listRepo, planRepo, mealRepo, recipeRepo, exporter, logger),
	}, nil
}

// Close releases the connection pool.
func (a *App) Close() {
	a.Pool.Close()
}

// newExporter writes to S3 when enabled and reachable, and to the local
// export directory otherwise.
func newExporter(ctx context.Context, cfg config.ExportConfig, logger zerolog.Logger) shopping.Exporter {
	fileExporter := shopping.NewFileExporter(cfg.Dir, logger)

	var s3Exporter shopping.Exporter
	if cfg.S3.Enabled {
		exp, err := shopping.NewS3Exporter(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 exporter, falling back to local file system only")
		} else {
			s3Exporter = exp
		}
	} else {
		logger.Info().Str("dir", cfg.Dir).Msg("using local file system for exports (S3 disabled)")
	}

	return shopping.NewFallbackExporter(s3Exporter, fileExporter, cfg.S3.Prefix, cfg.S3.Enabled, logger)
}
