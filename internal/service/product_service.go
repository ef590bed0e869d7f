package service

import (
	"context"
	"fmt"
	"strings"

	"meal-planner/internal/model"
	"meal-planner/internal/nutrition"
	"meal-planner/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// productService implements ProductService.
type productService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	logger       zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	logger zerolog.Logger,
) ProductService {
	return &productService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		logger:       logger.With().Str("service", "product").Logger(),
	}
}

// CreateCategory adds a product category.
func (s *productService) CreateCategory(ctx context.Context, input *model.CategoryInput) (*model.ProductCategory, error) {
	if input == nil || strings.TrimSpace(input.Name) == "" {
		return nil, model.InvalidInputf("category name is required")
	}

	category := &model.ProductCategory{Name: strings.TrimSpace(input.Name)}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		s.logger.Warn().Err(err).Str("name", category.Name).Msg("failed to create category")
		return nil, err
	}

	s.logger.Info().Int64("category_id", category.ID).Str("name", category.Name).Msg("category created")
	return category, nil
}

// GetCategories lists categories ordered by name.
func (s *productService) GetCategories(ctx context.Context) ([]model.ProductCategory, error) {
	categories, err := s.categoryRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get categories")
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	return categories, nil
}

// Create validates macros and adds a product.
func (s *productService) Create(ctx context.Context, input *model.ProductInput) (*model.ProductResponse, error) {
	product, err := s.validateInput(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("product_id", product.ID).Str("name", product.Name).Msg("product created")
	return toProductResponse(*product)
}

// Update validates macros like Create and rewrites an existing product.
func (s *productService) Update(ctx context.Context, id int64, input *model.ProductInput) (*model.ProductResponse, error) {
	product, err := s.validateInput(ctx, input)
	if err != nil {
		return nil, err
	}
	product.ID = id

	found, err := s.productRepo.Update(ctx, product)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, model.NotFoundf("product %d not found", id)
	}

	s.logger.Info().Int64("product_id", id).Str("name", product.Name).Msg("product updated")
	return toProductResponse(*product)
}

// validateInput checks name, macros and category in that order.
func (s *productService) validateInput(ctx context.Context, input *model.ProductInput) (*model.Product, error) {
	if input == nil || strings.TrimSpace(input.Name) == "" {
		return nil, model.InvalidInputf("product name is required")
	}
	if err := nutrition.ValidateMacros(input.Proteins, input.Carbohydrates, input.Fats); err != nil {
		s.logger.Warn().Err(err).Str("name", input.Name).Msg("invalid product macros")
		return nil, err
	}

	category, err := s.categoryRepo.GetByID(ctx, input.CategoryID)
	if err != nil {
		s.logger.Error().Err(err).Int64("category_id", input.CategoryID).Msg("failed to get category")
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	if category == nil {
		return nil, model.NotFoundf("category %d not found", input.CategoryID)
	}

	return &model.Product{
		Name:          strings.TrimSpace(input.Name),
		CategoryID:    category.ID,
		Proteins:      *input.Proteins,
		Carbohydrates: *input.Carbohydrates,
		Fats:          *input.Fats,
	}, nil
}

// GetAll retrieves products with pagination.
func (s *productService) GetAll(ctx context.Context, limit, offset int) ([]model.ProductResponse, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	products, err := s.productRepo.GetAll(ctx, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to get all products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	responses := make([]model.ProductResponse, 0, len(products))
	for _, p := range products {
		resp, err := toProductResponse(p)
		if err != nil {
			return nil, err
		}
		responses = append(responses, *resp)
	}

	s.logger.Debug().
		Int("count", len(responses)).
		Int("limit", limit).
		Int("offset", offset).
		Msg("retrieved products")

	return responses, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id int64) (*model.ProductResponse, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(*product)
}

// Calories returns kcal per 100 g of the product.
func (s *productService) Calories(ctx context.Context, id int64) (decimal.Decimal, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	return nutrition.ProductCalories(*product)
}

func (s *productService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.productRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if !deleted {
		return model.NotFoundf("product %d not found", id)
	}
	s.logger.Info().Int64("product_id", id).Msg("product deleted")
	return nil
}

func (s *productService) load(ctx context.Context, id int64) (*model.Product, error) {
	if id <= 0 {
		s.logger.Warn().Int64("product_id", id).Msg("invalid product ID")
		return nil, model.NotFoundf("product %d not found", id)
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		s.logger.Debug().Int64("product_id", id).Msg("product not found")
		return nil, model.NotFoundf("product %d not found", id)
	}
	return product, nil
}

func toProductResponse(p model.Product) (*model.ProductResponse, error) {
	kcal, err := nutrition.ProductCalories(p)
	if err != nil {
		return nil, err
	}
	return &model.ProductResponse{Product: p, CaloriesPer100g: kcal}, nil
}
