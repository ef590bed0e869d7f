package handler

import (
	"net/http"

	"meal-planner/internal/model"
	"meal-planner/internal/service"

	"github.com/rs/zerolog"
)

// RecipeHandler handles recipe HTTP requests.
type RecipeHandler struct {
	service service.RecipeService
	logger  zerolog.Logger
}

// NewRecipeHandler creates a new recipe handler.
func NewRecipeHandler(service service.RecipeService, logger zerolog.Logger) *RecipeHandler {
	return &RecipeHandler{
		service: service,
		logger:  logger.With().Str("handler", "recipe").Logger(),
	}
}

// Create handles POST /api/recipes requests.
func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input model.RecipeInput
	if !decodeJSON(w, r, &input, h.logger) {
		return
	}

	recipe, err := h.service.Create(r.Context(), &input)
	if err != nil {
		writeServiceError(w, err, "failed to create recipe", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, recipe)
}

// Update handles PUT /api/recipes/{id} requests.
func (h *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", h.logger)
	if !ok {
		return
	}

	var input model.RecipeInput
	if !decodeJSON(w, r, &input, h.logger) {
		return
	}

	recipe, err := h.service.Update(r.Context(), id, &input)
	if err != nil {
		writeServiceError(w, err, "failed to update recipe", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, recipe)
}

// GetAll handles GET /api/recipes requests with pagination.
func (h *RecipeHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	limit, offset, ok := pagination(w, r, h.logger)
	if !ok {
		return
	}

	recipes, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, err, "failed to retrieve recipes", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, recipes)
}

// GetByID handles GET /api/recipes/{id} requests.
func (h *RecipeHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", h.logger)
	if !ok {
		return
	}

	recipe, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "failed to retrieve recipe", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, recipe)
}

// Delete handles DELETE /api/recipes/{id} requests.
func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", h.logger)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, "failed to delete recipe", h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetQuantity handles PUT /api/recipes/{id}/products/{productId} requests.
func (h *RecipeHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	recipeID, ok := pathID(w, r, "id", h.logger)
	if !ok {
		return
	}
	productID, ok := pathID(w, r, "productId", h.logger)
	if !ok {
		return
	}

	var input model.QuantityInput
	if !decodeJSON(w, r, &input, h.logger) {
		return
	}

	if err := h.service.SetQuantity(r.Context(), recipeID, productID, input.Quantity); err != nil {
		writeServiceError(w, err, "failed to set product quantity", h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
