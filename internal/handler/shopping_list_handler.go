package handler

import (
	"net/http"

	"meal-planner/internal/model"
	"meal-planner/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ShoppingListHandler handles shopping list HTTP requests.
type ShoppingListHandler struct {
	service service.ShoppingListService
	logger  zerolog.Logger
}

// NewShoppingListHandler creates a new shopping list handler.
func NewShoppingListHandler(service service.ShoppingListService, logger zerolog.Logger) *ShoppingListHandler {
	return &ShoppingListHandler{
		service: service,
		logger:  logger.With().Str("handler", "shopping_list").Logger(),
	}
}

// Generate handles POST /api/plans/{id}/shopping-lists requests.
func (h *ShoppingListHandler) Generate(w http.ResponseWriter, r *http.Request) {
	planID, ok := pathID(w, r, "id", h.logger)
	if !ok {
		return
	}

	list, err := h.service.Generate(r.Context(), planID)
	if err != nil {
		writeServiceError(w, err, "failed to generate shopping list", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, list)
}

// GetByID handles GET /api/shopping-lists/{id} requests.
func (h *ShoppingListHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := listID(w, r, h.logger)
	if !ok {
		return
	}

	list, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "failed to retrieve shopping list", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

// Export handles POST /api/shopping-lists/{id}/export requests.
func (h *ShoppingListHandler) Export(w http.ResponseWriter, r *http.Request) {
	id, ok := listID(w, r, h.logger)
	if !ok {
		return
	}

	location, err := h.service.Export(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "failed to export shopping list", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.ExportResponse{Location: location})
}

func listID(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidInput, "invalid shopping list ID", logger)
		return uuid.Nil, false
	}
	return id, true
}
