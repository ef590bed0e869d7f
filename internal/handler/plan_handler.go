package handler

import (
	"net/http"
	"strconv"

	"meal-planner/internal/model"
	"meal-planner/internal/service"

	"github.com/rs/zerolog"
)

// PlanHandler handles persons, plans and meal scheduling.
type PlanHandler struct {
	service service.PlanService
	logger  zerolog.Logger
}

// NewPlanHandler creates a new plan handler.
func NewPlanHandler(service service.PlanService, logger zerolog.Logger) *PlanHandler {
	return &PlanHandler{
		service: service,
		logger:  logger.With().Str("handler", "plan").Logger(),
	}
}

// CreatePerson handles POST /api/persons requests.
func (h *PlanHandler) CreatePerson(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r, h.logger)
	if !ok {
		return
	}

	var input model.PersonInput
	if !decodeJSON(w, r, &input, h.logger) {
		return
	}
	input.UserID = user

	person, err := h.service.CreatePerson(r.Context(), &input)
	if err != nil {
		writeServiceError(w, err, "failed to create person", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, person)
}

// GetPersons handles GET /api/persons requests.
func (h *PlanHandler) GetPersons(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r, h.logger)
	if !ok {
		return
	}

	persons, err := h.service.GetPersons(r.Context(), user)
	if err != nil {
		writeServiceError(w, err, "failed to retrieve persons", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, persons)
}

// UpdatePerson handles PUT /api/persons/{id} requests.
func (h *PlanHandler) UpdatePerson(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", h.logger)
	if !ok {
		return
	}
	user, ok := userID(w, r, h.logger)
	if !ok {
		return
	}

	var input model.PersonInput
	if !decodeJSON(w, r, &input, h.logger) {
		return
	}
	input.UserID = user

	person, err := h.service.UpdatePerson(r.Context(), id, &input)
	if err != nil {
		writeServiceError(w, err, "failed to update person", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, person)
}

// DeletePerson handles DELETE /api/persons/{id} requests.
func (h *PlanHandler) DeletePerson(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", h.logger)
	if !ok {
		return
	}
	user, ok := userID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.service.DeletePerson(r.Context(), id, user); err != nil {
		writeServiceError(w, err, "failed to delete person", h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Create handles POST /api/plans requests.
func (h *PlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r, h.logger)
	if !ok {
		return
	}

	var input model.PlanInput
	if !decodeJSON(w, r, &input, h.logger) {
		return
	}
	input.UserID = user

	plan, err := h.service.Create(r.Context(), &input)
	if err != nil {
		writeServiceError(w, err, "failed to create plan", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, plan)
}

// Update handles PUT /api/plans/{id} requests.
func (h *PlanHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", h.logger)
	if !ok {
		return
	}
	user, ok := userID(w, r, h.logger)
	if !ok {
		return
	}

	var input model.PlanInput
	if !decodeJSON(w, r, &input, h.logger) {
		return
	}
	input.UserID = user

	plan, err := h.service.Update(r.Context(), id, &input)
	if err != nil {
		writeServiceError(w, err, "failed to update plan", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, plan)
}

// GetAll handles GET /api/plans requests for the calling user.
func (h *PlanHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r, h.logger)
	if !ok {
		return
	}

	plans, err := h.service.GetAll(r.Context(), user)
	if err != nil {
		writeServiceError(w, err, "failed to retrieve plans", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, plans)
}

// GetByID handles GET /api/plans/{id} requests.
func (h *PlanHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", h.logger)
	if !ok {
		return
	}

	summary, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "failed to retrieve plan", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// Delete handles DELETE /api/plans/{id} requests.
func (h *PlanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", h.logger)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, "failed to delete plan", h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DayCalories handles GET /api/plans/{id}/days/{day}/calories requests.
func (h *PlanHandler) DayCalories(w http.ResponseWriter, r *http.Request) {
	planID, ok := pathID(w, r, "id", h.logger)
	if !ok {
		return
	}
	day, ok := dayParam(w, r, h.logger)
	if !ok {
		return
	}

	report, err := h.service.DayReport(r.Context(), planID, day)
	if err != nil {
		writeServiceError(w, err, "failed to compute day calories", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// SaveMeal handles PUT /api/plans/{id}/meals requests.
func (h *PlanHandler) SaveMeal(w http.ResponseWriter, r *http.Request) {
	planID, ok := pathID(w, r, "id", h.logger)
	if !ok {
		return
	}
	user, ok := userID(w, r, h.logger)
	if !ok {
		return
	}

	var req model.MealRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}
	req.PlanID = planID
	req.UserID = user

	meal, err := h.service.SaveMeal(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, "failed to save meal", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, meal)
}

// CompleteDayMeal handles POST /api/plans/{id}/days/{day}/slots/{slot}/complete requests.
func (h *PlanHandler) CompleteDayMeal(w http.ResponseWriter, r *http.Request) {
	planID, ok := pathID(w, r, "id", h.logger)
	if !ok {
		return
	}
	day, ok := dayParam(w, r, h.logger)
	if !ok {
		return
	}
	slot, err := model.ParseMealSlot(r.PathValue("slot"))
	if err != nil {
		writeServiceError(w, err, "invalid slot parameter", h.logger)
		return
	}

	result, err := h.service.CompleteDayMeal(r.Context(), planID, day, slot)
	if err != nil {
		writeServiceError(w, err, "failed to complete day meal", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// DeleteMeal handles DELETE /api/meals/{id} requests.
func (h *PlanHandler) DeleteMeal(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", h.logger)
	if !ok {
		return
	}

	if err := h.service.DeleteMeal(r.Context(), id); err != nil {
		writeServiceError(w, err, "failed to delete meal", h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// dayParam parses the 1-based plan day. Range against the plan length is
// checked by the service.
func dayParam(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (int, bool) {
	day, err := strconv.Atoi(r.PathValue("day"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidInput, "invalid day parameter", logger)
		return 0, false
	}
	return day, true
}
