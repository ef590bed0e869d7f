package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"meal-planner/internal/middleware"
	"meal-planner/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code, code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeServiceError maps a service error onto a status code. Domain errors
// expose their message; anything else is reported with fallback.
func writeServiceError(w http.ResponseWriter, err error, fallback string, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if !errors.As(err, &domainErr) {
		logger.Error().Err(err).Int("status", http.StatusInternalServerError).Msg(fallback)
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{Error: model.ErrCodeInternalError, Message: fallback})
		return
	}

	status := http.StatusInternalServerError
	switch domainErr.Code {
	case model.ErrCodeInvalidInput:
		status = http.StatusBadRequest
	case model.ErrCodeNotFound:
		status = http.StatusNotFound
	case model.ErrCodeBudgetExceeded:
		status = http.StatusConflict
	}
	writeError(w, status, domainErr.Code, domainErr.Message, logger)
}

// decodeJSON reads the request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, logger zerolog.Logger) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidInput, "invalid request body", logger)
		return false
	}
	return true
}

// pathID parses a positive integer path value.
func pathID(w http.ResponseWriter, r *http.Request, name string, logger zerolog.Logger) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidInput, "invalid "+name+" parameter", logger)
		return 0, false
	}
	return id, true
}

// userID returns the caller identity set by middleware.UserIdentity.
func userID(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (int64, bool) {
	id, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "user identity is required", logger)
		return 0, false
	}
	return id, true
}

// pagination parses the optional limit and offset query parameters.
// Bounds are applied by the services.
func pagination(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (limit, offset int, ok bool) {
	limit = 10
	if v := r.URL.Query().Get("limit"); v != "" {
		var err error
		if limit, err = strconv.Atoi(v); err != nil {
			writeError(w, http.StatusBadRequest, model.ErrCodeInvalidInput, "invalid limit parameter", logger)
			return 0, 0, false
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		var err error
		if offset, err = strconv.Atoi(v); err != nil {
			writeError(w, http.StatusBadRequest, model.ErrCodeInvalidInput, "invalid offset parameter", logger)
			return 0, 0, false
		}
	}
	return limit, offset, true
}
