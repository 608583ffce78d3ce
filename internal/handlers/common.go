package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/RobinJoby/food-surplus-platform/internal/lifecycle"
	"github.com/RobinJoby/food-surplus-platform/internal/services"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondJSON writes a JSON body with the given status
func respondJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, statusCode, ErrorResponse{Error: message})
}

// respondServiceError maps a service error to an HTTP status. Validation
// problems are 400, missing entities 404, authorization 403, conflicts and
// illegal lifecycle transitions 409; anything else is a 500 with a generic
// message so internals do not leak.
func respondServiceError(w http.ResponseWriter, err error) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		respondError(w, verr.Msg, http.StatusBadRequest)
		return
	}
	var terr *lifecycle.TransitionError
	if errors.As(err, &terr) {
		respondError(w, terr.Error(), http.StatusConflict)
		return
	}
	switch {
	case errors.Is(err, services.ErrNotFound):
		respondError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, services.ErrForbidden):
		respondError(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, services.ErrConflict):
		respondError(w, err.Error(), http.StatusConflict)
	default:
		respondError(w, "Internal server error", http.StatusInternalServerError)
	}
}

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// pageParams reads page/per_page query parameters and returns them with the
// equivalent limit/offset. per_page is capped at 100.
func pageParams(r *http.Request) (page, perPage, limit, offset int) {
	page = 1
	perPage = defaultPerPage

	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := r.URL.Query().Get("per_page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			perPage = n
		}
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	return page, perPage, perPage, (page - 1) * perPage
}
