package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/RobinJoby/food-surplus-platform/internal/middleware"
	"github.com/RobinJoby/food-surplus-platform/internal/models"
	"github.com/RobinJoby/food-surplus-platform/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// AdminHandler handles moderation HTTP requests
type AdminHandler struct {
	userService         *services.UserService
	verificationService *services.VerificationService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(userService *services.UserService, verificationService *services.VerificationService) *AdminHandler {
	return &AdminHandler{
		userService:         userService,
		verificationService: verificationService,
	}
}

// ListUsers handles GET /admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, perPage, limit, offset := pageParams(r)

	var role *models.Role
	if v := r.URL.Query().Get("role"); v != "" {
		rv := models.Role(v)
		role = &rv
	}

	users, total, err := h.userService.ListUsers(r.Context(), role, limit, offset)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if users == nil {
		users = []*models.User{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"users":    users,
		"total":    total,
		"page":     page,
		"per_page": perPage,
	})
}

// ListVerificationRequests handles GET /admin/verification-requests
func (h *AdminHandler) ListVerificationRequests(w http.ResponseWriter, r *http.Request) {
	page, perPage, limit, offset := pageParams(r)
	status := models.VerificationStatus(r.URL.Query().Get("status"))

	reqs, total, err := h.verificationService.ListByStatus(r.Context(), status, limit, offset)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if reqs == nil {
		reqs = []*models.VerificationRequest{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"verification_requests": reqs,
		"total":                 total,
		"page":                  page,
		"per_page":              perPage,
	})
}

type reviewVerificationRequest struct {
	Status     models.VerificationStatus `json:"status"`
	AdminNotes *string                   `json:"admin_notes,omitempty"`
}

// UpdateVerificationRequest handles PUT /admin/verification-requests/{id}
func (h *AdminHandler) UpdateVerificationRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	adminID := middleware.GetUserID(ctx)
	requestID := chi.URLParam(r, "id")

	var req reviewVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Status != models.VerificationApproved && req.Status != models.VerificationRejected {
		respondError(w, "status must be approved or rejected", http.StatusBadRequest)
		return
	}

	vr, err := h.verificationService.Review(ctx, adminID, requestID, req.Status, req.AdminNotes)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("request_id", vr.ID).
		Str("status", string(vr.Status)).
		Str("admin_id", adminID).
		Msg("Verification request reviewed")

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":              "Verification request updated successfully",
		"verification_request": vr,
	})
}
