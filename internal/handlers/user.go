package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/RobinJoby/food-surplus-platform/internal/middleware"
	"github.com/RobinJoby/food-surplus-platform/internal/models"
	"github.com/RobinJoby/food-surplus-platform/internal/services"

	"github.com/rs/zerolog/log"
)

// UserHandler handles profile and verification submission requests
type UserHandler struct {
	userService         *services.UserService
	verificationService *services.VerificationService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService, verificationService *services.VerificationService) *UserHandler {
	return &UserHandler{
		userService:         userService,
		verificationService: verificationService,
	}
}

// GetProfile handles GET /users/me
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	user, err := h.userService.GetProfile(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]*models.User{"user": user})
}

// UpdateProfile handles PUT /users/me
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var in services.UpdateProfileInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), userID, in)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

// SubmitVerification handles POST /users/me/verification
func (h *UserHandler) SubmitVerification(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var in services.SubmitVerificationInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	vr, err := h.verificationService.Submit(r.Context(), userID, in)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("request_id", vr.ID).
		Msg("Verification request submitted")

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":              "Verification request submitted successfully",
		"verification_request": vr,
	})
}
