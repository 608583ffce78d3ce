package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/RobinJoby/food-surplus-platform/internal/models"
	"github.com/RobinJoby/food-surplus-platform/internal/services"

	"github.com/rs/zerolog/log"
)

// AuthHandler handles registration and login
type AuthHandler struct {
	userService *services.UserService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(userService *services.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

type authResponse struct {
	Message     string       `json:"message"`
	AccessToken string       `json:"access_token"`
	User        *models.User `json:"user"`
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, token, err := h.userService.Register(r.Context(), in)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", user.ID).
		Str("role", string(user.Role)).
		Msg("User registered")

	respondJSON(w, http.StatusCreated, authResponse{
		Message:     "User registered successfully",
		AccessToken: token,
		User:        user,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, token, err := h.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			respondError(w, verr.Msg, http.StatusBadRequest)
			return
		}
		respondError(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	respondJSON(w, http.StatusOK, authResponse{
		Message:     "Login successful",
		AccessToken: token,
		User:        user,
	})
}
