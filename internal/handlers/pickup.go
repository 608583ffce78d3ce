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

// PickupHandler handles pickup request HTTP requests
type PickupHandler struct {
	pickupService *services.PickupService
	userService   *services.UserService
}

// NewPickupHandler creates a new pickup handler
func NewPickupHandler(pickupService *services.PickupService, userService *services.UserService) *PickupHandler {
	return &PickupHandler{
		pickupService: pickupService,
		userService:   userService,
	}
}

// Create handles POST /pickup
func (h *PickupHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	beneficiaryID := middleware.GetUserID(ctx)

	var in services.CreatePickupInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	beneficiary, err := h.userService.GetProfile(ctx, beneficiaryID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	req, err := h.pickupService.Create(ctx, beneficiary.ID, beneficiary.Name, in)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("request_id", req.ID).
		Str("food_item_id", req.FoodItemID).
		Str("beneficiary_id", beneficiaryID).
		Msg("Pickup request created")

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":        "Pickup request created successfully",
		"pickup_request": req,
	})
}

// List handles GET /pickup
func (h *PickupHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	role := middleware.GetRole(ctx)

	page, perPage, limit, offset := pageParams(r)

	reqs, total, err := h.pickupService.List(ctx, userID, role, limit, offset)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if reqs == nil {
		reqs = []*models.PickupRequest{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"pickup_requests": reqs,
		"total":           total,
		"page":            page,
		"per_page":        perPage,
	})
}

type updatePickupRequest struct {
	Status models.RequestStatus `json:"status"`
}

// Update handles PUT /pickup/{id}
func (h *PickupHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	role := middleware.GetRole(ctx)
	requestID := chi.URLParam(r, "id")

	var req updatePickupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Status == "" {
		respondError(w, "status is required", http.StatusBadRequest)
		return
	}

	updated, err := h.pickupService.UpdateStatus(ctx, userID, role, requestID, req.Status)
	if err != nil {
		log.Error().
			Err(err).
			Str("request_id", requestID).
			Str("user_id", userID).
			Str("status", string(req.Status)).
			Msg("Failed to update pickup request")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("request_id", requestID).
		Str("status", string(updated.Status)).
		Msg("Pickup request updated")

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":        "Pickup request updated successfully",
		"pickup_request": updated,
	})
}
