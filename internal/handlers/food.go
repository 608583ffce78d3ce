package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/RobinJoby/food-surplus-platform/internal/middleware"
	"github.com/RobinJoby/food-surplus-platform/internal/models"
	"github.com/RobinJoby/food-surplus-platform/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// FoodHandler handles food listing HTTP requests
type FoodHandler struct {
	foodService  *services.FoodService
	imageService *services.ImageService
}

// NewFoodHandler creates a new food handler
func NewFoodHandler(foodService *services.FoodService, imageService *services.ImageService) *FoodHandler {
	return &FoodHandler{
		foodService:  foodService,
		imageService: imageService,
	}
}

// Create handles POST /food
func (h *FoodHandler) Create(w http.ResponseWriter, r *http.Request) {
	donorID := middleware.GetUserID(r.Context())

	var in services.CreateFoodInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	item, err := h.foodService.Create(r.Context(), donorID, in)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("food_item_id", item.ID).
		Str("donor_id", donorID).
		Msg("Food item created")

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":   "Food item created successfully",
		"food_item": item,
	})
}

// List handles GET /food
func (h *FoodHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	role := middleware.GetRole(ctx)

	q := r.URL.Query()
	in := services.ListInput{
		Status: models.FoodStatus(q.Get("status")),
		Search: q.Get("q"),
	}
	if v := q.Get("max_distance"); v != "" {
		d, err := strconv.ParseFloat(v, 64)
		if err != nil {
			respondError(w, "max_distance must be a number", http.StatusBadRequest)
			return
		}
		in.MaxDistance = d
	}

	page, perPage, limit, offset := pageParams(r)
	in.Limit = limit
	in.Offset = offset

	items, total, err := h.foodService.List(ctx, userID, role, in)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if items == nil {
		items = []*models.FoodItem{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"food_items": items,
		"total":      total,
		"page":       page,
		"per_page":   perPage,
	})
}

// Get handles GET /food/{id}
func (h *FoodHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.foodService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"food_item": item,
	})
}

// Update handles PUT /food/{id}
func (h *FoodHandler) Update(w http.ResponseWriter, r *http.Request) {
	donorID := middleware.GetUserID(r.Context())
	itemID := chi.URLParam(r, "id")

	var in services.UpdateFoodInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	item, err := h.foodService.Update(r.Context(), donorID, itemID, in)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "Food item updated successfully",
		"food_item": item,
	})
}

// Delete handles DELETE /food/{id}. The listing is withdrawn, not removed:
// it moves to the terminal cancelled status.
func (h *FoodHandler) Delete(w http.ResponseWriter, r *http.Request) {
	donorID := middleware.GetUserID(r.Context())
	itemID := chi.URLParam(r, "id")

	item, err := h.foodService.Cancel(r.Context(), donorID, itemID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("food_item_id", item.ID).
		Str("donor_id", donorID).
		Msg("Food item cancelled")

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "Food item cancelled successfully",
		"food_item": item,
	})
}

type imageUploadRequest struct {
	ContentType string `json:"content_type"`
}

// PresignImageUpload handles POST /food/image-upload
func (h *FoodHandler) PresignImageUpload(w http.ResponseWriter, r *http.Request) {
	donorID := middleware.GetUserID(r.Context())

	var req imageUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.imageService.PresignUpload(r.Context(), donorID, req.ContentType)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}
