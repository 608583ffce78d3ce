package handlers

import (
	"net/http"

	"github.com/RobinJoby/food-surplus-platform/internal/middleware"
	"github.com/RobinJoby/food-surplus-platform/internal/models"
	"github.com/RobinJoby/food-surplus-platform/internal/services"

	"github.com/go-chi/chi/v5"
)

// NotificationHandler handles notification HTTP requests
type NotificationHandler struct {
	notificationService *services.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List handles GET /notifications
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	page, perPage, limit, offset := pageParams(r)

	notifications, total, err := h.notificationService.List(ctx, userID, limit, offset)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if notifications == nil {
		notifications = []*models.Notification{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": notifications,
		"total":         total,
		"page":          page,
		"per_page":      perPage,
	})
}

// MarkRead handles PUT /notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	notificationID := chi.URLParam(r, "id")

	if err := h.notificationService.MarkRead(ctx, notificationID, userID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Notification marked as read"})
}
