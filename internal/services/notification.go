package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/RobinJoby/food-surplus-platform/internal/geo"
	"github.com/RobinJoby/food-surplus-platform/internal/models"
	"github.com/RobinJoby/food-surplus-platform/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// nearbyRadiusKm bounds the new-listing fan-out to beneficiaries.
const nearbyRadiusKm = 10

// NotificationService stores notifications and delivers them over the live
// channels (WebSocket, APNs) when possible.
type NotificationService struct {
	notificationRepo *repository.NotificationRepository
	userRepo         *repository.UserRepository
	hub              *WSHub
	push             *PushService
}

// NewNotificationService creates a new notification service
func NewNotificationService(
	notificationRepo *repository.NotificationRepository,
	userRepo *repository.UserRepository,
	hub *WSHub,
	push *PushService,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		hub:              hub,
		push:             push,
	}
}

// Notify stores a notification for a user and pushes it to any live channel.
// Delivery failures never fail the triggering mutation.
func (s *NotificationService) Notify(ctx context.Context, userID string, typ models.NotificationType, title, message string, payload any) {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("Failed to marshal notification payload")
		} else {
			raw = data
		}
	}

	n := &models.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Message:   message,
		Payload:   raw,
		CreatedAt: time.Now(),
	}

	if err := s.notificationRepo.Create(ctx, n); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to store notification")
		return
	}

	s.hub.PushNotification(n)

	if s.push.Enabled() {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err == nil && user.DeviceToken != nil {
			s.push.Send(*user.DeviceToken, title, message)
		}
	}
}

// NotifyNearbyBeneficiaries fans a new-listing notification out to every
// beneficiary with coordinates within nearbyRadiusKm of the item.
func (s *NotificationService) NotifyNearbyBeneficiaries(ctx context.Context, item *models.FoodItem) {
	if item.Latitude == nil || item.Longitude == nil {
		return
	}

	beneficiaries, err := s.userRepo.ListBeneficiariesWithCoordinates(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list beneficiaries for fan-out")
		return
	}

	for _, b := range beneficiaries {
		distance := geo.Distance(*item.Latitude, *item.Longitude, *b.Latitude, *b.Longitude)
		if distance > nearbyRadiusKm {
			continue
		}
		s.Notify(ctx, b.ID, models.NotifyNewListing,
			"New Food Available Nearby",
			fmt.Sprintf("%s available for pickup %s away", item.Title, geo.FormatDistance(distance)),
			map[string]any{
				"food_item_id": item.ID,
				"distance":     geo.Round2(distance),
			},
		)
	}
}

// List retrieves a user's notifications, newest first
func (s *NotificationService) List(ctx context.Context, userID string, limit, offset int) ([]*models.Notification, int, error) {
	return s.notificationRepo.ListForUser(ctx, userID, limit, offset)
}

// MarkRead marks one of the user's notifications as read
func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	if err := parseID("notification", id); err != nil {
		return err
	}
	if err := s.notificationRepo.MarkRead(ctx, id, userID); err != nil {
		return notFoundOr("notification", err)
	}
	return nil
}
