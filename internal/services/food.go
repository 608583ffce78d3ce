package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/RobinJoby/food-surplus-platform/internal/geo"
	"github.com/RobinJoby/food-surplus-platform/internal/lifecycle"
	"github.com/RobinJoby/food-surplus-platform/internal/models"

	"github.com/google/uuid"
)

// FoodService handles food listing business logic: creation, the discovery
// query and donor-driven status changes.
type FoodService struct {
	foodRepo     foodStore
	userRepo     userGetter
	pickupRepo   pickupStore
	notification notifier
}

// NewFoodService creates a new food service
func NewFoodService(
	foodRepo foodStore,
	userRepo userGetter,
	pickupRepo pickupStore,
	notification notifier,
) *FoodService {
	return &FoodService{
		foodRepo:     foodRepo,
		userRepo:     userRepo,
		pickupRepo:   pickupRepo,
		notification: notification,
	}
}

// CreateFoodInput carries a new listing submission
type CreateFoodInput struct {
	Title       string      `json:"title"`
	Description *string     `json:"description,omitempty"`
	Quantity    int         `json:"quantity"`
	Unit        models.Unit `json:"unit,omitempty"`
	ExpiryDate  *time.Time  `json:"expiry_date,omitempty"`
	PickupStart time.Time   `json:"pickup_start"`
	PickupEnd   time.Time   `json:"pickup_end"`
	Location    *string     `json:"location,omitempty"`
	Latitude    *float64    `json:"latitude,omitempty"`
	Longitude   *float64    `json:"longitude,omitempty"`
	ImageURL    *string     `json:"image_url,omitempty"`
}

// Validate checks a listing submission before any database write. now is the
// reference time for the future-dated constraints.
func (in *CreateFoodInput) Validate(now time.Time) error {
	if strings.TrimSpace(in.Title) == "" {
		return validationf("title is required")
	}
	if in.Quantity <= 0 {
		return validationf("quantity must be a positive integer")
	}
	if in.Unit == "" {
		in.Unit = models.UnitServings
	}
	if !models.ValidUnit(in.Unit) {
		return validationf("invalid unit")
	}
	if in.PickupStart.IsZero() || in.PickupEnd.IsZero() {
		return validationf("pickup_start and pickup_end are required")
	}
	if !in.PickupEnd.After(in.PickupStart) {
		return validationf("pickup_end must be after pickup_start")
	}
	if !in.PickupStart.After(now) {
		return validationf("pickup_start must be in the future")
	}
	if in.ExpiryDate != nil && !in.ExpiryDate.After(now) {
		return validationf("expiry_date must be in the future")
	}
	if err := validateOptionalCoordinates(in.Latitude, in.Longitude); err != nil {
		return err
	}
	return nil
}

// Create validates and stores a new listing, then fans out nearby
// notifications. Coordinates default to the donor's profile location.
func (s *FoodService) Create(ctx context.Context, donorID string, in CreateFoodInput) (*models.FoodItem, error) {
	if err := in.Validate(time.Now()); err != nil {
		return nil, err
	}

	donor, err := s.userRepo.GetByID(ctx, donorID)
	if err != nil {
		return nil, notFoundOr("donor", err)
	}

	lat, lon := in.Latitude, in.Longitude
	if lat == nil && lon == nil {
		lat, lon = donor.Latitude, donor.Longitude
	}

	now := time.Now()
	item := &models.FoodItem{
		ID:          uuid.New().String(),
		DonorID:     donor.ID,
		DonorName:   donor.Name,
		Title:       in.Title,
		Description: in.Description,
		Quantity:    in.Quantity,
		Unit:        in.Unit,
		ExpiryDate:  in.ExpiryDate,
		PickupStart: in.PickupStart,
		PickupEnd:   in.PickupEnd,
		Location:    in.Location,
		Latitude:    lat,
		Longitude:   lon,
		ImageURL:    in.ImageURL,
		Status:      models.FoodAvailable,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.foodRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create food item: %w", err)
	}

	s.notification.NotifyNearbyBeneficiaries(ctx, item)

	return item, nil
}

// allowed discovery radii in kilometers
var discoveryRadii = map[float64]bool{5: true, 10: true, 20: true, 50: true}

// ListInput parameterizes the food listing query
type ListInput struct {
	Status      models.FoodStatus
	MaxDistance float64 // km; 0 means the default radius
	Search      string  // case-insensitive substring over title and description
	Limit       int
	Offset      int
}

// List runs the role-aware listing query. Beneficiaries with a location get
// the proximity-filtered discovery view: items inside MaxDistance ranked by
// distance, items without coordinates appended unranked. Donors see their
// own items; admins see everything in the status.
func (s *FoodService) List(ctx context.Context, userID string, role models.Role, in ListInput) ([]*models.FoodItem, int, error) {
	if in.Status == "" {
		in.Status = models.FoodAvailable
	}
	if in.MaxDistance == 0 {
		in.MaxDistance = 10
	}
	if !discoveryRadii[in.MaxDistance] {
		return nil, 0, validationf("max_distance must be one of 5, 10, 20, 50")
	}

	if role == models.RoleBeneficiary {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return nil, 0, notFoundOr("user", err)
		}
		if user.Latitude != nil && user.Longitude != nil {
			return s.discover(ctx, user, in)
		}
		return s.foodRepo.ListPage(ctx, in.Status, nil, in.Search, in.Limit, in.Offset)
	}

	if role == models.RoleDonor {
		return s.foodRepo.ListPage(ctx, in.Status, &userID, in.Search, in.Limit, in.Offset)
	}

	return s.foodRepo.ListPage(ctx, in.Status, nil, in.Search, in.Limit, in.Offset)
}

// discover applies the Haversine filter and ranking for a located
// beneficiary, then paginates in memory.
func (s *FoodService) discover(ctx context.Context, user *models.User, in ListInput) ([]*models.FoodItem, int, error) {
	all, err := s.foodRepo.ListAllByStatus(ctx, in.Status, in.Search)
	if err != nil {
		return nil, 0, err
	}

	var ranked, unranked []*models.FoodItem
	for _, item := range all {
		if item.Latitude == nil || item.Longitude == nil {
			unranked = append(unranked, item)
			continue
		}
		d := geo.Distance(*user.Latitude, *user.Longitude, *item.Latitude, *item.Longitude)
		if d > in.MaxDistance {
			continue
		}
		rounded := geo.Round2(d)
		item.Distance = &rounded
		ranked = append(ranked, item)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return *ranked[i].Distance < *ranked[j].Distance
	})

	results := append(ranked, unranked...)
	total := len(results)

	start := in.Offset
	if start > total {
		start = total
	}
	end := start + in.Limit
	if end > total {
		end = total
	}

	return results[start:end], total, nil
}

// UpdateFoodInput carries a donor's listing update. Nil fields are left
// untouched; a status change is validated against the transition table.
type UpdateFoodInput struct {
	Title       *string            `json:"title,omitempty"`
	Description *string            `json:"description,omitempty"`
	Quantity    *int               `json:"quantity,omitempty"`
	Status      *models.FoodStatus `json:"status,omitempty"`
}

// Update applies a donor's update to their own listing
func (s *FoodService) Update(ctx context.Context, donorID, itemID string, in UpdateFoodInput) (*models.FoodItem, error) {
	if err := parseID("food item", itemID); err != nil {
		return nil, err
	}
	item, err := s.foodRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, notFoundOr("food item", err)
	}
	if item.DonorID != donorID {
		return nil, fmt.Errorf("not the listing owner: %w", ErrForbidden)
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, validationf("title cannot be empty")
		}
		item.Title = *in.Title
	}
	if in.Description != nil {
		item.Description = in.Description
	}
	if in.Quantity != nil {
		if *in.Quantity <= 0 {
			return nil, validationf("quantity must be a positive integer")
		}
		item.Quantity = *in.Quantity
	}
	now := time.Now()
	var pending []*models.PickupRequest
	if in.Status != nil {
		if err := lifecycle.ApplyFoodTransition(item, *in.Status, now); err != nil {
			return nil, err
		}
		if item.Status == models.FoodCancelled {
			// Withdrawal through PUT carries the same cascade as DELETE.
			pending, err = s.pickupRepo.ListPendingForItem(ctx, item.ID, nil)
			if err != nil {
				return nil, fmt.Errorf("failed to list pending requests: %w", err)
			}
		}
	} else {
		item.UpdatedAt = now
	}

	if err := s.foodRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update food item: %w", err)
	}

	if item.Status == models.FoodCancelled {
		if err := s.rejectPending(ctx, item, pending, now); err != nil {
			return nil, err
		}
	}

	return item, nil
}

// Cancel withdraws a listing. The item is never deleted; cancellation is a
// terminal status, legal only from available or requested.
func (s *FoodService) Cancel(ctx context.Context, donorID, itemID string) (*models.FoodItem, error) {
	if err := parseID("food item", itemID); err != nil {
		return nil, err
	}
	item, err := s.foodRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, notFoundOr("food item", err)
	}
	if item.DonorID != donorID {
		return nil, fmt.Errorf("not the listing owner: %w", ErrForbidden)
	}

	now := time.Now()
	if err := lifecycle.ApplyFoodTransition(item, models.FoodCancelled, now); err != nil {
		return nil, err
	}

	// Read the pending requests before the status write so a listing
	// failure leaves the item untouched.
	pending, err := s.pickupRepo.ListPendingForItem(ctx, item.ID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", err)
	}

	if err := s.foodRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to cancel food item: %w", err)
	}

	if err := s.rejectPending(ctx, item, pending, now); err != nil {
		return nil, err
	}

	return item, nil
}

// rejectPending forecloses the pending requests against a withdrawn item
// and tells their beneficiaries. No pending request may target a cancelled
// item.
func (s *FoodService) rejectPending(ctx context.Context, item *models.FoodItem, pending []*models.PickupRequest, now time.Time) error {
	for _, req := range lifecycle.ForeclosePending(pending, now) {
		if err := s.pickupRepo.Update(ctx, req); err != nil {
			return fmt.Errorf("failed to reject pending request: %w", err)
		}
		s.notification.Notify(ctx, req.BeneficiaryID, models.NotifyRequestRejected,
			"Pickup Request Update",
			fmt.Sprintf("Your pickup request for %s was rejected: the listing was withdrawn", item.Title),
			map[string]any{"request_id": req.ID},
		)
	}
	return nil
}

// GetByID retrieves a single listing
func (s *FoodService) GetByID(ctx context.Context, itemID string) (*models.FoodItem, error) {
	if err := parseID("food item", itemID); err != nil {
		return nil, err
	}
	item, err := s.foodRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, notFoundOr("food item", err)
	}
	return item, nil
}
