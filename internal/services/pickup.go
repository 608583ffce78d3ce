package services

import (
	"context"
	"fmt"
	"time"

	"github.com/RobinJoby/food-surplus-platform/internal/lifecycle"
	"github.com/RobinJoby/food-surplus-platform/internal/models"
	"github.com/RobinJoby/food-surplus-platform/internal/repository"

	"github.com/google/uuid"
)

// PickupService drives the coupled pickup-request / food-item lifecycle.
// Every status mutation passes through the lifecycle transition tables; this
// service is the sole authority for the one-claiming-request-per-item
// invariant.
type PickupService struct {
	pickupRepo   pickupStore
	foodRepo     foodStore
	notification notifier
}

// NewPickupService creates a new pickup service
func NewPickupService(pickupRepo pickupStore, foodRepo foodStore, notification notifier) *PickupService {
	return &PickupService{
		pickupRepo:   pickupRepo,
		foodRepo:     foodRepo,
		notification: notification,
	}
}

// CreatePickupInput carries a beneficiary's claim submission
type CreatePickupInput struct {
	FoodItemID string  `json:"food_item_id"`
	Message    *string `json:"message,omitempty"`
}

// Create opens a pending request against a requestable item. The first
// request moves the item from available to requested; further pending
// requests may pile up while no acceptance has happened.
func (s *PickupService) Create(ctx context.Context, beneficiaryID, beneficiaryName string, in CreatePickupInput) (*models.PickupRequest, error) {
	if in.FoodItemID == "" {
		return nil, validationf("food_item_id is required")
	}
	if err := parseID("food item", in.FoodItemID); err != nil {
		return nil, err
	}

	item, err := s.foodRepo.GetByID(ctx, in.FoodItemID)
	if err != nil {
		return nil, notFoundOr("food item", err)
	}
	if !lifecycle.FoodRequestable(item.Status) {
		return nil, validationf("food item is not available")
	}

	exists, err := s.pickupRepo.ExistsForItemAndBeneficiary(ctx, item.ID, beneficiaryID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing request: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("you have already requested this item: %w", ErrConflict)
	}

	now := time.Now()
	req := &models.PickupRequest{
		ID:              uuid.New().String(),
		FoodItemID:      item.ID,
		BeneficiaryID:   beneficiaryID,
		BeneficiaryName: beneficiaryName,
		Status:          models.RequestPending,
		Message:         in.Message,
		RequestedAt:     now,
	}

	if err := s.pickupRepo.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to create pickup request: %w", err)
	}

	if item.Status == models.FoodAvailable {
		if err := lifecycle.ApplyFoodTransition(item, models.FoodRequested, now); err != nil {
			return nil, err
		}
		if err := s.foodRepo.UpdateStatus(ctx, item.ID, item.Status); err != nil {
			return nil, fmt.Errorf("failed to update food item status: %w", err)
		}
	}
	req.FoodItem = item

	s.notification.Notify(ctx, item.DonorID, models.NotifyPickupRequest,
		"New Pickup Request",
		fmt.Sprintf("%s requested pickup for %s", beneficiaryName, item.Title),
		map[string]any{
			"request_id":  req.ID,
			"beneficiary": beneficiaryName,
		},
	)

	return req, nil
}

// List retrieves the role-scoped request view: donors see requests against
// their items, beneficiaries their own requests, admins everything.
func (s *PickupService) List(ctx context.Context, userID string, role models.Role, limit, offset int) ([]*models.PickupRequest, int, error) {
	var filter repository.ListFilter
	switch role {
	case models.RoleDonor:
		filter.DonorID = &userID
	case models.RoleBeneficiary:
		filter.BeneficiaryID = &userID
	}

	reqs, total, err := s.pickupRepo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	for _, req := range reqs {
		item, err := s.foodRepo.GetByID(ctx, req.FoodItemID)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to load food item for request %s: %w", req.ID, err)
		}
		req.FoodItem = item
	}

	return reqs, total, nil
}

// UpdateStatus drives a request along one lifecycle edge on behalf of a
// user, applying the coupled food item transition and its side effects.
// A same-status update is an idempotent no-op.
func (s *PickupService) UpdateStatus(ctx context.Context, userID string, role models.Role, requestID string, to models.RequestStatus) (*models.PickupRequest, error) {
	if err := parseID("pickup request", requestID); err != nil {
		return nil, err
	}
	req, err := s.pickupRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, notFoundOr("pickup request", err)
	}

	item, err := s.foodRepo.GetByID(ctx, req.FoodItemID)
	if err != nil {
		return nil, notFoundOr("food item", err)
	}

	switch role {
	case models.RoleDonor:
		if item.DonorID != userID {
			return nil, fmt.Errorf("not the listing owner: %w", ErrForbidden)
		}
	case models.RoleBeneficiary:
		if req.BeneficiaryID != userID {
			return nil, fmt.Errorf("not the request owner: %w", ErrForbidden)
		}
	default:
		return nil, fmt.Errorf("role %s cannot drive pickup requests: %w", role, ErrForbidden)
	}

	if !lifecycle.RoleMayDrive(role, to) {
		return nil, fmt.Errorf("role %s may not set status %s: %w", role, to, ErrForbidden)
	}

	if req.Status == to {
		req.FoodItem = item
		return req, nil
	}

	now := time.Now()
	if err := lifecycle.ApplyRequestTransition(req, to, now); err != nil {
		return nil, err
	}

	switch to {
	case models.RequestAccepted:
		if err := s.accept(ctx, req, item, now); err != nil {
			return nil, err
		}
	case models.RequestRejected:
		if err := s.release(ctx, req, item, now); err != nil {
			return nil, err
		}
		s.notification.Notify(ctx, req.BeneficiaryID, models.NotifyRequestRejected,
			"Pickup Request Update",
			fmt.Sprintf("Your pickup request for %s was rejected", item.Title),
			map[string]any{"request_id": req.ID},
		)
	case models.RequestCancelled:
		if err := s.release(ctx, req, item, now); err != nil {
			return nil, err
		}
	case models.RequestPicked, models.RequestCompleted:
		target, _ := lifecycle.FoodStatusFor(to)
		if err := lifecycle.ApplyFoodTransition(item, target, now); err != nil {
			return nil, err
		}
		if err := s.foodRepo.UpdateStatus(ctx, item.ID, item.Status); err != nil {
			return nil, fmt.Errorf("failed to update food item status: %w", err)
		}
		if to == models.RequestCompleted {
			counterpart := item.DonorID
			if userID == item.DonorID {
				counterpart = req.BeneficiaryID
			}
			s.notification.Notify(ctx, counterpart, models.NotifyPickupCompleted,
				"Pickup Completed",
				fmt.Sprintf("Pickup for %s was completed", item.Title),
				map[string]any{"request_id": req.ID},
			)
		}
	}

	if err := s.pickupRepo.Update(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to update pickup request: %w", err)
	}

	req.FoodItem = item
	return req, nil
}

// accept moves the item to accepted and forecloses every sibling pending
// request, keeping at most one claiming request per item.
func (s *PickupService) accept(ctx context.Context, req *models.PickupRequest, item *models.FoodItem, now time.Time) error {
	if err := lifecycle.ApplyFoodTransition(item, models.FoodAccepted, now); err != nil {
		return err
	}
	if err := s.foodRepo.UpdateStatus(ctx, item.ID, item.Status); err != nil {
		return fmt.Errorf("failed to update food item status: %w", err)
	}

	siblings, err := s.pickupRepo.ListPendingForItem(ctx, item.ID, &req.ID)
	if err != nil {
		return fmt.Errorf("failed to list sibling requests: %w", err)
	}
	for _, sib := range lifecycle.ForeclosePending(siblings, now) {
		if err := s.pickupRepo.Update(ctx, sib); err != nil {
			return fmt.Errorf("failed to reject sibling request: %w", err)
		}
		s.notification.Notify(ctx, sib.BeneficiaryID, models.NotifyRequestRejected,
			"Pickup Request Update",
			fmt.Sprintf("Your pickup request for %s was rejected", item.Title),
			map[string]any{"request_id": sib.ID},
		)
	}

	s.notification.Notify(ctx, req.BeneficiaryID, models.NotifyRequestAccepted,
		"Pickup Request Update",
		fmt.Sprintf("Your pickup request for %s was accepted", item.Title),
		map[string]any{"request_id": req.ID},
	)

	return nil
}

// release returns the item into circulation after the withdrawing request
// (rejection or cancellation) stops claiming it.
func (s *PickupService) release(ctx context.Context, req *models.PickupRequest, item *models.FoodItem, now time.Time) error {
	pending, err := s.pickupRepo.ListPendingForItem(ctx, item.ID, &req.ID)
	if err != nil {
		return fmt.Errorf("failed to list pending requests: %w", err)
	}

	before := item.Status
	lifecycle.ReleaseFood(item, len(pending) > 0, now)
	if item.Status == before {
		return nil
	}

	if err := s.foodRepo.UpdateStatus(ctx, item.ID, item.Status); err != nil {
		return fmt.Errorf("failed to update food item status: %w", err)
	}
	return nil
}
