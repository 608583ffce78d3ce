package services

import (
	"context"
	"errors"
	"testing"

	"github.com/RobinJoby/food-surplus-platform/internal/models"
)

func TestMalformedIDIsNotFound(t *testing.T) {
	ctx := context.Background()

	// The id never reaches a repository (all nil here): a malformed path
	// parameter answers 404, not a server error from the uuid codec.
	if _, err := (&FoodService{}).GetByID(ctx, "abc"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FoodService.GetByID: expected not found, got %v", err)
	}
	if _, err := (&FoodService{}).Cancel(ctx, testDonorID, "abc"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FoodService.Cancel: expected not found, got %v", err)
	}
	if _, err := (&PickupService{}).UpdateStatus(ctx, testDonorID, models.RoleDonor, "abc", models.RequestAccepted); !errors.Is(err, ErrNotFound) {
		t.Errorf("PickupService.UpdateStatus: expected not found, got %v", err)
	}
	if err := (&NotificationService{}).MarkRead(ctx, "abc", testBenA); !errors.Is(err, ErrNotFound) {
		t.Errorf("NotificationService.MarkRead: expected not found, got %v", err)
	}
}
