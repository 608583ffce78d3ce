package services

import (
	"context"

	"github.com/RobinJoby/food-surplus-platform/internal/models"
	"github.com/RobinJoby/food-surplus-platform/internal/repository"
)

// Narrow persistence interfaces for the lifecycle-driving services. The
// repository types satisfy them; tests substitute in-memory fakes.

type foodStore interface {
	Create(ctx context.Context, item *models.FoodItem) error
	GetByID(ctx context.Context, id string) (*models.FoodItem, error)
	Update(ctx context.Context, item *models.FoodItem) error
	UpdateStatus(ctx context.Context, id string, status models.FoodStatus) error
	ListPage(ctx context.Context, status models.FoodStatus, donorID *string, search string, limit, offset int) ([]*models.FoodItem, int, error)
	ListAllByStatus(ctx context.Context, status models.FoodStatus, search string) ([]*models.FoodItem, error)
}

type pickupStore interface {
	Create(ctx context.Context, req *models.PickupRequest) error
	GetByID(ctx context.Context, id string) (*models.PickupRequest, error)
	Update(ctx context.Context, req *models.PickupRequest) error
	ExistsForItemAndBeneficiary(ctx context.Context, foodItemID, beneficiaryID string) (bool, error)
	ListPendingForItem(ctx context.Context, foodItemID string, excludeID *string) ([]*models.PickupRequest, error)
	List(ctx context.Context, filter repository.ListFilter, limit, offset int) ([]*models.PickupRequest, int, error)
}

type userGetter interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

type notifier interface {
	Notify(ctx context.Context, userID string, typ models.NotificationType, title, message string, payload any)
	NotifyNearbyBeneficiaries(ctx context.Context, item *models.FoodItem)
}
