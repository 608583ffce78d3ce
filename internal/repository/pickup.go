package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/RobinJoby/food-surplus-platform/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pickupColumns = `p.id, p.food_item_id, p.beneficiary_id, b.name, p.status, p.message,
	p.requested_at, p.responded_at, p.picked_at, p.completed_at`

// PickupRepository handles database operations for pickup requests
type PickupRepository struct {
	db *pgxpool.Pool
}

// NewPickupRepository creates a new pickup request repository
func NewPickupRepository(db *pgxpool.Pool) *PickupRepository {
	return &PickupRepository{db: db}
}

func scanPickupRequest(row pgx.Row) (*models.PickupRequest, error) {
	var p models.PickupRequest
	err := row.Scan(
		&p.ID, &p.FoodItemID, &p.BeneficiaryID, &p.BeneficiaryName, &p.Status, &p.Message,
		&p.RequestedAt, &p.RespondedAt, &p.PickedAt, &p.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create creates a new pickup request
func (r *PickupRepository) Create(ctx context.Context, req *models.PickupRequest) error {
	query := `
		INSERT INTO pickup_requests (id, food_item_id, beneficiary_id, status, message, requested_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query,
		req.ID, req.FoodItemID, req.BeneficiaryID, req.Status, req.Message, req.RequestedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create pickup request: %w", err)
	}
	return nil
}

// GetByID retrieves a pickup request by ID
func (r *PickupRepository) GetByID(ctx context.Context, id string) (*models.PickupRequest, error) {
	query := `
		SELECT ` + pickupColumns + `
		FROM pickup_requests p
		JOIN users b ON b.id = p.beneficiary_id
		WHERE p.id = $1
	`
	req, err := scanPickupRequest(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("pickup request not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get pickup request: %w", err)
	}
	return req, nil
}

// Update persists the status and lifecycle timestamps of a pickup request
func (r *PickupRepository) Update(ctx context.Context, req *models.PickupRequest) error {
	query := `
		UPDATE pickup_requests
		SET status = $1, responded_at = $2, picked_at = $3, completed_at = $4
		WHERE id = $5
	`
	result, err := r.db.Exec(ctx, query,
		req.Status, req.RespondedAt, req.PickedAt, req.CompletedAt, req.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update pickup request: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("pickup request not found")
	}
	return nil
}

// ExistsForItemAndBeneficiary checks whether a beneficiary already has a
// request against an item, regardless of status.
func (r *PickupRepository) ExistsForItemAndBeneficiary(ctx context.Context, foodItemID, beneficiaryID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM pickup_requests WHERE food_item_id = $1 AND beneficiary_id = $2)`
	var exists bool
	err := r.db.QueryRow(ctx, query, foodItemID, beneficiaryID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check existing request: %w", err)
	}
	return exists, nil
}

// ListPendingForItem retrieves the pending requests against an item. A
// non-nil excludeID leaves that request out of the result.
func (r *PickupRepository) ListPendingForItem(ctx context.Context, foodItemID string, excludeID *string) ([]*models.PickupRequest, error) {
	query := `
		SELECT ` + pickupColumns + `
		FROM pickup_requests p
		JOIN users b ON b.id = p.beneficiary_id
		WHERE p.food_item_id = $1 AND p.status = 'pending'
		  AND ($2::uuid IS NULL OR p.id <> $2::uuid)
		ORDER BY p.requested_at
	`
	rows, err := r.db.Query(ctx, query, foodItemID, excludeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", err)
	}
	defer rows.Close()

	return collectPickupRequests(rows)
}

// ListFilter narrows the request listing per caller role.
type ListFilter struct {
	DonorID       *string // requests against this donor's items
	BeneficiaryID *string // requests opened by this beneficiary
}

// List retrieves pickup requests for a role-scoped view, newest first
func (r *PickupRepository) List(ctx context.Context, filter ListFilter, limit, offset int) ([]*models.PickupRequest, int, error) {
	countQuery := `
		SELECT COUNT(*)
		FROM pickup_requests p
		JOIN food_items f ON f.id = p.food_item_id
		WHERE ($1::uuid IS NULL OR f.donor_id = $1::uuid)
		  AND ($2::uuid IS NULL OR p.beneficiary_id = $2::uuid)
	`
	var total int
	if err := r.db.QueryRow(ctx, countQuery, filter.DonorID, filter.BeneficiaryID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count pickup requests: %w", err)
	}

	query := `
		SELECT ` + pickupColumns + `
		FROM pickup_requests p
		JOIN users b ON b.id = p.beneficiary_id
		JOIN food_items f ON f.id = p.food_item_id
		WHERE ($1::uuid IS NULL OR f.donor_id = $1::uuid)
		  AND ($2::uuid IS NULL OR p.beneficiary_id = $2::uuid)
		ORDER BY p.requested_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.Query(ctx, query, filter.DonorID, filter.BeneficiaryID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list pickup requests: %w", err)
	}
	defer rows.Close()

	reqs, err := collectPickupRequests(rows)
	if err != nil {
		return nil, 0, err
	}
	return reqs, total, nil
}

func collectPickupRequests(rows pgx.Rows) ([]*models.PickupRequest, error) {
	var reqs []*models.PickupRequest
	for rows.Next() {
		req, err := scanPickupRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pickup request: %w", err)
		}
		reqs = append(reqs, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pickup requests: %w", err)
	}
	return reqs, nil
}
