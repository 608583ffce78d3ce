package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/RobinJoby/food-surplus-platform/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const verificationColumns = `v.id, v.user_id, u.name, v.organization_name, v.organization_type,
	v.document_url, v.description, v.status, v.admin_notes, v.submitted_at, v.reviewed_at, v.reviewed_by`

// VerificationRepository handles database operations for verification requests
type VerificationRepository struct {
	db *pgxpool.Pool
}

// NewVerificationRepository creates a new verification request repository
func NewVerificationRepository(db *pgxpool.Pool) *VerificationRepository {
	return &VerificationRepository{db: db}
}

func scanVerificationRequest(row pgx.Row) (*models.VerificationRequest, error) {
	var v models.VerificationRequest
	err := row.Scan(
		&v.ID, &v.UserID, &v.UserName, &v.OrganizationName, &v.OrganizationType,
		&v.DocumentURL, &v.Description, &v.Status, &v.AdminNotes,
		&v.SubmittedAt, &v.ReviewedAt, &v.ReviewedBy,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Create creates a new verification request
func (r *VerificationRepository) Create(ctx context.Context, vr *models.VerificationRequest) error {
	query := `
		INSERT INTO verification_requests (id, user_id, organization_name, organization_type,
			document_url, description, status, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		vr.ID, vr.UserID, vr.OrganizationName, vr.OrganizationType,
		vr.DocumentURL, vr.Description, vr.Status, vr.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create verification request: %w", err)
	}
	return nil
}

// GetByID retrieves a verification request by ID
func (r *VerificationRepository) GetByID(ctx context.Context, id string) (*models.VerificationRequest, error) {
	query := `
		SELECT ` + verificationColumns + `
		FROM verification_requests v
		JOIN users u ON u.id = v.user_id
		WHERE v.id = $1
	`
	vr, err := scanVerificationRequest(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("verification request not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get verification request: %w", err)
	}
	return vr, nil
}

// HasPendingForUser checks whether a user already has an undecided request
func (r *VerificationRepository) HasPendingForUser(ctx context.Context, userID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM verification_requests WHERE user_id = $1 AND status = 'pending')`
	var exists bool
	err := r.db.QueryRow(ctx, query, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check pending verification: %w", err)
	}
	return exists, nil
}

// ListByStatus retrieves verification requests in a status, oldest first
func (r *VerificationRepository) ListByStatus(ctx context.Context, status models.VerificationStatus, limit, offset int) ([]*models.VerificationRequest, int, error) {
	countQuery := `SELECT COUNT(*) FROM verification_requests WHERE status = $1`
	var total int
	if err := r.db.QueryRow(ctx, countQuery, status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count verification requests: %w", err)
	}

	query := `
		SELECT ` + verificationColumns + `
		FROM verification_requests v
		JOIN users u ON u.id = v.user_id
		WHERE v.status = $1
		ORDER BY v.submitted_at
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list verification requests: %w", err)
	}
	defer rows.Close()

	var reqs []*models.VerificationRequest
	for rows.Next() {
		vr, err := scanVerificationRequest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan verification request: %w", err)
		}
		reqs = append(reqs, vr)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating verification requests: %w", err)
	}

	return reqs, total, nil
}

// Update persists an admin decision on a verification request
func (r *VerificationRepository) Update(ctx context.Context, vr *models.VerificationRequest) error {
	query := `
		UPDATE verification_requests
		SET status = $1, admin_notes = $2, reviewed_at = $3, reviewed_by = $4
		WHERE id = $5
	`
	result, err := r.db.Exec(ctx, query, vr.Status, vr.AdminNotes, vr.ReviewedAt, vr.ReviewedBy, vr.ID)
	if err != nil {
		return fmt.Errorf("failed to update verification request: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("verification request not found")
	}
	return nil
}
