package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/RobinJoby/food-surplus-platform/internal/lifecycle"
	"github.com/RobinJoby/food-surplus-platform/internal/models"
	"github.com/RobinJoby/food-surplus-platform/internal/repository"

	"github.com/google/uuid"
)

// VerificationService handles verification request submission and review
type VerificationService struct {
	verificationRepo *repository.VerificationRepository
	userRepo         *repository.UserRepository
}

// NewVerificationService creates a new verification service
func NewVerificationService(verificationRepo *repository.VerificationRepository, userRepo *repository.UserRepository) *VerificationService {
	return &VerificationService{
		verificationRepo: verificationRepo,
		userRepo:         userRepo,
	}
}

// SubmitVerificationInput carries a user's verification application
type SubmitVerificationInput struct {
	OrganizationName string  `json:"organization_name"`
	OrganizationType string  `json:"organization_type"`
	Description      *string `json:"description,omitempty"`
	DocumentURL      *string `json:"document_url,omitempty"`
}

// Validate checks a verification submission
func (in *SubmitVerificationInput) Validate() error {
	if strings.TrimSpace(in.OrganizationName) == "" {
		return validationf("organization_name is required")
	}
	if !models.ValidOrganizationType(in.OrganizationType) {
		return validationf("invalid organization_type")
	}
	return nil
}

// Submit opens a pending verification request for a user
func (s *VerificationService) Submit(ctx context.Context, userID string, in SubmitVerificationInput) (*models.VerificationRequest, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr("user", err)
	}
	if user.Verified {
		return nil, fmt.Errorf("user is already verified: %w", ErrConflict)
	}

	pending, err := s.verificationRepo.HasPendingForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check pending verification: %w", err)
	}
	if pending {
		return nil, fmt.Errorf("a verification request is already pending: %w", ErrConflict)
	}

	vr := &models.VerificationRequest{
		ID:               uuid.New().String(),
		UserID:           userID,
		UserName:         user.Name,
		OrganizationName: in.OrganizationName,
		OrganizationType: in.OrganizationType,
		Description:      in.Description,
		DocumentURL:      in.DocumentURL,
		Status:           models.VerificationPending,
		SubmittedAt:      time.Now(),
	}

	if err := s.verificationRepo.Create(ctx, vr); err != nil {
		return nil, fmt.Errorf("failed to create verification request: %w", err)
	}

	return vr, nil
}

// ListByStatus retrieves verification requests for admin review
func (s *VerificationService) ListByStatus(ctx context.Context, status models.VerificationStatus, limit, offset int) ([]*models.VerificationRequest, int, error) {
	if status == "" {
		status = models.VerificationPending
	}
	return s.verificationRepo.ListByStatus(ctx, status, limit, offset)
}

// Review records an admin decision. Approval flips the user's verified flag.
func (s *VerificationService) Review(ctx context.Context, adminID, requestID string, to models.VerificationStatus, notes *string) (*models.VerificationRequest, error) {
	if err := parseID("verification request", requestID); err != nil {
		return nil, err
	}
	vr, err := s.verificationRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, notFoundOr("verification request", err)
	}

	if err := lifecycle.ApplyReview(vr, to, adminID, notes, time.Now()); err != nil {
		return nil, err
	}

	if err := s.verificationRepo.Update(ctx, vr); err != nil {
		return nil, fmt.Errorf("failed to update verification request: %w", err)
	}

	if vr.Status == models.VerificationApproved {
		if err := s.userRepo.SetVerified(ctx, vr.UserID, true); err != nil {
			return nil, fmt.Errorf("failed to mark user verified: %w", err)
		}
	}

	return vr, nil
}
