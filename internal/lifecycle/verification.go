package lifecycle

import (
	"time"

	"github.com/RobinJoby/food-surplus-platform/internal/models"
)

// CanReview reports whether a verification request in status from may be
// reviewed to status to. Reviews are single-shot: approved and rejected are
// both terminal.
func CanReview(from, to models.VerificationStatus) bool {
	if from != models.VerificationPending {
		return false
	}
	return to == models.VerificationApproved || to == models.VerificationRejected
}

// ApplyReview records an admin decision on a pending verification request.
func ApplyReview(vr *models.VerificationRequest, to models.VerificationStatus, reviewerID string, notes *string, now time.Time) error {
	if !CanReview(vr.Status, to) {
		return &TransitionError{Entity: "verification request", From: string(vr.Status), To: string(to)}
	}
	vr.Status = to
	vr.AdminNotes = notes
	vr.ReviewedAt = &now
	vr.ReviewedBy = &reviewerID
	return nil
}
