package lifecycle

import (
	"testing"
	"time"

	"github.com/RobinJoby/food-surplus-platform/internal/models"
)

func TestCanReview(t *testing.T) {
	if !CanReview(models.VerificationPending, models.VerificationApproved) {
		t.Error("pending -> approved must be allowed")
	}
	if !CanReview(models.VerificationPending, models.VerificationRejected) {
		t.Error("pending -> rejected must be allowed")
	}
	if CanReview(models.VerificationApproved, models.VerificationRejected) {
		t.Error("approved is terminal")
	}
	if CanReview(models.VerificationRejected, models.VerificationApproved) {
		t.Error("rejected is terminal")
	}
	if CanReview(models.VerificationPending, models.VerificationPending) {
		t.Error("review must decide, not re-pend")
	}
}

func TestApplyReview(t *testing.T) {
	now := time.Now()
	notes := "documents check out"
	vr := &models.VerificationRequest{Status: models.VerificationPending}

	if err := ApplyReview(vr, models.VerificationApproved, "admin-1", &notes, now); err != nil {
		t.Fatalf("ApplyReview: %v", err)
	}
	if vr.Status != models.VerificationApproved {
		t.Fatalf("expected approved, got %s", vr.Status)
	}
	if vr.ReviewedBy == nil || *vr.ReviewedBy != "admin-1" {
		t.Error("reviewer not recorded")
	}
	if vr.ReviewedAt == nil {
		t.Error("review time not recorded")
	}
	if vr.AdminNotes == nil || *vr.AdminNotes != notes {
		t.Error("admin notes not recorded")
	}

	if err := ApplyReview(vr, models.VerificationRejected, "admin-2", nil, now); err == nil {
		t.Fatal("second review of a decided request must fail")
	}
}
