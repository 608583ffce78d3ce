package lifecycle

import (
	"errors"
	"testing"
	"time"

	"github.com/RobinJoby/food-surplus-platform/internal/models"
)

func TestCanTransitionRequest(t *testing.T) {
	cases := []struct {
		from, to models.RequestStatus
		want     bool
	}{
		{models.RequestPending, models.RequestAccepted, true},
		{models.RequestPending, models.RequestRejected, true},
		{models.RequestPending, models.RequestCancelled, true},
		{models.RequestAccepted, models.RequestPicked, true},
		{models.RequestAccepted, models.RequestCancelled, true},
		{models.RequestPicked, models.RequestCompleted, true},
		// rejecting an already accepted request is not an edge
		{models.RequestAccepted, models.RequestRejected, false},
		{models.RequestPending, models.RequestPicked, false},
		{models.RequestPending, models.RequestCompleted, false},
		{models.RequestAccepted, models.RequestCompleted, false},
		{models.RequestPicked, models.RequestCancelled, false},
		// terminal states have no exit
		{models.RequestRejected, models.RequestPending, false},
		{models.RequestRejected, models.RequestAccepted, false},
		{models.RequestCancelled, models.RequestAccepted, false},
		{models.RequestCompleted, models.RequestPicked, false},
	}
	for _, c := range cases {
		if got := CanTransitionRequest(c.from, c.to); got != c.want {
			t.Errorf("CanTransitionRequest(%s, %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestRequestAcceptThenRejectScenario(t *testing.T) {
	now := time.Now()
	req := &models.PickupRequest{Status: models.RequestPending, RequestedAt: now}

	if err := ApplyRequestTransition(req, models.RequestAccepted, now); err != nil {
		t.Fatalf("accept pending request: %v", err)
	}
	if req.Status != models.RequestAccepted {
		t.Fatalf("expected accepted, got %s", req.Status)
	}
	if req.RespondedAt == nil {
		t.Fatal("accept must record responded_at")
	}

	err := ApplyRequestTransition(req, models.RequestRejected, now)
	if err == nil {
		t.Fatal("rejecting an accepted request must fail")
	}
	var terr *TransitionError
	if !errors.As(err, &terr) {
		t.Fatalf("expected *TransitionError, got %T", err)
	}
	if req.Status != models.RequestAccepted {
		t.Fatalf("failed transition must not mutate status, got %s", req.Status)
	}
}

func TestApplyRequestTransitionTimestamps(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)
	t2 := t1.Add(time.Hour)

	req := &models.PickupRequest{Status: models.RequestAccepted}
	if err := ApplyRequestTransition(req, models.RequestPicked, t0); err != nil {
		t.Fatalf("pick: %v", err)
	}
	if req.PickedAt == nil || !req.PickedAt.Equal(t0) {
		t.Fatalf("picked_at not recorded: %v", req.PickedAt)
	}

	// marking picked twice has no additional effect
	if err := ApplyRequestTransition(req, models.RequestPicked, t1); err != nil {
		t.Fatalf("repeat pick must be idempotent: %v", err)
	}
	if !req.PickedAt.Equal(t0) {
		t.Fatalf("repeat pick moved picked_at to %v", req.PickedAt)
	}

	if err := ApplyRequestTransition(req, models.RequestCompleted, t2); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if req.CompletedAt == nil || !req.CompletedAt.Equal(t2) {
		t.Fatalf("completed_at not recorded: %v", req.CompletedAt)
	}
}

func TestRoleMayDrive(t *testing.T) {
	cases := []struct {
		role models.Role
		to   models.RequestStatus
		want bool
	}{
		{models.RoleDonor, models.RequestAccepted, true},
		{models.RoleDonor, models.RequestRejected, true},
		{models.RoleBeneficiary, models.RequestAccepted, false},
		{models.RoleBeneficiary, models.RequestRejected, false},
		{models.RoleBeneficiary, models.RequestCancelled, true},
		{models.RoleDonor, models.RequestCancelled, false},
		{models.RoleDonor, models.RequestPicked, true},
		{models.RoleBeneficiary, models.RequestPicked, true},
		{models.RoleDonor, models.RequestCompleted, true},
		{models.RoleBeneficiary, models.RequestCompleted, true},
		{models.RoleAdmin, models.RequestAccepted, false},
		{models.RoleAdmin, models.RequestPicked, false},
	}
	for _, c := range cases {
		if got := RoleMayDrive(c.role, c.to); got != c.want {
			t.Errorf("RoleMayDrive(%s, %s) = %v, want %v", c.role, c.to, got, c.want)
		}
	}
}

func TestFoodStatusFor(t *testing.T) {
	if s, ok := FoodStatusFor(models.RequestAccepted); !ok || s != models.FoodAccepted {
		t.Errorf("accepted request should map to accepted item, got %s/%v", s, ok)
	}
	if s, ok := FoodStatusFor(models.RequestPicked); !ok || s != models.FoodPicked {
		t.Errorf("picked request should map to picked item, got %s/%v", s, ok)
	}
	if s, ok := FoodStatusFor(models.RequestCompleted); !ok || s != models.FoodCompleted {
		t.Errorf("completed request should map to completed item, got %s/%v", s, ok)
	}
	for _, s := range []models.RequestStatus{models.RequestPending, models.RequestRejected, models.RequestCancelled} {
		if _, ok := FoodStatusFor(s); ok {
			t.Errorf("%s request must not map to an item status", s)
		}
	}
}

func TestForeclosePending(t *testing.T) {
	now := time.Now()
	reqs := []*models.PickupRequest{
		{ID: "a", Status: models.RequestPending},
		{ID: "b", Status: models.RequestCancelled},
		{ID: "c", Status: models.RequestPending},
	}

	rejected := ForeclosePending(reqs, now)

	if len(rejected) != 2 {
		t.Fatalf("expected 2 foreclosed requests, got %d", len(rejected))
	}
	for _, req := range rejected {
		if req.Status != models.RequestRejected {
			t.Errorf("request %s: expected rejected, got %s", req.ID, req.Status)
		}
		if req.RespondedAt == nil {
			t.Errorf("request %s: responded_at not stamped", req.ID)
		}
	}
	if reqs[1].Status != models.RequestCancelled {
		t.Errorf("non-pending request must be left untouched, got %s", reqs[1].Status)
	}
}

func TestForeclosePendingLeavesOneClaim(t *testing.T) {
	now := time.Now()
	winner := &models.PickupRequest{ID: "w", Status: models.RequestPending}
	if err := ApplyRequestTransition(winner, models.RequestAccepted, now); err != nil {
		t.Fatalf("ApplyRequestTransition: %v", err)
	}

	siblings := []*models.PickupRequest{
		{ID: "x", Status: models.RequestPending},
		{ID: "y", Status: models.RequestPending},
	}
	ForeclosePending(siblings, now)

	claiming := 0
	for _, req := range append(siblings, winner) {
		if req.Status == models.RequestAccepted || req.Status == models.RequestPicked {
			claiming++
		}
	}
	if claiming != 1 {
		t.Fatalf("expected exactly one claiming request, got %d", claiming)
	}
}
