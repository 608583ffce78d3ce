package lifecycle

import (
	"errors"
	"testing"
	"time"

	"github.com/RobinJoby/food-surplus-platform/internal/models"
)

func TestCanTransitionFood(t *testing.T) {
	cases := []struct {
		from, to models.FoodStatus
		want     bool
	}{
		{models.FoodAvailable, models.FoodRequested, true},
		{models.FoodAvailable, models.FoodAccepted, true},
		{models.FoodAvailable, models.FoodCancelled, true},
		{models.FoodRequested, models.FoodAccepted, true},
		{models.FoodRequested, models.FoodCancelled, true},
		{models.FoodAccepted, models.FoodPicked, true},
		{models.FoodPicked, models.FoodCompleted, true},
		// no skipping forward
		{models.FoodAvailable, models.FoodPicked, false},
		{models.FoodAvailable, models.FoodCompleted, false},
		{models.FoodRequested, models.FoodPicked, false},
		{models.FoodAccepted, models.FoodCompleted, false},
		// no going back
		{models.FoodRequested, models.FoodAvailable, false},
		{models.FoodAccepted, models.FoodAvailable, false},
		{models.FoodPicked, models.FoodAccepted, false},
		// terminal states have no exit
		{models.FoodCompleted, models.FoodAvailable, false},
		{models.FoodCompleted, models.FoodCancelled, false},
		{models.FoodCancelled, models.FoodAvailable, false},
		// late cancellation is not in the forward table
		{models.FoodAccepted, models.FoodCancelled, false},
		{models.FoodPicked, models.FoodCancelled, false},
	}
	for _, c := range cases {
		if got := CanTransitionFood(c.from, c.to); got != c.want {
			t.Errorf("CanTransitionFood(%s, %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestApplyFoodTransition(t *testing.T) {
	now := time.Now()
	item := &models.FoodItem{Status: models.FoodAvailable}

	if err := ApplyFoodTransition(item, models.FoodRequested, now); err != nil {
		t.Fatalf("ApplyFoodTransition: %v", err)
	}
	if item.Status != models.FoodRequested {
		t.Fatalf("expected status requested, got %s", item.Status)
	}

	err := ApplyFoodTransition(item, models.FoodCompleted, now)
	if err == nil {
		t.Fatal("expected shortcut transition requested -> completed to fail")
	}
	var terr *TransitionError
	if !errors.As(err, &terr) {
		t.Fatalf("expected *TransitionError, got %T", err)
	}
	if item.Status != models.FoodRequested {
		t.Fatalf("failed transition must not mutate status, got %s", item.Status)
	}
}

func TestApplyFoodTransitionIdempotent(t *testing.T) {
	item := &models.FoodItem{Status: models.FoodPicked}
	if err := ApplyFoodTransition(item, models.FoodPicked, time.Now()); err != nil {
		t.Fatalf("same-state transition should be a no-op success: %v", err)
	}
}

func TestReleaseFood(t *testing.T) {
	now := time.Now()

	item := &models.FoodItem{Status: models.FoodAccepted}
	ReleaseFood(item, false, now)
	if item.Status != models.FoodAvailable {
		t.Errorf("release with no pending requests: got %s, want available", item.Status)
	}

	item = &models.FoodItem{Status: models.FoodRequested}
	ReleaseFood(item, true, now)
	if item.Status != models.FoodRequested {
		t.Errorf("release with pending requests remaining: got %s, want requested", item.Status)
	}

	// terminal and initial states are untouched
	for _, s := range []models.FoodStatus{models.FoodAvailable, models.FoodCompleted, models.FoodCancelled} {
		item = &models.FoodItem{Status: s}
		ReleaseFood(item, false, now)
		if item.Status != s {
			t.Errorf("release must not touch %s item, got %s", s, item.Status)
		}
	}
}

func TestFoodRequestable(t *testing.T) {
	if !FoodRequestable(models.FoodAvailable) || !FoodRequestable(models.FoodRequested) {
		t.Error("available and requested items must accept new requests")
	}
	for _, s := range []models.FoodStatus{models.FoodAccepted, models.FoodPicked, models.FoodCompleted, models.FoodCancelled} {
		if FoodRequestable(s) {
			t.Errorf("%s item must not accept new requests", s)
		}
	}
}
