package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/RobinJoby/food-surplus-platform/internal/models"
)

func validListing(now time.Time) CreateFoodInput {
	return CreateFoodInput{
		Title:       "Leftover catering trays",
		Quantity:    12,
		Unit:        models.UnitServings,
		PickupStart: now.Add(1 * time.Hour),
		PickupEnd:   now.Add(3 * time.Hour),
	}
}

func TestCreateFoodInputValidate(t *testing.T) {
	now := time.Now()

	if err := func() error { in := validListing(now); return in.Validate(now) }(); err != nil {
		t.Fatalf("valid listing rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*CreateFoodInput)
	}{
		{"empty title", func(in *CreateFoodInput) { in.Title = "  " }},
		{"zero quantity", func(in *CreateFoodInput) { in.Quantity = 0 }},
		{"negative quantity", func(in *CreateFoodInput) { in.Quantity = -3 }},
		{"unknown unit", func(in *CreateFoodInput) { in.Unit = "barrels" }},
		{"missing window", func(in *CreateFoodInput) { in.PickupStart = time.Time{}; in.PickupEnd = time.Time{} }},
		{"window ends before it starts", func(in *CreateFoodInput) {
			in.PickupStart = now.Add(3 * time.Hour)
			in.PickupEnd = now.Add(1 * time.Hour)
		}},
		{"window in the past", func(in *CreateFoodInput) {
			in.PickupStart = now.Add(-2 * time.Hour)
			in.PickupEnd = now.Add(1 * time.Hour)
		}},
		{"expired before listing", func(in *CreateFoodInput) {
			d := now.Add(-time.Minute)
			in.ExpiryDate = &d
		}},
		{"latitude without longitude", func(in *CreateFoodInput) {
			lat := 40.7
			in.Latitude = &lat
		}},
		{"out of range coordinates", func(in *CreateFoodInput) {
			lat, lon := 91.0, 0.0
			in.Latitude, in.Longitude = &lat, &lon
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			in := validListing(now)
			c.mutate(&in)
			err := in.Validate(now)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateFoodInputDefaultsUnit(t *testing.T) {
	now := time.Now()
	in := validListing(now)
	in.Unit = ""
	if err := in.Validate(now); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if in.Unit != models.UnitServings {
		t.Fatalf("expected unit to default to servings, got %s", in.Unit)
	}
}

func TestListRejectsUnknownRadius(t *testing.T) {
	s := &FoodService{}
	_, _, err := s.List(context.Background(), "user", models.RoleBeneficiary, ListInput{MaxDistance: 7})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error for radius 7, got %v", err)
	}
}

func cancelFixture() (*FoodService, *fakeFoodStore, *fakePickupStore, *fakeNotifier) {
	foods := &fakeFoodStore{items: map[string]*models.FoodItem{testItemID: requestedItem()}}
	pickups := &fakePickupStore{reqs: map[string]*models.PickupRequest{
		testReqA: pendingRequest(testReqA, testBenA),
		testReqB: pendingRequest(testReqB, testBenB),
	}}
	notes := &fakeNotifier{}
	return NewFoodService(foods, nil, pickups, notes), foods, pickups, notes
}

func assertWithdrawn(t *testing.T, foods *fakeFoodStore, pickups *fakePickupStore, notes *fakeNotifier) {
	t.Helper()

	if got := foods.items[testItemID].Status; got != models.FoodCancelled {
		t.Fatalf("expected item cancelled, got %s", got)
	}
	// The cascade must see every pending request, not exclude one.
	if !pickups.excludeSeen || pickups.lastExclude != nil {
		t.Fatal("expected pending requests listed without an exclusion")
	}
	for _, id := range []string{testReqA, testReqB} {
		if got := pickups.reqs[id].Status; got != models.RequestRejected {
			t.Errorf("request %s: expected rejected, got %s", id, got)
		}
	}
	if n := notes.count(models.NotifyRequestRejected); n != 2 {
		t.Errorf("expected 2 rejection notifications, got %d", n)
	}
}

func TestCancelRejectsPendingRequests(t *testing.T) {
	ctx := context.Background()
	s, foods, pickups, notes := cancelFixture()

	item, err := s.Cancel(ctx, testDonorID, testItemID)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if item.Status != models.FoodCancelled {
		t.Fatalf("expected cancelled, got %s", item.Status)
	}
	assertWithdrawn(t, foods, pickups, notes)
}

func TestUpdateToCancelledCarriesCascade(t *testing.T) {
	ctx := context.Background()
	s, foods, pickups, notes := cancelFixture()

	status := models.FoodCancelled
	item, err := s.Update(ctx, testDonorID, testItemID, UpdateFoodInput{Status: &status})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if item.Status != models.FoodCancelled {
		t.Fatalf("expected cancelled, got %s", item.Status)
	}
	assertWithdrawn(t, foods, pickups, notes)
}
