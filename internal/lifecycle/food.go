package lifecycle

import (
	"time"

	"github.com/RobinJoby/food-surplus-platform/internal/models"
)

// foodTransitions is the forward-only edge set for food items. Terminal
// states map to an empty slice. An item is only ever returned towards
// "available" through ReleaseFood, as a coupled effect of its claiming
// pickup request going away, never through CanTransitionFood.
var foodTransitions = map[models.FoodStatus][]models.FoodStatus{
	models.FoodAvailable: {models.FoodRequested, models.FoodAccepted, models.FoodCancelled},
	models.FoodRequested: {models.FoodAccepted, models.FoodCancelled},
	models.FoodAccepted:  {models.FoodPicked},
	models.FoodPicked:    {models.FoodCompleted},
	models.FoodCompleted: {},
	models.FoodCancelled: {},
}

// CanTransitionFood reports whether from -> to is a legal food item edge.
// A same-state transition is allowed so repeated mutations are idempotent.
func CanTransitionFood(from, to models.FoodStatus) bool {
	if from == to {
		return true
	}
	for _, s := range foodTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// FoodTerminal reports whether s has no outgoing edges.
func FoodTerminal(s models.FoodStatus) bool {
	return len(foodTransitions[s]) == 0
}

// ApplyFoodTransition moves item to the given status, or returns a
// *TransitionError if the edge is not legal.
func ApplyFoodTransition(item *models.FoodItem, to models.FoodStatus, now time.Time) error {
	if !CanTransitionFood(item.Status, to) {
		return &TransitionError{Entity: "food item", From: string(item.Status), To: string(to)}
	}
	item.Status = to
	item.UpdatedAt = now
	return nil
}

// ReleaseFood returns an item claimed by a since-withdrawn request back into
// circulation: to requested if other pending requests remain against it,
// otherwise to available. Items outside requested/accepted are untouched.
func ReleaseFood(item *models.FoodItem, pendingRemain bool, now time.Time) {
	if item.Status != models.FoodRequested && item.Status != models.FoodAccepted {
		return
	}
	if pendingRemain {
		item.Status = models.FoodRequested
	} else {
		item.Status = models.FoodAvailable
	}
	item.UpdatedAt = now
}

// FoodRequestable reports whether a new pickup request may be opened against
// an item in status s. Multiple pending requests may coexist, so both
// available and requested qualify.
func FoodRequestable(s models.FoodStatus) bool {
	return s == models.FoodAvailable || s == models.FoodRequested
}
