package lifecycle

import (
	"time"

	"github.com/RobinJoby/food-surplus-platform/internal/models"
)

// requestTransitions is the edge set for pickup requests. rejected,
// cancelled and completed are terminal.
var requestTransitions = map[models.RequestStatus][]models.RequestStatus{
	models.RequestPending:   {models.RequestAccepted, models.RequestRejected, models.RequestCancelled},
	models.RequestAccepted:  {models.RequestPicked, models.RequestCancelled},
	models.RequestPicked:    {models.RequestCompleted},
	models.RequestRejected:  {},
	models.RequestCancelled: {},
	models.RequestCompleted: {},
}

// CanTransitionRequest reports whether from -> to is a legal pickup request
// edge. Same-state transitions are allowed, so marking a request picked twice
// has no additional effect.
func CanTransitionRequest(from, to models.RequestStatus) bool {
	if from == to {
		return true
	}
	for _, s := range requestTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// RequestTerminal reports whether s has no outgoing edges.
func RequestTerminal(s models.RequestStatus) bool {
	return len(requestTransitions[s]) == 0
}

// RoleMayDrive reports whether a user with the given role may drive a request
// to the given status. Ownership of the request or the underlying item is
// checked separately by the service.
func RoleMayDrive(role models.Role, to models.RequestStatus) bool {
	switch to {
	case models.RequestAccepted, models.RequestRejected:
		return role == models.RoleDonor
	case models.RequestCancelled:
		return role == models.RoleBeneficiary
	case models.RequestPicked, models.RequestCompleted:
		return role == models.RoleDonor || role == models.RoleBeneficiary
	}
	return false
}

// ApplyRequestTransition moves req to the given status and maintains the
// decision/pickup/completion timestamps, or returns a *TransitionError if
// the edge is not legal. Timestamps are written once; an idempotent repeat
// does not move them.
func ApplyRequestTransition(req *models.PickupRequest, to models.RequestStatus, now time.Time) error {
	if !CanTransitionRequest(req.Status, to) {
		return &TransitionError{Entity: "pickup request", From: string(req.Status), To: string(to)}
	}
	req.Status = to

	switch to {
	case models.RequestAccepted, models.RequestRejected, models.RequestCancelled:
		if req.RespondedAt == nil {
			t := now
			req.RespondedAt = &t
		}
	case models.RequestPicked:
		if req.PickedAt == nil {
			t := now
			req.PickedAt = &t
		}
	case models.RequestCompleted:
		if req.CompletedAt == nil {
			t := now
			req.CompletedAt = &t
		}
	}
	return nil
}

// ForeclosePending rejects every pending request in reqs, stamping the
// decision time, and returns the requests that changed. Requests already
// out of pending are left untouched. This is how at most one claiming
// request survives per item: when one request is accepted (or the item is
// withdrawn), the remaining pending requests are foreclosed in one pass.
func ForeclosePending(reqs []*models.PickupRequest, now time.Time) []*models.PickupRequest {
	var rejected []*models.PickupRequest
	for _, req := range reqs {
		if req.Status != models.RequestPending {
			continue
		}
		if err := ApplyRequestTransition(req, models.RequestRejected, now); err != nil {
			continue
		}
		rejected = append(rejected, req)
	}
	return rejected
}

// FoodStatusFor maps a pickup request status to the food item status the
// associated item should carry while that request is the claiming one.
// Only claiming statuses map; anything else returns false.
func FoodStatusFor(s models.RequestStatus) (models.FoodStatus, bool) {
	switch s {
	case models.RequestAccepted:
		return models.FoodAccepted, true
	case models.RequestPicked:
		return models.FoodPicked, true
	case models.RequestCompleted:
		return models.FoodCompleted, true
	}
	return "", false
}
