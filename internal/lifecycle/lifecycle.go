// Package lifecycle is the single authority for status transitions of food
// items, pickup requests and verification requests. All mutations go through
// the transition tables here; handlers and services never compare raw status
// strings themselves.
package lifecycle

import "fmt"

// TransitionError reports an attempt to move an entity along an edge that is
// not in its transition table.
type TransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid %s status transition: %s -> %s", e.Entity, e.From, e.To)
}
