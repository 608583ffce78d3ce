package services

import (
	"errors"
	"fmt"

	"github.com/RobinJoby/food-surplus-platform/internal/repository"

	"github.com/google/uuid"
)

// Sentinel errors services wrap so handlers can map them to status codes
// with errors.Is.
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
	ErrConflict  = errors.New("conflict")
)

// ValidationError reports input rejected before any database write.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// parseID rejects a malformed client-supplied id as a not-found before it
// reaches the database, where the uuid codec would fail the whole query.
func parseID(entity, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%s: %w", entity, ErrNotFound)
	}
	return nil
}

// notFoundOr maps a repository row miss to ErrNotFound and passes every
// other failure through unchanged.
func notFoundOr(entity string, err error) error {
	if errors.Is(err, repository.ErrNoRows) {
		return fmt.Errorf("%s: %w", entity, ErrNotFound)
	}
	return err
}
