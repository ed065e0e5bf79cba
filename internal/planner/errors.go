package planner

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation is returned when input is rejected before any mutation.
	ErrValidation = errors.New("validation error")
	// ErrInvalidTransition is returned when a lifecycle operation does not
	// apply to the task's current status.
	ErrInvalidTransition = errors.New("invalid transition")
)

func notFound(kind, id string) error {
	return fmt.Errorf("%w: %s %q", ErrNotFound, kind, id)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
