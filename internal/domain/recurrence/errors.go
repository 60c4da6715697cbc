package recurrence

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRecurrence indicates a malformed recurrence descriptor.
	ErrInvalidRecurrence = errors.New("invalid recurrence")
	// ErrDefinitionNotFound indicates the recurrence definition doesn't exist.
	ErrDefinitionNotFound = errors.New("recurrence definition not found")
	// ErrDuplicateOccurrence indicates the definition advanced but its
	// occurrence key was already taken, so the schedule did not move forward.
	ErrDuplicateOccurrence = errors.New("occurrence already materialized")
	// ErrStoreUnavailable indicates a transient store failure; nothing was committed.
	ErrStoreUnavailable = errors.New("store unavailable, try again")
)

// ValidationError names the offending field of a recurrence descriptor.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid recurrence: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidRecurrence
}
