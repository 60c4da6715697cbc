package workitem

import "errors"

var (
	// ErrWorkItemNotFound indicates the work item doesn't exist.
	ErrWorkItemNotFound = errors.New("work item not found")
	// ErrInvalidTransition indicates an illegal status change.
	ErrInvalidTransition = errors.New("invalid work item status transition")
	// ErrInvalidInput indicates invalid work item input.
	ErrInvalidInput = errors.New("invalid work item input")
)
