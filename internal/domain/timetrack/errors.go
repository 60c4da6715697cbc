package timetrack

import "errors"

var (
	// ErrConflict indicates an open entry already exists for the work item.
	ErrConflict = errors.New("time tracking already started for work item")
	// ErrInvalidState indicates the transition is illegal from the entry's state.
	ErrInvalidState = errors.New("invalid time entry state")
	// ErrEntryNotFound indicates the time entry doesn't exist.
	ErrEntryNotFound = errors.New("time entry not found")
	// ErrNoOpenEntry indicates no entry is open for the work item.
	ErrNoOpenEntry = errors.New("no open time entry for work item")
	// ErrWorkItemNotFound indicates the work item doesn't exist.
	ErrWorkItemNotFound = errors.New("work item not found")
	// ErrStoreUnavailable indicates a transient store failure; nothing was committed.
	ErrStoreUnavailable = errors.New("store unavailable, try again")
	// ErrInvalidInput indicates invalid tracking input.
	ErrInvalidInput = errors.New("invalid time tracking input")
)
