package mcp

import (
	"errors"
	"fmt"

	"github.com/hotelops/upkeep/internal/domain/recurrence"
	"github.com/hotelops/upkeep/internal/domain/timetrack"
	"github.com/hotelops/upkeep/internal/domain/workitem"
	"github.com/hotelops/upkeep/internal/repository"
)

// Error codes reported to MCP clients.
const (
	CodeAlreadyStarted    = "ALREADY_STARTED"
	CodeInvalidState      = "INVALID_STATE"
	CodeInvalidRecurrence = "INVALID_RECURRENCE"
	CodeTryAgain          = "TRY_AGAIN"
	CodeNotFound          = "NOT_FOUND"
	CodeInvalidInput      = "INVALID_INPUT"
	CodeInternal          = "INTERNAL"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
}

// MapError maps domain errors to MCP error codes. Unknown errors map to
// INTERNAL without leaking their text.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var verr *recurrence.ValidationError
	switch {
	case errors.Is(err, timetrack.ErrConflict):
		return &APIError{Code: CodeAlreadyStarted, Message: "time tracking is already running for this work item",
			RecoveryHint: "Pause or stop the open entry first"}
	case errors.Is(err, timetrack.ErrInvalidState):
		return &APIError{Code: CodeInvalidState, Message: "the time entry does not allow this action",
			RecoveryHint: "Fetch the entry and check its state"}
	case errors.Is(err, workitem.ErrInvalidTransition):
		return &APIError{Code: CodeInvalidState, Message: "the work item cannot move to that status",
			RecoveryHint: "Fetch the work item and check its status"}
	case errors.As(err, &verr):
		return &APIError{Code: CodeInvalidRecurrence, Message: verr.Error(),
			Details:      map[string]string{"field": verr.Field, "reason": verr.Reason},
			RecoveryHint: "Correct the field and retry"}
	case errors.Is(err, recurrence.ErrInvalidRecurrence):
		return &APIError{Code: CodeInvalidRecurrence, Message: "the recurrence definition is invalid",
			RecoveryHint: "Check frequency and day fields"}
	case errors.Is(err, timetrack.ErrStoreUnavailable),
		errors.Is(err, recurrence.ErrStoreUnavailable),
		errors.Is(err, repository.ErrUnavailable),
		errors.Is(err, repository.ErrConflict):
		return &APIError{Code: CodeTryAgain, Message: "the store is busy",
			RecoveryHint: "Try again in a moment"}
	case errors.Is(err, timetrack.ErrEntryNotFound):
		return &APIError{Code: CodeNotFound, Message: "time entry not found", RecoveryHint: "Check ID spelling"}
	case errors.Is(err, timetrack.ErrNoOpenEntry):
		return &APIError{Code: CodeNotFound, Message: "no open time entry for this work item",
			RecoveryHint: "Call start_tracking first"}
	case errors.Is(err, timetrack.ErrWorkItemNotFound), errors.Is(err, workitem.ErrWorkItemNotFound):
		return &APIError{Code: CodeNotFound, Message: "work item not found", RecoveryHint: "Check ID spelling"}
	case errors.Is(err, recurrence.ErrDefinitionNotFound):
		return &APIError{Code: CodeNotFound, Message: "recurrence not found", RecoveryHint: "Check ID spelling"}
	case errors.Is(err, repository.ErrNotFound):
		return &APIError{Code: CodeNotFound, Message: "not found"}
	case errors.Is(err, timetrack.ErrInvalidInput), errors.Is(err, workitem.ErrInvalidInput),
		errors.Is(err, repository.ErrInvalidInput):
		return &APIError{Code: CodeInvalidInput, Message: err.Error()}
	default:
		return &APIError{Code: CodeInternal, Message: "internal error"}
	}
}
