package workitem

import "strings"

// ValidPriority reports whether p is a known priority.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// ValidateCreateInput validates fields required to create a work item.
func ValidateCreateInput(req CreateRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return ErrInvalidInput
	}
	if strings.TrimSpace(req.Description) == "" {
		return ErrInvalidInput
	}
	if strings.TrimSpace(req.Location) == "" {
		return ErrInvalidInput
	}
	if req.Priority != "" && !ValidPriority(req.Priority) {
		return ErrInvalidInput
	}
	return nil
}

// ValidateTransition validates a requested status change.
func ValidateTransition(from, to Status) error {
	valid := false
	switch from {
	case StatusOpen:
		switch to {
		case StatusInProgress, StatusCompleted, StatusCancelled:
			valid = true
		}
	case StatusInProgress:
		switch to {
		case StatusPaused, StatusCompleted, StatusCancelled:
			valid = true
		}
	case StatusPaused:
		switch to {
		case StatusInProgress, StatusCompleted, StatusCancelled:
			valid = true
		}
	}

	if !valid {
		return ErrInvalidTransition
	}
	return nil
}
