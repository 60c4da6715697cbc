package recurrence

import (
	"strings"

	"github.com/hotelops/upkeep/internal/domain/workitem"
)

const (
	maxTitleLength = 200
)

// ValidFrequency reports whether f is a known frequency.
func ValidFrequency(f Frequency) bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly, FrequencyYearly:
		return true
	}
	return false
}

// ValidateSchedule checks the schedule fields of a definition.
func ValidateSchedule(def *Definition) error {
	if !ValidFrequency(def.Frequency) {
		return &ValidationError{Field: "frequency", Reason: "must be one of daily, weekly, monthly, quarterly, yearly"}
	}
	if def.DayOfWeek < 0 || def.DayOfWeek > 6 {
		return &ValidationError{Field: "day_of_week", Reason: "must be between 0 and 6"}
	}
	if def.DayOfMonth < 1 || def.DayOfMonth > 31 {
		return &ValidationError{Field: "day_of_month", Reason: "must be between 1 and 31"}
	}
	if def.Month < 0 || def.Month > 11 {
		return &ValidationError{Field: "month", Reason: "must be between 0 and 11"}
	}
	return nil
}

// Validate checks the template and schedule fields of a definition.
func Validate(def *Definition) error {
	if def == nil {
		return &ValidationError{Field: "definition", Reason: "is required"}
	}
	title := strings.TrimSpace(def.Title)
	if title == "" {
		return &ValidationError{Field: "title", Reason: "is required"}
	}
	if len(title) > maxTitleLength {
		return &ValidationError{Field: "title", Reason: "is too long"}
	}
	if strings.TrimSpace(def.Description) == "" {
		return &ValidationError{Field: "description", Reason: "is required"}
	}
	if strings.TrimSpace(def.Location) == "" {
		return &ValidationError{Field: "location", Reason: "is required"}
	}
	if !workitem.ValidPriority(def.Priority) {
		return &ValidationError{Field: "priority", Reason: "must be one of low, medium, high, urgent"}
	}
	return ValidateSchedule(def)
}
