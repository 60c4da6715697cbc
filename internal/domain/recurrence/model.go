package recurrence

import (
	"time"

	"github.com/hotelops/upkeep/internal/domain/workitem"
)

// Frequency is how often a definition produces work
type Frequency string

const (
	FrequencyDaily     Frequency = "daily"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
)

// Defaults applied to schedule fields the caller leaves unset.
const (
	DefaultDayOfWeek  = 1
	DefaultDayOfMonth = 1
	DefaultMonth      = 0
)

// Definition is a template for work items produced on a schedule.
//
// DayOfWeek is 0-6 with 0 for Sunday and applies to weekly definitions.
// DayOfMonth is 1-31 and is clamped to the length of each month.
// Month is 0-11 and applies to yearly definitions.
type Definition struct {
	ID              string            `json:"id"`
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	Location        string            `json:"location"`
	Priority        workitem.Priority `json:"priority"`
	AssignedTo      *string           `json:"assigned_to,omitempty"`
	Frequency       Frequency         `json:"frequency"`
	DayOfWeek       int               `json:"day_of_week"`
	DayOfMonth      int               `json:"day_of_month"`
	Month           int               `json:"month"`
	LastGeneratedAt *time.Time        `json:"last_generated_at,omitempty"`
	NextDueAt       *time.Time        `json:"next_due_at,omitempty"`
	Active          bool              `json:"active"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// Due reports whether the definition should produce an occurrence at now.
// A definition that has never been scheduled is always due.
func (d *Definition) Due(now time.Time) bool {
	if !d.Active {
		return false
	}
	return d.NextDueAt == nil || !d.NextDueAt.After(now)
}

// scheduleEquals reports whether two definitions share the same schedule.
func (d *Definition) scheduleEquals(o *Definition) bool {
	return d.Frequency == o.Frequency &&
		d.DayOfWeek == o.DayOfWeek &&
		d.DayOfMonth == o.DayOfMonth &&
		d.Month == o.Month
}

// Materialization is one occurrence turned into a work item. The store
// applies it atomically: the definition advances only if its next due time
// still equals ExpectedNextDue, and the item is inserted under OccurrenceKey.
type Materialization struct {
	Item            *workitem.WorkItem
	DefinitionID    string
	ExpectedNextDue *time.Time
	LastGeneratedAt time.Time
	NextDueAt       time.Time
}

// ListOptions filters definition listings
type ListOptions struct {
	ActiveOnly bool
	Limit      int
	Offset     int
}
