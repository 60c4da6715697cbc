package workitem

import "time"

// Status is the lifecycle status of a work item
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in-progress"
	StatusPaused     Status = "paused"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Priority ranks work items for dispatch
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// WorkItem is a unit of maintenance work (a ticket)
type WorkItem struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Location      string     `json:"location"`
	Priority      Priority   `json:"priority"`
	AssignedTo    *string    `json:"assigned_to,omitempty"`
	Status        Status     `json:"status"`
	RecurrenceID  *string    `json:"recurrence_id,omitempty"`
	OccurrenceKey *string    `json:"occurrence_key,omitempty"`
	TotalMinutes  int64      `json:"total_minutes"`
	DueAt         *time.Time `json:"due_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// IsRecurring reports whether the item was produced from a recurrence definition.
func (w *WorkItem) IsRecurring() bool {
	return w.RecurrenceID != nil
}

// Trackable reports whether time may still be tracked against the item.
func (w *WorkItem) Trackable() bool {
	return w.Status != StatusCompleted && w.Status != StatusCancelled
}

// ListOptions filters work item listings
type ListOptions struct {
	Statuses     []Status
	RecurrenceID *string
	Limit        int
	Offset       int
}
