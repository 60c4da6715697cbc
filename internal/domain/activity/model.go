package activity

import "time"

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeTrackingStarted        ActivityType = "tracking_started"
	TypeTrackingPaused         ActivityType = "tracking_paused"
	TypeTrackingResumed        ActivityType = "tracking_resumed"
	TypeTrackingStopped        ActivityType = "tracking_stopped"
	TypeWorkItemCreated        ActivityType = "work_item_created"
	TypeStatusChanged          ActivityType = "status_changed"
	TypeRecurrenceChanged      ActivityType = "recurrence_changed"
	TypeOccurrenceMaterialized ActivityType = "occurrence_materialized"
	TypeOccurrenceFailed       ActivityType = "occurrence_failed"
)

// ActivityEntry represents an event in the activity log
type ActivityEntry struct {
	ID           int64        `json:"id"`
	WorkItemID   *string      `json:"work_item_id,omitempty"`
	EntryID      *string      `json:"entry_id,omitempty"`
	RecurrenceID *string      `json:"recurrence_id,omitempty"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}
