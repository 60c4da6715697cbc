package mcp

import (
	"time"

	"github.com/hotelops/upkeep/internal/domain/activity"
	"github.com/hotelops/upkeep/internal/domain/recurrence"
	"github.com/hotelops/upkeep/internal/domain/timetrack"
	"github.com/hotelops/upkeep/internal/domain/workitem"
)

// Tool inputs. Fields without omitempty are required by the generated schema.

type EntryIDParams struct {
	EntryID string `json:"entry_id" jsonschema:"time entry ID"`
}

type StartTrackingParams struct {
	WorkItemID string `json:"work_item_id" jsonschema:"work item to track"`
	WorkerID   string `json:"worker_id,omitempty" jsonschema:"worker doing the work; defaults to the caller's worker identity"`
}

type StopTrackingParams struct {
	EntryID string `json:"entry_id" jsonschema:"time entry ID"`
	Notes   string `json:"notes,omitempty" jsonschema:"notes saved on the stopped entry"`
}

type WorkItemIDParams struct {
	WorkItemID string `json:"work_item_id" jsonschema:"work item ID"`
}

type CreateWorkItemParams struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Location    string  `json:"location" jsonschema:"room or area, e.g. Room 214"`
	Priority    string  `json:"priority,omitempty" jsonschema:"low, medium, high or urgent; defaults to medium"`
	AssignedTo  *string `json:"assigned_to,omitempty"`
}

type GetByIDParams struct {
	ID string `json:"id"`
}

type ListWorkItemsParams struct {
	Statuses     []string `json:"statuses,omitempty" jsonschema:"filter by status: open, in-progress, paused, completed, cancelled"`
	RecurrenceID string   `json:"recurrence_id,omitempty" jsonschema:"only items produced by this recurrence"`
	Limit        int      `json:"limit,omitempty"`
	Offset       int      `json:"offset,omitempty"`
}

type TransitionWorkItemParams struct {
	ID       string `json:"id"`
	ToStatus string `json:"to_status" jsonschema:"in-progress, paused, completed or cancelled"`
}

type CreateRecurrenceParams struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Location    string  `json:"location"`
	Priority    string  `json:"priority,omitempty"`
	AssignedTo  *string `json:"assigned_to,omitempty"`
	Frequency   string  `json:"frequency" jsonschema:"daily, weekly, monthly, quarterly or yearly"`
	DayOfWeek   *int    `json:"day_of_week,omitempty"`
	DayOfMonth  *int    `json:"day_of_month,omitempty"`
	Month       *int    `json:"month,omitempty"`
	Inactive    bool    `json:"inactive,omitempty" jsonschema:"create the recurrence switched off"`
}

type UpdateRecurrenceParams struct {
	ID          string  `json:"id"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Location    *string `json:"location,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	AssignedTo  *string `json:"assigned_to,omitempty" jsonschema:"empty string clears the assignee"`
	Frequency   *string `json:"frequency,omitempty"`
	DayOfWeek   *int    `json:"day_of_week,omitempty"`
	DayOfMonth  *int    `json:"day_of_month,omitempty"`
	Month       *int    `json:"month,omitempty"`
}

type SetRecurrenceActiveParams struct {
	ID     string `json:"id"`
	Active bool   `json:"active"`
}

type ListRecurrencesParams struct {
	ActiveOnly bool `json:"active_only,omitempty"`
	Limit      int  `json:"limit,omitempty"`
	Offset     int  `json:"offset,omitempty"`
}

type ComputeNextDueParams struct {
	Frequency  string `json:"frequency" jsonschema:"daily, weekly, monthly, quarterly or yearly"`
	DayOfWeek  *int   `json:"day_of_week,omitempty" jsonschema:"weekday for weekly schedules, 0 is Sunday and 6 is Saturday; defaults to 1"`
	DayOfMonth *int   `json:"day_of_month,omitempty" jsonschema:"day 1 to 31, clamped to the length of short months; defaults to 1"`
	Month      *int   `json:"month,omitempty" jsonschema:"month for yearly schedules, 0 is January and 11 is December; defaults to 0"`
	After      string `json:"after,omitempty" jsonschema:"RFC 3339 time to compute from; defaults to now"`
}

type RecentActivityParams struct {
	WorkItemID   string `json:"work_item_id,omitempty"`
	RecurrenceID string `json:"recurrence_id,omitempty"`
	Type         string `json:"type,omitempty"`
	Limit        int    `json:"limit,omitempty"`
	Offset       int    `json:"offset,omitempty"`
}

// Tool outputs. Timestamps are RFC 3339 strings in UTC.

type PauseView struct {
	PausedAt  string `json:"paused_at"`
	ResumedAt string `json:"resumed_at,omitempty"`
}

type TimeEntryView struct {
	ID             string      `json:"id"`
	WorkItemID     string      `json:"work_item_id"`
	WorkerID       string      `json:"worker_id"`
	State          string      `json:"state"`
	StartedAt      string      `json:"started_at"`
	EndedAt        string      `json:"ended_at,omitempty"`
	PauseIntervals []PauseView `json:"pause_intervals"`
	ActiveMinutes  int64       `json:"active_minutes"`
	Duration       string      `json:"duration,omitempty"`
	Notes          string      `json:"notes,omitempty"`
}

type TimeEntryResult struct {
	Entry TimeEntryView `json:"entry"`
}

type TimeEntryListResult struct {
	Entries []TimeEntryView `json:"entries"`
}

type LiveElapsedResult struct {
	EntryID string `json:"entry_id"`
	Seconds int64  `json:"seconds"`
	Display string `json:"display"`
}

type WorkItemView struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Location      string `json:"location"`
	Priority      string `json:"priority"`
	AssignedTo    string `json:"assigned_to,omitempty"`
	Status        string `json:"status"`
	RecurrenceID  string `json:"recurrence_id,omitempty"`
	OccurrenceKey string `json:"occurrence_key,omitempty"`
	TotalMinutes  int64  `json:"total_minutes"`
	TotalTime     string `json:"total_time"`
	DueAt         string `json:"due_at,omitempty"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
	CompletedAt   string `json:"completed_at,omitempty"`
}

type WorkItemResult struct {
	WorkItem WorkItemView `json:"work_item"`
}

type WorkItemListResult struct {
	WorkItems []WorkItemView `json:"work_items"`
}

type RecurrenceView struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Location        string `json:"location"`
	Priority        string `json:"priority"`
	AssignedTo      string `json:"assigned_to,omitempty"`
	Frequency       string `json:"frequency"`
	DayOfWeek       int    `json:"day_of_week"`
	DayOfMonth      int    `json:"day_of_month"`
	Month           int    `json:"month"`
	LastGeneratedAt string `json:"last_generated_at,omitempty"`
	NextDueAt       string `json:"next_due_at,omitempty"`
	Active          bool   `json:"active"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

type RecurrenceResult struct {
	Recurrence RecurrenceView `json:"recurrence"`
}

type RecurrenceListResult struct {
	Recurrences []RecurrenceView `json:"recurrences"`
}

type DeleteResult struct {
	Deleted string `json:"deleted"`
}

type NextDueResult struct {
	After   string `json:"after"`
	NextDue string `json:"next_due"`
}

type ActivityView struct {
	ID           int64  `json:"id"`
	Type         string `json:"type"`
	Summary      string `json:"summary"`
	Details      string `json:"details,omitempty"`
	WorkItemID   string `json:"work_item_id,omitempty"`
	EntryID      string `json:"entry_id,omitempty"`
	RecurrenceID string `json:"recurrence_id,omitempty"`
	CreatedAt    string `json:"created_at"`
}

type ActivityListResult struct {
	Activity []ActivityView `json:"activity"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toTimeEntryView(e *timetrack.TimeEntry) TimeEntryView {
	view := TimeEntryView{
		ID:             e.ID,
		WorkItemID:     e.WorkItemID,
		WorkerID:       e.WorkerID,
		State:          string(e.State()),
		StartedAt:      formatTime(e.StartedAt),
		EndedAt:        formatTimePtr(e.EndedAt),
		PauseIntervals: make([]PauseView, 0, len(e.PauseIntervals)),
		ActiveMinutes:  e.ActiveMinutes,
		Notes:          e.Notes,
	}
	for _, p := range e.PauseIntervals {
		view.PauseIntervals = append(view.PauseIntervals, PauseView{
			PausedAt:  formatTime(p.PausedAt),
			ResumedAt: formatTimePtr(p.ResumedAt),
		})
	}
	if e.EndedAt != nil {
		view.Duration = timetrack.FormatMinutes(e.ActiveMinutes)
	}
	return view
}

func toTimeEntryViews(entries []timetrack.TimeEntry) []TimeEntryView {
	views := make([]TimeEntryView, 0, len(entries))
	for i := range entries {
		views = append(views, toTimeEntryView(&entries[i]))
	}
	return views
}

func toWorkItemView(w *workitem.WorkItem) WorkItemView {
	return WorkItemView{
		ID:            w.ID,
		Title:         w.Title,
		Description:   w.Description,
		Location:      w.Location,
		Priority:      string(w.Priority),
		AssignedTo:    deref(w.AssignedTo),
		Status:        string(w.Status),
		RecurrenceID:  deref(w.RecurrenceID),
		OccurrenceKey: deref(w.OccurrenceKey),
		TotalMinutes:  w.TotalMinutes,
		TotalTime:     timetrack.FormatMinutes(w.TotalMinutes),
		DueAt:         formatTimePtr(w.DueAt),
		CreatedAt:     formatTime(w.CreatedAt),
		UpdatedAt:     formatTime(w.UpdatedAt),
		CompletedAt:   formatTimePtr(w.CompletedAt),
	}
}

func toWorkItemViews(items []workitem.WorkItem) []WorkItemView {
	views := make([]WorkItemView, 0, len(items))
	for i := range items {
		views = append(views, toWorkItemView(&items[i]))
	}
	return views
}

func toRecurrenceView(d *recurrence.Definition) RecurrenceView {
	return RecurrenceView{
		ID:              d.ID,
		Title:           d.Title,
		Description:     d.Description,
		Location:        d.Location,
		Priority:        string(d.Priority),
		AssignedTo:      deref(d.AssignedTo),
		Frequency:       string(d.Frequency),
		DayOfWeek:       d.DayOfWeek,
		DayOfMonth:      d.DayOfMonth,
		Month:           d.Month,
		LastGeneratedAt: formatTimePtr(d.LastGeneratedAt),
		NextDueAt:       formatTimePtr(d.NextDueAt),
		Active:          d.Active,
		CreatedAt:       formatTime(d.CreatedAt),
		UpdatedAt:       formatTime(d.UpdatedAt),
	}
}

func toRecurrenceViews(defs []recurrence.Definition) []RecurrenceView {
	views := make([]RecurrenceView, 0, len(defs))
	for i := range defs {
		views = append(views, toRecurrenceView(&defs[i]))
	}
	return views
}

func toActivityViews(entries []activity.ActivityEntry) []ActivityView {
	views := make([]ActivityView, 0, len(entries))
	for _, e := range entries {
		views = append(views, ActivityView{
			ID:           e.ID,
			Type:         string(e.ActivityType),
			Summary:      e.Summary,
			Details:      e.Details,
			WorkItemID:   deref(e.WorkItemID),
			EntryID:      deref(e.EntryID),
			RecurrenceID: deref(e.RecurrenceID),
			CreatedAt:    formatTime(e.CreatedAt),
		})
	}
	return views
}
