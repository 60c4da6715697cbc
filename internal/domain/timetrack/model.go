package timetrack

import "time"

// State is the tracking state of a time entry
type State string

const (
	StateRunning State = "running"
	StatePaused  State = "paused"
	StateStopped State = "stopped"
)

// PauseInterval is a span during which tracking was paused.
// ResumedAt is nil while the pause is still open.
type PauseInterval struct {
	PausedAt  time.Time  `json:"paused_at"`
	ResumedAt *time.Time `json:"resumed_at,omitempty"`
}

// TimeEntry is one tracking session of a worker on a work item
type TimeEntry struct {
	ID             string          `json:"id"`
	WorkItemID     string          `json:"work_item_id"`
	WorkerID       string          `json:"worker_id"`
	StartedAt      time.Time       `json:"started_at"`
	EndedAt        *time.Time      `json:"ended_at,omitempty"`
	PauseIntervals []PauseInterval `json:"pause_intervals"`
	ActiveMinutes  int64           `json:"active_minutes"`
	Notes          string          `json:"notes,omitempty"`
	Version        int64           `json:"version"`
}

// State derives the entry's state from its timestamps.
func (e *TimeEntry) State() State {
	if e.EndedAt != nil {
		return StateStopped
	}
	if p := e.openPause(); p != nil {
		return StatePaused
	}
	return StateRunning
}

// Open reports whether the entry has not been stopped.
func (e *TimeEntry) Open() bool {
	return e.EndedAt == nil
}

func (e *TimeEntry) openPause() *PauseInterval {
	if len(e.PauseIntervals) == 0 {
		return nil
	}
	last := &e.PauseIntervals[len(e.PauseIntervals)-1]
	if last.ResumedAt != nil {
		return nil
	}
	return last
}

// lastEventAt is the latest instant recorded on the entry.
func (e *TimeEntry) lastEventAt() time.Time {
	latest := e.StartedAt
	for _, p := range e.PauseIntervals {
		if p.PausedAt.After(latest) {
			latest = p.PausedAt
		}
		if p.ResumedAt != nil && p.ResumedAt.After(latest) {
			latest = *p.ResumedAt
		}
	}
	return latest
}

func (e *TimeEntry) clone() *TimeEntry {
	out := *e
	out.PauseIntervals = make([]PauseInterval, len(e.PauseIntervals))
	copy(out.PauseIntervals, e.PauseIntervals)
	return &out
}
