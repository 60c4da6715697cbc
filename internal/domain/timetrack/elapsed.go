package timetrack

import (
	"fmt"
	"sort"
	"time"
)

// ActiveDuration returns the time between start and end not covered by
// pauses. An open pause runs until end. Pauses are clipped to [start, end]
// and merged where they overlap, so the result is never negative.
func ActiveDuration(start, end time.Time, pauses []PauseInterval) time.Duration {
	if !end.After(start) {
		return 0
	}

	type span struct{ from, to time.Time }
	spans := make([]span, 0, len(pauses))
	for _, p := range pauses {
		from := p.PausedAt
		if from.Before(start) {
			from = start
		}
		to := end
		if p.ResumedAt != nil && p.ResumedAt.Before(end) {
			to = *p.ResumedAt
		}
		if to.After(from) {
			spans = append(spans, span{from: from, to: to})
		}
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].from.Before(spans[j].from) })

	var paused time.Duration
	var cursor time.Time
	for _, sp := range spans {
		if sp.from.Before(cursor) {
			sp.from = cursor
		}
		if sp.to.After(sp.from) {
			paused += sp.to.Sub(sp.from)
			cursor = sp.to
		}
	}

	active := end.Sub(start) - paused
	if active < 0 {
		return 0
	}
	return active
}

// ActiveMinutes rounds d to the nearest whole minute.
func ActiveMinutes(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	return int64(d.Round(time.Minute) / time.Minute)
}

// FormatClock formats d as HH:MM:SS, truncating sub-second precision.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	seconds := int64(d / time.Second)
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// FormatMinutes formats a minute count like "2h 15m", "2h" or "45m".
func FormatMinutes(minutes int64) string {
	if minutes < 0 {
		minutes = 0
	}
	h := minutes / 60
	m := minutes % 60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dm", h, m)
	}
}
