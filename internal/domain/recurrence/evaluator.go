package recurrence

import (
	"fmt"
	"time"
)

// Evaluator computes occurrence times. Every occurrence falls on the nominal
// run time RunHour:RunMinute in Location.
type Evaluator struct {
	RunHour   int
	RunMinute int
	Location  *time.Location
}

// NewEvaluator creates an evaluator; a nil location means UTC.
func NewEvaluator(runHour, runMinute int, loc *time.Location) Evaluator {
	return Evaluator{RunHour: runHour, RunMinute: runMinute, Location: loc}
}

func (e Evaluator) location() *time.Location {
	if e.Location == nil {
		return time.UTC
	}
	return e.Location
}

// NextOccurrence returns the first occurrence of def strictly after after.
func (e Evaluator) NextOccurrence(def *Definition, after time.Time) (time.Time, error) {
	if def == nil {
		return time.Time{}, &ValidationError{Field: "definition", Reason: "is required"}
	}
	if err := ValidateSchedule(def); err != nil {
		return time.Time{}, err
	}

	local := after.In(e.location())
	year, month, day := local.Date()

	// Candidates are tried in order; a run time moved by a DST transition
	// must still land strictly after after.
	var candidates []time.Time
	switch def.Frequency {
	case FrequencyDaily:
		for k := 1; k <= 3; k++ {
			candidates = append(candidates, e.at(year, month, day+k))
		}

	case FrequencyWeekly:
		delta := (def.DayOfWeek - int(local.Weekday()) + 7) % 7
		if delta == 0 {
			delta = 7
		}
		for k := 0; k < 3; k++ {
			candidates = append(candidates, e.at(year, month, day+delta+7*k))
		}

	case FrequencyMonthly:
		for k := 0; k < 3; k++ {
			candidates = append(candidates, e.clamped(year, month+time.Month(k), def.DayOfMonth))
		}

	case FrequencyQuarterly:
		for k := 1; k <= 3; k++ {
			candidates = append(candidates, e.clamped(year, month+time.Month(3*k), def.DayOfMonth))
		}

	case FrequencyYearly:
		for k := 0; k < 3; k++ {
			candidates = append(candidates, e.clamped(year+k, time.Month(def.Month+1), def.DayOfMonth))
		}
	}

	for _, c := range candidates {
		if c.After(after) {
			return c, nil
		}
	}
	return time.Time{}, fmt.Errorf("no %s occurrence after %s: %w", def.Frequency, after.Format(time.RFC3339), ErrInvalidRecurrence)
}

// at builds the run time on a date; out-of-range days roll over. A run time
// inside a DST gap that falls back onto the previous date is moved to the
// first instant of the requested date.
func (e Evaluator) at(year int, month time.Month, day int) time.Time {
	t := time.Date(year, month, day, e.RunHour, e.RunMinute, 0, 0, e.location())

	want := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	y, m, d := t.Date()
	if got := time.Date(y, m, d, 0, 0, 0, 0, time.UTC); !got.Before(want) {
		return t
	}
	if _, end := t.ZoneBounds(); !end.IsZero() && end.After(t) {
		return end
	}
	return t
}

// clamped builds the run time on day of the given month, clamped to the
// month's last day. month may overflow into following years.
func (e Evaluator) clamped(year int, month time.Month, day int) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	if last := DaysInMonth(first.Year(), first.Month()); day > last {
		day = last
	}
	return e.at(first.Year(), first.Month(), day)
}

// DaysInMonth returns the number of days in the month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
