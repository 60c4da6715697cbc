package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hotelops/upkeep/internal/domain/timetrack"
	"github.com/hotelops/upkeep/internal/repository"
)

// TimeEntryRepository implements timetrack.EntryRepository for SQLite
type TimeEntryRepository struct {
	db *DB
}

// NewTimeEntryRepository creates a new TimeEntryRepository
func NewTimeEntryRepository(db *DB) *TimeEntryRepository {
	return &TimeEntryRepository{db: db}
}

const timeEntryColumns = `
	id, work_item_id, worker_id, started_at, ended_at,
	pause_intervals, active_minutes, notes, version`

// Get retrieves a time entry by ID
func (r *TimeEntryRepository) Get(ctx context.Context, id string) (*timetrack.TimeEntry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+timeEntryColumns+` FROM time_entries WHERE id = ?`, id)
	entry, err := scanTimeEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, wrapError("get time entry", err)
	}
	return entry, nil
}

// FindOpen returns the open entry of a work item
func (r *TimeEntryRepository) FindOpen(ctx context.Context, workItemID string) (*timetrack.TimeEntry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+timeEntryColumns+` FROM time_entries WHERE work_item_id = ? AND ended_at IS NULL`, workItemID)
	entry, err := scanTimeEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, wrapError("find open time entry", err)
	}
	return entry, nil
}

// ListByWorkItem returns all entries of a work item, newest first
func (r *TimeEntryRepository) ListByWorkItem(ctx context.Context, workItemID string) ([]timetrack.TimeEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+timeEntryColumns+` FROM time_entries WHERE work_item_id = ? ORDER BY started_at DESC, id`, workItemID)
	if err != nil {
		return nil, wrapError("list time entries", err)
	}
	defer rows.Close()

	var entries []timetrack.TimeEntry
	for rows.Next() {
		entry, err := scanTimeEntry(rows)
		if err != nil {
			return nil, wrapError("scan time entry", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError("iterate time entries", err)
	}
	return entries, nil
}

// InsertIfNoneOpen inserts a new open entry. The partial unique index on
// open entries turns a second open entry into repository.ErrConflict.
func (r *TimeEntryRepository) InsertIfNoneOpen(ctx context.Context, entry *timetrack.TimeEntry) error {
	pauses, err := encodePauses(entry.PauseIntervals)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO time_entries (`+timeEntryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.WorkItemID,
		entry.WorkerID,
		formatTime(entry.StartedAt),
		formatTimePtr(entry.EndedAt),
		pauses,
		entry.ActiveMinutes,
		entry.Notes,
		entry.Version,
	)
	return wrapError("insert time entry", err)
}

// Update writes the pause intervals of an open entry if its stored version
// equals expectedVersion
func (r *TimeEntryRepository) Update(ctx context.Context, entry *timetrack.TimeEntry, expectedVersion int64) error {
	return updateEntry(ctx, r.db, entry, expectedVersion)
}

// Close stops an open entry and adds its active minutes to the work item,
// both in one transaction
func (r *TimeEntryRepository) Close(ctx context.Context, entry *timetrack.TimeEntry, expectedVersion int64) error {
	if entry.EndedAt == nil {
		return fmt.Errorf("failed to close time entry: %w", repository.ErrInvalidInput)
	}

	err := r.db.inTx(ctx, func(tx *sql.Tx) error {
		if err := updateEntry(ctx, tx, entry, expectedVersion); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, `
			UPDATE work_items
			SET total_minutes = total_minutes + ?, updated_at = ?
			WHERE id = ?`,
			entry.ActiveMinutes, formatTime(*entry.EndedAt), entry.WorkItemID,
		)
		if err != nil {
			return wrapError("add work item minutes", err)
		}
		if affected, err := result.RowsAffected(); err != nil {
			return wrapError("get rows affected", err)
		} else if affected == 0 {
			return fmt.Errorf("failed to add work item minutes: %w", repository.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) || errors.Is(err, repository.ErrNotFound) ||
			errors.Is(err, repository.ErrUnavailable) {
			return err
		}
		return wrapError("close time entry", err)
	}
	return nil
}

func updateEntry(ctx context.Context, ex execer, entry *timetrack.TimeEntry, expectedVersion int64) error {
	pauses, err := encodePauses(entry.PauseIntervals)
	if err != nil {
		return err
	}

	result, err := ex.ExecContext(ctx, `
		UPDATE time_entries
		SET ended_at = ?, pause_intervals = ?, active_minutes = ?, notes = ?, version = ?
		WHERE id = ? AND version = ? AND ended_at IS NULL`,
		formatTimePtr(entry.EndedAt),
		pauses,
		entry.ActiveMinutes,
		entry.Notes,
		entry.Version,
		entry.ID,
		expectedVersion,
	)
	if err != nil {
		return wrapError("update time entry", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return wrapError("get rows affected", err)
	}
	if affected == 0 {
		return missingOrConflict(ctx, ex, "time_entries", entry.ID)
	}
	return nil
}

// storedPause is the JSON shape of a pause interval column entry.
type storedPause struct {
	PausedAt  string  `json:"paused_at"`
	ResumedAt *string `json:"resumed_at,omitempty"`
}

func encodePauses(pauses []timetrack.PauseInterval) (string, error) {
	stored := make([]storedPause, len(pauses))
	for i, p := range pauses {
		stored[i].PausedAt = formatTime(p.PausedAt)
		if p.ResumedAt != nil {
			s := formatTime(*p.ResumedAt)
			stored[i].ResumedAt = &s
		}
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return "", fmt.Errorf("failed to encode pause intervals: %w", err)
	}
	return string(data), nil
}

func decodePauses(data string) ([]timetrack.PauseInterval, error) {
	var stored []storedPause
	if err := json.Unmarshal([]byte(data), &stored); err != nil {
		return nil, fmt.Errorf("failed to decode pause intervals: %w", err)
	}
	pauses := make([]timetrack.PauseInterval, len(stored))
	for i, p := range stored {
		pausedAt, err := parseTime(p.PausedAt)
		if err != nil {
			return nil, err
		}
		pauses[i].PausedAt = pausedAt
		if p.ResumedAt != nil {
			resumedAt, err := parseTime(*p.ResumedAt)
			if err != nil {
				return nil, err
			}
			pauses[i].ResumedAt = &resumedAt
		}
	}
	return pauses, nil
}

func scanTimeEntry(row rowScanner) (*timetrack.TimeEntry, error) {
	var entry timetrack.TimeEntry
	var startedAt, pauses string
	var endedAt sql.NullString

	if err := row.Scan(
		&entry.ID,
		&entry.WorkItemID,
		&entry.WorkerID,
		&startedAt,
		&endedAt,
		&pauses,
		&entry.ActiveMinutes,
		&entry.Notes,
		&entry.Version,
	); err != nil {
		return nil, err
	}

	var err error
	if entry.StartedAt, err = parseTime(startedAt); err != nil {
		return nil, err
	}
	if entry.EndedAt, err = parseNullTime(endedAt); err != nil {
		return nil, err
	}
	if entry.PauseIntervals, err = decodePauses(pauses); err != nil {
		return nil, err
	}
	return &entry, nil
}
