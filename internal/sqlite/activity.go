package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/hotelops/upkeep/internal/domain/activity"
)

// ActivityRepository implements activity.Repository for SQLite
type ActivityRepository struct {
	db *DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Log inserts a new activity entry
func (r *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO activity_log (
			work_item_id, entry_id, recurrence_id,
			activity_type, summary, details, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.WorkItemID,
		entry.EntryID,
		entry.RecurrenceID,
		entry.ActivityType,
		entry.Summary,
		entry.Details,
		formatTime(createdAt),
	)
	if err != nil {
		return wrapError("log activity", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		entry.ID = id
	}
	entry.CreatedAt = createdAt

	return nil
}

// List returns activity entries matching the given filters, newest first
func (r *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	query := `
		SELECT
			id, work_item_id, entry_id, recurrence_id,
			activity_type, summary, details, created_at
		FROM activity_log`

	var args []any
	var conditions []string

	if opts.WorkItemID != nil {
		conditions = append(conditions, "work_item_id = ?")
		args = append(args, *opts.WorkItemID)
	}
	if opts.RecurrenceID != nil {
		conditions = append(conditions, "recurrence_id = ?")
		args = append(args, *opts.RecurrenceID)
	}
	if opts.ActivityType != nil {
		conditions = append(conditions, "activity_type = ?")
		args = append(args, *opts.ActivityType)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY created_at DESC, id DESC"
	query, args = paginate(query, args, opts.Limit, opts.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapError("list activity", err)
	}
	defer rows.Close()

	var entries []activity.ActivityEntry
	for rows.Next() {
		var entry activity.ActivityEntry
		var workItemID, entryID, recurrenceID sql.NullString
		var createdAt string
		if err := rows.Scan(
			&entry.ID,
			&workItemID,
			&entryID,
			&recurrenceID,
			&entry.ActivityType,
			&entry.Summary,
			&entry.Details,
			&createdAt,
		); err != nil {
			return nil, wrapError("scan activity entry", err)
		}
		entry.WorkItemID = nullString(workItemID)
		entry.EntryID = nullString(entryID)
		entry.RecurrenceID = nullString(recurrenceID)
		if entry.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapError("iterate activity rows", err)
	}

	return entries, nil
}
