package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hotelops/upkeep/internal/domain/workitem"
	"github.com/hotelops/upkeep/internal/repository"
)

// WorkItemRepository implements workitem.Repository for SQLite
type WorkItemRepository struct {
	db *DB
}

// NewWorkItemRepository creates a new WorkItemRepository
func NewWorkItemRepository(db *DB) *WorkItemRepository {
	return &WorkItemRepository{db: db}
}

const workItemColumns = `
	id, title, description, location, priority, assigned_to, status,
	recurrence_id, occurrence_key, total_minutes, due_at,
	created_at, updated_at, completed_at`

// Create inserts a new work item
func (r *WorkItemRepository) Create(ctx context.Context, item *workitem.WorkItem) error {
	return insertWorkItem(ctx, r.db, item)
}

func insertWorkItem(ctx context.Context, ex execer, item *workitem.WorkItem) error {
	query := `INSERT INTO work_items (` + workItemColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := ex.ExecContext(ctx, query,
		item.ID,
		item.Title,
		item.Description,
		item.Location,
		item.Priority,
		item.AssignedTo,
		item.Status,
		item.RecurrenceID,
		item.OccurrenceKey,
		item.TotalMinutes,
		formatTimePtr(item.DueAt),
		formatTime(item.CreatedAt),
		formatTime(item.UpdatedAt),
		formatTimePtr(item.CompletedAt),
	)
	return wrapError("create work item", err)
}

// Get retrieves a work item by ID
func (r *WorkItemRepository) Get(ctx context.Context, id string) (*workitem.WorkItem, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+workItemColumns+` FROM work_items WHERE id = ?`, id)
	item, err := scanWorkItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, wrapError("get work item", err)
	}
	return item, nil
}

// List returns work items matching the options, newest first
func (r *WorkItemRepository) List(ctx context.Context, opts workitem.ListOptions) ([]workitem.WorkItem, error) {
	query := `SELECT ` + workItemColumns + ` FROM work_items`

	var conditions []string
	var args []any
	if len(opts.Statuses) > 0 {
		placeholders := make([]string, len(opts.Statuses))
		for i, s := range opts.Statuses {
			placeholders[i] = "?"
			args = append(args, s)
		}
		conditions = append(conditions, "status IN ("+strings.Join(placeholders, ", ")+")")
	}
	if opts.RecurrenceID != nil {
		conditions = append(conditions, "recurrence_id = ?")
		args = append(args, *opts.RecurrenceID)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY created_at DESC, id"
	query, args = paginate(query, args, opts.Limit, opts.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapError("list work items", err)
	}
	defer rows.Close()

	var items []workitem.WorkItem
	for rows.Next() {
		item, err := scanWorkItem(rows)
		if err != nil {
			return nil, wrapError("scan work item", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError("iterate work items", err)
	}
	return items, nil
}

// UpdateStatus moves a work item from one status to another. It fails with
// repository.ErrConflict when the stored status is no longer from.
func (r *WorkItemRepository) UpdateStatus(ctx context.Context, id string, from, to workitem.Status, at time.Time) error {
	var completedAt any
	if to == workitem.StatusCompleted {
		completedAt = formatTime(at)
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE work_items
		SET status = ?, updated_at = ?, completed_at = COALESCE(?, completed_at)
		WHERE id = ? AND status = ?`,
		to, formatTime(at), completedAt, id, from,
	)
	if err != nil {
		return wrapError("update work item status", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return wrapError("get rows affected", err)
	}
	if affected == 0 {
		return missingOrConflict(ctx, r.db, "work_items", id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkItem(row rowScanner) (*workitem.WorkItem, error) {
	var item workitem.WorkItem
	var assignedTo, recurrenceID, occurrenceKey sql.NullString
	var dueAt, completedAt sql.NullString
	var createdAt, updatedAt string

	if err := row.Scan(
		&item.ID,
		&item.Title,
		&item.Description,
		&item.Location,
		&item.Priority,
		&assignedTo,
		&item.Status,
		&recurrenceID,
		&occurrenceKey,
		&item.TotalMinutes,
		&dueAt,
		&createdAt,
		&updatedAt,
		&completedAt,
	); err != nil {
		return nil, err
	}

	item.AssignedTo = nullString(assignedTo)
	item.RecurrenceID = nullString(recurrenceID)
	item.OccurrenceKey = nullString(occurrenceKey)

	var err error
	if item.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if item.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if item.DueAt, err = parseNullTime(dueAt); err != nil {
		return nil, err
	}
	if item.CompletedAt, err = parseNullTime(completedAt); err != nil {
		return nil, err
	}
	return &item, nil
}

// missingOrConflict explains a conditional write that touched no rows.
func missingOrConflict(ctx context.Context, ex execer, table, id string) error {
	var count int
	if err := ex.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE id = ?", table), id).Scan(&count); err != nil {
		return wrapError("check "+table, err)
	}
	if count == 0 {
		return repository.ErrNotFound
	}
	return repository.ErrConflict
}

func paginate(query string, args []any, limit, offset int) (string, []any) {
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
		if offset > 0 {
			query += " OFFSET ?"
			args = append(args, offset)
		}
	} else if offset > 0 {
		query += " LIMIT -1 OFFSET ?"
		args = append(args, offset)
	}
	return query, args
}
