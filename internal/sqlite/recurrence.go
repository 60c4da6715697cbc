package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hotelops/upkeep/internal/domain/recurrence"
	"github.com/hotelops/upkeep/internal/repository"
)

// RecurrenceRepository implements recurrence.Repository for SQLite
type RecurrenceRepository struct {
	db *DB
}

// NewRecurrenceRepository creates a new RecurrenceRepository
func NewRecurrenceRepository(db *DB) *RecurrenceRepository {
	return &RecurrenceRepository{db: db}
}

const recurrenceColumns = `
	id, title, description, location, priority, assigned_to,
	frequency, day_of_week, day_of_month, month,
	last_generated_at, next_due_at, active, created_at, updated_at`

// Create inserts a new recurrence definition
func (r *RecurrenceRepository) Create(ctx context.Context, def *recurrence.Definition) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO recurrences (`+recurrenceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		def.ID,
		def.Title,
		def.Description,
		def.Location,
		def.Priority,
		def.AssignedTo,
		def.Frequency,
		def.DayOfWeek,
		def.DayOfMonth,
		def.Month,
		formatTimePtr(def.LastGeneratedAt),
		formatTimePtr(def.NextDueAt),
		def.Active,
		formatTime(def.CreatedAt),
		formatTime(def.UpdatedAt),
	)
	return wrapError("create recurrence", err)
}

// Get retrieves a recurrence definition by ID
func (r *RecurrenceRepository) Get(ctx context.Context, id string) (*recurrence.Definition, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+recurrenceColumns+` FROM recurrences WHERE id = ?`, id)
	def, err := scanRecurrence(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, wrapError("get recurrence", err)
	}
	return def, nil
}

// Update writes the template, schedule and active flag of a definition.
// last_generated_at belongs to the scheduler and is left untouched.
func (r *RecurrenceRepository) Update(ctx context.Context, def *recurrence.Definition) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE recurrences
		SET title = ?, description = ?, location = ?, priority = ?, assigned_to = ?,
			frequency = ?, day_of_week = ?, day_of_month = ?, month = ?,
			next_due_at = ?, active = ?, updated_at = ?
		WHERE id = ?`,
		def.Title,
		def.Description,
		def.Location,
		def.Priority,
		def.AssignedTo,
		def.Frequency,
		def.DayOfWeek,
		def.DayOfMonth,
		def.Month,
		formatTimePtr(def.NextDueAt),
		def.Active,
		formatTime(def.UpdatedAt),
		def.ID,
	)
	if err != nil {
		return wrapError("update recurrence", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return wrapError("get rows affected", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a definition; produced work items keep a null recurrence_id
func (r *RecurrenceRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM recurrences WHERE id = ?`, id)
	if err != nil {
		return wrapError("delete recurrence", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return wrapError("get rows affected", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// List returns definitions ordered by title
func (r *RecurrenceRepository) List(ctx context.Context, opts recurrence.ListOptions) ([]recurrence.Definition, error) {
	query := `SELECT ` + recurrenceColumns + ` FROM recurrences`
	var args []any
	if opts.ActiveOnly {
		query += " WHERE active = 1"
	}
	query += " ORDER BY title, id"
	query, args = paginate(query, args, opts.Limit, opts.Offset)

	return r.query(ctx, "list recurrences", query, args...)
}

// FindDue returns active definitions that are due at now or were never scheduled
func (r *RecurrenceRepository) FindDue(ctx context.Context, now time.Time) ([]recurrence.Definition, error) {
	return r.query(ctx, "find due recurrences", `
		SELECT `+recurrenceColumns+` FROM recurrences
		WHERE active = 1 AND (next_due_at IS NULL OR next_due_at <= ?)
		ORDER BY next_due_at, id`,
		formatTime(now),
	)
}

// Materialize advances a definition and inserts the produced work item in
// one transaction. The advance is a compare-and-swap on next_due_at, and the
// item's unique occurrence key rejects a second copy of the same occurrence.
func (r *RecurrenceRepository) Materialize(ctx context.Context, m recurrence.Materialization) error {
	if m.Item == nil {
		return fmt.Errorf("failed to materialize occurrence: %w", repository.ErrInvalidInput)
	}

	err := r.db.inTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE recurrences
			SET last_generated_at = ?, next_due_at = ?, updated_at = ?
			WHERE id = ? AND next_due_at IS ?`,
			formatTime(m.LastGeneratedAt),
			formatTime(m.NextDueAt),
			formatTime(m.LastGeneratedAt),
			m.DefinitionID,
			formatTimePtr(m.ExpectedNextDue),
		)
		if err != nil {
			return wrapError("advance recurrence", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return wrapError("get rows affected", err)
		}
		if affected == 0 {
			return missingOrConflict(ctx, tx, "recurrences", m.DefinitionID)
		}

		if err := insertWorkItem(ctx, tx, m.Item); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return fmt.Errorf("inserting occurrence for %s: %w", m.DefinitionID, recurrence.ErrDuplicateOccurrence)
			}
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, recurrence.ErrDuplicateOccurrence) || errors.Is(err, repository.ErrConflict) || errors.Is(err, repository.ErrNotFound) ||
			errors.Is(err, repository.ErrUnavailable) || errors.Is(err, repository.ErrForeignKeyViolation) {
			return err
		}
		return wrapError("materialize occurrence", err)
	}
	return nil
}

func (r *RecurrenceRepository) query(ctx context.Context, op, query string, args ...any) ([]recurrence.Definition, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapError(op, err)
	}
	defer rows.Close()

	var defs []recurrence.Definition
	for rows.Next() {
		def, err := scanRecurrence(rows)
		if err != nil {
			return nil, wrapError("scan recurrence", err)
		}
		defs = append(defs, *def)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError(op, err)
	}
	return defs, nil
}

func scanRecurrence(row rowScanner) (*recurrence.Definition, error) {
	var def recurrence.Definition
	var assignedTo, lastGenerated, nextDue sql.NullString
	var createdAt, updatedAt string

	if err := row.Scan(
		&def.ID,
		&def.Title,
		&def.Description,
		&def.Location,
		&def.Priority,
		&assignedTo,
		&def.Frequency,
		&def.DayOfWeek,
		&def.DayOfMonth,
		&def.Month,
		&lastGenerated,
		&nextDue,
		&def.Active,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	def.AssignedTo = nullString(assignedTo)

	var err error
	if def.LastGeneratedAt, err = parseNullTime(lastGenerated); err != nil {
		return nil, err
	}
	if def.NextDueAt, err = parseNullTime(nextDue); err != nil {
		return nil, err
	}
	if def.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if def.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &def, nil
}
