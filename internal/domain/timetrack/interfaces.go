package timetrack

import (
	"context"

	"github.com/hotelops/upkeep/internal/domain/activity"
	"github.com/hotelops/upkeep/internal/domain/workitem"
)

// EntryRepository provides persistence for time entries.
//
// InsertIfNoneOpen must fail with repository.ErrConflict when an open entry
// already exists for the work item, decided atomically by the store.
// Update and Close fail with repository.ErrConflict when the stored version
// differs from expectedVersion. Close also adds entry.ActiveMinutes to the
// work item's total in the same write.
type EntryRepository interface {
	Get(ctx context.Context, id string) (*TimeEntry, error)
	FindOpen(ctx context.Context, workItemID string) (*TimeEntry, error)
	ListByWorkItem(ctx context.Context, workItemID string) ([]TimeEntry, error)
	InsertIfNoneOpen(ctx context.Context, entry *TimeEntry) error
	Update(ctx context.Context, entry *TimeEntry, expectedVersion int64) error
	Close(ctx context.Context, entry *TimeEntry, expectedVersion int64) error
}

// WorkItemRepository provides work item status lookups.
type WorkItemRepository interface {
	Get(ctx context.Context, id string) (*workitem.WorkItem, error)
}

// ActivityRepository logs tracking activities.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
}
