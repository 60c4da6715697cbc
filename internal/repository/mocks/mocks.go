package mocks

import (
	"context"
	"time"

	"github.com/hotelops/upkeep/internal/domain/activity"
	"github.com/hotelops/upkeep/internal/domain/recurrence"
	"github.com/hotelops/upkeep/internal/domain/timetrack"
	"github.com/hotelops/upkeep/internal/domain/workitem"
	"github.com/stretchr/testify/mock"
)

// WorkItemRepository is a mock for workitem.Repository.
type WorkItemRepository struct {
	mock.Mock
}

func (m *WorkItemRepository) Create(ctx context.Context, item *workitem.WorkItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *WorkItemRepository) Get(ctx context.Context, id string) (*workitem.WorkItem, error) {
	args := m.Called(ctx, id)
	if item, ok := args.Get(0).(*workitem.WorkItem); ok {
		return item, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *WorkItemRepository) List(ctx context.Context, opts workitem.ListOptions) ([]workitem.WorkItem, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]workitem.WorkItem); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *WorkItemRepository) UpdateStatus(ctx context.Context, id string, from, to workitem.Status, at time.Time) error {
	args := m.Called(ctx, id, from, to, at)
	return args.Error(0)
}

// TimeEntryRepository is a mock for timetrack.EntryRepository.
type TimeEntryRepository struct {
	mock.Mock
}

func (m *TimeEntryRepository) Get(ctx context.Context, id string) (*timetrack.TimeEntry, error) {
	args := m.Called(ctx, id)
	if entry, ok := args.Get(0).(*timetrack.TimeEntry); ok {
		return entry, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TimeEntryRepository) FindOpen(ctx context.Context, workItemID string) (*timetrack.TimeEntry, error) {
	args := m.Called(ctx, workItemID)
	if entry, ok := args.Get(0).(*timetrack.TimeEntry); ok {
		return entry, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TimeEntryRepository) ListByWorkItem(ctx context.Context, workItemID string) ([]timetrack.TimeEntry, error) {
	args := m.Called(ctx, workItemID)
	if list, ok := args.Get(0).([]timetrack.TimeEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TimeEntryRepository) InsertIfNoneOpen(ctx context.Context, entry *timetrack.TimeEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *TimeEntryRepository) Update(ctx context.Context, entry *timetrack.TimeEntry, expectedVersion int64) error {
	args := m.Called(ctx, entry, expectedVersion)
	return args.Error(0)
}

func (m *TimeEntryRepository) Close(ctx context.Context, entry *timetrack.TimeEntry, expectedVersion int64) error {
	args := m.Called(ctx, entry, expectedVersion)
	return args.Error(0)
}

// RecurrenceRepository is a mock for recurrence.Repository.
type RecurrenceRepository struct {
	mock.Mock
}

func (m *RecurrenceRepository) Create(ctx context.Context, def *recurrence.Definition) error {
	args := m.Called(ctx, def)
	return args.Error(0)
}

func (m *RecurrenceRepository) Get(ctx context.Context, id string) (*recurrence.Definition, error) {
	args := m.Called(ctx, id)
	if def, ok := args.Get(0).(*recurrence.Definition); ok {
		return def, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RecurrenceRepository) Update(ctx context.Context, def *recurrence.Definition) error {
	args := m.Called(ctx, def)
	return args.Error(0)
}

func (m *RecurrenceRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *RecurrenceRepository) List(ctx context.Context, opts recurrence.ListOptions) ([]recurrence.Definition, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]recurrence.Definition); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RecurrenceRepository) FindDue(ctx context.Context, now time.Time) ([]recurrence.Definition, error) {
	args := m.Called(ctx, now)
	if list, ok := args.Get(0).([]recurrence.Definition); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RecurrenceRepository) Materialize(ctx context.Context, mat recurrence.Materialization) error {
	args := m.Called(ctx, mat)
	return args.Error(0)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// Notifier is a mock for scheduler.Notifier.
type Notifier struct {
	mock.Mock
}

func (m *Notifier) WorkItemCreated(ctx context.Context, item workitem.WorkItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}
