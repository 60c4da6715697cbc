package timetrack

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hotelops/upkeep/internal/clock"
	"github.com/hotelops/upkeep/internal/domain/activity"
	"github.com/hotelops/upkeep/internal/repository"
)

// Options tunes the tracking service.
type Options struct {
	// StoreTimeout bounds every store call. Zero means no timeout beyond the caller's context.
	StoreTimeout time.Duration
}

// Service runs the time tracking state machine.
type Service struct {
	entries    EntryRepository
	workItems  WorkItemRepository
	activities ActivityRepository
	clock      clock.Clock
	opts       Options
	logger     *slog.Logger
}

// NewService creates a new time tracking service.
func NewService(
	entries EntryRepository,
	workItems WorkItemRepository,
	activities ActivityRepository,
	clk clock.Clock,
	opts Options,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		entries:    entries,
		workItems:  workItems,
		activities: activities,
		clock:      clock.OrSystem(clk),
		opts:       opts,
		logger:     logger,
	}
}

// Start opens a new running entry for a work item.
func (s *Service) Start(ctx context.Context, workItemID, workerID string) (*TimeEntry, error) {
	if strings.TrimSpace(workItemID) == "" || strings.TrimSpace(workerID) == "" {
		return nil, ErrInvalidInput
	}

	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	item, err := s.workItems.Get(ctx, workItemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkItemNotFound
		}
		return nil, storeError("loading work item", err)
	}
	if !item.Trackable() {
		return nil, fmt.Errorf("work item is %s: %w", item.Status, ErrInvalidState)
	}

	entry := &TimeEntry{
		ID:             uuid.NewString(),
		WorkItemID:     workItemID,
		WorkerID:       workerID,
		StartedAt:      s.clock.Now(),
		PauseIntervals: []PauseInterval{},
		Version:        1,
	}

	if err := s.entries.InsertIfNoneOpen(ctx, entry); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrConflict
		}
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, ErrWorkItemNotFound
		}
		return nil, storeError("inserting time entry", err)
	}

	s.logActivity(ctx, entry, activity.TypeTrackingStarted, fmt.Sprintf("%s started tracking", workerID))
	return entry, nil
}

// Pause appends an open pause to a running entry.
func (s *Service) Pause(ctx context.Context, entryID string) (*TimeEntry, error) {
	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	current, err := s.load(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if state := current.State(); state != StateRunning {
		return nil, fmt.Errorf("cannot pause %s entry: %w", state, ErrInvalidState)
	}

	updated := current.clone()
	updated.PauseIntervals = append(updated.PauseIntervals, PauseInterval{PausedAt: s.now(current)})
	updated.Version++

	if err := s.update(ctx, updated, current.Version); err != nil {
		return nil, err
	}

	s.logActivity(ctx, updated, activity.TypeTrackingPaused, "tracking paused")
	return updated, nil
}

// Resume closes the open pause of a paused entry.
func (s *Service) Resume(ctx context.Context, entryID string) (*TimeEntry, error) {
	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	current, err := s.load(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if state := current.State(); state != StatePaused {
		return nil, fmt.Errorf("cannot resume %s entry: %w", state, ErrInvalidState)
	}

	updated := current.clone()
	now := s.now(current)
	updated.openPause().ResumedAt = &now
	updated.Version++

	if err := s.update(ctx, updated, current.Version); err != nil {
		return nil, err
	}

	s.logActivity(ctx, updated, activity.TypeTrackingResumed, "tracking resumed")
	return updated, nil
}

// Stop closes the entry, freezes its active minutes and credits them to the work item.
func (s *Service) Stop(ctx context.Context, entryID, notes string) (*TimeEntry, error) {
	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	current, err := s.load(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if !current.Open() {
		return nil, fmt.Errorf("entry already stopped: %w", ErrInvalidState)
	}

	updated := current.clone()
	now := s.now(current)
	if p := updated.openPause(); p != nil {
		p.ResumedAt = &now
	}
	updated.EndedAt = &now
	updated.ActiveMinutes = ActiveMinutes(ActiveDuration(updated.StartedAt, now, updated.PauseIntervals))
	if notes = strings.TrimSpace(notes); notes != "" {
		updated.Notes = notes
	}
	updated.Version++

	if err := s.entries.Close(ctx, updated, current.Version); err != nil {
		return nil, s.mapWriteError("closing time entry", err)
	}

	s.logActivity(ctx, updated, activity.TypeTrackingStopped,
		fmt.Sprintf("tracking stopped after %s", FormatMinutes(updated.ActiveMinutes)))
	return updated, nil
}

// LiveElapsed returns the active time of an open entry up to now.
func (s *Service) LiveElapsed(ctx context.Context, entryID string) (time.Duration, error) {
	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	entry, err := s.load(ctx, entryID)
	if err != nil {
		return 0, err
	}
	if !entry.Open() {
		return 0, fmt.Errorf("entry already stopped: %w", ErrInvalidState)
	}
	return ActiveDuration(entry.StartedAt, s.now(entry), entry.PauseIntervals), nil
}

// Get returns a time entry by ID.
func (s *Service) Get(ctx context.Context, entryID string) (*TimeEntry, error) {
	ctx, cancel := s.storeContext(ctx)
	defer cancel()
	return s.load(ctx, entryID)
}

// OpenEntry returns the open entry of a work item.
func (s *Service) OpenEntry(ctx context.Context, workItemID string) (*TimeEntry, error) {
	if workItemID == "" {
		return nil, ErrInvalidInput
	}

	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	entry, err := s.entries.FindOpen(ctx, workItemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoOpenEntry
		}
		return nil, storeError("finding open entry", err)
	}
	return entry, nil
}

// ListForWorkItem returns all entries of a work item, newest first.
func (s *Service) ListForWorkItem(ctx context.Context, workItemID string) ([]TimeEntry, error) {
	if workItemID == "" {
		return nil, ErrInvalidInput
	}

	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	entries, err := s.entries.ListByWorkItem(ctx, workItemID)
	if err != nil {
		return nil, storeError("listing time entries", err)
	}
	return entries, nil
}

func (s *Service) load(ctx context.Context, entryID string) (*TimeEntry, error) {
	if entryID == "" {
		return nil, ErrInvalidInput
	}
	entry, err := s.entries.Get(ctx, entryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, storeError("loading time entry", err)
	}
	return entry, nil
}

func (s *Service) update(ctx context.Context, entry *TimeEntry, expectedVersion int64) error {
	if err := s.entries.Update(ctx, entry, expectedVersion); err != nil {
		return s.mapWriteError("updating time entry", err)
	}
	return nil
}

// mapWriteError translates a failed conditional write. A version conflict
// means another request changed the entry first; the caller must re-fetch.
func (s *Service) mapWriteError(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrConflict):
		return fmt.Errorf("entry changed concurrently: %w", ErrInvalidState)
	case errors.Is(err, repository.ErrNotFound):
		return ErrEntryNotFound
	default:
		return storeError(op, err)
	}
}

// now never returns an instant before the entry's last recorded event, so
// pause intervals stay ordered even if the clock steps backwards.
func (s *Service) now(entry *TimeEntry) time.Time {
	now := s.clock.Now()
	if last := entry.lastEventAt(); now.Before(last) {
		s.logger.Warn("clock behind time entry, clamping", "entry_id", entry.ID, "now", now, "last_event", last)
		return last
	}
	return now
}

func (s *Service) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.StoreTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.opts.StoreTimeout)
}

func (s *Service) logActivity(ctx context.Context, entry *TimeEntry, kind activity.ActivityType, summary string) {
	if s.activities == nil {
		return
	}
	if err := s.activities.Log(ctx, &activity.ActivityEntry{
		WorkItemID:   &entry.WorkItemID,
		EntryID:      &entry.ID,
		ActivityType: kind,
		Summary:      summary,
		CreatedAt:    s.clock.Now(),
	}); err != nil {
		s.logger.Warn("failed to log activity", "type", kind, "entry_id", entry.ID, "error", err)
	}
}

func storeError(op string, err error) error {
	if errors.Is(err, repository.ErrUnavailable) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
