// Package scheduler turns due recurrence definitions into work items.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hotelops/upkeep/internal/clock"
	"github.com/hotelops/upkeep/internal/domain/activity"
	"github.com/hotelops/upkeep/internal/domain/recurrence"
	"github.com/hotelops/upkeep/internal/domain/workitem"
	"github.com/hotelops/upkeep/internal/repository"
	"golang.org/x/sync/semaphore"
)

// ErrDefinitionNotFound is returned by RunNow for an unknown definition.
var ErrDefinitionNotFound = recurrence.ErrDefinitionNotFound

// Store is the slice of the recurrence store the scheduler needs.
type Store interface {
	FindDue(ctx context.Context, now time.Time) ([]recurrence.Definition, error)
	Get(ctx context.Context, id string) (*recurrence.Definition, error)
	Materialize(ctx context.Context, m recurrence.Materialization) error
}

// Notifier is told about every work item the scheduler creates.
type Notifier interface {
	WorkItemCreated(ctx context.Context, item workitem.WorkItem) error
}

// ActivityRepository logs scheduler activities.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
}

// Options tunes the scheduler.
type Options struct {
	// StoreTimeout bounds each store call.
	StoreTimeout time.Duration
}

// Service runs scheduler ticks. At most one tick runs at a time per Service.
type Service struct {
	store      Store
	evaluator  recurrence.Evaluator
	notifier   Notifier
	activities ActivityRepository
	clock      clock.Clock
	opts       Options
	logger     *slog.Logger
	sem        *semaphore.Weighted
}

// NewService creates a scheduler. notifier and activities may be nil.
func NewService(
	store Store,
	evaluator recurrence.Evaluator,
	notifier Notifier,
	activities ActivityRepository,
	clk clock.Clock,
	opts Options,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		store:      store,
		evaluator:  evaluator,
		notifier:   notifier,
		activities: activities,
		clock:      clock.OrSystem(clk),
		opts:       opts,
		logger:     logger,
		sem:        semaphore.NewWeighted(1),
	}
}

// TickResult summarises one scheduler run.
type TickResult struct {
	// Skipped is set when another tick was already in flight.
	Skipped bool
	Due     int
	// Materialized lists the IDs of created work items.
	Materialized []string
	// Raced counts occurrences another process produced first.
	Raced  int
	Failed map[string]error
}

// Tick materializes every due definition once. It returns immediately with
// Skipped set if a tick is already running.
func (s *Service) Tick(ctx context.Context) (TickResult, error) {
	if !s.sem.TryAcquire(1) {
		s.logger.Debug("scheduler tick skipped, previous tick still running")
		return TickResult{Skipped: true}, nil
	}
	defer s.sem.Release(1)

	return s.tick(ctx)
}

func (s *Service) tick(ctx context.Context) (TickResult, error) {
	now := s.clock.Now()
	result := TickResult{Failed: map[string]error{}}

	findCtx, cancel := s.storeContext(ctx)
	due, err := s.store.FindDue(findCtx, now)
	cancel()
	if err != nil {
		return result, fmt.Errorf("finding due recurrences: %w", err)
	}
	result.Due = len(due)

	for i := range due {
		def := &due[i]
		item, err := s.materialize(ctx, def, now, occurrenceKey(def))
		switch {
		case err == nil:
			result.Materialized = append(result.Materialized, item.ID)
		case errors.Is(err, repository.ErrConflict):
			// Another process advanced the definition first.
			result.Raced++
			s.logger.Debug("occurrence already materialized", "recurrence_id", def.ID)
		default:
			result.Failed[def.ID] = err
			s.logger.Error("failed to materialize occurrence", "recurrence_id", def.ID, "error", err)
			s.logActivity(ctx, def.ID, nil, activity.TypeOccurrenceFailed,
				fmt.Sprintf("failed to create work item for %q", def.Title), err.Error())
		}
	}

	s.logger.Info("scheduler tick complete",
		"due", result.Due,
		"materialized", len(result.Materialized),
		"raced", result.Raced,
		"failed", len(result.Failed))
	return result, nil
}

// RunNow materializes one occurrence of a definition regardless of its
// schedule or active flag. It waits for an in-flight tick to finish.
func (s *Service) RunNow(ctx context.Context, definitionID string) (*workitem.WorkItem, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.sem.Release(1)

	getCtx, cancel := s.storeContext(ctx)
	def, err := s.store.Get(getCtx, definitionID)
	cancel()
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDefinitionNotFound
		}
		return nil, storeError("loading recurrence", err)
	}

	now := s.clock.Now()
	item, err := s.materialize(ctx, def, now, manualOccurrenceKey(def.ID, now))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDefinitionNotFound
		}
		return nil, err
	}
	return item, nil
}

// Run ticks every interval until ctx is cancelled. A tick in progress when
// ctx is cancelled runs to completion.
func (s *Service) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("scheduler interval must be positive, got %s", interval)
	}

	s.logger.Info("scheduler started", "interval", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.runTick(ctx)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return nil
		case <-ticker.C:
			s.runTick(ctx)
		}
	}
}

func (s *Service) runTick(ctx context.Context) {
	if _, err := s.Tick(context.WithoutCancel(ctx)); err != nil {
		s.logger.Error("scheduler tick failed", "error", err)
	}
}

func (s *Service) materialize(ctx context.Context, def *recurrence.Definition, now time.Time, key string) (*workitem.WorkItem, error) {
	next, err := s.evaluator.NextOccurrence(def, now)
	if err != nil {
		return nil, fmt.Errorf("computing next occurrence: %w", err)
	}
	if !next.After(now) {
		return nil, fmt.Errorf("next occurrence %s does not advance past %s: %w",
			next.Format(time.RFC3339), now.Format(time.RFC3339), recurrence.ErrInvalidRecurrence)
	}

	dueAt := now
	if def.NextDueAt != nil && def.NextDueAt.Before(now) {
		dueAt = *def.NextDueAt
	}
	defID := def.ID
	item := &workitem.WorkItem{
		ID:            uuid.NewString(),
		Title:         def.Title,
		Description:   def.Description,
		Location:      def.Location,
		Priority:      def.Priority,
		AssignedTo:    def.AssignedTo,
		Status:        workitem.StatusOpen,
		RecurrenceID:  &defID,
		OccurrenceKey: &key,
		DueAt:         &dueAt,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	writeCtx, cancel := s.storeContext(ctx)
	err = s.store.Materialize(writeCtx, recurrence.Materialization{
		Item:            item,
		DefinitionID:    def.ID,
		ExpectedNextDue: def.NextDueAt,
		LastGeneratedAt: now,
		NextDueAt:       next,
	})
	cancel()
	if err != nil {
		if errors.Is(err, repository.ErrConflict) || errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		if errors.Is(err, recurrence.ErrDuplicateOccurrence) {
			return nil, fmt.Errorf("schedule for %s did not advance: %w", def.ID, err)
		}
		return nil, storeError("materializing occurrence", err)
	}

	s.logger.Info("work item created from recurrence",
		"recurrence_id", def.ID, "work_item_id", item.ID, "next_due_at", next)
	s.logActivity(ctx, def.ID, &item.ID, activity.TypeOccurrenceMaterialized,
		fmt.Sprintf("created work item %q", item.Title), "")

	if s.notifier != nil {
		if err := s.notifier.WorkItemCreated(ctx, *item); err != nil {
			s.logger.Warn("failed to notify work item creation", "work_item_id", item.ID, "error", err)
		}
	}
	return item, nil
}

func (s *Service) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.StoreTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.opts.StoreTimeout)
}

func (s *Service) logActivity(ctx context.Context, recurrenceID string, workItemID *string, kind activity.ActivityType, summary, details string) {
	if s.activities == nil {
		return
	}
	err := s.activities.Log(ctx, &activity.ActivityEntry{
		WorkItemID:   workItemID,
		RecurrenceID: &recurrenceID,
		ActivityType: kind,
		Summary:      summary,
		Details:      details,
		CreatedAt:    s.clock.Now(),
	})
	if err != nil {
		s.logger.Warn("failed to log activity", "recurrence_id", recurrenceID, "activity_type", kind, "error", err)
	}
}

// occurrenceKey identifies a scheduled occurrence by its definition and the
// due time it was produced for.
func occurrenceKey(def *recurrence.Definition) string {
	if def.NextDueAt == nil {
		return def.ID + ":initial"
	}
	return def.ID + ":" + def.NextDueAt.UTC().Format(time.RFC3339)
}

func manualOccurrenceKey(id string, now time.Time) string {
	return id + "@manual:" + now.UTC().Format(time.RFC3339Nano)
}

func storeError(op string, err error) error {
	if errors.Is(err, repository.ErrUnavailable) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %w", op, recurrence.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
