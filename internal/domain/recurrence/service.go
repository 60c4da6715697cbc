package recurrence

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
	"github.com/hotelops/upkeep/internal/domain/workitem"
	"github.com/hotelops/upkeep/internal/repository"
)

// Service manages recurrence definitions.
type Service struct {
	repo       Repository
	activities ActivityRepository
	evaluator  Evaluator
	clock      clock.Clock
	logger     *slog.Logger
}

// NewService creates a new recurrence service.
func NewService(repo Repository, activities ActivityRepository, evaluator Evaluator, clk clock.Clock, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		repo:       repo,
		activities: activities,
		evaluator:  evaluator,
		clock:      clock.OrSystem(clk),
		logger:     logger,
	}
}

// Descriptor is the schedule part of a definition. Nil day and month
// fields take their defaults.
type Descriptor struct {
	Frequency  Frequency
	DayOfWeek  *int
	DayOfMonth *int
	Month      *int
}

// CreateRequest describes a new recurrence definition.
type CreateRequest struct {
	Title       string
	Description string
	Location    string
	Priority    workitem.Priority
	AssignedTo  *string
	Schedule    Descriptor
	// Inactive creates the definition switched off.
	Inactive bool
}

// UpdateRequest carries the fields to change; nil fields are left alone.
type UpdateRequest struct {
	Title       *string
	Description *string
	Location    *string
	Priority    *workitem.Priority
	AssignedTo  *string
	Frequency   *Frequency
	DayOfWeek   *int
	DayOfMonth  *int
	Month       *int
}

func applyDescriptor(def *Definition, d Descriptor) {
	def.Frequency = d.Frequency
	def.DayOfWeek = DefaultDayOfWeek
	def.DayOfMonth = DefaultDayOfMonth
	def.Month = DefaultMonth
	if d.DayOfWeek != nil {
		def.DayOfWeek = *d.DayOfWeek
	}
	if d.DayOfMonth != nil {
		def.DayOfMonth = *d.DayOfMonth
	}
	if d.Month != nil {
		def.Month = *d.Month
	}
}

// Create validates and stores a definition with its first next due time.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Definition, error) {
	now := s.clock.Now()
	def := &Definition{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Location:    strings.TrimSpace(req.Location),
		Priority:    req.Priority,
		AssignedTo:  req.AssignedTo,
		Active:      !req.Inactive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if def.Priority == "" {
		def.Priority = workitem.PriorityMedium
	}
	applyDescriptor(def, req.Schedule)

	if err := Validate(def); err != nil {
		return nil, err
	}

	next, err := s.evaluator.NextOccurrence(def, now)
	if err != nil {
		return nil, err
	}
	def.NextDueAt = &next

	if err := s.repo.Create(ctx, def); err != nil {
		return nil, storeError("creating recurrence", err)
	}

	s.logger.Info("recurrence created", "id", def.ID, "frequency", def.Frequency, "next_due_at", next)
	s.logActivity(ctx, def.ID, fmt.Sprintf("created %s recurrence %q", def.Frequency, def.Title))
	return def, nil
}

// Get returns a definition by ID.
func (s *Service) Get(ctx context.Context, id string) (*Definition, error) {
	def, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDefinitionNotFound
		}
		return nil, storeError("getting recurrence", err)
	}
	return def, nil
}

// List returns definitions, optionally only active ones.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]Definition, error) {
	defs, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, storeError("listing recurrences", err)
	}
	return defs, nil
}

// Update edits a definition. Changing the schedule recomputes the next
// due time from now.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*Definition, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *current
	if req.Title != nil {
		updated.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		updated.Description = strings.TrimSpace(*req.Description)
	}
	if req.Location != nil {
		updated.Location = strings.TrimSpace(*req.Location)
	}
	if req.Priority != nil {
		updated.Priority = *req.Priority
	}
	if req.AssignedTo != nil {
		if *req.AssignedTo == "" {
			updated.AssignedTo = nil
		} else {
			updated.AssignedTo = req.AssignedTo
		}
	}
	if req.Frequency != nil {
		updated.Frequency = *req.Frequency
	}
	if req.DayOfWeek != nil {
		updated.DayOfWeek = *req.DayOfWeek
	}
	if req.DayOfMonth != nil {
		updated.DayOfMonth = *req.DayOfMonth
	}
	if req.Month != nil {
		updated.Month = *req.Month
	}

	if err := Validate(&updated); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if !updated.scheduleEquals(current) {
		next, err := s.evaluator.NextOccurrence(&updated, now)
		if err != nil {
			return nil, err
		}
		updated.NextDueAt = &next
	}
	updated.UpdatedAt = now

	if err := s.repo.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDefinitionNotFound
		}
		return nil, storeError("updating recurrence", err)
	}

	s.logActivity(ctx, updated.ID, fmt.Sprintf("updated recurrence %q", updated.Title))
	return &updated, nil
}

// SetActive switches a definition on or off. Activation recomputes the next
// due time from now so missed occurrences are not produced in a burst.
func (s *Service) SetActive(ctx context.Context, id string, active bool) (*Definition, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Active == active {
		return current, nil
	}

	updated := *current
	updated.Active = active
	now := s.clock.Now()
	if active {
		next, err := s.evaluator.NextOccurrence(&updated, now)
		if err != nil {
			return nil, err
		}
		updated.NextDueAt = &next
	}
	updated.UpdatedAt = now

	if err := s.repo.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDefinitionNotFound
		}
		return nil, storeError("updating recurrence", err)
	}

	state := "deactivated"
	if active {
		state = "activated"
	}
	s.logActivity(ctx, updated.ID, fmt.Sprintf("%s recurrence %q", state, updated.Title))
	return &updated, nil
}

// Delete removes a definition. Work items it produced are kept.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrDefinitionNotFound
		}
		return storeError("deleting recurrence", err)
	}
	s.logActivity(ctx, id, "deleted recurrence")
	return nil
}

// ComputeNextDue evaluates a descriptor without storing anything.
func (s *Service) ComputeNextDue(d Descriptor, after time.Time) (time.Time, error) {
	def := &Definition{}
	applyDescriptor(def, d)
	return s.evaluator.NextOccurrence(def, after)
}

// Evaluator returns the evaluator used for schedule computations.
func (s *Service) Evaluator() Evaluator {
	return s.evaluator
}

func (s *Service) logActivity(ctx context.Context, id, summary string) {
	if s.activities == nil {
		return
	}
	_ = s.activities.Log(ctx, &activity.ActivityEntry{
		RecurrenceID: &id,
		ActivityType: activity.TypeRecurrenceChanged,
		Summary:      summary,
		CreatedAt:    s.clock.Now(),
	})
}

func storeError(op string, err error) error {
	if errors.Is(err, repository.ErrUnavailable) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
