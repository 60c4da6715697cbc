package workitem

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hotelops/upkeep/internal/clock"
	"github.com/hotelops/upkeep/internal/domain/activity"
	"github.com/hotelops/upkeep/internal/repository"
)

// ActivityRepository logs work item activities.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
}

// Service handles manual work item operations.
type Service struct {
	repo       Repository
	activities ActivityRepository
	clock      clock.Clock
	logger     *slog.Logger
}

// NewService creates a new work item service.
func NewService(repo Repository, activities ActivityRepository, clk clock.Clock, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		repo:       repo,
		activities: activities,
		clock:      clock.OrSystem(clk),
		logger:     logger,
	}
}

// CreateRequest describes a manual work item creation request.
type CreateRequest struct {
	Title       string
	Description string
	Location    string
	Priority    Priority
	AssignedTo  *string
}

// Create creates a new open work item.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*WorkItem, error) {
	if err := ValidateCreateInput(req); err != nil {
		return nil, err
	}

	priority := req.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	now := s.clock.Now()
	item := &WorkItem{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Priority:    priority,
		AssignedTo:  req.AssignedTo,
		Status:      StatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("creating work item: %w", err)
	}

	s.logger.Info("work item created", "id", item.ID, "priority", item.Priority)
	s.logActivity(ctx, item.ID, activity.TypeWorkItemCreated, fmt.Sprintf("created work item %s", item.ID))
	return item, nil
}

// Get returns a work item by ID.
func (s *Service) Get(ctx context.Context, id string) (*WorkItem, error) {
	item, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkItemNotFound
		}
		return nil, fmt.Errorf("getting work item: %w", err)
	}
	return item, nil
}

// List returns work items matching opts.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]WorkItem, error) {
	return s.repo.List(ctx, opts)
}

// Transition changes a work item's status with validation.
func (s *Service) Transition(ctx context.Context, id string, to Status) (*WorkItem, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := ValidateTransition(current.Status, to); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if err := s.repo.UpdateStatus(ctx, id, current.Status, to, now); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrInvalidTransition
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkItemNotFound
		}
		return nil, fmt.Errorf("updating work item status: %w", err)
	}

	updated := *current
	updated.Status = to
	updated.UpdatedAt = now
	if to == StatusCompleted {
		updated.CompletedAt = &now
	}

	s.logger.Debug("work item status changed", "id", id, "from", current.Status, "to", to)
	s.logActivity(ctx, id, activity.TypeStatusChanged, fmt.Sprintf("%s -> %s", current.Status, to))
	return &updated, nil
}

func (s *Service) logActivity(ctx context.Context, itemID string, kind activity.ActivityType, summary string) {
	if s.activities == nil {
		return
	}
	_ = s.activities.Log(ctx, &activity.ActivityEntry{
		WorkItemID:   &itemID,
		ActivityType: kind,
		Summary:      summary,
		CreatedAt:    s.clock.Now(),
	})
}
