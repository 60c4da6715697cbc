// Package notify announces work items produced by the scheduler.
package notify

import (
	"context"
	"log/slog"

	"github.com/hotelops/upkeep/internal/domain/workitem"
)

// LogNotifier writes a structured log line for every created work item.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a notifier that logs through logger.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger.With("component", "notify")}
}

// WorkItemCreated logs the new work item.
func (n *LogNotifier) WorkItemCreated(ctx context.Context, item workitem.WorkItem) error {
	attrs := []any{
		"work_item_id", item.ID,
		"title", item.Title,
		"location", item.Location,
		"priority", item.Priority,
	}
	if item.AssignedTo != nil {
		attrs = append(attrs, "assigned_to", *item.AssignedTo)
	}
	if item.DueAt != nil {
		attrs = append(attrs, "due_at", item.DueAt.UTC())
	}
	n.logger.InfoContext(ctx, "new work item", attrs...)
	return nil
}
