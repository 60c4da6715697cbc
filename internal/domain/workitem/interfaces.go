package workitem

import (
	"context"
	"time"
)

// Repository provides persistence for work items.
type Repository interface {
	Create(ctx context.Context, item *WorkItem) error
	Get(ctx context.Context, id string) (*WorkItem, error)
	List(ctx context.Context, opts ListOptions) ([]WorkItem, error)
	UpdateStatus(ctx context.Context, id string, from, to Status, at time.Time) error
}
