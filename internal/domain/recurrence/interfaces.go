package recurrence

import (
	"context"
	"time"

	"github.com/hotelops/upkeep/internal/domain/activity"
)

// Repository provides persistence for recurrence definitions.
//
// Materialize applies a Materialization in one transaction. It fails with
// repository.ErrConflict when the definition's next due time no longer
// equals ExpectedNextDue or the occurrence key already exists, and with
// repository.ErrNotFound when the definition is gone.
type Repository interface {
	Create(ctx context.Context, def *Definition) error
	Get(ctx context.Context, id string) (*Definition, error)
	Update(ctx context.Context, def *Definition) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, opts ListOptions) ([]Definition, error)
	FindDue(ctx context.Context, now time.Time) ([]Definition, error)
	Materialize(ctx context.Context, m Materialization) error
}

// ActivityRepository logs recurrence activities.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
}
