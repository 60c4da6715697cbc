package mcp

import (
	"context"
	"log/slog"
	"time"

	"github.com/hotelops/upkeep/internal/domain/activity"
	"github.com/hotelops/upkeep/internal/domain/recurrence"
	"github.com/hotelops/upkeep/internal/domain/timetrack"
	"github.com/hotelops/upkeep/internal/domain/workitem"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// TrackingService defines time tracking operations needed by MCP.
type TrackingService interface {
	Start(ctx context.Context, workItemID, workerID string) (*timetrack.TimeEntry, error)
	Pause(ctx context.Context, entryID string) (*timetrack.TimeEntry, error)
	Resume(ctx context.Context, entryID string) (*timetrack.TimeEntry, error)
	Stop(ctx context.Context, entryID, notes string) (*timetrack.TimeEntry, error)
	LiveElapsed(ctx context.Context, entryID string) (time.Duration, error)
	OpenEntry(ctx context.Context, workItemID string) (*timetrack.TimeEntry, error)
	ListForWorkItem(ctx context.Context, workItemID string) ([]timetrack.TimeEntry, error)
}

// WorkItemService defines work item operations needed by MCP.
type WorkItemService interface {
	Create(ctx context.Context, req workitem.CreateRequest) (*workitem.WorkItem, error)
	Get(ctx context.Context, id string) (*workitem.WorkItem, error)
	List(ctx context.Context, opts workitem.ListOptions) ([]workitem.WorkItem, error)
	Transition(ctx context.Context, id string, to workitem.Status) (*workitem.WorkItem, error)
}

// RecurrenceService defines recurrence operations needed by MCP.
type RecurrenceService interface {
	Create(ctx context.Context, req recurrence.CreateRequest) (*recurrence.Definition, error)
	Get(ctx context.Context, id string) (*recurrence.Definition, error)
	List(ctx context.Context, opts recurrence.ListOptions) ([]recurrence.Definition, error)
	Update(ctx context.Context, id string, req recurrence.UpdateRequest) (*recurrence.Definition, error)
	SetActive(ctx context.Context, id string, active bool) (*recurrence.Definition, error)
	Delete(ctx context.Context, id string) error
	ComputeNextDue(d recurrence.Descriptor, after time.Time) (time.Time, error)
}

// SchedulerService defines the manual scheduler trigger needed by MCP.
type SchedulerService interface {
	RunNow(ctx context.Context, definitionID string) (*workitem.WorkItem, error)
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Tracking    TrackingService
	WorkItems   WorkItemService
	Recurrences RecurrenceService
	Scheduler   SchedulerService
	Activity    ActivityService
}

// Config contains server configuration.
type Config struct {
	Services      Services
	TransportMode string // "stdio" or "http"
	Version       string
	Logger        *slog.Logger
	// Now reports the current time for compute_next_due; defaults to time.Now.
	Now func() time.Time
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "upkeep",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(workerMiddleware())
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services, cfg.Now)

	cfg.Logger.Debug("mcp server configured", "transport", cfg.TransportMode, "version", version)
	return server
}
