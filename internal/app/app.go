// Package app wires the store, domain services and scheduler together.
package app

import (
	"log/slog"
	"time"

	"github.com/hotelops/upkeep/internal/clock"
	"github.com/hotelops/upkeep/internal/domain/activity"
	"github.com/hotelops/upkeep/internal/domain/recurrence"
	"github.com/hotelops/upkeep/internal/domain/timetrack"
	"github.com/hotelops/upkeep/internal/domain/workitem"
	"github.com/hotelops/upkeep/internal/mcp"
	"github.com/hotelops/upkeep/internal/notify"
	"github.com/hotelops/upkeep/internal/scheduler"
	"github.com/hotelops/upkeep/internal/sqlite"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Options configures the wiring.
type Options struct {
	Clock        clock.Clock
	Evaluator    recurrence.Evaluator
	StoreTimeout time.Duration
	// Notifier receives scheduler-created work items. Defaults to a LogNotifier.
	Notifier scheduler.Notifier
	Logger   *slog.Logger
}

// App holds every service of a running upkeep instance.
type App struct {
	DB          *sqlite.DB
	Clock       clock.Clock
	WorkItems   *workitem.Service
	Tracking    *timetrack.Service
	Recurrences *recurrence.Service
	Activity    *activity.Service
	Scheduler   *scheduler.Service
	logger      *slog.Logger
}

// New builds the services on top of db. Migrations must already be applied.
func New(db *sqlite.DB, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	clk := clock.OrSystem(opts.Clock)
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.NewLogNotifier(logger)
	}

	workItemRepo := sqlite.NewWorkItemRepository(db)
	entryRepo := sqlite.NewTimeEntryRepository(db)
	recurrenceRepo := sqlite.NewRecurrenceRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)

	return &App{
		DB:        db,
		Clock:     clk,
		WorkItems: workitem.NewService(workItemRepo, activityRepo, clk, logger.With("component", "workitem")),
		Tracking: timetrack.NewService(entryRepo, workItemRepo, activityRepo, clk,
			timetrack.Options{StoreTimeout: opts.StoreTimeout}, logger.With("component", "timetrack")),
		Recurrences: recurrence.NewService(recurrenceRepo, activityRepo, opts.Evaluator, clk,
			logger.With("component", "recurrence")),
		Activity: activity.NewService(activityRepo, clk, logger.With("component", "activity")),
		Scheduler: scheduler.NewService(recurrenceRepo, opts.Evaluator, notifier, activityRepo, clk,
			scheduler.Options{StoreTimeout: opts.StoreTimeout}, logger.With("component", "scheduler")),
		logger: logger,
	}
}

// MCPServer exposes the services as MCP tools.
func (a *App) MCPServer(transportMode, version string) *sdkmcp.Server {
	return mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Tracking:    a.Tracking,
			WorkItems:   a.WorkItems,
			Recurrences: a.Recurrences,
			Scheduler:   a.Scheduler,
			Activity:    a.Activity,
		},
		TransportMode: transportMode,
		Version:       version,
		Logger:        a.logger.With("component", "mcp"),
		Now:           a.Clock.Now,
	})
}
