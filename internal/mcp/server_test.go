package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/hotelops/upkeep/internal/domain/activity"
	"github.com/hotelops/upkeep/internal/domain/recurrence"
	"github.com/hotelops/upkeep/internal/domain/timetrack"
	"github.com/hotelops/upkeep/internal/domain/workitem"
	"github.com/hotelops/upkeep/internal/repository"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)

type trackingStub struct {
	startFn   func(context.Context, string, string) (*timetrack.TimeEntry, error)
	pauseFn   func(context.Context, string) (*timetrack.TimeEntry, error)
	resumeFn  func(context.Context, string) (*timetrack.TimeEntry, error)
	stopFn    func(context.Context, string, string) (*timetrack.TimeEntry, error)
	elapsedFn func(context.Context, string) (time.Duration, error)
	openFn    func(context.Context, string) (*timetrack.TimeEntry, error)
	listFn    func(context.Context, string) ([]timetrack.TimeEntry, error)
}

func (s trackingStub) Start(ctx context.Context, workItemID, workerID string) (*timetrack.TimeEntry, error) {
	return s.startFn(ctx, workItemID, workerID)
}
func (s trackingStub) Pause(ctx context.Context, id string) (*timetrack.TimeEntry, error) {
	return s.pauseFn(ctx, id)
}
func (s trackingStub) Resume(ctx context.Context, id string) (*timetrack.TimeEntry, error) {
	return s.resumeFn(ctx, id)
}
func (s trackingStub) Stop(ctx context.Context, id, notes string) (*timetrack.TimeEntry, error) {
	return s.stopFn(ctx, id, notes)
}
func (s trackingStub) LiveElapsed(ctx context.Context, id string) (time.Duration, error) {
	return s.elapsedFn(ctx, id)
}
func (s trackingStub) OpenEntry(ctx context.Context, workItemID string) (*timetrack.TimeEntry, error) {
	return s.openFn(ctx, workItemID)
}
func (s trackingStub) ListForWorkItem(ctx context.Context, workItemID string) ([]timetrack.TimeEntry, error) {
	return s.listFn(ctx, workItemID)
}

type workItemStub struct {
	createFn     func(context.Context, workitem.CreateRequest) (*workitem.WorkItem, error)
	getFn        func(context.Context, string) (*workitem.WorkItem, error)
	listFn       func(context.Context, workitem.ListOptions) ([]workitem.WorkItem, error)
	transitionFn func(context.Context, string, workitem.Status) (*workitem.WorkItem, error)
}

func (s workItemStub) Create(ctx context.Context, req workitem.CreateRequest) (*workitem.WorkItem, error) {
	return s.createFn(ctx, req)
}
func (s workItemStub) Get(ctx context.Context, id string) (*workitem.WorkItem, error) {
	return s.getFn(ctx, id)
}
func (s workItemStub) List(ctx context.Context, opts workitem.ListOptions) ([]workitem.WorkItem, error) {
	return s.listFn(ctx, opts)
}
func (s workItemStub) Transition(ctx context.Context, id string, to workitem.Status) (*workitem.WorkItem, error) {
	return s.transitionFn(ctx, id, to)
}

type recurrenceStub struct {
	createFn    func(context.Context, recurrence.CreateRequest) (*recurrence.Definition, error)
	getFn       func(context.Context, string) (*recurrence.Definition, error)
	listFn      func(context.Context, recurrence.ListOptions) ([]recurrence.Definition, error)
	updateFn    func(context.Context, string, recurrence.UpdateRequest) (*recurrence.Definition, error)
	setActiveFn func(context.Context, string, bool) (*recurrence.Definition, error)
	deleteFn    func(context.Context, string) error
	nextDueFn   func(recurrence.Descriptor, time.Time) (time.Time, error)
}

func (s recurrenceStub) Create(ctx context.Context, req recurrence.CreateRequest) (*recurrence.Definition, error) {
	return s.createFn(ctx, req)
}
func (s recurrenceStub) Get(ctx context.Context, id string) (*recurrence.Definition, error) {
	return s.getFn(ctx, id)
}
func (s recurrenceStub) List(ctx context.Context, opts recurrence.ListOptions) ([]recurrence.Definition, error) {
	return s.listFn(ctx, opts)
}
func (s recurrenceStub) Update(ctx context.Context, id string, req recurrence.UpdateRequest) (*recurrence.Definition, error) {
	return s.updateFn(ctx, id, req)
}
func (s recurrenceStub) SetActive(ctx context.Context, id string, active bool) (*recurrence.Definition, error) {
	return s.setActiveFn(ctx, id, active)
}
func (s recurrenceStub) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}
func (s recurrenceStub) ComputeNextDue(d recurrence.Descriptor, after time.Time) (time.Time, error) {
	return s.nextDueFn(d, after)
}

type schedulerStub struct {
	runNowFn func(context.Context, string) (*workitem.WorkItem, error)
}

func (s schedulerStub) RunNow(ctx context.Context, id string) (*workitem.WorkItem, error) {
	return s.runNowFn(ctx, id)
}

type activityStub struct {
	listFn func(context.Context, activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

func (s activityStub) GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	return s.listFn(ctx, opts)
}

func connect(t *testing.T, svcs Services) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	server := NewServer(Config{Services: svcs, TransportMode: "stdio", Now: func() time.Time { return fixedNow }})
	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	ss, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = cs.Close()
		_ = ss.Wait()
	})
	return cs
}

func callTool(t *testing.T, cs *sdkmcp.ClientSession, params *sdkmcp.CallToolParams) *sdkmcp.CallToolResult {
	t.Helper()
	if params.Arguments == nil {
		params.Arguments = map[string]any{}
	}
	res, err := cs.CallTool(context.Background(), params)
	require.NoError(t, err, "CallTool %s failed", params.Name)
	require.NotEmpty(t, res.Content, "tool %s returned no content", params.Name)
	return res
}

func resultText(t *testing.T, res *sdkmcp.CallToolResult) string {
	t.Helper()
	for _, c := range res.Content {
		if text, ok := c.(*sdkmcp.TextContent); ok {
			return text.Text
		}
	}
	t.Fatal("no text content")
	return ""
}

func decode[T any](t *testing.T, res *sdkmcp.CallToolResult) T {
	t.Helper()
	require.False(t, res.IsError, "unexpected tool error: %s", resultText(t, res))
	var out T
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
	return out
}

func requireToolError(t *testing.T, res *sdkmcp.CallToolResult, code string) {
	t.Helper()
	require.True(t, res.IsError, "expected %s, got %s", code, resultText(t, res))
	require.Contains(t, resultText(t, res), code)
}

func runningEntry(workerID string) *timetrack.TimeEntry {
	return &timetrack.TimeEntry{
		ID:             "entry-1",
		WorkItemID:     "wi-1",
		WorkerID:       workerID,
		StartedAt:      fixedNow,
		PauseIntervals: []timetrack.PauseInterval{},
		Version:        1,
	}
}

func TestServer_ListsToolsAndDocs(t *testing.T) {
	cs := connect(t, Services{})
	ctx := context.Background()

	tools, err := cs.ListTools(ctx, nil)
	require.NoError(t, err)
	names := map[string]bool{}
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{
		"start_tracking", "pause_tracking", "resume_tracking", "stop_tracking",
		"get_live_elapsed", "get_open_entry", "list_time_entries",
		"create_work_item", "get_work_item", "list_work_items", "transition_work_item",
		"create_recurrence", "update_recurrence", "set_recurrence_active", "get_recurrence",
		"list_recurrences", "delete_recurrence", "run_recurrence_now", "compute_next_due",
		"recent_activity",
	} {
		require.True(t, names[want], "missing tool %s", want)
	}
	require.Len(t, tools.Tools, 20)

	res, err := cs.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: "upkeep://docs/time-tracking"})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	require.Contains(t, res.Contents[0].Text, "45 minutes")
}

func TestServer_StartTracking(t *testing.T) {
	var gotItem, gotWorker string
	cs := connect(t, Services{Tracking: trackingStub{
		startFn: func(_ context.Context, workItemID, workerID string) (*timetrack.TimeEntry, error) {
			gotItem, gotWorker = workItemID, workerID
			return runningEntry(workerID), nil
		},
	}})

	res := callTool(t, cs, &sdkmcp.CallToolParams{
		Name:      "start_tracking",
		Arguments: map[string]any{"work_item_id": "wi-1", "worker_id": "maria"},
	})
	out := decode[TimeEntryResult](t, res)
	require.Equal(t, "wi-1", gotItem)
	require.Equal(t, "maria", gotWorker)
	require.Equal(t, "running", out.Entry.State)
	require.Equal(t, "2024-01-10T10:00:00Z", out.Entry.StartedAt)
	require.Empty(t, out.Entry.PauseIntervals)
}

func TestServer_StartTrackingWorkerFromMeta(t *testing.T) {
	var gotWorker string
	cs := connect(t, Services{Tracking: trackingStub{
		startFn: func(_ context.Context, _, workerID string) (*timetrack.TimeEntry, error) {
			gotWorker = workerID
			return runningEntry(workerID), nil
		},
	}})

	res := callTool(t, cs, &sdkmcp.CallToolParams{
		Meta:      sdkmcp.Meta{"worker_id": "joe"},
		Name:      "start_tracking",
		Arguments: map[string]any{"work_item_id": "wi-1"},
	})
	decode[TimeEntryResult](t, res)
	require.Equal(t, "joe", gotWorker)

	res = callTool(t, cs, &sdkmcp.CallToolParams{
		Name:      "start_tracking",
		Arguments: map[string]any{"work_item_id": "wi-1"},
	})
	requireToolError(t, res, CodeInvalidInput)
}

func TestServer_TrackingErrorsMapToCodes(t *testing.T) {
	cs := connect(t, Services{Tracking: trackingStub{
		startFn: func(context.Context, string, string) (*timetrack.TimeEntry, error) {
			return nil, timetrack.ErrConflict
		},
		pauseFn: func(context.Context, string) (*timetrack.TimeEntry, error) {
			return nil, fmt.Errorf("pausing: %w", timetrack.ErrInvalidState)
		},
		resumeFn: func(context.Context, string) (*timetrack.TimeEntry, error) {
			return nil, fmt.Errorf("loading: %w: %w", timetrack.ErrStoreUnavailable, repository.ErrUnavailable)
		},
		openFn: func(context.Context, string) (*timetrack.TimeEntry, error) {
			return nil, timetrack.ErrNoOpenEntry
		},
	}})

	requireToolError(t, callTool(t, cs, &sdkmcp.CallToolParams{
		Name: "start_tracking", Arguments: map[string]any{"work_item_id": "wi-1", "worker_id": "maria"},
	}), CodeAlreadyStarted)
	requireToolError(t, callTool(t, cs, &sdkmcp.CallToolParams{
		Name: "pause_tracking", Arguments: map[string]any{"entry_id": "entry-1"},
	}), CodeInvalidState)
	requireToolError(t, callTool(t, cs, &sdkmcp.CallToolParams{
		Name: "resume_tracking", Arguments: map[string]any{"entry_id": "entry-1"},
	}), CodeTryAgain)
	requireToolError(t, callTool(t, cs, &sdkmcp.CallToolParams{
		Name: "get_open_entry", Arguments: map[string]any{"work_item_id": "wi-1"},
	}), CodeNotFound)
}

func TestServer_StopAndLiveElapsed(t *testing.T) {
	cs := connect(t, Services{Tracking: trackingStub{
		stopFn: func(_ context.Context, id, notes string) (*timetrack.TimeEntry, error) {
			entry := runningEntry("maria")
			end := fixedNow.Add(time.Hour)
			pausedAt, resumedAt := fixedNow.Add(15*time.Minute), fixedNow.Add(30*time.Minute)
			entry.EndedAt = &end
			entry.PauseIntervals = []timetrack.PauseInterval{{PausedAt: pausedAt, ResumedAt: &resumedAt}}
			entry.ActiveMinutes = 45
			entry.Notes = notes
			return entry, nil
		},
		elapsedFn: func(context.Context, string) (time.Duration, error) {
			return 45*time.Minute + 7*time.Second, nil
		},
	}})

	stopped := decode[TimeEntryResult](t, callTool(t, cs, &sdkmcp.CallToolParams{
		Name: "stop_tracking", Arguments: map[string]any{"entry_id": "entry-1", "notes": "replaced filter"},
	}))
	require.Equal(t, "stopped", stopped.Entry.State)
	require.Equal(t, int64(45), stopped.Entry.ActiveMinutes)
	require.Equal(t, "45m", stopped.Entry.Duration)
	require.Equal(t, "replaced filter", stopped.Entry.Notes)
	require.Len(t, stopped.Entry.PauseIntervals, 1)

	live := decode[LiveElapsedResult](t, callTool(t, cs, &sdkmcp.CallToolParams{
		Name: "get_live_elapsed", Arguments: map[string]any{"entry_id": "entry-1"},
	}))
	require.Equal(t, int64(45*60+7), live.Seconds)
	require.Equal(t, "00:45:07", live.Display)
}

func TestServer_WorkItemTools(t *testing.T) {
	item := &workitem.WorkItem{
		ID: "wi-1", Title: "Leaking faucet", Description: "Bathroom sink", Location: "Room 214",
		Priority: workitem.PriorityHigh, Status: workitem.StatusOpen, TotalMinutes: 100,
		CreatedAt: fixedNow, UpdatedAt: fixedNow,
	}
	var gotCreate workitem.CreateRequest
	var gotOpts workitem.ListOptions
	cs := connect(t, Services{WorkItems: workItemStub{
		createFn: func(_ context.Context, req workitem.CreateRequest) (*workitem.WorkItem, error) {
			gotCreate = req
			return item, nil
		},
		listFn: func(_ context.Context, opts workitem.ListOptions) ([]workitem.WorkItem, error) {
			gotOpts = opts
			return []workitem.WorkItem{*item}, nil
		},
		transitionFn: func(context.Context, string, workitem.Status) (*workitem.WorkItem, error) {
			return nil, workitem.ErrInvalidTransition
		},
		getFn: func(context.Context, string) (*workitem.WorkItem, error) {
			return nil, workitem.ErrWorkItemNotFound
		},
	}})

	created := decode[WorkItemResult](t, callTool(t, cs, &sdkmcp.CallToolParams{
		Name: "create_work_item",
		Arguments: map[string]any{
			"title": "Leaking faucet", "description": "Bathroom sink", "location": "Room 214", "priority": "high",
		},
	}))
	require.Equal(t, workitem.PriorityHigh, gotCreate.Priority)
	require.Equal(t, "Room 214", gotCreate.Location)
	require.Equal(t, "1h 40m", created.WorkItem.TotalTime)

	list := decode[WorkItemListResult](t, callTool(t, cs, &sdkmcp.CallToolParams{
		Name: "list_work_items", Arguments: map[string]any{"statuses": []string{"open", "paused"}, "limit": 10},
	}))
	require.Len(t, list.WorkItems, 1)
	require.Equal(t, []workitem.Status{workitem.StatusOpen, workitem.StatusPaused}, gotOpts.Statuses)
	require.Equal(t, 10, gotOpts.Limit)
	require.Nil(t, gotOpts.RecurrenceID)

	requireToolError(t, callTool(t, cs, &sdkmcp.CallToolParams{
		Name: "transition_work_item", Arguments: map[string]any{"id": "wi-1", "to_status": "paused"},
	}), CodeInvalidState)
	requireToolError(t, callTool(t, cs, &sdkmcp.CallToolParams{
		Name: "get_work_item", Arguments: map[string]any{"id": "missing"},
	}), CodeNotFound)
}

func TestServer_RecurrenceTools(t *testing.T) {
	next := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	def := &recurrence.Definition{
		ID: "rec-1", Title: "HVAC filter", Description: "Replace filter", Location: "Roof",
		Priority: workitem.PriorityMedium, Frequency: recurrence.FrequencyWeekly,
		DayOfWeek: 1, DayOfMonth: 1, NextDueAt: &next, Active: true,
		CreatedAt: fixedNow, UpdatedAt: fixedNow,
	}
	var gotCreate recurrence.CreateRequest
	var gotUpdate recurrence.UpdateRequest
	cs := connect(t, Services{Recurrences: recurrenceStub{
		createFn: func(_ context.Context, req recurrence.CreateRequest) (*recurrence.Definition, error) {
			gotCreate = req
			if req.Schedule.Frequency == "hourly" {
				return nil, &recurrence.ValidationError{Field: "frequency", Reason: "must be one of daily, weekly, monthly, quarterly, yearly"}
			}
			return def, nil
		},
		updateFn: func(_ context.Context, _ string, req recurrence.UpdateRequest) (*recurrence.Definition, error) {
			gotUpdate = req
			return def, nil
		},
		deleteFn: func(context.Context, string) error { return recurrence.ErrDefinitionNotFound },
	}})

	created := decode[RecurrenceResult](t, callTool(t, cs, &sdkmcp.CallToolParams{
		Name: "create_recurrence",
		Arguments: map[string]any{
			"title": "HVAC filter", "description": "Replace filter", "location": "Roof",
			"frequency": "weekly", "day_of_week": 1,
		},
	}))
	require.Equal(t, "2024-01-15T00:00:00Z", created.Recurrence.NextDueAt)
	require.Equal(t, recurrence.FrequencyWeekly, gotCreate.Schedule.Frequency)
	require.NotNil(t, gotCreate.Schedule.DayOfWeek)
	require.Equal(t, 1, *gotCreate.Schedule.DayOfWeek)
	require.Nil(t, gotCreate.Schedule.DayOfMonth)

	res := callTool(t, cs, &sdkmcp.CallToolParams{
		Name: "create_recurrence",
		Arguments: map[string]any{
			"title": "HVAC filter", "description": "Replace filter", "location": "Roof", "frequency": "hourly",
		},
	})
	requireToolError(t, res, CodeInvalidRecurrence)
	require.Contains(t, resultText(t, res), "frequency")

	decode[RecurrenceResult](t, callTool(t, cs, &sdkmcp.CallToolParams{
		Name: "update_recurrence", Arguments: map[string]any{"id": "rec-1", "frequency": "monthly", "day_of_month": 31},
	}))
	require.NotNil(t, gotUpdate.Frequency)
	require.Equal(t, recurrence.FrequencyMonthly, *gotUpdate.Frequency)
	require.Equal(t, 31, *gotUpdate.DayOfMonth)
	require.Nil(t, gotUpdate.Title)

	requireToolError(t, callTool(t, cs, &sdkmcp.CallToolParams{
		Name: "delete_recurrence", Arguments: map[string]any{"id": "missing"},
	}), CodeNotFound)
}

func TestServer_ComputeNextDue(t *testing.T) {
	var gotAfter time.Time
	cs := connect(t, Services{Recurrences: recurrenceStub{
		nextDueFn: func(d recurrence.Descriptor, after time.Time) (time.Time, error) {
			gotAfter = after
			return recurrence.NewEvaluator(0, 0, nil).NextOccurrence(&recurrence.Definition{
				Frequency: d.Frequency, DayOfWeek: 1, DayOfMonth: *d.DayOfMonth,
			}, after)
		},
	}})

	out := decode[NextDueResult](t, callTool(t, cs, &sdkmcp.CallToolParams{
		Name:      "compute_next_due",
		Arguments: map[string]any{"frequency": "monthly", "day_of_month": 31, "after": "2024-03-31T12:00:00Z"},
	}))
	require.Equal(t, "2024-04-30T00:00:00Z", out.NextDue)
	require.Equal(t, time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC), gotAfter.UTC())

	out = decode[NextDueResult](t, callTool(t, cs, &sdkmcp.CallToolParams{
		Name: "compute_next_due", Arguments: map[string]any{"frequency": "monthly", "day_of_month": 1},
	}))
	require.Equal(t, "2024-01-10T10:00:00Z", out.After)
	require.Equal(t, "2024-02-01T00:00:00Z", out.NextDue)

	requireToolError(t, callTool(t, cs, &sdkmcp.CallToolParams{
		Name: "compute_next_due", Arguments: map[string]any{"frequency": "daily", "after": "yesterday"},
	}), CodeInvalidInput)
}

func TestServer_RunRecurrenceNowAndActivity(t *testing.T) {
	recID, key := "rec-1", "rec-1@manual:2024-01-10T10:00:00Z"
	var gotOpts activity.ListActivityOptions
	cs := connect(t, Services{
		Scheduler: schedulerStub{runNowFn: func(_ context.Context, id string) (*workitem.WorkItem, error) {
			if id != recID {
				return nil, recurrence.ErrDefinitionNotFound
			}
			return &workitem.WorkItem{
				ID: "wi-9", Title: "HVAC filter", Status: workitem.StatusOpen, Priority: workitem.PriorityMedium,
				RecurrenceID: &recID, OccurrenceKey: &key, DueAt: &fixedNow, CreatedAt: fixedNow, UpdatedAt: fixedNow,
			}, nil
		}},
		Activity: activityStub{listFn: func(_ context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
			gotOpts = opts
			return []activity.ActivityEntry{{
				ID: 1, ActivityType: activity.TypeOccurrenceMaterialized, Summary: "created work item",
				RecurrenceID: opts.RecurrenceID, CreatedAt: fixedNow,
			}}, nil
		}},
	})

	item := decode[WorkItemResult](t, callTool(t, cs, &sdkmcp.CallToolParams{
		Name: "run_recurrence_now", Arguments: map[string]any{"id": recID},
	}))
	require.Equal(t, recID, item.WorkItem.RecurrenceID)
	require.Equal(t, key, item.WorkItem.OccurrenceKey)

	requireToolError(t, callTool(t, cs, &sdkmcp.CallToolParams{
		Name: "run_recurrence_now", Arguments: map[string]any{"id": "nope"},
	}), CodeNotFound)

	feed := decode[ActivityListResult](t, callTool(t, cs, &sdkmcp.CallToolParams{
		Name: "recent_activity", Arguments: map[string]any{"recurrence_id": recID},
	}))
	require.NotNil(t, gotOpts.RecurrenceID)
	require.Equal(t, recID, *gotOpts.RecurrenceID)
	require.Len(t, feed.Activity, 1)
	require.Equal(t, "occurrence_materialized", feed.Activity[0].Type)
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"conflict", timetrack.ErrConflict, CodeAlreadyStarted},
		{"entry state", fmt.Errorf("x: %w", timetrack.ErrInvalidState), CodeInvalidState},
		{"work item transition", workitem.ErrInvalidTransition, CodeInvalidState},
		{"recurrence field", &recurrence.ValidationError{Field: "month", Reason: "must be between 0 and 11"}, CodeInvalidRecurrence},
		{"recurrence", fmt.Errorf("x: %w", recurrence.ErrInvalidRecurrence), CodeInvalidRecurrence},
		{"store", fmt.Errorf("x: %w", recurrence.ErrStoreUnavailable), CodeTryAgain},
		{"raced write", repository.ErrConflict, CodeTryAgain},
		{"entry missing", timetrack.ErrEntryNotFound, CodeNotFound},
		{"work item missing", workitem.ErrWorkItemNotFound, CodeNotFound},
		{"bad input", workitem.ErrInvalidInput, CodeInvalidInput},
		{"unknown", errors.New("boom"), CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.code, MapError(tt.err).Code)
		})
	}
	require.Nil(t, MapError(nil))

	verr := MapError(&recurrence.ValidationError{Field: "month", Reason: "must be between 0 and 11"})
	require.Equal(t, map[string]string{"field": "month", "reason": "must be between 0 and 11"}, verr.Details)
}
