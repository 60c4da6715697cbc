package mcp

import (
	"context"
	"strings"
	"time"

	"github.com/hotelops/upkeep/internal/domain/activity"
	"github.com/hotelops/upkeep/internal/domain/recurrence"
	"github.com/hotelops/upkeep/internal/domain/timetrack"
	"github.com/hotelops/upkeep/internal/domain/workitem"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// registerTools adds every upkeep tool to server.
func registerTools(server *sdkmcp.Server, svcs Services, now func() time.Time) {
	registerTrackingTools(server, svcs.Tracking)
	registerWorkItemTools(server, svcs.WorkItems)
	registerRecurrenceTools(server, svcs.Recurrences, svcs.Scheduler, now)
	registerActivityTools(server, svcs.Activity)
}

// fail converts a domain error into a tool error result.
func fail[Out any](err error) (*sdkmcp.CallToolResult, Out, error) {
	var zero Out
	return nil, zero, MapError(err)
}

func invalidInput[Out any](msg string) (*sdkmcp.CallToolResult, Out, error) {
	return fail[Out](&APIError{Code: CodeInvalidInput, Message: msg})
}

func registerTrackingTools(server *sdkmcp.Server, tracking TrackingService) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "start_tracking",
		Description: "Start a time entry on a work item. Fails with ALREADY_STARTED if one is already open.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in StartTrackingParams) (*sdkmcp.CallToolResult, TimeEntryResult, error) {
		workerID := strings.TrimSpace(in.WorkerID)
		if workerID == "" {
			workerID = getWorkerID(ctx)
		}
		if workerID == "" {
			return invalidInput[TimeEntryResult]("worker_id is required")
		}
		entry, err := tracking.Start(ctx, in.WorkItemID, workerID)
		if err != nil {
			return fail[TimeEntryResult](err)
		}
		return nil, TimeEntryResult{Entry: toTimeEntryView(entry)}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "pause_tracking",
		Description: "Pause a running time entry.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in EntryIDParams) (*sdkmcp.CallToolResult, TimeEntryResult, error) {
		entry, err := tracking.Pause(ctx, in.EntryID)
		if err != nil {
			return fail[TimeEntryResult](err)
		}
		return nil, TimeEntryResult{Entry: toTimeEntryView(entry)}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "resume_tracking",
		Description: "Resume a paused time entry.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in EntryIDParams) (*sdkmcp.CallToolResult, TimeEntryResult, error) {
		entry, err := tracking.Resume(ctx, in.EntryID)
		if err != nil {
			return fail[TimeEntryResult](err)
		}
		return nil, TimeEntryResult{Entry: toTimeEntryView(entry)}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "stop_tracking",
		Description: "Stop an open time entry and add its active minutes to the work item.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in StopTrackingParams) (*sdkmcp.CallToolResult, TimeEntryResult, error) {
		entry, err := tracking.Stop(ctx, in.EntryID, in.Notes)
		if err != nil {
			return fail[TimeEntryResult](err)
		}
		return nil, TimeEntryResult{Entry: toTimeEntryView(entry)}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_live_elapsed",
		Description: "Get the active time of an open entry up to now, excluding pauses.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in EntryIDParams) (*sdkmcp.CallToolResult, LiveElapsedResult, error) {
		elapsed, err := tracking.LiveElapsed(ctx, in.EntryID)
		if err != nil {
			return fail[LiveElapsedResult](err)
		}
		return nil, LiveElapsedResult{
			EntryID: in.EntryID,
			Seconds: int64(elapsed / time.Second),
			Display: timetrack.FormatClock(elapsed),
		}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_open_entry",
		Description: "Get the open time entry of a work item, if any.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in WorkItemIDParams) (*sdkmcp.CallToolResult, TimeEntryResult, error) {
		entry, err := tracking.OpenEntry(ctx, in.WorkItemID)
		if err != nil {
			return fail[TimeEntryResult](err)
		}
		return nil, TimeEntryResult{Entry: toTimeEntryView(entry)}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_time_entries",
		Description: "List the time entries of a work item, newest first.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in WorkItemIDParams) (*sdkmcp.CallToolResult, TimeEntryListResult, error) {
		entries, err := tracking.ListForWorkItem(ctx, in.WorkItemID)
		if err != nil {
			return fail[TimeEntryListResult](err)
		}
		return nil, TimeEntryListResult{Entries: toTimeEntryViews(entries)}, nil
	})
}

func registerWorkItemTools(server *sdkmcp.Server, items WorkItemService) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_work_item",
		Description: "Create an open work item by hand.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in CreateWorkItemParams) (*sdkmcp.CallToolResult, WorkItemResult, error) {
		item, err := items.Create(ctx, workitem.CreateRequest{
			Title:       in.Title,
			Description: in.Description,
			Location:    in.Location,
			Priority:    workitem.Priority(in.Priority),
			AssignedTo:  in.AssignedTo,
		})
		if err != nil {
			return fail[WorkItemResult](err)
		}
		return nil, WorkItemResult{WorkItem: toWorkItemView(item)}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_work_item",
		Description: "Get a work item with its tracked total.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetByIDParams) (*sdkmcp.CallToolResult, WorkItemResult, error) {
		item, err := items.Get(ctx, in.ID)
		if err != nil {
			return fail[WorkItemResult](err)
		}
		return nil, WorkItemResult{WorkItem: toWorkItemView(item)}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_work_items",
		Description: "List work items, newest first, optionally filtered by status or recurrence.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListWorkItemsParams) (*sdkmcp.CallToolResult, WorkItemListResult, error) {
		opts := workitem.ListOptions{Limit: in.Limit, Offset: in.Offset}
		for _, s := range in.Statuses {
			opts.Statuses = append(opts.Statuses, workitem.Status(s))
		}
		if in.RecurrenceID != "" {
			opts.RecurrenceID = &in.RecurrenceID
		}
		list, err := items.List(ctx, opts)
		if err != nil {
			return fail[WorkItemListResult](err)
		}
		return nil, WorkItemListResult{WorkItems: toWorkItemViews(list)}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "transition_work_item",
		Description: "Move a work item to a new status. Completed and cancelled are final.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in TransitionWorkItemParams) (*sdkmcp.CallToolResult, WorkItemResult, error) {
		item, err := items.Transition(ctx, in.ID, workitem.Status(in.ToStatus))
		if err != nil {
			return fail[WorkItemResult](err)
		}
		return nil, WorkItemResult{WorkItem: toWorkItemView(item)}, nil
	})
}

func registerRecurrenceTools(server *sdkmcp.Server, recurrences RecurrenceService, sched SchedulerService, now func() time.Time) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_recurrence",
		Description: "Create a recurring maintenance task. Its first occurrence is computed from now.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in CreateRecurrenceParams) (*sdkmcp.CallToolResult, RecurrenceResult, error) {
		def, err := recurrences.Create(ctx, recurrence.CreateRequest{
			Title:       in.Title,
			Description: in.Description,
			Location:    in.Location,
			Priority:    workitem.Priority(in.Priority),
			AssignedTo:  in.AssignedTo,
			Schedule: recurrence.Descriptor{
				Frequency:  recurrence.Frequency(in.Frequency),
				DayOfWeek:  in.DayOfWeek,
				DayOfMonth: in.DayOfMonth,
				Month:      in.Month,
			},
			Inactive: in.Inactive,
		})
		if err != nil {
			return fail[RecurrenceResult](err)
		}
		return nil, RecurrenceResult{Recurrence: toRecurrenceView(def)}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_recurrence",
		Description: "Edit a recurrence. Changing the schedule recomputes its next due time.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in UpdateRecurrenceParams) (*sdkmcp.CallToolResult, RecurrenceResult, error) {
		req := recurrence.UpdateRequest{
			Title:       in.Title,
			Description: in.Description,
			Location:    in.Location,
			AssignedTo:  in.AssignedTo,
			DayOfWeek:   in.DayOfWeek,
			DayOfMonth:  in.DayOfMonth,
			Month:       in.Month,
		}
		if in.Priority != nil {
			p := workitem.Priority(*in.Priority)
			req.Priority = &p
		}
		if in.Frequency != nil {
			f := recurrence.Frequency(*in.Frequency)
			req.Frequency = &f
		}
		def, err := recurrences.Update(ctx, in.ID, req)
		if err != nil {
			return fail[RecurrenceResult](err)
		}
		return nil, RecurrenceResult{Recurrence: toRecurrenceView(def)}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "set_recurrence_active",
		Description: "Activate or deactivate a recurrence. Activation schedules the next occurrence from now.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in SetRecurrenceActiveParams) (*sdkmcp.CallToolResult, RecurrenceResult, error) {
		def, err := recurrences.SetActive(ctx, in.ID, in.Active)
		if err != nil {
			return fail[RecurrenceResult](err)
		}
		return nil, RecurrenceResult{Recurrence: toRecurrenceView(def)}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_recurrence",
		Description: "Get a recurrence with its last and next occurrence times.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetByIDParams) (*sdkmcp.CallToolResult, RecurrenceResult, error) {
		def, err := recurrences.Get(ctx, in.ID)
		if err != nil {
			return fail[RecurrenceResult](err)
		}
		return nil, RecurrenceResult{Recurrence: toRecurrenceView(def)}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_recurrences",
		Description: "List recurrences by title.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListRecurrencesParams) (*sdkmcp.CallToolResult, RecurrenceListResult, error) {
		defs, err := recurrences.List(ctx, recurrence.ListOptions{
			ActiveOnly: in.ActiveOnly,
			Limit:      in.Limit,
			Offset:     in.Offset,
		})
		if err != nil {
			return fail[RecurrenceListResult](err)
		}
		return nil, RecurrenceListResult{Recurrences: toRecurrenceViews(defs)}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_recurrence",
		Description: "Delete a recurrence. Work items it already produced are kept.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetByIDParams) (*sdkmcp.CallToolResult, DeleteResult, error) {
		if err := recurrences.Delete(ctx, in.ID); err != nil {
			return fail[DeleteResult](err)
		}
		return nil, DeleteResult{Deleted: in.ID}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "run_recurrence_now",
		Description: "Create a work item from a recurrence immediately, ignoring its schedule and active flag.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetByIDParams) (*sdkmcp.CallToolResult, WorkItemResult, error) {
		item, err := sched.RunNow(ctx, in.ID)
		if err != nil {
			return fail[WorkItemResult](err)
		}
		return nil, WorkItemResult{WorkItem: toWorkItemView(item)}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "compute_next_due",
		Description: "Preview the next occurrence of a schedule without saving anything.",
	}, func(_ context.Context, _ *sdkmcp.CallToolRequest, in ComputeNextDueParams) (*sdkmcp.CallToolResult, NextDueResult, error) {
		after := now()
		if in.After != "" {
			t, err := time.Parse(time.RFC3339, in.After)
			if err != nil {
				return invalidInput[NextDueResult]("after must be an RFC 3339 time")
			}
			after = t
		}
		next, err := recurrences.ComputeNextDue(recurrence.Descriptor{
			Frequency:  recurrence.Frequency(in.Frequency),
			DayOfWeek:  in.DayOfWeek,
			DayOfMonth: in.DayOfMonth,
			Month:      in.Month,
		}, after)
		if err != nil {
			return fail[NextDueResult](err)
		}
		return nil, NextDueResult{After: formatTime(after), NextDue: formatTime(next)}, nil
	})
}

func registerActivityTools(server *sdkmcp.Server, activities ActivityService) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "recent_activity",
		Description: "List recent tracking, work item and scheduler activity, newest first.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in RecentActivityParams) (*sdkmcp.CallToolResult, ActivityListResult, error) {
		opts := activity.ListActivityOptions{Limit: in.Limit, Offset: in.Offset}
		if in.WorkItemID != "" {
			opts.WorkItemID = &in.WorkItemID
		}
		if in.RecurrenceID != "" {
			opts.RecurrenceID = &in.RecurrenceID
		}
		if in.Type != "" {
			t := activity.ActivityType(in.Type)
			opts.ActivityType = &t
		}
		entries, err := activities.GetRecentActivity(ctx, opts)
		if err != nil {
			return fail[ActivityListResult](err)
		}
		return nil, ActivityListResult{Activity: toActivityViews(entries)}, nil
	})
}
