package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `upkeep tracks hotel maintenance work: work items, the time workers spend on them, and recurring tasks that create work items on a schedule.

Core concepts:
- Work item: a ticket (title, location, priority) with status open, in-progress, paused, completed or cancelled. Completed and cancelled are final.
- Time entry: one worker's tracked session on a work item. States: running, paused, stopped. A work item has at most one open entry.
- Recurrence: a template plus a schedule (daily, weekly, monthly, quarterly, yearly). The scheduler creates a work item each time one falls due.

Workflow:
1) Find work: list_work_items (filter by status) or get_work_item.
2) Track time: start_tracking, then pause_tracking / resume_tracking, then stop_tracking. Stopping adds the rounded active minutes to the work item.
3) Show a live clock: poll get_live_elapsed; it excludes paused time.
4) Recurring work: create_recurrence, preview schedules with compute_next_due, force an occurrence with run_recurrence_now.
5) Audit: recent_activity.

Errors carry a code: ALREADY_STARTED, INVALID_STATE, INVALID_RECURRENCE, NOT_FOUND, INVALID_INPUT, TRY_AGAIN. TRY_AGAIN is safe to retry.

Worker identity: pass worker_id to start_tracking, or send it once as the X-Upkeep-Worker header (HTTP) or _meta.worker_id (stdio).

Docs: upkeep://docs/time-tracking and upkeep://docs/schedules.`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "upkeep://docs/time-tracking",
		Name:        "docs_time_tracking",
		Title:       "Time tracking guide",
		Description: "Entry states, allowed actions and how active minutes are computed.",
		Content: `# Time tracking

## States

| State   | Allowed actions          |
|---------|--------------------------|
| running | pause_tracking, stop_tracking |
| paused  | resume_tracking, stop_tracking |
| stopped | none                     |

Anything else fails with INVALID_STATE and leaves the entry unchanged.
Starting while an entry is open fails with ALREADY_STARTED.

## Active time

Active time is the time between start and stop minus every pause.
Stopping a paused entry closes the pause at the stop time.
On stop the active time is rounded to the nearest whole minute and added
to the work item's total. get_live_elapsed is not rounded.

Example: 10:00 start, pause 10:15 to 10:30, stop 11:00 gives 45 minutes.
`,
	},
	{
		URI:         "upkeep://docs/schedules",
		Name:        "docs_schedules",
		Title:       "Recurrence schedules",
		Description: "How each frequency picks its next occurrence.",
		Content: `# Recurrence schedules

The next occurrence is always strictly after the reference time, at the
configured run time in the scheduler's time zone.

- daily: the next calendar day.
- weekly: the next day_of_week (0 is Sunday). The same weekday means one week later.
- monthly: day_of_month this month if still ahead, otherwise next month. Short months clamp, so 31 becomes April 30.
- quarterly: day_of_month three months after the reference month.
- yearly: month and day_of_month this year if still ahead, otherwise next year. February 29 clamps to 28 outside leap years.

Defaults: day_of_week 1, day_of_month 1, month 0.

Deactivated recurrences produce nothing until reactivated. Reactivation
schedules from now, so missed occurrences are not created in a burst.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
