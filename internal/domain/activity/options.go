package activity

// ListActivityOptions provides filtering options for listing activity.
type ListActivityOptions struct {
	WorkItemID   *string
	RecurrenceID *string
	ActivityType *ActivityType
	Limit        int
	Offset       int
}
