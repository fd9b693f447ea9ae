package event_bus

const (
	BudgetChangeCreated EventType = "budget_change.created"
	TimeEntryChanged    EventType = "time_entry.changed"
	CustomerDeleted     EventType = "customer.deleted"
)

// BudgetChangeAppended is published after a budget change was stored.
type BudgetChangeAppended struct {
	Id         int
	CustomerId int
	Kind       string
	Amount     float64
}

// TimeEntryUpdated is published after a time entry was created, paused,
// resumed, finished, edited or deleted. Action names which of these happened.
type TimeEntryUpdated struct {
	Id              int
	CustomerId      int
	Action          string
	DurationSeconds int64
}

type CustomerRemoved struct {
	CustomerId int
}
