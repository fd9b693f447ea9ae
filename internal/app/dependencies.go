package app

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/timebudget/timebudget/internal/config"
	"github.com/timebudget/timebudget/internal/event_bus"
	"github.com/timebudget/timebudget/internal/metrics"
	"github.com/timebudget/timebudget/internal/utils"
	"github.com/timebudget/timebudget/pkg/budget_change"
	"github.com/timebudget/timebudget/pkg/customer"
	"github.com/timebudget/timebudget/pkg/overview"
	"github.com/timebudget/timebudget/pkg/time_entry"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Clock    utils.Clock
	EventBus *event_bus.EventBus
	Metrics  *metrics.Metrics

	CustomerService customer.Service
	CustomerHandler *customer.Handler

	BudgetChangeService budget_change.Service
	BudgetChangeHandler *budget_change.Handler

	TimeEntryService time_entry.Service
	TimeEntryHandler *time_entry.Handler

	OverviewService overview.Service
	OverviewHandler *overview.Handler
	BudgetAlerts    *overview.BudgetAlerts

	unsubscribers []func()
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *pgxpool.Pool, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}
	deps.EventBus = event_bus.NewEventBus()
	deps.Metrics = metrics.New()

	deps.CustomerService = customer.NewService(customer.NewRepository(db), deps.EventBus)
	deps.CustomerHandler = customer.NewHandler(deps.CustomerService)

	deps.BudgetChangeService = budget_change.NewService(budget_change.NewRepository(db), deps.EventBus)
	deps.BudgetChangeHandler = budget_change.NewHandler(deps.BudgetChangeService)

	deps.TimeEntryService = time_entry.NewService(time_entry.NewRepository(db), deps.EventBus, deps.Clock)
	deps.TimeEntryHandler = time_entry.NewHandler(deps.TimeEntryService, deps.Clock)

	deps.OverviewService = overview.NewService(overview.NewRepository(db))
	deps.OverviewHandler = overview.NewHandler(deps.OverviewService, overview.NewCsvRenderer(cfg.Currency), deps.Clock, cfg.Currency)

	deps.unsubscribers = append(deps.unsubscribers,
		event_bus.SubscribeTyped(deps.EventBus, event_bus.TimeEntryChanged, func(e event_bus.EventT[event_bus.TimeEntryUpdated]) error {
			deps.Metrics.CountTransition(e.Data.Action)
			return nil
		}),
	)
	if cfg.Alerts.Enabled {
		deps.BudgetAlerts = overview.NewBudgetAlerts(deps.OverviewService, deps.Metrics, cfg.Alerts.Threshold)
		deps.unsubscribers = append(deps.unsubscribers, deps.BudgetAlerts.Subscribe(deps.EventBus))
	}

	return deps
}

// Close detaches all event subscribers.
func (d *Dependencies) Close() {
	for _, unsubscribe := range d.unsubscribers {
		unsubscribe()
	}
	d.unsubscribers = nil
}
