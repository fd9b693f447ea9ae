package overview

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/timebudget/timebudget/internal/apperr"
	"github.com/timebudget/timebudget/internal/event_bus"
)

// BudgetGauge receives the remaining budget of every recalculated customer.
type BudgetGauge interface {
	SetRemainingBudget(customerId int, remaining float64)
	ForgetCustomer(customerId int)
}

// BudgetAlerts recalculates a customer's overview whenever its ledger or time
// entries change and warns once the remaining budget falls below threshold.
type BudgetAlerts struct {
	service   Service
	gauge     BudgetGauge
	threshold decimal.Decimal
}

func NewBudgetAlerts(service Service, gauge BudgetGauge, threshold float64) *BudgetAlerts {
	return &BudgetAlerts{service: service, gauge: gauge, threshold: decimal.NewFromFloat(threshold)}
}

// Subscribe registers the alerts on bus and returns a function removing them again.
func (a *BudgetAlerts) Subscribe(bus *event_bus.EventBus) func() {
	unsubscribers := []func(){
		event_bus.SubscribeTyped(bus, event_bus.BudgetChangeCreated, func(e event_bus.EventT[event_bus.BudgetChangeAppended]) error {
			return a.Check(e.Context(), e.Data.CustomerId)
		}),
		event_bus.SubscribeTyped(bus, event_bus.TimeEntryChanged, func(e event_bus.EventT[event_bus.TimeEntryUpdated]) error {
			return a.Check(e.Context(), e.Data.CustomerId)
		}),
		event_bus.SubscribeTyped(bus, event_bus.CustomerDeleted, func(e event_bus.EventT[event_bus.CustomerRemoved]) error {
			a.gauge.ForgetCustomer(e.Data.CustomerId)
			return nil
		}),
	}
	return func() {
		for _, unsubscribe := range unsubscribers {
			unsubscribe()
		}
	}
}

// Check recalculates the overview of one customer.
func (a *BudgetAlerts) Check(ctx context.Context, customerId int) error {
	overview, err := a.service.GetOverview(ctx, customerId)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			a.gauge.ForgetCustomer(customerId)
			return nil
		}
		return err
	}

	remaining := overview.RemainingBudget
	a.gauge.SetRemainingBudget(customerId, remaining.InexactFloat64())
	if remaining.LessThan(a.threshold) {
		log.WithFields(log.Fields{
			"customer_id": customerId,
			"customer":    overview.Customer.Name,
			"remaining":   remaining.StringFixed(2),
			"threshold":   a.threshold.StringFixed(2),
		}).Warn("Remaining budget below threshold")
	}
	return nil
}
