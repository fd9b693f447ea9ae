package overview

import (
	"github.com/shopspring/decimal"
	"github.com/timebudget/timebudget/pkg/budget_change"
	"github.com/timebudget/timebudget/pkg/cost"
	"github.com/timebudget/timebudget/pkg/customer"
	"github.com/timebudget/timebudget/pkg/time_entry"
)

// Snapshot is the consistent state of one customer read in a single transaction.
type Snapshot struct {
	Customer      customer.Customer
	BudgetChanges []budget_change.BudgetChange
	TimeEntries   []time_entry.TimeEntry
}

type Overview struct {
	Snapshot
	TotalBudget     decimal.Decimal
	TotalTimeCosts  decimal.Decimal
	RemainingBudget decimal.Decimal
}

// Aggregate derives the budget totals of s. Costs use the stored durations
// only, so running segments are not billed until they are paused or finished.
func Aggregate(s Snapshot) Overview {
	totalBudget := budget_change.NetBudget(s.BudgetChanges)
	totalCosts := cost.Total(s.TimeEntries, s.Customer.HourlyRate)
	return Overview{
		Snapshot:        s,
		TotalBudget:     totalBudget,
		TotalTimeCosts:  totalCosts,
		RemainingBudget: totalBudget.Sub(totalCosts),
	}
}

func (o Overview) TotalSeconds() int64 {
	var total int64
	for _, e := range o.TimeEntries {
		total += e.AccumulatedSeconds()
	}
	return total
}
