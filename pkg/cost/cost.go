// Package cost turns accumulated working time into money.
//
// Costs are always derived from the duration already folded into storage, so a
// running stopwatch only starts to cost once it is paused or finished.
package cost

import (
	"github.com/shopspring/decimal"
)

var secondsPerHour = decimal.NewFromInt(3600)

// Costable is anything with a stored accumulated duration in seconds.
type Costable interface {
	AccumulatedSeconds() int64
}

// Of returns seconds / 3600 * hourlyRate.
func Of(seconds int64, hourlyRate float64) decimal.Decimal {
	return decimal.NewFromInt(seconds).Mul(decimal.NewFromFloat(hourlyRate)).Div(secondsPerHour)
}

// Total sums the cost of every item at the given hourly rate.
func Total[T Costable](items []T, hourlyRate float64) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(Of(item.AccumulatedSeconds(), hourlyRate))
	}
	return total
}
