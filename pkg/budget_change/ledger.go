package budget_change

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
	"github.com/timebudget/timebudget/internal/apperr"
)

// Kind carries the sign of a budget change; Amount is always a positive magnitude.
type Kind string

const (
	KindInitial  Kind = "initial"
	KindIncrease Kind = "increase"
	KindDecrease Kind = "decrease"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindInitial, KindIncrease, KindDecrease:
		return k, nil
	default:
		return "", apperr.Validation("invalid change type %q, expected one of initial, increase, decrease", s)
	}
}

type BudgetChange struct {
	Id         int
	CustomerId int
	Amount     float64
	Kind       Kind
	Comment    string
	CreatedAt  time.Time
}

func (c BudgetChange) Validate() error {
	if _, err := ParseKind(string(c.Kind)); err != nil {
		return err
	}
	if math.IsNaN(c.Amount) || math.IsInf(c.Amount, 0) {
		return apperr.Validation("amount must be a finite number")
	}
	if c.Amount <= 0 {
		return apperr.Validation("amount must be greater than zero")
	}
	return nil
}

// Signed returns the amount with the sign implied by the change kind.
func (c BudgetChange) Signed() decimal.Decimal {
	amount := decimal.NewFromFloat(c.Amount)
	if c.Kind == KindDecrease {
		return amount.Neg()
	}
	return amount
}

// NetBudget is the signed sum of all changes. Decimal arithmetic makes the
// result independent of the order of changes.
func NetBudget(changes []BudgetChange) decimal.Decimal {
	total := decimal.Zero
	for _, c := range changes {
		total = total.Add(c.Signed())
	}
	return total
}
