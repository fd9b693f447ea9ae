package budget_change

import (
	"context"
	"slices"
	"time"

	"github.com/timebudget/timebudget/pkg/customer"
)

type StubRepository struct {
	changes   []BudgetChange
	customers map[int]bool
	nextId    int
	now       time.Time
}

// NewStubRepository returns an in-memory ledger knowing the given customers.
func NewStubRepository(customerIds ...int) *StubRepository {
	customers := map[int]bool{}
	for _, id := range customerIds {
		customers[id] = true
	}
	return &StubRepository{
		customers: customers,
		nextId:    1,
		now:       time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC),
	}
}

func (s *StubRepository) AppendChange(ctx context.Context, change BudgetChange) (BudgetChange, error) {
	if !s.customers[change.CustomerId] {
		return BudgetChange{}, customer.ErrCustomerNotFound
	}
	change.Id = s.nextId
	s.nextId++
	s.now = s.now.Add(time.Second)
	change.CreatedAt = s.now
	s.changes = append(s.changes, change)
	return change, nil
}

func (s *StubRepository) ListChanges(ctx context.Context, customerId int) ([]BudgetChange, error) {
	if !s.customers[customerId] {
		return nil, customer.ErrCustomerNotFound
	}
	result := make([]BudgetChange, 0)
	for _, c := range s.changes {
		if c.CustomerId == customerId {
			result = append(result, c)
		}
	}
	slices.Reverse(result)
	return result, nil
}
