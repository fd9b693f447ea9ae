package time_entry

import (
	"context"
	"slices"
	"time"

	"github.com/timebudget/timebudget/pkg/customer"
)

type StubRepository struct {
	entries   map[int]TimeEntry
	customers map[int]string
	nextId    int
	created   time.Time
}

// NewStubRepository returns an in-memory store knowing the given customers by name.
func NewStubRepository(customers map[int]string) *StubRepository {
	return &StubRepository{
		entries:   map[int]TimeEntry{},
		customers: customers,
		nextId:    1,
		created:   time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC),
	}
}

func (s *StubRepository) CreateEntry(ctx context.Context, entry TimeEntry) (TimeEntry, error) {
	if _, ok := s.customers[entry.CustomerId]; !ok {
		return TimeEntry{}, customer.ErrCustomerNotFound
	}
	entry.Id = s.nextId
	s.nextId++
	s.created = s.created.Add(time.Second)
	entry.CreatedAt = s.created
	s.entries[entry.Id] = entry
	return entry, nil
}

func (s *StubRepository) GetEntry(ctx context.Context, id int) (TimeEntry, error) {
	entry, ok := s.entries[id]
	if !ok {
		return TimeEntry{}, ErrTimeEntryNotFound
	}
	return entry, nil
}

func (s *StubRepository) ListEntries(ctx context.Context, customerId int) ([]TimeEntry, error) {
	if _, ok := s.customers[customerId]; !ok {
		return nil, customer.ErrCustomerNotFound
	}
	result := make([]TimeEntry, 0)
	for _, e := range s.sorted() {
		if e.CustomerId == customerId {
			result = append(result, e)
		}
	}
	return result, nil
}

func (s *StubRepository) UpdateEntry(ctx context.Context, id int, mutate func(TimeEntry) (TimeEntry, error)) (TimeEntry, error) {
	current, ok := s.entries[id]
	if !ok {
		return TimeEntry{}, ErrTimeEntryNotFound
	}
	changed, err := mutate(current)
	if err != nil {
		return TimeEntry{}, err
	}
	changed.Id = current.Id
	changed.CustomerId = current.CustomerId
	changed.CreatedAt = current.CreatedAt
	s.entries[id] = changed
	return changed, nil
}

func (s *StubRepository) DeleteEntry(ctx context.Context, id int) (TimeEntry, error) {
	entry, ok := s.entries[id]
	if !ok {
		return TimeEntry{}, ErrTimeEntryNotFound
	}
	delete(s.entries, id)
	return entry, nil
}

func (s *StubRepository) ListUnfinished(ctx context.Context) ([]RunningEntry, error) {
	result := make([]RunningEntry, 0)
	for _, e := range s.sorted() {
		if e.EndTime == nil {
			result = append(result, RunningEntry{TimeEntry: e, CustomerName: s.customers[e.CustomerId]})
		}
	}
	return result, nil
}

// sorted returns all entries, newest first.
func (s *StubRepository) sorted() []TimeEntry {
	all := make([]TimeEntry, 0, len(s.entries))
	for _, e := range s.entries {
		all = append(all, e)
	}
	slices.SortFunc(all, func(a, b TimeEntry) int { return b.Id - a.Id })
	return all
}
