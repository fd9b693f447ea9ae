package overview

import (
	"context"

	"github.com/timebudget/timebudget/pkg/customer"
)

type StubRepository struct {
	snapshots map[int]Snapshot
}

func NewStubRepository() *StubRepository {
	return &StubRepository{snapshots: map[int]Snapshot{}}
}

func (s *StubRepository) Put(snapshot Snapshot) {
	s.snapshots[snapshot.Customer.Id] = snapshot
}

func (s *StubRepository) Remove(customerId int) {
	delete(s.snapshots, customerId)
}

func (s *StubRepository) LoadSnapshot(ctx context.Context, customerId int) (Snapshot, error) {
	snapshot, ok := s.snapshots[customerId]
	if !ok {
		return Snapshot{}, customer.ErrCustomerNotFound
	}
	return snapshot, nil
}
