package customer

import (
	"context"
	"slices"
	"time"
)

type StubRepository struct {
	customers map[int]Customer
	nextId    int
	now       time.Time
}

func NewStubRepository() *StubRepository {
	return &StubRepository{
		customers: map[int]Customer{},
		nextId:    1,
		now:       time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC),
	}
}

func (s *StubRepository) CreateCustomer(ctx context.Context, customer Customer) (Customer, error) {
	customer.Id = s.nextId
	s.nextId++
	// Every stored customer is one minute younger than the previous one.
	s.now = s.now.Add(time.Minute)
	customer.CreatedAt = s.now
	customer.UpdatedAt = s.now
	s.customers[customer.Id] = customer
	return customer, nil
}

func (s *StubRepository) ListCustomers(ctx context.Context) ([]Customer, error) {
	customers := make([]Customer, 0, len(s.customers))
	for _, c := range s.customers {
		customers = append(customers, c)
	}
	slices.SortFunc(customers, func(a, b Customer) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return customers, nil
}

func (s *StubRepository) GetCustomer(ctx context.Context, id int) (Customer, error) {
	c, ok := s.customers[id]
	if !ok {
		return Customer{}, ErrCustomerNotFound
	}
	return c, nil
}

func (s *StubRepository) UpdateCustomer(ctx context.Context, customer Customer) (Customer, error) {
	stored, ok := s.customers[customer.Id]
	if !ok {
		return Customer{}, ErrCustomerNotFound
	}
	customer.CreatedAt = stored.CreatedAt
	customer.UpdatedAt = s.now
	s.customers[customer.Id] = customer
	return customer, nil
}

func (s *StubRepository) DeleteCustomer(ctx context.Context, id int) error {
	if _, ok := s.customers[id]; !ok {
		return ErrCustomerNotFound
	}
	delete(s.customers, id)
	return nil
}

func (s *StubRepository) Cleanup() {
	s.customers = map[int]Customer{}
	s.nextId = 1
}
