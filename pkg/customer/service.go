package customer

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/timebudget/timebudget/internal/event_bus"
)

type Service interface {
	CreateCustomer(ctx context.Context, customer Customer) (Customer, error)
	ListCustomers(ctx context.Context) ([]Customer, error)
	GetCustomer(ctx context.Context, id int) (Customer, error)
	UpdateCustomer(ctx context.Context, customer Customer) (Customer, error)
	DeleteCustomer(ctx context.Context, id int) error
}

type ServiceImpl struct {
	repo     Repository
	eventBus *event_bus.EventBus
}

func NewService(repo Repository, eventBus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, eventBus: eventBus}
}

func (s *ServiceImpl) CreateCustomer(ctx context.Context, customer Customer) (Customer, error) {
	customer = customer.Normalize()
	if err := customer.Validate(); err != nil {
		return Customer{}, err
	}
	created, err := s.repo.CreateCustomer(ctx, customer)
	if err != nil {
		return Customer{}, err
	}
	log.Infof("Created customer %d (%s)", created.Id, created.Name)
	return created, nil
}

func (s *ServiceImpl) ListCustomers(ctx context.Context) ([]Customer, error) {
	return s.repo.ListCustomers(ctx)
}

func (s *ServiceImpl) GetCustomer(ctx context.Context, id int) (Customer, error) {
	return s.repo.GetCustomer(ctx, id)
}

func (s *ServiceImpl) UpdateCustomer(ctx context.Context, customer Customer) (Customer, error) {
	customer = customer.Normalize()
	if err := customer.Validate(); err != nil {
		return Customer{}, err
	}
	return s.repo.UpdateCustomer(ctx, customer)
}

func (s *ServiceImpl) DeleteCustomer(ctx context.Context, id int) error {
	if err := s.repo.DeleteCustomer(ctx, id); err != nil {
		return err
	}
	log.Infof("Deleted customer %d with its budget changes and time entries", id)

	// The customer is gone at this point; subscribers only clean up derived state.
	err := s.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.CustomerDeleted, event_bus.CustomerRemoved{CustomerId: id}))
	if err != nil {
		log.Warnf("failed to publish customer deletion: %v", err)
	}
	return nil
}
