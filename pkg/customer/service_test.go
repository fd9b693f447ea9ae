package customer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timebudget/timebudget/internal/apperr"
	"github.com/timebudget/timebudget/internal/event_bus"
)

var ctx = context.Background()

func setupServiceTest(t *testing.T) (*ServiceImpl, *StubRepository, *event_bus.EventBus) {
	repo := NewStubRepository()
	bus := event_bus.NewEventBus()
	return NewService(repo, bus), repo, bus
}

func TestServiceImpl_CreateCustomer(t *testing.T) {
	t.Run("should create customer with trimmed fields", func(t *testing.T) {
		service, _, _ := setupServiceTest(t)

		created, err := service.CreateCustomer(ctx, Customer{Name: "  ACME GmbH ", Email: " info@acme.test ", HourlyRate: 85})

		require.NoError(t, err)
		assert.NotZero(t, created.Id)
		assert.Equal(t, "ACME GmbH", created.Name)
		assert.Equal(t, "info@acme.test", created.Email)
		assert.Equal(t, 85.0, created.HourlyRate)
	})

	t.Run("should reject blank name", func(t *testing.T) {
		service, repo, _ := setupServiceTest(t)

		_, err := service.CreateCustomer(ctx, Customer{Name: "   ", HourlyRate: 50})

		assert.ErrorIs(t, err, apperr.ErrValidation)
		customers, _ := repo.ListCustomers(ctx)
		assert.Empty(t, customers)
	})

	t.Run("should reject negative hourly rate", func(t *testing.T) {
		service, _, _ := setupServiceTest(t)

		_, err := service.CreateCustomer(ctx, Customer{Name: "ACME", HourlyRate: -1})

		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("should accept zero hourly rate", func(t *testing.T) {
		service, _, _ := setupServiceTest(t)

		_, err := service.CreateCustomer(ctx, Customer{Name: "Pro bono"})

		assert.NoError(t, err)
	})
}

func TestServiceImpl_ListCustomers(t *testing.T) {
	service, _, _ := setupServiceTest(t)
	_, err := service.CreateCustomer(ctx, Customer{Name: "First"})
	require.NoError(t, err)
	_, err = service.CreateCustomer(ctx, Customer{Name: "Second"})
	require.NoError(t, err)

	customers, err := service.ListCustomers(ctx)

	require.NoError(t, err)
	require.Len(t, customers, 2)
	assert.Equal(t, "Second", customers[0].Name)
	assert.Equal(t, "First", customers[1].Name)
}

func TestServiceImpl_UpdateCustomer(t *testing.T) {
	t.Run("should update rate and contact data", func(t *testing.T) {
		service, _, _ := setupServiceTest(t)
		created, err := service.CreateCustomer(ctx, Customer{Name: "ACME", HourlyRate: 50})
		require.NoError(t, err)

		updated, err := service.UpdateCustomer(ctx, Customer{Id: created.Id, Name: "ACME", Phone: "+49 30 1234", HourlyRate: 65})

		require.NoError(t, err)
		assert.Equal(t, 65.0, updated.HourlyRate)
		assert.Equal(t, "+49 30 1234", updated.Phone)
		stored, err := service.GetCustomer(ctx, created.Id)
		require.NoError(t, err)
		assert.Equal(t, 65.0, stored.HourlyRate)
	})

	t.Run("should fail for unknown customer", func(t *testing.T) {
		service, _, _ := setupServiceTest(t)

		_, err := service.UpdateCustomer(ctx, Customer{Id: 99, Name: "Ghost"})

		assert.ErrorIs(t, err, ErrCustomerNotFound)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestServiceImpl_DeleteCustomer(t *testing.T) {
	t.Run("should delete and publish event", func(t *testing.T) {
		service, _, bus := setupServiceTest(t)
		created, err := service.CreateCustomer(ctx, Customer{Name: "ACME"})
		require.NoError(t, err)
		var removed []int
		event_bus.SubscribeTyped(bus, event_bus.CustomerDeleted, func(e event_bus.EventT[event_bus.CustomerRemoved]) error {
			removed = append(removed, e.Data.CustomerId)
			return nil
		})

		err = service.DeleteCustomer(ctx, created.Id)

		require.NoError(t, err)
		assert.Equal(t, []int{created.Id}, removed)
		_, err = service.GetCustomer(ctx, created.Id)
		assert.ErrorIs(t, err, ErrCustomerNotFound)
	})

	t.Run("should fail for unknown customer", func(t *testing.T) {
		service, _, _ := setupServiceTest(t)

		err := service.DeleteCustomer(ctx, 12)

		assert.ErrorIs(t, err, ErrCustomerNotFound)
	})
}
