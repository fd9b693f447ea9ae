package budget_change

import (
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timebudget/timebudget/internal/test_utils"
	"github.com/timebudget/timebudget/pkg/customer"
)

var db *pgxpool.Pool

func TestMain(m *testing.M) {
	os.Exit(test_utils.RunWithDB(m, &db))
}

func setupRepositoryTest(t *testing.T) (*RepositoryImpl, customer.Customer) {
	test_utils.RequireDB(t, db)
	c, err := customer.NewRepository(db).CreateCustomer(ctx, customer.Customer{Name: "ACME", HourlyRate: 50})
	require.NoError(t, err)
	return NewRepository(db), c
}

func TestRepositoryImpl_AppendAndList(t *testing.T) {
	repo, c := setupRepositoryTest(t)

	first, err := repo.AppendChange(ctx, BudgetChange{CustomerId: c.Id, Amount: 1000, Kind: KindInitial})
	require.NoError(t, err)
	second, err := repo.AppendChange(ctx, BudgetChange{CustomerId: c.Id, Amount: 99.5, Kind: KindDecrease, Comment: "discount"})
	require.NoError(t, err)

	changes, err := repo.ListChanges(ctx, c.Id)
	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.Equal(t, second.Id, changes[0].Id)
	assert.Equal(t, "discount", changes[0].Comment)
	assert.Equal(t, first.Id, changes[1].Id)
	assert.Equal(t, "", changes[1].Comment)

	ascending, err := QueryChanges(ctx, db, c.Id, false)
	require.NoError(t, err)
	assert.Equal(t, first.Id, ascending[0].Id)
}

func TestRepositoryImpl_UnknownCustomer(t *testing.T) {
	repo, c := setupRepositoryTest(t)

	_, err := repo.AppendChange(ctx, BudgetChange{CustomerId: c.Id + 1, Amount: 10, Kind: KindIncrease})
	assert.ErrorIs(t, err, customer.ErrCustomerNotFound)

	_, err = repo.ListChanges(ctx, c.Id+1)
	assert.ErrorIs(t, err, customer.ErrCustomerNotFound)
}
