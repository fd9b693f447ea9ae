package customer

import (
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timebudget/timebudget/internal/test_utils"
)

var db *pgxpool.Pool

func TestMain(m *testing.M) {
	os.Exit(test_utils.RunWithDB(m, &db))
}

func setupRepositoryTest(t *testing.T) *RepositoryImpl {
	test_utils.RequireDB(t, db)
	return NewRepository(db)
}

func TestRepositoryImpl_CreateAndGet(t *testing.T) {
	repo := setupRepositoryTest(t)

	created, err := repo.CreateCustomer(ctx, Customer{Name: "ACME", Email: "info@acme.test", HourlyRate: 72.5})
	require.NoError(t, err)

	stored, err := repo.GetCustomer(ctx, created.Id)
	require.NoError(t, err)
	assert.Equal(t, "ACME", stored.Name)
	assert.Equal(t, "info@acme.test", stored.Email)
	assert.Equal(t, "", stored.Phone)
	assert.Equal(t, 72.5, stored.HourlyRate)
	assert.False(t, stored.CreatedAt.IsZero())
}

func TestRepositoryImpl_UpdateCustomer(t *testing.T) {
	repo := setupRepositoryTest(t)
	created, err := repo.CreateCustomer(ctx, Customer{Name: "ACME", HourlyRate: 50})
	require.NoError(t, err)

	updated, err := repo.UpdateCustomer(ctx, Customer{Id: created.Id, Name: "ACME AG", Phone: "123", HourlyRate: 55})
	require.NoError(t, err)
	assert.Equal(t, "ACME AG", updated.Name)
	assert.Equal(t, "123", updated.Phone)

	_, err = repo.UpdateCustomer(ctx, Customer{Id: created.Id + 100, Name: "Ghost"})
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestRepositoryImpl_DeleteCustomer_Cascades(t *testing.T) {
	repo := setupRepositoryTest(t)
	created, err := repo.CreateCustomer(ctx, Customer{Name: "ACME", HourlyRate: 50})
	require.NoError(t, err)
	_, err = db.Exec(ctx, `INSERT INTO budget_changes (customer_id, amount, change_type) VALUES ($1, 100, 'initial')`, created.Id)
	require.NoError(t, err)
	_, err = db.Exec(ctx, `INSERT INTO time_entries (customer_id, description, start_time, is_running) VALUES ($1, 'work', now(), true)`, created.Id)
	require.NoError(t, err)

	err = repo.DeleteCustomer(ctx, created.Id)
	require.NoError(t, err)

	var orphans int
	err = db.QueryRow(ctx, `SELECT (SELECT COUNT(*) FROM budget_changes) + (SELECT COUNT(*) FROM time_entries)`).Scan(&orphans)
	require.NoError(t, err)
	assert.Equal(t, 0, orphans)

	err = repo.DeleteCustomer(ctx, created.Id)
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestRepositoryImpl_ListCustomers(t *testing.T) {
	repo := setupRepositoryTest(t)
	_, err := repo.CreateCustomer(ctx, Customer{Name: "First"})
	require.NoError(t, err)
	_, err = repo.CreateCustomer(ctx, Customer{Name: "Second"})
	require.NoError(t, err)

	customers, err := repo.ListCustomers(ctx)

	require.NoError(t, err)
	require.Len(t, customers, 2)
	assert.Equal(t, "Second", customers[0].Name)
}
