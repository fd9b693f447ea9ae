package customer

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"github.com/timebudget/timebudget/internal/apperr"
)

var ErrCustomerNotFound = apperr.NotFound("customer not found")

type Repository interface {
	CreateCustomer(ctx context.Context, customer Customer) (Customer, error)
	ListCustomers(ctx context.Context) ([]Customer, error)
	GetCustomer(ctx context.Context, id int) (Customer, error)
	UpdateCustomer(ctx context.Context, customer Customer) (Customer, error)
	// DeleteCustomer removes the customer together with its budget changes and time entries.
	DeleteCustomer(ctx context.Context, id int) error
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const customerColumns = `id, name, email, phone, hourly_rate, created_at, updated_at`

func (r *RepositoryImpl) CreateCustomer(ctx context.Context, customer Customer) (Customer, error) {
	query := `INSERT INTO customers (name, email, phone, hourly_rate) 
				VALUES ($1, $2, $3, $4) 
				RETURNING ` + customerColumns

	row := r.db.QueryRow(ctx, query, customer.Name, nullable(customer.Email), nullable(customer.Phone), customer.HourlyRate)
	created, err := ScanCustomer(row)
	if err != nil {
		err := apperr.Storage("could not execute query", err)
		log.Error(err)
		return Customer{}, err
	}
	return created, nil
}

func (r *RepositoryImpl) ListCustomers(ctx context.Context) ([]Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		err := apperr.Storage("could not query customers", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	customers := make([]Customer, 0)
	for rows.Next() {
		customer, err := ScanCustomer(rows)
		if err != nil {
			err := apperr.Storage("error scanning row", err)
			log.Error(err)
			return nil, err
		}
		customers = append(customers, customer)
	}
	if err := rows.Err(); err != nil {
		err := apperr.Storage("error iterating over rows", err)
		log.Error(err)
		return nil, err
	}
	return customers, nil
}

func (r *RepositoryImpl) GetCustomer(ctx context.Context, id int) (Customer, error) {
	return FindCustomer(ctx, r.db, id)
}

func (r *RepositoryImpl) UpdateCustomer(ctx context.Context, customer Customer) (Customer, error) {
	query := `UPDATE customers SET 
                  name = $1, 
                  email = $2, 
                  phone = $3, 
                  hourly_rate = $4, 
                  updated_at = now()
              WHERE id = $5
              RETURNING ` + customerColumns

	row := r.db.QueryRow(ctx, query, customer.Name, nullable(customer.Email), nullable(customer.Phone), customer.HourlyRate, customer.Id)
	updated, err := ScanCustomer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Customer{}, ErrCustomerNotFound
		}
		err := apperr.Storage("could not execute query", err)
		log.Error(err)
		return Customer{}, err
	}
	return updated, nil
}

func (r *RepositoryImpl) DeleteCustomer(ctx context.Context, id int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return apperr.Storage("could not begin transaction", err)
	}
	defer tx.Rollback(ctx)

	// The foreign keys cascade as well; deleting explicitly keeps the behaviour
	// independent of how the schema was created.
	for _, query := range []string{
		"DELETE FROM time_entries WHERE customer_id = $1",
		"DELETE FROM budget_changes WHERE customer_id = $1",
	} {
		if _, err := tx.Exec(ctx, query, id); err != nil {
			err := apperr.Storage("could not execute query", err)
			log.Error(err)
			return err
		}
	}

	result, err := tx.Exec(ctx, "DELETE FROM customers WHERE id = $1", id)
	if err != nil {
		err := apperr.Storage("could not execute query", err)
		log.Error(err)
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrCustomerNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.Storage("could not commit transaction", err)
	}
	return nil
}

// Querier is the part of pgx shared by pools, connections and transactions.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// FindCustomer loads one customer using q, which may be a transaction.
func FindCustomer(ctx context.Context, q Querier, id int) (Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	customer, err := ScanCustomer(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Customer{}, ErrCustomerNotFound
		}
		err := apperr.Storage("failed when trying to find customer", err)
		log.Error(err)
		return Customer{}, err
	}
	return customer, nil
}

// ScanCustomer reads a row selected with the customers column list.
func ScanCustomer(row pgx.Row) (Customer, error) {
	var customer Customer
	var email, phone *string
	err := row.Scan(
		&customer.Id,
		&customer.Name,
		&email,
		&phone,
		&customer.HourlyRate,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	)
	if err != nil {
		return Customer{}, err
	}
	if email != nil {
		customer.Email = *email
	}
	if phone != nil {
		customer.Phone = *phone
	}
	customer.CreatedAt = customer.CreatedAt.UTC()
	customer.UpdatedAt = customer.UpdatedAt.UTC()
	return customer, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
