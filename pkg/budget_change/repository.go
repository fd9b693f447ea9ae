package budget_change

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"github.com/timebudget/timebudget/internal/apperr"
	"github.com/timebudget/timebudget/pkg/customer"
)

const foreignKeyViolation = "23503"

type Repository interface {
	AppendChange(ctx context.Context, change BudgetChange) (BudgetChange, error)
	// ListChanges returns the ledger of a customer, newest change first.
	ListChanges(ctx context.Context, customerId int) ([]BudgetChange, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) AppendChange(ctx context.Context, change BudgetChange) (BudgetChange, error) {
	query := `INSERT INTO budget_changes (customer_id, amount, comment, change_type) 
				VALUES ($1, $2, $3, $4) 
				RETURNING id, created_at`

	var comment *string
	if change.Comment != "" {
		comment = &change.Comment
	}
	err := r.db.QueryRow(ctx, query, change.CustomerId, change.Amount, comment, string(change.Kind)).
		Scan(&change.Id, &change.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return BudgetChange{}, customer.ErrCustomerNotFound
		}
		err := apperr.Storage("could not execute query", err)
		log.Error(err)
		return BudgetChange{}, err
	}
	change.CreatedAt = change.CreatedAt.UTC()
	return change, nil
}

func (r *RepositoryImpl) ListChanges(ctx context.Context, customerId int) ([]BudgetChange, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, apperr.Storage("could not begin transaction", err)
	}
	defer tx.Rollback(ctx)

	if _, err := customer.FindCustomer(ctx, tx, customerId); err != nil {
		return nil, err
	}
	changes, err := QueryChanges(ctx, tx, customerId, true)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, apperr.Storage("could not commit transaction", err)
	}
	return changes, nil
}

// Querier is the part of pgx shared by pools and transactions.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// QueryChanges loads the ledger of a customer using q, which may be a
// transaction. Changes are ordered by creation time, newest first when
// newestFirst is set.
func QueryChanges(ctx context.Context, q Querier, customerId int, newestFirst bool) ([]BudgetChange, error) {
	query := `SELECT id, customer_id, amount, comment, change_type, created_at 
				FROM budget_changes 
				WHERE customer_id = $1 
				ORDER BY created_at, id`
	if newestFirst {
		query = `SELECT id, customer_id, amount, comment, change_type, created_at 
				FROM budget_changes 
				WHERE customer_id = $1 
				ORDER BY created_at DESC, id DESC`
	}

	rows, err := q.Query(ctx, query, customerId)
	if err != nil {
		err := apperr.Storage("could not query budget changes", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	changes := make([]BudgetChange, 0)
	for rows.Next() {
		var change BudgetChange
		var comment *string
		var kind string
		if err := rows.Scan(&change.Id, &change.CustomerId, &change.Amount, &comment, &kind, &change.CreatedAt); err != nil {
			err := apperr.Storage("error scanning row", err)
			log.Error(err)
			return nil, err
		}
		if comment != nil {
			change.Comment = *comment
		}
		change.Kind = Kind(kind)
		change.CreatedAt = change.CreatedAt.UTC()
		changes = append(changes, change)
	}
	if err := rows.Err(); err != nil {
		err := apperr.Storage("error iterating over rows", err)
		log.Error(err)
		return nil, err
	}
	return changes, nil
}
