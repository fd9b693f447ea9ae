package overview

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/timebudget/timebudget/internal/apperr"
	"github.com/timebudget/timebudget/pkg/budget_change"
	"github.com/timebudget/timebudget/pkg/customer"
	"github.com/timebudget/timebudget/pkg/time_entry"
)

type Repository interface {
	LoadSnapshot(ctx context.Context, customerId int) (Snapshot, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

// LoadSnapshot reads customer, ledger and entries inside one read-only
// repeatable read transaction, so totals never mix states of concurrent writes.
// Both collections are returned newest first.
func (r *RepositoryImpl) LoadSnapshot(ctx context.Context, customerId int) (Snapshot, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return Snapshot{}, apperr.Storage("could not begin transaction", err)
	}
	defer tx.Rollback(ctx)

	c, err := customer.FindCustomer(ctx, tx, customerId)
	if err != nil {
		return Snapshot{}, err
	}
	changes, err := budget_change.QueryChanges(ctx, tx, customerId, true)
	if err != nil {
		return Snapshot{}, err
	}
	entries, err := time_entry.QueryEntries(ctx, tx, customerId, true)
	if err != nil {
		return Snapshot{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Snapshot{}, apperr.Storage("could not commit transaction", err)
	}
	return Snapshot{Customer: c, BudgetChanges: changes, TimeEntries: entries}, nil
}
