package time_entry

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
	CreateEntry(ctx context.Context, entry TimeEntry) (TimeEntry, error)
	GetEntry(ctx context.Context, id int) (TimeEntry, error)
	// ListEntries returns the entries of a customer, newest first.
	ListEntries(ctx context.Context, customerId int) ([]TimeEntry, error)
	// UpdateEntry loads the entry, applies mutate and stores the result while
	// holding a row lock, so concurrent transitions are serialized.
	UpdateEntry(ctx context.Context, id int, mutate func(TimeEntry) (TimeEntry, error)) (TimeEntry, error)
	DeleteEntry(ctx context.Context, id int) (TimeEntry, error)
	// ListUnfinished returns running and paused entries of all customers.
	ListUnfinished(ctx context.Context) ([]RunningEntry, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const entryColumns = `id, customer_id, description, start_time, end_time, duration_seconds, is_running, created_at`

func (r *RepositoryImpl) CreateEntry(ctx context.Context, entry TimeEntry) (TimeEntry, error) {
	query := `INSERT INTO time_entries (customer_id, description, start_time, end_time, duration_seconds, is_running) 
				VALUES ($1, $2, $3, $4, $5, $6) 
				RETURNING ` + entryColumns

	row := r.db.QueryRow(ctx, query, entry.CustomerId, entry.Description, entry.StartTime, entry.EndTime,
		entry.DurationSeconds, entry.IsRunning)
	created, err := ScanEntry(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return TimeEntry{}, customer.ErrCustomerNotFound
		}
		err := apperr.Storage("could not execute query", err)
		log.Error(err)
		return TimeEntry{}, err
	}
	return created, nil
}

func (r *RepositoryImpl) GetEntry(ctx context.Context, id int) (TimeEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM time_entries WHERE id = $1`
	return findEntry(ctx, r.db, query, id)
}

func (r *RepositoryImpl) ListEntries(ctx context.Context, customerId int) ([]TimeEntry, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, apperr.Storage("could not begin transaction", err)
	}
	defer tx.Rollback(ctx)

	if _, err := customer.FindCustomer(ctx, tx, customerId); err != nil {
		return nil, err
	}
	entries, err := QueryEntries(ctx, tx, customerId, true)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, apperr.Storage("could not commit transaction", err)
	}
	return entries, nil
}

func (r *RepositoryImpl) UpdateEntry(ctx context.Context, id int, mutate func(TimeEntry) (TimeEntry, error)) (TimeEntry, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return TimeEntry{}, apperr.Storage("could not begin transaction", err)
	}
	defer tx.Rollback(ctx)

	current, err := findEntry(ctx, tx, `SELECT `+entryColumns+` FROM time_entries WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		return TimeEntry{}, err
	}
	changed, err := mutate(current)
	if err != nil {
		return TimeEntry{}, err
	}

	query := `UPDATE time_entries SET 
                  description = $1, 
                  start_time = $2, 
                  end_time = $3, 
                  duration_seconds = $4, 
                  is_running = $5
              WHERE id = $6
              RETURNING ` + entryColumns
	updated, err := ScanEntry(tx.QueryRow(ctx, query, changed.Description, changed.StartTime, changed.EndTime,
		changed.DurationSeconds, changed.IsRunning, id))
	if err != nil {
		err := apperr.Storage("could not execute query", err)
		log.Error(err)
		return TimeEntry{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return TimeEntry{}, apperr.Storage("could not commit transaction", err)
	}
	return updated, nil
}

func (r *RepositoryImpl) DeleteEntry(ctx context.Context, id int) (TimeEntry, error) {
	query := `DELETE FROM time_entries WHERE id = $1 RETURNING ` + entryColumns
	return findEntry(ctx, r.db, query, id)
}

func (r *RepositoryImpl) ListUnfinished(ctx context.Context) ([]RunningEntry, error) {
	query := `SELECT t.id, t.customer_id, t.description, t.start_time, t.end_time, t.duration_seconds, t.is_running, t.created_at, c.name
				FROM time_entries t
				JOIN customers c ON c.id = t.customer_id
				WHERE t.end_time IS NULL
				ORDER BY t.created_at DESC, t.id DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		err := apperr.Storage("could not query unfinished time entries", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	result := make([]RunningEntry, 0)
	for rows.Next() {
		var e RunningEntry
		err := rows.Scan(&e.Id, &e.CustomerId, &e.Description, &e.StartTime, &e.EndTime,
			&e.DurationSeconds, &e.IsRunning, &e.CreatedAt, &e.CustomerName)
		if err != nil {
			err := apperr.Storage("error scanning row", err)
			log.Error(err)
			return nil, err
		}
		e.TimeEntry = normalizeTimes(e.TimeEntry)
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		err := apperr.Storage("error iterating over rows", err)
		log.Error(err)
		return nil, err
	}
	return result, nil
}

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func findEntry(ctx context.Context, q rowQuerier, query string, id int) (TimeEntry, error) {
	entry, err := ScanEntry(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return TimeEntry{}, ErrTimeEntryNotFound
		}
		err := apperr.Storage("failed when trying to find time entry", err)
		log.Error(err)
		return TimeEntry{}, err
	}
	return entry, nil
}

// Querier is the part of pgx shared by pools and transactions.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// QueryEntries loads the entries of a customer using q, which may be a
// transaction. Entries are ordered by creation time, newest first when
// newestFirst is set.
func QueryEntries(ctx context.Context, q Querier, customerId int, newestFirst bool) ([]TimeEntry, error) {
	order := "created_at, id"
	if newestFirst {
		order = "created_at DESC, id DESC"
	}
	query := `SELECT ` + entryColumns + ` FROM time_entries WHERE customer_id = $1 ORDER BY ` + order

	rows, err := q.Query(ctx, query, customerId)
	if err != nil {
		err := apperr.Storage("could not query time entries", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	entries := make([]TimeEntry, 0)
	for rows.Next() {
		entry, err := ScanEntry(rows)
		if err != nil {
			err := apperr.Storage("error scanning row", err)
			log.Error(err)
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		err := apperr.Storage("error iterating over rows", err)
		log.Error(err)
		return nil, err
	}
	return entries, nil
}

// ScanEntry reads a row selected with the time entry column list.
func ScanEntry(row pgx.Row) (TimeEntry, error) {
	var e TimeEntry
	err := row.Scan(&e.Id, &e.CustomerId, &e.Description, &e.StartTime, &e.EndTime,
		&e.DurationSeconds, &e.IsRunning, &e.CreatedAt)
	if err != nil {
		return TimeEntry{}, err
	}
	return normalizeTimes(e), nil
}

func normalizeTimes(e TimeEntry) TimeEntry {
	e.StartTime = e.StartTime.UTC()
	e.CreatedAt = e.CreatedAt.UTC()
	if e.EndTime != nil {
		end := e.EndTime.UTC()
		e.EndTime = &end
	}
	return e
}
