package test_utils

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/timebudget/timebudget/internal/config"
	"github.com/timebudget/timebudget/internal/database"
)

const (
	dbName     = "timebudget"
	dbUser     = "test_timebudget"
	dbPassword = "test_timebudget"
	dbSchema   = "timebudget"
)

func preparePostgresContainer(ctx context.Context) (*postgres.PostgresContainer, error) {
	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to find project root: %v", err)
	}

	return recoverStart(func() (*postgres.PostgresContainer, error) {
		return postgres.Run(
			ctx, "postgres:18.1-alpine",
			postgres.WithInitScripts(filepath.Join(projectRoot, "dev", "init.sql")),
			postgres.WithDatabase(dbName),
			postgres.WithUsername(dbUser),
			postgres.WithPassword(dbPassword),
			postgres.BasicWaitStrategies(),
		)
	})
}

// recoverStart runs start and reports a panic as an error. testcontainers
// panics instead of failing when it cannot find a Docker host.
func recoverStart[T any](start func() (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			result = zero
			err = fmt.Errorf("container runtime unavailable: %v", r)
		}
	}()
	return start()
}

// TestWithDB starts a Postgres container, applies all migrations and returns a
// pool connected to it together with a cleanup function. When no container
// runtime is available it returns an error and callers are expected to skip
// the database tests.
func TestWithDB() (*pgxpool.Pool, func(), error) {
	ctx := context.Background()

	container, err := preparePostgresContainer(ctx)
	if err != nil {
		return nil, func() {}, fmt.Errorf("failed to start postgres container: %w", err)
	}
	terminate := func() {
		if err := container.Terminate(context.Background()); err != nil {
			log.Warnf("failed to terminate postgres container: %v", err)
		}
	}

	host, err := container.Host(ctx)
	if err != nil {
		terminate()
		return nil, func() {}, err
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		terminate()
		return nil, func() {}, err
	}
	log.Infof("Postgres container started at %s:%d", host, port.Int())

	cfg := config.Database{
		Host:   host,
		Port:   port.Int(),
		User:   dbUser,
		Pass:   dbPassword,
		Name:   dbName,
		Schema: dbSchema,
	}

	if err := database.Migrate(cfg); err != nil {
		terminate()
		return nil, func() {}, fmt.Errorf("failed to apply migrations: %w", err)
	}

	pool, err := database.Open(ctx, cfg)
	if err != nil {
		terminate()
		return nil, func() {}, err
	}

	return pool, func() {
		pool.Close()
		terminate()
	}, nil
}

// RunWithDB is a TestMain helper. It sets *db when a database could be started
// and leaves it nil otherwise, so only the tests calling RequireDB are skipped.
func RunWithDB(m *testing.M, db **pgxpool.Pool) int {
	if !flag.Parsed() {
		flag.Parse()
	}
	if testing.Short() {
		return m.Run()
	}
	pool, cleanup, err := TestWithDB()
	if err != nil {
		log.Warnf("database tests will be skipped: %v", err)
		return m.Run()
	}
	defer cleanup()
	*db = pool
	return m.Run()
}

// RequireDB skips t when no database is available and otherwise empties all
// tables so every test starts from a clean state.
func RequireDB(t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	if db == nil {
		t.Skip("no database available")
	}
	_, err := db.Exec(context.Background(), "TRUNCATE time_entries, budget_changes, customers RESTART IDENTITY CASCADE")
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

// findProjectRoot walks up from the working directory until it finds go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if fileExists(filepath.Join(dir, "go.mod")) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find project root")
		}
		dir = parent
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
