package database

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"github.com/timebudget/timebudget/internal/config"
)

// Request handlers hold a connection only for one short transaction, so a
// small pool is enough for a single instance.
const (
	maxConns          = 10
	minConns          = 1
	maxConnIdleTime   = 5 * time.Minute
	healthCheckPeriod = 30 * time.Second
)

// ConnString renders cfg as a postgres URL. Both pgx and golang-migrate pass
// search_path on as a runtime parameter, so every query runs in cfg.Schema.
func ConnString(cfg config.Database) string {
	query := url.Values{}
	query.Set("sslmode", "disable")
	query.Set("search_path", cfg.Schema)
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Pass),
		Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:     "/" + cfg.Name,
		RawQuery: query.Encode(),
	}
	return u.String()
}

// Open connects a pool to the timebudget database and verifies it is reachable.
func Open(ctx context.Context, cfg config.Database) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(ConnString(cfg))
	if err != nil {
		return nil, fmt.Errorf("invalid database settings for %s: %w", cfg.Name, err)
	}
	poolConfig.MaxConns = maxConns
	poolConfig.MinConns = minConns
	poolConfig.MaxConnIdleTime = maxConnIdleTime
	poolConfig.HealthCheckPeriod = healthCheckPeriod

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("could not create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database %s at %s:%d is not reachable: %w", cfg.Name, cfg.Host, cfg.Port, err)
	}
	log.WithFields(log.Fields{
		"host":   cfg.Host,
		"port":   cfg.Port,
		"db":     cfg.Name,
		"schema": cfg.Schema,
	}).Info("Database pool ready")
	return pool, nil
}

// Migrate brings the schema up to the newest migration in the migrations directory.
func Migrate(cfg config.Database) error {
	dir, err := findUp("migrations")
	if err != nil {
		return err
	}

	m, err := migrate.New("file://"+filepath.ToSlash(dir), ConnString(cfg))
	if err != nil {
		return fmt.Errorf("could not prepare migrations from %s: %w", dir, err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("schema migration failed: %w", err)
		}
		log.Debug("Schema already up to date")
	}
	if version, dirty, err := m.Version(); err == nil {
		log.WithFields(log.Fields{"version": version, "dirty": dirty}).Info("Schema migrated")
	}
	return nil
}

// findUp returns the absolute path of the first directory called name found in
// the working directory or one of its parents. Tests run from package
// directories, the server from the repository root.
func findUp(name string) (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return filepath.Abs(candidate)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s directory above the working directory", name)
		}
		dir = parent
	}
}
