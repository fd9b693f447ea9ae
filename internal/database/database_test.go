package database

import (
	"net/url"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timebudget/timebudget/internal/config"
)

func TestConnString(t *testing.T) {
	cfg := config.Database{
		Host:   "db.internal",
		Port:   6543,
		User:   "billing",
		Pass:   "p@ss'w:rd/",
		Name:   "timebudget",
		Schema: "timebudget",
	}

	t.Run("should escape credentials", func(t *testing.T) {
		u, err := url.Parse(ConnString(cfg))

		require.NoError(t, err)
		password, _ := u.User.Password()
		assert.Equal(t, "p@ss'w:rd/", password)
		assert.Equal(t, "db.internal:6543", u.Host)
		assert.Equal(t, "/timebudget", u.Path)
	})

	t.Run("should be understood by pgx", func(t *testing.T) {
		poolConfig, err := pgxpool.ParseConfig(ConnString(cfg))

		require.NoError(t, err)
		assert.Equal(t, "db.internal", poolConfig.ConnConfig.Host)
		assert.Equal(t, uint16(6543), poolConfig.ConnConfig.Port)
		assert.Equal(t, "billing", poolConfig.ConnConfig.User)
		assert.Equal(t, "p@ss'w:rd/", poolConfig.ConnConfig.Password)
		assert.Equal(t, "timebudget", poolConfig.ConnConfig.RuntimeParams["search_path"])
	})
}

func TestFindUp(t *testing.T) {
	dir, err := findUp("migrations")

	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(dir))
	assert.FileExists(t, filepath.Join(dir, "000001_init.up.sql"))
}
