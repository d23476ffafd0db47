package app

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSqliteDb(t *testing.T) {
	_, err := CreateSqliteDb(t.Context(), "sqlite", "")
	assert.Error(t, err)

	db, err := CreateSqliteDb(t.Context(), "sqlite", filepath.Join(t.TempDir(), "subs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, InitSqliteDb(db, "sqlite3"))
	// migrations are idempotent
	require.NoError(t, InitSqliteDb(db, "sqlite3"))

	var n int
	require.NoError(t, db.QueryRowContext(t.Context(), `SELECT COUNT(*) FROM subscriptions`).Scan(&n))
	assert.Zero(t, n)
}
