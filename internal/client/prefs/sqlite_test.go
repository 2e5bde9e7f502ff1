package prefs

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestOpen_RunsMigrations(t *testing.T) {
	db := openTestDB(t)

	assert.True(t, tableExists(t, db, "goose_db_version"))
	assert.True(t, tableExists(t, db, "preferences"))
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, RunMigrations(context.Background(), db))
}

func TestSQLiteStore_GetSetRemove(t *testing.T) {
	ctx := context.Background()
	s := NewSQLiteStore(openTestDB(t))

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, KeyRememberedEmail, "a@b.c"))
	require.NoError(t, s.Set(ctx, KeyRememberedEmail, "x@y.z"))

	v, ok, err := s.Get(ctx, KeyRememberedEmail)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "x@y.z", v)

	require.NoError(t, s.Remove(ctx, KeyRememberedEmail))
	_, ok, err = s.Get(ctx, KeyRememberedEmail)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Remove(ctx, "never-set"))
}

func TestSQLiteStore_ClosedDB(t *testing.T) {
	db := openTestDB(t)
	s := NewSQLiteStore(db)
	require.NoError(t, db.Close())

	_, _, err := s.Get(context.Background(), "k")
	require.Error(t, err)
	require.Error(t, s.Set(context.Background(), "k", "v"))
	require.Error(t, s.Remove(context.Background(), "k"))
}
