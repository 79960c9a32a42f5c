package localdb

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dmitrijs2005/aircontrol/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestHandle_DB_CreatesSchema(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "air.db")

	h := New(path, logging.Discard())
	t.Cleanup(func() { _ = h.Close() })

	db, err := h.DB(ctx)
	require.NoError(t, err)
	require.NoError(t, db.PingContext(ctx))

	assert.True(t, tableExists(t, db, "metadata"))
	assert.True(t, tableExists(t, db, "photos"))

	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestHandle_DB_ReturnsSameHandle(t *testing.T) {
	h := New(":memory:", logging.Discard())
	t.Cleanup(func() { _ = h.Close() })

	a, err := h.DB(context.Background())
	require.NoError(t, err)
	b, err := h.DB(context.Background())
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestHandle_DB_ConcurrentFirstCallsShareInit(t *testing.T) {
	h := New(filepath.Join(t.TempDir(), "air.db"), logging.Discard())
	t.Cleanup(func() { _ = h.Close() })

	const n = 8
	dbs := make([]*sql.DB, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			db, err := h.DB(context.Background())
			assert.NoError(t, err)
			dbs[i] = db
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		assert.Same(t, dbs[0], dbs[i])
	}
	assert.Equal(t, 1, h.opens)
}

func TestHandle_DB_FailedInitIsRetried(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	// parent "directory" is a regular file, so the first open fails
	h := New(filepath.Join(blocker, "air.db"), logging.Discard())
	_, err := h.DB(context.Background())
	require.Error(t, err)

	require.NoError(t, os.Remove(blocker))
	db, err := h.DB(context.Background())
	require.NoError(t, err)
	require.NotNil(t, db)
	assert.Equal(t, 2, h.opens)
	require.NoError(t, h.Close())
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open(driverName, filepath.Join(t.TempDir(), "air.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, RunMigrations(ctx, db))
	require.NoError(t, RunMigrations(ctx, db))
	assert.True(t, tableExists(t, db, "metadata"))
}

func TestHandle_CloseWithoutOpen(t *testing.T) {
	h := New(":memory:", logging.Discard())
	require.NoError(t, h.Close())
}
