package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenDashboardDBCreatesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	conn, err := OpenDashboardDB(dir)
	require.NoError(t, err)
	defer conn.Close()

	assert.FileExists(t, filepath.Join(dir, FileName))
}

func TestValueLifecycle(t *testing.T) {
	ctx := context.Background()
	conn, err := Open(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	defer conn.Close()

	_, found, err := GetValue(ctx, conn, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, PutValue(ctx, conn, "k", "v1", 100))
	got, found, err := GetValue(ctx, conn, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v1", got)

	require.NoError(t, PutValue(ctx, conn, "k", "v2", 200))
	got, _, err = GetValue(ctx, conn, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", got)

	var updated int64
	require.NoError(t, conn.QueryRow("SELECT updated_at FROM kv WHERE key = 'k'").Scan(&updated))
	assert.Equal(t, int64(200), updated)

	require.NoError(t, DeleteValue(ctx, conn, "k"))
	_, found, err = GetValue(ctx, conn, "k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestReopenKeepsValues(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kv.db")

	conn, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, PutValue(ctx, conn, "k", "kept", 1))
	require.NoError(t, conn.Close())

	conn, err = Open(path)
	require.NoError(t, err)
	defer conn.Close()

	got, found, err := GetValue(ctx, conn, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "kept", got)
}

func TestCancelledContext(t *testing.T) {
	conn, err := Open(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, PutValue(ctx, conn, "k", "v", 1))
	_, _, err = GetValue(ctx, conn, "k")
	assert.Error(t, err)
}
