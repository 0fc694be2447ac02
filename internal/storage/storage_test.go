package storage

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestStore opens a migrated store in a temporary directory
func createTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	require.NoError(t, err)

	require.NoError(t, RunMigrations(db))
	t.Cleanup(func() { db.Close() })

	return NewSQLiteStore(db)
}

func TestGetMissingKey(t *testing.T) {
	store := createTestStore(t)

	value, ok, err := store.Get(context.Background(), KeyToken)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, value)
}

func TestSetOverwrites(t *testing.T) {
	ctx := context.Background()
	store := createTestStore(t)

	require.NoError(t, store.Set(ctx, KeyLastSearch, `{"role":"go"}`))
	require.NoError(t, store.Set(ctx, KeyLastSearch, `{"role":"rust"}`))

	value, ok, err := store.Get(ctx, KeyLastSearch)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"role":"rust"}`, value)
}

func TestSetManyAndRemove(t *testing.T) {
	ctx := context.Background()
	store := createTestStore(t)

	require.NoError(t, store.SetMany(ctx, map[string]string{
		KeyToken:     "tok",
		KeyUserEmail: "a@b.c",
	}))

	token, ok, err := store.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok", token)

	require.NoError(t, store.Remove(ctx, KeyToken, KeyUserEmail, "never-set"))

	for _, k := range []string{KeyToken, KeyUserEmail} {
		_, ok, err := store.Get(ctx, k)
		require.NoError(t, err)
		assert.False(t, ok, k)
	}
}

func TestOpenCreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "jobdash")

	store, err := Open(dir)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Set(context.Background(), KeyCachedJobs, "[]"))
	value, ok, err := store.Get(context.Background(), KeyCachedJobs)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", value)
}

// BenchmarkSet benchmarks key writes
func BenchmarkSet(b *testing.B) {
	dir := b.TempDir()
	store, err := Open(dir)
	if err != nil {
		b.Fatalf("open: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		store.Set(ctx, fmt.Sprintf("key-%d", i%16), "value")
	}
}
