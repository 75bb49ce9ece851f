package state

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_Migrate(t *testing.T) {
	store := setupTestStore(t)

	version, err := store.GetMigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	// migrating twice is a no-op
	require.NoError(t, store.Migrate())
}

func TestSQLiteStore_OpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cache.db")
	store, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, path, store.Path())
	require.NoError(t, store.Close())

	// reopening keeps the data and schema
	store, err = Open(path)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	_, err = store.CreateRun(context.Background(), "lint")
	assert.NoError(t, err)
}

func TestSQLiteStore_NotOpened(t *testing.T) {
	store := NewSQLiteStore()
	_, err := store.CreateRun(context.Background(), "lint")
	assert.Error(t, err)
	assert.Error(t, store.Migrate())
	assert.NoError(t, store.Close())
}

func TestSQLiteStore_RunLifecycle(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		runErr     error
		wantStatus RunStatus
	}{
		{"completed", nil, RunStatusCompleted},
		{"failed", errors.New("parse error"), RunStatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := setupTestStore(t)

			run, err := store.CreateRun(ctx, "lint")
			require.NoError(t, err)
			assert.NotEmpty(t, run.ID)
			assert.Equal(t, RunStatusRunning, run.Status)

			require.NoError(t, store.CompleteRun(ctx, run.ID, 3, 7, tt.runErr))

			got, err := store.GetRun(ctx, run.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, 3, got.Files)
			assert.Equal(t, 7, got.Violations)
			require.NotNil(t, got.CompletedAt)
			if tt.runErr != nil {
				assert.Equal(t, tt.runErr.Error(), got.Error)
			} else {
				assert.Empty(t, got.Error)
			}
		})
	}
}

func TestSQLiteStore_RunNotFound(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.GetRun(ctx, "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)

	err = store.CompleteRun(ctx, "missing", 0, 0, nil)
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestSQLiteStore_ListRuns(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	var ids []string
	for range 3 {
		run, err := store.CreateRun(ctx, "fix")
		require.NoError(t, err)
		ids = append(ids, run.ID)
		time.Sleep(2 * time.Millisecond)
	}

	runs, err := store.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, ids[2], runs[0].ID)
	assert.Equal(t, ids[1], runs[1].ID)
}

func TestSQLiteStore_FileResults(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	run, err := store.CreateRun(ctx, "lint")
	require.NoError(t, err)

	result := &FileResult{
		Path:        "models/a.sql",
		ContentHash: "c1",
		ConfigHash:  "k1",
		Payload:     []byte(`[{"rule_id":"AL09"}]`),
		RunID:       run.ID,
	}
	require.NoError(t, store.PutFileResult(ctx, result))

	tests := []struct {
		name        string
		contentHash string
		configHash  string
		wantHit     bool
	}{
		{"both match", "c1", "k1", true},
		{"content changed", "c2", "k1", false},
		{"config changed", "c1", "k2", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.GetFileResult(ctx, "models/a.sql", tt.contentHash, tt.configHash)
			require.NoError(t, err)
			if !tt.wantHit {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, result.Payload, got.Payload)
			assert.Equal(t, run.ID, got.RunID)
		})
	}

	t.Run("upsert replaces", func(t *testing.T) {
		require.NoError(t, store.PutFileResult(ctx, &FileResult{
			Path: "models/a.sql", ContentHash: "c2", ConfigHash: "k1", Payload: []byte(`[]`),
		}))
		got, err := store.GetFileResult(ctx, "models/a.sql", "c1", "k1")
		require.NoError(t, err)
		assert.Nil(t, got)

		got, err = store.GetFileResult(ctx, "models/a.sql", "c2", "k1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, []byte(`[]`), got.Payload)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.DeleteFileResult(ctx, "models/a.sql"))
		got, err := store.GetFileResult(ctx, "models/a.sql", "c2", "k1")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestSQLiteStore_PruneFileResults(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, store.PutFileResult(ctx, &FileResult{
		Path: "old.sql", ContentHash: "c", ConfigHash: "k", Payload: []byte(`[]`), UpdatedAt: old,
	}))
	require.NoError(t, store.PutFileResult(ctx, &FileResult{
		Path: "new.sql", ContentHash: "c", ConfigHash: "k", Payload: []byte(`[]`),
	}))

	n, err := store.PruneFileResults(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := store.GetFileResult(ctx, "new.sql", "c", "k")
	require.NoError(t, err)
	assert.NotNil(t, got)
}
