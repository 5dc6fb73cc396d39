package boltdb

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/nteract/mythic-rtc/internal/client/storage"
	"github.com/nteract/mythic-rtc/internal/models"
)

// createTestStorage создает временное BoltDB хранилище
func createTestStorage(t *testing.T) *Storage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "client.db")

	store, err := New(context.Background(), dbPath)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func TestNew_Success(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "testdb.db")

	store, err := New(context.Background(), dbPath)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, store.Close())
	}()

	info, err := os.Stat(dbPath)
	require.NoError(t, err)
	assert.False(t, info.IsDir())

	err = store.db.View(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketJournal, bucketSessions} {
			if tx.Bucket(b) == nil {
				return os.ErrNotExist
			}
		}
		return nil
	})
	require.NoError(t, err)
}

func TestNew_InvalidPath(t *testing.T) {
	store, err := New(context.Background(), filepath.Join(t.TempDir(), "missing", "dir", "x.db"))
	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestClose(t *testing.T) {
	store, err := New(context.Background(), filepath.Join(t.TempDir(), "testdb.db"))
	require.NoError(t, err)

	assert.NoError(t, store.Close())
	assert.Nil(t, store.db)
	// повторный Close ничего не делает
	assert.NoError(t, store.Close())

	_, err = store.ListFailures(context.Background())
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
	err = store.SaveSession(context.Background(), &models.SessionRecord{FilePath: "a"})
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestJournal(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	ops, err := store.ListFailures(ctx)
	require.NoError(t, err)
	assert.Empty(t, ops)

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	for i, local := range []string{"L1", "L2", "L3"} {
		op := &models.FailedOperation{
			At:        at.Add(time.Duration(i) * time.Second),
			Operation: models.OpInsertCell,
			LocalID:   local,
			Error:     "backend unavailable",
		}
		require.NoError(t, store.RecordFailure(ctx, op))
		assert.NotEmpty(t, op.ID)
	}

	ops, err = store.ListFailures(ctx)
	require.NoError(t, err)
	require.Len(t, ops, 3)
	for i, local := range []string{"L1", "L2", "L3"} {
		assert.Equal(t, local, ops[i].LocalID)
		assert.True(t, ops[i].At.Equal(at.Add(time.Duration(i)*time.Second)))
	}

	require.NoError(t, store.ClearFailures(ctx))
	ops, err = store.ListFailures(ctx)
	require.NoError(t, err)
	assert.Empty(t, ops)

	// журнал пригоден к записи после очистки
	require.NoError(t, store.RecordFailure(ctx, &models.FailedOperation{LocalID: "L4"}))
	ops, err = store.ListFailures(ctx)
	require.NoError(t, err)
	assert.Len(t, ops, 1)
}

func TestSessions(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	_, err := store.GetSession(ctx, "demo.ipynb")
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)

	rec := &models.SessionRecord{FilePath: "demo.ipynb", NotebookID: "nb-1", JoinedAt: time.Unix(100, 0).UTC()}
	require.NoError(t, store.SaveSession(ctx, rec))

	rec2 := &models.SessionRecord{FilePath: "demo.ipynb", NotebookID: "nb-2", JoinedAt: time.Unix(200, 0).UTC()}
	require.NoError(t, store.SaveSession(ctx, rec2))

	got, err := store.GetSession(ctx, "demo.ipynb")
	require.NoError(t, err)
	assert.Equal(t, "nb-2", got.NotebookID)
	assert.True(t, got.JoinedAt.Equal(rec2.JoinedAt))
}
