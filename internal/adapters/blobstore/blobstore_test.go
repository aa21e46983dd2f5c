package blobstore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tally/internal/adapters/blobstore"
	"go.trai.ch/tally/internal/core/ports"
)

var (
	_ ports.Persister = (*blobstore.FileStore)(nil)
	_ ports.Persister = (*blobstore.MemoryStore)(nil)
)

func TestFileStore_LoadMissingReturnsNil(t *testing.T) {
	store := blobstore.NewFileStore(t.TempDir(), "tally-cache")

	blob, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, blob)
}

func TestFileStore_SaveLoadRemove(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cache")
	store := blobstore.NewFileStore(dir, "tally-cache")
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, []byte(`{"version":1}`)))
	assert.Equal(t, filepath.Join(dir, "tally-cache.json"), store.Path())

	blob, err := store.Load(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1}`, string(blob))

	require.NoError(t, store.Save(ctx, []byte(`{"version":2}`)))
	blob, err = store.Load(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":2}`, string(blob))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")

	require.NoError(t, store.Remove(ctx))
	require.NoError(t, store.Remove(ctx), "removing a missing blob is not an error")
	_, err = os.Stat(store.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestFileStore_SaveFailsWhenDirIsAFile(t *testing.T) {
	parent := t.TempDir()
	blocker := filepath.Join(parent, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	store := blobstore.NewFileStore(filepath.Join(blocker, "cache"), "tally-cache")
	require.Error(t, store.Save(context.Background(), []byte("{}")))
}

func TestMemoryStore(t *testing.T) {
	store := blobstore.NewMemoryStore()
	ctx := context.Background()

	blob, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, blob)

	in := []byte("payload")
	require.NoError(t, store.Save(ctx, in))
	in[0] = 'X'

	blob, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(blob))

	require.NoError(t, store.Remove(ctx))
	blob, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, blob)
}
