package blob

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockroom/internal/core/apperror"
)

func TestFSStoreRoundTrip(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	payload := []byte("hello stockroom")
	require.NoError(t, store.Put(ctx, "files/abc/report.pdf", payload, "application/pdf"))

	got, err := store.Get(ctx, "files/abc/report.pdf")
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestFSStoreOverwrite(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "a/b", []byte("one"), "text/plain"))
	require.NoError(t, store.Put(ctx, "a/b", []byte("two"), "text/plain"))

	got, err := store.Get(ctx, "a/b")
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), got)
}

func TestFSStoreGetMissing(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "does/not/exist")
	assert.True(t, apperror.IsNotFound(err))
}

func TestFSStoreDeleteIdempotent(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "a/b", []byte("x"), "text/plain"))
	require.NoError(t, store.Delete(ctx, "a/b"))

	// Second delete of the same locator is not an error.
	require.NoError(t, store.Delete(ctx, "a/b"))

	_, err = store.Get(ctx, "a/b")
	assert.True(t, apperror.IsNotFound(err))
}

func TestFSStoreRejectsEscape(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	err = store.Put(context.Background(), "../outside", []byte("x"), "text/plain")
	assert.Error(t, err)
}
