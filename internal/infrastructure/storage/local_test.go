package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalBlobStore_PutDelete(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalBlobStore(root)
	require.NoError(t, err)
	ctx := context.Background()

	key := ObjectKey("sellers/7", "government_id", ".pdf")
	assert.True(t, strings.HasPrefix(key, "sellers/7/government_id-"))
	assert.True(t, strings.HasSuffix(key, ".pdf"))

	require.NoError(t, store.Put(ctx, key, "application/pdf", pdfBytes))
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(key)))
	require.NoError(t, err)
	assert.Equal(t, pdfBytes, data)

	require.NoError(t, store.Delete(ctx, key))
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(key)))
	assert.True(t, os.IsNotExist(err))

	// deleting twice is fine
	require.NoError(t, store.Delete(ctx, key))
}

func TestLocalBlobStore_RejectsEscapingKeys(t *testing.T) {
	store, err := NewLocalBlobStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, key := range []string{"", "../etc/passwd", "/abs/key", "a/../../b", "a//b"} {
		assert.ErrorIs(t, store.Put(ctx, key, "image/png", pngBytes), ErrInvalidKey, key)
		assert.ErrorIs(t, store.Delete(ctx, key), ErrInvalidKey, key)
	}
}

func TestLocalBlobStore_CanceledContext(t *testing.T) {
	store, err := NewLocalBlobStore(t.TempDir())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.Put(ctx, "riders/1/x.png", "image/png", pngBytes), context.Canceled)
}
