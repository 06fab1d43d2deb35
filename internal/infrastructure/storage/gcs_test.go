package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

type fakeGCS struct {
	mu       sync.Mutex
	uploads  []string
	deletes  []string
	rejected bool
}

func (f *fakeGCS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.Method == http.MethodPost && strings.Contains(r.URL.Path, "/upload/storage/v1/b/"):
		if f.rejected {
			http.Error(w, `{"error":{"code":403,"message":"forbidden"}}`, http.StatusForbidden)
			return
		}
		body, _ := io.ReadAll(r.Body)
		f.uploads = append(f.uploads, string(body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"bucket":"agri-docs","name":"uploaded","size":"1"}`)
	case r.Method == http.MethodDelete:
		f.deletes = append(f.deletes, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":{"code":404,"message":"No such object"}}`)
	default:
		http.NotFound(w, r)
	}
}

func newFakeGCSStore(t *testing.T) (*GCSBlobStore, *fakeGCS) {
	t.Helper()
	fake := &fakeGCS{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	store, err := NewGCSBlobStore(context.Background(), "agri-docs", "",
		option.WithEndpoint(srv.URL+"/storage/v1/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, fake
}

func TestNewGCSBlobStore_RequiresBucket(t *testing.T) {
	_, err := NewGCSBlobStore(context.Background(), "", "")
	assert.Error(t, err)
}

func TestGCSBlobStore_Put(t *testing.T) {
	store, fake := newFakeGCSStore(t)

	require.NoError(t, store.Put(context.Background(), "riders/3/live_selfie-1.png", "image/png", pngBytes))
	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.Len(t, fake.uploads, 1)
	// multipart body carries the object metadata and the media
	assert.Contains(t, fake.uploads[0], "riders/3/live_selfie-1.png")
	assert.Contains(t, fake.uploads[0], "image/png")
	assert.Contains(t, fake.uploads[0], "PNG")
}

func TestGCSBlobStore_PutFailure(t *testing.T) {
	store, fake := newFakeGCSStore(t)
	fake.rejected = true

	assert.Error(t, store.Put(context.Background(), "riders/3/a.png", "image/png", pngBytes))
	assert.ErrorIs(t, store.Put(context.Background(), "../a.png", "image/png", pngBytes), ErrInvalidKey)
}

func TestGCSBlobStore_DeleteMissingObject(t *testing.T) {
	store, fake := newFakeGCSStore(t)

	require.NoError(t, store.Delete(context.Background(), "sellers/1/gone.pdf"))
	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.Len(t, fake.deletes, 1)
	assert.Contains(t, fake.deletes[0], "/b/agri-docs/o/")
}
