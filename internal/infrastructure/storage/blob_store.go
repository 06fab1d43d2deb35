package storage

import (
	"context"
	"errors"
	"path"
	"strings"

	"agrimarket.backend/pkg/utils"
)

// ErrInvalidKey is returned for keys that escape the store root
var ErrInvalidKey = errors.New("invalid blob key")

// BlobStore persists uploaded files under slash separated keys
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// ObjectKey builds a unique key for one upload inside namespace,
// e.g. sellers/12/government_id-<uuid>.pdf
func ObjectKey(namespace, field, ext string) string {
	return path.Join(namespace, field+"-"+utils.GenerateUUIDv7().String()+ext)
}

func cleanKey(key string) (string, error) {
	cleaned := path.Clean("/" + key)[1:]
	if cleaned == "" || strings.HasPrefix(key, "/") || cleaned != key {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}
