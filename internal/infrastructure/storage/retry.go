package storage

import (
	"context"
	"errors"
	"time"

	"agrimarket.backend/pkg/logger"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// RetryingBlobStore retries transient Put and Delete failures with
// exponential backoff, giving up after maxRetries or when ctx ends.
type RetryingBlobStore struct {
	inner      BlobStore
	maxRetries uint64
	initial    time.Duration
}

// NewRetryingBlobStore wraps inner
func NewRetryingBlobStore(inner BlobStore, maxRetries uint64, initial time.Duration) *RetryingBlobStore {
	if initial <= 0 {
		initial = 100 * time.Millisecond
	}
	return &RetryingBlobStore{inner: inner, maxRetries: maxRetries, initial: initial}
}

func (s *RetryingBlobStore) policy(ctx context.Context) backoff.BackOffContext {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.initial
	b.MaxInterval = 10 * s.initial
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, s.maxRetries), ctx)
}

func (s *RetryingBlobStore) do(ctx context.Context, op, key string, fn func() error) error {
	attempt := func() error {
		err := fn()
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrInvalidKey) || ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		logger.Warn(ctx, "Blob store call failed, retrying",
			zap.String("op", op),
			zap.String("key", key),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}
	return backoff.RetryNotify(attempt, s.policy(ctx), notify)
}

// Put implements BlobStore
func (s *RetryingBlobStore) Put(ctx context.Context, key, contentType string, data []byte) error {
	return s.do(ctx, "put", key, func() error {
		return s.inner.Put(ctx, key, contentType, data)
	})
}

// Delete implements BlobStore
func (s *RetryingBlobStore) Delete(ctx context.Context, key string) error {
	return s.do(ctx, "delete", key, func() error {
		return s.inner.Delete(ctx, key)
	})
}
