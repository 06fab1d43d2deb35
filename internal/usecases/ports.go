package usecases

import (
	"context"
	"time"

	"agrimarket.backend/pkg/redis"
)

// CursorStore keeps per-session values such as the wizard cursor
type CursorStore interface {
	PutValue(ctx context.Context, sessionID, key, value string, expiration time.Duration) error
	GetValue(ctx context.Context, sessionID, key string) (string, error)
	DeleteValue(ctx context.Context, sessionID, key string) error
}

// StepLocker serialises concurrent submissions for one registrant
type StepLocker interface {
	Acquire(ctx context.Context, name string, ttl time.Duration) (func(), error)
}

// SessionStore keeps server side login sessions
type SessionStore interface {
	CreateSession(ctx context.Context, sessionID string, data *redis.SessionData, expiration time.Duration) error
	DeleteSession(ctx context.Context, sessionID string) error
}
