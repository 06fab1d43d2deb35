package redis

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockHeld is returned when another holder owns the lock
var ErrLockHeld = errors.New("lock already held")

// releaseScript deletes the key only when it still carries our token, so an
// expired lock re-acquired by someone else is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

var (
	lockSetNX   = SetNX
	lockRelease = func(ctx context.Context, key, token string) error {
		return releaseScript.Run(ctx, client, []string{key}, token).Err()
	}
)

// Locker hands out short-lived exclusive locks keyed by name
type Locker struct {
	prefix string
}

// NewLocker creates a locker whose keys are namespaced by prefix
func NewLocker(prefix string) *Locker {
	return &Locker{prefix: prefix}
}

// Acquire takes the named lock for ttl. The returned release func is safe to
// call more than once.
func (l *Locker) Acquire(ctx context.Context, name string, ttl time.Duration) (func(), error) {
	key := l.prefix + name
	token := uuid.NewString()

	ok, err := lockSetNX(ctx, key, token, ttl)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLockHeld
	}

	released := false
	return func() {
		if released {
			return
		}
		released = true
		// detached so a cancelled request still frees the lock
		_ = lockRelease(context.WithoutCancel(ctx), key, token)
	}, nil
}
