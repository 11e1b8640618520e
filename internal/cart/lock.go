package cart

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/leafline-ai/leafline-backend/pkg/errors"
	"github.com/leafline-ai/leafline-backend/pkg/redis"
)

const (
	lockTTL          = 5 * time.Second
	lockWaitTimeout  = 2 * time.Second
	lockPollInterval = 25 * time.Millisecond
)

// SessionLocker serializes cart mutations within one session. Different
// sessions never contend; the key is the session id.
type SessionLocker interface {
	Acquire(ctx context.Context, sessionID string) (release func(), err error)
}

// NoopLocker is used when no Redis is configured. Single-instance
// deployments still get per-request DB atomicity from the unique index on
// (cart_id, product_id).
type NoopLocker struct{}

func (NoopLocker) Acquire(ctx context.Context, sessionID string) (func(), error) {
	return func() {}, nil
}

type lockStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// RedisLocker takes a short-lived SETNX lock per session. The TTL bounds the
// damage of a crashed holder; the owner token keeps a late release from
// dropping someone else's lock.
type RedisLocker struct {
	store lockStore
}

// NewRedisLocker constructs a locker over the shared Redis client.
func NewRedisLocker(store lockStore) *RedisLocker {
	return &RedisLocker{store: store}
}

func (l *RedisLocker) Acquire(ctx context.Context, sessionID string) (func(), error) {
	key := redis.CartLockKey(sessionID)
	owner := uuid.NewString()
	deadline := time.Now().Add(lockWaitTimeout)

	for {
		ok, err := l.store.SetNX(ctx, key, owner, lockTTL)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart lock unavailable")
		}
		if ok {
			return func() { l.release(key, owner) }, nil
		}
		if time.Now().After(deadline) {
			return nil, pkgerrors.New(pkgerrors.CodeDependency, "cart is busy, try again")
		}
		select {
		case <-ctx.Done():
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, ctx.Err(), "cart lock wait cancelled")
		case <-time.After(lockPollInterval):
		}
	}
}

func (l *RedisLocker) release(key, owner string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	current, err := l.store.Get(ctx, key)
	if errors.Is(err, redis.Nil) {
		// expired on its own
		return
	}
	if err != nil || current != owner {
		return
	}
	_ = l.store.Del(ctx, key)
}
