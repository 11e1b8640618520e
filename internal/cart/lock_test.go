package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	pkgerrors "github.com/leafline-ai/leafline-backend/pkg/errors"
	"github.com/leafline-ai/leafline-backend/pkg/redis"
)

type stubLockStore struct {
	values map[string]string
	// fail the first N SetNX attempts with contention
	contended int
	setNXErr  error
}

func newStubLockStore() *stubLockStore {
	return &stubLockStore{values: make(map[string]string)}
}

func (s *stubLockStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if s.setNXErr != nil {
		return false, s.setNXErr
	}
	if s.contended > 0 {
		s.contended--
		return false, nil
	}
	if _, ok := s.values[key]; ok {
		return false, nil
	}
	s.values[key] = value.(string)
	return true, nil
}

func (s *stubLockStore) Get(ctx context.Context, key string) (string, error) {
	v, ok := s.values[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (s *stubLockStore) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}

func TestRedisLockerAcquireAndRelease(t *testing.T) {
	store := newStubLockStore()
	locker := NewRedisLocker(store)

	release, err := locker.Acquire(context.Background(), "s1")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	key := redis.CartLockKey("s1")
	if _, ok := store.values[key]; !ok {
		t.Fatal("lock key should be held")
	}

	release()
	if _, ok := store.values[key]; ok {
		t.Fatal("lock key should be released")
	}
}

func TestRedisLockerRetriesContention(t *testing.T) {
	store := newStubLockStore()
	store.contended = 2
	locker := NewRedisLocker(store)

	release, err := locker.Acquire(context.Background(), "s1")
	if err != nil {
		t.Fatalf("acquire after contention: %v", err)
	}
	release()
}

func TestRedisLockerStoreFailureIsDependencyError(t *testing.T) {
	store := newStubLockStore()
	store.setNXErr = errors.New("connection refused")
	locker := NewRedisLocker(store)

	_, err := locker.Acquire(context.Background(), "s1")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestRedisLockerReleaseChecksOwner(t *testing.T) {
	store := newStubLockStore()
	locker := NewRedisLocker(store)

	release, err := locker.Acquire(context.Background(), "s1")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	// simulate an expiry plus takeover by another holder
	key := redis.CartLockKey("s1")
	store.values[key] = "someone-else"

	release()
	if store.values[key] != "someone-else" {
		t.Fatal("release must not drop a lock it no longer owns")
	}
}

func TestNoopLocker(t *testing.T) {
	release, err := NoopLocker{}.Acquire(context.Background(), "s1")
	if err != nil {
		t.Fatalf("noop acquire: %v", err)
	}
	release()
}
