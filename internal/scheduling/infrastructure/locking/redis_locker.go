package locking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockNotAcquired is returned when a distributed lock could not be
// obtained within the configured retry budget.
var ErrLockNotAcquired = errors.New("locking: could not acquire distributed lock")

const releaseScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`

// RedisLocker is a Locker backed by Redis, for deployments running more
// than one scheduler instance. Keys are namespaced
// scheduling:lock:owner:{owner_id}, following the teacher's
// orbit:{orbit_id}:user:{user_id}:{key} namespacing convention.
type RedisLocker struct {
	client     *redis.Client
	ttl        time.Duration
	retryDelay time.Duration
	maxRetries int
}

// NewRedisLocker creates a RedisLocker. ttl bounds how long a lock is
// held if the owning process dies without releasing it.
func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{
		client:     client,
		ttl:        ttl,
		retryDelay: 25 * time.Millisecond,
		maxRetries: 40,
	}
}

func (r *RedisLocker) lockKey(ownerID uuid.UUID) string {
	return fmt.Sprintf("scheduling:lock:owner:%s", ownerID)
}

// WithLock acquires a Redis lock for ownerID, runs fn, then releases it.
// Acquisition uses SET NX PX with a random token so a process can never
// release a lock it doesn't own (e.g. after its own lock expired and
// another process re-acquired the key).
func (r *RedisLocker) WithLock(ctx context.Context, ownerID uuid.UUID, fn func(ctx context.Context) error) error {
	token := uuid.NewString()
	key := r.lockKey(ownerID)

	acquired := false
	for attempt := 0; attempt < r.maxRetries; attempt++ {
		ok, err := r.client.SetNX(ctx, key, token, r.ttl).Result()
		if err != nil {
			return err
		}
		if ok {
			acquired = true
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.retryDelay):
		}
	}
	if !acquired {
		return ErrLockNotAcquired
	}

	defer r.client.Eval(ctx, releaseScript, []string{key}, token)

	return fn(ctx)
}
