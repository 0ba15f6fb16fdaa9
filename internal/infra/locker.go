package infra

import (
	"context"
	"time"

	"paddyledger/internal/service"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// RedisLocker adapts bsm/redislock to the service.Locker interface used for
// sales-number serialization.
type RedisLocker struct {
	client *redislock.Client
}

func NewRedisLocker(rdb *redis.Client) *RedisLocker {
	return &RedisLocker{client: redislock.New(rdb)}
}

// Obtain acquires key for ttl, retrying briefly before giving up. The caller
// treats failure as advisory and falls back to the unique index on conflict.
func (l *RedisLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (service.Lock, error) {
	lock, err := l.client.Obtain(ctx, key, ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 10),
	})
	if err != nil {
		return nil, err
	}
	return redisLock{lock}, nil
}

type redisLock struct {
	lock *redislock.Lock
}

func (r redisLock) Release(ctx context.Context) error {
	return r.lock.Release(ctx)
}
