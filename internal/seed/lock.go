package seed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// Locker serializes seeding. The returned func releases the lock.
type Locker interface {
	Lock(ctx context.Context) (func(), error)
}

type MutexLocker struct {
	mu sync.Mutex
}

func (l *MutexLocker) Lock(context.Context) (func(), error) {
	l.mu.Lock()
	return l.mu.Unlock, nil
}

// RedisLocker holds a redislock key so that only one instance seeds at a time.
type RedisLocker struct {
	client *redislock.Client
	key    string
	ttl    time.Duration
}

func NewRedisLocker(rdb *redis.Client, key string) *RedisLocker {
	return &RedisLocker{client: redislock.New(rdb), key: key, ttl: 10 * time.Second}
}

func (l *RedisLocker) Lock(ctx context.Context) (func(), error) {
	lock, err := l.client.Obtain(ctx, l.key, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 50),
	})
	if err == redislock.ErrNotObtained {
		return nil, fmt.Errorf("could not obtain seed lock %s: %w", l.key, err)
	} else if err != nil {
		return nil, fmt.Errorf("error obtaining seed lock %s: %w", l.key, err)
	}
	return func() {
		_ = lock.Release(context.WithoutCancel(ctx))
	}, nil
}
