// Package ban locks an account out of login after repeated failures.
package ban

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	DefaultLimit  = 5
	DefaultWindow = 15 * time.Minute
)

// Lockout counts failed logins per key (the lowercased email).
type Lockout interface {
	// Blocked reports whether key has reached the failure limit and how long until it clears.
	Blocked(ctx context.Context, key string) (bool, time.Duration, error)
	// Fail records a failure and returns the failure count within the window.
	Fail(ctx context.Context, key string) (int, error)
	Reset(ctx context.Context, key string) error
}

type BanLogEntry struct {
	Target  string    `json:"target"`
	Strikes int       `json:"strikes"`
	Time    time.Time `json:"time"`
}

func normalize(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// RedisLockout keeps counters as INCR keys expiring after the window. Every
// lockout is appended to a ban log list.
type RedisLockout struct {
	rdb    *redis.Client
	prefix string
	limit  int
	window time.Duration
}

func NewRedisLockout(rdb *redis.Client, prefix string, limit int, window time.Duration) *RedisLockout {
	return &RedisLockout{rdb: rdb, prefix: prefix, limit: limit, window: window}
}

func (l *RedisLockout) key(k string) string {
	return l.prefix + "login:fail:" + normalize(k)
}

func (l *RedisLockout) LogKey() string {
	return l.prefix + "login:banlog"
}

func (l *RedisLockout) Blocked(ctx context.Context, key string) (bool, time.Duration, error) {
	n, err := l.rdb.Get(ctx, l.key(key)).Int()
	if err == redis.Nil {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, fmt.Errorf("failed to read login failures: %w", err)
	}
	if n < l.limit {
		return false, 0, nil
	}
	ttl, err := l.rdb.TTL(ctx, l.key(key)).Result()
	if err != nil {
		return true, l.window, nil
	}
	return true, ttl, nil
}

func (l *RedisLockout) Fail(ctx context.Context, key string) (int, error) {
	k := l.key(key)
	n, err := l.rdb.Incr(ctx, k).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to record login failure: %w", err)
	}
	if n == 1 {
		if err := l.rdb.Expire(ctx, k, l.window).Err(); err != nil {
			return 0, fmt.Errorf("failed to expire login failures: %w", err)
		}
	}

	strikes := int(n)
	if strikes == l.limit {
		l.logBanEvent(ctx, normalize(key), strikes)
	}
	return strikes, nil
}

func (l *RedisLockout) Reset(ctx context.Context, key string) error {
	if err := l.rdb.Del(ctx, l.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to reset login failures: %w", err)
	}
	return nil
}

func (l *RedisLockout) logBanEvent(ctx context.Context, target string, strikes int) {
	zerolog.Ctx(ctx).Warn().Str("target", target).Int("strikes", strikes).Msg("login locked out")

	data, _ := json.Marshal(BanLogEntry{Target: target, Strikes: strikes, Time: time.Now()})
	if err := l.rdb.RPush(ctx, l.LogKey(), data).Err(); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to append ban log")
	}
}

type strikes struct {
	count int
	until time.Time
}

// MemoryLockout is the single-process Lockout used without Redis.
type MemoryLockout struct {
	mu      sync.Mutex
	entries map[string]*strikes
	limit   int
	window  time.Duration
	now     func() time.Time
}

func NewMemoryLockout(limit int, window time.Duration) *MemoryLockout {
	return &MemoryLockout{
		entries: make(map[string]*strikes),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

// current returns the live entry for key, dropping an expired one. Caller holds mu.
func (l *MemoryLockout) current(key string) *strikes {
	s, ok := l.entries[key]
	if ok && !l.now().Before(s.until) {
		delete(l.entries, key)
		return nil
	}
	return s
}

func (l *MemoryLockout) Blocked(_ context.Context, key string) (bool, time.Duration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := l.current(normalize(key))
	if s == nil || s.count < l.limit {
		return false, 0, nil
	}
	return true, s.until.Sub(l.now()), nil
}

func (l *MemoryLockout) Fail(ctx context.Context, key string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	k := normalize(key)
	s := l.current(k)
	if s == nil {
		s = &strikes{until: l.now().Add(l.window)}
		l.entries[k] = s
	}
	s.count++
	if s.count == l.limit {
		zerolog.Ctx(ctx).Warn().Str("target", k).Int("strikes", s.count).Msg("login locked out")
	}
	return s.count, nil
}

func (l *MemoryLockout) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	delete(l.entries, normalize(key))
	l.mu.Unlock()
	return nil
}

// Cleanup drops expired entries every interval until ctx is done.
func (l *MemoryLockout) Cleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.mu.Lock()
			for k := range l.entries {
				l.current(k)
			}
			l.mu.Unlock()
		}
	}
}
