package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// fixedWindowScript increments the window counter, starting the window on
// the first hit, and returns {count, remaining ttl in ms}.
var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {current, redis.call("PTTL", KEYS[1])}
`)

// RedisFixedWindowLimiter shares one counter per key across API replicas.
type RedisFixedWindowLimiter struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

func NewRedisFixedWindowLimiter(client redis.UniversalClient, prefix string) *RedisFixedWindowLimiter {
	if prefix == "" {
		prefix = "rl"
	}
	return &RedisFixedWindowLimiter{client: client, prefix: prefix, now: time.Now}
}

func (l *RedisFixedWindowLimiter) key(k string) string {
	if k == "" {
		k = "unknown"
	}
	return l.prefix + ":" + k
}

func (l *RedisFixedWindowLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (RateLimitDecision, error) {
	if l.client == nil {
		return RateLimitDecision{}, errors.New("redis client is nil")
	}
	if window < time.Millisecond {
		window = time.Second
	}
	vals, err := fixedWindowScript.Run(ctx, l.client, []string{l.key(key)}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return RateLimitDecision{}, fmt.Errorf("rate limit script: %w", err)
	}
	if len(vals) != 2 {
		return RateLimitDecision{}, fmt.Errorf("rate limit script: expected 2 values, got %d", len(vals))
	}

	ttl := time.Duration(vals[1]) * time.Millisecond
	if ttl <= 0 {
		ttl = window
	}
	return windowDecision(vals[0], limit, ttl, l.now()), nil
}

func windowDecision(count int64, limit int, ttl time.Duration, now time.Time) RateLimitDecision {
	d := RateLimitDecision{
		Allowed:   count <= int64(limit),
		Remaining: int(max(int64(limit)-count, 0)),
		ResetAt:   now.Add(ttl),
	}
	if !d.Allowed {
		d.RetryAfter = ttl
	}
	return d
}
