package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lcolonia21/BizGuide-Final-System/internal/observability"
)

// KEYS[1] counter hash. ARGV: now_ms, base_ms, multiplier, max_ms, reset_ms,
// free_attempts. Returns the new cooldown in milliseconds.
var redisLoginFailureScript = redis.NewScript(`
local now_ms = tonumber(ARGV[1])
local base_ms = tonumber(ARGV[2])
local multiplier = tonumber(ARGV[3])
local max_ms = tonumber(ARGV[4])
local reset_ms = tonumber(ARGV[5])
local free_attempts = tonumber(ARGV[6])

local key = KEYS[1]
local failures = tonumber(redis.call("HGET", key, "failures") or "0")
local last_ms = tonumber(redis.call("HGET", key, "last_failure_ms") or "0")

if last_ms == 0 or (now_ms - last_ms) > reset_ms then
  failures = 0
end
failures = failures + 1

local delay = 0
if failures > free_attempts then
  delay = math.floor(base_ms * (multiplier ^ (failures - free_attempts - 1)))
  if delay > max_ms then
    delay = max_ms
  end
end

redis.call("HSET", key, "failures", tostring(failures), "last_failure_ms", tostring(now_ms), "cooldown_until_ms", tostring(now_ms + delay))
redis.call("PEXPIRE", key, reset_ms + delay + 60000)
return delay
`)

type RedisLoginGuard struct {
	client redis.UniversalClient
	prefix string
	policy LoginGuardPolicy
	now    func() time.Time
}

func NewRedisLoginGuard(client redis.UniversalClient, prefix string, policy LoginGuardPolicy) *RedisLoginGuard {
	if prefix == "" {
		prefix = "login_guard"
	}
	return &RedisLoginGuard{
		client: client,
		prefix: prefix,
		policy: policy.normalized(),
		now:    time.Now,
	}
}

func (g *RedisLoginGuard) Cooldown(ctx context.Context, attempt LoginAttempt) (time.Duration, error) {
	nowMS := g.now().UTC().UnixMilli()
	var wait time.Duration
	for _, dim := range []string{emailDimension(attempt), ipDimension(attempt)} {
		d, err := g.remaining(ctx, g.key(dim), nowMS)
		if err != nil {
			observability.RecordLoginGuardEvent(ctx, "check", "error")
			return 0, err
		}
		wait = max(wait, d)
	}
	recordLoginGuardCheck(ctx, wait)
	return wait, nil
}

func (g *RedisLoginGuard) RecordFailure(ctx context.Context, attempt LoginAttempt) (time.Duration, error) {
	nowMS := g.now().UTC().UnixMilli()
	var delay time.Duration
	for _, dim := range []string{emailDimension(attempt), ipDimension(attempt)} {
		d, err := g.bump(ctx, g.key(dim), nowMS)
		if err != nil {
			observability.RecordLoginGuardEvent(ctx, "record_failure", "error")
			return 0, err
		}
		delay = max(delay, d)
	}
	observability.RecordLoginGuardEvent(ctx, "record_failure", "ok")
	if delay > 0 {
		observability.RecordLoginGuardCooldown(ctx, "record_failure", delay)
	}
	return delay, nil
}

func (g *RedisLoginGuard) Clear(ctx context.Context, attempt LoginAttempt) error {
	if err := g.client.Del(ctx, g.key(emailDimension(attempt))).Err(); err != nil {
		observability.RecordLoginGuardEvent(ctx, "clear", "error")
		return err
	}
	observability.RecordLoginGuardEvent(ctx, "clear", "ok")
	return nil
}

func (g *RedisLoginGuard) bump(ctx context.Context, key string, nowMS int64) (time.Duration, error) {
	res, err := redisLoginFailureScript.Run(
		ctx,
		g.client,
		[]string{key},
		nowMS,
		g.policy.BaseDelay.Milliseconds(),
		g.policy.Multiplier,
		g.policy.MaxDelay.Milliseconds(),
		g.policy.ResetWindow.Milliseconds(),
		g.policy.FreeAttempts,
	).Result()
	if err != nil {
		return 0, err
	}
	ms, err := redisInt64(res)
	if err != nil {
		return 0, err
	}
	return time.Duration(max(ms, 0)) * time.Millisecond, nil
}

func (g *RedisLoginGuard) remaining(ctx context.Context, key string, nowMS int64) (time.Duration, error) {
	values, err := g.client.HMGet(ctx, key, "last_failure_ms", "cooldown_until_ms").Result()
	if err != nil {
		return 0, err
	}
	if len(values) != 2 || values[0] == nil || values[1] == nil {
		return 0, nil
	}
	lastMS, err := redisInt64(values[0])
	if err != nil {
		return 0, err
	}
	untilMS, err := redisInt64(values[1])
	if err != nil {
		return 0, err
	}
	if nowMS-lastMS > g.policy.ResetWindow.Milliseconds() || untilMS <= nowMS {
		return 0, nil
	}
	return time.Duration(untilMS-nowMS) * time.Millisecond, nil
}

func (g *RedisLoginGuard) key(dimension string) string {
	return fmt.Sprintf("%s:login:%s", g.prefix, hashKey(dimension))
}

// redisInt64 accepts both script integer replies and HMGET string values.
func redisInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("redis response overflows int64")
		}
		return int64(n), nil
	case int:
		return int64(n), nil
	case string:
		var out int64
		if _, err := fmt.Sscan(n, &out); err != nil {
			return 0, fmt.Errorf("parse redis integer %q: %w", n, err)
		}
		return out, nil
	default:
		return 0, fmt.Errorf("unexpected redis response type %T", v)
	}
}
