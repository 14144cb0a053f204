package middleware

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/lcolonia21/BizGuide-Final-System/internal/http/response"
	"github.com/lcolonia21/BizGuide-Final-System/internal/observability"
)

type RateLimitDecision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
	ResetAt    time.Time
}

type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (RateLimitDecision, error)
}

// FailureMode decides what happens to a request when the limiter backend
// errors.
type FailureMode string

const (
	FailOpen   FailureMode = "fail_open"
	FailClosed FailureMode = "fail_closed"
)

// KeyFunc picks the bucket for a request and names the kind of key used.
type KeyFunc func(r *http.Request) (key string, keyType string)

// SubjectValidator is satisfied by security.JWTManager.
type SubjectValidator interface {
	Validate(token string) (string, error)
}

func IPKeyFunc(r *http.Request) (string, string) {
	return ClientIP(r), "ip"
}

// SubjectOrIPKeyFunc buckets callers with a valid bearer token by token
// subject and everyone else by client IP.
func SubjectOrIPKeyFunc(tokens SubjectValidator) KeyFunc {
	return func(r *http.Request) (string, string) {
		if raw, ok := BearerToken(r); ok && tokens != nil {
			if subject, err := tokens.Validate(raw); err == nil && subject != "" {
				return "sub:" + shortHash(subject), "subject"
			}
		}
		return IPKeyFunc(r)
	}
}

// RateLimitPolicy is one named limit applied to a group of routes.
type RateLimitPolicy struct {
	Scope  string
	Limit  int
	Window time.Duration
	Mode   FailureMode
	Key    KeyFunc
}

type RateLimiter struct {
	limiter Limiter
	policy  RateLimitPolicy
}

func NewRateLimiter(limiter Limiter, policy RateLimitPolicy) *RateLimiter {
	if policy.Scope == "" {
		policy.Scope = "api"
	}
	if policy.Window <= 0 {
		policy.Window = time.Minute
	}
	if policy.Mode == "" {
		policy.Mode = FailClosed
	}
	if policy.Key == nil {
		policy.Key = IPKeyFunc
	}
	return &RateLimiter{limiter: limiter, policy: policy}
}

// LocalRateLimit is an in-process per-IP limit.
func LocalRateLimit(scope string, limit int, window time.Duration) func(http.Handler) http.Handler {
	return NewRateLimiter(NewLocalFixedWindowLimiter(), RateLimitPolicy{Scope: scope, Limit: limit, Window: window}).Middleware()
}

func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	p := rl.policy
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			key, keyType := p.Key(r)
			decision, err := rl.limiter.Allow(ctx, key, p.Limit, p.Window)

			var outcome string
			switch {
			case err != nil && p.Mode == FailOpen:
				outcome = "backend_error_allow"
				slog.WarnContext(ctx, "rate limiter backend unavailable, allowing request", "scope", p.Scope, "error", err)
			case err != nil:
				outcome = "backend_error_deny"
				decision = RateLimitDecision{RetryAfter: p.Window}
			case decision.Allowed:
				outcome = "allow"
			default:
				outcome = "deny"
			}
			observability.RecordRateLimitDecision(ctx, p.Scope, outcome, string(p.Mode), keyType)

			if err == nil {
				rl.writeHeaders(w, decision)
			}
			if outcome == "allow" || outcome == "backend_error_allow" {
				next.ServeHTTP(w, r)
				return
			}

			reason := "window"
			if err != nil {
				reason = "backend_error"
			}
			observability.RecordRateLimitRetryAfter(ctx, p.Scope, reason, decision.RetryAfter)
			w.Header().Set("Retry-After", retryAfterHeader(decision.RetryAfter))
			response.Error(w, r, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests", nil)
		})
	}
}

func (rl *RateLimiter) writeHeaders(w http.ResponseWriter, d RateLimitDecision) {
	resetAt := d.ResetAt
	if resetAt.IsZero() {
		resetAt = time.Now().Add(rl.policy.Window)
	}
	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(rl.policy.Limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(max(d.Remaining, 0)))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))
}

type windowCounter struct {
	count int64
	start time.Time
}

// localFixedWindowLimiter keeps counters in memory; each replica limits on
// its own.
type localFixedWindowLimiter struct {
	mu       sync.Mutex
	now      func() time.Time
	counters map[string]*windowCounter
	sweepAt  time.Time
}

func NewLocalFixedWindowLimiter() Limiter {
	return newLocalFixedWindowLimiter(time.Now)
}

func newLocalFixedWindowLimiter(now func() time.Time) *localFixedWindowLimiter {
	return &localFixedWindowLimiter{
		now:      now,
		counters: make(map[string]*windowCounter),
		sweepAt:  now().Add(time.Minute),
	}
}

func (l *localFixedWindowLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (RateLimitDecision, error) {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.After(l.sweepAt) {
		for k, c := range l.counters {
			if now.Sub(c.start) >= window {
				delete(l.counters, k)
			}
		}
		l.sweepAt = now.Add(window)
	}

	c, ok := l.counters[key]
	if !ok || now.Sub(c.start) >= window {
		c = &windowCounter{start: now}
		l.counters[key] = c
	}
	// Denied requests are not counted.
	if c.count < int64(limit) {
		c.count++
		return windowDecision(c.count, limit, c.start.Add(window).Sub(now), now), nil
	}
	return windowDecision(c.count+1, limit, c.start.Add(window).Sub(now), now), nil
}

// retryAfterHeader renders d as whole seconds, rounded up, never below 1.
func retryAfterHeader(d time.Duration) string {
	seconds := int(math.Ceil(d.Seconds()))
	return strconv.Itoa(max(seconds, 1))
}
