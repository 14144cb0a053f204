package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/lcolonia21/BizGuide-Final-System/internal/observability"
)

// LoginAttempt identifies who is trying to log in. Failures are counted
// separately per account email and per client IP.
type LoginAttempt struct {
	Email string
	IP    string
}

type LoginGuardPolicy struct {
	FreeAttempts int
	BaseDelay    time.Duration
	Multiplier   float64
	MaxDelay     time.Duration
	ResetWindow  time.Duration
}

func (p LoginGuardPolicy) normalized() LoginGuardPolicy {
	if p.FreeAttempts < 0 {
		p.FreeAttempts = 0
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = 2 * time.Second
	}
	if p.Multiplier < 1 {
		p.Multiplier = 2
	}
	if p.MaxDelay < p.BaseDelay {
		p.MaxDelay = 5 * time.Minute
	}
	if p.ResetWindow <= 0 {
		p.ResetWindow = 30 * time.Minute
	}
	return p
}

// DelayAfter is the cooldown imposed once failures consecutive failures
// have been seen: zero within the free allowance, then BaseDelay growing by
// Multiplier per failure and capped at MaxDelay.
func (p LoginGuardPolicy) DelayAfter(failures int) time.Duration {
	if failures <= p.FreeAttempts {
		return 0
	}
	power := math.Pow(p.Multiplier, float64(failures-p.FreeAttempts-1))
	delay := time.Duration(float64(p.BaseDelay) * power)
	if delay > p.MaxDelay || delay < 0 {
		return p.MaxDelay
	}
	return delay
}

type LoginGuard interface {
	// Cooldown is the remaining wait before another attempt is accepted.
	Cooldown(ctx context.Context, attempt LoginAttempt) (time.Duration, error)
	RecordFailure(ctx context.Context, attempt LoginAttempt) (time.Duration, error)
	// Clear resets the account counter after a successful login. The IP
	// counter is left to decay so one valid account cannot unlock an IP.
	Clear(ctx context.Context, attempt LoginAttempt) error
}

type NoopLoginGuard struct{}

func NewNoopLoginGuard() *NoopLoginGuard { return &NoopLoginGuard{} }

func (NoopLoginGuard) Cooldown(context.Context, LoginAttempt) (time.Duration, error) { return 0, nil }

func (NoopLoginGuard) RecordFailure(context.Context, LoginAttempt) (time.Duration, error) {
	return 0, nil
}

func (NoopLoginGuard) Clear(context.Context, LoginAttempt) error { return nil }

type loginFailureState struct {
	failures      int
	lastFailureAt time.Time
	cooldownUntil time.Time
}

// MemoryLoginGuard keeps per-key failure state in process. Keys idle for
// longer than the reset window are swept at most once per window.
type MemoryLoginGuard struct {
	mu        sync.Mutex
	policy    LoginGuardPolicy
	now       func() time.Time
	state     map[string]loginFailureState
	lastSweep time.Time
}

func NewMemoryLoginGuard(policy LoginGuardPolicy) *MemoryLoginGuard {
	return &MemoryLoginGuard{
		policy: policy.normalized(),
		now:    time.Now,
		state:  make(map[string]loginFailureState),
	}
}

func (g *MemoryLoginGuard) Cooldown(ctx context.Context, attempt LoginAttempt) (time.Duration, error) {
	now := g.now().UTC()
	g.mu.Lock()
	defer g.mu.Unlock()

	wait := max(g.remainingLocked(now, emailDimension(attempt)), g.remainingLocked(now, ipDimension(attempt)))
	recordLoginGuardCheck(ctx, wait)
	return wait, nil
}

func (g *MemoryLoginGuard) RecordFailure(ctx context.Context, attempt LoginAttempt) (time.Duration, error) {
	now := g.now().UTC()
	g.mu.Lock()
	defer g.mu.Unlock()

	g.sweepLocked(now)
	delay := max(g.bumpLocked(now, emailDimension(attempt)), g.bumpLocked(now, ipDimension(attempt)))
	observability.RecordLoginGuardEvent(ctx, "record_failure", "ok")
	if delay > 0 {
		observability.RecordLoginGuardCooldown(ctx, "record_failure", delay)
	}
	return delay, nil
}

func (g *MemoryLoginGuard) Clear(ctx context.Context, attempt LoginAttempt) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.state, emailDimension(attempt))
	observability.RecordLoginGuardEvent(ctx, "clear", "ok")
	return nil
}

func (g *MemoryLoginGuard) sweepLocked(now time.Time) {
	if !g.lastSweep.IsZero() && now.Sub(g.lastSweep) < g.policy.ResetWindow {
		return
	}
	g.lastSweep = now
	for key, st := range g.state {
		if now.Sub(st.lastFailureAt) > g.policy.ResetWindow {
			delete(g.state, key)
		}
	}
}

func (g *MemoryLoginGuard) bumpLocked(now time.Time, key string) time.Duration {
	st := g.state[key]
	if st.lastFailureAt.IsZero() || now.Sub(st.lastFailureAt) > g.policy.ResetWindow {
		st.failures = 0
	}
	st.failures++
	st.lastFailureAt = now
	delay := g.policy.DelayAfter(st.failures)
	st.cooldownUntil = now.Add(delay)
	g.state[key] = st
	return delay
}

func (g *MemoryLoginGuard) remainingLocked(now time.Time, key string) time.Duration {
	st, ok := g.state[key]
	if !ok {
		return 0
	}
	if now.Sub(st.lastFailureAt) > g.policy.ResetWindow {
		delete(g.state, key)
		return 0
	}
	if !now.Before(st.cooldownUntil) {
		return 0
	}
	return st.cooldownUntil.Sub(now)
}

func recordLoginGuardCheck(ctx context.Context, wait time.Duration) {
	if wait > 0 {
		observability.RecordLoginGuardEvent(ctx, "check", "cooldown")
		observability.RecordLoginGuardCooldown(ctx, "check", wait)
		return
	}
	observability.RecordLoginGuardEvent(ctx, "check", "ok")
}

// Emails are matched exactly, the same way accounts are looked up.
func emailDimension(a LoginAttempt) string {
	v := strings.TrimSpace(a.Email)
	if v == "" {
		v = "anonymous"
	}
	return fmt.Sprintf("email:%s", v)
}

func ipDimension(a LoginAttempt) string {
	v := strings.TrimSpace(strings.ToLower(a.IP))
	if v == "" {
		v = "unknown"
	}
	return fmt.Sprintf("ip:%s", v)
}
