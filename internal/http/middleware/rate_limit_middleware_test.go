package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lcolonia21/BizGuide-Final-System/internal/security"
)

// stubLimiter returns a fixed decision and remembers the last key.
type stubLimiter struct {
	decision RateLimitDecision
	err      error
	lastKey  string
}

func (s *stubLimiter) Allow(_ context.Context, key string, _ int, _ time.Duration) (RateLimitDecision, error) {
	s.lastKey = key
	return s.decision, s.err
}

func serveLimited(t *testing.T, limiter Limiter, policy RateLimitPolicy, req *http.Request) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	reached := false
	h := NewRateLimiter(limiter, policy).Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	}))
	if req == nil {
		req = httptest.NewRequest(http.MethodGet, "/api/v1/businesses", nil)
		req.RemoteAddr = "10.0.0.1:1111"
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr, reached
}

func TestRateLimiterDecisions(t *testing.T) {
	backendDown := errors.New("redis down")
	cases := []struct {
		name           string
		limiter        *stubLimiter
		mode           FailureMode
		wantCode       int
		wantReached    bool
		wantRetryAfter string
		wantLimitHdr   bool
	}{
		{
			name:         "allowed",
			limiter:      &stubLimiter{decision: RateLimitDecision{Allowed: true, Remaining: 4, ResetAt: time.Now().Add(time.Minute)}},
			wantCode:     http.StatusOK,
			wantReached:  true,
			wantLimitHdr: true,
		},
		{
			name:           "denied",
			limiter:        &stubLimiter{decision: RateLimitDecision{RetryAfter: 2400 * time.Millisecond}},
			wantCode:       http.StatusTooManyRequests,
			wantRetryAfter: "3",
			wantLimitHdr:   true,
		},
		{
			name:        "backend error fails open",
			limiter:     &stubLimiter{err: backendDown},
			mode:        FailOpen,
			wantCode:    http.StatusOK,
			wantReached: true,
		},
		{
			name:           "backend error fails closed",
			limiter:        &stubLimiter{err: backendDown},
			mode:           FailClosed,
			wantCode:       http.StatusTooManyRequests,
			wantRetryAfter: "60",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr, reached := serveLimited(t, tc.limiter, RateLimitPolicy{Scope: "api", Limit: 5, Window: time.Minute, Mode: tc.mode}, nil)

			if rr.Code != tc.wantCode || reached != tc.wantReached {
				t.Fatalf("code=%d reached=%v, want %d %v", rr.Code, reached, tc.wantCode, tc.wantReached)
			}
			if got := rr.Header().Get("Retry-After"); got != tc.wantRetryAfter {
				t.Fatalf("Retry-After = %q, want %q", got, tc.wantRetryAfter)
			}
			if got := rr.Header().Get("X-RateLimit-Limit") == "5"; got != tc.wantLimitHdr {
				t.Fatalf("X-RateLimit-Limit present = %v, want %v", got, tc.wantLimitHdr)
			}
		})
	}
}

func TestRateLimiterKeysBySubjectOrIP(t *testing.T) {
	jwt, err := security.NewJWTManager("iss", "aud", "abcdefghijklmnopqrstuvwxyz123456", "HS256")
	if err != nil {
		t.Fatalf("new jwt manager: %v", err)
	}
	token, _, err := jwt.Issue("alice@example.com", 15*time.Minute)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	cases := map[string]struct {
		authorization string
		wantKey       string
	}{
		"valid token":   {authorization: "Bearer " + token, wantKey: "sub:" + shortHash("alice@example.com")},
		"invalid token": {authorization: "Bearer not-a-token", wantKey: "10.0.0.1"},
		"anonymous":     {wantKey: "10.0.0.1"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			limiter := &stubLimiter{decision: RateLimitDecision{Allowed: true}}
			req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
			req.RemoteAddr = "10.0.0.1:1111"
			if tc.authorization != "" {
				req.Header.Set("Authorization", tc.authorization)
			}
			serveLimited(t, limiter, RateLimitPolicy{Key: SubjectOrIPKeyFunc(jwt)}, req)
			if limiter.lastKey != tc.wantKey {
				t.Fatalf("key = %q, want %q", limiter.lastKey, tc.wantKey)
			}
		})
	}
}

func TestLocalRateLimitRejectsAfterLimit(t *testing.T) {
	h := LocalRateLimit("auth", 2, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", nil)
		req.RemoteAddr = "192.0.2.4:5000"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	if codes[0] != http.StatusNoContent || codes[1] != http.StatusNoContent || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected status sequence %v", codes)
	}
}

func TestLocalFixedWindowLimiterWindows(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter := newLocalFixedWindowLimiter(func() time.Time { return now })
	ctx := context.Background()

	for want := 1; want >= 0; want-- {
		d, err := limiter.Allow(ctx, "1.2.3.4", 2, time.Minute)
		if err != nil || !d.Allowed || d.Remaining != want {
			t.Fatalf("expected allowed with %d remaining, got %+v err=%v", want, d, err)
		}
	}

	now = now.Add(20 * time.Second)
	denied, _ := limiter.Allow(ctx, "1.2.3.4", 2, time.Minute)
	if denied.Allowed || denied.RetryAfter != 40*time.Second {
		t.Fatalf("expected denial until window end, got %+v", denied)
	}
	if other, _ := limiter.Allow(ctx, "5.6.7.8", 2, time.Minute); !other.Allowed {
		t.Fatal("expected independent bucket per key")
	}

	now = now.Add(40 * time.Second)
	if again, _ := limiter.Allow(ctx, "1.2.3.4", 2, time.Minute); !again.Allowed {
		t.Fatalf("expected new window to allow, got %+v", again)
	}
}

func TestRetryAfterHeader(t *testing.T) {
	cases := map[time.Duration]string{
		0:                       "1",
		-time.Second:            "1",
		300 * time.Millisecond:  "1",
		time.Second:             "1",
		2001 * time.Millisecond: "3",
		time.Minute:             "60",
	}
	for d, want := range cases {
		if got := retryAfterHeader(d); got != want {
			t.Fatalf("retryAfterHeader(%v) = %s, want %s", d, got, want)
		}
	}
}
