package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/lcolonia21/BizGuide-Final-System/internal/http/response"
	"github.com/lcolonia21/BizGuide-Final-System/internal/observability"
	"github.com/lcolonia21/BizGuide-Final-System/internal/service"
)

const (
	idempotencyHeader    = "Idempotency-Key"
	replayedHeader       = "X-Idempotency-Replayed"
	maxIdempotencyKeyLen = 128
)

type IdempotencyMiddleware struct {
	store service.IdempotencyStore
	ttl   time.Duration
}

func NewIdempotencyMiddleware(store service.IdempotencyStore, ttl time.Duration) *IdempotencyMiddleware {
	return &IdempotencyMiddleware{store: store, ttl: ttl}
}

// idempotentRequest is one keyed request moving through the middleware.
// storeKey namespaces the client key by caller, so two callers never share
// a slot.
type idempotentRequest struct {
	r           *http.Request
	scope       string
	key         string
	storeKey    string
	fingerprint string
}

func (q *idempotentRequest) event(outcome string) {
	observability.RecordIdempotencyEvent(q.r.Context(), q.scope, outcome)
}

func (q *idempotentRequest) audit(action, outcome, reason string, attrs ...any) {
	eventName := "idempotency.check"
	if action != "check" {
		eventName = "idempotency." + action
	}
	observability.EmitAudit(q.r, observability.AuditInput{
		EventName:   eventName,
		ActorUserID: actorUserIDForAudit(q.r),
		TargetType:  "idempotency_key",
		TargetID:    shortHash(q.key),
		Action:      action,
		Outcome:     outcome,
		Reason:      reason,
	}, append([]any{"scope", q.scope}, attrs...)...)
}

// Middleware makes create endpoints safe to retry. Requests without an
// Idempotency-Key header pass straight through.
func (m *IdempotencyMiddleware) Middleware(scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := strings.TrimSpace(r.Header.Get(idempotencyHeader))
			if key == "" {
				observability.RecordIdempotencyEvent(r.Context(), scope, "skipped")
				next.ServeHTTP(w, r)
				return
			}
			q := &idempotentRequest{r: r, scope: scope, key: key, storeKey: actorForScope(r) + "|" + key}
			if len(key) > maxIdempotencyKeyLen {
				q.event("invalid_key")
				response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid Idempotency-Key header", nil)
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				q.event("read_error")
				response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request payload", nil)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
			q.fingerprint = fingerprintRequest(r, scope, body)

			if !m.admit(w, q) {
				return
			}
			m.serve(w, q, next)
		})
	}
}

// admit claims the key. It returns false after answering the request itself
// with a replay or a rejection.
func (m *IdempotencyMiddleware) admit(w http.ResponseWriter, q *idempotentRequest) bool {
	begin, err := m.store.Begin(q.r.Context(), q.scope, q.storeKey, q.fingerprint, m.ttl)
	if err != nil {
		q.event("store_error")
		q.audit("check", "failure", "store_error", "error", err.Error())
		response.Error(w, q.r, http.StatusInternalServerError, "INTERNAL", "idempotency check failed", nil)
		return false
	}

	switch begin.State {
	case service.IdempotencyStateConflict:
		q.event("conflict")
		q.audit("check", "rejected", "fingerprint_conflict")
		response.Error(w, q.r, http.StatusConflict, "CONFLICT", "idempotency key reuse with different payload", nil)
		return false
	case service.IdempotencyStateInProgress:
		q.event("in_progress")
		q.audit("check", "rejected", "request_in_progress")
		response.Error(w, q.r, http.StatusConflict, "CONFLICT", "request with this idempotency key is in progress", nil)
		return false
	case service.IdempotencyStateReplay:
		q.event("replayed")
		q.audit("replay", "success", "cached_response")
		writeCachedResponse(w, begin.Cached)
		return false
	}
	return true
}

func (m *IdempotencyMiddleware) serve(w http.ResponseWriter, q *idempotentRequest, next http.Handler) {
	var body bytes.Buffer
	ww := chimiddleware.NewWrapResponseWriter(w, q.r.ProtoMajor)
	ww.Tee(&body)
	next.ServeHTTP(ww, q.r)

	status := ww.Status()
	if status == 0 {
		status = http.StatusOK
	}

	// Server failures and throttling are not final answers; free the key.
	if status >= http.StatusInternalServerError || status == http.StatusTooManyRequests {
		q.event("released")
		if err := m.store.Release(q.r.Context(), q.scope, q.storeKey, q.fingerprint); err != nil {
			q.audit("release", "failure", "store_error", "error", err.Error())
		}
		return
	}

	q.event("created")
	cached := service.CachedHTTPResponse{
		StatusCode:  status,
		ContentType: ww.Header().Get("Content-Type"),
		Body:        body.Bytes(),
	}
	if err := m.store.Complete(q.r.Context(), q.scope, q.storeKey, q.fingerprint, cached, m.ttl); err != nil {
		q.event("store_error")
		q.audit("complete", "failure", "store_error", "error", err.Error())
	}
}

func writeCachedResponse(w http.ResponseWriter, cached *service.CachedHTTPResponse) {
	if cached == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if cached.ContentType != "" {
		w.Header().Set("Content-Type", cached.ContentType)
	}
	w.Header().Set(replayedHeader, "true")
	w.WriteHeader(cached.StatusCode)
	if len(cached.Body) > 0 {
		_, _ = w.Write(cached.Body)
	}
}

// fingerprintRequest binds a key to scope, method, route pattern, caller and
// body so the same key cannot be replayed against a different request.
func fingerprintRequest(r *http.Request, scope string, body []byte) string {
	route := r.URL.Path
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if pattern := rc.RoutePattern(); pattern != "" {
			route = pattern
		}
	}
	bodySum := sha256.Sum256(body)

	h := sha256.New()
	for _, part := range []string{scope, r.Method, route, actorForScope(r), hex.EncodeToString(bodySum[:])} {
		_, _ = io.WriteString(h, part)
		_, _ = h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func actorForScope(r *http.Request) string {
	if user, ok := IdentityFromContext(r.Context()); ok {
		return "user:" + strconv.FormatUint(uint64(user.ID), 10)
	}
	return "ip:" + ClientIP(r)
}

func actorUserIDForAudit(r *http.Request) string {
	if user, ok := IdentityFromContext(r.Context()); ok {
		return strconv.FormatUint(uint64(user.ID), 10)
	}
	return "anonymous"
}

// shortHash is a stable 12 hex char tag for values that should not appear
// verbatim in logs or keys.
func shortHash(v string) string {
	sum := sha256.Sum256([]byte(v))
	return hex.EncodeToString(sum[:6])
}
