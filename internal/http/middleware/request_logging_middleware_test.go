package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/mock/gomock"

	"github.com/lcolonia21/BizGuide-Final-System/internal/domain"
	servicegomock "github.com/lcolonia21/BizGuide-Final-System/internal/service/gomock"
)

type recordSink struct {
	mu      sync.Mutex
	records []slog.Record
}

func (s *recordSink) Enabled(context.Context, slog.Level) bool { return true }

func (s *recordSink) Handle(_ context.Context, r slog.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
	return nil
}

func (s *recordSink) WithAttrs([]slog.Attr) slog.Handler { return s }
func (s *recordSink) WithGroup(string) slog.Handler      { return s }

func (s *recordSink) last(t *testing.T) (slog.Level, map[string]string) {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.records) == 0 {
		t.Fatal("no log records captured")
	}
	rec := s.records[len(s.records)-1]
	attrs := map[string]string{}
	rec.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.String()
		return true
	})
	return rec.Level, attrs
}

func TestAccessLevel(t *testing.T) {
	cases := map[int]slog.Level{
		http.StatusOK:                  slog.LevelInfo,
		http.StatusCreated:             slog.LevelInfo,
		http.StatusForbidden:           slog.LevelWarn,
		http.StatusTooManyRequests:     slog.LevelWarn,
		http.StatusInternalServerError: slog.LevelError,
		http.StatusServiceUnavailable:  slog.LevelError,
	}
	for status, want := range cases {
		if got := accessLevel(status); got != want {
			t.Fatalf("status %d: level %v, want %v", status, got, want)
		}
	}
}

func TestRequestLoggerRecordsRoutePattern(t *testing.T) {
	sink := &recordSink{}
	r := chi.NewRouter()
	r.Use(RequestLogger(slog.New(sink)))
	r.Get("/businesses/{id}", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNotFound) })

	req := httptest.NewRequest(http.MethodGet, "/businesses/99", nil)
	req.RemoteAddr = "198.51.100.30:1111"
	r.ServeHTTP(httptest.NewRecorder(), req)

	level, attrs := sink.last(t)
	if level != slog.LevelWarn {
		t.Fatalf("expected warn for 404, got %v", level)
	}
	if attrs["route"] != "/businesses/{id}" || attrs["path"] != "/businesses/99" || attrs["status"] != "404" {
		t.Fatalf("unexpected attrs: %+v", attrs)
	}
	if attrs["client_ip"] != "198.51.100.30" {
		t.Fatalf("expected client ip, got %q", attrs["client_ip"])
	}
	if _, ok := attrs["user_id"]; ok {
		t.Fatal("anonymous request should not carry user_id")
	}
}

func TestRequestLoggerIncludesAuthenticatedUser(t *testing.T) {
	sink := &recordSink{}
	ctrl := gomock.NewController(t)
	resolver := servicegomock.NewMockIdentityResolver(ctrl)
	resolver.EXPECT().ResolveCurrentIdentity(gomock.Any(), "token").Return(&domain.User{ID: 42, Email: "owner@example.com"}, nil)
	h := RequestLogger(slog.New(sink))(Authenticate(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/businesses/7", nil)
	req.Header.Set("Authorization", "Bearer token")
	h.ServeHTTP(httptest.NewRecorder(), req)

	level, attrs := sink.last(t)
	if level != slog.LevelInfo || attrs["user_id"] != "42" || attrs["status"] != "204" {
		t.Fatalf("unexpected access line level=%v attrs=%+v", level, attrs)
	}
}

func TestRequestLoggerDefaultsStatusTo200(t *testing.T) {
	sink := &recordSink{}
	h := RequestLogger(slog.New(sink))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/none", nil))

	if _, attrs := sink.last(t); attrs["status"] != "200" {
		t.Fatalf("expected fallback status 200, got %q", attrs["status"])
	}
}
