package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/lcolonia21/BizGuide-Final-System/internal/config"
	"github.com/lcolonia21/BizGuide-Final-System/internal/database"
	"github.com/lcolonia21/BizGuide-Final-System/internal/http/handler"
	"github.com/lcolonia21/BizGuide-Final-System/internal/http/middleware"
	"github.com/lcolonia21/BizGuide-Final-System/internal/http/router"
	"github.com/lcolonia21/BizGuide-Final-System/internal/repository"
	"github.com/lcolonia21/BizGuide-Final-System/internal/security"
	"github.com/lcolonia21/BizGuide-Final-System/internal/service"
)

const testPassword = "Valid#Pass1234"

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	RequestID string `json:"request_id"`
}

type testServerOptions struct {
	cfgOverride func(cfg *config.Config)
	logoStore   service.LogoObjectStore
	clock       func() time.Time
}

type testServer struct {
	baseURL string
	client  *http.Client
	db      *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	return newTestServerWithOptions(t, testServerOptions{})
}

func newTestServerWithOptions(t *testing.T, opts testServerOptions) *testServer {
	t.Helper()

	cfg := &config.Config{
		Env:                        "test",
		DBDriver:                   "sqlite",
		DatabaseURL:                fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_")),
		JWTIssuer:                  "bizguide-test",
		JWTAudience:                "bizguide-test-clients",
		JWTSecret:                  "abcdefghijklmnopqrstuvwxyz123456",
		JWTAlgorithm:               "HS256",
		JWTAccessTTL:               30 * time.Minute,
		AuthPasswordPolicy:         service.PasswordPolicyBasic,
		CORSAllowedOrigins:         []string{"http://localhost"},
		HTTPMaxBodyBytes:           1 << 20,
		AuthRateLimitPerMin:        1000,
		APIRateLimitPerMin:         1000,
		AuthAbuseProtectionEnabled: true,
		AuthAbuseFreeAttempts:      3,
		AuthAbuseBaseDelay:         2 * time.Second,
		AuthAbuseMultiplier:        2,
		AuthAbuseMaxDelay:          5 * time.Minute,
		AuthAbuseResetWindow:       30 * time.Minute,
		IdempotencyEnabled:         true,
		IdempotencyTTL:             24 * time.Hour,
		ListingCacheEnabled:        true,
		ListingCacheTTL:            30 * time.Second,
		LogoMaxUploadBytes:         1 << 20,
		LogoURLTTL:                 15 * time.Minute,
	}
	if opts.cfgOverride != nil {
		opts.cfgOverride(cfg)
	}

	db, err := database.Open(cfg)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// a single connection keeps the foreign_keys pragma in effect
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	var jwtOpts []security.JWTOption
	if opts.clock != nil {
		jwtOpts = append(jwtOpts, security.WithClock(opts.clock))
	}
	jwtMgr, err := security.NewJWTManager(cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTSecret, cfg.JWTAlgorithm, jwtOpts...)
	if err != nil {
		t.Fatalf("jwt manager: %v", err)
	}

	var guard service.LoginGuard = service.NewNoopLoginGuard()
	if cfg.AuthAbuseProtectionEnabled {
		guard = service.NewMemoryLoginGuard(service.LoginGuardPolicy{
			FreeAttempts: cfg.AuthAbuseFreeAttempts,
			BaseDelay:    cfg.AuthAbuseBaseDelay,
			Multiplier:   cfg.AuthAbuseMultiplier,
			MaxDelay:     cfg.AuthAbuseMaxDelay,
			ResetWindow:  cfg.AuthAbuseResetWindow,
		})
	}

	users := repository.NewUserRepository(db)
	businesses := repository.NewBusinessRepository(db)
	reviews := repository.NewReviewRepository(db)
	ownership := service.NewOwnershipGuard()
	var cacheStore service.ListingCacheStore = service.NewNoopListingCacheStore()
	if cfg.ListingCacheEnabled {
		cacheStore = service.NewMemoryListingCacheStore()
	}
	cache := service.NewListingCache(cacheStore, cfg.ListingCacheTTL)

	var remover service.LogoObjectRemover
	if opts.logoStore != nil {
		remover = opts.logoStore
	}
	authSvc := service.NewAuthService(cfg, users, jwtMgr, guard)
	businessSvc := service.NewBusinessService(businesses, ownership, cache, remover)
	reviewSvc := service.NewReviewService(reviews, businesses, ownership, cache)
	logoSvc := service.NewLogoService(cfg, businesses, opts.logoStore, ownership, cache)

	var idempotency router.IdempotencyMiddlewareFactory
	if cfg.IdempotencyEnabled {
		idemMW := middleware.NewIdempotencyMiddleware(service.NewDBIdempotencyStore(db), cfg.IdempotencyTTL)
		idempotency = idemMW.Middleware
	}

	h := router.NewRouter(router.Dependencies{
		AuthHandler:      handler.NewAuthHandler(authSvc),
		UserHandler:      handler.NewUserHandler(businessSvc),
		BusinessHandler:  handler.NewBusinessHandler(businessSvc),
		ReviewHandler:    handler.NewReviewHandler(reviewSvc),
		LogoHandler:      handler.NewLogoHandler(logoSvc, cfg.LogoMaxUploadBytes),
		Identity:         authSvc,
		CORSOrigins:      cfg.CORSAllowedOrigins,
		MaxBodyBytes:     cfg.HTTPMaxBodyBytes,
		AuthRateLimitRPM: cfg.AuthRateLimitPerMin,
		APIRateLimitRPM:  cfg.APIRateLimitPerMin,
		Idempotency:      idempotency,
	})
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return &testServer{baseURL: srv.URL, client: srv.Client(), db: db}
}

func (s *testServer) do(t *testing.T, method, path string, body any, headers map[string]string) (*http.Response, apiEnvelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, s.baseURL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return s.send(t, req)
}

func (s *testServer) send(t *testing.T, req *http.Request) (*http.Response, apiEnvelope) {
	t.Helper()
	resp, raw := s.sendRaw(t, req)
	var env apiEnvelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("decode %s %s (status %d): %v body=%s", req.Method, req.URL.Path, resp.StatusCode, err, raw)
		}
	}
	return resp, env
}

func (s *testServer) sendRaw(t *testing.T, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := s.client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read %s %s: %v", req.Method, req.URL.Path, err)
	}
	return resp, raw
}

// register creates an account and returns a bearer header for it.
func (s *testServer) register(t *testing.T, email, fullName string) map[string]string {
	t.Helper()
	resp, env := s.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email":     email,
		"password":  testPassword,
		"full_name": fullName,
	}, nil)
	if resp.StatusCode != http.StatusCreated || !env.Success {
		t.Fatalf("register %s: status=%d env=%+v", email, resp.StatusCode, env)
	}
	return bearer(s.login(t, email, testPassword))
}

// login posts the password-grant form and reads the flat token response.
func (s *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	resp, raw := s.sendRaw(t, s.tokenRequest(t, email, password))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: status=%d body=%s", email, resp.StatusCode, raw)
	}
	var tok struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.Unmarshal(raw, &tok); err != nil {
		t.Fatalf("decode token: %v (%s)", err, raw)
	}
	if tok.AccessToken == "" || tok.TokenType != "bearer" {
		t.Fatalf("unexpected token payload: %s", raw)
	}
	return tok.AccessToken
}

func (s *testServer) loginForm(t *testing.T, email, password string) (*http.Response, apiEnvelope) {
	t.Helper()
	return s.send(t, s.tokenRequest(t, email, password))
}

func (s *testServer) tokenRequest(t *testing.T, email, password string) *http.Request {
	t.Helper()
	form := url.Values{"username": {email}, "password": {password}}
	req, err := http.NewRequest(http.MethodPost, s.baseURL+"/api/v1/auth/token", strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func (s *testServer) createBusiness(t *testing.T, auth map[string]string, name, category string) uint {
	t.Helper()
	resp, env := s.do(t, http.MethodPost, "/api/v1/businesses", map[string]string{
		"name":     name,
		"category": category,
		"address":  "1 Test Way",
	}, auth)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create business: status=%d env=%+v", resp.StatusCode, env)
	}
	var b struct {
		ID uint `json:"id"`
	}
	decodeData(t, env, &b)
	return b.ID
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func decodeData(t *testing.T, env apiEnvelope, dst any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data: %v (%s)", err, env.Data)
	}
}

func itoa(v uint) string { return fmt.Sprintf("%d", v) }
