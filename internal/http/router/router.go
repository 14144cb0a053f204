package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/lcolonia21/BizGuide-Final-System/internal/health"
	"github.com/lcolonia21/BizGuide-Final-System/internal/http/handler"
	"github.com/lcolonia21/BizGuide-Final-System/internal/http/middleware"
	"github.com/lcolonia21/BizGuide-Final-System/internal/http/response"
	"github.com/lcolonia21/BizGuide-Final-System/internal/service"
)

const defaultMaxBodyBytes = 1 << 20

type Dependencies struct {
	AuthHandler       *handler.AuthHandler
	UserHandler       *handler.UserHandler
	BusinessHandler   *handler.BusinessHandler
	ReviewHandler     *handler.ReviewHandler
	LogoHandler       *handler.LogoHandler
	Identity          service.IdentityResolver
	CORSOrigins       []string
	MaxBodyBytes      int64
	AuthRateLimitRPM  int
	APIRateLimitRPM   int
	GlobalRateLimiter GlobalRateLimiterFunc
	AuthRateLimiter   AuthRateLimiterFunc
	Idempotency       IdempotencyMiddlewareFactory
	Readiness         *health.ProbeRunner
	EnableOTelHTTP    bool
	Logger            *slog.Logger
}

type GlobalRateLimiterFunc func(http.Handler) http.Handler
type AuthRateLimiterFunc func(http.Handler) http.Handler
type IdempotencyMiddlewareFactory func(scope string) func(http.Handler) http.Handler

const (
	ScopeBusinessCreate = "businesses.create"
	ScopeReviewCreate   = "reviews.create"
)

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestLogger(dep.Logger))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(dep.CORSOrigins))
	if dep.GlobalRateLimiter != nil {
		r.Use(dep.GlobalRateLimiter)
	} else {
		r.Use(middleware.LocalRateLimit("api", dep.APIRateLimitRPM, time.Minute))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", nil)
	})

	authLimiter := dep.AuthRateLimiter
	if authLimiter == nil {
		authLimiter = middleware.LocalRateLimit("auth", dep.AuthRateLimitRPM, time.Minute)
	}
	maxBody := dep.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	jsonBody := middleware.BodyLimit(maxBody)
	authn := middleware.Authenticate(dep.Identity)
	idempotent := func(scope string) func(http.Handler) http.Handler {
		if dep.Idempotency == nil {
			return func(next http.Handler) http.Handler { return next }
		}
		return dep.Idempotency(scope)
	}

	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		if dep.Readiness == nil {
			response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": []any{}})
			return
		}
		ready, results := dep.Readiness.Ready(r.Context())
		if ready {
			response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": results})
			return
		}
		response.Error(w, r, http.StatusServiceUnavailable, "DEPENDENCY_UNREADY", "dependencies are not ready", map[string]any{"checks": results})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter, jsonBody)
			r.Post("/register", dep.AuthHandler.Register)
			r.Post("/token", dep.AuthHandler.Token)
		})

		r.Group(func(r chi.Router) {
			r.Use(authn)
			r.Get("/me", dep.UserHandler.Me)
			r.Get("/me/businesses", dep.UserHandler.MyBusinesses)
		})

		r.Route("/businesses", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(jsonBody)
				r.Get("/", dep.BusinessHandler.List)
				r.Get("/{id}", dep.BusinessHandler.GetByID)
				r.Get("/{id}/logo", dep.LogoHandler.Get)
				r.Group(func(r chi.Router) {
					r.Use(authn)
					r.With(idempotent(ScopeBusinessCreate)).Post("/", dep.BusinessHandler.Create)
					r.Put("/{id}", dep.BusinessHandler.Update)
					r.Delete("/{id}", dep.BusinessHandler.Delete)
					r.Delete("/{id}/logo", dep.LogoHandler.Delete)
				})
			})
			// logo uploads are capped by the logo handler instead of the JSON limit
			r.With(authn).Put("/{id}/logo", dep.LogoHandler.Upload)
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Use(jsonBody)
			r.Get("/{id}", dep.ReviewHandler.GetByID)
			r.Get("/business/{business_id}", dep.ReviewHandler.ListByBusiness)
			r.Get("/business/{business_id}/rating", dep.ReviewHandler.Rating)
			r.Get("/user/{user_id}", dep.ReviewHandler.ListByUser)
			r.Group(func(r chi.Router) {
				r.Use(authn)
				r.With(idempotent(ScopeReviewCreate)).Post("/", dep.ReviewHandler.Create)
				r.Put("/{id}", dep.ReviewHandler.Update)
				r.Delete("/{id}", dep.ReviewHandler.Delete)
			})
		})
	})

	var h http.Handler = r
	if dep.EnableOTelHTTP {
		h = otelhttp.NewHandler(r, "http.server")
	}
	return h
}
