package di

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/lcolonia21/BizGuide-Final-System/internal/app"
	"github.com/lcolonia21/BizGuide-Final-System/internal/config"
	"github.com/lcolonia21/BizGuide-Final-System/internal/database"
	"github.com/lcolonia21/BizGuide-Final-System/internal/health"
	"github.com/lcolonia21/BizGuide-Final-System/internal/http/handler"
	"github.com/lcolonia21/BizGuide-Final-System/internal/http/middleware"
	"github.com/lcolonia21/BizGuide-Final-System/internal/http/router"
	"github.com/lcolonia21/BizGuide-Final-System/internal/observability"
	"github.com/lcolonia21/BizGuide-Final-System/internal/repository"
	"github.com/lcolonia21/BizGuide-Final-System/internal/security"
	"github.com/lcolonia21/BizGuide-Final-System/internal/service"
)

// EnvFile is the optional dotenv file loaded before reading configuration.
type EnvFile string

var ConfigSet = wire.NewSet(provideConfig)

var ObservabilitySet = wire.NewSet(
	provideObservabilityRuntime,
	provideAppLogger,
)

var RuntimeInfraSet = wire.NewSet(
	provideRuntimeDB,
	provideRedisClient,
	provideLogoObjectStore,
	provideReadinessProbeRunner,
)

var RepositorySet = wire.NewSet(
	repository.NewUserRepository,
	repository.NewBusinessRepository,
	repository.NewReviewRepository,
)

var SecuritySet = wire.NewSet(
	provideJWTManager,
	wire.Bind(new(service.TokenManager), new(*security.JWTManager)),
)

var ServiceSet = wire.NewSet(
	provideLoginGuard,
	provideListingCache,
	provideLogoObjectRemover,
	provideIdempotencyStore,
	service.NewOwnershipGuard,
	service.NewAuthService,
	service.NewBusinessService,
	service.NewReviewService,
	service.NewLogoService,
	wire.Bind(new(service.AuthServiceInterface), new(*service.AuthService)),
	wire.Bind(new(service.IdentityResolver), new(*service.AuthService)),
	wire.Bind(new(service.BusinessServiceInterface), new(*service.BusinessService)),
	wire.Bind(new(service.ReviewServiceInterface), new(*service.ReviewService)),
	wire.Bind(new(service.LogoServiceInterface), new(*service.LogoService)),
)

var HTTPSet = wire.NewSet(
	handler.NewAuthHandler,
	handler.NewUserHandler,
	handler.NewBusinessHandler,
	handler.NewReviewHandler,
	provideLogoHandler,
	provideGlobalRateLimiter,
	provideAuthRateLimiter,
	provideIdempotencyFactory,
	provideRouterDependencies,
	router.NewRouter,
	provideHTTPServer,
)

var AppSet = wire.NewSet(app.New)

func provideConfig(envFile EnvFile) (*config.Config, error) {
	if err := config.LoadDotEnv(string(envFile)); err != nil {
		return nil, err
	}
	return config.Load()
}

func provideObservabilityRuntime(cfg *config.Config) (*observability.Runtime, error) {
	bootstrapLogger := observability.NewBootstrapLogger(cfg)
	return observability.InitRuntime(context.Background(), cfg, bootstrapLogger)
}

func provideAppLogger(cfg *config.Config, runtime *observability.Runtime) *slog.Logger {
	return observability.InitLogger(cfg, runtime.LoggerProvider)
}

func provideRuntimeDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// provideRedisClient returns nil unless a Redis backed feature is enabled.
func provideRedisClient(cfg *config.Config, logger *slog.Logger) redis.UniversalClient {
	if !cfg.RedisRequired() {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	observability.InstrumentRedisClient(client, logger)
	return client
}

// provideLogoObjectStore yields a nil interface when MinIO is disabled so
// the logo service reports storage as unavailable.
func provideLogoObjectStore(cfg *config.Config) (service.LogoObjectStore, error) {
	if !cfg.MinIOEnabled {
		return nil, nil
	}
	store, err := service.NewMinIOLogoStore(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOBucket, cfg.MinIOUseSSL)
	if err != nil {
		return nil, err
	}
	return store, nil
}

func provideLogoObjectRemover(store service.LogoObjectStore) service.LogoObjectRemover {
	if store == nil {
		return nil
	}
	return store
}

func provideReadinessProbeRunner(cfg *config.Config, db *gorm.DB, redisClient redis.UniversalClient, store service.LogoObjectStore) *health.ProbeRunner {
	checks := []*health.Check{health.Database(db), health.Redis(redisClient)}
	if pinger, ok := store.(health.Pinger); ok {
		checks = append(checks, health.ObjectStore("logo_storage", pinger))
	}
	return health.NewProbeRunner(cfg.ReadinessProbeTimeout, cfg.ServerStartGracePeriod, checks...)
}

func provideJWTManager(cfg *config.Config) (*security.JWTManager, error) {
	return security.NewJWTManager(cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTSecret, cfg.JWTAlgorithm)
}

func provideLoginGuard(cfg *config.Config, redisClient redis.UniversalClient) service.LoginGuard {
	if !cfg.AuthAbuseProtectionEnabled {
		return service.NewNoopLoginGuard()
	}
	policy := service.LoginGuardPolicy{
		FreeAttempts: cfg.AuthAbuseFreeAttempts,
		BaseDelay:    cfg.AuthAbuseBaseDelay,
		Multiplier:   cfg.AuthAbuseMultiplier,
		MaxDelay:     cfg.AuthAbuseMaxDelay,
		ResetWindow:  cfg.AuthAbuseResetWindow,
	}
	if cfg.RateLimitRedisEnabled && redisClient != nil {
		return service.NewRedisLoginGuard(redisClient, cfg.AuthAbuseRedisPrefix, policy)
	}
	return service.NewMemoryLoginGuard(policy)
}

func provideListingCache(cfg *config.Config, redisClient redis.UniversalClient) *service.ListingCache {
	if !cfg.ListingCacheEnabled {
		return service.NewListingCache(service.NewNoopListingCacheStore(), cfg.ListingCacheTTL)
	}
	if cfg.ListingCacheRedisEnabled && redisClient != nil {
		return service.NewListingCache(service.NewRedisListingCacheStore(redisClient, cfg.ListingCacheRedisPrefix), cfg.ListingCacheTTL)
	}
	return service.NewListingCache(service.NewMemoryListingCacheStore(), cfg.ListingCacheTTL)
}

func provideIdempotencyStore(db *gorm.DB) *service.DBIdempotencyStore {
	return service.NewDBIdempotencyStore(db)
}

func provideLogoHandler(cfg *config.Config, logoSvc service.LogoServiceInterface) *handler.LogoHandler {
	return handler.NewLogoHandler(logoSvc, cfg.LogoMaxUploadBytes)
}

// provideGlobalRateLimiter keys authenticated callers by token subject so
// users behind one NAT do not share a bucket.
func provideGlobalRateLimiter(cfg *config.Config, redisClient redis.UniversalClient, jwt *security.JWTManager) router.GlobalRateLimiterFunc {
	limiter := middleware.NewLocalFixedWindowLimiter()
	if cfg.RateLimitRedisEnabled && redisClient != nil {
		limiter = middleware.NewRedisFixedWindowLimiter(redisClient, cfg.RateLimitRedisPrefix+":api")
	}
	return middleware.NewRateLimiter(limiter, middleware.RateLimitPolicy{
		Scope:  "api",
		Limit:  cfg.APIRateLimitPerMin,
		Window: time.Minute,
		Mode:   middleware.FailOpen,
		Key:    middleware.SubjectOrIPKeyFunc(jwt),
	}).Middleware()
}

func provideAuthRateLimiter(cfg *config.Config, redisClient redis.UniversalClient) router.AuthRateLimiterFunc {
	if !cfg.RateLimitRedisEnabled || redisClient == nil {
		return middleware.LocalRateLimit("auth", cfg.AuthRateLimitPerMin, time.Minute)
	}
	limiter := middleware.NewRedisFixedWindowLimiter(redisClient, cfg.RateLimitRedisPrefix+":auth")
	return middleware.NewRateLimiter(limiter, middleware.RateLimitPolicy{
		Scope:  "auth",
		Limit:  cfg.AuthRateLimitPerMin,
		Window: time.Minute,
		Mode:   middleware.FailClosed,
	}).Middleware()
}

func provideIdempotencyFactory(cfg *config.Config, store *service.DBIdempotencyStore) router.IdempotencyMiddlewareFactory {
	if !cfg.IdempotencyEnabled || store == nil {
		return nil
	}
	mw := middleware.NewIdempotencyMiddleware(store, cfg.IdempotencyTTL)
	return mw.Middleware
}

func provideRouterDependencies(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	businessHandler *handler.BusinessHandler,
	reviewHandler *handler.ReviewHandler,
	logoHandler *handler.LogoHandler,
	identity service.IdentityResolver,
	globalRateLimiter router.GlobalRateLimiterFunc,
	authRateLimiter router.AuthRateLimiterFunc,
	idempotency router.IdempotencyMiddlewareFactory,
	readiness *health.ProbeRunner,
	cfg *config.Config,
	logger *slog.Logger,
) router.Dependencies {
	return router.Dependencies{
		AuthHandler:       authHandler,
		UserHandler:       userHandler,
		BusinessHandler:   businessHandler,
		ReviewHandler:     reviewHandler,
		LogoHandler:       logoHandler,
		Identity:          identity,
		CORSOrigins:       cfg.CORSAllowedOrigins,
		MaxBodyBytes:      cfg.HTTPMaxBodyBytes,
		AuthRateLimitRPM:  cfg.AuthRateLimitPerMin,
		APIRateLimitRPM:   cfg.APIRateLimitPerMin,
		GlobalRateLimiter: globalRateLimiter,
		AuthRateLimiter:   authRateLimiter,
		Idempotency:       idempotency,
		Readiness:         readiness,
		EnableOTelHTTP:    cfg.OTELMetricsEnabled || cfg.OTELTracingEnabled,
		Logger:            logger,
	}
}

func provideHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           h,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
