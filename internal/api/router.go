package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/identitylab/auth-api/docs"
	"github.com/identitylab/auth-api/internal/api/handler"
	"github.com/identitylab/auth-api/internal/api/middleware"
	"github.com/identitylab/auth-api/internal/core/domain"
	"github.com/identitylab/auth-api/internal/core/ports"
	"github.com/identitylab/auth-api/internal/core/service"
	mongodb "github.com/identitylab/auth-api/internal/infrastructure/db/mongo"
	redisdb "github.com/identitylab/auth-api/internal/infrastructure/db/redis"
	"github.com/identitylab/auth-api/internal/infrastructure/security"
)

// RouterConfig carries the settings the router needs beyond its connections.
type RouterConfig struct {
	JWTSecret   string
	TokenTTL    time.Duration
	BcryptCost  int
	MaxAttempts int
	AttemptTTL  time.Duration
}

// NewRouter builds and returns the Echo instance with all routes registered.
// audit may be nil, in which case attempts are not recorded.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg RouterConfig, audit ports.AuditSink, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("identity"))

	// --- Dependencies ---
	hasher := security.NewBcryptHasher(cfg.BcryptCost)
	userRepo := mongodb.NewUserRepository(db, hasher)
	tokenService := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	throttle := redisdb.NewLoginThrottle(rdb, cfg.MaxAttempts, cfg.AttemptTTL)
	authService := service.NewAuthService(userRepo, tokenService, throttle, audit, log)

	authHandler := handler.NewAuthHandler(authService)
	securedHandler := handler.NewSecuredHandler()
	authMiddleware := middleware.Auth(tokenService)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Protected resources ---
	secured := e.Group("/api/secured", authMiddleware)
	secured.GET("", securedHandler.Get)
	secured.GET("/admin", securedHandler.AdminOnly, middleware.RequireRole(domain.RoleAdmin))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
