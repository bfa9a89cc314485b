package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/authhub/authhub/internal/auth"
	"github.com/authhub/authhub/internal/config"
	"github.com/authhub/authhub/internal/http/handlers"
	"github.com/authhub/authhub/internal/http/middlewares"
	"github.com/authhub/authhub/internal/notifications"
	"github.com/authhub/authhub/internal/observability"
	"github.com/authhub/authhub/internal/security"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const maxBodyBytes = 1 << 20 // 1 MiB is plenty for auth payloads

// RouterDeps is assembled once in main (or in tests) — explicit constructor
// wiring, no runtime registration.
type RouterDeps struct {
	Users   auth.UserRepository
	Hasher  security.PasswordHasher
	Tokens  auth.TokenService
	Audit   notifications.Notifier
	Redis   *redis.Client
	Prom    *observability.Prom
	Metrics http.Handler
	DBPing  func(context.Context) error
}

func NewRouter(log *slog.Logger, cfg config.Config, deps RouterDeps) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))
	r.Use(middlewares.RequireJSON())
	r.Use(otelgin.Middleware("authhub"))

	if deps.Prom != nil {
		r.Use(deps.Prom.GinHandleMiddleware())
	}

	// wire up the use cases

	loginUC := auth.NewLoginUseCase(deps.Users, deps.Tokens, deps.Hasher, deps.Audit)
	refreshUC := auth.NewRefreshTokenUseCase(deps.Tokens)
	validationUC := auth.NewValidationUseCase(deps.Tokens)
	registrationUC := auth.NewRegistrationUseCase(deps.Users, deps.Audit)

	authHandler := handlers.NewAuthHandler(loginUC, refreshUC, registrationUC, validationUC, deps.Prom, cfg)
	authMw := middlewares.NewAuthMiddleware(validationUC)

	// health + metrics

	healthHandler := handlers.NewHealthHandler(map[string]func(context.Context) error{
		"db":    deps.DBPing,
		"redis": redisPing(deps.Redis),
	})

	r.GET("/healthz", healthHandler.Healthz)
	r.GET("/readyz", healthHandler.Readyz)

	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics))
	}

	// credential endpoints take the brunt of stuffing attacks
	limiter := middlewares.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow, deps.Redis)
	limited := limiter.RateLimiterMiddleware(middlewares.KeyByIP)

	r.POST("/signup", limited, authHandler.SignUp)
	r.POST("/login", limited, authHandler.Login)

	authGroup := r.Group("/auth")
	authGroup.POST("/refresh", authHandler.Refresh)
	authGroup.POST("/logout", authHandler.Logout)
	authGroup.POST("/validate", authHandler.Validate)

	r.GET("/me", authMw.RequireAuth(), authHandler.Me)

	return r
}

func redisPing(rdb *redis.Client) func(context.Context) error {
	if rdb == nil {
		return nil
	}

	return func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}
}
