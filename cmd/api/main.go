package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/authhub/authhub/internal/auth"
	"github.com/authhub/authhub/internal/config"
	"github.com/authhub/authhub/internal/db"
	httpx "github.com/authhub/authhub/internal/http"
	"github.com/authhub/authhub/internal/notifications"
	"github.com/authhub/authhub/internal/observability"
	"github.com/authhub/authhub/internal/redisclient"
	"github.com/authhub/authhub/internal/repo/memory"
	"github.com/authhub/authhub/internal/repo/postgres"
	"github.com/authhub/authhub/internal/security"
	"github.com/authhub/authhub/internal/token"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func main() {
	// .env is for local dev only; real deployments inject env vars
	_ = godotenv.Load()

	cfg, err := config.Load()

	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log := observability.NewLogger(cfg.Env)

	// tracing (optional, keyed off the endpoint being set)

	if cfg.OTLPEndpoint != "" {
		shutdown, err := observability.InitTracer(context.Background(), "authhub", cfg.OTLPEndpoint)

		if err != nil {
			log.Error("tracer init failed", "err", err)
		} else {
			defer func() {
				ctx, cancel := config.WithTimeout(3 * time.Second)
				defer cancel()
				_ = shutdown(ctx)
			}()
		}
	}

	// metrics

	registry := prometheus.NewRegistry()
	prom := observability.NewProm(registry)

	// signing + hashing services

	hasher := observability.NewInstrumentedHasher(security.NewHasher(cfg.BcryptCost), prom)
	tokens := observability.NewInstrumentedTokenService(
		token.NewService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL),
		prom,
	)

	// user store: postgres in real deployments, memory for local hacking

	var users auth.UserRepository

	var dbPing func(context.Context) error

	if cfg.Storage == "memory" {
		users = memory.NewUsersRepo(hasher)

		log.Warn("using in-memory user store; data will not survive a restart")
	} else {
		pool, err := db.NewPool(cfg.DBURL)

		if err != nil {
			log.Error("db connect failed", "err", err)
			os.Exit(1)
		}

		defer pool.Close()

		seedCtx, cancel := config.WithTimeout(5 * time.Second)

		if err := db.EnsureSeedUser(seedCtx, pool, cfg, hasher); err != nil {
			log.Error("seed user failed", "err", err)
		}

		cancel()

		users = postgres.NewUsersRepo(pool, hasher, prom)
		dbPing = pool.Ping
	}

	// redis is optional: it backs the shared rate limiter

	var rdb *redis.Client

	if cfg.RedisAddr != "" {
		rc := redisclient.New(redisclient.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		defer rc.Close()

		pingCtx, cancel := config.WithTimeout(2 * time.Second)

		if err := rc.Ping(pingCtx); err != nil {
			log.Warn("redis unreachable, rate limiting falls back to per-process", "err", err)
		}

		cancel()

		rdb = rc.Raw()
	}

	audit := notifications.NewProtectedNotifier(notifications.NewLogNotifier(), notifications.ProtectedNotifierConfig{})

	router := httpx.NewRouter(log, cfg, httpx.RouterDeps{
		Users:   users,
		Hasher:  hasher,
		Tokens:  tokens,
		Audit:   audit,
		Redis:   rdb,
		Prom:    prom,
		Metrics: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		DBPing:  dbPing,
	})

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env, "storage", cfg.Storage)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)

		defer cancel()

		err := srv.Shutdown(ctx)

		if err != nil {
			log.Error("graceful shutdown failed", "err", err)

			return
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
