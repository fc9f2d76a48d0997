// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the movies HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis when REDIS_URL is set.
//  5. Run database migrations (idempotent).
//  6. Wire HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/taibuivan/movies/internal/api"
	"github.com/taibuivan/movies/internal/core/movie"
	"github.com/taibuivan/movies/internal/core/rating"
	"github.com/taibuivan/movies/internal/platform/config"
	"github.com/taibuivan/movies/internal/platform/constants"
	"github.com/taibuivan/movies/internal/platform/middleware"
	"github.com/taibuivan/movies/internal/platform/migration"
	pgstore "github.com/taibuivan/movies/internal/platform/postgres"
	redisstore "github.com/taibuivan/movies/internal/platform/redis"
	"github.com/taibuivan/movies/internal/platform/sec"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Bool("vote_throttling", cfg.RedisURL != ""),
	)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), constants.StartupTimeout)
	defer startupCancel()

	// Background work (rate limiter cleanup) stops with this context.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	health := api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
	}

	// ── 4. Redis (optional) ───────────────────────────────────────────────
	var voteGuards []func(http.Handler) http.Handler
	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()

		health.CheckCache = func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		}
		voteGuards = append(voteGuards, middleware.ThrottleUser(redisstore.NewCounter(rdb), cfg.VoteLimit, cfg.VoteWindow))
	}

	// ── 5. Migrations ─────────────────────────────────────────────────────
	if cfg.RunMigrations {
		must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")
	}

	// ── 6. Token Verification ─────────────────────────────────────────────
	tokens, err := sec.NewTokenService(cfg.JWTPubKeyPath, cfg.JWTPrivKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	movieRepository := movie.NewRepository(pool)
	movieService := movie.NewService(movieRepository, log)

	ratingService := rating.NewService(rating.NewRepository(pool), movieRepository, log)

	liveness, readiness := api.NewHealthHandlers(health, log)
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Movie:     movie.NewHandler(movieService),
		Rating:    rating.NewHandler(ratingService, voteGuards...),
	}

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	server := api.NewServer(rootCtx, cfg, log, tokens, handlers)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// ── 9. Graceful Shutdown ──────────────────────────────────────────────
	log.Info("shutting down server", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// newLogger builds the JSON logger and installs it as the slog default.
func newLogger(level slog.Level) *slog.Logger {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", constants.AppName))
	slog.SetDefault(log)
	return log
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
