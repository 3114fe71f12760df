// Package main is the entrypoint for the MediConnect API server.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/mediconnect/mediconnect/internal/auth"
	"github.com/mediconnect/mediconnect/internal/cache"
	"github.com/mediconnect/mediconnect/internal/config"
	"github.com/mediconnect/mediconnect/internal/handler"
	"github.com/mediconnect/mediconnect/internal/logging"
	"github.com/mediconnect/mediconnect/internal/metrics"
	"github.com/mediconnect/mediconnect/internal/middleware"
	"github.com/mediconnect/mediconnect/internal/repository"
	"github.com/mediconnect/mediconnect/internal/server"
	"github.com/mediconnect/mediconnect/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	repo, err := repository.New(ctx, cfg.DatabaseURL, cfg.DatabaseOptions())
	if err != nil {
		logger.Error("failed to connect to database",
			slog.String("error", logging.SanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", logging.RedactURL(cfg.DatabaseURL)),
		)
		return err
	}
	logger.Info("connected to database", "engine", repo.Engine())

	if err := repo.EnsureSchema(ctx); err != nil {
		_ = repo.Close()
		logger.Error("failed to ensure schema", "error", logging.SanitizeError(err, cfg.DatabaseURL))
		return err
	}

	sessions, sessionsHealth, closeSessions, err := openSessionStore(ctx, cfg, logger)
	if err != nil {
		_ = repo.Close()
		return err
	}

	recorder := metrics.NewInMemory()
	hasher := auth.NewArgon2Hasher(cfg.Argon2Params())

	accountService := service.NewAccountService(repo, hasher, recorder)
	sessionService := service.NewSessionService(sessions, cfg.SessionTTL)
	providerService := service.NewProviderService(repo, cfg.Policy(), recorder)
	searchService := service.NewSearchService(repo, recorder)

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()

	router := handler.NewRouter(handler.RouterConfig{
		Logger:                 logger,
		Accounts:               accountService,
		Sessions:               sessionService,
		Providers:              providerService,
		Search:                 searchService,
		Health:                 handler.NewHealthHandler(repo, repo.Engine(), sessionsHealth),
		Metrics:                recorder,
		Cookie:                 handler.CookieConfig{Name: cfg.SessionCookieName, Secure: !cfg.IsDevelopment()},
		CORS:                   corsCfg,
		IsDevelopment:          cfg.IsDevelopment(),
		MaxRequestBodySize:     cfg.MaxRequestBodySize,
		AdminWritesRequireAuth: cfg.AdminWritesRequireAuth,
	})

	srv := server.New(router, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)
	srv.OnShutdown("database", func(context.Context) error { return repo.Close() })
	srv.OnShutdown("sessions", func(context.Context) error { return closeSessions() })

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"reference_policy", string(providerService.Policy()),
		"admin_writes_require_auth", cfg.AdminWritesRequireAuth,
	)

	return srv.Run(ctx)
}

// openSessionStore connects to Redis when REDIS_URL is set and falls back
// to the in-process store otherwise. The returned checker is nil for the
// in-process store so readiness reports it as such.
func openSessionStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (cache.SessionStore, handler.HealthChecker, func() error, error) {
	if cfg.RedisURL == "" {
		logger.Warn("REDIS_URL not set, sessions are kept in process memory")
		return cache.NewMemorySessionStore(), nil, func() error { return nil }, nil
	}

	client, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error("failed to connect to Redis",
			slog.String("error", logging.SanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", logging.RedactURL(cfg.RedisURL)),
		)
		return nil, nil, nil, err
	}
	logger.Info("connected to Redis")
	return client, client, client.Close, nil
}
