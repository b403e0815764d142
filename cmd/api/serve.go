// AngelaMos | 2026
// serve.go

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/carterperez-dev/silvershift/internal/admin"
	"github.com/carterperez-dev/silvershift/internal/auth"
	"github.com/carterperez-dev/silvershift/internal/config"
	"github.com/carterperez-dev/silvershift/internal/core"
	"github.com/carterperez-dev/silvershift/internal/dashboard"
	"github.com/carterperez-dev/silvershift/internal/health"
	"github.com/carterperez-dev/silvershift/internal/listing"
	"github.com/carterperez-dev/silvershift/internal/middleware"
	"github.com/carterperez-dev/silvershift/internal/profile"
	"github.com/carterperez-dev/silvershift/internal/server"
	"github.com/carterperez-dev/silvershift/internal/storage"
	"github.com/carterperez-dev/silvershift/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), *configPath)
		},
	}
}

func serve(parent context.Context, configPath string) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
		"storage", cfg.Storage.Driver,
		"directory", cfg.Directory.Driver,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	go a.registry.Run(ctx)

	errChan := make(chan error, 1)
	go func() {
		errChan <- a.server.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	logger.Info("application stopped")
	return nil
}

// app is the wired service: backends, stores and the routed server.
type app struct {
	server   *server.Server
	registry *profile.Registry
	closers  []func()
}

func (a *app) Handler() http.Handler {
	return a.server.Router()
}

// Close releases backends in reverse order of opening.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

//nolint:funlen,gocyclo // bootstrap code is inherently verbose
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *app, err error) {
	a := &app{}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	var db *core.Database
	if cfg.UsesDatabase() {
		db, err = core.NewDatabase(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { closeWith(logger, "database", db.Close) })

		if err := db.Migrate(ctx); err != nil {
			return nil, err
		}
		logger.Info("database connected",
			"driver", cfg.Database.Driver,
			"max_open_conns", cfg.Database.MaxOpenConns,
		)
	}

	var rdb *core.Redis
	if cfg.UsesRedis() {
		rdb, err = core.NewRedis(ctx, cfg.Redis)
		if err != nil {
			if cfg.Storage.Driver == config.StorageRedis {
				return nil, err
			}
			logger.Warn("redis unavailable, rate limiting locally", "error", err)
			rdb, err = nil, nil
		} else {
			a.closers = append(a.closers, func() { closeWith(logger, "redis", rdb.Close) })
			logger.Info("redis connected", "pool_size", cfg.Redis.PoolSize)
		}
	}

	kv := newKV(cfg, db, rdb)

	var repo user.Repository
	if cfg.Directory.Driver == config.StorageSQL {
		repo = user.NewRepository(db.DB)
	} else {
		repo = user.NewMemoryRepository()
	}
	userSvc := user.NewService(repo)
	if err := userSvc.SeedDefaults(ctx); err != nil {
		return nil, err
	}
	if cfg.Directory.AdminEmail != "" {
		if err := userSvc.SeedAdmin(
			ctx,
			cfg.Directory.AdminEmail,
			cfg.Directory.AdminPassword,
			cfg.Directory.AdminName,
		); err != nil {
			return nil, err
		}
		logger.Info("admin account seeded", "email", cfg.Directory.AdminEmail)
	}

	var metrics *core.Metrics
	if cfg.Metrics.Enabled {
		metrics = core.NewMetrics(cfg.Metrics.Namespace)
	}

	a.registry = profile.NewRegistry(profile.RegistryConfig{
		KV:        kv,
		Directory: userSvc,
		Listings:  listing.NewStaticSource(listing.SeedListings()),
		Session:   auth.Options{SimulatedLatency: cfg.Auth.SimulatedLatency},
		MaxOpen:   cfg.Profile.MaxOpen,
		IdleTTL:   cfg.Profile.IdleTTL,
		Metrics:   metrics,
		Logger:    logger,
	})

	tokens, err := newTokenManager(cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("profile token manager initialized",
		"algorithm", "ES256",
		"key_id", tokens.KeyID(),
	)

	var redisClient *redis.Client
	if rdb != nil {
		redisClient = rdb.Client
	}

	healthHandler := health.NewHandler(healthChecks(kv, db, rdb)...)

	adminCfg := admin.HandlerConfig{Profiles: a.registry, Users: userSvc}
	if db != nil {
		adminCfg.DBStats = db.Stats
		adminCfg.DBPing = db.Ping
	}
	if rdb != nil {
		adminCfg.RedisStats = rdb.PoolStats
		adminCfg.RedisPing = rdb.Ping
	}

	authHandler := auth.NewHandler(profile.SessionFrom)
	listingHandler := listing.NewHandler(profile.CatalogFrom, profile.CurrentUser)
	dashboardHandler := dashboard.NewHandler(dashboard.SeedCourses())
	userHandler := user.NewHandler(userSvc)
	adminHandler := admin.NewHandler(adminCfg)

	a.server = server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := a.server.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Metrics(metrics))
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))
	router.Use(
		middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
			Limit: middleware.Per(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
				cfg.RateLimit.Window,
			),
			FailOpen: true,
		}).Handler,
	)

	healthHandler.RegisterRoutes(router)

	if metrics != nil {
		router.Handle(cfg.Metrics.Path, metrics.Handler())
	}
	router.Get("/.well-known/jwks.json", tokens.JWKSHandler())

	loginLimiter := middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
		Limit: middleware.Per(
			cfg.RateLimit.LoginRequests,
			cfg.RateLimit.LoginBurst,
			cfg.RateLimit.Window,
		),
		KeyFunc:  middleware.KeyByIPAndEndpoint,
		FailOpen: true,
	})

	adminOnly := middleware.RequireUserType(user.TypeAdmin)

	router.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Profile(tokens, a.registry))
		r.Use(middleware.TieredRateLimiter(redisClient, middleware.DefaultTiers))

		authHandler.RegisterRoutes(r, loginLimiter.Handler)
		listingHandler.RegisterRoutes(r)
		dashboardHandler.RegisterRoutes(r,
			middleware.RequireUserType(user.TypeBuyer),
			middleware.RequireUserType(user.TypeSeller),
		)
		userHandler.RegisterAdminRoutes(r, adminOnly)
		adminHandler.RegisterRoutes(r, adminOnly)
	})

	return a, nil
}

func newKV(cfg *config.Config, db *core.Database, rdb *core.Redis) storage.KV {
	switch cfg.Storage.Driver {
	case config.StorageSQL:
		return storage.NewSQL(db.DB)
	case config.StorageRedis:
		return storage.NewRedis(rdb.Client, cfg.Storage.KeyPrefix)
	default:
		return storage.NewMemory()
	}
}

// newTokenManager loads the signing key. Development falls back to an
// in-memory key so a fresh checkout runs without keygen.
func newTokenManager(
	cfg *config.Config,
	logger *slog.Logger,
) (*profile.TokenManager, error) {
	tokens, err := profile.NewTokenManager(cfg.Profile)
	if err == nil {
		return tokens, nil
	}

	if !cfg.IsDevelopment() || !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load profile signing key: %w", err)
	}

	logger.Warn("profile signing key not found, using an ephemeral key",
		"path", cfg.Profile.PrivateKeyPath,
	)
	return profile.NewEphemeralTokenManager(cfg.Profile)
}

func healthChecks(kv storage.KV, db *core.Database, rdb *core.Redis) []health.Check {
	checks := []health.Check{{Name: "storage", Checker: kv}}
	if db != nil {
		checks = append(checks, health.Check{Name: "database", Checker: db})
	}
	if rdb != nil {
		checks = append(checks, health.Check{Name: "redis", Checker: rdb, Optional: true})
	}
	return checks
}

func closeWith(logger *slog.Logger, name string, closeFn func() error) {
	if err := closeFn(); err != nil {
		logger.Error(name+" close error", "error", err)
	}
}
