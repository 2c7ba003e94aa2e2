// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	stdctx "context"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/taskly/internal/platform/config"
	"github.com/taibuivan/taskly/internal/platform/constants"
	"github.com/taibuivan/taskly/internal/platform/middleware"
	"github.com/taibuivan/taskly/internal/platform/migration"
	pgstore "github.com/taibuivan/taskly/internal/platform/postgres"
	"github.com/taibuivan/taskly/internal/platform/ratelimit"
	redisstore "github.com/taibuivan/taskly/internal/platform/redis"
	"github.com/taibuivan/taskly/internal/platform/sec"
	"github.com/taibuivan/taskly/internal/platform/sqlite"
	"github.com/taibuivan/taskly/internal/tasks"
	"github.com/taibuivan/taskly/internal/users/auth"
)

// # Application Graph

// App owns every long-lived dependency of the API process.
type App struct {
	Server *Server

	limiter  *ratelimit.Limiter
	throttle *middleware.RequestThrottle
	closers  []func()
	log      *slog.Logger
}

// storage is the driver-specific half of the graph.
type storage struct {
	users  auth.UserRepository
	tasks  tasks.Repository
	checks []HealthCheck
}

/*
New builds the full dependency graph from configuration.

Description: Opens the database selected by the DATABASE_URL scheme, applies
migrations, optionally connects Redis, then wires services, handlers and the
router. Resources opened before a failure are released.

Parameters:
  - context: context.Context (startup deadline)
  - cfg: *config.Config
  - log: *slog.Logger

Returns:
  - *App: Ready to [App.Start]
  - error: Any startup failure
*/
func New(context stdctx.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	app := &App{log: log}

	// ── 1. Relational Storage ─────────────────────────────────────────────
	store, err := app.openStorage(context, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}

	// ── 2. Optional Redis ─────────────────────────────────────────────────
	var identityCache auth.IdentityCache
	if cfg.RedisURL != "" {
		client, err := redisstore.NewClient(context, cfg.RedisURL, log)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("connect_redis_failed: %w", err)
		}
		app.closers = append(app.closers, closeRedis(client, log))
		identityCache = auth.NewRedisIdentityCache(client, cfg.IdentityCacheTTL)
		store.checks = append(store.checks, HealthCheck{
			Name:  "redis",
			Check: func(ctx stdctx.Context) error { return redisstore.Ping(ctx, client) },
		})
	}

	// ── 3. Security Primitives ────────────────────────────────────────────
	tokenService, err := sec.NewTokenService(cfg.JWTSecret,
		sec.WithIssuer(cfg.JWTIssuer),
		sec.WithAccessTTL(cfg.AccessTokenTTL),
		sec.WithRefreshTTL(cfg.RefreshTokenTTL),
		sec.WithLeeway(cfg.TokenLeeway),
	)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("init_token_service_failed: %w", err)
	}

	hasher := sec.NewPasswordHasher(cfg.BcryptCost)
	app.limiter = ratelimit.New(cfg.AuthMaxAttempts, cfg.AuthAttemptWindow)
	app.throttle = middleware.NewRequestThrottle(cfg.RateLimitRequests, cfg.RateLimitWindow)

	var authOptions []middleware.AuthOption
	if cfg.VerifyIdentity {
		authOptions = append(authOptions, middleware.WithIdentityCheck(auth.NewExistenceChecker(store.users, identityCache)))
	}

	// ── 4. Domain Wiring ──────────────────────────────────────────────────
	authHandler := auth.NewHandler(auth.NewService(store.users, hasher, tokenService, app.limiter))
	taskHandler := tasks.NewHandler(tasks.NewService(store.tasks))
	liveness, readiness := NewHealthHandlers(store.checks, log)

	app.Server = NewServer(cfg, log,
		Guards{
			Authenticate: middleware.Authenticate(tokenService, authOptions...),
			Throttle:     app.throttle,
		},
		Handlers{
			Liveness:  liveness,
			Readiness: readiness,
			Auth:      authHandler,
			Tasks:     taskHandler,
		},
	)

	return app, nil
}

// Start launches the background sweepers. They stop when context is done.
func (app *App) Start(context stdctx.Context) {
	go app.limiter.Run(context, constants.RateLimitCleanupInterval)
	go app.throttle.Run(context)
}

// Close releases storage and cache connections in reverse order of opening.
func (app *App) Close() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		app.closers[i]()
	}
	app.closers = nil
}

func (app *App) openStorage(context stdctx.Context, cfg *config.Config) (*storage, error) {
	driver, err := cfg.DatabaseDriver()
	if err != nil {
		return nil, err
	}

	switch driver {
	case config.DriverPostgres:
		if err := migration.RunUp(config.DriverPostgres, cfg.DatabaseURL, app.log); err != nil {
			return nil, fmt.Errorf("run_migrations_failed: %w", err)
		}

		pool, err := pgstore.NewPool(context, cfg.DatabaseURL, app.log)
		if err != nil {
			return nil, fmt.Errorf("connect_postgres_failed: %w", err)
		}
		app.closers = append(app.closers, func() {
			app.log.Info("closing_postgres_pool")
			pool.Close()
		})

		return &storage{
			users: auth.NewPostgresUserRepository(pool),
			tasks: tasks.NewPostgresRepository(pool),
			checks: []HealthCheck{{
				Name:  config.DriverPostgres,
				Check: func(ctx stdctx.Context) error { return pgstore.Ping(ctx, pool) },
			}},
		}, nil

	default:
		path := cfg.SQLitePath()
		if err := migration.RunUp(config.DriverSQLite, path, app.log); err != nil {
			return nil, fmt.Errorf("run_migrations_failed: %w", err)
		}

		db, err := sqlite.Open(context, path, app.log)
		if err != nil {
			return nil, fmt.Errorf("open_sqlite_failed: %w", err)
		}
		app.closers = append(app.closers, func() {
			app.log.Info("closing_sqlite_database")
			if cerr := db.Close(); cerr != nil {
				app.log.Error("sqlite_close_failed", slog.Any("error", cerr))
			}
		})

		return &storage{
			users: auth.NewSQLiteUserRepository(db),
			tasks: tasks.NewSQLiteRepository(db),
			checks: []HealthCheck{{
				Name:  config.DriverSQLite,
				Check: func(ctx stdctx.Context) error { return sqlite.Ping(ctx, db) },
			}},
		}, nil
	}
}

func closeRedis(client *goredis.Client, log *slog.Logger) func() {
	return func() {
		log.Info("closing_redis_client")
		if cerr := client.Close(); cerr != nil {
			log.Error("redis_close_failed", slog.Any("error", cerr))
		}
	}
}
