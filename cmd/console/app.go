package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"storeguard/internal/audit"
	"storeguard/internal/audit/lockout"
	auditmetrics "storeguard/internal/audit/metrics"
	auditstore "storeguard/internal/audit/store"
	"storeguard/internal/auth/authtest"
	"storeguard/internal/auth/client"
	authmetrics "storeguard/internal/auth/metrics"
	authmodels "storeguard/internal/auth/models"
	authservice "storeguard/internal/auth/service"
	"storeguard/internal/csrf"
	"storeguard/internal/gateway"
	gwmetrics "storeguard/internal/gateway/metrics"
	"storeguard/internal/platform/config"
	"storeguard/internal/platform/database"
	"storeguard/internal/platform/health"
	platformredis "storeguard/internal/platform/redis"
	rlconfig "storeguard/internal/ratelimit/config"
	rlmetrics "storeguard/internal/ratelimit/metrics"
	rlservice "storeguard/internal/ratelimit/service"
	"storeguard/internal/ratelimit/store/window"
	"storeguard/internal/ratelimit/workers/cleanup"
	sessionstore "storeguard/internal/session/store"
	httptransport "storeguard/internal/transport/http"
	"storeguard/migrations"
	"storeguard/pkg/platform/circuit"
)

// Dev credentials accepted by the in-process auth endpoint.
const (
	devAdminEmail    = "owner@storeguard.dev"
	devAdminPassword = "storeguard-dev"
)

type app struct {
	router  http.Handler
	authURL string
	logger  *slog.Logger

	redis      *platformredis.Client
	db         *database.Pool
	devAuth    *httptest.Server
	windows    *window.InMemoryStore
	rlMetrics  *rlmetrics.Metrics
	rlConfig   *rlconfig.Config
	closeFuncs []func() error
}

func build(ctx context.Context, cfg config.Config, log *slog.Logger, reg *prometheus.Registry) (*app, error) {
	a := &app{logger: log, authURL: cfg.Auth.URL}
	checks := health.New(cfg.Server.Environment)

	var err error
	a.redis, err = platformredis.New(ctx, cfg.Redis, reg)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	if a.redis != nil {
		a.closeFuncs = append(a.closeFuncs, a.redis.Close)
		checks.RegisterCheck("redis", a.redis.Health)
	}

	a.db, err = database.New(ctx, cfg.Database)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if a.db != nil {
		a.closeFuncs = append(a.closeFuncs, a.db.Close)
		checks.RegisterCheck("postgres", a.db.Health)
		if err := a.db.Migrate(ctx, migrations.FS); err != nil {
			a.Close()
			return nil, fmt.Errorf("migrate audit schema: %w", err)
		}
	}

	if a.authURL == "" && cfg.Dev {
		a.startDevAuth(log)
	}

	// Stores
	var sessions sessionstore.Store = sessionstore.NewInMemoryStore()
	var limiterStore rlservice.Store
	if a.redis != nil {
		sessions = sessionstore.NewRedisStore(a.redis.Client, cfg.Redis.Namespace, cfg.Redis.SessionTTL)
		limiterStore = window.NewRedisStore(a.redis.Client)
	} else {
		a.windows = window.NewInMemoryStore()
		limiterStore = a.windows
	}

	var (
		auditStore audit.Store
		failures   lockout.FailureCounter
	)
	if a.db != nil {
		pg := auditstore.NewPostgres(a.db.DB())
		auditStore, failures = pg, pg
	} else {
		mem := auditstore.NewInMemoryStore()
		auditStore, failures = mem, mem
		log.Warn("STOREGUARD_DATABASE_URL not set, audit trail is kept in memory only")
	}

	// Services
	a.rlMetrics = rlmetrics.New(reg)
	a.rlConfig = rlconfig.DefaultConfig().WithOverrides(cfg.RateLimit.Policies)
	if cfg.RateLimit.CleanupInterval > 0 {
		a.rlConfig.CleanupInterval = cfg.RateLimit.CleanupInterval
	}
	limiter, err := rlservice.New(limiterStore,
		rlservice.WithConfig(a.rlConfig),
		rlservice.WithLogger(log),
		rlservice.WithMetrics(a.rlMetrics),
	)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	evaluator, err := lockout.New(failures,
		lockout.WithThreshold(cfg.Lockout.Threshold),
		lockout.WithWindow(cfg.Lockout.Window),
	)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("lockout evaluator: %w", err)
	}

	auditLogger, err := audit.New(auditStore, evaluator,
		audit.WithLogger(log),
		audit.WithMetrics(auditmetrics.New(reg)),
		audit.WithBreakerOptions(circuit.WithFailureThreshold(5), circuit.WithCooldown(30*time.Second)),
		audit.WithWriteTimeout(cfg.Audit.WriteTimeout),
	)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("audit logger: %w", err)
	}

	authClient, err := client.New(a.authURL,
		client.WithTimeout(cfg.Auth.Timeout),
		client.WithLogger(log),
	)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("auth client: %w", err)
	}

	session, err := authservice.New(sessions, authClient, auditLogger,
		authservice.WithLogger(log),
		authservice.WithMetrics(authmetrics.New(reg)),
		authservice.WithRateLimiter(limiter),
		authservice.WithHTTPClient(&http.Client{Timeout: cfg.Auth.Timeout}),
	)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("session manager: %w", err)
	}

	csrfManager, err := csrf.New(sessions, csrf.WithLogger(log))
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("csrf manager: %w", err)
	}

	gw, err := gateway.New(session, csrfManager, auditLogger,
		gateway.WithLogger(log),
		gateway.WithMetrics(gwmetrics.New(reg)),
		gateway.WithRateLimiter(limiter),
	)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("gateway: %w", err)
	}

	// Router
	handler := httptransport.NewHandler(session, csrfManager, gw, log)
	a.router = httptransport.NewRouter(handler, httptransport.RouterConfig{
		ConsoleToken: cfg.Server.ConsoleToken,
		Health:       checks,
		Gatherer:     reg,
	}, log)

	if cfg.Server.ConsoleToken == "" {
		log.Warn("STOREGUARD_CONSOLE_TOKEN not set, console API is unauthenticated; bind it to loopback only")
	}
	return a, nil
}

func (a *app) startDevAuth(log *slog.Logger) {
	endpoint := authtest.New()
	endpoint.AddAccount(devAdminPassword, authmodels.AdminIdentity{
		ID:          "dev-admin",
		Email:       devAdminEmail,
		Name:        "Dev Owner",
		Role:        "owner",
		Permissions: []string{"products:write", "orders:write"},
	})
	a.devAuth = httptest.NewServer(endpoint)
	a.authURL = a.devAuth.URL
	a.closeFuncs = append(a.closeFuncs, func() error {
		a.devAuth.Close()
		return nil
	})
	log.Warn("dev mode: using in-process auth endpoint",
		"auth_url", a.authURL,
		"email", devAdminEmail,
	)
}

// startWorkers launches background maintenance bound to ctx.
func (a *app) startWorkers(ctx context.Context) {
	if a.windows != nil {
		worker := cleanup.New(a.windows,
			cleanup.WithLogger(a.logger),
			cleanup.WithInterval(a.rlConfig.CleanupInterval),
			cleanup.WithMetrics(a.rlMetrics),
		)
		go func() {
			_ = worker.Start(ctx)
		}()
	}

	if a.redis != nil {
		go func() {
			ticker := time.NewTicker(15 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					a.redis.RecordPoolStats()
				case <-ctx.Done():
					return
				}
			}
		}()
	}
}

// Close releases external resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closeFuncs) - 1; i >= 0; i-- {
		if err := a.closeFuncs[i](); err != nil {
			a.logger.Warn("close failed", "error", err)
		}
	}
	a.closeFuncs = nil
}
