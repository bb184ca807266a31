package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	rlconfig "storeguard/internal/ratelimit/config"
	rlmodels "storeguard/internal/ratelimit/models"
)

// Server captures console API level configuration.
type Server struct {
	Addr         string
	ConsoleToken string
	Environment  string
	LogLevel     string
}

// Auth configures the remote auth endpoint.
type Auth struct {
	URL     string
	Timeout time.Duration
}

// RedisConfig configures the optional shared session and rate limit backend.
type RedisConfig struct {
	URL          string
	Namespace    string
	SessionTTL   time.Duration
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig configures the optional Postgres audit store.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Lockout configures account lockout evaluation.
type Lockout struct {
	Threshold int
	Window    time.Duration
}

// RateLimit overrides the named limiter policies and the cleanup cadence of
// the in-memory window store.
type RateLimit struct {
	Policies        map[rlmodels.Action]rlmodels.Policy
	CleanupInterval time.Duration
}

// Audit configures audit persistence.
type Audit struct {
	WriteTimeout time.Duration
}

// Config is the full console agent configuration.
type Config struct {
	Server    Server
	Auth      Auth
	Redis     RedisConfig
	Database  DatabaseConfig
	Lockout   Lockout
	Audit     Audit
	RateLimit RateLimit
	// Dev starts an in-process fake auth endpoint when no auth URL is set.
	Dev bool
}

// Defaults.
var (
	DefaultAddr           = "127.0.0.1:8787"
	DefaultAuthTimeout    = 10 * time.Second
	DefaultSessionTTL     = 24 * time.Hour
	DefaultLockoutWindow  = 15 * time.Minute
	DefaultAuditTimeout   = 3 * time.Second
	DefaultCleanupEvery   = 5 * time.Minute
	DefaultLockoutTrigger = 5
)

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return fallback
	}

	cfg := Config{
		Server: Server{
			Addr:         get("STOREGUARD_ADDR", DefaultAddr),
			ConsoleToken: get("STOREGUARD_CONSOLE_TOKEN", ""),
			Environment:  get("STOREGUARD_ENV", "development"),
			LogLevel:     get("STOREGUARD_LOG_LEVEL", "info"),
		},
		Auth: Auth{
			URL: get("STOREGUARD_AUTH_URL", ""),
		},
		Redis: RedisConfig{
			URL:          get("STOREGUARD_REDIS_URL", ""),
			Namespace:    get("STOREGUARD_SESSION_NAMESPACE", "default"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Database: DatabaseConfig{
			URL:             get("STOREGUARD_DATABASE_URL", ""),
			MaxOpenConns:    10,
			MaxIdleConns:    2,
			ConnMaxLifetime: 5 * time.Minute,
		},
	}

	var err error
	if cfg.Auth.Timeout, err = parseDuration(get("STOREGUARD_AUTH_TIMEOUT", ""), DefaultAuthTimeout); err != nil {
		return Config{}, fmt.Errorf("STOREGUARD_AUTH_TIMEOUT: %w", err)
	}
	if cfg.Redis.SessionTTL, err = parseDuration(get("STOREGUARD_SESSION_TTL", ""), DefaultSessionTTL); err != nil {
		return Config{}, fmt.Errorf("STOREGUARD_SESSION_TTL: %w", err)
	}
	if cfg.Lockout.Window, err = parseDuration(get("STOREGUARD_LOCKOUT_WINDOW", ""), DefaultLockoutWindow); err != nil {
		return Config{}, fmt.Errorf("STOREGUARD_LOCKOUT_WINDOW: %w", err)
	}
	if cfg.Audit.WriteTimeout, err = parseDuration(get("STOREGUARD_AUDIT_TIMEOUT", ""), DefaultAuditTimeout); err != nil {
		return Config{}, fmt.Errorf("STOREGUARD_AUDIT_TIMEOUT: %w", err)
	}
	if cfg.Lockout.Threshold, err = parsePositiveInt(get("STOREGUARD_LOCKOUT_THRESHOLD", ""), DefaultLockoutTrigger); err != nil {
		return Config{}, fmt.Errorf("STOREGUARD_LOCKOUT_THRESHOLD: %w", err)
	}
	if cfg.RateLimit.Policies, err = rlconfig.ParsePolicies(get("STOREGUARD_RATE_LIMITS", "")); err != nil {
		return Config{}, fmt.Errorf("STOREGUARD_RATE_LIMITS: %w", err)
	}
	if cfg.RateLimit.CleanupInterval, err = parseDuration(get("STOREGUARD_RATE_LIMIT_CLEANUP_INTERVAL", ""), DefaultCleanupEvery); err != nil {
		return Config{}, fmt.Errorf("STOREGUARD_RATE_LIMIT_CLEANUP_INTERVAL: %w", err)
	}
	if cfg.Dev, err = parseBool(get("STOREGUARD_DEV", ""), false); err != nil {
		return Config{}, fmt.Errorf("STOREGUARD_DEV: %w", err)
	}

	if cfg.Auth.URL == "" && !cfg.Dev {
		return Config{}, fmt.Errorf("STOREGUARD_AUTH_URL is required unless STOREGUARD_DEV is set")
	}
	return cfg, nil
}

func parseDuration(raw string, fallback time.Duration) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", raw)
	}
	return d, nil
}

func parsePositiveInt(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("must be positive, got %d", n)
	}
	return n, nil
}

func parseBool(raw string, fallback bool) (bool, error) {
	if raw == "" {
		return fallback, nil
	}
	return strconv.ParseBool(raw)
}
