// Package service manages the admin session: login, silent token renewal,
// logout and authenticated outbound requests.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"storeguard/internal/auth/metrics"
	"storeguard/internal/auth/models"
	sessionstore "storeguard/internal/session/store"
	"storeguard/pkg/platform/clock"
)

// Manager owns one admin session held in a session store.
type Manager struct {
	store      sessionstore.Store
	endpoint   Endpoint
	limiter    RateLimiter
	audit      AuditLogger
	clock      clock.Clock
	logger     *slog.Logger
	metrics    *metrics.Metrics
	httpClient *http.Client

	tokenTTL time.Duration
	leeway   time.Duration

	flight     singleflight.Group
	refreshing atomic.Bool
}

type Option func(*Manager)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

func WithClock(c clock.Clock) Option {
	return func(m *Manager) {
		m.clock = clock.OrSystem(c)
	}
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Manager) {
		m.metrics = mt
	}
}

// WithRateLimiter enables login throttling.
func WithRateLimiter(l RateLimiter) Option {
	return func(m *Manager) {
		m.limiter = l
	}
}

// WithHTTPClient sets the client used by Do.
func WithHTTPClient(c *http.Client) Option {
	return func(m *Manager) {
		if c != nil {
			m.httpClient = c
		}
	}
}

// WithTokenTTL overrides the access token lifetime recorded at login and refresh.
func WithTokenTTL(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.tokenTTL = d
		}
	}
}

func New(store sessionstore.Store, endpoint Endpoint, audit AuditLogger, opts ...Option) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if endpoint == nil {
		return nil, fmt.Errorf("auth endpoint is required")
	}
	if audit == nil {
		return nil, fmt.Errorf("audit logger is required")
	}
	m := &Manager{
		store:      store,
		endpoint:   endpoint,
		audit:      audit,
		clock:      clock.System{},
		logger:     slog.Default(),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		tokenTTL:   models.AccessTokenTTL,
		leeway:     models.RefreshLeeway,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// State derives the session lifecycle state from the store and clock.
func (m *Manager) State(ctx context.Context) models.State {
	if m.refreshing.Load() {
		return models.StateRefreshing
	}
	token, expiresAt, err := m.storedAccessToken(ctx)
	if err != nil {
		return models.StateAnonymous
	}
	if token == "" {
		if refresh, _, _ := m.store.Get(ctx, sessionstore.KeyRefreshToken); refresh != "" {
			return models.StateExpiring
		}
		return models.StateAnonymous
	}
	if m.needsRefresh(expiresAt) {
		return models.StateExpiring
	}
	return models.StateAuthenticated
}

// CurrentAdmin returns the identity stored with the session.
func (m *Manager) CurrentAdmin(ctx context.Context) (*models.AdminIdentity, bool) {
	raw, ok, err := m.store.Get(ctx, sessionstore.KeyAdminData)
	if err != nil || !ok || raw == "" {
		return nil, false
	}
	var admin models.AdminIdentity
	if err := json.Unmarshal([]byte(raw), &admin); err != nil {
		m.logger.WarnContext(ctx, "stored admin identity is unreadable", "error", err)
		return nil, false
	}
	return &admin, true
}

// Info summarizes the session without exposing tokens.
func (m *Manager) Info(ctx context.Context) models.SessionInfo {
	info := models.SessionInfo{State: m.State(ctx)}
	if info.State == models.StateAnonymous {
		return info
	}
	if admin, ok := m.CurrentAdmin(ctx); ok {
		info.Admin = admin
	}
	if _, expiresAt, err := m.storedAccessToken(ctx); err == nil && !expiresAt.IsZero() {
		info.ExpiresAt = &expiresAt
	}
	return info
}

// needsRefresh reports whether now is within the leeway of expiresAt.
func (m *Manager) needsRefresh(expiresAt time.Time) bool {
	return !m.clock.Now().Before(expiresAt.Add(-m.leeway))
}

// storedAccessToken returns the access token and its expiry. A token without
// a readable expiry is treated as already expired.
func (m *Manager) storedAccessToken(ctx context.Context) (string, time.Time, error) {
	token, ok, err := m.store.Get(ctx, sessionstore.KeyAccessToken)
	if err != nil || !ok {
		return "", time.Time{}, err
	}
	raw, ok, err := m.store.Get(ctx, sessionstore.KeyTokenExpiry)
	if err != nil {
		return "", time.Time{}, err
	}
	if !ok {
		return token, time.Time{}, nil
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return token, time.Time{}, nil
	}
	return token, time.UnixMilli(ms), nil
}

// storeTokens persists a freshly issued credential set. The refresh token is
// only overwritten when the endpoint rotated it. The access token is written
// last so a partial write never leaves a token without its identity.
func (m *Manager) storeTokens(ctx context.Context, admin models.AdminIdentity, accessToken, refreshToken string) (time.Time, error) {
	expiresAt := m.clock.Now().Add(m.tokenTTL)
	adminData, err := json.Marshal(admin)
	if err != nil {
		return time.Time{}, fmt.Errorf("encode admin identity: %w", err)
	}

	type kv struct{ key, value string }
	values := []kv{{sessionstore.KeyAdminData, string(adminData)}}
	if refreshToken != "" {
		values = append(values, kv{sessionstore.KeyRefreshToken, refreshToken})
	}
	values = append(values,
		kv{sessionstore.KeyTokenExpiry, strconv.FormatInt(expiresAt.UnixMilli(), 10)},
		kv{sessionstore.KeyAccessToken, accessToken},
	)
	for _, v := range values {
		if err := m.store.Set(ctx, v.key, v.value); err != nil {
			return time.Time{}, fmt.Errorf("store %s: %w", v.key, err)
		}
	}
	return expiresAt, nil
}
