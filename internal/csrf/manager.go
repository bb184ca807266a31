// Package csrf manages the anti-forgery token attached to mutating requests.
// One token is active per session store; it is reused across requests until
// it expires or is cleared.
package csrf

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	sessionstore "storeguard/internal/session/store"
	dErrors "storeguard/pkg/domain-errors"
	"storeguard/pkg/platform/clock"
)

const (
	// HeaderName carries the token on mutating requests.
	HeaderName = "X-CSRF-Token"

	// DefaultTTL is the token validity window.
	DefaultTTL = time.Hour

	tokenBytes = 32
)

// Manager generates, validates and expires the session's CSRF token.
type Manager struct {
	store      sessionstore.Store
	clock      clock.Clock
	ttl        time.Duration
	logger     *slog.Logger
	httpClient *http.Client
	random     func([]byte) (int, error)
}

type Option func(*Manager)

func WithClock(c clock.Clock) Option {
	return func(m *Manager) {
		m.clock = clock.OrSystem(c)
	}
}

func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
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

func New(store sessionstore.Store, opts ...Option) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	m := &Manager{
		store:      store,
		clock:      clock.System{},
		ttl:        DefaultTTL,
		logger:     slog.Default(),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		random:     rand.Read,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Generate creates a fresh token, replacing any stored one.
func (m *Manager) Generate(ctx context.Context) (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := m.random(buf); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate csrf token")
	}
	token := hex.EncodeToString(buf)
	expiresAt := m.clock.Now().Add(m.ttl)

	if err := m.store.Set(ctx, sessionstore.KeyCSRFToken, token); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to store csrf token")
	}
	if err := m.store.Set(ctx, sessionstore.KeyCSRFExpiry, strconv.FormatInt(expiresAt.UnixMilli(), 10)); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to store csrf token expiry")
	}
	return token, nil
}

// Get returns the stored token while it is valid, otherwise a new one.
func (m *Manager) Get(ctx context.Context) (string, error) {
	token, ok, err := m.current(ctx)
	if err != nil {
		return "", err
	}
	if ok {
		return token, nil
	}
	return m.Generate(ctx)
}

// Validate reports whether token equals the stored, unexpired token.
// An expired token is cleared as a side effect.
func (m *Manager) Validate(ctx context.Context, token string) (bool, error) {
	stored, ok, err := m.store.Get(ctx, sessionstore.KeyCSRFToken)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read csrf token")
	}
	if !ok || stored == "" {
		return false, nil
	}

	if m.expired(ctx) {
		if err := m.Clear(ctx); err != nil {
			m.logger.WarnContext(ctx, "failed to clear expired csrf token", "error", err)
		}
		return false, nil
	}

	return subtle.ConstantTimeCompare([]byte(stored), []byte(token)) == 1, nil
}

// Clear removes the stored token.
func (m *Manager) Clear(ctx context.Context) error {
	if err := m.store.Delete(ctx, sessionstore.KeyCSRFToken, sessionstore.KeyCSRFExpiry); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear csrf token")
	}
	return nil
}

// AddHeader sets the token header when method mutates state. Safe methods
// leave h untouched.
func (m *Manager) AddHeader(ctx context.Context, method string, h http.Header) error {
	if !IsMutating(method) {
		return nil
	}
	token, err := m.Get(ctx)
	if err != nil {
		return err
	}
	h.Set(HeaderName, token)
	return nil
}

// Do issues req with the token header attached for mutating methods.
func (m *Manager) Do(req *http.Request) (*http.Response, error) {
	if IsMutating(req.Method) {
		req = req.Clone(req.Context())
		if err := m.AddHeader(req.Context(), req.Method, req.Header); err != nil {
			return nil, err
		}
	}
	return m.httpClient.Do(req)
}

// IsMutating reports whether method requires the CSRF header. Method names
// are matched case-insensitively.
func IsMutating(method string) bool {
	switch strings.ToUpper(strings.TrimSpace(method)) {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

func (m *Manager) current(ctx context.Context) (string, bool, error) {
	token, ok, err := m.store.Get(ctx, sessionstore.KeyCSRFToken)
	if err != nil {
		return "", false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read csrf token")
	}
	if !ok || token == "" || m.expired(ctx) {
		return "", false, nil
	}
	return token, true, nil
}

// expired treats a missing or unreadable expiry as expired.
func (m *Manager) expired(ctx context.Context) bool {
	raw, ok, err := m.store.Get(ctx, sessionstore.KeyCSRFExpiry)
	if err != nil || !ok {
		return true
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return true
	}
	return !m.clock.Now().Before(time.UnixMilli(ms))
}
