package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"storeguard/internal/ratelimit/config"
	"storeguard/internal/ratelimit/metrics"
	"storeguard/internal/ratelimit/models"
	dErrors "storeguard/pkg/domain-errors"
	"storeguard/pkg/platform/clock"
)

// Limiter is a keyed fixed-window request counter. Counters reset only when
// the window boundary is crossed, so a burst straddling a boundary can admit
// up to twice the budget.
type Limiter struct {
	store    Store
	policies map[models.Action]models.Policy
	clock    clock.Clock
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type Option func(*Limiter)

func WithLogger(logger *slog.Logger) Option {
	return func(l *Limiter) {
		l.logger = logger
	}
}

func WithConfig(cfg *config.Config) Option {
	return func(l *Limiter) {
		if cfg != nil && cfg.Policies != nil {
			l.policies = cfg.Policies
		}
	}
}

func WithClock(c clock.Clock) Option {
	return func(l *Limiter) {
		l.clock = clock.OrSystem(c)
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Limiter) {
		l.metrics = m
	}
}

func New(store Store, opts ...Option) (*Limiter, error) {
	if store == nil {
		return nil, fmt.Errorf("rate limit store is required")
	}

	l := &Limiter{
		store:    store,
		policies: config.DefaultPolicies(),
		clock:    clock.System{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// CheckLimit counts one request against key and reports whether it is allowed.
func (l *Limiter) CheckLimit(ctx context.Context, key string, maxRequests int, window time.Duration) (bool, error) {
	if key == "" {
		return false, dErrors.New(dErrors.CodeInvalidInput, "rate limit key cannot be empty")
	}
	if maxRequests <= 0 || window <= 0 {
		return false, dErrors.New(dErrors.CodeInvalidInput, "rate limit budget must be positive")
	}

	_, allowed, err := l.store.Consume(ctx, key, maxRequests, window, l.clock.Now())
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check rate limit")
	}
	l.record(models.ActionFromKey(key), allowed)
	return allowed, nil
}

// Check applies the named policy for action to identifier.
func (l *Limiter) Check(ctx context.Context, action models.Action, identifier string) (*models.Result, error) {
	policy, ok := l.policies[action]
	if !ok {
		return nil, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("no rate limit policy for action %s", action))
	}

	key := models.NewKey(action, identifier)
	now := l.clock.Now()
	entry, allowed, err := l.store.Consume(ctx, key, policy.MaxRequests, policy.Window, now)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check rate limit")
	}
	l.record(action, allowed)

	res := &models.Result{
		Allowed:   allowed,
		Limit:     policy.MaxRequests,
		Remaining: max(policy.MaxRequests-entry.Count, 0),
		ResetAt:   entry.ResetAt,
	}
	if !allowed {
		res.RetryAfter = max(entry.ResetAt.Sub(now), 0)
		l.logger.InfoContext(ctx, "rate limit exceeded",
			"action", string(action),
			"limit", policy.MaxRequests,
			"reset_at", entry.ResetAt,
		)
	}
	return res, nil
}

// GetRemaining returns how many requests key may still make in its current
// window. An absent or elapsed entry reports the full budget.
func (l *Limiter) GetRemaining(ctx context.Context, key string, maxRequests int) (int, error) {
	entry, ok, err := l.live(ctx, key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return maxRequests, nil
	}
	return max(maxRequests-entry.Count, 0), nil
}

// GetResetTime returns when key's current window ends. ok is false when there
// is no live window.
func (l *Limiter) GetResetTime(ctx context.Context, key string) (time.Time, bool, error) {
	entry, ok, err := l.live(ctx, key)
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	return entry.ResetAt, true, nil
}

// Clear removes key's entry.
func (l *Limiter) Clear(ctx context.Context, key string) error {
	if err := l.store.Delete(ctx, key); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear rate limit")
	}
	return nil
}

// ClearAll removes every entry.
func (l *Limiter) ClearAll(ctx context.Context) error {
	if err := l.store.DeleteAll(ctx); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear rate limits")
	}
	return nil
}

// Policy returns the configured policy for action.
func (l *Limiter) Policy(action models.Action) (models.Policy, bool) {
	p, ok := l.policies[action]
	return p, ok
}

func (l *Limiter) live(ctx context.Context, key string) (models.Entry, bool, error) {
	entry, ok, err := l.store.Get(ctx, key)
	if err != nil {
		return models.Entry{}, false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read rate limit")
	}
	if !ok || entry.Expired(l.clock.Now()) {
		return models.Entry{}, false, nil
	}
	return entry, true, nil
}

func (l *Limiter) record(action models.Action, allowed bool) {
	if l.metrics == nil {
		return
	}
	if allowed {
		l.metrics.IncAllowed(action)
		return
	}
	l.metrics.IncDenied(action)
}
