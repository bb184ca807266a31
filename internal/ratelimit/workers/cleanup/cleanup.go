package cleanup

import (
	"context"
	"log/slog"
	"time"

	"storeguard/internal/ratelimit/metrics"
	"storeguard/pkg/platform/clock"
)

// CleanupResult contains the results of a cleanup run.
type CleanupResult struct {
	EntriesPruned int
	Duration      time.Duration
}

// WindowStore is implemented by stores that hold expired entries in memory
// until the next access for their key.
type WindowStore interface {
	PruneExpired(ctx context.Context, now time.Time) (int, error)
}

type Option func(*WindowCleanupService)

func WithLogger(logger *slog.Logger) Option {
	return func(s *WindowCleanupService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithInterval(interval time.Duration) Option {
	return func(s *WindowCleanupService) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *WindowCleanupService) {
		s.metrics = m
	}
}

func WithClock(c clock.Clock) Option {
	return func(s *WindowCleanupService) {
		s.clock = clock.OrSystem(c)
	}
}

type WindowCleanupService struct {
	store    WindowStore
	logger   *slog.Logger
	interval time.Duration
	metrics  *metrics.Metrics
	clock    clock.Clock
}

func New(store WindowStore, opts ...Option) *WindowCleanupService {
	service := &WindowCleanupService{
		store:    store,
		logger:   slog.Default(),
		interval: 5 * time.Minute,
		clock:    clock.System{},
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *WindowCleanupService) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			startTime := time.Now()
			res, err := s.RunOnce(ctx)
			duration := time.Since(startTime)

			if err != nil {
				s.logger.Error("ratelimit_cleanup_failed",
					"error", err,
					"duration_ms", duration.Milliseconds(),
				)
				if s.metrics != nil {
					s.metrics.RateLimitCleanupRunsTotal.WithLabelValues("error").Inc()
					s.metrics.RateLimitCleanupDurationSeconds.Observe(duration.Seconds())
				}
				continue
			}

			res.Duration = duration
			s.logger.Debug("ratelimit_cleanup_completed",
				"entries_pruned", res.EntriesPruned,
				"duration_ms", duration.Milliseconds(),
			)

			if s.metrics != nil {
				s.metrics.RateLimitCleanupEntriesPruned.Add(float64(res.EntriesPruned))
				s.metrics.RateLimitCleanupRunsTotal.WithLabelValues("success").Inc()
				s.metrics.RateLimitCleanupDurationSeconds.Observe(duration.Seconds())
			}

		case <-ctx.Done():
			s.logger.Info("ratelimit cleanup worker stopping", "reason", ctx.Err())
			return ctx.Err()
		}
	}
}

// RunOnce executes a single cleanup run. Logging is handled by the caller (Start).
func (s *WindowCleanupService) RunOnce(ctx context.Context) (*CleanupResult, error) {
	pruned, err := s.store.PruneExpired(ctx, s.clock.Now())
	if err != nil {
		return nil, err
	}
	return &CleanupResult{EntriesPruned: pruned}, nil
}
