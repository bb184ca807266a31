package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"storeguard/internal/ratelimit/config"
	"storeguard/internal/ratelimit/metrics"
	"storeguard/internal/ratelimit/models"
	"storeguard/internal/ratelimit/store/window"
	dErrors "storeguard/pkg/domain-errors"
	"storeguard/pkg/platform/clock"
)

type LimiterSuite struct {
	suite.Suite
	clock   *clock.Fake
	store   *window.InMemoryStore
	metrics *metrics.Metrics
	limiter *Limiter
}

func TestLimiterSuite(t *testing.T) {
	suite.Run(t, new(LimiterSuite))
}

func (s *LimiterSuite) SetupTest() {
	s.clock = clock.NewFake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	s.store = window.NewInMemoryStore()
	s.metrics = metrics.New(prometheus.NewRegistry())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var err error
	s.limiter, err = New(s.store,
		WithLogger(logger),
		WithClock(s.clock),
		WithMetrics(s.metrics),
		WithConfig(config.DefaultConfig()),
	)
	s.Require().NoError(err)
}

func (s *LimiterSuite) TestNew() {
	s.Run("nil store returns error", func() {
		_, err := New(nil)
		s.Error(err)
		s.Contains(err.Error(), "rate limit store is required")
	})
}

func (s *LimiterSuite) TestCheckLimit_AdminLoginScenario() {
	ctx := context.Background()
	var got []bool
	for range 4 {
		ok, err := s.limiter.CheckLimit(ctx, "ADMIN_LOGIN:a@x.com", 3, 900000*time.Millisecond)
		s.Require().NoError(err)
		got = append(got, ok)
	}
	s.Equal([]bool{true, true, true, false}, got)
	s.Equal(3.0, testutil.ToFloat64(s.metrics.RateLimitChecksTotal.WithLabelValues("ADMIN_LOGIN", "allowed")))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.RateLimitChecksTotal.WithLabelValues("ADMIN_LOGIN", "denied")))
}

// For every window configuration, exactly maxRequests calls succeed inside one
// window, the rest fail until it elapses, and the next call starts over at 1.
func (s *LimiterSuite) TestCheckLimit_FixedWindowProperty() {
	ctx := context.Background()
	configs := []models.Policy{
		{MaxRequests: 1, Window: time.Second},
		{MaxRequests: 3, Window: 15 * time.Minute},
		{MaxRequests: 20, Window: time.Minute},
		{MaxRequests: 100, Window: time.Hour},
	}

	for i, p := range configs {
		key := fmt.Sprintf("PROP:%d", i)
		start := s.clock.Now()

		for n := range p.MaxRequests {
			ok, err := s.limiter.CheckLimit(ctx, key, p.MaxRequests, p.Window)
			s.Require().NoError(err)
			s.True(ok, "request %d of %d should pass", n+1, p.MaxRequests)
		}
		for range 3 {
			ok, _ := s.limiter.CheckLimit(ctx, key, p.MaxRequests, p.Window)
			s.False(ok)
		}

		s.clock.Set(start.Add(p.Window))
		ok, _ := s.limiter.CheckLimit(ctx, key, p.MaxRequests, p.Window)
		s.False(ok, "window is still live at exactly resetAt")

		s.clock.Set(start.Add(p.Window + time.Millisecond))
		ok, _ = s.limiter.CheckLimit(ctx, key, p.MaxRequests, p.Window)
		s.True(ok)
		remaining, err := s.limiter.GetRemaining(ctx, key, p.MaxRequests)
		s.Require().NoError(err)
		s.Equal(p.MaxRequests-1, remaining, "counter restarted at 1")

		s.clock.Set(start)
	}
}

func (s *LimiterSuite) TestCheckLimit_BoundaryBurstIsPossible() {
	ctx := context.Background()
	for range 3 {
		ok, _ := s.limiter.CheckLimit(ctx, "burst", 3, time.Minute)
		s.True(ok)
	}
	s.clock.Advance(time.Minute + time.Millisecond)
	for range 3 {
		ok, _ := s.limiter.CheckLimit(ctx, "burst", 3, time.Minute)
		s.True(ok, "fixed window admits a full budget right after the boundary")
	}
}

func (s *LimiterSuite) TestCheckLimit_InvalidInput() {
	ctx := context.Background()
	_, err := s.limiter.CheckLimit(ctx, "", 3, time.Minute)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))

	_, err = s.limiter.CheckLimit(ctx, "k", 0, time.Minute)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *LimiterSuite) TestCheck_NamedPolicy() {
	ctx := context.Background()

	for i := range 3 {
		res, err := s.limiter.Check(ctx, models.ActionCreateOrder, "customer-1")
		s.Require().NoError(err)
		s.True(res.Allowed)
		s.Equal(3, res.Limit)
		s.Equal(2-i, res.Remaining)
		s.Zero(res.RetryAfter)
	}

	s.clock.Advance(20 * time.Minute)
	res, err := s.limiter.Check(ctx, models.ActionCreateOrder, "customer-1")
	s.Require().NoError(err)
	s.False(res.Allowed)
	s.Equal(0, res.Remaining)
	s.Equal(40*time.Minute, res.RetryAfter)

	res, err = s.limiter.Check(ctx, models.ActionCreateOrder, "customer-2")
	s.Require().NoError(err)
	s.True(res.Allowed, "identifiers have separate budgets")
}

func (s *LimiterSuite) TestCheck_UnknownAction() {
	_, err := s.limiter.Check(context.Background(), models.Action("NOPE"), "x")
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *LimiterSuite) TestReadDerivations() {
	ctx := context.Background()
	key := models.NewKey(models.ActionSearch, "q")

	remaining, err := s.limiter.GetRemaining(ctx, key, 30)
	s.Require().NoError(err)
	s.Equal(30, remaining)
	_, ok, err := s.limiter.GetResetTime(ctx, key)
	s.Require().NoError(err)
	s.False(ok)

	for range 5 {
		_, _ = s.limiter.Check(ctx, models.ActionSearch, "q")
	}
	remaining, _ = s.limiter.GetRemaining(ctx, key, 30)
	s.Equal(25, remaining)
	resetAt, ok, _ := s.limiter.GetResetTime(ctx, key)
	s.True(ok)
	s.Equal(s.clock.Now().Add(time.Minute), resetAt)

	// Reads do not consume budget.
	remaining, _ = s.limiter.GetRemaining(ctx, key, 30)
	s.Equal(25, remaining)

	s.clock.Advance(time.Minute + time.Second)
	remaining, _ = s.limiter.GetRemaining(ctx, key, 30)
	s.Equal(30, remaining, "elapsed window reads as absent")
	_, ok, _ = s.limiter.GetResetTime(ctx, key)
	s.False(ok)
}

func (s *LimiterSuite) TestClear() {
	ctx := context.Background()
	for range 3 {
		_, _ = s.limiter.CheckLimit(ctx, "a", 3, time.Minute)
		_, _ = s.limiter.CheckLimit(ctx, "b", 3, time.Minute)
	}

	s.Require().NoError(s.limiter.Clear(ctx, "a"))
	ok, _ := s.limiter.CheckLimit(ctx, "a", 3, time.Minute)
	s.True(ok)
	ok, _ = s.limiter.CheckLimit(ctx, "b", 3, time.Minute)
	s.False(ok)

	s.Require().NoError(s.limiter.ClearAll(ctx))
	ok, _ = s.limiter.CheckLimit(ctx, "b", 3, time.Minute)
	s.True(ok)
}

func (s *LimiterSuite) TestPolicyLookup() {
	p, ok := s.limiter.Policy(models.ActionAPICall)
	s.True(ok)
	s.Equal(100, p.MaxRequests)
}
