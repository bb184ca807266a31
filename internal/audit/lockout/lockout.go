// Package lockout derives account lock state from failed login history.
package lockout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storeguard/internal/audit/models"
	"storeguard/pkg/platform/clock"
)

const (
	DefaultThreshold = 5
	DefaultWindow    = 15 * time.Minute
)

// FailureCounter counts failed logins for an email since a cutoff.
type FailureCounter interface {
	CountFailedLogins(ctx context.Context, email string, since time.Time) (int, error)
}

// Evaluator locks an account once its failures within the window reach the
// threshold. The lock lifts as old failures age out of the window.
type Evaluator struct {
	counter   FailureCounter
	threshold int
	window    time.Duration
	clock     clock.Clock
}

type Option func(*Evaluator)

func WithThreshold(n int) Option {
	return func(e *Evaluator) {
		if n > 0 {
			e.threshold = n
		}
	}
}

func WithWindow(d time.Duration) Option {
	return func(e *Evaluator) {
		if d > 0 {
			e.window = d
		}
	}
}

func WithClock(c clock.Clock) Option {
	return func(e *Evaluator) {
		e.clock = clock.OrSystem(c)
	}
}

func New(counter FailureCounter, opts ...Option) (*Evaluator, error) {
	if counter == nil {
		return nil, fmt.Errorf("failure counter is required")
	}
	e := &Evaluator{
		counter:   counter,
		threshold: DefaultThreshold,
		window:    DefaultWindow,
		clock:     clock.System{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Status reports whether email is locked. Errors are returned as-is; deciding
// whether to fail open belongs to the caller.
func (e *Evaluator) Status(ctx context.Context, email string) (models.LockoutStatus, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return models.LockoutStatus{}, nil
	}
	since := e.clock.Now().Add(-e.window)
	failures, err := e.counter.CountFailedLogins(ctx, email, since)
	if err != nil {
		return models.LockoutStatus{}, fmt.Errorf("count failed logins: %w", err)
	}
	if failures >= e.threshold {
		return models.LockoutStatus{Locked: true, Reason: models.ReasonThresholdReached}, nil
	}
	return models.LockoutStatus{}, nil
}

func (e *Evaluator) Threshold() int {
	return e.threshold
}

func (e *Evaluator) Window() time.Duration {
	return e.window
}
