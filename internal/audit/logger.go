// Package audit records admin actions, security events and failed logins.
// Recording is best-effort: no method of Logger returns a write error or lets
// a store failure reach the operation being audited.
package audit

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"strings"
	"time"

	"github.com/google/uuid"

	"storeguard/internal/audit/metrics"
	"storeguard/internal/audit/models"
	"storeguard/internal/platform/privacy"
	"storeguard/pkg/platform/circuit"
	"storeguard/pkg/platform/clock"
)

// DefaultWriteTimeout bounds each store write.
const DefaultWriteTimeout = 3 * time.Second

// Store is the append-only persistence the logger writes to.
type Store interface {
	AppendAuditLog(ctx context.Context, entry *models.Entry) error
	AppendSecurityEvent(ctx context.Context, event *models.SecurityEvent) error
	AppendFailedLogin(ctx context.Context, attempt *models.FailedLogin) error
}

// LockoutChecker evaluates whether an account is locked.
type LockoutChecker interface {
	Status(ctx context.Context, email string) (models.LockoutStatus, error)
}

type Logger struct {
	store        Store
	lockout      LockoutChecker
	breakers     map[string]*circuit.Breaker
	clock        clock.Clock
	logger       *slog.Logger
	metrics      *metrics.Metrics
	writeTimeout time.Duration
	newID        func() string
	breakerOpts  []circuit.Option
}

type Option func(*Logger)

func WithLogger(logger *slog.Logger) Option {
	return func(l *Logger) {
		l.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Logger) {
		l.metrics = m
	}
}

func WithClock(c clock.Clock) Option {
	return func(l *Logger) {
		l.clock = clock.OrSystem(c)
	}
}

// WithBreakerOptions configures the circuit breakers guarding store writes.
// Each record kind has its own breaker so a failing table does not stop
// writes to the others.
func WithBreakerOptions(opts ...circuit.Option) Option {
	return func(l *Logger) {
		l.breakerOpts = opts
	}
}

func WithWriteTimeout(d time.Duration) Option {
	return func(l *Logger) {
		if d > 0 {
			l.writeTimeout = d
		}
	}
}

// New creates a Logger. lockout may be nil, in which case every lockout
// check reports a degraded, unlocked status.
func New(store Store, lockout LockoutChecker, opts ...Option) (*Logger, error) {
	if store == nil {
		return nil, fmt.Errorf("audit store is required")
	}
	l := &Logger{
		store:        store,
		lockout:      lockout,
		clock:        clock.System{},
		logger:       slog.Default(),
		writeTimeout: DefaultWriteTimeout,
		newID:        func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(l)
	}
	l.breakers = make(map[string]*circuit.Breaker, 3)
	for _, kind := range []string{metrics.KindAuditLog, metrics.KindSecurityEvent, metrics.KindFailedLogin} {
		l.breakers[kind] = circuit.New("audit_store_"+kind, l.breakerOpts...)
	}
	return l, nil
}

// LogAdminAction appends entry to the audit trail. ID, Timestamp and Status
// are filled in when empty.
func (l *Logger) LogAdminAction(ctx context.Context, entry models.Entry) {
	if entry.ID == "" {
		entry.ID = l.newID()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = l.clock.Now()
	}
	if entry.Status == "" {
		entry.Status = models.StatusSuccess
	}
	l.write(ctx, metrics.KindAuditLog, func(ctx context.Context) error {
		return l.store.AppendAuditLog(ctx, &entry)
	}, "action", entry.Action, "resource_type", entry.ResourceType, "status", string(entry.Status))
}

// LogSecurityEvent appends a security event. Request metadata carried by ctx
// is merged into metadata without overriding caller-supplied keys.
func (l *Logger) LogSecurityEvent(ctx context.Context, eventType models.EventType, severity models.Severity, description string, metadata map[string]any) {
	event := models.SecurityEvent{
		ID:          l.newID(),
		Type:        eventType,
		Severity:    severity,
		Description: description,
		Metadata:    mergeRequestMetadata(ctx, metadata),
		Timestamp:   l.clock.Now(),
	}
	l.write(ctx, metrics.KindSecurityEvent, func(ctx context.Context) error {
		return l.store.AppendSecurityEvent(ctx, &event)
	}, "event_type", string(eventType), "severity", string(severity))
}

// LogFailedLogin records a rejected credential attempt for email.
func (l *Logger) LogFailedLogin(ctx context.Context, email string) {
	md := RequestMetadataFrom(ctx)
	attempt := models.FailedLogin{
		ID:        l.newID(),
		Email:     strings.TrimSpace(email),
		IPAddress: md.IPAddress,
		UserAgent: md.UserAgent,
		Timestamp: l.clock.Now(),
	}
	l.write(ctx, metrics.KindFailedLogin, func(ctx context.Context) error {
		return l.store.AppendFailedLogin(ctx, &attempt)
	}, "email", privacy.MaskEmail(attempt.Email), "client_ip", privacy.AnonymizeIP(attempt.IPAddress))
}

// IsAccountLocked reports the lock state of email. When the check cannot
// complete the account is reported unlocked with Degraded set.
func (l *Logger) IsAccountLocked(ctx context.Context, email string) models.LockoutStatus {
	if l.lockout == nil {
		l.incLockout("degraded")
		return models.LockoutStatus{Degraded: true, Reason: models.ReasonCheckUnavailable}
	}

	status, err := l.lockout.Status(ctx, email)
	if err != nil {
		l.logger.WarnContext(ctx, "lockout check failed, allowing login",
			"error", err,
			"email", privacy.MaskEmail(email),
		)
		l.incLockout("degraded")
		return models.LockoutStatus{Degraded: true, Reason: models.ReasonCheckUnavailable}
	}
	if status.Locked {
		l.incLockout("locked")
	} else {
		l.incLockout("unlocked")
	}
	return status
}

// write runs fn against the store detached from the caller's cancellation and
// bounded by the write timeout. Errors and panics are logged and counted.
func (l *Logger) write(ctx context.Context, kind string, fn func(context.Context) error, attrs ...any) {
	defer func() {
		if r := recover(); r != nil {
			l.recordFailure(ctx, kind, fmt.Errorf("panic: %v", r), attrs)
		}
	}()

	breaker := l.breakers[kind]
	if !breaker.Allow() {
		if l.metrics != nil {
			l.metrics.IncDropped(kind)
		}
		l.logger.WarnContext(ctx, "audit store circuit open, record dropped",
			append([]any{"log_type", "audit", "kind", kind}, attrs...)...,
		)
		return
	}

	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.writeTimeout)
	defer cancel()

	start := l.clock.Now()
	err := fn(wctx)
	if l.metrics != nil {
		l.metrics.ObserveWriteDuration(l.clock.Now().Sub(start).Seconds())
	}
	if err != nil {
		l.recordFailure(ctx, kind, err, attrs)
		return
	}

	breaker.RecordSuccess()
	if l.metrics != nil {
		l.metrics.IncWritten(kind)
	}
	l.logger.InfoContext(ctx, "audit record written",
		append([]any{"log_type", "audit", "kind", kind}, attrs...)...,
	)
}

func (l *Logger) recordFailure(ctx context.Context, kind string, err error, attrs []any) {
	breaker := l.breakers[kind]
	change := breaker.RecordFailure()
	if l.metrics != nil {
		l.metrics.IncFailed(kind)
		if change.Opened {
			l.metrics.IncCircuitOpened()
		}
	}
	l.logger.ErrorContext(ctx, "failed to write audit record",
		append([]any{"log_type", "audit", "kind", kind, "error", err}, attrs...)...,
	)
	if change.Opened {
		l.logger.WarnContext(ctx, "audit store circuit opened",
			"breaker", breaker.Name(),
		)
	}
}

func (l *Logger) incLockout(outcome string) {
	if l.metrics != nil {
		l.metrics.IncLockoutCheck(outcome)
	}
}

func mergeRequestMetadata(ctx context.Context, metadata map[string]any) map[string]any {
	md, ok := requestMetadata(ctx)
	if !ok {
		return metadata
	}
	merged := md.fields()
	maps.Copy(merged, metadata)
	return merged
}
