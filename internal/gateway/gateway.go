// Package gateway composes rate limiting, CSRF protection, bearer
// authentication and audit logging around outbound admin operations.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"storeguard/internal/audit"
	auditmodels "storeguard/internal/audit/models"
	"storeguard/internal/gateway/metrics"
	rlmodels "storeguard/internal/ratelimit/models"
	dErrors "storeguard/pkg/domain-errors"
	"storeguard/pkg/platform/clock"
	"storeguard/pkg/validation"
)

const maxResponseBytes = 4 << 20

type Gateway struct {
	session Session
	csrf    CSRF
	limiter RateLimiter
	audit   AuditLogger
	clock   clock.Clock
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

type Option func(*Gateway)

func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) {
		g.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Gateway) {
		g.metrics = m
	}
}

func WithClock(c clock.Clock) Option {
	return func(g *Gateway) {
		g.clock = clock.OrSystem(c)
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(g *Gateway) {
		if t != nil {
			g.tracer = t
		}
	}
}

// WithRateLimiter enables per-admin operation throttling.
func WithRateLimiter(l RateLimiter) Option {
	return func(g *Gateway) {
		g.limiter = l
	}
}

func New(session Session, csrf CSRF, audit AuditLogger, opts ...Option) (*Gateway, error) {
	if session == nil {
		return nil, fmt.Errorf("session is required")
	}
	if csrf == nil {
		return nil, fmt.Errorf("csrf manager is required")
	}
	if audit == nil {
		return nil, fmt.Errorf("audit logger is required")
	}
	g := &Gateway{
		session: session,
		csrf:    csrf,
		audit:   audit,
		clock:   clock.System{},
		logger:  slog.Default(),
		tracer:  otel.Tracer("storeguard/gateway"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Execute runs op as the signed-in admin. Once the operation is valid and an
// admin is present, exactly one audit entry records its outcome. A non-2xx
// upstream answer is returned together with an upstream_error.
func (g *Gateway) Execute(ctx context.Context, op Operation) (_ *Response, err error) {
	ctx, span := g.tracer.Start(ctx, "gateway.execute", trace.WithAttributes(
		attribute.String("operation.name", op.Name),
		attribute.String("http.request.method", op.Method),
	))
	start := g.clock.Now()
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		g.observe(op.Method, start, err)
	}()

	if err := validation.Validate(op); err != nil {
		return nil, err
	}
	admin, ok := g.session.CurrentAdmin(ctx)
	if !ok {
		return nil, dErrors.New(dErrors.CodeAuthRequired, "not authenticated")
	}
	span.SetAttributes(attribute.String("admin.id", admin.ID))

	entry := auditmodels.Entry{
		ActorID:      admin.ID,
		Action:       op.Name,
		ResourceType: op.ResourceType,
		ResourceID:   op.ResourceID,
		OldValues:    op.OldValues,
		NewValues:    bodyValues(op.Body),
	}
	return audit.WithAuditLog(ctx, g.audit, entry, func(ctx context.Context) (*Response, error) {
		if err := g.checkRateLimit(ctx, op, admin.ID); err != nil {
			return nil, err
		}
		return g.send(ctx, op)
	})
}

func (g *Gateway) checkRateLimit(ctx context.Context, op Operation, adminID string) error {
	if g.limiter == nil {
		return nil
	}
	action := op.RateLimit
	if action == "" {
		action = rlmodels.ActionAPICall
	}
	res, err := g.limiter.Check(ctx, action, adminID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvalidInput) {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown rate limit policy %s", action))
		}
		g.logger.WarnContext(ctx, "operation rate limit check failed, allowing call", "error", err)
		return nil
	}
	if res.Allowed {
		return nil
	}
	g.audit.LogSecurityEvent(ctx, auditmodels.EventRateLimitExceeded, auditmodels.SeverityMedium,
		"Admin operation rate limit exceeded", map[string]any{
			"admin_id":  adminID,
			"action":    string(action),
			"operation": op.Name,
		})
	return dErrors.NewRateLimited(fmt.Sprintf("rate limit exceeded for %s", action), res.RetryAfter)
}

func (g *Gateway) send(ctx context.Context, op Operation) (*Response, error) {
	var body io.Reader
	if len(op.Body) > 0 {
		body = bytes.NewReader(op.Body)
	}
	req, err := http.NewRequestWithContext(ctx, op.Method, op.URL, body)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "invalid operation request")
	}
	if err := g.csrf.AddHeader(ctx, op.Method, req.Header); err != nil {
		return nil, err
	}

	resp, err := g.session.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeNetwork, "failed to read upstream response")
	}
	out := &Response{StatusCode: resp.StatusCode, Header: resp.Header.Clone()}
	if len(payload) > 0 {
		if json.Valid(payload) {
			out.Body = payload
		} else {
			quoted, _ := json.Marshal(string(payload))
			out.Body = quoted
		}
	}
	if !out.Success() {
		return out, dErrors.New(dErrors.CodeUpstream, fmt.Sprintf("upstream returned status %d", resp.StatusCode))
	}
	return out, nil
}

func (g *Gateway) observe(method string, start time.Time, err error) {
	if g.metrics == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = string(dErrors.CodeOf(err))
	}
	method = methodLabel(method)
	g.metrics.IncOperation(method, outcome)
	g.metrics.ObserveDuration(method, g.clock.Now().Sub(start).Seconds())
}

func methodLabel(method string) string {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return method
	}
	return "other"
}

// bodyValues decodes a JSON object body for the audit entry's new values.
func bodyValues(body json.RawMessage) map[string]any {
	if len(body) == 0 {
		return nil
	}
	var values map[string]any
	if err := json.Unmarshal(body, &values); err != nil {
		return nil
	}
	return values
}
