// Package client talks to the storefront auth endpoint: a single POST
// endpoint that logs admins in, refreshes access tokens and logs them out.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"storeguard/internal/auth/models"
	dErrors "storeguard/pkg/domain-errors"
)

// DefaultTimeout bounds each call to the auth endpoint.
const DefaultTimeout = 10 * time.Second

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 1 << 20

type Action string

const (
	ActionLogin   Action = "login"
	ActionRefresh Action = "refresh"
	ActionLogout  Action = "logout"
)

// Request is the auth endpoint request body.
type Request struct {
	Action       Action `json:"action"`
	Email        string `json:"email,omitempty"`
	Password     string `json:"password,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// Response is the auth endpoint success body.
type Response struct {
	Admin        models.AdminIdentity `json:"admin"`
	AccessToken  string               `json:"accessToken"`
	RefreshToken string               `json:"refreshToken"`
}

// HTTPClient calls the auth endpoint over HTTP. Cookies set by the endpoint
// are kept in a jar and replayed on later calls.
type HTTPClient struct {
	endpoint string
	http     *http.Client
	tracer   trace.Tracer
	logger   *slog.Logger
}

type Option func(*HTTPClient)

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying client. A jar is added when missing.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		if hc == nil {
			return
		}
		if hc.Jar == nil {
			hc.Jar = c.http.Jar
		}
		c.http = hc
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(c *HTTPClient) {
		if t != nil {
			c.tracer = t
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *HTTPClient) {
		c.logger = logger
	}
}

func New(endpoint string, opts ...Option) (*HTTPClient, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("auth endpoint URL is required")
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	c := &HTTPClient{
		endpoint: endpoint,
		http:     &http.Client{Jar: jar, Timeout: DefaultTimeout},
		tracer:   otel.Tracer("storeguard/auth"),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*Response, error) {
	return c.call(ctx, Request{Action: ActionLogin, Email: email, Password: password})
}

func (c *HTTPClient) Refresh(ctx context.Context, refreshToken string) (*Response, error) {
	return c.call(ctx, Request{Action: ActionRefresh, RefreshToken: refreshToken})
}

func (c *HTTPClient) Logout(ctx context.Context, refreshToken string) error {
	_, err := c.send(ctx, Request{Action: ActionLogout, RefreshToken: refreshToken})
	return err
}

func (c *HTTPClient) call(ctx context.Context, req Request) (*Response, error) {
	body, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}
	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUpstream, "invalid auth endpoint response")
	}
	if resp.AccessToken == "" {
		return nil, dErrors.New(dErrors.CodeUpstream, "auth endpoint returned no access token")
	}
	return &resp, nil
}

// send posts req and returns the body of a 2xx response. Non-2xx statuses are
// reported as auth failures, transport errors as network errors.
func (c *HTTPClient) send(ctx context.Context, req Request) (_ []byte, err error) {
	ctx, span := c.tracer.Start(ctx, "auth.endpoint."+string(req.Action),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("auth.action", string(req.Action))),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode auth request")
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to build auth request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "auth endpoint timed out")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeNetwork, "auth endpoint unreachable")
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeNetwork, "failed to read auth endpoint response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.DebugContext(ctx, "auth endpoint rejected request",
			"action", string(req.Action),
			"status", resp.StatusCode,
		)
		return nil, dErrors.New(dErrors.CodeAuthFailed, fmt.Sprintf("auth endpoint returned status %d", resp.StatusCode))
	}
	return body, nil
}
