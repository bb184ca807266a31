package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"storeguard/internal/auth/models"
	"storeguard/internal/csrf"
	"storeguard/internal/gateway"
	"storeguard/internal/platform/health"
	"storeguard/internal/platform/middleware"
	"storeguard/pkg/result"
	"storeguard/pkg/validation"
)

// DefaultRequestTimeout bounds each console API request.
const DefaultRequestTimeout = 30 * time.Second

// SessionService is the admin session as seen by the console API.
type SessionService interface {
	Login(ctx context.Context, email, password string) result.Result[*models.Session]
	Logout(ctx context.Context) error
	Info(ctx context.Context) models.SessionInfo
}

// CSRFService issues and checks the session's CSRF token.
type CSRFService interface {
	Generate(ctx context.Context) (string, error)
	Get(ctx context.Context) (string, error)
	Validate(ctx context.Context, token string) (bool, error)
}

// OperationExecutor runs admin operations through the secure gateway.
type OperationExecutor interface {
	Execute(ctx context.Context, op gateway.Operation) (*gateway.Response, error)
}

// Handler is the thin HTTP layer. It delegates to the session, CSRF and
// gateway services without embedding business logic.
type Handler struct {
	session    SessionService
	csrf       CSRFService
	operations OperationExecutor
	logger     *slog.Logger
}

func NewHandler(session SessionService, csrf CSRFService, operations OperationExecutor, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		session:    session,
		csrf:       csrf,
		operations: operations,
		logger:     logger,
	}
}

// RouterConfig carries the optional router dependencies.
type RouterConfig struct {
	// ConsoleToken, when set, must be presented in X-Console-Token on every
	// session and operation route.
	ConsoleToken string
	Timeout      time.Duration
	Health       *health.Handler
	// Gatherer backs GET /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
}

// NewRouter wires the console API endpoints with middleware.
func NewRouter(h *Handler, cfg RouterConfig, logger *slog.Logger) http.Handler {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultRequestTimeout
	}

	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(cfg.Timeout))
	r.Use(middleware.ContentTypeJSON)
	r.Use(middleware.BodyLimit(validation.MaxBodySize))

	if cfg.Health != nil {
		cfg.Health.Register(r)
	}
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireConsoleToken(cfg.ConsoleToken, logger))

		r.Post("/session/login", h.HandleLogin)
		r.Get("/session", h.HandleSession)
		r.Get("/csrf-token", h.HandleCSRFToken)

		r.Group(func(r chi.Router) {
			r.Use(csrf.RequireToken(h.csrf, logger))
			r.Post("/session/logout", h.HandleLogout)
			r.Post("/operations", h.HandleOperation)
		})
	})

	return r
}
