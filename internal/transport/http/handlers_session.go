package httptransport

import (
	"net/http"
	"time"

	"storeguard/internal/auth/models"
	"storeguard/internal/platform/middleware"
	"storeguard/pkg/platform/httputil"
)

// LoginResponse is returned by POST /session/login.
type LoginResponse struct {
	Admin     models.AdminIdentity `json:"admin"`
	ExpiresAt time.Time            `json:"expires_at"`
	CSRFToken string               `json:"csrf_token"`
}

// SessionResponse is returned by GET /session.
type SessionResponse struct {
	State     string                `json:"state"`
	Admin     *models.AdminIdentity `json:"admin,omitempty"`
	ExpiresAt *time.Time            `json:"expires_at,omitempty"`
}

// CSRFTokenResponse is returned by GET /csrf-token.
type CSRFTokenResponse struct {
	Token string `json:"csrf_token"`
}

// HandleLogin implements POST /session/login.
// Input: { "email": "owner@shop.test", "password": "..." }
// Output: { "admin": {...}, "expires_at": "...", "csrf_token": "..." }
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeJSON[models.LoginRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	res := h.session.Login(ctx, req.Email, req.Password)
	if !res.IsOK() {
		h.logger.WarnContext(ctx, "admin login rejected",
			"request_id", requestID,
			"kind", string(res.Kind()),
		)
		writeError(w, res.Err)
		return
	}

	token, err := h.csrf.Generate(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue csrf token",
			"error", err,
			"request_id", requestID,
		)
		writeError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, LoginResponse{
		Admin:     res.Value.Admin,
		ExpiresAt: res.Value.ExpiresAt,
		CSRFToken: token,
	})
}

// HandleLogout implements POST /session/logout.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.session.Logout(ctx); err != nil {
		h.logger.ErrorContext(ctx, "logout failed",
			"error", err,
			"request_id", middleware.GetRequestID(ctx),
		)
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSession implements GET /session.
func (h *Handler) HandleSession(w http.ResponseWriter, r *http.Request) {
	info := h.session.Info(r.Context())
	httputil.WriteJSON(w, http.StatusOK, SessionResponse{
		State:     info.State.String(),
		Admin:     info.Admin,
		ExpiresAt: info.ExpiresAt,
	})
}

// HandleCSRFToken implements GET /csrf-token. A token is issued when the
// session has none or it has expired.
func (h *Handler) HandleCSRFToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token, err := h.csrf.Get(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to read csrf token",
			"error", err,
			"request_id", middleware.GetRequestID(ctx),
		)
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, CSRFTokenResponse{Token: token})
}
