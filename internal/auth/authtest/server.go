// Package authtest provides an in-process auth endpoint that speaks the same
// protocol as the storefront's. It issues JWT access tokens and rotating
// refresh tokens, and can be told to fail refreshes.
package authtest

import (
	"crypto/rand"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"storeguard/internal/auth/client"
	"storeguard/internal/auth/models"
	"storeguard/pkg/platform/clock"
)

// SessionCookie is set on login and expected back on refresh.
const SessionCookie = "sg_auth"

type account struct {
	password string
	admin    models.AdminIdentity
}

// Server is an http.Handler implementing the auth endpoint.
type Server struct {
	mu       sync.Mutex
	accounts map[string]account
	refresh  map[string]string
	tokens   *tokenIssuer

	failRefresh  atomic.Bool
	refreshDelay atomic.Int64
	loginCalls   atomic.Int64
	refreshCalls atomic.Int64
	logoutCalls  atomic.Int64
	cookieSeen   atomic.Bool
}

type Option func(*Server)

func WithClock(c clock.Clock) Option {
	return func(s *Server) {
		s.tokens.clock = clock.OrSystem(c)
	}
}

// WithSigningKey fixes the HS256 key. A random key is used otherwise.
func WithSigningKey(key []byte) Option {
	return func(s *Server) {
		if len(key) > 0 {
			s.tokens.signingKey = key
		}
	}
}

func New(opts ...Option) *Server {
	key := make([]byte, 32)
	_, _ = rand.Read(key)
	s := &Server{
		accounts: make(map[string]account),
		refresh:  make(map[string]string),
		tokens: &tokenIssuer{
			signingKey: key,
			ttl:        models.AccessTokenTTL,
			clock:      clock.System{},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddAccount registers credentials for admin.
func (s *Server) AddAccount(password string, admin models.AdminIdentity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[strings.ToLower(admin.Email)] = account{password: password, admin: admin}
}

// FailRefresh makes every refresh call answer 401 while set.
func (s *Server) FailRefresh(fail bool) {
	s.failRefresh.Store(fail)
}

// SetRefreshDelay holds refresh responses for d.
func (s *Server) SetRefreshDelay(d time.Duration) {
	s.refreshDelay.Store(int64(d))
}

func (s *Server) LoginCalls() int   { return int(s.loginCalls.Load()) }
func (s *Server) RefreshCalls() int { return int(s.refreshCalls.Load()) }
func (s *Server) LogoutCalls() int  { return int(s.logoutCalls.Load()) }

// CookieSeen reports whether a refresh or logout presented the session cookie.
func (s *Server) CookieSeen() bool { return s.cookieSeen.Load() }

// Verify parses and validates an access token issued by s.
func (s *Server) Verify(token string) (*AccessTokenClaims, error) {
	return s.tokens.parse(token)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req client.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64*1024)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		s.cookieSeen.Store(true)
	}

	switch req.Action {
	case client.ActionLogin:
		s.handleLogin(w, req)
	case client.ActionRefresh:
		s.handleRefresh(w, req)
	case client.ActionLogout:
		s.handleLogout(w, req)
	default:
		writeError(w, http.StatusBadRequest, "unknown action")
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, req client.Request) {
	s.loginCalls.Add(1)
	s.mu.Lock()
	acct, ok := s.accounts[strings.ToLower(req.Email)]
	s.mu.Unlock()
	if !ok || acct.password != req.Password {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: acct.admin.ID, Path: "/", HttpOnly: true})
	s.issue(w, acct.admin)
}

func (s *Server) handleRefresh(w http.ResponseWriter, req client.Request) {
	s.refreshCalls.Add(1)
	if d := time.Duration(s.refreshDelay.Load()); d > 0 {
		time.Sleep(d)
	}
	if s.failRefresh.Load() {
		writeError(w, http.StatusUnauthorized, "refresh rejected")
		return
	}

	s.mu.Lock()
	email, ok := s.refresh[req.RefreshToken]
	if ok {
		delete(s.refresh, req.RefreshToken)
	}
	acct, known := s.accounts[email]
	s.mu.Unlock()
	if !ok || !known {
		writeError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}
	s.issue(w, acct.admin)
}

func (s *Server) handleLogout(w http.ResponseWriter, req client.Request) {
	s.logoutCalls.Add(1)
	s.mu.Lock()
	delete(s.refresh, req.RefreshToken)
	s.mu.Unlock()
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) issue(w http.ResponseWriter, admin models.AdminIdentity) {
	access, err := s.tokens.accessToken(admin)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "token issuance failed")
		return
	}
	refresh, err := newRefreshToken()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "token issuance failed")
		return
	}
	s.mu.Lock()
	s.refresh[refresh] = strings.ToLower(admin.Email)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(client.Response{
		Admin:        admin,
		AccessToken:  access,
		RefreshToken: refresh,
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
