package auth

import (
	"net/http"
	"strings"

	"github.com/presence-project/presence/internal/server"
	"go.uber.org/zap"
)

// Guard authorizes requests to mutating endpoints. A request passes if it
// carries the shared secret as a bearer token, as a `secret` query parameter
// (for simple device clients), or a valid panel session cookie.
type Guard struct {
	verifier *Verifier
	sessions *SessionService
	logger   *zap.Logger
}

// NewGuard creates a Guard.
func NewGuard(verifier *Verifier, sessions *SessionService, logger *zap.Logger) *Guard {
	return &Guard{verifier: verifier, sessions: sessions, logger: logger}
}

// Authorized reports whether the request carries a valid credential.
func (g *Guard) Authorized(r *http.Request) bool {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		if g.verifier.Verify(strings.TrimPrefix(h, "Bearer ")) {
			return true
		}
	}
	if s := r.URL.Query().Get("secret"); s != "" && g.verifier.Verify(s) {
		return true
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		if g.sessions.Validate(c.Value) == nil {
			return true
		}
	}
	return false
}

// RequireSecret wraps an API handler; unauthorized requests get a 401
// problem response.
func (g *Guard) RequireSecret(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !g.Authorized(r) {
			g.logger.Warn("rejected unauthorized request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
			)
			server.Unauthorized(w, "missing or invalid secret", r.URL.Path)
			return
		}
		next(w, r)
	}
}

// RequirePage wraps a page handler; unauthorized requests are redirected to
// the login page instead of receiving a JSON problem.
func (g *Guard) RequirePage(next http.HandlerFunc, redirectTo string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !g.Authorized(r) {
			http.Redirect(w, r, redirectTo, http.StatusFound)
			return
		}
		next(w, r)
	}
}
