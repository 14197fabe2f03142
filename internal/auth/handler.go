package auth

import (
	"encoding/json"
	"net/http"

	"github.com/presence-project/presence/internal/server"
	"go.uber.org/zap"
)

// LoginRequest carries the shared secret presented at login.
type LoginRequest struct {
	Secret string `json:"secret"`
}

// LoginResponse returns the issued session token. The same token is also
// set as an HttpOnly cookie for browser clients.
type LoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

// Handler provides HTTP handlers for panel login, logout, and verification.
type Handler struct {
	guard    *Guard
	sessions *SessionService
	logger   *zap.Logger
}

// NewHandler creates an auth Handler.
func NewHandler(guard *Guard, sessions *SessionService, logger *zap.Logger) *Handler {
	return &Handler{guard: guard, sessions: sessions, logger: logger}
}

// RegisterRoutes registers auth routes on the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/auth/login", h.handleLogin)
	mux.HandleFunc("POST /api/v1/auth/logout", h.handleLogout)
	mux.HandleFunc("GET /api/v1/auth/verify", h.guard.RequireSecret(h.handleVerify))
}

// handleLogin exchanges the shared secret for a session cookie.
//
//	@Summary		Panel login
//	@Description	Exchanges the shared secret for a session token and cookie.
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginRequest	true	"Shared secret"
//	@Success		200		{object}	LoginResponse
//	@Failure		401		{object}	server.Problem
//	@Router			/auth/login [post]
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.BadRequest(w, "invalid request body", r.URL.Path)
		return
	}

	if !h.guard.verifier.Verify(req.Secret) {
		h.logger.Warn("panel login failed")
		server.Unauthorized(w, "wrong secret", r.URL.Path)
		return
	}

	token, err := h.sessions.Issue()
	if err != nil {
		h.logger.Error("failed to issue session token", zap.Error(err))
		server.InternalError(w, "failed to create session", r.URL.Path)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessions.TTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	h.logger.Debug("panel login successful")
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(LoginResponse{Success: true, Token: token})
}

// handleLogout clears the session cookie.
//
//	@Summary	Panel logout
//	@Tags		auth
//	@Success	204	"Session cleared"
//	@Router		/auth/logout [post]
func (h *Handler) handleLogout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// handleVerify confirms that the presented credential is valid.
//
//	@Summary	Verify secret
//	@Tags		auth
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	map[string]bool
//	@Failure	401	{object}	server.Problem
//	@Router		/auth/verify [get]
func (h *Handler) handleVerify(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
}
