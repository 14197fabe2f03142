package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func TestNewVerifier_RequiresSecret(t *testing.T) {
	if _, err := NewVerifier("", ""); err != ErrNoSecret {
		t.Errorf("NewVerifier(\"\", \"\") error = %v, want ErrNoSecret", err)
	}
}

func TestVerifier_Plaintext(t *testing.T) {
	v, err := NewVerifier("hunter2", "")
	if err != nil {
		t.Fatalf("NewVerifier() error = %v", err)
	}

	if !v.Verify("hunter2") {
		t.Error("correct secret should verify")
	}
	if v.Verify("wrong") {
		t.Error("wrong secret should not verify")
	}
	if v.Verify("") {
		t.Error("empty candidate should not verify")
	}
}

func TestVerifier_BcryptHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt.GenerateFromPassword() error = %v", err)
	}

	v, err := NewVerifier("", string(hash))
	if err != nil {
		t.Fatalf("NewVerifier() error = %v", err)
	}
	if !v.Verify("hunter2") {
		t.Error("correct secret should verify against hash")
	}
	if v.Verify("wrong") {
		t.Error("wrong secret should not verify against hash")
	}
}

func TestVerifier_HashWinsOverPlaintext(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("from-hash"), bcrypt.MinCost)
	v, err := NewVerifier("from-plaintext", string(hash))
	if err != nil {
		t.Fatalf("NewVerifier() error = %v", err)
	}

	if !v.Verify("from-hash") {
		t.Error("hash value should verify")
	}
	if v.Verify("from-plaintext") {
		t.Error("plaintext should be ignored when a hash is set")
	}
}

func TestVerifier_RejectsMalformedHash(t *testing.T) {
	if _, err := NewVerifier("", "not-a-bcrypt-hash"); err == nil {
		t.Error("malformed hash should be rejected at startup")
	}
}

func TestSessionService_IssueAndValidate(t *testing.T) {
	svc := NewSessionService([]byte("0123456789abcdef"), time.Hour)

	token, err := svc.Issue()
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if err := svc.Validate(token); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestSessionService_RejectsWrongKey(t *testing.T) {
	issuer := NewSessionService([]byte("key-one-key-one-"), time.Hour)
	validator := NewSessionService([]byte("key-two-key-two-"), time.Hour)

	token, err := issuer.Issue()
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if err := validator.Validate(token); err == nil {
		t.Error("token signed with a different key should not validate")
	}
}

func TestSessionService_RejectsExpired(t *testing.T) {
	svc := NewSessionService([]byte("0123456789abcdef"), -time.Minute)

	token, err := svc.Issue()
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if err := svc.Validate(token); err == nil {
		t.Error("expired token should not validate")
	}
}

func TestSessionService_RejectsGarbage(t *testing.T) {
	svc := NewSessionService([]byte("0123456789abcdef"), time.Hour)
	if err := svc.Validate("not.a.token"); err == nil {
		t.Error("garbage token should not validate")
	}
}

func newTestGuard(t *testing.T) (*Guard, *SessionService) {
	t.Helper()
	v, err := NewVerifier("hunter2", "")
	if err != nil {
		t.Fatalf("NewVerifier() error = %v", err)
	}
	sessions := NewSessionService([]byte("0123456789abcdef"), time.Hour)
	return NewGuard(v, sessions, zap.NewNop()), sessions
}

func TestGuard_Authorized(t *testing.T) {
	guard, sessions := newTestGuard(t)
	token, err := sessions.Issue()
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	tests := []struct {
		name  string
		setup func(r *http.Request)
		want  bool
	}{
		{"no credential", func(_ *http.Request) {}, false},
		{"bearer secret", func(r *http.Request) { r.Header.Set("Authorization", "Bearer hunter2") }, true},
		{"wrong bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, false},
		{"query secret", func(r *http.Request) { r.URL.RawQuery = "secret=hunter2" }, true},
		{"wrong query secret", func(r *http.Request) { r.URL.RawQuery = "secret=nope" }, false},
		{"session cookie", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
		}, true},
		{"bad session cookie", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: SessionCookie, Value: "bogus"})
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/v1/auth/verify", http.NoBody)
			tt.setup(req)
			if got := guard.Authorized(req); got != tt.want {
				t.Errorf("Authorized() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGuard_RequireSecret(t *testing.T) {
	guard, _ := newTestGuard(t)
	handler := guard.RequireSecret(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest("POST", "/api/v1/status", http.NoBody))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unauthorized status = %d, want 401", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("Content-Type = %q, want problem+json", ct)
	}

	req := httptest.NewRequest("POST", "/api/v1/status", http.NoBody)
	req.Header.Set("Authorization", "Bearer hunter2")
	w = httptest.NewRecorder()
	handler(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("authorized status = %d, want 200", w.Code)
	}
}

func TestGuard_RequirePageRedirects(t *testing.T) {
	guard, _ := newTestGuard(t)
	handler := guard.RequirePage(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}, "/panel/login")

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest("GET", "/panel", http.NoBody))
	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/panel/login" {
		t.Errorf("Location = %q, want /panel/login", loc)
	}
}

func newAuthMux(t *testing.T) *http.ServeMux {
	t.Helper()
	guard, sessions := newTestGuard(t)
	mux := http.NewServeMux()
	NewHandler(guard, sessions, zap.NewNop()).RegisterRoutes(mux)
	return mux
}

func TestLogin_SetsSessionCookie(t *testing.T) {
	mux := newAuthMux(t)

	req := httptest.NewRequest("POST", "/api/v1/auth/login", strings.NewReader(`{"secret":"hunter2"}`))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !resp.Success || resp.Token == "" {
		t.Errorf("response = %+v", resp)
	}

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookie {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("session cookie not set")
	}
	if !cookie.HttpOnly {
		t.Error("session cookie should be HttpOnly")
	}
	if cookie.Value != resp.Token {
		t.Error("cookie should carry the issued token")
	}
}

func TestLogin_WrongSecret(t *testing.T) {
	mux := newAuthMux(t)

	req := httptest.NewRequest("POST", "/api/v1/auth/login", strings.NewReader(`{"secret":"nope"}`))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if len(w.Result().Cookies()) != 0 {
		t.Error("no cookie should be set on failed login")
	}
}

func TestLogout_ClearsCookie(t *testing.T) {
	mux := newAuthMux(t)

	req := httptest.NewRequest("POST", "/api/v1/auth/logout", http.NoBody)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != SessionCookie || cookies[0].MaxAge >= 0 {
		t.Errorf("cookies = %+v, want expired session cookie", cookies)
	}
}

func TestVerifyEndpoint(t *testing.T) {
	mux := newAuthMux(t)

	req := httptest.NewRequest("GET", "/api/v1/auth/verify", http.NoBody)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated status = %d, want 401", w.Code)
	}

	req = httptest.NewRequest("GET", "/api/v1/auth/verify", http.NoBody)
	req.Header.Set("Authorization", "Bearer hunter2")
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("authenticated status = %d, want 200", w.Code)
	}
}
