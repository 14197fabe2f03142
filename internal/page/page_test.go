package page

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/presence-project/presence/internal/auth"
	"github.com/presence-project/presence/internal/event"
	"github.com/presence-project/presence/internal/state"
	"github.com/presence-project/presence/internal/status"
	"go.uber.org/zap"
)

func newTestMux(t *testing.T, meta status.PageMeta) (*http.ServeMux, state.Store) {
	t.Helper()

	verifier, err := auth.NewVerifier("test-secret", "")
	if err != nil {
		t.Fatalf("NewVerifier() error = %v", err)
	}
	sessions := auth.NewSessionService([]byte("0123456789abcdef"), time.Hour)
	guard := auth.NewGuard(verifier, sessions, zap.NewNop())

	store := state.NewMemoryStore()
	bus := event.NewBus(zap.NewNop())
	list := []status.Info{
		{ID: 0, Name: "alive", Desc: "around and reachable", Color: "awake"},
		{ID: 1, Name: "asleep", Desc: "probably sleeping", Color: "sleeping"},
	}
	statusH := status.NewHandler(store, bus, guard, list, meta, status.DisplayOptions{RefreshInterval: 5000}, false, zap.NewNop())

	h, err := NewHandler(statusH, guard, "", zap.NewNop())
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return mux, store
}

func get(t *testing.T, mux *http.ServeMux, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestIndexRendersNameAndStatus(t *testing.T) {
	mux, _ := newTestMux(t, status.PageMeta{Name: "Herb", Title: "Herb is awake"})

	rec := get(t, mux, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Herb") {
		t.Error("index should contain the configured name")
	}
	if !strings.Contains(body, "alive") {
		t.Error("index should contain the current status name")
	}
	if !strings.Contains(body, "/assets/app.js") {
		t.Error("index should load the client script")
	}
}

func TestIndexHidesDevicesInPrivateMode(t *testing.T) {
	mux, store := newTestMux(t, status.PageMeta{Name: "Herb"})

	if _, err := store.UpsertDevice(state.Device{Name: "laptop", Using: true, App: "editor"}); err != nil {
		t.Fatalf("UpsertDevice() error = %v", err)
	}
	if err := store.SetPrivate(true); err != nil {
		t.Fatalf("SetPrivate() error = %v", err)
	}

	body := get(t, mux, "/").Body.String()
	if strings.Contains(body, "editor") {
		t.Error("private mode should hide device details")
	}
}

func TestPanelRedirectsWithoutSession(t *testing.T) {
	mux, _ := newTestMux(t, status.PageMeta{Name: "Herb"})

	rec := get(t, mux, "/panel")
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	if loc := rec.Header().Get("Location"); loc != "/panel/login" {
		t.Errorf("Location = %q, want /panel/login", loc)
	}
}

func TestPanelServedWithSecret(t *testing.T) {
	mux, _ := newTestMux(t, status.PageMeta{Name: "Herb"})

	req := httptest.NewRequest(http.MethodGet, "/panel", nil)
	req.Header.Set("Authorization", "Bearer test-secret")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Private mode") {
		t.Error("panel should contain the private mode toggle")
	}
}

func TestFaviconRedirectsWhenConfigured(t *testing.T) {
	mux, _ := newTestMux(t, status.PageMeta{Name: "Herb", Favicon: "https://example.com/icon.png"})

	rec := get(t, mux, "/favicon.ico")
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	if loc := rec.Header().Get("Location"); loc != "https://example.com/icon.png" {
		t.Errorf("Location = %q", loc)
	}
}

func TestFaviconFallsBackToEmbedded(t *testing.T) {
	mux, _ := newTestMux(t, status.PageMeta{Name: "Herb"})

	rec := get(t, mux, "/favicon.ico")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestAssetsServed(t *testing.T) {
	mux, _ := newTestMux(t, status.PageMeta{Name: "Herb"})

	rec := get(t, mux, "/assets/style.css")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
