// Package page renders the visitor-facing status page and the admin panel
// from embedded templates.
package page

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"

	"github.com/presence-project/presence/internal/auth"
	"github.com/presence-project/presence/internal/status"
	"go.uber.org/zap"
)

//go:embed templates assets
var pageFS embed.FS

// Handler serves the rendered pages and static assets.
type Handler struct {
	status  *status.Handler
	guard   *auth.Guard
	dataDir string
	logger  *zap.Logger
	tmpl    *template.Template
}

// NewHandler parses the embedded templates and creates a page Handler.
func NewHandler(statusH *status.Handler, guard *auth.Guard, dataDir string, logger *zap.Logger) (*Handler, error) {
	tmpl, err := template.ParseFS(pageFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse page templates: %w", err)
	}
	return &Handler{
		status:  statusH,
		guard:   guard,
		dataDir: dataDir,
		logger:  logger,
		tmpl:    tmpl,
	}, nil
}

// RegisterRoutes registers page routes on the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.handleIndex)
	mux.HandleFunc("GET /panel", h.guard.RequirePage(h.handlePanel, "/panel/login"))
	mux.HandleFunc("GET /panel/login", h.handleLogin)
	mux.HandleFunc("GET /favicon.ico", h.handleFavicon)
	mux.Handle("GET /assets/", http.FileServerFS(pageFS))

	// Extra static files dropped into {data_dir}/public, if any.
	if h.dataDir != "" {
		public := filepath.Join(h.dataDir, "public")
		if info, err := os.Stat(public); err == nil && info.IsDir() {
			mux.Handle("GET /public/", http.StripPrefix("/public/", http.FileServer(http.Dir(public))))
			h.logger.Info("serving extra static files", zap.String("dir", public))
		}
	}
}

type indexData struct {
	Page    status.PageMeta
	Display status.DisplayOptions
	Query   status.QueryResponse
	Visits  bool
}

type panelData struct {
	Page       status.PageMeta
	StatusList []status.Info
	Query      status.QueryResponse
}

type loginData struct {
	Page status.PageMeta
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "index.html", indexData{
		Page:    h.status.Meta(),
		Display: h.status.Display(),
		Query:   h.status.Query(),
		Visits:  h.status.VisitsEnabled(),
	})
}

func (h *Handler) handlePanel(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "panel.html", panelData{
		Page:       h.status.Meta(),
		StatusList: h.status.List(),
		Query:      h.status.Query(),
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "login.html", loginData{Page: h.status.Meta()})
}

// handleFavicon redirects to a configured favicon URL or serves the
// embedded default.
func (h *Handler) handleFavicon(w http.ResponseWriter, r *http.Request) {
	if fav := h.status.Meta().Favicon; fav != "" {
		http.Redirect(w, r, fav, http.StatusFound)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	data, err := pageFS.ReadFile("assets/favicon.svg")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	_, _ = w.Write(data)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.ExecuteTemplate(w, name, data); err != nil {
		// Headers are already out; all we can do is log.
		h.logger.Error("failed to render page",
			zap.String("template", name),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
}
