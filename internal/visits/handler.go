package visits

import (
	"encoding/json"
	"net/http"

	"github.com/presence-project/presence/internal/server"
	"go.uber.org/zap"
)

// Response is the payload of GET /api/v1/visits.
type Response struct {
	Success bool    `json:"success"`
	Visits  Summary `json:"visits"`
}

// Handler serves the visit counters summary.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a visits Handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers visits routes on the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/visits", h.handleSummary)
}

// Middleware contributes the visit recorder to the server middleware chain.
func (h *Handler) Middleware() func(http.Handler) http.Handler {
	return h.service.Middleware()
}

// handleSummary returns the visit counter rollups.
//
//	@Summary		Visit counters
//	@Description	Public rollup of visit counters: today, 7/30/365-day windows, total, and per-path totals.
//	@Tags			visits
//	@Produce		json
//	@Success		200	{object}	Response
//	@Failure		500	{object}	server.Problem
//	@Router			/visits [get]
func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.logger.Error("failed to read visit counters", zap.Error(err))
		server.InternalError(w, "failed to read visit counters", r.URL.Path)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(Response{Success: true, Visits: summary})
}
