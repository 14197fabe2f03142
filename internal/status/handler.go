// Package status exposes the public status query API and the secret-gated
// status update endpoint.
package status

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/presence-project/presence/internal/auth"
	"github.com/presence-project/presence/internal/event"
	"github.com/presence-project/presence/internal/server"
	"github.com/presence-project/presence/internal/state"
	"github.com/presence-project/presence/internal/version"
	"go.uber.org/zap"
)

// Handler provides the status API.
type Handler struct {
	store   state.Store
	bus     *event.Bus
	guard   *auth.Guard
	list    []Info
	meta    PageMeta
	display DisplayOptions
	visits  bool
	logger  *zap.Logger
}

// NewHandler creates a status Handler.
func NewHandler(store state.Store, bus *event.Bus, guard *auth.Guard, list []Info, meta PageMeta, display DisplayOptions, visitsEnabled bool, logger *zap.Logger) *Handler {
	return &Handler{
		store:   store,
		bus:     bus,
		guard:   guard,
		list:    list,
		meta:    meta,
		display: display,
		visits:  visitsEnabled,
		logger:  logger,
	}
}

// RegisterRoutes registers status routes on the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/status/query", h.handleQuery)
	mux.HandleFunc("GET /api/v1/status/list", h.handleList)
	mux.HandleFunc("POST /api/v1/status", h.guard.RequireSecret(h.handleSet))
	mux.HandleFunc("GET /api/v1/meta", h.handleMeta)
}

// Resolve maps a status id to its configured Info, or Unknown.
func (h *Handler) Resolve(id int) Info {
	for _, s := range h.list {
		if s.ID == id {
			return s
		}
	}
	return Unknown
}

// List returns the configured status list.
func (h *Handler) List() []Info {
	return h.list
}

// Display returns the configured display options.
func (h *Handler) Display() DisplayOptions {
	return h.display
}

// Meta returns the configured page metadata.
func (h *Handler) Meta() PageMeta {
	return h.meta
}

// VisitsEnabled reports whether visit counters are enabled.
func (h *Handler) VisitsEnabled() bool {
	return h.visits
}

// Query builds the public view of the current state. Device records are
// withheld in private mode; everything else is shared with the SSE and
// WebSocket streams and the rendered page.
func (h *Handler) Query() QueryResponse {
	snap := h.store.Snapshot()

	devices := make([]DeviceView, 0, len(snap.Devices))
	if !snap.Private {
		for _, d := range snap.Devices {
			devices = append(devices, h.deviceView(d))
		}
		h.sortDevices(devices)
	}

	return QueryResponse{
		Success:     true,
		Time:        time.Now().UTC(),
		Status:      h.Resolve(snap.StatusID),
		Devices:     devices,
		Private:     snap.Private,
		LastUpdated: snap.LastUpdated,
	}
}

func (h *Handler) deviceView(d state.Device) DeviceView {
	show := d.ShowName
	if show == "" {
		show = d.Name
	}
	app := d.App
	if !d.Using {
		app = h.display.NotUsing
	} else if h.display.DeviceSlice > 0 {
		if r := []rune(app); len(r) > h.display.DeviceSlice {
			app = string(r[:h.display.DeviceSlice]) + "..."
		}
	}
	return DeviceView{
		Name:     d.Name,
		ShowName: show,
		Using:    d.Using,
		App:      app,
		LastSeen: d.LastSeen,
	}
}

// sortDevices orders views for display. Map iteration order is random, so
// some ordering is always applied: in-use devices first (when enabled),
// then by name (when enabled) or by most recent activity.
func (h *Handler) sortDevices(devices []DeviceView) {
	sort.SliceStable(devices, func(i, j int) bool {
		if h.display.UsingFirst && devices[i].Using != devices[j].Using {
			return devices[i].Using
		}
		if h.display.Sorted {
			return devices[i].Name < devices[j].Name
		}
		return devices[i].LastSeen.After(devices[j].LastSeen)
	})
}

// handleQuery returns the current status and device list.
//
//	@Summary		Query current status
//	@Description	Public read of the current status, device records, and last update time.
//	@Tags			status
//	@Produce		json
//	@Success		200	{object}	QueryResponse
//	@Router			/status/query [get]
func (h *Handler) handleQuery(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.Query())
}

// handleList returns the configured status list.
//
//	@Summary	List configured statuses
//	@Tags		status
//	@Produce	json
//	@Success	200	{object}	ListResponse
//	@Router		/status/list [get]
func (h *Handler) handleList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, ListResponse{Success: true, StatusList: h.list})
}

// SetRequest is the body of POST /api/v1/status.
type SetRequest struct {
	Status *int `json:"status"`
}

// handleSet replaces the active status.
//
//	@Summary		Set current status
//	@Description	Replaces the active status id. Requires the shared secret.
//	@Tags			status
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		SetRequest	true	"New status id"
//	@Success		200		{object}	SetResponse
//	@Failure		400		{object}	server.Problem
//	@Failure		401		{object}	server.Problem
//	@Router			/status [post]
func (h *Handler) handleSet(w http.ResponseWriter, r *http.Request) {
	var req SetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == nil {
		server.BadRequest(w, "body must be {\"status\": <int>}", r.URL.Path)
		return
	}

	next := h.Resolve(*req.Status)
	if next.ID == Unknown.ID {
		server.BadRequest(w, "status id not in the configured list", r.URL.Path)
		return
	}

	prev := h.Resolve(h.store.Snapshot().StatusID)
	if err := h.store.SetStatus(next.ID); err != nil {
		h.logger.Error("failed to persist status", zap.Error(err))
		server.InternalError(w, "failed to persist status", r.URL.Path)
		return
	}

	h.logger.Info("status updated",
		zap.Int("from", prev.ID),
		zap.Int("to", next.ID),
		zap.String("name", next.Name),
	)
	h.bus.Publish(r.Context(), event.Event{
		Topic:     event.TopicStatusUpdated,
		Source:    "status",
		Timestamp: time.Now(),
		Payload:   next,
	})

	writeJSON(w, http.StatusOK, SetResponse{Success: true, SetTo: next.ID})
}

// handleMeta returns site metadata.
//
//	@Summary	Site metadata
//	@Tags		status
//	@Produce	json
//	@Success	200	{object}	MetaResponse
//	@Router		/meta [get]
func (h *Handler) handleMeta(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, MetaResponse{
		Success: true,
		Version: version.Map(),
		Page:    h.meta,
		Display: h.display,
		Visits:  h.visits,
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
