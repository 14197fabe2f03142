// Package device exposes the secret-gated device reporting API.
package device

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/presence-project/presence/internal/auth"
	"github.com/presence-project/presence/internal/event"
	"github.com/presence-project/presence/internal/server"
	"github.com/presence-project/presence/internal/state"
	"go.uber.org/zap"
)

// SetRequest is the body of POST /api/v1/device.
type SetRequest struct {
	Name     string            `json:"name"`
	ShowName string            `json:"show_name"`
	Using    bool              `json:"using"`
	App      string            `json:"app"`
	Fields   map[string]string `json:"fields"`
}

// PrivateRequest is the body of POST /api/v1/device/private.
type PrivateRequest struct {
	Private *bool `json:"private"`
}

// OKResponse acknowledges a mutation.
type OKResponse struct {
	Success bool `json:"success"`
	Created bool `json:"created,omitempty"`
}

// Handler provides the device API. All routes require the shared secret.
type Handler struct {
	store  state.Store
	bus    *event.Bus
	guard  *auth.Guard
	logger *zap.Logger
}

// NewHandler creates a device Handler.
func NewHandler(store state.Store, bus *event.Bus, guard *auth.Guard, logger *zap.Logger) *Handler {
	return &Handler{store: store, bus: bus, guard: guard, logger: logger}
}

// RegisterRoutes registers device routes on the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/device", h.guard.RequireSecret(h.handleSet))
	// GET variant for clients that can only fire a URL (shell one-liners, tasker).
	mux.HandleFunc("GET /api/v1/device/set", h.guard.RequireSecret(h.handleSetQuery))
	mux.HandleFunc("DELETE /api/v1/device/{name}", h.guard.RequireSecret(h.handleRemove))
	mux.HandleFunc("DELETE /api/v1/device", h.guard.RequireSecret(h.handleClear))
	mux.HandleFunc("POST /api/v1/device/private", h.guard.RequireSecret(h.handlePrivate))
}

// handleSet creates or updates a device record.
//
//	@Summary		Report device activity
//	@Description	Creates the device on first sight, updates it afterwards.
//	@Tags			device
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		SetRequest	true	"Device report"
//	@Success		200		{object}	OKResponse
//	@Failure		400		{object}	server.Problem
//	@Failure		401		{object}	server.Problem
//	@Router			/device [post]
func (h *Handler) handleSet(w http.ResponseWriter, r *http.Request) {
	var req SetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.BadRequest(w, "invalid request body", r.URL.Path)
		return
	}
	h.upsert(w, r, req)
}

// handleSetQuery is the query-parameter variant of handleSet.
//
//	@Summary	Report device activity (query params)
//	@Tags		device
//	@Produce	json
//	@Security	BearerAuth
//	@Param		name		query		string	true	"Device name"
//	@Param		show_name	query		string	false	"Display name shown on the page"
//	@Param		using		query		bool	false	"Whether the device is in use"
//	@Param		app			query		string	false	"Foreground application"
//	@Success	200			{object}	OKResponse
//	@Failure	400			{object}	server.Problem
//	@Router		/device/set [get]
func (h *Handler) handleSetQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	using, err := parseBool(q.Get("using"))
	if err != nil {
		server.BadRequest(w, "'using' must be a boolean", r.URL.Path)
		return
	}

	// Any parameter that isn't part of the report itself becomes a custom
	// field, so shell one-liners can attach extras like battery level.
	var fields map[string]string
	for key, vals := range q {
		switch key {
		case "name", "show_name", "using", "app", "secret":
			continue
		}
		if fields == nil {
			fields = make(map[string]string)
		}
		fields[key] = vals[0]
	}

	h.upsert(w, r, SetRequest{
		Name:     q.Get("name"),
		ShowName: q.Get("show_name"),
		Using:    using,
		App:      q.Get("app"),
		Fields:   fields,
	})
}

func (h *Handler) upsert(w http.ResponseWriter, r *http.Request, req SetRequest) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		server.BadRequest(w, "device name is required", r.URL.Path)
		return
	}

	created, err := h.store.UpsertDevice(state.Device{
		Name:     name,
		ShowName: req.ShowName,
		Using:    req.Using,
		App:      req.App,
		Fields:   req.Fields,
	})
	if err != nil {
		h.logger.Error("failed to persist device", zap.String("device", name), zap.Error(err))
		server.InternalError(w, "failed to persist device", r.URL.Path)
		return
	}

	if created {
		h.logger.Info("device registered", zap.String("device", name))
	}
	h.bus.Publish(r.Context(), event.Event{
		Topic:     event.TopicDeviceUpdated,
		Source:    "device",
		Timestamp: time.Now(),
		Payload:   name,
	})

	writeJSON(w, http.StatusOK, OKResponse{Success: true, Created: created})
}

// handleRemove deletes one device record.
//
//	@Summary	Remove a device
//	@Tags		device
//	@Produce	json
//	@Security	BearerAuth
//	@Param		name	path		string	true	"Device name"
//	@Success	200		{object}	OKResponse
//	@Failure	401		{object}	server.Problem
//	@Router		/device/{name} [delete]
func (h *Handler) handleRemove(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := h.store.RemoveDevice(name); err != nil {
		h.logger.Error("failed to remove device", zap.String("device", name), zap.Error(err))
		server.InternalError(w, "failed to remove device", r.URL.Path)
		return
	}

	h.logger.Info("device removed", zap.String("device", name))
	h.bus.Publish(r.Context(), event.Event{
		Topic:     event.TopicDeviceUpdated,
		Source:    "device",
		Timestamp: time.Now(),
		Payload:   name,
	})
	writeJSON(w, http.StatusOK, OKResponse{Success: true})
}

// handleClear removes all device records.
//
//	@Summary	Clear all devices
//	@Tags		device
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	OKResponse
//	@Failure	401	{object}	server.Problem
//	@Router		/device [delete]
func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := h.store.ClearDevices(); err != nil {
		h.logger.Error("failed to clear devices", zap.Error(err))
		server.InternalError(w, "failed to clear devices", r.URL.Path)
		return
	}

	h.logger.Info("all devices cleared")
	h.bus.Publish(r.Context(), event.Event{
		Topic:     event.TopicDevicesCleared,
		Source:    "device",
		Timestamp: time.Now(),
	})
	writeJSON(w, http.StatusOK, OKResponse{Success: true})
}

// handlePrivate toggles private mode. Device records keep updating but are
// hidden from public queries.
//
//	@Summary	Toggle private mode
//	@Tags		device
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		PrivateRequest	true	"Private flag"
//	@Success	200		{object}	OKResponse
//	@Failure	400		{object}	server.Problem
//	@Router		/device/private [post]
func (h *Handler) handlePrivate(w http.ResponseWriter, r *http.Request) {
	var req PrivateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Private == nil {
		server.BadRequest(w, "body must be {\"private\": <bool>}", r.URL.Path)
		return
	}

	if err := h.store.SetPrivate(*req.Private); err != nil {
		h.logger.Error("failed to persist private mode", zap.Error(err))
		server.InternalError(w, "failed to persist private mode", r.URL.Path)
		return
	}

	h.logger.Info("private mode changed", zap.Bool("private", *req.Private))
	h.bus.Publish(r.Context(), event.Event{
		Topic:     event.TopicPrivateChanged,
		Source:    "device",
		Timestamp: time.Now(),
		Payload:   *req.Private,
	})
	writeJSON(w, http.StatusOK, OKResponse{Success: true})
}

var errInvalidBool = errors.New("invalid boolean")

// parseBool accepts the spellings device scripts actually send.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "", "0", "false", "no", "off":
		return false, nil
	case "1", "true", "yes", "on":
		return true, nil
	}
	return false, errInvalidBool
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
