package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/presence-project/presence/internal/event"
	"github.com/presence-project/presence/internal/server"
	"github.com/presence-project/presence/internal/status"
	"go.uber.org/zap"
)

// defaultHeartbeatInterval is how often an idle SSE connection emits a
// heartbeat event to keep intermediaries from timing it out.
const defaultHeartbeatInterval = 30 * time.Second

// Handler provides the SSE and WebSocket push endpoints. Both carry the same
// payload as GET /api/v1/status/query, re-sent after every state change.
type Handler struct {
	hub    *Hub
	source func() status.QueryResponse
	logger *zap.Logger

	heartbeatInterval time.Duration
	eventID           atomic.Uint64

	mu    sync.Mutex
	conns map[string]chan struct{} // sse conn id -> change signal
}

// NewHandler creates a stream Handler and subscribes it to state changes.
func NewHandler(bus *event.Bus, source func() status.QueryResponse, logger *zap.Logger) *Handler {
	h := &Handler{
		hub:               NewHub(logger),
		source:            source,
		logger:            logger,
		heartbeatInterval: defaultHeartbeatInterval,
		conns:             make(map[string]chan struct{}),
	}
	// Every topic feeds the same full-snapshot push.
	bus.SubscribeAll(h.onStateChange)
	return h
}

// RegisterRoutes registers stream routes on the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/events", h.handleSSE)
	mux.HandleFunc("GET /api/v1/events/ws", h.handleWS)
}

// ClientCount returns the number of connected push clients (SSE + WebSocket).
func (h *Handler) ClientCount() int {
	h.mu.Lock()
	sse := len(h.conns)
	h.mu.Unlock()
	return sse + h.hub.ClientCount()
}

// onStateChange signals every SSE connection and broadcasts a fresh snapshot
// to the WebSocket hub.
func (h *Handler) onStateChange(_ context.Context, _ event.Event) {
	id := h.eventID.Add(1)

	h.mu.Lock()
	for _, notify := range h.conns {
		select {
		case notify <- struct{}{}:
		default:
			// A signal is already pending; the next frame carries the
			// latest snapshot anyway.
		}
	}
	h.mu.Unlock()

	h.hub.Broadcast(Message{
		Type:      MessageUpdate,
		ID:        id,
		Timestamp: time.Now().UTC(),
		Data:      h.source(),
	})
}

// handleSSE streams status updates as Server-Sent Events.
//
//	@Summary		Status event stream
//	@Description	Server-Sent Events stream. Emits an `update` event with the full status snapshot on connect and after every change, plus a `heartbeat` event every 30s when idle.
//	@Tags			stream
//	@Produce		text/event-stream
//	@Param			Last-Event-ID	header	string	false	"Last event id seen before reconnect"
//	@Success		200	{string}	string	"event stream"
//	@Failure		400	{object}	server.Problem
//	@Router			/events [get]
func (h *Handler) handleSSE(w http.ResponseWriter, r *http.Request) {
	// Browsers send Last-Event-ID on automatic reconnect. We only validate
	// it; the first frame always carries the current snapshot, so there is
	// no replay to do.
	if last := r.Header.Get("Last-Event-ID"); last != "" {
		if _, err := strconv.ParseUint(last, 10, 64); err != nil {
			server.BadRequest(w, "Last-Event-ID must be an integer", r.URL.Path)
			return
		}
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		server.InternalError(w, "streaming not supported", r.URL.Path)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	// Disable proxy buffering, or events sit in nginx until the buffer fills.
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	connID := uuid.NewString()
	notify := make(chan struct{}, 1)

	h.mu.Lock()
	h.conns[connID] = notify
	h.mu.Unlock()
	h.logger.Debug("sse client connected", zap.String("conn_id", connID))

	defer func() {
		h.mu.Lock()
		delete(h.conns, connID)
		h.mu.Unlock()
		h.logger.Debug("sse client disconnected", zap.String("conn_id", connID))
	}()

	// Initial snapshot so the page renders without a separate query.
	if err := h.writeFrame(w, flusher); err != nil {
		return
	}

	heartbeat := time.NewTicker(h.heartbeatInterval)
	defer heartbeat.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-notify:
			if err := h.writeFrame(w, flusher); err != nil {
				return
			}
		case <-heartbeat.C:
			// A named event, not a comment: API clients listen for it to
			// detect a dead connection.
			if _, err := fmt.Fprintf(w, "id: %d\nevent: heartbeat\ndata:\n\n", h.eventID.Add(1)); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// writeFrame emits one SSE update event carrying the current snapshot.
func (h *Handler) writeFrame(w http.ResponseWriter, flusher http.Flusher) error {
	payload, err := json.Marshal(h.source())
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "id: %d\nevent: update\ndata: %s\n\n", h.eventID.Load(), payload); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}

// handleWS upgrades the connection to WebSocket and streams status updates.
//
//	@Summary		Status WebSocket stream
//	@Description	WebSocket alternative to the SSE stream for clients behind SSE-hostile proxies.
//	@Tags			stream
//	@Success		101	{string}	string	"switching protocols"
//	@Router			/events/ws [get]
func (h *Handler) handleWS(w http.ResponseWriter, r *http.Request) {
	// The stream is public, same as the SSE endpoint and /status/query.
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.logger.Error("websocket accept failed", zap.Error(err))
		return
	}

	client := &Client{
		conn:   conn,
		connID: uuid.NewString(),
		send:   make(chan Message, 16),
		logger: h.logger,
	}

	h.hub.Register(client)

	// Initial snapshot, same as the first SSE frame.
	client.send <- Message{
		Type:      MessageUpdate,
		ID:        h.eventID.Load(),
		Timestamp: time.Now().UTC(),
		Data:      h.source(),
	}

	// Run read and write pumps. When either exits, clean up.
	ctx := r.Context()
	done := make(chan struct{})
	go func() {
		client.writePump(ctx)
		close(done)
	}()

	// readPump blocks until client disconnects.
	client.readPump(ctx)

	// Client disconnected -- stop write pump and unregister.
	h.hub.Unregister(client)
	conn.Close(websocket.StatusNormalClosure, "")
	<-done
}
