package stream

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/presence-project/presence/internal/event"
	"github.com/presence-project/presence/internal/status"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*Handler, *event.Bus) {
	t.Helper()

	bus := event.NewBus(zap.NewNop())
	current := status.QueryResponse{
		Success: true,
		Status:  status.Info{ID: 0, Name: "alive"},
	}
	h := NewHandler(bus, func() status.QueryResponse { return current }, zap.NewNop())
	return h, bus
}

func TestSSERejectsBadLastEventID(t *testing.T) {
	h, _ := newTestHandler(t)
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
	req.Header.Set("Last-Event-ID", "not-a-number")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("Content-Type = %q, want problem+json", ct)
	}
}

// readSSEData reads lines until the next `data:` line and returns its payload.
func readSSEData(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("read stream: %v", err)
		}
		if strings.HasPrefix(line, "data: ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "data: "))
		}
	}
}

func TestSSEStreamsSnapshotAndUpdates(t *testing.T) {
	h, bus := newTestHandler(t)
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/v1/events")
	if err != nil {
		t.Fatalf("GET /api/v1/events: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Content-Type = %q, want text/event-stream", ct)
	}

	reader := bufio.NewReader(resp.Body)

	var initial status.QueryResponse
	if err := json.Unmarshal([]byte(readSSEData(t, reader)), &initial); err != nil {
		t.Fatalf("unmarshal initial frame: %v", err)
	}
	if !initial.Success || initial.Status.Name != "alive" {
		t.Errorf("initial frame = %+v", initial)
	}

	// Wait for the connection to register before publishing.
	deadline := time.Now().Add(2 * time.Second)
	for h.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	bus.Publish(context.Background(), event.Event{
		Topic:     event.TopicStatusUpdated,
		Timestamp: time.Now(),
	})

	var update status.QueryResponse
	if err := json.Unmarshal([]byte(readSSEData(t, reader)), &update); err != nil {
		t.Fatalf("unmarshal update frame: %v", err)
	}
	if !update.Success {
		t.Errorf("update frame = %+v", update)
	}
}

func TestSSEEmitsHeartbeatWhenIdle(t *testing.T) {
	h, _ := newTestHandler(t)
	h.heartbeatInterval = 50 * time.Millisecond
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/v1/events")
	if err != nil {
		t.Fatalf("GET /api/v1/events: %v", err)
	}
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	readSSEData(t, reader) // initial update frame

	// With no state changes, the next frame must be a named heartbeat event
	// carrying its own id. A bare comment line would be invisible to
	// EventSource listeners.
	var id string
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("read stream: %v", err)
		}
		if strings.HasPrefix(line, ":") {
			t.Fatalf("got comment line %q, want a named heartbeat event", strings.TrimSpace(line))
		}
		if strings.HasPrefix(line, "id: ") {
			id = strings.TrimSpace(strings.TrimPrefix(line, "id: "))
			continue
		}
		if strings.TrimSpace(line) == "event: heartbeat" {
			break
		}
	}

	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		t.Fatalf("heartbeat id = %q, want an integer", id)
	}
	if n == 0 {
		t.Error("heartbeat id should advance past 0")
	}
}

func TestWebSocketStreamsSnapshotAndUpdates(t *testing.T) {
	h, bus := newTestHandler(t)
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/events/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	var initial Message
	if err := wsjson.Read(ctx, conn, &initial); err != nil {
		t.Fatalf("read initial message: %v", err)
	}
	if initial.Type != MessageUpdate {
		t.Errorf("initial type = %q, want %q", initial.Type, MessageUpdate)
	}

	bus.Publish(context.Background(), event.Event{
		Topic:     event.TopicDeviceUpdated,
		Timestamp: time.Now(),
	})

	var update Message
	if err := wsjson.Read(ctx, conn, &update); err != nil {
		t.Fatalf("read update message: %v", err)
	}
	if update.Type != MessageUpdate {
		t.Errorf("update type = %q, want %q", update.Type, MessageUpdate)
	}
	if update.ID == 0 {
		t.Error("update id should advance past 0")
	}
}

func TestHubBroadcastDropsWhenBufferFull(t *testing.T) {
	hub := NewHub(zap.NewNop())
	c := &Client{connID: "test", send: make(chan Message, 1), logger: zap.NewNop()}
	hub.Register(c)

	hub.Broadcast(Message{Type: MessageUpdate, ID: 1})
	hub.Broadcast(Message{Type: MessageUpdate, ID: 2}) // dropped, buffer full

	if got := len(c.send); got != 1 {
		t.Fatalf("buffered messages = %d, want 1", got)
	}
	msg := <-c.send
	if msg.ID != 1 {
		t.Errorf("delivered id = %d, want 1", msg.ID)
	}

	hub.Unregister(c)
	if hub.ClientCount() != 0 {
		t.Error("hub should be empty after unregister")
	}
}
