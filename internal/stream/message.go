// Package stream pushes state changes to browsers over SSE and WebSocket.
package stream

import "time"

// MessageType discriminates WebSocket messages.
type MessageType string

const (
	// MessageUpdate carries a full status snapshot after any state change.
	MessageUpdate MessageType = "update"
)

// Message is the envelope for all WebSocket messages.
type Message struct {
	Type      MessageType `json:"type"`
	ID        uint64      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Data      any         `json:"data"`
}
