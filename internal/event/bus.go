// Package event provides the in-memory bus that fans state changes out to
// the SSE and WebSocket streams.
package event

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Topics published by the status and device handlers.
const (
	TopicStatusUpdated  = "status.updated"
	TopicDeviceUpdated  = "device.updated"
	TopicDevicesCleared = "devices.cleared"
	TopicPrivateChanged = "private.changed"
)

// topicAll subscribes a handler to every topic. Internal key; callers use
// SubscribeAll.
const topicAll = "*"

// Event is a typed message on the bus.
type Event struct {
	Topic     string
	Source    string // component that emitted the event
	Timestamp time.Time
	Payload   any
}

// Handler processes events from the bus.
type Handler func(ctx context.Context, event Event)

// Bus is an in-memory event bus. Publish runs handlers synchronously in the
// caller's goroutine; PublishAsync runs each in its own goroutine. A
// panicking handler is recovered and logged, never taking the caller down.
type Bus struct {
	mu     sync.RWMutex
	subs   map[string][]*subscription
	nextID uint64
	logger *zap.Logger
}

type subscription struct {
	id      uint64
	handler Handler
}

// NewBus creates a new in-memory event bus.
func NewBus(logger *zap.Logger) *Bus {
	return &Bus{
		subs:   make(map[string][]*subscription),
		logger: logger,
	}
}

// Subscribe registers a handler for one topic. The returned function removes
// the subscription; calling it more than once is harmless.
func (b *Bus) Subscribe(topic string, handler Handler) (unsubscribe func()) {
	return b.add(topic, handler)
}

// SubscribeAll registers a handler for every topic.
func (b *Bus) SubscribeAll(handler Handler) (unsubscribe func()) {
	return b.add(topicAll, handler)
}

func (b *Bus) add(topic string, handler Handler) func() {
	b.mu.Lock()
	b.nextID++
	sub := &subscription{id: b.nextID, handler: handler}
	b.subs[topic] = append(b.subs[topic], sub)
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		list := b.subs[topic]
		for i, s := range list {
			if s.id == sub.id {
				b.subs[topic] = append(list[:i], list[i+1:]...)
				return
			}
		}
	}
}

// Publish dispatches an event synchronously to all matching handlers.
func (b *Bus) Publish(ctx context.Context, event Event) {
	for _, s := range b.matching(event.Topic) {
		b.call(ctx, s.handler, event)
	}
}

// PublishAsync dispatches an event with one goroutine per handler.
func (b *Bus) PublishAsync(ctx context.Context, event Event) {
	for _, s := range b.matching(event.Topic) {
		go b.call(ctx, s.handler, event)
	}
}

// matching snapshots the handlers for a topic so Publish never holds the
// lock while handlers run.
func (b *Bus) matching(topic string) []*subscription {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]*subscription, 0, len(b.subs[topic])+len(b.subs[topicAll]))
	out = append(out, b.subs[topic]...)
	out = append(out, b.subs[topicAll]...)
	return out
}

func (b *Bus) call(ctx context.Context, handler Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				zap.String("topic", event.Topic),
				zap.String("source", event.Source),
				zap.Any("panic", r),
			)
		}
	}()
	handler(ctx, event)
}
