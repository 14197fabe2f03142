package event

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestBus_PublishSubscribe(t *testing.T) {
	bus := NewBus(zap.NewNop())

	var got []Event
	bus.Subscribe(TopicStatusUpdated, func(_ context.Context, e Event) {
		got = append(got, e)
	})

	bus.Publish(context.Background(), Event{
		Topic:     TopicStatusUpdated,
		Source:    "status",
		Timestamp: time.Now(),
		Payload:   1,
	})
	bus.Publish(context.Background(), Event{Topic: TopicDeviceUpdated, Source: "device"})

	if len(got) != 1 {
		t.Fatalf("handler called %d times, want 1", len(got))
	}
	if got[0].Payload != 1 {
		t.Errorf("payload = %v, want 1", got[0].Payload)
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus(zap.NewNop())

	calls := 0
	unsub := bus.Subscribe(TopicDeviceUpdated, func(_ context.Context, _ Event) {
		calls++
	})

	bus.Publish(context.Background(), Event{Topic: TopicDeviceUpdated})
	unsub()
	bus.Publish(context.Background(), Event{Topic: TopicDeviceUpdated})

	if calls != 1 {
		t.Errorf("handler called %d times after unsubscribe, want 1", calls)
	}
}

func TestBus_SubscribeAll(t *testing.T) {
	bus := NewBus(zap.NewNop())

	var topics []string
	bus.SubscribeAll(func(_ context.Context, e Event) {
		topics = append(topics, e.Topic)
	})

	bus.Publish(context.Background(), Event{Topic: TopicStatusUpdated})
	bus.Publish(context.Background(), Event{Topic: TopicPrivateChanged})

	if len(topics) != 2 {
		t.Fatalf("handler called %d times, want 2", len(topics))
	}
}

func TestBus_HandlerPanicRecovered(t *testing.T) {
	bus := NewBus(zap.NewNop())

	bus.Subscribe(TopicDevicesCleared, func(_ context.Context, _ Event) {
		panic("boom")
	})
	after := 0
	bus.Subscribe(TopicDevicesCleared, func(_ context.Context, _ Event) {
		after++
	})

	bus.Publish(context.Background(), Event{Topic: TopicDevicesCleared})

	if after != 1 {
		t.Errorf("handler after panicking one called %d times, want 1", after)
	}
}

func TestBus_PublishAsync(t *testing.T) {
	bus := NewBus(zap.NewNop())

	var wg sync.WaitGroup
	wg.Add(1)
	done := make(chan struct{})
	bus.Subscribe(TopicStatusUpdated, func(_ context.Context, _ Event) {
		wg.Done()
	})
	go func() {
		wg.Wait()
		close(done)
	}()

	bus.PublishAsync(context.Background(), Event{Topic: TopicStatusUpdated})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("async handler not invoked within 2s")
	}
}
