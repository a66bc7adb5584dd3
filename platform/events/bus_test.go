package events

import (
	"context"
	"errors"
	"testing"
	"time"
)

type testEvent struct {
	BaseEvent
	name string
}

func (e testEvent) EventName() string { return e.name }

func TestPublishSyncRunsAllHandlers(t *testing.T) {
	bus := NewInMemoryBus(nil)

	calls := 0
	bus.Subscribe("lead.scored", HandlerFunc(func(ctx context.Context, event Event) error {
		calls++
		return nil
	}))
	bus.Subscribe("lead.scored", HandlerFunc(func(ctx context.Context, event Event) error {
		calls++
		return nil
	}))

	if err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), "lead.scored"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 handler calls, got %d", calls)
	}
}

func TestPublishSyncAggregatesErrors(t *testing.T) {
	bus := NewInMemoryBus(nil)

	bus.Subscribe("lead.scored", HandlerFunc(func(ctx context.Context, event Event) error {
		return errors.New("first")
	}))
	bus.Subscribe("lead.scored", HandlerFunc(func(ctx context.Context, event Event) error {
		return errors.New("second")
	}))

	err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), "lead.scored"})
	if err == nil {
		t.Fatal("expected aggregated error")
	}
}

func TestPublishIsAsynchronous(t *testing.T) {
	bus := NewInMemoryBus(nil)

	done := make(chan struct{})
	bus.Subscribe("lead.scored", HandlerFunc(func(ctx context.Context, event Event) error {
		close(done)
		return nil
	}))

	bus.Publish(context.Background(), testEvent{NewBaseEvent(), "lead.scored"})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler was not invoked")
	}
}

func TestPublishUnknownEventIsNoop(t *testing.T) {
	bus := NewInMemoryBus(nil)
	bus.Publish(context.Background(), testEvent{NewBaseEvent(), "never.subscribed"})
	if err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), "never.subscribed"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
