package events

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case event := <-ch:
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestBusFanOut(t *testing.T) {
	bus := NewBus()
	go bus.Run()

	first := bus.Subscribe()
	second := bus.Subscribe()

	want := Event{Type: ProductCreated, ProductID: uuid.New(), SKU: "BRK-16A"}
	bus.Publish(want)

	assert.Equal(t, want, receive(t, first))
	assert.Equal(t, want, receive(t, second))
}

func TestBusDropsForSlowSubscriber(t *testing.T) {
	bus := NewBus()
	go bus.Run()

	slow := bus.Subscribe()

	// Overrun the subscriber buffer; the publisher must never block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			bus.Publish(Event{Type: VariantCreated, ProductID: uuid.New()})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publisher blocked on a slow subscriber")
	}

	// The subscriber still holds a full buffer of the earliest events.
	require.NotEmpty(t, slow)
	assert.Equal(t, VariantCreated, receive(t, slow).Type)
}

func TestNilBusPublishIsNoOp(t *testing.T) {
	var bus *Bus
	assert.NotPanics(t, func() {
		bus.Publish(Event{Type: ProductCreated})
	})
}
