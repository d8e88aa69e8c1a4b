package events

import (
	"github.com/google/uuid"
)

type Type string

const (
	ProductCreated Type = "product_created"
	ProductUpdated Type = "product_updated"
	VariantCreated Type = "variant_created"
	VariantUpdated Type = "variant_updated"
)

// Event signals a catalog change. ProductID is always the parent product,
// also for variant events, so subscribers can reprocess the whole item.
type Event struct {
	Type      Type      `json:"type"`
	ProductID uuid.UUID `json:"product_id"`
	SKU       string    `json:"sku,omitempty"`
	Name      string    `json:"name,omitempty"`
}

// Bus is a small in-process fan-out of catalog events. Subscribers get a
// buffered channel; events are dropped for subscribers that fall behind
// rather than stalling the publisher.
type Bus struct {
	subscribers []chan Event
	publish     chan Event
	subscribe   chan chan Event
}

func NewBus() *Bus {
	return &Bus{
		publish:   make(chan Event, 64),
		subscribe: make(chan chan Event),
	}
}

func (b *Bus) Run() {
	for {
		select {
		case ch := <-b.subscribe:
			b.subscribers = append(b.subscribers, ch)

		case event := <-b.publish:
			for _, ch := range b.subscribers {
				select {
				case ch <- event:
				default: // slow subscriber, drop
				}
			}
		}
	}
}

// Subscribe registers a new subscriber. Must be called after Run is started.
func (b *Bus) Subscribe() <-chan Event {
	ch := make(chan Event, 64)
	b.subscribe <- ch
	return ch
}

// Publish is safe on a nil bus so callers without an event surface (the batch
// CLI) can skip the wiring.
func (b *Bus) Publish(event Event) {
	if b == nil {
		return
	}
	b.publish <- event
}
