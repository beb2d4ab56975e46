package core

import (
	"sync"
)

// Handler is a subscriber callback. A returned error propagates to the
// publisher.
type Handler func(Event) error

// Bus is an append-only, topic-addressed log of invocation outcomes with
// synchronous subscribers. A Bus is constructed explicitly and injected into
// every runner that publishes to it; its lifetime is that of the owning
// process or session. All methods are safe for concurrent use.
type Bus struct {
	mu          sync.RWMutex
	log         []Event
	subscribers map[string][]Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subscribers: make(map[string][]Handler)}
}

// Subscribe registers h for topic. Handlers run in registration order.
func (b *Bus) Subscribe(topic string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[topic] = append(b.subscribers[topic], h)
}

// Publish stamps message, appends it to the log and then invokes every
// handler subscribed to topic synchronously. The first handler error stops
// delivery and is returned; the entry stays in the log.
func (b *Bus) Publish(topic string, message map[string]any) (Event, error) {
	ev := NewEvent(topic, message)

	b.mu.Lock()
	b.log = append(b.log, ev)
	handlers := make([]Handler, len(b.subscribers[topic]))
	copy(handlers, b.subscribers[topic])
	b.mu.Unlock()

	// Handlers run outside the lock so they may publish or query.
	for _, h := range handlers {
		if err := h(ev); err != nil {
			return ev, err
		}
	}
	return ev, nil
}

// Messages returns the events published to topic in publish order.
func (b *Bus) Messages(topic string) []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []Event
	for _, ev := range b.log {
		if ev.Topic == topic {
			out = append(out, ev)
		}
	}
	return out
}

// All returns a copy of the full log in publish order.
func (b *Bus) All() []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Event, len(b.log))
	copy(out, b.log)
	return out
}

// Len returns the number of logged events.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.log)
}
