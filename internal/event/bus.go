// Package event provides the in-process pub/sub bus the engine uses to
// push reveal and settlement events toward the presentation layer.
// Events are advisory: a headless caller simply never subscribes.
package event

import "sync"

// Handler receives a published payload.
type Handler func(payload any)

// Bus is a topic-keyed fan-out bus.
type Bus struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[string]map[int]Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[string]map[int]Handler),
	}
}

// Subscribe registers a handler for a topic and returns a cancel func
// that removes it. Connection-scoped subscribers must cancel on close
// or their handlers keep firing for the life of the bus.
func (b *Bus) Subscribe(topic string, handler Handler) (cancel func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.handlers[topic] == nil {
		b.handlers[topic] = make(map[int]Handler)
	}
	id := b.nextID
	b.nextID++
	b.handlers[topic][id] = handler

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.handlers[topic], id)
	}
}

// Publish delivers the payload to every subscriber of the topic. Each
// handler runs on its own goroutine so a slow presentation consumer
// never stalls settlement.
func (b *Bus) Publish(topic string, payload any) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, h := range b.handlers[topic] {
		go h(payload)
	}
}
