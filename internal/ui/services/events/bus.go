// Package events is the synchronous bus UI services use to announce state
// changes to the model and to each other.
package events

import (
	"fmt"
	"sync"
)

// Handler receives a published event
type Handler func(event any)

// EventBus is what services publish to
type EventBus interface {
	Publish(event any)
	Subscribe(eventType string, handler Handler)
}

// Bus delivers events on the publisher's goroutine, in subscription order,
// so observers see a mutation before the mutating call returns.
type Bus struct {
	mu        sync.RWMutex
	listeners map[string][]Handler
}

func NewBus() *Bus {
	return &Bus{listeners: make(map[string][]Handler)}
}

// Subscribe registers handler for events whose NameOf is eventType
func (b *Bus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[eventType] = append(b.listeners[eventType], handler)
}

// Publish runs every handler subscribed to the event's type. Handlers added
// during delivery see the next event, not this one.
func (b *Bus) Publish(event any) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.listeners[NameOf(event)]...)
	b.mu.RUnlock()

	for _, h := range handlers {
		h(event)
	}
}

// NameOf is the subscription key of event
func NameOf(event any) string {
	return fmt.Sprintf("%T", event)
}

// NullBus drops everything. Services fall back to it when given no bus.
type NullBus struct{}

func (NullBus) Publish(any) {}
func (NullBus) Subscribe(string, Handler) {}
