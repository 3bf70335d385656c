// Package eventbus is the in-process publish/subscribe channel between the request path
// and background consumers (audio archiving).
//
//   - Buffered channel per subscriber (buffer=100).
//   - Publish never blocks: the event is dropped when a subscriber's buffer is full.
//   - Subscribe returns a read-only channel; the caller owns the consumption loop.
//   - Close ends every subscription; later publishes are ignored.
//   - No persistence.
package eventbus

import "sync"

// Event is a single published message.
type Event struct {
	Topic   string
	Payload any
}

// Publisher is the write side, consumed by services that emit events.
type Publisher interface {
	Publish(topic string, payload any)
}

// EventBus is the interface for publishing and subscribing to topics.
type EventBus interface {
	Publisher
	Subscribe(topic string) <-chan Event
}

const defaultBufferSize = 100

// Bus is the in-memory implementation of EventBus.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string][]chan Event
	closed      bool
}

// New returns a new in-memory Bus.
func New() *Bus {
	return &Bus{
		subscribers: make(map[string][]chan Event),
	}
}

// Subscribe registers a new subscriber for topic and returns a read-only channel.
// On a closed bus the returned channel is already closed.
func (b *Bus) Subscribe(topic string) <-chan Event {
	ch := make(chan Event, defaultBufferSize)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	b.subscribers[topic] = append(b.subscribers[topic], ch)
	return ch
}

// Publish sends an Event to all subscribers of topic without blocking.
func (b *Bus) Publish(topic string, payload any) {
	evt := Event{Topic: topic, Payload: payload}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, ch := range b.subscribers[topic] {
		select {
		case ch <- evt:
		default:
			// buffer full, drop
		}
	}
}

// Close closes every subscriber channel so consumption loops can exit. Idempotent.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for topic, subs := range b.subscribers {
		for _, ch := range subs {
			close(ch)
		}
		delete(b.subscribers, topic)
	}
}
