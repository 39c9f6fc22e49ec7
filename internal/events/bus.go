package events

import (
	"context"
	"errors"
	"sync"
)

// subscriptionBuffer is the per-subscription channel buffer. A subscriber
// that falls this far behind starts losing events; it never stalls the
// publisher or other subscribers.
const subscriptionBuffer = 64

// ErrBusClosed is returned by operations on a closed bus.
var ErrBusClosed = errors.New("event bus closed")

// Bus publishes events to all current subscribers of a topic. Publish is
// fire-and-forget: with zero subscribers the event is discarded.
type Bus interface {
	Publish(ctx context.Context, topic string, event *Event) error
	Subscribe(topic string) (*Subscription, error)
	Close() error
}

// Subscription is a live handle on a topic. Its lifetime is tied to a
// client connection; the transport layer must Cancel it on disconnect.
type Subscription struct {
	Topic string
	C     <-chan *Event

	cancel func()
	once   sync.Once
}

// Cancel detaches the subscription from its bus and releases its channel.
// Safe to call more than once.
func (s *Subscription) Cancel() {
	s.once.Do(s.cancel)
}

// MemoryBus is the single-process Bus implementation: a concurrency-safe
// mapping from topic to the set of live subscriptions.
type MemoryBus struct {
	mu     sync.RWMutex
	subs   map[string]map[*Subscription]chan *Event
	closed bool
}

// NewMemoryBus creates a new in-memory event bus.
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{subs: make(map[string]map[*Subscription]chan *Event)}
}

// Publish delivers the event to every current subscriber of the topic.
// Sends are non-blocking: a subscriber with a full buffer misses the event
// rather than delaying anyone else.
func (b *MemoryBus) Publish(_ context.Context, topic string, event *Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBusClosed
	}

	for _, ch := range b.subs[topic] {
		select {
		case ch <- event:
		default:
			// Subscriber too slow; drop for this subscriber only.
		}
	}
	return nil
}

// Subscribe registers a new subscription on a topic.
func (b *MemoryBus) Subscribe(topic string) (*Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrBusClosed
	}

	ch := make(chan *Event, subscriptionBuffer)
	sub := &Subscription{Topic: topic, C: ch}
	sub.cancel = func() { b.remove(topic, sub) }

	if b.subs[topic] == nil {
		b.subs[topic] = make(map[*Subscription]chan *Event)
	}
	b.subs[topic][sub] = ch
	return sub, nil
}

func (b *MemoryBus) remove(topic string, sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if subs, ok := b.subs[topic]; ok {
		if ch, exists := subs[sub]; exists {
			delete(subs, sub)
			close(ch)
			if len(subs) == 0 {
				delete(b.subs, topic)
			}
		}
	}
}

// Close cancels every subscription and rejects further use of the bus.
func (b *MemoryBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	for _, subs := range b.subs {
		for _, ch := range subs {
			close(ch)
		}
	}
	b.subs = make(map[string]map[*Subscription]chan *Event)
	return nil
}
