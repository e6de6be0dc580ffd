package bus

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrNilHandler = errors.New("event handler is nil")

type simpleEvent struct {
	typeStr string
	source  string
	ts      time.Time
	data    any
}

func (e simpleEvent) Type() string         { return e.typeStr }
func (e simpleEvent) Source() string       { return e.source }
func (e simpleEvent) Timestamp() time.Time { return e.ts }
func (e simpleEvent) Data() any            { return e.data }

// NewEvent creates a basic Event stamped with the current time.
func NewEvent(typ, src string, data any) Event {
	return simpleEvent{typeStr: typ, source: src, ts: time.Now(), data: data}
}

type subscription struct {
	id        string
	eventType string
	handler   EventHandler
	bus       *inMemoryBus
}

func (s *subscription) ID() string        { return s.id }
func (s *subscription) EventType() string { return s.eventType }

func (s *subscription) IsActive() bool {
	s.bus.mu.RLock()
	defer s.bus.mu.RUnlock()
	for _, other := range s.bus.handlers[s.eventType] {
		if other == s {
			return true
		}
	}
	return false
}

func (s *subscription) Cancel() error {
	s.bus.remove(s)
	return nil
}

type inMemoryBus struct {
	mu       sync.RWMutex
	handlers map[string][]*subscription
	metrics  EventBusMetrics
}

func New() EventBus {
	return &inMemoryBus{handlers: make(map[string][]*subscription)}
}

func (b *inMemoryBus) Publish(event Event) error {
	return b.deliver(event)
}

func (b *inMemoryBus) PublishBatch(events ...Event) error {
	var all error
	for _, e := range events {
		if err := b.Publish(e); err != nil {
			all = errors.Join(all, err)
		}
	}
	return all
}

func (b *inMemoryBus) Subscribe(eventType string, handler EventHandler) (Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	s := &subscription{id: uuid.NewString(), eventType: eventType, handler: handler, bus: b}
	b.mu.Lock()
	b.handlers[eventType] = append(b.handlers[eventType], s)
	b.mu.Unlock()
	return s, nil
}

func (b *inMemoryBus) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return nil
	}
	return sub.Cancel()
}

func (b *inMemoryBus) remove(s *subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.handlers[s.eventType]
	for i, other := range subs {
		if other == s {
			b.handlers[s.eventType] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

func (b *inMemoryBus) GetMetrics() EventBusMetrics {
	b.mu.RLock()
	defer b.mu.RUnlock()
	m := b.metrics
	for _, list := range b.handlers {
		m.SubscribersActive += uint64(len(list))
	}
	return m
}

func (b *inMemoryBus) deliver(event Event) error {
	b.mu.RLock()
	subs := append([]*subscription(nil), b.handlers[event.Type()]...)
	b.mu.RUnlock()

	var all error
	for _, s := range subs {
		if err := s.handler(event); err != nil {
			all = errors.Join(all, err)
		}
	}

	b.mu.Lock()
	b.metrics.Published++
	b.metrics.DeliveredHandlers += uint64(len(subs))
	if all != nil {
		b.metrics.Errors++
	}
	b.mu.Unlock()
	return all
}
