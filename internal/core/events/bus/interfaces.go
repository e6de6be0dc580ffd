package bus

import "time"

// EventBus is a synchronous, in-process pub/sub bus. Handlers subscribe by
// Event.Type() and run in the publisher's goroutine, in subscription order.
// Handler errors are joined and returned from Publish. All methods are safe
// for concurrent use.
type EventBus interface {
	Publish(event Event) error
	// PublishBatch publishes events in order and joins their errors.
	PublishBatch(events ...Event) error

	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe cancels sub. A nil subscription is ignored.
	Unsubscribe(sub Subscription) error

	GetMetrics() EventBusMetrics
}

// Event is an immutable message. Type is the routing key.
type Event interface {
	Type() string
	Source() string
	Timestamp() time.Time
	Data() any
}

type EventHandler func(event Event) error

type Subscription interface {
	ID() string
	EventType() string
	IsActive() bool
	// Cancel de-registers the handler. Repeated calls are safe.
	Cancel() error
}

type EventBusMetrics struct {
	Published         uint64
	DeliveredHandlers uint64
	Errors            uint64
	SubscribersActive uint64
}
