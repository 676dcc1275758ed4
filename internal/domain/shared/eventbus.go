package shared

import "context"

// EventHandler reacts to published events. An empty EventTypes subscribes
// to everything, which is how the metrics and Kafka forwarder listen.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	EventTypes() []string
}

// EventPublisher is what services depend on. Publishing happens after commit
// and a failure never rolls back the transition that produced the event.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventBus is the process-wide publisher with subscription and lifecycle
type EventBus interface {
	EventPublisher
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
