package testutil

import (
	"context"
	"sync"

	"github.com/erp/supplychain/internal/domain/shared"
	"github.com/google/uuid"
)

// RecordingPublisher is a synchronous shared.EventPublisher that keeps
// everything it is given.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

// NewRecordingPublisher creates an empty RecordingPublisher.
func NewRecordingPublisher() *RecordingPublisher {
	return &RecordingPublisher{}
}

// Publish records the events.
func (p *RecordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

// Types returns the recorded event types in publish order.
func (p *RecordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

// OfType returns the recorded events of one type.
func (p *RecordingPublisher) OfType(eventType string) []shared.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []shared.DomainEvent
	for _, e := range p.events {
		if e.EventType() == eventType {
			out = append(out, e)
		}
	}
	return out
}

// Reset forgets all recorded events.
func (p *RecordingPublisher) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}

// TestEvent is a bare domain event for bus and forwarder tests.
type TestEvent struct {
	shared.BaseDomainEvent
	Note string `json:"note"`
}

// NewTestEvent creates a TestEvent of the given type on a fresh stock item.
func NewTestEvent(eventType string) *TestEvent {
	return &TestEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "StockItem", uuid.New()),
		Note:            "recorded",
	}
}
