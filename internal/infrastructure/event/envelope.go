package event

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/erp/supplychain/internal/domain/shared"
	"github.com/google/uuid"
)

// Envelope is the wire form of a domain event leaving the process. Payload
// holds the event's own JSON encoding.
type Envelope struct {
	EventID       uuid.UUID       `json:"event_id"`
	EventType     string          `json:"event_type"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   uuid.UUID       `json:"aggregate_id"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
}

// Encode wraps e in an Envelope and marshals it
func Encode(e shared.DomainEvent) ([]byte, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", e.EventType(), err)
	}
	return json.Marshal(Envelope{
		EventID:       e.EventID(),
		EventType:     e.EventType(),
		AggregateType: e.AggregateType(),
		AggregateID:   e.AggregateID(),
		OccurredAt:    e.OccurredAt().UTC(),
		Payload:       payload,
	})
}

// Decode parses an envelope without interpreting its payload
func Decode(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("unmarshal event envelope: %w", err)
	}
	if env.EventType == "" {
		return Envelope{}, fmt.Errorf("event envelope has no event_type")
	}
	return env, nil
}
