// Package registry maps outbox rows to their typed payloads.
package registry

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"github.com/angelmondragon/marketplace-backend/pkg/outbox"
	"github.com/angelmondragon/marketplace-backend/pkg/outbox/payloads"
)

// EventDescriptor links an event type to its aggregate and payload schema.
type EventDescriptor struct {
	EventType      enums.OutboxEventType
	AggregateType  enums.OutboxAggregateType
	PayloadFactory func() any
}

// ResolvedEvent is the result of decoding an outbox row.
type ResolvedEvent struct {
	Row        models.OutboxEvent
	Descriptor EventDescriptor
	Envelope   outbox.PayloadEnvelope
	Payload    any
}

// NonRetryableError signals the publisher should stop retrying a row.
type NonRetryableError struct {
	Err error
}

func (e NonRetryableError) Error() string {
	if e.Err == nil {
		return "non-retryable error"
	}
	return e.Err.Error()
}

func (e NonRetryableError) Unwrap() error {
	return e.Err
}

func NewNonRetryableError(err error) NonRetryableError {
	return NonRetryableError{Err: err}
}

type EventRegistry struct {
	entries map[enums.OutboxEventType]EventDescriptor
}

// NewEventRegistry knows every event the marketplace emits.
func NewEventRegistry() *EventRegistry {
	reg := &EventRegistry{entries: make(map[enums.OutboxEventType]EventDescriptor)}
	for _, desc := range []EventDescriptor{
		{
			EventType:      enums.EventOrderPlaced,
			AggregateType:  enums.AggregateOrder,
			PayloadFactory: func() any { return &payloads.OrderPlaced{} },
		},
		{
			EventType:      enums.EventOrderStatusChanged,
			AggregateType:  enums.AggregateOrder,
			PayloadFactory: func() any { return &payloads.OrderStatusChanged{} },
		},
		{
			EventType:      enums.EventDeliveryCompleted,
			AggregateType:  enums.AggregateDeliveryTask,
			PayloadFactory: func() any { return &payloads.DeliveryCompleted{} },
		},
		{
			EventType:      enums.EventTicketReplied,
			AggregateType:  enums.AggregateSupportTicket,
			PayloadFactory: func() any { return &payloads.TicketReplied{} },
		},
	} {
		reg.entries[desc.EventType] = desc
	}
	return reg
}

// Resolve validates the row and decodes its typed payload. Every failure is
// non-retryable because the stored bytes will not change.
func (r *EventRegistry) Resolve(event models.OutboxEvent) (*ResolvedEvent, error) {
	desc, ok := r.entries[event.EventType]
	if !ok {
		return nil, NewNonRetryableError(fmt.Errorf("unsupported event type %s", event.EventType))
	}
	if desc.AggregateType != event.AggregateType {
		return nil, NewNonRetryableError(fmt.Errorf("aggregate mismatch: expected %s got %s", desc.AggregateType, event.AggregateType))
	}
	if event.AggregateID == uuid.Nil {
		return nil, NewNonRetryableError(fmt.Errorf("missing aggregate_id"))
	}

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(event.Payload, &envelope); err != nil {
		return nil, NewNonRetryableError(fmt.Errorf("decode envelope: %w", err))
	}

	trimmed := bytes.TrimSpace(envelope.Data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, NewNonRetryableError(fmt.Errorf("payload missing for %s", event.EventType))
	}

	payload := desc.PayloadFactory()
	if err := json.Unmarshal(envelope.Data, payload); err != nil {
		return nil, NewNonRetryableError(fmt.Errorf("decode %s payload: %w", event.EventType, err))
	}

	return &ResolvedEvent{
		Row:        event,
		Descriptor: desc,
		Envelope:   envelope,
		Payload:    payload,
	}, nil
}
