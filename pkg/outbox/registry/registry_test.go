package registry

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"github.com/angelmondragon/marketplace-backend/pkg/outbox"
	"github.com/angelmondragon/marketplace-backend/pkg/outbox/payloads"
)

func TestEventRegistryResolveSuccess(t *testing.T) {
	reg := NewEventRegistry()

	taskID := uuid.New()
	minutes := 30
	event := models.OutboxEvent{
		EventType:     enums.EventDeliveryCompleted,
		AggregateType: enums.AggregateDeliveryTask,
		AggregateID:   taskID,
		Payload: mustEnvelope(t, mustMarshal(t, payloads.DeliveryCompleted{
			TaskID:     taskID,
			OrderID:    uuid.New(),
			ActualTime: &minutes,
		})),
	}

	resolved, err := reg.Resolve(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	payload, ok := resolved.Payload.(*payloads.DeliveryCompleted)
	if !ok {
		t.Fatalf("unexpected payload type %T", resolved.Payload)
	}
	if payload.TaskID != taskID || payload.ActualTime == nil || *payload.ActualTime != 30 {
		t.Fatalf("payload mismatch %+v", payload)
	}
	if resolved.Envelope.EventID == "" {
		t.Fatalf("envelope missing event id")
	}
	if resolved.Row.AggregateID != taskID {
		t.Fatalf("row not carried on resolved event")
	}
}

func TestEventRegistryResolveRejects(t *testing.T) {
	reg := NewEventRegistry()
	valid := mustEnvelope(t, []byte(`{"order_id":"`+uuid.NewString()+`"}`))

	cases := map[string]models.OutboxEvent{
		"unknown type": {
			EventType:     enums.OutboxEventType("coupon_issued"),
			AggregateType: enums.AggregateOrder,
			AggregateID:   uuid.New(),
			Payload:       valid,
		},
		"aggregate mismatch": {
			EventType:     enums.EventOrderPlaced,
			AggregateType: enums.AggregateSupportTicket,
			AggregateID:   uuid.New(),
			Payload:       valid,
		},
		"missing aggregate": {
			EventType:     enums.EventOrderPlaced,
			AggregateType: enums.AggregateOrder,
			Payload:       valid,
		},
		"broken envelope": {
			EventType:     enums.EventOrderPlaced,
			AggregateType: enums.AggregateOrder,
			AggregateID:   uuid.New(),
			Payload:       json.RawMessage(`{`),
		},
		"null data": {
			EventType:     enums.EventOrderPlaced,
			AggregateType: enums.AggregateOrder,
			AggregateID:   uuid.New(),
			Payload:       mustEnvelope(t, []byte(`null`)),
		},
	}

	for name, event := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := reg.Resolve(event)
			if err == nil {
				t.Fatalf("expected error")
			}
			var nonRetry NonRetryableError
			if !errors.As(err, &nonRetry) {
				t.Fatalf("expected non-retryable error, got %T", err)
			}
		})
	}
}

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}

func mustEnvelope(t *testing.T, data []byte) json.RawMessage {
	t.Helper()
	return mustMarshal(t, outbox.PayloadEnvelope{
		Version:    1,
		EventID:    uuid.NewString(),
		OccurredAt: time.Now().UTC(),
		Data:       data,
	})
}
