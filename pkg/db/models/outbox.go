package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/pkg/enums"
)

// OutboxEvent is written in the same transaction as the change it describes.
type OutboxEvent struct {
	ID            uuid.UUID                 `gorm:"column:id;type:uuid;primaryKey"`
	EventType     enums.OutboxEventType     `gorm:"column:event_type;not null"`
	AggregateType enums.OutboxAggregateType `gorm:"column:aggregate_type;not null"`
	AggregateID   uuid.UUID                 `gorm:"column:aggregate_id;type:uuid;not null"`
	Payload       json.RawMessage           `gorm:"column:payload;type:jsonb;not null"`
	CreatedAt     time.Time                 `gorm:"column:created_at;autoCreateTime"`
	PublishedAt   *time.Time                `gorm:"column:published_at"`
	AttemptCount  int                       `gorm:"column:attempt_count;not null;default:0"`
	LastError     *string                   `gorm:"column:last_error"`
	NextAttemptAt *time.Time                `gorm:"column:next_attempt_at"`
}

func (m *OutboxEvent) BeforeCreate(*gorm.DB) error { assignID(&m.ID); return nil }

// OutboxDLQ captures events that stopped being retried.
type OutboxDLQ struct {
	ID            uuid.UUID                 `gorm:"column:id;type:uuid;primaryKey"`
	EventID       uuid.UUID                 `gorm:"column:event_id;type:uuid;not null"`
	EventType     enums.OutboxEventType     `gorm:"column:event_type;not null"`
	AggregateType enums.OutboxAggregateType `gorm:"column:aggregate_type;not null"`
	AggregateID   uuid.UUID                 `gorm:"column:aggregate_id;type:uuid;not null"`
	Payload       json.RawMessage           `gorm:"column:payload;type:jsonb;not null"`
	ErrorReason   enums.DLQReason           `gorm:"column:error_reason;not null"`
	ErrorMessage  *string                   `gorm:"column:error_message"`
	AttemptCount  int                       `gorm:"column:attempt_count;not null;default:0"`
	FailedAt      time.Time                 `gorm:"column:failed_at;autoCreateTime"`
}

func (OutboxDLQ) TableName() string { return "outbox_dlq" }

func (m *OutboxDLQ) BeforeCreate(*gorm.DB) error { assignID(&m.ID); return nil }
