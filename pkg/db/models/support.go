package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/pkg/enums"
)

type SupportTicket struct {
	ID           uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	TicketNumber string               `gorm:"column:ticket_number;not null;uniqueIndex"`
	CustomerID   uuid.UUID            `gorm:"column:customer_id;type:uuid;not null"`
	OrderID      *uuid.UUID           `gorm:"column:order_id;type:uuid"`
	Subject      string               `gorm:"column:subject;not null"`
	Description  string               `gorm:"column:description;not null"`
	Category     enums.TicketCategory `gorm:"column:category;not null"`
	Priority     enums.TicketPriority `gorm:"column:priority;not null"`
	Status       enums.TicketStatus   `gorm:"column:status;not null"`
	AssignedTo   *uuid.UUID           `gorm:"column:assigned_to;type:uuid"`
	ResolvedAt   *time.Time           `gorm:"column:resolved_at"`
	CreatedAt    time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time            `gorm:"column:updated_at;autoUpdateTime"`

	Replies []TicketReply `gorm:"foreignKey:TicketID;references:ID"`
}

func (m *SupportTicket) BeforeCreate(*gorm.DB) error { assignID(&m.ID); return nil }

type TicketReply struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	TicketID    uuid.UUID        `gorm:"column:ticket_id;type:uuid;not null"`
	AuthorType  enums.AuthorType `gorm:"column:author_type;not null"`
	AuthorID    uuid.UUID        `gorm:"column:author_id;type:uuid;not null"`
	Message     string           `gorm:"column:message;not null"`
	Attachments []string         `gorm:"column:attachments;type:jsonb;serializer:json"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
}

func (m *TicketReply) BeforeCreate(*gorm.DB) error { assignID(&m.ID); return nil }

// Notification is a feed entry for one recipient.
type Notification struct {
	ID            uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	RecipientType enums.Role             `gorm:"column:recipient_type;not null"`
	RecipientID   uuid.UUID              `gorm:"column:recipient_id;type:uuid;not null"`
	Type          enums.NotificationType `gorm:"column:type;not null"`
	Title         string                 `gorm:"column:title;not null"`
	Message       string                 `gorm:"column:message;not null"`
	Data          map[string]any         `gorm:"column:data;type:jsonb;serializer:json"`
	ReadAt        *time.Time             `gorm:"column:read_at"`
	CreatedAt     time.Time              `gorm:"column:created_at;autoCreateTime"`
}

func (m *Notification) BeforeCreate(*gorm.DB) error { assignID(&m.ID); return nil }
