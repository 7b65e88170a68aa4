package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/pkg/enums"
)

// DeliveryTask links an order to at most one delivery partner.
type DeliveryTask struct {
	ID              uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	OrderID         uuid.UUID        `gorm:"column:order_id;type:uuid;not null"`
	PartnerID       *uuid.UUID       `gorm:"column:partner_id;type:uuid"`
	Status          enums.TaskStatus `gorm:"column:status;not null"`
	PickupAddress   string           `gorm:"column:pickup_address;not null"`
	DeliveryAddress string           `gorm:"column:delivery_address;not null"`
	Notes           *string          `gorm:"column:notes"`
	ActualDistance  *decimal.Decimal `gorm:"column:actual_distance;type:numeric(8,2)"`
	ActualTime      *int             `gorm:"column:actual_time"`
	StartedAt       *time.Time       `gorm:"column:started_at"`
	CompletedAt     *time.Time       `gorm:"column:completed_at"`
	CreatedAt       time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (m *DeliveryTask) BeforeCreate(*gorm.DB) error { assignID(&m.ID); return nil }

type DeliveryEarning struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	TaskID        uuid.UUID           `gorm:"column:task_id;type:uuid;not null;uniqueIndex"`
	PartnerID     uuid.UUID           `gorm:"column:partner_id;type:uuid;not null"`
	OrderID       uuid.UUID           `gorm:"column:order_id;type:uuid;not null"`
	BaseFare      decimal.Decimal     `gorm:"column:base_fare;type:numeric(12,2);not null"`
	DistanceFare  decimal.Decimal     `gorm:"column:distance_fare;type:numeric(12,2);not null"`
	TimeFare      decimal.Decimal     `gorm:"column:time_fare;type:numeric(12,2);not null"`
	TotalAmount   decimal.Decimal     `gorm:"column:total_amount;type:numeric(12,2);not null"`
	PaymentStatus enums.EarningStatus `gorm:"column:payment_status;not null;default:'pending'"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
}

func (m *DeliveryEarning) BeforeCreate(*gorm.DB) error { assignID(&m.ID); return nil }

type VendorEarning struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	OrderID          uuid.UUID           `gorm:"column:order_id;type:uuid;not null;uniqueIndex"`
	VendorID         uuid.UUID           `gorm:"column:vendor_id;type:uuid;not null"`
	GrossAmount      decimal.Decimal     `gorm:"column:gross_amount;type:numeric(12,2);not null"`
	CommissionAmount decimal.Decimal     `gorm:"column:commission_amount;type:numeric(12,2);not null"`
	NetAmount        decimal.Decimal     `gorm:"column:net_amount;type:numeric(12,2);not null"`
	Status           enums.EarningStatus `gorm:"column:status;not null;default:'pending'"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
}

func (m *VendorEarning) BeforeCreate(*gorm.DB) error { assignID(&m.ID); return nil }
