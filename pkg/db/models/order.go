package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/pkg/enums"
)

// Order is the per-vendor slice of a checkout.
type Order struct {
	ID                    uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	OrderNumber           string              `gorm:"column:order_number;not null;uniqueIndex"`
	CustomerID            uuid.UUID           `gorm:"column:customer_id;type:uuid;not null"`
	VendorID              uuid.UUID           `gorm:"column:vendor_id;type:uuid;not null"`
	DeliveryPartnerID     *uuid.UUID          `gorm:"column:delivery_partner_id;type:uuid"`
	AddressID             uuid.UUID           `gorm:"column:address_id;type:uuid;not null"`
	DeliveryAddress       string              `gorm:"column:delivery_address;not null"`
	Subtotal              decimal.Decimal     `gorm:"column:subtotal;type:numeric(12,2);not null"`
	DeliveryCharge        decimal.Decimal     `gorm:"column:delivery_charge;type:numeric(12,2);not null"`
	DiscountAmount        decimal.Decimal     `gorm:"column:discount_amount;type:numeric(12,2);not null"`
	TaxAmount             decimal.Decimal     `gorm:"column:tax_amount;type:numeric(12,2);not null"`
	FinalAmount           decimal.Decimal     `gorm:"column:final_amount;type:numeric(12,2);not null"`
	PaymentMethod         enums.PaymentMethod `gorm:"column:payment_method;not null"`
	PaymentStatus         enums.PaymentStatus `gorm:"column:payment_status;not null"`
	OrderStatus           enums.OrderStatus   `gorm:"column:order_status;not null"`
	CustomerNotes         *string             `gorm:"column:customer_notes"`
	CancellationReason    *string             `gorm:"column:cancellation_reason"`
	StockRestoredAt       *time.Time          `gorm:"column:stock_restored_at"`
	EstimatedDeliveryTime *time.Time          `gorm:"column:estimated_delivery_time"`
	ActualDeliveryTime    *time.Time          `gorm:"column:actual_delivery_time"`
	CreatedAt             time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time           `gorm:"column:updated_at;autoUpdateTime"`

	Items []OrderItem `gorm:"foreignKey:OrderID;references:ID"`
}

func (m *Order) BeforeCreate(*gorm.DB) error { assignID(&m.ID); return nil }

// OrderItem is immutable once the order is placed.
type OrderItem struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"column:order_id;type:uuid;not null"`
	ProductID   uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	ProductName string          `gorm:"column:product_name;not null"`
	Quantity    int             `gorm:"column:quantity;not null"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	TotalPrice  decimal.Decimal `gorm:"column:total_price;type:numeric(12,2);not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (m *OrderItem) BeforeCreate(*gorm.DB) error { assignID(&m.ID); return nil }

type OrderStatusHistory struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	OrderID     uuid.UUID         `gorm:"column:order_id;type:uuid;not null"`
	Status      enums.OrderStatus `gorm:"column:status;not null"`
	ChangedBy   enums.ActorType   `gorm:"column:changed_by;not null"`
	ChangedByID *uuid.UUID        `gorm:"column:changed_by_id;type:uuid"`
	Notes       *string           `gorm:"column:notes"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
}

func (OrderStatusHistory) TableName() string { return "order_status_history" }

func (m *OrderStatusHistory) BeforeCreate(*gorm.DB) error { assignID(&m.ID); return nil }

// VendorOrder tracks the vendor-facing fulfilment state of an order.
type VendorOrder struct {
	ID               uuid.UUID               `gorm:"column:id;type:uuid;primaryKey"`
	OrderID          uuid.UUID               `gorm:"column:order_id;type:uuid;not null;uniqueIndex"`
	VendorID         uuid.UUID               `gorm:"column:vendor_id;type:uuid;not null"`
	Status           enums.VendorOrderStatus `gorm:"column:status;not null"`
	Subtotal         decimal.Decimal         `gorm:"column:subtotal;type:numeric(12,2);not null"`
	CommissionAmount decimal.Decimal         `gorm:"column:commission_amount;type:numeric(12,2);not null"`
	NetAmount        decimal.Decimal         `gorm:"column:net_amount;type:numeric(12,2);not null"`
	PreparationTime  *int                    `gorm:"column:preparation_time"`
	VendorNotes      *string                 `gorm:"column:vendor_notes"`
	AcceptedAt       *time.Time              `gorm:"column:accepted_at"`
	PreparedAt       *time.Time              `gorm:"column:prepared_at"`
	ReadyAt          *time.Time              `gorm:"column:ready_at"`
	CancelledAt      *time.Time              `gorm:"column:cancelled_at"`
	CreatedAt        time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

func (m *VendorOrder) BeforeCreate(*gorm.DB) error { assignID(&m.ID); return nil }
