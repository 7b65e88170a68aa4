package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/pkg/enums"
)

// CartItem is unique per (customer, product, vendor). UnitPrice is the price
// snapshot taken when the line was added or last changed.
type CartItem struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	CustomerID uuid.UUID       `gorm:"column:customer_id;type:uuid;not null"`
	ProductID  uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	VendorID   uuid.UUID       `gorm:"column:vendor_id;type:uuid;not null"`
	Quantity   int             `gorm:"column:quantity;not null"`
	UnitPrice  decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Notes      *string         `gorm:"column:notes"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`

	Product *Product `gorm:"foreignKey:ProductID;references:ID"`
}

func (m *CartItem) BeforeCreate(*gorm.DB) error { assignID(&m.ID); return nil }

// LineTotal is unit price times quantity.
func (m CartItem) LineTotal() decimal.Decimal {
	return m.UnitPrice.Mul(decimal.NewFromInt(int64(m.Quantity)))
}

type WishlistItem struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	CustomerID uuid.UUID `gorm:"column:customer_id;type:uuid;not null"`
	ProductID  uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`

	Product *Product `gorm:"foreignKey:ProductID;references:ID"`
}

func (m *WishlistItem) BeforeCreate(*gorm.DB) error { assignID(&m.ID); return nil }

type Address struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	CustomerID   uuid.UUID         `gorm:"column:customer_id;type:uuid;not null"`
	AddressType  enums.AddressType `gorm:"column:address_type;not null;default:'home'"`
	FullName     string            `gorm:"column:full_name;not null"`
	Phone        string            `gorm:"column:phone;not null"`
	AddressLine1 string            `gorm:"column:address_line1;not null"`
	AddressLine2 *string           `gorm:"column:address_line2"`
	Landmark     *string           `gorm:"column:landmark"`
	City         string            `gorm:"column:city;not null"`
	State        string            `gorm:"column:state;not null"`
	Country      string            `gorm:"column:country;not null"`
	PostalCode   string            `gorm:"column:postal_code;not null"`
	Lat          *float64          `gorm:"column:lat"`
	Lng          *float64          `gorm:"column:lng"`
	IsDefault    bool              `gorm:"column:is_default;not null"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (Address) TableName() string { return "customer_addresses" }

func (m *Address) BeforeCreate(*gorm.DB) error { assignID(&m.ID); return nil }

type SearchHistory struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	CustomerID     uuid.UUID `gorm:"column:customer_id;type:uuid;not null"`
	Query          string    `gorm:"column:query;not null"`
	SearchCount    int       `gorm:"column:search_count;not null;default:1"`
	LastSearchedAt time.Time `gorm:"column:last_searched_at;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (SearchHistory) TableName() string { return "customer_search_history" }

func (m *SearchHistory) BeforeCreate(*gorm.DB) error { assignID(&m.ID); return nil }
