package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Category struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Name         string     `gorm:"column:name;not null"`
	Slug         string     `gorm:"column:slug;not null;uniqueIndex"`
	Description  *string    `gorm:"column:description"`
	Image        *string    `gorm:"column:image"`
	ParentID     *uuid.UUID `gorm:"column:parent_id;type:uuid"`
	IsActive     bool       `gorm:"column:is_active;not null"`
	DisplayOrder int        `gorm:"column:display_order;not null;default:0"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (m *Category) BeforeCreate(*gorm.DB) error { assignID(&m.ID); return nil }

// Product is a vendor listing. StockQuantity is only decremented through the
// conditional checkout update.
type Product struct {
	ID               uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	VendorID         uuid.UUID         `gorm:"column:vendor_id;type:uuid;not null"`
	CategoryID       uuid.UUID         `gorm:"column:category_id;type:uuid;not null"`
	Name             string            `gorm:"column:name;not null"`
	Slug             string            `gorm:"column:slug;not null;uniqueIndex"`
	SKU              *string           `gorm:"column:sku"`
	Description      *string           `gorm:"column:description"`
	Price            decimal.Decimal   `gorm:"column:price;type:numeric(12,2);not null"`
	DiscountedPrice  *decimal.Decimal  `gorm:"column:discounted_price;type:numeric(12,2)"`
	StockQuantity    int               `gorm:"column:stock_quantity;not null"`
	MinOrderQuantity int               `gorm:"column:min_order_quantity;not null;default:1"`
	MaxOrderQuantity *int              `gorm:"column:max_order_quantity"`
	Images           []string          `gorm:"column:images;type:jsonb;serializer:json"`
	Attributes       map[string]string `gorm:"column:attributes;type:jsonb;serializer:json"`
	IsFeatured       bool              `gorm:"column:is_featured;not null"`
	IsActive         bool              `gorm:"column:is_active;not null"`
	CreatedAt        time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (m *Product) BeforeCreate(*gorm.DB) error { assignID(&m.ID); return nil }

// EffectivePrice is the discounted price when set, otherwise the list price.
func (m Product) EffectivePrice() decimal.Decimal {
	if m.DiscountedPrice != nil && m.DiscountedPrice.IsPositive() {
		return *m.DiscountedPrice
	}
	return m.Price
}

// FirstImage returns the cover image, if any.
func (m Product) FirstImage() *string {
	if len(m.Images) == 0 {
		return nil
	}
	img := m.Images[0]
	return &img
}

type OrderReview struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	OrderID    uuid.UUID `gorm:"column:order_id;type:uuid;not null;uniqueIndex:ux_order_reviews_line"`
	ProductID  uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:ux_order_reviews_line"`
	CustomerID uuid.UUID `gorm:"column:customer_id;type:uuid;not null;uniqueIndex:ux_order_reviews_line"`
	Rating     int       `gorm:"column:rating;not null"`
	Comment    *string   `gorm:"column:comment"`
	Images     []string  `gorm:"column:images;type:jsonb;serializer:json"`
	IsApproved bool      `gorm:"column:is_approved;not null;default:false"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (m *OrderReview) BeforeCreate(*gorm.DB) error { assignID(&m.ID); return nil }
