package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/marketplace-backend/internal/categories"
	"github.com/angelmondragon/marketplace-backend/internal/vendors"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/visibility"
)

// ProductDTO is the full product shape used by vendor endpoints.
type ProductDTO struct {
	ID               uuid.UUID         `json:"id"`
	VendorID         uuid.UUID         `json:"vendor_id"`
	CategoryID       uuid.UUID         `json:"category_id"`
	Name             string            `json:"name"`
	Slug             string            `json:"slug"`
	SKU              *string           `json:"sku,omitempty"`
	Description      *string           `json:"description,omitempty"`
	Price            decimal.Decimal   `json:"price"`
	DiscountedPrice  *decimal.Decimal  `json:"discounted_price,omitempty"`
	EffectivePrice   decimal.Decimal   `json:"effective_price"`
	StockQuantity    int               `json:"stock_quantity"`
	StockStatus      string            `json:"stock_status"`
	MinOrderQuantity int               `json:"min_order_quantity"`
	MaxOrderQuantity *int              `json:"max_order_quantity,omitempty"`
	Images           []string          `json:"images"`
	Attributes       map[string]string `json:"attributes"`
	IsFeatured       bool              `json:"is_featured"`
	IsActive         bool              `json:"is_active"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

func FromModel(m models.Product) ProductDTO {
	images := m.Images
	if images == nil {
		images = []string{}
	}
	attributes := m.Attributes
	if attributes == nil {
		attributes = map[string]string{}
	}
	return ProductDTO{
		ID:               m.ID,
		VendorID:         m.VendorID,
		CategoryID:       m.CategoryID,
		Name:             m.Name,
		Slug:             m.Slug,
		SKU:              m.SKU,
		Description:      m.Description,
		Price:            m.Price,
		DiscountedPrice:  m.DiscountedPrice,
		EffectivePrice:   m.EffectivePrice(),
		StockQuantity:    m.StockQuantity,
		StockStatus:      visibility.StockStatus(m.StockQuantity),
		MinOrderQuantity: m.MinOrderQuantity,
		MaxOrderQuantity: m.MaxOrderQuantity,
		Images:           images,
		Attributes:       attributes,
		IsFeatured:       m.IsFeatured,
		IsActive:         m.IsActive,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// Card is the compact product shape of customer listings.
type Card struct {
	ID              uuid.UUID        `json:"id"`
	Name            string           `json:"name"`
	Slug            string           `json:"slug"`
	Price           decimal.Decimal  `json:"price"`
	DiscountedPrice *decimal.Decimal `json:"discounted_price,omitempty"`
	EffectivePrice  decimal.Decimal  `json:"effective_price"`
	Image           *string          `json:"image,omitempty"`
	StockStatus     string           `json:"stock_status"`
	CategoryID      uuid.UUID        `json:"category_id"`
	VendorID        uuid.UUID        `json:"vendor_id"`
	VendorName      string           `json:"vendor_name,omitempty"`
	IsFeatured      bool             `json:"is_featured"`
}

func CardFromModel(m models.Product, vendorName string) Card {
	return Card{
		ID:              m.ID,
		Name:            m.Name,
		Slug:            m.Slug,
		Price:           m.Price,
		DiscountedPrice: m.DiscountedPrice,
		EffectivePrice:  m.EffectivePrice(),
		Image:           m.FirstImage(),
		StockStatus:     visibility.StockStatus(m.StockQuantity),
		CategoryID:      m.CategoryID,
		VendorID:        m.VendorID,
		VendorName:      vendorName,
		IsFeatured:      m.IsFeatured,
	}
}

type ReviewSummary struct {
	ID         uuid.UUID `json:"id"`
	CustomerID uuid.UUID `json:"customer_id"`
	Rating     int       `json:"rating"`
	Comment    *string   `json:"comment,omitempty"`
	Images     []string  `json:"images,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Detail is the customer product page.
type Detail struct {
	Product       ProductDTO              `json:"product"`
	Vendor        vendors.Summary         `json:"vendor"`
	Category      categories.CategoryDTO  `json:"category"`
	Reviews       []ReviewSummary         `json:"reviews"`
	AverageRating decimal.Decimal         `json:"average_rating"`
	ReviewCount   int64                   `json:"review_count"`
	Related       []Card                  `json:"related_products"`
	InWishlist    bool                    `json:"in_wishlist"`
	CartQuantity  int                     `json:"cart_quantity"`
}

type Banner struct {
	Title string `json:"title"`
	Image string `json:"image"`
	Link  string `json:"link"`
}

type Home struct {
	Featured   []Card                   `json:"featured_products"`
	Categories []categories.CategoryDTO `json:"categories"`
	Recent     []Card                   `json:"recent_products"`
	Banners    []Banner                 `json:"banners"`
}

type SearchResult struct {
	Query      string                   `json:"query"`
	Products   []Card                   `json:"products"`
	Categories []categories.CategoryDTO `json:"categories"`
}

type CategoryProducts struct {
	Category categories.CategoryDTO `json:"category"`
	Products []Card                 `json:"items"`
}

type CreateInput struct {
	Name             string            `json:"name" validate:"required,max=255"`
	CategoryID       uuid.UUID         `json:"category_id" validate:"required"`
	Description      *string           `json:"description" validate:"omitempty,max=5000"`
	Price            decimal.Decimal   `json:"price" validate:"required"`
	DiscountedPrice  *decimal.Decimal  `json:"discounted_price"`
	SKU              *string           `json:"sku" validate:"omitempty,max=100"`
	StockQuantity    int               `json:"stock_quantity" validate:"gte=0"`
	MinOrderQuantity *int              `json:"min_order_quantity" validate:"omitempty,gte=1"`
	MaxOrderQuantity *int              `json:"max_order_quantity" validate:"omitempty,gte=1"`
	Images           []string          `json:"images" validate:"omitempty,dive,max=2048"`
	Attributes       map[string]string `json:"attributes"`
	IsActive         *bool             `json:"is_active"`
	IsFeatured       *bool             `json:"is_featured"`
}

type UpdateInput struct {
	Name             *string           `json:"name" validate:"omitempty,min=1,max=255"`
	CategoryID       *uuid.UUID        `json:"category_id"`
	Description      *string           `json:"description" validate:"omitempty,max=5000"`
	Price            *decimal.Decimal  `json:"price"`
	DiscountedPrice  *decimal.Decimal  `json:"discounted_price"`
	SKU              *string           `json:"sku" validate:"omitempty,max=100"`
	StockQuantity    *int              `json:"stock_quantity" validate:"omitempty,gte=0"`
	MinOrderQuantity *int              `json:"min_order_quantity" validate:"omitempty,gte=1"`
	MaxOrderQuantity *int              `json:"max_order_quantity" validate:"omitempty,gte=1"`
	Images           []string          `json:"images" validate:"omitempty,dive,max=2048"`
	Attributes       map[string]string `json:"attributes"`
	IsActive         *bool             `json:"is_active"`
	IsFeatured       *bool             `json:"is_featured"`
}

type StockInput struct {
	StockQuantity *int `json:"stock_quantity" validate:"required,gte=0"`
}

// Stock filters for vendor listings.
const (
	StockFilterLow = "low"
	StockFilterOut = "out"
)

type VendorListFilters struct {
	CategoryID  *uuid.UUID
	IsActive    *bool
	StockStatus string
	Search      string
}

// Catalog sort keys.
const (
	SortPrice      = "price"
	SortName       = "name"
	SortCreatedAt  = "created_at"
	SortPopularity = "popularity"
)

type CatalogFilters struct {
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	SortBy    string
	SortOrder string
}
