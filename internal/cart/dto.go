package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/visibility"
)

type ItemDTO struct {
	ID               uuid.UUID       `json:"id"`
	ProductID        uuid.UUID       `json:"product_id"`
	VendorID         uuid.UUID       `json:"vendor_id"`
	ProductName      string          `json:"product_name"`
	Image            *string         `json:"image,omitempty"`
	Quantity         int             `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	LineTotal        decimal.Decimal `json:"line_total"`
	StockQuantity    int             `json:"stock_quantity"`
	StockStatus      string          `json:"stock_status"`
	MinOrderQuantity int             `json:"min_order_quantity"`
	MaxOrderQuantity *int            `json:"max_order_quantity,omitempty"`
	Notes            *string         `json:"notes,omitempty"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func ItemFromModel(m models.CartItem) ItemDTO {
	dto := ItemDTO{
		ID:        m.ID,
		ProductID: m.ProductID,
		VendorID:  m.VendorID,
		Quantity:  m.Quantity,
		UnitPrice: m.UnitPrice,
		LineTotal: m.LineTotal(),
		Notes:     m.Notes,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Product != nil {
		dto.ProductName = m.Product.Name
		dto.Image = m.Product.FirstImage()
		dto.StockQuantity = m.Product.StockQuantity
		dto.StockStatus = visibility.StockStatus(m.Product.StockQuantity)
		dto.MinOrderQuantity = m.Product.MinOrderQuantity
		dto.MaxOrderQuantity = m.Product.MaxOrderQuantity
	}
	return dto
}

type Summary struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DeliveryCharge decimal.Decimal `json:"delivery_charge"`
	Total          decimal.Decimal `json:"total"`
	ItemCount      int             `json:"item_count"`
}

type View struct {
	Items   []ItemDTO `json:"items"`
	Summary Summary   `json:"summary"`
}

type AddInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gte=1"`
	Notes     *string   `json:"notes" validate:"omitempty,max=500"`
}

type UpdateInput struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}
