package checkout

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/marketplace-backend/pkg/enums"
)

type PlaceOrderInput struct {
	AddressID     uuid.UUID           `json:"address_id" validate:"required"`
	PaymentMethod enums.PaymentMethod `json:"payment_method" validate:"required,oneof=cod online card wallet"`
	Notes         *string             `json:"notes" validate:"omitempty,max=1000"`
}

type PlacedOrder struct {
	ID          uuid.UUID       `json:"id"`
	OrderNumber string          `json:"order_number"`
	VendorID    uuid.UUID       `json:"vendor_id"`
	FinalAmount decimal.Decimal `json:"final_amount"`
}

// Result lists the orders created by one checkout.
type Result struct {
	Orders     []PlacedOrder   `json:"orders"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}
