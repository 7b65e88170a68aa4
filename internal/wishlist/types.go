package wishlist

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/marketplace-backend/internal/products"
)

// ItemDTO wraps the product card shown in a wishlist row.
type ItemDTO struct {
	ID        uuid.UUID     `json:"id"`
	Product   products.Card `json:"product"`
	CreatedAt time.Time     `json:"created_at"`
}

type AddInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}
