package products

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Inventory moves stock inside caller-owned transactions.
type Inventory struct {
	repo Repository
}

func NewInventory(repo Repository) *Inventory {
	return &Inventory{repo: repo}
}

// Reserve takes qty units when the product is active and has enough stock.
// It reports false without error when the conditional update matched no row.
func (i *Inventory) Reserve(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) (bool, error) {
	return i.repo.WithTx(tx).DecrementStock(ctx, productID, qty)
}

// Release gives qty units back.
func (i *Inventory) Release(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error {
	return i.repo.WithTx(tx).RestoreStock(ctx, productID, qty)
}
