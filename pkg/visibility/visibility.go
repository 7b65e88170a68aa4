// Package visibility decides which catalog rows customers may see.
package visibility

import (
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
)

// ProductInput carries the rows loaded for a customer-facing product lookup.
type ProductInput struct {
	Product  *models.Product
	Vendor   *models.Vendor
	Category *models.Category
}

// EnsureProductVisible hides inactive products and products of vendors or
// categories that are not live. Hidden rows look missing to customers.
func EnsureProductVisible(input ProductInput) error {
	if input.Product == nil || !input.Product.IsActive {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
	}
	if input.Vendor != nil && input.Vendor.Status != enums.VendorStatusActive {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
	}
	if input.Category != nil && !input.Category.IsActive {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
	}
	return nil
}

// StockStatus buckets a stock level for vendor listings.
func StockStatus(stock int) string {
	switch {
	case stock <= 0:
		return "out_of_stock"
	case stock < LowStockThreshold:
		return "low_stock"
	default:
		return "in_stock"
	}
}

// LowStockThreshold is exclusive: stock below it and above zero is low.
const LowStockThreshold = 10
