// Package checkout holds the quantity rules shared by the cart and checkout.
package checkout

import (
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
)

// LineCheck is a requested quantity measured against a product's limits.
type LineCheck struct {
	Active   bool
	Min      int
	Max      *int
	Stock    int
	Quantity int
}

// LineFor builds the check for quantity units of product.
func LineFor(product models.Product, quantity int) LineCheck {
	return LineCheck{
		Active:   product.IsActive,
		Min:      product.MinOrderQuantity,
		Max:      product.MaxOrderQuantity,
		Stock:    product.StockQuantity,
		Quantity: quantity,
	}
}

// ValidateLine applies availability, order bounds and stock in that order. The
// first violation wins.
func ValidateLine(line LineCheck) error {
	if !line.Active {
		return pkgerrors.New(pkgerrors.CodeBusinessRule, "Product not available")
	}
	min := line.Min
	if min < 1 {
		min = 1
	}
	if line.Quantity < min {
		return pkgerrors.Newf(pkgerrors.CodeBusinessRule, "Minimum order quantity is %d", min)
	}
	if line.Max != nil && *line.Max > 0 && line.Quantity > *line.Max {
		return pkgerrors.Newf(pkgerrors.CodeBusinessRule, "Maximum order quantity is %d", *line.Max)
	}
	if line.Quantity > line.Stock {
		return pkgerrors.Newf(pkgerrors.CodeBusinessRule, "Insufficient stock. Only %d available", line.Stock)
	}
	return nil
}
