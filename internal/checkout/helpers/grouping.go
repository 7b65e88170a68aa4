// Package helpers partitions a cart into per-vendor orders.
package helpers

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
)

// VendorGroup is the slice of a cart that becomes one order.
type VendorGroup struct {
	VendorID uuid.UUID
	Items    []models.CartItem
	Subtotal decimal.Decimal
	Units    int
}

// GroupByVendor partitions items by vendor. Groups are ordered by vendor id
// and keep the cart order of their items, so the same cart always produces
// the same orders.
func GroupByVendor(items []models.CartItem) []VendorGroup {
	index := make(map[uuid.UUID]int, len(items))
	groups := make([]VendorGroup, 0)
	for _, item := range items {
		i, ok := index[item.VendorID]
		if !ok {
			i = len(groups)
			index[item.VendorID] = i
			groups = append(groups, VendorGroup{VendorID: item.VendorID, Subtotal: decimal.Zero})
		}
		groups[i].Items = append(groups[i].Items, item)
		groups[i].Subtotal = groups[i].Subtotal.Add(item.LineTotal())
		groups[i].Units += item.Quantity
	}
	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].VendorID.String() < groups[b].VendorID.String()
	})
	return groups
}

// Commission is subtotal × rate / 100 rounded to cents.
func Commission(subtotal, rate decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(rate).Div(decimal.NewFromInt(100)).Round(2)
}
