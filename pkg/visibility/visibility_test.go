package visibility

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
)

func TestEnsureProductVisible(t *testing.T) {
	active := &models.Product{IsActive: true}
	live := &models.Vendor{Status: enums.VendorStatusActive}

	assert.NoError(t, EnsureProductVisible(ProductInput{Product: active, Vendor: live, Category: &models.Category{IsActive: true}}))
	assert.NoError(t, EnsureProductVisible(ProductInput{Product: active}))

	hidden := []ProductInput{
		{},
		{Product: &models.Product{IsActive: false}},
		{Product: active, Vendor: &models.Vendor{Status: enums.VendorStatusSuspended}},
		{Product: active, Vendor: live, Category: &models.Category{IsActive: false}},
	}
	for _, input := range hidden {
		err := EnsureProductVisible(input)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	}
}

func TestStockStatus(t *testing.T) {
	assert.Equal(t, "out_of_stock", StockStatus(0))
	assert.Equal(t, "low_stock", StockStatus(9))
	assert.Equal(t, "in_stock", StockStatus(10))
}
