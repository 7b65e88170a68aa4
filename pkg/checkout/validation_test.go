package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
)

func TestValidateLine(t *testing.T) {
	five := 5
	cases := []struct {
		name string
		line LineCheck
		msg  string
	}{
		{"ok", LineCheck{Active: true, Min: 1, Max: &five, Stock: 10, Quantity: 5}, ""},
		{"inactive", LineCheck{Active: false, Min: 1, Stock: 10, Quantity: 1}, "Product not available"},
		{"below minimum", LineCheck{Active: true, Min: 3, Stock: 10, Quantity: 2}, "Minimum order quantity is 3"},
		{"zero quantity", LineCheck{Active: true, Stock: 10, Quantity: 0}, "Minimum order quantity is 1"},
		{"above maximum", LineCheck{Active: true, Min: 1, Max: &five, Stock: 10, Quantity: 6}, "Maximum order quantity is 5"},
		{"short stock", LineCheck{Active: true, Min: 1, Stock: 4, Quantity: 5}, "Insufficient stock. Only 4 available"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateLine(tc.line)
			if tc.msg == "" {
				assert.NoError(t, err)
				return
			}
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeBusinessRule, typed.Code())
			assert.Equal(t, tc.msg, typed.Message())
		})
	}
}

func TestLineFor(t *testing.T) {
	max := 4
	line := LineFor(models.Product{IsActive: true, MinOrderQuantity: 2, MaxOrderQuantity: &max, StockQuantity: 9}, 3)
	assert.Equal(t, LineCheck{Active: true, Min: 2, Max: &max, Stock: 9, Quantity: 3}, line)
}
