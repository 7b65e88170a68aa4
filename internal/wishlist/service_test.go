package wishlist

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/marketplace-backend/internal/products"
	"github.com/angelmondragon/marketplace-backend/pkg/db/dbtest"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
)

func TestWishlistLifecycle(t *testing.T) {
	conn := dbtest.Open(t)
	svc, err := NewService(NewRepository(conn), products.NewRepository(conn))
	require.NoError(t, err)
	ctx := context.Background()

	vendor := dbtest.Vendor(t, conn)
	product := dbtest.Product(t, conn, vendor.ID, dbtest.Category(t, conn).ID)
	customer := dbtest.Customer(t, conn).ID

	require.NoError(t, svc.Add(ctx, customer, product.ID))

	err = svc.Add(ctx, customer, product.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeBusinessRule, typed.Code())
	assert.Equal(t, "Already in wishlist", typed.Message())

	items, err := svc.List(ctx, customer)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, product.ID, items[0].Product.ID)
	assert.Equal(t, vendor.BusinessName, items[0].Product.VendorName)

	require.NoError(t, svc.Remove(ctx, customer, product.ID))
	err = svc.Remove(ctx, customer, product.ID)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	assert.Equal(t, "Item not in wishlist", typed.Message())
}

func TestAddRejectsMissingAndInactiveProducts(t *testing.T) {
	conn := dbtest.Open(t)
	svc, err := NewService(NewRepository(conn), products.NewRepository(conn))
	require.NoError(t, err)

	err = svc.Add(context.Background(), uuid.New(), uuid.New())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	inactive := dbtest.Product(t, conn, uuid.New(), uuid.New())
	require.NoError(t, conn.Model(&inactive).Update("is_active", false).Error)
	err = svc.Add(context.Background(), uuid.New(), inactive.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}
