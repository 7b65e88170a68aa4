package reviews

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/marketplace-backend/pkg/db/dbtest"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
)

func TestSubmitAndApprove(t *testing.T) {
	conn := dbtest.Open(t)
	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)
	customer := dbtest.Customer(t, conn, func(c *models.Customer) { c.Name = "Asha Rao" })
	vendor := dbtest.Vendor(t, conn)
	category := dbtest.Category(t, conn)
	product := dbtest.Product(t, conn, vendor.ID, category.ID, func(p *models.Product) { p.Name = "Honey" })
	other := dbtest.Product(t, conn, vendor.ID, category.ID)
	delivered := dbtest.Order(t, conn, customer.ID, product, 1, func(o *models.Order) { o.OrderStatus = enums.OrderStatusDelivered })
	pending := dbtest.Order(t, conn, customer.ID, product, 1)
	ctx := context.Background()

	_, err = svc.Submit(ctx, customer.ID, SubmitInput{OrderID: pending.ID, ProductID: product.ID, Rating: 5})
	require.Error(t, err)
	assert.Equal(t, "Order not found or not delivered", pkgerrors.As(err).Message())

	_, err = svc.Submit(ctx, uuid.New(), SubmitInput{OrderID: delivered.ID, ProductID: product.ID, Rating: 5})
	assert.Equal(t, "Order not found or not delivered", pkgerrors.As(err).Message())

	_, err = svc.Submit(ctx, customer.ID, SubmitInput{OrderID: delivered.ID, ProductID: other.ID, Rating: 5})
	assert.Equal(t, "Product not found in order", pkgerrors.As(err).Message())

	_, err = svc.Submit(ctx, customer.ID, SubmitInput{OrderID: delivered.ID, ProductID: product.ID, Rating: 6})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	review, err := svc.Submit(ctx, customer.ID, SubmitInput{OrderID: delivered.ID, ProductID: product.ID, Rating: 4, Images: []string{"https://cdn.example.com/r.jpg"}})
	require.NoError(t, err)
	assert.False(t, review.IsApproved)

	_, err = svc.Submit(ctx, customer.ID, SubmitInput{OrderID: delivered.ID, ProductID: product.ID, Rating: 3})
	assert.Equal(t, "Already reviewed this product", pkgerrors.As(err).Message())

	page, err := svc.ListPending(ctx, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Asha Rao", page.Items[0].CustomerName)
	assert.Equal(t, "Honey", page.Items[0].ProductName)

	approved, err := svc.Approve(ctx, review.ID)
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)

	_, err = svc.Approve(ctx, review.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeBusinessRule))
	_, err = svc.Approve(ctx, uuid.New())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	page, err = svc.ListPending(ctx, pagination.Params{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}
