package checkout

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/address"
	"github.com/angelmondragon/marketplace-backend/internal/cart"
	"github.com/angelmondragon/marketplace-backend/internal/orders"
	"github.com/angelmondragon/marketplace-backend/internal/products"
	"github.com/angelmondragon/marketplace-backend/internal/vendors"
	"github.com/angelmondragon/marketplace-backend/pkg/db/dbtest"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
	"github.com/angelmondragon/marketplace-backend/pkg/outbox"
)

var fixedNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	client, conn := dbtest.Client(t)
	svc, err := NewService(Params{
		Tx:             client,
		Cart:           cart.NewRepository(conn),
		Addresses:      address.NewRepository(conn),
		Orders:         orders.NewRepository(conn),
		Vendors:        vendors.NewRepository(conn),
		Inventory:      products.NewInventory(products.NewRepository(conn)),
		Outbox:         outbox.NewService(outbox.NewRepository(conn), logger.Nop()),
		DeliveryCharge: decimal.NewFromInt(40),
		Now:            func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	return svc, conn
}

func addLine(t *testing.T, conn *gorm.DB, customerID uuid.UUID, product models.Product, qty int) {
	t.Helper()
	require.NoError(t, conn.Create(&models.CartItem{
		CustomerID: customerID,
		ProductID:  product.ID,
		VendorID:   product.VendorID,
		Quantity:   qty,
		UnitPrice:  product.Price,
	}).Error)
}

func stockOf(t *testing.T, conn *gorm.DB, id uuid.UUID) int {
	t.Helper()
	var product models.Product
	require.NoError(t, conn.First(&product, "id = ?", id).Error)
	return product.StockQuantity
}

func count(t *testing.T, conn *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, conn.Model(model).Count(&n).Error)
	return n
}

func TestPlaceOrderSplitsByVendor(t *testing.T) {
	svc, conn := newService(t)
	customer := dbtest.Customer(t, conn)
	addr := dbtest.Address(t, conn, customer.ID)
	category := dbtest.Category(t, conn)
	vendorA := dbtest.Vendor(t, conn)
	vendorB := dbtest.Vendor(t, conn, func(v *models.Vendor) { v.CommissionRate = decimal.NewFromInt(15) })
	honey := dbtest.Product(t, conn, vendorA.ID, category.ID, func(p *models.Product) { p.Name = "Honey" })
	jam := dbtest.Product(t, conn, vendorB.ID, category.ID, func(p *models.Product) {
		p.Name = "Jam"
		p.Price = decimal.NewFromInt(60)
	})
	addLine(t, conn, customer.ID, honey, 2)
	addLine(t, conn, customer.ID, jam, 3)

	result, err := svc.PlaceOrder(context.Background(), customer.ID, PlaceOrderInput{AddressID: addr.ID, PaymentMethod: enums.PaymentMethodCOD})
	require.NoError(t, err)
	require.Len(t, result.Orders, 2)
	assert.True(t, decimal.NewFromInt(460).Equal(result.GrandTotal), result.GrandTotal.String())

	for _, placed := range result.Orders {
		assert.True(t, strings.HasPrefix(placed.OrderNumber, "ORD20260301"), placed.OrderNumber)
		assert.Len(t, placed.OrderNumber, len("ORD20260301")+6)

		var order models.Order
		require.NoError(t, conn.First(&order, "id = ?", placed.ID).Error)
		assert.Equal(t, enums.OrderStatusPending, order.OrderStatus)
		assert.Equal(t, enums.PaymentStatusPending, order.PaymentStatus)
		assert.Equal(t, "221B Baker Street, Pune, MH, India - 411001", order.DeliveryAddress)
		require.NotNil(t, order.EstimatedDeliveryTime)
		assert.True(t, fixedNow.Add(2*time.Hour).Equal(*order.EstimatedDeliveryTime))
		assert.True(t, decimal.NewFromInt(40).Equal(order.DeliveryCharge))

		var vendorOrder models.VendorOrder
		require.NoError(t, conn.First(&vendorOrder, "order_id = ?", order.ID).Error)
		switch order.VendorID {
		case vendorA.ID:
			assert.True(t, decimal.NewFromInt(240).Equal(order.FinalAmount))
			assert.True(t, decimal.NewFromInt(20).Equal(vendorOrder.CommissionAmount))
			assert.True(t, decimal.NewFromInt(180).Equal(vendorOrder.NetAmount))
		case vendorB.ID:
			assert.True(t, decimal.NewFromInt(220).Equal(order.FinalAmount))
			assert.True(t, decimal.NewFromInt(27).Equal(vendorOrder.CommissionAmount))
		default:
			t.Fatalf("unexpected vendor %s", order.VendorID)
		}
	}

	assert.Equal(t, 48, stockOf(t, conn, honey.ID))
	assert.Equal(t, 47, stockOf(t, conn, jam.ID))
	assert.Zero(t, count(t, conn, &models.CartItem{}))
	assert.EqualValues(t, 2, count(t, conn, &models.OrderItem{}))
	assert.EqualValues(t, 2, count(t, conn, &models.OrderStatusHistory{}))
	assert.EqualValues(t, 2, count(t, conn, &models.OutboxEvent{}))
}

func TestPlaceOrderRollsBackOnShortStock(t *testing.T) {
	svc, conn := newService(t)
	customer := dbtest.Customer(t, conn)
	addr := dbtest.Address(t, conn, customer.ID)
	category := dbtest.Category(t, conn)
	vendor := dbtest.Vendor(t, conn)
	plenty := dbtest.Product(t, conn, vendor.ID, category.ID)
	scarce := dbtest.Product(t, conn, vendor.ID, category.ID, func(p *models.Product) {
		p.Name = "Saffron"
		p.StockQuantity = 1
	})
	addLine(t, conn, customer.ID, plenty, 2)
	addLine(t, conn, customer.ID, scarce, 3)

	_, err := svc.PlaceOrder(context.Background(), customer.ID, PlaceOrderInput{AddressID: addr.ID, PaymentMethod: enums.PaymentMethodCard})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeBusinessRule))
	assert.Equal(t, "Insufficient stock for Saffron", pkgerrors.As(err).Message())

	assert.Equal(t, 50, stockOf(t, conn, plenty.ID))
	assert.Equal(t, 1, stockOf(t, conn, scarce.ID))
	assert.EqualValues(t, 2, count(t, conn, &models.CartItem{}))
	assert.Zero(t, count(t, conn, &models.Order{}))
	assert.Zero(t, count(t, conn, &models.OutboxEvent{}))
}

func TestPlaceOrderPreconditions(t *testing.T) {
	svc, conn := newService(t)
	customer := dbtest.Customer(t, conn)
	addr := dbtest.Address(t, conn, customer.ID)
	ctx := context.Background()

	_, err := svc.PlaceOrder(ctx, customer.ID, PlaceOrderInput{AddressID: addr.ID, PaymentMethod: enums.PaymentMethodCOD})
	require.Error(t, err)
	assert.Equal(t, "Cart is empty", pkgerrors.As(err).Message())

	category := dbtest.Category(t, conn)
	vendor := dbtest.Vendor(t, conn)
	addLine(t, conn, customer.ID, dbtest.Product(t, conn, vendor.ID, category.ID), 1)

	stranger := dbtest.Customer(t, conn)
	foreign := dbtest.Address(t, conn, stranger.ID)
	_, err = svc.PlaceOrder(ctx, customer.ID, PlaceOrderInput{AddressID: foreign.ID, PaymentMethod: enums.PaymentMethodCOD})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.PlaceOrder(ctx, customer.ID, PlaceOrderInput{AddressID: addr.ID, PaymentMethod: "cheque"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestPlaceOrderRefusesSuspendedVendor(t *testing.T) {
	svc, conn := newService(t)
	customer := dbtest.Customer(t, conn)
	addr := dbtest.Address(t, conn, customer.ID)
	category := dbtest.Category(t, conn)
	vendor := dbtest.Vendor(t, conn, func(v *models.Vendor) { v.Status = enums.VendorStatusSuspended })
	addLine(t, conn, customer.ID, dbtest.Product(t, conn, vendor.ID, category.ID), 1)

	_, err := svc.PlaceOrder(context.Background(), customer.ID, PlaceOrderInput{AddressID: addr.ID, PaymentMethod: enums.PaymentMethodOnline})
	require.Error(t, err)
	assert.Equal(t, "Product not available", pkgerrors.As(err).Message())
}

func TestPlaceOrderRegeneratesCollidingNumber(t *testing.T) {
	svc, conn := newService(t)
	customer := dbtest.Customer(t, conn)
	addr := dbtest.Address(t, conn, customer.ID)
	vendor := dbtest.Vendor(t, conn)
	product := dbtest.Product(t, conn, vendor.ID, dbtest.Category(t, conn).ID)
	dbtest.Order(t, conn, customer.ID, product, 1, func(o *models.Order) { o.OrderNumber = "ORD20260301TAKEN1" })
	addLine(t, conn, customer.ID, product, 2)

	issued := []string{"ORD20260301TAKEN1", "ORD20260301FRESH1"}
	svc.(*service).numbers = func(time.Time) (string, error) {
		next := issued[0]
		issued = issued[1:]
		return next, nil
	}

	result, err := svc.PlaceOrder(context.Background(), customer.ID, PlaceOrderInput{AddressID: addr.ID, PaymentMethod: enums.PaymentMethodCOD})
	require.NoError(t, err)
	require.Len(t, result.Orders, 1)
	assert.Equal(t, "ORD20260301FRESH1", result.Orders[0].OrderNumber)
	assert.EqualValues(t, 2, count(t, conn, &models.Order{}))
	assert.Zero(t, count(t, conn, &models.CartItem{}))
}

func TestPlaceOrderGivesUpAfterRepeatedCollisions(t *testing.T) {
	svc, conn := newService(t)
	customer := dbtest.Customer(t, conn)
	addr := dbtest.Address(t, conn, customer.ID)
	vendor := dbtest.Vendor(t, conn)
	product := dbtest.Product(t, conn, vendor.ID, dbtest.Category(t, conn).ID)
	dbtest.Order(t, conn, customer.ID, product, 1, func(o *models.Order) { o.OrderNumber = "ORD20260301TAKEN1" })
	addLine(t, conn, customer.ID, product, 2)

	calls := 0
	svc.(*service).numbers = func(time.Time) (string, error) {
		calls++
		return "ORD20260301TAKEN1", nil
	}

	_, err := svc.PlaceOrder(context.Background(), customer.ID, PlaceOrderInput{AddressID: addr.ID, PaymentMethod: enums.PaymentMethodCOD})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
	assert.Equal(t, numberAttempts, calls)
	assert.Equal(t, 50, stockOf(t, conn, product.ID))
	assert.EqualValues(t, 1, count(t, conn, &models.CartItem{}))
}
