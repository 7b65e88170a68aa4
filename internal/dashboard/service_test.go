package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/marketplace-backend/pkg/db/dbtest"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
)

func TestDashboards(t *testing.T) {
	conn := dbtest.Open(t)
	now := time.Now().UTC()
	svc, err := NewService(NewRepository(conn), func() time.Time { return now })
	require.NoError(t, err)
	ctx := context.Background()

	vendor := dbtest.Vendor(t, conn)
	dbtest.Vendor(t, conn, func(v *models.Vendor) { v.Status = enums.VendorStatusPending })
	category := dbtest.Category(t, conn)
	product := dbtest.Product(t, conn, vendor.ID, category.ID)
	dbtest.Product(t, conn, vendor.ID, category.ID, func(p *models.Product) { p.StockQuantity = 3 })
	dbtest.Product(t, conn, vendor.ID, category.ID, func(p *models.Product) { p.StockQuantity = 0 })
	customer := dbtest.Customer(t, conn, func(c *models.Customer) { c.Name = "Meera" })
	partner := dbtest.Partner(t, conn, func(p *models.DeliveryPartner) {
		p.IsOnline = true
		p.Rating = decimal.RequireFromString("4.5")
	})

	delivered := dbtest.Order(t, conn, customer.ID, product, 2, func(o *models.Order) {
		o.OrderStatus = enums.OrderStatusDelivered
		o.PaymentStatus = enums.PaymentStatusPaid
	})
	dbtest.Order(t, conn, customer.ID, product, 1)
	completedAt := now
	require.NoError(t, conn.Create(&models.DeliveryTask{
		OrderID:         delivered.ID,
		PartnerID:       &partner.ID,
		Status:          enums.TaskDelivered,
		PickupAddress:   "a",
		DeliveryAddress: "b",
		CompletedAt:     &completedAt,
	}).Error)
	require.NoError(t, conn.Create(&models.DeliveryEarning{
		TaskID:        uuid.New(),
		PartnerID:     partner.ID,
		OrderID:       delivered.ID,
		BaseFare:      decimal.NewFromInt(20),
		DistanceFare:  decimal.NewFromInt(5),
		TimeFare:      decimal.Zero,
		TotalAmount:   decimal.NewFromInt(25),
		PaymentStatus: enums.EarningPending,
	}).Error)
	require.NoError(t, conn.Create(&models.VendorEarning{
		OrderID:          delivered.ID,
		VendorID:         vendor.ID,
		GrossAmount:      decimal.NewFromInt(200),
		CommissionAmount: decimal.NewFromInt(20),
		NetAmount:        decimal.NewFromInt(180),
		Status:           enums.EarningPending,
	}).Error)
	require.NoError(t, conn.Create(&models.SupportTicket{
		TicketNumber: "TKT1",
		CustomerID:   customer.ID,
		Subject:      "s",
		Description:  "d",
		Category:     enums.TicketCategoryOther,
		Priority:     enums.PriorityLow,
		Status:       enums.TicketOpen,
	}).Error)

	admin, err := svc.Admin(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, admin.Stats.TotalVendors)
	assert.EqualValues(t, 1, admin.Stats.PendingVendors)
	assert.EqualValues(t, 1, admin.Stats.OnlinePartners)
	assert.EqualValues(t, 2, admin.Stats.TotalOrders)
	assert.EqualValues(t, 2, admin.Stats.TodayOrders)
	assert.EqualValues(t, 1, admin.Stats.PendingOrders)
	assert.EqualValues(t, 1, admin.Stats.OpenTickets)
	assert.True(t, delivered.FinalAmount.Equal(admin.Stats.TotalRevenue), admin.Stats.TotalRevenue.String())
	require.Len(t, admin.RecentOrders, 2)
	assert.Equal(t, "Meera", admin.RecentOrders[0].CustomerName)
	assert.Equal(t, "Vendor Store", admin.RecentOrders[0].VendorName)

	vendorView, err := svc.Vendor(ctx, vendor.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, vendorView.Stats.TotalOrders)
	assert.True(t, decimal.NewFromInt(180).Equal(vendorView.Stats.TodayEarnings))
	assert.True(t, decimal.NewFromInt(180).Equal(vendorView.Stats.TotalEarnings))
	assert.EqualValues(t, 2, vendorView.Stats.PendingOrders)
	assert.EqualValues(t, 1, vendorView.LowStockCount)
	assert.EqualValues(t, 1, vendorView.OutOfStockCount)
	assert.Empty(t, vendorView.RecentOrders[0].VendorName)

	deliveryView, err := svc.Delivery(ctx, partner.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deliveryView.Stats.TodayDeliveries)
	assert.EqualValues(t, 1, deliveryView.Stats.TotalDeliveries)
	assert.True(t, decimal.NewFromInt(25).Equal(deliveryView.Stats.TodayEarnings))
	assert.True(t, decimal.RequireFromString("4.5").Equal(deliveryView.Stats.Rating))
	assert.Zero(t, deliveryView.ActiveTasks)
	assert.True(t, deliveryView.IsOnline)

	_, err = svc.Delivery(ctx, uuid.New())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}
