package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/marketplace-backend/pkg/db/dbtest"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
)

func TestCancelRestoresStockAndRecordsReason(t *testing.T) {
	f := newFixture(t)
	svc, err := NewService(f.repo, f.client, f.lifecycle)
	require.NoError(t, err)
	order := f.order(t, enums.OrderStatusConfirmed)
	reason := "ordered by mistake"

	dto, err := svc.Cancel(context.Background(), f.customer.ID, order.ID, CancelInput{Reason: &reason})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCancelled, dto.OrderStatus)
	require.NotNil(t, dto.CancellationReason)
	assert.Equal(t, reason, *dto.CancellationReason)
	assert.Equal(t, 52, f.stock(t))

	_, err = svc.Cancel(context.Background(), f.customer.ID, order.ID, CancelInput{})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeBusinessRule))
	assert.Equal(t, 52, f.stock(t), "stock is restored once")
}

func TestCancelRefusedOnceProcessing(t *testing.T) {
	f := newFixture(t)
	svc, err := NewService(f.repo, f.client, f.lifecycle)
	require.NoError(t, err)
	order := f.order(t, enums.OrderStatusProcessing)

	_, err = svc.Cancel(context.Background(), f.customer.ID, order.ID, CancelInput{})
	require.Error(t, err)
	assert.Equal(t, "Order cannot be cancelled at this stage", pkgerrors.As(err).Message())
	assert.Equal(t, 50, f.stock(t))
}

func TestCancelOtherCustomersOrder(t *testing.T) {
	f := newFixture(t)
	svc, err := NewService(f.repo, f.client, f.lifecycle)
	require.NoError(t, err)
	order := f.order(t, enums.OrderStatusPending)

	_, err = svc.Cancel(context.Background(), uuid.New(), order.ID, CancelInput{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestCustomerListFilters(t *testing.T) {
	f := newFixture(t)
	svc, err := NewService(f.repo, f.client, f.lifecycle)
	require.NoError(t, err)
	f.order(t, enums.OrderStatusPending)
	f.order(t, enums.OrderStatusOnTheWay)
	f.order(t, enums.OrderStatusDelivered)
	f.order(t, enums.OrderStatusCancelled)
	f.order(t, enums.OrderStatusRejected)
	dbtest.Order(t, f.conn, uuid.New(), f.product, 1)

	cases := map[string]int{
		"":          5,
		"ongoing":   2,
		"completed": 1,
		"cancelled": 2,
		"pending":   1,
	}
	for filter, want := range cases {
		page, err := svc.List(context.Background(), f.customer.ID, filter, pagination.Params{})
		require.NoError(t, err, filter)
		assert.EqualValues(t, want, page.Pagination.Total, filter)
	}

	page, err := svc.List(context.Background(), f.customer.ID, "ongoing", pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, "Vendor Store", page.Items[0].VendorName)
	assert.Equal(t, 1, page.Items[0].ItemCount)

	_, err = svc.List(context.Background(), f.customer.ID, "shipped", pagination.Params{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestCustomerDetailIncludesTracking(t *testing.T) {
	f := newFixture(t)
	svc, err := NewService(f.repo, f.client, f.lifecycle)
	require.NoError(t, err)
	lat, lng := 18.52, 73.85
	partner := dbtest.Partner(t, f.conn, func(p *models.DeliveryPartner) {
		p.Name = "Ravi"
		p.CurrentLat = &lat
		p.CurrentLng = &lng
	})
	order := f.order(t, enums.OrderStatusPickedUp)
	require.NoError(t, f.conn.Create(&models.DeliveryTask{
		OrderID:         order.ID,
		PartnerID:       &partner.ID,
		Status:          enums.TaskAccepted,
		PickupAddress:   "12 Market Road, Pune",
		DeliveryAddress: order.DeliveryAddress,
	}).Error)

	detail, err := svc.Detail(context.Background(), f.customer.ID, order.ID)
	require.NoError(t, err)
	require.Len(t, detail.Items, 1)
	assert.Equal(t, f.vendor.ID, detail.Vendor.ID)
	require.NotNil(t, detail.Tracking)
	assert.Equal(t, enums.TaskAccepted, detail.Tracking.Status)
	require.NotNil(t, detail.Tracking.PartnerName)
	assert.Equal(t, "Ravi", *detail.Tracking.PartnerName)
	assert.Equal(t, &lat, detail.Tracking.CurrentLat)

	pending := f.order(t, enums.OrderStatusPending)
	detail, err = svc.Detail(context.Background(), f.customer.ID, pending.ID)
	require.NoError(t, err)
	assert.Nil(t, detail.Tracking)
}

func TestVendorStatusFlow(t *testing.T) {
	f := newFixture(t)
	svc, err := NewVendorService(f.repo, f.client, f.lifecycle, func() time.Time { return fixedNow })
	require.NoError(t, err)
	order := f.order(t, enums.OrderStatusConfirmed)
	ctx := context.Background()

	_, err = svc.UpdateStatus(ctx, f.vendor.ID, order.ID, VendorStatusInput{Status: enums.VendorOrderReady})
	require.Error(t, err)
	assert.Equal(t, "Cannot change order status from pending to ready", pkgerrors.As(err).Message())

	prep := 25
	detail, err := svc.UpdateStatus(ctx, f.vendor.ID, order.ID, VendorStatusInput{Status: enums.VendorOrderAccepted, PreparationTime: &prep})
	require.NoError(t, err)
	assert.Equal(t, enums.VendorOrderAccepted, detail.VendorOrder.Status)
	assert.Equal(t, &prep, detail.VendorOrder.PreparationTime)
	assert.Equal(t, enums.OrderStatusConfirmed, detail.OrderStatus, "accept leaves the order alone")

	detail, err = svc.UpdateStatus(ctx, f.vendor.ID, order.ID, VendorStatusInput{Status: enums.VendorOrderPreparing})
	require.NoError(t, err)
	assert.NotNil(t, detail.VendorOrder.PreparedAt)
	assert.Empty(t, f.tasks(t, order.ID))

	detail, err = svc.UpdateStatus(ctx, f.vendor.ID, order.ID, VendorStatusInput{Status: enums.VendorOrderReady})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusReady, detail.OrderStatus)
	assert.NotNil(t, detail.VendorOrder.ReadyAt)
	require.Len(t, detail.History, 1)
	assert.Equal(t, enums.ActorVendor, detail.History[0].ChangedBy)
	assert.Len(t, f.tasks(t, order.ID), 1)

	_, err = svc.UpdateStatus(ctx, f.vendor.ID, order.ID, VendorStatusInput{Status: enums.VendorOrderCancelled})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))
}

func TestVendorCannotTouchOtherVendorsOrder(t *testing.T) {
	f := newFixture(t)
	svc, err := NewVendorService(f.repo, f.client, f.lifecycle, nil)
	require.NoError(t, err)
	order := f.order(t, enums.OrderStatusPending)

	_, err = svc.UpdateStatus(context.Background(), uuid.New(), order.ID, VendorStatusInput{Status: enums.VendorOrderAccepted})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	_, err = svc.Detail(context.Background(), uuid.New(), order.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestVendorListFilters(t *testing.T) {
	f := newFixture(t)
	svc, err := NewVendorService(f.repo, f.client, f.lifecycle, nil)
	require.NoError(t, err)
	other := dbtest.Customer(t, f.conn, func(c *models.Customer) { c.Name = "Meera Shah" })
	first := f.order(t, enums.OrderStatusPending)
	dbtest.Order(t, f.conn, other.ID, f.product, 1)
	require.NoError(t, f.conn.Model(&models.VendorOrder{}).Where("order_id = ?", first.ID).Update("status", enums.VendorOrderAccepted).Error)
	ctx := context.Background()

	page, err := svc.List(ctx, f.vendor.ID, VendorFilters{Search: "meera"}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Meera Shah", page.Items[0].CustomerName)

	accepted := enums.VendorOrderAccepted
	page, err = svc.List(ctx, f.vendor.ID, VendorFilters{Status: &accepted}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, first.ID, page.Items[0].ID)

	page, err = svc.List(ctx, f.vendor.ID, VendorFilters{Search: first.OrderNumber}, pagination.Params{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	page, err = svc.List(ctx, uuid.New(), VendorFilters{}, pagination.Params{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestAdminListAndOverride(t *testing.T) {
	f := newFixture(t)
	svc, err := NewAdminService(f.repo, f.client, f.lifecycle)
	require.NoError(t, err)
	order := f.order(t, enums.OrderStatusPending)
	f.order(t, enums.OrderStatusDelivered)
	ctx := context.Background()

	page, err := svc.List(ctx, AdminFilters{Search: f.customer.Phone[3:]}, pagination.Params{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Pagination.Total)
	assert.Equal(t, "Vendor Store", page.Items[0].VendorName)

	pending := enums.OrderStatusPending
	page, err = svc.List(ctx, AdminFilters{Status: &pending}, pagination.Params{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Pagination.Total)

	tomorrow := fixedNow.AddDate(1, 0, 0)
	page, err = svc.List(ctx, AdminFilters{StartDate: &tomorrow}, pagination.Params{})
	require.NoError(t, err)
	assert.Zero(t, page.Pagination.Total)

	adminID := uuid.New()
	note := "customer called"
	detail, err := svc.UpdateStatus(ctx, adminID, order.ID, AdminStatusInput{Status: enums.OrderStatusCancelled, Notes: &note})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCancelled, detail.OrderStatus)
	require.NotNil(t, detail.VendorOrder)
	assert.Equal(t, enums.VendorOrderCancelled, detail.VendorOrder.Status)
	require.Len(t, detail.History, 1)
	assert.Equal(t, enums.ActorAdmin, detail.History[0].ChangedBy)

	_, err = svc.UpdateStatus(ctx, adminID, order.ID, AdminStatusInput{Status: enums.OrderStatusConfirmed})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))

	_, err = svc.UpdateStatus(ctx, adminID, order.ID, AdminStatusInput{Status: "shipped"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Detail(ctx, uuid.New())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}
