package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/pkg/db/dbtest"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
	"github.com/angelmondragon/marketplace-backend/pkg/outbox/payloads"
	"github.com/angelmondragon/marketplace-backend/pkg/outbox/registry"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
)

var fixedNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func seed(t *testing.T, conn *gorm.DB, recipient Recipient, read bool) models.Notification {
	t.Helper()
	row := models.Notification{
		RecipientType: recipient.Role,
		RecipientID:   recipient.ID,
		Type:          enums.NotificationOrderStatusChanged,
		Title:         "Order update",
		Message:       "Your order is on the way.",
	}
	if read {
		at := fixedNow.Add(-time.Hour)
		row.ReadAt = &at
	}
	require.NoError(t, conn.Create(&row).Error)
	return row
}

func TestServiceListAndRead(t *testing.T) {
	conn := dbtest.Open(t)
	svc, err := NewService(NewRepository(conn), func() time.Time { return fixedNow })
	require.NoError(t, err)
	ctx := context.Background()

	me := Recipient{Role: enums.RoleCustomer, ID: uuid.New()}
	first := seed(t, conn, me, false)
	seed(t, conn, me, false)
	seed(t, conn, me, true)
	// Same id under another role is a different feed.
	other := seed(t, conn, Recipient{Role: enums.RoleVendor, ID: me.ID}, false)

	feed, err := svc.List(ctx, me, nil, pagination.Params{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, feed.Pagination.Total)
	assert.EqualValues(t, 2, feed.UnreadCount)

	unread := false
	feed, err = svc.List(ctx, me, &unread, pagination.Params{})
	require.NoError(t, err)
	assert.Len(t, feed.Items, 2)
	for _, item := range feed.Items {
		assert.False(t, item.IsRead)
		assert.NotNil(t, item.Data)
	}

	require.NoError(t, svc.MarkRead(ctx, me, first.ID))
	require.NoError(t, svc.MarkRead(ctx, me, first.ID), "marking twice is fine")

	err = svc.MarkRead(ctx, me, other.ID)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	count, err := svc.MarkAllRead(ctx, me)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	feed, err = svc.List(ctx, me, nil, pagination.Params{})
	require.NoError(t, err)
	assert.Zero(t, feed.UnreadCount)

	_, err = svc.List(ctx, Recipient{Role: "robot", ID: uuid.New()}, nil, pagination.Params{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}

func TestDeleteReadBefore(t *testing.T) {
	conn := dbtest.Open(t)
	repository := NewRepository(conn)
	me := Recipient{Role: enums.RoleDelivery, ID: uuid.New()}
	seed(t, conn, me, true)
	seed(t, conn, me, false)

	deleted, err := repository.DeleteReadBefore(context.Background(), fixedNow)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	deleted, err = repository.DeleteReadBefore(context.Background(), fixedNow.Add(-48*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func handle(t *testing.T, conn *gorm.DB, consumer *Consumer, payload any) {
	t.Helper()
	require.NoError(t, conn.Transaction(func(tx *gorm.DB) error {
		return consumer.Handle(context.Background(), tx, &registry.ResolvedEvent{Payload: payload})
	}))
}

func feedOf(t *testing.T, conn *gorm.DB, recipient Recipient) []models.Notification {
	t.Helper()
	var rows []models.Notification
	require.NoError(t, conn.Where("recipient_type = ? AND recipient_id = ?", recipient.Role, recipient.ID).Find(&rows).Error)
	return rows
}

func TestConsumerRoutesRecipients(t *testing.T) {
	conn := dbtest.Open(t)
	consumer, err := NewConsumer(NewRepository(conn), logger.Nop())
	require.NoError(t, err)

	vendorID, customerID, partnerID, adminID := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	orderID, taskID := uuid.New(), uuid.New()

	handle(t, conn, consumer, &payloads.OrderPlaced{OrderID: orderID, OrderNumber: "ORD1", CustomerID: customerID, VendorID: vendorID, FinalAmount: decimal.NewFromInt(240)})
	rows := feedOf(t, conn, Recipient{Role: enums.RoleVendor, ID: vendorID})
	require.Len(t, rows, 1)
	assert.Equal(t, enums.NotificationOrderPlaced, rows[0].Type)
	assert.Equal(t, "Order ORD1 for 240.00 is waiting for confirmation.", rows[0].Message)
	assert.Equal(t, orderID.String(), rows[0].Data["order_id"])

	handle(t, conn, consumer, &payloads.OrderStatusChanged{OrderID: orderID, OrderNumber: "ORD1", CustomerID: customerID, To: enums.OrderStatusOnTheWay})
	rows = feedOf(t, conn, Recipient{Role: enums.RoleCustomer, ID: customerID})
	require.Len(t, rows, 1)
	assert.Equal(t, "Your order ORD1 is on the way.", rows[0].Message)

	require.NoError(t, conn.Create(&models.DeliveryEarning{
		TaskID:        taskID,
		PartnerID:     partnerID,
		OrderID:       orderID,
		BaseFare:      decimal.NewFromInt(20),
		DistanceFare:  decimal.Zero,
		TimeFare:      decimal.Zero,
		TotalAmount:   decimal.NewFromInt(20),
		PaymentStatus: enums.EarningPending,
	}).Error)
	handle(t, conn, consumer, &payloads.DeliveryCompleted{TaskID: taskID, OrderID: orderID, OrderNumber: "ORD1", PartnerID: partnerID})
	rows = feedOf(t, conn, Recipient{Role: enums.RoleDelivery, ID: partnerID})
	require.Len(t, rows, 1)
	assert.Equal(t, enums.NotificationEarningCredited, rows[0].Type)
	assert.Equal(t, "20.00", rows[0].Data["amount"])

	handle(t, conn, consumer, &payloads.TicketReplied{TicketID: uuid.New(), TicketNumber: "TKT1", AuthorType: enums.AuthorCustomer, CustomerID: customerID})
	handle(t, conn, consumer, &payloads.TicketReplied{TicketID: uuid.New(), TicketNumber: "TKT2", AuthorType: enums.AuthorCustomer, CustomerID: customerID, AssignedTo: &adminID})
	handle(t, conn, consumer, &payloads.TicketReplied{TicketID: uuid.New(), TicketNumber: "TKT3", AuthorType: enums.AuthorAdmin, CustomerID: customerID, AssignedTo: &adminID})
	assert.Len(t, feedOf(t, conn, Recipient{Role: enums.RoleAdmin, ID: adminID}), 1)
	assert.Len(t, feedOf(t, conn, Recipient{Role: enums.RoleCustomer, ID: customerID}), 2)
}

func TestConsumerRejectsUnknownPayload(t *testing.T) {
	conn := dbtest.Open(t)
	consumer, err := NewConsumer(NewRepository(conn), logger.Nop())
	require.NoError(t, err)

	err = consumer.Handle(context.Background(), conn, &registry.ResolvedEvent{Payload: "nope"})
	var nonRetryable registry.NonRetryableError
	assert.ErrorAs(t, err, &nonRetryable)

	router := registry.NewRouter()
	consumer.Register(router)
	assert.Len(t, router.Handlers(enums.EventTicketReplied), 1)
}
