package earnings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/orders"
	"github.com/angelmondragon/marketplace-backend/pkg/db/dbtest"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
	"github.com/angelmondragon/marketplace-backend/pkg/outbox"
	"github.com/angelmondragon/marketplace-backend/pkg/outbox/payloads"
	"github.com/angelmondragon/marketplace-backend/pkg/outbox/registry"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
)

// Wednesday; the week starts on 2026-03-02.
var fixedNow = time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

var standardFares = Fares{Base: decimal.NewFromInt(20), PerKm: decimal.NewFromInt(5), PerHour: decimal.NewFromInt(10)}

func resolved(t *testing.T, conn *gorm.DB, data payloads.DeliveryCompleted) *registry.ResolvedEvent {
	t.Helper()
	emitter := outbox.NewService(outbox.NewRepository(conn), logger.Nop())
	require.NoError(t, conn.Transaction(func(tx *gorm.DB) error {
		return emitter.Emit(context.Background(), tx, outbox.DomainEvent{
			EventType:     enums.EventDeliveryCompleted,
			AggregateType: enums.AggregateDeliveryTask,
			AggregateID:   data.TaskID,
			Data:          data,
		})
	}))
	var row models.OutboxEvent
	require.NoError(t, conn.Where("aggregate_id = ?", data.TaskID).First(&row).Error)
	event, err := registry.NewEventRegistry().Resolve(row)
	require.NoError(t, err)
	return event
}

func TestConsumerBooksEarningsOnce(t *testing.T) {
	conn := dbtest.Open(t)
	vendor := dbtest.Vendor(t, conn)
	product := dbtest.Product(t, conn, vendor.ID, dbtest.Category(t, conn).ID)
	order := dbtest.Order(t, conn, uuid.New(), product, 2)
	consumer, err := NewConsumer(NewRepository(conn), orders.NewRepository(conn), standardFares, logger.Nop())
	require.NoError(t, err)

	distance := decimal.RequireFromString("4.5")
	minutes := 30
	event := resolved(t, conn, payloads.DeliveryCompleted{
		TaskID:         uuid.New(),
		OrderID:        order.ID,
		PartnerID:      uuid.New(),
		VendorID:       vendor.ID,
		ActualDistance: &distance,
		ActualTime:     &minutes,
	})

	for i := 0; i < 2; i++ {
		require.NoError(t, conn.Transaction(func(tx *gorm.DB) error {
			return consumer.Handle(context.Background(), tx, event)
		}))
	}

	var partnerRows []models.DeliveryEarning
	require.NoError(t, conn.Find(&partnerRows).Error)
	require.Len(t, partnerRows, 1)
	assert.True(t, decimal.RequireFromString("22.5").Equal(partnerRows[0].DistanceFare))
	assert.True(t, decimal.RequireFromString("47.5").Equal(partnerRows[0].TotalAmount))
	assert.Equal(t, enums.EarningPending, partnerRows[0].PaymentStatus)

	var vendorRows []models.VendorEarning
	require.NoError(t, conn.Find(&vendorRows).Error)
	require.Len(t, vendorRows, 1)
	assert.True(t, order.Subtotal.Equal(vendorRows[0].GrossAmount))
	assert.True(t, decimal.NewFromInt(20).Equal(vendorRows[0].CommissionAmount))
	assert.True(t, decimal.NewFromInt(180).Equal(vendorRows[0].NetAmount))
}

func TestConsumerDeadLettersUnknownOrder(t *testing.T) {
	conn := dbtest.Open(t)
	consumer, err := NewConsumer(NewRepository(conn), orders.NewRepository(conn), standardFares, logger.Nop())
	require.NoError(t, err)
	event := resolved(t, conn, payloads.DeliveryCompleted{TaskID: uuid.New(), OrderID: uuid.New(), PartnerID: uuid.New()})

	err = consumer.Handle(context.Background(), conn, event)
	var nonRetry registry.NonRetryableError
	assert.True(t, errors.As(err, &nonRetry))
}

func seedEarning(t *testing.T, conn *gorm.DB, partnerID, orderID uuid.UUID, amount string, status enums.EarningStatus, at time.Time) {
	t.Helper()
	total := decimal.RequireFromString(amount)
	require.NoError(t, conn.Create(&models.DeliveryEarning{
		TaskID:        uuid.New(),
		PartnerID:     partnerID,
		OrderID:       orderID,
		BaseFare:      decimal.NewFromInt(20),
		DistanceFare:  total.Sub(decimal.NewFromInt(20)),
		TimeFare:      decimal.Zero,
		TotalAmount:   total,
		PaymentStatus: status,
		CreatedAt:     at,
	}).Error)
}

func TestPartnerEarningsSummary(t *testing.T) {
	conn := dbtest.Open(t)
	svc, err := NewService(NewRepository(conn), func() time.Time { return fixedNow })
	require.NoError(t, err)
	vendor := dbtest.Vendor(t, conn)
	order := dbtest.Order(t, conn, uuid.New(), dbtest.Product(t, conn, vendor.ID, dbtest.Category(t, conn).ID), 1)
	partnerID := uuid.New()
	seedEarning(t, conn, partnerID, order.ID, "30", enums.EarningPaid, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	seedEarning(t, conn, partnerID, uuid.New(), "47.5", enums.EarningPending, time.Date(2026, 3, 4, 8, 0, 0, 0, time.UTC))
	seedEarning(t, conn, partnerID, uuid.New(), "25", enums.EarningPending, time.Date(2026, 2, 20, 8, 0, 0, 0, time.UTC))
	seedEarning(t, conn, uuid.New(), uuid.New(), "99", enums.EarningPaid, fixedNow)
	ctx := context.Background()

	list, err := svc.PartnerEarnings(ctx, partnerID, Filters{}, pagination.Params{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, list.Pagination.Total)
	assert.True(t, decimal.NewFromInt(30).Equal(list.Summary.Paid))
	assert.True(t, decimal.RequireFromString("72.5").Equal(list.Summary.Pending))
	assert.True(t, decimal.RequireFromString("102.5").Equal(list.Summary.Total))
	assert.True(t, decimal.RequireFromString("47.5").Equal(list.Summary.Today))
	assert.Equal(t, order.OrderNumber, list.Items[1].OrderNumber)

	pending := enums.EarningPending
	list, err = svc.PartnerEarnings(ctx, partnerID, Filters{Status: &pending}, pagination.Params{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, list.Pagination.Total)
	assert.True(t, decimal.NewFromInt(30).Equal(list.Summary.Paid), "totals ignore the status filter")

	march := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	list, err = svc.PartnerEarnings(ctx, partnerID, Filters{StartDate: &march}, pagination.Params{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, list.Pagination.Total)

	week, err := svc.PartnerSummary(ctx, partnerID, PeriodWeek)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-02", week.StartDate)
	assert.Equal(t, "2026-03-08", week.EndDate)
	assert.Equal(t, 2, week.TotalDeliveries)
	assert.True(t, decimal.RequireFromString("77.5").Equal(week.TotalEarnings))
	require.Len(t, week.Daily, 3)
	assert.True(t, decimal.NewFromInt(30).Equal(week.Daily[0].Earnings))
	assert.Equal(t, 0, week.Daily[1].Deliveries)
	assert.Equal(t, 1, week.Daily[2].Deliveries)

	month, err := svc.PartnerSummary(ctx, partnerID, PeriodMonth)
	require.NoError(t, err)
	assert.Len(t, month.Daily, 4)
	assert.Equal(t, 2, month.TotalDeliveries)

	today, err := svc.PartnerSummary(ctx, partnerID, PeriodToday)
	require.NoError(t, err)
	assert.Equal(t, 1, today.TotalDeliveries)

	_, err = svc.PartnerSummary(ctx, partnerID, "year")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestVendorEarningsSummary(t *testing.T) {
	conn := dbtest.Open(t)
	svc, err := NewService(NewRepository(conn), func() time.Time { return fixedNow })
	require.NoError(t, err)
	vendorID := uuid.New()
	for _, row := range []models.VendorEarning{
		{OrderID: uuid.New(), VendorID: vendorID, GrossAmount: decimal.NewFromInt(110), CommissionAmount: decimal.NewFromInt(10), NetAmount: decimal.NewFromInt(100), Status: enums.EarningPaid},
		{OrderID: uuid.New(), VendorID: vendorID, GrossAmount: decimal.NewFromInt(55), CommissionAmount: decimal.NewFromInt(5), NetAmount: decimal.NewFromInt(50), Status: enums.EarningPending},
		{OrderID: uuid.New(), VendorID: uuid.New(), GrossAmount: decimal.NewFromInt(55), CommissionAmount: decimal.NewFromInt(5), NetAmount: decimal.NewFromInt(50), Status: enums.EarningPending},
	} {
		require.NoError(t, conn.Create(&row).Error)
	}

	out, err := svc.VendorEarnings(context.Background(), vendorID, Filters{}, pagination.Params{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, out.Pagination.Total)
	assert.True(t, decimal.NewFromInt(100).Equal(out.Summary.Paid))
	assert.True(t, decimal.NewFromInt(50).Equal(out.Summary.Pending))
	assert.True(t, decimal.NewFromInt(150).Equal(out.Summary.Total))
}
