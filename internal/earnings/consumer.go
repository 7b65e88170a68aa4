package earnings

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/orders"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
	"github.com/angelmondragon/marketplace-backend/pkg/outbox/payloads"
	"github.com/angelmondragon/marketplace-backend/pkg/outbox/registry"
)

const consumerName = "delivery-earnings"

// Consumer books partner and vendor earnings for completed deliveries. Both
// inserts are keyed uniquely so a redelivered event is a no-op.
type Consumer struct {
	repo   Repository
	orders orders.Repository
	fares  Fares
	logg   *logger.Logger
}

func NewConsumer(repo Repository, orders orders.Repository, fares Fares, logg *logger.Logger) (*Consumer, error) {
	if repo == nil {
		return nil, fmt.Errorf("earnings repository required")
	}
	if orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{repo: repo, orders: orders, fares: fares, logg: logg}, nil
}

func (c *Consumer) Name() string { return consumerName }

func (c *Consumer) Register(router *registry.Router) {
	router.Register(enums.EventDeliveryCompleted, c)
}

func (c *Consumer) Handle(ctx context.Context, tx *gorm.DB, event *registry.ResolvedEvent) error {
	payload, ok := event.Payload.(*payloads.DeliveryCompleted)
	if !ok {
		return registry.NewNonRetryableError(fmt.Errorf("unexpected payload %T", event.Payload))
	}
	ordersRepo := c.orders.WithTx(tx)
	order, err := ordersRepo.FindByID(ctx, payload.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return registry.NewNonRetryableError(fmt.Errorf("order %s not found", payload.OrderID))
		}
		return fmt.Errorf("load order: %w", err)
	}
	vendorOrder, err := ordersRepo.FindVendorOrder(ctx, order.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return registry.NewNonRetryableError(fmt.Errorf("vendor order for %s not found", order.ID))
		}
		return fmt.Errorf("load vendor order: %w", err)
	}

	r := c.repo.WithTx(tx)
	fare := c.fares.Compute(payload.ActualDistance, payload.ActualTime)
	partnerBooked, err := r.InsertDeliveryEarning(ctx, &models.DeliveryEarning{
		TaskID:        payload.TaskID,
		PartnerID:     payload.PartnerID,
		OrderID:       order.ID,
		BaseFare:      fare.BaseFare,
		DistanceFare:  fare.DistanceFare,
		TimeFare:      fare.TimeFare,
		TotalAmount:   fare.Total,
		PaymentStatus: enums.EarningPending,
	})
	if err != nil {
		return fmt.Errorf("insert delivery earning: %w", err)
	}
	vendorBooked, err := r.InsertVendorEarning(ctx, &models.VendorEarning{
		OrderID:          order.ID,
		VendorID:         vendorOrder.VendorID,
		GrossAmount:      vendorOrder.Subtotal,
		CommissionAmount: vendorOrder.CommissionAmount,
		NetAmount:        vendorOrder.NetAmount,
		Status:           enums.EarningPending,
	})
	if err != nil {
		return fmt.Errorf("insert vendor earning: %w", err)
	}

	logCtx := c.logg.WithFields(ctx, map[string]any{
		"task_id":        payload.TaskID.String(),
		"order_id":       order.ID.String(),
		"partner_booked": partnerBooked,
		"vendor_booked":  vendorBooked,
		"partner_total":  fare.Total.String(),
	})
	c.logg.Info(logCtx, "delivery earnings booked")
	return nil
}
