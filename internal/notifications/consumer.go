package notifications

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
	"github.com/angelmondragon/marketplace-backend/pkg/outbox/payloads"
	"github.com/angelmondragon/marketplace-backend/pkg/outbox/registry"
)

const consumerName = "notifications"

// Consumer turns domain events into feed entries. It runs inside the outbox
// batch transaction, so a row is written once per published event.
type Consumer struct {
	repo Repository
	logg *logger.Logger
}

// NewConsumer builds the notification fan-out.
func NewConsumer(repo Repository, logg *logger.Logger) (*Consumer, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{repo: repo, logg: logg}, nil
}

func (c *Consumer) Name() string { return consumerName }

// Register routes every notifying event to the consumer. Register it after
// the earnings consumer so completed deliveries can quote the booked amount.
func (c *Consumer) Register(router *registry.Router) {
	router.Register(enums.EventOrderPlaced, c)
	router.Register(enums.EventOrderStatusChanged, c)
	router.Register(enums.EventDeliveryCompleted, c)
	router.Register(enums.EventTicketReplied, c)
}

func (c *Consumer) Handle(ctx context.Context, tx *gorm.DB, event *registry.ResolvedEvent) error {
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"event_id":   event.Row.ID.String(),
		"event_type": string(event.Row.EventType),
	})

	var (
		notification *models.Notification
		err          error
	)
	switch payload := event.Payload.(type) {
	case *payloads.OrderPlaced:
		notification = orderPlaced(payload)
	case *payloads.OrderStatusChanged:
		notification = orderStatusChanged(payload)
	case *payloads.DeliveryCompleted:
		notification, err = c.deliveryCompleted(ctx, tx, payload)
	case *payloads.TicketReplied:
		notification = ticketReplied(payload)
	default:
		return registry.NewNonRetryableError(fmt.Errorf("unexpected payload %T", event.Payload))
	}
	if err != nil {
		return err
	}
	if notification == nil {
		c.logg.Debug(logCtx, "event has no recipient")
		return nil
	}

	if err := c.repo.WithTx(tx).Create(ctx, notification); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	c.logg.Info(c.logg.WithFields(logCtx, map[string]any{
		"recipient_type": string(notification.RecipientType),
		"recipient_id":   notification.RecipientID.String(),
	}), "notification created")
	return nil
}

func orderPlaced(p *payloads.OrderPlaced) *models.Notification {
	return &models.Notification{
		RecipientType: enums.RoleVendor,
		RecipientID:   p.VendorID,
		Type:          enums.NotificationOrderPlaced,
		Title:         "New order received",
		Message:       fmt.Sprintf("Order %s for %s is waiting for confirmation.", p.OrderNumber, p.FinalAmount.StringFixed(2)),
		Data: map[string]any{
			"order_id":     p.OrderID.String(),
			"order_number": p.OrderNumber,
		},
	}
}

var statusMessages = map[enums.OrderStatus]string{
	enums.OrderStatusConfirmed:  "Your order %s has been confirmed.",
	enums.OrderStatusProcessing: "Your order %s is being prepared.",
	enums.OrderStatusReady:      "Your order %s is ready for pickup.",
	enums.OrderStatusPickedUp:   "Your order %s has been picked up.",
	enums.OrderStatusOnTheWay:   "Your order %s is on the way.",
	enums.OrderStatusDelivered:  "Your order %s has been delivered.",
	enums.OrderStatusCancelled:  "Your order %s has been cancelled.",
	enums.OrderStatusRejected:   "Your order %s was rejected by the store.",
}

func orderStatusChanged(p *payloads.OrderStatusChanged) *models.Notification {
	format, ok := statusMessages[p.To]
	if !ok {
		format = "Your order %s status changed to " + string(p.To) + "."
	}
	message := fmt.Sprintf(format, p.OrderNumber)
	if p.Note != "" {
		message += " " + p.Note
	}
	return &models.Notification{
		RecipientType: enums.RoleCustomer,
		RecipientID:   p.CustomerID,
		Type:          enums.NotificationOrderStatusChanged,
		Title:         "Order update",
		Message:       message,
		Data: map[string]any{
			"order_id":     p.OrderID.String(),
			"order_number": p.OrderNumber,
			"status":       string(p.To),
		},
	}
}

func (c *Consumer) deliveryCompleted(ctx context.Context, tx *gorm.DB, p *payloads.DeliveryCompleted) (*models.Notification, error) {
	data := map[string]any{
		"task_id":      p.TaskID.String(),
		"order_id":     p.OrderID.String(),
		"order_number": p.OrderNumber,
	}
	message := fmt.Sprintf("Delivery of order %s is complete. Your earning has been credited.", p.OrderNumber)

	var earning models.DeliveryEarning
	err := tx.WithContext(ctx).Where("task_id = ?", p.TaskID).First(&earning).Error
	switch {
	case err == nil:
		amount := earning.TotalAmount.StringFixed(2)
		data["amount"] = amount
		message = fmt.Sprintf("Delivery of order %s is complete. %s has been credited.", p.OrderNumber, amount)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("load delivery earning: %w", err)
	}

	return &models.Notification{
		RecipientType: enums.RoleDelivery,
		RecipientID:   p.PartnerID,
		Type:          enums.NotificationEarningCredited,
		Title:         "Earning credited",
		Message:       message,
		Data:          data,
	}, nil
}

// ticketReplied notifies the customer of admin replies and the assignee of
// customer replies. Unassigned customer replies reach nobody.
func ticketReplied(p *payloads.TicketReplied) *models.Notification {
	recipient := Recipient{Role: enums.RoleCustomer, ID: p.CustomerID}
	if p.AuthorType == enums.AuthorCustomer {
		if p.AssignedTo == nil || *p.AssignedTo == uuid.Nil {
			return nil
		}
		recipient = Recipient{Role: enums.RoleAdmin, ID: *p.AssignedTo}
	}
	return &models.Notification{
		RecipientType: recipient.Role,
		RecipientID:   recipient.ID,
		Type:          enums.NotificationTicketReplied,
		Title:         "New reply on ticket " + p.TicketNumber,
		Message:       fmt.Sprintf("Ticket %s has a new reply.", p.TicketNumber),
		Data: map[string]any{
			"ticket_id":     p.TicketID.String(),
			"ticket_number": p.TicketNumber,
			"reply_id":      p.ReplyID.String(),
		},
	}
}
