package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/repo"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/outbox"
	"github.com/angelmondragon/marketplace-backend/pkg/outbox/payloads"
)

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// InventoryReleaser returns stock when an order is cancelled or rejected.
type InventoryReleaser interface {
	Release(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error
}

// Transition is one requested status change. Updates carries extra order
// columns written by the same conditional update.
type Transition struct {
	OrderID uuid.UUID
	To      enums.OrderStatus
	Actor   enums.ActorType
	ActorID *uuid.UUID
	Notes   *string
	Updates map[string]any
}

// Lifecycle applies order transitions inside a caller-owned transaction.
type Lifecycle struct {
	repo      Repository
	outbox    outboxPublisher
	inventory InventoryReleaser
	now       func() time.Time
}

func NewLifecycle(repo Repository, outbox outboxPublisher, inventory InventoryReleaser, now func() time.Time) (*Lifecycle, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orders repository is required")
	}
	if outbox == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "outbox publisher is required")
	}
	if inventory == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "inventory releaser is required")
	}
	if now == nil {
		now = time.Now
	}
	return &Lifecycle{repo: repo, outbox: outbox, inventory: inventory, now: now}, nil
}

// Apply checks the actor's transition table, moves the order with a
// conditional update and runs the side effects of the target state.
func (l *Lifecycle) Apply(ctx context.Context, tx *gorm.DB, t Transition) (*models.Order, error) {
	if tx == nil {
		return nil, errors.New("transaction required")
	}
	r := l.repo.WithTx(tx)
	order, err := r.FindByID(ctx, t.OrderID)
	if err != nil {
		return nil, repo.MapError(err, "Order not found")
	}
	from := order.OrderStatus
	if !enums.CanTransitionOrder(t.Actor, from, t.To) {
		return nil, pkgerrors.Newf(pkgerrors.CodeStateConflict, "Cannot change order status from %s to %s", from, t.To)
	}

	now := l.now().UTC()
	updates := make(map[string]any, len(t.Updates)+2)
	for column, value := range t.Updates {
		updates[column] = value
	}
	switch t.To {
	case enums.OrderStatusReady:
		updates["delivery_partner_id"] = nil
	case enums.OrderStatusDelivered:
		updates["actual_delivery_time"] = now
		if order.PaymentMethod == enums.PaymentMethodCOD {
			updates["payment_status"] = enums.PaymentStatusPaid
		}
	}

	moved, err := r.TransitionStatus(ctx, order.ID, from, t.To, updates)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	if !moved {
		return nil, pkgerrors.Newf(pkgerrors.CodeStateConflict, "Cannot change order status from %s to %s", from, t.To)
	}

	switch {
	case t.To.RestoresStock():
		if err := l.release(ctx, tx, r, order, now); err != nil {
			return nil, err
		}
	case t.To == enums.OrderStatusReady:
		if err := l.requeue(ctx, r, order, now); err != nil {
			return nil, err
		}
	}

	if err := r.AppendHistory(ctx, &models.OrderStatusHistory{
		OrderID:     order.ID,
		Status:      t.To,
		ChangedBy:   t.Actor,
		ChangedByID: t.ActorID,
		Notes:       t.Notes,
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append order history")
	}

	data := payloads.OrderStatusChanged{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		CustomerID:  order.CustomerID,
		VendorID:    order.VendorID,
		From:        from,
		To:          t.To,
	}
	if t.Notes != nil {
		data.Note = *t.Notes
	}
	event := outbox.DomainEvent{
		EventType:     enums.EventOrderStatusChanged,
		AggregateType: enums.AggregateOrder,
		AggregateID:   order.ID,
		Actor:         actorRef(t.Actor, t.ActorID),
		Data:          data,
		OccurredAt:    now,
	}
	if err := l.outbox.Emit(ctx, tx, event); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit order status event")
	}

	updated, err := r.FindByID(ctx, order.ID)
	if err != nil {
		return nil, repo.MapError(err, "Order not found")
	}
	return updated, nil
}

// release restores stock at most once per order and closes the vendor side.
func (l *Lifecycle) release(ctx context.Context, tx *gorm.DB, r Repository, order *models.Order, now time.Time) error {
	first, err := r.MarkStockRestored(ctx, order.ID, now)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark stock restored")
	}
	if first {
		for _, item := range order.Items {
			if err := l.inventory.Release(ctx, tx, item.ProductID, item.Quantity); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restore stock")
			}
		}
	}
	if err := r.CancelVendorOrder(ctx, order.ID, now); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel vendor order")
	}
	open := append([]enums.TaskStatus{enums.TaskAssigned}, enums.ActiveTaskStatuses...)
	if err := r.CancelTasks(ctx, order.ID, open, now); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel delivery tasks")
	}
	return nil
}

// requeue puts the order back in the partner pool. Tasks still being worked
// are cancelled first so only one open task exists.
func (l *Lifecycle) requeue(ctx context.Context, r Repository, order *models.Order, now time.Time) error {
	if err := r.CancelTasks(ctx, order.ID, enums.ActiveTaskStatuses, now); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel delivery tasks")
	}
	open, err := r.HasOpenTask(ctx, order.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check delivery tasks")
	}
	if open {
		return nil
	}
	pickup, err := r.VendorPickupAddress(ctx, order.VendorID)
	if err != nil {
		return repo.MapError(err, "Vendor not found")
	}
	task := &models.DeliveryTask{
		OrderID:         order.ID,
		Status:          enums.TaskAssigned,
		PickupAddress:   pickup,
		DeliveryAddress: order.DeliveryAddress,
	}
	if err := r.CreateTask(ctx, task); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create delivery task")
	}
	return nil
}

func actorRef(actor enums.ActorType, id *uuid.UUID) *outbox.ActorRef {
	ref := &outbox.ActorRef{Type: actor}
	if id != nil {
		ref.ID = *id
	}
	return ref
}
