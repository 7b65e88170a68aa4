package delivery

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/orders"
	"github.com/angelmondragon/marketplace-backend/internal/repo"
	"github.com/angelmondragon/marketplace-backend/pkg/db"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/outbox"
	"github.com/angelmondragon/marketplace-backend/pkg/outbox/payloads"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
	"github.com/angelmondragon/marketplace-backend/pkg/ratelimit"
)

const (
	msgTaskNotFound  = "Task not found"
	msgTaskTaken     = "Task not available or already taken"
	msgOfflineList   = "You need to be online to see available tasks"
	msgOfflineAccept = "You need to be online to accept tasks"
)

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service is the delivery partner's view of the task pool.
type Service interface {
	SetAvailability(ctx context.Context, partnerID uuid.UUID, input AvailabilityInput) (*Availability, error)
	UpdateLocation(ctx context.Context, partnerID uuid.UUID, input LocationInput) error
	AvailableTasks(ctx context.Context, partnerID uuid.UUID, params pagination.Params) (pagination.Page[AvailableTask], error)
	Accept(ctx context.Context, partnerID, taskID uuid.UUID) (*TaskDTO, error)
	Tasks(ctx context.Context, partnerID uuid.UUID, filters TaskFilters, params pagination.Params) (pagination.Page[TaskSummary], error)
	Task(ctx context.Context, partnerID, taskID uuid.UUID) (*TaskDetail, error)
	UpdateTaskStatus(ctx context.Context, partnerID, taskID uuid.UUID, input StatusInput) (*TaskDTO, error)
}

type Params struct {
	Tx        db.TxRunner
	Repo      Repository
	Orders    orders.Repository
	Lifecycle *orders.Lifecycle
	Outbox    outboxPublisher
	// Pings is the per-partner location throttle. Nil disables throttling.
	Pings *ratelimit.Keyed[uuid.UUID]
	Now   func() time.Time
}

type service struct {
	tx        db.TxRunner
	repo      Repository
	orders    orders.Repository
	lifecycle *orders.Lifecycle
	outbox    outboxPublisher
	pings     *ratelimit.Keyed[uuid.UUID]
	now       func() time.Time
}

func NewService(p Params) (Service, error) {
	switch {
	case p.Tx == nil:
		return nil, fmt.Errorf("tx runner required")
	case p.Repo == nil:
		return nil, fmt.Errorf("delivery repository required")
	case p.Orders == nil:
		return nil, fmt.Errorf("orders repository required")
	case p.Lifecycle == nil:
		return nil, fmt.Errorf("order lifecycle required")
	case p.Outbox == nil:
		return nil, fmt.Errorf("outbox publisher required")
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	return &service{
		tx:        p.Tx,
		repo:      p.Repo,
		orders:    p.Orders,
		lifecycle: p.Lifecycle,
		outbox:    p.Outbox,
		pings:     p.Pings,
		now:       p.Now,
	}, nil
}

func (s *service) SetAvailability(ctx context.Context, partnerID uuid.UUID, input AvailabilityInput) (*Availability, error) {
	if input.IsOnline == nil {
		return nil, pkgerrors.Validation(map[string]string{"is_online": "is required"})
	}
	if (input.Lat == nil) != (input.Lng == nil) {
		return nil, pkgerrors.Validation(map[string]string{"lat": "lat and lng must be sent together"})
	}
	online := *input.IsOnline
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		updates := map[string]any{"is_online": online}
		if input.Lat != nil {
			now := s.now().UTC()
			updates["current_lat"] = *input.Lat
			updates["current_lng"] = *input.Lng
			updates["last_location_at"] = now
		}
		if err := r.UpdatePartner(ctx, partnerID, updates); err != nil {
			return repo.MapError(err, "Delivery partner not found")
		}
		if input.Lat == nil {
			return nil
		}
		if err := r.AppendLocation(ctx, &models.DeliveryLocation{
			PartnerID: partnerID,
			Lat:       *input.Lat,
			Lng:       *input.Lng,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append location")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := &Availability{IsOnline: online, Message: "You are now offline"}
	if online {
		out.Message = "You are now online"
	}
	return out, nil
}

func (s *service) UpdateLocation(ctx context.Context, partnerID uuid.UUID, input LocationInput) error {
	if input.Lat < -90 || input.Lat > 90 || input.Lng < -180 || input.Lng > 180 {
		return pkgerrors.Validation(map[string]string{"lat": "coordinates out of range"})
	}
	if s.pings != nil && !s.pings.Allow(partnerID) {
		return pkgerrors.New(pkgerrors.CodeRateLimit, "Too many location updates")
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		if input.TaskID != nil {
			if _, err := r.FindTaskForPartner(ctx, partnerID, *input.TaskID); err != nil {
				return repo.MapError(err, msgTaskNotFound)
			}
		}
		if err := r.UpdatePartner(ctx, partnerID, map[string]any{
			"current_lat":      input.Lat,
			"current_lng":      input.Lng,
			"last_location_at": s.now().UTC(),
		}); err != nil {
			return repo.MapError(err, "Delivery partner not found")
		}
		if err := r.AppendLocation(ctx, &models.DeliveryLocation{
			PartnerID:    partnerID,
			TaskID:       input.TaskID,
			Lat:          input.Lat,
			Lng:          input.Lng,
			Speed:        input.Speed,
			BatteryLevel: input.BatteryLevel,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append location")
		}
		return nil
	})
}

func (s *service) AvailableTasks(ctx context.Context, partnerID uuid.UUID, params pagination.Params) (pagination.Page[AvailableTask], error) {
	if err := s.requireOnline(ctx, s.repo, partnerID, msgOfflineList); err != nil {
		return pagination.Page[AvailableTask]{}, err
	}
	params = params.Normalize()
	rows, total, err := s.repo.ListAvailable(ctx, params)
	if err != nil {
		return pagination.Page[AvailableTask]{}, repo.MapError(err, msgTaskNotFound)
	}
	orderRows, err := s.orders.FindByIDs(ctx, taskOrderIDs(rows))
	if err != nil {
		return pagination.Page[AvailableTask]{}, repo.MapError(err, "Order not found")
	}
	vendorRows, err := s.orders.Vendors(ctx, vendorIDs(orderRows))
	if err != nil {
		return pagination.Page[AvailableTask]{}, repo.MapError(err, "Vendor not found")
	}
	items := make([]AvailableTask, 0, len(rows))
	for _, row := range rows {
		order := orderRows[row.OrderID]
		vendor := vendorRows[order.VendorID]
		items = append(items, AvailableTask{
			TaskDTO:       FromModel(row),
			OrderNumber:   order.OrderNumber,
			FinalAmount:   order.FinalAmount,
			VendorName:    vendor.BusinessName,
			VendorAddress: vendor.BusinessAddress,
		})
	}
	return pagination.NewPage(items, params, total), nil
}

// Accept claims a pooled task. The claim, the order hand-off and its history
// commit together.
func (s *service) Accept(ctx context.Context, partnerID, taskID uuid.UUID) (*TaskDTO, error) {
	var out *TaskDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		if err := s.requireOnline(ctx, r, partnerID, msgOfflineAccept); err != nil {
			return err
		}
		claimed, err := r.ClaimTask(ctx, taskID, partnerID, s.now().UTC())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claim task")
		}
		if !claimed {
			return pkgerrors.New(pkgerrors.CodeBusinessRule, msgTaskTaken)
		}
		task, err := r.FindTask(ctx, taskID)
		if err != nil {
			return repo.MapError(err, msgTaskNotFound)
		}
		if _, err := s.lifecycle.Apply(ctx, tx, orders.Transition{
			OrderID: task.OrderID,
			To:      enums.OrderStatusPickedUp,
			Actor:   enums.ActorDelivery,
			ActorID: &partnerID,
			Updates: map[string]any{"delivery_partner_id": partnerID},
		}); err != nil {
			if pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
				return pkgerrors.New(pkgerrors.CodeBusinessRule, msgTaskTaken)
			}
			return err
		}
		dto := FromModel(*task)
		out = &dto
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) Tasks(ctx context.Context, partnerID uuid.UUID, filters TaskFilters, params pagination.Params) (pagination.Page[TaskSummary], error) {
	params = params.Normalize()
	rows, total, err := s.repo.ListForPartner(ctx, partnerID, filters, params)
	if err != nil {
		return pagination.Page[TaskSummary]{}, repo.MapError(err, msgTaskNotFound)
	}
	orderRows, err := s.orders.FindByIDs(ctx, taskOrderIDs(rows))
	if err != nil {
		return pagination.Page[TaskSummary]{}, repo.MapError(err, "Order not found")
	}
	vendorRows, err := s.orders.Vendors(ctx, vendorIDs(orderRows))
	if err != nil {
		return pagination.Page[TaskSummary]{}, repo.MapError(err, "Vendor not found")
	}
	customerIDs := make([]uuid.UUID, 0, len(orderRows))
	for _, order := range orderRows {
		customerIDs = append(customerIDs, order.CustomerID)
	}
	customers, err := s.orders.Customers(ctx, customerIDs)
	if err != nil {
		return pagination.Page[TaskSummary]{}, repo.MapError(err, "Customer not found")
	}
	items := make([]TaskSummary, 0, len(rows))
	for _, row := range rows {
		order := orderRows[row.OrderID]
		customer := customers[order.CustomerID]
		items = append(items, TaskSummary{
			TaskDTO:       FromModel(row),
			OrderNumber:   order.OrderNumber,
			FinalAmount:   order.FinalAmount,
			VendorName:    vendorRows[order.VendorID].BusinessName,
			CustomerName:  customer.Name,
			CustomerPhone: customer.Phone,
		})
	}
	return pagination.NewPage(items, params, total), nil
}

func (s *service) Task(ctx context.Context, partnerID, taskID uuid.UUID) (*TaskDetail, error) {
	task, err := s.repo.FindTaskForPartner(ctx, partnerID, taskID)
	if err != nil {
		return nil, repo.MapError(err, msgTaskNotFound)
	}
	order, err := s.orders.FindByID(ctx, task.OrderID)
	if err != nil {
		return nil, repo.MapError(err, "Order not found")
	}
	vendorRows, err := s.orders.Vendors(ctx, []uuid.UUID{order.VendorID})
	if err != nil {
		return nil, repo.MapError(err, "Vendor not found")
	}
	customers, err := s.orders.Customers(ctx, []uuid.UUID{order.CustomerID})
	if err != nil {
		return nil, repo.MapError(err, "Customer not found")
	}
	vendor := vendorRows[order.VendorID]
	customer := customers[order.CustomerID]
	items := make([]TaskItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, TaskItem{ProductName: item.ProductName, Quantity: item.Quantity, TotalPrice: item.TotalPrice})
	}
	return &TaskDetail{
		TaskDTO:       FromModel(*task),
		OrderNumber:   order.OrderNumber,
		FinalAmount:   order.FinalAmount,
		PaymentMethod: order.PaymentMethod,
		CustomerNotes: order.CustomerNotes,
		Vendor:        Party{Name: vendor.BusinessName, Phone: vendor.Phone, Address: vendor.BusinessAddress},
		Customer:      Party{Name: customer.Name, Phone: customer.Phone, Address: &order.DeliveryAddress},
		Items:         items,
	}, nil
}

// UpdateTaskStatus moves the partner's task and carries the order along:
// on_the_way and delivered follow the task, cancelled and failed hand the
// order back to the pool.
func (s *service) UpdateTaskStatus(ctx context.Context, partnerID, taskID uuid.UUID, input StatusInput) (*TaskDTO, error) {
	switch input.Status {
	case enums.TaskPickedUp, enums.TaskOnTheWay, enums.TaskDelivered, enums.TaskCancelled, enums.TaskFailed:
	default:
		return nil, pkgerrors.Validation(map[string]string{"status": "is invalid"})
	}
	if input.ActualDistance != nil && input.ActualDistance.IsNegative() {
		return nil, pkgerrors.Validation(map[string]string{"actual_distance": "must be at least 0"})
	}
	if input.ActualTime != nil && *input.ActualTime < 0 {
		return nil, pkgerrors.Validation(map[string]string{"actual_time": "must be at least 0"})
	}

	var out *TaskDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		task, err := r.FindTaskForPartner(ctx, partnerID, taskID)
		if err != nil {
			return repo.MapError(err, msgTaskNotFound)
		}
		from := task.Status
		if !from.CanTransitionTo(input.Status) {
			return pkgerrors.Newf(pkgerrors.CodeStateConflict, "Cannot change task status from %s to %s", from, input.Status)
		}

		now := s.now().UTC()
		updates := map[string]any{}
		if input.Notes != nil {
			updates["notes"] = *input.Notes
		}
		if input.ActualDistance != nil {
			updates["actual_distance"] = input.ActualDistance.Round(2)
		}
		if input.ActualTime != nil {
			updates["actual_time"] = *input.ActualTime
		}
		if input.Status.IsFinished() {
			updates["completed_at"] = now
		}
		moved, err := r.TransitionTask(ctx, task.ID, from, input.Status, updates)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update task status")
		}
		if !moved {
			return pkgerrors.Newf(pkgerrors.CodeStateConflict, "Cannot change task status from %s to %s", from, input.Status)
		}

		updated, err := r.FindTask(ctx, task.ID)
		if err != nil {
			return repo.MapError(err, msgTaskNotFound)
		}
		if err := s.followOrder(ctx, tx, partnerID, updated, input); err != nil {
			return err
		}
		dto := FromModel(*updated)
		out = &dto
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) followOrder(ctx context.Context, tx *gorm.DB, partnerID uuid.UUID, task *models.DeliveryTask, input StatusInput) error {
	transition := orders.Transition{
		OrderID: task.OrderID,
		Actor:   enums.ActorDelivery,
		ActorID: &partnerID,
		Notes:   input.Notes,
	}
	switch {
	case input.Status == enums.TaskOnTheWay:
		order, err := s.orders.WithTx(tx).FindByID(ctx, task.OrderID)
		if err != nil {
			return repo.MapError(err, "Order not found")
		}
		if order.OrderStatus == enums.OrderStatusOnTheWay {
			return nil
		}
		transition.To = enums.OrderStatusOnTheWay
	case input.Status == enums.TaskDelivered:
		transition.To = enums.OrderStatusDelivered
	case input.Status.ReleasesOrder():
		transition.To = enums.OrderStatusReady
	default:
		return nil
	}

	order, err := s.lifecycle.Apply(ctx, tx, transition)
	if err != nil {
		return err
	}
	if transition.To != enums.OrderStatusDelivered {
		return nil
	}
	event := outbox.DomainEvent{
		EventType:     enums.EventDeliveryCompleted,
		AggregateType: enums.AggregateDeliveryTask,
		AggregateID:   task.ID,
		Actor:         &outbox.ActorRef{ID: partnerID, Type: enums.ActorDelivery},
		OccurredAt:    s.now().UTC(),
		Data: payloads.DeliveryCompleted{
			TaskID:         task.ID,
			OrderID:        order.ID,
			OrderNumber:    order.OrderNumber,
			PartnerID:      partnerID,
			VendorID:       order.VendorID,
			CustomerID:     order.CustomerID,
			ActualDistance: task.ActualDistance,
			ActualTime:     task.ActualTime,
		},
	}
	if err := s.outbox.Emit(ctx, tx, event); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit delivery completed event")
	}
	return nil
}

func (s *service) requireOnline(ctx context.Context, r Repository, partnerID uuid.UUID, message string) error {
	partner, err := r.FindPartner(ctx, partnerID)
	if err != nil {
		return repo.MapError(err, "Delivery partner not found")
	}
	if !partner.IsOnline {
		return pkgerrors.New(pkgerrors.CodeBusinessRule, message)
	}
	return nil
}

func taskOrderIDs(rows []models.DeliveryTask) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.OrderID)
	}
	return ids
}

func vendorIDs(rows map[uuid.UUID]models.Order) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.VendorID)
	}
	return ids
}
