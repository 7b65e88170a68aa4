package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/repo"
	"github.com/angelmondragon/marketplace-backend/pkg/db"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
)

// VendorService covers the vendor's view of its orders and the sub-order
// state machine.
type VendorService interface {
	List(ctx context.Context, vendorID uuid.UUID, filters VendorFilters, params pagination.Params) (pagination.Page[VendorSummary], error)
	Detail(ctx context.Context, vendorID, orderID uuid.UUID) (*VendorDetail, error)
	UpdateStatus(ctx context.Context, vendorID, orderID uuid.UUID, input VendorStatusInput) (*VendorDetail, error)
}

type vendorService struct {
	repo      Repository
	tx        db.TxRunner
	lifecycle *Lifecycle
	now       func() time.Time
}

func NewVendorService(repo Repository, tx db.TxRunner, lifecycle *Lifecycle, now func() time.Time) (VendorService, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orders repository is required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction runner is required")
	}
	if lifecycle == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order lifecycle is required")
	}
	if now == nil {
		now = time.Now
	}
	return &vendorService{repo: repo, tx: tx, lifecycle: lifecycle, now: now}, nil
}

func (s *vendorService) List(ctx context.Context, vendorID uuid.UUID, filters VendorFilters, params pagination.Params) (pagination.Page[VendorSummary], error) {
	params = params.Normalize()
	rows, total, err := s.repo.ListVendor(ctx, vendorID, filters, params)
	if err != nil {
		return pagination.Page[VendorSummary]{}, repo.MapError(err, "Order not found")
	}
	ids, _ := orderKeys(rows)
	counts, err := s.repo.ItemCounts(ctx, ids)
	if err != nil {
		return pagination.Page[VendorSummary]{}, repo.MapError(err, "Order not found")
	}
	subOrders, err := s.repo.VendorOrders(ctx, ids)
	if err != nil {
		return pagination.Page[VendorSummary]{}, repo.MapError(err, "Order not found")
	}
	customers, err := s.repo.Customers(ctx, customerKeys(rows))
	if err != nil {
		return pagination.Page[VendorSummary]{}, repo.MapError(err, "Customer not found")
	}
	items := make([]VendorSummary, 0, len(rows))
	for _, row := range rows {
		items = append(items, VendorSummary{
			OrderDTO:     FromModel(row),
			VendorOrder:  VendorOrderFromModel(subOrders[row.ID]),
			CustomerName: customers[row.CustomerID].Name,
			ItemCount:    counts[row.ID],
		})
	}
	return pagination.NewPage(items, params, total), nil
}

func (s *vendorService) Detail(ctx context.Context, vendorID, orderID uuid.UUID) (*VendorDetail, error) {
	return s.detail(ctx, s.repo, vendorID, orderID)
}

func (s *vendorService) detail(ctx context.Context, r Repository, vendorID, orderID uuid.UUID) (*VendorDetail, error) {
	order, err := r.FindForVendor(ctx, vendorID, orderID)
	if err != nil {
		return nil, repo.MapError(err, "Order not found")
	}
	subOrder, err := r.FindVendorOrder(ctx, order.ID)
	if err != nil {
		return nil, repo.MapError(err, "Order not found")
	}
	history, err := r.History(ctx, order.ID)
	if err != nil {
		return nil, repo.MapError(err, "Order not found")
	}
	customers, err := r.Customers(ctx, []uuid.UUID{order.CustomerID})
	if err != nil {
		return nil, repo.MapError(err, "Customer not found")
	}
	customer := customers[order.CustomerID]
	return &VendorDetail{
		OrderDTO:    FromModel(*order),
		VendorOrder: VendorOrderFromModel(*subOrder),
		Items:       itemsFromModels(order.Items),
		History:     historyFromModels(history),
		Customer:    Contact{ID: customer.ID, Name: customer.Name, Phone: customer.Phone},
	}, nil
}

// UpdateStatus moves the vendor sub-order. Only ready touches the parent
// order: it is promoted to ready and queued for delivery in the same
// transaction.
func (s *vendorService) UpdateStatus(ctx context.Context, vendorID, orderID uuid.UUID, input VendorStatusInput) (*VendorDetail, error) {
	if !input.Status.IsValid() {
		return nil, pkgerrors.Validation(map[string]string{"status": "is invalid"})
	}
	var result *VendorDetail
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		order, err := r.FindForVendor(ctx, vendorID, orderID)
		if err != nil {
			return repo.MapError(err, "Order not found")
		}
		subOrder, err := r.FindVendorOrder(ctx, order.ID)
		if err != nil {
			return repo.MapError(err, "Order not found")
		}
		from := subOrder.Status
		if !from.CanTransitionTo(input.Status) {
			return pkgerrors.Newf(pkgerrors.CodeStateConflict, "Cannot change order status from %s to %s", from, input.Status)
		}

		now := s.now().UTC()
		updates := map[string]any{}
		switch input.Status {
		case enums.VendorOrderAccepted:
			updates["accepted_at"] = now
		case enums.VendorOrderPreparing:
			updates["prepared_at"] = now
		case enums.VendorOrderReady:
			updates["ready_at"] = now
		case enums.VendorOrderCancelled:
			updates["cancelled_at"] = now
		}
		if input.PreparationTime != nil {
			updates["preparation_time"] = *input.PreparationTime
		}
		if input.Notes != nil {
			updates["vendor_notes"] = *input.Notes
		}
		moved, err := r.TransitionVendorOrder(ctx, order.ID, from, input.Status, updates)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update vendor order")
		}
		if !moved {
			return pkgerrors.Newf(pkgerrors.CodeStateConflict, "Cannot change order status from %s to %s", from, input.Status)
		}

		if input.Status == enums.VendorOrderReady && enums.CanTransitionOrder(enums.ActorVendor, order.OrderStatus, enums.OrderStatusReady) {
			if _, err := s.lifecycle.Apply(ctx, tx, Transition{
				OrderID: order.ID,
				To:      enums.OrderStatusReady,
				Actor:   enums.ActorVendor,
				ActorID: &vendorID,
				Notes:   input.Notes,
			}); err != nil {
				return err
			}
		}

		result, err = s.detail(ctx, r, vendorID, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
