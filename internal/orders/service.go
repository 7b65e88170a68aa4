package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/repo"
	"github.com/angelmondragon/marketplace-backend/internal/vendors"
	"github.com/angelmondragon/marketplace-backend/pkg/db"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
)

// Service is the customer side of orders.
type Service interface {
	List(ctx context.Context, customerID uuid.UUID, filter string, params pagination.Params) (pagination.Page[CustomerSummary], error)
	Detail(ctx context.Context, customerID, orderID uuid.UUID) (*CustomerDetail, error)
	Cancel(ctx context.Context, customerID, orderID uuid.UUID, input CancelInput) (*OrderDTO, error)
}

type service struct {
	repo      Repository
	tx        db.TxRunner
	lifecycle *Lifecycle
}

func NewService(repo Repository, tx db.TxRunner, lifecycle *Lifecycle) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orders repository is required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction runner is required")
	}
	if lifecycle == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order lifecycle is required")
	}
	return &service{repo: repo, tx: tx, lifecycle: lifecycle}, nil
}

func (s *service) List(ctx context.Context, customerID uuid.UUID, filter string, params pagination.Params) (pagination.Page[CustomerSummary], error) {
	statuses, ok := CustomerStatuses(filter)
	if !ok {
		return pagination.Page[CustomerSummary]{}, pkgerrors.Validation(map[string]string{"status": "is invalid"})
	}
	params = params.Normalize()
	rows, total, err := s.repo.ListCustomer(ctx, customerID, statuses, params)
	if err != nil {
		return pagination.Page[CustomerSummary]{}, repo.MapError(err, "Order not found")
	}
	ids, vendorIDs := orderKeys(rows)
	counts, err := s.repo.ItemCounts(ctx, ids)
	if err != nil {
		return pagination.Page[CustomerSummary]{}, repo.MapError(err, "Order not found")
	}
	vendorRows, err := s.repo.Vendors(ctx, vendorIDs)
	if err != nil {
		return pagination.Page[CustomerSummary]{}, repo.MapError(err, "Vendor not found")
	}
	items := make([]CustomerSummary, 0, len(rows))
	for _, row := range rows {
		items = append(items, CustomerSummary{
			OrderDTO:   FromModel(row),
			VendorName: vendorRows[row.VendorID].BusinessName,
			ItemCount:  counts[row.ID],
		})
	}
	return pagination.NewPage(items, params, total), nil
}

func (s *service) Detail(ctx context.Context, customerID, orderID uuid.UUID) (*CustomerDetail, error) {
	order, err := s.repo.FindForCustomer(ctx, customerID, orderID)
	if err != nil {
		return nil, repo.MapError(err, "Order not found")
	}
	history, err := s.repo.History(ctx, order.ID)
	if err != nil {
		return nil, repo.MapError(err, "Order not found")
	}
	vendorRows, err := s.repo.Vendors(ctx, []uuid.UUID{order.VendorID})
	if err != nil {
		return nil, repo.MapError(err, "Vendor not found")
	}
	tracking, err := loadTracking(ctx, s.repo, order)
	if err != nil {
		return nil, err
	}
	return &CustomerDetail{
		OrderDTO: FromModel(*order),
		Items:    itemsFromModels(order.Items),
		History:  historyFromModels(history),
		Vendor:   vendors.SummaryFromModel(vendorRows[order.VendorID]),
		Tracking: tracking,
	}, nil
}

func (s *service) Cancel(ctx context.Context, customerID, orderID uuid.UUID, input CancelInput) (*OrderDTO, error) {
	var result *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		order, err := s.repo.WithTx(tx).FindForCustomer(ctx, customerID, orderID)
		if err != nil {
			return repo.MapError(err, "Order not found")
		}
		if !enums.CanTransitionOrder(enums.ActorCustomer, order.OrderStatus, enums.OrderStatusCancelled) {
			return pkgerrors.New(pkgerrors.CodeBusinessRule, "Order cannot be cancelled at this stage")
		}
		transition := Transition{
			OrderID: order.ID,
			To:      enums.OrderStatusCancelled,
			Actor:   enums.ActorCustomer,
			ActorID: &customerID,
			Notes:   input.Reason,
		}
		if input.Reason != nil {
			transition.Updates = map[string]any{"cancellation_reason": *input.Reason}
		}
		result, err = s.lifecycle.Apply(ctx, tx, transition)
		if pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
			return pkgerrors.New(pkgerrors.CodeBusinessRule, "Order cannot be cancelled at this stage")
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	dto := FromModel(*result)
	return &dto, nil
}

// loadTracking returns the latest task with its partner, or nil when the
// order never reached the pool.
func loadTracking(ctx context.Context, r Repository, order *models.Order) (*Tracking, error) {
	task, err := r.LatestTask(ctx, order.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, repo.MapError(err, "Delivery task not found")
	}
	tracking := &Tracking{TaskID: task.ID, Status: task.Status}
	if task.PartnerID == nil {
		return tracking, nil
	}
	partner, err := r.Partner(ctx, *task.PartnerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tracking, nil
	}
	if err != nil {
		return nil, repo.MapError(err, "Delivery partner not found")
	}
	tracking.PartnerName = &partner.Name
	tracking.PartnerPhone = &partner.Phone
	tracking.CurrentLat = partner.CurrentLat
	tracking.CurrentLng = partner.CurrentLng
	tracking.LastLocationAt = partner.LastLocationAt
	return tracking, nil
}

func orderKeys(rows []models.Order) (ids, vendorIDs []uuid.UUID) {
	seen := make(map[uuid.UUID]struct{}, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
		if _, ok := seen[row.VendorID]; !ok {
			seen[row.VendorID] = struct{}{}
			vendorIDs = append(vendorIDs, row.VendorID)
		}
	}
	return ids, vendorIDs
}

func customerKeys(rows []models.Order) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(rows))
	var ids []uuid.UUID
	for _, row := range rows {
		if _, ok := seen[row.CustomerID]; !ok {
			seen[row.CustomerID] = struct{}{}
			ids = append(ids, row.CustomerID)
		}
	}
	return ids
}
