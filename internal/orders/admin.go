package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/repo"
	"github.com/angelmondragon/marketplace-backend/internal/vendors"
	"github.com/angelmondragon/marketplace-backend/pkg/db"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
)

type AdminService interface {
	List(ctx context.Context, filters AdminFilters, params pagination.Params) (pagination.Page[AdminSummary], error)
	Detail(ctx context.Context, orderID uuid.UUID) (*AdminDetail, error)
	// UpdateStatus is the admin override. It follows the admin transition
	// table and writes history as admin.
	UpdateStatus(ctx context.Context, adminID, orderID uuid.UUID, input AdminStatusInput) (*AdminDetail, error)
}

type adminService struct {
	repo      Repository
	tx        db.TxRunner
	lifecycle *Lifecycle
}

func NewAdminService(repo Repository, tx db.TxRunner, lifecycle *Lifecycle) (AdminService, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orders repository is required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction runner is required")
	}
	if lifecycle == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order lifecycle is required")
	}
	return &adminService{repo: repo, tx: tx, lifecycle: lifecycle}, nil
}

func (s *adminService) List(ctx context.Context, filters AdminFilters, params pagination.Params) (pagination.Page[AdminSummary], error) {
	params = params.Normalize()
	rows, total, err := s.repo.ListAdmin(ctx, filters, params)
	if err != nil {
		return pagination.Page[AdminSummary]{}, repo.MapError(err, "Order not found")
	}
	_, vendorIDs := orderKeys(rows)
	vendorRows, err := s.repo.Vendors(ctx, vendorIDs)
	if err != nil {
		return pagination.Page[AdminSummary]{}, repo.MapError(err, "Vendor not found")
	}
	customers, err := s.repo.Customers(ctx, customerKeys(rows))
	if err != nil {
		return pagination.Page[AdminSummary]{}, repo.MapError(err, "Customer not found")
	}
	items := make([]AdminSummary, 0, len(rows))
	for _, row := range rows {
		customer := customers[row.CustomerID]
		items = append(items, AdminSummary{
			OrderDTO:      FromModel(row),
			CustomerName:  customer.Name,
			CustomerPhone: customer.Phone,
			VendorName:    vendorRows[row.VendorID].BusinessName,
		})
	}
	return pagination.NewPage(items, params, total), nil
}

func (s *adminService) Detail(ctx context.Context, orderID uuid.UUID) (*AdminDetail, error) {
	return s.detail(ctx, s.repo, orderID)
}

func (s *adminService) detail(ctx context.Context, r Repository, orderID uuid.UUID) (*AdminDetail, error) {
	order, err := r.FindByID(ctx, orderID)
	if err != nil {
		return nil, repo.MapError(err, "Order not found")
	}
	history, err := r.History(ctx, order.ID)
	if err != nil {
		return nil, repo.MapError(err, "Order not found")
	}
	subOrders, err := r.VendorOrders(ctx, []uuid.UUID{order.ID})
	if err != nil {
		return nil, repo.MapError(err, "Order not found")
	}
	vendorRows, err := r.Vendors(ctx, []uuid.UUID{order.VendorID})
	if err != nil {
		return nil, repo.MapError(err, "Vendor not found")
	}
	customers, err := r.Customers(ctx, []uuid.UUID{order.CustomerID})
	if err != nil {
		return nil, repo.MapError(err, "Customer not found")
	}
	tracking, err := loadTracking(ctx, r, order)
	if err != nil {
		return nil, err
	}
	customer := customers[order.CustomerID]
	detail := &AdminDetail{
		OrderDTO: FromModel(*order),
		Items:    itemsFromModels(order.Items),
		History:  historyFromModels(history),
		Vendor:   vendors.SummaryFromModel(vendorRows[order.VendorID]),
		Customer: Contact{ID: customer.ID, Name: customer.Name, Phone: customer.Phone},
		Tracking: tracking,
	}
	if subOrder, ok := subOrders[order.ID]; ok {
		dto := VendorOrderFromModel(subOrder)
		detail.VendorOrder = &dto
	}
	return detail, nil
}

func (s *adminService) UpdateStatus(ctx context.Context, adminID, orderID uuid.UUID, input AdminStatusInput) (*AdminDetail, error) {
	if !input.Status.IsValid() {
		return nil, pkgerrors.Validation(map[string]string{"status": "is invalid"})
	}
	var result *AdminDetail
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		transition := Transition{
			OrderID: orderID,
			To:      input.Status,
			Actor:   enums.ActorAdmin,
			ActorID: &adminID,
			Notes:   input.Notes,
		}
		if input.Status.RestoresStock() && input.Notes != nil {
			transition.Updates = map[string]any{"cancellation_reason": *input.Notes}
		}
		if _, err := s.lifecycle.Apply(ctx, tx, transition); err != nil {
			return err
		}
		var err error
		result, err = s.detail(ctx, s.repo.WithTx(tx), orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
