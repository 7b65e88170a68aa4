package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/repo"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"github.com/angelmondragon/marketplace-backend/pkg/visibility"
)

const recentLimit = 5

// Repository reads the aggregates behind each role's dashboard.
type Repository interface {
	Count(ctx context.Context, model any, where ...any) (int64, error)
	PaidRevenue(ctx context.Context) (decimal.Decimal, error)
	RecentOrders(ctx context.Context, vendorID *uuid.UUID) ([]models.Order, error)
	Names(ctx context.Context, customerIDs, vendorIDs []uuid.UUID) (map[uuid.UUID]string, map[uuid.UUID]string, error)
	VendorEarned(ctx context.Context, vendorID uuid.UUID, since *time.Time) (decimal.Decimal, error)
	PendingVendorOrders(ctx context.Context, vendorID uuid.UUID) (int64, error)
	StockCounts(ctx context.Context, vendorID uuid.UUID) (low int64, out int64, err error)
	PartnerEarned(ctx context.Context, partnerID uuid.UUID, since time.Time) (decimal.Decimal, error)
	FindPartner(ctx context.Context, partnerID uuid.UUID) (*models.DeliveryPartner, error)
}

type repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

// Count runs COUNT(*) over model. where is optional: a query followed by its
// arguments.
func (r *repository) Count(ctx context.Context, model any, where ...any) (int64, error) {
	query := r.DB(ctx).Model(model)
	if len(where) > 0 {
		query = query.Where(where[0], where[1:]...)
	}
	var n int64
	err := query.Count(&n).Error
	return n, err
}

func (r *repository) PaidRevenue(ctx context.Context) (decimal.Decimal, error) {
	return repo.Sum(r.DB(ctx).Model(&models.Order{}).Where("payment_status = ?", enums.PaymentStatusPaid), "final_amount")
}

func (r *repository) RecentOrders(ctx context.Context, vendorID *uuid.UUID) ([]models.Order, error) {
	query := r.DB(ctx).Model(&models.Order{})
	if vendorID != nil {
		query = query.Where("vendor_id = ?", *vendorID)
	}
	orders := make([]models.Order, 0, recentLimit)
	err := query.Order("created_at DESC").Limit(recentLimit).Find(&orders).Error
	return orders, err
}

func (r *repository) Names(ctx context.Context, customerIDs, vendorIDs []uuid.UUID) (map[uuid.UUID]string, map[uuid.UUID]string, error) {
	customers := make(map[uuid.UUID]string, len(customerIDs))
	vendors := make(map[uuid.UUID]string, len(vendorIDs))
	if len(customerIDs) > 0 {
		var rows []models.Customer
		if err := r.DB(ctx).Select("id", "name").Where("id IN ?", customerIDs).Find(&rows).Error; err != nil {
			return nil, nil, err
		}
		for _, row := range rows {
			customers[row.ID] = row.Name
		}
	}
	if len(vendorIDs) > 0 {
		var rows []models.Vendor
		if err := r.DB(ctx).Select("id", "business_name").Where("id IN ?", vendorIDs).Find(&rows).Error; err != nil {
			return nil, nil, err
		}
		for _, row := range rows {
			vendors[row.ID] = row.BusinessName
		}
	}
	return customers, vendors, nil
}

func (r *repository) VendorEarned(ctx context.Context, vendorID uuid.UUID, since *time.Time) (decimal.Decimal, error) {
	query := r.DB(ctx).Model(&models.VendorEarning{}).Where("vendor_id = ?", vendorID)
	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}
	return repo.Sum(query, "net_amount")
}

func (r *repository) PendingVendorOrders(ctx context.Context, vendorID uuid.UUID) (int64, error) {
	return r.Count(ctx, &models.VendorOrder{}, "vendor_id = ? AND status IN ?", vendorID, []enums.VendorOrderStatus{
		enums.VendorOrderPending,
		enums.VendorOrderAccepted,
		enums.VendorOrderPreparing,
	})
}

func (r *repository) StockCounts(ctx context.Context, vendorID uuid.UUID) (int64, int64, error) {
	low, err := r.Count(ctx, &models.Product{},
		"vendor_id = ? AND stock_quantity > 0 AND stock_quantity < ?", vendorID, visibility.LowStockThreshold)
	if err != nil {
		return 0, 0, err
	}
	out, err := r.Count(ctx, &models.Product{}, "vendor_id = ? AND stock_quantity = 0", vendorID)
	if err != nil {
		return 0, 0, err
	}
	return low, out, nil
}

func (r *repository) PartnerEarned(ctx context.Context, partnerID uuid.UUID, since time.Time) (decimal.Decimal, error) {
	return repo.Sum(r.DB(ctx).Model(&models.DeliveryEarning{}).
		Where("partner_id = ? AND created_at >= ?", partnerID, since), "total_amount")
}

func (r *repository) FindPartner(ctx context.Context, partnerID uuid.UUID) (*models.DeliveryPartner, error) {
	var partner models.DeliveryPartner
	if err := r.DB(ctx).Where("id = ?", partnerID).First(&partner).Error; err != nil {
		return nil, err
	}
	return &partner, nil
}
