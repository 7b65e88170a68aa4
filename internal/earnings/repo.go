package earnings

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/marketplace-backend/internal/repo"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	// InsertDeliveryEarning reports false when the task already has one.
	InsertDeliveryEarning(ctx context.Context, earning *models.DeliveryEarning) (bool, error)
	InsertVendorEarning(ctx context.Context, earning *models.VendorEarning) (bool, error)

	ListPartner(ctx context.Context, partnerID uuid.UUID, filters Filters, params pagination.Params) ([]models.DeliveryEarning, int64, error)
	PartnerTotal(ctx context.Context, partnerID uuid.UUID, filters Filters) (decimal.Decimal, error)
	PartnerRows(ctx context.Context, partnerID uuid.UUID, from, to time.Time) ([]models.DeliveryEarning, error)

	ListVendor(ctx context.Context, vendorID uuid.UUID, filters Filters, params pagination.Params) ([]models.VendorEarning, int64, error)
	VendorTotal(ctx context.Context, vendorID uuid.UUID, filters Filters) (decimal.Decimal, error)

	OrderNumbers(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID]string, error)
}

type repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: repo.NewBase(tx)}
}

func (r *repository) InsertDeliveryEarning(ctx context.Context, earning *models.DeliveryEarning) (bool, error) {
	res := r.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "task_id"}},
		DoNothing: true,
	}).Create(earning)
	return res.RowsAffected == 1, res.Error
}

func (r *repository) InsertVendorEarning(ctx context.Context, earning *models.VendorEarning) (bool, error) {
	res := r.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "order_id"}},
		DoNothing: true,
	}).Create(earning)
	return res.RowsAffected == 1, res.Error
}

func (r *repository) ListPartner(ctx context.Context, partnerID uuid.UUID, filters Filters, params pagination.Params) ([]models.DeliveryEarning, int64, error) {
	query := filters.apply(r.DB(ctx).Model(&models.DeliveryEarning{}).Where("partner_id = ?", partnerID), "payment_status")
	return repo.Paginate[models.DeliveryEarning](query.Order("created_at DESC"), params)
}

func (r *repository) PartnerTotal(ctx context.Context, partnerID uuid.UUID, filters Filters) (decimal.Decimal, error) {
	query := filters.apply(r.DB(ctx).Model(&models.DeliveryEarning{}).Where("partner_id = ?", partnerID), "payment_status")
	return repo.Sum(query, "total_amount")
}

func (r *repository) PartnerRows(ctx context.Context, partnerID uuid.UUID, from, to time.Time) ([]models.DeliveryEarning, error) {
	var rows []models.DeliveryEarning
	err := r.DB(ctx).
		Where("partner_id = ? AND created_at >= ? AND created_at < ?", partnerID, from, to).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) ListVendor(ctx context.Context, vendorID uuid.UUID, filters Filters, params pagination.Params) ([]models.VendorEarning, int64, error) {
	query := filters.apply(r.DB(ctx).Model(&models.VendorEarning{}).Where("vendor_id = ?", vendorID), "status")
	return repo.Paginate[models.VendorEarning](query.Order("created_at DESC"), params)
}

func (r *repository) VendorTotal(ctx context.Context, vendorID uuid.UUID, filters Filters) (decimal.Decimal, error) {
	query := filters.apply(r.DB(ctx).Model(&models.VendorEarning{}).Where("vendor_id = ?", vendorID), "status")
	return repo.Sum(query, "net_amount")
}

func (r *repository) OrderNumbers(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID]string, error) {
	out := make(map[uuid.UUID]string, len(orderIDs))
	if len(orderIDs) == 0 {
		return out, nil
	}
	var rows []models.Order
	if err := r.DB(ctx).Select("id", "order_number").Where("id IN ?", orderIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row.OrderNumber
	}
	return out, nil
}

// Filters narrows earnings lists and totals. Dates are whole UTC days and
// EndDate is inclusive.
type Filters struct {
	Status    *enums.EarningStatus
	StartDate *time.Time
	EndDate   *time.Time
}

func (f Filters) apply(query *gorm.DB, statusColumn string) *gorm.DB {
	if f.Status != nil {
		query = query.Where(statusColumn+" = ?", *f.Status)
	}
	if f.StartDate != nil {
		query = query.Where("created_at >= ?", dayStart(*f.StartDate))
	}
	if f.EndDate != nil {
		query = query.Where("created_at < ?", dayStart(*f.EndDate).AddDate(0, 0, 1))
	}
	return query
}

func (f Filters) withStatus(status enums.EarningStatus) Filters {
	f.Status = &status
	return f
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
