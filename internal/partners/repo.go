package partners

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/repo"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.DeliveryPartner, error)
	Create(ctx context.Context, partner *models.DeliveryPartner) error
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.DeliveryPartner, int64, error)
	InsertVerification(ctx context.Context, verification *models.PartnerVerification) error
	Stats(ctx context.Context, id uuid.UUID) (Stats, error)
	// MarkStaleOffline takes partners offline whose last ping predates cutoff.
	MarkStaleOffline(ctx context.Context, cutoff time.Time) (int64, error)
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

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.DeliveryPartner, error) {
	var partner models.DeliveryPartner
	if err := r.DB(ctx).Where("id = ?", id).First(&partner).Error; err != nil {
		return nil, err
	}
	return &partner, nil
}

func (r *repository) Create(ctx context.Context, partner *models.DeliveryPartner) error {
	return r.DB(ctx).Create(partner).Error
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	res := r.DB(ctx).Model(&models.DeliveryPartner{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.DeliveryPartner, int64, error) {
	query := r.DB(ctx).Model(&models.DeliveryPartner{})
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.VehicleType != nil {
		query = query.Where("vehicle_type = ?", *filters.VehicleType)
	}
	if term := strings.ToLower(strings.TrimSpace(filters.Search)); term != "" {
		like := "%" + term + "%"
		query = query.Where("(LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(COALESCE(email, '')) LIKE ?)", like, like, like)
	}
	return repo.Paginate[models.DeliveryPartner](query.Order("created_at DESC"), params)
}

func (r *repository) InsertVerification(ctx context.Context, verification *models.PartnerVerification) error {
	return r.DB(ctx).Create(verification).Error
}

func (r *repository) Stats(ctx context.Context, id uuid.UUID) (Stats, error) {
	var stats Stats
	db := r.DB(ctx)
	if err := db.Model(&models.DeliveryTask{}).
		Where("partner_id = ? AND status = ?", id, enums.TaskDelivered).
		Count(&stats.TotalDeliveries).Error; err != nil {
		return Stats{}, err
	}
	total, err := repo.Sum(db.Model(&models.DeliveryEarning{}).Where("partner_id = ?", id), "total_amount")
	if err != nil {
		return Stats{}, err
	}
	stats.TotalEarnings = total
	return stats, nil
}

func (r *repository) MarkStaleOffline(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.DB(ctx).Model(&models.DeliveryPartner{}).
		Where("is_online = ? AND (last_location_at IS NULL OR last_location_at < ?)", true, cutoff).
		Update("is_online", false)
	return res.RowsAffected, res.Error
}
