package vendors

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/repo"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Vendor, error)
	Create(ctx context.Context, vendor *models.Vendor) error
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Vendor, int64, error)
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

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.DB(ctx).Where("id = ?", id).First(&vendor).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *repository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Vendor, error) {
	out := make(map[uuid.UUID]models.Vendor, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Vendor
	if err := r.DB(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

func (r *repository) Create(ctx context.Context, vendor *models.Vendor) error {
	return r.DB(ctx).Create(vendor).Error
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	res := r.DB(ctx).Model(&models.Vendor{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Vendor, int64, error) {
	query := r.DB(ctx).Model(&models.Vendor{})
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if term := strings.ToLower(strings.TrimSpace(filters.Search)); term != "" {
		like := "%" + term + "%"
		query = query.Where(
			"(LOWER(name) LIKE ? OR LOWER(business_name) LIKE ? OR phone LIKE ? OR LOWER(COALESCE(email, '')) LIKE ?)",
			like, like, like, like,
		)
	}
	return repo.Paginate[models.Vendor](query.Order("created_at DESC"), params)
}
