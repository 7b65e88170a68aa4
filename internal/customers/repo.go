package customers

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/repo"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
)

type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Customer, int64, error)
	Stats(ctx context.Context, id uuid.UUID) (Stats, error)
}

type repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := r.DB(ctx).Where("id = ?", id).First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	res := r.DB(ctx).Model(&models.Customer{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Customer, int64, error) {
	query := r.DB(ctx).Model(&models.Customer{})
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if term := strings.ToLower(strings.TrimSpace(filters.Search)); term != "" {
		like := "%" + term + "%"
		query = query.Where("(LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(COALESCE(email, '')) LIKE ?)", like, like, like)
	}
	return repo.Paginate[models.Customer](query.Order("created_at DESC"), params)
}

func (r *repository) Stats(ctx context.Context, id uuid.UUID) (Stats, error) {
	var stats Stats
	db := r.DB(ctx)
	if err := db.Model(&models.Order{}).Where("customer_id = ?", id).Count(&stats.TotalOrders).Error; err != nil {
		return Stats{}, err
	}
	if err := db.Model(&models.Order{}).
		Where("customer_id = ? AND order_status IN ?", id, enums.OngoingOrderStatuses).
		Count(&stats.PendingOrders).Error; err != nil {
		return Stats{}, err
	}
	spent, err := repo.Sum(db.Model(&models.Order{}).
		Where("customer_id = ? AND payment_status = ?", id, enums.PaymentStatusPaid), "final_amount")
	if err != nil {
		return Stats{}, err
	}
	stats.TotalSpent = spent
	return stats, nil
}
