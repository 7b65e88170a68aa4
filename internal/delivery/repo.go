package delivery

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/repo"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
)

// Repository covers partner presence and the task pool.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindPartner(ctx context.Context, id uuid.UUID) (*models.DeliveryPartner, error)
	UpdatePartner(ctx context.Context, id uuid.UUID, updates map[string]any) error
	AppendLocation(ctx context.Context, location *models.DeliveryLocation) error

	FindTask(ctx context.Context, id uuid.UUID) (*models.DeliveryTask, error)
	FindTaskForPartner(ctx context.Context, partnerID, id uuid.UUID) (*models.DeliveryTask, error)
	// ClaimTask assigns an unclaimed task. It reports false when another
	// partner got there first.
	ClaimTask(ctx context.Context, id, partnerID uuid.UUID, at time.Time) (bool, error)
	TransitionTask(ctx context.Context, id uuid.UUID, from, to enums.TaskStatus, updates map[string]any) (bool, error)

	ListAvailable(ctx context.Context, params pagination.Params) ([]models.DeliveryTask, int64, error)
	ListForPartner(ctx context.Context, partnerID uuid.UUID, filters TaskFilters, params pagination.Params) ([]models.DeliveryTask, int64, error)
	CountActive(ctx context.Context, partnerID uuid.UUID) (int64, error)
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

func (r *repository) FindPartner(ctx context.Context, id uuid.UUID) (*models.DeliveryPartner, error) {
	var partner models.DeliveryPartner
	if err := r.DB(ctx).Where("id = ?", id).First(&partner).Error; err != nil {
		return nil, err
	}
	return &partner, nil
}

func (r *repository) UpdatePartner(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	res := r.DB(ctx).Model(&models.DeliveryPartner{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) AppendLocation(ctx context.Context, location *models.DeliveryLocation) error {
	return r.DB(ctx).Create(location).Error
}

func (r *repository) FindTask(ctx context.Context, id uuid.UUID) (*models.DeliveryTask, error) {
	var task models.DeliveryTask
	if err := r.DB(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *repository) FindTaskForPartner(ctx context.Context, partnerID, id uuid.UUID) (*models.DeliveryTask, error) {
	var task models.DeliveryTask
	if err := r.DB(ctx).Where("id = ? AND partner_id = ?", id, partnerID).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *repository) ClaimTask(ctx context.Context, id, partnerID uuid.UUID, at time.Time) (bool, error) {
	res := r.DB(ctx).Model(&models.DeliveryTask{}).
		Where("id = ? AND partner_id IS NULL AND status = ?", id, enums.TaskAssigned).
		Updates(map[string]any{
			"partner_id": partnerID,
			"status":     enums.TaskAccepted,
			"started_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) TransitionTask(ctx context.Context, id uuid.UUID, from, to enums.TaskStatus, updates map[string]any) (bool, error) {
	values := make(map[string]any, len(updates)+1)
	for column, value := range updates {
		values[column] = value
	}
	values["status"] = to
	res := r.DB(ctx).Model(&models.DeliveryTask{}).
		Where("id = ? AND status = ?", id, from).
		Updates(values)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) ListAvailable(ctx context.Context, params pagination.Params) ([]models.DeliveryTask, int64, error) {
	query := r.DB(ctx).Model(&models.DeliveryTask{}).
		Where("status = ? AND partner_id IS NULL", enums.TaskAssigned).
		Order("created_at DESC")
	return repo.Paginate[models.DeliveryTask](query, params)
}

func (r *repository) ListForPartner(ctx context.Context, partnerID uuid.UUID, filters TaskFilters, params pagination.Params) ([]models.DeliveryTask, int64, error) {
	query := r.DB(ctx).Model(&models.DeliveryTask{}).Where("partner_id = ?", partnerID)
	if len(filters.Statuses) > 0 {
		query = query.Where("status IN ?", filters.Statuses)
	}
	if filters.Date != nil {
		start := dayStart(*filters.Date)
		query = query.Where("created_at >= ? AND created_at < ?", start, start.AddDate(0, 0, 1))
	}
	return repo.Paginate[models.DeliveryTask](query.Order("created_at DESC"), params)
}

func (r *repository) CountActive(ctx context.Context, partnerID uuid.UUID) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.DeliveryTask{}).
		Where("partner_id = ? AND status IN ?", partnerID, enums.ActiveTaskStatuses).
		Count(&count).Error
	return count, err
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
