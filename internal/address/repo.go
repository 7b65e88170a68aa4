package address

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/repo"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	List(ctx context.Context, customerID uuid.UUID) ([]models.Address, error)
	FindForCustomer(ctx context.Context, customerID, id uuid.UUID) (*models.Address, error)
	Count(ctx context.Context, customerID uuid.UUID) (int64, error)
	Create(ctx context.Context, address *models.Address) error
	Update(ctx context.Context, customerID, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, customerID, id uuid.UUID) error
	// ClearDefault unsets is_default on every address of the customer except keep.
	ClearDefault(ctx context.Context, customerID uuid.UUID, keep *uuid.UUID) error
	// PromoteLatest marks the newest address default when none is.
	PromoteLatest(ctx context.Context, customerID uuid.UUID) error
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

func (r *repository) List(ctx context.Context, customerID uuid.UUID) ([]models.Address, error) {
	var rows []models.Address
	err := r.DB(ctx).Where("customer_id = ?", customerID).
		Order("is_default DESC").
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindForCustomer(ctx context.Context, customerID, id uuid.UUID) (*models.Address, error) {
	var address models.Address
	if err := r.DB(ctx).Where("id = ? AND customer_id = ?", id, customerID).First(&address).Error; err != nil {
		return nil, err
	}
	return &address, nil
}

func (r *repository) Count(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Address{}).Where("customer_id = ?", customerID).Count(&count).Error
	return count, err
}

func (r *repository) Create(ctx context.Context, address *models.Address) error {
	return r.DB(ctx).Create(address).Error
}

func (r *repository) Update(ctx context.Context, customerID, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	res := r.DB(ctx).Model(&models.Address{}).Where("id = ? AND customer_id = ?", id, customerID).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, customerID, id uuid.UUID) error {
	res := r.DB(ctx).Where("id = ? AND customer_id = ?", id, customerID).Delete(&models.Address{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) ClearDefault(ctx context.Context, customerID uuid.UUID, keep *uuid.UUID) error {
	query := r.DB(ctx).Model(&models.Address{}).Where("customer_id = ? AND is_default = ?", customerID, true)
	if keep != nil {
		query = query.Where("id <> ?", *keep)
	}
	return query.Update("is_default", false).Error
}

func (r *repository) PromoteLatest(ctx context.Context, customerID uuid.UUID) error {
	var current int64
	if err := r.DB(ctx).Model(&models.Address{}).Where("customer_id = ? AND is_default = ?", customerID, true).Count(&current).Error; err != nil {
		return err
	}
	if current > 0 {
		return nil
	}
	var latest models.Address
	err := r.DB(ctx).Where("customer_id = ?", customerID).Order("created_at DESC").First(&latest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return r.DB(ctx).Model(&models.Address{}).Where("id = ?", latest.ID).Update("is_default", true).Error
}
