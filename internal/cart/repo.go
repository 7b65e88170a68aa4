package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/repo"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	// List returns the customer's lines with their products, ordered by
	// vendor so checkout partitions are deterministic.
	List(ctx context.Context, customerID uuid.UUID) ([]models.CartItem, error)
	FindLine(ctx context.Context, customerID, productID, vendorID uuid.UUID) (*models.CartItem, error)
	FindByID(ctx context.Context, customerID, itemID uuid.UUID) (*models.CartItem, error)
	Create(ctx context.Context, item *models.CartItem) error
	Update(ctx context.Context, itemID uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, customerID, itemID uuid.UUID) error
	Clear(ctx context.Context, customerID uuid.UUID) error
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

func (r *repository) List(ctx context.Context, customerID uuid.UUID) ([]models.CartItem, error) {
	var rows []models.CartItem
	err := r.DB(ctx).Preload("Product").
		Where("customer_id = ?", customerID).
		Order("vendor_id ASC").
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindLine(ctx context.Context, customerID, productID, vendorID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := r.DB(ctx).
		Where("customer_id = ? AND product_id = ? AND vendor_id = ?", customerID, productID, vendorID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) FindByID(ctx context.Context, customerID, itemID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.DB(ctx).Preload("Product").Where("id = ? AND customer_id = ?", itemID, customerID).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) Create(ctx context.Context, item *models.CartItem) error {
	return r.DB(ctx).Create(item).Error
}

func (r *repository) Update(ctx context.Context, itemID uuid.UUID, updates map[string]any) error {
	res := r.DB(ctx).Model(&models.CartItem{}).Where("id = ?", itemID).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, customerID, itemID uuid.UUID) error {
	res := r.DB(ctx).Where("id = ? AND customer_id = ?", itemID, customerID).Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Clear(ctx context.Context, customerID uuid.UUID) error {
	return r.DB(ctx).Where("customer_id = ?", customerID).Delete(&models.CartItem{}).Error
}
