package wishlist

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/repo"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
)

// Repository encapsulates wishlist persistence.
type Repository interface {
	List(ctx context.Context, customerID uuid.UUID) ([]models.WishlistItem, error)
	VendorNames(ctx context.Context, vendorIDs []uuid.UUID) (map[uuid.UUID]string, error)
	// Add inserts the entry and reports false when it already existed.
	Add(ctx context.Context, customerID, productID uuid.UUID) (bool, error)
	Remove(ctx context.Context, customerID, productID uuid.UUID) (bool, error)
}

type repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) List(ctx context.Context, customerID uuid.UUID) ([]models.WishlistItem, error) {
	var rows []models.WishlistItem
	err := r.DB(ctx).Preload("Product").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) VendorNames(ctx context.Context, vendorIDs []uuid.UUID) (map[uuid.UUID]string, error) {
	out := make(map[uuid.UUID]string, len(vendorIDs))
	if len(vendorIDs) == 0 {
		return out, nil
	}
	var rows []models.Vendor
	if err := r.DB(ctx).Select("id", "business_name").Where("id IN ?", vendorIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row.BusinessName
	}
	return out, nil
}

func (r *repository) Add(ctx context.Context, customerID, productID uuid.UUID) (bool, error) {
	res := r.DB(ctx).Exec(
		`INSERT INTO wishlist_items (id, customer_id, product_id, created_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP) ON CONFLICT (customer_id, product_id) DO NOTHING`,
		uuid.New(), customerID, productID,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) Remove(ctx context.Context, customerID, productID uuid.UUID) (bool, error) {
	res := r.DB(ctx).Where("customer_id = ? AND product_id = ?", customerID, productID).Delete(&models.WishlistItem{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
