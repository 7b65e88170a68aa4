package reviews

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/repo"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
)

type Repository interface {
	IsDelivered(ctx context.Context, customerID, orderID uuid.UUID) (bool, error)
	OrderHasProduct(ctx context.Context, orderID, productID uuid.UUID) (bool, error)
	Exists(ctx context.Context, orderID, productID, customerID uuid.UUID) (bool, error)
	Create(ctx context.Context, review *models.OrderReview) error
	ListPending(ctx context.Context, params pagination.Params) ([]models.OrderReview, int64, error)
	// Approve reports false when the review is missing or already approved.
	Approve(ctx context.Context, id uuid.UUID) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.OrderReview, error)
	Names(ctx context.Context, customerIDs, productIDs []uuid.UUID) (map[uuid.UUID]string, map[uuid.UUID]string, error)
}

type repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) IsDelivered(ctx context.Context, customerID, orderID uuid.UUID) (bool, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Order{}).
		Where("id = ? AND customer_id = ? AND order_status = ?", orderID, customerID, enums.OrderStatusDelivered).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) OrderHasProduct(ctx context.Context, orderID, productID uuid.UUID) (bool, error) {
	var count int64
	err := r.DB(ctx).Model(&models.OrderItem{}).
		Where("order_id = ? AND product_id = ?", orderID, productID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) Exists(ctx context.Context, orderID, productID, customerID uuid.UUID) (bool, error) {
	var count int64
	err := r.DB(ctx).Model(&models.OrderReview{}).
		Where("order_id = ? AND product_id = ? AND customer_id = ?", orderID, productID, customerID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) Create(ctx context.Context, review *models.OrderReview) error {
	return r.DB(ctx).Create(review).Error
}

func (r *repository) ListPending(ctx context.Context, params pagination.Params) ([]models.OrderReview, int64, error) {
	query := r.DB(ctx).Model(&models.OrderReview{}).
		Where("is_approved = ?", false).
		Order("created_at ASC")
	return repo.Paginate[models.OrderReview](query, params)
}

func (r *repository) Approve(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.DB(ctx).Model(&models.OrderReview{}).
		Where("id = ? AND is_approved = ?", id, false).
		Update("is_approved", true)
	return res.RowsAffected == 1, res.Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.OrderReview, error) {
	var review models.OrderReview
	if err := r.DB(ctx).Where("id = ?", id).First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *repository) Names(ctx context.Context, customerIDs, productIDs []uuid.UUID) (map[uuid.UUID]string, map[uuid.UUID]string, error) {
	customers := make(map[uuid.UUID]string, len(customerIDs))
	products := make(map[uuid.UUID]string, len(productIDs))
	if len(customerIDs) > 0 {
		var rows []models.Customer
		if err := r.DB(ctx).Select("id", "name").Where("id IN ?", customerIDs).Find(&rows).Error; err != nil {
			return nil, nil, err
		}
		for _, row := range rows {
			customers[row.ID] = row.Name
		}
	}
	if len(productIDs) > 0 {
		var rows []models.Product
		if err := r.DB(ctx).Select("id", "name").Where("id IN ?", productIDs).Find(&rows).Error; err != nil {
			return nil, nil, err
		}
		for _, row := range rows {
			products[row.ID] = row.Name
		}
	}
	return customers, products, nil
}
