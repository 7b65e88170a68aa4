package products

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/marketplace-backend/internal/repo"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
	"github.com/angelmondragon/marketplace-backend/pkg/visibility"
)

type RatingStats struct {
	Average decimal.Decimal
	Count   int64
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindForVendor(ctx context.Context, vendorID, id uuid.UUID) (*models.Product, error)
	ListVendor(ctx context.Context, vendorID uuid.UUID, filters VendorListFilters, params pagination.Params) ([]models.Product, int64, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, vendorID, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, vendorID, id uuid.UUID) error
	HasActiveOrders(ctx context.Context, id uuid.UUID) (bool, error)
	// HasOrderHistory reports whether any order line or review points at the
	// product. Such rows block a hard delete.
	HasOrderHistory(ctx context.Context, id uuid.UUID) (bool, error)

	ListByCategories(ctx context.Context, categoryIDs []uuid.UUID, filters CatalogFilters, params pagination.Params) ([]models.Product, int64, error)
	Search(ctx context.Context, query string, limit int) ([]models.Product, error)
	SearchCategories(ctx context.Context, query string, limit int) ([]models.Category, error)
	RecordSearch(ctx context.Context, customerID uuid.UUID, query string, at time.Time) error
	Featured(ctx context.Context, limit int) ([]models.Product, error)
	Recent(ctx context.Context, limit int) ([]models.Product, error)
	Related(ctx context.Context, product models.Product, limit int) ([]models.Product, error)

	ApprovedReviews(ctx context.Context, productID uuid.UUID, limit int) ([]models.OrderReview, error)
	RatingStats(ctx context.Context, productID uuid.UUID) (RatingStats, error)
	InWishlist(ctx context.Context, customerID, productID uuid.UUID) (bool, error)
	CartQuantity(ctx context.Context, customerID, productID uuid.UUID) (int, error)
	VendorNames(ctx context.Context, vendorIDs []uuid.UUID) (map[uuid.UUID]string, error)

	// DecrementStock subtracts qty only while enough stock remains on an
	// active product. It reports whether the row was updated.
	DecrementStock(ctx context.Context, id uuid.UUID, qty int) (bool, error)
	RestoreStock(ctx context.Context, id uuid.UUID, qty int) error
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

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.DB(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) FindForVendor(ctx context.Context, vendorID, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.DB(ctx).Where("id = ? AND vendor_id = ?", id, vendorID).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) ListVendor(ctx context.Context, vendorID uuid.UUID, filters VendorListFilters, params pagination.Params) ([]models.Product, int64, error) {
	query := r.DB(ctx).Model(&models.Product{}).Where("vendor_id = ?", vendorID)
	if filters.CategoryID != nil {
		query = query.Where("category_id = ?", *filters.CategoryID)
	}
	if filters.IsActive != nil {
		query = query.Where("is_active = ?", *filters.IsActive)
	}
	switch filters.StockStatus {
	case StockFilterOut:
		query = query.Where("stock_quantity = 0")
	case StockFilterLow:
		query = query.Where("stock_quantity > 0 AND stock_quantity < ?", visibility.LowStockThreshold)
	}
	if term := repo.LikeTerm(filters.Search); term != "" {
		query = query.Where("LOWER(name) LIKE ? OR LOWER(COALESCE(sku, '')) LIKE ?", term, term)
	}
	return repo.Paginate[models.Product](query.Order("created_at DESC"), params)
}

func (r *repository) Create(ctx context.Context, product *models.Product) error {
	return r.DB(ctx).Create(product).Error
}

func (r *repository) Update(ctx context.Context, vendorID, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	res := r.DB(ctx).Model(&models.Product{}).Where("id = ? AND vendor_id = ?", id, vendorID).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, vendorID, id uuid.UUID) error {
	res := r.DB(ctx).Where("id = ? AND vendor_id = ?", id, vendorID).Delete(&models.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) HasActiveOrders(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.DB(ctx).Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.product_id = ? AND orders.order_status IN ?", id, enums.ActiveVendorOrderStatuses).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) HasOrderHistory(ctx context.Context, id uuid.UUID) (bool, error) {
	var items int64
	if err := r.DB(ctx).Model(&models.OrderItem{}).Where("product_id = ?", id).Count(&items).Error; err != nil {
		return false, err
	}
	if items > 0 {
		return true, nil
	}
	var reviews int64
	err := r.DB(ctx).Model(&models.OrderReview{}).Where("product_id = ?", id).Count(&reviews).Error
	return reviews > 0, err
}

// catalog scopes a query to products customers may see.
func (r *repository) catalog(ctx context.Context) *gorm.DB {
	return r.DB(ctx).Model(&models.Product{}).
		Joins("JOIN vendors ON vendors.id = products.vendor_id").
		Joins("JOIN categories ON categories.id = products.category_id").
		Where("products.is_active = ? AND vendors.status = ? AND categories.is_active = ?", true, enums.VendorStatusActive, true)
}

func (r *repository) ListByCategories(ctx context.Context, categoryIDs []uuid.UUID, filters CatalogFilters, params pagination.Params) ([]models.Product, int64, error) {
	if len(categoryIDs) == 0 {
		return []models.Product{}, 0, nil
	}
	query := r.catalog(ctx).Where("products.category_id IN ?", categoryIDs)
	if filters.MinPrice != nil {
		query = query.Where("products.price >= ?", *filters.MinPrice)
	}
	if filters.MaxPrice != nil {
		query = query.Where("products.price <= ?", *filters.MaxPrice)
	}
	return repo.Paginate[models.Product](query.Order(catalogOrder(filters)), params)
}

func catalogOrder(filters CatalogFilters) string {
	direction := "DESC"
	if strings.EqualFold(filters.SortOrder, "asc") {
		direction = "ASC"
	}
	switch filters.SortBy {
	case SortPrice:
		return "products.price " + direction
	case SortName:
		return "products.name " + direction
	case SortPopularity:
		return "(SELECT COALESCE(SUM(order_items.quantity), 0) FROM order_items WHERE order_items.product_id = products.id) " + direction
	default:
		return "products.created_at " + direction
	}
}

func (r *repository) Search(ctx context.Context, query string, limit int) ([]models.Product, error) {
	term := repo.LikeTerm(query)
	var rows []models.Product
	err := r.catalog(ctx).
		Where("LOWER(products.name) LIKE ? OR LOWER(COALESCE(products.description, '')) LIKE ? OR LOWER(categories.name) LIKE ? OR LOWER(vendors.business_name) LIKE ?",
			term, term, term, term).
		Order("products.is_featured DESC").
		Order("products.name ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *repository) SearchCategories(ctx context.Context, query string, limit int) ([]models.Category, error) {
	var rows []models.Category
	err := r.DB(ctx).
		Where("is_active = ? AND LOWER(name) LIKE ?", true, repo.LikeTerm(query)).
		Order("name ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *repository) RecordSearch(ctx context.Context, customerID uuid.UUID, query string, at time.Time) error {
	entry := models.SearchHistory{
		CustomerID:     customerID,
		Query:          query,
		SearchCount:    1,
		LastSearchedAt: at,
	}
	return r.DB(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "customer_id"}, {Name: "query"}},
		DoUpdates: clause.Assignments(map[string]any{
			"search_count":     gorm.Expr("customer_search_history.search_count + 1"),
			"last_searched_at": at,
		}),
	}).Create(&entry).Error
}

func (r *repository) Featured(ctx context.Context, limit int) ([]models.Product, error) {
	var rows []models.Product
	err := r.catalog(ctx).Where("products.is_featured = ?", true).
		Order("products.created_at DESC").Limit(limit).Find(&rows).Error
	return rows, err
}

func (r *repository) Recent(ctx context.Context, limit int) ([]models.Product, error) {
	var rows []models.Product
	err := r.catalog(ctx).Order("products.created_at DESC").Limit(limit).Find(&rows).Error
	return rows, err
}

func (r *repository) Related(ctx context.Context, product models.Product, limit int) ([]models.Product, error) {
	var rows []models.Product
	err := r.catalog(ctx).
		Where("products.category_id = ? AND products.id <> ?", product.CategoryID, product.ID).
		Order("products.created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *repository) ApprovedReviews(ctx context.Context, productID uuid.UUID, limit int) ([]models.OrderReview, error) {
	var rows []models.OrderReview
	err := r.DB(ctx).Where("product_id = ? AND is_approved = ?", productID, true).
		Order("created_at DESC").Limit(limit).Find(&rows).Error
	return rows, err
}

func (r *repository) RatingStats(ctx context.Context, productID uuid.UUID) (RatingStats, error) {
	var row struct {
		Average float64
		Total   int64
	}
	err := r.DB(ctx).Model(&models.OrderReview{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS total").
		Where("product_id = ? AND is_approved = ?", productID, true).
		Scan(&row).Error
	if err != nil {
		return RatingStats{}, err
	}
	return RatingStats{Average: decimal.NewFromFloat(row.Average).Round(1), Count: row.Total}, nil
}

func (r *repository) InWishlist(ctx context.Context, customerID, productID uuid.UUID) (bool, error) {
	var count int64
	err := r.DB(ctx).Model(&models.WishlistItem{}).
		Where("customer_id = ? AND product_id = ?", customerID, productID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) CartQuantity(ctx context.Context, customerID, productID uuid.UUID) (int, error) {
	var row struct{ Total int }
	err := r.DB(ctx).Model(&models.CartItem{}).
		Select("COALESCE(SUM(quantity), 0) AS total").
		Where("customer_id = ? AND product_id = ?", customerID, productID).
		Scan(&row).Error
	return row.Total, err
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

func (r *repository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
	res := r.DB(ctx).Model(&models.Product{}).
		Where("id = ? AND is_active = ? AND stock_quantity >= ?", id, true, qty).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) RestoreStock(ctx context.Context, id uuid.UUID, qty int) error {
	return r.DB(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", qty)).Error
}
