package orders

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

// Repository defines persistence operations for orders, their vendor
// sub-orders, status history and delivery tasks.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateOrder(ctx context.Context, order *models.Order) error
	CreateItems(ctx context.Context, items []models.OrderItem) error
	CreateVendorOrder(ctx context.Context, vendorOrder *models.VendorOrder) error
	AppendHistory(ctx context.Context, entry *models.OrderStatusHistory) error

	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindForCustomer(ctx context.Context, customerID, id uuid.UUID) (*models.Order, error)
	FindForVendor(ctx context.Context, vendorID, id uuid.UUID) (*models.Order, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Order, error)
	FindVendorOrder(ctx context.Context, orderID uuid.UUID) (*models.VendorOrder, error)
	History(ctx context.Context, orderID uuid.UUID) ([]models.OrderStatusHistory, error)

	// TransitionStatus moves the order only while it is still in from.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to enums.OrderStatus, updates map[string]any) (bool, error)
	TransitionVendorOrder(ctx context.Context, orderID uuid.UUID, from, to enums.VendorOrderStatus, updates map[string]any) (bool, error)
	CancelVendorOrder(ctx context.Context, orderID uuid.UUID, at time.Time) error
	MarkStockRestored(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)

	VendorPickupAddress(ctx context.Context, vendorID uuid.UUID) (string, error)
	HasOpenTask(ctx context.Context, orderID uuid.UUID) (bool, error)
	CreateTask(ctx context.Context, task *models.DeliveryTask) error
	CancelTasks(ctx context.Context, orderID uuid.UUID, statuses []enums.TaskStatus, at time.Time) error
	LatestTask(ctx context.Context, orderID uuid.UUID) (*models.DeliveryTask, error)

	ListCustomer(ctx context.Context, customerID uuid.UUID, statuses []enums.OrderStatus, params pagination.Params) ([]models.Order, int64, error)
	ListVendor(ctx context.Context, vendorID uuid.UUID, filters VendorFilters, params pagination.Params) ([]models.Order, int64, error)
	ListAdmin(ctx context.Context, filters AdminFilters, params pagination.Params) ([]models.Order, int64, error)

	ItemCounts(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID]int, error)
	VendorOrders(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID]models.VendorOrder, error)
	Vendors(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Vendor, error)
	Customers(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Customer, error)
	Partner(ctx context.Context, id uuid.UUID) (*models.DeliveryPartner, error)
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

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.DB(ctx).Omit("Items").Create(order).Error
}

func (r *repository) CreateItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.DB(ctx).Create(&items).Error
}

func (r *repository) CreateVendorOrder(ctx context.Context, vendorOrder *models.VendorOrder) error {
	return r.DB(ctx).Create(vendorOrder).Error
}

func (r *repository) AppendHistory(ctx context.Context, entry *models.OrderStatusHistory) error {
	return r.DB(ctx).Create(entry).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return r.findOrder(r.DB(ctx).Where("id = ?", id))
}

func (r *repository) FindForCustomer(ctx context.Context, customerID, id uuid.UUID) (*models.Order, error) {
	return r.findOrder(r.DB(ctx).Where("id = ? AND customer_id = ?", id, customerID))
}

func (r *repository) FindForVendor(ctx context.Context, vendorID, id uuid.UUID) (*models.Order, error) {
	return r.findOrder(r.DB(ctx).Where("id = ? AND vendor_id = ?", id, vendorID))
}

func (r *repository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Order, error) {
	out := make(map[uuid.UUID]models.Order, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Order
	if err := r.DB(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

func (r *repository) findOrder(query *gorm.DB) (*models.Order, error) {
	var order models.Order
	err := query.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindVendorOrder(ctx context.Context, orderID uuid.UUID) (*models.VendorOrder, error) {
	var vendorOrder models.VendorOrder
	if err := r.DB(ctx).Where("order_id = ?", orderID).First(&vendorOrder).Error; err != nil {
		return nil, err
	}
	return &vendorOrder, nil
}

func (r *repository) History(ctx context.Context, orderID uuid.UUID) ([]models.OrderStatusHistory, error) {
	var rows []models.OrderStatusHistory
	err := r.DB(ctx).Where("order_id = ?", orderID).Order("created_at ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to enums.OrderStatus, updates map[string]any) (bool, error) {
	values := map[string]any{"order_status": to}
	for column, value := range updates {
		values[column] = value
	}
	res := r.DB(ctx).Model(&models.Order{}).
		Where("id = ? AND order_status = ?", id, from).
		Updates(values)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) TransitionVendorOrder(ctx context.Context, orderID uuid.UUID, from, to enums.VendorOrderStatus, updates map[string]any) (bool, error) {
	values := map[string]any{"status": to}
	for column, value := range updates {
		values[column] = value
	}
	res := r.DB(ctx).Model(&models.VendorOrder{}).
		Where("order_id = ? AND status = ?", orderID, from).
		Updates(values)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) CancelVendorOrder(ctx context.Context, orderID uuid.UUID, at time.Time) error {
	return r.DB(ctx).Model(&models.VendorOrder{}).
		Where("order_id = ? AND status <> ?", orderID, enums.VendorOrderCancelled).
		Updates(map[string]any{"status": enums.VendorOrderCancelled, "cancelled_at": at}).Error
}

func (r *repository) MarkStockRestored(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	res := r.DB(ctx).Model(&models.Order{}).
		Where("id = ? AND stock_restored_at IS NULL", id).
		Update("stock_restored_at", at)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) VendorPickupAddress(ctx context.Context, vendorID uuid.UUID) (string, error) {
	var vendor models.Vendor
	if err := r.DB(ctx).Select("id", "business_name", "business_address").Where("id = ?", vendorID).First(&vendor).Error; err != nil {
		return "", err
	}
	if vendor.BusinessAddress == nil || *vendor.BusinessAddress == "" {
		return vendor.BusinessName, nil
	}
	return *vendor.BusinessAddress, nil
}

// HasOpenTask reports whether the order is in the pool or being worked.
func (r *repository) HasOpenTask(ctx context.Context, orderID uuid.UUID) (bool, error) {
	open := append([]enums.TaskStatus{enums.TaskAssigned}, enums.ActiveTaskStatuses...)
	var count int64
	err := r.DB(ctx).Model(&models.DeliveryTask{}).
		Where("order_id = ? AND status IN ?", orderID, open).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) CreateTask(ctx context.Context, task *models.DeliveryTask) error {
	return r.DB(ctx).Create(task).Error
}

func (r *repository) CancelTasks(ctx context.Context, orderID uuid.UUID, statuses []enums.TaskStatus, at time.Time) error {
	return r.DB(ctx).Model(&models.DeliveryTask{}).
		Where("order_id = ? AND status IN ?", orderID, statuses).
		Updates(map[string]any{"status": enums.TaskCancelled, "completed_at": at}).Error
}

func (r *repository) LatestTask(ctx context.Context, orderID uuid.UUID) (*models.DeliveryTask, error) {
	var task models.DeliveryTask
	err := r.DB(ctx).Where("order_id = ?", orderID).
		Order("created_at DESC").
		First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *repository) ListCustomer(ctx context.Context, customerID uuid.UUID, statuses []enums.OrderStatus, params pagination.Params) ([]models.Order, int64, error) {
	query := r.DB(ctx).Model(&models.Order{}).Where("customer_id = ?", customerID)
	if len(statuses) > 0 {
		query = query.Where("order_status IN ?", statuses)
	}
	return repo.Paginate[models.Order](query.Order("created_at DESC"), params)
}

func (r *repository) ListVendor(ctx context.Context, vendorID uuid.UUID, filters VendorFilters, params pagination.Params) ([]models.Order, int64, error) {
	query := r.DB(ctx).Model(&models.Order{}).
		Joins("JOIN vendor_orders ON vendor_orders.order_id = orders.id").
		Joins("JOIN customers ON customers.id = orders.customer_id").
		Where("orders.vendor_id = ?", vendorID)
	if filters.Status != nil {
		query = query.Where("vendor_orders.status = ?", *filters.Status)
	}
	if filters.Date != nil {
		start := dayStart(*filters.Date)
		query = query.Where("orders.created_at >= ? AND orders.created_at < ?", start, start.Add(24*time.Hour))
	}
	if term := repo.LikeTerm(filters.Search); term != "" {
		query = query.Where("(LOWER(orders.order_number) LIKE ? OR LOWER(customers.name) LIKE ?)", term, term)
	}
	return repo.Paginate[models.Order](query.Order("orders.created_at DESC"), params)
}

func (r *repository) ListAdmin(ctx context.Context, filters AdminFilters, params pagination.Params) ([]models.Order, int64, error) {
	query := r.DB(ctx).Model(&models.Order{}).
		Joins("JOIN customers ON customers.id = orders.customer_id")
	if filters.Status != nil {
		query = query.Where("orders.order_status = ?", *filters.Status)
	}
	if filters.PaymentStatus != nil {
		query = query.Where("orders.payment_status = ?", *filters.PaymentStatus)
	}
	if filters.StartDate != nil {
		query = query.Where("orders.created_at >= ?", dayStart(*filters.StartDate))
	}
	if filters.EndDate != nil {
		query = query.Where("orders.created_at < ?", dayStart(*filters.EndDate).Add(24*time.Hour))
	}
	if term := repo.LikeTerm(filters.Search); term != "" {
		query = query.Where(
			"(LOWER(orders.order_number) LIKE ? OR LOWER(customers.name) LIKE ? OR customers.phone LIKE ?)",
			term, term, term,
		)
	}
	return repo.Paginate[models.Order](query.Order("orders.created_at DESC"), params)
}

func (r *repository) ItemCounts(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int, len(orderIDs))
	if len(orderIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		OrderID uuid.UUID
		Total   int
	}
	err := r.DB(ctx).Model(&models.OrderItem{}).
		Select("order_id, COUNT(*) AS total").
		Where("order_id IN ?", orderIDs).
		Group("order_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.OrderID] = row.Total
	}
	return counts, nil
}

func (r *repository) VendorOrders(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID]models.VendorOrder, error) {
	out := make(map[uuid.UUID]models.VendorOrder, len(orderIDs))
	if len(orderIDs) == 0 {
		return out, nil
	}
	var rows []models.VendorOrder
	if err := r.DB(ctx).Where("order_id IN ?", orderIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.OrderID] = row
	}
	return out, nil
}

func (r *repository) Vendors(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Vendor, error) {
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

func (r *repository) Customers(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Customer, error) {
	out := make(map[uuid.UUID]models.Customer, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Customer
	if err := r.DB(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

func (r *repository) Partner(ctx context.Context, id uuid.UUID) (*models.DeliveryPartner, error) {
	var partner models.DeliveryPartner
	if err := r.DB(ctx).Where("id = ?", id).First(&partner).Error; err != nil {
		return nil, err
	}
	return &partner, nil
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
