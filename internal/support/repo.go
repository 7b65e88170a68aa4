package support

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/repo"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
)

// ListFilters narrows the admin ticket queue.
type ListFilters struct {
	Status     *enums.TicketStatus
	Priority   *enums.TicketPriority
	Category   *enums.TicketCategory
	AssignedTo *uuid.UUID
	Search     string
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, ticket *models.SupportTicket) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.SupportTicket, error)
	FindForCustomer(ctx context.Context, customerID, id uuid.UUID) (*models.SupportTicket, error)
	Replies(ctx context.Context, ticketID uuid.UUID) ([]models.TicketReply, error)
	CreateReply(ctx context.Context, reply *models.TicketReply) error
	// ClaimOpen moves an open ticket to in_progress under adminID. It reports
	// false when the ticket was no longer open.
	ClaimOpen(ctx context.Context, id, adminID uuid.UUID) (bool, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	ListCustomer(ctx context.Context, customerID uuid.UUID, status *enums.TicketStatus, params pagination.Params) ([]models.SupportTicket, int64, error)
	ListAdmin(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.SupportTicket, int64, error)
	OrderBelongs(ctx context.Context, customerID, orderID uuid.UUID) (bool, error)
	FindAdmin(ctx context.Context, id uuid.UUID) (*models.Admin, error)
	FindCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	FindOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	CustomerNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
	AdminNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

type repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(tx)}
}

func (r *repository) Create(ctx context.Context, ticket *models.SupportTicket) error {
	return r.DB(ctx).Create(ticket).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.SupportTicket, error) {
	var ticket models.SupportTicket
	if err := r.DB(ctx).Where("id = ?", id).First(&ticket).Error; err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *repository) FindForCustomer(ctx context.Context, customerID, id uuid.UUID) (*models.SupportTicket, error) {
	var ticket models.SupportTicket
	if err := r.DB(ctx).Where("id = ? AND customer_id = ?", id, customerID).First(&ticket).Error; err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *repository) Replies(ctx context.Context, ticketID uuid.UUID) ([]models.TicketReply, error) {
	replies := make([]models.TicketReply, 0)
	err := r.DB(ctx).Where("ticket_id = ?", ticketID).Order("created_at ASC").Find(&replies).Error
	return replies, err
}

func (r *repository) CreateReply(ctx context.Context, reply *models.TicketReply) error {
	return r.DB(ctx).Create(reply).Error
}

func (r *repository) ClaimOpen(ctx context.Context, id, adminID uuid.UUID) (bool, error) {
	res := r.DB(ctx).Model(&models.SupportTicket{}).
		Where("id = ? AND status = ?", id, enums.TicketOpen).
		Updates(map[string]any{
			"status":      enums.TicketInProgress,
			"assigned_to": adminID,
		})
	return res.RowsAffected == 1, res.Error
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	res := r.DB(ctx).Model(&models.SupportTicket{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) ListCustomer(ctx context.Context, customerID uuid.UUID, status *enums.TicketStatus, params pagination.Params) ([]models.SupportTicket, int64, error) {
	query := r.DB(ctx).Model(&models.SupportTicket{}).Where("customer_id = ?", customerID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	return repo.Paginate[models.SupportTicket](query.Order("created_at DESC"), params)
}

func (r *repository) ListAdmin(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.SupportTicket, int64, error) {
	query := r.DB(ctx).Model(&models.SupportTicket{}).
		Joins("JOIN customers ON customers.id = support_tickets.customer_id")
	if filters.Status != nil {
		query = query.Where("support_tickets.status = ?", *filters.Status)
	}
	if filters.Priority != nil {
		query = query.Where("support_tickets.priority = ?", *filters.Priority)
	}
	if filters.Category != nil {
		query = query.Where("support_tickets.category = ?", *filters.Category)
	}
	if filters.AssignedTo != nil {
		query = query.Where("support_tickets.assigned_to = ?", *filters.AssignedTo)
	}
	if term := repo.LikeTerm(filters.Search); term != "" {
		query = query.Where(
			"(LOWER(support_tickets.ticket_number) LIKE ? OR LOWER(support_tickets.subject) LIKE ? OR LOWER(customers.name) LIKE ?)",
			term, term, term,
		)
	}
	return repo.Paginate[models.SupportTicket](query.Order("support_tickets.created_at DESC"), params)
}

func (r *repository) OrderBelongs(ctx context.Context, customerID, orderID uuid.UUID) (bool, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Order{}).
		Where("id = ? AND customer_id = ?", orderID, customerID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) FindAdmin(ctx context.Context, id uuid.UUID) (*models.Admin, error) {
	var admin models.Admin
	if err := r.DB(ctx).Where("id = ?", id).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *repository) FindCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := r.DB(ctx).Where("id = ?", id).First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *repository) FindOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.DB(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) CustomerNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	var rows []models.Customer
	if err := r.DB(ctx).Select("id", "name").Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return names, nil
}

func (r *repository) AdminNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	var rows []models.Admin
	if err := r.DB(ctx).Select("id", "name").Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return names, nil
}
