// Package reviews holds customer product reviews and their moderation.
package reviews

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/marketplace-backend/internal/repo"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
)

type SubmitInput struct {
	OrderID   uuid.UUID `json:"order_id" validate:"required"`
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Rating    int       `json:"rating" validate:"required,min=1,max=5"`
	Comment   *string   `json:"comment" validate:"omitempty,max=2000"`
	Images    []string  `json:"images" validate:"omitempty,max=10,dive,url"`
}

type ReviewDTO struct {
	ID           uuid.UUID `json:"id"`
	OrderID      uuid.UUID `json:"order_id"`
	ProductID    uuid.UUID `json:"product_id"`
	ProductName  string    `json:"product_name,omitempty"`
	CustomerID   uuid.UUID `json:"customer_id"`
	CustomerName string    `json:"customer_name,omitempty"`
	Rating       int       `json:"rating"`
	Comment      *string   `json:"comment,omitempty"`
	Images       []string  `json:"images"`
	IsApproved   bool      `json:"is_approved"`
	CreatedAt    time.Time `json:"created_at"`
}

func fromModel(m models.OrderReview) ReviewDTO {
	images := m.Images
	if images == nil {
		images = []string{}
	}
	return ReviewDTO{
		ID:         m.ID,
		OrderID:    m.OrderID,
		ProductID:  m.ProductID,
		CustomerID: m.CustomerID,
		Rating:     m.Rating,
		Comment:    m.Comment,
		Images:     images,
		IsApproved: m.IsApproved,
		CreatedAt:  m.CreatedAt,
	}
}

type Service interface {
	Submit(ctx context.Context, customerID uuid.UUID, input SubmitInput) (*ReviewDTO, error)
	ListPending(ctx context.Context, params pagination.Params) (pagination.Page[ReviewDTO], error)
	Approve(ctx context.Context, id uuid.UUID) (*ReviewDTO, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, errors.New("reviews repository required")
	}
	return &service{repo: repo}, nil
}

// Submit accepts one review per delivered order line. Reviews stay hidden
// until approved.
func (s *service) Submit(ctx context.Context, customerID uuid.UUID, input SubmitInput) (*ReviewDTO, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.Validation(map[string]string{"rating": "must be between 1 and 5"})
	}
	delivered, err := s.repo.IsDelivered(ctx, customerID, input.OrderID)
	if err != nil {
		return nil, repo.MapError(err, "Order not found")
	}
	if !delivered {
		return nil, pkgerrors.New(pkgerrors.CodeBusinessRule, "Order not found or not delivered")
	}
	inOrder, err := s.repo.OrderHasProduct(ctx, input.OrderID, input.ProductID)
	if err != nil {
		return nil, repo.MapError(err, "Product not found")
	}
	if !inOrder {
		return nil, pkgerrors.New(pkgerrors.CodeBusinessRule, "Product not found in order")
	}
	exists, err := s.repo.Exists(ctx, input.OrderID, input.ProductID, customerID)
	if err != nil {
		return nil, repo.MapError(err, "Review not found")
	}
	if exists {
		return nil, pkgerrors.New(pkgerrors.CodeBusinessRule, "Already reviewed this product")
	}

	review := &models.OrderReview{
		OrderID:    input.OrderID,
		ProductID:  input.ProductID,
		CustomerID: customerID,
		Rating:     input.Rating,
		Comment:    input.Comment,
		Images:     input.Images,
	}
	if err := s.repo.Create(ctx, review); err != nil {
		mapped := repo.MapError(err, "Review not found")
		if pkgerrors.IsCode(mapped, pkgerrors.CodeConflict) {
			return nil, pkgerrors.New(pkgerrors.CodeBusinessRule, "Already reviewed this product")
		}
		return nil, mapped
	}
	dto := fromModel(*review)
	return &dto, nil
}

func (s *service) ListPending(ctx context.Context, params pagination.Params) (pagination.Page[ReviewDTO], error) {
	params = params.Normalize()
	rows, total, err := s.repo.ListPending(ctx, params)
	if err != nil {
		return pagination.Page[ReviewDTO]{}, repo.MapError(err, "Review not found")
	}
	customerIDs := make([]uuid.UUID, 0, len(rows))
	productIDs := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		customerIDs = append(customerIDs, row.CustomerID)
		productIDs = append(productIDs, row.ProductID)
	}
	customers, products, err := s.repo.Names(ctx, customerIDs, productIDs)
	if err != nil {
		return pagination.Page[ReviewDTO]{}, repo.MapError(err, "Review not found")
	}
	items := make([]ReviewDTO, 0, len(rows))
	for _, row := range rows {
		dto := fromModel(row)
		dto.CustomerName = customers[row.CustomerID]
		dto.ProductName = products[row.ProductID]
		items = append(items, dto)
	}
	return pagination.NewPage(items, params, total), nil
}

func (s *service) Approve(ctx context.Context, id uuid.UUID) (*ReviewDTO, error) {
	approved, err := s.repo.Approve(ctx, id)
	if err != nil {
		return nil, repo.MapError(err, "Review not found")
	}
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repo.MapError(err, "Review not found")
	}
	if !approved {
		return nil, pkgerrors.New(pkgerrors.CodeBusinessRule, "Review already approved")
	}
	dto := fromModel(*review)
	return &dto, nil
}
