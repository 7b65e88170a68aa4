package products

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/marketplace-backend/internal/repo"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
	"github.com/angelmondragon/marketplace-backend/pkg/slug"
)

const notFoundMessage = "Product not found"

type vendorGate interface {
	RequireActive(ctx context.Context, vendorID uuid.UUID) (*models.Vendor, error)
}

type categoryLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

// Service manages the products of the authenticated vendor. Products owned by
// another vendor are reported as missing.
type Service interface {
	List(ctx context.Context, vendorID uuid.UUID, filters VendorListFilters, params pagination.Params) (pagination.Page[ProductDTO], error)
	Get(ctx context.Context, vendorID, productID uuid.UUID) (*ProductDTO, error)
	Create(ctx context.Context, vendorID uuid.UUID, input CreateInput) (*ProductDTO, error)
	Update(ctx context.Context, vendorID, productID uuid.UUID, input UpdateInput) (*ProductDTO, error)
	UpdateStock(ctx context.Context, vendorID, productID uuid.UUID, stock int) (*ProductDTO, error)
	Delete(ctx context.Context, vendorID, productID uuid.UUID) error
}

type service struct {
	repo       Repository
	vendors    vendorGate
	categories categoryLookup
	now        func() time.Time
}

func NewService(repo Repository, vendors vendorGate, categories categoryLookup, now func() time.Time) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "products repository is required")
	}
	if vendors == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor gate is required")
	}
	if categories == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category lookup is required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, vendors: vendors, categories: categories, now: now}, nil
}

func (s *service) List(ctx context.Context, vendorID uuid.UUID, filters VendorListFilters, params pagination.Params) (pagination.Page[ProductDTO], error) {
	rows, total, err := s.repo.ListVendor(ctx, vendorID, filters, params)
	if err != nil {
		return pagination.Page[ProductDTO]{}, repo.MapError(err, notFoundMessage)
	}
	return pagination.Map(pagination.NewPage(rows, params, total), FromModel), nil
}

func (s *service) Get(ctx context.Context, vendorID, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindForVendor(ctx, vendorID, productID)
	if err != nil {
		return nil, repo.MapError(err, notFoundMessage)
	}
	dto := FromModel(*product)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, vendorID uuid.UUID, input CreateInput) (*ProductDTO, error) {
	if _, err := s.vendors.RequireActive(ctx, vendorID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.Validation(map[string]string{"name": "is required"})
	}
	if err := s.ensureCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	product := &models.Product{
		VendorID:         vendorID,
		CategoryID:       input.CategoryID,
		Name:             name,
		Slug:             slug.Make(name) + "-" + strconv.FormatInt(s.now().Unix(), 10),
		SKU:              input.SKU,
		Description:      input.Description,
		Price:            input.Price,
		DiscountedPrice:  input.DiscountedPrice,
		StockQuantity:    input.StockQuantity,
		MinOrderQuantity: 1,
		MaxOrderQuantity: input.MaxOrderQuantity,
		Images:           input.Images,
		Attributes:       input.Attributes,
		IsActive:         true,
	}
	if input.MinOrderQuantity != nil {
		product.MinOrderQuantity = *input.MinOrderQuantity
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}
	if err := validatePricing(*product); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, repo.MapError(err, notFoundMessage)
	}
	dto := FromModel(*product)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, vendorID, productID uuid.UUID, input UpdateInput) (*ProductDTO, error) {
	current, err := s.repo.FindForVendor(ctx, vendorID, productID)
	if err != nil {
		return nil, repo.MapError(err, notFoundMessage)
	}

	merged := *current
	updates := map[string]any{}
	if input.Name != nil {
		merged.Name = strings.TrimSpace(*input.Name)
		updates["name"] = merged.Name
	}
	if input.CategoryID != nil {
		if err := s.ensureCategory(ctx, *input.CategoryID); err != nil {
			return nil, err
		}
		updates["category_id"] = *input.CategoryID
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.SKU != nil {
		updates["sku"] = *input.SKU
	}
	if input.Price != nil {
		merged.Price = *input.Price
		updates["price"] = *input.Price
	}
	if input.DiscountedPrice != nil {
		merged.DiscountedPrice = input.DiscountedPrice
		updates["discounted_price"] = *input.DiscountedPrice
	}
	if input.StockQuantity != nil {
		merged.StockQuantity = *input.StockQuantity
		updates["stock_quantity"] = *input.StockQuantity
	}
	if input.MinOrderQuantity != nil {
		merged.MinOrderQuantity = *input.MinOrderQuantity
		updates["min_order_quantity"] = *input.MinOrderQuantity
	}
	if input.MaxOrderQuantity != nil {
		merged.MaxOrderQuantity = input.MaxOrderQuantity
		updates["max_order_quantity"] = *input.MaxOrderQuantity
	}
	if input.Images != nil {
		updates["images"] = jsonColumn(input.Images)
	}
	if input.Attributes != nil {
		updates["attributes"] = jsonColumn(input.Attributes)
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if input.IsFeatured != nil {
		updates["is_featured"] = *input.IsFeatured
	}
	if merged.Name == "" {
		return nil, pkgerrors.Validation(map[string]string{"name": "is required"})
	}
	if err := validatePricing(merged); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, vendorID, productID, updates); err != nil {
		return nil, repo.MapError(err, notFoundMessage)
	}
	return s.Get(ctx, vendorID, productID)
}

func (s *service) UpdateStock(ctx context.Context, vendorID, productID uuid.UUID, stock int) (*ProductDTO, error) {
	if stock < 0 {
		return nil, pkgerrors.Validation(map[string]string{"stock_quantity": "must be greater than or equal to 0"})
	}
	if err := s.repo.Update(ctx, vendorID, productID, map[string]any{"stock_quantity": stock}); err != nil {
		return nil, repo.MapError(err, notFoundMessage)
	}
	return s.Get(ctx, vendorID, productID)
}

func (s *service) Delete(ctx context.Context, vendorID, productID uuid.UUID) error {
	if _, err := s.repo.FindForVendor(ctx, vendorID, productID); err != nil {
		return repo.MapError(err, notFoundMessage)
	}
	busy, err := s.repo.HasActiveOrders(ctx, productID)
	if err != nil {
		return repo.MapError(err, notFoundMessage)
	}
	if busy {
		return pkgerrors.New(pkgerrors.CodeBusinessRule, "Cannot delete product with active orders")
	}

	// Past orders and reviews keep their product reference, so the row is
	// retired from the catalog instead of removed.
	history, err := s.repo.HasOrderHistory(ctx, productID)
	if err != nil {
		return repo.MapError(err, notFoundMessage)
	}
	if history {
		return repo.MapError(s.repo.Update(ctx, vendorID, productID, map[string]any{"is_active": false}), notFoundMessage)
	}
	return repo.MapError(s.repo.Delete(ctx, vendorID, productID), notFoundMessage)
}

// jsonColumn encodes a value for a serializer:json column. Map updates skip
// the field serializer.
func jsonColumn(value any) string {
	raw, err := json.Marshal(value)
	if err != nil {
		return "null"
	}
	return string(raw)
}

func (s *service) ensureCategory(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.Validation(map[string]string{"category_id": "is required"})
	}
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		return repo.MapError(err, "Category not found")
	}
	return nil
}

func validatePricing(p models.Product) error {
	fields := map[string]string{}
	if !p.Price.IsPositive() {
		fields["price"] = "must be greater than 0"
	}
	if p.DiscountedPrice != nil && p.DiscountedPrice.GreaterThanOrEqual(p.Price) {
		fields["discounted_price"] = "must be less than price"
	}
	if p.StockQuantity < 0 {
		fields["stock_quantity"] = "must be greater than or equal to 0"
	}
	if p.MinOrderQuantity < 1 {
		fields["min_order_quantity"] = "must be at least 1"
	}
	if p.MaxOrderQuantity != nil && *p.MaxOrderQuantity < p.MinOrderQuantity {
		fields["max_order_quantity"] = "must be greater than or equal to min_order_quantity"
	}
	if len(fields) > 0 {
		return pkgerrors.Validation(fields)
	}
	return nil
}
