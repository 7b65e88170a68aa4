package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/repo"
	"github.com/angelmondragon/marketplace-backend/pkg/checkout"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
)

const itemNotFoundMessage = "Cart item not found"

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type vendorLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
}

// Service manages the customer's cart. Lines are unique per product and
// vendor; adding an existing product grows its line.
type Service interface {
	Get(ctx context.Context, customerID uuid.UUID) (*View, error)
	Add(ctx context.Context, customerID uuid.UUID, input AddInput) (*ItemDTO, bool, error)
	UpdateQuantity(ctx context.Context, customerID, itemID uuid.UUID, quantity int) (*ItemDTO, error)
	Remove(ctx context.Context, customerID, itemID uuid.UUID) error
	Clear(ctx context.Context, customerID uuid.UUID) error
}

type service struct {
	repo           Repository
	products       productLoader
	vendors        vendorLoader
	deliveryCharge decimal.Decimal
}

func NewService(repo Repository, products productLoader, vendors vendorLoader, deliveryCharge decimal.Decimal) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart repository is required")
	}
	if products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product loader is required")
	}
	if vendors == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor loader is required")
	}
	return &service{repo: repo, products: products, vendors: vendors, deliveryCharge: deliveryCharge}, nil
}

func (s *service) Get(ctx context.Context, customerID uuid.UUID) (*View, error) {
	rows, err := s.repo.List(ctx, customerID)
	if err != nil {
		return nil, repo.MapError(err, itemNotFoundMessage)
	}
	view := &View{Items: make([]ItemDTO, 0, len(rows))}
	subtotal := decimal.Zero
	for _, row := range rows {
		view.Items = append(view.Items, ItemFromModel(row))
		subtotal = subtotal.Add(row.LineTotal())
	}
	view.Summary = Summarize(subtotal, len(rows), s.deliveryCharge)
	return view, nil
}

// Summarize applies the flat delivery charge to a non-empty subtotal.
func Summarize(subtotal decimal.Decimal, lines int, deliveryCharge decimal.Decimal) Summary {
	charge := decimal.Zero
	if subtotal.IsPositive() {
		charge = deliveryCharge
	}
	return Summary{
		Subtotal:       subtotal,
		DeliveryCharge: charge,
		Total:          subtotal.Add(charge),
		ItemCount:      lines,
	}
}

// Add reports whether an existing line was grown instead of created.
func (s *service) Add(ctx context.Context, customerID uuid.UUID, input AddInput) (*ItemDTO, bool, error) {
	product, err := s.availableProduct(ctx, input.ProductID)
	if err != nil {
		return nil, false, err
	}
	price := product.EffectivePrice()

	existing, err := s.repo.FindLine(ctx, customerID, product.ID, product.VendorID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := checkout.ValidateLine(checkout.LineFor(*product, input.Quantity)); err != nil {
			return nil, false, err
		}
		item := &models.CartItem{
			CustomerID: customerID,
			ProductID:  product.ID,
			VendorID:   product.VendorID,
			Quantity:   input.Quantity,
			UnitPrice:  price,
			Notes:      input.Notes,
		}
		if err := s.repo.Create(ctx, item); err != nil {
			return nil, false, repo.MapError(err, itemNotFoundMessage)
		}
		item.Product = product
		dto := ItemFromModel(*item)
		return &dto, false, nil
	case err != nil:
		return nil, false, repo.MapError(err, itemNotFoundMessage)
	}

	total := existing.Quantity + input.Quantity
	if err := checkout.ValidateLine(checkout.LineFor(*product, total)); err != nil {
		return nil, false, err
	}
	updates := map[string]any{"quantity": total, "unit_price": price}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}
	if err := s.repo.Update(ctx, existing.ID, updates); err != nil {
		return nil, false, repo.MapError(err, itemNotFoundMessage)
	}
	existing.Quantity = total
	existing.UnitPrice = price
	if input.Notes != nil {
		existing.Notes = input.Notes
	}
	existing.Product = product
	dto := ItemFromModel(*existing)
	return &dto, true, nil
}

func (s *service) UpdateQuantity(ctx context.Context, customerID, itemID uuid.UUID, quantity int) (*ItemDTO, error) {
	item, err := s.repo.FindByID(ctx, customerID, itemID)
	if err != nil {
		return nil, repo.MapError(err, itemNotFoundMessage)
	}
	product, err := s.availableProduct(ctx, item.ProductID)
	if err != nil {
		return nil, err
	}
	if err := checkout.ValidateLine(checkout.LineFor(*product, quantity)); err != nil {
		return nil, err
	}
	price := product.EffectivePrice()
	if err := s.repo.Update(ctx, item.ID, map[string]any{"quantity": quantity, "unit_price": price}); err != nil {
		return nil, repo.MapError(err, itemNotFoundMessage)
	}
	item.Quantity = quantity
	item.UnitPrice = price
	item.Product = product
	dto := ItemFromModel(*item)
	return &dto, nil
}

func (s *service) Remove(ctx context.Context, customerID, itemID uuid.UUID) error {
	return repo.MapError(s.repo.Delete(ctx, customerID, itemID), itemNotFoundMessage)
}

func (s *service) Clear(ctx context.Context, customerID uuid.UUID) error {
	return repo.MapError(s.repo.Clear(ctx, customerID), itemNotFoundMessage)
}

// availableProduct loads a product and reports products of vendors that are
// not live as unavailable.
func (s *service) availableProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, repo.MapError(err, "Product not found")
	}
	vendor, err := s.vendors.FindByID(ctx, product.VendorID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repo.MapError(err, "Product not found")
	}
	if vendor == nil || vendor.Status != enums.VendorStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeBusinessRule, "Product not available")
	}
	return product, nil
}
