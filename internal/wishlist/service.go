package wishlist

import (
	"context"

	"github.com/google/uuid"

	"github.com/angelmondragon/marketplace-backend/internal/products"
	"github.com/angelmondragon/marketplace-backend/internal/repo"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
)

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes business rules for wishlist management.
type Service interface {
	List(ctx context.Context, customerID uuid.UUID) ([]ItemDTO, error)
	Add(ctx context.Context, customerID, productID uuid.UUID) error
	Remove(ctx context.Context, customerID, productID uuid.UUID) error
}

type service struct {
	repo     Repository
	products productLoader
}

func NewService(repo Repository, products productLoader) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist repository is required")
	}
	if products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product loader is required")
	}
	return &service{repo: repo, products: products}, nil
}

func (s *service) List(ctx context.Context, customerID uuid.UUID) ([]ItemDTO, error) {
	rows, err := s.repo.List(ctx, customerID)
	if err != nil {
		return nil, repo.MapError(err, "Item not in wishlist")
	}
	vendorIDs := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		if row.Product != nil {
			vendorIDs = append(vendorIDs, row.Product.VendorID)
		}
	}
	names, err := s.repo.VendorNames(ctx, vendorIDs)
	if err != nil {
		return nil, repo.MapError(err, "Item not in wishlist")
	}

	out := make([]ItemDTO, 0, len(rows))
	for _, row := range rows {
		if row.Product == nil {
			continue
		}
		out = append(out, ItemDTO{
			ID:        row.ID,
			Product:   products.CardFromModel(*row.Product, names[row.Product.VendorID]),
			CreatedAt: row.CreatedAt,
		})
	}
	return out, nil
}

func (s *service) Add(ctx context.Context, customerID, productID uuid.UUID) error {
	if productID == uuid.Nil {
		return pkgerrors.Validation(map[string]string{"product_id": "is required"})
	}
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return repo.MapError(err, "Product not found")
	}
	if !product.IsActive {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
	}
	added, err := s.repo.Add(ctx, customerID, productID)
	if err != nil {
		return repo.MapError(err, "Product not found")
	}
	if !added {
		return pkgerrors.New(pkgerrors.CodeBusinessRule, "Already in wishlist")
	}
	return nil
}

func (s *service) Remove(ctx context.Context, customerID, productID uuid.UUID) error {
	removed, err := s.repo.Remove(ctx, customerID, productID)
	if err != nil {
		return repo.MapError(err, "Item not in wishlist")
	}
	if !removed {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Item not in wishlist")
	}
	return nil
}
