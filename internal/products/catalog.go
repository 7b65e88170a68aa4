package products

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/marketplace-backend/internal/categories"
	"github.com/angelmondragon/marketplace-backend/internal/repo"
	"github.com/angelmondragon/marketplace-backend/internal/vendors"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
	"github.com/angelmondragon/marketplace-backend/pkg/visibility"
)

const (
	featuredLimit       = 10
	homeCategoryLimit   = 8
	recentLimit         = 8
	relatedLimit        = 8
	detailReviewLimit   = 10
	searchProductLimit  = 50
	searchCategoryLimit = 5
	minSearchLength     = 2
)

var homeBanners = []Banner{
	{Title: "Fresh arrivals", Image: "/static/banners/fresh-arrivals.jpg", Link: "/products?sort_by=created_at"},
	{Title: "Top sellers", Image: "/static/banners/top-sellers.jpg", Link: "/products?sort_by=popularity"},
}

type categoryTree interface {
	Roots(ctx context.Context, limit int) ([]categories.CategoryDTO, error)
	ActiveSubtree(ctx context.Context, id uuid.UUID) (*categories.CategoryDTO, []uuid.UUID, error)
}

type vendorLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
}

// Catalog is the customer view of live products.
type Catalog interface {
	Home(ctx context.Context) (*Home, error)
	ByCategory(ctx context.Context, categoryID uuid.UUID, filters CatalogFilters, params pagination.Params) (*categories.CategoryDTO, pagination.Page[Card], error)
	// Search records the query in the customer's history when customerID is set.
	Search(ctx context.Context, customerID uuid.UUID, query string) (*SearchResult, error)
	Detail(ctx context.Context, customerID, productID uuid.UUID) (*Detail, error)
}

type CatalogParams struct {
	Repo           Repository
	Categories     categoryTree
	CategoryLookup categoryLookup
	Vendors        vendorLookup
	Now            func() time.Time
}

type catalog struct {
	repo           Repository
	categories     categoryTree
	categoryLookup categoryLookup
	vendors        vendorLookup
	now            func() time.Time
}

func NewCatalog(params CatalogParams) (Catalog, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "products repository is required")
	}
	if params.Categories == nil || params.CategoryLookup == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "categories are required")
	}
	if params.Vendors == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor lookup is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &catalog{
		repo:           params.Repo,
		categories:     params.Categories,
		categoryLookup: params.CategoryLookup,
		vendors:        params.Vendors,
		now:            now,
	}, nil
}

func (c *catalog) Home(ctx context.Context) (*Home, error) {
	featured, err := c.repo.Featured(ctx, featuredLimit)
	if err != nil {
		return nil, repo.MapError(err, notFoundMessage)
	}
	recent, err := c.repo.Recent(ctx, recentLimit)
	if err != nil {
		return nil, repo.MapError(err, notFoundMessage)
	}
	roots, err := c.categories.Roots(ctx, homeCategoryLimit)
	if err != nil {
		return nil, err
	}
	featuredCards, err := c.cards(ctx, featured)
	if err != nil {
		return nil, err
	}
	recentCards, err := c.cards(ctx, recent)
	if err != nil {
		return nil, err
	}
	return &Home{
		Featured:   featuredCards,
		Categories: roots,
		Recent:     recentCards,
		Banners:    homeBanners,
	}, nil
}

func (c *catalog) ByCategory(ctx context.Context, categoryID uuid.UUID, filters CatalogFilters, params pagination.Params) (*categories.CategoryDTO, pagination.Page[Card], error) {
	category, ids, err := c.categories.ActiveSubtree(ctx, categoryID)
	if err != nil {
		return nil, pagination.Page[Card]{}, err
	}
	rows, total, err := c.repo.ListByCategories(ctx, ids, filters, params)
	if err != nil {
		return nil, pagination.Page[Card]{}, repo.MapError(err, notFoundMessage)
	}
	cards, err := c.cards(ctx, rows)
	if err != nil {
		return nil, pagination.Page[Card]{}, err
	}
	return category, pagination.NewPage(cards, params, total), nil
}

func (c *catalog) Search(ctx context.Context, customerID uuid.UUID, query string) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < minSearchLength {
		return nil, pkgerrors.Validation(map[string]string{"query": "must be at least 2 characters"})
	}
	if customerID != uuid.Nil {
		if err := c.repo.RecordSearch(ctx, customerID, strings.ToLower(query), c.now().UTC()); err != nil {
			return nil, repo.MapError(err, notFoundMessage)
		}
	}
	rows, err := c.repo.Search(ctx, query, searchProductLimit)
	if err != nil {
		return nil, repo.MapError(err, notFoundMessage)
	}
	matched, err := c.repo.SearchCategories(ctx, query, searchCategoryLimit)
	if err != nil {
		return nil, repo.MapError(err, notFoundMessage)
	}
	cards, err := c.cards(ctx, rows)
	if err != nil {
		return nil, err
	}
	categoryDTOs := make([]categories.CategoryDTO, 0, len(matched))
	for _, category := range matched {
		categoryDTOs = append(categoryDTOs, categories.FromModel(category))
	}
	return &SearchResult{Query: query, Products: cards, Categories: categoryDTOs}, nil
}

func (c *catalog) Detail(ctx context.Context, customerID, productID uuid.UUID) (*Detail, error) {
	product, err := c.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, repo.MapError(err, notFoundMessage)
	}
	vendor, err := c.vendors.FindByID(ctx, product.VendorID)
	if err != nil {
		return nil, repo.MapError(err, notFoundMessage)
	}
	category, err := c.categoryLookup.FindByID(ctx, product.CategoryID)
	if err != nil {
		return nil, repo.MapError(err, notFoundMessage)
	}
	if err := visibility.EnsureProductVisible(visibility.ProductInput{Product: product, Vendor: vendor, Category: category}); err != nil {
		return nil, err
	}

	reviews, err := c.repo.ApprovedReviews(ctx, productID, detailReviewLimit)
	if err != nil {
		return nil, repo.MapError(err, notFoundMessage)
	}
	stats, err := c.repo.RatingStats(ctx, productID)
	if err != nil {
		return nil, repo.MapError(err, notFoundMessage)
	}
	related, err := c.repo.Related(ctx, *product, relatedLimit)
	if err != nil {
		return nil, repo.MapError(err, notFoundMessage)
	}
	relatedCards, err := c.cards(ctx, related)
	if err != nil {
		return nil, err
	}

	detail := &Detail{
		Product:       FromModel(*product),
		Vendor:        vendors.SummaryFromModel(*vendor),
		Category:      categories.FromModel(*category),
		Reviews:       make([]ReviewSummary, 0, len(reviews)),
		AverageRating: stats.Average,
		ReviewCount:   stats.Count,
		Related:       relatedCards,
	}
	for _, review := range reviews {
		detail.Reviews = append(detail.Reviews, ReviewSummary{
			ID:         review.ID,
			CustomerID: review.CustomerID,
			Rating:     review.Rating,
			Comment:    review.Comment,
			Images:     review.Images,
			CreatedAt:  review.CreatedAt,
		})
	}
	if customerID != uuid.Nil {
		if detail.InWishlist, err = c.repo.InWishlist(ctx, customerID, productID); err != nil {
			return nil, repo.MapError(err, notFoundMessage)
		}
		if detail.CartQuantity, err = c.repo.CartQuantity(ctx, customerID, productID); err != nil {
			return nil, repo.MapError(err, notFoundMessage)
		}
	}
	return detail, nil
}

func (c *catalog) cards(ctx context.Context, rows []models.Product) ([]Card, error) {
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.VendorID)
	}
	names, err := c.repo.VendorNames(ctx, ids)
	if err != nil {
		return nil, repo.MapError(err, notFoundMessage)
	}
	out := make([]Card, 0, len(rows))
	for _, row := range rows {
		out = append(out, CardFromModel(row, names[row.VendorID]))
	}
	return out, nil
}
