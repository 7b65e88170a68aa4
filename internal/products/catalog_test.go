package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/categories"
	"github.com/angelmondragon/marketplace-backend/internal/vendors"
	"github.com/angelmondragon/marketplace-backend/pkg/db/dbtest"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
)

func newTestCatalog(t *testing.T) (Catalog, *gorm.DB) {
	t.Helper()
	conn := dbtest.Open(t)
	categoryRepo := categories.NewRepository(conn)
	tree, err := categories.NewService(categoryRepo)
	require.NoError(t, err)
	cat, err := NewCatalog(CatalogParams{
		Repo:           NewRepository(conn),
		Categories:     tree,
		CategoryLookup: categoryRepo,
		Vendors:        vendors.NewRepository(conn),
	})
	require.NoError(t, err)
	return cat, conn
}

func TestDetailHidesProductsOfInactiveVendors(t *testing.T) {
	cat, conn := newTestCatalog(t)
	pending := dbtest.Vendor(t, conn, func(v *models.Vendor) { v.Status = enums.VendorStatusPending })
	product := dbtest.Product(t, conn, pending.ID, dbtest.Category(t, conn).ID)

	_, err := cat.Detail(context.Background(), uuid.Nil, product.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	assert.Equal(t, "Product not found", typed.Message())
}

func TestDetailAggregatesReviewsAndCustomerState(t *testing.T) {
	cat, conn := newTestCatalog(t)
	vendor := dbtest.Vendor(t, conn)
	category := dbtest.Category(t, conn)
	product := dbtest.Product(t, conn, vendor.ID, category.ID)
	sibling := dbtest.Product(t, conn, vendor.ID, category.ID)
	customer := dbtest.Customer(t, conn)

	for _, review := range []models.OrderReview{
		{OrderID: uuid.New(), ProductID: product.ID, CustomerID: uuid.New(), Rating: 5, IsApproved: true},
		{OrderID: uuid.New(), ProductID: product.ID, CustomerID: uuid.New(), Rating: 4, IsApproved: true},
		{OrderID: uuid.New(), ProductID: product.ID, CustomerID: uuid.New(), Rating: 1},
	} {
		review := review
		require.NoError(t, conn.Create(&review).Error)
	}
	require.NoError(t, conn.Create(&models.WishlistItem{CustomerID: customer.ID, ProductID: product.ID}).Error)
	require.NoError(t, conn.Create(&models.CartItem{
		CustomerID: customer.ID,
		ProductID:  product.ID,
		VendorID:   vendor.ID,
		Quantity:   3,
		UnitPrice:  product.Price,
	}).Error)

	detail, err := cat.Detail(context.Background(), customer.ID, product.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Reviews, 2)
	assert.Equal(t, int64(2), detail.ReviewCount)
	assert.True(t, decimal.RequireFromString("4.5").Equal(detail.AverageRating))
	assert.True(t, detail.InWishlist)
	assert.Equal(t, 3, detail.CartQuantity)
	assert.Equal(t, vendor.BusinessName, detail.Vendor.BusinessName)
	require.Len(t, detail.Related, 1)
	assert.Equal(t, sibling.ID, detail.Related[0].ID)
}

func TestByCategoryIncludesSubcategories(t *testing.T) {
	cat, conn := newTestCatalog(t)
	vendor := dbtest.Vendor(t, conn)
	root := dbtest.Category(t, conn)
	child := dbtest.Category(t, conn, func(c *models.Category) { c.ParentID = &root.ID })
	dbtest.Product(t, conn, vendor.ID, root.ID, func(p *models.Product) { p.Name = "B"; p.Price = decimal.NewFromInt(30) })
	dbtest.Product(t, conn, vendor.ID, child.ID, func(p *models.Product) { p.Name = "A"; p.Price = decimal.NewFromInt(20) })
	hidden := dbtest.Product(t, conn, vendor.ID, child.ID)
	require.NoError(t, conn.Model(&hidden).Update("is_active", false).Error)

	category, page, err := cat.ByCategory(context.Background(), root.ID, CatalogFilters{SortBy: SortName, SortOrder: "asc"}, pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, root.ID, category.ID)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "A", page.Items[0].Name)
	assert.Equal(t, "B", page.Items[1].Name)
	assert.Equal(t, vendor.BusinessName, page.Items[0].VendorName)
}

func TestSearchRecordsHistory(t *testing.T) {
	cat, conn := newTestCatalog(t)
	vendor := dbtest.Vendor(t, conn, func(v *models.Vendor) { v.BusinessName = "Golden Hive" })
	category := dbtest.Category(t, conn, func(c *models.Category) { c.Name = "Honey & Jams" })
	dbtest.Product(t, conn, vendor.ID, category.ID, func(p *models.Product) { p.Name = "Wildflower Jar" })
	customer := dbtest.Customer(t, conn)
	ctx := context.Background()

	_, err := cat.Search(ctx, customer.ID, "h")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	byVendor, err := cat.Search(ctx, customer.ID, "golden")
	require.NoError(t, err)
	assert.Len(t, byVendor.Products, 1)

	byCategory, err := cat.Search(ctx, customer.ID, "Honey")
	require.NoError(t, err)
	assert.Len(t, byCategory.Products, 1)
	assert.Len(t, byCategory.Categories, 1)

	_, err = cat.Search(ctx, customer.ID, "honey")
	require.NoError(t, err)

	var history []models.SearchHistory
	require.NoError(t, conn.Where("customer_id = ?", customer.ID).Order("query").Find(&history).Error)
	require.Len(t, history, 2)
	assert.Equal(t, "golden", history[0].Query)
	assert.Equal(t, "honey", history[1].Query)
	assert.Equal(t, 2, history[1].SearchCount)
}

func TestHomeCollectsSections(t *testing.T) {
	cat, conn := newTestCatalog(t)
	vendor := dbtest.Vendor(t, conn)
	category := dbtest.Category(t, conn)
	dbtest.Product(t, conn, vendor.ID, category.ID, func(p *models.Product) { p.IsFeatured = true })
	dbtest.Product(t, conn, vendor.ID, category.ID)

	home, err := cat.Home(context.Background())
	require.NoError(t, err)
	assert.Len(t, home.Featured, 1)
	assert.Len(t, home.Recent, 2)
	require.Len(t, home.Categories, 1)
	assert.Equal(t, int64(2), home.Categories[0].ProductCount)
	assert.NotEmpty(t, home.Banners)
}

func TestDecrementStockIsConditional(t *testing.T) {
	conn := dbtest.Open(t)
	repository := NewRepository(conn)
	product := dbtest.Product(t, conn, uuid.New(), uuid.New(), func(p *models.Product) { p.StockQuantity = 3 })
	ctx := context.Background()

	ok, err := repository.DecrementStock(ctx, product.ID, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repository.DecrementStock(ctx, product.ID, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repository.RestoreStock(ctx, product.ID, 2))
	reloaded, err := repository.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, reloaded.StockQuantity)
}
