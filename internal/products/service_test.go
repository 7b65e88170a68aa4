package products

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/categories"
	"github.com/angelmondragon/marketplace-backend/pkg/db/dbtest"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
)

type stubGate struct {
	err error
}

func (s stubGate) RequireActive(_ context.Context, id uuid.UUID) (*models.Vendor, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.Vendor{ID: id, Status: enums.VendorStatusActive}, nil
}

var fixedNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newVendorService(t *testing.T, gate vendorGate) (Service, *gorm.DB) {
	t.Helper()
	conn := dbtest.Open(t)
	svc, err := NewService(NewRepository(conn), gate, categories.NewRepository(conn), func() time.Time { return fixedNow })
	require.NoError(t, err)
	return svc, conn
}

func decimalPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func intPtr(v int) *int { return &v }

func TestCreateBuildsTimestampedSlug(t *testing.T) {
	svc, conn := newVendorService(t, stubGate{})
	category := dbtest.Category(t, conn)
	vendorID := uuid.New()

	dto, err := svc.Create(context.Background(), vendorID, CreateInput{
		Name:            "Organic Honey",
		CategoryID:      category.ID,
		Price:           decimal.NewFromInt(250),
		DiscountedPrice: decimalPtr(200),
		StockQuantity:   5,
	})
	require.NoError(t, err)
	assert.Equal(t, "organic-honey-1772359200", dto.Slug)
	assert.Equal(t, 1, dto.MinOrderQuantity)
	assert.True(t, dto.IsActive)
	assert.True(t, decimal.NewFromInt(200).Equal(dto.EffectivePrice))
	assert.Equal(t, "low_stock", dto.StockStatus)
	assert.Equal(t, []string{}, dto.Images)
}

func TestCreateRequiresActiveVendor(t *testing.T) {
	blocked := pkgerrors.New(pkgerrors.CodeForbidden, "Your account is pending")
	svc, conn := newVendorService(t, stubGate{err: blocked})
	category := dbtest.Category(t, conn)

	_, err := svc.Create(context.Background(), uuid.New(), CreateInput{Name: "X", CategoryID: category.ID, Price: decimal.NewFromInt(1)})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
}

func TestCreateValidatesPricingAndBounds(t *testing.T) {
	svc, conn := newVendorService(t, stubGate{})
	category := dbtest.Category(t, conn)

	_, err := svc.Create(context.Background(), uuid.New(), CreateInput{
		Name:             "X",
		CategoryID:       category.ID,
		Price:            decimal.NewFromInt(10),
		DiscountedPrice:  decimalPtr(10),
		MinOrderQuantity: intPtr(3),
		MaxOrderQuantity: intPtr(2),
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, map[string]string{
		"discounted_price":   "must be less than price",
		"max_order_quantity": "must be greater than or equal to min_order_quantity",
	}, typed.Details())

	_, err = svc.Create(context.Background(), uuid.New(), CreateInput{Name: "X", CategoryID: uuid.New(), Price: decimal.NewFromInt(10)})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestOtherVendorsProductLooksMissing(t *testing.T) {
	svc, conn := newVendorService(t, stubGate{})
	owner := dbtest.Vendor(t, conn)
	other := dbtest.Vendor(t, conn)
	product := dbtest.Product(t, conn, owner.ID, dbtest.Category(t, conn).ID)

	_, err := svc.Get(context.Background(), other.ID, product.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.UpdateStock(context.Background(), other.ID, product.ID, 3)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	err = svc.Delete(context.Background(), other.ID, product.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestUpdateMergesAndRevalidates(t *testing.T) {
	svc, conn := newVendorService(t, stubGate{})
	vendor := dbtest.Vendor(t, conn)
	product := dbtest.Product(t, conn, vendor.ID, dbtest.Category(t, conn).ID)
	ctx := context.Background()

	_, err := svc.Update(ctx, vendor.ID, product.ID, UpdateInput{DiscountedPrice: decimalPtr(150)})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	name := "Renamed"
	dto, err := svc.Update(ctx, vendor.ID, product.ID, UpdateInput{
		Name:       &name,
		Images:     []string{"https://cdn.example.com/a.jpg"},
		Attributes: map[string]string{"weight": "1kg"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", dto.Name)
	assert.Equal(t, product.Slug, dto.Slug)
	assert.Equal(t, []string{"https://cdn.example.com/a.jpg"}, dto.Images)
	assert.Equal(t, map[string]string{"weight": "1kg"}, dto.Attributes)
}

func TestUpdateStockOverwrites(t *testing.T) {
	svc, conn := newVendorService(t, stubGate{})
	vendor := dbtest.Vendor(t, conn)
	product := dbtest.Product(t, conn, vendor.ID, dbtest.Category(t, conn).ID)

	dto, err := svc.UpdateStock(context.Background(), vendor.ID, product.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, dto.StockQuantity)
	assert.Equal(t, "out_of_stock", dto.StockStatus)

	_, err = svc.UpdateStock(context.Background(), vendor.ID, product.ID, -1)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestDeleteRefusedWithActiveOrders(t *testing.T) {
	svc, conn := newVendorService(t, stubGate{})
	vendor := dbtest.Vendor(t, conn)
	product := dbtest.Product(t, conn, vendor.ID, dbtest.Category(t, conn).ID)
	dbtest.Order(t, conn, uuid.New(), product, 2, func(o *models.Order) { o.OrderStatus = enums.OrderStatusConfirmed })

	err := svc.Delete(context.Background(), vendor.ID, product.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeBusinessRule, typed.Code())
	assert.Equal(t, "Cannot delete product with active orders", typed.Message())

	unused := dbtest.Product(t, conn, vendor.ID, product.CategoryID)
	require.NoError(t, svc.Delete(context.Background(), vendor.ID, unused.ID))
	var remaining int64
	require.NoError(t, conn.Model(&models.Product{}).Where("id = ?", unused.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)
}

func TestDeleteRetiresProductWithOrderHistory(t *testing.T) {
	svc, conn := newVendorService(t, stubGate{})
	vendor := dbtest.Vendor(t, conn)
	category := dbtest.Category(t, conn)
	ctx := context.Background()

	delivered := dbtest.Product(t, conn, vendor.ID, category.ID)
	dbtest.Order(t, conn, uuid.New(), delivered, 2, func(o *models.Order) { o.OrderStatus = enums.OrderStatusDelivered })
	require.NoError(t, svc.Delete(ctx, vendor.ID, delivered.ID))

	var row models.Product
	require.NoError(t, conn.First(&row, "id = ?", delivered.ID).Error)
	assert.False(t, row.IsActive)

	reviewed := dbtest.Product(t, conn, vendor.ID, category.ID)
	require.NoError(t, conn.Create(&models.OrderReview{OrderID: uuid.New(), ProductID: reviewed.ID, CustomerID: uuid.New(), Rating: 4}).Error)
	require.NoError(t, svc.Delete(ctx, vendor.ID, reviewed.ID))
	require.NoError(t, conn.First(&row, "id = ?", reviewed.ID).Error)
	assert.False(t, row.IsActive)

	// Hard deletes of referenced rows are refused by the schema.
	err := conn.Where("id = ?", delivered.ID).Delete(&models.Product{}).Error
	require.Error(t, err)
}

func TestListFiltersStockAndSearch(t *testing.T) {
	svc, conn := newVendorService(t, stubGate{})
	vendor := dbtest.Vendor(t, conn)
	category := dbtest.Category(t, conn)
	sku := "HNY-01"
	dbtest.Product(t, conn, vendor.ID, category.ID, func(p *models.Product) { p.Name = "Honey"; p.SKU = &sku; p.StockQuantity = 4 })
	dbtest.Product(t, conn, vendor.ID, category.ID, func(p *models.Product) { p.Name = "Jam"; p.StockQuantity = 0 })
	dbtest.Product(t, conn, vendor.ID, category.ID, func(p *models.Product) { p.Name = "Tea" })
	dbtest.Product(t, conn, uuid.New(), category.ID)
	ctx := context.Background()

	all, err := svc.List(ctx, vendor.ID, VendorListFilters{}, pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Pagination.Total)

	low, err := svc.List(ctx, vendor.ID, VendorListFilters{StockStatus: StockFilterLow}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, low.Items, 1)
	assert.Equal(t, "Honey", low.Items[0].Name)

	out, err := svc.List(ctx, vendor.ID, VendorListFilters{StockStatus: StockFilterOut}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Jam", out.Items[0].Name)

	bySKU, err := svc.List(ctx, vendor.ID, VendorListFilters{Search: "hny"}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, bySKU.Items, 1)
	assert.Equal(t, "Honey", bySKU.Items[0].Name)
}
