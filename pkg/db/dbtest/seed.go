package dbtest

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
)

var phoneSeq atomic.Int64

func nextPhone() string {
	return fmt.Sprintf("9%09d", phoneSeq.Add(1))
}

func insert[T any](t testing.TB, conn *gorm.DB, row *T, opts []func(*T)) {
	t.Helper()
	for _, opt := range opts {
		opt(row)
	}
	require.NoError(t, conn.Create(row).Error)
}

// Vendor inserts an active vendor with a 10% commission.
func Vendor(t testing.TB, conn *gorm.DB, opts ...func(*models.Vendor)) models.Vendor {
	t.Helper()
	address := "12 Market Road, Pune"
	row := models.Vendor{
		Name:            "Vendor",
		Phone:           nextPhone(),
		BusinessName:    "Vendor Store",
		BusinessAddress: &address,
		CommissionRate:  decimal.NewFromInt(10),
		Status:          enums.VendorStatusActive,
	}
	insert(t, conn, &row, opts)
	return row
}

func Customer(t testing.TB, conn *gorm.DB, opts ...func(*models.Customer)) models.Customer {
	t.Helper()
	row := models.Customer{Name: "Customer", Phone: nextPhone(), Status: enums.CustomerStatusActive}
	insert(t, conn, &row, opts)
	return row
}

// Partner inserts an approved, offline delivery partner.
func Partner(t testing.TB, conn *gorm.DB, opts ...func(*models.DeliveryPartner)) models.DeliveryPartner {
	t.Helper()
	row := models.DeliveryPartner{
		Name:        "Rider",
		Phone:       nextPhone(),
		VehicleType: enums.VehicleBike,
		Status:      enums.PartnerStatusApproved,
	}
	insert(t, conn, &row, opts)
	return row
}

func Category(t testing.TB, conn *gorm.DB, opts ...func(*models.Category)) models.Category {
	t.Helper()
	row := models.Category{Name: "Category", Slug: "category-" + uuid.NewString(), IsActive: true}
	insert(t, conn, &row, opts)
	return row
}

// Product inserts an active product priced 100 with 50 units in stock.
func Product(t testing.TB, conn *gorm.DB, vendorID, categoryID uuid.UUID, opts ...func(*models.Product)) models.Product {
	t.Helper()
	row := models.Product{
		VendorID:         vendorID,
		CategoryID:       categoryID,
		Name:             "Product",
		Slug:             "product-" + uuid.NewString(),
		Price:            decimal.NewFromInt(100),
		StockQuantity:    50,
		MinOrderQuantity: 1,
		IsActive:         true,
	}
	insert(t, conn, &row, opts)
	return row
}

func Address(t testing.TB, conn *gorm.DB, customerID uuid.UUID, opts ...func(*models.Address)) models.Address {
	t.Helper()
	row := models.Address{
		CustomerID:   customerID,
		AddressType:  enums.AddressHome,
		FullName:     "Customer",
		Phone:        "9999999999",
		AddressLine1: "221B Baker Street",
		City:         "Pune",
		State:        "MH",
		Country:      "India",
		PostalCode:   "411001",
	}
	insert(t, conn, &row, opts)
	return row
}

var orderSeq atomic.Int64

// Order inserts a pending cash-on-delivery order holding qty units of product,
// together with its pending vendor order. Stock is not touched.
func Order(t testing.TB, conn *gorm.DB, customerID uuid.UUID, product models.Product, qty int, opts ...func(*models.Order)) models.Order {
	t.Helper()
	subtotal := product.Price.Mul(decimal.NewFromInt(int64(qty)))
	charge := decimal.NewFromInt(40)
	row := models.Order{
		OrderNumber:     fmt.Sprintf("ORD20260301%06d", orderSeq.Add(1)),
		CustomerID:      customerID,
		VendorID:        product.VendorID,
		AddressID:       uuid.New(),
		DeliveryAddress: "221B Baker Street, Pune, MH, India - 411001",
		Subtotal:        subtotal,
		DeliveryCharge:  charge,
		FinalAmount:     subtotal.Add(charge),
		PaymentMethod:   enums.PaymentMethodCOD,
		PaymentStatus:   enums.PaymentStatusPending,
		OrderStatus:     enums.OrderStatusPending,
	}
	insert(t, conn, &row, opts)

	item := models.OrderItem{
		OrderID:     row.ID,
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    qty,
		UnitPrice:   product.Price,
		TotalPrice:  subtotal,
	}
	require.NoError(t, conn.Create(&item).Error)
	row.Items = []models.OrderItem{item}

	commission := subtotal.Mul(decimal.NewFromInt(10)).Div(decimal.NewFromInt(100))
	vendorOrder := models.VendorOrder{
		OrderID:          row.ID,
		VendorID:         product.VendorID,
		Status:           enums.VendorOrderPending,
		Subtotal:         subtotal,
		CommissionAmount: commission,
		NetAmount:        subtotal.Sub(commission),
	}
	require.NoError(t, conn.Create(&vendorOrder).Error)
	return row
}

var emailSeq atomic.Int64

// Admin inserts an active admin with an unusable password hash.
func Admin(t testing.TB, conn *gorm.DB, opts ...func(*models.Admin)) models.Admin {
	t.Helper()
	row := models.Admin{
		Name:         "Admin",
		Email:        fmt.Sprintf("admin%d@example.com", emailSeq.Add(1)),
		PasswordHash: "!",
		Status:       enums.AdminStatusActive,
	}
	insert(t, conn, &row, opts)
	return row
}
