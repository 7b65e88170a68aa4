package products

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/categories"
	"github.com/angelmondragon/marketplace-backend/pkg/db"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
)

// decrementStockSQL is the single guarded statement that takes stock.
const decrementStockSQL = `UPDATE "products" SET "stock_quantity"=stock_quantity - \$1.*WHERE \(?id = \$\d+ AND is_active = \$\d+ AND stock_quantity >= \$\d+\)?`

func newPostgresMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	cfg := db.GormConfig()
	cfg.DisableAutomaticPing = true
	conn, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), cfg)
	require.NoError(t, err)
	return conn, mock
}

func TestReserveIsOneConditionalUpdate(t *testing.T) {
	conn, mock := newPostgresMock(t)
	mock.ExpectExec(decrementStockSQL).WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := NewInventory(NewRepository(conn)).Reserve(context.Background(), conn, uuid.New(), 2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveReportsShortStockWithoutError(t *testing.T) {
	conn, mock := newPostgresMock(t)
	mock.ExpectExec(decrementStockSQL).WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := NewInventory(NewRepository(conn)).Reserve(context.Background(), conn, uuid.New(), 50)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

type allowGate struct{}

func (allowGate) RequireActive(context.Context, uuid.UUID) (*models.Vendor, error) {
	return &models.Vendor{Status: enums.VendorStatusActive}, nil
}

func TestDeleteMapsForeignKeyViolationToBusinessRule(t *testing.T) {
	conn, mock := newPostgresMock(t)
	vendorID, productID := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "products"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "vendor_id", "name"}).AddRow(productID.String(), vendorID.String(), "Honey"))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "order_items" JOIN orders`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "order_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "order_reviews"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`DELETE FROM "products"`).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "order_items_product_id_fkey"})

	svc, err := NewService(NewRepository(conn), allowGate{}, categories.NewRepository(conn), time.Now)
	require.NoError(t, err)

	err = svc.Delete(context.Background(), vendorID, productID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeBusinessRule, typed.Code())
	assert.NoError(t, mock.ExpectationsWereMet())
}
