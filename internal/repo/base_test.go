package repo

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/pkg/db/dbtest"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
)

func TestBaseDB_BindsContext(t *testing.T) {
	conn := dbtest.Open(t)
	base := NewBase(conn)

	ctx := context.WithValue(context.Background(), struct{}{}, "value")
	withCtx := base.DB(ctx)
	require.NotNil(t, withCtx.Statement)
	assert.Equal(t, ctx, withCtx.Statement.Context)

	assert.Same(t, conn, base.DB(nil))
}

func TestPaginate(t *testing.T) {
	conn := dbtest.Open(t)
	for i := 0; i < 5; i++ {
		require.NoError(t, conn.Create(&models.Category{Name: fmt.Sprintf("c%d", i), Slug: fmt.Sprintf("c%d", i), IsActive: true, DisplayOrder: i}).Error)
	}

	query := conn.Model(&models.Category{}).Order("display_order ASC")
	items, total, err := Paginate[models.Category](query, pagination.Params{Page: 2, PerPage: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, items, 2)
	assert.Equal(t, "c2", items[0].Name)

	empty, total, err := Paginate[models.Category](conn.Model(&models.Category{}).Where("name = ?", "missing"), pagination.Params{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NotNil(t, empty)
}

func TestMapError(t *testing.T) {
	assert.NoError(t, MapError(nil, "x"))

	notFound := MapError(fmt.Errorf("load: %w", gorm.ErrRecordNotFound), "Order not found")
	assert.True(t, pkgerrors.IsCode(notFound, pkgerrors.CodeNotFound))
	assert.Equal(t, "Order not found", pkgerrors.As(notFound).Message())

	dup := MapError(errors.New("UNIQUE constraint failed: vendors.phone"), "x")
	assert.True(t, pkgerrors.IsCode(dup, pkgerrors.CodeConflict))

	referenced := MapError(&pgconn.PgError{Code: "23503"}, "x")
	assert.True(t, pkgerrors.IsCode(referenced, pkgerrors.CodeBusinessRule))
	assert.Equal(t, "resource is still referenced", pkgerrors.As(referenced).Message())

	dep := MapError(errors.New("connection refused"), "x")
	assert.True(t, pkgerrors.IsCode(dep, pkgerrors.CodeDependency))

	typed := pkgerrors.New(pkgerrors.CodeForbidden, "nope")
	assert.Same(t, typed, MapError(typed, "x"))
}

func TestSum(t *testing.T) {
	conn := dbtest.Open(t)

	total, err := Sum(conn.Model(&models.VendorEarning{}), "net_amount")
	require.NoError(t, err)
	assert.True(t, total.IsZero())

	for _, amount := range []string{"10.25", "4.75"} {
		require.NoError(t, conn.Create(&models.VendorEarning{
			OrderID:          uuid.New(),
			VendorID:         uuid.New(),
			GrossAmount:      decimal.RequireFromString(amount),
			CommissionAmount: decimal.Zero,
			NetAmount:        decimal.RequireFromString(amount),
			Status:           "pending",
		}).Error)
	}
	total, err = Sum(conn.Model(&models.VendorEarning{}), "net_amount")
	require.NoError(t, err)
	assert.Equal(t, "15", total.String())
}
