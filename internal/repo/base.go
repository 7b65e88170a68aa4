// Package repo holds helpers shared by the domain repositories.
package repo

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
)

// Base provides a shared foundation for domain repositories.
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the connection bound to ctx. A nil ctx returns the raw handle.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Paginate counts query and loads one page of it. Count ignores ORDER BY.
func Paginate[T any](query *gorm.DB, params pagination.Params) ([]T, int64, error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	items := make([]T, 0)
	if total == 0 {
		return items, 0, nil
	}
	err := query.Session(&gorm.Session{}).
		Offset(params.Offset()).
		Limit(params.Limit()).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Sum returns COALESCE(SUM(expr), 0) over query.
func Sum(query *gorm.DB, expr string) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	if err := query.Session(&gorm.Session{}).Select("COALESCE(SUM(" + expr + "), 0) AS total").Scan(&row).Error; err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}

// MapError turns persistence errors into typed errors. Typed errors pass
// through unchanged.
func MapError(err error, notFound string) error {
	switch {
	case err == nil:
		return nil
	case pkgerrors.As(err) != nil:
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return pkgerrors.New(pkgerrors.CodeNotFound, notFound)
	case db.IsUniqueViolation(err, ""):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "resource already exists")
	case db.IsForeignKeyViolation(err):
		return pkgerrors.Wrap(pkgerrors.CodeBusinessRule, err, "resource is still referenced")
	default:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database operation failed")
	}
}

// LikeTerm lowercases value and wraps it for a LIKE match. Blank input
// returns "" so callers can skip the clause.
func LikeTerm(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return ""
	}
	return "%" + value + "%"
}
