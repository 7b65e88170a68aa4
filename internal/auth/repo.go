package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/marketplace-backend/internal/repo"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
)

// Repository persists one-time codes and the identity rows they unlock.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindOTP(ctx context.Context, role enums.Role, mobile string) (*models.OTPCode, error)
	UpsertOTP(ctx context.Context, code *models.OTPCode) error
	ConsumeOTP(ctx context.Context, id uuid.UUID, code string, at time.Time) (bool, error)
	DeleteExpiredOTPs(ctx context.Context, cutoff time.Time) (int64, error)

	FindCustomerByPhone(ctx context.Context, phone string) (*models.Customer, error)
	FindVendorByPhone(ctx context.Context, phone string) (*models.Vendor, error)
	FindPartnerByPhone(ctx context.Context, phone string) (*models.DeliveryPartner, error)
	FindAdminByEmail(ctx context.Context, email string) (*models.Admin, error)

	CreateCustomer(ctx context.Context, customer *models.Customer) error
	CreateVendor(ctx context.Context, vendor *models.Vendor) error
	CreateAdmin(ctx context.Context, admin *models.Admin) error

	StampLogin(ctx context.Context, role enums.Role, id uuid.UUID, at time.Time, fcmToken *string) error
}

type repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: repo.NewBase(tx)}
}

func (r *repository) FindOTP(ctx context.Context, role enums.Role, mobile string) (*models.OTPCode, error) {
	var row models.OTPCode
	if err := r.DB(ctx).Where("role = ? AND mobile = ?", role, mobile).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// UpsertOTP replaces the outstanding code for (role, mobile).
func (r *repository) UpsertOTP(ctx context.Context, code *models.OTPCode) error {
	return r.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "role"}, {Name: "mobile"}},
		DoUpdates: clause.AssignmentColumns([]string{"code", "expires_at", "consumed_at", "pending_profile", "updated_at"}),
	}).Create(code).Error
}

// ConsumeOTP nulls the code only if it still matches, so a code is exchanged at
// most once.
func (r *repository) ConsumeOTP(ctx context.Context, id uuid.UUID, code string, at time.Time) (bool, error) {
	res := r.DB(ctx).Model(&models.OTPCode{}).
		Where("id = ? AND code = ?", id, code).
		Updates(map[string]any{"code": nil, "consumed_at": at})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) FindCustomerByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.DB(ctx).Where("phone = ?", phone).First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *repository) FindVendorByPhone(ctx context.Context, phone string) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.DB(ctx).Where("phone = ?", phone).First(&vendor).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *repository) FindPartnerByPhone(ctx context.Context, phone string) (*models.DeliveryPartner, error) {
	var partner models.DeliveryPartner
	if err := r.DB(ctx).Where("phone = ?", phone).First(&partner).Error; err != nil {
		return nil, err
	}
	return &partner, nil
}

func (r *repository) FindAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	if err := r.DB(ctx).Where("email = ?", email).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *repository) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	return r.DB(ctx).Create(customer).Error
}

func (r *repository) CreateVendor(ctx context.Context, vendor *models.Vendor) error {
	return r.DB(ctx).Create(vendor).Error
}

func (r *repository) CreateAdmin(ctx context.Context, admin *models.Admin) error {
	return r.DB(ctx).Create(admin).Error
}

func (r *repository) StampLogin(ctx context.Context, role enums.Role, id uuid.UUID, at time.Time, fcmToken *string) error {
	var model any
	updates := map[string]any{"last_login_at": at}
	switch role {
	case enums.RoleCustomer:
		model = &models.Customer{}
		updates["phone_verified_at"] = at
	case enums.RoleVendor:
		model = &models.Vendor{}
		updates["phone_verified_at"] = at
	case enums.RoleDelivery:
		model = &models.DeliveryPartner{}
	case enums.RoleAdmin:
		model = &models.Admin{}
	default:
		return fmt.Errorf("stamp login: unsupported role %q", role)
	}
	if fcmToken != nil && role != enums.RoleAdmin {
		updates["fcm_token"] = *fcmToken
	}
	return r.DB(ctx).Model(model).Where("id = ?", id).Updates(updates).Error
}

// DeleteExpiredOTPs removes codes that expired before cutoff.
func (r *repository) DeleteExpiredOTPs(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.DB(ctx).Where("expires_at < ?", cutoff).Delete(&models.OTPCode{})
	return res.RowsAffected, res.Error
}
