package vendors

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/marketplace-backend/internal/repo"
	"github.com/angelmondragon/marketplace-backend/pkg/db"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
)

const notFoundMessage = "Vendor not found"

var maxCommissionRate = decimal.NewFromInt(100)

type sessionRevoker interface {
	RevokeIdentity(ctx context.Context, role enums.Role, identityID uuid.UUID) error
}

type Service interface {
	Profile(ctx context.Context, vendorID uuid.UUID) (*VendorDTO, error)
	UpdateProfile(ctx context.Context, vendorID uuid.UUID, input UpdateProfileInput) (*VendorDTO, error)
	// RequireActive loads the vendor and refuses any status other than active.
	RequireActive(ctx context.Context, vendorID uuid.UUID) (*models.Vendor, error)

	List(ctx context.Context, filters ListFilters, params pagination.Params) (pagination.Page[VendorDTO], error)
	Create(ctx context.Context, input CreateInput) (*VendorDTO, error)
	Update(ctx context.Context, vendorID uuid.UUID, input UpdateInput) (*VendorDTO, error)
	UpdateStatus(ctx context.Context, vendorID uuid.UUID, status enums.VendorStatus) (*VendorDTO, error)
}

type service struct {
	repo     Repository
	sessions sessionRevoker
}

func NewService(repo Repository, sessions sessionRevoker) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendors repository is required")
	}
	if sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session revoker is required")
	}
	return &service{repo: repo, sessions: sessions}, nil
}

func (s *service) Profile(ctx context.Context, vendorID uuid.UUID) (*VendorDTO, error) {
	return s.load(ctx, vendorID)
}

func (s *service) UpdateProfile(ctx context.Context, vendorID uuid.UUID, input UpdateProfileInput) (*VendorDTO, error) {
	if err := s.repo.Update(ctx, vendorID, profileUpdates(input)); err != nil {
		return nil, repo.MapError(err, notFoundMessage)
	}
	return s.load(ctx, vendorID)
}

func (s *service) RequireActive(ctx context.Context, vendorID uuid.UUID) (*models.Vendor, error) {
	vendor, err := s.repo.FindByID(ctx, vendorID)
	if err != nil {
		return nil, repo.MapError(err, notFoundMessage)
	}
	if vendor.Status != enums.VendorStatusActive {
		return nil, pkgerrors.Newf(pkgerrors.CodeForbidden, "Your account is %s", vendor.Status)
	}
	return vendor, nil
}

func (s *service) List(ctx context.Context, filters ListFilters, params pagination.Params) (pagination.Page[VendorDTO], error) {
	rows, total, err := s.repo.List(ctx, filters, params)
	if err != nil {
		return pagination.Page[VendorDTO]{}, repo.MapError(err, notFoundMessage)
	}
	dtos := make([]VendorDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, FromModel(row))
	}
	return pagination.NewPage(dtos, params, total), nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*VendorDTO, error) {
	rate := DefaultCommissionRate
	if input.CommissionRate != nil {
		rate = *input.CommissionRate
	}
	if err := validateCommission(rate); err != nil {
		return nil, err
	}
	vendor := &models.Vendor{
		Name:            strings.TrimSpace(input.Name),
		Email:           normalizeEmail(input.Email),
		Phone:           strings.TrimSpace(input.Phone),
		BusinessName:    strings.TrimSpace(input.BusinessName),
		BusinessAddress: input.BusinessAddress,
		CommissionRate:  rate,
		Status:          enums.VendorStatusPending,
	}
	if err := s.repo.Create(ctx, vendor); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "Phone number already registered")
		}
		return nil, repo.MapError(err, notFoundMessage)
	}
	dto := FromModel(*vendor)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, vendorID uuid.UUID, input UpdateInput) (*VendorDTO, error) {
	updates := profileUpdates(input.UpdateProfileInput)
	if input.Phone != nil {
		updates["phone"] = strings.TrimSpace(*input.Phone)
	}
	if input.CommissionRate != nil {
		if err := validateCommission(*input.CommissionRate); err != nil {
			return nil, err
		}
		updates["commission_rate"] = *input.CommissionRate
	}
	if err := s.repo.Update(ctx, vendorID, updates); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "Phone number already registered")
		}
		return nil, repo.MapError(err, notFoundMessage)
	}
	return s.load(ctx, vendorID)
}

// UpdateStatus revokes the vendor's session unless the account becomes active.
func (s *service) UpdateStatus(ctx context.Context, vendorID uuid.UUID, status enums.VendorStatus) (*VendorDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.Validation(map[string]string{"status": "must be one of active, suspended, pending"})
	}
	if err := s.repo.Update(ctx, vendorID, map[string]any{"status": status}); err != nil {
		return nil, repo.MapError(err, notFoundMessage)
	}
	if status != enums.VendorStatusActive {
		if err := s.sessions.RevokeIdentity(ctx, enums.RoleVendor, vendorID); err != nil {
			return nil, repo.MapError(err, notFoundMessage)
		}
	}
	return s.load(ctx, vendorID)
}

func (s *service) load(ctx context.Context, vendorID uuid.UUID) (*VendorDTO, error) {
	vendor, err := s.repo.FindByID(ctx, vendorID)
	if err != nil {
		return nil, repo.MapError(err, notFoundMessage)
	}
	dto := FromModel(*vendor)
	return &dto, nil
}

func profileUpdates(input UpdateProfileInput) map[string]any {
	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		updates["email"] = normalizeEmail(input.Email)
	}
	if input.BusinessName != nil {
		updates["business_name"] = strings.TrimSpace(*input.BusinessName)
	}
	if input.BusinessAddress != nil {
		updates["business_address"] = strings.TrimSpace(*input.BusinessAddress)
	}
	if input.Logo != nil {
		updates["logo"] = *input.Logo
	}
	return updates
}

func validateCommission(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(maxCommissionRate) {
		return pkgerrors.Validation(map[string]string{"commission_rate": "must be between 0 and 100"})
	}
	return nil
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	trimmed := strings.ToLower(strings.TrimSpace(*email))
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
