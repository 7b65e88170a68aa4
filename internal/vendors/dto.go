package vendors

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
)

// DefaultCommissionRate applies when a vendor is created without one.
var DefaultCommissionRate = decimal.NewFromInt(10)

type VendorDTO struct {
	ID              uuid.UUID          `json:"id"`
	Name            string             `json:"name"`
	Email           *string            `json:"email,omitempty"`
	Phone           string             `json:"phone"`
	BusinessName    string             `json:"business_name"`
	BusinessAddress *string            `json:"business_address,omitempty"`
	Logo            *string            `json:"logo,omitempty"`
	CommissionRate  decimal.Decimal    `json:"commission_rate"`
	Status          enums.VendorStatus `json:"status"`
	PhoneVerifiedAt *time.Time         `json:"phone_verified_at,omitempty"`
	LastLoginAt     *time.Time         `json:"last_login_at,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
}

func FromModel(m models.Vendor) VendorDTO {
	return VendorDTO{
		ID:              m.ID,
		Name:            m.Name,
		Email:           m.Email,
		Phone:           m.Phone,
		BusinessName:    m.BusinessName,
		BusinessAddress: m.BusinessAddress,
		Logo:            m.Logo,
		CommissionRate:  m.CommissionRate,
		Status:          m.Status,
		PhoneVerifiedAt: m.PhoneVerifiedAt,
		LastLoginAt:     m.LastLoginAt,
		CreatedAt:       m.CreatedAt,
	}
}

// Summary is the vendor block embedded in order and product views.
type Summary struct {
	ID              uuid.UUID `json:"id"`
	BusinessName    string    `json:"business_name"`
	BusinessAddress *string   `json:"business_address,omitempty"`
	Phone           string    `json:"phone"`
	Logo            *string   `json:"logo,omitempty"`
}

func SummaryFromModel(m models.Vendor) Summary {
	return Summary{
		ID:              m.ID,
		BusinessName:    m.BusinessName,
		BusinessAddress: m.BusinessAddress,
		Phone:           m.Phone,
		Logo:            m.Logo,
	}
}

type UpdateProfileInput struct {
	Name            *string `json:"name" validate:"omitempty,min=1,max=255"`
	Email           *string `json:"email" validate:"omitempty,email"`
	BusinessName    *string `json:"business_name" validate:"omitempty,min=1,max=255"`
	BusinessAddress *string `json:"business_address" validate:"omitempty,max=1000"`
	Logo            *string `json:"logo" validate:"omitempty,max=2048"`
}

type CreateInput struct {
	Name            string           `json:"name" validate:"required,max=255"`
	Email           *string          `json:"email" validate:"omitempty,email"`
	Phone           string           `json:"phone" validate:"required,numeric,min=10,max=15"`
	BusinessName    string           `json:"business_name" validate:"required,max=255"`
	BusinessAddress *string          `json:"business_address" validate:"omitempty,max=1000"`
	CommissionRate  *decimal.Decimal `json:"commission_rate"`
}

type UpdateInput struct {
	UpdateProfileInput
	Phone          *string          `json:"phone" validate:"omitempty,numeric,min=10,max=15"`
	CommissionRate *decimal.Decimal `json:"commission_rate"`
}

type ListFilters struct {
	Status *enums.VendorStatus
	Search string
}
