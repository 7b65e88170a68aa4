package customers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
)

// CustomerDTO is the public shape of a customer account.
type CustomerDTO struct {
	ID              uuid.UUID            `json:"id"`
	Name            string               `json:"name"`
	Email           *string              `json:"email,omitempty"`
	Phone           string               `json:"phone"`
	ProfileImage    *string              `json:"profile_image,omitempty"`
	Status          enums.CustomerStatus `json:"status"`
	PhoneVerifiedAt *time.Time           `json:"phone_verified_at,omitempty"`
	LastLoginAt     *time.Time           `json:"last_login_at,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
}

func FromModel(m models.Customer) CustomerDTO {
	return CustomerDTO{
		ID:              m.ID,
		Name:            m.Name,
		Email:           m.Email,
		Phone:           m.Phone,
		ProfileImage:    m.ProfileImage,
		Status:          m.Status,
		PhoneVerifiedAt: m.PhoneVerifiedAt,
		LastLoginAt:     m.LastLoginAt,
		CreatedAt:       m.CreatedAt,
	}
}

type Stats struct {
	TotalOrders   int64           `json:"total_orders"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
	PendingOrders int64           `json:"pending_orders"`
}

type Profile struct {
	Customer CustomerDTO `json:"customer"`
	Stats    Stats       `json:"stats"`
}

// UpdateProfileInput holds optional profile fields. Nil leaves a field as is.
type UpdateProfileInput struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=255"`
	Email        *string `json:"email" validate:"omitempty,email"`
	ProfileImage *string `json:"profile_image" validate:"omitempty,max=2048"`
}

type ListFilters struct {
	Status *enums.CustomerStatus
	Search string
}
