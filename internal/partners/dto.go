package partners

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
)

type PartnerDTO struct {
	ID             uuid.UUID           `json:"id"`
	Name           string              `json:"name"`
	Email          *string             `json:"email,omitempty"`
	Phone          string              `json:"phone"`
	VehicleType    enums.VehicleType   `json:"vehicle_type"`
	VehicleNumber  *string             `json:"vehicle_number,omitempty"`
	LicenseNumber  *string             `json:"license_number,omitempty"`
	Status         enums.PartnerStatus `json:"status"`
	IsOnline       bool                `json:"is_online"`
	CurrentLat     *float64            `json:"current_lat,omitempty"`
	CurrentLng     *float64            `json:"current_lng,omitempty"`
	LastLocationAt *time.Time          `json:"last_location_at,omitempty"`
	Rating         decimal.Decimal     `json:"rating"`
	LastLoginAt    *time.Time          `json:"last_login_at,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
}

func FromModel(m models.DeliveryPartner) PartnerDTO {
	return PartnerDTO{
		ID:             m.ID,
		Name:           m.Name,
		Email:          m.Email,
		Phone:          m.Phone,
		VehicleType:    m.VehicleType,
		VehicleNumber:  m.VehicleNumber,
		LicenseNumber:  m.LicenseNumber,
		Status:         m.Status,
		IsOnline:       m.IsOnline,
		CurrentLat:     m.CurrentLat,
		CurrentLng:     m.CurrentLng,
		LastLocationAt: m.LastLocationAt,
		Rating:         m.Rating,
		LastLoginAt:    m.LastLoginAt,
		CreatedAt:      m.CreatedAt,
	}
}

type Stats struct {
	TotalDeliveries int64           `json:"total_deliveries"`
	TotalEarnings   decimal.Decimal `json:"total_earnings"`
	Rating          decimal.Decimal `json:"rating"`
}

type Profile struct {
	Partner PartnerDTO `json:"partner"`
	Stats   Stats      `json:"stats"`
}

type UpdateProfileInput struct {
	Name          *string            `json:"name" validate:"omitempty,min=1,max=255"`
	Email         *string            `json:"email" validate:"omitempty,email"`
	VehicleType   *enums.VehicleType `json:"vehicle_type" validate:"omitempty,oneof=bike car scooter van"`
	VehicleNumber *string            `json:"vehicle_number" validate:"omitempty,max=50"`
}

type CreateInput struct {
	Name          string            `json:"name" validate:"required,max=255"`
	Email         *string           `json:"email" validate:"omitempty,email"`
	Phone         string            `json:"phone" validate:"required,numeric,min=10,max=15"`
	VehicleType   enums.VehicleType `json:"vehicle_type" validate:"required,oneof=bike car scooter van"`
	VehicleNumber *string           `json:"vehicle_number" validate:"omitempty,max=50"`
	LicenseNumber *string           `json:"license_number" validate:"omitempty,max=50"`
}

type VerifyInput struct {
	Status enums.PartnerStatus `json:"status" validate:"required,oneof=approved rejected"`
	Notes  *string             `json:"notes" validate:"omitempty,max=1000"`
}

type ListFilters struct {
	Status      *enums.PartnerStatus
	VehicleType *enums.VehicleType
	Search      string
}
