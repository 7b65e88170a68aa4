package address

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
)

type AddressDTO struct {
	ID           uuid.UUID         `json:"id"`
	AddressType  enums.AddressType `json:"address_type"`
	FullName     string            `json:"full_name"`
	Phone        string            `json:"phone"`
	AddressLine1 string            `json:"address_line1"`
	AddressLine2 *string           `json:"address_line2,omitempty"`
	Landmark     *string           `json:"landmark,omitempty"`
	City         string            `json:"city"`
	State        string            `json:"state"`
	Country      string            `json:"country"`
	PostalCode   string            `json:"postal_code"`
	Lat          *float64          `json:"lat,omitempty"`
	Lng          *float64          `json:"lng,omitempty"`
	IsDefault    bool              `json:"is_default"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

func FromModel(m models.Address) AddressDTO {
	return AddressDTO{
		ID:           m.ID,
		AddressType:  m.AddressType,
		FullName:     m.FullName,
		Phone:        m.Phone,
		AddressLine1: m.AddressLine1,
		AddressLine2: m.AddressLine2,
		Landmark:     m.Landmark,
		City:         m.City,
		State:        m.State,
		Country:      m.Country,
		PostalCode:   m.PostalCode,
		Lat:          m.Lat,
		Lng:          m.Lng,
		IsDefault:    m.IsDefault,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// Format renders the one-line snapshot stored on orders, e.g.
// "12 Main St, Flat 4, Pune, MH, India - 411001". Empty parts are skipped.
func Format(m models.Address) string {
	parts := make([]string, 0, 5)
	for _, part := range []string{m.AddressLine1, deref(m.AddressLine2), m.City, m.State, m.Country} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	out := strings.Join(parts, ", ")
	if postal := strings.TrimSpace(m.PostalCode); postal != "" {
		if out == "" {
			return postal
		}
		out += " - " + postal
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

type CreateInput struct {
	AddressType  enums.AddressType `json:"address_type" validate:"required,oneof=home work other"`
	FullName     string            `json:"full_name" validate:"required,max=255"`
	Phone        string            `json:"phone" validate:"required,max=20"`
	AddressLine1 string            `json:"address_line1" validate:"required,max=500"`
	AddressLine2 *string           `json:"address_line2" validate:"omitempty,max=500"`
	Landmark     *string           `json:"landmark" validate:"omitempty,max=255"`
	City         string            `json:"city" validate:"required,max=100"`
	State        string            `json:"state" validate:"required,max=100"`
	Country      string            `json:"country" validate:"required,max=100"`
	PostalCode   string            `json:"postal_code" validate:"required,max=20"`
	Lat          *float64          `json:"lat" validate:"omitempty,gte=-90,lte=90"`
	Lng          *float64          `json:"lng" validate:"omitempty,gte=-180,lte=180"`
	IsDefault    bool              `json:"is_default"`
}

type UpdateInput struct {
	AddressType  *enums.AddressType `json:"address_type" validate:"omitempty,oneof=home work other"`
	FullName     *string            `json:"full_name" validate:"omitempty,min=1,max=255"`
	Phone        *string            `json:"phone" validate:"omitempty,min=1,max=20"`
	AddressLine1 *string            `json:"address_line1" validate:"omitempty,min=1,max=500"`
	AddressLine2 *string            `json:"address_line2" validate:"omitempty,max=500"`
	Landmark     *string            `json:"landmark" validate:"omitempty,max=255"`
	City         *string            `json:"city" validate:"omitempty,min=1,max=100"`
	State        *string            `json:"state" validate:"omitempty,min=1,max=100"`
	Country      *string            `json:"country" validate:"omitempty,min=1,max=100"`
	PostalCode   *string            `json:"postal_code" validate:"omitempty,min=1,max=20"`
	Lat          *float64           `json:"lat" validate:"omitempty,gte=-90,lte=90"`
	Lng          *float64           `json:"lng" validate:"omitempty,gte=-180,lte=180"`
	IsDefault    *bool              `json:"is_default"`
}
