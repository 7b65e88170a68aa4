package delivery

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
)

// FilterActive selects tasks the partner is still working.
const FilterActive = "active"

type TaskDTO struct {
	ID              uuid.UUID        `json:"id"`
	OrderID         uuid.UUID        `json:"order_id"`
	PartnerID       *uuid.UUID       `json:"partner_id,omitempty"`
	Status          enums.TaskStatus `json:"status"`
	PickupAddress   string           `json:"pickup_address"`
	DeliveryAddress string           `json:"delivery_address"`
	Notes           *string          `json:"notes,omitempty"`
	ActualDistance  *decimal.Decimal `json:"actual_distance,omitempty"`
	ActualTime      *int             `json:"actual_time,omitempty"`
	StartedAt       *time.Time       `json:"started_at,omitempty"`
	CompletedAt     *time.Time       `json:"completed_at,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

func FromModel(m models.DeliveryTask) TaskDTO {
	return TaskDTO{
		ID:              m.ID,
		OrderID:         m.OrderID,
		PartnerID:       m.PartnerID,
		Status:          m.Status,
		PickupAddress:   m.PickupAddress,
		DeliveryAddress: m.DeliveryAddress,
		Notes:           m.Notes,
		ActualDistance:  m.ActualDistance,
		ActualTime:      m.ActualTime,
		StartedAt:       m.StartedAt,
		CompletedAt:     m.CompletedAt,
		CreatedAt:       m.CreatedAt,
	}
}

// AvailableTask is a pool entry shown to online partners.
type AvailableTask struct {
	TaskDTO
	OrderNumber   string          `json:"order_number"`
	FinalAmount   decimal.Decimal `json:"final_amount"`
	VendorName    string          `json:"vendor_name"`
	VendorAddress *string         `json:"vendor_address,omitempty"`
}

type TaskSummary struct {
	TaskDTO
	OrderNumber   string          `json:"order_number"`
	FinalAmount   decimal.Decimal `json:"final_amount"`
	VendorName    string          `json:"vendor_name"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
}

type TaskItem struct {
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

type Party struct {
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Address *string `json:"address,omitempty"`
}

type TaskDetail struct {
	TaskDTO
	OrderNumber   string              `json:"order_number"`
	FinalAmount   decimal.Decimal     `json:"final_amount"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	CustomerNotes *string             `json:"customer_notes,omitempty"`
	Vendor        Party               `json:"vendor"`
	Customer      Party               `json:"customer"`
	Items         []TaskItem          `json:"items"`
}

type AvailabilityInput struct {
	IsOnline *bool    `json:"is_online" validate:"required"`
	Lat      *float64 `json:"lat" validate:"omitempty,latitude"`
	Lng      *float64 `json:"lng" validate:"omitempty,longitude"`
}

type Availability struct {
	IsOnline bool   `json:"is_online"`
	Message  string `json:"-"`
}

type LocationInput struct {
	Lat          float64    `json:"lat" validate:"latitude"`
	Lng          float64    `json:"lng" validate:"longitude"`
	Speed        *float64   `json:"speed" validate:"omitempty,min=0"`
	BatteryLevel *int       `json:"battery_level" validate:"omitempty,min=0,max=100"`
	TaskID       *uuid.UUID `json:"task_id"`
}

type StatusInput struct {
	Status         enums.TaskStatus `json:"status" validate:"required,oneof=picked_up on_the_way delivered cancelled failed"`
	Notes          *string          `json:"notes" validate:"omitempty,max=1000"`
	ActualDistance *decimal.Decimal `json:"actual_distance"`
	ActualTime     *int             `json:"actual_time" validate:"omitempty,min=0"`
}

type TaskFilters struct {
	Statuses []enums.TaskStatus
	Date     *time.Time
}

// ParseStatusFilter maps the status query value onto task statuses.
func ParseStatusFilter(value string) ([]enums.TaskStatus, bool) {
	switch value {
	case "":
		return nil, true
	case FilterActive:
		return enums.ActiveTaskStatuses, true
	}
	status, err := enums.ParseTaskStatus(value)
	if err != nil {
		return nil, false
	}
	return []enums.TaskStatus{status}, true
}
