package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/marketplace-backend/internal/vendors"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
)

// Customer list filters beyond the exact order statuses.
const (
	FilterOngoing   = "ongoing"
	FilterCompleted = "completed"
	FilterCancelled = "cancelled"
)

type OrderDTO struct {
	ID                    uuid.UUID           `json:"id"`
	OrderNumber           string              `json:"order_number"`
	CustomerID            uuid.UUID           `json:"customer_id"`
	VendorID              uuid.UUID           `json:"vendor_id"`
	DeliveryPartnerID     *uuid.UUID          `json:"delivery_partner_id,omitempty"`
	AddressID             uuid.UUID           `json:"address_id"`
	DeliveryAddress       string              `json:"delivery_address"`
	Subtotal              decimal.Decimal     `json:"subtotal"`
	DeliveryCharge        decimal.Decimal     `json:"delivery_charge"`
	DiscountAmount        decimal.Decimal     `json:"discount_amount"`
	TaxAmount             decimal.Decimal     `json:"tax_amount"`
	FinalAmount           decimal.Decimal     `json:"final_amount"`
	PaymentMethod         enums.PaymentMethod `json:"payment_method"`
	PaymentStatus         enums.PaymentStatus `json:"payment_status"`
	OrderStatus           enums.OrderStatus   `json:"order_status"`
	CustomerNotes         *string             `json:"customer_notes,omitempty"`
	CancellationReason    *string             `json:"cancellation_reason,omitempty"`
	EstimatedDeliveryTime *time.Time          `json:"estimated_delivery_time,omitempty"`
	ActualDeliveryTime    *time.Time          `json:"actual_delivery_time,omitempty"`
	CreatedAt             time.Time           `json:"created_at"`
	UpdatedAt             time.Time           `json:"updated_at"`
}

func FromModel(m models.Order) OrderDTO {
	return OrderDTO{
		ID:                    m.ID,
		OrderNumber:           m.OrderNumber,
		CustomerID:            m.CustomerID,
		VendorID:              m.VendorID,
		DeliveryPartnerID:     m.DeliveryPartnerID,
		AddressID:             m.AddressID,
		DeliveryAddress:       m.DeliveryAddress,
		Subtotal:              m.Subtotal,
		DeliveryCharge:        m.DeliveryCharge,
		DiscountAmount:        m.DiscountAmount,
		TaxAmount:             m.TaxAmount,
		FinalAmount:           m.FinalAmount,
		PaymentMethod:         m.PaymentMethod,
		PaymentStatus:         m.PaymentStatus,
		OrderStatus:           m.OrderStatus,
		CustomerNotes:         m.CustomerNotes,
		CancellationReason:    m.CancellationReason,
		EstimatedDeliveryTime: m.EstimatedDeliveryTime,
		ActualDeliveryTime:    m.ActualDeliveryTime,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
}

type ItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

func itemsFromModels(items []models.OrderItem) []ItemDTO {
	out := make([]ItemDTO, 0, len(items))
	for _, item := range items {
		out = append(out, ItemDTO{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
		})
	}
	return out
}

type HistoryDTO struct {
	Status      enums.OrderStatus `json:"status"`
	ChangedBy   enums.ActorType   `json:"changed_by"`
	ChangedByID *uuid.UUID        `json:"changed_by_id,omitempty"`
	Notes       *string           `json:"notes,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

func historyFromModels(rows []models.OrderStatusHistory) []HistoryDTO {
	out := make([]HistoryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, HistoryDTO{
			Status:      row.Status,
			ChangedBy:   row.ChangedBy,
			ChangedByID: row.ChangedByID,
			Notes:       row.Notes,
			CreatedAt:   row.CreatedAt,
		})
	}
	return out
}

type VendorOrderDTO struct {
	ID               uuid.UUID               `json:"id"`
	Status           enums.VendorOrderStatus `json:"status"`
	Subtotal         decimal.Decimal         `json:"subtotal"`
	CommissionAmount decimal.Decimal         `json:"commission_amount"`
	NetAmount        decimal.Decimal         `json:"net_amount"`
	PreparationTime  *int                    `json:"preparation_time,omitempty"`
	VendorNotes      *string                 `json:"vendor_notes,omitempty"`
	AcceptedAt       *time.Time              `json:"accepted_at,omitempty"`
	PreparedAt       *time.Time              `json:"prepared_at,omitempty"`
	ReadyAt          *time.Time              `json:"ready_at,omitempty"`
	CancelledAt      *time.Time              `json:"cancelled_at,omitempty"`
}

func VendorOrderFromModel(m models.VendorOrder) VendorOrderDTO {
	return VendorOrderDTO{
		ID:               m.ID,
		Status:           m.Status,
		Subtotal:         m.Subtotal,
		CommissionAmount: m.CommissionAmount,
		NetAmount:        m.NetAmount,
		PreparationTime:  m.PreparationTime,
		VendorNotes:      m.VendorNotes,
		AcceptedAt:       m.AcceptedAt,
		PreparedAt:       m.PreparedAt,
		ReadyAt:          m.ReadyAt,
		CancelledAt:      m.CancelledAt,
	}
}

// Contact is the customer block shown to vendors and admins.
type Contact struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Phone string    `json:"phone"`
}

// Tracking is the delivery block of an order detail.
type Tracking struct {
	TaskID         uuid.UUID        `json:"task_id"`
	Status         enums.TaskStatus `json:"status"`
	PartnerName    *string          `json:"partner_name,omitempty"`
	PartnerPhone   *string          `json:"partner_phone,omitempty"`
	CurrentLat     *float64         `json:"current_lat,omitempty"`
	CurrentLng     *float64         `json:"current_lng,omitempty"`
	LastLocationAt *time.Time       `json:"last_location_at,omitempty"`
}

type CustomerSummary struct {
	OrderDTO
	VendorName string `json:"vendor_name"`
	ItemCount  int    `json:"item_count"`
}

type CustomerDetail struct {
	OrderDTO
	Items    []ItemDTO       `json:"items"`
	History  []HistoryDTO    `json:"status_history"`
	Vendor   vendors.Summary `json:"vendor"`
	Tracking *Tracking       `json:"tracking,omitempty"`
}

type VendorSummary struct {
	OrderDTO
	VendorOrder  VendorOrderDTO `json:"vendor_order"`
	CustomerName string         `json:"customer_name"`
	ItemCount    int            `json:"item_count"`
}

type VendorDetail struct {
	OrderDTO
	VendorOrder VendorOrderDTO `json:"vendor_order"`
	Items       []ItemDTO      `json:"items"`
	History     []HistoryDTO   `json:"status_history"`
	Customer    Contact        `json:"customer"`
}

type AdminSummary struct {
	OrderDTO
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	VendorName    string `json:"vendor_name"`
}

type AdminDetail struct {
	OrderDTO
	VendorOrder *VendorOrderDTO `json:"vendor_order,omitempty"`
	Items       []ItemDTO       `json:"items"`
	History     []HistoryDTO    `json:"status_history"`
	Vendor      vendors.Summary `json:"vendor"`
	Customer    Contact         `json:"customer"`
	Tracking    *Tracking       `json:"tracking,omitempty"`
}

type CancelInput struct {
	Reason *string `json:"reason" validate:"omitempty,max=500"`
}

type VendorStatusInput struct {
	Status          enums.VendorOrderStatus `json:"status" validate:"required"`
	PreparationTime *int                    `json:"preparation_time" validate:"omitempty,min=0,max=1440"`
	Notes           *string                 `json:"notes" validate:"omitempty,max=1000"`
}

type AdminStatusInput struct {
	Status enums.OrderStatus `json:"status" validate:"required"`
	Notes  *string           `json:"notes" validate:"omitempty,max=1000"`
}

type VendorFilters struct {
	Status *enums.VendorOrderStatus
	Date   *time.Time
	Search string
}

type AdminFilters struct {
	Status        *enums.OrderStatus
	PaymentStatus *enums.PaymentStatus
	StartDate     *time.Time
	EndDate       *time.Time
	Search        string
}

// CustomerStatuses expands a customer list filter into order statuses. An
// empty filter matches every status.
func CustomerStatuses(filter string) ([]enums.OrderStatus, bool) {
	switch filter {
	case "":
		return nil, true
	case FilterOngoing:
		return enums.OngoingOrderStatuses, true
	case FilterCompleted:
		return []enums.OrderStatus{enums.OrderStatusDelivered}, true
	case FilterCancelled:
		return []enums.OrderStatus{enums.OrderStatusCancelled, enums.OrderStatusRejected}, true
	}
	status, err := enums.ParseOrderStatus(filter)
	if err != nil {
		return nil, false
	}
	return []enums.OrderStatus{status}, true
}
