package earnings

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
)

// Summary periods for the partner earnings summary.
const (
	PeriodToday = "today"
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

type DeliveryEarningDTO struct {
	ID            uuid.UUID           `json:"id"`
	TaskID        uuid.UUID           `json:"task_id"`
	OrderID       uuid.UUID           `json:"order_id"`
	OrderNumber   string              `json:"order_number"`
	BaseFare      decimal.Decimal     `json:"base_fare"`
	DistanceFare  decimal.Decimal     `json:"distance_fare"`
	TimeFare      decimal.Decimal     `json:"time_fare"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	PaymentStatus enums.EarningStatus `json:"payment_status"`
	CreatedAt     time.Time           `json:"created_at"`
}

func deliveryFromModel(m models.DeliveryEarning, orderNumber string) DeliveryEarningDTO {
	return DeliveryEarningDTO{
		ID:            m.ID,
		TaskID:        m.TaskID,
		OrderID:       m.OrderID,
		OrderNumber:   orderNumber,
		BaseFare:      m.BaseFare,
		DistanceFare:  m.DistanceFare,
		TimeFare:      m.TimeFare,
		TotalAmount:   m.TotalAmount,
		PaymentStatus: m.PaymentStatus,
		CreatedAt:     m.CreatedAt,
	}
}

type VendorEarningDTO struct {
	ID               uuid.UUID           `json:"id"`
	OrderID          uuid.UUID           `json:"order_id"`
	OrderNumber      string              `json:"order_number"`
	GrossAmount      decimal.Decimal     `json:"gross_amount"`
	CommissionAmount decimal.Decimal     `json:"commission_amount"`
	NetAmount        decimal.Decimal     `json:"net_amount"`
	Status           enums.EarningStatus `json:"status"`
	CreatedAt        time.Time           `json:"created_at"`
}

func vendorFromModel(m models.VendorEarning, orderNumber string) VendorEarningDTO {
	return VendorEarningDTO{
		ID:               m.ID,
		OrderID:          m.OrderID,
		OrderNumber:      orderNumber,
		GrossAmount:      m.GrossAmount,
		CommissionAmount: m.CommissionAmount,
		NetAmount:        m.NetAmount,
		Status:           m.Status,
		CreatedAt:        m.CreatedAt,
	}
}

type PartnerTotals struct {
	Total   decimal.Decimal `json:"total"`
	Paid    decimal.Decimal `json:"paid"`
	Pending decimal.Decimal `json:"pending"`
	Today   decimal.Decimal `json:"today"`
}

type PartnerEarnings struct {
	pagination.Page[DeliveryEarningDTO]
	Summary PartnerTotals `json:"summary"`
}

type VendorTotals struct {
	Total   decimal.Decimal `json:"total"`
	Paid    decimal.Decimal `json:"paid"`
	Pending decimal.Decimal `json:"pending"`
}

type VendorEarnings struct {
	pagination.Page[VendorEarningDTO]
	Summary VendorTotals `json:"summary"`
}

type DailyEarning struct {
	Date       string          `json:"date"`
	Earnings   decimal.Decimal `json:"earnings"`
	Deliveries int             `json:"deliveries"`
}

type PeriodSummary struct {
	Period          string          `json:"period"`
	StartDate       string          `json:"start_date"`
	EndDate         string          `json:"end_date"`
	TotalEarnings   decimal.Decimal `json:"total_earnings"`
	TotalDeliveries int             `json:"total_deliveries"`
	Daily           []DailyEarning  `json:"daily"`
}
