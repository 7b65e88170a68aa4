// Package payloads holds the data section of each outbox event.
package payloads

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/marketplace-backend/pkg/enums"
)

// OrderPlaced is written once per vendor order created by checkout.
type OrderPlaced struct {
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	VendorID    uuid.UUID       `json:"vendor_id"`
	FinalAmount decimal.Decimal `json:"final_amount"`
}

// OrderStatusChanged is written for every order transition after placement.
type OrderStatusChanged struct {
	OrderID     uuid.UUID         `json:"order_id"`
	OrderNumber string            `json:"order_number"`
	CustomerID  uuid.UUID         `json:"customer_id"`
	VendorID    uuid.UUID         `json:"vendor_id"`
	From        enums.OrderStatus `json:"from"`
	To          enums.OrderStatus `json:"to"`
	Note        string            `json:"note,omitempty"`
}

// DeliveryCompleted drives earnings for the partner and the vendor.
type DeliveryCompleted struct {
	TaskID         uuid.UUID        `json:"task_id"`
	OrderID        uuid.UUID        `json:"order_id"`
	OrderNumber    string           `json:"order_number"`
	PartnerID      uuid.UUID        `json:"partner_id"`
	VendorID       uuid.UUID        `json:"vendor_id"`
	CustomerID     uuid.UUID        `json:"customer_id"`
	ActualDistance *decimal.Decimal `json:"actual_distance,omitempty"`
	ActualTime     *int             `json:"actual_time,omitempty"`
}

// TicketReplied notifies the other side of a support conversation.
type TicketReplied struct {
	TicketID     uuid.UUID        `json:"ticket_id"`
	TicketNumber string           `json:"ticket_number"`
	ReplyID      uuid.UUID        `json:"reply_id"`
	AuthorType   enums.AuthorType `json:"author_type"`
	CustomerID   uuid.UUID        `json:"customer_id"`
	AssignedTo   *uuid.UUID       `json:"assigned_to,omitempty"`
}
