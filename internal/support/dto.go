package support

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
)

type CreateTicketInput struct {
	Subject     string               `json:"subject" validate:"required,max=255"`
	Description string               `json:"description" validate:"required,max=5000"`
	Category    enums.TicketCategory `json:"category" validate:"required,oneof=order payment delivery account other"`
	Priority    enums.TicketPriority `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	OrderID     *uuid.UUID           `json:"order_id"`
}

type ReplyInput struct {
	Message     string   `json:"message" validate:"required,max=5000"`
	Attachments []string `json:"attachments" validate:"omitempty,max=10,dive,url"`
}

type StatusInput struct {
	Status   enums.TicketStatus `json:"status" validate:"required,oneof=open in_progress resolved closed"`
	AssignTo *uuid.UUID         `json:"assign_to"`
}

type TicketDTO struct {
	ID           uuid.UUID            `json:"id"`
	TicketNumber string               `json:"ticket_number"`
	CustomerID   uuid.UUID            `json:"customer_id"`
	CustomerName string               `json:"customer_name,omitempty"`
	OrderID      *uuid.UUID           `json:"order_id,omitempty"`
	Subject      string               `json:"subject"`
	Description  string               `json:"description"`
	Category     enums.TicketCategory `json:"category"`
	Priority     enums.TicketPriority `json:"priority"`
	Status       enums.TicketStatus   `json:"status"`
	AssignedTo   *uuid.UUID           `json:"assigned_to,omitempty"`
	AssigneeName *string              `json:"assignee_name,omitempty"`
	ResolvedAt   *time.Time           `json:"resolved_at,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

func ticketFromModel(m models.SupportTicket) TicketDTO {
	return TicketDTO{
		ID:           m.ID,
		TicketNumber: m.TicketNumber,
		CustomerID:   m.CustomerID,
		OrderID:      m.OrderID,
		Subject:      m.Subject,
		Description:  m.Description,
		Category:     m.Category,
		Priority:     m.Priority,
		Status:       m.Status,
		AssignedTo:   m.AssignedTo,
		ResolvedAt:   m.ResolvedAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

type ReplyDTO struct {
	ID          uuid.UUID        `json:"id"`
	TicketID    uuid.UUID        `json:"ticket_id"`
	AuthorType  enums.AuthorType `json:"author_type"`
	AuthorID    uuid.UUID        `json:"author_id"`
	Message     string           `json:"message"`
	Attachments []string         `json:"attachments"`
	CreatedAt   time.Time        `json:"created_at"`
}

func replyFromModel(m models.TicketReply) ReplyDTO {
	attachments := m.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	return ReplyDTO{
		ID:          m.ID,
		TicketID:    m.TicketID,
		AuthorType:  m.AuthorType,
		AuthorID:    m.AuthorID,
		Message:     m.Message,
		Attachments: attachments,
		CreatedAt:   m.CreatedAt,
	}
}

type CustomerRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Phone string    `json:"phone"`
	Email *string   `json:"email,omitempty"`
}

type OrderRef struct {
	ID          uuid.UUID         `json:"id"`
	OrderNumber string            `json:"order_number"`
	OrderStatus enums.OrderStatus `json:"order_status"`
}

// TicketDetail is a ticket with its conversation, oldest reply first.
type TicketDetail struct {
	TicketDTO
	Customer *CustomerRef `json:"customer,omitempty"`
	Order    *OrderRef    `json:"order,omitempty"`
	Replies  []ReplyDTO   `json:"replies"`
}

// StatusResult carries the confirmation message shown to the admin.
type StatusResult struct {
	Ticket  TicketDTO `json:"ticket"`
	Message string    `json:"-"`
}
