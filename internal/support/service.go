// Package support runs customer support tickets for customers and admins.
package support

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/repo"
	"github.com/angelmondragon/marketplace-backend/pkg/db"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/outbox"
	"github.com/angelmondragon/marketplace-backend/pkg/outbox/payloads"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
	"github.com/angelmondragon/marketplace-backend/pkg/security"
)

const (
	msgTicketNotFound = "Ticket not found"
	numberAttempts    = 3
)

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type Params struct {
	Tx     db.TxRunner
	Repo   Repository
	Outbox outboxPublisher
	Now    func() time.Time
}

type deps struct {
	tx     db.TxRunner
	repo   Repository
	outbox outboxPublisher
	now    func() time.Time
}

func newDeps(p Params) (deps, error) {
	switch {
	case p.Tx == nil:
		return deps{}, fmt.Errorf("tx runner required")
	case p.Repo == nil:
		return deps{}, fmt.Errorf("support repository required")
	case p.Outbox == nil:
		return deps{}, fmt.Errorf("outbox publisher required")
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	return deps{tx: p.Tx, repo: p.Repo, outbox: p.Outbox, now: p.Now}, nil
}

// Service is the customer side of support.
type Service interface {
	Create(ctx context.Context, customerID uuid.UUID, input CreateTicketInput) (*TicketDTO, error)
	List(ctx context.Context, customerID uuid.UUID, status string, params pagination.Params) (pagination.Page[TicketDTO], error)
	Detail(ctx context.Context, customerID, ticketID uuid.UUID) (*TicketDetail, error)
	Reply(ctx context.Context, customerID, ticketID uuid.UUID, input ReplyInput) (*ReplyDTO, error)
}

type service struct {
	deps
}

func NewService(p Params) (Service, error) {
	d, err := newDeps(p)
	if err != nil {
		return nil, err
	}
	return &service{deps: d}, nil
}

func (s *service) Create(ctx context.Context, customerID uuid.UUID, input CreateTicketInput) (*TicketDTO, error) {
	if !input.Category.IsValid() {
		return nil, pkgerrors.Validation(map[string]string{"category": "is invalid"})
	}
	if input.Priority == "" {
		input.Priority = enums.PriorityMedium
	}
	if !input.Priority.IsValid() {
		return nil, pkgerrors.Validation(map[string]string{"priority": "is invalid"})
	}
	if input.OrderID != nil {
		ok, err := s.repo.OrderBelongs(ctx, customerID, *input.OrderID)
		if err != nil {
			return nil, repo.MapError(err, "Order not found")
		}
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Order not found")
		}
	}

	ticket := &models.SupportTicket{
		CustomerID:  customerID,
		OrderID:     input.OrderID,
		Subject:     input.Subject,
		Description: input.Description,
		Category:    input.Category,
		Priority:    input.Priority,
		Status:      enums.TicketOpen,
	}
	// Colliding numbers are regenerated.
	for attempt := 1; ; attempt++ {
		number, err := ticketNumber(s.now().UTC())
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate ticket number")
		}
		ticket.ID = uuid.Nil
		ticket.TicketNumber = number
		err = s.repo.Create(ctx, ticket)
		if err == nil {
			break
		}
		if !db.IsUniqueViolation(err, "") || attempt == numberAttempts {
			return nil, repo.MapError(err, msgTicketNotFound)
		}
	}
	dto := ticketFromModel(*ticket)
	return &dto, nil
}

func (s *service) List(ctx context.Context, customerID uuid.UUID, status string, params pagination.Params) (pagination.Page[TicketDTO], error) {
	params = params.Normalize()
	var filter *enums.TicketStatus
	if status != "" {
		parsed, err := enums.ParseTicketStatus(status)
		if err != nil {
			return pagination.Page[TicketDTO]{}, pkgerrors.Validation(map[string]string{"status": "is invalid"})
		}
		filter = &parsed
	}
	rows, total, err := s.repo.ListCustomer(ctx, customerID, filter, params)
	if err != nil {
		return pagination.Page[TicketDTO]{}, repo.MapError(err, msgTicketNotFound)
	}
	items := make([]TicketDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, ticketFromModel(row))
	}
	return pagination.NewPage(items, params, total), nil
}

func (s *service) Detail(ctx context.Context, customerID, ticketID uuid.UUID) (*TicketDetail, error) {
	ticket, err := s.repo.FindForCustomer(ctx, customerID, ticketID)
	if err != nil {
		return nil, repo.MapError(err, msgTicketNotFound)
	}
	return buildDetail(ctx, s.repo, *ticket, false)
}

// Reply adds a customer message. Closed tickets take no further replies.
func (s *service) Reply(ctx context.Context, customerID, ticketID uuid.UUID, input ReplyInput) (*ReplyDTO, error) {
	var out ReplyDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repository := s.repo.WithTx(tx)
		ticket, err := repository.FindForCustomer(ctx, customerID, ticketID)
		if err != nil {
			return repo.MapError(err, msgTicketNotFound)
		}
		if ticket.Status == enums.TicketClosed {
			return pkgerrors.New(pkgerrors.CodeBusinessRule, "Ticket is closed")
		}
		reply := &models.TicketReply{
			TicketID:    ticket.ID,
			AuthorType:  enums.AuthorCustomer,
			AuthorID:    customerID,
			Message:     input.Message,
			Attachments: input.Attachments,
		}
		if err := repository.CreateReply(ctx, reply); err != nil {
			return repo.MapError(err, msgTicketNotFound)
		}
		if err := emitReply(ctx, s.deps, tx, *ticket, *reply, enums.ActorCustomer); err != nil {
			return err
		}
		out = replyFromModel(*reply)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func emitReply(ctx context.Context, d deps, tx *gorm.DB, ticket models.SupportTicket, reply models.TicketReply, actor enums.ActorType) error {
	event := outbox.DomainEvent{
		EventType:     enums.EventTicketReplied,
		AggregateType: enums.AggregateSupportTicket,
		AggregateID:   ticket.ID,
		Actor:         &outbox.ActorRef{ID: reply.AuthorID, Type: actor},
		OccurredAt:    d.now().UTC(),
		Data: payloads.TicketReplied{
			TicketID:     ticket.ID,
			TicketNumber: ticket.TicketNumber,
			ReplyID:      reply.ID,
			AuthorType:   reply.AuthorType,
			CustomerID:   ticket.CustomerID,
			AssignedTo:   ticket.AssignedTo,
		},
	}
	if err := d.outbox.Emit(ctx, tx, event); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit ticket replied event")
	}
	return nil
}

func buildDetail(ctx context.Context, repository Repository, ticket models.SupportTicket, withParties bool) (*TicketDetail, error) {
	replies, err := repository.Replies(ctx, ticket.ID)
	if err != nil {
		return nil, repo.MapError(err, msgTicketNotFound)
	}
	detail := &TicketDetail{TicketDTO: ticketFromModel(ticket), Replies: make([]ReplyDTO, 0, len(replies))}
	for _, reply := range replies {
		detail.Replies = append(detail.Replies, replyFromModel(reply))
	}

	if ticket.OrderID != nil {
		order, err := repository.FindOrder(ctx, *ticket.OrderID)
		if err != nil {
			return nil, repo.MapError(err, "Order not found")
		}
		detail.Order = &OrderRef{ID: order.ID, OrderNumber: order.OrderNumber, OrderStatus: order.OrderStatus}
	}
	if !withParties {
		return detail, nil
	}

	customer, err := repository.FindCustomer(ctx, ticket.CustomerID)
	if err != nil {
		return nil, repo.MapError(err, "Customer not found")
	}
	detail.CustomerName = customer.Name
	detail.Customer = &CustomerRef{ID: customer.ID, Name: customer.Name, Phone: customer.Phone, Email: customer.Email}
	if ticket.AssignedTo != nil {
		names, err := repository.AdminNames(ctx, []uuid.UUID{*ticket.AssignedTo})
		if err != nil {
			return nil, repo.MapError(err, "Admin not found")
		}
		if name, ok := names[*ticket.AssignedTo]; ok {
			detail.AssigneeName = &name
		}
	}
	return detail, nil
}

// ticketNumber is TKT, the creation date and six random alphanumerics.
func ticketNumber(now time.Time) (string, error) {
	suffix, err := security.RandomReference(6)
	if err != nil {
		return "", err
	}
	return "TKT" + now.Format("20060102") + suffix, nil
}
