package support

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/repo"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
)

// AdminService works the support queue.
type AdminService interface {
	List(ctx context.Context, filters ListFilters, params pagination.Params) (pagination.Page[TicketDTO], error)
	Detail(ctx context.Context, ticketID uuid.UUID) (*TicketDetail, error)
	Reply(ctx context.Context, adminID, ticketID uuid.UUID, input ReplyInput) (*ReplyDTO, error)
	UpdateStatus(ctx context.Context, ticketID uuid.UUID, input StatusInput) (*StatusResult, error)
}

type adminService struct {
	deps
}

func NewAdminService(p Params) (AdminService, error) {
	d, err := newDeps(p)
	if err != nil {
		return nil, err
	}
	return &adminService{deps: d}, nil
}

func (s *adminService) List(ctx context.Context, filters ListFilters, params pagination.Params) (pagination.Page[TicketDTO], error) {
	params = params.Normalize()
	rows, total, err := s.repo.ListAdmin(ctx, filters, params)
	if err != nil {
		return pagination.Page[TicketDTO]{}, repo.MapError(err, msgTicketNotFound)
	}

	customerIDs := make([]uuid.UUID, 0, len(rows))
	adminIDs := make([]uuid.UUID, 0)
	for _, row := range rows {
		customerIDs = append(customerIDs, row.CustomerID)
		if row.AssignedTo != nil {
			adminIDs = append(adminIDs, *row.AssignedTo)
		}
	}
	customers, err := s.repo.CustomerNames(ctx, customerIDs)
	if err != nil {
		return pagination.Page[TicketDTO]{}, repo.MapError(err, "Customer not found")
	}
	admins, err := s.repo.AdminNames(ctx, adminIDs)
	if err != nil {
		return pagination.Page[TicketDTO]{}, repo.MapError(err, "Admin not found")
	}

	items := make([]TicketDTO, 0, len(rows))
	for _, row := range rows {
		dto := ticketFromModel(row)
		dto.CustomerName = customers[row.CustomerID]
		if row.AssignedTo != nil {
			if name, ok := admins[*row.AssignedTo]; ok {
				dto.AssigneeName = &name
			}
		}
		items = append(items, dto)
	}
	return pagination.NewPage(items, params, total), nil
}

func (s *adminService) Detail(ctx context.Context, ticketID uuid.UUID) (*TicketDetail, error) {
	ticket, err := s.repo.FindByID(ctx, ticketID)
	if err != nil {
		return nil, repo.MapError(err, msgTicketNotFound)
	}
	return buildDetail(ctx, s.repo, *ticket, true)
}

// Reply answers a ticket. The first admin reply on an open ticket claims it.
func (s *adminService) Reply(ctx context.Context, adminID, ticketID uuid.UUID, input ReplyInput) (*ReplyDTO, error) {
	var out ReplyDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repository := s.repo.WithTx(tx)
		ticket, err := repository.FindByID(ctx, ticketID)
		if err != nil {
			return repo.MapError(err, msgTicketNotFound)
		}
		reply := &models.TicketReply{
			TicketID:    ticket.ID,
			AuthorType:  enums.AuthorAdmin,
			AuthorID:    adminID,
			Message:     input.Message,
			Attachments: input.Attachments,
		}
		if err := repository.CreateReply(ctx, reply); err != nil {
			return repo.MapError(err, msgTicketNotFound)
		}
		if ticket.Status == enums.TicketOpen {
			claimed, err := repository.ClaimOpen(ctx, ticket.ID, adminID)
			if err != nil {
				return repo.MapError(err, msgTicketNotFound)
			}
			if claimed {
				ticket.Status = enums.TicketInProgress
				ticket.AssignedTo = &adminID
			}
		}
		if err := emitReply(ctx, s.deps, tx, *ticket, *reply, enums.ActorAdmin); err != nil {
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

func (s *adminService) UpdateStatus(ctx context.Context, ticketID uuid.UUID, input StatusInput) (*StatusResult, error) {
	if !input.Status.IsValid() {
		return nil, pkgerrors.Validation(map[string]string{"status": "is invalid"})
	}
	var out *StatusResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repository := s.repo.WithTx(tx)
		if _, err := repository.FindByID(ctx, ticketID); err != nil {
			return repo.MapError(err, msgTicketNotFound)
		}
		updates := map[string]any{"status": input.Status}
		if input.AssignTo != nil {
			if _, err := repository.FindAdmin(ctx, *input.AssignTo); err != nil {
				mapped := repo.MapError(err, "Admin not found")
				if pkgerrors.IsCode(mapped, pkgerrors.CodeNotFound) {
					return pkgerrors.Validation(map[string]string{"assign_to": "admin not found"})
				}
				return mapped
			}
			updates["assigned_to"] = *input.AssignTo
		}
		if input.Status == enums.TicketResolved {
			updates["resolved_at"] = s.now().UTC()
		}
		if err := repository.Update(ctx, ticketID, updates); err != nil {
			return repo.MapError(err, msgTicketNotFound)
		}
		ticket, err := repository.FindByID(ctx, ticketID)
		if err != nil {
			return repo.MapError(err, msgTicketNotFound)
		}
		out = &StatusResult{
			Ticket:  ticketFromModel(*ticket),
			Message: "Ticket status updated to " + string(input.Status),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
