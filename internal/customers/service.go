package customers

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/marketplace-backend/internal/repo"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
)

const notFoundMessage = "Customer not found"

type sessionRevoker interface {
	RevokeIdentity(ctx context.Context, role enums.Role, identityID uuid.UUID) error
}

// Service covers the customer's own profile and admin account management.
type Service interface {
	Profile(ctx context.Context, customerID uuid.UUID) (*Profile, error)
	UpdateProfile(ctx context.Context, customerID uuid.UUID, input UpdateProfileInput) (*CustomerDTO, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) (pagination.Page[CustomerDTO], error)
	UpdateStatus(ctx context.Context, customerID uuid.UUID, status enums.CustomerStatus) (*CustomerDTO, error)
}

type service struct {
	repo     Repository
	sessions sessionRevoker
}

func NewService(repo Repository, sessions sessionRevoker) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customers repository is required")
	}
	if sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session revoker is required")
	}
	return &service{repo: repo, sessions: sessions}, nil
}

func (s *service) Profile(ctx context.Context, customerID uuid.UUID) (*Profile, error) {
	customer, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		return nil, repo.MapError(err, notFoundMessage)
	}
	stats, err := s.repo.Stats(ctx, customerID)
	if err != nil {
		return nil, repo.MapError(err, notFoundMessage)
	}
	return &Profile{Customer: FromModel(*customer), Stats: stats}, nil
}

func (s *service) UpdateProfile(ctx context.Context, customerID uuid.UUID, input UpdateProfileInput) (*CustomerDTO, error) {
	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		updates["email"] = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.ProfileImage != nil {
		updates["profile_image"] = *input.ProfileImage
	}
	if err := s.repo.Update(ctx, customerID, updates); err != nil {
		return nil, repo.MapError(err, notFoundMessage)
	}
	customer, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		return nil, repo.MapError(err, notFoundMessage)
	}
	dto := FromModel(*customer)
	return &dto, nil
}

func (s *service) List(ctx context.Context, filters ListFilters, params pagination.Params) (pagination.Page[CustomerDTO], error) {
	rows, total, err := s.repo.List(ctx, filters, params)
	if err != nil {
		return pagination.Page[CustomerDTO]{}, repo.MapError(err, notFoundMessage)
	}
	dtos := make([]CustomerDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, FromModel(row))
	}
	return pagination.NewPage(dtos, params, total), nil
}

// UpdateStatus ends the customer's session whenever the account leaves active.
func (s *service) UpdateStatus(ctx context.Context, customerID uuid.UUID, status enums.CustomerStatus) (*CustomerDTO, error) {
	if err := s.repo.Update(ctx, customerID, map[string]any{"status": status}); err != nil {
		return nil, repo.MapError(err, notFoundMessage)
	}
	if status != enums.CustomerStatusActive {
		if err := s.sessions.RevokeIdentity(ctx, enums.RoleCustomer, customerID); err != nil {
			return nil, repo.MapError(err, notFoundMessage)
		}
	}
	customer, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		return nil, repo.MapError(err, notFoundMessage)
	}
	dto := FromModel(*customer)
	return &dto, nil
}
