package partners

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/repo"
	"github.com/angelmondragon/marketplace-backend/pkg/db"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
)

const notFoundMessage = "Delivery partner not found"

type sessionRevoker interface {
	RevokeIdentity(ctx context.Context, role enums.Role, identityID uuid.UUID) error
}

type Service interface {
	Profile(ctx context.Context, partnerID uuid.UUID) (*Profile, error)
	UpdateProfile(ctx context.Context, partnerID uuid.UUID, input UpdateProfileInput) (*PartnerDTO, error)

	List(ctx context.Context, filters ListFilters, params pagination.Params) (pagination.Page[PartnerDTO], error)
	Create(ctx context.Context, input CreateInput) (*PartnerDTO, error)
	Verify(ctx context.Context, adminID, partnerID uuid.UUID, input VerifyInput) (*PartnerDTO, error)
	UpdateStatus(ctx context.Context, partnerID uuid.UUID, status enums.PartnerStatus) (*PartnerDTO, error)
}

type service struct {
	repo     Repository
	tx       db.TxRunner
	sessions sessionRevoker
}

func NewService(repo Repository, tx db.TxRunner, sessions sessionRevoker) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "partners repository is required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction runner is required")
	}
	if sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session revoker is required")
	}
	return &service{repo: repo, tx: tx, sessions: sessions}, nil
}

func (s *service) Profile(ctx context.Context, partnerID uuid.UUID) (*Profile, error) {
	partner, err := s.repo.FindByID(ctx, partnerID)
	if err != nil {
		return nil, repo.MapError(err, notFoundMessage)
	}
	stats, err := s.repo.Stats(ctx, partnerID)
	if err != nil {
		return nil, repo.MapError(err, notFoundMessage)
	}
	stats.Rating = partner.Rating
	return &Profile{Partner: FromModel(*partner), Stats: stats}, nil
}

func (s *service) UpdateProfile(ctx context.Context, partnerID uuid.UUID, input UpdateProfileInput) (*PartnerDTO, error) {
	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		updates["email"] = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.VehicleType != nil {
		if !input.VehicleType.IsValid() {
			return nil, pkgerrors.Validation(map[string]string{"vehicle_type": "must be one of bike, car, scooter, van"})
		}
		updates["vehicle_type"] = *input.VehicleType
	}
	if input.VehicleNumber != nil {
		updates["vehicle_number"] = strings.TrimSpace(*input.VehicleNumber)
	}
	if err := s.repo.Update(ctx, partnerID, updates); err != nil {
		return nil, repo.MapError(err, notFoundMessage)
	}
	return s.load(ctx, s.repo, partnerID)
}

func (s *service) List(ctx context.Context, filters ListFilters, params pagination.Params) (pagination.Page[PartnerDTO], error) {
	rows, total, err := s.repo.List(ctx, filters, params)
	if err != nil {
		return pagination.Page[PartnerDTO]{}, repo.MapError(err, notFoundMessage)
	}
	dtos := make([]PartnerDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, FromModel(row))
	}
	return pagination.NewPage(dtos, params, total), nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*PartnerDTO, error) {
	if !input.VehicleType.IsValid() {
		return nil, pkgerrors.Validation(map[string]string{"vehicle_type": "must be one of bike, car, scooter, van"})
	}
	partner := &models.DeliveryPartner{
		Name:          strings.TrimSpace(input.Name),
		Phone:         strings.TrimSpace(input.Phone),
		VehicleType:   input.VehicleType,
		VehicleNumber: input.VehicleNumber,
		LicenseNumber: input.LicenseNumber,
		Status:        enums.PartnerStatusPending,
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		partner.Email = &email
	}
	if err := s.repo.Create(ctx, partner); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "Phone number already registered")
		}
		return nil, repo.MapError(err, notFoundMessage)
	}
	dto := FromModel(*partner)
	return &dto, nil
}

// Verify records the admin decision and applies it to the partner in one
// transaction.
func (s *service) Verify(ctx context.Context, adminID, partnerID uuid.UUID, input VerifyInput) (*PartnerDTO, error) {
	if input.Status != enums.PartnerStatusApproved && input.Status != enums.PartnerStatusRejected {
		return nil, pkgerrors.Validation(map[string]string{"status": "must be one of approved, rejected"})
	}
	var dto *PartnerDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.Update(ctx, partnerID, statusUpdates(input.Status)); err != nil {
			return repo.MapError(err, notFoundMessage)
		}
		if err := txRepo.InsertVerification(ctx, &models.PartnerVerification{
			PartnerID: partnerID,
			AdminID:   adminID,
			Status:    input.Status,
			Notes:     input.Notes,
		}); err != nil {
			return repo.MapError(err, notFoundMessage)
		}
		loaded, err := s.load(ctx, txRepo, partnerID)
		if err != nil {
			return err
		}
		dto = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := s.revokeUnlessApproved(ctx, partnerID, input.Status); err != nil {
		return nil, err
	}
	return dto, nil
}

func (s *service) UpdateStatus(ctx context.Context, partnerID uuid.UUID, status enums.PartnerStatus) (*PartnerDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.Validation(map[string]string{"status": "must be one of approved, suspended, pending, rejected"})
	}
	if err := s.repo.Update(ctx, partnerID, statusUpdates(status)); err != nil {
		return nil, repo.MapError(err, notFoundMessage)
	}
	if err := s.revokeUnlessApproved(ctx, partnerID, status); err != nil {
		return nil, err
	}
	return s.load(ctx, s.repo, partnerID)
}

func (s *service) revokeUnlessApproved(ctx context.Context, partnerID uuid.UUID, status enums.PartnerStatus) error {
	if status == enums.PartnerStatusApproved {
		return nil
	}
	if err := s.sessions.RevokeIdentity(ctx, enums.RoleDelivery, partnerID); err != nil {
		return repo.MapError(err, notFoundMessage)
	}
	return nil
}

func (s *service) load(ctx context.Context, r Repository, partnerID uuid.UUID) (*PartnerDTO, error) {
	partner, err := r.FindByID(ctx, partnerID)
	if err != nil {
		return nil, repo.MapError(err, notFoundMessage)
	}
	dto := FromModel(*partner)
	return &dto, nil
}

// statusUpdates takes a partner offline whenever it leaves approved.
func statusUpdates(status enums.PartnerStatus) map[string]any {
	updates := map[string]any{"status": status}
	if status != enums.PartnerStatusApproved {
		updates["is_online"] = false
	}
	return updates
}
