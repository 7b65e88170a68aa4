package address

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
)

const notFoundMessage = "Address not found"

// Service is the customer address book. At most one address per customer is
// default; the first address becomes default on its own.
type Service interface {
	List(ctx context.Context, customerID uuid.UUID) ([]AddressDTO, error)
	Create(ctx context.Context, customerID uuid.UUID, input CreateInput) (*AddressDTO, error)
	Update(ctx context.Context, customerID, id uuid.UUID, input UpdateInput) (*AddressDTO, error)
	Delete(ctx context.Context, customerID, id uuid.UUID) error
	SetDefault(ctx context.Context, customerID, id uuid.UUID) (*AddressDTO, error)
}

type service struct {
	repo Repository
	tx   db.TxRunner
}

func NewService(repo Repository, tx db.TxRunner) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address repository is required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction runner is required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) List(ctx context.Context, customerID uuid.UUID) ([]AddressDTO, error) {
	rows, err := s.repo.List(ctx, customerID)
	if err != nil {
		return nil, repo.MapError(err, notFoundMessage)
	}
	out := make([]AddressDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromModel(row))
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, customerID uuid.UUID, input CreateInput) (*AddressDTO, error) {
	address := &models.Address{
		CustomerID:   customerID,
		AddressType:  input.AddressType,
		FullName:     strings.TrimSpace(input.FullName),
		Phone:        strings.TrimSpace(input.Phone),
		AddressLine1: strings.TrimSpace(input.AddressLine1),
		AddressLine2: input.AddressLine2,
		Landmark:     input.Landmark,
		City:         strings.TrimSpace(input.City),
		State:        strings.TrimSpace(input.State),
		Country:      strings.TrimSpace(input.Country),
		PostalCode:   strings.TrimSpace(input.PostalCode),
		Lat:          input.Lat,
		Lng:          input.Lng,
		IsDefault:    input.IsDefault,
	}
	if address.AddressType == "" {
		address.AddressType = enums.AddressHome
	}
	if !address.AddressType.IsValid() {
		return nil, pkgerrors.Validation(map[string]string{"address_type": "must be one of: home work other"})
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		count, err := txRepo.Count(ctx, customerID)
		if err != nil {
			return err
		}
		if count == 0 {
			address.IsDefault = true
		}
		if address.IsDefault {
			if err := txRepo.ClearDefault(ctx, customerID, nil); err != nil {
				return err
			}
		}
		return txRepo.Create(ctx, address)
	})
	if err != nil {
		return nil, repo.MapError(err, notFoundMessage)
	}
	dto := FromModel(*address)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, customerID, id uuid.UUID, input UpdateInput) (*AddressDTO, error) {
	updates := updateMap(input)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.FindForCustomer(ctx, customerID, id); err != nil {
			return err
		}
		if input.IsDefault != nil && *input.IsDefault {
			if err := txRepo.ClearDefault(ctx, customerID, &id); err != nil {
				return err
			}
		}
		if err := txRepo.Update(ctx, customerID, id, updates); err != nil {
			return err
		}
		if input.IsDefault != nil && !*input.IsDefault {
			return txRepo.PromoteLatest(ctx, customerID)
		}
		return nil
	})
	if err != nil {
		return nil, repo.MapError(err, notFoundMessage)
	}
	return s.load(ctx, customerID, id)
}

func (s *service) Delete(ctx context.Context, customerID, id uuid.UUID) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.Delete(ctx, customerID, id); err != nil {
			return err
		}
		return txRepo.PromoteLatest(ctx, customerID)
	})
	return repo.MapError(err, notFoundMessage)
}

func (s *service) SetDefault(ctx context.Context, customerID, id uuid.UUID) (*AddressDTO, error) {
	isDefault := true
	return s.Update(ctx, customerID, id, UpdateInput{IsDefault: &isDefault})
}

func (s *service) load(ctx context.Context, customerID, id uuid.UUID) (*AddressDTO, error) {
	address, err := s.repo.FindForCustomer(ctx, customerID, id)
	if err != nil {
		return nil, repo.MapError(err, notFoundMessage)
	}
	dto := FromModel(*address)
	return &dto, nil
}

func updateMap(input UpdateInput) map[string]any {
	updates := map[string]any{}
	set := func(column string, value *string) {
		if value != nil {
			updates[column] = strings.TrimSpace(*value)
		}
	}
	if input.AddressType != nil {
		updates["address_type"] = *input.AddressType
	}
	set("full_name", input.FullName)
	set("phone", input.Phone)
	set("address_line1", input.AddressLine1)
	set("address_line2", input.AddressLine2)
	set("landmark", input.Landmark)
	set("city", input.City)
	set("state", input.State)
	set("country", input.Country)
	set("postal_code", input.PostalCode)
	if input.Lat != nil {
		updates["lat"] = *input.Lat
	}
	if input.Lng != nil {
		updates["lng"] = *input.Lng
	}
	if input.IsDefault != nil {
		updates["is_default"] = *input.IsDefault
	}
	return updates
}
