package categories

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
)

type CategoryDTO struct {
	ID           uuid.UUID     `json:"id"`
	Name         string        `json:"name"`
	Slug         string        `json:"slug"`
	Description  *string       `json:"description,omitempty"`
	Image        *string       `json:"image,omitempty"`
	ParentID     *uuid.UUID    `json:"parent_id,omitempty"`
	IsActive     bool          `json:"is_active"`
	DisplayOrder int           `json:"display_order"`
	ProductCount int64         `json:"product_count"`
	Children     []CategoryDTO `json:"children,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

func FromModel(m models.Category) CategoryDTO {
	return CategoryDTO{
		ID:           m.ID,
		Name:         m.Name,
		Slug:         m.Slug,
		Description:  m.Description,
		Image:        m.Image,
		ParentID:     m.ParentID,
		IsActive:     m.IsActive,
		DisplayOrder: m.DisplayOrder,
		CreatedAt:    m.CreatedAt,
	}
}

type CreateInput struct {
	Name         string     `json:"name" validate:"required,max=255"`
	Description  *string    `json:"description" validate:"omitempty,max=2000"`
	ParentID     *uuid.UUID `json:"parent_id"`
	IsActive     *bool      `json:"is_active"`
	DisplayOrder *int       `json:"display_order" validate:"omitempty,gte=0"`
	Image        *string    `json:"image" validate:"omitempty,max=2048"`
}

type UpdateInput struct {
	Name         *string    `json:"name" validate:"omitempty,min=1,max=255"`
	Description  *string    `json:"description" validate:"omitempty,max=2000"`
	ParentID     *uuid.UUID `json:"parent_id"`
	IsActive     *bool      `json:"is_active"`
	DisplayOrder *int       `json:"display_order" validate:"omitempty,gte=0"`
	Image        *string    `json:"image" validate:"omitempty,max=2048"`
}

type ListFilters struct {
	IsActive *bool
	Tree     bool
}
