package categories

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/marketplace-backend/internal/repo"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/slug"
)

const notFoundMessage = "Category not found"

// maxSlugAttempts bounds the counter suffix search for a free slug.
const maxSlugAttempts = 100

// Service covers admin category management and the customer category tree.
type Service interface {
	List(ctx context.Context, filters ListFilters) ([]CategoryDTO, error)
	Create(ctx context.Context, input CreateInput) (*CategoryDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*CategoryDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Tree returns active root categories with their active children nested.
	Tree(ctx context.Context) ([]CategoryDTO, error)
	// Roots returns up to limit active roots with active product counts.
	Roots(ctx context.Context, limit int) ([]CategoryDTO, error)
	// ActiveSubtree resolves an active category and the ids of it and every
	// active descendant.
	ActiveSubtree(ctx context.Context, id uuid.UUID) (*CategoryDTO, []uuid.UUID, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "categories repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, filters ListFilters) ([]CategoryDTO, error) {
	rows, err := s.repo.List(ctx, filters.IsActive)
	if err != nil {
		return nil, repo.MapError(err, notFoundMessage)
	}
	dtos, err := s.withCounts(ctx, rows, false)
	if err != nil {
		return nil, err
	}
	if !filters.Tree {
		return dtos, nil
	}
	return buildTree(dtos), nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*CategoryDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.Validation(map[string]string{"name": "is required"})
	}
	if input.ParentID != nil {
		if err := s.ensureParent(ctx, *input.ParentID); err != nil {
			return nil, err
		}
	}
	categorySlug, err := s.uniqueSlug(ctx, name, nil)
	if err != nil {
		return nil, err
	}

	category := &models.Category{
		Name:        name,
		Slug:        categorySlug,
		Description: input.Description,
		Image:       input.Image,
		ParentID:    input.ParentID,
		IsActive:    true,
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}
	if input.DisplayOrder != nil {
		category.DisplayOrder = *input.DisplayOrder
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, repo.MapError(err, notFoundMessage)
	}
	dto := FromModel(*category)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*CategoryDTO, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, repo.MapError(err, notFoundMessage)
	}
	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		categorySlug, err := s.uniqueSlug(ctx, name, &id)
		if err != nil {
			return nil, err
		}
		updates["name"] = name
		updates["slug"] = categorySlug
	}
	if input.ParentID != nil {
		if *input.ParentID == id {
			return nil, pkgerrors.New(pkgerrors.CodeBusinessRule, "Category cannot be its own parent")
		}
		if err := s.ensureParent(ctx, *input.ParentID); err != nil {
			return nil, err
		}
		if err := s.ensureNotDescendant(ctx, id, *input.ParentID); err != nil {
			return nil, err
		}
		updates["parent_id"] = *input.ParentID
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Image != nil {
		updates["image"] = *input.Image
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if input.DisplayOrder != nil {
		updates["display_order"] = *input.DisplayOrder
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, repo.MapError(err, notFoundMessage)
	}
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repo.MapError(err, notFoundMessage)
	}
	dto := FromModel(*category)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return repo.MapError(err, notFoundMessage)
	}
	children, err := s.repo.CountChildren(ctx, id)
	if err != nil {
		return repo.MapError(err, notFoundMessage)
	}
	if children > 0 {
		return pkgerrors.New(pkgerrors.CodeBusinessRule, "Cannot delete category with sub-categories")
	}
	products, err := s.repo.CountProducts(ctx, id)
	if err != nil {
		return repo.MapError(err, notFoundMessage)
	}
	if products > 0 {
		return pkgerrors.New(pkgerrors.CodeBusinessRule, "Cannot delete category with products")
	}
	return repo.MapError(s.repo.Delete(ctx, id), notFoundMessage)
}

func (s *service) Tree(ctx context.Context) ([]CategoryDTO, error) {
	active := true
	rows, err := s.repo.List(ctx, &active)
	if err != nil {
		return nil, repo.MapError(err, notFoundMessage)
	}
	dtos, err := s.withCounts(ctx, rows, true)
	if err != nil {
		return nil, err
	}
	return buildTree(dtos), nil
}

func (s *service) Roots(ctx context.Context, limit int) ([]CategoryDTO, error) {
	rows, err := s.repo.Roots(ctx, limit)
	if err != nil {
		return nil, repo.MapError(err, notFoundMessage)
	}
	return s.withCounts(ctx, rows, true)
}

func (s *service) ActiveSubtree(ctx context.Context, id uuid.UUID) (*CategoryDTO, []uuid.UUID, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, repo.MapError(err, notFoundMessage)
	}
	if !category.IsActive {
		return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
	}

	ids := []uuid.UUID{id}
	seen := map[uuid.UUID]bool{id: true}
	frontier := []uuid.UUID{id}
	for len(frontier) > 0 {
		children, err := s.repo.ChildIDs(ctx, frontier, true)
		if err != nil {
			return nil, nil, repo.MapError(err, notFoundMessage)
		}
		frontier = frontier[:0]
		for _, child := range children {
			if seen[child] {
				continue
			}
			seen[child] = true
			ids = append(ids, child)
			frontier = append(frontier, child)
		}
	}
	dto := FromModel(*category)
	return &dto, ids, nil
}

func (s *service) ensureParent(ctx context.Context, parentID uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, parentID); err != nil {
		return repo.MapError(err, "Parent category not found")
	}
	return nil
}

// ensureNotDescendant walks up from parentID and refuses the move when it
// reaches id, which would close a cycle.
func (s *service) ensureNotDescendant(ctx context.Context, id, parentID uuid.UUID) error {
	seen := map[uuid.UUID]struct{}{}
	current := parentID
	for {
		if current == id {
			return pkgerrors.New(pkgerrors.CodeBusinessRule, "Category cannot be moved under its own sub-category")
		}
		if _, ok := seen[current]; ok {
			return nil
		}
		seen[current] = struct{}{}
		node, err := s.repo.FindByID(ctx, current)
		if err != nil {
			return repo.MapError(err, "Parent category not found")
		}
		if node.ParentID == nil {
			return nil
		}
		current = *node.ParentID
	}
}

func (s *service) uniqueSlug(ctx context.Context, name string, excludeID *uuid.UUID) (string, error) {
	base := slug.Make(name)
	candidate := base
	for i := 1; i <= maxSlugAttempts; i++ {
		exists, err := s.repo.SlugExists(ctx, candidate, excludeID)
		if err != nil {
			return "", repo.MapError(err, notFoundMessage)
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return "", pkgerrors.New(pkgerrors.CodeConflict, "Unable to allocate a unique slug")
}

func (s *service) withCounts(ctx context.Context, rows []models.Category, activeOnly bool) ([]CategoryDTO, error) {
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	counts, err := s.repo.ProductCounts(ctx, ids, activeOnly)
	if err != nil {
		return nil, repo.MapError(err, notFoundMessage)
	}
	dtos := make([]CategoryDTO, 0, len(rows))
	for _, row := range rows {
		dto := FromModel(row)
		dto.ProductCount = counts[row.ID]
		dtos = append(dtos, dto)
	}
	return dtos, nil
}

// buildTree nests categories under their parents, keeping input order. Nodes
// whose parent is absent from the list are treated as roots.
func buildTree(flat []CategoryDTO) []CategoryDTO {
	present := make(map[uuid.UUID]bool, len(flat))
	children := make(map[uuid.UUID][]CategoryDTO)
	for _, node := range flat {
		present[node.ID] = true
	}
	var roots []CategoryDTO
	for _, node := range flat {
		if node.ParentID != nil && present[*node.ParentID] {
			children[*node.ParentID] = append(children[*node.ParentID], node)
			continue
		}
		roots = append(roots, node)
	}
	var attach func(nodes []CategoryDTO) []CategoryDTO
	attach = func(nodes []CategoryDTO) []CategoryDTO {
		for i := range nodes {
			nodes[i].Children = attach(children[nodes[i].ID])
		}
		return nodes
	}
	if roots == nil {
		return []CategoryDTO{}
	}
	return attach(roots)
}
