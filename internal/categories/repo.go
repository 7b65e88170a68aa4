package categories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/repo"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
)

type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	List(ctx context.Context, isActive *bool) ([]models.Category, error)
	Roots(ctx context.Context, limit int) ([]models.Category, error)
	ChildIDs(ctx context.Context, parentIDs []uuid.UUID, activeOnly bool) ([]uuid.UUID, error)
	ProductCounts(ctx context.Context, ids []uuid.UUID, activeOnly bool) (map[uuid.UUID]int64, error)
	SlugExists(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountChildren(ctx context.Context, id uuid.UUID) (int64, error)
	CountProducts(ctx context.Context, id uuid.UUID) (int64, error)
}

type repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.DB(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *repository) List(ctx context.Context, isActive *bool) ([]models.Category, error) {
	query := r.DB(ctx).Model(&models.Category{})
	if isActive != nil {
		query = query.Where("is_active = ?", *isActive)
	}
	var rows []models.Category
	if err := query.Order("display_order ASC").Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Roots returns active top-level categories. limit <= 0 returns all of them.
func (r *repository) Roots(ctx context.Context, limit int) ([]models.Category, error) {
	query := r.DB(ctx).Where("parent_id IS NULL AND is_active = ?", true).
		Order("display_order ASC").Order("name ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var rows []models.Category
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ChildIDs(ctx context.Context, parentIDs []uuid.UUID, activeOnly bool) ([]uuid.UUID, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	query := r.DB(ctx).Model(&models.Category{}).Where("parent_id IN ?", parentIDs)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var ids []uuid.UUID
	if err := query.Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *repository) ProductCounts(ctx context.Context, ids []uuid.UUID, activeOnly bool) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	query := r.DB(ctx).Model(&models.Product{}).
		Select("category_id, COUNT(*) AS total").
		Where("category_id IN ?", ids)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var rows []struct {
		CategoryID uuid.UUID
		Total      int64
	}
	if err := query.Group("category_id").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.CategoryID] = row.Total
	}
	return out, nil
}

func (r *repository) SlugExists(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	query := r.DB(ctx).Model(&models.Category{}).Where("slug = ?", slug)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) Create(ctx context.Context, category *models.Category) error {
	return r.DB(ctx).Create(category).Error
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	res := r.DB(ctx).Model(&models.Category{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.DB(ctx).Where("id = ?", id).Delete(&models.Category{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) CountChildren(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Category{}).Where("parent_id = ?", id).Count(&count).Error
	return count, err
}

func (r *repository) CountProducts(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Product{}).Where("category_id = ?", id).Count(&count).Error
	return count, err
}
