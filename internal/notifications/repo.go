package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/repo"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
)

// Recipient identifies one feed.
type Recipient struct {
	Role enums.Role
	ID   uuid.UUID
}

// Repository exposes persistence helpers for notifications.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, notification *models.Notification) error
	List(ctx context.Context, recipient Recipient, isRead *bool, params pagination.Params) ([]models.Notification, int64, error)
	UnreadCount(ctx context.Context, recipient Recipient) (int64, error)
	MarkRead(ctx context.Context, recipient Recipient, notificationID uuid.UUID, now time.Time) (markResult, error)
	MarkAllRead(ctx context.Context, recipient Recipient, now time.Time) (int64, error)
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type repositoryImpl struct {
	repo.Base
}

// NewRepository returns a notifications repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{Base: repo.NewBase(db)}
}

type markResult struct {
	Updated bool
	Found   bool
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{Base: repo.NewBase(tx)}
}

func (r *repositoryImpl) Create(ctx context.Context, notification *models.Notification) error {
	return r.DB(ctx).Create(notification).Error
}

func (r *repositoryImpl) feed(ctx context.Context, recipient Recipient) *gorm.DB {
	return r.DB(ctx).Model(&models.Notification{}).
		Where("recipient_type = ? AND recipient_id = ?", recipient.Role, recipient.ID)
}

func (r *repositoryImpl) List(ctx context.Context, recipient Recipient, isRead *bool, params pagination.Params) ([]models.Notification, int64, error) {
	query := r.feed(ctx, recipient)
	if isRead != nil {
		if *isRead {
			query = query.Where("read_at IS NOT NULL")
		} else {
			query = query.Where("read_at IS NULL")
		}
	}
	return repo.Paginate[models.Notification](query.Order("created_at DESC"), params)
}

func (r *repositoryImpl) UnreadCount(ctx context.Context, recipient Recipient) (int64, error) {
	var count int64
	err := r.feed(ctx, recipient).Where("read_at IS NULL").Count(&count).Error
	return count, err
}

// MarkRead stamps read_at once. Found is false when the notification is not
// in the recipient's feed.
func (r *repositoryImpl) MarkRead(ctx context.Context, recipient Recipient, notificationID uuid.UUID, now time.Time) (markResult, error) {
	result := r.feed(ctx, recipient).
		Where("id = ? AND read_at IS NULL", notificationID).
		UpdateColumn("read_at", now)
	if result.Error != nil {
		return markResult{}, result.Error
	}
	if result.RowsAffected > 0 {
		return markResult{Updated: true, Found: true}, nil
	}

	var count int64
	if err := r.feed(ctx, recipient).Where("id = ?", notificationID).Count(&count).Error; err != nil {
		return markResult{}, err
	}
	return markResult{Found: count > 0}, nil
}

func (r *repositoryImpl) MarkAllRead(ctx context.Context, recipient Recipient, now time.Time) (int64, error) {
	result := r.feed(ctx, recipient).
		Where("read_at IS NULL").
		UpdateColumn("read_at", now)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *repositoryImpl) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.DB(ctx).
		Where("read_at IS NOT NULL AND read_at < ?", cutoff).
		Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}
