package outbox

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
)

const maxLastErrorLen = 1024

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Insert(tx *gorm.DB, event models.OutboxEvent) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	return tx.Create(&event).Error
}

// FetchUnpublishedForPublish locks a batch of due rows. Concurrent publishers
// skip rows already claimed by another transaction.
func (r *Repository) FetchUnpublishedForPublish(tx *gorm.DB, limit, maxAttempts int, now time.Time) ([]models.OutboxEvent, error) {
	if tx == nil {
		return nil, errors.New("transaction required")
	}
	query := tx.Where("published_at IS NULL").
		Where("attempt_count < ?", maxAttempts).
		Where("(next_attempt_at IS NULL OR next_attempt_at <= ?)", now).
		Order("created_at ASC").
		Order("id ASC").
		Limit(limit)
	if tx.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
	}
	var rows []models.OutboxEvent
	err := query.Find(&rows).Error
	return rows, err
}

func (r *Repository) MarkPublishedTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Model(&models.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"published_at":    time.Now().UTC(),
			"next_attempt_at": nil,
		}).Error
}

// MarkFailedTx records the failure and schedules the next attempt.
func (r *Repository) MarkFailedTx(tx *gorm.DB, id uuid.UUID, err error, nextAttemptAt time.Time) error {
	return tx.Model(&models.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"last_error":      truncate(errText(err), maxLastErrorLen),
			"attempt_count":   gorm.Expr("attempt_count + 1"),
			"next_attempt_at": nextAttemptAt.UTC(),
		}).Error
}

// MarkTerminalTx takes the row out of the publish queue without marking it
// published.
func (r *Repository) MarkTerminalTx(tx *gorm.DB, id uuid.UUID, err error, terminalAttempts int) error {
	return tx.Model(&models.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"last_error":      truncate(errText(err), maxLastErrorLen),
			"attempt_count":   terminalAttempts,
			"next_attempt_at": nil,
		}).Error
}

// DeletePublishedBefore removes delivered rows older than cutoff.
func (r *Repository) DeletePublishedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("published_at IS NOT NULL AND published_at < ?", cutoff.UTC()).
		Delete(&models.OutboxEvent{})
	return res.RowsAffected, res.Error
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func truncate(message string, max int) string {
	if len(message) <= max {
		return message
	}
	return message[:max]
}
