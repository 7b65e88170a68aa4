// Package notifications keeps the per-role notification feeds and fills them
// from outbox events.
package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
)

// Service defines notification list/read operations.
type Service interface {
	List(ctx context.Context, recipient Recipient, isRead *bool, params pagination.Params) (*Feed, error)
	MarkRead(ctx context.Context, recipient Recipient, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, recipient Recipient) (int64, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

type NotificationDTO struct {
	ID        uuid.UUID              `json:"id"`
	Type      enums.NotificationType `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Data      map[string]any         `json:"data"`
	IsRead    bool                   `json:"is_read"`
	ReadAt    *time.Time             `json:"read_at,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

func fromModel(m models.Notification) NotificationDTO {
	data := m.Data
	if data == nil {
		data = map[string]any{}
	}
	return NotificationDTO{
		ID:        m.ID,
		Type:      m.Type,
		Title:     m.Title,
		Message:   m.Message,
		Data:      data,
		IsRead:    m.ReadAt != nil,
		ReadAt:    m.ReadAt,
		CreatedAt: m.CreatedAt,
	}
}

// Feed is one page of notifications plus the recipient's unread total.
type Feed struct {
	pagination.Page[NotificationDTO]
	UnreadCount int64 `json:"unread_count"`
}

// NewService wires notifications dependencies.
func NewService(repo Repository, now func() time.Time) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, now: now}, nil
}

func validRecipient(recipient Recipient) error {
	if recipient.ID == uuid.Nil || !recipient.Role.IsValid() {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "recipient identity missing")
	}
	return nil
}

func (s *service) List(ctx context.Context, recipient Recipient, isRead *bool, params pagination.Params) (*Feed, error) {
	if err := validRecipient(recipient); err != nil {
		return nil, err
	}
	params = params.Normalize()
	rows, total, err := s.repo.List(ctx, recipient, isRead, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}
	unread, err := s.repo.UnreadCount(ctx, recipient)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count unread notifications")
	}

	items := make([]NotificationDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, fromModel(row))
	}
	return &Feed{Page: pagination.NewPage(items, params, total), UnreadCount: unread}, nil
}

func (s *service) MarkRead(ctx context.Context, recipient Recipient, notificationID uuid.UUID) error {
	if err := validRecipient(recipient); err != nil {
		return err
	}
	if notificationID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification id required")
	}

	result, err := s.repo.MarkRead(ctx, recipient, notificationID, s.now().UTC())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notification read")
	}
	if !result.Found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Notification not found")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, recipient Recipient) (int64, error) {
	if err := validRecipient(recipient); err != nil {
		return 0, err
	}

	count, err := s.repo.MarkAllRead(ctx, recipient, s.now().UTC())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notifications read")
	}
	return count, nil
}
