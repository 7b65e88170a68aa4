package cron

import (
	"context"
	"time"

	"github.com/angelmondragon/marketplace-backend/pkg/logger"
)

const notificationRetention = 90 * 24 * time.Hour

type notificationsCleanupRepo interface {
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type NotificationCleanupJobParams struct {
	Logger     *logger.Logger
	Repository notificationsCleanupRepo
	Retention  time.Duration
}

// NewNotificationCleanupJob deletes notifications read more than Retention ago.
func NewNotificationCleanupJob(params NotificationCleanupJobParams) (Job, error) {
	var run sweepFunc
	if params.Repository != nil {
		run = params.Repository.DeleteReadBefore
	}
	return newSweepJob("notification-cleanup", params.Logger, params.Retention, notificationRetention, run)
}
