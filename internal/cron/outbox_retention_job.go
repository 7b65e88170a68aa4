package cron

import (
	"context"
	"time"

	"github.com/angelmondragon/marketplace-backend/pkg/logger"
)

const outboxRetention = 30 * 24 * time.Hour

type outboxRetentionRepo interface {
	DeletePublishedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type OutboxRetentionJobParams struct {
	Logger     *logger.Logger
	Repository outboxRetentionRepo
	Retention  time.Duration
}

// NewOutboxRetentionJob deletes published outbox rows older than Retention.
// Unpublished rows are never touched.
func NewOutboxRetentionJob(params OutboxRetentionJobParams) (Job, error) {
	var run sweepFunc
	if params.Repository != nil {
		run = params.Repository.DeletePublishedBefore
	}
	return newSweepJob("outbox-retention", params.Logger, params.Retention, outboxRetention, run)
}
