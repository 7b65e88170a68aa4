package cron

import (
	"context"
	"time"

	"github.com/angelmondragon/marketplace-backend/pkg/logger"
)

const partnerStaleAfter = 30 * time.Minute

type partnerSweepRepo interface {
	MarkStaleOffline(ctx context.Context, cutoff time.Time) (int64, error)
}

type PartnerOfflineJobParams struct {
	Logger     *logger.Logger
	Repository partnerSweepRepo
	StaleAfter time.Duration
}

// NewPartnerOfflineJob takes online partners offline once their last
// location ping is older than StaleAfter.
func NewPartnerOfflineJob(params PartnerOfflineJobParams) (Job, error) {
	var run sweepFunc
	if params.Repository != nil {
		run = params.Repository.MarkStaleOffline
	}
	return newSweepJob("partner-offline-sweep", params.Logger, params.StaleAfter, partnerStaleAfter, run)
}
