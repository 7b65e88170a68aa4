package cron

import (
	"context"
	"time"

	"github.com/angelmondragon/marketplace-backend/pkg/logger"
)

const otpCleanupAge = 24 * time.Hour

type otpCleanupRepo interface {
	DeleteExpiredOTPs(ctx context.Context, cutoff time.Time) (int64, error)
}

type OTPCleanupJobParams struct {
	Logger     *logger.Logger
	Repository otpCleanupRepo
	// Age is how long past expiry a code is kept.
	Age time.Duration
}

// NewOTPCleanupJob deletes one-time codes that expired more than Age ago.
func NewOTPCleanupJob(params OTPCleanupJobParams) (Job, error) {
	var run sweepFunc
	if params.Repository != nil {
		run = params.Repository.DeleteExpiredOTPs
	}
	return newSweepJob("otp-cleanup", params.Logger, params.Age, otpCleanupAge, run)
}
