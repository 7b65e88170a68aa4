package notify

import (
	"context"
	"time"

	"github.com/angelmondragon/marketplace-backend/pkg/logger"
)

// LogSender writes codes to the structured log. Config refuses this channel
// in production.
type LogSender struct {
	logg *logger.Logger
}

func NewLogSender(logg *logger.Logger) *LogSender {
	return &LogSender{logg: logg}
}

func (s *LogSender) SendOTP(ctx context.Context, mobile, code string, ttl time.Duration) error {
	if s.logg == nil {
		return nil
	}
	ctx = s.logg.WithFields(ctx, map[string]any{
		"mobile":      maskMobile(mobile),
		"otp":         code,
		"ttl_seconds": int(ttl.Seconds()),
	})
	s.logg.Info(ctx, "otp dispatched to log channel")
	return nil
}
