// Package notify dispatches one-time codes to phones.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/marketplace-backend/pkg/config"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
)

// OTPSender delivers a one-time code out of band. Codes never travel back in
// API responses.
type OTPSender interface {
	SendOTP(ctx context.Context, mobile, code string, ttl time.Duration) error
}

// New returns the sender selected by MARKETPLACE_OTP_CHANNEL.
func New(ctx context.Context, cfg *config.Config, logg *logger.Logger) (OTPSender, error) {
	switch cfg.OTP.Channel {
	case config.OTPChannelLog:
		return NewLogSender(logg), nil
	case config.OTPChannelSNS:
		return NewSNSSender(ctx, cfg.AWS, cfg.OTP.SenderID)
	default:
		return nil, fmt.Errorf("unknown otp channel %q", cfg.OTP.Channel)
	}
}

func message(code string, ttl time.Duration) string {
	return fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, int(ttl.Minutes()))
}

// maskMobile keeps the last four digits.
func maskMobile(mobile string) string {
	if len(mobile) <= 4 {
		return "****"
	}
	masked := make([]byte, len(mobile))
	for i := range mobile {
		if i < len(mobile)-4 {
			masked[i] = '*'
		} else {
			masked[i] = mobile[i]
		}
	}
	return string(masked)
}
