package middleware

import (
	"net/http"

	"golang.org/x/time/rate"

	"github.com/angelmondragon/marketplace-backend/api/responses"
	"github.com/angelmondragon/marketplace-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
	"github.com/angelmondragon/marketplace-backend/pkg/ratelimit"
)

// RateLimit applies an in-process token bucket per client IP. A zero rate
// disables it.
func RateLimit(cfg config.APIRateLimitConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if cfg.RequestsPerSecond <= 0 {
			return next
		}
		limiter := ratelimit.NewKeyed[string](rate.Limit(cfg.RequestsPerSecond), cfg.Burst)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !limiter.Allow(ip) {
				if logg != nil {
					logg.Warn(logg.WithField(r.Context(), "ip", ip), "api.rate_limit.blocked")
				}
				responses.WriteError(r.Context(), nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many requests"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
