package middleware

import (
	"net/http"
	"time"

	"github.com/angelmondragon/marketplace-backend/pkg/metrics"
)

// Metrics records every request under its chi route pattern. The pattern is
// read after the handler runs because chi fills it in while routing.
func Metrics(m *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()
			next.ServeHTTP(rec, r)

			route := routePattern(r)
			if route == r.URL.Path && rec.code() == http.StatusNotFound {
				route = "unmatched"
			}
			m.Observe(route, r.Method, rec.code(), time.Since(start))
		})
	}
}
