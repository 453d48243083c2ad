package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/DeepBDE-Console/internal/infrastructure/monitoring/prometheus"
)

// Metrics records request counts and durations.  Requests are labelled with
// the matched chi route pattern so path parameters do not explode the label
// space; unmatched requests share the "unmatched" label.
func Metrics(metrics *prometheus.AppMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if metrics == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := wrap(w, r)
			next.ServeHTTP(ww, r)

			pattern := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					pattern = p
				}
			}
			prometheus.RecordHTTPRequest(metrics, r.Method, pattern, status(ww), time.Since(start))
		})
	}
}

//Personal.AI order the ending
