package middleware

import (
	"net/http"
	"strconv"
	"time"

	"judgeboard/internal/metrics"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// RequestDuration records per-request latency with the final status code.
func RequestDuration(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		metrics.APIRequestDuration.WithLabelValues(
			r.URL.Path,
			r.Method,
			strconv.Itoa(ww.Status()),
		).Observe(time.Since(start).Seconds())
	})
}
