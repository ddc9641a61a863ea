package observe

import (
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// statusRecorder captures the status code written by the downstream handler.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// RouteFunc resolves the route pattern of a served request, so metrics are
// not labelled with raw ids.
type RouteFunc func(*http.Request) string

// Middleware records request duration and logs completion. route may be nil,
// in which case the raw path is used.
func Middleware(m *Metrics, log *slog.Logger, route RouteFunc) func(http.Handler) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rec, r)

			duration := time.Since(start)
			path := r.URL.Path
			if route != nil {
				if p := route(r); p != "" {
					path = p
				}
			}

			if m != nil {
				m.HTTPRequestDuration.Record(r.Context(), duration.Seconds(),
					metric.WithAttributes(
						attribute.String("method", r.Method),
						attribute.String("route", path),
						attribute.Int("status", rec.statusCode),
					),
				)
			}

			log.LogAttrs(r.Context(), slog.LevelInfo, "request completed",
				slog.String("method", r.Method),
				slog.String("route", path),
				slog.Int("status", rec.statusCode),
				slog.Duration("duration", duration),
			)
		})
	}
}
