package middleware

import (
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/errkit/logger"
	"github.com/kbukum/errkit/observability"
)

// RequestLogger opens the request span, logs every request by status class,
// and records request metrics. Health and info endpoints are not logged.
// metrics may be nil.
func RequestLogger(log *logger.Logger, metrics *observability.Metrics) Middleware {
	if log == nil {
		log = logger.Nop()
	}
	log = log.WithComponent("http")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isHealthEndpoint(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			ctx, span := observability.StartSpan(r.Context(), observability.SpanHTTPRequest,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String(observability.AttrHTTPMethod, r.Method),
					attribute.String(observability.AttrRequestID, r.Header.Get(HeaderRequestID)),
				),
			)
			defer span.End()

			sw := newStatusWriter(w)
			r = r.WithContext(ctx)
			next.ServeHTTP(sw, r)
			duration := time.Since(start)

			span.SetAttributes(attribute.Int(observability.AttrHTTPStatus, sw.status))
			metrics.RecordRequest(ctx, r.Method, routeOf(r), sw.status, duration)

			fields := logger.Fields(
				logger.FieldMethod, r.Method,
				logger.FieldPath, r.URL.Path,
				logger.FieldStatus, sw.status,
				logger.FieldDuration, duration.Milliseconds(),
			)
			if id := r.Header.Get(HeaderRequestID); id != "" {
				fields[logger.FieldRequestID] = id
			}
			logByStatus(log, fields, sw.status)
		})
	}
}

// routeOf returns the ServeMux pattern that matched, which keeps the metric
// label bounded.
func routeOf(r *http.Request) string {
	if r.Pattern != "" {
		return r.Pattern
	}
	return "unmatched"
}

var healthPaths = map[string]bool{
	"/health": true,
	"/info":   true,
}

func isHealthEndpoint(path string) bool {
	return healthPaths[strings.TrimPrefix(path, "/api")]
}

func logByStatus(log *logger.Logger, fields map[string]interface{}, status int) {
	switch {
	case status >= 500:
		log.Error("request completed", fields)
	case status >= 400:
		log.Warn("request completed", fields)
	default:
		log.Debug("request completed", fields)
	}
}
