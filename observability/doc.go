// Package observability provides OpenTelemetry tracing and metrics for errkit
// services.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("my-service"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanHTTPRequest)
//	defer span.End()
//
// Metrics:
//
//	metrics, err := observability.NewMetrics(observability.Meter("my-service"))
//	metrics.RecordResolved(ctx, "NOT_FOUND", 404)
//
// Component wires both providers into the service lifecycle.
package observability
