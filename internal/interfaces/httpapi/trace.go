package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var apiTracer = otel.Tracer("draft-board/internal/interfaces/httpapi")

// startSpan opens a child span for handler methods only. Requests without a
// parent span (health probes) and helper functions get a no-op span.
func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() || !shouldCreateHTTPAPISpan(name) {
		return ctx, trace.SpanFromContext(context.Background())
	}
	return apiTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func shouldCreateHTTPAPISpan(name string) bool {
	return strings.HasPrefix(name, "httpapi.Handler.")
}

// annotateRequest tags the request span with a parsed identifier.
func annotateRequest(ctx context.Context, key string, value int64) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(attribute.Int64(key, value))
	}
}
