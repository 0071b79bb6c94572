package utils

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation name used for every span of the service.
const TracerName = "app-pessoas"

// toAttributes converts loosely typed values into OpenTelemetry attributes
func toAttributes(attributes map[string]interface{}) []attribute.KeyValue {
	otelAttrs := make([]attribute.KeyValue, 0, len(attributes))
	for k, v := range attributes {
		otelAttrs = append(otelAttrs, toAttribute(k, v))
	}
	return otelAttrs
}

func toAttribute(key string, value interface{}) attribute.KeyValue {
	switch val := value.(type) {
	case string:
		return attribute.String(key, val)
	case int:
		return attribute.Int(key, val)
	case int64:
		return attribute.Int64(key, val)
	case bool:
		return attribute.Bool(key, val)
	case float64:
		return attribute.Float64(key, val)
	case time.Duration:
		return attribute.String(key, val.String())
	default:
		return attribute.String(key, "unknown_type")
	}
}

// TraceOperation traces an operation with timing and attributes
func TraceOperation(ctx context.Context, operationName string, attributes map[string]interface{}) (context.Context, trace.Span, func()) {
	start := time.Now()

	spanCtx, span := otel.Tracer(TracerName).Start(ctx, operationName, trace.WithAttributes(toAttributes(attributes)...))

	// Return cleanup function that adds timing
	cleanup := func() {
		AddTimingToSpan(span, start)
		span.End()
	}

	return spanCtx, span, cleanup
}

// TraceBackendRequest traces a call to the people backend REST API
func TraceBackendRequest(ctx context.Context, method, path string) (context.Context, trace.Span, func()) {
	return TraceOperation(ctx, "backend."+method, map[string]interface{}{
		"http.method":  method,
		"http.route":   path,
		"peer.service": "people-api",
	})
}

// TraceStep traces a specific step within an endpoint or a form submission
func TraceStep(ctx context.Context, stepName string, attributes map[string]interface{}) (context.Context, trace.Span) {
	stepAttributes := map[string]interface{}{
		"step.name": stepName,
	}
	for k, v := range attributes {
		stepAttributes[k] = v
	}

	return otel.Tracer(TracerName).Start(ctx, "step."+stepName, trace.WithAttributes(toAttributes(stepAttributes)...))
}

// TraceInputValidation traces input validation operations
func TraceInputValidation(ctx context.Context, validationType, field string) (context.Context, trace.Span) {
	return TraceStep(ctx, "validate_input", map[string]interface{}{
		"validation.type":  validationType,
		"validation.field": field,
	})
}

// TraceCacheGet traces cache get operations
func TraceCacheGet(ctx context.Context, cacheKey string) (context.Context, trace.Span) {
	return TraceStep(ctx, "cache_get", map[string]interface{}{
		"cache.key":       cacheKey,
		"cache.operation": "get",
	})
}

// TraceCacheSet traces cache set operations
func TraceCacheSet(ctx context.Context, cacheKey string, ttl time.Duration) (context.Context, trace.Span) {
	return TraceStep(ctx, "cache_set", map[string]interface{}{
		"cache.key":       cacheKey,
		"cache.operation": "set",
		"cache.ttl":       ttl,
	})
}

// TraceBusinessLogic traces business logic operations
func TraceBusinessLogic(ctx context.Context, logicType string) (context.Context, trace.Span) {
	return TraceStep(ctx, "business_logic", map[string]interface{}{
		"logic.type": logicType,
	})
}

// AddTimingToSpan adds timing information to an existing span
func AddTimingToSpan(span trace.Span, startTime time.Time) {
	duration := time.Since(startTime)
	span.SetAttributes(
		attribute.Int64("duration_ms", duration.Milliseconds()),
		attribute.String("duration", duration.String()),
	)
}

// RecordErrorInSpan records an error in a span with additional context
func RecordErrorInSpan(span trace.Span, err error, context map[string]interface{}) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(toAttributes(context)...)
}

// AddSpanAttribute adds a single attribute to a span
func AddSpanAttribute(span trace.Span, key string, value interface{}) {
	span.SetAttributes(toAttribute(key, value))
}
