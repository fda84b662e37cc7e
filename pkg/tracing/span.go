package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName is the tracer name used by this module.
const InstrumentationName = "github.com/Combine-Capital/gqllog"

func tracer() trace.Tracer {
	return otel.Tracer(InstrumentationName)
}

// StartSpan starts a span as a child of the span in ctx.
//
//	ctx, span := tracing.StartSpan(ctx, "graphql.execute")
//	defer span.End()
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return tracer().Start(ctx, name, opts...)
}

// TraceIDFromContext returns the hex trace ID of the active span, or "" when
// there is no valid span.
func TraceIDFromContext(ctx context.Context) string {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		return sc.TraceID().String()
	}
	return ""
}

// SetSpanName renames the span in ctx.
func SetSpanName(ctx context.Context, name string) {
	trace.SpanFromContext(ctx).SetName(name)
}

// SetSpanAttributes adds attributes to the span in ctx.
func SetSpanAttributes(ctx context.Context, attrs ...attribute.KeyValue) {
	trace.SpanFromContext(ctx).SetAttributes(attrs...)
}

// SetSpanError records err on the span in ctx and marks it failed.
// A nil err is ignored.
func SetSpanError(ctx context.Context, err error) {
	if err == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// AddSpanEvent adds a timestamped event to the span in ctx.
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	trace.SpanFromContext(ctx).AddEvent(name, trace.WithAttributes(attrs...))
}

// HTTPAttributes describes a served request. A zero status is left out.
func HTTPAttributes(method, route, host string, status int) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		semconv.HTTPRequestMethodKey.String(method),
		semconv.HTTPRoute(route),
		semconv.ServerAddress(host),
	}
	if status != 0 {
		attrs = append(attrs, semconv.HTTPResponseStatusCode(status))
	}
	return attrs
}

// GraphQLAttributes returns the attributes set by the query logger.
func GraphQLAttributes(queryID uint64, operationName string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.Int64("graphql.query_id", int64(queryID)),
	}
	if operationName != "" {
		attrs = append(attrs, semconv.GraphqlOperationName(operationName))
	}
	return attrs
}
