package tracing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Combine-Capital/gqllog/pkg/config"
	cqerrors "github.com/Combine-Capital/gqllog/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// setupExporter installs an in-memory exporter as the global provider.
func setupExporter(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return exporter
}

func TestNewTracerProvider_Disabled(t *testing.T) {
	tp, shutdown, err := NewTracerProvider(context.Background(), config.TracingConfig{Enabled: false}, "test-service")
	if err != nil {
		t.Fatalf("expected no error for disabled tracing, got %v", err)
	}
	defer shutdown(context.Background())

	if tp == nil {
		t.Fatal("expected non-nil tracer provider")
	}
}

func TestNewTracerProvider_InvalidConfig(t *testing.T) {
	tests := []struct {
		name        string
		cfg         config.TracingConfig
		serviceName string
	}{
		{"missing endpoint", config.TracingConfig{Enabled: true}, "test-service"},
		{"missing service name", config.TracingConfig{Enabled: true, Endpoint: "localhost:4317"}, ""},
		{"invalid export mode", config.TracingConfig{Enabled: true, Endpoint: "localhost:4317", ExportMode: "udp"}, "test-service"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := NewTracerProvider(context.Background(), tt.cfg, tt.serviceName)
			if err == nil {
				t.Fatal("expected error")
			}
			if !cqerrors.IsInvalidInput(err) {
				t.Errorf("error = %v, want invalid input", err)
			}
		})
	}
}

func TestNewTracerProvider_HTTPExporter(t *testing.T) {
	cfg := config.TracingConfig{
		Enabled:     true,
		Endpoint:    "localhost:4318",
		ServiceName: "test-service",
		Version:     "1.2.3",
		ExportMode:  "http",
		Insecure:    true,
		SampleRate:  1.0,
	}

	tp, shutdown, err := NewTracerProvider(context.Background(), cfg, "")
	if err != nil {
		t.Fatalf("NewTracerProvider() error = %v", err)
	}
	if tp == nil {
		t.Fatal("expected non-nil tracer provider")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}

func TestSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{0, "ParentBased{root:AlwaysOffSampler"},
		{1, "ParentBased{root:AlwaysOnSampler"},
		{0.5, "ParentBased{root:TraceIDRatioBased{0.5}"},
	}

	for _, tt := range tests {
		got := sampler(tt.rate).Description()
		if len(got) < len(tt.want) || got[:len(tt.want)] != tt.want {
			t.Errorf("sampler(%v) = %v, want prefix %v", tt.rate, got, tt.want)
		}
	}
}

func TestStartSpan(t *testing.T) {
	exporter := setupExporter(t)

	_, span := StartSpan(context.Background(), "graphql.execute")
	span.End()

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name != "graphql.execute" {
		t.Fatalf("expected span name 'graphql.execute', got '%s'", spans[0].Name)
	}
	if spans[0].InstrumentationScope.Name != InstrumentationName {
		t.Errorf("instrumentation = %v, want %v", spans[0].InstrumentationScope.Name, InstrumentationName)
	}
}

func TestTraceIDFromContext(t *testing.T) {
	setupExporter(t)

	if got := TraceIDFromContext(context.Background()); got != "" {
		t.Errorf("TraceIDFromContext(empty) = %v, want empty", got)
	}

	ctx, span := StartSpan(context.Background(), "op")
	defer span.End()

	if got := TraceIDFromContext(ctx); got != span.SpanContext().TraceID().String() {
		t.Errorf("TraceIDFromContext() = %v, want %v", got, span.SpanContext().TraceID())
	}
}

func TestSetSpanAttributes(t *testing.T) {
	exporter := setupExporter(t)

	ctx, span := StartSpan(context.Background(), "op")
	SetSpanAttributes(ctx, GraphQLAttributes(123456789, "Health")...)
	span.End()

	attrs := exporter.GetSpans()[0].Attributes
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attrs))
	}
	if attrs[0].Key != "graphql.query_id" || attrs[0].Value.AsInt64() != 123456789 {
		t.Errorf("attrs[0] = %v, want graphql.query_id=123456789", attrs[0])
	}
	if attrs[1].Key != "graphql.operation.name" || attrs[1].Value.AsString() != "Health" {
		t.Errorf("attrs[1] = %v, want graphql.operation.name=Health", attrs[1])
	}
}

func TestGraphQLAttributesAnonymous(t *testing.T) {
	attrs := GraphQLAttributes(1, "")
	if len(attrs) != 1 {
		t.Errorf("expected only query id attribute, got %v", attrs)
	}
}

func TestSetSpanError(t *testing.T) {
	exporter := setupExporter(t)

	ctx, span := StartSpan(context.Background(), "op")
	SetSpanError(ctx, errors.New("resolver failed"))
	SetSpanError(ctx, nil)
	span.End()

	got := exporter.GetSpans()[0]
	if got.Status.Code != codes.Error {
		t.Fatalf("expected error status, got %v", got.Status.Code)
	}
	if len(got.Events) != 1 {
		t.Fatalf("expected 1 error event, got %d", len(got.Events))
	}
}

func TestAddSpanEvent(t *testing.T) {
	exporter := setupExporter(t)

	ctx, span := StartSpan(context.Background(), "op")
	AddSpanEvent(ctx, "graphql.error", attribute.String("message", "boom"))
	span.End()

	events := exporter.GetSpans()[0].Events
	if len(events) != 1 || events[0].Name != "graphql.error" {
		t.Fatalf("events = %v, want one graphql.error", events)
	}
}

func TestSetSpanName(t *testing.T) {
	exporter := setupExporter(t)

	ctx, span := StartSpan(context.Background(), "POST /api")
	SetSpanName(ctx, "graphql Health")
	span.End()

	if got := exporter.GetSpans()[0].Name; got != "graphql Health" {
		t.Errorf("span name = %q, want %q", got, "graphql Health")
	}
}

func TestHTTPAttributes(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   int
	}{
		{"with status", 200, 4},
		{"before response", 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attrs := HTTPAttributes("POST", "/api", "localhost", tt.status)
			if len(attrs) != tt.want {
				t.Errorf("expected %d attributes, got %d", tt.want, len(attrs))
			}
		})
	}
}

// spanAttr returns the value of key on span, or an invalid value.
func spanAttr(span tracetest.SpanStub, key attribute.Key) attribute.Value {
	for _, attr := range span.Attributes {
		if attr.Key == key {
			return attr.Value
		}
	}
	return attribute.Value{}
}

func TestHTTPMiddleware(t *testing.T) {
	exporter := setupExporter(t)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !trace.SpanFromContext(r.Context()).SpanContext().IsValid() {
			t.Error("expected valid span context in handler")
		}
		w.Write([]byte("ok"))
	})

	rec := httptest.NewRecorder()
	HTTPMiddleware(handler).ServeHTTP(rec, httptest.NewRequest("POST", "/api", nil))

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name != "POST /api" {
		t.Fatalf("expected span name 'POST /api', got '%s'", spans[0].Name)
	}
	if spans[0].SpanKind != trace.SpanKindServer {
		t.Errorf("span kind = %v, want server", spans[0].SpanKind)
	}
	if got := spanAttr(spans[0], "http.response.status_code").AsInt64(); got != 200 {
		t.Fatalf("expected status code 200 in span, got %d", got)
	}
	if got := spanAttr(spans[0], "http.route").AsString(); got != "/api" {
		t.Errorf("http.route = %q, want /api", got)
	}
}

func TestHTTPMiddleware_Error(t *testing.T) {
	exporter := setupExporter(t)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.WriteHeader(http.StatusOK)
	})

	HTTPMiddleware(handler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api", nil))

	span := exporter.GetSpans()[0]
	if span.Status.Code != codes.Error {
		t.Fatalf("expected error status for 5xx response, got %v", span.Status.Code)
	}
	if got := spanAttr(span, "http.response.status_code").AsInt64(); got != 500 {
		t.Errorf("status code = %d, want the first one written", got)
	}
}

func TestHTTPMiddlewareContinuesTrace(t *testing.T) {
	exporter := setupExporter(t)

	parentCtx, parent := StartSpan(context.Background(), "client")
	header := http.Header{}
	otel.GetTextMapPropagator().Inject(parentCtx, propagation.HeaderCarrier(header))
	parent.End()

	req := httptest.NewRequest("POST", "/api", nil)
	req.Header = header
	HTTPMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(httptest.NewRecorder(), req)

	spans := exporter.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	server := spans[1]
	if server.SpanContext.TraceID() != parent.SpanContext().TraceID() {
		t.Error("server span did not continue the client trace")
	}
	if server.Parent.SpanID() != parent.SpanContext().SpanID() {
		t.Error("server span parent is not the client span")
	}
}
