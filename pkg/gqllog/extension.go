package gqllog

import (
	"context"
	"time"

	"github.com/99designs/gqlgen/graphql"
	"github.com/Combine-Capital/gqllog/pkg/config"
	"github.com/Combine-Capital/gqllog/pkg/logging"
	"github.com/Combine-Capital/gqllog/pkg/tracing"
	"github.com/rs/zerolog"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"go.opentelemetry.io/otel/attribute"
)

// Recorder receives per-query measurements. metrics.GraphQLRecorder implements it.
type Recorder interface {
	ObserveValidationFailures(n int)
	ObserveExecution(operation string, d time.Duration, errCount int)
}

// Extension logs validation failures, parsed queries, execution errors,
// response data and durations for requests that carry a QueryContext.
// It holds no per-request state and is safe for concurrent use.
type Extension struct {
	logger      *logging.Logger
	target      string
	stringifier Stringifier
	recorder    Recorder
	redact      []string
}

// Option configures an Extension.
type Option func(*Extension)

// WithTarget sets the target field written on every line. Defaults to "gql_logger".
func WithTarget(target string) Option {
	return func(e *Extension) {
		e.target = target
	}
}

// WithStringifier replaces the document printer used for parse-time lines.
func WithStringifier(s Stringifier) Option {
	return func(e *Extension) {
		e.stringifier = s
	}
}

// WithMetrics reports validation failures and executions to r.
func WithMetrics(r Recorder) Option {
	return func(e *Extension) {
		e.recorder = r
	}
}

// WithRedactedVariables masks the named variables in parse-time lines. It has no
// effect when WithStringifier is also given.
func WithRedactedVariables(names ...string) Option {
	return func(e *Extension) {
		e.redact = append(e.redact, names...)
	}
}

// New creates the logging extension. A nil logger logs JSON to stdout.
func New(logger *logging.Logger, opts ...Option) *Extension {
	e := &Extension{target: config.DefaultLogTarget}
	for _, opt := range opts {
		opt(e)
	}

	if logger == nil {
		logger = logging.New(config.LogConfig{Level: "info"})
	}
	e.logger = logger.WithComponent(e.target)

	if e.stringifier == nil {
		e.stringifier = NewDocumentStringifier(e.redact...)
	}
	return e
}

// Validation runs next and logs one line per validation error.
// The result of next is returned unchanged.
func (e *Extension) Validation(ctx context.Context, next func(ctx context.Context) gqlerror.List) gqlerror.List {
	errs := next(ctx)
	if len(errs) == 0 {
		return errs
	}

	qc, ok := QueryContextFrom(ctx)
	if !ok {
		return errs
	}

	for _, err := range errs {
		e.event(ctx, e.logger.Info(), qc).
			Msgf("[QueryID: %d] Validation is failed with reason: %s", qc.ID(), err.Message)
	}
	if e.recorder != nil {
		e.recorder.ObserveValidationFailures(len(errs))
	}
	return errs
}

// ParseQuery runs next, records whether the document is an introspection query
// and logs the document unless it is one. Parse errors are returned as is.
func (e *Extension) ParseQuery(
	ctx context.Context,
	query string,
	variables map[string]any,
	next func(ctx context.Context, query string, variables map[string]any) (*ast.QueryDocument, error),
) (*ast.QueryDocument, error) {
	doc, err := next(ctx, query, variables)
	if err != nil {
		return doc, err
	}

	qc, ok := QueryContextFrom(ctx)
	if !ok {
		return doc, nil
	}

	isSchema := IsSchemaQuery(doc)
	qc.markParsed(isSchema)
	if isSchema {
		return doc, nil
	}

	e.event(ctx, e.logger.Info(), qc).
		Msgf("[QueryID: %d] %s", qc.ID(), e.stringifier.Stringify(doc, variables))
	return doc, nil
}

// Execute runs next and logs the response errors, data and elapsed time since
// the request arrived. Nothing is logged for introspection queries. The
// response from next is returned untouched.
func (e *Extension) Execute(ctx context.Context, operationName string, next func(ctx context.Context) *graphql.Response) *graphql.Response {
	resp := next(ctx)

	qc, ok := QueryContextFrom(ctx)
	if !ok {
		return resp
	}

	isSchema, start := qc.snapshot()
	if isSchema {
		return resp
	}
	id := qc.ID()

	var errs gqlerror.List
	if resp != nil {
		errs = resp.Errors
	}
	for _, err := range errs {
		e.event(ctx, e.logger.Info(), qc).Msgf("[QueryID: %d] [Error] %s", id, err.Message)
		tracing.AddSpanEvent(ctx, "graphql.error", attribute.String("graphql.error.message", err.Message))
	}

	if len(errs) > 0 {
		tracing.SetSpanError(ctx, errs)
	}

	duration := time.Since(start)
	tracing.SetSpanName(ctx, spanName(operationName))
	tracing.SetSpanAttributes(ctx, tracing.GraphQLAttributes(id, operationName)...)

	e.event(ctx, e.logger.Debug(), qc).Msgf("[QueryID: %d] Response: %s", id, responseData(resp))
	ev := e.event(ctx, e.logger.Info(), qc).Int64(logging.Duration, duration.Milliseconds())
	if operationName != "" {
		ev = ev.Str(logging.OperationName, operationName)
	}
	ev.Msgf("[QueryID: %d] Duration: %dms", id, duration.Milliseconds())

	if e.recorder != nil {
		e.recorder.ObserveExecution(operationName, duration, len(errs))
	}
	return resp
}

// event adds the query id and, when a span is active, the trace id.
func (e *Extension) event(ctx context.Context, ev *zerolog.Event, qc *QueryContext) *zerolog.Event {
	ev = ev.Uint64(logging.QueryID, qc.ID())
	if traceID := tracing.TraceIDFromContext(ctx); traceID != "" {
		ev = ev.Str(logging.TraceID, traceID)
	}
	return ev
}

// spanName names the request span after the GraphQL operation.
func spanName(operationName string) string {
	if operationName == "" {
		return "graphql"
	}
	return "graphql " + operationName
}

func responseData(resp *graphql.Response) string {
	if resp == nil || len(resp.Data) == 0 {
		return "null"
	}
	return string(resp.Data)
}
