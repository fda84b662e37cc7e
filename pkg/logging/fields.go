// Package logging provides structured logging with zerolog for gqllog and the
// services that host it. It supports configurable levels, JSON or console output,
// rotated file output, and request-scoped loggers carried in context.Context.
//
// Example usage:
//
//	logger := logging.New(config.LogConfig{Level: "info", Format: "json"})
//	logger.Info().Str(logging.Path, "/api").Msg("graphql endpoint mounted")
package logging

// Standard field names shared by every log line in the module.
const (
	// TraceID is the distributed trace ID (W3C trace context).
	TraceID = "trace_id"

	// RequestID is the HTTP request ID.
	RequestID = "request_id"

	// Method is the HTTP method.
	Method = "method"

	// Path is the HTTP path.
	Path = "path"

	// StatusCode is the HTTP status code.
	StatusCode = "status_code"

	// Duration is an operation duration in milliseconds.
	Duration = "duration_ms"

	// Component is the source/category label of a log line.
	Component = "target"

	// QueryID is the per-request GraphQL correlation id.
	QueryID = "query_id"

	// OperationName is the GraphQL operation name, when the client sent one.
	OperationName = "operation_name"
)
