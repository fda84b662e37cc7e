// Package gqllog logs the lifecycle of GraphQL queries served by gqlgen.
//
// Every request carries a QueryContext with a random correlation id. The
// Extension hooks into validation, parsing and execution and writes plain
// formatted lines tagged with that id:
//
//	[QueryID: 123456789] Validation is failed with reason: Cannot query field "x" on type "Query".
//	[QueryID: 123456789] query { health }
//	[QueryID: 123456789] [Error] resolver failed
//	[QueryID: 123456789] Response: {"health":true}
//	[QueryID: 123456789] Duration: 42ms
//
// Introspection queries (a top-level __schema field in a query operation) are
// not logged at parse or execution time.
//
// Example usage:
//
//	logger := logging.New(cfg.Log)
//	srv := handler.New(executableSchema)
//	srv.AddTransport(transport.POST{})
//	srv.Use(gqllog.New(logger))
//	http.Handle("/api", gqllog.HTTPMiddleware(srv))
//
// Requests that do not carry a QueryContext pass through without any logging.
package gqllog
