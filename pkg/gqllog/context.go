package gqllog

import (
	"context"
)

type contextKey string

const queryContextKey = contextKey("gqllog.query_context")

// WithQueryContext attaches qc to ctx. Callers attach one fresh QueryContext per
// request before handing it to the GraphQL server.
func WithQueryContext(ctx context.Context, qc *QueryContext) context.Context {
	return context.WithValue(ctx, queryContextKey, qc)
}

// QueryContextFrom returns the QueryContext attached to ctx, if any.
func QueryContextFrom(ctx context.Context) (*QueryContext, bool) {
	qc, ok := ctx.Value(queryContextKey).(*QueryContext)
	if !ok || qc == nil {
		return nil, false
	}
	return qc, true
}
