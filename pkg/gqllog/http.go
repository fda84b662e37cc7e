package gqllog

import (
	"net/http"
)

// HTTPMiddleware attaches a new QueryContext to every request.
//
//	mux.Handle("/api", gqllog.HTTPMiddleware(srv))
func HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithQueryContext(r.Context(), NewQueryContext())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
