package logging

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// HTTPMiddleware writes one access line per request. The request ID comes
// from the X-Request-ID header or a fresh UUID, is echoed back, and is bound
// to the logger that downstream handlers get from FromContext.
func HTTPMiddleware(logger *Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)

			reqLogger := &Logger{Logger: logger.With().Str(RequestID, id).Logger()}
			ctx := WithLogger(r.Context(), reqLogger)
			ctx = context.WithValue(ctx, requestIDKey, id)

			sw := &statusWriter{ResponseWriter: w}
			next.ServeHTTP(sw, r.WithContext(ctx))

			level := zerolog.InfoLevel
			if sw.Status() >= http.StatusInternalServerError {
				level = zerolog.ErrorLevel
			}
			reqLogger.WithLevel(level).
				Str(Method, r.Method).
				Str(Path, r.URL.Path).
				Str("remote_addr", r.RemoteAddr).
				Int(StatusCode, sw.Status()).
				Int64(Duration, time.Since(start).Milliseconds()).
				Msg("request completed")
		})
	}
}

// statusWriter remembers the first status code sent to the client.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
		w.ResponseWriter.WriteHeader(code)
	}
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// Status returns the code sent so far, or 200 if the handler wrote nothing.
func (w *statusWriter) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}
