// Package requestlog provides an http.Handler middleware that tags each
// request with an id for log correlation and records the outcome.
package requestlog

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	slogctx "github.com/veqryn/slog-context"
)

// statusRecorder captures the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Middleware injects a request id into the logging context and logs method,
// path, status and duration once the handler returns.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := slogctx.With(r.Context(), "request_id", uuid.NewString())

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r.WithContext(ctx))

		slogctx.Info(ctx, "Handled request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
