package logger

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
)

// StructuredLogger is a chi middleware that logs each request with slog,
// capturing status and bytes written via chi's response writer wrapper.
func StructuredLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			// Request ID comes from the RequestID middleware, which must run first.
			reqID := middleware.GetReqID(r.Context())

			requestLogger := logger.With(
				slog.String("req_id", reqID),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("user_agent", r.UserAgent()),
				slog.String("proto", r.Proto),
			)

			requestLogger.InfoContext(r.Context(), "Request started")

			next.ServeHTTP(ww, r)

			requestLogger.InfoContext(r.Context(), "Request completed",
				slog.Int("status", ww.Status()),
				slog.Int("bytes_written", ww.BytesWritten()),
				slog.Duration("latency", time.Since(start)),
				slog.String("latency_human", time.Since(start).String()),
			)
		})
	}
}
