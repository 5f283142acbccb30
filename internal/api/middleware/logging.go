package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// LoggingConfig configures the structured request logger.
type LoggingConfig struct {
	Logger        *slog.Logger
	SlowThreshold time.Duration
	SkipPaths     []string
}

// DefaultLoggingConfig returns the default logging configuration.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Logger:        slog.Default(),
		SlowThreshold: 500 * time.Millisecond,
		SkipPaths:     []string{"/health", "/healthz", "/metrics"},
	}
}

// StructuredLogger logs each request with its ID, status and latency; requests
// over the slow threshold log at WARN.
func StructuredLogger(config LoggingConfig) func(http.Handler) http.Handler {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.SlowThreshold == 0 {
		config.SlowThreshold = 500 * time.Millisecond
	}

	skipPathMap := make(map[string]bool)
	for _, p := range config.SkipPaths {
		skipPathMap[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skipPathMap[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			requestID := chiMiddleware.GetReqID(r.Context())
			wrapped := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(wrapped, r)

			elapsed := time.Since(start)
			attrs := []any{
				"request_id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.Status(),
				"bytes", wrapped.BytesWritten(),
				"elapsed", elapsed,
				"remote", r.RemoteAddr,
			}
			if elapsed >= config.SlowThreshold {
				config.Logger.Warn("slow request", attrs...)
				return
			}
			config.Logger.Info("request", attrs...)
		})
	}
}
