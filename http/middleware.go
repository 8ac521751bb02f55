package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"loan-simulator/logging"
)

const (
	HeaderRequestID    = "X-Request-ID"
	headerForwardedFor = "X-Forwarded-For"
	maxRequestIDLength = 64
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// RequestLogger tags each request with an id, attaches a request-scoped
// logger to the context and writes one access log line when it completes.
func RequestLogger(logger *logging.Logger, clients *ClientIPResolver, next http.Handler) http.Handler {
	httpLogger := logger.WithComponent(logging.ComponentHTTP)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, requestID)

		reqLogger := httpLogger.With(logging.FieldRequestID, requestID)
		ctx := logging.NewContext(r.Context(), reqLogger)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		level := slog.LevelInfo
		switch {
		case rec.status >= 500:
			level = slog.LevelError
		case rec.status >= 400:
			level = slog.LevelWarn
		}
		reqLogger.Log(ctx, level, "HTTP request completed",
			logging.FieldComponent, logging.ComponentHTTP,
			logging.FieldMethod, r.Method,
			logging.FieldPath, r.URL.Path,
			logging.FieldStatusCode, rec.status,
			logging.FieldDuration, time.Since(start).Milliseconds(),
			logging.FieldClientIP, clients.ClientIP(r))
	})
}
