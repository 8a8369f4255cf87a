package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"drive/internal/metrics"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	n, err := s.ResponseWriter.Write(b)
	s.bytes += n
	return n, err
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// Instrument records request metrics and an access log line for everything
// next does, including auth rejections and recovered panics. The route label
// comes from mux, since r.Pattern is only set on the request mux dispatches.
func Instrument(logger *slog.Logger, mux *http.ServeMux) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			instrument(logger, mux, next, w, r)
		})
	}
}

func instrument(logger *slog.Logger, mux *http.ServeMux, next http.Handler, w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w}

	_, pattern := mux.Handler(r)
	next.ServeHTTP(rec, r)

	if rec.status == 0 {
		rec.status = http.StatusOK
	}
	route := pattern
	if route == "" {
		route = "unmatched"
	}
	elapsed := time.Since(start)
	metrics.RecordHTTPRequest(r.Method, route, rec.status, elapsed)

	level := slog.LevelInfo
	if rec.status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	logger.Log(r.Context(), level, "request",
		"method", r.Method,
		"path", r.URL.Path,
		"route", route,
		"status", rec.status,
		"bytes", rec.bytes,
		"duration_ms", elapsed.Milliseconds(),
	)
}
