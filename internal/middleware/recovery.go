package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"drive/internal/httputil"
)

// Recovery turns a handler panic into a 500 problem response. It sits inside
// Instrument so the failed request still shows in the access log and metrics.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				owner, _ := httputil.OwnerFrom(r.Context())
				logger.Error("panic recovered",
					"error", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"owner_id", owner,
					"stack", string(debug.Stack()),
				)
				httputil.RespondError(w, http.StatusInternalServerError, httputil.CodeInternal, "internal server error")
			}()

			next.ServeHTTP(w, r)
		})
	}
}
