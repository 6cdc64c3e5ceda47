package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"genius/internal/domain"
	"genius/internal/httputil"
)

// Recovery turns a handler panic into the generic plain-text 500 the API
// routes use for unexpected failures.
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
				logger.Error("[PANIC]",
					"error", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"user_id", httputil.GetUserID(r),
					"request_id", httputil.GetRequestID(r),
					"stack", string(debug.Stack()),
				)
				httputil.RespondText(w, http.StatusInternalServerError, domain.MsgInternalServerError)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
