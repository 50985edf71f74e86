package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/kbukum/dirge/errors"
	"github.com/kbukum/dirge/logger"
)

// Recovery returns middleware that recovers from handler panics, logs the
// stack and answers with an INTERNAL_ERROR body.
func Recovery(log *logger.Logger) Middleware {
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
				log.Error("Panic recovered", logger.Fields(
					logger.FieldError, fmt.Sprintf("%v", rec),
					"stack", string(debug.Stack()),
					"path", r.URL.Path,
					"method", r.Method,
					logger.FieldRequestID, r.Header.Get(HeaderRequestID),
				))
				appErr := errors.Internal(fmt.Errorf("panic: %v", rec))
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(appErr.HTTPStatus)
				_ = json.NewEncoder(w).Encode(appErr.ToResponse())
			}()
			next.ServeHTTP(w, r)
		})
	}
}
