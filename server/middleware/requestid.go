package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/kbukum/dirge/logger"
	"github.com/kbukum/dirge/validation"
)

// HeaderRequestID carries the request id on requests and responses.
const HeaderRequestID = "X-Request-Id"

// RequestID makes sure every request carries a UUID request id. A valid
// incoming id is kept; a missing or malformed one is replaced. The id is
// echoed on the response and stored in the request context for logging.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(HeaderRequestID)
			if _, err := validation.ValidateUUID("request_id", id); err != nil {
				id = uuid.New().String()
				r.Header.Set(HeaderRequestID, id)
			}
			w.Header().Set(HeaderRequestID, id)
			next.ServeHTTP(w, r.WithContext(logger.ContextWithRequestID(r.Context(), id)))
		})
	}
}
