package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey struct{}

// requestIDHeader is the response header carrying the per-invocation ID.
const requestIDHeader = "X-Request-Id"

// RequestID returns middleware that assigns every request a UUID, stores it
// in the request context, and echoes it in the response headers so operator
// logs can be correlated with a specific invocation.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := uuid.NewString()
			w.Header().Set(requestIDHeader, id)

			ctx := context.WithValue(r.Context(), contextKey{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext returns the request ID stored by RequestID, or "" when the
// context does not carry one.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}
