// Package middleware provides HTTP middleware for the trip-planning API.
package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-Id"

	// maxRequestIDLength caps ids accepted from upstream proxies; anything
	// longer is replaced with a generated id.
	maxRequestIDLength = 64
)

// requestIDKey is the context key for the request ID.
type requestIDKey struct{}

// RequestID attaches a request id to the context and echoes it in the
// X-Request-Id response header. An id set by an upstream proxy is honored
// unless it is unreasonably long.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = newRequestID()
		}

		w.Header().Set(requestIDHeader, requestID)

		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// newRequestID returns a fresh id in the req_<uuid fragment> form used in
// logs and problem responses.
func newRequestID() string {
	return "req_" + uuid.New().String()[:22]
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}
