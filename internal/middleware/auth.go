package middleware

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const bearerKey contextKey = "bearer_token"

// BearerPassthrough captures the Authorization bearer credential without
// validating it. The token is opaque to this service; downstream callers
// (the remote analyzer) forward it as-is.
func BearerPassthrough(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		if token != "" {
			r = r.WithContext(context.WithValue(r.Context(), bearerKey, token))
		}
		next.ServeHTTP(w, r)
	})
}

// BearerFromContext returns the captured token, or "".
func BearerFromContext(ctx context.Context) string {
	if token, ok := ctx.Value(bearerKey).(string); ok {
		return token
	}
	return ""
}
