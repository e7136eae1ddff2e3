package httpapi

import (
	"context"
	"net/http"
	"strings"

	"example.com/br-admin/internal/auth"
)

type ctxKey string

const serviceKey ctxKey = "service"

// InternalAuth rejects requests that do not carry a valid internal
// service token. Everything behind it runs under internal trust.
func InternalAuth(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") {
				writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
				return
			}
			token := strings.TrimPrefix(h, "Bearer ")

			claims, err := auth.Verify(secret, token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized", "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), serviceKey, claims.Service)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ServiceFromContext names the internal caller, for log lines.
func ServiceFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(serviceKey)
	s, ok := v.(string)
	return s, ok
}
