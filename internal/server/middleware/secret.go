// Package middleware provides HTTP middleware for authenticating webhook
// callers.
package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
)

// ContextKey is a typed key for context values.
type ContextKey string

const callerKey ContextKey = "caller"

// SecretHeader carries the shared webhook secret.
const SecretHeader = "X-Webhook-Secret"

// RequireSecret rejects requests that do not present secret, either in the
// X-Webhook-Secret header or as a Bearer token. An empty secret disables
// the check.
func RequireSecret(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented := strings.TrimSpace(r.Header.Get(SecretHeader))
			via := "header"
			if presented == "" {
				presented = bearer(r.Header.Get("Authorization"))
				via = "bearer"
			}
			if presented == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(secret)) != 1 {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), callerKey, via)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AuthenticatedVia reports how the request proved the secret: "header",
// "bearer", or "" when no check ran.
func AuthenticatedVia(r *http.Request) string {
	via, _ := r.Context().Value(callerKey).(string)
	return via
}

func bearer(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
