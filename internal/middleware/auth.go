package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/vasapolrittideah/backoffice-api/shared/auth"
	"github.com/vasapolrittideah/backoffice-api/shared/httputil"
)

type contextKey struct{ name string }

var claimsContextKey = contextKey{name: "access-claims"}

// ClaimsFromContext returns the access claims stored by Authenticate, or nil
// when the request was not authenticated.
func ClaimsFromContext(ctx context.Context) *auth.AccessClaims {
	claims, _ := ctx.Value(claimsContextKey).(*auth.AccessClaims)
	return claims
}

// ContextWithClaims stores access claims on the context. Exported for handler
// tests that bypass the middleware.
func ContextWithClaims(ctx context.Context, claims *auth.AccessClaims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// Authenticate validates the bearer token and stores its claims on the
// request context. Requests without a valid token get a 401.
func Authenticate(jwtAuth auth.JWTAuthenticator, secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenString == "" {
				httputil.Message(w, http.StatusUnauthorized, "missing or malformed authorization header")
				return
			}

			claims := &auth.AccessClaims{}
			if _, err := jwtAuth.ValidateTokenWithClaims(tokenString, secret, claims); err != nil {
				httputil.Message(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
		})
	}
}
