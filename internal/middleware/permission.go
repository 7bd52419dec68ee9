package middleware

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/vasapolrittideah/backoffice-api/shared/httputil"
)

// RequirePermission gates a route on one capability from the token's
// permission snapshot. Grants made after the token was minted do not apply
// until the next login.
func RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil {
				httputil.Message(w, http.StatusUnauthorized, "missing or malformed authorization header")
				return
			}

			if !slices.Contains(claims.Permissions, permission) {
				httputil.Message(w, http.StatusForbidden, fmt.Sprintf("missing required permission: %s", permission))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
