package transport

import (
	"net/http"
	"strings"

	"github.com/rpggio/todos/internal/identity"
)

// AuthMiddleware enforces bearer token authentication and stores the
// resolved identity on the request context.
func AuthMiddleware(resolver identity.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if token == "" {
				writeMessage(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			id, err := resolver.Resolve(r.Context(), token)
			if err != nil || id.UserID == "" {
				writeMessage(w, http.StatusUnauthorized, "invalid bearer token")
				return
			}

			ctx := identity.WithIdentity(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
