package middleware

import (
	"net/http"

	"craftfield.org/atelier-web/internal/api"
	"craftfield.org/atelier-web/internal/store"
)

// Identity restores the persisted principal of the current scope into the
// request context so the backend gateway can attach its bearer credential. A
// corrupt persisted entry is erased and the request proceeds anonymously.
func Identity(s store.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			scope := ScopeID(ctx)
			if scope != "" {
				var principal api.Principal
				ok, err := store.ReadJSON(ctx, s, scope, store.KeyPrincipal, &principal)
				if err == nil && ok && principal.ID != "" && principal.Token != "" {
					ctx = WithPrincipal(ctx, &principal)
				}
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
