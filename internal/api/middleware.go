package api

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Jonniie/memoirly/internal/api/respond"
	"github.com/Jonniie/memoirly/internal/identity"
)

// RequireOwner resolves the bearer token to an owner and stores it in the
// request context. Handlers behind it read the owner with identity.FromContext
// and never touch tokens themselves.
func RequireOwner(provider identity.Provider, log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := identity.TokenFromRequest(r)
			if err != nil {
				respond.WriteUnauthorized(w, err.Error())
				return
			}
			owner, err := provider.Resolve(r.Context(), token)
			if err != nil {
				log.Debug().Err(err).Str("path", r.URL.Path).Msg("token rejected")
				respond.WriteUnauthorized(w, "unknown token")
				return
			}
			next.ServeHTTP(w, r.WithContext(identity.WithOwner(r.Context(), owner)))
		})
	}
}

// ownerID pulls the authenticated owner out of the context; the middleware
// guarantees it is present on protected routes.
func ownerID(r *http.Request) (string, bool) {
	o, ok := identity.FromContext(r.Context())
	if !ok {
		return "", false
	}
	return o.OwnerID, true
}
