package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"useraccounts/internal/apperr"
	"useraccounts/internal/auth"
	"useraccounts/shared/go/logging"
)

type identityKey struct{}

// Authorizer turns an Authorization header into a confirmed identity.
type Authorizer interface {
	Authorize(ctx context.Context, header string) (auth.Identity, error)
}

// RequireAuth rejects requests without a valid session token with 401 and
// otherwise makes the identity available through IdentityFrom.
func RequireAuth(authorizer Authorizer, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := authorizer.Authorize(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				status := http.StatusUnauthorized
				log := logging.Scoped(logger, r.Context())
				event := log.Debug()
				if apperr.KindOf(err) != apperr.Auth {
					// the token was fine but the store could not confirm it
					status = http.StatusInternalServerError
					event = log.Error()
				}
				event.Err(err).Str("path", r.URL.Path).Msg("request not authorized")

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(status)
				_ = json.NewEncoder(w).Encode(struct {
					Error string `json:"error"`
				}{Error: apperr.Message(err)})
				return
			}

			ctx := context.WithValue(r.Context(), identityKey{}, id)
			ctx = context.WithValue(ctx, logging.UserIDKey, id.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFrom returns the identity stored by RequireAuth.
func IdentityFrom(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(auth.Identity)
	return id, ok
}
