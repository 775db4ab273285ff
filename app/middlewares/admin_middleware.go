package middlewares

import (
	"errors"
	"net/http"

	"github.com/Rakhulsr/catalog-api/app/helpers"
	"github.com/Rakhulsr/catalog-api/app/services"
	"github.com/rs/zerolog"
)

const (
	MsgAuthRequired = "Authentication required"
	MsgInvalidToken = "Invalid or expired token"
)

// TokenVerifier is the part of the token service the middleware needs.
type TokenVerifier interface {
	Verify(token string, kind services.TokenKind) (helpers.Identity, error)
}

// RequireAuth admits requests that carry a valid access token cookie. The
// refresh token is never consulted here; clients call the refresh endpoint.
func RequireAuth(tokens TokenVerifier, resp *helpers.Responder, log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := helpers.GetCookie(r, helpers.AccessTokenCookie)
			if err != nil || token == "" {
				resp.Error(w, r, helpers.NewUnauthorized(MsgAuthRequired))
				return
			}

			identity, err := tokens.Verify(token, services.AccessToken)
			if err != nil {
				if !errors.Is(err, services.ErrTokenExpired) {
					log.Warn().Err(err).Str("path", r.URL.Path).Msg("rejected access token")
				}
				resp.Error(w, r, helpers.NewUnauthorized(MsgInvalidToken))
				return
			}

			next.ServeHTTP(w, r.WithContext(helpers.WithIdentity(r.Context(), identity)))
		})
	}
}
