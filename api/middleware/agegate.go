package middleware

import (
	"net/http"

	"github.com/leafline-ai/leafline-backend/pkg/auth"
	"github.com/leafline-ai/leafline-backend/pkg/config"
	"github.com/leafline-ai/leafline-backend/pkg/logger"
)

// AgeTokenCookieName carries the signed age-verification token. Distinct
// from the sid cookie: losing this one only costs the verified flag, the
// cart stays attached to sid.
const AgeTokenCookieName = "session"

// AgeGate parses the signed token cookie and stamps the verified flag into
// the context. A missing, expired or tampered token is not an error here;
// the request simply proceeds unverified and the guarded handlers refuse it.
func AgeGate(cfg *config.Config, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			verified := false

			if cookie, err := r.Cookie(AgeTokenCookieName); err == nil && cookie.Value != "" {
				claims, parseErr := auth.ParseAgeToken(cfg.Session, cookie.Value)
				if parseErr == nil {
					verified = claims.AgeVerified21
				} else if logg != nil {
					logg.Debug(r.Context(), "age token rejected: "+parseErr.Error())
				}
			}

			ctx := WithAgeVerified(r.Context(), verified)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
