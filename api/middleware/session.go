package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/leafline-ai/leafline-backend/pkg/config"
	"github.com/leafline-ai/leafline-backend/pkg/logger"
)

// SessionCookieName carries the anonymous session identifier. It is a plain
// uuid, not a credential: it only partitions carts and orders per browser.
const SessionCookieName = "sid"

// Session reads or mints the anonymous session id and injects it into the
// request context. Every request downstream of this middleware has one.
func Session(cfg *config.Config, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := ""
			if cookie, err := r.Cookie(SessionCookieName); err == nil {
				if _, parseErr := uuid.Parse(cookie.Value); parseErr == nil {
					sessionID = cookie.Value
				}
			}

			if sessionID == "" {
				sessionID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookieName,
					Value:    sessionID,
					Path:     "/",
					HttpOnly: true,
					Secure:   cfg.App.IsProd(),
					SameSite: http.SameSiteLaxMode,
					MaxAge:   int(cfg.Session.TTL.Seconds()),
				})
			}

			ctx := WithSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
