package controllers

import (
	"net/http"
	"time"

	"github.com/leafline-ai/leafline-backend/api/middleware"
	"github.com/leafline-ai/leafline-backend/api/responses"
	"github.com/leafline-ai/leafline-backend/api/validators"
	"github.com/leafline-ai/leafline-backend/internal/policy"
	"github.com/leafline-ai/leafline-backend/pkg/auth"
	"github.com/leafline-ai/leafline-backend/pkg/config"
	pkgerrors "github.com/leafline-ai/leafline-backend/pkg/errors"
	"github.com/leafline-ai/leafline-backend/pkg/logger"
)

type verifyAgeRequest struct {
	DateOfBirth string `json:"date_of_birth" validate:"required"`
}

// VerifyAge checks the asserted date of birth against the policy minimum
// and, when it passes, sets the signed token cookie carrying the verified
// flag. The claim is self-asserted; there is no document check in this flow.
func VerifyAge(cfg *config.Config, pol *policy.Policy, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload verifyAgeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dob, err := time.Parse("2006-01-02", payload.DateOfBirth)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "date_of_birth must be YYYY-MM-DD"))
			return
		}

		now := time.Now().UTC()
		if yearsBetween(dob, now) < pol.MinimumAge() {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeAgeVerification, "minimum age requirement not met").
					WithDetails(map[string]any{"minimum_age": pol.MinimumAge()}))
			return
		}

		token, err := auth.MintAgeToken(cfg.Session, now, true)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting session token"))
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     middleware.AgeTokenCookieName,
			Value:    token,
			Path:     "/",
			HttpOnly: true,
			Secure:   cfg.App.IsProd(),
			SameSite: http.SameSiteLaxMode,
			MaxAge:   int(cfg.Session.TTL.Seconds()),
		})

		responses.WriteSuccess(w, map[string]any{"age_verified_21": true})
	}
}

// AuthStatus reports the verification flag for the current request.
func AuthStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{
			"age_verified_21": middleware.AgeVerifiedFromContext(r.Context()),
		})
	}
}

func yearsBetween(from, to time.Time) int {
	years := to.Year() - from.Year()
	anniversary := from.AddDate(years, 0, 0)
	if anniversary.After(to) {
		years--
	}
	return years
}
