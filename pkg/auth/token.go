package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/leafline-ai/leafline-backend/pkg/config"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// AgeTokenClaims carries the single boolean the signed session token exists
// for. The unsigned sid cookie is handled elsewhere; the two are never merged.
type AgeTokenClaims struct {
	AgeVerified21 bool `json:"age_verified_21"`
	jwt.RegisteredClaims
}

// MintAgeToken issues a signed session token with the verification flag set.
func MintAgeToken(cfg config.SessionConfig, now time.Time, verified bool) (string, error) {
	if cfg.Secret == "" {
		return "", fmt.Errorf("session secret is required")
	}
	if cfg.Issuer == "" {
		return "", fmt.Errorf("session issuer is required")
	}
	if cfg.TTL <= 0 {
		return "", fmt.Errorf("session ttl must be positive")
	}

	claims := AgeTokenClaims{
		AgeVerified21: verified,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TTL)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwtSigningMethod, claims)
	signed, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}
	return signed, nil
}

// ParseAgeToken validates the token string and returns typed claims. Expired
// or tampered tokens return an error; callers treat that as unverified.
func ParseAgeToken(cfg config.SessionConfig, tokenString string) (*AgeTokenClaims, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("session secret is required")
	}

	claims := &AgeTokenClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
	)
	if err != nil {
		return nil, err
	}

	return claims, nil
}
