package controllers

import (
	"net/http"

	"github.com/leafline-ai/leafline-backend/api/responses"
	"github.com/leafline-ai/leafline-backend/internal/policy"
)

// PolicyShow returns the static compliance policy.
func PolicyShow(pol *policy.Policy) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, pol.DTO())
	}
}
