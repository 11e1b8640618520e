package controllers

import (
	"context"
	"net/http"

	"github.com/leafline-ai/leafline-backend/api/middleware"
	"github.com/leafline-ai/leafline-backend/api/responses"
	"github.com/leafline-ai/leafline-backend/internal/orders"
	"github.com/leafline-ai/leafline-backend/pkg/logger"
)

// CheckoutExecutor is the slice of the checkout service the handler needs.
type CheckoutExecutor interface {
	Execute(ctx context.Context, sessionID string, ageVerified bool) (*orders.OrderDTO, error)
}

// Checkout converts the session's cart into an order.
func Checkout(svc CheckoutExecutor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := sessionIDOrError(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Execute(r.Context(), sessionID, middleware.AgeVerifiedFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
