package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/leafline-ai/leafline-backend/api/responses"
	"github.com/leafline-ai/leafline-backend/api/validators"
	"github.com/leafline-ai/leafline-backend/internal/catalog"
	"github.com/leafline-ai/leafline-backend/pkg/logger"
)

type productRequest struct {
	Title       string           `json:"title" validate:"required"`
	Description *string          `json:"description,omitempty"`
	Price       decimal.Decimal  `json:"price"`
	Category    string           `json:"category" validate:"required"`
	InStock     *bool            `json:"in_stock,omitempty"`
	THCMg       *decimal.Decimal `json:"thc_mg,omitempty"`
	CBDMg       *decimal.Decimal `json:"cbd_mg,omitempty"`
}

func (r productRequest) toInput() catalog.ProductInput {
	inStock := true
	if r.InStock != nil {
		inStock = *r.InStock
	}
	return catalog.ProductInput{
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price,
		Category:    r.Category,
		InStock:     inStock,
		THCMg:       r.THCMg,
		CBDMg:       r.CBDMg,
	}
}

// ProductList serves the catalog, optionally narrowed by ?category=.
func ProductList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := svc.List(r.Context(), r.URL.Query().Get("category"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ProductCreate adds a catalog entry.
func ProductCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload productRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// ProductUpdate replaces a catalog entry.
func ProductUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload productRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), chi.URLParam(r, "productId"), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}
