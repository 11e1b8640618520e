package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/leafline-ai/leafline-backend/internal/catalog"
	pkgerrors "github.com/leafline-ai/leafline-backend/pkg/errors"
)

type stubCatalogService struct {
	listFn   func(ctx context.Context, category string) (*catalog.ListResult, error)
	createFn func(ctx context.Context, input catalog.ProductInput) (*catalog.ProductDTO, error)
	updateFn func(ctx context.Context, rawID string, input catalog.ProductInput) (*catalog.ProductDTO, error)
}

func (s *stubCatalogService) List(ctx context.Context, category string) (*catalog.ListResult, error) {
	return s.listFn(ctx, category)
}

func (s *stubCatalogService) Create(ctx context.Context, input catalog.ProductInput) (*catalog.ProductDTO, error) {
	return s.createFn(ctx, input)
}

func (s *stubCatalogService) Update(ctx context.Context, rawID string, input catalog.ProductInput) (*catalog.ProductDTO, error) {
	return s.updateFn(ctx, rawID, input)
}

func TestProductListPassesCategoryFilter(t *testing.T) {
	var gotCategory string
	svc := &stubCatalogService{
		listFn: func(ctx context.Context, category string) (*catalog.ListResult, error) {
			gotCategory = category
			return &catalog.ListResult{Products: []catalog.ProductDTO{}, Skipped: 2}, nil
		},
	}
	handler := ProductList(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?category=vapes", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if gotCategory != "vapes" {
		t.Fatalf("expected category filter to reach the service, got %q", gotCategory)
	}

	var envelope struct {
		Data catalog.ListResult `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Skipped != 2 {
		t.Fatalf("skipped_records should survive serialization, got %d", envelope.Data.Skipped)
	}
}

func TestProductListDisallowedCategory(t *testing.T) {
	svc := &stubCatalogService{
		listFn: func(ctx context.Context, category string) (*catalog.ListResult, error) {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidCategory, "category not allowed by policy")
		},
	}
	handler := ProductList(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?category=mushrooms", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestProductCreateSuccess(t *testing.T) {
	var gotInput catalog.ProductInput
	svc := &stubCatalogService{
		createFn: func(ctx context.Context, input catalog.ProductInput) (*catalog.ProductDTO, error) {
			gotInput = input
			return &catalog.ProductDTO{ID: uuid.New(), Title: input.Title}, nil
		},
	}
	handler := ProductCreate(svc, nil)

	body := `{"title":"Indigo Haze 3.5g","price":42.00,"category":"bud","thc_mg":180}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if !gotInput.Price.Equal(decimal.RequireFromString("42")) {
		t.Fatalf("unexpected price %s", gotInput.Price)
	}
	if !gotInput.InStock {
		t.Fatal("in_stock should default to true when omitted")
	}
	if gotInput.THCMg == nil || !gotInput.THCMg.Equal(decimal.RequireFromString("180")) {
		t.Fatalf("unexpected thc_mg %v", gotInput.THCMg)
	}
}

func TestProductCreateRejectsMissingTitle(t *testing.T) {
	handler := ProductCreate(&stubCatalogService{}, nil)

	body := `{"price":10.00,"category":"bud"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestProductCreateRejectsUnknownFields(t *testing.T) {
	handler := ProductCreate(&stubCatalogService{}, nil)

	body := `{"title":"x","price":1,"category":"bud","bogus":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestProductUpdateRoutesID(t *testing.T) {
	var gotID string
	svc := &stubCatalogService{
		updateFn: func(ctx context.Context, rawID string, input catalog.ProductInput) (*catalog.ProductDTO, error) {
			gotID = rawID
			return &catalog.ProductDTO{Title: input.Title}, nil
		},
	}

	r := chi.NewRouter()
	r.Put("/products/{productId}", ProductUpdate(svc, nil))

	id := uuid.NewString()
	body := `{"title":"Renamed","price":12.50,"category":"bud"}`
	req := httptest.NewRequest(http.MethodPut, "/products/"+id, strings.NewReader(body))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if gotID != id {
		t.Fatalf("expected path id %s, got %s", id, gotID)
	}
}

func TestProductUpdateNotFound(t *testing.T) {
	svc := &stubCatalogService{
		updateFn: func(ctx context.Context, rawID string, input catalog.ProductInput) (*catalog.ProductDTO, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		},
	}

	r := chi.NewRouter()
	r.Put("/products/{productId}", ProductUpdate(svc, nil))

	body := `{"title":"Renamed","price":12.50,"category":"bud"}`
	req := httptest.NewRequest(http.MethodPut, "/products/"+uuid.NewString(), strings.NewReader(body))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
