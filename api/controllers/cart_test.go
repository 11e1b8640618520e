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

	"github.com/leafline-ai/leafline-backend/api/middleware"
	cartsvc "github.com/leafline-ai/leafline-backend/internal/cart"
	pkgerrors "github.com/leafline-ai/leafline-backend/pkg/errors"
)

type stubCartService struct {
	view          *cartsvc.CartView
	err           error
	lastSessionID string
	lastAdd       cartsvc.AddItemInput
	lastRemoved   string
}

func (s *stubCartService) Read(ctx context.Context, sessionID string) (*cartsvc.CartView, error) {
	s.lastSessionID = sessionID
	return s.view, s.err
}

func (s *stubCartService) Add(ctx context.Context, sessionID string, input cartsvc.AddItemInput) (*cartsvc.CartView, error) {
	s.lastSessionID = sessionID
	s.lastAdd = input
	return s.view, s.err
}

func (s *stubCartService) Remove(ctx context.Context, sessionID, rawProductID string) (*cartsvc.CartView, error) {
	s.lastSessionID = sessionID
	s.lastRemoved = rawProductID
	return s.view, s.err
}

func withSession(req *http.Request, sessionID string) *http.Request {
	return req.WithContext(middleware.WithSessionID(req.Context(), sessionID))
}

func TestCartFetchSuccess(t *testing.T) {
	sessionID := uuid.NewString()
	view := &cartsvc.CartView{
		SessionID: sessionID,
		Items:     []cartsvc.CartItemView{},
		Subtotal:  decimal.RequireFromString("25.00"),
	}
	svc := &stubCartService{view: view}
	handler := CartFetch(svc, nil)

	req := withSession(httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil), sessionID)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastSessionID != sessionID {
		t.Fatalf("expected session %s to reach the service, got %s", sessionID, svc.lastSessionID)
	}

	var envelope struct {
		Data cartsvc.CartView `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data.Subtotal.Equal(decimal.RequireFromString("25.00")) {
		t.Fatalf("unexpected subtotal %s", envelope.Data.Subtotal)
	}
}

func TestCartFetchMissingSessionContext(t *testing.T) {
	handler := CartFetch(&stubCartService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}

func TestCartAddItemSuccess(t *testing.T) {
	sessionID := uuid.NewString()
	productID := uuid.NewString()
	svc := &stubCartService{view: cartsvc.EmptyView(sessionID)}
	handler := CartAddItem(svc, nil)

	body := `{"product_id":"` + productID + `","quantity":3}`
	req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body)), sessionID)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastAdd.ProductID != productID || svc.lastAdd.Quantity != 3 {
		t.Fatalf("unexpected add input %+v", svc.lastAdd)
	}
}

func TestCartAddItemRejectsMissingFields(t *testing.T) {
	sessionID := uuid.NewString()
	handler := CartAddItem(&stubCartService{view: cartsvc.EmptyView(sessionID)}, nil)

	req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{}`)), sessionID)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartRemoveItemRoutesProductID(t *testing.T) {
	sessionID := uuid.NewString()
	productID := uuid.NewString()
	svc := &stubCartService{view: cartsvc.EmptyView(sessionID)}

	r := chi.NewRouter()
	r.Delete("/cart/items/{productId}", CartRemoveItem(svc, nil))

	req := withSession(httptest.NewRequest(http.MethodDelete, "/cart/items/"+productID, nil), sessionID)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastRemoved != productID {
		t.Fatalf("expected product id %s, got %s", productID, svc.lastRemoved)
	}
}

func TestCartRemoveItemInvalidID(t *testing.T) {
	sessionID := uuid.NewString()
	svc := &stubCartService{err: pkgerrors.New(pkgerrors.CodeInvalidID, "invalid product id")}

	r := chi.NewRouter()
	r.Delete("/cart/items/{productId}", CartRemoveItem(svc, nil))

	req := withSession(httptest.NewRequest(http.MethodDelete, "/cart/items/not-a-uuid", nil), sessionID)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
