package cart

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/leafline-ai/leafline-backend/pkg/db"
	"github.com/leafline-ai/leafline-backend/pkg/db/models"
	pkgerrors "github.com/leafline-ai/leafline-backend/pkg/errors"
)

const (
	// MinQuantity and MaxQuantity bound a single cart entry.
	MinQuantity = 1
	MaxQuantity = 100
)

type cartStore interface {
	FindBySession(ctx context.Context, sessionID string) (*models.CartRecord, error)
	Create(ctx context.Context, cart *models.CartRecord) error
	UpsertItem(ctx context.Context, item *models.CartItem) error
	DeleteItem(ctx context.Context, cartID, productID uuid.UUID) error
}

type productFinder interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
}

// Service exposes the session-scoped cart operations.
type Service interface {
	Read(ctx context.Context, sessionID string) (*CartView, error)
	Add(ctx context.Context, sessionID string, input AddItemInput) (*CartView, error)
	Remove(ctx context.Context, sessionID, rawProductID string) (*CartView, error)
}

// AddItemInput is the payload to add or overwrite a cart entry.
type AddItemInput struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required"`
}

// CartItemView is one purchasable line in the projected cart.
type CartItemView struct {
	ProductID uuid.UUID       `json:"product_id"`
	Title     string          `json:"title"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// CartView is the cart as clients see it: entries whose product is missing
// or out of stock are projected out of both the items and the subtotal,
// without touching the persisted cart.
type CartView struct {
	SessionID string          `json:"session_id"`
	Items     []CartItemView  `json:"items"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type service struct {
	carts    cartStore
	products productFinder
	locker   SessionLocker
}

// NewService constructs a cart service instance.
func NewService(carts cartStore, products productFinder, locker SessionLocker) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product finder required")
	}
	if locker == nil {
		locker = NoopLocker{}
	}
	return &service{carts: carts, products: products, locker: locker}, nil
}

// Read projects the cart for a session. A session with no cart row reads as
// an empty cart.
func (s *service) Read(ctx context.Context, sessionID string) (*CartView, error) {
	cart, err := s.loadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return EmptyView(sessionID), nil
	}
	return s.project(ctx, cart)
}

// Add upserts a (product, quantity) entry. An add for a product already in
// the cart overwrites its quantity.
func (s *service) Add(ctx context.Context, sessionID string, input AddItemInput) (*CartView, error) {
	productID, err := parseProductID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if input.Quantity < MinQuantity || input.Quantity > MaxQuantity {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity out of range").
			WithDetails(map[string]any{"min": MinQuantity, "max": MaxQuantity})
	}

	release, err := s.locker.Acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	cart, err := s.loadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		cart = &models.CartRecord{ID: uuid.New(), SessionID: sessionID}
		if err := s.carts.Create(ctx, cart); err != nil {
			// another request for the same session may have won the race
			if db.IsUniqueViolation(err) {
				if cart, err = s.loadCart(ctx, sessionID); err != nil {
					return nil, err
				}
			} else {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart store unavailable")
			}
		}
	}

	item := &models.CartItem{
		ID:        uuid.New(),
		CartID:    cart.ID,
		ProductID: productID,
		Quantity:  input.Quantity,
	}
	if err := s.carts.UpsertItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart store unavailable")
	}

	return s.readAfterMutation(ctx, sessionID)
}

// Remove drops the entry for a product. Removing a product that is not in
// the cart is a no-op, not an error.
func (s *service) Remove(ctx context.Context, sessionID, rawProductID string) (*CartView, error) {
	productID, err := parseProductID(rawProductID)
	if err != nil {
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	cart, err := s.loadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return EmptyView(sessionID), nil
	}

	if err := s.carts.DeleteItem(ctx, cart.ID, productID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart store unavailable")
	}

	return s.readAfterMutation(ctx, sessionID)
}

func (s *service) readAfterMutation(ctx context.Context, sessionID string) (*CartView, error) {
	cart, err := s.loadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return EmptyView(sessionID), nil
	}
	return s.project(ctx, cart)
}

// loadCart returns (nil, nil) when the session has no cart yet.
func (s *service) loadCart(ctx context.Context, sessionID string) (*models.CartRecord, error) {
	cart, err := s.carts.FindBySession(ctx, sessionID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart store unavailable")
	}
	return cart, nil
}

func (s *service) project(ctx context.Context, cart *models.CartRecord) (*CartView, error) {
	ids := make([]uuid.UUID, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}

	rows, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "product store unavailable")
	}
	byID := make(map[uuid.UUID]*models.Product, len(rows))
	for i := range rows {
		byID[rows[i].ID] = &rows[i]
	}

	return Project(cart, byID), nil
}

// Project builds the client-facing view from a persisted cart and the
// products its entries reference. Entries whose product is absent or out of
// stock contribute nothing to the items or the subtotal. The checkout flow
// uses the same projection so the charged subtotal matches what the client
// last saw.
func Project(cart *models.CartRecord, products map[uuid.UUID]*models.Product) *CartView {
	view := EmptyView(cart.SessionID)
	for _, item := range cart.Items {
		product, ok := products[item.ProductID]
		if !ok || !product.InStock {
			continue
		}
		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		view.Items = append(view.Items, CartItemView{
			ProductID: item.ProductID,
			Title:     product.Title,
			UnitPrice: product.Price,
			Quantity:  item.Quantity,
			LineTotal: lineTotal,
		})
		view.Subtotal = view.Subtotal.Add(lineTotal)
	}
	return view
}

// EmptyView is the projection of a session with no purchasable entries.
func EmptyView(sessionID string) *CartView {
	return &CartView{
		SessionID: sessionID,
		Items:     []CartItemView{},
		Subtotal:  decimal.Zero,
	}
}

func parseProductID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeInvalidID, err, "invalid product id").
			WithDetails(map[string]any{"product_id": raw})
	}
	return id, nil
}
