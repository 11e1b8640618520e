package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/leafline-ai/leafline-backend/internal/cart"
	"github.com/leafline-ai/leafline-backend/internal/orders"
	"github.com/leafline-ai/leafline-backend/pkg/db"
	"github.com/leafline-ai/leafline-backend/pkg/db/models"
	"github.com/leafline-ai/leafline-backend/pkg/enums"
	pkgerrors "github.com/leafline-ai/leafline-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartStore interface {
	FindBySession(ctx context.Context, sessionID string) (*models.CartRecord, error)
	DeleteCart(ctx context.Context, cartID uuid.UUID) error
}

type orderStore interface {
	Create(ctx context.Context, order *models.Order) error
}

type productFinder interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
}

// Service turns a session's cart into an order. The whole conversion runs
// in one transaction so a failed checkout leaves the cart untouched.
type Service struct {
	runner    txRunner
	cartsFor  func(tx *gorm.DB) cartStore
	ordersFor func(tx *gorm.DB) orderStore
	products  productFinder
	locker    cart.SessionLocker
}

// NewService wires the checkout flow over the shared DB client and the cart
// and order repositories.
func NewService(
	client *db.Client,
	cartRepo *cart.Repository,
	orderRepo *orders.Repository,
	products productFinder,
	locker cart.SessionLocker,
) (*Service, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	if cartRepo == nil || orderRepo == nil {
		return nil, fmt.Errorf("cart and order repositories required")
	}
	if products == nil {
		return nil, fmt.Errorf("product finder required")
	}
	if locker == nil {
		locker = cart.NoopLocker{}
	}
	return &Service{
		runner:    client,
		cartsFor:  func(tx *gorm.DB) cartStore { return cartRepo.WithTx(tx) },
		ordersFor: func(tx *gorm.DB) orderStore { return orderRepo.WithTx(tx) },
		products:  products,
		locker:    locker,
	}, nil
}

// Execute converts the session's cart into an order snapshot and deletes
// the cart. Checking out with no cart, or an all-unpurchasable cart, yields
// an order with no items and a zero subtotal.
//
// The item rows copy the cart verbatim while the subtotal comes from the
// purchasable projection, so the order records both what the session held
// and what it would have been charged.
func (s *Service) Execute(ctx context.Context, sessionID string, ageVerified bool) (*orders.OrderDTO, error) {
	if !ageVerified {
		return nil, pkgerrors.New(pkgerrors.CodeAgeVerification, "age verification required to check out")
	}

	release, err := s.locker.Acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	var dto *orders.OrderDTO
	txErr := s.runner.WithTx(ctx, func(tx *gorm.DB) error {
		carts := s.cartsFor(tx)

		cartRow, err := carts.FindBySession(ctx, sessionID)
		if err != nil {
			if !db.IsNotFound(err) {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart store unavailable")
			}
			cartRow = &models.CartRecord{SessionID: sessionID}
		}

		view, err := s.projectSubtotal(ctx, cartRow)
		if err != nil {
			return err
		}

		order := &models.Order{
			ID:        uuid.New(),
			SessionID: sessionID,
			Subtotal:  view.Subtotal,
			Status:    enums.OrderStatusCreated,
			Items:     snapshotItems(cartRow.Items),
		}
		if err := s.ordersFor(tx).Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order store unavailable")
		}

		if cartRow.ID != uuid.Nil {
			if err := carts.DeleteCart(ctx, cartRow.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart store unavailable")
			}
		}

		dto = orders.NewOrderDTO(order)
		return nil
	})
	if txErr != nil {
		if typed := pkgerrors.As(txErr); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, txErr, "checkout transaction failed")
	}
	return dto, nil
}

func (s *Service) projectSubtotal(ctx context.Context, cartRow *models.CartRecord) (*cart.CartView, error) {
	ids := make([]uuid.UUID, 0, len(cartRow.Items))
	for _, item := range cartRow.Items {
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
	return cart.Project(cartRow, byID), nil
}

func snapshotItems(items []models.CartItem) []models.OrderItem {
	out := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		out = append(out, models.OrderItem{
			ID:        uuid.New(),
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	return out
}
