package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/leafline-ai/leafline-backend/pkg/db/models"
)

// Repository exposes persistence operations for per-session carts.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repository to a transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindBySession loads the cart for a session together with its items.
func (r *Repository) FindBySession(ctx context.Context, sessionID string) (*models.CartRecord, error) {
	var cart models.CartRecord
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&cart, "session_id = ?", sessionID).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// Create inserts a fresh cart row.
func (r *Repository) Create(ctx context.Context, cart *models.CartRecord) error {
	return r.db.WithContext(ctx).Create(cart).Error
}

// UpsertItem writes a (product, quantity) entry, overwriting the quantity
// when the product is already in the cart. Last write wins.
func (r *Repository) UpsertItem(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
		}).
		Create(item).Error
}

// DeleteItem removes the entry for a product. Deleting an absent entry is
// not an error.
func (r *Repository) DeleteItem(ctx context.Context, cartID, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&models.CartItem{}).Error
}

// DeleteCart removes the cart row and its items.
func (r *Repository) DeleteCart(ctx context.Context, cartID uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Where("id = ?", cartID).
		Delete(&models.CartRecord{}).Error
}
