package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/leafline-ai/leafline-backend/pkg/db/models"
)

// ProductDTO is the catalog payload returned to clients.
type ProductDTO struct {
	ID          uuid.UUID        `json:"id"`
	Title       string           `json:"title"`
	Description *string          `json:"description,omitempty"`
	Price       decimal.Decimal  `json:"price"`
	Category    string           `json:"category"`
	InStock     bool             `json:"in_stock"`
	THCMg       *decimal.Decimal `json:"thc_mg,omitempty"`
	CBDMg       *decimal.Decimal `json:"cbd_mg,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// ListResult carries the listing plus the count of malformed rows that were
// skipped, so partial-result tolerance stays observable.
type ListResult struct {
	Products []ProductDTO `json:"products"`
	Skipped  int          `json:"skipped_records"`
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(product *models.Product) *ProductDTO {
	return &ProductDTO{
		ID:          product.ID,
		Title:       product.Title,
		Description: product.Description,
		Price:       product.Price,
		Category:    product.Category,
		InStock:     product.InStock,
		THCMg:       product.THCMg,
		CBDMg:       product.CBDMg,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}
