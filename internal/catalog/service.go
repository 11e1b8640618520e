package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/leafline-ai/leafline-backend/internal/policy"
	"github.com/leafline-ai/leafline-backend/pkg/db"
	"github.com/leafline-ai/leafline-backend/pkg/db/models"
	pkgerrors "github.com/leafline-ai/leafline-backend/pkg/errors"
)

type productStore interface {
	ListByCategories(ctx context.Context, categories []string) ([]models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Save(ctx context.Context, product *models.Product) error
}

// Service exposes catalog operations restricted by the compliance policy.
type Service interface {
	List(ctx context.Context, category string) (*ListResult, error)
	Create(ctx context.Context, input ProductInput) (*ProductDTO, error)
	Update(ctx context.Context, rawID string, input ProductInput) (*ProductDTO, error)
}

// ProductInput holds the validated payload to create or replace a product.
type ProductInput struct {
	Title       string
	Description *string
	Price       decimal.Decimal
	Category    string
	InStock     bool
	THCMg       *decimal.Decimal
	CBDMg       *decimal.Decimal
}

type service struct {
	store  productStore
	policy *policy.Policy
}

// NewService constructs a catalog service instance.
func NewService(store productStore, pol *policy.Policy) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("product store required")
	}
	if pol == nil {
		return nil, fmt.Errorf("policy required")
	}
	return &service{store: store, policy: pol}, nil
}

// List returns products restricted to the allowed categories, optionally
// narrowed to one. Malformed rows are skipped and counted, never fatal:
// read paths favor availability over strictness.
func (s *service) List(ctx context.Context, category string) (*ListResult, error) {
	categories, err := s.policy.Narrow(category)
	if err != nil {
		return nil, err
	}

	rows, err := s.store.ListByCategories(ctx, categories)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "product store unavailable")
	}

	result := &ListResult{Products: make([]ProductDTO, 0, len(rows))}
	for i := range rows {
		row := &rows[i]
		if malformed(row) || !s.policy.Allows(row.Category) {
			result.Skipped++
			continue
		}
		result.Products = append(result.Products, *NewProductDTO(row))
	}
	return result, nil
}

// Create validates the input against the product shape and the policy
// whitelist, assigns a fresh id, and persists the row. Write paths stay
// strict where read paths tolerate.
func (s *service) Create(ctx context.Context, input ProductInput) (*ProductDTO, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Price:       input.Price,
		Category:    strings.ToLower(strings.TrimSpace(input.Category)),
		InStock:     input.InStock,
		THCMg:       input.THCMg,
		CBDMg:       input.CBDMg,
	}

	if err := s.store.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "product store unavailable")
	}
	return NewProductDTO(product), nil
}

// Update replaces the stored product for the given id.
func (s *service) Update(ctx context.Context, rawID string, input ProductInput) (*ProductDTO, error) {
	id, err := uuid.Parse(strings.TrimSpace(rawID))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInvalidID, err, "invalid product id").
			WithDetails(map[string]any{"id": rawID})
	}

	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	product, err := s.store.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "product store unavailable")
	}

	product.Title = strings.TrimSpace(input.Title)
	product.Description = input.Description
	product.Price = input.Price
	product.Category = strings.ToLower(strings.TrimSpace(input.Category))
	product.InStock = input.InStock
	product.THCMg = input.THCMg
	product.CBDMg = input.CBDMg

	if err := s.store.Save(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "product store unavailable")
	}
	return NewProductDTO(product), nil
}

func (s *service) validateInput(input ProductInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if input.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative")
	}
	if !s.policy.Allows(input.Category) {
		return pkgerrors.New(pkgerrors.CodeValidation, "category not allowed by policy").
			WithDetails(map[string]any{"category": input.Category, "allowed": s.policy.Categories()})
	}
	if input.THCMg != nil && input.THCMg.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "thc_mg must be non-negative")
	}
	if input.CBDMg != nil && input.CBDMg.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "cbd_mg must be non-negative")
	}
	return nil
}

// A malformed row is one that would not pass create-time validation: blank
// title or negative price. These get skipped on listings instead of failing
// the whole request.
func malformed(product *models.Product) bool {
	if strings.TrimSpace(product.Title) == "" {
		return true
	}
	if product.Price.IsNegative() {
		return true
	}
	return false
}
