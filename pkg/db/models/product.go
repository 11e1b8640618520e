package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog listing. Products are created and mutated in place;
// no delete path exists, so cart and order rows reference them by id only.
type Product struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	Title       string           `gorm:"column:title;not null"`
	Description *string          `gorm:"column:description"`
	Price       decimal.Decimal  `gorm:"column:price;type:numeric(12,2);not null"`
	Category    string           `gorm:"column:category;not null;index"`
	InStock     bool             `gorm:"column:in_stock;not null;default:true"`
	THCMg       *decimal.Decimal `gorm:"column:thc_mg;type:numeric(12,2)"`
	CBDMg       *decimal.Decimal `gorm:"column:cbd_mg;type:numeric(12,2)"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the collection name used by the catalog.
func (Product) TableName() string { return "products" }
