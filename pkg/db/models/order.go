package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/leafline-ai/leafline-backend/pkg/enums"
)

// Order is the immutable snapshot created at checkout. The subtotal is the
// value computed at checkout time and is never re-derived from the items.
type Order struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	SessionID string            `gorm:"column:session_id;not null;index"`
	Subtotal  decimal.Decimal   `gorm:"column:subtotal;type:numeric(12,2);not null"`
	Status    enums.OrderStatus `gorm:"column:status;not null;default:'created'"`
	Items     []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
}

func (Order) TableName() string { return "orders" }
