package models

import (
	"time"

	"github.com/google/uuid"
)

// CartRecord is the per-session cart row. The session id is the sole
// partition key; one cart per session. The row survives with zero items;
// an emptied cart is not collapsed back to absent.
type CartRecord struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	SessionID string     `gorm:"column:session_id;not null;uniqueIndex"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (CartRecord) TableName() string { return "carts" }
