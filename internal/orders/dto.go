package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/leafline-ai/leafline-backend/pkg/db/models"
)

// OrderItemDTO is one snapshotted cart entry on an order.
type OrderItemDTO struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// OrderDTO is the order payload returned to clients.
type OrderDTO struct {
	ID        uuid.UUID       `json:"id"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Status    string          `json:"status"`
	Items     []OrderItemDTO  `json:"items"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewOrderDTO builds a DTO from the persisted model.
func NewOrderDTO(order *models.Order) *OrderDTO {
	items := make([]OrderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemDTO{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	return &OrderDTO{
		ID:        order.ID,
		Subtotal:  order.Subtotal,
		Status:    order.Status.String(),
		Items:     items,
		CreatedAt: order.CreatedAt,
	}
}
