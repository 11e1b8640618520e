package enums

import "fmt"

// OrderStatus represents the lifecycle state of an order snapshot. Orders are
// immutable after checkout, so "created" is currently the only state.
type OrderStatus string

const (
	OrderStatusCreated OrderStatus = "created"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusCreated,
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
