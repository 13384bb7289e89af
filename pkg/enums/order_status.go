package enums

import "fmt"

// OrderStatus tracks the review state of a placed order.
type OrderStatus string

const (
	OrderStatusNew       OrderStatus = "new"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCanceled  OrderStatus = "canceled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusNew,
	OrderStatusConfirmed,
	OrderStatusCanceled,
}

var orderStatusLabels = map[OrderStatus]string{
	OrderStatusNew:       "Новые",
	OrderStatusConfirmed: "Подтвержденные",
	OrderStatusCanceled:  "Отмененные",
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// Label returns the human-readable name for the status. Values written
// around the enum (raw SQL, hand-edited rows) surface here as an error.
func (o OrderStatus) Label() (string, error) {
	label, ok := orderStatusLabels[o]
	if !ok {
		return "", fmt.Errorf("unknown order status %q", o)
	}
	return label, nil
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
