package planning

import "fmt"

// ErrOrderNotFound indicates the target order does not exist
type ErrOrderNotFound struct {
	OrderID string
}

func (e *ErrOrderNotFound) Error() string {
	return fmt.Sprintf("order not found: %s", e.OrderID)
}

// ErrDuplicateOrder indicates an order id that is already registered
type ErrDuplicateOrder struct {
	OrderID string
}

func (e *ErrDuplicateOrder) Error() string {
	return fmt.Sprintf("order already exists: %s", e.OrderID)
}
