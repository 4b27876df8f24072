package planning

import "context"

// OrderRepository defines the persistence operations for client orders
type OrderRepository interface {
	FindByID(ctx context.Context, orderID string) (*Order, error)
	Add(ctx context.Context, order *Order) error
}
