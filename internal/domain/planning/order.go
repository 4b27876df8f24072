package planning

import (
	"time"

	"github.com/fitza/batchtrace-go/internal/domain/shared"
)

// LineItem is one product/quantity pair of an order
type LineItem struct {
	ProductType shared.ProductType `json:"typePizza"`
	Quantity    int                `json:"quantity"`
}

// Order is a client order handed over by the intake process.
// Read-only once it reaches the requirement calculator.
type Order struct {
	OrderID   string           `json:"orderId"`
	OrderDate time.Time        `json:"orderDate"`
	Status    string           `json:"orderStatus"`
	Customer  *shared.Customer `json:"clientData,omitempty"`
	Items     []LineItem       `json:"orderDescription"`
}

// Validate checks the order is usable for requirement computation
func (o Order) Validate() error {
	if len(o.Items) == 0 {
		return shared.NewInputError("order has no line items")
	}
	for _, item := range o.Items {
		if item.Quantity <= 0 {
			return shared.NewInputError("line item quantity must be positive")
		}
		if item.ProductType == "" {
			return shared.NewValidationError("typePizza",
				"line item product type cannot be empty")
		}
	}
	return nil
}
