package planning

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/fitza/batchtrace-go/internal/application/common"
	"github.com/fitza/batchtrace-go/internal/domain/planning"
	"github.com/fitza/batchtrace-go/internal/domain/shared"
)

// RegisterOrderCommand - Command to take in a client order
type RegisterOrderCommand struct {
	Order planning.Order
}

// RegisterOrderResponse - Response from register order command
type RegisterOrderResponse struct {
	Order *planning.Order
}

// RegisterOrderHandler - Handles order intake
type RegisterOrderHandler struct {
	orderRepo planning.OrderRepository
	clock     shared.Clock
}

// NewRegisterOrderHandler creates a new register order handler
func NewRegisterOrderHandler(orderRepo planning.OrderRepository, clock shared.Clock) *RegisterOrderHandler {
	return &RegisterOrderHandler{
		orderRepo: orderRepo,
		clock:     clock,
	}
}

// newOrderID generates a compact order id: ORD-{8charHexUUID}
func newOrderID() string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return "ORD-" + strings.ToUpper(id)
}

// Handle executes the register order command
func (h *RegisterOrderHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*RegisterOrderCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	order := cmd.Order
	if err := order.Validate(); err != nil {
		return nil, err
	}

	if order.OrderID == "" {
		order.OrderID = newOrderID()
	}
	if order.OrderDate.IsZero() {
		order.OrderDate = h.clock.Now()
	}
	if order.Status == "" {
		order.Status = "received"
	}

	if err := h.orderRepo.Add(ctx, &order); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	for _, item := range order.Items {
		if !item.ProductType.IsKnown() {
			common.LoggerFromContext(ctx).Log("WARN", "unknown product type, base recipe will be used",
				map[string]interface{}{"orderId": order.OrderID, "productType": string(item.ProductType)})
		}
	}

	common.LoggerFromContext(ctx).Log("INFO", "order registered",
		map[string]interface{}{"orderId": order.OrderID, "items": len(order.Items)})

	return &RegisterOrderResponse{Order: &order}, nil
}
