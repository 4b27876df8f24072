package planning

import (
	"context"
	"fmt"

	"github.com/fitza/batchtrace-go/internal/application/common"
	"github.com/fitza/batchtrace-go/internal/domain/planning"
	"github.com/fitza/batchtrace-go/internal/domain/shared"
)

// ComputeRequirementsCommand - Command to derive the material requirements
// of an order. Either the full order is supplied inline or an OrderID
// referring to a registered order.
type ComputeRequirementsCommand struct {
	OrderID string
	Order   *planning.Order
}

// ComputeRequirementsResponse - Response with the consolidated needs
type ComputeRequirementsResponse struct {
	Requirements []planning.MaterialRequirement
}

// ComputeRequirementsHandler - Handles requirement computation
type ComputeRequirementsHandler struct {
	calculator *planning.Calculator
	orderRepo  planning.OrderRepository
}

// NewComputeRequirementsHandler creates a new compute requirements handler
func NewComputeRequirementsHandler(calculator *planning.Calculator, orderRepo planning.OrderRepository) *ComputeRequirementsHandler {
	return &ComputeRequirementsHandler{
		calculator: calculator,
		orderRepo:  orderRepo,
	}
}

// Handle executes the compute requirements command
func (h *ComputeRequirementsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*ComputeRequirementsCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	order := cmd.Order
	if order == nil {
		if cmd.OrderID == "" {
			return nil, shared.NewInputError("either order or orderId must be supplied")
		}
		loaded, err := h.orderRepo.FindByID(ctx, cmd.OrderID)
		if err != nil {
			return nil, err
		}
		order = loaded
	}

	requirements, err := h.calculator.ComputeRequirements(*order)
	if err != nil {
		return nil, err
	}

	return &ComputeRequirementsResponse{Requirements: requirements}, nil
}
