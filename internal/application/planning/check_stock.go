package planning

import (
	"context"
	"fmt"

	"github.com/fitza/batchtrace-go/internal/application/common"
	"github.com/fitza/batchtrace-go/internal/domain/planning"
	"github.com/fitza/batchtrace-go/internal/domain/shared"
)

// CheckStockCommand - Command to gate an order on material availability
type CheckStockCommand struct {
	Requirements []planning.MaterialRequirement
}

// CheckStockResponse - Overall availability plus the full shortage report
type CheckStockResponse struct {
	Available bool
	Shortages []planning.Shortage
}

// CheckStockHandler - Handles stock availability checks
type CheckStockHandler struct {
	gate *planning.StockGate
}

// NewCheckStockHandler creates a new check stock handler
func NewCheckStockHandler(gate *planning.StockGate) *CheckStockHandler {
	return &CheckStockHandler{gate: gate}
}

// Handle executes the check stock command
func (h *CheckStockHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*CheckStockCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	if len(cmd.Requirements) == 0 {
		return nil, shared.NewInputError("requirements list cannot be empty")
	}

	available, shortages, err := h.gate.CheckAvailability(ctx, cmd.Requirements)
	if err != nil {
		return nil, fmt.Errorf("stock check failed: %w", err)
	}

	if !available {
		common.LoggerFromContext(ctx).Log("WARN", "stock shortage",
			map[string]interface{}{"missing": len(shortages)})
	}

	return &CheckStockResponse{Available: available, Shortages: shortages}, nil
}
