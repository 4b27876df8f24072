package planning

import (
	"context"
	"fmt"
	"time"

	"github.com/fitza/batchtrace-go/internal/application/common"
	"github.com/fitza/batchtrace-go/internal/domain/planning"
	"github.com/fitza/batchtrace-go/internal/domain/shared"
)

// EstimateDeliveryCommand - Command to estimate a delivery date for an order
type EstimateDeliveryCommand struct {
	OrderID string
}

// EstimateDeliveryResponse - The estimated delivery date
type EstimateDeliveryResponse struct {
	OrderID      string
	DeliveryDate time.Time
}

// EstimateDeliveryHandler - Handles delivery date estimation
type EstimateDeliveryHandler struct {
	estimator *planning.Estimator
	clock     shared.Clock
}

// NewEstimateDeliveryHandler creates a new estimate delivery handler
func NewEstimateDeliveryHandler(estimator *planning.Estimator, clock shared.Clock) *EstimateDeliveryHandler {
	return &EstimateDeliveryHandler{estimator: estimator, clock: clock}
}

// Handle executes the estimate delivery command
func (h *EstimateDeliveryHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*EstimateDeliveryCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	today := h.clock.Now()
	deliveryDate := h.estimator.Estimate(today)

	common.LoggerFromContext(ctx).Log("INFO", "delivery estimated",
		map[string]interface{}{
			"orderId":      cmd.OrderID,
			"deliveryDate": deliveryDate.Format("2006-01-02"),
		})

	return &EstimateDeliveryResponse{OrderID: cmd.OrderID, DeliveryDate: deliveryDate}, nil
}
