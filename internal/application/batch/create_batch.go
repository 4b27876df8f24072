package batch

import (
	"context"
	"errors"
	"fmt"

	"github.com/fitza/batchtrace-go/internal/application/common"
	"github.com/fitza/batchtrace-go/internal/domain/batch"
	"github.com/fitza/batchtrace-go/internal/domain/shared"
)

// CreateBatchCommand - Command to open a new production batch
type CreateBatchCommand struct {
	BatchID          string
	ProductType      shared.ProductType
	ProducedQuantity float64
	IsOrder          bool
	Customer         *shared.Customer
}

// CreateBatchResponse - Response from create batch command
type CreateBatchResponse struct {
	Batch *batch.Batch
}

// CreateBatchHandler - Handles create batch commands
type CreateBatchHandler struct {
	batchRepo batch.Repository
	clock     shared.Clock
}

// NewCreateBatchHandler creates a new create batch handler
func NewCreateBatchHandler(batchRepo batch.Repository, clock shared.Clock) *CreateBatchHandler {
	return &CreateBatchHandler{
		batchRepo: batchRepo,
		clock:     clock,
	}
}

// Handle executes the create batch command
func (h *CreateBatchHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*CreateBatchCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	// 1. Reject duplicate batch ids
	if _, err := h.batchRepo.FindByID(ctx, cmd.BatchID); err == nil {
		return nil, shared.NewInputError(fmt.Sprintf("batch %s already exists", cmd.BatchID))
	} else {
		var notFound *batch.ErrBatchNotFound
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to check batch id: %w", err)
		}
	}

	// 2. Create the aggregate in BLOCKED state
	b, err := batch.NewBatch(cmd.BatchID, cmd.ProductType, cmd.ProducedQuantity, cmd.IsOrder, cmd.Customer, h.clock)
	if err != nil {
		return nil, err
	}

	// 3. Persist
	if err := h.batchRepo.Add(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to save batch: %w", err)
	}

	common.LoggerFromContext(ctx).Log("INFO", "batch created",
		map[string]interface{}{"batchId": b.BatchID(), "productType": string(b.ProductType())})

	return &CreateBatchResponse{Batch: b}, nil
}
