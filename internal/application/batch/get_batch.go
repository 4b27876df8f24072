package batch

import (
	"context"
	"fmt"

	"github.com/fitza/batchtrace-go/internal/application/common"
	"github.com/fitza/batchtrace-go/internal/domain/batch"
)

// GetBatchQuery - Query for one batch snapshot
type GetBatchQuery struct {
	BatchID string
}

// GetBatchResponse - Response from the get batch query
type GetBatchResponse struct {
	Batch *batch.Batch
}

// GetBatchHandler - Handles batch lookups at the boundary
type GetBatchHandler struct {
	batchRepo batch.Repository
}

// NewGetBatchHandler creates a new get batch handler
func NewGetBatchHandler(batchRepo batch.Repository) *GetBatchHandler {
	return &GetBatchHandler{batchRepo: batchRepo}
}

// Handle executes the get batch query
func (h *GetBatchHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetBatchQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	b, err := h.batchRepo.FindByID(ctx, query.BatchID)
	if err != nil {
		return nil, err
	}

	return &GetBatchResponse{Batch: b}, nil
}
