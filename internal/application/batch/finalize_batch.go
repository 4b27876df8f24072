package batch

import (
	"context"
	"fmt"

	"github.com/fitza/batchtrace-go/internal/application/common"
	"github.com/fitza/batchtrace-go/internal/domain/batch"
	"github.com/fitza/batchtrace-go/internal/domain/shared"
)

// Decision selects the terminal state for a batch
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionDiscard Decision = "discard"
)

// FinalizeBatchCommand - Command to drive a batch to its terminal state
type FinalizeBatchCommand struct {
	BatchID  string
	Decision Decision
	Reasons  []batch.DiscardReason
}

// FinalizeBatchResponse - Response from finalize command
type FinalizeBatchResponse struct {
	Batch *batch.Batch
}

// FinalizeBatchHandler - Handles approve/discard decisions.
//
// Finalization is serialized with in-flight merges through the same
// version check the merge uses; a concurrent merge surfaces as
// *batch.ErrConcurrencyConflict and the caller retries.
type FinalizeBatchHandler struct {
	batchRepo batch.Repository
	exporter  batch.AuditExporter
}

// NewFinalizeBatchHandler creates a new finalize batch handler
func NewFinalizeBatchHandler(batchRepo batch.Repository, exporter batch.AuditExporter) *FinalizeBatchHandler {
	return &FinalizeBatchHandler{
		batchRepo: batchRepo,
		exporter:  exporter,
	}
}

// Handle executes the finalize command
func (h *FinalizeBatchHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*FinalizeBatchCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	// 1. Load the current snapshot
	b, err := h.batchRepo.FindByID(ctx, cmd.BatchID)
	if err != nil {
		return nil, err
	}

	// 2. Apply the decision through the state machine
	switch cmd.Decision {
	case DecisionApprove:
		if err := b.Approve(); err != nil {
			return nil, err
		}
	case DecisionDiscard:
		if err := b.Discard(cmd.Reasons); err != nil {
			return nil, err
		}
	default:
		return nil, shared.NewInputError(fmt.Sprintf("unknown decision: %q", cmd.Decision))
	}

	// 3. Persist the terminal snapshot
	if err := h.batchRepo.Update(ctx, b); err != nil {
		return nil, err
	}

	// 4. Export for audit. The state is already committed; an export
	// failure is reported but does not undo the transition.
	if h.exporter != nil {
		if err := h.exporter.Export(ctx, b); err != nil {
			common.LoggerFromContext(ctx).Log("WARN", "audit export failed",
				map[string]interface{}{"batchId": b.BatchID(), "error": err.Error()})
		}
	}

	common.LoggerFromContext(ctx).Log("INFO", "batch finalized",
		map[string]interface{}{"batchId": b.BatchID(), "state": string(b.State())})

	return &FinalizeBatchResponse{Batch: b}, nil
}
