package batch

import (
	"context"
	"errors"
	"fmt"

	"github.com/fitza/batchtrace-go/internal/application/common"
	"github.com/fitza/batchtrace-go/internal/domain/batch"
)

// MergeContributionsCommand - Command to consolidate the partial
// contributions produced by one workflow branch into the batch snapshot
type MergeContributionsCommand struct {
	BatchID       string
	Contributions []batch.Contribution
}

// MergeContributionsResponse - Response from merge command.
// Skipped counts redelivered contributions that were already recorded;
// for the caller a merge with skips is still a success.
type MergeContributionsResponse struct {
	Batch   *batch.Batch
	Applied int
	Skipped int
}

// MergeContributionsHandler - Handles the consolidation protocol.
//
// One invocation is a single load-modify-store cycle. Duplicate provenance
// tokens are recovered locally (idempotent merge, tolerant of at-least-once
// redelivery); a version conflict on store surfaces as
// *batch.ErrConcurrencyConflict and the caller retries the whole cycle.
type MergeContributionsHandler struct {
	batchRepo batch.Repository
}

// NewMergeContributionsHandler creates a new merge handler
func NewMergeContributionsHandler(batchRepo batch.Repository) *MergeContributionsHandler {
	return &MergeContributionsHandler{batchRepo: batchRepo}
}

// Handle executes the merge command
func (h *MergeContributionsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*MergeContributionsCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	// 1. Load the current snapshot; a missing batch is fatal here
	b, err := h.batchRepo.FindByID(ctx, cmd.BatchID)
	if err != nil {
		return nil, err
	}

	// 2. Fold the contributions, skipping already-recorded tokens
	applied := 0
	skipped := 0
	for _, contribution := range cmd.Contributions {
		err := b.RecordContribution(contribution)
		if err == nil {
			applied++
			continue
		}
		var dup *batch.ErrDuplicateContribution
		if errors.As(err, &dup) {
			skipped++
			continue
		}
		return nil, err
	}

	// 3. Store with the optimistic version check
	if applied > 0 {
		if err := h.batchRepo.Update(ctx, b); err != nil {
			return nil, err
		}
	}

	common.LoggerFromContext(ctx).Log("INFO", "contributions merged",
		map[string]interface{}{"batchId": b.BatchID(), "applied": applied, "skipped": skipped})

	return &MergeContributionsResponse{Batch: b, Applied: applied, Skipped: skipped}, nil
}
