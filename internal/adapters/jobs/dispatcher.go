package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	appbatch "github.com/fitza/batchtrace-go/internal/application/batch"
	"github.com/fitza/batchtrace-go/internal/application/common"
	appplanning "github.com/fitza/batchtrace-go/internal/application/planning"
	"github.com/fitza/batchtrace-go/internal/domain/batch"
	"github.com/fitza/batchtrace-go/internal/domain/planning"
	"github.com/fitza/batchtrace-go/internal/domain/shared"
)

// Dispatcher turns activated jobs into mediator commands. Payloads are
// decoded into typed requests and validated before any handler runs, so
// malformed variables fail fast with an INVALID_INPUT kind instead of
// surfacing halfway through a merge.
type Dispatcher struct {
	mediator common.Mediator
	validate *validator.Validate
}

// NewDispatcher creates a dispatcher on top of the mediator
func NewDispatcher(mediator common.Mediator) *Dispatcher {
	return &Dispatcher{
		mediator: mediator,
		validate: validator.New(),
	}
}

// Dispatch executes one job and returns its result variables. A non-nil
// error is always a *JobFailure.
func (d *Dispatcher) Dispatch(ctx context.Context, job Job) (interface{}, error) {
	result, err := d.dispatch(ctx, job)
	if err != nil {
		return nil, classify(err)
	}
	return result, nil
}

func (d *Dispatcher) dispatch(ctx context.Context, job Job) (interface{}, error) {
	switch job.Type {
	case JobCreateBatch:
		return d.createBatch(ctx, job.Payload)
	case JobMergeContributions:
		return d.mergeContributions(ctx, job.Payload)
	case JobFinalizeBatch:
		return d.finalizeBatch(ctx, job.Payload)
	case JobRegisterOrder:
		return d.registerOrder(ctx, job.Payload)
	case JobComputeRequirements:
		return d.computeRequirements(ctx, job.Payload)
	case JobCheckStock:
		return d.checkStock(ctx, job.Payload)
	case JobEstimateDelivery:
		return d.estimateDelivery(ctx, job.Payload)
	}
	return nil, shared.NewInputError(fmt.Sprintf("unknown job type: %q", job.Type))
}

func (d *Dispatcher) decode(payload []byte, request interface{}) error {
	if err := json.Unmarshal(payload, request); err != nil {
		return shared.NewInputError("malformed job payload: " + err.Error())
	}
	return d.validate.Struct(request)
}

func (d *Dispatcher) createBatch(ctx context.Context, payload []byte) (interface{}, error) {
	var req CreateBatchRequest
	if err := d.decode(payload, &req); err != nil {
		return nil, err
	}

	response, err := d.mediator.Send(ctx, &appbatch.CreateBatchCommand{
		BatchID:          req.BatchID,
		ProductType:      shared.ProductType(req.ProductType),
		ProducedQuantity: req.ProducedQuantity,
		IsOrder:          req.Order,
		Customer:         req.Customer,
	})
	if err != nil {
		return nil, err
	}

	created := response.(*appbatch.CreateBatchResponse)
	return map[string]interface{}{
		"batchId": created.Batch.BatchID(),
		"state":   string(created.Batch.State()),
	}, nil
}

func (d *Dispatcher) mergeContributions(ctx context.Context, payload []byte) (interface{}, error) {
	var req MergeContributionsRequest
	if err := d.decode(payload, &req); err != nil {
		return nil, err
	}

	contributions := make([]batch.Contribution, 0, len(req.Contributions))
	for _, cr := range req.Contributions {
		contribution, err := cr.ToDomain()
		if err != nil {
			return nil, err
		}
		contributions = append(contributions, contribution)
	}

	response, err := d.mediator.Send(ctx, &appbatch.MergeContributionsCommand{
		BatchID:       req.BatchID,
		Contributions: contributions,
	})
	if err != nil {
		return nil, err
	}

	merged := response.(*appbatch.MergeContributionsResponse)
	return map[string]interface{}{
		"batchId": merged.Batch.BatchID(),
		"state":   string(merged.Batch.State()),
		"applied": merged.Applied,
		"skipped": merged.Skipped,
	}, nil
}

func (d *Dispatcher) finalizeBatch(ctx context.Context, payload []byte) (interface{}, error) {
	var req FinalizeBatchRequest
	if err := d.decode(payload, &req); err != nil {
		return nil, err
	}

	reasons := make([]batch.DiscardReason, 0, len(req.Reasons))
	for _, r := range req.Reasons {
		reasons = append(reasons, batch.DiscardReason{
			Actor:  batch.DiscardActor(r.Actor),
			Reason: r.Reason,
		})
	}

	response, err := d.mediator.Send(ctx, &appbatch.FinalizeBatchCommand{
		BatchID:  req.BatchID,
		Decision: appbatch.Decision(req.Decision),
		Reasons:  reasons,
	})
	if err != nil {
		return nil, err
	}

	finalized := response.(*appbatch.FinalizeBatchResponse)
	return map[string]interface{}{
		"batchId":     finalized.Batch.BatchID(),
		"state":       string(finalized.Batch.State()),
		"finalizedAt": FinalizedAtString(finalized.Batch.FinalizedAt()),
	}, nil
}

func (d *Dispatcher) registerOrder(ctx context.Context, payload []byte) (interface{}, error) {
	var req RegisterOrderRequest
	if err := d.decode(payload, &req); err != nil {
		return nil, err
	}

	items := make([]planning.LineItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, planning.LineItem{
			ProductType: shared.ProductType(item.ProductType),
			Quantity:    item.Quantity,
		})
	}

	response, err := d.mediator.Send(ctx, &appplanning.RegisterOrderCommand{
		Order: planning.Order{
			OrderID:  req.OrderID,
			Customer: req.Customer,
			Items:    items,
		},
	})
	if err != nil {
		return nil, err
	}

	registered := response.(*appplanning.RegisterOrderResponse)
	return map[string]interface{}{
		"orderId":     registered.Order.OrderID,
		"orderStatus": registered.Order.Status,
	}, nil
}

func (d *Dispatcher) computeRequirements(ctx context.Context, payload []byte) (interface{}, error) {
	var req ComputeRequirementsRequest
	if err := d.decode(payload, &req); err != nil {
		return nil, err
	}

	response, err := d.mediator.Send(ctx, &appplanning.ComputeRequirementsCommand{
		OrderID: req.OrderID,
	})
	if err != nil {
		return nil, err
	}

	computed := response.(*appplanning.ComputeRequirementsResponse)
	return map[string]interface{}{
		"requirements": computed.Requirements,
	}, nil
}

func (d *Dispatcher) checkStock(ctx context.Context, payload []byte) (interface{}, error) {
	var req CheckStockRequest
	if err := d.decode(payload, &req); err != nil {
		return nil, err
	}

	requirements := make([]planning.MaterialRequirement, 0, len(req.Requirements))
	for _, r := range req.Requirements {
		requirements = append(requirements, planning.MaterialRequirement{
			Material: r.Material,
			Quantity: r.Quantity,
		})
	}

	response, err := d.mediator.Send(ctx, &appplanning.CheckStockCommand{
		Requirements: requirements,
	})
	if err != nil {
		return nil, err
	}

	checked := response.(*appplanning.CheckStockResponse)
	return map[string]interface{}{
		"inStock":   checked.Available,
		"shortages": checked.Shortages,
	}, nil
}

func (d *Dispatcher) estimateDelivery(ctx context.Context, payload []byte) (interface{}, error) {
	var req EstimateDeliveryRequest
	if err := d.decode(payload, &req); err != nil {
		return nil, err
	}

	response, err := d.mediator.Send(ctx, &appplanning.EstimateDeliveryCommand{
		OrderID: req.OrderID,
	})
	if err != nil {
		return nil, err
	}

	estimated := response.(*appplanning.EstimateDeliveryResponse)
	return map[string]interface{}{
		"orderId":      estimated.OrderID,
		"deliveryDate": estimated.DeliveryDate.Format("2006-01-02"),
	}, nil
}
