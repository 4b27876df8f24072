package jobs

import (
	"encoding/json"
	"time"

	"github.com/fitza/batchtrace-go/internal/domain/batch"
	"github.com/fitza/batchtrace-go/internal/domain/shared"
)

// Job type names as registered in the workflow definitions
const (
	JobCreateBatch         = "batch.create"
	JobMergeContributions  = "batch.merge-contributions"
	JobFinalizeBatch       = "batch.finalize"
	JobRegisterOrder       = "order.register"
	JobComputeRequirements = "order.compute-requirements"
	JobCheckStock          = "order.check-stock"
	JobEstimateDelivery    = "order.estimate-delivery"
)

// CreateBatchRequest is the wire form of a batch creation job
type CreateBatchRequest struct {
	BatchID          string           `json:"batchId" validate:"required"`
	ProductType      string           `json:"productType" validate:"required"`
	ProducedQuantity float64          `json:"producedQuantity" validate:"gte=0"`
	Order            bool             `json:"order"`
	Customer         *shared.Customer `json:"clientData,omitempty"`
}

// ContributionRequest is the wire form of one contribution. The payload
// is decoded according to the kind discriminator; machine and sensor
// payloads carry their own inner discriminator envelope.
type ContributionRequest struct {
	Kind    string          `json:"kind" validate:"required,oneof=material machine sensor cleaning"`
	Token   string          `json:"token"`
	Payload json.RawMessage `json:"payload" validate:"required"`
}

// ToDomain decodes the payload into a domain contribution
func (r ContributionRequest) ToDomain() (batch.Contribution, error) {
	switch batch.ContributionKind(r.Kind) {
	case batch.ContributionMaterial:
		var usage batch.MaterialUsage
		if err := json.Unmarshal(r.Payload, &usage); err != nil {
			return batch.Contribution{}, shared.NewInputError("malformed material payload: " + err.Error())
		}
		return batch.NewMaterialContribution(r.Token, usage), nil

	case batch.ContributionMachine:
		reading, err := batch.UnmarshalMachineReading(r.Payload)
		if err != nil {
			return batch.Contribution{}, err
		}
		return batch.NewMachineContribution(r.Token, reading), nil

	case batch.ContributionSensor:
		reading, err := batch.UnmarshalSensorReading(r.Payload)
		if err != nil {
			return batch.Contribution{}, err
		}
		return batch.NewSensorContribution(r.Token, reading), nil

	case batch.ContributionCleaning:
		var record batch.CleaningRecord
		if err := json.Unmarshal(r.Payload, &record); err != nil {
			return batch.Contribution{}, shared.NewInputError("malformed cleaning payload: " + err.Error())
		}
		return batch.NewCleaningContribution(r.Token, record), nil
	}

	return batch.Contribution{}, shared.NewInputError("unknown contribution kind: " + r.Kind)
}

// MergeContributionsRequest is the wire form of a consolidation job
type MergeContributionsRequest struct {
	BatchID       string                `json:"batchId" validate:"required"`
	Contributions []ContributionRequest `json:"contributions" validate:"required,min=1,dive"`
}

// FinalizeBatchRequest is the wire form of an approve/discard job
type FinalizeBatchRequest struct {
	BatchID  string               `json:"batchId" validate:"required"`
	Decision string               `json:"decision" validate:"required,oneof=approve discard"`
	Reasons  []DiscardReasonInput `json:"reasons" validate:"dive"`
}

// DiscardReasonInput is one attributed discard reason on the wire
type DiscardReasonInput struct {
	Actor  string `json:"actor" validate:"required,oneof=LABORATORY QUALITY_CONTROL"`
	Reason string `json:"reason" validate:"required"`
}

// RegisterOrderRequest is the wire form of an order intake job
type RegisterOrderRequest struct {
	OrderID  string           `json:"orderId"`
	Customer *shared.Customer `json:"clientData,omitempty"`
	Items    []LineItemInput  `json:"orderDescription" validate:"required,min=1,dive"`
}

// LineItemInput is one order line on the wire
type LineItemInput struct {
	ProductType string `json:"typePizza" validate:"required"`
	Quantity    int    `json:"quantity" validate:"gt=0"`
}

// ComputeRequirementsRequest is the wire form of a requirement job.
// The order is referenced by id; the full order travels through the
// workflow engine only at intake.
type ComputeRequirementsRequest struct {
	OrderID string `json:"orderId" validate:"required"`
}

// CheckStockRequest is the wire form of a stock gate job
type CheckStockRequest struct {
	Requirements []RequirementInput `json:"requirements" validate:"required,min=1,dive"`
}

// RequirementInput is one computed material need on the wire
type RequirementInput struct {
	Material shared.RawMaterial `json:"rawMaterial" validate:"required"`
	Quantity int64              `json:"quantity" validate:"gt=0"`
}

// EstimateDeliveryRequest is the wire form of a delivery estimate job
type EstimateDeliveryRequest struct {
	OrderID string `json:"orderId" validate:"required"`
}

// FinalizedAtString formats a finalization timestamp for result variables
func FinalizedAtString(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
