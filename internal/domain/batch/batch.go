package batch

import (
	"time"

	"github.com/fitza/batchtrace-go/internal/domain/shared"
)

// Batch is the traceable unit-of-production record. It aggregates every
// contributing input (raw materials, machine telemetry, ambient sensor
// readings, cleaning records) and owns its lifecycle state.
//
// All collections are append-only: once merged, a contribution is never
// overwritten or deleted. Each merged contribution claims a provenance
// token so redelivered contributions are detected and skipped.
//
// The batch is the single shared mutable resource of the workflow; all
// mutation goes through load-modify-store cycles guarded by the snapshot
// version (optimistic concurrency, checked by the repository).
type Batch struct {
	batchID          string
	productType      shared.ProductType
	producedQuantity float64
	isOrder          bool
	customer         *shared.Customer

	sm *StateMachine

	materials []MaterialUsage
	machines  []MachineReading
	sensors   []SensorReading
	cleanings []CleaningRecord
	tokens    map[string]struct{}

	version   int
	createdAt time.Time
	clock     shared.Clock
}

// NewBatch creates a batch in BLOCKED state with empty collections.
// The clock parameter is optional - if nil, defaults to RealClock.
func NewBatch(batchID string, productType shared.ProductType, producedQuantity float64, isOrder bool, customer *shared.Customer, clock shared.Clock) (*Batch, error) {
	if batchID == "" {
		return nil, shared.NewInputError("batch ID cannot be empty")
	}
	if productType == "" {
		return nil, shared.NewInputError("product type cannot be empty")
	}
	if producedQuantity < 0 {
		return nil, shared.NewInputError("produced quantity cannot be negative")
	}
	if isOrder && customer == nil {
		return nil, shared.NewInputError("an order batch requires a customer reference")
	}
	if clock == nil {
		clock = shared.NewRealClock()
	}

	return &Batch{
		batchID:          batchID,
		productType:      productType,
		producedQuantity: producedQuantity,
		isOrder:          isOrder,
		customer:         customer,
		sm:               NewStateMachine(batchID, clock),
		tokens:           make(map[string]struct{}),
		createdAt:        clock.Now(),
		clock:            clock,
	}, nil
}

func (b *Batch) BatchID() string                 { return b.batchID }
func (b *Batch) ProductType() shared.ProductType { return b.productType }
func (b *Batch) ProducedQuantity() float64       { return b.producedQuantity }
func (b *Batch) IsOrder() bool                   { return b.isOrder }
func (b *Batch) Customer() *shared.Customer      { return b.customer }
func (b *Batch) State() State                    { return b.sm.State() }
func (b *Batch) CreatedAt() time.Time            { return b.createdAt }
func (b *Batch) FinalizedAt() *time.Time         { return b.sm.FinalizedAt() }

// Version is the snapshot version as loaded from persistence, used for
// the optimistic concurrency check on store
func (b *Batch) Version() int { return b.version }

// DiscardReasons returns the committed discard reasons
func (b *Batch) DiscardReasons() []DiscardReason { return b.sm.DiscardReasons() }

// PendingReasons returns reasons noted before finalization
func (b *Batch) PendingReasons() []DiscardReason { return b.sm.PendingReasons() }

// MaterialsUsed returns a copy of the consumed-material records
func (b *Batch) MaterialsUsed() []MaterialUsage {
	out := make([]MaterialUsage, len(b.materials))
	copy(out, b.materials)
	return out
}

// MachineReadings returns a copy of the machine telemetry snapshots
func (b *Batch) MachineReadings() []MachineReading {
	out := make([]MachineReading, len(b.machines))
	copy(out, b.machines)
	return out
}

// SensorReadings returns a copy of the ambient sensor snapshots
func (b *Batch) SensorReadings() []SensorReading {
	out := make([]SensorReading, len(b.sensors))
	copy(out, b.sensors)
	return out
}

// CleaningRecords returns a copy of the sanitation checklist records
func (b *Batch) CleaningRecords() []CleaningRecord {
	out := make([]CleaningRecord, len(b.cleanings))
	copy(out, b.cleanings)
	return out
}

// HasContribution reports whether a provenance token was already recorded
func (b *Batch) HasContribution(token string) bool {
	_, ok := b.tokens[token]
	return ok
}

// ContributionTokens returns the recorded provenance tokens
func (b *Batch) ContributionTokens() []string {
	out := make([]string, 0, len(b.tokens))
	for token := range b.tokens {
		out = append(out, token)
	}
	return out
}

// claimToken reserves a provenance token for an append.
// The duplicate check runs before the terminal check: a token recorded
// before finalization stays a duplicate when redelivered afterwards.
// Only genuinely new data is refused on a terminal batch.
func (b *Batch) claimToken(token string) error {
	if token == "" {
		return shared.NewInputError("provenance token cannot be empty")
	}
	if _, ok := b.tokens[token]; ok {
		return &ErrDuplicateContribution{BatchID: b.batchID, Token: token}
	}
	if b.sm.IsTerminal() {
		return &ErrInvalidTransition{BatchID: b.batchID, From: b.sm.State(), To: b.sm.State()}
	}
	b.tokens[token] = struct{}{}
	return nil
}

// RecordMaterialUsage appends a consumed-material record
func (b *Batch) RecordMaterialUsage(token string, usage MaterialUsage) error {
	if err := b.claimToken(token); err != nil {
		return err
	}
	b.materials = append(b.materials, usage)
	return nil
}

// RecordMachineReading appends a machine telemetry snapshot
func (b *Batch) RecordMachineReading(token string, reading MachineReading) error {
	if err := b.claimToken(token); err != nil {
		return err
	}
	b.machines = append(b.machines, reading)
	return nil
}

// RecordSensorReading appends an ambient sensor snapshot
func (b *Batch) RecordSensorReading(token string, reading SensorReading) error {
	if err := b.claimToken(token); err != nil {
		return err
	}
	b.sensors = append(b.sensors, reading)
	return nil
}

// RecordCleaningRecord appends a sanitation checklist record
func (b *Batch) RecordCleaningRecord(token string, record CleaningRecord) error {
	if err := b.claimToken(token); err != nil {
		return err
	}
	b.cleanings = append(b.cleanings, record)
	return nil
}

// RecordContribution dispatches a tagged contribution to the matching
// append, deriving the provenance token when none was supplied
func (b *Batch) RecordContribution(c Contribution) error {
	if err := c.Validate(); err != nil {
		return err
	}
	token, err := c.ProvenanceToken()
	if err != nil {
		return err
	}
	switch c.Kind {
	case ContributionMaterial:
		return b.RecordMaterialUsage(token, *c.Material)
	case ContributionMachine:
		return b.RecordMachineReading(token, c.Machine)
	case ContributionSensor:
		return b.RecordSensorReading(token, c.Sensor)
	case ContributionCleaning:
		return b.RecordCleaningRecord(token, *c.Cleaning)
	}
	return shared.NewInputError("unknown contribution kind")
}

// AddDiscardReason notes a pending reason without changing state.
// The state transition is a separate, explicit operation.
func (b *Batch) AddDiscardReason(reason DiscardReason) error {
	return b.sm.NoteReason(reason)
}

// Approve transitions the batch BLOCKED -> APPROVED (terminal)
func (b *Batch) Approve() error {
	return b.sm.Approve()
}

// Discard transitions the batch BLOCKED -> DISCARDED (terminal),
// committing the supplied reasons together with any pending ones
func (b *Batch) Discard(reasons []DiscardReason) error {
	return b.sm.Discard(reasons)
}
