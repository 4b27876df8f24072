package batch

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/fitza/batchtrace-go/internal/domain/shared"
)

// Document is the serialized form of a batch snapshot. It is the single
// wire/storage shape shared by the repository models and the audit export;
// the polymorphic readings are stored as discriminator envelopes.
type Document struct {
	BatchID          string             `json:"batchId"`
	ProductType      shared.ProductType `json:"productType"`
	ProducedQuantity float64            `json:"producedQuantity"`
	Order            bool               `json:"order"`
	Customer         *shared.Customer   `json:"customer,omitempty"`

	State          State           `json:"state"`
	DiscardReasons []DiscardReason `json:"discardReasons,omitempty"`
	PendingReasons []DiscardReason `json:"pendingReasons,omitempty"`
	FinalizedAt    *time.Time      `json:"finalizedAt,omitempty"`

	Materials []MaterialUsage   `json:"rawMaterialsUsed"`
	Machines  []json.RawMessage `json:"machineReadings"`
	Sensors   []json.RawMessage `json:"sensorReadings"`
	Cleanings []CleaningRecord  `json:"cleaningRecords"`
	Tokens    []string          `json:"contributionTokens"`

	CreatedAt time.Time `json:"createdAt"`
	Version   int       `json:"version"`
}

// ToDocument converts a batch snapshot into its serialized form
func ToDocument(b *Batch) (Document, error) {
	machines := make([]json.RawMessage, 0, len(b.machines))
	for _, r := range b.machines {
		raw, err := MarshalMachineReading(r)
		if err != nil {
			return Document{}, err
		}
		machines = append(machines, raw)
	}

	sensors := make([]json.RawMessage, 0, len(b.sensors))
	for _, r := range b.sensors {
		raw, err := MarshalSensorReading(r)
		if err != nil {
			return Document{}, err
		}
		sensors = append(sensors, raw)
	}

	tokens := b.ContributionTokens()
	sort.Strings(tokens)

	return Document{
		BatchID:          b.batchID,
		ProductType:      b.productType,
		ProducedQuantity: b.producedQuantity,
		Order:            b.isOrder,
		Customer:         b.customer,
		State:            b.sm.State(),
		DiscardReasons:   b.sm.DiscardReasons(),
		PendingReasons:   b.sm.PendingReasons(),
		FinalizedAt:      b.sm.FinalizedAt(),
		Materials:        b.MaterialsUsed(),
		Machines:         machines,
		Sensors:          sensors,
		Cleanings:        b.CleaningRecords(),
		Tokens:           tokens,
		CreatedAt:        b.createdAt,
		Version:          b.version,
	}, nil
}

// FromDocument rebuilds a batch snapshot from its serialized form.
// Only for use by repositories and tests; normal mutation goes through
// the aggregate methods.
func FromDocument(doc Document, clock shared.Clock) (*Batch, error) {
	if clock == nil {
		clock = shared.NewRealClock()
	}

	machines := make([]MachineReading, 0, len(doc.Machines))
	for _, raw := range doc.Machines {
		r, err := UnmarshalMachineReading(raw)
		if err != nil {
			return nil, err
		}
		machines = append(machines, r)
	}

	sensors := make([]SensorReading, 0, len(doc.Sensors))
	for _, raw := range doc.Sensors {
		r, err := UnmarshalSensorReading(raw)
		if err != nil {
			return nil, err
		}
		sensors = append(sensors, r)
	}

	tokens := make(map[string]struct{}, len(doc.Tokens))
	for _, token := range doc.Tokens {
		tokens[token] = struct{}{}
	}

	sm := NewStateMachine(doc.BatchID, clock)
	sm.RecoverFromPersistence(doc.State, doc.DiscardReasons, doc.PendingReasons, doc.FinalizedAt)

	return &Batch{
		batchID:          doc.BatchID,
		productType:      doc.ProductType,
		producedQuantity: doc.ProducedQuantity,
		isOrder:          doc.Order,
		customer:         doc.Customer,
		sm:               sm,
		materials:        append([]MaterialUsage(nil), doc.Materials...),
		machines:         machines,
		sensors:          sensors,
		cleanings:        append([]CleaningRecord(nil), doc.Cleanings...),
		tokens:           tokens,
		version:          doc.Version,
		createdAt:        doc.CreatedAt,
		clock:            clock,
	}, nil
}

// Clone deep-copies the batch via its document form
func (b *Batch) Clone() (*Batch, error) {
	doc, err := ToDocument(b)
	if err != nil {
		return nil, err
	}
	return FromDocument(doc, b.clock)
}
