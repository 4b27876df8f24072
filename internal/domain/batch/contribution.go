package batch

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/fitza/batchtrace-go/internal/domain/shared"
)

// ContributionKind discriminates the payload carried by a contribution
type ContributionKind string

const (
	ContributionMaterial ContributionKind = "material"
	ContributionMachine  ContributionKind = "machine"
	ContributionSensor   ContributionKind = "sensor"
	ContributionCleaning ContributionKind = "cleaning"
)

// Contribution is a self-contained partial update to a batch, produced by
// one concurrently executing branch of the workflow. Exactly one payload
// field matches the Kind. The provenance token makes redelivery detectable:
// branches that can name their work supply an explicit token, otherwise a
// content hash stands in for it.
type Contribution struct {
	Kind     ContributionKind
	Token    string
	Material *MaterialUsage
	Machine  MachineReading
	Sensor   SensorReading
	Cleaning *CleaningRecord
}

// NewMaterialContribution builds a material-usage contribution
func NewMaterialContribution(token string, usage MaterialUsage) Contribution {
	return Contribution{Kind: ContributionMaterial, Token: token, Material: &usage}
}

// NewMachineContribution builds a machine-telemetry contribution
func NewMachineContribution(token string, reading MachineReading) Contribution {
	return Contribution{Kind: ContributionMachine, Token: token, Machine: reading}
}

// NewSensorContribution builds an ambient-sensor contribution
func NewSensorContribution(token string, reading SensorReading) Contribution {
	return Contribution{Kind: ContributionSensor, Token: token, Sensor: reading}
}

// NewCleaningContribution builds a cleaning-record contribution
func NewCleaningContribution(token string, record CleaningRecord) Contribution {
	return Contribution{Kind: ContributionCleaning, Token: token, Cleaning: &record}
}

// Validate checks that the payload matches the declared kind
func (c Contribution) Validate() error {
	switch c.Kind {
	case ContributionMaterial:
		if c.Material == nil {
			return shared.NewInputError("material contribution without material payload")
		}
	case ContributionMachine:
		if c.Machine == nil {
			return shared.NewInputError("machine contribution without machine payload")
		}
	case ContributionSensor:
		if c.Sensor == nil {
			return shared.NewInputError("sensor contribution without sensor payload")
		}
	case ContributionCleaning:
		if c.Cleaning == nil {
			return shared.NewInputError("cleaning contribution without cleaning payload")
		}
	default:
		return shared.NewInputError(fmt.Sprintf("unknown contribution kind: %q", c.Kind))
	}
	return nil
}

// ProvenanceToken returns the explicit token when the branch supplied one,
// otherwise a content hash of the payload. Two identical redeliveries of
// the same payload therefore map to the same token.
func (c Contribution) ProvenanceToken() (string, error) {
	if c.Token != "" {
		return c.Token, nil
	}
	payload, err := c.payloadJSON()
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(append([]byte(string(c.Kind)+":"), payload...))
	return hex.EncodeToString(sum[:]), nil
}

func (c Contribution) payloadJSON() ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	switch c.Kind {
	case ContributionMaterial:
		return json.Marshal(c.Material)
	case ContributionMachine:
		return MarshalMachineReading(c.Machine)
	case ContributionSensor:
		return MarshalSensorReading(c.Sensor)
	case ContributionCleaning:
		return json.Marshal(c.Cleaning)
	}
	return nil, shared.NewInputError(fmt.Sprintf("unknown contribution kind: %q", c.Kind))
}
