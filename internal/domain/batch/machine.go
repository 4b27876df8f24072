package batch

import (
	"encoding/json"
	"fmt"
	"time"
)

// MachineStatus is the operational status reported by the MES telemetry
type MachineStatus string

const (
	MachineRunning     MachineStatus = "RUNNING"
	MachineIdle        MachineStatus = "IDLE"
	MachineStopped     MachineStatus = "STOPPED"
	MachineError       MachineStatus = "ERROR"
	MachineMaintenance MachineStatus = "MAINTENANCE"
)

// MachineType discriminates the telemetry variants
type MachineType string

const (
	MachineTypeMixer MachineType = "mixer"
	MachineTypeOven  MachineType = "oven"
)

// MachineTelemetry carries the fields common to every machine snapshot
type MachineTelemetry struct {
	MachineID   string        `json:"machineId"`
	MachineName string        `json:"machineName"`
	Status      MachineStatus `json:"status"`
	ReadAt      time.Time     `json:"readAt"`
}

// MachineReading is one telemetry snapshot captured during production.
// It is a closed union over the machine variants; serialization dispatches
// on MachineType with an exhaustive switch.
type MachineReading interface {
	Telemetry() MachineTelemetry
	MachineType() MachineType
}

// MixerReading is the telemetry variant for dough mixers
type MixerReading struct {
	MachineTelemetry
	RPM       float64 `json:"rpm"`
	DoughTemp float64 `json:"doughTemp"`
	MotorAmps float64 `json:"motorAmps"`
}

func (m MixerReading) Telemetry() MachineTelemetry { return m.MachineTelemetry }
func (m MixerReading) MachineType() MachineType    { return MachineTypeMixer }

// OvenReading is the telemetry variant for tunnel ovens
type OvenReading struct {
	MachineTelemetry
	TemperatureZone1 float64 `json:"temperatureZone1"`
	TemperatureZone2 float64 `json:"temperatureZone2"`
	BeltSpeed        float64 `json:"beltSpeed"`
}

func (o OvenReading) Telemetry() MachineTelemetry { return o.MachineTelemetry }
func (o OvenReading) MachineType() MachineType    { return MachineTypeOven }

// machineEnvelope is the wire form of a MachineReading, with the
// machineType discriminator alongside the variant payload
type machineEnvelope struct {
	MachineType MachineType     `json:"machineType"`
	Payload     json.RawMessage `json:"payload"`
}

// MarshalMachineReading encodes a reading with its type discriminator
func MarshalMachineReading(r MachineReading) ([]byte, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return json.Marshal(machineEnvelope{MachineType: r.MachineType(), Payload: payload})
}

// UnmarshalMachineReading decodes a reading, rejecting unknown machine types
func UnmarshalMachineReading(data []byte) (MachineReading, error) {
	var env machineEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	switch env.MachineType {
	case MachineTypeMixer:
		var r MixerReading
		if err := json.Unmarshal(env.Payload, &r); err != nil {
			return nil, err
		}
		return r, nil
	case MachineTypeOven:
		var r OvenReading
		if err := json.Unmarshal(env.Payload, &r); err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown machine type: %q", env.MachineType)
	}
}
