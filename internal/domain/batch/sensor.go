package batch

import (
	"encoding/json"
	"fmt"
	"time"
)

// SensorType discriminates the ambient sensor variants
type SensorType string

const (
	SensorTypeTemperature SensorType = "temperature"
	SensorTypeHumidity    SensorType = "humidity"
	SensorTypeAirQuality  SensorType = "airQuality"
)

// SensorSnapshot carries the fields common to every ambient reading
type SensorSnapshot struct {
	SensorID string    `json:"sensorId"`
	Location string    `json:"location"`
	ReadAt   time.Time `json:"readAt"`
}

// SensorReading is one ambient reading captured near the production line.
// Closed union over the sensor variants, mirroring MachineReading.
type SensorReading interface {
	Snapshot() SensorSnapshot
	SensorType() SensorType
}

// TemperatureReading reports the room temperature in Celsius
type TemperatureReading struct {
	SensorSnapshot
	TemperatureCelsius float64 `json:"temperatureCelsius"`
}

func (t TemperatureReading) Snapshot() SensorSnapshot { return t.SensorSnapshot }
func (t TemperatureReading) SensorType() SensorType   { return SensorTypeTemperature }

// HumidityReading reports the relative humidity percentage
type HumidityReading struct {
	SensorSnapshot
	HumidityPercentage float64 `json:"humidityPercentage"`
}

func (h HumidityReading) Snapshot() SensorSnapshot { return h.SensorSnapshot }
func (h HumidityReading) SensorType() SensorType   { return SensorTypeHumidity }

// AirQualityReading reports the particulate matter level
type AirQualityReading struct {
	SensorSnapshot
	ParticulateMatterLevel float64 `json:"particulateMatterLevel"`
}

func (a AirQualityReading) Snapshot() SensorSnapshot { return a.SensorSnapshot }
func (a AirQualityReading) SensorType() SensorType   { return SensorTypeAirQuality }

type sensorEnvelope struct {
	SensorType SensorType      `json:"sensorType"`
	Payload    json.RawMessage `json:"payload"`
}

// MarshalSensorReading encodes a reading with its type discriminator
func MarshalSensorReading(r SensorReading) ([]byte, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return json.Marshal(sensorEnvelope{SensorType: r.SensorType(), Payload: payload})
}

// UnmarshalSensorReading decodes a reading, rejecting unknown sensor types
func UnmarshalSensorReading(data []byte) (SensorReading, error) {
	var env sensorEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	switch env.SensorType {
	case SensorTypeTemperature:
		var r TemperatureReading
		if err := json.Unmarshal(env.Payload, &r); err != nil {
			return nil, err
		}
		return r, nil
	case SensorTypeHumidity:
		var r HumidityReading
		if err := json.Unmarshal(env.Payload, &r); err != nil {
			return nil, err
		}
		return r, nil
	case SensorTypeAirQuality:
		var r AirQualityReading
		if err := json.Unmarshal(env.Payload, &r); err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown sensor type: %q", env.SensorType)
	}
}
