// Package model defines the validated value objects shared across the
// simulator: sensor measurements, fused estimates, per-tick telemetry, and
// the enums that classify them. Types here carry no behavior beyond
// construction-time validation; mutation after construction is not supported.
package model

import "fmt"

// SensorType identifies the class of a simulated sensor feed.
type SensorType string

const (
	SensorIMU   SensorType = "IMU"
	SensorGNSS  SensorType = "GNSS"
	SensorBARO  SensorType = "BARO"
	SensorRADAR SensorType = "RADAR"
	SensorEOIR  SensorType = "EOIR"
	SensorRF    SensorType = "RF"
	SensorLINK  SensorType = "LINK"
)

var validSensorTypes = map[SensorType]bool{
	SensorIMU:   true,
	SensorGNSS:  true,
	SensorBARO:  true,
	SensorRADAR: true,
	SensorEOIR:  true,
	SensorRF:    true,
	SensorLINK:  true,
}

// Valid reports whether t is one of the supported sensor types.
func (t SensorType) Valid() bool { return validSensorTypes[t] }

// PositionCapable reports whether measurements of this type carry an absolute
// position in the first 3 components of z and may participate in position
// fusion.
func (t SensorType) PositionCapable() bool {
	return t == SensorGNSS || t == SensorEOIR || t == SensorRADAR
}

// SystemState is the discrete governance classification for a tick.
type SystemState string

const (
	StateStable   SystemState = "STABLE"
	StateTense    SystemState = "TENSE"
	StateHighRisk SystemState = "HIGH_RISK"
	StateCritical SystemState = "CRITICAL"
)

func rangeErr(field string, v float64, lo, hi float64) error {
	return fmt.Errorf("model: %s = %v outside [%v, %v]", field, v, lo, hi)
}
