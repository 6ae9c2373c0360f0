// Package config holds the numeric knobs for fusion, governance, and
// buffering. Values are loadable from YAML with safe fallback to defaults: a
// missing or malformed file degrades to Default() with a logged warning and
// never aborts the run.
package config

import (
	"bytes"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// FusionConfig is the global configuration for fusion, governance, and
// history buffering.
type FusionConfig struct {
	// Time / cadence
	DTSeconds        float64 `yaml:"dt_seconds"`
	FusionTimeGateMS float64 `yaml:"fusion_time_gate_ms"`
	StaleTicks       int     `yaml:"stale_ticks"`

	// History limits (ring buffer capacities)
	MaxTelemetryHistory   int `yaml:"max_telemetry_history"`
	MaxMeasurementHistory int `yaml:"max_measurement_history"`
	MaxAuditHistory       int `yaml:"max_audit_history"`

	// Per-sensor-type fusion weight priors. Types absent from the map get
	// DefaultTypeWeight.
	PositionFusionWeight map[string]float64 `yaml:"position_fusion_weight"`

	// Governance thresholds
	ClarityWarningThreshold  float64 `yaml:"clarity_warning_threshold"`
	ClarityCriticalThreshold float64 `yaml:"clarity_critical_threshold"`
	FusionConfWarning        float64 `yaml:"fusion_conf_warning"`
	FusionConfCritical       float64 `yaml:"fusion_conf_critical"`
}

// DefaultTypeWeight is the prior applied to sensor types with no entry in
// PositionFusionWeight.
const DefaultTypeWeight = 0.5

// Default returns the built-in configuration.
func Default() FusionConfig {
	return FusionConfig{
		DTSeconds:             1.0,
		FusionTimeGateMS:      350.0,
		StaleTicks:            6,
		MaxTelemetryHistory:   600,
		MaxMeasurementHistory: 3000,
		MaxAuditHistory:       1000,
		PositionFusionWeight: map[string]float64{
			"GNSS":  1.0,
			"EOIR":  0.8,
			"RADAR": 0.9,
			"BARO":  0.3,
		},
		ClarityWarningThreshold:  75.0,
		ClarityCriticalThreshold: 65.0,
		FusionConfWarning:        0.6,
		FusionConfCritical:       0.4,
	}
}

// TypeWeight returns the fusion prior for a sensor type name.
func (c FusionConfig) TypeWeight(sensorType string) float64 {
	if w, ok := c.PositionFusionWeight[sensorType]; ok {
		return w
	}
	return DefaultTypeWeight
}

// Load reads a FusionConfig from a YAML file. Unknown keys are rejected by
// the decoder so typos surface as warnings instead of silently applying
// defaults field-by-field. Any failure falls back to Default().
func Load(path string) FusionConfig {
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Warnf("config: cannot read %s, using defaults: %v", path, err)
		return Default()
	}

	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		logrus.Warnf("config: cannot parse %s, using defaults: %v", path, err)
		return Default()
	}
	if err := cfg.validate(); err != nil {
		logrus.Warnf("config: %s rejected, using defaults: %v", path, err)
		return Default()
	}
	return cfg
}

func (c FusionConfig) validate() error {
	switch {
	case c.DTSeconds <= 0:
		return errValue("dt_seconds must be > 0")
	case c.FusionTimeGateMS <= 0:
		return errValue("fusion_time_gate_ms must be > 0")
	case c.MaxTelemetryHistory <= 0 || c.MaxMeasurementHistory <= 0 || c.MaxAuditHistory <= 0:
		return errValue("history capacities must be > 0")
	}
	return nil
}

type errValue string

func (e errValue) Error() string { return string(e) }
