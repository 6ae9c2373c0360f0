// Package presets holds the static scenario tables: areas of operation,
// environment degradation profiles, flight envelopes, governance threshold
// presets, and mission stages. The core only reads the currently selected
// preset; lookups by unknown name degrade to a safe default with a logged
// warning rather than failing the tick.
package presets

import "github.com/sirupsen/logrus"

// AOConfig bounds the area of operation: a base coordinate plus the jitter
// deltas the ground-truth walk stays inside.
type AOConfig struct {
	Label    string
	BaseLat  float64
	BaseLon  float64
	LatDelta float64
	LonDelta float64
}

// EnvProfile parameterizes environmental degradation for the sensor
// simulator.
type EnvProfile struct {
	Name          string
	LatencyBase   float64
	LatencyJitter float64
	ThermalBias   float64
	IMUDriftBias  float64
	GNSSJamFactor float64
	EOIRDegrade   float64
}

// Envelope is a flight envelope: the maxima governance normalizes against.
type Envelope struct {
	Name            string
	MaxMach         float64
	MaxQKPa         float64
	MaxG            float64
	MaxThermalIndex float64
	MaxLatencyMS    float64
	Description     string
}

// Threshold is a governance alerting preset.
type Threshold struct {
	Name             string
	ClarityThreshold float64
	ThreatThreshold  float64
	Description      string
}

// MissionStage is one entry in the scripted mission profile. Duration is in
// ticks; the final stage is open-ended.
type MissionStage struct {
	Code        string
	Label       string
	Duration    int64
	Description string
}

// Default selector names.
const (
	DefaultAO          = "Test Range (synthetic)"
	DefaultEnvironment = "Clear Skies / Clean Link"
	DefaultEnvelope    = "Nominal Demo Flight"
	DefaultThreshold   = "Balanced"
)

var AreasOfOperation = map[string]AOConfig{
	"Kharkiv (synthetic)": {
		Label:    "Kharkiv Region",
		BaseLat:  49.9935,
		BaseLon:  36.2304,
		LatDelta: 0.08,
		LonDelta: 0.12,
	},
	"Black Sea (synthetic)": {
		Label:    "Black Sea",
		BaseLat:  44.5,
		BaseLon:  34.0,
		LatDelta: 0.2,
		LonDelta: 0.3,
	},
	"Test Range (synthetic)": {
		Label:    "Test Range",
		BaseLat:  35.0,
		BaseLon:  -117.0,
		LatDelta: 0.1,
		LonDelta: 0.1,
	},
}

var Environments = map[string]EnvProfile{
	"Clear Skies / Clean Link": {
		Name:          "Clear",
		LatencyBase:   120,
		LatencyJitter: 40,
	},
	"High Latency Link": {
		Name:          "High Lat",
		LatencyBase:   260,
		LatencyJitter: 80,
		ThermalBias:   0.05,
		IMUDriftBias:  0.02,
		GNSSJamFactor: 0.05,
		EOIRDegrade:   0.10,
	},
	"GNSS Degraded / Spoof Risk": {
		Name:          "GNSS Degraded",
		LatencyBase:   180,
		LatencyJitter: 70,
		ThermalBias:   0.03,
		IMUDriftBias:  0.03,
		GNSSJamFactor: 0.55,
		EOIRDegrade:   0.15,
	},
	"EO/IR Degraded": {
		Name:          "EOIR Degraded",
		LatencyBase:   140,
		LatencyJitter: 60,
		ThermalBias:   0.02,
		IMUDriftBias:  0.02,
		GNSSJamFactor: 0.05,
		EOIRDegrade:   0.55,
	},
}

var Envelopes = map[string]Envelope{
	"Nominal Demo Flight": {
		Name:            "Nominal Demo Flight",
		MaxMach:         1.8,
		MaxQKPa:         650,
		MaxG:            4.5,
		MaxThermalIndex: 0.78,
		MaxLatencyMS:    300,
		Description:     "Balanced flight envelope",
	},
	"Conservative Test Profile": {
		Name:            "Conservative Test Profile",
		MaxMach:         1.2,
		MaxQKPa:         450,
		MaxG:            3.5,
		MaxThermalIndex: 0.65,
		MaxLatencyMS:    250,
		Description:     "Tight, conservative envelope",
	},
	"Aggressive Envelope Probe": {
		Name:            "Aggressive Envelope Probe",
		MaxMach:         2.3,
		MaxQKPa:         800,
		MaxG:            5.5,
		MaxThermalIndex: 0.90,
		MaxLatencyMS:    350,
		Description:     "Aggressive test envelope",
	},
}

var Thresholds = map[string]Threshold{
	"Balanced": {
		Name:             "Balanced",
		ClarityThreshold: 75,
		ThreatThreshold:  65,
		Description:      "Standard operational thresholds",
	},
	"Conservative": {
		Name:             "Conservative",
		ClarityThreshold: 85,
		ThreatThreshold:  55,
		Description:      "Higher safety margins",
	},
	"Aggressive": {
		Name:             "Aggressive",
		ClarityThreshold: 65,
		ThreatThreshold:  75,
		Description:      "Accept higher risk for mission",
	},
}

// MissionStages is the scripted mission profile, in order. The RTB stage is
// effectively unbounded so the run never walks off the end of the table.
var MissionStages = []MissionStage{
	{Code: "STAGE_1_BOOST", Label: "Boost", Duration: 40, Description: "Initial acceleration phase"},
	{Code: "STAGE_2_GRID", Label: "Grid", Duration: 70, Description: "Grid search pattern"},
	{Code: "STAGE_3_RELAY", Label: "Relay", Duration: 70, Description: "Data relay and communication"},
	{Code: "STAGE_4_COLLAPSE", Label: "Collapse", Duration: 50, Description: "Orbit collapse and descent"},
	{Code: "STAGE_5_RTB", Label: "RTB", Duration: 9999, Description: "Return to base"},
}

// FlightPhase maps a mission stage code to the coarse flight phase reported
// in telemetry.
func FlightPhase(stageCode string) string {
	switch stageCode {
	case "STAGE_1_BOOST":
		return "ASCENT"
	case "STAGE_4_COLLAPSE":
		return "DESCENT"
	case "STAGE_5_RTB":
		return "EGRESS"
	default:
		return "CRUISE"
	}
}

// StageAt returns the mission stage at index, clamped to the table bounds.
func StageAt(index int) MissionStage {
	if index < 0 {
		index = 0
	}
	if index >= len(MissionStages) {
		index = len(MissionStages) - 1
	}
	return MissionStages[index]
}

// AO resolves an area-of-operation name, falling back to DefaultAO.
func AO(name string) AOConfig {
	if ao, ok := AreasOfOperation[name]; ok {
		return ao
	}
	logrus.Warnf("presets: unknown AO %q, using %q", name, DefaultAO)
	return AreasOfOperation[DefaultAO]
}

// Environment resolves an environment profile name, falling back to
// DefaultEnvironment.
func Environment(name string) EnvProfile {
	if env, ok := Environments[name]; ok {
		return env
	}
	logrus.Warnf("presets: unknown environment %q, using %q", name, DefaultEnvironment)
	return Environments[DefaultEnvironment]
}

// EnvelopeByName resolves a flight envelope name, falling back to
// DefaultEnvelope.
func EnvelopeByName(name string) Envelope {
	if e, ok := Envelopes[name]; ok {
		return e
	}
	logrus.Warnf("presets: unknown envelope %q, using %q", name, DefaultEnvelope)
	return Envelopes[DefaultEnvelope]
}

// ThresholdByName resolves a threshold preset name, falling back to
// DefaultThreshold.
func ThresholdByName(name string) Threshold {
	if t, ok := Thresholds[name]; ok {
		return t
	}
	logrus.Warnf("presets: unknown threshold preset %q, using %q", name, DefaultThreshold)
	return Thresholds[DefaultThreshold]
}
