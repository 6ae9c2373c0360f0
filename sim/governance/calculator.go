// Package governance converts the fused estimate plus physical and threat
// signals into the operator-facing clarity/risk pair, a one-tick-ahead risk
// extrapolation, and the discrete system-state classification. The only state
// carried across ticks is the exponentially smoothed clarity.
package governance

import (
	"math"

	"github.com/FoxhunterLabs/Casper-Fusion/sim/config"
	"github.com/FoxhunterLabs/Casper-Fusion/sim/model"
	"github.com/FoxhunterLabs/Casper-Fusion/sim/presets"
)

// clarityEMAInit is the smoothed-clarity starting point for a fresh run.
const clarityEMAInit = 0.9

// PhysicalSignals are the truth-side inputs to governance.
type PhysicalSignals struct {
	QKPa         float64
	ThermalIndex float64
	ThreatIndex  float64
}

// Result is the governance output for one tick.
type Result struct {
	Clarity          float64
	Risk             float64
	PredictedRisk    float64
	State            model.SystemState
	EnvelopePressure float64
}

// Calculator computes clarity and risk with memory across ticks. It is not
// safe for concurrent use; the step engine owns one per run.
type Calculator struct {
	cfg        config.FusionConfig
	clarityEMA float64
}

func NewCalculator(cfg config.FusionConfig) *Calculator {
	return &Calculator{cfg: cfg, clarityEMA: clarityEMAInit}
}

// Reset clears the clarity memory independently of the rest of the run
// state.
func (c *Calculator) Reset() { c.clarityEMA = clarityEMAInit }

// ClarityEMA exposes the current smoothed clarity in [0,1].
func (c *Calculator) ClarityEMA() float64 { return c.clarityEMA }

// Compute derives clarity, risk, predicted risk, and the system state from
// the envelope, physical signals, and fusion epistemics.
//
// Normalization allows modest overshoot above the envelope maxima (q up to
// 1.6x, thermal up to 1.8x) so envelope violation registers as pressure > 1
// instead of saturating at the limit.
func (c *Calculator) Compute(envelope presets.Envelope, phys PhysicalSignals, fused model.FusedEstimate) Result {
	qNorm := clip(phys.QKPa/envelope.MaxQKPa, 0, 1.6)
	thermalNorm := clip(phys.ThermalIndex/envelope.MaxThermalIndex, 0, 1.8)
	threatNorm := clip(phys.ThreatIndex/100.0, 0, 1)

	pressure := 0.6*qNorm + 0.4*thermalNorm

	// Raw clarity from physical conditions, then degraded by fusion
	// epistemics: a low-confidence or high-surprise fusion makes the picture
	// less clear even when conditions are benign.
	raw := clip(1.0-pressure-0.3*threatNorm, 0.55, 1.0)
	raw *= clip(0.70+0.30*fused.FusionConf, 0, 1)
	raw *= clip(1.0-0.30*fused.Surprise, 0, 1)

	c.clarityEMA = 0.15*raw + 0.85*c.clarityEMA
	clarity := c.clarityEMA * 100.0

	risk := clip(
		pressure*60.0+
			(100.0-clarity)*0.45+
			(1.0-fused.FusionConf)*18.0+
			fused.Surprise*14.0,
		0, 100)

	predicted := clip(risk+8.0*(pressure-0.8), 0, 100)

	var state model.SystemState
	switch {
	case clarity >= 90 && risk < 30:
		state = model.StateStable
	case clarity >= 80:
		state = model.StateTense
	case clarity >= 65:
		state = model.StateHighRisk
	default:
		state = model.StateCritical
	}

	return Result{
		Clarity:          clarity,
		Risk:             risk,
		PredictedRisk:    predicted,
		State:            state,
		EnvelopePressure: pressure,
	}
}

func clip(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
