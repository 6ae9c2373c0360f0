package fusion

import (
	"math"

	"github.com/FoxhunterLabs/Casper-Fusion/sim/config"
	"github.com/FoxhunterLabs/Casper-Fusion/sim/model"
)

// Engine applies the time-gate selection policy and delegates to the active
// strategy. It is stateless across ticks; the step engine constructs one per
// run configuration.
type Engine struct {
	cfg      config.FusionConfig
	strategy Strategy
}

// NewEngine builds an engine for the named strategy. Unknown names degrade to
// the weighted strategy.
func NewEngine(cfg config.FusionConfig, strategyName string) *Engine {
	return &Engine{cfg: cfg, strategy: NewStrategy(cfg, strategyName)}
}

// Strategy returns the active strategy.
func (e *Engine) Strategy() Strategy { return e.strategy }

// SelectMeasurements returns the non-dropped measurements whose age falls
// inside the fusion time gate, scanning most-recent-first.
//
// age_ms = |(current_tick - m.tick) * dt_seconds * 1000 + latency_ms|
//
// The scan stops at the first in-gate miss: history is chronologically
// monotonic, so once one entry is too old every older entry is too. Dropped
// measurements are skipped without terminating the scan. The gate is
// inclusive (age_ms == gate_ms selects).
func (e *Engine) SelectMeasurements(history []model.SensorMeasurement, currentTick int64) []model.SensorMeasurement {
	gate := e.cfg.FusionTimeGateMS
	var selected []model.SensorMeasurement

	for i := len(history) - 1; i >= 0; i-- {
		m := history[i]
		if m.Dropped {
			continue
		}
		tickDelta := float64(currentTick - m.Tick)
		ageMS := math.Abs(tickDelta*e.cfg.DTSeconds*1000.0 + m.LatencyMS)
		if ageMS <= gate {
			selected = append(selected, m)
		} else {
			break
		}
	}
	return selected
}

// Fuse selects the usable measurements for currentTick and runs the active
// strategy over them. The returned slice is exactly the selection the
// strategy saw, so the audit builder records the same inputs fusion used.
func (e *Engine) Fuse(history []model.SensorMeasurement, currentTick int64) (model.FusedEstimate, []model.SensorMeasurement, error) {
	selected := e.SelectMeasurements(history, currentTick)
	fused, err := e.strategy.Fuse(selected)
	if err != nil {
		return model.FusedEstimate{}, nil, err
	}
	return fused, selected, nil
}
