// Package fusion converts a set of buffered sensor measurements into one
// fused position estimate per tick: a time-gate policy selects which
// measurements are still usable, and a pluggable strategy performs the
// weighting and confidence scoring.
package fusion

import (
	"errors"

	"github.com/FoxhunterLabs/Casper-Fusion/sim/config"
	"github.com/FoxhunterLabs/Casper-Fusion/sim/model"
	"github.com/sirupsen/logrus"
)

// ErrNotImplemented is returned by strategy stubs that exist as named slots
// but must never be silently approximated.
var ErrNotImplemented = errors.New("fusion: strategy not implemented")

// Strategy fuses validated measurements into a FusedEstimate.
type Strategy interface {
	Name() string
	Fuse(measurements []model.SensorMeasurement) (model.FusedEstimate, error)
}

// Strategy names accepted by NewStrategy.
const (
	StrategyWeighted = "weighted"
	StrategyKalman   = "kalman"
)

// NewStrategy resolves a strategy by name. Unknown names fall back to the
// weighted strategy: scenario selection must never fail a tick.
func NewStrategy(cfg config.FusionConfig, name string) Strategy {
	switch name {
	case StrategyWeighted:
		return &Weighted{cfg: cfg}
	case StrategyKalman:
		return &Kalman{}
	default:
		logrus.Warnf("fusion: unknown strategy %q, using %q", name, StrategyWeighted)
		return &Weighted{cfg: cfg}
	}
}

// Kalman is a declared-but-unimplemented strategy slot. Invoking it fails
// loudly; the caller must treat the error as fatal rather than substitute
// another strategy.
type Kalman struct{}

func (k *Kalman) Name() string { return StrategyKalman }

func (k *Kalman) Fuse([]model.SensorMeasurement) (model.FusedEstimate, error) {
	return model.FusedEstimate{}, ErrNotImplemented
}
