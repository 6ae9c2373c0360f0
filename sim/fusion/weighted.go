package fusion

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/FoxhunterLabs/Casper-Fusion/sim/config"
	"github.com/FoxhunterLabs/Casper-Fusion/sim/model"
)

// Per-axis scale factors that make lat/lon and altitude deviations comparable
// when computing dispersion.
var dispersionScale = [3]float64{1e-3, 1e-3, 10.0}

// Weighted is the default fusion strategy: a deterministic weighted average
// over position-capable measurements. Weights combine inverse covariance
// trace, a latency penalty, measurement quality, and the configured
// sensor-type prior.
type Weighted struct {
	cfg config.FusionConfig
}

func NewWeighted(cfg config.FusionConfig) *Weighted { return &Weighted{cfg: cfg} }

func (w *Weighted) Name() string { return StrategyWeighted }

func (w *Weighted) weight(m model.SensorMeasurement) float64 {
	covTerm := 1.0 / math.Max(m.CovTrace(), 1e-9)
	latencyTerm := 1.0 / (1.0 + m.LatencyMS/200.0)
	qualityTerm := clip(m.Quality, 0, 1)
	typeTerm := w.cfg.TypeWeight(string(m.Type))
	return math.Max(0, covTerm*latencyTerm*qualityTerm*typeTerm)
}

// Fuse restricts the input to non-dropped position-capable measurements and
// returns their normalized weighted average. With no usable input it returns
// the fixed low-confidence fallback so governance and telemetry can proceed
// every tick regardless of sensor health.
func (w *Weighted) Fuse(measurements []model.SensorMeasurement) (model.FusedEstimate, error) {
	var pos []model.SensorMeasurement
	for _, m := range measurements {
		if m.Type.PositionCapable() && !m.Dropped {
			pos = append(pos, m)
		}
	}
	if len(pos) == 0 {
		return fallback()
	}

	weights := make([]float64, len(pos))
	for i, m := range pos {
		weights[i] = w.weight(m)
	}
	if sum := floats.Sum(weights); sum <= 1e-12 {
		uniform := 1.0 / float64(len(weights))
		for i := range weights {
			weights[i] = uniform
		}
	} else {
		floats.Scale(1.0/sum, weights)
	}

	var fused [3]float64
	for i, m := range pos {
		z := m.Z3()
		for k := 0; k < 3; k++ {
			fused[k] += weights[i] * z[k]
		}
	}

	conf, surprise := w.confidence(pos, weights, fused)

	contrib := make(map[string]float64, len(pos))
	for i, m := range pos {
		contrib[m.SensorID] = weights[i]
	}

	return model.NewFusedEstimate(model.FusedEstimate{
		Lat:           fused[0],
		Lon:           fused[1],
		AltitudeM:     fused[2],
		FusionConf:    conf,
		Surprise:      surprise,
		SensorContrib: contrib,
		UsedMeasCount: len(pos),
	})
}

// confidence derives agreement scores from the weighted dispersion of the
// scaled deviations around the fused position. Fewer than two measurements
// give no dispersion signal, so both scores pin to 0.5.
func (w *Weighted) confidence(measurements []model.SensorMeasurement, weights []float64, fused [3]float64) (conf, surprise float64) {
	if len(measurements) < 2 {
		return 0.5, 0.5
	}

	var sumSq float64
	for i, m := range measurements {
		z := m.Z3()
		for k := 0; k < 3; k++ {
			d := (z[k] - fused[k]) / dispersionScale[k]
			sumSq += weights[i] * d * d
		}
	}
	dispersion := math.Sqrt(sumSq)

	surprise = clip(dispersion/2.0, 0, 1)
	conf = clip(1.0-surprise, 0, 1)
	return conf, surprise
}

func fallback() (model.FusedEstimate, error) {
	return model.NewFusedEstimate(model.FusedEstimate{
		FusionConf:    0.1,
		Surprise:      1.0,
		SensorContrib: map[string]float64{},
	})
}

func clip(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
