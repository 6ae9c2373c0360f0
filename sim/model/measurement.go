package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// SensorMeasurement is one sensor's reading at a tick. Z is the measurement
// vector and R its covariance; semantics of the components depend on the
// sensor type (position sensors carry lat/lon/alt in Z[0:3]).
//
// A dropped measurement still carries a synthetic Z/R so the audit trail is
// complete, but fusion must exclude it.
type SensorMeasurement struct {
	Tick      int64
	UTC       string
	SensorID  string
	Type      SensorType
	Z         []float64
	R         *mat.SymDense
	Quality   float64
	LatencyMS float64
	Dropped   bool
	Meta      map[string]any
}

// NewSensorMeasurement validates and builds a measurement. Z and Meta are
// copied so the caller cannot alias internal state; R is copied for the same
// reason. Invalid shapes or out-of-range fields are rejected outright rather
// than coerced.
func NewSensorMeasurement(tick int64, utc, sensorID string, typ SensorType, z []float64, r *mat.SymDense,
	quality, latencyMS float64, dropped bool, meta map[string]any) (SensorMeasurement, error) {

	if tick < 0 {
		return SensorMeasurement{}, fmt.Errorf("model: measurement tick %d < 0", tick)
	}
	if sensorID == "" {
		return SensorMeasurement{}, fmt.Errorf("model: measurement sensor id is empty")
	}
	if !typ.Valid() {
		return SensorMeasurement{}, fmt.Errorf("model: unknown sensor type %q", typ)
	}
	if len(z) == 0 {
		return SensorMeasurement{}, fmt.Errorf("model: measurement vector z is empty")
	}
	if r == nil {
		return SensorMeasurement{}, fmt.Errorf("model: covariance R is nil")
	}
	if r.SymmetricDim() != len(z) {
		return SensorMeasurement{}, fmt.Errorf("model: covariance R is %dx%d but z has %d components",
			r.SymmetricDim(), r.SymmetricDim(), len(z))
	}
	if quality < 0 || quality > 1 {
		return SensorMeasurement{}, rangeErr("quality", quality, 0, 1)
	}
	if latencyMS < 0 {
		return SensorMeasurement{}, fmt.Errorf("model: latency_ms %v < 0", latencyMS)
	}

	zc := make([]float64, len(z))
	copy(zc, z)

	rc := mat.NewSymDense(r.SymmetricDim(), nil)
	rc.CopySym(r)

	mc := make(map[string]any, len(meta))
	for k, v := range meta {
		mc[k] = v
	}

	return SensorMeasurement{
		Tick:      tick,
		UTC:       utc,
		SensorID:  sensorID,
		Type:      typ,
		Z:         zc,
		R:         rc,
		Quality:   quality,
		LatencyMS: latencyMS,
		Dropped:   dropped,
		Meta:      mc,
	}, nil
}

// CovTrace returns trace(R).
func (m SensorMeasurement) CovTrace() float64 { return mat.Trace(m.R) }

// Z3 returns the first three components of Z (padded with zeros if shorter).
func (m SensorMeasurement) Z3() [3]float64 {
	var out [3]float64
	copy(out[:], m.Z)
	return out
}

// DiagCov builds a diagonal covariance matrix from per-axis variances.
func DiagCov(variances ...float64) *mat.SymDense {
	r := mat.NewSymDense(len(variances), nil)
	for i, v := range variances {
		r.SetSym(i, i, v)
	}
	return r
}
