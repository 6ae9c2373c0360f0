// Package audit builds the tamper-evident per-tick fusion summaries. Each
// record captures which measurements fusion actually used and what it
// produced, identified by a SHA-256 digest over the canonical JSON form of
// the payload. Building a record is a pure function: identical inputs always
// yield an identical record including the digest.
package audit

import (
	"fmt"

	"github.com/FoxhunterLabs/Casper-Fusion/sim/model"
)

// Record is one audit entry.
type Record struct {
	Tick             int64            `json:"tick"`
	UTC              string           `json:"utc"`
	UsedMeasurements []map[string]any `json:"used_measurements"`
	FusedOutput      map[string]any   `json:"fused_output"`
	SHA256           string           `json:"sha256"`
}

// Build summarizes the fusion inputs and output for one tick and computes the
// digest. Summaries are compact on purpose: first-3 components of z and
// trace(R) instead of full matrices, to keep exports readable.
func Build(tick int64, utc string, used []model.SensorMeasurement, fused model.FusedEstimate) (Record, error) {
	if tick < 0 {
		return Record{}, fmt.Errorf("audit: tick %d < 0", tick)
	}

	usedPayload := make([]map[string]any, 0, len(used))
	for _, m := range used {
		z3 := m.Z3()
		meta := make(map[string]any, len(m.Meta))
		for k, v := range m.Meta {
			meta[k] = v
		}
		usedPayload = append(usedPayload, map[string]any{
			"sensor_id":  m.SensorID,
			"type":       string(m.Type),
			"quality":    m.Quality,
			"latency_ms": m.LatencyMS,
			"tick":       m.Tick,
			"z3":         []float64{z3[0], z3[1], z3[2]},
			"R_trace":    m.CovTrace(),
			"dropped":    m.Dropped,
			"meta":       meta,
		})
	}

	contrib := make(map[string]any, len(fused.SensorContrib))
	for k, v := range fused.SensorContrib {
		contrib[k] = v
	}
	fusedPayload := map[string]any{
		"lat":             fused.Lat,
		"lon":             fused.Lon,
		"altitude_m":      fused.AltitudeM,
		"velocity_mps":    fused.VelocityMPS,
		"heading_deg":     fused.HeadingDeg,
		"fusion_conf":     fused.FusionConf,
		"surprise":        fused.Surprise,
		"sensor_contrib":  contrib,
		"used_meas_count": fused.UsedMeasCount,
	}

	payload := map[string]any{
		"tick":  tick,
		"utc":   utc,
		"used":  usedPayload,
		"fused": fusedPayload,
	}

	raw, err := StableJSON(payload)
	if err != nil {
		return Record{}, fmt.Errorf("audit: canonical serialization: %w", err)
	}

	return Record{
		Tick:             tick,
		UTC:              utc,
		UsedMeasurements: usedPayload,
		FusedOutput:      fusedPayload,
		SHA256:           hashBytes(raw),
	}, nil
}

// Digest recomputes the digest a record's payload should carry. Used by
// verification; Build already stores it.
func Digest(r Record) (string, error) {
	payload := map[string]any{
		"tick":  r.Tick,
		"utc":   r.UTC,
		"used":  r.UsedMeasurements,
		"fused": r.FusedOutput,
	}
	raw, err := StableJSON(payload)
	if err != nil {
		return "", fmt.Errorf("audit: canonical serialization: %w", err)
	}
	return hashBytes(raw), nil
}
