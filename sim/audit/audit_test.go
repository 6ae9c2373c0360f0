package audit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FoxhunterLabs/Casper-Fusion/sim/model"
)

func sampleMeasurement(t *testing.T, meta map[string]any) model.SensorMeasurement {
	t.Helper()
	m, err := model.NewSensorMeasurement(12, "2026-01-01T00:00:12Z", "GNSS_A", model.SensorGNSS,
		[]float64{49.99, 36.23, 5200}, model.DiagCov(1e-8, 1e-8, 12.25),
		0.85, 45, false, meta)
	require.NoError(t, err)
	return m
}

func sampleFused() model.FusedEstimate {
	return model.FusedEstimate{
		Lat:           49.99,
		Lon:           36.23,
		AltitudeM:     5200,
		FusionConf:    0.82,
		Surprise:      0.18,
		SensorContrib: map[string]float64{"GNSS_A": 1.0},
		UsedMeasCount: 1,
	}
}

func TestBuild_DigestIsDeterministic(t *testing.T) {
	used := []model.SensorMeasurement{sampleMeasurement(t, map[string]any{"jammed": false})}

	a, err := Build(12, "2026-01-01T00:00:12Z", used, sampleFused())
	require.NoError(t, err)
	b, err := Build(12, "2026-01-01T00:00:12Z", used, sampleFused())
	require.NoError(t, err)

	assert.Equal(t, a.SHA256, b.SHA256)
	assert.Len(t, a.SHA256, 64)
}

func TestBuild_DigestIgnoresMetaInsertionOrder(t *testing.T) {
	// Same meta content built in different insertion orders must hash
	// identically: the canonical form sorts keys.
	metaA := map[string]any{}
	metaA["jammed"] = true
	metaA["spoofed"] = false
	metaA["hdop"] = 1.4

	metaB := map[string]any{}
	metaB["hdop"] = 1.4
	metaB["spoofed"] = false
	metaB["jammed"] = true

	a, err := Build(12, "u", []model.SensorMeasurement{sampleMeasurement(t, metaA)}, sampleFused())
	require.NoError(t, err)
	b, err := Build(12, "u", []model.SensorMeasurement{sampleMeasurement(t, metaB)}, sampleFused())
	require.NoError(t, err)

	assert.Equal(t, a.SHA256, b.SHA256)
}

func TestBuild_DigestChangesWithInputs(t *testing.T) {
	used := []model.SensorMeasurement{sampleMeasurement(t, nil)}

	base, err := Build(12, "u", used, sampleFused())
	require.NoError(t, err)

	otherTick, err := Build(13, "u", used, sampleFused())
	require.NoError(t, err)
	assert.NotEqual(t, base.SHA256, otherTick.SHA256)

	shifted := sampleFused()
	shifted.Lat += 0.001
	otherFused, err := Build(12, "u", used, shifted)
	require.NoError(t, err)
	assert.NotEqual(t, base.SHA256, otherFused.SHA256)
}

func TestBuild_RejectsNegativeTick(t *testing.T) {
	_, err := Build(-1, "u", nil, sampleFused())
	assert.Error(t, err)
}

func TestDigest_SurvivesJSONRoundTrip(t *testing.T) {
	// Exported records come back with json-generic types (float64 numbers,
	// []any slices); the canonical form must still reproduce the digest.
	used := []model.SensorMeasurement{sampleMeasurement(t, map[string]any{"jammed": true})}
	rec, err := Build(12, "2026-01-01T00:00:12Z", used, sampleFused())
	require.NoError(t, err)

	raw, err := json.Marshal(rec)
	require.NoError(t, err)
	var decoded Record
	require.NoError(t, json.Unmarshal(raw, &decoded))

	got, err := Digest(decoded)
	require.NoError(t, err)
	assert.Equal(t, rec.SHA256, got)
}

func TestVerifyChain_AcceptsValidChain(t *testing.T) {
	var records []Record
	for tick := int64(1); tick <= 5; tick++ {
		rec, err := Build(tick, "u", []model.SensorMeasurement{sampleMeasurement(t, nil)}, sampleFused())
		require.NoError(t, err)
		records = append(records, rec)
	}

	report := VerifyChain(records)
	assert.True(t, report.OK)
	assert.Equal(t, 5, report.Total)
	assert.Equal(t, int64(5), report.LastTick)
	assert.Equal(t, records[4].SHA256, report.LastHash)
	assert.Empty(t, report.Errors)
}

func TestVerifyChain_DetectsTampering(t *testing.T) {
	rec, err := Build(3, "u", []model.SensorMeasurement{sampleMeasurement(t, nil)}, sampleFused())
	require.NoError(t, err)

	rec.FusedOutput["fusion_conf"] = 0.99

	report := VerifyChain([]Record{rec})
	assert.False(t, report.OK)
	assert.NotEmpty(t, report.Errors)
}

func TestVerifyChain_DetectsNonIncreasingTicks(t *testing.T) {
	a, err := Build(3, "u", nil, sampleFused())
	require.NoError(t, err)
	b, err := Build(3, "u", nil, sampleFused())
	require.NoError(t, err)

	report := VerifyChain([]Record{a, b})
	assert.False(t, report.OK)
	assert.NotEmpty(t, report.Errors)
}

func TestStableJSON_NoHTMLEscaping(t *testing.T) {
	raw, err := StableJSON(map[string]string{"k": "a<b>&c"})
	require.NoError(t, err)
	assert.Equal(t, `{"k":"a<b>&c"}`, string(raw))
}
