package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSensorMeasurement_Valid(t *testing.T) {
	m, err := NewSensorMeasurement(3, "2026-01-01T00:00:03Z", "GNSS_A", SensorGNSS,
		[]float64{49.99, 36.23, 5200}, DiagCov(1e-8, 1e-8, 12.25),
		0.9, 85, false, map[string]any{"jam_factor": 0.1})
	require.NoError(t, err)

	assert.Equal(t, int64(3), m.Tick)
	assert.Equal(t, SensorGNSS, m.Type)
	assert.InDelta(t, 12.25+2e-8, m.CovTrace(), 1e-12)
	assert.Equal(t, [3]float64{49.99, 36.23, 5200}, m.Z3())
}

func TestNewSensorMeasurement_Rejects(t *testing.T) {
	z := []float64{1, 2, 3}
	r := DiagCov(1, 1, 1)

	cases := []struct {
		name string
		fn   func() error
	}{
		{"negative tick", func() error {
			_, err := NewSensorMeasurement(-1, "t", "S1", SensorIMU, z, r, 0.5, 10, false, nil)
			return err
		}},
		{"empty sensor id", func() error {
			_, err := NewSensorMeasurement(0, "t", "", SensorIMU, z, r, 0.5, 10, false, nil)
			return err
		}},
		{"unknown type", func() error {
			_, err := NewSensorMeasurement(0, "t", "S1", SensorType("SONAR"), z, r, 0.5, 10, false, nil)
			return err
		}},
		{"empty z", func() error {
			_, err := NewSensorMeasurement(0, "t", "S1", SensorIMU, nil, r, 0.5, 10, false, nil)
			return err
		}},
		{"nil covariance", func() error {
			_, err := NewSensorMeasurement(0, "t", "S1", SensorIMU, z, nil, 0.5, 10, false, nil)
			return err
		}},
		{"covariance dim mismatch", func() error {
			_, err := NewSensorMeasurement(0, "t", "S1", SensorIMU, z, DiagCov(1, 1), 0.5, 10, false, nil)
			return err
		}},
		{"quality above 1", func() error {
			_, err := NewSensorMeasurement(0, "t", "S1", SensorIMU, z, r, 1.1, 10, false, nil)
			return err
		}},
		{"negative latency", func() error {
			_, err := NewSensorMeasurement(0, "t", "S1", SensorIMU, z, r, 0.5, -1, false, nil)
			return err
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.fn())
		})
	}
}

func TestNewSensorMeasurement_CopiesInputs(t *testing.T) {
	z := []float64{1, 2, 3}
	meta := map[string]any{"k": 1.0}
	m, err := NewSensorMeasurement(0, "t", "S1", SensorRADAR, z, DiagCov(1, 1, 1), 0.5, 10, false, meta)
	require.NoError(t, err)

	z[0] = 99
	meta["k"] = 2.0

	assert.Equal(t, 1.0, m.Z[0])
	assert.Equal(t, 1.0, m.Meta["k"])
}

func TestSensorType_PositionCapable(t *testing.T) {
	for _, typ := range []SensorType{SensorGNSS, SensorEOIR, SensorRADAR} {
		assert.True(t, typ.PositionCapable(), "%s", typ)
	}
	for _, typ := range []SensorType{SensorIMU, SensorBARO, SensorLINK, SensorRF} {
		assert.False(t, typ.PositionCapable(), "%s", typ)
	}
}
