// Package sensors generates the synthetic per-tick sensor measurements:
// LINK (latency + comms loss), IMU (drift proxy), BARO (altitude), GNSS
// (position with jam/spoof risk), EOIR (position with degrade), and an
// intermittent RADAR. All randomness flows through the single *rand.Rand the
// caller supplies, and the draw order within a tick is fixed
// (link → imu → baro → gnss → eoir → radar gate → radar); reordering draws
// breaks run reproducibility.
package sensors

import (
	"math"
	"math/rand"

	"github.com/FoxhunterLabs/Casper-Fusion/sim/config"
	"github.com/FoxhunterLabs/Casper-Fusion/sim/model"
	"github.com/FoxhunterLabs/Casper-Fusion/sim/presets"
)

// Sensor ids are fixed; LastSeenTick bookkeeping and telemetry lookups key on
// them.
const (
	LinkID  = "LINK_1"
	IMUID   = "IMU_1"
	BaroID  = "BARO_1"
	GNSSID  = "GNSS_A"
	EOIRID  = "EOIR_1"
	RadarID = "RADAR_1"
)

// radarAvailability is the per-tick probability that the intermittent radar
// contributes a measurement.
const radarAvailability = 0.55

// Simulator produces one measurement per supported sensor per tick.
type Simulator struct {
	cfg config.FusionConfig
}

func NewSimulator(cfg config.FusionConfig) *Simulator {
	return &Simulator{cfg: cfg}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

// SimulateLink models the datalink: latency is the environment base plus
// Gaussian jitter clamped to [40, 800] ms, and comms loss is a Bernoulli
// event whose probability grows with latency.
func (s *Simulator) SimulateLink(tick int64, utc string, env presets.EnvProfile, rng *rand.Rand) (model.SensorMeasurement, error) {
	latency := clamp(env.LatencyBase+rng.NormFloat64()*env.LatencyJitter, 40, 800)

	commsLoss := 0.0
	if rng.Float64() < 0.02+0.08*(latency/600.0) {
		commsLoss = 1.0
	}

	return model.NewSensorMeasurement(
		tick, utc, LinkID, model.SensorLINK,
		[]float64{latency, commsLoss, 0.0},
		model.DiagCov(25.0, 0.05, 1.0),
		clamp(1.0-latency/900.0, 0.1, 1.0),
		latency,
		false,
		map[string]any{"comms_loss": commsLoss},
	)
}

// SimulateIMU models inertial drift: a small constant plus the environment
// bias plus half-normal noise, clamped to [0.005, 0.12] deg/s.
func (s *Simulator) SimulateIMU(tick int64, utc string, env presets.EnvProfile, rng *rand.Rand) (model.SensorMeasurement, error) {
	drift := clamp(0.02+env.IMUDriftBias+math.Abs(rng.NormFloat64()*0.01), 0.005, 0.12)
	latency := clamp(20+rng.NormFloat64()*8, 5, 60)

	return model.NewSensorMeasurement(
		tick, utc, IMUID, model.SensorIMU,
		[]float64{drift, 0.0, 0.0},
		model.DiagCov(0.0004, 1.0, 1.0),
		clamp(1.0-drift/0.15, 0.2, 1.0),
		latency,
		false,
		map[string]any{"imu_drift_deg_s": drift},
	)
}

// SimulateBaro reports truth altitude plus Gaussian noise (sigma 7 m) at a
// fixed quality.
func (s *Simulator) SimulateBaro(tick int64, utc string, truth model.GroundTruth, rng *rand.Rand) (model.SensorMeasurement, error) {
	altBaro := truth.AltitudeM + rng.NormFloat64()*7.0
	latency := clamp(30+rng.NormFloat64()*10, 5, 80)

	return model.NewSensorMeasurement(
		tick, utc, BaroID, model.SensorBARO,
		[]float64{altBaro, 0.0, 0.0},
		model.DiagCov(49.0, 1.0, 1.0),
		0.85,
		latency,
		false,
		map[string]any{"altitude_m_baro": altBaro},
	)
}

// SimulateGNSS models a jammable, spoofable position fix. The drop
// probability and the covariance both rise with the jam factor; a dropped fix
// still carries truth position and inflated covariance so the audit trail
// stays complete, with quality zeroed so fusion excludes it.
func (s *Simulator) SimulateGNSS(tick int64, utc string, truth model.GroundTruth, env presets.EnvProfile, rng *rand.Rand) (model.SensorMeasurement, error) {
	jam := env.GNSSJamFactor
	dropped := rng.Float64() < 0.02+jam*0.25

	std := [3]float64{
		0.00025 + 0.0012*jam,
		0.00025 + 0.0012*jam,
		3.5 + 15.0*jam,
	}
	cov := model.DiagCov(std[0]*std[0], std[1]*std[1], std[2]*std[2])

	if dropped {
		latency := clamp(120+rng.NormFloat64()*35, 60, 300)
		return model.NewSensorMeasurement(
			tick, utc, GNSSID, model.SensorGNSS,
			[]float64{truth.Lat, truth.Lon, truth.AltitudeM},
			cov,
			0.0,
			latency,
			true,
			map[string]any{"dropped_reason": "synthetic_jam_drop", "jam_factor": jam},
		)
	}

	z := []float64{
		truth.Lat + rng.NormFloat64()*std[0],
		truth.Lon + rng.NormFloat64()*std[1],
		truth.AltitudeM + rng.NormFloat64()*std[2],
	}

	// Spoof bias: an independent Gaussian offset injected with probability
	// proportional to the jam factor.
	if rng.Float64() < jam*0.15 {
		z[0] += rng.NormFloat64() * 0.002
		z[1] += rng.NormFloat64() * 0.002
		z[2] += rng.NormFloat64() * 10.0
	}

	latency := clamp(90+rng.NormFloat64()*25, 40, 220)

	return model.NewSensorMeasurement(
		tick, utc, GNSSID, model.SensorGNSS,
		z, cov,
		clamp(0.95-jam*0.6, 0.15, 0.95),
		latency,
		false,
		map[string]any{"jam_factor": jam},
	)
}

// SimulateEOIR models the electro-optical/infrared tracker. A lossy link
// compounds the drop probability: commsLoss comes from this tick's LINK
// measurement.
func (s *Simulator) SimulateEOIR(tick int64, utc string, truth model.GroundTruth, env presets.EnvProfile, rng *rand.Rand, commsLoss float64) (model.SensorMeasurement, error) {
	degrade := env.EOIRDegrade
	dropped := rng.Float64() < 0.03+degrade*0.22+commsLoss*0.15

	std := [3]float64{
		0.0006 + 0.0013*degrade,
		0.0006 + 0.0013*degrade,
		8.0 + 20.0*degrade,
	}
	cov := model.DiagCov(std[0]*std[0], std[1]*std[1], std[2]*std[2])

	if dropped {
		latency := clamp(180+rng.NormFloat64()*55, 80, 400)
		return model.NewSensorMeasurement(
			tick, utc, EOIRID, model.SensorEOIR,
			[]float64{truth.Lat, truth.Lon, truth.AltitudeM},
			cov,
			0.0,
			latency,
			true,
			map[string]any{"dropped_reason": "synthetic_eoir_drop"},
		)
	}

	z := []float64{
		truth.Lat + rng.NormFloat64()*std[0],
		truth.Lon + rng.NormFloat64()*std[1],
		truth.AltitudeM + rng.NormFloat64()*std[2],
	}

	hotRatio := clamp(truth.VisionHotRatio+rng.NormFloat64()*0.03, 0.0, 1.0)
	latency := clamp(140+rng.NormFloat64()*45, 60, 320)

	return model.NewSensorMeasurement(
		tick, utc, EOIRID, model.SensorEOIR,
		z, cov,
		clamp(0.82-degrade*0.55-commsLoss*0.2, 0.1, 0.85),
		latency,
		false,
		map[string]any{"hot_ratio": hotRatio},
	)
}

// SimulateRadar is fixed-form Gaussian noise around truth with no drop model.
// Intermittent coverage is handled by the caller's availability draw.
func (s *Simulator) SimulateRadar(tick int64, utc string, truth model.GroundTruth, rng *rand.Rand) (model.SensorMeasurement, error) {
	std := [3]float64{0.00045, 0.00045, 6.5}
	z := []float64{
		truth.Lat + rng.NormFloat64()*std[0],
		truth.Lon + rng.NormFloat64()*std[1],
		truth.AltitudeM + rng.NormFloat64()*std[2],
	}
	latency := clamp(110+rng.NormFloat64()*35, 50, 280)

	return model.NewSensorMeasurement(
		tick, utc, RadarID, model.SensorRADAR,
		z,
		model.DiagCov(std[0]*std[0], std[1]*std[1], std[2]*std[2]),
		0.75,
		latency,
		false,
		nil,
	)
}

// SimulateAll produces this tick's measurement set in the fixed draw order.
// The LINK comms-loss outcome feeds the EOIR drop model.
func (s *Simulator) SimulateAll(tick int64, utc string, truth model.GroundTruth, env presets.EnvProfile, rng *rand.Rand) ([]model.SensorMeasurement, error) {
	link, err := s.SimulateLink(tick, utc, env, rng)
	if err != nil {
		return nil, err
	}
	commsLoss, _ := link.Meta["comms_loss"].(float64)

	imu, err := s.SimulateIMU(tick, utc, env, rng)
	if err != nil {
		return nil, err
	}
	baro, err := s.SimulateBaro(tick, utc, truth, rng)
	if err != nil {
		return nil, err
	}
	gnss, err := s.SimulateGNSS(tick, utc, truth, env, rng)
	if err != nil {
		return nil, err
	}
	eoir, err := s.SimulateEOIR(tick, utc, truth, env, rng, commsLoss)
	if err != nil {
		return nil, err
	}

	out := []model.SensorMeasurement{link, imu, baro, gnss, eoir}

	if rng.Float64() < radarAvailability {
		radar, err := s.SimulateRadar(tick, utc, truth, rng)
		if err != nil {
			return nil, err
		}
		out = append(out, radar)
	}
	return out, nil
}
