package sim

import (
	"fmt"

	"github.com/FoxhunterLabs/Casper-Fusion/sim/audit"
	"github.com/FoxhunterLabs/Casper-Fusion/sim/config"
	"github.com/FoxhunterLabs/Casper-Fusion/sim/fusion"
	"github.com/FoxhunterLabs/Casper-Fusion/sim/governance"
	"github.com/FoxhunterLabs/Casper-Fusion/sim/model"
	"github.com/FoxhunterLabs/Casper-Fusion/sim/presets"
	"github.com/FoxhunterLabs/Casper-Fusion/sim/sensors"
)

// StepEngine advances a run by exactly one tick: truth generation, sensor
// simulation, time-gated fusion, audit, governance, telemetry assembly. All
// computation happens before any state mutation, so a failed tick leaves the
// run's buffers untouched.
type StepEngine struct {
	cfg       config.FusionConfig
	sensorSim *sensors.Simulator
	clarity   *governance.Calculator
}

func NewStepEngine(cfg config.FusionConfig) *StepEngine {
	return &StepEngine{
		cfg:       cfg,
		sensorSim: sensors.NewSimulator(cfg),
		clarity:   governance.NewCalculator(cfg),
	}
}

// Clarity exposes the governance calculator (for reset and inspection).
func (e *StepEngine) Clarity() *governance.Calculator { return e.clarity }

// Reset clears the run state and the governance memory together.
func (e *StepEngine) Reset(state *EngineState) {
	state.Reset()
	e.clarity.Reset()
}

// ResetWithSeed clears the run state, reseeds it, and clears governance
// memory.
func (e *StepEngine) ResetWithSeed(state *EngineState, seed RunSeed) {
	state.ResetWithSeed(seed)
	e.clarity.Reset()
}

// Step advances the run by one tick, appending one Telemetry entry and the
// tick's measurement and audit entries. On error nothing is appended.
func (e *StepEngine) Step(state *EngineState) error {
	env := presets.Environment(state.EnvName)
	envelope := presets.EnvelopeByName(state.EnvelopeName)
	ao := presets.AO(state.AOName)

	tick := state.Tick + 1
	utc := state.UTCAt(tick)
	rng := TickRNG(state.Seed, tick)

	// Ground truth for the upcoming tick.
	truth := generateTruth(state, env, envelope, ao, rng)

	// Sensors. Measurements are not appended yet; fusion below sees the
	// combined view so a failure cannot leave a half-written buffer.
	measurements, err := e.sensorSim.SimulateAll(tick, utc, truth, env, rng)
	if err != nil {
		return fmt.Errorf("sim: sensor simulation at tick %d: %w", tick, err)
	}
	combined := append(state.MeasHistory.Items(), measurements...)

	// Fusion. The selection the strategy saw is reused for the audit record.
	engine := fusion.NewEngine(e.cfg, state.StrategyName)
	fused, used, err := engine.Fuse(combined, tick)
	if err != nil {
		return fmt.Errorf("sim: fusion at tick %d: %w", tick, err)
	}

	// Audit.
	record, err := audit.Build(tick, utc, used, fused)
	if err != nil {
		return fmt.Errorf("sim: audit at tick %d: %w", tick, err)
	}

	// Governance.
	gov := e.clarity.Compute(envelope, governance.PhysicalSignals{
		QKPa:         truth.QKPa,
		ThermalIndex: truth.ThermalIndex,
		ThreatIndex:  truth.ThreatIndex,
	}, fused)

	stage := presets.StageAt(state.MissionStageIndex)

	tel := model.Telemetry{
		Tick:              tick,
		UTC:               utc,
		MissionTimeS:      state.MissionTimeS + e.cfg.DTSeconds,
		MissionStageCode:  stage.Code,
		MissionStageLabel: stage.Label,
		MissionStageTick:  state.MissionStageTick,
		FlightPhase:       presets.FlightPhase(stage.Code),

		Mach:          truth.Mach,
		VelocityMPS:   truth.VelocityMPS,
		AltitudeM:     fused.AltitudeM,
		QKPa:          truth.QKPa,
		ThermalIndex:  truth.ThermalIndex,
		GLoad:         truth.GLoad,
		LinkLatencyMS: sensorZ0(measurements, sensors.LinkID, 0.0),
		IMUDriftDegS:  sensorMetaFloat(measurements, sensors.IMUID, "imu_drift_deg_s", 0.0),

		Lat: fused.Lat,
		Lon: fused.Lon,

		ThreatIndex:    truth.ThreatIndex,
		CivDensity:     truth.CivDensity,
		NavDrift:       truth.NavDrift,
		CommsLoss:      sensorMetaFloat(measurements, sensors.LinkID, "comms_loss", 0.0),
		VisionHotRatio: truth.VisionHotRatio,

		Clarity:          gov.Clarity,
		Risk:             gov.Risk,
		PredictedRisk:    gov.PredictedRisk,
		State:            gov.State,
		EnvelopePressure: gov.EnvelopePressure,

		CCCombined:      gov.Clarity / 100.0,
		CCNavConf:       fused.FusionConf,
		CCCommsConf:     sensorQuality(measurements, sensors.LinkID, 1.0),
		CCVisionConf:    sensorQuality(measurements, sensors.EOIRID, 0.0),
		CCClarityFactor: gov.Clarity / 100.0,
		CCThreatFactor:  maxf(0.2, 1.0-truth.ThreatIndex/150.0),

		FusionConf:     fused.FusionConf,
		FusionSurprise: fused.Surprise,
	}
	if err := tel.Validate(); err != nil {
		return fmt.Errorf("sim: telemetry at tick %d: %w", tick, err)
	}

	// Commit. Everything below is infallible.
	for _, m := range measurements {
		state.MeasHistory.Append(m)
		state.LastSeenTick[m.SensorID] = m.Tick
	}
	state.Fused = &fused
	state.AuditChain.Append(record)
	state.History.Append(tel)

	state.Tick = tick
	state.MissionTimeS = tel.MissionTimeS
	state.MissionStageTick++
	if state.MissionStageTick >= stage.Duration && state.MissionStageIndex < len(presets.MissionStages)-1 {
		state.MissionStageIndex++
		state.MissionStageTick = 0
	}
	return nil
}

// sensorZ0 returns the first z component of the named sensor's measurement
// this tick, or def when the sensor is absent.
func sensorZ0(measurements []model.SensorMeasurement, id string, def float64) float64 {
	for _, m := range measurements {
		if m.SensorID == id {
			return m.Z[0]
		}
	}
	return def
}

func sensorMetaFloat(measurements []model.SensorMeasurement, id, key string, def float64) float64 {
	for _, m := range measurements {
		if m.SensorID == id {
			if v, ok := m.Meta[key].(float64); ok {
				return v
			}
			return def
		}
	}
	return def
}

func sensorQuality(measurements []model.SensorMeasurement, id string, def float64) float64 {
	for _, m := range measurements {
		if m.SensorID == id {
			return m.Quality
		}
	}
	return def
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
