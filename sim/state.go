package sim

import (
	"time"

	"github.com/google/uuid"

	"github.com/FoxhunterLabs/Casper-Fusion/sim/audit"
	"github.com/FoxhunterLabs/Casper-Fusion/sim/config"
	"github.com/FoxhunterLabs/Casper-Fusion/sim/model"
	"github.com/FoxhunterLabs/Casper-Fusion/sim/presets"
)

// EngineState is the run's mutable container: clock, seed, scenario
// selection, bounded history buffers, and the last fusion output. It is owned
// exclusively by whichever caller invokes a step; no internal locking is
// provided and a step must not run concurrently from two callers.
type EngineState struct {
	Config config.FusionConfig

	// Simulation clock
	Tick              int64
	MissionTimeS      float64
	MissionStageIndex int
	MissionStageTick  int64

	// Identity / determinism
	RunID string
	Seed  RunSeed

	// Epoch anchors simulated UTC timestamps: the timestamp for tick t is
	// Epoch + t*dt. Fixing Epoch and Seed makes a run fully reproducible,
	// timestamps included.
	Epoch time.Time

	// Scenario selection
	AOName        string
	EnvName       string
	EnvelopeName  string
	ThresholdName string
	StrategyName  string

	// Bounded history buffers
	History     *Ring[model.Telemetry]
	MeasHistory *Ring[model.SensorMeasurement]
	AuditChain  *Ring[audit.Record]

	// Fusion outputs
	Fused        *model.FusedEstimate
	LastSeenTick map[string]int64
}

// NewEngineState builds a run container with a wall-clock seed and epoch and
// the default scenario selection.
func NewEngineState(cfg config.FusionConfig) *EngineState {
	return NewEngineStateAt(cfg, NewRunSeed(), time.Now().UTC())
}

// NewEngineStateAt builds a run container with an explicit seed and epoch.
// Tests and replay tooling use this to pin reproducibility.
func NewEngineStateAt(cfg config.FusionConfig, seed RunSeed, epoch time.Time) *EngineState {
	return &EngineState{
		Config:        cfg,
		RunID:         uuid.NewString(),
		Seed:          seed,
		Epoch:         epoch.UTC(),
		AOName:        presets.DefaultAO,
		EnvName:       presets.DefaultEnvironment,
		EnvelopeName:  presets.DefaultEnvelope,
		ThresholdName: presets.DefaultThreshold,
		StrategyName:  "weighted",
		History:       NewRing[model.Telemetry](cfg.MaxTelemetryHistory),
		MeasHistory:   NewRing[model.SensorMeasurement](cfg.MaxMeasurementHistory),
		AuditChain:    NewRing[audit.Record](cfg.MaxAuditHistory),
		LastSeenTick:  make(map[string]int64),
	}
}

// UTCAt returns the simulated UTC timestamp for a tick.
func (s *EngineState) UTCAt(tick int64) string {
	offset := time.Duration(float64(tick) * s.Config.DTSeconds * float64(time.Second))
	return s.Epoch.Add(offset).UTC().Format(time.RFC3339Nano)
}

// Reset clears the clock, governance memory fields, and all three history
// buffers while preserving configuration and scenario selection. A fresh run
// id is assigned.
func (s *EngineState) Reset() {
	s.Tick = 0
	s.MissionTimeS = 0
	s.MissionStageIndex = 0
	s.MissionStageTick = 0

	s.History.Clear()
	s.MeasHistory.Clear()
	s.AuditChain.Clear()
	s.LastSeenTick = make(map[string]int64)

	s.Fused = nil
	s.RunID = uuid.NewString()
}

// ResetWithSeed resets the run and replaces the seed.
func (s *EngineState) ResetWithSeed(seed RunSeed) {
	s.Reset()
	s.Seed = seed
}
