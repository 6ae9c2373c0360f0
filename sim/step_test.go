package sim

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/FoxhunterLabs/Casper-Fusion/sim/config"
	"github.com/FoxhunterLabs/Casper-Fusion/sim/fusion"
)

func testEpoch() time.Time {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
}

func runTicks(t *testing.T, cfg config.FusionConfig, seed RunSeed, n int) (*StepEngine, *EngineState) {
	t.Helper()
	engine := NewStepEngine(cfg)
	state := NewEngineStateAt(cfg, seed, testEpoch())
	for i := 0; i < n; i++ {
		if err := engine.Step(state); err != nil {
			t.Fatalf("step %d: %v", i+1, err)
		}
	}
	return engine, state
}

func TestStep_DeterministicReplay(t *testing.T) {
	cfg := config.Default()
	_, a := runTicks(t, cfg, 1234, 50)
	_, b := runTicks(t, cfg, 1234, 50)

	chainA, chainB := a.AuditChain.Items(), b.AuditChain.Items()
	if len(chainA) != len(chainB) {
		t.Fatalf("audit chain lengths differ: %d vs %d", len(chainA), len(chainB))
	}
	for i := range chainA {
		if chainA[i].SHA256 != chainB[i].SHA256 {
			t.Fatalf("audit digest diverged at record %d", i)
		}
	}

	telA, telB := a.History.Items(), b.History.Items()
	for i := range telA {
		rawA, err := json.Marshal(telA[i])
		if err != nil {
			t.Fatal(err)
		}
		rawB, err := json.Marshal(telB[i])
		if err != nil {
			t.Fatal(err)
		}
		if string(rawA) != string(rawB) {
			t.Fatalf("telemetry diverged at tick %d:\n%s\n%s", i+1, rawA, rawB)
		}
	}
}

func TestStep_DifferentSeedsDiverge(t *testing.T) {
	cfg := config.Default()
	_, a := runTicks(t, cfg, 1, 20)
	_, b := runTicks(t, cfg, 2, 20)

	chainA, chainB := a.AuditChain.Items(), b.AuditChain.Items()
	same := true
	for i := range chainA {
		if chainA[i].SHA256 != chainB[i].SHA256 {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical audit chains")
	}
}

func TestStep_SimulatedClock(t *testing.T) {
	cfg := config.Default()
	_, state := runTicks(t, cfg, 99, 3)

	tel, ok := state.History.Last()
	if !ok {
		t.Fatal("no telemetry after stepping")
	}
	if tel.Tick != 3 {
		t.Errorf("tick = %d, want 3", tel.Tick)
	}
	if want := testEpoch().Add(3 * time.Second).Format(time.RFC3339Nano); tel.UTC != want {
		t.Errorf("utc = %s, want %s", tel.UTC, want)
	}
	if tel.MissionTimeS != 3.0 {
		t.Errorf("mission time = %v, want 3.0", tel.MissionTimeS)
	}
}

func TestStep_BuffersStayBounded(t *testing.T) {
	cfg := config.Default()
	cfg.MaxTelemetryHistory = 10
	cfg.MaxMeasurementHistory = 25
	cfg.MaxAuditHistory = 10

	_, state := runTicks(t, cfg, 7, 40)

	if got := state.History.Len(); got != 10 {
		t.Errorf("telemetry history len = %d, want 10", got)
	}
	if got := state.MeasHistory.Len(); got != 25 {
		t.Errorf("measurement history len = %d, want 25", got)
	}
	if got := state.AuditChain.Len(); got != 10 {
		t.Errorf("audit chain len = %d, want 10", got)
	}

	// The newest telemetry entry survives eviction.
	tel, _ := state.History.Last()
	if tel.Tick != 40 {
		t.Errorf("newest telemetry tick = %d, want 40", tel.Tick)
	}
}

func TestStep_MissionStageProgression(t *testing.T) {
	cfg := config.Default()
	engine, state := runTicks(t, cfg, 5, 40)

	// The boost stage lasts 40 ticks: tick 40 is still boost, tick 41 rolls
	// into the grid stage.
	tel, _ := state.History.Last()
	if tel.MissionStageCode != "STAGE_1_BOOST" {
		t.Fatalf("stage at tick 40 = %s, want STAGE_1_BOOST", tel.MissionStageCode)
	}
	if tel.FlightPhase != "ASCENT" {
		t.Errorf("flight phase at tick 40 = %s, want ASCENT", tel.FlightPhase)
	}

	if err := engine.Step(state); err != nil {
		t.Fatal(err)
	}
	tel, _ = state.History.Last()
	if tel.MissionStageCode != "STAGE_2_GRID" {
		t.Errorf("stage at tick 41 = %s, want STAGE_2_GRID", tel.MissionStageCode)
	}
	if tel.FlightPhase != "CRUISE" {
		t.Errorf("flight phase at tick 41 = %s, want CRUISE", tel.FlightPhase)
	}
}

func TestStep_UnimplementedStrategyLeavesStateUntouched(t *testing.T) {
	cfg := config.Default()
	engine := NewStepEngine(cfg)
	state := NewEngineStateAt(cfg, 11, testEpoch())
	state.StrategyName = fusion.StrategyKalman

	err := engine.Step(state)
	if err == nil {
		t.Fatal("kalman strategy stepped without error")
	}
	if state.Tick != 0 {
		t.Errorf("tick advanced to %d on failed step", state.Tick)
	}
	if state.History.Len() != 0 || state.MeasHistory.Len() != 0 || state.AuditChain.Len() != 0 {
		t.Errorf("failed step wrote to buffers: tel=%d meas=%d audit=%d",
			state.History.Len(), state.MeasHistory.Len(), state.AuditChain.Len())
	}
	if state.Fused != nil {
		t.Error("failed step set a fused estimate")
	}
}

func TestReset_ClearsRunPreservesScenario(t *testing.T) {
	cfg := config.Default()
	engine, state := runTicks(t, cfg, 3, 15)
	state.EnvName = "High Latency Link"
	oldRunID := state.RunID

	engine.Reset(state)

	if state.Tick != 0 || state.MissionTimeS != 0 {
		t.Errorf("clock not cleared: tick=%d time=%v", state.Tick, state.MissionTimeS)
	}
	if state.History.Len() != 0 || state.MeasHistory.Len() != 0 || state.AuditChain.Len() != 0 {
		t.Error("buffers not cleared by reset")
	}
	if state.EnvName != "High Latency Link" {
		t.Errorf("scenario selection lost: env = %s", state.EnvName)
	}
	if state.RunID == oldRunID {
		t.Error("reset kept the old run id")
	}
	if engine.Clarity().ClarityEMA() != 0.9 {
		t.Errorf("clarity memory not reset: %v", engine.Clarity().ClarityEMA())
	}
}

func TestResetWithSeed_ReplaysIdentically(t *testing.T) {
	cfg := config.Default()
	engine, state := runTicks(t, cfg, 77, 20)
	first := make([]string, 0, state.AuditChain.Len())
	for _, r := range state.AuditChain.Items() {
		first = append(first, r.SHA256)
	}

	engine.ResetWithSeed(state, 77)
	for i := 0; i < 20; i++ {
		if err := engine.Step(state); err != nil {
			t.Fatal(err)
		}
	}

	for i, r := range state.AuditChain.Items() {
		if r.SHA256 != first[i] {
			t.Fatalf("replay diverged at record %d", i)
		}
	}
}
