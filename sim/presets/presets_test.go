package presets

import "testing"

func TestLookups_KnownNames(t *testing.T) {
	if env := Environment("GNSS Degraded / Spoof Risk"); env.GNSSJamFactor != 0.55 {
		t.Errorf("jam factor = %v, want 0.55", env.GNSSJamFactor)
	}
	if e := EnvelopeByName("Aggressive Envelope Probe"); e.MaxMach != 2.3 {
		t.Errorf("max mach = %v, want 2.3", e.MaxMach)
	}
	if ao := AO("Kharkiv (synthetic)"); ao.BaseLat != 49.9935 {
		t.Errorf("base lat = %v, want 49.9935", ao.BaseLat)
	}
	if th := ThresholdByName("Conservative"); th.ClarityThreshold != 85 {
		t.Errorf("clarity threshold = %v, want 85", th.ClarityThreshold)
	}
}

func TestLookups_UnknownNamesFallBack(t *testing.T) {
	if env := Environment("does not exist"); env != Environments[DefaultEnvironment] {
		t.Errorf("unknown environment did not fall back to default")
	}
	if e := EnvelopeByName("does not exist"); e != Envelopes[DefaultEnvelope] {
		t.Errorf("unknown envelope did not fall back to default")
	}
	if ao := AO("does not exist"); ao != AreasOfOperation[DefaultAO] {
		t.Errorf("unknown AO did not fall back to default")
	}
	if th := ThresholdByName("does not exist"); th != Thresholds[DefaultThreshold] {
		t.Errorf("unknown threshold did not fall back to default")
	}
}

func TestStageAt_Clamps(t *testing.T) {
	if got := StageAt(-1); got.Code != "STAGE_1_BOOST" {
		t.Errorf("StageAt(-1) = %s, want STAGE_1_BOOST", got.Code)
	}
	if got := StageAt(99); got.Code != "STAGE_5_RTB" {
		t.Errorf("StageAt(99) = %s, want STAGE_5_RTB", got.Code)
	}
}

func TestFlightPhase(t *testing.T) {
	cases := map[string]string{
		"STAGE_1_BOOST":    "ASCENT",
		"STAGE_2_GRID":     "CRUISE",
		"STAGE_3_RELAY":    "CRUISE",
		"STAGE_4_COLLAPSE": "DESCENT",
		"STAGE_5_RTB":      "EGRESS",
	}
	for code, want := range cases {
		if got := FlightPhase(code); got != want {
			t.Errorf("FlightPhase(%s) = %s, want %s", code, got, want)
		}
	}
}
