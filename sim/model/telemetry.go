package model

import "fmt"

// Telemetry is the complete per-tick snapshot: physical truth, fused
// navigation, governance outputs, and fusion-health fields. It is the unit
// appended to the run's history and the only per-tick artifact downstream
// consumers read.
type Telemetry struct {
	// Timing
	Tick              int64   `json:"tick"`
	UTC               string  `json:"utc_timestamp"`
	MissionTimeS      float64 `json:"mission_time_s"`
	MissionStageCode  string  `json:"mission_stage_code"`
	MissionStageLabel string  `json:"mission_stage_label"`
	MissionStageTick  int64   `json:"mission_stage_tick"`
	FlightPhase       string  `json:"flight_phase"`

	// Physical state
	Mach          float64 `json:"mach"`
	VelocityMPS   float64 `json:"velocity_mps"`
	AltitudeM     float64 `json:"altitude_m"`
	QKPa          float64 `json:"q_kpa"`
	ThermalIndex  float64 `json:"thermal_index"`
	GLoad         float64 `json:"g_load"`
	LinkLatencyMS float64 `json:"link_latency_ms"`
	IMUDriftDegS  float64 `json:"imu_drift_deg_s"`

	// Navigation (fused)
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`

	// Environment
	ThreatIndex    float64 `json:"threat_index"`
	CivDensity     float64 `json:"civ_density"`
	NavDrift       float64 `json:"nav_drift"`
	CommsLoss      float64 `json:"comms_loss"`
	VisionHotRatio float64 `json:"vision_hot_ratio"`

	// Governance
	Clarity          float64     `json:"clarity"`
	Risk             float64     `json:"risk"`
	PredictedRisk    float64     `json:"predicted_risk"`
	State            SystemState `json:"state"`
	EnvelopePressure float64     `json:"envelope_pressure"`

	// Console contracts
	CCCombined      float64 `json:"cc_combined"`
	CCNavConf       float64 `json:"cc_nav_conf"`
	CCCommsConf     float64 `json:"cc_comms_conf"`
	CCVisionConf    float64 `json:"cc_vision_conf"`
	CCClarityFactor float64 `json:"cc_clarity_factor"`
	CCThreatFactor  float64 `json:"cc_threat_factor"`

	// Fusion health
	FusionConf     float64 `json:"fusion_conf"`
	FusionSurprise float64 `json:"fusion_surprise"`
}

// Validate checks every range-bounded telemetry field. The step engine calls
// this before the record is appended to history, so a formula drifting out of
// bounds fails the tick instead of poisoning the buffer.
func (t Telemetry) Validate() error {
	checks := []struct {
		name   string
		v      float64
		lo, hi float64
	}{
		{"mission_time_s", t.MissionTimeS, 0, 1e12},
		{"mach", t.Mach, 0, 5},
		{"velocity_mps", t.VelocityMPS, 0, 2000},
		{"altitude_m", t.AltitudeM, -1000, 50000},
		{"q_kpa", t.QKPa, 0, 1000},
		{"thermal_index", t.ThermalIndex, 0, 1},
		{"g_load", t.GLoad, 0, 10},
		{"link_latency_ms", t.LinkLatencyMS, 0, 2000},
		{"imu_drift_deg_s", t.IMUDriftDegS, 0, 2},
		{"lat", t.Lat, -90, 90},
		{"lon", t.Lon, -180, 180},
		{"threat_index", t.ThreatIndex, 0, 100},
		{"civ_density", t.CivDensity, 0, 1},
		{"nav_drift", t.NavDrift, 0, 100},
		{"comms_loss", t.CommsLoss, 0, 1},
		{"vision_hot_ratio", t.VisionHotRatio, 0, 1},
		{"clarity", t.Clarity, 0, 100},
		{"risk", t.Risk, 0, 100},
		{"predicted_risk", t.PredictedRisk, 0, 100},
		{"envelope_pressure", t.EnvelopePressure, 0, 2},
		{"cc_combined", t.CCCombined, 0, 1},
		{"cc_nav_conf", t.CCNavConf, 0, 1},
		{"cc_comms_conf", t.CCCommsConf, 0, 1},
		{"cc_vision_conf", t.CCVisionConf, 0, 1},
		{"cc_clarity_factor", t.CCClarityFactor, 0, 1},
		{"cc_threat_factor", t.CCThreatFactor, 0, 1},
		{"fusion_conf", t.FusionConf, 0, 1},
		{"fusion_surprise", t.FusionSurprise, 0, 1},
	}
	for _, c := range checks {
		if c.v < c.lo || c.v > c.hi {
			return rangeErr(c.name, c.v, c.lo, c.hi)
		}
	}
	if t.Tick < 0 {
		return fmt.Errorf("model: telemetry tick %d < 0", t.Tick)
	}
	if t.MissionStageTick < 0 {
		return fmt.Errorf("model: mission_stage_tick %d < 0", t.MissionStageTick)
	}
	switch t.State {
	case StateStable, StateTense, StateHighRisk, StateCritical:
	default:
		return fmt.Errorf("model: unknown system state %q", t.State)
	}
	return nil
}
