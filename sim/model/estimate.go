package model

import "fmt"

// FusedEstimate is the fusion output for one tick. SensorContrib maps sensor
// id to its normalized weight; when non-empty the weights sum to 1.
type FusedEstimate struct {
	Lat         float64
	Lon         float64
	AltitudeM   float64
	VelocityMPS float64
	HeadingDeg  float64

	ThreatIndex float64
	CivDensity  float64

	FusionConf float64
	Surprise   float64

	SensorContrib map[string]float64
	UsedMeasCount int
}

// NewFusedEstimate validates e's ranges and returns a copy with the
// contribution map detached from the caller's.
func NewFusedEstimate(e FusedEstimate) (FusedEstimate, error) {
	switch {
	case e.Lat < -90 || e.Lat > 90:
		return FusedEstimate{}, rangeErr("lat", e.Lat, -90, 90)
	case e.Lon < -180 || e.Lon > 180:
		return FusedEstimate{}, rangeErr("lon", e.Lon, -180, 180)
	case e.AltitudeM < -1000 || e.AltitudeM > 50000:
		return FusedEstimate{}, rangeErr("altitude_m", e.AltitudeM, -1000, 50000)
	case e.VelocityMPS < 0 || e.VelocityMPS > 2000:
		return FusedEstimate{}, rangeErr("velocity_mps", e.VelocityMPS, 0, 2000)
	case e.HeadingDeg < 0 || e.HeadingDeg > 360:
		return FusedEstimate{}, rangeErr("heading_deg", e.HeadingDeg, 0, 360)
	case e.ThreatIndex < 0 || e.ThreatIndex > 100:
		return FusedEstimate{}, rangeErr("threat_index", e.ThreatIndex, 0, 100)
	case e.CivDensity < 0 || e.CivDensity > 1:
		return FusedEstimate{}, rangeErr("civ_density", e.CivDensity, 0, 1)
	case e.FusionConf < 0 || e.FusionConf > 1:
		return FusedEstimate{}, rangeErr("fusion_conf", e.FusionConf, 0, 1)
	case e.Surprise < 0 || e.Surprise > 1:
		return FusedEstimate{}, rangeErr("surprise", e.Surprise, 0, 1)
	case e.UsedMeasCount < 0:
		return FusedEstimate{}, fmt.Errorf("model: used_meas_count %d < 0", e.UsedMeasCount)
	}

	contrib := make(map[string]float64, len(e.SensorContrib))
	for k, v := range e.SensorContrib {
		contrib[k] = v
	}
	e.SensorContrib = contrib
	return e, nil
}

// GroundTruth is the simulated physical truth for one tick. It is an input to
// the sensor simulator and the governance calculator, never an output of
// fusion.
type GroundTruth struct {
	Mach           float64
	VelocityMPS    float64
	AltitudeM      float64
	QKPa           float64
	ThermalIndex   float64
	GLoad          float64
	Lat            float64
	Lon            float64
	ThreatIndex    float64
	CivDensity     float64
	NavDrift       float64
	VisionHotRatio float64
}
