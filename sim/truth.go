package sim

import (
	"math"
	"math/rand"

	"github.com/FoxhunterLabs/Casper-Fusion/sim/model"
	"github.com/FoxhunterLabs/Casper-Fusion/sim/presets"
)

// Sea-level air density and the scale height for the exponential atmosphere
// used to derive dynamic pressure.
const (
	seaLevelDensity = 1.225  // kg/m^3
	scaleHeightM    = 8000.0 // m
	machToMPS       = 295.0  // nominal m/s per Mach at altitude
)

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// generateTruth advances the ground-truth physical state one tick as a
// bounded random walk from the previous telemetry entry, with dynamic
// pressure derived from an exponential atmospheric density model.
func generateTruth(state *EngineState, env presets.EnvProfile, envelope presets.Envelope, ao presets.AOConfig, rng *rand.Rand) model.GroundTruth {
	var last *model.Telemetry
	if t, ok := state.History.Last(); ok {
		last = &t
	}

	prevMach, prevAlt := 0.0, 0.0
	prevThreat, prevCiv := 40.0, 0.3
	if last != nil {
		prevMach = last.Mach
		prevAlt = last.AltitudeM
		prevThreat = last.ThreatIndex
		prevCiv = last.CivDensity
	}

	mach := clipf(prevMach+uniform(rng, 0.01, 0.05), 0, envelope.MaxMach)
	alt := clipf(prevAlt+uniform(rng, 50.0, 150.0), 0, 18000.0)

	vel := mach * machToMPS
	rho := seaLevelDensity * math.Exp(-alt/scaleHeightM)
	q := clipf(0.5*rho*vel*vel/1000.0, 0, 900.0)

	thermal := clipf(
		0.2+0.5*(mach/envelope.MaxMach)+env.ThermalBias+rng.NormFloat64()*0.02,
		0, 1)

	lat := ao.BaseLat + uniform(rng, -ao.LatDelta, ao.LatDelta)
	lon := ao.BaseLon + uniform(rng, -ao.LonDelta, ao.LonDelta)

	threat := clipf(prevThreat+uniform(rng, -5.0, 5.0), 0, 100)
	civ := clipf(prevCiv+uniform(rng, -0.05, 0.05), 0, 1)

	return model.GroundTruth{
		Mach:           mach,
		VelocityMPS:    vel,
		AltitudeM:      alt,
		QKPa:           q,
		ThermalIndex:   thermal,
		GLoad:          1.0,
		Lat:            lat,
		Lon:            lon,
		ThreatIndex:    threat,
		CivDensity:     civ,
		NavDrift:       5.0,
		VisionHotRatio: clipf(0.10+rng.NormFloat64()*0.03, 0, 1),
	}
}

func clipf(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
