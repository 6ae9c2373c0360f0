package sim

import (
	"math/rand"
	"time"
)

// RunSeed uniquely identifies a reproducible run. Two runs with the same
// RunSeed and identical scenario selection MUST produce bit-for-bit identical
// measurement, telemetry, and audit sequences.
type RunSeed int64

// NewRunSeed derives a fresh seed from the wall clock. Use a fixed literal
// instead when reproducibility across processes matters.
func NewRunSeed() RunSeed {
	return RunSeed(time.Now().UnixNano())
}

// TickRNG constructs the pseudo-random generator for one tick, seeded
// deterministically as seed + tick. Every random draw for a tick comes from
// this one generator, and draws are stateful: the per-sensor draw order
// (link → imu → baro → gnss → eoir → radar) must not change.
//
// Not thread-safe; the step engine owns the generator for the duration of the
// tick.
func TickRNG(seed RunSeed, tick int64) *rand.Rand {
	return rand.New(rand.NewSource(int64(seed) + tick))
}
