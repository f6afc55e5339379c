package core

import (
	"math"
	"math/rand"
	"time"
)

// NoiseGenerator draws the random perturbations used by the trajectory
// generators: per-trajectory phase shifts, per-sample amplitude noise and
// non-negative stimulation lags. It wraps an explicit rand source so that
// callers can seed it for reproducible batches.
type NoiseGenerator struct {
	rng *rand.Rand
}

// NewNoiseGenerator creates a time-seeded noise generator.
func NewNoiseGenerator() *NoiseGenerator {
	return NewSeededNoiseGenerator(time.Now().UnixNano())
}

// NewSeededNoiseGenerator creates a noise generator with a fixed seed.
// Two generators built from the same seed produce identical draw sequences.
func NewSeededNoiseGenerator(seed int64) *NoiseGenerator {
	return &NoiseGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Derive returns a new generator seeded from this one. Deriving k children
// in a fixed order yields the same k seeds every time, which keeps batch
// generation reproducible when the batches run concurrently.
func (ng *NoiseGenerator) Derive() *NoiseGenerator {
	return NewSeededNoiseGenerator(ng.rng.Int63())
}

// Gaussian returns a value from a Gaussian distribution with given mean and stdDev.
func (ng *NoiseGenerator) Gaussian(mean, stdDev float64) float64 {
	return mean + ng.rng.NormFloat64()*stdDev
}

// GaussianDraws returns k independent draws from a zero-mean Gaussian with
// the given standard deviation. A stdDev of exactly 0 returns k zeros
// without consuming generator state, so noise-free batches are reproducible
// regardless of what was drawn before.
func (ng *NoiseGenerator) GaussianDraws(k int, stdDev float64) []float64 {
	draws := make([]float64, k)
	if stdDev == 0 {
		return draws
	}
	for i := range draws {
		draws[i] = ng.rng.NormFloat64() * stdDev
	}
	return draws
}

// AbsGaussianDraws returns k draws of |N(0, stdDev)|. Used for stimulation
// lags, which must never move an event earlier in time.
func (ng *NoiseGenerator) AbsGaussianDraws(k int, stdDev float64) []float64 {
	draws := ng.GaussianDraws(k, stdDev)
	for i, d := range draws {
		draws[i] = math.Abs(d)
	}
	return draws
}

// ClampPositive ensures a value is non-negative.
func ClampPositive(value float64) float64 {
	if value < 0 {
		return 0
	}
	return value
}

// Clamp ensures a value is within bounds.
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
