// Package testutil provides deterministic synthetic light curves and
// tolerance helpers for tests.
package testutil

import (
	"math"
	"math/rand"
)

// UniformTimes returns n time stamps starting at t0 with fixed cadence dt.
func UniformTimes(t0, dt float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = t0 + float64(i)*dt
	}

	return out
}

// ModulatedTimes returns n time stamps whose cadence varies sinusoidally
// around dt0 with relative depth eps and modulation period p. The varying
// cadence shifts each window's effective Nyquist, which is what makes an
// alias ridge drift.
func ModulatedTimes(t0, dt0, eps, p float64, n int) []float64 {
	out := make([]float64, n)

	t := t0
	for i := range out {
		out[i] = t
		t += dt0 * (1 + eps*math.Sin(2*math.Pi*t/p))
	}

	return out
}

// JitteredTimes returns n strictly increasing time stamps with cadence
// dt0 and seeded uniform jitter of amplitude jitter*dt0 (jitter < 1).
func JitteredTimes(seed int64, t0, dt0, jitter float64, n int) []float64 {
	rng := rand.New(rand.NewSource(seed))

	out := make([]float64, n)
	for i := range out {
		out[i] = t0 + float64(i)*dt0 + (rng.Float64()-0.5)*jitter*dt0
	}

	return out
}

// Sine samples amplitude*sin(2*pi*freq*t + phase) at the given times.
func Sine(times []float64, freq, amplitude, phase float64) []float64 {
	out := make([]float64, len(times))
	for i, t := range times {
		out[i] = amplitude * math.Sin(2*math.Pi*freq*t+phase)
	}

	return out
}

// GaussianNoise returns seeded normal deviates with the given sigma.
func GaussianNoise(seed int64, sigma float64, n int) []float64 {
	rng := rand.New(rand.NewSource(seed))

	out := make([]float64, n)
	for i := range out {
		out[i] = rng.NormFloat64() * sigma
	}

	return out
}

// Add sums two equal-length sample slices into a new slice.
func Add(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range out {
		out[i] = a[i] + b[i]
	}

	return out
}

// Offset adds a constant to every sample, e.g. to sit a signal on a unit
// baseline flux.
func Offset(x []float64, c float64) []float64 {
	out := make([]float64, len(x))
	for i := range out {
		out[i] = x[i] + c
	}

	return out
}
