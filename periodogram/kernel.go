// Package periodogram computes generalized Lomb-Scargle power spectra of
// irregularly sampled time series.
//
// The kernel uses the floating-mean formulation: at every trial frequency
// it fits amplitude, phase and a constant offset by weighted least squares.
// Power is normalized by the weighted variance of the data, so a noiseless
// sinusoid reaches power 1 regardless of sample count, and spectra from
// windows with different sample counts are directly comparable.
package periodogram

import (
	"errors"
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"
)

const (
	defaultMinSamples = 5
	defaultUniformTol = 1e-3

	// constVarTol treats a variance below this fraction of the squared
	// mean as zero. Subtracting the mean from a constant series leaves
	// rounding noise of order 1e-32 relative, far below this bound.
	constVarTol = 1e-12
)

// Kernel errors.
var (
	ErrInsufficientSamples = errors.New("periodogram: too few samples for a stable fit")
	ErrLengthMismatch      = errors.New("periodogram: time, value and weight lengths differ")
)

// Config holds kernel parameters.
type Config struct {
	// MinSamples is the smallest segment the kernel accepts. The
	// floating-mean fit has three free parameters; the default of 5
	// keeps the system overdetermined.
	MinSamples int
	// FastUniform enables the FFT fast path for segments whose sampling
	// is uniform within UniformTol (relative cadence deviation).
	FastUniform bool
	UniformTol  float64
}

func normalizeConfig(cfg Config) Config {
	if cfg.MinSamples <= 0 {
		cfg.MinSamples = defaultMinSamples
	}

	if cfg.UniformTol <= 0 {
		cfg.UniformTol = defaultUniformTol
	}

	return cfg
}

// Periodogram is a power spectrum over a Grid. Power is the variance-
// normalized generalized Lomb-Scargle power in [0, 1].
type Periodogram struct {
	Freqs Grid
	Power []float64

	variance float64 // weighted variance of the segment
}

// Amplitude converts the normalized power at index i to the amplitude of
// the best-fit sinusoid, sqrt(2*p*variance).
func (p Periodogram) Amplitude(i int) float64 {
	return math.Sqrt(2 * p.Power[i] * p.variance)
}

// Calculator computes periodograms with a fixed configuration.
type Calculator struct {
	cfg Config
}

// NewCalculator creates a Calculator, applying defaults to the config.
func NewCalculator(cfg Config) *Calculator {
	return &Calculator{cfg: normalizeConfig(cfg)}
}

// Calculate computes the periodogram of the segment (t, y) over grid with
// uniform weights. Deterministic; the inputs are not modified.
func (c *Calculator) Calculate(t, y []float64, grid Grid) (Periodogram, error) {
	if len(t) != len(y) {
		return Periodogram{}, ErrLengthMismatch
	}

	if len(t) < c.cfg.MinSamples {
		return Periodogram{}, ErrInsufficientSamples
	}

	if err := grid.Validate(); err != nil {
		return Periodogram{}, err
	}

	if c.cfg.FastUniform {
		if pg, ok := c.fastUniform(t, y, grid); ok {
			return pg, nil
		}
	}

	w := make([]float64, len(t))
	for i := range w {
		w[i] = 1 / float64(len(t))
	}

	return c.direct(t, y, w, grid)
}

// CalculateWeighted computes the periodogram with per-sample weights
// (taper coefficients). Weights need not be normalized; they are scaled to
// unit sum internally.
func (c *Calculator) CalculateWeighted(t, y, w []float64, grid Grid) (Periodogram, error) {
	if len(t) != len(y) || len(t) != len(w) {
		return Periodogram{}, ErrLengthMismatch
	}

	if len(t) < c.cfg.MinSamples {
		return Periodogram{}, ErrInsufficientSamples
	}

	if err := grid.Validate(); err != nil {
		return Periodogram{}, err
	}

	wsum := vecmath.Sum(w)
	if wsum <= 0 {
		return Periodogram{}, ErrInsufficientSamples
	}

	wn := make([]float64, len(w))
	vecmath.ScaleBlock(wn, w, 1/wsum)

	return c.direct(t, y, wn, grid)
}

// direct evaluates the floating-mean Lomb-Scargle sums frequency by
// frequency. Weights must sum to one.
func (c *Calculator) direct(t, y, w []float64, grid Grid) (Periodogram, error) {
	n := len(t)

	// Weighted mean and variance.
	ybar := vecmath.DotProduct(w, y)

	yc := make([]float64, n) // y - ybar
	for i := range yc {
		yc[i] = y[i] - ybar
	}

	wy := make([]float64, n)
	vecmath.MulBlock(wy, w, yc)

	yy := vecmath.DotProduct(wy, yc)

	power := make([]float64, len(grid))

	if yy <= constVarTol*ybar*ybar {
		// Constant input: no variance to explain.
		return Periodogram{Freqs: grid, Power: power}, nil
	}

	cosv := make([]float64, n)
	sinv := make([]float64, n)
	wc := make([]float64, n)

	for k, f := range grid {
		omega := 2 * math.Pi * f

		for i := range t {
			s, cv := math.Sincos(omega * t[i])
			sinv[i] = s
			cosv[i] = cv
		}

		vecmath.MulBlock(wc, w, cosv)

		cbar := vecmath.Sum(wc)
		sbar := vecmath.DotProduct(w, sinv)

		cc := vecmath.DotProduct(wc, cosv) - cbar*cbar
		cs := vecmath.DotProduct(wc, sinv) - cbar*sbar
		ss := 1 - (cc + cbar*cbar) - sbar*sbar

		ycs := vecmath.DotProduct(wy, cosv)
		yss := vecmath.DotProduct(wy, sinv)

		d := cc*ss - cs*cs
		if d <= 0 {
			continue
		}

		p := (ss*ycs*ycs + cc*yss*yss - 2*cs*ycs*yss) / (yy * d)

		power[k] = clamp01(p)
	}

	return Periodogram{Freqs: grid, Power: power, variance: yy}, nil
}

func clamp01(v float64) float64 {
	switch {
	case v < 0 || math.IsNaN(v):
		return 0
	case v > 1:
		return 1
	}

	return v
}
