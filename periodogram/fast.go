package periodogram

import (
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	vecmath "github.com/cwbudde/algo-vecmath"
)

// maxFFTSize bounds the zero-padded transform length of the fast path.
// Segments needing more resolution than this fall back to the direct sums.
const maxFFTSize = 1 << 22

// fastUniform computes the classic periodogram of a uniformly sampled
// segment via FFT and interpolates the power onto the grid. On uniform
// sampling the Lomb-Scargle spectrum reduces to the classic periodogram,
// so this is an exact shortcut up to interpolation error. ok is false when
// the segment is not uniform enough, the grid reaches beyond the segment
// Nyquist, or the required padding exceeds maxFFTSize.
func (c *Calculator) fastUniform(t, y []float64, grid Grid) (Periodogram, bool) {
	dt, ok := uniformCadence(t, c.cfg.UniformTol)
	if !ok {
		return Periodogram{}, false
	}

	n := len(y)
	fs := 1 / dt

	if grid.Max() >= fs/2 {
		return Periodogram{}, false
	}

	spacing := grid.Spacing()
	if spacing <= 0 {
		return Periodogram{}, false
	}

	fftSize := nextPowerOf2(2 * n)
	if fftSize > maxFFTSize {
		return Periodogram{}, false
	}

	for float64(fftSize)*spacing < fs {
		fftSize *= 2
		if fftSize > maxFFTSize {
			return Periodogram{}, false
		}
	}

	mean := vecmath.Sum(y) / float64(n)

	var yy float64

	in := make([]complex128, fftSize)
	for i, v := range y {
		d := v - mean
		yy += d * d
		in[i] = complex(d, 0)
	}

	yy /= float64(n)

	power := make([]float64, len(grid))

	if yy <= constVarTol*mean*mean {
		return Periodogram{Freqs: grid, Power: power}, true
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return Periodogram{}, false
	}

	out := make([]complex128, fftSize)

	err = plan.Forward(out, in)
	if err != nil {
		return Periodogram{}, false
	}

	// One-sided squared magnitudes, normalized like the direct path.
	bins := fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)

	for i := 0; i < bins; i++ {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}

	mag2 := make([]float64, bins)
	vecmath.Power(mag2, re, im)

	norm := 2 / (float64(n) * float64(n) * yy)
	binHz := fs / float64(fftSize)

	for k, f := range grid {
		x := f / binHz
		lo := int(x)

		if lo+1 >= bins {
			continue
		}

		frac := x - float64(lo)
		p := (mag2[lo]*(1-frac) + mag2[lo+1]*frac) * norm

		power[k] = clamp01(p)
	}

	return Periodogram{Freqs: grid, Power: power, variance: yy}, true
}

// uniformCadence reports the common sample spacing when every consecutive
// spacing agrees with the median within the relative tolerance.
func uniformCadence(t []float64, tol float64) (float64, bool) {
	if len(t) < 2 {
		return 0, false
	}

	dt := make([]float64, len(t)-1)
	for i := range dt {
		dt[i] = t[i+1] - t[i]
	}

	med := medianOf(dt)
	if med <= 0 {
		return 0, false
	}

	for _, d := range dt {
		if math.Abs(d-med) > tol*med {
			return 0, false
		}
	}

	return med, true
}

func medianOf(x []float64) float64 {
	// Small helper kept local: sorting a copy is cheap at window sizes.
	sorted := append([]float64(nil), x...)

	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j] < sorted[j-1]; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}

	if len(sorted)%2 == 1 {
		return sorted[len(sorted)/2]
	}

	return 0.5 * (sorted[len(sorted)/2-1] + sorted[len(sorted)/2])
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p *= 2
	}

	return p
}
