package periodogram

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-slsp/internal/testutil"
)

func peakIndex(p Periodogram) int {
	idx := 0
	for i, v := range p.Power {
		if v > p.Power[idx] {
			idx = i
		}
	}

	return idx
}

func TestCalculateRecoversSineFrequency(t *testing.T) {
	times := testutil.JitteredTimes(42, 0, 0.02, 0.4, 500)
	flux := testutil.Sine(times, 3.3, 1, 0.7)

	grid, err := NewGrid(2, 5, 0.005)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}

	pg, err := NewCalculator(Config{}).Calculate(times, flux, grid)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	idx := peakIndex(pg)

	testutil.RequireNear(t, "peak frequency", grid[idx], 3.3, grid.Spacing())

	if pg.Power[idx] < 0.9 {
		t.Fatalf("peak power = %v, want > 0.9 for a noiseless sinusoid", pg.Power[idx])
	}

	testutil.RequireNear(t, "peak amplitude", pg.Amplitude(idx), 1, 0.1)
	testutil.RequireFinite(t, pg.Power)
}

func TestCalculatePowerRange(t *testing.T) {
	times := testutil.JitteredTimes(3, 0, 0.05, 0.4, 300)
	flux := testutil.Add(
		testutil.Sine(times, 2.1, 1, 0),
		testutil.GaussianNoise(11, 0.5, len(times)),
	)

	grid, err := NewGrid(0.5, 8, 0.01)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}

	pg, err := NewCalculator(Config{}).Calculate(times, flux, grid)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	for i, p := range pg.Power {
		if p < 0 || p > 1 {
			t.Fatalf("power[%d] = %v outside [0, 1]", i, p)
		}
	}
}

func TestCalculateInsufficientSamples(t *testing.T) {
	times := []float64{0, 1, 2, 3}
	flux := []float64{1, 2, 1, 2}

	grid, _ := NewGrid(0.1, 1, 0.1)

	_, err := NewCalculator(Config{}).Calculate(times, flux, grid)
	if !errors.Is(err, ErrInsufficientSamples) {
		t.Fatalf("got %v, want ErrInsufficientSamples", err)
	}
}

func TestCalculateConstantInput(t *testing.T) {
	times := testutil.UniformTimes(0, 0.1, 50)
	flux := make([]float64, 50)
	for i := range flux {
		flux[i] = 2.5
	}

	grid, _ := NewGrid(0.5, 3, 0.05)

	pg, err := NewCalculator(Config{}).Calculate(times, flux, grid)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	for i, p := range pg.Power {
		if p != 0 {
			t.Fatalf("power[%d] = %v, want 0 for constant input", i, p)
		}
	}
}

func TestCalculateDeterministic(t *testing.T) {
	times := testutil.JitteredTimes(9, 0, 0.02, 0.3, 200)
	flux := testutil.Sine(times, 4, 1, 0)

	grid, _ := NewGrid(3, 5, 0.01)

	calc := NewCalculator(Config{})

	a, err := calc.Calculate(times, flux, grid)
	if err != nil {
		t.Fatalf("first Calculate: %v", err)
	}

	b, err := calc.Calculate(times, flux, grid)
	if err != nil {
		t.Fatalf("second Calculate: %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, a.Power, b.Power, 0)
}

func TestCalculateWeightedMatchesUniform(t *testing.T) {
	times := testutil.JitteredTimes(5, 0, 0.02, 0.3, 200)
	flux := testutil.Sine(times, 4, 1, 0)

	grid, _ := NewGrid(3, 5, 0.01)

	calc := NewCalculator(Config{})

	plain, err := calc.Calculate(times, flux, grid)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	weights := make([]float64, len(times))
	for i := range weights {
		weights[i] = 2 // uniform, unnormalized
	}

	weighted, err := calc.CalculateWeighted(times, flux, weights, grid)
	if err != nil {
		t.Fatalf("CalculateWeighted: %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, plain.Power, weighted.Power, 1e-9)
}

func TestCalculateWeightedHannKeepsPeak(t *testing.T) {
	times := testutil.UniformTimes(0, 0.02, 400)
	flux := testutil.Sine(times, 4, 1, 0)

	grid, _ := NewGrid(3, 5, 0.01)

	weights := make([]float64, len(times))
	span := times[len(times)-1] - times[0]
	for i, tm := range times {
		u := (tm - times[0]) / span
		weights[i] = 0.5 - 0.5*math.Cos(2*math.Pi*u)
	}

	pg, err := NewCalculator(Config{}).CalculateWeighted(times, flux, weights, grid)
	if err != nil {
		t.Fatalf("CalculateWeighted: %v", err)
	}

	idx := peakIndex(pg)

	testutil.RequireNear(t, "tapered peak frequency", pg.Freqs[idx], 4, 2*grid.Spacing())
}
