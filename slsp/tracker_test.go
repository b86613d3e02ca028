package slsp

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-slsp/periodogram"
)

// flatSpectrum builds a periodogram over [4, 6] with 0.5 spacing and the
// given powers.
func flatSpectrum(t *testing.T, powers []float64) periodogram.Periodogram {
	t.Helper()

	grid, err := periodogram.NewGrid(4, 6, 0.5)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}

	if len(powers) != len(grid) {
		t.Fatalf("fixture needs %d powers, got %d", len(grid), len(powers))
	}

	return periodogram.Periodogram{Freqs: grid, Power: powers}
}

func TestFindPeakInterior(t *testing.T) {
	pg := flatSpectrum(t, []float64{0.1, 0.2, 0.9, 0.2, 0.1})

	peak, found, err := FindPeak(pg, 5, PeakConfig{HalfWidth: 1})
	if err != nil {
		t.Fatalf("FindPeak: %v", err)
	}

	if !found {
		t.Fatal("peak not found")
	}

	if peak.Freq != 5 || peak.Power != 0.9 {
		t.Fatalf("peak = (%v, %v), want (5, 0.9)", peak.Freq, peak.Power)
	}

	if peak.BoundaryHit {
		t.Fatal("interior peak flagged as boundary hit")
	}
}

func TestFindPeakBoundaryHit(t *testing.T) {
	pg := flatSpectrum(t, []float64{0.1, 0.2, 0.3, 0.4, 0.9})

	peak, found, err := FindPeak(pg, 5, PeakConfig{HalfWidth: 1})
	if err != nil {
		t.Fatalf("FindPeak: %v", err)
	}

	if !found || peak.Freq != 6 {
		t.Fatalf("peak = (%v, found=%v), want (6, true)", peak.Freq, found)
	}

	if !peak.BoundaryHit {
		t.Fatal("edge maximum not flagged as boundary hit")
	}
}

func TestFindPeakTieBreaksLowFrequency(t *testing.T) {
	pg := flatSpectrum(t, []float64{0.1, 0.7, 0.2, 0.7, 0.1})

	peak, found, err := FindPeak(pg, 5, PeakConfig{HalfWidth: 1})
	if err != nil {
		t.Fatalf("FindPeak: %v", err)
	}

	if !found || peak.Freq != 4.5 {
		t.Fatalf("peak freq = %v, want 4.5 (lower frequency wins ties)", peak.Freq)
	}
}

func TestFindPeakNoiseFloorGap(t *testing.T) {
	pg := flatSpectrum(t, []float64{0.10, 0.11, 0.12, 0.11, 0.10})

	_, found, err := FindPeak(pg, 5, PeakConfig{HalfWidth: 1, NoiseFloorMultiple: 3})
	if err != nil {
		t.Fatalf("FindPeak: %v", err)
	}

	if found {
		t.Fatal("sub-floor maximum reported as a peak")
	}
}

func TestFindPeakOutOfRange(t *testing.T) {
	pg := flatSpectrum(t, []float64{0.1, 0.2, 0.3, 0.2, 0.1})

	if _, _, err := FindPeak(pg, 4, PeakConfig{HalfWidth: 1}); !errors.Is(err, ErrFrequencyOutOfRange) {
		t.Fatalf("below grid: got %v, want ErrFrequencyOutOfRange", err)
	}

	if _, _, err := FindPeak(pg, 6, PeakConfig{HalfWidth: 1}); !errors.Is(err, ErrFrequencyOutOfRange) {
		t.Fatalf("above grid: got %v, want ErrFrequencyOutOfRange", err)
	}

	if _, _, err := FindPeak(pg, 0.5, PeakConfig{HalfWidth: 1}); !errors.Is(err, ErrFrequencyOutOfRange) {
		t.Fatalf("below zero: got %v, want ErrFrequencyOutOfRange", err)
	}
}
