package slsp

import (
	"errors"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-slsp/periodogram"
)

// ErrFrequencyOutOfRange reports a search interval extending below zero
// or outside the evaluated frequency grid.
var ErrFrequencyOutOfRange = errors.New("slsp: search interval outside the frequency grid")

// PeakConfig controls ridge extraction from a single periodogram.
type PeakConfig struct {
	// HalfWidth is the search half-width around the target frequency.
	HalfWidth float64
	// NoiseFloorMultiple rejects peaks whose power is below this
	// multiple of the median power over the full grid. Zero or negative
	// disables the floor.
	NoiseFloorMultiple float64
}

// Peak is a located power maximum.
type Peak struct {
	Freq  float64
	Power float64
	// BoundaryHit marks a maximum at the edge of the search interval,
	// where the true peak may lie outside it.
	BoundaryHit bool
}

// FindPeak locates the maximum power within [f0-HalfWidth, f0+HalfWidth].
// found is false when every power in the interval sits below the noise
// floor (a track gap). Exact power ties resolve to the lower frequency.
func FindPeak(pg periodogram.Periodogram, f0 float64, cfg PeakConfig) (Peak, bool, error) {
	fLo := f0 - cfg.HalfWidth
	fHi := f0 + cfg.HalfWidth

	// Slack of a millionth of a grid step absorbs float drift when the
	// interval coincides with the grid edges.
	eps := pg.Freqs.Spacing() * 1e-6

	if fLo < 0 || fLo < pg.Freqs.Min()-eps || fHi > pg.Freqs.Max()+eps {
		return Peak{}, false, ErrFrequencyOutOfRange
	}

	lo, hi, ok := pg.Freqs.IndexRange(fLo-eps, fHi+eps)
	if !ok {
		return Peak{}, false, ErrFrequencyOutOfRange
	}

	maxIdx := lo
	for i := lo + 1; i <= hi; i++ {
		if pg.Power[i] > pg.Power[maxIdx] {
			maxIdx = i
		}
	}

	if cfg.NoiseFloorMultiple > 0 {
		floor := cfg.NoiseFloorMultiple * medianPower(pg.Power)
		if pg.Power[maxIdx] < floor {
			return Peak{}, false, nil
		}
	}

	return Peak{
		Freq:        pg.Freqs[maxIdx],
		Power:       pg.Power[maxIdx],
		BoundaryHit: maxIdx == lo || maxIdx == hi,
	}, true, nil
}

func medianPower(power []float64) float64 {
	sorted := make([]float64, len(power))
	copy(sorted, power)
	sort.Float64s(sorted)

	return stat.Quantile(0.5, stat.Empirical, sorted, nil)
}
