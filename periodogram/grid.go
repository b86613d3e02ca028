package periodogram

import "errors"

// Grid errors.
var (
	ErrInvalidGrid = errors.New("periodogram: grid must be ascending and positive")
	ErrEmptyGrid   = errors.New("periodogram: empty frequency grid")
)

// Grid is an ascending set of positive trial frequencies.
type Grid []float64

// NewGrid builds a uniform grid from min to at most max with the given
// step. min and step must be positive and max must exceed min.
func NewGrid(min, max, step float64) (Grid, error) {
	if min <= 0 || step <= 0 || max <= min {
		return nil, ErrInvalidGrid
	}

	n := int((max-min)/step) + 1
	g := make(Grid, n)

	for i := range g {
		g[i] = min + float64(i)*step
	}

	return g, nil
}

// AutoGrid builds the exploratory grid for a series with the given time
// baseline: spacing 1/(oversample*baseline), covering (0, fMax].
func AutoGrid(baseline, fMax float64, oversample int) (Grid, error) {
	if baseline <= 0 || fMax <= 0 || oversample <= 0 {
		return nil, ErrInvalidGrid
	}

	step := 1 / (float64(oversample) * baseline)

	return NewGrid(step, fMax, step)
}

// Validate checks the ascending-positive invariant.
func (g Grid) Validate() error {
	if len(g) == 0 {
		return ErrEmptyGrid
	}

	if g[0] <= 0 {
		return ErrInvalidGrid
	}

	for i := 1; i < len(g); i++ {
		if g[i] <= g[i-1] {
			return ErrInvalidGrid
		}
	}

	return nil
}

// Min returns the lowest frequency.
func (g Grid) Min() float64 { return g[0] }

// Max returns the highest frequency.
func (g Grid) Max() float64 { return g[len(g)-1] }

// Spacing returns the spacing between the first two frequencies, which for
// the uniform grids built here equals the grid resolution.
func (g Grid) Spacing() float64 {
	if len(g) < 2 {
		return 0
	}

	return g[1] - g[0]
}

// IndexRange returns the inclusive index range [lo, hi] of frequencies
// within [fLo, fHi]. ok is false when no grid frequency falls inside.
func (g Grid) IndexRange(fLo, fHi float64) (lo, hi int, ok bool) {
	lo = 0
	for lo < len(g) && g[lo] < fLo {
		lo++
	}

	hi = len(g) - 1
	for hi >= 0 && g[hi] > fHi {
		hi--
	}

	return lo, hi, lo <= hi
}
