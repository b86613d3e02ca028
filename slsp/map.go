package slsp

import "github.com/cwbudde/algo-slsp/periodogram"

// Map is the sliding-periodogram product: one power spectrum per window
// over a shared frequency grid, suitable for a time-frequency image.
// Power[i] is the spectrum of window i; a nil row marks a window that
// failed (too few samples) and appears as a gap.
type Map struct {
	Times []float64 // window center times
	Freqs periodogram.Grid
	Power [][]float64
}

// At returns the power of window i at grid index j, and false for gaps.
func (m *Map) At(i, j int) (float64, bool) {
	if i < 0 || i >= len(m.Power) || m.Power[i] == nil {
		return 0, false
	}

	if j < 0 || j >= len(m.Power[i]) {
		return 0, false
	}

	return m.Power[i][j], true
}

// Gaps returns the number of failed windows.
func (m *Map) Gaps() int {
	n := 0

	for _, row := range m.Power {
		if row == nil {
			n++
		}
	}

	return n
}
