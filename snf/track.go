// Package snf classifies tracked periodogram ridges as genuine signals or
// super-Nyquist aliases.
//
// A super-Nyquist frequency (SNF) is a real oscillation above the Nyquist
// limit of the observing cadence. In a static periodogram it is
// indistinguishable from its reflected alias; in a sliding periodogram the
// alias drifts as the effective Nyquist of each window shifts, while a
// genuine signal stays put. The classifier turns that drift pattern into a
// verdict.
package snf

// TrackPoint is one resolved ridge sample: the peak found near the
// candidate frequency in a single window.
type TrackPoint struct {
	Time    float64 // window center time
	Freq    float64 // estimated peak frequency
	Power   float64 // normalized peak power
	Nyquist float64 // effective Nyquist of the window's sampling
	// BoundaryHit marks peaks found at the edge of the search interval,
	// where the true ridge may lie outside it.
	BoundaryHit bool
}

// Track is the ridge of a candidate frequency across the sliding windows.
// Windows counts all attempted windows, so gaps are recoverable.
type Track struct {
	Candidate float64
	Points    []TrackPoint
	Windows   int
}

// GapFraction returns the fraction of attempted windows without a
// resolved peak. A track with no attempted windows counts as all gaps.
func (t Track) GapFraction() float64 {
	if t.Windows == 0 {
		return 1
	}

	return 1 - float64(len(t.Points))/float64(t.Windows)
}

// Times returns the window center times of the resolved points.
func (t Track) Times() []float64 {
	out := make([]float64, len(t.Points))
	for i, p := range t.Points {
		out[i] = p.Time
	}

	return out
}

// Freqs returns the estimated frequencies of the resolved points.
func (t Track) Freqs() []float64 {
	out := make([]float64, len(t.Points))
	for i, p := range t.Points {
		out[i] = p.Freq
	}

	return out
}
