package slsp

import "math"

// Taper selects the weighting applied to samples inside each window
// before the periodogram fit. The classic sliding analysis uses a
// rectangular window; Hann or Tukey tapers trade peak height for sidelobe
// suppression when nearby frequencies bleed into the search band.
type Taper int

const (
	TaperRectangular Taper = iota
	TaperHann
	TaperTukey
)

// tukeyFlat is the flat fraction of the Tukey taper.
const tukeyFlat = 0.5

// Weights evaluates the taper at each sample's fractional position inside
// [start, end]. Returns nil for the rectangular taper, meaning uniform
// weights.
func (tp Taper) Weights(times []float64, start, end float64) []float64 {
	if tp == TaperRectangular || end <= start {
		return nil
	}

	out := make([]float64, len(times))

	span := end - start
	for i, t := range times {
		u := (t - start) / span
		out[i] = tp.at(u)
	}

	return out
}

// at evaluates the taper at the fractional position u in [0, 1].
func (tp Taper) at(u float64) float64 {
	if u < 0 || u > 1 {
		return 0
	}

	switch tp {
	case TaperHann:
		return 0.5 - 0.5*math.Cos(2*math.Pi*u)
	case TaperTukey:
		edge := (1 - tukeyFlat) / 2
		switch {
		case u < edge:
			return 0.5 - 0.5*math.Cos(math.Pi*u/edge)
		case u > 1-edge:
			return 0.5 - 0.5*math.Cos(math.Pi*(1-u)/edge)
		}

		return 1
	}

	return 1
}
