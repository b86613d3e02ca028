// Package lightcurve provides the immutable time-series container used by
// the sliding-periodogram analysis.
//
// A Series holds brightness samples ordered by strictly increasing time.
// Sampling may be irregular and may contain gaps; the Series itself carries
// no cadence assumption beyond what its accessors derive on demand.
//
// Unit conventions follow the surrounding application: time in days (or
// seconds, consistently within a session), flux in arbitrary consistent
// units, typically median-normalized.
package lightcurve

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Errors returned by the Series constructor.
var (
	ErrTooShort       = errors.New("lightcurve: series needs at least two samples")
	ErrLengthMismatch = errors.New("lightcurve: time and flux lengths differ")
	ErrDuplicateTime  = errors.New("lightcurve: duplicate time stamps")
	ErrBadSample      = errors.New("lightcurve: non-finite time or flux value")
)

// Series is an immutable, time-sorted light curve.
type Series struct {
	time []float64
	flux []float64
}

// New builds a Series from parallel time and flux slices. The input is
// copied and sorted by time; duplicate or non-finite values are rejected.
func New(time, flux []float64) (*Series, error) {
	if len(time) != len(flux) {
		return nil, ErrLengthMismatch
	}

	if len(time) < 2 {
		return nil, ErrTooShort
	}

	s := &Series{
		time: make([]float64, len(time)),
		flux: make([]float64, len(flux)),
	}
	copy(s.time, time)
	copy(s.flux, flux)

	for i := range s.time {
		if math.IsNaN(s.time[i]) || math.IsInf(s.time[i], 0) ||
			math.IsNaN(s.flux[i]) || math.IsInf(s.flux[i], 0) {
			return nil, ErrBadSample
		}
	}

	sort.Sort(byTime{s})

	for i := 1; i < len(s.time); i++ {
		if s.time[i] == s.time[i-1] {
			return nil, ErrDuplicateTime
		}
	}

	return s, nil
}

type byTime struct{ s *Series }

func (b byTime) Len() int           { return len(b.s.time) }
func (b byTime) Less(i, j int) bool { return b.s.time[i] < b.s.time[j] }
func (b byTime) Swap(i, j int) {
	b.s.time[i], b.s.time[j] = b.s.time[j], b.s.time[i]
	b.s.flux[i], b.s.flux[j] = b.s.flux[j], b.s.flux[i]
}

// Len returns the number of samples.
func (s *Series) Len() int { return len(s.time) }

// Time returns the sorted time stamps. Callers must not modify the slice.
func (s *Series) Time() []float64 { return s.time }

// Flux returns the flux values in time order. Callers must not modify the
// slice.
func (s *Series) Flux() []float64 { return s.flux }

// Span returns the first and last time stamps.
func (s *Series) Span() (t0, t1 float64) {
	return s.time[0], s.time[len(s.time)-1]
}

// Baseline returns the total time span t_max - t_min.
func (s *Series) Baseline() float64 {
	t0, t1 := s.Span()
	return t1 - t0
}

// MedianCadence returns the median spacing between consecutive samples.
func (s *Series) MedianCadence() float64 {
	dt := make([]float64, len(s.time)-1)
	for i := range dt {
		dt[i] = s.time[i+1] - s.time[i]
	}

	return median(dt)
}

// Nyquist returns the effective Nyquist frequency of the full series,
// 1/(2*median cadence). For irregular sampling this is the conventional
// pseudo-Nyquist used in asteroseismic alias analysis.
func (s *Series) Nyquist() float64 {
	return 1 / (2 * s.MedianCadence())
}

// Segment returns zero-copy views of the samples with start <= t < end.
// The returned slices alias the Series storage and must not be modified.
func (s *Series) Segment(start, end float64) (time, flux []float64) {
	lo := sort.SearchFloat64s(s.time, start)
	hi := sort.SearchFloat64s(s.time, end)

	return s.time[lo:hi], s.flux[lo:hi]
}

// SegmentNyquist returns the effective Nyquist frequency of a segment's
// time stamps, derived from its median cadence. Returns 0 when the segment
// holds fewer than two samples.
func SegmentNyquist(time []float64) float64 {
	if len(time) < 2 {
		return 0
	}

	dt := make([]float64, len(time)-1)
	for i := range dt {
		dt[i] = time[i+1] - time[i]
	}

	m := median(dt)
	if m <= 0 {
		return 0
	}

	return 1 / (2 * m)
}

// NormalizeMedian returns a new Series with flux divided by its median.
// The drift analysis expects flux near unity; raw instrumental counts
// should pass through here first.
func (s *Series) NormalizeMedian() *Series {
	med := median(s.flux)

	out := &Series{
		time: s.time,
		flux: make([]float64, len(s.flux)),
	}

	if med == 0 {
		copy(out.flux, s.flux)
		return out
	}

	for i, v := range s.flux {
		out.flux[i] = v / med
	}

	return out
}

func median(x []float64) float64 {
	sorted := make([]float64, len(x))
	copy(sorted, x)
	sort.Float64s(sorted)

	return stat.Quantile(0.5, stat.Empirical, sorted, nil)
}
