package lightcurve

import (
	"errors"
	"math"
	"testing"
)

func TestNewSortsByTime(t *testing.T) {
	s, err := New([]float64{3, 1, 2}, []float64{30, 10, 20})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	wantTime := []float64{1, 2, 3}
	wantFlux := []float64{10, 20, 30}

	for i := range wantTime {
		if s.Time()[i] != wantTime[i] || s.Flux()[i] != wantFlux[i] {
			t.Fatalf("sample %d: got (%v, %v), want (%v, %v)",
				i, s.Time()[i], s.Flux()[i], wantTime[i], wantFlux[i])
		}
	}
}

func TestNewErrors(t *testing.T) {
	cases := []struct {
		name string
		time []float64
		flux []float64
		want error
	}{
		{"length mismatch", []float64{1, 2}, []float64{1}, ErrLengthMismatch},
		{"too short", []float64{1}, []float64{1}, ErrTooShort},
		{"duplicate time", []float64{1, 1, 2}, []float64{1, 2, 3}, ErrDuplicateTime},
		{"nan time", []float64{1, math.NaN()}, []float64{1, 2}, ErrBadSample},
		{"inf flux", []float64{1, 2}, []float64{1, math.Inf(1)}, ErrBadSample},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.time, tc.flux)
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestSpanAndCadence(t *testing.T) {
	time := make([]float64, 11)
	flux := make([]float64, 11)

	for i := range time {
		time[i] = 5 + 0.5*float64(i)
		flux[i] = 1
	}

	s, err := New(time, flux)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	t0, t1 := s.Span()
	if t0 != 5 || t1 != 10 {
		t.Fatalf("span = (%v, %v), want (5, 10)", t0, t1)
	}

	if got := s.Baseline(); got != 5 {
		t.Fatalf("baseline = %v, want 5", got)
	}

	if got := s.MedianCadence(); math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("median cadence = %v, want 0.5", got)
	}

	if got := s.Nyquist(); math.Abs(got-1) > 1e-12 {
		t.Fatalf("nyquist = %v, want 1", got)
	}
}

func TestSegmentHalfOpen(t *testing.T) {
	s, err := New([]float64{0, 1, 2, 3, 4}, []float64{0, 10, 20, 30, 40})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	time, flux := s.Segment(1, 3)

	if len(time) != 2 || time[0] != 1 || time[1] != 2 {
		t.Fatalf("segment times = %v, want [1 2]", time)
	}

	if flux[0] != 10 || flux[1] != 20 {
		t.Fatalf("segment flux = %v, want [10 20]", flux)
	}
}

func TestSegmentNyquist(t *testing.T) {
	if got := SegmentNyquist([]float64{1}); got != 0 {
		t.Fatalf("single sample: got %v, want 0", got)
	}

	got := SegmentNyquist([]float64{0, 0.25, 0.5, 0.75})
	if math.Abs(got-2) > 1e-12 {
		t.Fatalf("nyquist = %v, want 2", got)
	}
}

func TestNormalizeMedian(t *testing.T) {
	s, err := New([]float64{0, 1, 2, 3, 4}, []float64{1, 2, 4, 2, 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	n := s.NormalizeMedian()

	// Median of {1,1,2,2,4} is 2.
	want := []float64{0.5, 1, 2, 1, 0.5}
	for i, v := range n.Flux() {
		if math.Abs(v-want[i]) > 1e-12 {
			t.Fatalf("flux[%d] = %v, want %v", i, v, want[i])
		}
	}

	// The source series is untouched.
	if s.Flux()[2] != 4 {
		t.Fatalf("source flux mutated: %v", s.Flux())
	}
}
