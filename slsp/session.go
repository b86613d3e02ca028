package slsp

import (
	"context"
	"errors"
	"runtime"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-slsp/lightcurve"
	"github.com/cwbudde/algo-slsp/periodogram"
	"github.com/cwbudde/algo-slsp/snf"
)

// Session errors.
var (
	ErrNilSeries       = errors.New("slsp: nil series")
	ErrSessionNotReady = errors.New("slsp: ComputeSLSP must run before AnalyzeSNF")
)

// State is the session lifecycle stage.
type State int

const (
	StateUninitialized State = iota
	StateComputed
	StateAnalyzed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateComputed:
		return "computed"
	case StateAnalyzed:
		return "analyzed"
	default:
		return "uninitialized"
	}
}

// Session owns a light curve and the configuration of its sliding
// analysis. ComputeSLSP builds the exploratory time-frequency map once;
// AnalyzeSNF then classifies individual candidate frequencies, caching
// tracks and verdicts so repeated queries cost nothing. Independent
// sessions for different stars coexist freely.
type Session struct {
	series *lightcurve.Series
	cfg    Config
	log    *zap.Logger
	calc   *periodogram.Calculator

	computeMu sync.Mutex

	mu       sync.Mutex
	state    State
	windows  []Window
	nyquists []float64
	global   periodogram.Periodogram
	slmap    *Map
	tracks   map[float64]*trackEntry
	verdicts map[float64]snf.Verdict
}

// trackEntry serializes computation per candidate frequency so that
// concurrent AnalyzeSNF calls for the same candidate do not race into
// duplicate work.
type trackEntry struct {
	mu    sync.Mutex
	done  bool
	track snf.Track
}

// New creates a session over the series with the given options.
func New(series *lightcurve.Series, opts ...Option) (*Session, error) {
	if series == nil {
		return nil, ErrNilSeries
	}

	cfg := ApplyOptions(opts...)

	return &Session{
		series: series,
		cfg:    cfg,
		log:    cfg.Logger,
		calc: periodogram.NewCalculator(periodogram.Config{
			MinSamples:  cfg.MinSamples,
			FastUniform: cfg.FastUniform,
		}),
		tracks:   make(map[float64]*trackEntry),
		verdicts: make(map[float64]snf.Verdict),
	}, nil
}

// State returns the current lifecycle stage.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Series returns the session's light curve.
func (s *Session) Series() *lightcurve.Series { return s.series }

// ComputeSLSP plans the windows and computes the exploratory sliding
// periodogram map plus the global periodogram of the full series. Window
// failures become map gaps; the pass continues. Safe to call repeatedly;
// after the first success it is a no-op. Cancellation via ctx takes
// effect between windows.
func (s *Session) ComputeSLSP(ctx context.Context) error {
	s.computeMu.Lock()
	defer s.computeMu.Unlock()

	if s.State() != StateUninitialized {
		return nil
	}

	t0, t1 := s.series.Span()

	windows, err := PlanWindows(t0, t1, s.cfg.Window)
	if err != nil {
		return err
	}

	fMax := s.cfg.MapMaxFreq
	if fMax <= 0 {
		fMax = s.series.Nyquist()
	}

	grid, err := periodogram.AutoGrid(s.series.Baseline(), fMax, s.cfg.Oversample)
	if err != nil {
		return err
	}

	global, err := s.calc.Calculate(s.series.Time(), s.series.Flux(), grid)
	if err != nil {
		return err
	}

	rows := make([][]float64, len(windows))
	nyquists := make([]float64, len(windows))

	err = s.eachWindow(ctx, windows, func(i int, w Window) {
		t, y := s.series.Segment(w.Start, w.End)
		nyquists[i] = lightcurve.SegmentNyquist(t)

		pg, err := s.windowPeriodogram(t, y, w, grid)
		if err != nil {
			s.log.Warn("sliding periodogram window failed",
				zap.Int("window", i),
				zap.Float64("center", w.Center),
				zap.Error(err))

			return
		}

		rows[i] = pg.Power
	})
	if err != nil {
		return err
	}

	centers := make([]float64, len(windows))
	for i, w := range windows {
		centers[i] = w.Center
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.windows = windows
	s.nyquists = nyquists
	s.global = global
	s.slmap = &Map{Times: centers, Freqs: grid, Power: rows}
	s.state = StateComputed

	return nil
}

// AnalyzeSNF tracks the ridge near freq across the existing windows and
// classifies its drift. Verdicts are cached per frequency; repeated calls
// return the cached verdict unless WithForceRecompute is given. Fails
// with ErrSessionNotReady before ComputeSLSP, ErrFrequencyOutOfRange when
// the search interval leaves the exploratory grid, and snf.ErrEmptyTrack
// when no window resolves a peak.
func (s *Session) AnalyzeSNF(ctx context.Context, freq float64, opts ...AnalyzeOption) (snf.Verdict, error) {
	var ac analyzeConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&ac)
		}
	}

	hw := ac.halfWidth
	if hw <= 0 {
		hw = s.cfg.SearchHalfWidth
	}

	// A custom half-width changes the track, so it always recomputes.
	force := ac.force || ac.halfWidth > 0

	s.mu.Lock()

	if s.state == StateUninitialized {
		s.mu.Unlock()
		return snf.Verdict{}, ErrSessionNotReady
	}

	if v, ok := s.verdicts[freq]; ok && !force {
		s.mu.Unlock()
		return v, nil
	}

	grid := s.slmap.Freqs
	windows := s.windows
	nyquists := s.nyquists

	entry := s.tracks[freq]
	if entry == nil {
		entry = &trackEntry{}
		s.tracks[freq] = entry
	}

	s.mu.Unlock()

	if freq-hw <= 0 || freq-hw < grid.Min() || freq+hw > grid.Max() {
		return snf.Verdict{}, ErrFrequencyOutOfRange
	}

	track, err := s.trackCandidate(ctx, entry, freq, hw, force, windows, nyquists, grid.Spacing())
	if err != nil {
		return snf.Verdict{}, err
	}

	verdict, err := snf.Classify(track, snf.Config{
		Nyquist:        s.series.Nyquist(),
		GridSpacing:    grid.Spacing(),
		MaxGapFraction: s.cfg.MaxGapFraction,
		MaxAliasOrder:  s.cfg.MaxAliasOrder,
	})
	if err != nil {
		return snf.Verdict{}, err
	}

	s.mu.Lock()
	s.verdicts[freq] = verdict
	s.state = StateAnalyzed
	s.mu.Unlock()

	return verdict, nil
}

// trackCandidate computes (or returns the cached) ridge track for a
// candidate frequency over a narrow grid of the map's resolution.
func (s *Session) trackCandidate(ctx context.Context, entry *trackEntry, freq, hw float64, force bool, windows []Window, nyquists []float64, spacing float64) (snf.Track, error) {
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.done && !force {
		return entry.track, nil
	}

	// NewGrid truncates at its max, which would leave the top of the
	// search interval unevaluated whenever 2*hw is not a multiple of the
	// spacing. Extend by one step so [freq-hw, freq+hw] always fits.
	grid, err := periodogram.NewGrid(freq-hw, freq+hw+spacing, spacing)
	if err != nil {
		return snf.Track{}, err
	}

	type result struct {
		peak  Peak
		found bool
	}

	results := make([]result, len(windows))

	err = s.eachWindow(ctx, windows, func(i int, w Window) {
		t, y := s.series.Segment(w.Start, w.End)

		pg, err := s.windowPeriodogram(t, y, w, grid)
		if err != nil {
			s.log.Warn("candidate window failed",
				zap.Float64("freq", freq),
				zap.Int("window", i),
				zap.Error(err))

			return
		}

		peak, found, err := FindPeak(pg, freq, PeakConfig{
			HalfWidth:          hw,
			NoiseFloorMultiple: s.cfg.NoiseFloorMultiple,
		})
		if err != nil {
			s.log.Warn("peak search failed",
				zap.Float64("freq", freq),
				zap.Int("window", i),
				zap.Error(err))

			return
		}

		results[i] = result{peak: peak, found: found}
	})
	if err != nil {
		return snf.Track{}, err
	}

	// Merge in window order regardless of completion order.
	track := snf.Track{Candidate: freq, Windows: len(windows)}

	for i, r := range results {
		if !r.found {
			continue
		}

		track.Points = append(track.Points, snf.TrackPoint{
			Time:        windows[i].Center,
			Freq:        r.peak.Freq,
			Power:       r.peak.Power,
			Nyquist:     nyquists[i],
			BoundaryHit: r.peak.BoundaryHit,
		})
	}

	entry.track = track
	entry.done = true

	return track, nil
}

// eachWindow fans the window computations out over a bounded worker
// group, indexed so callers merge results deterministically.
func (s *Session) eachWindow(ctx context.Context, windows []Window, fn func(i int, w Window)) error {
	// The derived context is canceled once Wait returns, so only the
	// parent context decides the final error.
	g, gctx := errgroup.WithContext(ctx)

	workers := s.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g.SetLimit(workers)

	for i, w := range windows {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			fn(i, w)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	return ctx.Err()
}

func (s *Session) windowPeriodogram(t, y []float64, w Window, grid periodogram.Grid) (periodogram.Periodogram, error) {
	if weights := s.cfg.Taper.Weights(t, w.Start, w.End); weights != nil {
		return s.calc.CalculateWeighted(t, y, weights, grid)
	}

	return s.calc.Calculate(t, y, grid)
}

// Map returns the sliding-periodogram map, or nil before ComputeSLSP.
func (s *Session) Map() *Map {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.slmap
}

// Global returns the periodogram of the full series over the map grid.
// Only meaningful after ComputeSLSP.
func (s *Session) Global() periodogram.Periodogram {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.global
}

// Windows returns the planned windows, or nil before ComputeSLSP.
func (s *Session) Windows() []Window {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.windows
}

// Track returns the cached ridge track for a previously analyzed
// candidate frequency.
func (s *Session) Track(freq float64) (snf.Track, bool) {
	s.mu.Lock()
	entry := s.tracks[freq]
	s.mu.Unlock()

	if entry == nil {
		return snf.Track{}, false
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	return entry.track, entry.done
}

// Verdict returns the cached verdict for a candidate frequency.
func (s *Session) Verdict(freq float64) (snf.Verdict, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.verdicts[freq]

	return v, ok
}

// Verdicts returns all cached verdicts ordered by candidate frequency.
func (s *Session) Verdicts() []snf.Verdict {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]snf.Verdict, 0, len(s.verdicts))
	for _, v := range s.verdicts {
		out = append(out, v)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Candidate < out[j].Candidate
	})

	return out
}

// analyzeConfig holds per-call AnalyzeSNF settings.
type analyzeConfig struct {
	force     bool
	halfWidth float64
}

// AnalyzeOption mutates per-call analysis settings.
type AnalyzeOption func(*analyzeConfig)

// WithForceRecompute recomputes the track and verdict instead of
// returning cached results.
func WithForceRecompute() AnalyzeOption {
	return func(ac *analyzeConfig) {
		ac.force = true
	}
}

// WithHalfWidth overrides the session search half-width for one call,
// e.g. to widen the band after snf.ErrEmptyTrack.
func WithHalfWidth(hw float64) AnalyzeOption {
	return func(ac *analyzeConfig) {
		if hw > 0 {
			ac.halfWidth = hw
		}
	}
}
