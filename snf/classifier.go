package snf

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Classifier errors.
var (
	ErrEmptyTrack    = errors.New("snf: track has no resolved points")
	ErrInvalidConfig = errors.New("snf: nyquist and grid spacing must be positive")
)

// Label is the classification outcome for a candidate frequency.
type Label int

const (
	// Indeterminate: the track is gap-dominated or matches neither model.
	Indeterminate Label = iota
	// Genuine: a stable, non-drifting signal at the candidate frequency.
	Genuine
	// Alias: the drift matches a reflection of a super-Nyquist frequency.
	Alias
)

// String returns the label name.
func (l Label) String() string {
	switch l {
	case Genuine:
		return "genuine"
	case Alias:
		return "alias"
	default:
		return "indeterminate"
	}
}

// Config holds classifier parameters. Nyquist and GridSpacing are
// required; the remaining fields default as documented.
type Config struct {
	// Nyquist is the effective Nyquist frequency of the full series.
	Nyquist float64
	// GridSpacing is the frequency resolution of the tracking grid; all
	// tolerances below are expressed in multiples of it.
	GridSpacing float64
	// StableTol bounds the track scatter of a genuine signal, in grid
	// spacings. Default 1.
	StableTol float64
	// ResidualTol bounds the de-aliased residual of an accepted alias
	// fit, in grid spacings. Default 2.
	ResidualTol float64
	// DriftGate is the factor by which the alias model must beat the
	// constant model's residual. Default 0.5.
	DriftGate float64
	// MaxGapFraction above which the track is Indeterminate. Default 0.5.
	MaxGapFraction float64
	// MaxAliasOrder bounds the reflection order search. Default 3.
	MaxAliasOrder int
	// MinPoints is the fewest resolved points the fits accept. Default 4.
	MinPoints int
}

func normalizeConfig(cfg Config) Config {
	if cfg.StableTol <= 0 {
		cfg.StableTol = 1
	}

	if cfg.ResidualTol <= 0 {
		cfg.ResidualTol = 2
	}

	if cfg.DriftGate <= 0 {
		cfg.DriftGate = 0.5
	}

	if cfg.MaxGapFraction <= 0 {
		cfg.MaxGapFraction = 0.5
	}

	if cfg.MaxAliasOrder <= 0 {
		cfg.MaxAliasOrder = 3
	}

	if cfg.MinPoints <= 0 {
		cfg.MinPoints = 4
	}

	return cfg
}

// Verdict is the immutable result of classifying one candidate frequency.
type Verdict struct {
	Label     Label
	Candidate float64

	// TrueFreq and AliasOrder are set for Alias verdicts: the inferred
	// super-Nyquist frequency and the reflection order k in
	// f_apparent = |2k*f_Ny - f_true|.
	TrueFreq   float64
	AliasOrder int

	// Confidence in [0, 1]; 0 for Indeterminate.
	Confidence float64

	// TrackScatter is the residual of the constant-frequency model and
	// Residual that of the accepted model. SigmaFreq is the standard
	// error of the reported frequency (candidate or TrueFreq).
	TrackScatter float64
	Residual     float64
	SigmaFreq    float64

	Track Track
}

// fit is one candidate explanation of the track, in the spirit of a model
// comparison: constant apparent frequency, or a de-aliased constant or
// linearly varying true frequency at reflection order k.
type fit struct {
	order    int
	trueFreq float64
	rmse     float64
}

// Classify decides whether the tracked ridge behaves as a genuine signal,
// a super-Nyquist alias, or neither. See the package comment for the
// model. Boundary-hit points are treated as gaps; a gap-dominated track
// never yields Genuine or Alias.
func Classify(track Track, cfg Config) (Verdict, error) {
	cfg = normalizeConfig(cfg)

	if cfg.Nyquist <= 0 || cfg.GridSpacing <= 0 {
		return Verdict{}, ErrInvalidConfig
	}

	if len(track.Points) == 0 {
		return Verdict{}, ErrEmptyTrack
	}

	v := Verdict{
		Label:     Indeterminate,
		Candidate: track.Candidate,
		Track:     track,
	}

	// A boundary-hit peak may sit outside its search band, so it counts
	// as a gap rather than as evidence for either model.
	pts := make([]TrackPoint, 0, len(track.Points))
	for _, p := range track.Points {
		if !p.BoundaryHit {
			pts = append(pts, p)
		}
	}

	gapFrac := 1.0
	if track.Windows > 0 {
		gapFrac = 1 - float64(len(pts))/float64(track.Windows)
	}

	if gapFrac > cfg.MaxGapFraction || len(pts) < cfg.MinPoints {
		return v, nil
	}

	times := make([]float64, len(pts))
	freqs := make([]float64, len(pts))

	for i, p := range pts {
		times[i] = p.Time
		freqs[i] = p.Freq
	}

	n := float64(len(freqs))

	mean := stat.Mean(freqs, nil)
	scatter := rmseAbout(freqs, mean)

	v.TrackScatter = scatter

	stableTol := cfg.StableTol * cfg.GridSpacing

	if scatter <= stableTol && math.Abs(mean-track.Candidate) <= stableTol {
		v.Label = Genuine
		v.Residual = scatter
		v.SigmaFreq = scatter / math.Sqrt(n)
		v.Confidence = 1 - scatter/stableTol

		return v, nil
	}

	best, ok := bestAliasFit(pts, cfg, times)
	if !ok {
		return v, nil
	}

	residualTol := cfg.ResidualTol * cfg.GridSpacing

	if best.rmse <= residualTol && best.rmse < cfg.DriftGate*scatter {
		v.Label = Alias
		v.TrueFreq = best.trueFreq
		v.AliasOrder = best.order
		v.Residual = best.rmse
		v.SigmaFreq = best.rmse / math.Sqrt(n)
		v.Confidence = 1 - best.rmse/scatter

		return v, nil
	}

	return v, nil
}

// bestAliasFit searches reflection orders k=1..MaxAliasOrder and both
// reflection branches for the model that collapses the track to the most
// constant (or most slowly varying) true frequency. Orders are scanned
// ascending with strict improvement, so ties resolve to the smaller k.
func bestAliasFit(pts []TrackPoint, cfg Config, times []float64) (fit, bool) {
	var (
		best  fit
		found bool
	)

	u := make([]float64, len(pts))

	for k := 1; k <= cfg.MaxAliasOrder; k++ {
		for _, sign := range []float64{1, -1} {
			// f_true = 2k*fNy -/+ f_apparent, per window's own Nyquist.
			for i, p := range pts {
				u[i] = 2*float64(k)*p.Nyquist - sign*p.Freq
			}

			f := fitTrueFreq(times, u, k)

			if f.trueFreq <= 0 {
				continue
			}

			if !found || f.rmse < best.rmse {
				best = f
				found = true
			}
		}
	}

	return best, found
}

// fitTrueFreq fits the de-aliased series u(t) with a constant and with a
// linear model, keeping the better residual (degree-of-freedom corrected,
// so the linear model must earn its extra parameter).
func fitTrueFreq(times, u []float64, order int) fit {
	n := float64(len(u))

	mean := stat.Mean(u, nil)
	constRMSE := math.Sqrt(sumSquaredAbout(u, mean) / (n - 1))

	out := fit{order: order, trueFreq: mean, rmse: constRMSE}

	if len(u) < 3 {
		return out
	}

	alpha, beta := stat.LinearRegression(times, u, nil, false)

	var rss float64

	for i, t := range times {
		r := u[i] - (alpha + beta*t)
		rss += r * r
	}

	linRMSE := math.Sqrt(rss / (n - 2))

	if linRMSE < out.rmse {
		tMid := 0.5 * (times[0] + times[len(times)-1])
		out.trueFreq = alpha + beta*tMid
		out.rmse = linRMSE
	}

	return out
}

func rmseAbout(x []float64, center float64) float64 {
	if len(x) < 2 {
		return 0
	}

	return math.Sqrt(sumSquaredAbout(x, center) / float64(len(x)-1))
}

func sumSquaredAbout(x []float64, center float64) float64 {
	var ss float64

	for _, v := range x {
		d := v - center
		ss += d * d
	}

	return ss
}
