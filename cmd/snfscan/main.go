// Command snfscan runs a sliding Lomb-Scargle analysis over a light
// curve and classifies candidate frequencies as genuine signals or
// super-Nyquist aliases.
//
// Usage:
//
//	snfscan [flags] lightcurve.csv [freq ...]
//
// Without candidate frequencies it reports the strongest peaks of the
// global periodogram; with candidates it tracks each one across the
// sliding windows and prints a verdict per frequency.
//
// Examples:
//
//	snfscan kic1234567.csv
//	snfscan -window 200 -step 10 kic1234567.csv 23.81
//	snfscan -config scan.yaml kic1234567.csv 23.81 24.02
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-slsp/lightcurve"
	"github.com/cwbudde/algo-slsp/periodogram"
	"github.com/cwbudde/algo-slsp/slsp"
	"github.com/cwbudde/algo-slsp/snf"
)

func main() {
	configPath := flag.String("config", "", "YAML config file; flags override its values")
	window := flag.Float64("window", 0, "sliding window length in time units (0 = default)")
	step := flag.Float64("step", 0, "window step in time units (0 = default)")
	halfWidth := flag.Float64("hw", 0, "ridge search half-width in frequency units (0 = default)")
	oversample := flag.Int("oversample", 0, "frequency grid oversampling factor (0 = default)")
	maxFreq := flag.Float64("maxfreq", 0, "exploratory grid ceiling (0 = series Nyquist)")
	taperName := flag.String("taper", "", "per-window taper: rect, hann or tukey")
	workers := flag.Int("workers", 0, "parallel window computations (0 = GOMAXPROCS)")
	fast := flag.Bool("fast", false, "use the FFT shortcut on near-uniform windows")
	rawFlux := flag.Bool("raw", false, "skip median flux normalization")
	topN := flag.Int("top", 10, "global peaks to list when no candidates are given")
	verbose := flag.Bool("v", false, "log per-window progress and failures")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: snfscan [flags] lightcurve.csv [freq ...]\n\n")
		fmt.Fprintf(os.Stderr, "Classifies candidate frequencies of a light curve as genuine or\n")
		fmt.Fprintf(os.Stderr, "super-Nyquist aliases; without candidates it lists the strongest\n")
		fmt.Fprintf(os.Stderr, "peaks of the global periodogram.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  snfscan kic1234567.csv\n")
		fmt.Fprintf(os.Stderr, "  snfscan -window 200 -step 10 kic1234567.csv 23.81\n")
		fmt.Fprintf(os.Stderr, "  snfscan -config scan.yaml kic1234567.csv 23.81 24.02\n")
	}
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		os.Exit(2)
	}

	candidates, err := parseCandidates(args[1:])
	if err != nil {
		fatalf("%v", err)
	}

	var opts []slsp.Option

	if *configPath != "" {
		cfg, err := loadConfig(*configPath)
		if err != nil {
			fatalf("config: %v", err)
		}

		opts = cfg.options()

		if cfg.Normalize != nil && !*cfg.Normalize {
			*rawFlux = true
		}
	}

	// Flags override config file values.
	if *window > 0 && *step > 0 {
		opts = append(opts, slsp.WithWindow(*window, *step))
	}

	if *halfWidth > 0 {
		opts = append(opts, slsp.WithSearchHalfWidth(*halfWidth))
	}

	if *oversample > 0 {
		opts = append(opts, slsp.WithOversample(*oversample))
	}

	if *maxFreq > 0 {
		opts = append(opts, slsp.WithMapMaxFreq(*maxFreq))
	}

	if *taperName != "" {
		tp, err := parseTaper(*taperName)
		if err != nil {
			fatalf("%v", err)
		}

		opts = append(opts, slsp.WithTaper(tp))
	}

	if *workers > 0 {
		opts = append(opts, slsp.WithWorkers(*workers))
	}

	if *fast {
		opts = append(opts, slsp.WithFastUniform(true))
	}

	if *verbose {
		log, err := zap.NewDevelopment()
		if err != nil {
			fatalf("logger: %v", err)
		}
		defer func() { _ = log.Sync() }()

		opts = append(opts, slsp.WithLogger(log))
	}

	series, err := lightcurve.LoadCSV(args[0])
	if err != nil {
		fatalf("load %s: %v", args[0], err)
	}

	if !*rawFlux {
		series = series.NormalizeMedian()
	}

	session, err := slsp.New(series, opts...)
	if err != nil {
		fatalf("%v", err)
	}

	ctx := context.Background()

	if err := session.ComputeSLSP(ctx); err != nil {
		fatalf("compute: %v", err)
	}

	printHeader(series, session)

	if len(candidates) == 0 {
		printGlobalPeaks(session.Global(), *topN)
		return
	}

	verdicts := make([]snf.Verdict, 0, len(candidates))

	for _, f := range candidates {
		v, err := session.AnalyzeSNF(ctx, f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %g: %v\n", f, err)
			continue
		}

		verdicts = append(verdicts, v)
	}

	if len(verdicts) == 0 {
		fatalf("no candidate could be analyzed")
	}

	printVerdicts(verdicts)
}

func parseCandidates(args []string) ([]float64, error) {
	out := make([]float64, 0, len(args))

	for _, a := range args {
		f, err := strconv.ParseFloat(a, 64)
		if err != nil || f <= 0 {
			return nil, fmt.Errorf("bad candidate frequency %q", a)
		}

		out = append(out, f)
	}

	return out, nil
}

func printHeader(series *lightcurve.Series, session *slsp.Session) {
	t0, t1 := series.Span()
	m := session.Map()

	fmt.Printf("samples %d, span %.4g..%.4g, nyquist %.6g\n",
		series.Len(), t0, t1, series.Nyquist())
	fmt.Printf("windows %d, grid %.6g..%.6g step %.3g, gaps %d\n\n",
		len(session.Windows()), m.Freqs.Min(), m.Freqs.Max(), m.Freqs.Spacing(), m.Gaps())
}

// printGlobalPeaks lists the strongest local maxima of the full-series
// periodogram, as starting points for candidate selection.
func printGlobalPeaks(pg periodogram.Periodogram, n int) {
	type peak struct {
		idx   int
		power float64
	}

	var peaks []peak

	for i := 1; i < len(pg.Power)-1; i++ {
		if pg.Power[i] > pg.Power[i-1] && pg.Power[i] >= pg.Power[i+1] {
			peaks = append(peaks, peak{i, pg.Power[i]})
		}
	}

	sort.Slice(peaks, func(i, j int) bool { return peaks[i].power > peaks[j].power })

	if len(peaks) > n {
		peaks = peaks[:n]
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Freq\tPower\tAmplitude\n")
	fmt.Fprintf(tw, "----\t-----\t---------\n")

	for _, p := range peaks {
		fmt.Fprintf(tw, "%.6g\t%.4f\t%.4g\n", pg.Freqs[p.idx], p.power, pg.Amplitude(p.idx))
	}

	if err := tw.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "error: flush output: %v\n", err)
	}
}

func printVerdicts(verdicts []snf.Verdict) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Candidate\tVerdict\tTrue Freq\tOrder\tConfidence\tScatter\tResidual\tWindows\n")
	fmt.Fprintf(tw, "---------\t-------\t---------\t-----\t----------\t-------\t--------\t-------\n")

	for _, v := range verdicts {
		trueFreq := "-"
		order := "-"

		if v.Label == snf.Alias {
			trueFreq = fmt.Sprintf("%.6g", v.TrueFreq)
			order = strconv.Itoa(v.AliasOrder)
		}

		fmt.Fprintf(tw, "%.6g\t%s\t%s\t%s\t%.2f\t%.3g\t%.3g\t%d/%d\n",
			v.Candidate, v.Label, trueFreq, order,
			v.Confidence, v.TrackScatter, v.Residual,
			len(v.Track.Points), v.Track.Windows)
	}

	if err := tw.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "error: flush output: %v\n", err)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}
