package slsp_test

import (
	"context"
	"fmt"
	"math"

	"github.com/cwbudde/algo-slsp/lightcurve"
	"github.com/cwbudde/algo-slsp/slsp"
)

func ExampleSession() {
	// A clean sinusoid at 1.0 cycles per time unit, sampled well above
	// its Nyquist limit.
	n := 1400
	times := make([]float64, n)
	flux := make([]float64, n)

	for i := range times {
		times[i] = float64(i) * 0.05
		flux[i] = 1 + 0.01*math.Sin(2*math.Pi*times[i])
	}

	series, err := lightcurve.New(times, flux)
	if err != nil {
		panic(err)
	}

	session, err := slsp.New(series,
		slsp.WithWindow(20, 10),
		slsp.WithOversample(4),
		slsp.WithMapMaxFreq(2),
	)
	if err != nil {
		panic(err)
	}

	ctx := context.Background()

	if err := session.ComputeSLSP(ctx); err != nil {
		panic(err)
	}

	verdict, err := session.AnalyzeSNF(ctx, 1.0)
	if err != nil {
		panic(err)
	}

	fmt.Printf("%s at %.1f\n", verdict.Label, verdict.Candidate)

	// Output:
	// genuine at 1.0
}
