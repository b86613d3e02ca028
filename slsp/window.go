// Package slsp implements the sliding Lomb-Scargle periodogram: windowed
// spectra over a light curve, ridge tracking near candidate frequencies,
// and the session orchestrating both for super-Nyquist classification.
package slsp

import "errors"

// ErrInvalidWindowConfig reports an unusable window length/step/span
// combination.
var ErrInvalidWindowConfig = errors.New("slsp: invalid window configuration")

// WindowConfig controls how the time span is partitioned.
type WindowConfig struct {
	Length float64 // window length in time units
	Step   float64 // start-to-start step, 0 < Step <= Length
	// KeepTrailingPartial clips the final window to the span end instead
	// of dropping it.
	KeepTrailingPartial bool
}

// Window is a contiguous time range [Start, End) with its midpoint.
type Window struct {
	Start  float64
	End    float64
	Center float64
}

// PlanWindows partitions [t0, t1] into windows of the configured length,
// stepped by the configured step. Windows never extend outside the span;
// the trailing partial window is clipped or dropped per the config.
func PlanWindows(t0, t1 float64, cfg WindowConfig) ([]Window, error) {
	if cfg.Length <= 0 || cfg.Step <= 0 || cfg.Step > cfg.Length {
		return nil, ErrInvalidWindowConfig
	}

	if cfg.Length > t1-t0 {
		return nil, ErrInvalidWindowConfig
	}

	var out []Window

	for start := t0; ; start += cfg.Step {
		end := start + cfg.Length
		if end > t1 {
			if cfg.KeepTrailingPartial && start < t1 {
				out = append(out, Window{
					Start:  start,
					End:    t1,
					Center: (start + t1) / 2,
				})
			}

			break
		}

		out = append(out, Window{
			Start:  start,
			End:    end,
			Center: start + cfg.Length/2,
		})
	}

	return out, nil
}
