package slsp

import "go.uber.org/zap"

// Config holds session parameters. Time-unit defaults follow the common
// Kepler-style setup: 200-unit windows stepped by 10, a 0.1 frequency-unit
// search band and a 10x oversampled grid.
type Config struct {
	Window             WindowConfig
	SearchHalfWidth    float64
	Oversample         int
	MapMaxFreq         float64 // exploratory grid ceiling; 0 means the series Nyquist
	NoiseFloorMultiple float64
	MinSamples         int
	MaxGapFraction     float64
	MaxAliasOrder      int
	Taper              Taper
	Workers            int // parallel window computations; 0 means GOMAXPROCS
	FastUniform        bool
	Logger             *zap.Logger
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Window:             WindowConfig{Length: 200, Step: 10},
		SearchHalfWidth:    0.1,
		Oversample:         10,
		NoiseFloorMultiple: 3,
		MinSamples:         5,
		MaxGapFraction:     0.5,
		MaxAliasOrder:      3,
		Logger:             zap.NewNop(),
	}
}

// WithWindow sets the sliding window length and step.
func WithWindow(length, step float64) Option {
	return func(cfg *Config) {
		if length > 0 && step > 0 {
			cfg.Window.Length = length
			cfg.Window.Step = step
		}
	}
}

// WithKeepTrailingPartial keeps the clipped final window.
func WithKeepTrailingPartial(keep bool) Option {
	return func(cfg *Config) {
		cfg.Window.KeepTrailingPartial = keep
	}
}

// WithSearchHalfWidth sets the ridge search half-width.
func WithSearchHalfWidth(hw float64) Option {
	return func(cfg *Config) {
		if hw > 0 {
			cfg.SearchHalfWidth = hw
		}
	}
}

// WithOversample sets the frequency grid oversampling factor.
func WithOversample(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.Oversample = n
		}
	}
}

// WithMapMaxFreq caps the exploratory grid below the series Nyquist.
func WithMapMaxFreq(f float64) Option {
	return func(cfg *Config) {
		if f > 0 {
			cfg.MapMaxFreq = f
		}
	}
}

// WithNoiseFloorMultiple sets the peak rejection threshold as a multiple
// of the median grid power.
func WithNoiseFloorMultiple(m float64) Option {
	return func(cfg *Config) {
		if m > 0 {
			cfg.NoiseFloorMultiple = m
		}
	}
}

// WithMinSamples sets the smallest window segment the kernel accepts.
func WithMinSamples(n int) Option {
	return func(cfg *Config) {
		if n >= 2 {
			cfg.MinSamples = n
		}
	}
}

// WithMaxGapFraction sets the track gap fraction above which
// classification is indeterminate.
func WithMaxGapFraction(f float64) Option {
	return func(cfg *Config) {
		if f > 0 && f <= 1 {
			cfg.MaxGapFraction = f
		}
	}
}

// WithMaxAliasOrder bounds the reflection order search.
func WithMaxAliasOrder(k int) Option {
	return func(cfg *Config) {
		if k > 0 {
			cfg.MaxAliasOrder = k
		}
	}
}

// WithTaper sets the per-window sample weighting.
func WithTaper(tp Taper) Option {
	return func(cfg *Config) {
		cfg.Taper = tp
	}
}

// WithWorkers bounds the number of concurrent window computations.
func WithWorkers(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.Workers = n
		}
	}
}

// WithFastUniform enables the FFT shortcut for near-uniform segments.
func WithFastUniform(enable bool) Option {
	return func(cfg *Config) {
		cfg.FastUniform = enable
	}
}

// WithLogger sets the session logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(cfg *Config) {
		if log != nil {
			cfg.Logger = log
		}
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}
