package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-slsp/slsp"
)

// fileConfig is the on-disk configuration shape (YAML). Zero fields fall
// back to the library defaults, so a config file only needs the values it
// wants to change.
type fileConfig struct {
	WindowLength    float64 `yaml:"window_length"`
	WindowStep      float64 `yaml:"window_step"`
	SearchHalfWidth float64 `yaml:"search_half_width"`
	Oversample      int     `yaml:"oversample"`
	MapMaxFreq      float64 `yaml:"map_max_freq"`
	NoiseFloor      float64 `yaml:"noise_floor"`
	MaxAliasOrder   int     `yaml:"max_alias_order"`
	Taper           string  `yaml:"taper"`
	Workers         int     `yaml:"workers"`
	FastUniform     bool    `yaml:"fast_uniform"`
	Normalize       *bool   `yaml:"normalize"`
}

func loadConfig(path string) (fileConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}, err
	}

	var c fileConfig
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return fileConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := c.validate(); err != nil {
		return fileConfig{}, fmt.Errorf("%s: %w", path, err)
	}

	return c, nil
}

func (c fileConfig) validate() error {
	if c.WindowLength < 0 || c.WindowStep < 0 || c.WindowStep > 0 && c.WindowLength > 0 && c.WindowStep > c.WindowLength {
		return fmt.Errorf("invalid window: length %g step %g", c.WindowLength, c.WindowStep)
	}

	if c.SearchHalfWidth < 0 || c.MapMaxFreq < 0 || c.Oversample < 0 || c.Workers < 0 {
		return fmt.Errorf("negative parameter")
	}

	if _, err := parseTaper(c.Taper); err != nil {
		return err
	}

	return nil
}

// options converts the file values to session options, skipping zero
// fields so library defaults apply.
func (c fileConfig) options() []slsp.Option {
	var opts []slsp.Option

	if c.WindowLength > 0 && c.WindowStep > 0 {
		opts = append(opts, slsp.WithWindow(c.WindowLength, c.WindowStep))
	}

	if c.SearchHalfWidth > 0 {
		opts = append(opts, slsp.WithSearchHalfWidth(c.SearchHalfWidth))
	}

	if c.Oversample > 0 {
		opts = append(opts, slsp.WithOversample(c.Oversample))
	}

	if c.MapMaxFreq > 0 {
		opts = append(opts, slsp.WithMapMaxFreq(c.MapMaxFreq))
	}

	if c.NoiseFloor > 0 {
		opts = append(opts, slsp.WithNoiseFloorMultiple(c.NoiseFloor))
	}

	if c.MaxAliasOrder > 0 {
		opts = append(opts, slsp.WithMaxAliasOrder(c.MaxAliasOrder))
	}

	if c.Taper != "" {
		tp, _ := parseTaper(c.Taper)
		opts = append(opts, slsp.WithTaper(tp))
	}

	if c.Workers > 0 {
		opts = append(opts, slsp.WithWorkers(c.Workers))
	}

	if c.FastUniform {
		opts = append(opts, slsp.WithFastUniform(true))
	}

	return opts
}

func parseTaper(name string) (slsp.Taper, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "rect", "rectangular":
		return slsp.TaperRectangular, nil
	case "hann":
		return slsp.TaperHann, nil
	case "tukey":
		return slsp.TaperTukey, nil
	default:
		return slsp.TaperRectangular, fmt.Errorf("unknown taper %q (rect, hann, tukey)", name)
	}
}
