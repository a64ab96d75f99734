package main

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/goccy/go-yaml"
)

// MaxConfigSize limits config input to prevent memory exhaustion.
const MaxConfigSize = 1 << 20

const (
	DefaultMarkerID    = 23
	DefaultSizeInches  = 4.0
	DefaultBorderRatio = 0.2

	// MaxDPI is the highest resolution any standard output renders at.
	MaxDPI = 300
)

// Config holds the parameters of one generation run. One run always
// targets a single marker ID.
type Config struct {
	MarkerID    int     `yaml:"markerId"`
	Dictionary  string  `yaml:"dictionary"`
	SizeInches  float64 `yaml:"sizeInches"`
	BorderRatio float64 `yaml:"borderRatio"`
	OutputDir   string  `yaml:"outputDir"`
	Font        string  `yaml:"font"`
	SVG         bool    `yaml:"svg"`
	GCode       bool    `yaml:"gcode"`
}

func DefaultConfig() Config {
	return Config{
		MarkerID:    DefaultMarkerID,
		Dictionary:  DefaultDictionary,
		SizeInches:  DefaultSizeInches,
		BorderRatio: DefaultBorderRatio,
		OutputDir:   ".",
		Font:        DefaultFont,
	}
}

// LoadConfig reads a YAML file over the defaults. Unknown keys are
// rejected so typos do not silently fall back to defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if len(data) > MaxConfigSize {
		return cfg, fmt.Errorf("%w: %s exceeds %d bytes", ErrConfigParse, path, MaxConfigSize)
	}
	if len(data) == 0 {
		return cfg, nil
	}

	if err := yaml.UnmarshalWithOptions(data, &cfg, yaml.Strict()); err != nil {
		return cfg, fmt.Errorf("%w: %s: %v", ErrConfigParse, path, err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	cb, err := NewCodebook(c.Dictionary)
	if err != nil {
		return err
	}
	if err := checkMarkerID(cb, c.MarkerID); err != nil {
		return err
	}
	if c.SizeInches <= 0 || math.IsNaN(c.SizeInches) || math.IsInf(c.SizeInches, 0) {
		return fmt.Errorf("%w: %v in", ErrInvalidMarkerSize, c.SizeInches)
	}
	if c.BorderRatio < 0 || math.IsNaN(c.BorderRatio) || math.IsInf(c.BorderRatio, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidBorderRatio, c.BorderRatio)
	}

	marker := c.SizeInches * MaxDPI
	if marker > MaxCanvasPixels {
		return fmt.Errorf("%w: %v in is %.0f px at %d DPI (max %d)", ErrInvalidMarkerSize, c.SizeInches, marker, MaxDPI, MaxCanvasPixels)
	}
	if canvas := marker * (1 + c.BorderRatio); canvas > MaxCanvasPixels {
		return fmt.Errorf("%w: %v gives a %.0f px canvas at %d DPI (max %d)", ErrInvalidBorderRatio, c.BorderRatio, canvas, MaxDPI, MaxCanvasPixels)
	}
	return nil
}
