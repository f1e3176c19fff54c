// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"math"
)

// Sweep defaults match the reference presentation: 100 samples from pH 3 to 11.
const (
	DefaultPHMin   = 3.0
	DefaultPHMax   = 11.0
	DefaultPoints  = 100
	DefaultWorkers = 4
)

// SweepConfig holds settings for sampling the model over a pH range.
type SweepConfig struct {
	// PHMin is the first pH sampled.
	PHMin float64 `json:"ph_min" yaml:"ph_min" mapstructure:"ph_min"`

	// PHMax is the last pH sampled (inclusive).
	PHMax float64 `json:"ph_max" yaml:"ph_max" mapstructure:"ph_max"`

	// Points is the number of evenly spaced samples, including both ends.
	Points int `json:"points" yaml:"points" mapstructure:"points"`

	// Workers bounds how many drugs are sampled concurrently (default 4).
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`
}

// DefaultSweepConfig returns the reference sweep settings.
func DefaultSweepConfig() SweepConfig {
	return SweepConfig{
		PHMin:   DefaultPHMin,
		PHMax:   DefaultPHMax,
		Points:  DefaultPoints,
		Workers: DefaultWorkers,
	}
}

// Validate rejects ranges that cannot produce a grid.
func (c SweepConfig) Validate() error {
	if math.IsNaN(c.PHMin) || math.IsInf(c.PHMin, 0) || math.IsNaN(c.PHMax) || math.IsInf(c.PHMax, 0) {
		return fmt.Errorf("%w: sweep bounds must be finite", ErrInvalidPH)
	}
	if c.PHMin >= c.PHMax {
		return fmt.Errorf("sweep range is empty: ph_min %g must be below ph_max %g", c.PHMin, c.PHMax)
	}
	if c.Points < 2 {
		return fmt.Errorf("sweep needs at least 2 points, got %d", c.Points)
	}
	return nil
}

// Config is the full CLI configuration as read from antibiotic-ph.yaml.
type Config struct {
	// Catalog is an optional path to a YAML drug catalog. When empty the
	// built-in reference catalog is used.
	Catalog string `json:"catalog" yaml:"catalog" mapstructure:"catalog"`

	Sweep SweepConfig `json:"sweep" yaml:"sweep" mapstructure:"sweep"`
}
