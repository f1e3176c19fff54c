// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sweep samples the pharmacochemical model over a pH range and
// renders the resulting curves for display or export.
package sweep

import (
	"context"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/pdiddy/antibiotic-ph/internal/model"
	"github.com/pdiddy/antibiotic-ph/pkg/types"
)

// Curve is one drug's model output across a pH grid.
type Curve struct {
	Drug        string             `json:"drug" yaml:"drug"`
	ActiveForm  types.ActiveForm   `json:"active_form" yaml:"active_form"`
	PKa         float64            `json:"pka" yaml:"pka"`
	BaselineMIC float64            `json:"baseline_mic" yaml:"baseline_mic"`
	Points      []model.Evaluation `json:"points" yaml:"points"`
}

// Crossover returns the pH at which the sampled ionization ratio crosses
// one half, interpolated linearly between the two bracketing samples. It
// reports false when the sampled range never reaches one half.
func (c Curve) Crossover() (float64, bool) {
	const half = 0.5
	for i, p := range c.Points {
		if p.IonizationRatio == half {
			return p.PH, true
		}
		if i == 0 {
			continue
		}
		prev := c.Points[i-1]
		d0, d1 := prev.IonizationRatio-half, p.IonizationRatio-half
		if (d0 < 0) != (d1 < 0) {
			t := d0 / (d0 - d1)
			return prev.PH + t*(p.PH-prev.PH), true
		}
	}
	return 0, false
}

// MICRange returns the smallest and largest MIC across the curve.
func (c Curve) MICRange() (lo, hi float64) {
	if len(c.Points) == 0 {
		return 0, 0
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, p := range c.Points {
		lo = math.Min(lo, p.MIC)
		hi = math.Max(hi, p.MIC)
	}
	return lo, hi
}

// Linspace returns n evenly spaced values from lo to hi inclusive. The last
// value is exactly hi.
func Linspace(lo, hi float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}

// Sample evaluates d at every point of the grid described by cfg.
func Sample(d types.DrugDescriptor, cfg types.SweepConfig) (Curve, error) {
	if err := cfg.Validate(); err != nil {
		return Curve{}, err
	}
	pKa, err := d.PrimaryPKa()
	if err != nil {
		return Curve{}, err
	}

	grid := Linspace(cfg.PHMin, cfg.PHMax, cfg.Points)
	points := make([]model.Evaluation, 0, len(grid))
	for _, pH := range grid {
		ev, err := model.Evaluate(d, pH)
		if err != nil {
			return Curve{}, fmt.Errorf("sampling %s at pH %g: %w", d.Name, pH, err)
		}
		points = append(points, ev)
	}

	return Curve{
		Drug:        d.Name,
		ActiveForm:  d.ActiveForm,
		PKa:         pKa,
		BaselineMIC: d.BaselineMIC,
		Points:      points,
	}, nil
}

// Sampler samples several drugs concurrently.
type Sampler struct {
	cfg    types.SweepConfig
	logger *zap.Logger
}

// NewSampler returns a Sampler for cfg. A nil logger discards output.
func NewSampler(cfg types.SweepConfig, logger *zap.Logger) *Sampler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = types.DefaultWorkers
	}
	return &Sampler{cfg: cfg, logger: logger}
}

// SampleAll fans out one goroutine per drug, at most cfg.Workers at a time,
// and returns curves in the order of drugs. The first error cancels the
// remaining work and is returned.
func (s *Sampler) SampleAll(ctx context.Context, drugs []types.DrugDescriptor) ([]Curve, error) {
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type curveResult struct {
		idx   int
		curve Curve
		err   error
	}

	ch := make(chan curveResult, len(drugs))
	sem := make(chan struct{}, s.cfg.Workers)
	var wg sync.WaitGroup

	for i, d := range drugs {
		wg.Add(1)
		go func(i int, d types.DrugDescriptor) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				ch <- curveResult{idx: i, err: ctx.Err()}
				return
			}

			log := s.logger.With(zap.String("drug", d.Name))
			log.Debug("sampling",
				zap.Float64("ph_min", s.cfg.PHMin),
				zap.Float64("ph_max", s.cfg.PHMax),
				zap.Int("points", s.cfg.Points))

			c, err := Sample(d, s.cfg)
			if err != nil {
				log.Warn("sampling failed", zap.Error(err))
			}
			ch <- curveResult{idx: i, curve: c, err: err}
		}(i, d)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	curves := make([]Curve, len(drugs))
	var firstErr error
	for r := range ch {
		if r.err != nil {
			if firstErr == nil {
				firstErr = r.err
				cancel()
			}
			continue
		}
		curves[r.idx] = r.curve
	}
	if firstErr != nil {
		return nil, firstErr
	}

	s.logger.Debug("sweep complete", zap.Int("drugs", len(curves)))
	return curves, nil
}
