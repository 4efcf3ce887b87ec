package temporal

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"tabular/domain/core"
	"tabular/domain/series"
)

// Rolling applies window aggregates over a numeric series. Each output
// position covers the window ending at that position; positions with fewer
// than minPeriods valid values stay missing.
type Rolling struct {
	source     *series.Series
	window     int
	minPeriods int
}

// NewRolling builds a rolling view. minPeriods of 0 defaults to the window
// size.
func NewRolling(s *series.Series, window, minPeriods int) (*Rolling, error) {
	if window <= 0 {
		return nil, fmt.Errorf("%w: rolling window must be positive, got %d", core.ErrInsufficientData, window)
	}
	if s.Kind() != series.Float && s.Kind() != series.Int {
		return nil, fmt.Errorf("rolling over %q: %w, got %s", s.Name(), core.ErrNotNumeric, s.Kind())
	}
	if minPeriods <= 0 {
		minPeriods = window
	}
	return &Rolling{source: s, window: window, minPeriods: minPeriods}, nil
}

func (r *Rolling) Mean() (*series.Series, error) { return r.apply("mean", stats.Mean, 1) }
func (r *Rolling) Sum() (*series.Series, error)  { return r.apply("sum", stats.Sum, 1) }
func (r *Rolling) Min() (*series.Series, error)  { return r.apply("min", stats.Min, 1) }
func (r *Rolling) Max() (*series.Series, error)  { return r.apply("max", stats.Max, 1) }

// Std is the sample standard deviation, so it needs at least two valid values
// per window regardless of minPeriods.
func (r *Rolling) Std() (*series.Series, error) {
	return r.apply("std", stats.StandardDeviationSample, 2)
}

func (r *Rolling) apply(suffix string, fn func(stats.Float64Data) (float64, error), floor int) (*series.Series, error) {
	vals, err := r.source.Float64s()
	if err != nil {
		return nil, err
	}
	need := r.minPeriods
	if need < floor {
		need = floor
	}

	out := make([]float64, len(vals))
	for i := range vals {
		lo := i - r.window + 1
		if lo < 0 {
			lo = 0
		}
		window := make([]float64, 0, r.window)
		for j := lo; j <= i; j++ {
			if !r.source.IsNA(j) {
				window = append(window, vals[j])
			}
		}
		if len(window) < need {
			out[i] = math.NaN()
			continue
		}
		v, err := fn(stats.Float64Data(window))
		if err != nil {
			return nil, fmt.Errorf("rolling %s at %d: %w", suffix, i, err)
		}
		out[i] = v
	}
	return series.Floats(r.source.Name()+"_"+suffix, out...), nil
}
