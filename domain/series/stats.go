package series

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"tabular/domain/core"
)

// reduce runs a montanaflynn reduction over the valid elements
func (s *Series) reduce(op string, fn func(stats.Float64Data) (float64, error)) (float64, error) {
	vals, err := s.validFloats()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if len(vals) == 0 {
		return 0, fmt.Errorf("%s: %w: no valid elements in %q", op, core.ErrInsufficientData, s.name)
	}
	out, err := fn(stats.Float64Data(vals))
	if err != nil {
		return 0, fmt.Errorf("%s on %q: %w", op, s.name, err)
	}
	return out, nil
}

// Sum returns the sum of the valid elements
func (s *Series) Sum() (float64, error) {
	return s.reduce("Sum", stats.Sum)
}

// Mean returns the arithmetic mean of the valid elements
func (s *Series) Mean() (float64, error) {
	return s.reduce("Mean", stats.Mean)
}

// Median returns the median of the valid elements
func (s *Series) Median() (float64, error) {
	return s.reduce("Median", stats.Median)
}

// Min returns the smallest valid element
func (s *Series) Min() (float64, error) {
	return s.reduce("Min", stats.Min)
}

// Max returns the largest valid element
func (s *Series) Max() (float64, error) {
	return s.reduce("Max", stats.Max)
}

// Std returns the sample standard deviation of the valid elements
func (s *Series) Std() (float64, error) {
	return s.reduce("Std", stats.StandardDeviationSample)
}

// Var returns the sample variance of the valid elements
func (s *Series) Var() (float64, error) {
	return s.reduce("Var", stats.SampleVariance)
}

// Quantile returns the p-th percentile (p in [0, 100]) of the valid elements
func (s *Series) Quantile(p float64) (float64, error) {
	return s.reduce("Quantile", func(d stats.Float64Data) (float64, error) {
		return stats.Percentile(d, p)
	})
}

// Mode returns the most frequent valid elements
func (s *Series) Mode() ([]float64, error) {
	vals, err := s.validFloats()
	if err != nil {
		return nil, fmt.Errorf("Mode: %w", err)
	}
	if len(vals) == 0 {
		return nil, fmt.Errorf("Mode: %w: no valid elements in %q", core.ErrInsufficientData, s.name)
	}
	out, err := stats.Mode(vals)
	if err != nil {
		return nil, fmt.Errorf("Mode on %q: %w", s.name, err)
	}
	return out, nil
}

// Count returns the number of valid elements
func (s *Series) Count() int {
	return s.Len() - s.CountNA()
}
