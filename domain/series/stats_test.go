package series

import (
	"errors"
	"math"
	"testing"

	"tabular/domain/core"
)

// TestReductionsSkipNA tests that NA elements are excluded from reductions
func TestReductionsSkipNA(t *testing.T) {
	s := Floats("x", 1, math.NaN(), 2, 3)

	tests := []struct {
		name string
		fn   func() (float64, error)
		want float64
	}{
		{"Sum", s.Sum, 6},
		{"Mean", s.Mean, 2},
		{"Median", s.Median, 2},
		{"Min", s.Min, 1},
		{"Max", s.Max, 3},
		{"Std", s.Std, 1},
		{"Var", s.Var, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn()
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Expected %g, got %g", tt.want, got)
			}
		})
	}
}

// TestQuantile tests percentile computation
func TestQuantile(t *testing.T) {
	s := Floats("x", 1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	got, err := s.Quantile(50)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if math.Abs(got-5.5) > 1e-9 {
		t.Errorf("Expected median 5.5, got %g", got)
	}
}

// TestReductionErrors tests string series and all-NA series rejections
func TestReductionErrors(t *testing.T) {
	if _, err := Strings("c", "a").Sum(); !errors.Is(err, core.ErrNotNumeric) {
		t.Errorf("Expected ErrNotNumeric for string sum, got %v", err)
	}

	allNA := Floats("x", math.NaN(), math.NaN())
	if _, err := allNA.Mean(); !errors.Is(err, core.ErrInsufficientData) {
		t.Errorf("Expected ErrInsufficientData for all-NA mean, got %v", err)
	}
}

// TestBoolReductions tests that bool series reduce as 0/1
func TestBoolReductions(t *testing.T) {
	s := Bools("flag", true, false, true, true)
	sum, err := s.Sum()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if sum != 3 {
		t.Errorf("Expected 3 true values, got %g", sum)
	}
}

// TestMode tests the most frequent value
func TestMode(t *testing.T) {
	s := Floats("x", 1, 2, 2, 3)
	modes, err := s.Mode()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(modes) != 1 || modes[0] != 2 {
		t.Errorf("Expected mode [2], got %v", modes)
	}
}
