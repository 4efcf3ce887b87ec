package series

import (
	"fmt"
	"math"
	"sort"

	"tabular/domain/core"
)

// binaryOperand normalizes the right-hand side of an elementwise operation
// into per-position float values aligned with s.
func (s *Series) binaryOperand(op string, other any) ([]float64, []bool, error) {
	switch rhs := other.(type) {
	case *Series:
		if rhs.Len() != s.Len() {
			return nil, nil, core.NewLengthMismatchError(s.Len(), rhs.Len())
		}
		vals, err := rhs.Float64s()
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}
		return vals, rhs.valid, nil
	case float64, float32, int, int32, int64:
		v := toFloat(rhs)
		vals := make([]float64, s.Len())
		valid := make([]bool, s.Len())
		for i := range vals {
			vals[i] = v
			valid[i] = true
		}
		return vals, valid, nil
	default:
		return nil, nil, core.NewTypeMismatchError(op, "number or series", fmt.Sprintf("%T", other))
	}
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	}
	return math.NaN()
}

// arith applies fn elementwise, propagating NA from either side
func (s *Series) arith(op string, other any, fn func(a, b float64) float64) (*Series, error) {
	left, err := s.Float64s()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	right, rvalid, err := s.binaryOperand(op, other)
	if err != nil {
		return nil, err
	}
	out := make([]float64, s.Len())
	for i := range out {
		if !s.valid[i] || !rvalid[i] {
			out[i] = math.NaN()
			continue
		}
		out[i] = fn(left[i], right[i])
	}
	return Floats(s.name, out...), nil
}

// Add returns s + other elementwise. Other is a scalar or an equally long series.
func (s *Series) Add(other any) (*Series, error) {
	return s.arith("Add", other, func(a, b float64) float64 { return a + b })
}

// Sub returns s - other elementwise
func (s *Series) Sub(other any) (*Series, error) {
	return s.arith("Sub", other, func(a, b float64) float64 { return a - b })
}

// Mul returns s * other elementwise
func (s *Series) Mul(other any) (*Series, error) {
	return s.arith("Mul", other, func(a, b float64) float64 { return a * b })
}

// Div returns s / other elementwise. Division by zero yields NA.
func (s *Series) Div(other any) (*Series, error) {
	return s.arith("Div", other, func(a, b float64) float64 {
		if b == 0 {
			return math.NaN()
		}
		return a / b
	})
}

// compare builds a boolean mask. Comparisons against NA are false, the way a
// three-valued comparison collapses under filtering.
func (s *Series) compare(op string, other any, fn func(a, b float64) bool) (*Series, error) {
	if s.kind == String {
		return s.compareStrings(op, other, fn)
	}
	left, err := s.Float64s()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	right, rvalid, err := s.binaryOperand(op, other)
	if err != nil {
		return nil, err
	}
	out := make([]bool, s.Len())
	for i := range out {
		out[i] = s.valid[i] && rvalid[i] && fn(left[i], right[i])
	}
	return Bools(s.name, out...), nil
}

// compareStrings supports ordering and equality against a string scalar
func (s *Series) compareStrings(op string, other any, fn func(a, b float64) bool) (*Series, error) {
	rhs, ok := other.(string)
	if !ok {
		rhsSeries, isSeries := other.(*Series)
		if !isSeries || rhsSeries.kind != String {
			return nil, core.NewTypeMismatchError(op, "string", fmt.Sprintf("%T", other))
		}
		if rhsSeries.Len() != s.Len() {
			return nil, core.NewLengthMismatchError(s.Len(), rhsSeries.Len())
		}
		out := make([]bool, s.Len())
		for i := range out {
			if s.valid[i] && rhsSeries.valid[i] {
				out[i] = fn(floatCmp(s.strs[i], rhsSeries.strs[i]), 0)
			}
		}
		return Bools(s.name, out...), nil
	}
	out := make([]bool, s.Len())
	for i := range out {
		if s.valid[i] {
			out[i] = fn(floatCmp(s.strs[i], rhs), 0)
		}
	}
	return Bools(s.name, out...), nil
}

// floatCmp maps string ordering onto the numeric comparator contract
func floatCmp(a, b string) float64 {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Gt returns the mask s > other
func (s *Series) Gt(other any) (*Series, error) {
	return s.compare("Gt", other, func(a, b float64) bool { return a > b })
}

// Ge returns the mask s >= other
func (s *Series) Ge(other any) (*Series, error) {
	return s.compare("Ge", other, func(a, b float64) bool { return a >= b })
}

// Lt returns the mask s < other
func (s *Series) Lt(other any) (*Series, error) {
	return s.compare("Lt", other, func(a, b float64) bool { return a < b })
}

// Le returns the mask s <= other
func (s *Series) Le(other any) (*Series, error) {
	return s.compare("Le", other, func(a, b float64) bool { return a <= b })
}

// Eq returns the mask s == other
func (s *Series) Eq(other any) (*Series, error) {
	return s.compare("Eq", other, func(a, b float64) bool { return a == b })
}

// Ne returns the mask s != other
func (s *Series) Ne(other any) (*Series, error) {
	return s.compare("Ne", other, func(a, b float64) bool { return a != b })
}

// In returns the mask of elements whose value appears in values
func (s *Series) In(values ...any) *Series {
	want := make(map[string]bool, len(values))
	scratch := empty("", s.kind, 1)
	for _, v := range values {
		if err := scratch.set(0, v); err == nil {
			want[scratch.keyAt(0)] = true
		}
		scratch.valid[0] = false
	}
	out := make([]bool, s.Len())
	for i := range out {
		out[i] = s.valid[i] && want[s.keyAt(i)]
	}
	return Bools(s.name, out...)
}

// And combines two boolean masks
func (s *Series) And(other *Series) (*Series, error) {
	return s.logical("And", other, func(a, b bool) bool { return a && b })
}

// Or combines two boolean masks
func (s *Series) Or(other *Series) (*Series, error) {
	return s.logical("Or", other, func(a, b bool) bool { return a || b })
}

func (s *Series) logical(op string, other *Series, fn func(a, b bool) bool) (*Series, error) {
	if s.kind != Bool || other.kind != Bool {
		return nil, core.NewTypeMismatchError(op, string(Bool), string(s.kind)+"/"+string(other.kind))
	}
	if other.Len() != s.Len() {
		return nil, core.NewLengthMismatchError(s.Len(), other.Len())
	}
	out := make([]bool, s.Len())
	for i := range out {
		out[i] = s.valid[i] && other.valid[i] && fn(s.bools[i], other.bools[i])
	}
	return Bools(s.name, out...), nil
}

// Not inverts a boolean mask. NA elements stay false.
func (s *Series) Not() (*Series, error) {
	if s.kind != Bool {
		return nil, core.NewTypeMismatchError("Not", string(Bool), string(s.kind))
	}
	out := make([]bool, s.Len())
	for i := range out {
		out[i] = s.valid[i] && !s.bools[i]
	}
	return Bools(s.name, out...), nil
}

// cumulative applies fn over the running window of valid values. NA elements
// stay NA and do not reset the accumulation.
func (s *Series) cumulative(op string, fn func(acc, v float64) float64) (*Series, error) {
	vals, err := s.Float64s()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out := make([]float64, s.Len())
	acc, started := 0.0, false
	for i, v := range vals {
		if !s.valid[i] {
			out[i] = math.NaN()
			continue
		}
		if !started {
			acc, started = v, true
		} else {
			acc = fn(acc, v)
		}
		out[i] = acc
	}
	return Floats(s.name, out...), nil
}

// CumSum returns the running sum
func (s *Series) CumSum() (*Series, error) {
	return s.cumulative("CumSum", func(acc, v float64) float64 { return acc + v })
}

// CumMax returns the running maximum
func (s *Series) CumMax() (*Series, error) {
	return s.cumulative("CumMax", math.Max)
}

// CumMin returns the running minimum
func (s *Series) CumMin() (*Series, error) {
	return s.cumulative("CumMin", math.Min)
}

// Shift moves elements forward by n positions (backward when negative),
// filling vacated positions with NA.
func (s *Series) Shift(n int) *Series {
	positions := make([]int, s.Len())
	for i := range positions {
		src := i - n
		if src < 0 || src >= s.Len() {
			src = -1
		}
		positions[i] = src
	}
	out, _ := s.Take(positions)
	return out
}

// Diff returns the n-period difference
func (s *Series) Diff(n int) (*Series, error) {
	return s.Sub(s.Shift(n))
}

// PctChange returns the n-period fractional change
func (s *Series) PctChange(n int) (*Series, error) {
	prev := s.Shift(n)
	delta, err := s.Sub(prev)
	if err != nil {
		return nil, err
	}
	return delta.Div(prev)
}

// Apply rebuilds the series by passing every element (nil for NA) through fn.
// A nil return marks the element NA. The result kind is re-inferred.
func (s *Series) Apply(fn func(any) any) (*Series, error) {
	out := make([]any, s.Len())
	for i := range out {
		v, _ := s.At(i)
		out[i] = fn(v)
	}
	return FromValues(s.name, out)
}

// SortedPositions returns the positions that order the series, stable, with
// NA elements last regardless of direction.
func (s *Series) SortedPositions(descending bool) []int {
	positions := make([]int, s.Len())
	for i := range positions {
		positions[i] = i
	}
	sort.SliceStable(positions, func(a, b int) bool {
		i, j := positions[a], positions[b]
		if !s.valid[i] || !s.valid[j] {
			// NA last on either direction
			return s.valid[i]
		}
		if descending {
			return s.Less(j, i)
		}
		return s.Less(i, j)
	})
	return positions
}

// Sort returns a new series in ascending (or descending) order, NA last
func (s *Series) Sort(descending bool) *Series {
	out, _ := s.Take(s.SortedPositions(descending))
	return out
}
