package series

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArithmeticWithScalarAndSeries(t *testing.T) {
	s := Floats("x", 1, 2, 3)

	doubled, err := s.Mul(2)
	require.NoError(t, err)
	assert.Equal(t, []any{2.0, 4.0, 6.0}, doubled.Values())

	other := Floats("y", 10, 20, 30)
	sum, err := s.Add(other)
	require.NoError(t, err)
	assert.Equal(t, []any{11.0, 22.0, 33.0}, sum.Values())

	_, err = s.Add(Floats("y", 1))
	assert.Error(t, err, "length mismatch must fail")
}

func TestArithmeticPropagatesNA(t *testing.T) {
	s := Floats("x", 1, math.NaN(), 3)

	sum, err := s.Add(1)
	require.NoError(t, err)
	assert.False(t, sum.IsNA(0))
	assert.True(t, sum.IsNA(1), "NA + scalar stays NA")

	div, err := s.Div(0)
	require.NoError(t, err)
	assert.True(t, div.IsNA(0), "division by zero yields NA")
}

func TestComparisonsBuildMasks(t *testing.T) {
	s := Floats("x", 1, math.NaN(), 3, 5)

	mask, err := s.Gt(2.0)
	require.NoError(t, err)
	assert.Equal(t, []any{false, false, true, true}, mask.Values())
	assert.False(t, mask.IsNA(1), "comparison against NA collapses to false")

	eq, err := Strings("c", "a", "b", "a").Eq("a")
	require.NoError(t, err)
	assert.Equal(t, []any{true, false, true}, eq.Values())
}

func TestMaskCombinators(t *testing.T) {
	a := Bools("a", true, true, false)
	b := Bools("b", true, false, false)

	and, err := a.And(b)
	require.NoError(t, err)
	assert.Equal(t, []any{true, false, false}, and.Values())

	or, err := a.Or(b)
	require.NoError(t, err)
	assert.Equal(t, []any{true, true, false}, or.Values())

	not, err := b.Not()
	require.NoError(t, err)
	assert.Equal(t, []any{false, true, true}, not.Values())

	_, err = Floats("x", 1).And(b)
	assert.Error(t, err, "And on non-bool must fail")
}

func TestInMask(t *testing.T) {
	s := Strings("city", "oslo", "lima", "tokyo")
	mask := s.In("lima", "oslo")
	assert.Equal(t, []any{true, true, false}, mask.Values())
}

func TestShiftDiffPctChange(t *testing.T) {
	s := Floats("x", 10, 20, 40)

	shifted := s.Shift(1)
	assert.True(t, shifted.IsNA(0))
	v, _ := shifted.At(1)
	assert.Equal(t, 10.0, v)

	diff, err := s.Diff(1)
	require.NoError(t, err)
	assert.True(t, diff.IsNA(0))
	d1, _ := diff.At(1)
	assert.Equal(t, 10.0, d1)

	pct, err := s.PctChange(1)
	require.NoError(t, err)
	p2, _ := pct.At(2)
	assert.InDelta(t, 1.0, p2.(float64), 1e-12)
}

func TestCumulativeOpsSkipNA(t *testing.T) {
	s := Floats("x", 1, math.NaN(), 2)

	cs, err := s.CumSum()
	require.NoError(t, err)
	assert.True(t, cs.IsNA(1))
	last, _ := cs.At(2)
	assert.Equal(t, 3.0, last, "NA should not reset the running sum")

	cm, err := Floats("x", 3, 1, 2).CumMax()
	require.NoError(t, err)
	assert.Equal(t, []any{3.0, 3.0, 3.0}, cm.Values())
}

func TestSortPutsNALast(t *testing.T) {
	s := Floats("x", 3, math.NaN(), 1)

	asc := s.Sort(false)
	first, _ := asc.At(0)
	assert.Equal(t, 1.0, first)
	assert.True(t, asc.IsNA(2), "NA must sort last ascending")

	desc := s.Sort(true)
	first, _ = desc.At(0)
	assert.Equal(t, 3.0, first)
	assert.True(t, desc.IsNA(2), "NA must sort last descending")
}

func TestApplyReinfersKind(t *testing.T) {
	s := Ints("n", 1, 2, 3)
	out, err := s.Apply(func(v any) any {
		if v == nil {
			return nil
		}
		return float64(v.(int64)) * 1.5
	})
	require.NoError(t, err)
	assert.Equal(t, Float, out.Kind())
	v, _ := out.At(2)
	assert.Equal(t, 4.5, v)
}
