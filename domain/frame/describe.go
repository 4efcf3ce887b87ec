package frame

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"tabular/domain/core"
	"tabular/domain/series"
)

// Describe summarizes every numeric column: count, mean, std, min, quartiles,
// max. The result is indexed by statistic name with one column per input
// column.
func (f *Frame) Describe() (*Frame, error) {
	numeric := f.numericColumns()
	if len(numeric) == 0 {
		return nil, fmt.Errorf("%w: no numeric columns to describe", core.ErrNotNumeric)
	}

	stats := []struct {
		name string
		fn   func(*series.Series) (float64, error)
	}{
		{"count", func(s *series.Series) (float64, error) { return float64(s.Count()), nil }},
		{"mean", (*series.Series).Mean},
		{"std", (*series.Series).Std},
		{"min", (*series.Series).Min},
		{"25%", func(s *series.Series) (float64, error) { return s.Quantile(25) }},
		{"50%", (*series.Series).Median},
		{"75%", func(s *series.Series) (float64, error) { return s.Quantile(75) }},
		{"max", (*series.Series).Max},
	}

	cols := make([]*series.Series, 0, len(numeric)+1)
	statNames := make([]string, len(stats))
	for i, st := range stats {
		statNames[i] = st.name
	}
	cols = append(cols, series.Strings("statistic", statNames...))

	for _, c := range numeric {
		vals := make([]any, len(stats))
		for i, st := range stats {
			v, err := st.fn(c)
			if err != nil {
				// all-NA columns keep NA cells rather than failing the whole summary
				vals[i] = nil
				continue
			}
			vals[i] = v
		}
		col, err := series.FromValues(c.Name(), vals)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", c.Name(), err)
		}
		cols = append(cols, col)
	}

	out, err := New(cols...)
	if err != nil {
		return nil, err
	}
	return out.SetIndex("statistic")
}

// ColumnInfo reports per-column metadata the way a quick structural summary
// prints it.
type ColumnInfo struct {
	Name     string      `json:"name"`
	Kind     series.Kind `json:"kind"`
	NonNull  int         `json:"non_null"`
	Missing  int         `json:"missing"`
	Distinct int         `json:"distinct"`
}

// Info returns structural metadata for every column in order
func (f *Frame) Info() []ColumnInfo {
	out := make([]ColumnInfo, len(f.cols))
	for i, c := range f.cols {
		out[i] = ColumnInfo{
			Name:     c.Name(),
			Kind:     c.Kind(),
			NonNull:  c.Count(),
			Missing:  c.CountNA(),
			Distinct: c.Nunique(),
		}
	}
	return out
}

// Corr computes the Pearson correlation matrix over the numeric columns,
// using pairwise complete observations. The result carries one row and one
// column per numeric input, indexed by column name.
func (f *Frame) Corr() (*Frame, error) {
	numeric := f.numericColumns()
	if len(numeric) < 2 {
		return nil, fmt.Errorf("%w: correlation needs at least 2 numeric columns", core.ErrInsufficientData)
	}

	vals := make([][]float64, len(numeric))
	for i, c := range numeric {
		v, err := c.Float64s()
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}

	names := make([]string, len(numeric))
	for i, c := range numeric {
		names[i] = c.Name()
	}

	cols := make([]*series.Series, 0, len(numeric)+1)
	cols = append(cols, series.Strings("column", names...))
	for j := range numeric {
		column := make([]float64, len(numeric))
		for i := range numeric {
			column[i] = pairwiseCorr(vals[i], vals[j], numeric[i], numeric[j])
		}
		cols = append(cols, series.Floats(names[j], column...))
	}

	out, err := New(cols...)
	if err != nil {
		return nil, err
	}
	return out.SetIndex("column")
}

// pairwiseCorr correlates two columns over the rows where both are valid
func pairwiseCorr(a, b []float64, sa, sb *series.Series) float64 {
	var xs, ys []float64
	for i := range a {
		if !sa.IsNA(i) && !sb.IsNA(i) {
			xs = append(xs, a[i])
			ys = append(ys, b[i])
		}
	}
	if len(xs) < 2 {
		return 0
	}
	return stat.Correlation(xs, ys, nil)
}

func (f *Frame) numericColumns() []*series.Series {
	var out []*series.Series
	for _, c := range f.cols {
		if c.Kind() == series.Float || c.Kind() == series.Int {
			out = append(out, c)
		}
	}
	return out
}
