package frame

import (
	"fmt"

	"tabular/domain/core"
	"tabular/domain/series"
)

// DropHow selects the row-dropping rule for DropNA
type DropHow string

const (
	DropAny DropHow = "any" // drop rows with at least one NA
	DropAll DropHow = "all" // drop rows that are entirely NA
)

// DropNA removes rows with missing values. When subset is non-empty only
// those columns are inspected.
func (f *Frame) DropNA(how DropHow, subset ...string) (*Frame, error) {
	cols := f.cols
	if len(subset) > 0 {
		cols = make([]*series.Series, 0, len(subset))
		for _, name := range subset {
			s, err := f.Column(name)
			if err != nil {
				return nil, err
			}
			cols = append(cols, s)
		}
	}

	var positions []int
	for i := 0; i < f.NRows(); i++ {
		naCount := 0
		for _, c := range cols {
			if c.IsNA(i) {
				naCount++
			}
		}
		drop := false
		switch how {
		case DropAll:
			drop = naCount == len(cols)
		case DropAny:
			drop = naCount > 0
		default:
			return nil, fmt.Errorf("unknown drop rule %q", how)
		}
		if !drop {
			positions = append(positions, i)
		}
	}
	return f.take(positions)
}

// FillNA replaces missing values per column. Columns absent from fills stay
// untouched; fill columns must exist.
func (f *Frame) FillNA(fills map[string]any) (*Frame, error) {
	out := f.Copy()
	for name, value := range fills {
		i, ok := out.byName[name]
		if !ok {
			return nil, core.NewColumnNotFoundError(name)
		}
		filled, err := out.cols[i].FillNA(value)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		out.cols[i] = filled
	}
	return out, nil
}

// IsNAFrame returns a same-shape frame of booleans marking missing cells
func (f *Frame) IsNAFrame() *Frame {
	cols := make([]*series.Series, len(f.cols))
	for ci, c := range f.cols {
		mask := make([]bool, c.Len())
		for i := range mask {
			mask[i] = c.IsNA(i)
		}
		cols[ci] = series.Bools(c.Name(), mask...)
	}
	return withParts(cols, f.index, f.multi)
}

// CountNA maps every column to its number of missing cells
func (f *Frame) CountNA() map[string]int {
	out := make(map[string]int, len(f.cols))
	for _, c := range f.cols {
		out[c.Name()] = c.CountNA()
	}
	return out
}

// ApplyColumn rewrites the named columns through fn, one element at a time
// (nil for NA, nil return marks NA).
func (f *Frame) ApplyColumn(fn func(any) any, cols ...string) (*Frame, error) {
	out := f.Copy()
	for _, name := range cols {
		i, ok := out.byName[name]
		if !ok {
			return nil, core.NewColumnNotFoundError(name)
		}
		applied, err := out.cols[i].Apply(fn)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		out.cols[i] = applied
	}
	return out, nil
}

// ApplyRow derives a new series by evaluating fn on every row
func (f *Frame) ApplyRow(name string, fn func(Row) any) (*series.Series, error) {
	vals := make([]any, f.NRows())
	for i := range vals {
		row, _ := f.Row(i)
		vals[i] = fn(row)
	}
	return series.FromValues(name, vals)
}
