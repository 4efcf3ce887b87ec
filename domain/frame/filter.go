package frame

import (
	"sort"

	"tabular/domain/core"
	"tabular/domain/series"
)

// Filter keeps the rows where the boolean mask is true. NA mask elements
// drop the row.
func (f *Frame) Filter(mask *series.Series) (*Frame, error) {
	if mask.Kind() != series.Bool {
		return nil, core.NewTypeMismatchError("Filter", string(series.Bool), string(mask.Kind()))
	}
	if mask.Len() != f.NRows() {
		return nil, core.NewLengthMismatchError(f.NRows(), mask.Len())
	}
	var positions []int
	for i := 0; i < mask.Len(); i++ {
		if v, _ := mask.At(i); v == true {
			positions = append(positions, i)
		}
	}
	return f.take(positions)
}

// FilterFunc keeps the rows the predicate accepts
func (f *Frame) FilterFunc(pred func(Row) bool) (*Frame, error) {
	var positions []int
	for i := 0; i < f.NRows(); i++ {
		row, _ := f.Row(i)
		if pred(row) {
			positions = append(positions, i)
		}
	}
	return f.take(positions)
}

// SortKey names a sort column and direction
type SortKey struct {
	Column     string
	Descending bool
}

// SortBy orders rows by one or more keys, stable, with NA last per key
func (f *Frame) SortBy(keys ...SortKey) (*Frame, error) {
	if len(keys) == 0 {
		return f.Copy(), nil
	}
	cols := make([]*series.Series, len(keys))
	for i, k := range keys {
		s, err := f.Column(k.Column)
		if err != nil {
			return nil, err
		}
		cols[i] = s
	}

	positions := make([]int, f.NRows())
	for i := range positions {
		positions[i] = i
	}
	sort.SliceStable(positions, func(ai, bi int) bool {
		a, b := positions[ai], positions[bi]
		for i, k := range keys {
			s := cols[i]
			if s.IsNA(a) || s.IsNA(b) {
				if s.IsNA(a) != s.IsNA(b) {
					return !s.IsNA(a) // NA last
				}
				continue
			}
			less, greater := s.Less(a, b), s.Less(b, a)
			if !less && !greater {
				continue // equal on this key
			}
			if k.Descending {
				return greater
			}
			return less
		}
		return false
	})
	return f.take(positions)
}

// SortByIndex orders rows by index label
func (f *Frame) SortByIndex(descending bool) (*Frame, error) {
	labels := series.Strings("", f.index.Labels()...)
	return f.take(labels.SortedPositions(descending))
}
