package frame

import (
	"fmt"

	"tabular/domain/core"
	"tabular/domain/series"
)

// Select returns a frame with only the named columns, in the given order
func (f *Frame) Select(cols ...string) (*Frame, error) {
	out := make([]*series.Series, 0, len(cols))
	for _, name := range cols {
		s, err := f.Column(name)
		if err != nil {
			return nil, err
		}
		out = append(out, s.Copy())
	}
	if len(out) == 0 {
		return nil, core.ErrEmptyFrame
	}
	return withParts(out, f.index, f.multi), nil
}

// Drop returns a frame without the named columns
func (f *Frame) Drop(cols ...string) (*Frame, error) {
	dropped := make(map[string]bool, len(cols))
	for _, name := range cols {
		if !f.HasColumn(name) {
			return nil, core.NewColumnNotFoundError(name)
		}
		dropped[name] = true
	}
	var keep []string
	for _, name := range f.Columns() {
		if !dropped[name] {
			keep = append(keep, name)
		}
	}
	if len(keep) == 0 {
		return nil, fmt.Errorf("%w: dropping every column", core.ErrEmptyFrame)
	}
	return f.Select(keep...)
}

// Head returns the first n rows, empty for n <= 0
func (f *Frame) Head(n int) *Frame {
	if n < 0 {
		n = 0
	}
	if n > f.NRows() {
		n = f.NRows()
	}
	positions := make([]int, n)
	for i := range positions {
		positions[i] = i
	}
	out, _ := f.take(positions)
	return out
}

// Tail returns the last n rows, empty for n <= 0
func (f *Frame) Tail(n int) *Frame {
	if n < 0 {
		n = 0
	}
	if n > f.NRows() {
		n = f.NRows()
	}
	positions := make([]int, n)
	for i := range positions {
		positions[i] = f.NRows() - n + i
	}
	out, _ := f.take(positions)
	return out
}

// Row is a view of a single frame row
type Row struct {
	frame *Frame
	pos   int
}

// Row returns a view of row i
func (f *Frame) Row(i int) (Row, error) {
	if i < 0 || i >= f.NRows() {
		return Row{}, core.NewOutOfBoundsError(i, f.NRows())
	}
	return Row{frame: f, pos: i}, nil
}

// Value returns the cell in the named column, nil when NA
func (r Row) Value(col string) (any, error) {
	s, err := r.frame.Column(col)
	if err != nil {
		return nil, err
	}
	return s.At(r.pos)
}

// Pos returns the row position
func (r Row) Pos() int { return r.pos }

// Map renders the row as a column-to-value map with nil for NA
func (r Row) Map() map[string]any {
	out := make(map[string]any, r.frame.NCols())
	for _, name := range r.frame.Columns() {
		v, _ := r.Value(name)
		out[name] = v
	}
	return out
}

// ILoc selects rows by position and, when cols is non-empty, columns by name
func (f *Frame) ILoc(rows []int, cols ...string) (*Frame, error) {
	base := f
	if len(cols) > 0 {
		var err error
		if base, err = f.Select(cols...); err != nil {
			return nil, err
		}
	}
	for _, p := range rows {
		if p < 0 || p >= f.NRows() {
			return nil, core.NewOutOfBoundsError(p, f.NRows())
		}
	}
	return base.take(rows)
}

// Loc selects rows by index label. Duplicate labels return every matching
// row. Partial tuples select hierarchical slices on a multi-index.
func (f *Frame) Loc(labels []string, cols ...string) (*Frame, error) {
	var positions []int
	for _, label := range labels {
		pos, ok := f.index.Lookup(label)
		if !ok {
			return nil, core.NewLabelNotFoundError(label)
		}
		positions = append(positions, pos...)
	}
	return f.ILoc(positions, cols...)
}

// LocTuple selects rows on a hierarchical index by (possibly partial) tuple
func (f *Frame) LocTuple(tuple []string, cols ...string) (*Frame, error) {
	if f.multi == nil {
		return nil, fmt.Errorf("%w: frame has no multi-index", core.ErrLevelNotFound)
	}
	positions, ok := f.multi.Lookup(tuple...)
	if !ok {
		return nil, core.NewLabelNotFoundError(fmt.Sprintf("%v", tuple))
	}
	return f.ILoc(positions, cols...)
}

// At returns the scalar at an index label and column. Ambiguous (duplicate)
// labels fail.
func (f *Frame) At(label, col string) (any, error) {
	positions, ok := f.index.Lookup(label)
	if !ok {
		return nil, core.NewLabelNotFoundError(label)
	}
	if len(positions) > 1 {
		return nil, fmt.Errorf("label %q is ambiguous: %d rows", label, len(positions))
	}
	s, err := f.Column(col)
	if err != nil {
		return nil, err
	}
	return s.At(positions[0])
}
