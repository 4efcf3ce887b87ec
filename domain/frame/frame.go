// Package frame implements a two-dimensional labeled table: an ordered set of
// equally long series sharing a row index. Frames are immutable; every
// operation returns a new frame.
package frame

import (
	"fmt"
	"sort"
	"strings"

	"tabular/domain/core"
	"tabular/domain/index"
	"tabular/domain/series"
)

// Frame is a two-dimensional labeled data structure
type Frame struct {
	cols   []*series.Series
	byName map[string]int

	index *index.Index
	multi *index.MultiIndex // non-nil when a hierarchical index is set
}

// New builds a frame from series. All series must have equal length and
// distinct names. The frame starts with the default range index.
func New(cols ...*series.Series) (*Frame, error) {
	if len(cols) == 0 {
		return nil, core.ErrEmptyFrame
	}
	n := cols[0].Len()
	byName := make(map[string]int, len(cols))
	copied := make([]*series.Series, len(cols))
	for i, c := range cols {
		if c.Len() != n {
			return nil, fmt.Errorf("column %q: %w", c.Name(), core.NewLengthMismatchError(n, c.Len()))
		}
		if _, dup := byName[c.Name()]; dup {
			return nil, fmt.Errorf("%w: %q", core.ErrDuplicateColumn, c.Name())
		}
		byName[c.Name()] = i
		copied[i] = c.Copy()
	}
	return &Frame{cols: copied, byName: byName, index: index.NewRange(n)}, nil
}

// FromRecords builds a frame from a header row plus string data rows, the
// shape file readers produce. Column kinds are inferred per column: values
// that all parse as one kind get that kind, otherwise the column stays string.
// Empty cells and naValues entries become NA.
func FromRecords(records [][]string, naValues ...string) (*Frame, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no header row", core.ErrEmptyFrame)
	}
	header := records[0]
	na := map[string]bool{"": true}
	for _, v := range naValues {
		na[v] = true
	}

	cols := make([]*series.Series, len(header))
	for c, name := range header {
		raw := make([]string, 0, len(records)-1)
		missing := make([]bool, 0, len(records)-1)
		for r := 1; r < len(records); r++ {
			cell := ""
			if c < len(records[r]) {
				cell = strings.TrimSpace(records[r][c])
			}
			raw = append(raw, cell)
			missing = append(missing, na[cell])
		}
		cols[c] = inferColumn(strings.TrimSpace(name), raw, missing)
	}
	return New(cols...)
}

// FromMaps builds a frame from row maps. Columns come out in sorted name
// order; missing keys become NA.
func FromMaps(rows []map[string]any) (*Frame, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", core.ErrEmptyFrame)
	}
	nameSet := make(map[string]bool)
	for _, row := range rows {
		for k := range row {
			nameSet[k] = true
		}
	}
	names := make([]string, 0, len(nameSet))
	for k := range nameSet {
		names = append(names, k)
	}
	sort.Strings(names)

	cols := make([]*series.Series, 0, len(names))
	for _, name := range names {
		vals := make([]any, len(rows))
		for i, row := range rows {
			vals[i] = row[name]
		}
		s, err := series.FromValues(name, vals)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		cols = append(cols, s)
	}
	return New(cols...)
}

// NRows returns the number of rows
func (f *Frame) NRows() int {
	if len(f.cols) == 0 {
		return 0
	}
	return f.cols[0].Len()
}

// NCols returns the number of columns
func (f *Frame) NCols() int { return len(f.cols) }

// Shape returns rows, columns
func (f *Frame) Shape() (int, int) { return f.NRows(), f.NCols() }

// Columns returns the column names in order
func (f *Frame) Columns() []string {
	out := make([]string, len(f.cols))
	for i, c := range f.cols {
		out[i] = c.Name()
	}
	return out
}

// Types maps column names to their kinds
func (f *Frame) Types() map[string]series.Kind {
	out := make(map[string]series.Kind, len(f.cols))
	for _, c := range f.cols {
		out[c.Name()] = c.Kind()
	}
	return out
}

// HasColumn reports whether the named column exists
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.byName[name]
	return ok
}

// Column returns the named series
func (f *Frame) Column(name string) (*series.Series, error) {
	i, ok := f.byName[name]
	if !ok {
		return nil, core.NewColumnNotFoundError(name)
	}
	return f.cols[i], nil
}

// Index returns the row index
func (f *Frame) Index() *index.Index { return f.index }

// MultiIndex returns the hierarchical index, nil when flat
func (f *Frame) MultiIndex() *index.MultiIndex { return f.multi }

// withParts assembles a frame from already-copied internals
func withParts(cols []*series.Series, ix *index.Index, mi *index.MultiIndex) *Frame {
	byName := make(map[string]int, len(cols))
	for i, c := range cols {
		byName[c.Name()] = i
	}
	return &Frame{cols: cols, byName: byName, index: ix, multi: mi}
}

// Records converts the frame to row maps, NA as nil
func (f *Frame) Records() []map[string]any {
	out := make([]map[string]any, f.NRows())
	for i := range out {
		row := make(map[string]any, len(f.cols))
		for _, c := range f.cols {
			v, _ := c.At(i)
			row[c.Name()] = v
		}
		out[i] = row
	}
	return out
}

// Copy returns a deep copy
func (f *Frame) Copy() *Frame {
	cols := make([]*series.Series, len(f.cols))
	for i, c := range f.cols {
		cols[i] = c.Copy()
	}
	return withParts(cols, f.index, f.multi)
}

// take reorders all columns and the index by position; -1 produces NA rows
func (f *Frame) take(positions []int) (*Frame, error) {
	cols := make([]*series.Series, len(f.cols))
	for i, c := range f.cols {
		taken, err := c.Take(positions)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", c.Name(), err)
		}
		cols[i] = taken
	}
	ix, err := f.index.Take(positions)
	if err != nil {
		return nil, err
	}
	var mi *index.MultiIndex
	if f.multi != nil {
		if mi, err = f.multi.Take(positions); err != nil {
			return nil, err
		}
	}
	return withParts(cols, ix, mi), nil
}

// WithColumn returns a frame with the column added, or replaced when the name
// already exists. value may be a series of matching length or a scalar to
// broadcast.
func (f *Frame) WithColumn(name string, value any) (*Frame, error) {
	var col *series.Series
	switch v := value.(type) {
	case *series.Series:
		if v.Len() != f.NRows() {
			return nil, fmt.Errorf("column %q: %w", name, core.NewLengthMismatchError(f.NRows(), v.Len()))
		}
		col = v.Rename(name)
	default:
		vals := make([]any, f.NRows())
		for i := range vals {
			vals[i] = value
		}
		s, err := series.FromValues(name, vals)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		col = s
	}

	out := f.Copy()
	if i, ok := out.byName[name]; ok {
		out.cols[i] = col
		return out, nil
	}
	out.cols = append(out.cols, col)
	out.byName[name] = len(out.cols) - 1
	return out, nil
}

// RenameColumn returns a frame with one column renamed
func (f *Frame) RenameColumn(from, to string) (*Frame, error) {
	i, ok := f.byName[from]
	if !ok {
		return nil, core.NewColumnNotFoundError(from)
	}
	if _, dup := f.byName[to]; dup && from != to {
		return nil, fmt.Errorf("%w: %q", core.ErrDuplicateColumn, to)
	}
	out := f.Copy()
	out.cols[i] = out.cols[i].Rename(to)
	delete(out.byName, from)
	out.byName[to] = i
	return out, nil
}

// SetIndex makes the named column the row index. The column leaves the body,
// matching the usual move-to-index semantics.
func (f *Frame) SetIndex(col string) (*Frame, error) {
	s, err := f.Column(col)
	if err != nil {
		return nil, err
	}
	labels := make([]string, s.Len())
	for i := range labels {
		labels[i] = s.FormatAt(i)
	}
	out, err := f.Drop(col)
	if err != nil {
		return nil, err
	}
	out.index = index.New(col, labels)
	out.multi = nil
	return out, nil
}

// SetMultiIndex makes the named columns a hierarchical index, outermost
// first. The columns leave the body.
func (f *Frame) SetMultiIndex(cols ...string) (*Frame, error) {
	levels := make([][]string, len(cols))
	for l, name := range cols {
		s, err := f.Column(name)
		if err != nil {
			return nil, err
		}
		level := make([]string, s.Len())
		for i := range level {
			level[i] = s.FormatAt(i)
		}
		levels[l] = level
	}
	mi, err := index.NewMulti(cols, levels)
	if err != nil {
		return nil, err
	}
	out, err := f.Drop(cols...)
	if err != nil {
		return nil, err
	}
	out.multi = mi
	out.index = mi.Flatten("/")
	return out, nil
}

// ResetIndex moves the index back into the body as columns and restores the
// default range index.
func (f *Frame) ResetIndex() (*Frame, error) {
	out := f.Copy()
	if out.multi != nil {
		names := out.multi.Names()
		newCols := make([]*series.Series, 0, len(names)+len(out.cols))
		for _, name := range names {
			level, err := out.multi.Level(name)
			if err != nil {
				return nil, err
			}
			newCols = append(newCols, series.Strings(name, level...))
		}
		newCols = append(newCols, out.cols...)
		return New(newCols...)
	}
	if out.index.IsRange() {
		out.index = index.NewRange(out.NRows())
		return out, nil
	}
	name := out.index.Name()
	if name == "" {
		name = "index"
	}
	newCols := append([]*series.Series{series.Strings(name, out.index.Labels()...)}, out.cols...)
	return New(newCols...)
}

// Fingerprint hashes the schema and every cell, order sensitive. Two frames
// with the same fingerprint render identically.
func (f *Frame) Fingerprint() core.FrameHash {
	var b strings.Builder
	for _, c := range f.cols {
		fmt.Fprintf(&b, "%s:%s|", c.Name(), c.Kind())
	}
	b.WriteString("\n")
	for i := 0; i < f.NRows(); i++ {
		for _, c := range f.cols {
			b.WriteString(c.KeyAt(i))
			b.WriteString("\x1f")
		}
		b.WriteString("\n")
	}
	return core.FrameHash(core.NewHash([]byte(b.String())))
}

// Equal reports whether two frames have identical columns and index labels
func (f *Frame) Equal(other *Frame) bool {
	if f.NCols() != other.NCols() || f.NRows() != other.NRows() {
		return false
	}
	for i, c := range f.cols {
		if !c.Equal(other.cols[i]) {
			return false
		}
	}
	a, b := f.index.Labels(), other.index.Labels()
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// inferColumn parses a raw string column into the narrowest kind every valid
// cell supports: int, then float, then bool, then time, else string.
func inferColumn(name string, raw []string, missing []bool) *series.Series {
	vals := make([]any, len(raw))
	parse := bestParser(raw, missing)
	for i, cell := range raw {
		if missing[i] {
			continue
		}
		vals[i] = parse(cell)
	}
	s, err := series.FromValues(name, vals)
	if err != nil {
		// mixed parse results fall back to raw strings
		for i, cell := range raw {
			if missing[i] {
				vals[i] = nil
			} else {
				vals[i] = cell
			}
		}
		s, _ = series.FromValues(name, vals)
	}
	return s
}
