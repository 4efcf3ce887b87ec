package frame

import (
	"fmt"

	"tabular/domain/core"
	"tabular/domain/index"
	"tabular/domain/series"
)

// ConcatOptions tunes row-wise concatenation
type ConcatOptions struct {
	// IgnoreIndex discards source indexes and regenerates a range index
	IgnoreIndex bool
}

// Concat stacks frames row-wise. The output schema is the union of all input
// schemas in first-appearance order; columns a frame lacks fill with NA.
func Concat(frames []*Frame, opts ConcatOptions) (*Frame, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("%w: nothing to concatenate", core.ErrEmptyFrame)
	}
	if len(frames) == 1 {
		out := frames[0].Copy()
		if opts.IgnoreIndex {
			out.index = index.NewRange(out.NRows())
			out.multi = nil
		}
		return out, nil
	}

	// union schema, remembering a kind for each column
	var names []string
	kinds := make(map[string]series.Kind)
	for _, f := range frames {
		for _, c := range f.Columns() {
			if _, seen := kinds[c]; !seen {
				names = append(names, c)
				s, _ := f.Column(c)
				kinds[c] = s.Kind()
			}
		}
	}

	total := 0
	for _, f := range frames {
		total += f.NRows()
	}

	cols := make([]*series.Series, len(names))
	for ci, name := range names {
		var parts *series.Series
		for _, f := range frames {
			part, err := f.Column(name)
			if err != nil {
				part = series.Empty(name, kinds[name], f.NRows())
			}
			if parts == nil {
				parts = part
				continue
			}
			joined, err := parts.Append(part)
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", name, err)
			}
			parts = joined
		}
		cols[ci] = parts.Rename(name)
	}

	out, err := New(cols...)
	if err != nil {
		return nil, err
	}
	if !opts.IgnoreIndex {
		ix := frames[0].Index()
		for _, f := range frames[1:] {
			ix = ix.Append(f.Index())
		}
		out.index = ix
	}
	if out.NRows() != total {
		return nil, fmt.Errorf("%w: expected %d rows, built %d", core.ErrSchemaMismatch, total, out.NRows())
	}
	return out, nil
}

// ConcatColumns places frames side by side. Row counts must match and column
// names must not collide.
func ConcatColumns(frames ...*Frame) (*Frame, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("%w: nothing to concatenate", core.ErrEmptyFrame)
	}
	n := frames[0].NRows()
	var cols []*series.Series
	for _, f := range frames {
		if f.NRows() != n {
			return nil, core.NewLengthMismatchError(n, f.NRows())
		}
		for _, name := range f.Columns() {
			s, _ := f.Column(name)
			cols = append(cols, s.Copy())
		}
	}
	out, err := New(cols...)
	if err != nil {
		return nil, err
	}
	out.index = frames[0].Index()
	out.multi = frames[0].MultiIndex()
	return out, nil
}
