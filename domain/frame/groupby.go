package frame

import (
	"fmt"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"tabular/domain/core"
	"tabular/domain/series"
)

// AggFunc names a per-group aggregation
type AggFunc string

const (
	AggSum     AggFunc = "sum"
	AggMean    AggFunc = "mean"
	AggMedian  AggFunc = "median"
	AggMin     AggFunc = "min"
	AggMax     AggFunc = "max"
	AggCount   AggFunc = "count"
	AggStd     AggFunc = "std"
	AggVar     AggFunc = "var"
	AggFirst   AggFunc = "first"
	AggLast    AggFunc = "last"
	AggNunique AggFunc = "nunique"
)

// GroupOptions tunes the split step
type GroupOptions struct {
	// KeepNA gives rows with an NA key their own group instead of dropping them
	KeepNA bool
}

// GroupBy is the split stage of split-apply-combine: rows bucketed by the
// distinct values of one or more key columns, in first-appearance order.
type GroupBy struct {
	frame   *Frame
	keys    []string
	keyCols []*series.Series

	order  []string         // composite keys, first-appearance order
	groups map[string][]int // composite key -> row positions
}

// GroupBy splits the frame by the named key columns, dropping NA-key rows
func (f *Frame) GroupBy(keys ...string) (*GroupBy, error) {
	return f.GroupByWith(GroupOptions{}, keys...)
}

// GroupByWith splits the frame with explicit options
func (f *Frame) GroupByWith(opts GroupOptions, keys ...string) (*GroupBy, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: GroupBy needs at least one key", core.ErrColumnNotFound)
	}
	keyCols := make([]*series.Series, len(keys))
	for i, k := range keys {
		s, err := f.Column(k)
		if err != nil {
			return nil, err
		}
		keyCols[i] = s
	}

	gb := &GroupBy{frame: f, keys: keys, keyCols: keyCols, groups: make(map[string][]int)}
	for row := 0; row < f.NRows(); row++ {
		hasNA := false
		parts := make([]string, len(keyCols))
		for i, s := range keyCols {
			if s.IsNA(row) {
				hasNA = true
			}
			parts[i] = s.KeyAt(row)
		}
		if hasNA && !opts.KeepNA {
			continue
		}
		key := strings.Join(parts, "\x1f")
		if _, seen := gb.groups[key]; !seen {
			gb.order = append(gb.order, key)
		}
		gb.groups[key] = append(gb.groups[key], row)
	}
	return gb, nil
}

// NGroups returns the number of distinct key tuples
func (gb *GroupBy) NGroups() int { return len(gb.order) }

// Keys returns the grouping column names
func (gb *GroupBy) Keys() []string {
	return append([]string(nil), gb.keys...)
}

// Groups maps each group's display key, key values joined with a comma, to
// the row positions it holds. Positions are copies; mutating them does not
// affect the GroupBy.
func (gb *GroupBy) Groups() map[string][]int {
	out := make(map[string][]int, len(gb.order))
	for _, key := range gb.order {
		positions := gb.groups[key]
		parts := make([]string, len(gb.keyCols))
		for i, s := range gb.keyCols {
			parts[i] = s.FormatAt(positions[0])
		}
		out[strings.Join(parts, ",")] = append([]int(nil), positions...)
	}
	return out
}

// GetGroup returns the rows of one group, identified by its key values in
// grouping-column order. Values are matched on their display form.
func (gb *GroupBy) GetGroup(values ...string) (*Frame, error) {
	if len(values) != len(gb.keys) {
		return nil, core.NewLengthMismatchError(len(gb.keys), len(values))
	}
	for _, key := range gb.order {
		positions := gb.groups[key]
		match := true
		for i, s := range gb.keyCols {
			if s.FormatAt(positions[0]) != values[i] {
				match = false
				break
			}
		}
		if match {
			return gb.frame.take(positions)
		}
	}
	return nil, core.NewLabelNotFoundError(strings.Join(values, ","))
}

// keyFrame builds the key columns of an aggregated result: one row per group,
// typed values taken from each group's first row.
func (gb *GroupBy) keyFrame() ([]*series.Series, error) {
	firsts := make([]int, len(gb.order))
	for g, key := range gb.order {
		firsts[g] = gb.groups[key][0]
	}
	out := make([]*series.Series, len(gb.keyCols))
	for i, s := range gb.keyCols {
		taken, err := s.Take(firsts)
		if err != nil {
			return nil, err
		}
		out[i] = taken
	}
	return out, nil
}

// Size returns one row per group with the group's row count
func (gb *GroupBy) Size() (*Frame, error) {
	cols, err := gb.keyFrame()
	if err != nil {
		return nil, err
	}
	sizes := make([]int64, len(gb.order))
	for g, key := range gb.order {
		sizes[g] = int64(len(gb.groups[key]))
	}
	cols = append(cols, series.Ints("size", sizes...))
	return New(cols...)
}

// Agg aggregates columns per group. specs maps a column to the aggregations
// applied to it; result columns are named column_aggregation. Groups are
// aggregated concurrently but emitted in first-appearance order.
func (gb *GroupBy) Agg(specs map[string][]AggFunc) (*Frame, error) {
	type job struct {
		column string
		fn     AggFunc
		out    []any // one slot per group
	}

	var jobs []*job
	for _, column := range sortedKeys(specs) {
		if _, err := gb.frame.Column(column); err != nil {
			return nil, err
		}
		for _, fn := range specs[column] {
			jobs = append(jobs, &job{column: column, fn: fn, out: make([]any, len(gb.order))})
		}
	}

	var eg errgroup.Group
	eg.SetLimit(runtime.NumCPU())
	for g := range gb.order {
		eg.Go(func() error {
			positions := gb.groups[gb.order[g]]
			for _, j := range jobs {
				col, _ := gb.frame.Column(j.column)
				group, err := col.Take(positions)
				if err != nil {
					return err
				}
				v, err := applyAgg(group, j.fn)
				if err != nil {
					return fmt.Errorf("%s(%s): %w", j.fn, j.column, err)
				}
				j.out[g] = v
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	cols, err := gb.keyFrame()
	if err != nil {
		return nil, err
	}
	for _, j := range jobs {
		s, err := series.FromValues(fmt.Sprintf("%s_%s", j.column, j.fn), j.out)
		if err != nil {
			return nil, err
		}
		cols = append(cols, s)
	}
	return New(cols...)
}

// applyAgg evaluates one aggregation over one group's slice
func applyAgg(group *series.Series, fn AggFunc) (any, error) {
	// an all-NA group aggregates to NA, except for the counting forms
	if group.Count() == 0 {
		switch fn {
		case AggCount, AggNunique:
			return int64(0), nil
		default:
			return nil, nil
		}
	}
	switch fn {
	case AggSum:
		return group.Sum()
	case AggMean:
		return group.Mean()
	case AggMedian:
		return group.Median()
	case AggMin:
		return group.Min()
	case AggMax:
		return group.Max()
	case AggStd:
		if group.Count() < 2 {
			return nil, nil // a single observation has no spread
		}
		return group.Std()
	case AggVar:
		if group.Count() < 2 {
			return nil, nil
		}
		return group.Var()
	case AggCount:
		return int64(group.Count()), nil
	case AggNunique:
		return int64(group.Nunique()), nil
	case AggFirst:
		for i := 0; i < group.Len(); i++ {
			if !group.IsNA(i) {
				return group.At(i)
			}
		}
		return nil, nil
	case AggLast:
		for i := group.Len() - 1; i >= 0; i-- {
			if !group.IsNA(i) {
				return group.At(i)
			}
		}
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownAggregation, fn)
	}
}

// Apply runs fn over every group's sub-frame and concatenates the results in
// group order.
func (gb *GroupBy) Apply(fn func(*Frame) (*Frame, error)) (*Frame, error) {
	var parts []*Frame
	for _, key := range gb.order {
		sub, err := gb.frame.take(gb.groups[key])
		if err != nil {
			return nil, err
		}
		part, err := fn(sub)
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: no groups", core.ErrEmptyFrame)
	}
	return Concat(parts, ConcatOptions{IgnoreIndex: true})
}

// Transform broadcasts a per-group aggregate back onto the original rows,
// producing a series aligned with the source frame. Rows outside every group
// (dropped NA keys) stay NA.
func (gb *GroupBy) Transform(column string, fn AggFunc) (*series.Series, error) {
	col, err := gb.frame.Column(column)
	if err != nil {
		return nil, err
	}
	out := make([]any, gb.frame.NRows())
	for _, key := range gb.order {
		positions := gb.groups[key]
		group, err := col.Take(positions)
		if err != nil {
			return nil, err
		}
		v, err := applyAgg(group, fn)
		if err != nil {
			return nil, fmt.Errorf("%s(%s): %w", fn, column, err)
		}
		for _, p := range positions {
			out[p] = v
		}
	}
	return series.FromValues(fmt.Sprintf("%s_%s", column, fn), out)
}

func sortedKeys(specs map[string][]AggFunc) []string {
	out := make([]string, 0, len(specs))
	for k := range specs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
