package frame

import (
	"fmt"
	"sort"

	"tabular/domain/core"
	"tabular/domain/index"
	"tabular/domain/series"
)

// Pivot spreads a long frame into a wide one: one row per distinct indexCol
// value, one column per distinct columnsCol value, cells taken from
// valuesCol. Duplicate (row, column) cells require an aggregation; with
// agg == "" they fail.
func Pivot(f *Frame, indexCol, columnsCol, valuesCol string, agg AggFunc) (*Frame, error) {
	idxSeries, err := f.Column(indexCol)
	if err != nil {
		return nil, err
	}
	colSeries, err := f.Column(columnsCol)
	if err != nil {
		return nil, err
	}
	valSeries, err := f.Column(valuesCol)
	if err != nil {
		return nil, err
	}

	rowLabels := sortedDistinct(idxSeries)
	colLabels := sortedDistinct(colSeries)

	// bucket source rows per output cell
	cells := make(map[string][]int)
	for i := 0; i < f.NRows(); i++ {
		if idxSeries.IsNA(i) || colSeries.IsNA(i) {
			continue
		}
		key := idxSeries.FormatAt(i) + "\x1f" + colSeries.FormatAt(i)
		cells[key] = append(cells[key], i)
	}

	cols := make([]*series.Series, 0, len(colLabels)+1)
	cols = append(cols, series.Strings(indexCol, rowLabels...))
	for _, cl := range colLabels {
		vals := make([]any, len(rowLabels))
		for r, rl := range rowLabels {
			positions := cells[rl+"\x1f"+cl]
			switch {
			case len(positions) == 0:
				vals[r] = nil
			case len(positions) == 1:
				vals[r], _ = valSeries.At(positions[0])
			default:
				if agg == "" {
					return nil, fmt.Errorf("%w: index %q column %q has %d entries",
						core.ErrDuplicatePivotCell, rl, cl, len(positions))
				}
				group, err := valSeries.Take(positions)
				if err != nil {
					return nil, err
				}
				v, err := applyAgg(group, agg)
				if err != nil {
					return nil, err
				}
				vals[r] = v
			}
		}
		s, err := series.FromValues(cl, vals)
		if err != nil {
			return nil, fmt.Errorf("pivot column %q: %w", cl, err)
		}
		cols = append(cols, s)
	}

	out, err := New(cols...)
	if err != nil {
		return nil, err
	}
	return out.SetIndex(indexCol)
}

// Melt narrows a wide frame into long form: idVars repeat per value column,
// the value column names land in "variable" and their cells in "value".
func Melt(f *Frame, idVars, valueVars []string) (*Frame, error) {
	for _, v := range append(append([]string(nil), idVars...), valueVars...) {
		if !f.HasColumn(v) {
			return nil, core.NewColumnNotFoundError(v)
		}
	}
	if len(valueVars) == 0 {
		id := make(map[string]bool, len(idVars))
		for _, v := range idVars {
			id[v] = true
		}
		for _, name := range f.Columns() {
			if !id[name] {
				valueVars = append(valueVars, name)
			}
		}
	}

	n := f.NRows()
	total := n * len(valueVars)

	cols := make([]*series.Series, 0, len(idVars)+2)
	for _, name := range idVars {
		src, _ := f.Column(name)
		positions := make([]int, 0, total)
		for range valueVars {
			for i := 0; i < n; i++ {
				positions = append(positions, i)
			}
		}
		stacked, err := src.Take(positions)
		if err != nil {
			return nil, err
		}
		cols = append(cols, stacked)
	}

	variable := make([]string, 0, total)
	values := make([]any, 0, total)
	for _, name := range valueVars {
		src, _ := f.Column(name)
		for i := 0; i < n; i++ {
			variable = append(variable, name)
			v, _ := src.At(i)
			values = append(values, v)
		}
	}
	cols = append(cols, series.Strings("variable", variable...))

	valueSeries, err := series.FromValues("value", values)
	if err != nil {
		// mixed value kinds melt to their display form
		display := make([]any, len(values))
		for i, v := range values {
			if v == nil {
				display[i] = nil
			} else {
				display[i] = fmt.Sprintf("%v", v)
			}
		}
		if valueSeries, err = series.FromValues("value", display); err != nil {
			return nil, err
		}
	}
	cols = append(cols, valueSeries)

	return New(cols...)
}

// Crosstab builds a frequency table: rows from rowCol values, columns from
// colCol values, cells counting co-occurrences.
func Crosstab(f *Frame, rowCol, colCol string) (*Frame, error) {
	rs, err := f.Column(rowCol)
	if err != nil {
		return nil, err
	}
	cs, err := f.Column(colCol)
	if err != nil {
		return nil, err
	}

	rowLabels := sortedDistinct(rs)
	colLabels := sortedDistinct(cs)
	rowPos := make(map[string]int, len(rowLabels))
	for i, l := range rowLabels {
		rowPos[l] = i
	}

	counts := make(map[string][]int64, len(colLabels))
	for _, cl := range colLabels {
		counts[cl] = make([]int64, len(rowLabels))
	}
	for i := 0; i < f.NRows(); i++ {
		if rs.IsNA(i) || cs.IsNA(i) {
			continue
		}
		counts[cs.FormatAt(i)][rowPos[rs.FormatAt(i)]]++
	}

	cols := make([]*series.Series, 0, len(colLabels)+1)
	cols = append(cols, series.Strings(rowCol, rowLabels...))
	for _, cl := range colLabels {
		cols = append(cols, series.Ints(cl, counts[cl]...))
	}
	out, err := New(cols...)
	if err != nil {
		return nil, err
	}
	return out.SetIndex(rowCol)
}

// Stack narrows a wide frame into (label, column, value) long form under a
// two-level index.
func Stack(f *Frame) (*Frame, error) {
	n := f.NRows()
	names := f.Columns()
	total := n * len(names)

	outer := make([]string, 0, total)
	inner := make([]string, 0, total)
	values := make([]any, 0, total)
	labels := f.Index().Labels()
	for i := 0; i < n; i++ {
		for _, name := range names {
			s, _ := f.Column(name)
			v, _ := s.At(i)
			outer = append(outer, labels[i])
			inner = append(inner, name)
			values = append(values, v)
		}
	}

	valueSeries, err := series.FromValues("value", values)
	if err != nil {
		display := make([]any, len(values))
		for i, v := range values {
			if v == nil {
				display[i] = nil
			} else {
				display[i] = fmt.Sprintf("%v", v)
			}
		}
		if valueSeries, err = series.FromValues("value", display); err != nil {
			return nil, err
		}
	}

	indexName := f.Index().Name()
	if indexName == "" {
		indexName = "index"
	}
	out, err := New(valueSeries)
	if err != nil {
		return nil, err
	}
	mi, err := index.NewMulti([]string{indexName, "column"}, [][]string{outer, inner})
	if err != nil {
		return nil, err
	}
	out.multi = mi
	out.index = mi.Flatten("/")
	return out, nil
}

// Unstack widens a two-level-indexed single-column frame: the outer level
// becomes the row index, the inner level the columns.
func Unstack(f *Frame) (*Frame, error) {
	mi := f.MultiIndex()
	if mi == nil || mi.Depth() != 2 {
		return nil, fmt.Errorf("%w: Unstack needs a two-level index", core.ErrLevelNotFound)
	}
	if f.NCols() != 1 {
		return nil, fmt.Errorf("%w: Unstack needs a single value column, got %d", core.ErrSchemaMismatch, f.NCols())
	}
	names := mi.Names()
	outerVals, _ := mi.Level(names[0])
	innerVals, _ := mi.Level(names[1])

	long, err := New(
		series.Strings(names[0], outerVals...),
		series.Strings(names[1], innerVals...),
		f.cols[0].Rename("value"),
	)
	if err != nil {
		return nil, err
	}
	return Pivot(long, names[0], names[1], "value", "")
}

// sortedDistinct returns the distinct display values of a series, sorted
func sortedDistinct(s *series.Series) []string {
	seen := make(map[string]bool)
	var out []string
	for i := 0; i < s.Len(); i++ {
		if s.IsNA(i) {
			continue
		}
		v := s.FormatAt(i)
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
