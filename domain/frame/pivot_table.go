package frame

import (
	"tabular/domain/series"
)

// PivotTable is Pivot with an aggregation always applied and optional margins:
// an "All" column aggregating each row's source cells and an "All" row
// aggregating each column's, with the grand total in the corner.
func PivotTable(f *Frame, indexCol, columnsCol, valuesCol string, agg AggFunc, margins bool) (*Frame, error) {
	if agg == "" {
		agg = AggMean
	}
	wide, err := Pivot(f, indexCol, columnsCol, valuesCol, agg)
	if err != nil {
		return nil, err
	}
	if !margins {
		return wide, nil
	}

	idxSeries, _ := f.Column(indexCol)
	colSeries, _ := f.Column(columnsCol)
	valSeries, _ := f.Column(valuesCol)

	// row margins: aggregate all source rows sharing the index value
	rowLabels := wide.Index().Labels()
	rowMargin := make([]any, len(rowLabels))
	for r, rl := range rowLabels {
		var positions []int
		for i := 0; i < f.NRows(); i++ {
			if !idxSeries.IsNA(i) && !colSeries.IsNA(i) && idxSeries.FormatAt(i) == rl {
				positions = append(positions, i)
			}
		}
		rowMargin[r], err = aggPositions(valSeries, positions, agg)
		if err != nil {
			return nil, err
		}
	}
	marginCol, err := series.FromValues("All", rowMargin)
	if err != nil {
		return nil, err
	}
	wide, err = wide.WithColumn("All", marginCol)
	if err != nil {
		return nil, err
	}

	// column margins plus the grand total
	bottom := make(map[string]any, wide.NCols())
	for _, name := range wide.Columns() {
		var positions []int
		for i := 0; i < f.NRows(); i++ {
			if idxSeries.IsNA(i) || colSeries.IsNA(i) {
				continue
			}
			if name == "All" || colSeries.FormatAt(i) == name {
				positions = append(positions, i)
			}
		}
		v, err := aggPositions(valSeries, positions, agg)
		if err != nil {
			return nil, err
		}
		bottom[name] = v
	}

	flat, err := wide.ResetIndex()
	if err != nil {
		return nil, err
	}
	bottom[indexCol] = "All"
	bottomFrame, err := FromMaps([]map[string]any{bottom})
	if err != nil {
		return nil, err
	}
	out, err := Concat([]*Frame{flat, bottomFrame}, ConcatOptions{IgnoreIndex: true})
	if err != nil {
		return nil, err
	}
	return out.SetIndex(indexCol)
}

func aggPositions(s *series.Series, positions []int, agg AggFunc) (any, error) {
	group, err := s.Take(positions)
	if err != nil {
		return nil, err
	}
	return applyAgg(group, agg)
}
