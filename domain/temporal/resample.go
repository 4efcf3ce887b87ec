package temporal

import (
	"fmt"
	"time"

	"tabular/domain/core"
	"tabular/domain/frame"
	"tabular/domain/series"
)

// ResampleOptions controls bucket emission.
type ResampleOptions struct {
	// Complete emits a row for every bucket between the first and last
	// observation, with NA aggregates where the bucket held no rows.
	Complete bool
}

// Resample floors the time column to freq buckets, groups rows by bucket, and
// aggregates per specs. Bucket labels are the left edge of each bucket and the
// result is sorted chronologically. Rows with a missing timestamp are dropped.
func Resample(f *frame.Frame, timeCol string, freq Freq, specs map[string][]frame.AggFunc, opts ResampleOptions) (*frame.Frame, error) {
	tc, err := f.Column(timeCol)
	if err != nil {
		return nil, err
	}
	if tc.Kind() != series.Time {
		return nil, fmt.Errorf("column %q: %w, got %s", timeCol, core.ErrNotTime, tc.Kind())
	}

	buckets := make([]time.Time, tc.Len())
	for i := 0; i < tc.Len(); i++ {
		v, err := tc.At(i)
		if err != nil {
			return nil, err
		}
		if v == nil {
			continue // zero value stays missing
		}
		buckets[i] = freq.Floor(v.(time.Time))
	}

	floored, err := f.WithColumn(timeCol, series.Times(timeCol, buckets...))
	if err != nil {
		return nil, err
	}

	gb, err := floored.GroupBy(timeCol)
	if err != nil {
		return nil, err
	}
	agg, err := gb.Agg(specs)
	if err != nil {
		return nil, err
	}
	sorted, err := agg.SortBy(frame.SortKey{Column: timeCol})
	if err != nil {
		return nil, err
	}
	if !opts.Complete || sorted.NRows() == 0 {
		return sorted, nil
	}
	return completeBuckets(sorted, timeCol, freq)
}

// completeBuckets left-joins the aggregate onto the full bucket grid so empty
// periods surface as NA rows.
func completeBuckets(agg *frame.Frame, timeCol string, freq Freq) (*frame.Frame, error) {
	tc, err := agg.Column(timeCol)
	if err != nil {
		return nil, err
	}
	first, err := tc.At(0)
	if err != nil {
		return nil, err
	}
	last, err := tc.At(tc.Len() - 1)
	if err != nil {
		return nil, err
	}

	grid, err := DateRange(timeCol, first.(time.Time), last.(time.Time), freq)
	if err != nil {
		return nil, err
	}
	gridFrame, err := frame.New(grid)
	if err != nil {
		return nil, err
	}
	return frame.Merge(gridFrame, agg, frame.MergeOptions{
		On:  []string{timeCol},
		How: frame.JoinLeft,
	})
}
