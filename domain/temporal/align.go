package temporal

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"tabular/domain/core"
	"tabular/domain/frame"
	"tabular/domain/series"
)

// Observation is one timestamped numeric reading.
type Observation struct {
	At    time.Time
	Value float64
}

// FillStrategy decides what an empty bucket receives during alignment.
type FillStrategy string

const (
	FillZero    FillStrategy = "zero"
	FillForward FillStrategy = "forward" // last observed bucket's value
	FillMean    FillStrategy = "mean"    // mean of observed buckets so far
	FillNaN     FillStrategy = "nan"
)

// AlignConfig controls how two observation streams are put on a shared clock.
type AlignConfig struct {
	Freq        Freq
	Agg         frame.AggFunc // aggregation within a bucket, defaults to mean
	Fill        FillStrategy  // defaults to NaN
	MinPeriods  int           // minimum grid length, defaults to 2
	MaxGapRatio float64       // maximum share of empty buckets, defaults to 0.5
}

// Align resamples two observation streams onto one time grid spanning the
// union of their ranges, so lagged comparisons line up row for row. The result
// has a time column plus one value column per input.
func Align(names [2]string, source, target []Observation, cfg AlignConfig) (*frame.Frame, error) {
	if len(source) == 0 || len(target) == 0 {
		return nil, fmt.Errorf("%w: alignment needs observations on both sides", core.ErrInsufficientData)
	}
	if cfg.Freq == "" {
		cfg.Freq = FreqDay
	}
	if cfg.Agg == "" {
		cfg.Agg = frame.AggMean
	}
	if cfg.Fill == "" {
		cfg.Fill = FillNaN
	}
	if cfg.MinPeriods <= 0 {
		cfg.MinPeriods = 2
	}
	if cfg.MaxGapRatio <= 0 {
		cfg.MaxGapRatio = 0.5
	}

	sortObservations(source)
	sortObservations(target)

	start := source[0].At
	if target[0].At.Before(start) {
		start = target[0].At
	}
	end := source[len(source)-1].At
	if target[len(target)-1].At.After(end) {
		end = target[len(target)-1].At
	}

	grid, err := DateRange("time", start, end, cfg.Freq)
	if err != nil {
		return nil, err
	}
	if grid.Len() < cfg.MinPeriods {
		return nil, fmt.Errorf("%w: %d periods on the grid, need %d", core.ErrInsufficientData, grid.Len(), cfg.MinPeriods)
	}
	edges := make([]time.Time, grid.Len())
	for i := range edges {
		v, err := grid.At(i)
		if err != nil {
			return nil, err
		}
		edges[i] = v.(time.Time)
	}

	sourceVals, sourceGaps, err := bucketize(source, edges, cfg)
	if err != nil {
		return nil, fmt.Errorf("aligning %q: %w", names[0], err)
	}
	targetVals, targetGaps, err := bucketize(target, edges, cfg)
	if err != nil {
		return nil, fmt.Errorf("aligning %q: %w", names[1], err)
	}

	if sourceGaps > cfg.MaxGapRatio || targetGaps > cfg.MaxGapRatio {
		return nil, fmt.Errorf("%w: %.0f%% / %.0f%% empty, limit %.0f%%",
			core.ErrExcessiveGap, sourceGaps*100, targetGaps*100, cfg.MaxGapRatio*100)
	}

	return frame.New(
		grid,
		series.Floats(names[0], sourceVals...),
		series.Floats(names[1], targetVals...),
	)
}

func sortObservations(obs []Observation) {
	sort.Slice(obs, func(i, j int) bool { return obs[i].At.Before(obs[j].At) })
}

// bucketize aggregates observations per grid bucket and fills empty buckets
// per the configured strategy. The second return is the share of buckets that
// held no observation.
func bucketize(obs []Observation, edges []time.Time, cfg AlignConfig) ([]float64, float64, error) {
	values := make([]float64, len(edges))
	observed := make([]bool, len(edges))

	for i, edge := range edges {
		next := cfg.Freq.Next(edge)
		var bucket []float64
		for _, o := range obs {
			if !o.At.Before(edge) && o.At.Before(next) {
				bucket = append(bucket, o.Value)
			}
		}
		if len(bucket) == 0 {
			values[i] = fillValue(cfg.Fill, values, observed, i)
			continue
		}
		observed[i] = true
		v, err := bucketAgg(bucket, cfg.Agg)
		if err != nil {
			return nil, 0, err
		}
		values[i] = v
	}

	empty := 0
	for _, ok := range observed {
		if !ok {
			empty++
		}
	}
	return values, float64(empty) / float64(len(edges)), nil
}

func bucketAgg(bucket []float64, agg frame.AggFunc) (float64, error) {
	data := stats.Float64Data(bucket)
	switch agg {
	case frame.AggSum:
		return stats.Sum(data)
	case frame.AggMean:
		return stats.Mean(data)
	case frame.AggMin:
		return stats.Min(data)
	case frame.AggMax:
		return stats.Max(data)
	case frame.AggCount:
		return float64(len(bucket)), nil
	default:
		return 0, fmt.Errorf("%w: %q not usable inside a time bucket", core.ErrUnknownAggregation, agg)
	}
}

// fillValue imputes an empty bucket. Forward and mean fills only look at
// buckets that held real observations.
func fillValue(strategy FillStrategy, values []float64, observed []bool, idx int) float64 {
	switch strategy {
	case FillZero:
		return 0
	case FillForward:
		for i := idx - 1; i >= 0; i-- {
			if observed[i] {
				return values[i]
			}
		}
		return 0
	case FillMean:
		sum, count := 0.0, 0
		for i := 0; i < idx; i++ {
			if observed[i] {
				sum += values[i]
				count++
			}
		}
		if count == 0 {
			return 0
		}
		return sum / float64(count)
	default:
		return math.NaN()
	}
}
