package render

import (
	"fmt"
	"math"
	"strings"

	apperrors "tabular/internal/errors"

	"tabular/domain/series"
)

var sparkTicks = []rune("▁▂▃▄▅▆▇█")

// Sparkline compresses a numeric series into one line of block glyphs,
// one glyph per value. NA values render as a space.
func Sparkline(s *series.Series) (string, error) {
	vals, err := s.Float64s()
	if err != nil {
		return "", apperrors.Wrap(err, "sparkline needs a numeric series")
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for i, v := range vals {
		if s.IsNA(i) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if math.IsInf(lo, 1) {
		return "", apperrors.New(apperrors.CodeRenderError, "sparkline of all-NA series")
	}

	span := hi - lo
	var b strings.Builder
	for i, v := range vals {
		if s.IsNA(i) {
			b.WriteRune(' ')
			continue
		}
		tick := 0
		if span > 0 {
			tick = int((v - lo) / span * float64(len(sparkTicks)-1))
		}
		b.WriteRune(sparkTicks[tick])
	}
	return b.String(), nil
}

// HistogramBucket is one bar of a histogram.
type HistogramBucket struct {
	Lo    float64
	Hi    float64
	Count int
}

// Histogram buckets the valid values of a numeric series into bins of
// equal width.
func Histogram(s *series.Series, bins int) ([]HistogramBucket, error) {
	if bins <= 0 {
		return nil, apperrors.New(apperrors.CodeInvalidInput, "histogram needs at least one bin")
	}
	vals, err := s.Float64s()
	if err != nil {
		return nil, apperrors.Wrap(err, "histogram needs a numeric series")
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	n := 0
	for i, v := range vals {
		if s.IsNA(i) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
		n++
	}
	if n == 0 {
		return nil, apperrors.New(apperrors.CodeRenderError, "histogram of all-NA series")
	}

	width := (hi - lo) / float64(bins)
	buckets := make([]HistogramBucket, bins)
	for i := range buckets {
		buckets[i].Lo = lo + float64(i)*width
		buckets[i].Hi = lo + float64(i+1)*width
	}
	for i, v := range vals {
		if s.IsNA(i) {
			continue
		}
		b := bins - 1
		if width > 0 {
			b = int((v - lo) / width)
			if b >= bins {
				b = bins - 1
			}
		}
		buckets[b].Count++
	}
	return buckets, nil
}

// HistogramText renders a histogram as horizontal unicode bars, one
// bucket per line, bars scaled to barWidth characters.
func HistogramText(s *series.Series, bins, barWidth int) (string, error) {
	buckets, err := Histogram(s, bins)
	if err != nil {
		return "", err
	}
	if barWidth <= 0 {
		barWidth = 40
	}

	maxCount := 0
	for _, b := range buckets {
		if b.Count > maxCount {
			maxCount = b.Count
		}
	}

	var out strings.Builder
	for _, b := range buckets {
		barLen := 0
		if maxCount > 0 {
			barLen = b.Count * barWidth / maxCount
		}
		if b.Count > 0 && barLen == 0 {
			barLen = 1
		}
		fmt.Fprintf(&out, "%10.4g .. %-10.4g %s %d\n",
			b.Lo, b.Hi, strings.Repeat("█", barLen), b.Count)
	}
	return out.String(), nil
}

// BarChart renders label/value pairs as horizontal bars, for the
// value-counts style of plot.
func BarChart(labels []string, values []float64, barWidth int) (string, error) {
	if len(labels) != len(values) {
		return "", apperrors.New(apperrors.CodeInvalidInput, "bar chart labels and values differ in length")
	}
	if barWidth <= 0 {
		barWidth = 40
	}

	maxVal := 0.0
	maxLabel := 0
	for i, v := range values {
		if v > maxVal {
			maxVal = v
		}
		if n := len([]rune(labels[i])); n > maxLabel {
			maxLabel = n
		}
	}

	var out strings.Builder
	for i, v := range values {
		barLen := 0
		if maxVal > 0 {
			barLen = int(v / maxVal * float64(barWidth))
		}
		if v > 0 && barLen == 0 {
			barLen = 1
		}
		fmt.Fprintf(&out, "%s %s %g\n",
			pad(labels[i], maxLabel), strings.Repeat("█", barLen), v)
	}
	return out.String(), nil
}
