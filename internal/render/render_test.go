package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabular/domain/frame"
	"tabular/domain/series"
)

func sampleFrame(t *testing.T) *frame.Frame {
	t.Helper()
	f, err := frame.New(
		series.Strings("city", "Oslo", "Lagos", "Lima"),
		series.Floats("temp", 4.5, 31, 18.2),
	)
	require.NoError(t, err)
	return f
}

func TestTextAlignsColumns(t *testing.T) {
	out := Text(sampleFrame(t), DefaultOptions())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)

	assert.Contains(t, lines[0], "city")
	assert.Contains(t, lines[0], "temp")
	assert.Contains(t, lines[1], "Oslo")

	// each column header starts at the same offset in every row
	cityAt := strings.Index(lines[0], "city")
	assert.Equal(t, cityAt, strings.Index(lines[1], "Oslo"))
	assert.Equal(t, cityAt, strings.Index(lines[2], "Lagos"))
	assert.Equal(t, cityAt, strings.Index(lines[3], "Lima"))
}

func TestTextElidesLongFrames(t *testing.T) {
	n := 50
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = float64(i)
	}
	f, err := frame.New(series.Floats("x", vals...))
	require.NoError(t, err)

	out := Text(f, Options{MaxRows: 10, MaxWidth: 40})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	// header + 10 data rows + elision marker
	assert.Len(t, lines, 12)
	assert.Contains(t, out, ellipsisRow)
	assert.Contains(t, out, "49") // tail survives
}

func TestTextRendersNA(t *testing.T) {
	s, err := series.FromValues("v", []any{1.0, nil})
	require.NoError(t, err)
	f, err := frame.New(s)
	require.NoError(t, err)

	out := Text(f, DefaultOptions())
	assert.Contains(t, out, "NA")
}

func TestTextClipsWideCells(t *testing.T) {
	f, err := frame.New(series.Strings("s", strings.Repeat("a", 100)))
	require.NoError(t, err)

	out := Text(f, Options{MaxRows: 5, MaxWidth: 10})
	assert.Contains(t, out, "…")
	assert.NotContains(t, out, strings.Repeat("a", 100))
}

func TestMarkdownTable(t *testing.T) {
	out := Markdown(sampleFrame(t), DefaultOptions())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 5)

	assert.True(t, strings.HasPrefix(lines[0], "|"))
	assert.Contains(t, lines[1], "---")
	assert.Contains(t, lines[2], "| Oslo |")
}

func TestReportHTML(t *testing.T) {
	r := NewReport("Weather", DefaultOptions()).
		AddHeading(2, "Cities").
		AddText("Observed temperatures.").
		AddFrame("readings", sampleFrame(t))

	md := r.Markdown()
	assert.Contains(t, md, "# Weather")
	assert.Contains(t, md, "## Cities")
	assert.Contains(t, md, "**readings**")

	page, err := r.HTML()
	require.NoError(t, err)
	html := string(page)
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "Oslo")
	assert.Contains(t, html, "<title>Weather</title>")
}

func TestStyledKeepsAllCells(t *testing.T) {
	out := Styled(sampleFrame(t), DefaultOptions())
	assert.Contains(t, out, "Oslo")
	assert.Contains(t, out, "Lagos")
	assert.Contains(t, out, "temp")
}

func TestSparkline(t *testing.T) {
	s := series.Floats("v", 0, 1, 2, 3)
	line, err := Sparkline(s)
	require.NoError(t, err)
	runes := []rune(line)
	require.Len(t, runes, 4)
	assert.Equal(t, '▁', runes[0])
	assert.Equal(t, '█', runes[3])
}

func TestSparklineRejectsStrings(t *testing.T) {
	_, err := Sparkline(series.Strings("s", "a"))
	assert.Error(t, err)
}

func TestHistogramBuckets(t *testing.T) {
	s := series.Floats("v", 0, 0.1, 0.2, 5, 9.9, 10)
	buckets, err := Histogram(s, 2)
	require.NoError(t, err)
	require.Len(t, buckets, 2)
	assert.Equal(t, 3, buckets[0].Count)
	assert.Equal(t, 3, buckets[1].Count)
	assert.Equal(t, 6, buckets[0].Count+buckets[1].Count)
}

func TestHistogramText(t *testing.T) {
	s := series.Floats("v", 1, 1, 1, 2)
	out, err := HistogramText(s, 2, 10)
	require.NoError(t, err)
	assert.Contains(t, out, "█")
	assert.Contains(t, out, "3")
}

func TestBarChart(t *testing.T) {
	out, err := BarChart([]string{"a", "bb"}, []float64{2, 4}, 8)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.Count(lines[1], "█") > strings.Count(lines[0], "█"))

	_, err = BarChart([]string{"a"}, []float64{1, 2}, 8)
	assert.Error(t, err)
}
