package parquet

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabular/domain/frame"
	"tabular/domain/series"
)

func TestParquetRoundTrip(t *testing.T) {
	temp, err := series.FromValues("temp", []any{-3.5, nil, 31.0})
	require.NoError(t, err)
	f, err := frame.New(
		series.Strings("city", "oslo", "lima", "pune"),
		temp,
		series.Ints("population", 700000, 10000000, 7400000),
		series.Bools("coastal", false, true, false),
		series.Times("measured",
			time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
			time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC),
			time.Date(2024, 5, 3, 12, 0, 0, 0, time.UTC),
		),
	)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteParquet(f, &buf))
	assert.Greater(t, buf.Len(), 0)

	got, err := ReadParquet(&buf)
	require.NoError(t, err)

	nrows, ncols := got.Shape()
	assert.Equal(t, 3, nrows)
	assert.Equal(t, 5, ncols)

	kinds := got.Types()
	assert.Equal(t, series.Float, kinds["temp"])
	assert.Equal(t, series.Int, kinds["population"])
	assert.Equal(t, series.Bool, kinds["coastal"])
	assert.Equal(t, series.Time, kinds["measured"])
	assert.Equal(t, series.String, kinds["city"])

	gotTemp, err := got.Column("temp")
	require.NoError(t, err)
	assert.True(t, gotTemp.IsNA(1), "NA cell should survive the round trip")
	v, err := gotTemp.At(0)
	require.NoError(t, err)
	assert.Equal(t, -3.5, v)

	measured, err := got.Column("measured")
	require.NoError(t, err)
	ts, err := measured.At(2)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 3, 12, 0, 0, 0, time.UTC), ts)
}

func TestWriteParquetEmptyFrame(t *testing.T) {
	var buf bytes.Buffer
	err := WriteParquet(&frame.Frame{}, &buf)
	assert.Error(t, err)
}

func TestReadParquetGarbage(t *testing.T) {
	_, err := ReadParquet(bytes.NewReader([]byte("not parquet")))
	assert.Error(t, err)
}
