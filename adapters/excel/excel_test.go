package excel

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"tabular/domain/core"
	"tabular/domain/frame"
	"tabular/domain/series"
)

func testFrame(t *testing.T) *frame.Frame {
	t.Helper()
	temp, err := series.FromValues("temp", []any{-3.5, 22.0, nil})
	if err != nil {
		t.Fatalf("Fixture error: %v", err)
	}
	f, err := frame.New(
		series.Strings("city", "oslo", "lima", "pune"),
		temp,
		series.Bools("coastal", false, true, false),
	)
	if err != nil {
		t.Fatalf("Fixture error: %v", err)
	}
	return f
}

// TestCSVRoundTrip tests write then read with NA cells
func TestCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cities.csv")
	f := testFrame(t)

	if err := NewWriter(path, WriteOptions{}).WriteFrame(f); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := NewDataReader(path, ReadOptions{}).ReadFrame(context.Background())
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	nrows, ncols := got.Shape()
	if nrows != 3 || ncols != 3 {
		t.Fatalf("Expected 3x3, got %dx%d", nrows, ncols)
	}
	kinds := got.Types()
	if kinds["temp"] != series.Float || kinds["coastal"] != series.Bool {
		t.Errorf("Unexpected kinds: %v", kinds)
	}
	temp, _ := got.Column("temp")
	if !temp.IsNA(2) {
		t.Error("Empty cell should round trip as NA")
	}
	if v, _ := temp.At(0); v != -3.5 {
		t.Errorf("Expected -3.5, got %v", v)
	}
}

// TestExcelRoundTrip tests the xlsx stream writer against the reader
func TestExcelRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cities.xlsx")
	f := testFrame(t)

	if err := NewWriter(path, WriteOptions{Sheet: "data"}).WriteFrame(f); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := NewDataReader(path, ReadOptions{Sheet: "data"}).ReadFrame(context.Background())
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got.NRows() != 3 {
		t.Fatalf("Expected 3 rows, got %d", got.NRows())
	}
	temp, _ := got.Column("temp")
	if !temp.IsNA(2) {
		t.Error("Empty cell should round trip as NA")
	}

	if _, err := NewDataReader(path, ReadOptions{Sheet: "nope"}).ReadFrame(context.Background()); !errors.Is(err, core.ErrSheetNotFound) {
		t.Errorf("Expected ErrSheetNotFound, got %v", err)
	}
}

// TestReadNoHeader tests synthesized column names
func TestReadNoHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bare.csv")
	if err := os.WriteFile(path, []byte("1,a\n2,b\n"), 0o644); err != nil {
		t.Fatalf("Fixture error: %v", err)
	}

	got, err := NewDataReader(path, ReadOptions{NoHeader: true}).ReadFrame(context.Background())
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got.NRows() != 2 || !got.HasColumn("col0") || !got.HasColumn("col1") {
		t.Errorf("Expected 2 rows with col0/col1, got %d rows %v", got.NRows(), got.Columns())
	}
}

// TestReadCustomDelimiter tests semicolon-separated files
func TestReadCustomDelimiter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "semi.csv")
	if err := os.WriteFile(path, []byte("a;b\n1;2\n"), 0o644); err != nil {
		t.Fatalf("Fixture error: %v", err)
	}

	got, err := NewDataReader(path, ReadOptions{Delimiter: ';'}).ReadFrame(context.Background())
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !got.HasColumn("a") || !got.HasColumn("b") {
		t.Errorf("Expected columns a and b, got %v", got.Columns())
	}
}

// TestReadMissingFile tests the not-found error
func TestReadMissingFile(t *testing.T) {
	_, _, err := NewDataReader("/nonexistent/nope.csv", ReadOptions{}).ReadRaw()
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

// TestWriteHeaderOnly tests that an empty frame still writes its header
func TestWriteHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	f, err := frame.New(series.Strings("a"), series.Strings("b"))
	if err != nil {
		t.Fatalf("Fixture error: %v", err)
	}
	if err := NewWriter(path, WriteOptions{}).WriteFrame(f); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(data) != "a,b\n" {
		t.Errorf("Expected header-only file, got %q", string(data))
	}
}
