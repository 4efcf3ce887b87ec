package frame

import (
	"errors"
	"testing"

	"tabular/domain/core"
	"tabular/domain/series"
)

func longFrame(t *testing.T) *Frame {
	t.Helper()
	f, err := New(
		series.Strings("month", "jan", "jan", "feb", "feb"),
		series.Strings("city", "oslo", "lima", "oslo", "lima"),
		series.Floats("temp", -3, 22, -1, 23),
	)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

// TestPivotWide tests long-to-wide reshaping
func TestPivotWide(t *testing.T) {
	wide, err := Pivot(longFrame(t), "month", "city", "temp", "")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if wide.NRows() != 2 {
		t.Fatalf("Expected 2 rows, got %d", wide.NRows())
	}
	if !wide.HasColumn("oslo") || !wide.HasColumn("lima") {
		t.Fatalf("Expected city columns, got %v", wide.Columns())
	}

	v, err := wide.At("jan", "oslo")
	if err != nil || v != -3.0 {
		t.Errorf("Expected -3, got %v (%v)", v, err)
	}
}

// TestPivotDuplicateCellsNeedAgg tests duplicate handling
func TestPivotDuplicateCellsNeedAgg(t *testing.T) {
	f, _ := New(
		series.Strings("k", "a", "a"),
		series.Strings("c", "x", "x"),
		series.Floats("v", 1, 3),
	)

	if _, err := Pivot(f, "k", "c", "v", ""); !errors.Is(err, core.ErrDuplicatePivotCell) {
		t.Errorf("Expected ErrDuplicatePivotCell, got %v", err)
	}

	agg, err := Pivot(f, "k", "c", "v", AggMean)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	v, _ := agg.At("a", "x")
	if v != 2.0 {
		t.Errorf("Expected mean 2, got %v", v)
	}
}

// TestMeltRoundTrip tests wide-to-long reshaping
func TestMeltRoundTrip(t *testing.T) {
	wide, _ := New(
		series.Strings("id", "r1", "r2"),
		series.Floats("a", 1, 2),
		series.Floats("b", 3, 4),
	)

	long, err := Melt(wide, []string{"id"}, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if long.NRows() != 4 {
		t.Fatalf("Expected 4 rows, got %d", long.NRows())
	}
	variable, _ := long.Column("variable")
	if v, _ := variable.At(0); v != "a" {
		t.Errorf("Expected variable 'a' first, got %v", v)
	}
	value, _ := long.Column("value")
	if value.Kind() != series.Float {
		t.Errorf("Expected float value column, got %s", value.Kind())
	}

	// melting unknown columns fails
	if _, err := Melt(wide, []string{"nope"}, nil); !errors.Is(err, core.ErrColumnNotFound) {
		t.Errorf("Expected ErrColumnNotFound, got %v", err)
	}
}

// TestCrosstabCounts tests the frequency table
func TestCrosstabCounts(t *testing.T) {
	f, _ := New(
		series.Strings("color", "red", "red", "blue"),
		series.Strings("size", "s", "m", "s"),
	)

	xt, err := Crosstab(f, "color", "size")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	v, err := xt.At("red", "s")
	if err != nil || v != int64(1) {
		t.Errorf("Expected 1, got %v (%v)", v, err)
	}
	v, _ = xt.At("blue", "m")
	if v != int64(0) {
		t.Errorf("Expected 0, got %v", v)
	}
}

// TestStackUnstackRoundTrip tests the two-level index reshape pair
func TestStackUnstackRoundTrip(t *testing.T) {
	wide, _ := New(
		series.Floats("a", 1, 2),
		series.Floats("b", 3, 4),
	)

	long, err := Stack(wide)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if long.NRows() != 4 || long.MultiIndex() == nil {
		t.Fatalf("Stack should produce 4 rows under a two-level index")
	}

	back, err := Unstack(long)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	v, err := back.At("0", "a")
	if err != nil || v != 1.0 {
		t.Errorf("Expected 1, got %v (%v)", v, err)
	}
	v, _ = back.At("1", "b")
	if v != 4.0 {
		t.Errorf("Expected 4, got %v", v)
	}
}

// TestPivotTableMargins tests aggregate margins
func TestPivotTableMargins(t *testing.T) {
	out, err := PivotTable(longFrame(t), "month", "city", "temp", AggSum, true)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !out.HasColumn("All") {
		t.Fatalf("Expected All margin column, got %v", out.Columns())
	}

	v, err := out.At("jan", "All")
	if err != nil || v != 19.0 {
		t.Errorf("Expected jan margin 19, got %v (%v)", v, err)
	}
	v, err = out.At("All", "All")
	if err != nil || v != 41.0 {
		t.Errorf("Expected grand total 41, got %v (%v)", v, err)
	}
}
