package frame

import (
	"errors"
	"math"
	"testing"

	"tabular/domain/core"
	"tabular/domain/series"
)

// TestDescribeSummarizesNumericColumns tests the summary frame layout
func TestDescribeSummarizesNumericColumns(t *testing.T) {
	f, _ := New(
		series.Strings("name", "a", "b", "c", "d"),
		series.Floats("score", 1, 2, 3, 4),
	)

	desc, err := f.Describe()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if desc.HasColumn("name") {
		t.Error("Describe should skip non-numeric columns")
	}

	mean, err := desc.At("mean", "score")
	if err != nil || mean != 2.5 {
		t.Errorf("Expected mean 2.5, got %v (%v)", mean, err)
	}
	count, _ := desc.At("count", "score")
	if count != 4.0 {
		t.Errorf("Expected count 4, got %v", count)
	}
	q, _ := desc.At("50%", "score")
	if q != 2.5 {
		t.Errorf("Expected median 2.5, got %v", q)
	}

	onlyText, _ := New(series.Strings("s", "x"))
	if _, err := onlyText.Describe(); !errors.Is(err, core.ErrNotNumeric) {
		t.Errorf("Expected ErrNotNumeric, got %v", err)
	}
}

// TestInfoReportsStructure tests column metadata
func TestInfoReportsStructure(t *testing.T) {
	score := series.Floats("score", 1, math.NaN(), 1)
	f, _ := New(score)

	info := f.Info()
	if len(info) != 1 {
		t.Fatalf("Expected 1 column info, got %d", len(info))
	}
	if info[0].NonNull != 2 || info[0].Missing != 1 || info[0].Distinct != 1 {
		t.Errorf("Unexpected info: %+v", info[0])
	}
}

// TestCorrPairwise tests the correlation matrix
func TestCorrPairwise(t *testing.T) {
	f, _ := New(
		series.Floats("x", 1, 2, 3, 4),
		series.Floats("y", 2, 4, 6, 8),
		series.Floats("z", 4, 3, 2, 1),
	)

	corr, err := f.Corr()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	xy, _ := corr.At("x", "y")
	if math.Abs(xy.(float64)-1.0) > 1e-9 {
		t.Errorf("Expected corr(x,y)=1, got %v", xy)
	}
	xz, _ := corr.At("x", "z")
	if math.Abs(xz.(float64)+1.0) > 1e-9 {
		t.Errorf("Expected corr(x,z)=-1, got %v", xz)
	}
	xx, _ := corr.At("x", "x")
	if math.Abs(xx.(float64)-1.0) > 1e-9 {
		t.Errorf("Expected corr(x,x)=1, got %v", xx)
	}

	single, _ := New(series.Floats("only", 1, 2))
	if _, err := single.Corr(); !errors.Is(err, core.ErrInsufficientData) {
		t.Errorf("Expected ErrInsufficientData, got %v", err)
	}
}

// TestDropNAModes tests any vs all dropping with subsets
func TestDropNAModes(t *testing.T) {
	a, _ := series.FromValues("a", []any{1.0, nil, nil})
	b, _ := series.FromValues("b", []any{2.0, 5.0, nil})
	f, _ := New(a, b)

	anyDropped, err := f.DropNA(DropAny)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if anyDropped.NRows() != 1 {
		t.Errorf("DropAny should keep 1 row, got %d", anyDropped.NRows())
	}

	allDropped, err := f.DropNA(DropAll)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if allDropped.NRows() != 2 {
		t.Errorf("DropAll should keep 2 rows, got %d", allDropped.NRows())
	}

	subset, err := f.DropNA(DropAny, "b")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if subset.NRows() != 2 {
		t.Errorf("Subset drop should keep 2 rows, got %d", subset.NRows())
	}
}

// TestFillNAPerColumn tests targeted filling
func TestFillNAPerColumn(t *testing.T) {
	a, _ := series.FromValues("a", []any{1.0, nil})
	f, _ := New(a)

	filled, err := f.FillNA(map[string]any{"a": 0.0})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	col, _ := filled.Column("a")
	if col.HasNA() {
		t.Error("FillNA should clear missing cells")
	}

	if _, err := f.FillNA(map[string]any{"zzz": 1}); !errors.Is(err, core.ErrColumnNotFound) {
		t.Errorf("Expected ErrColumnNotFound, got %v", err)
	}
}

// TestIsNAFrameShape tests the missing-cell mask
func TestIsNAFrameShape(t *testing.T) {
	a, _ := series.FromValues("a", []any{1.0, nil})
	f, _ := New(a)

	mask := f.IsNAFrame()
	col, _ := mask.Column("a")
	if col.Kind() != series.Bool {
		t.Fatalf("Expected bool mask, got %s", col.Kind())
	}
	v, _ := col.At(1)
	if v != true {
		t.Error("Missing cell should be marked true")
	}
}

// TestApplyRow tests row-wise derivation
func TestApplyRow(t *testing.T) {
	f, _ := New(
		series.Floats("x", 1, 2),
		series.Floats("y", 10, 20),
	)

	total, err := f.ApplyRow("total", func(r Row) any {
		x, _ := r.Value("x")
		y, _ := r.Value("y")
		return x.(float64) + y.(float64)
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if v, _ := total.At(1); v != 22.0 {
		t.Errorf("Expected 22, got %v", v)
	}
}
