package frame

import (
	"errors"
	"testing"

	"tabular/domain/core"
	"tabular/domain/series"
)

func mergeFixtures(t *testing.T) (*Frame, *Frame) {
	t.Helper()
	left, err := New(
		series.Strings("id", "a", "b", "c"),
		series.Floats("score", 1, 2, 3),
	)
	if err != nil {
		t.Fatal(err)
	}
	right, err := New(
		series.Strings("id", "b", "c", "d"),
		series.Strings("grade", "B", "C", "D"),
	)
	if err != nil {
		t.Fatal(err)
	}
	return left, right
}

// TestMergeInner tests key intersection
func TestMergeInner(t *testing.T) {
	left, right := mergeFixtures(t)

	out, err := Merge(left, right, MergeOptions{On: []string{"id"}, How: JoinInner})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if out.NRows() != 2 {
		t.Fatalf("Expected 2 rows, got %d", out.NRows())
	}
	ids, _ := out.Column("id")
	if v, _ := ids.At(0); v != "b" {
		t.Errorf("Expected b first, got %v", v)
	}
	if !out.HasColumn("score") || !out.HasColumn("grade") {
		t.Errorf("Missing merged columns: %v", out.Columns())
	}
}

// TestMergeLeftFillsNA tests unmatched left rows
func TestMergeLeftFillsNA(t *testing.T) {
	left, right := mergeFixtures(t)

	out, err := Merge(left, right, MergeOptions{On: []string{"id"}, How: JoinLeft})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if out.NRows() != 3 {
		t.Fatalf("Expected 3 rows, got %d", out.NRows())
	}
	grade, _ := out.Column("grade")
	if !grade.IsNA(0) {
		t.Error("Unmatched left row should carry NA grade")
	}
}

// TestMergeOuterUnion tests full outer join
func TestMergeOuterUnion(t *testing.T) {
	left, right := mergeFixtures(t)

	out, err := Merge(left, right, MergeOptions{On: []string{"id"}, How: JoinOuter})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if out.NRows() != 4 {
		t.Fatalf("Expected 4 rows, got %d", out.NRows())
	}
	// right-only row carries its key
	ids, _ := out.Column("id")
	if v, _ := ids.At(3); v != "d" {
		t.Errorf("Expected d last, got %v", v)
	}
	score, _ := out.Column("score")
	if !score.IsNA(3) {
		t.Error("Right-only row should carry NA score")
	}
}

// TestMergeRight tests right join row multiset
func TestMergeRight(t *testing.T) {
	left, right := mergeFixtures(t)
	out, err := Merge(left, right, MergeOptions{On: []string{"id"}, How: JoinRight})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if out.NRows() != 3 {
		t.Fatalf("Expected 3 rows, got %d", out.NRows())
	}
}

// TestMergeSuffixesOverlap tests non-key column disambiguation
func TestMergeSuffixesOverlap(t *testing.T) {
	left, _ := New(
		series.Strings("id", "a"),
		series.Floats("value", 1),
	)
	right, _ := New(
		series.Strings("id", "a"),
		series.Floats("value", 2),
	)

	out, err := Merge(left, right, MergeOptions{On: []string{"id"}})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !out.HasColumn("value_x") || !out.HasColumn("value_y") {
		t.Errorf("Expected suffixed columns, got %v", out.Columns())
	}
}

// TestMergeNAKeysNeverMatch tests SQL NULL semantics for join keys
func TestMergeNAKeysNeverMatch(t *testing.T) {
	lid, _ := series.FromValues("id", []any{"a", nil})
	rid, _ := series.FromValues("id", []any{nil, "a"})
	left, _ := New(lid, series.Floats("x", 1, 2))
	right, _ := New(rid, series.Floats("y", 3, 4))

	out, err := Merge(left, right, MergeOptions{On: []string{"id"}, How: JoinInner})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if out.NRows() != 1 {
		t.Errorf("NA keys must not match: expected 1 row, got %d", out.NRows())
	}
}

// TestMergeDuplicateKeysMultiply tests one-to-many expansion
func TestMergeDuplicateKeysMultiply(t *testing.T) {
	left, _ := New(
		series.Strings("k", "a", "a"),
		series.Floats("x", 1, 2),
	)
	right, _ := New(
		series.Strings("k", "a", "a", "a"),
		series.Floats("y", 10, 20, 30),
	)

	out, err := Merge(left, right, MergeOptions{On: []string{"k"}})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if out.NRows() != 6 {
		t.Errorf("Expected cartesian 6 rows for duplicate keys, got %d", out.NRows())
	}
}

// TestMergeMissingKey tests option validation
func TestMergeMissingKey(t *testing.T) {
	left, right := mergeFixtures(t)
	if _, err := Merge(left, right, MergeOptions{}); !errors.Is(err, core.ErrMissingJoinKey) {
		t.Errorf("Expected ErrMissingJoinKey, got %v", err)
	}
	if _, err := Merge(left, right, MergeOptions{On: []string{"nope"}}); !errors.Is(err, core.ErrColumnNotFound) {
		t.Errorf("Expected ErrColumnNotFound, got %v", err)
	}
	if _, err := Merge(left, right, MergeOptions{On: []string{"id"}, How: "cross"}); !errors.Is(err, core.ErrUnknownJoinHow) {
		t.Errorf("Expected ErrUnknownJoinHow, got %v", err)
	}
}

// TestConcatRows tests row-wise concatenation with schema union
func TestConcatRows(t *testing.T) {
	a, _ := New(
		series.Strings("id", "a", "b"),
		series.Floats("x", 1, 2),
	)
	b, _ := New(
		series.Strings("id", "c"),
		series.Floats("y", 9),
	)

	out, err := Concat([]*Frame{a, b}, ConcatOptions{IgnoreIndex: true})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if out.NRows() != 3 {
		t.Fatalf("Expected 3 rows, got %d", out.NRows())
	}
	x, _ := out.Column("x")
	if !x.IsNA(2) {
		t.Error("Schema union should NA-fill missing columns")
	}
	y, _ := out.Column("y")
	if !y.IsNA(0) || !y.IsNA(1) {
		t.Error("Schema union should NA-fill missing columns")
	}
	if !out.Index().IsRange() {
		t.Error("IgnoreIndex should regenerate the range index")
	}
}

// TestConcatColumns tests column-wise concatenation
func TestConcatColumns(t *testing.T) {
	a, _ := New(series.Floats("x", 1, 2))
	b, _ := New(series.Floats("y", 3, 4))

	out, err := ConcatColumns(a, b)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if out.NCols() != 2 || out.NRows() != 2 {
		t.Errorf("Unexpected shape %v", out.Columns())
	}

	c, _ := New(series.Floats("z", 1))
	if _, err := ConcatColumns(a, c); !errors.Is(err, core.ErrLengthMismatch) {
		t.Errorf("Expected ErrLengthMismatch, got %v", err)
	}
}
