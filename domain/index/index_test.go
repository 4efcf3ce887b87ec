package index

import (
	"errors"
	"testing"

	"tabular/domain/core"
)

// TestRangeIndex tests the default positional index
func TestRangeIndex(t *testing.T) {
	ix := NewRange(3)
	if !ix.IsRange() {
		t.Error("NewRange should build a range index")
	}
	if got := ix.Labels(); got[0] != "0" || got[2] != "2" {
		t.Errorf("Unexpected labels: %v", got)
	}

	taken, err := ix.Take([]int{2, 0})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if taken.IsRange() {
		t.Error("Taking from a range index must drop the range property")
	}
}

// TestLookupWithDuplicates tests that duplicate labels return every position
func TestLookupWithDuplicates(t *testing.T) {
	ix := New("city", []string{"oslo", "lima", "oslo"})

	pos, ok := ix.Lookup("oslo")
	if !ok || len(pos) != 2 {
		t.Fatalf("Expected 2 positions for oslo, got %v", pos)
	}
	if pos[0] != 0 || pos[1] != 2 {
		t.Errorf("Unexpected positions: %v", pos)
	}

	if _, ok := ix.Lookup("quito"); ok {
		t.Error("Missing label should not be found")
	}
}

// TestReindexProducesHoles tests alignment with missing labels
func TestReindexProducesHoles(t *testing.T) {
	ix := New("k", []string{"a", "b", "c"})
	got := ix.Reindex([]string{"c", "x", "a"})
	want := []int{2, -1, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Position %d: expected %d, got %d", i, want[i], got[i])
		}
	}
}

// TestMultiIndexLookup tests full and partial tuple lookup
func TestMultiIndexLookup(t *testing.T) {
	mi, err := NewMulti(
		[]string{"region", "city"},
		[][]string{
			{"north", "north", "south"},
			{"oslo", "bergen", "lima"},
		},
	)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	pos, ok := mi.Lookup("north", "bergen")
	if !ok || len(pos) != 1 || pos[0] != 1 {
		t.Errorf("Full lookup failed: %v %v", pos, ok)
	}

	pos, ok = mi.Lookup("north")
	if !ok || len(pos) != 2 {
		t.Errorf("Partial lookup should match the outermost level: %v", pos)
	}

	if _, ok := mi.Lookup("east"); ok {
		t.Error("Missing outer label should not match")
	}
	if _, ok := mi.Lookup("a", "b", "c"); ok {
		t.Error("Tuple deeper than the index should not match")
	}
}

// TestMultiIndexValidation tests constructor level checks
func TestMultiIndexValidation(t *testing.T) {
	if _, err := NewMulti([]string{"only"}, [][]string{{"a"}}); err == nil {
		t.Error("Expected error for single-level multi-index")
	}
	_, err := NewMulti([]string{"a", "b"}, [][]string{{"x"}, {"y", "z"}})
	if !errors.Is(err, core.ErrLengthMismatch) {
		t.Errorf("Expected ErrLengthMismatch, got %v", err)
	}
}

// TestSwapLevel tests level exchange
func TestSwapLevel(t *testing.T) {
	mi, _ := NewMulti(
		[]string{"region", "city"},
		[][]string{{"north"}, {"oslo"}},
	)

	swapped, err := mi.SwapLevel("region", "city")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if names := swapped.Names(); names[0] != "city" || names[1] != "region" {
		t.Errorf("Unexpected names: %v", names)
	}
	tuple, _ := swapped.Tuple(0)
	if tuple[0] != "oslo" {
		t.Errorf("Level values must move with their names, got %v", tuple)
	}

	if _, err := mi.SwapLevel("region", "nope"); !errors.Is(err, core.ErrLevelNotFound) {
		t.Errorf("Expected ErrLevelNotFound, got %v", err)
	}
}

// TestFlatten tests collapsing tuples into single labels
func TestFlatten(t *testing.T) {
	mi, _ := NewMulti(
		[]string{"region", "city"},
		[][]string{{"north", "south"}, {"oslo", "lima"}},
	)
	flat := mi.Flatten("/")
	if got := flat.Labels(); got[0] != "north/oslo" || got[1] != "south/lima" {
		t.Errorf("Unexpected flattened labels: %v", got)
	}
}
