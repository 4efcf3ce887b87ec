package frame

import (
	"errors"
	"testing"

	"tabular/domain/core"
	"tabular/domain/series"
)

func sampleFrame(t *testing.T) *Frame {
	t.Helper()
	f, err := New(
		series.Strings("city", "oslo", "lima", "oslo", "quito"),
		series.Floats("temp", 2.5, 18.0, 4.0, 15.5),
		series.Ints("population", 700000, 11000000, 700000, 2000000),
	)
	if err != nil {
		t.Fatalf("Failed to build sample frame: %v", err)
	}
	return f
}

// TestNewValidatesShape tests constructor invariants
func TestNewValidatesShape(t *testing.T) {
	_, err := New(
		series.Floats("a", 1, 2),
		series.Floats("b", 1),
	)
	if !errors.Is(err, core.ErrLengthMismatch) {
		t.Errorf("Expected ErrLengthMismatch, got %v", err)
	}

	_, err = New(
		series.Floats("a", 1),
		series.Floats("a", 2),
	)
	if !errors.Is(err, core.ErrDuplicateColumn) {
		t.Errorf("Expected ErrDuplicateColumn, got %v", err)
	}

	if _, err = New(); !errors.Is(err, core.ErrEmptyFrame) {
		t.Errorf("Expected ErrEmptyFrame, got %v", err)
	}
}

// TestFromRecordsInference tests header+rows construction with kind inference
func TestFromRecordsInference(t *testing.T) {
	f, err := FromRecords([][]string{
		{"name", "age", "score", "active"},
		{"alice", "31", "9.5", "true"},
		{"bob", "", "7.25", "false"},
	}, "NA")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	types := f.Types()
	if types["name"] != series.String {
		t.Errorf("name should infer string, got %s", types["name"])
	}
	if types["age"] != series.Int {
		t.Errorf("age should infer int, got %s", types["age"])
	}
	if types["score"] != series.Float {
		t.Errorf("score should infer float, got %s", types["score"])
	}
	if types["active"] != series.Bool {
		t.Errorf("active should infer bool, got %s", types["active"])
	}

	age, _ := f.Column("age")
	if !age.IsNA(1) {
		t.Error("Empty cell should be NA")
	}
}

// TestFromMapsSortsColumns tests map-based construction
func TestFromMapsSortsColumns(t *testing.T) {
	f, err := FromMaps([]map[string]any{
		{"b": 1, "a": "x"},
		{"a": "y"},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	cols := f.Columns()
	if cols[0] != "a" || cols[1] != "b" {
		t.Errorf("Expected sorted columns, got %v", cols)
	}
	b, _ := f.Column("b")
	if !b.IsNA(1) {
		t.Error("Missing key should be NA")
	}
}

// TestSelectDropAndShape tests column projection
func TestSelectDropAndShape(t *testing.T) {
	f := sampleFrame(t)

	rows, cols := f.Shape()
	if rows != 4 || cols != 3 {
		t.Errorf("Expected 4x3, got %dx%d", rows, cols)
	}

	sel, err := f.Select("temp", "city")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := sel.Columns(); got[0] != "temp" || got[1] != "city" {
		t.Errorf("Select must preserve requested order, got %v", got)
	}

	dropped, err := f.Drop("population")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if dropped.HasColumn("population") {
		t.Error("Dropped column still present")
	}

	if _, err := f.Select("nope"); !errors.Is(err, core.ErrColumnNotFound) {
		t.Errorf("Expected ErrColumnNotFound, got %v", err)
	}
}

// TestHeadTailClampNegative verifies row windows tolerate out-of-range n
func TestHeadTailClampNegative(t *testing.T) {
	f := sampleFrame(t)

	if got := f.Head(-1); got == nil || got.NRows() != 0 {
		t.Errorf("Head(-1) should be an empty frame, got %v", got)
	}
	if got := f.Tail(-5); got == nil || got.NRows() != 0 {
		t.Errorf("Tail(-5) should be an empty frame, got %v", got)
	}
	if got := f.Head(-1); got != nil && got.NCols() != f.NCols() {
		t.Errorf("Head(-1) should keep the schema, got %d columns", got.NCols())
	}
	if got := f.Tail(99); got.NRows() != f.NRows() {
		t.Errorf("Tail beyond length should clamp, got %d rows", got.NRows())
	}
}

// TestWithColumnBroadcastAndReplace tests column assignment
func TestWithColumnBroadcastAndReplace(t *testing.T) {
	f := sampleFrame(t)

	// scalar broadcast
	tagged, err := f.WithColumn("country", "n/a")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	country, _ := tagged.Column("country")
	if country.Len() != 4 {
		t.Errorf("Broadcast length = %d", country.Len())
	}

	// derived column
	temp, _ := f.Column("temp")
	fahrenheit, err := temp.Mul(1.8)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	fahrenheit, _ = fahrenheit.Add(32.0)
	converted, err := f.WithColumn("temp_f", fahrenheit)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	v, _ := converted.At("0", "temp_f")
	if v != 2.5*1.8+32 {
		t.Errorf("Unexpected derived value %v", v)
	}

	// replacement keeps position
	replaced, _ := f.WithColumn("temp", series.Floats("x", 0, 0, 0, 0))
	if got := replaced.Columns()[1]; got != "temp" {
		t.Errorf("Replacement must keep column position, got %v", replaced.Columns())
	}

	// original frame untouched
	if f.HasColumn("country") {
		t.Error("WithColumn must not mutate the receiver")
	}
}

// TestLocILocAt tests label and positional selection
func TestLocILocAt(t *testing.T) {
	f := sampleFrame(t)
	indexed, err := f.SetIndex("city")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// duplicate label returns both rows
	oslo, err := indexed.Loc([]string{"oslo"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if oslo.NRows() != 2 {
		t.Errorf("Expected 2 oslo rows, got %d", oslo.NRows())
	}

	part, err := f.ILoc([]int{3, 0}, "temp")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	first, _ := part.Row(0)
	v, _ := first.Value("temp")
	if v != 15.5 {
		t.Errorf("Expected 15.5, got %v", v)
	}

	if _, err := f.ILoc([]int{99}); !errors.Is(err, core.ErrOutOfBounds) {
		t.Errorf("Expected ErrOutOfBounds, got %v", err)
	}

	// scalar access fails on ambiguous labels
	if _, err := indexed.At("oslo", "temp"); err == nil {
		t.Error("At on a duplicate label should fail")
	}
	v, err = indexed.At("quito", "temp")
	if err != nil || v != 15.5 {
		t.Errorf("Expected 15.5, got %v (%v)", v, err)
	}
}

// TestSetAndResetIndex tests index round-trip
func TestSetAndResetIndex(t *testing.T) {
	f := sampleFrame(t)

	indexed, _ := f.SetIndex("city")
	if indexed.HasColumn("city") {
		t.Error("SetIndex should move the column out of the body")
	}
	if indexed.Index().Name() != "city" {
		t.Errorf("Index name = %q", indexed.Index().Name())
	}

	restored, err := indexed.ResetIndex()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !restored.HasColumn("city") {
		t.Error("ResetIndex should restore the column")
	}
	if !restored.Index().IsRange() {
		t.Error("ResetIndex should restore the range index")
	}
}

// TestMultiIndexRoundTrip tests hierarchical index selection
func TestMultiIndexRoundTrip(t *testing.T) {
	f, _ := New(
		series.Strings("region", "north", "north", "south"),
		series.Strings("city", "oslo", "bergen", "lima"),
		series.Floats("temp", 2.5, 4.0, 18.0),
	)

	hier, err := f.SetMultiIndex("region", "city")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if hier.MultiIndex() == nil || hier.MultiIndex().Depth() != 2 {
		t.Fatal("Expected a two-level index")
	}

	north, err := hier.LocTuple([]string{"north"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if north.NRows() != 2 {
		t.Errorf("Partial tuple should select the hierarchical slice, got %d rows", north.NRows())
	}

	one, err := hier.LocTuple([]string{"north", "bergen"})
	if err != nil || one.NRows() != 1 {
		t.Errorf("Full tuple should select one row, got %d (%v)", one.NRows(), err)
	}

	flat, err := hier.ResetIndex()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !flat.HasColumn("region") || !flat.HasColumn("city") {
		t.Error("ResetIndex should restore both level columns")
	}
}

// TestFilterAndSort tests row filtering and multi-key sorting
func TestFilterAndSort(t *testing.T) {
	f := sampleFrame(t)

	temp, _ := f.Column("temp")
	mask, _ := temp.Gt(5.0)
	warm, err := f.Filter(mask)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if warm.NRows() != 2 {
		t.Errorf("Expected 2 warm rows, got %d", warm.NRows())
	}

	sorted, err := f.SortBy(SortKey{Column: "city"}, SortKey{Column: "temp", Descending: true})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	first, _ := sorted.Row(0)
	city, _ := first.Value("city")
	tv, _ := first.Value("temp")
	if city != "lima" {
		t.Errorf("Expected lima first, got %v", city)
	}
	// within the duplicated city the higher temp sorts first
	second, _ := sorted.Row(1)
	tv, _ = second.Value("temp")
	if tv != 4.0 {
		t.Errorf("Expected 4.0 for first oslo row, got %v", tv)
	}
}

// TestFingerprintDetectsChange tests order-sensitive hashing
func TestFingerprintDetectsChange(t *testing.T) {
	f := sampleFrame(t)
	g := sampleFrame(t)
	if f.Fingerprint() != g.Fingerprint() {
		t.Error("Identical frames must share a fingerprint")
	}
	h, _ := f.WithColumn("temp", series.Floats("temp", 0, 0, 0, 0))
	if f.Fingerprint() == h.Fingerprint() {
		t.Error("Changed cells must change the fingerprint")
	}
}
