package series

import (
	"fmt"
	"math"
	"strings"
	"time"

	"tabular/domain/core"
)

// Kind identifies the element type of a series
type Kind string

const (
	Float  Kind = "float"
	Int    Kind = "int"
	Bool   Kind = "bool"
	String Kind = "string"
	Time   Kind = "time"
)

// Series is a one-dimensional labeled array with a single element kind and
// per-element validity. All operations return new series; a series is never
// mutated after construction.
type Series struct {
	name string
	kind Kind

	floats []float64
	ints   []int64
	bools  []bool
	strs   []string
	times  []time.Time

	// valid[i] == false marks element i as missing (NA)
	valid []bool
}

// Floats builds a float series. NaN values are stored as NA.
func Floats(name string, values ...float64) *Series {
	s := &Series{name: name, kind: Float, floats: append([]float64(nil), values...), valid: make([]bool, len(values))}
	for i, v := range values {
		s.valid[i] = !math.IsNaN(v)
	}
	return s
}

// Ints builds an int series with every element valid.
func Ints(name string, values ...int64) *Series {
	s := &Series{name: name, kind: Int, ints: append([]int64(nil), values...), valid: make([]bool, len(values))}
	for i := range s.valid {
		s.valid[i] = true
	}
	return s
}

// Bools builds a bool series with every element valid.
func Bools(name string, values ...bool) *Series {
	s := &Series{name: name, kind: Bool, bools: append([]bool(nil), values...), valid: make([]bool, len(values))}
	for i := range s.valid {
		s.valid[i] = true
	}
	return s
}

// Strings builds a string series with every element valid.
func Strings(name string, values ...string) *Series {
	s := &Series{name: name, kind: String, strs: append([]string(nil), values...), valid: make([]bool, len(values))}
	for i := range s.valid {
		s.valid[i] = true
	}
	return s
}

// Times builds a time series. Zero times are stored as NA.
func Times(name string, values ...time.Time) *Series {
	s := &Series{name: name, kind: Time, times: append([]time.Time(nil), values...), valid: make([]bool, len(values))}
	for i, v := range values {
		s.valid[i] = !v.IsZero()
	}
	return s
}

// FromValues builds a series from untyped values. The kind is taken from the
// first non-nil element; nil elements become NA. Mixed element types fail with
// core.ErrMixedTypes.
func FromValues(name string, values []any) (*Series, error) {
	kind := Kind("")
	for _, v := range values {
		if v == nil {
			continue
		}
		k, err := kindOf(v)
		if err != nil {
			return nil, err
		}
		if kind == "" {
			kind = k
			continue
		}
		// Int and float mix promotes to float.
		if kind != k {
			if (kind == Int && k == Float) || (kind == Float && k == Int) {
				kind = Float
				continue
			}
			return nil, fmt.Errorf("%w: %s and %s", core.ErrMixedTypes, kind, k)
		}
	}
	if kind == "" {
		kind = Float // all-NA defaults to float
	}

	s := empty(name, kind, len(values))
	for i, v := range values {
		if v == nil {
			continue
		}
		if err := s.set(i, v); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func kindOf(v any) (Kind, error) {
	switch v.(type) {
	case float64, float32:
		return Float, nil
	case int, int32, int64:
		return Int, nil
	case bool:
		return Bool, nil
	case string:
		return String, nil
	case time.Time:
		return Time, nil
	default:
		return "", fmt.Errorf("%w: unsupported value type %T", core.ErrMixedTypes, v)
	}
}

// empty builds an all-NA series of the given kind and length.
func empty(name string, kind Kind, length int) *Series {
	s := &Series{name: name, kind: kind, valid: make([]bool, length)}
	switch kind {
	case Float:
		s.floats = make([]float64, length)
		for i := range s.floats {
			s.floats[i] = math.NaN()
		}
	case Int:
		s.ints = make([]int64, length)
	case Bool:
		s.bools = make([]bool, length)
	case String:
		s.strs = make([]string, length)
	case Time:
		s.times = make([]time.Time, length)
	}
	return s
}

// Empty builds an all-NA series of the given kind and length.
func Empty(name string, kind Kind, length int) *Series {
	return empty(name, kind, length)
}

// set writes a value at position i, marking it valid. Internal use only,
// during construction before the series escapes.
func (s *Series) set(i int, v any) error {
	switch s.kind {
	case Float:
		switch n := v.(type) {
		case float64:
			if math.IsNaN(n) {
				return nil
			}
			s.floats[i] = n
		case float32:
			s.floats[i] = float64(n)
		case int:
			s.floats[i] = float64(n)
		case int32:
			s.floats[i] = float64(n)
		case int64:
			s.floats[i] = float64(n)
		default:
			return core.NewTypeMismatchError("set", string(Float), fmt.Sprintf("%T", v))
		}
	case Int:
		switch n := v.(type) {
		case int:
			s.ints[i] = int64(n)
		case int32:
			s.ints[i] = int64(n)
		case int64:
			s.ints[i] = n
		default:
			return core.NewTypeMismatchError("set", string(Int), fmt.Sprintf("%T", v))
		}
	case Bool:
		b, ok := v.(bool)
		if !ok {
			return core.NewTypeMismatchError("set", string(Bool), fmt.Sprintf("%T", v))
		}
		s.bools[i] = b
	case String:
		str, ok := v.(string)
		if !ok {
			return core.NewTypeMismatchError("set", string(String), fmt.Sprintf("%T", v))
		}
		s.strs[i] = str
	case Time:
		t, ok := v.(time.Time)
		if !ok {
			return core.NewTypeMismatchError("set", string(Time), fmt.Sprintf("%T", v))
		}
		if t.IsZero() {
			return nil
		}
		s.times[i] = t
	}
	s.valid[i] = true
	return nil
}

// Len returns the number of elements including NA
func (s *Series) Len() int { return len(s.valid) }

// Name returns the series name
func (s *Series) Name() string { return s.name }

// Kind returns the element kind
func (s *Series) Kind() Kind { return s.kind }

// Rename returns a copy of the series under a new name
func (s *Series) Rename(name string) *Series {
	out := s.Copy()
	out.name = name
	return out
}

// IsNA reports whether element i is missing. Out-of-range positions are
// reported as missing.
func (s *Series) IsNA(i int) bool {
	if i < 0 || i >= len(s.valid) {
		return true
	}
	return !s.valid[i]
}

// HasNA reports whether any element is missing
func (s *Series) HasNA() bool {
	for _, v := range s.valid {
		if !v {
			return true
		}
	}
	return false
}

// CountNA returns the number of missing elements
func (s *Series) CountNA() int {
	n := 0
	for _, v := range s.valid {
		if !v {
			n++
		}
	}
	return n
}

// MemoryUsage estimates the bytes held by the backing array and validity
// mask. String headers count as 16 bytes plus their contents.
func (s *Series) MemoryUsage() int {
	n := len(s.valid)
	switch s.kind {
	case Float, Int:
		n += s.Len() * 8
	case Bool:
		n += s.Len()
	case Time:
		n += s.Len() * 24
	case String:
		for _, v := range s.strs {
			n += 16 + len(v)
		}
	}
	return n
}

// At returns the element at position i, or nil when missing
func (s *Series) At(i int) (any, error) {
	if i < 0 || i >= s.Len() {
		return nil, core.NewOutOfBoundsError(i, s.Len())
	}
	if !s.valid[i] {
		return nil, nil
	}
	switch s.kind {
	case Float:
		return s.floats[i], nil
	case Int:
		return s.ints[i], nil
	case Bool:
		return s.bools[i], nil
	case String:
		return s.strs[i], nil
	case Time:
		return s.times[i], nil
	}
	return nil, fmt.Errorf("unknown series kind %q", s.kind)
}

// Values returns all elements as untyped values with nil for NA
func (s *Series) Values() []any {
	out := make([]any, s.Len())
	for i := range out {
		v, _ := s.At(i)
		out[i] = v
	}
	return out
}

// Float64s converts the series to float64 elements with NaN for NA.
// Bool maps to 0/1, time to unix seconds. String series fail with
// core.ErrNotNumeric.
func (s *Series) Float64s() ([]float64, error) {
	if s.kind == String {
		return nil, fmt.Errorf("%w: series %q is %s", core.ErrNotNumeric, s.name, s.kind)
	}
	out := make([]float64, s.Len())
	for i := range out {
		if !s.valid[i] {
			out[i] = math.NaN()
			continue
		}
		switch s.kind {
		case Float:
			out[i] = s.floats[i]
		case Int:
			out[i] = float64(s.ints[i])
		case Bool:
			if s.bools[i] {
				out[i] = 1
			}
		case Time:
			out[i] = float64(s.times[i].Unix())
		}
	}
	return out, nil
}

// validFloats returns the valid elements as float64, skipping NA
func (s *Series) validFloats() ([]float64, error) {
	all, err := s.Float64s()
	if err != nil {
		return nil, err
	}
	out := make([]float64, 0, len(all))
	for i, v := range all {
		if s.valid[i] {
			out = append(out, v)
		}
	}
	return out, nil
}

// Copy returns a deep copy
func (s *Series) Copy() *Series {
	out := &Series{name: s.name, kind: s.kind, valid: append([]bool(nil), s.valid...)}
	out.floats = append([]float64(nil), s.floats...)
	out.ints = append([]int64(nil), s.ints...)
	out.bools = append([]bool(nil), s.bools...)
	out.strs = append([]string(nil), s.strs...)
	out.times = append([]time.Time(nil), s.times...)
	return out
}

// Take returns a new series with the elements at the given positions, in
// order. Position -1 yields an NA element, matching reindex semantics.
func (s *Series) Take(positions []int) (*Series, error) {
	out := empty(s.name, s.kind, len(positions))
	for i, p := range positions {
		if p == -1 {
			continue
		}
		if p < 0 || p >= s.Len() {
			return nil, core.NewOutOfBoundsError(p, s.Len())
		}
		if !s.valid[p] {
			continue
		}
		v, _ := s.At(p)
		if err := out.set(i, v); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Slice returns elements in [lo, hi)
func (s *Series) Slice(lo, hi int) (*Series, error) {
	if lo < 0 || hi > s.Len() || lo > hi {
		return nil, core.NewOutOfBoundsError(lo, s.Len())
	}
	positions := make([]int, 0, hi-lo)
	for i := lo; i < hi; i++ {
		positions = append(positions, i)
	}
	return s.Take(positions)
}

// Head returns the first n elements (fewer when the series is shorter,
// empty for n <= 0)
func (s *Series) Head(n int) *Series {
	if n < 0 {
		n = 0
	}
	if n > s.Len() {
		n = s.Len()
	}
	out, _ := s.Slice(0, n)
	return out
}

// Tail returns the last n elements, empty for n <= 0
func (s *Series) Tail(n int) *Series {
	if n < 0 {
		n = 0
	}
	if n > s.Len() {
		n = s.Len()
	}
	out, _ := s.Slice(s.Len()-n, s.Len())
	return out
}

// Filter keeps the elements where the boolean mask is true. NA mask elements
// drop the row.
func (s *Series) Filter(mask *Series) (*Series, error) {
	if mask.Kind() != Bool {
		return nil, core.NewTypeMismatchError("Filter", string(Bool), string(mask.Kind()))
	}
	if mask.Len() != s.Len() {
		return nil, core.NewLengthMismatchError(s.Len(), mask.Len())
	}
	var positions []int
	for i := 0; i < mask.Len(); i++ {
		if mask.valid[i] && mask.bools[i] {
			positions = append(positions, i)
		}
	}
	return s.Take(positions)
}

// DropNA returns the series without its missing elements
func (s *Series) DropNA() *Series {
	var positions []int
	for i, v := range s.valid {
		if v {
			positions = append(positions, i)
		}
	}
	out, _ := s.Take(positions)
	return out
}

// FillNA replaces missing elements with the given value
func (s *Series) FillNA(value any) (*Series, error) {
	out := s.Copy()
	for i, v := range out.valid {
		if v {
			continue
		}
		if err := out.set(i, value); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Append returns a new series with other's elements after s's. Kinds must
// match, except that int appends onto float (and vice versa) promote to float.
func (s *Series) Append(other *Series) (*Series, error) {
	left, right := s, other
	if left.kind != right.kind {
		if (left.kind == Float && right.kind == Int) || (left.kind == Int && right.kind == Float) {
			var err error
			if left, err = left.asFloat(); err != nil {
				return nil, err
			}
			if right, err = right.asFloat(); err != nil {
				return nil, err
			}
		} else {
			return nil, core.NewTypeMismatchError("Append", string(left.kind), string(right.kind))
		}
	}
	// Build on left's kind directly: inferring from the values would
	// default an all-NA result to Float and leave the wrong backing.
	vals := append(left.Values(), right.Values()...)
	out := empty(s.name, left.kind, len(vals))
	for i, v := range vals {
		if v == nil {
			continue
		}
		if err := out.set(i, v); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Series) asFloat() (*Series, error) {
	if s.kind == Float {
		return s, nil
	}
	vals, err := s.Float64s()
	if err != nil {
		return nil, err
	}
	return Floats(s.name, vals...), nil
}

// Unique returns the distinct valid elements in first-appearance order
func (s *Series) Unique() *Series {
	seen := make(map[string]bool)
	var positions []int
	for i := 0; i < s.Len(); i++ {
		if !s.valid[i] {
			continue
		}
		key := s.keyAt(i)
		if !seen[key] {
			seen[key] = true
			positions = append(positions, i)
		}
	}
	out, _ := s.Take(positions)
	return out
}

// Nunique counts the distinct valid elements
func (s *Series) Nunique() int {
	return s.Unique().Len()
}

// ValueCount pairs a distinct element with its frequency
type ValueCount struct {
	Value any
	Count int
}

// ValueCounts returns frequencies of the valid elements, most frequent first.
// Ties break on first appearance.
func (s *Series) ValueCounts() []ValueCount {
	counts := make(map[string]int)
	order := make(map[string]int)
	value := make(map[string]any)
	next := 0
	for i := 0; i < s.Len(); i++ {
		if !s.valid[i] {
			continue
		}
		key := s.keyAt(i)
		if _, seen := counts[key]; !seen {
			order[key] = next
			next++
			v, _ := s.At(i)
			value[key] = v
		}
		counts[key]++
	}

	out := make([]ValueCount, 0, len(counts))
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	// most frequent first, then first appearance
	for range keys {
		best, found := "", false
		for _, k := range keys {
			if _, remaining := counts[k]; !remaining {
				continue
			}
			if !found || counts[k] > counts[best] || (counts[k] == counts[best] && order[k] < order[best]) {
				best, found = k, true
			}
		}
		out = append(out, ValueCount{Value: value[best], Count: counts[best]})
		delete(counts, best)
	}
	return out
}

// keyAt renders element i as a grouping key. NA elements share the key "\x00NA".
func (s *Series) keyAt(i int) string {
	if !s.valid[i] {
		return "\x00NA"
	}
	switch s.kind {
	case Float:
		return fmt.Sprintf("%g", s.floats[i])
	case Int:
		return fmt.Sprintf("%d", s.ints[i])
	case Bool:
		return fmt.Sprintf("%t", s.bools[i])
	case String:
		return s.strs[i]
	case Time:
		return s.times[i].UTC().Format(time.RFC3339Nano)
	}
	return ""
}

// KeyAt exposes the grouping key for element i. Frames use it to build
// composite group and join keys.
func (s *Series) KeyAt(i int) string { return s.keyAt(i) }

// FormatAt renders element i for display, with empty string for NA
func (s *Series) FormatAt(i int) string {
	if s.IsNA(i) {
		return ""
	}
	switch s.kind {
	case Float:
		return fmt.Sprintf("%g", s.floats[i])
	case Int:
		return fmt.Sprintf("%d", s.ints[i])
	case Bool:
		return fmt.Sprintf("%t", s.bools[i])
	case String:
		return s.strs[i]
	case Time:
		return s.times[i].Format("2006-01-02 15:04:05")
	}
	return ""
}

// Less orders elements i and j with NA sorting last
func (s *Series) Less(i, j int) bool {
	if !s.valid[i] {
		return false
	}
	if !s.valid[j] {
		return true
	}
	switch s.kind {
	case Float:
		return s.floats[i] < s.floats[j]
	case Int:
		return s.ints[i] < s.ints[j]
	case Bool:
		return !s.bools[i] && s.bools[j]
	case String:
		return s.strs[i] < s.strs[j]
	case Time:
		return s.times[i].Before(s.times[j])
	}
	return false
}

// Equal reports whether two series have the same name, kind, validity and
// elements
func (s *Series) Equal(other *Series) bool {
	if s.name != other.name || s.kind != other.kind || s.Len() != other.Len() {
		return false
	}
	for i := 0; i < s.Len(); i++ {
		if s.valid[i] != other.valid[i] {
			return false
		}
		if s.valid[i] && s.keyAt(i) != other.keyAt(i) {
			return false
		}
	}
	return true
}

// String renders a short preview for debugging
func (s *Series) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s <%s> [", s.name, s.kind)
	limit := s.Len()
	if limit > 8 {
		limit = 8
	}
	for i := 0; i < limit; i++ {
		if i > 0 {
			b.WriteString(" ")
		}
		if s.IsNA(i) {
			b.WriteString("NA")
		} else {
			b.WriteString(s.FormatAt(i))
		}
	}
	if s.Len() > limit {
		b.WriteString(" ...")
	}
	b.WriteString("]")
	return b.String()
}
