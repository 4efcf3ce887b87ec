package series

import (
	"fmt"
	"strings"

	"tabular/domain/core"
)

// StringOps exposes vectorized text operations on a string series, the
// accessor equivalent of per-element strings package calls.
type StringOps struct {
	s   *Series
	err error
}

// Str returns the string accessor. Methods on the accessor fail when the
// series is not of String kind.
func (s *Series) Str() StringOps {
	if s.kind != String {
		return StringOps{err: fmt.Errorf("%w: series %q is %s", core.ErrNotString, s.name, s.kind)}
	}
	return StringOps{s: s}
}

// mapString transforms every valid element
func (o StringOps) mapString(fn func(string) string) (*Series, error) {
	if o.err != nil {
		return nil, o.err
	}
	out := o.s.Copy()
	for i := range out.strs {
		if out.valid[i] {
			out.strs[i] = fn(out.strs[i])
		}
	}
	return out, nil
}

// mapBool projects every valid element to a boolean mask. NA elements are false.
func (o StringOps) mapBool(fn func(string) bool) (*Series, error) {
	if o.err != nil {
		return nil, o.err
	}
	out := make([]bool, o.s.Len())
	for i := range out {
		out[i] = o.s.valid[i] && fn(o.s.strs[i])
	}
	return Bools(o.s.name, out...), nil
}

// Lower lowercases every element
func (o StringOps) Lower() (*Series, error) {
	return o.mapString(strings.ToLower)
}

// Upper uppercases every element
func (o StringOps) Upper() (*Series, error) {
	return o.mapString(strings.ToUpper)
}

// Trim strips leading and trailing whitespace
func (o StringOps) Trim() (*Series, error) {
	return o.mapString(strings.TrimSpace)
}

// Title uppercases the first letter of every word
func (o StringOps) Title() (*Series, error) {
	return o.mapString(func(v string) string {
		words := strings.Fields(v)
		for i, w := range words {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
		return strings.Join(words, " ")
	})
}

// Replace substitutes all occurrences of old with new
func (o StringOps) Replace(old, new string) (*Series, error) {
	return o.mapString(func(v string) string { return strings.ReplaceAll(v, old, new) })
}

// Pad left-pads every element with spaces to the given width
func (o StringOps) Pad(width int) (*Series, error) {
	return o.mapString(func(v string) string {
		if len(v) >= width {
			return v
		}
		return strings.Repeat(" ", width-len(v)) + v
	})
}

// Contains returns the mask of elements containing substr
func (o StringOps) Contains(substr string) (*Series, error) {
	return o.mapBool(func(v string) bool { return strings.Contains(v, substr) })
}

// HasPrefix returns the mask of elements starting with prefix
func (o StringOps) HasPrefix(prefix string) (*Series, error) {
	return o.mapBool(func(v string) bool { return strings.HasPrefix(v, prefix) })
}

// HasSuffix returns the mask of elements ending with suffix
func (o StringOps) HasSuffix(suffix string) (*Series, error) {
	return o.mapBool(func(v string) bool { return strings.HasSuffix(v, suffix) })
}

// Len returns per-element rune counts as an int series. NA stays NA.
func (o StringOps) Len() (*Series, error) {
	if o.err != nil {
		return nil, o.err
	}
	out := empty(o.s.name, Int, o.s.Len())
	for i := range out.valid {
		if o.s.valid[i] {
			out.ints[i] = int64(len([]rune(o.s.strs[i])))
			out.valid[i] = true
		}
	}
	return out, nil
}

// SplitCount returns the number of sep-separated fields per element
func (o StringOps) SplitCount(sep string) (*Series, error) {
	if o.err != nil {
		return nil, o.err
	}
	out := empty(o.s.name, Int, o.s.Len())
	for i := range out.valid {
		if o.s.valid[i] {
			out.ints[i] = int64(len(strings.Split(o.s.strs[i], sep)))
			out.valid[i] = true
		}
	}
	return out, nil
}
