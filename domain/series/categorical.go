package series

import (
	"fmt"
	"math"
	"sort"

	"tabular/domain/core"
)

// Categorical is a dictionary-encoded string series: every element is a code
// into an ordered level table. Encoding a low-cardinality column this way
// trades per-element strings for one small table.
type Categorical struct {
	name   string
	codes  []int // -1 marks NA
	levels []string
}

// AsCategorical dictionary-encodes a string series. Levels are sorted
// lexically, matching the common default for unordered categories.
func AsCategorical(s *Series) (*Categorical, error) {
	if s.Kind() != String {
		return nil, fmt.Errorf("%w: series %q is %s", core.ErrNotString, s.name, s.kind)
	}

	seen := make(map[string]bool)
	for i := 0; i < s.Len(); i++ {
		if s.valid[i] {
			seen[s.strs[i]] = true
		}
	}
	levels := make([]string, 0, len(seen))
	for v := range seen {
		levels = append(levels, v)
	}
	sort.Strings(levels)

	lookup := make(map[string]int, len(levels))
	for i, v := range levels {
		lookup[v] = i
	}

	codes := make([]int, s.Len())
	for i := range codes {
		if s.valid[i] {
			codes[i] = lookup[s.strs[i]]
		} else {
			codes[i] = -1
		}
	}
	return &Categorical{name: s.name, codes: codes, levels: levels}, nil
}

// Name returns the categorical's name
func (c *Categorical) Name() string { return c.name }

// Len returns the number of elements including NA
func (c *Categorical) Len() int { return len(c.codes) }

// Levels returns the ordered level table
func (c *Categorical) Levels() []string {
	return append([]string(nil), c.levels...)
}

// Codes returns the per-element level codes, -1 for NA
func (c *Categorical) Codes() []int {
	return append([]int(nil), c.codes...)
}

// ReorderLevels reorders the level table, remapping codes. The new order must
// be a permutation of the existing levels.
func (c *Categorical) ReorderLevels(order []string) (*Categorical, error) {
	if len(order) != len(c.levels) {
		return nil, fmt.Errorf("%w: level reorder wants %d levels, got %d", core.ErrLevelNotFound, len(c.levels), len(order))
	}
	newCode := make(map[string]int, len(order))
	for i, v := range order {
		newCode[v] = i
	}
	remap := make([]int, len(c.levels))
	for oldCode, v := range c.levels {
		nc, ok := newCode[v]
		if !ok {
			return nil, fmt.Errorf("%w: %q not an existing level", core.ErrLevelNotFound, v)
		}
		remap[oldCode] = nc
	}

	codes := make([]int, len(c.codes))
	for i, code := range c.codes {
		if code == -1 {
			codes[i] = -1
		} else {
			codes[i] = remap[code]
		}
	}
	return &Categorical{name: c.name, codes: codes, levels: append([]string(nil), order...)}, nil
}

// Series decodes the categorical back into a string series
func (c *Categorical) Series() *Series {
	out := empty(c.name, String, len(c.codes))
	for i, code := range c.codes {
		if code >= 0 {
			out.strs[i] = c.levels[code]
			out.valid[i] = true
		}
	}
	return out
}

// Counts returns per-level frequencies in level order
func (c *Categorical) Counts() map[string]int {
	out := make(map[string]int, len(c.levels))
	for _, v := range c.levels {
		out[v] = 0
	}
	for _, code := range c.codes {
		if code >= 0 {
			out[c.levels[code]]++
		}
	}
	return out
}

// MemoryUsage estimates the bytes held by the encoding: the code slice plus
// the level table. Compare with Series.MemoryUsage on the decoded form to
// judge whether encoding pays off.
func (c *Categorical) MemoryUsage() int {
	n := len(c.codes) * 8
	for _, v := range c.levels {
		n += 16 + len(v)
	}
	return n
}

// Cut buckets a numeric series into labeled half-open intervals
// (bins[i], bins[i+1]]. Values outside the bins become NA. len(labels) must
// equal len(bins)-1.
func Cut(s *Series, bins []float64, labels []string) (*Categorical, error) {
	if len(bins) < 2 {
		return nil, fmt.Errorf("%w: Cut needs at least 2 bin edges", core.ErrInsufficientData)
	}
	if len(labels) != len(bins)-1 {
		return nil, core.NewLengthMismatchError(len(bins)-1, len(labels))
	}
	vals, err := s.Float64s()
	if err != nil {
		return nil, fmt.Errorf("Cut: %w", err)
	}

	codes := make([]int, s.Len())
	for i, v := range vals {
		codes[i] = -1
		if !s.valid[i] || math.IsNaN(v) {
			continue
		}
		for b := 0; b < len(bins)-1; b++ {
			if v > bins[b] && v <= bins[b+1] {
				codes[i] = b
				break
			}
		}
	}
	return &Categorical{name: s.name, codes: codes, levels: append([]string(nil), labels...)}, nil
}
