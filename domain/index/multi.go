package index

import (
	"fmt"
	"strings"

	"tabular/domain/core"
)

// tupleSep joins level values into a composite lookup key. The unit separator
// keeps ordinary label text from colliding with tuple boundaries.
const tupleSep = "\x1f"

// MultiIndex holds hierarchical row labels: every row is a tuple with one
// value per named level.
type MultiIndex struct {
	names  []string
	levels [][]string // levels[l][row]

	full map[string][]int // built lazily, full-tuple lookup
}

// NewMulti builds a multi-level index. Every level must carry the same number
// of rows and at least two levels are required.
func NewMulti(names []string, levels [][]string) (*MultiIndex, error) {
	if len(names) < 2 {
		return nil, fmt.Errorf("%w: multi-index needs at least 2 levels, got %d", core.ErrLevelNotFound, len(names))
	}
	if len(names) != len(levels) {
		return nil, core.NewLengthMismatchError(len(names), len(levels))
	}
	n := len(levels[0])
	for i, lv := range levels {
		if len(lv) != n {
			return nil, fmt.Errorf("level %q: %w", names[i], core.NewLengthMismatchError(n, len(lv)))
		}
	}
	copied := make([][]string, len(levels))
	for i, lv := range levels {
		copied[i] = append([]string(nil), lv...)
	}
	return &MultiIndex{names: append([]string(nil), names...), levels: copied}, nil
}

// Names returns the level names outermost first
func (mi *MultiIndex) Names() []string {
	return append([]string(nil), mi.names...)
}

// Depth returns the number of levels
func (mi *MultiIndex) Depth() int { return len(mi.names) }

// Len returns the number of rows
func (mi *MultiIndex) Len() int { return len(mi.levels[0]) }

// Tuple returns the label tuple at row i, outermost level first
func (mi *MultiIndex) Tuple(i int) ([]string, error) {
	if i < 0 || i >= mi.Len() {
		return nil, core.NewOutOfBoundsError(i, mi.Len())
	}
	out := make([]string, mi.Depth())
	for l := range mi.levels {
		out[l] = mi.levels[l][i]
	}
	return out, nil
}

// Level returns the values of the named level
func (mi *MultiIndex) Level(name string) ([]string, error) {
	for l, n := range mi.names {
		if n == name {
			return append([]string(nil), mi.levels[l]...), nil
		}
	}
	return nil, fmt.Errorf("%w: %q", core.ErrLevelNotFound, name)
}

func (mi *MultiIndex) ensureFull() {
	if mi.full != nil {
		return
	}
	mi.full = make(map[string][]int, mi.Len())
	for i := 0; i < mi.Len(); i++ {
		tuple, _ := mi.Tuple(i)
		key := strings.Join(tuple, tupleSep)
		mi.full[key] = append(mi.full[key], i)
	}
}

// Lookup returns the positions matching the tuple. A partial tuple matches on
// the outermost levels, the hierarchical slice a partial key selects.
func (mi *MultiIndex) Lookup(tuple ...string) ([]int, bool) {
	if len(tuple) == 0 || len(tuple) > mi.Depth() {
		return nil, false
	}
	if len(tuple) == mi.Depth() {
		mi.ensureFull()
		pos, ok := mi.full[strings.Join(tuple, tupleSep)]
		return pos, ok
	}
	var out []int
	for i := 0; i < mi.Len(); i++ {
		match := true
		for l, want := range tuple {
			if mi.levels[l][i] != want {
				match = false
				break
			}
		}
		if match {
			out = append(out, i)
		}
	}
	return out, len(out) > 0
}

// SwapLevel exchanges two named levels
func (mi *MultiIndex) SwapLevel(a, b string) (*MultiIndex, error) {
	ai, bi := -1, -1
	for l, n := range mi.names {
		if n == a {
			ai = l
		}
		if n == b {
			bi = l
		}
	}
	if ai == -1 {
		return nil, fmt.Errorf("%w: %q", core.ErrLevelNotFound, a)
	}
	if bi == -1 {
		return nil, fmt.Errorf("%w: %q", core.ErrLevelNotFound, b)
	}

	names := mi.Names()
	names[ai], names[bi] = names[bi], names[ai]
	levels := make([][]string, len(mi.levels))
	for l := range mi.levels {
		levels[l] = append([]string(nil), mi.levels[l]...)
	}
	levels[ai], levels[bi] = levels[bi], levels[ai]
	return &MultiIndex{names: names, levels: levels}, nil
}

// Take reorders rows by position; -1 yields empty tuple slots
func (mi *MultiIndex) Take(positions []int) (*MultiIndex, error) {
	levels := make([][]string, mi.Depth())
	for l := range levels {
		levels[l] = make([]string, len(positions))
	}
	for i, p := range positions {
		if p == -1 {
			continue
		}
		if p < 0 || p >= mi.Len() {
			return nil, core.NewOutOfBoundsError(p, mi.Len())
		}
		for l := range levels {
			levels[l][i] = mi.levels[l][p]
		}
	}
	return &MultiIndex{names: mi.Names(), levels: levels}, nil
}

// Flatten collapses every tuple into a single label, joining level values
// with the separator used for display.
func (mi *MultiIndex) Flatten(sep string) *Index {
	labels := make([]string, mi.Len())
	for i := range labels {
		tuple, _ := mi.Tuple(i)
		labels[i] = strings.Join(tuple, sep)
	}
	return New(strings.Join(mi.names, sep), labels)
}
