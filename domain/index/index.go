// Package index implements row-label lookup for frames: a flat label index
// with a default positional range form, and a hierarchical multi-level index.
package index

import (
	"fmt"
	"strconv"

	"tabular/domain/core"
)

// Index holds ordered row labels. Duplicate labels are allowed; label lookup
// returns every matching position.
type Index struct {
	name    string
	labels  []string
	isRange bool // default stringified-position index

	positions map[string][]int // built lazily
}

// NewRange builds the default positional index "0".."n-1"
func NewRange(n int) *Index {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = strconv.Itoa(i)
	}
	return &Index{labels: labels, isRange: true}
}

// New builds a labeled index
func New(name string, labels []string) *Index {
	return &Index{name: name, labels: append([]string(nil), labels...)}
}

// Name returns the index name, empty for the default range index
func (ix *Index) Name() string { return ix.name }

// Len returns the number of labels
func (ix *Index) Len() int { return len(ix.labels) }

// IsRange reports whether this is the default positional index
func (ix *Index) IsRange() bool { return ix.isRange }

// Labels returns the labels in order
func (ix *Index) Labels() []string {
	return append([]string(nil), ix.labels...)
}

// Label returns the label at position i
func (ix *Index) Label(i int) (string, error) {
	if i < 0 || i >= len(ix.labels) {
		return "", core.NewOutOfBoundsError(i, len(ix.labels))
	}
	return ix.labels[i], nil
}

func (ix *Index) ensurePositions() {
	if ix.positions != nil {
		return
	}
	ix.positions = make(map[string][]int, len(ix.labels))
	for i, l := range ix.labels {
		ix.positions[l] = append(ix.positions[l], i)
	}
}

// Lookup returns every position carrying the label
func (ix *Index) Lookup(label string) ([]int, bool) {
	ix.ensurePositions()
	pos, ok := ix.positions[label]
	return pos, ok
}

// Take reorders the index by position; -1 yields an empty label slot
func (ix *Index) Take(positions []int) (*Index, error) {
	labels := make([]string, len(positions))
	for i, p := range positions {
		if p == -1 {
			continue
		}
		if p < 0 || p >= len(ix.labels) {
			return nil, core.NewOutOfBoundsError(p, len(ix.labels))
		}
		labels[i] = ix.labels[p]
	}
	out := &Index{name: ix.name, labels: labels}
	if ix.isRange {
		// taking from a range index breaks the positional property
		out.isRange = false
	}
	return out, nil
}

// Append concatenates two indexes
func (ix *Index) Append(other *Index) *Index {
	labels := append(ix.Labels(), other.Labels()...)
	return &Index{name: ix.name, labels: labels}
}

// Reindex maps target labels onto current positions; labels absent from the
// index map to -1 so the caller can materialize NA rows.
func (ix *Index) Reindex(labels []string) []int {
	ix.ensurePositions()
	out := make([]int, len(labels))
	used := make(map[string]int)
	for i, l := range labels {
		positions, ok := ix.positions[l]
		if !ok {
			out[i] = -1
			continue
		}
		// duplicate target labels walk through duplicate source positions
		n := used[l]
		if n >= len(positions) {
			n = len(positions) - 1
		}
		out[i] = positions[n]
		used[l]++
	}
	return out
}

// String renders a short description
func (ix *Index) String() string {
	if ix.isRange {
		return fmt.Sprintf("RangeIndex(%d)", len(ix.labels))
	}
	return fmt.Sprintf("Index(%q, %d labels)", ix.name, len(ix.labels))
}
