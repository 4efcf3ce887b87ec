package frame

import (
	"fmt"
	"strings"

	"tabular/domain/core"
	"tabular/domain/series"
)

// JoinHow selects the merge strategy
type JoinHow string

const (
	JoinInner JoinHow = "inner"
	JoinLeft  JoinHow = "left"
	JoinRight JoinHow = "right"
	JoinOuter JoinHow = "outer"
)

// MergeOptions configures a key-based merge of two frames
type MergeOptions struct {
	// On names key columns present in both frames. When empty, LeftOn and
	// RightOn pair up positionally.
	On      []string
	LeftOn  []string
	RightOn []string
	How     JoinHow
	// Suffixes disambiguate overlapping non-key columns, left then right.
	// Defaults to _x and _y.
	Suffixes [2]string
}

func (o *MergeOptions) normalize() error {
	switch o.How {
	case "":
		o.How = JoinInner
	case JoinInner, JoinLeft, JoinRight, JoinOuter:
	default:
		return fmt.Errorf("%w: %q", core.ErrUnknownJoinHow, o.How)
	}
	if len(o.On) > 0 {
		o.LeftOn = o.On
		o.RightOn = o.On
	}
	if len(o.LeftOn) == 0 || len(o.LeftOn) != len(o.RightOn) {
		return fmt.Errorf("%w: merge needs matching key lists", core.ErrMissingJoinKey)
	}
	if o.Suffixes[0] == "" && o.Suffixes[1] == "" {
		o.Suffixes = [2]string{"_x", "_y"}
	}
	return nil
}

// Merge joins two frames on key equality, the relational join expressed over
// frames. Rows with NA keys never match. Unmatched rows from the preserved
// side fill the other side's columns with NA.
func Merge(left, right *Frame, opts MergeOptions) (*Frame, error) {
	if err := opts.normalize(); err != nil {
		return nil, err
	}

	leftKeys := make([]*series.Series, len(opts.LeftOn))
	for i, k := range opts.LeftOn {
		s, err := left.Column(k)
		if err != nil {
			return nil, fmt.Errorf("left: %w", err)
		}
		leftKeys[i] = s
	}
	rightKeys := make([]*series.Series, len(opts.RightOn))
	for i, k := range opts.RightOn {
		s, err := right.Column(k)
		if err != nil {
			return nil, fmt.Errorf("right: %w", err)
		}
		rightKeys[i] = s
	}

	// hash the right side
	rightByKey := make(map[string][]int, right.NRows())
	for row := 0; row < right.NRows(); row++ {
		key, ok := compositeKey(rightKeys, row)
		if !ok {
			continue
		}
		rightByKey[key] = append(rightByKey[key], row)
	}

	var leftPos, rightPos []int
	matchedRight := make(map[int]bool)
	for row := 0; row < left.NRows(); row++ {
		key, ok := compositeKey(leftKeys, row)
		var matches []int
		if ok {
			matches = rightByKey[key]
		}
		if len(matches) == 0 {
			if opts.How == JoinLeft || opts.How == JoinOuter {
				leftPos = append(leftPos, row)
				rightPos = append(rightPos, -1)
			}
			continue
		}
		for _, r := range matches {
			leftPos = append(leftPos, row)
			rightPos = append(rightPos, r)
			matchedRight[r] = true
		}
	}
	if opts.How == JoinRight || opts.How == JoinOuter {
		for row := 0; row < right.NRows(); row++ {
			if !matchedRight[row] {
				leftPos = append(leftPos, -1)
				rightPos = append(rightPos, row)
			}
		}
	}

	return assembleMerge(left, right, opts, leftPos, rightPos)
}

// compositeKey builds the join key for a row; NA in any key column
// disqualifies the row.
func compositeKey(keys []*series.Series, row int) (string, bool) {
	parts := make([]string, len(keys))
	for i, s := range keys {
		if s.IsNA(row) {
			return "", false
		}
		parts[i] = s.KeyAt(row)
	}
	return strings.Join(parts, "\x1f"), true
}

// assembleMerge materializes the output columns from matched row pairs
func assembleMerge(left, right *Frame, opts MergeOptions, leftPos, rightPos []int) (*Frame, error) {
	isLeftKey := make(map[string]int) // left key column -> key slot
	for i, k := range opts.LeftOn {
		isLeftKey[k] = i
	}
	isRightKey := make(map[string]bool)
	for _, k := range opts.RightOn {
		isRightKey[k] = true
	}
	leftNames := make(map[string]bool)
	for _, name := range left.Columns() {
		leftNames[name] = true
	}

	var cols []*series.Series

	// key columns appear once; for outer joins right-only rows supply the
	// value the left side lacks
	for i, k := range opts.LeftOn {
		ls, _ := left.Column(k)
		rs, _ := right.Column(opts.RightOn[i])
		taken, err := ls.Take(leftPos)
		if err != nil {
			return nil, err
		}
		fromRight, err := rs.Take(rightPos)
		if err != nil {
			return nil, err
		}
		merged, err := coalesce(taken, fromRight)
		if err != nil {
			return nil, err
		}
		cols = append(cols, merged.Rename(k))
	}

	for _, name := range left.Columns() {
		if _, isKey := isLeftKey[name]; isKey {
			continue
		}
		s, _ := left.Column(name)
		taken, err := s.Take(leftPos)
		if err != nil {
			return nil, err
		}
		outName := name
		if right.HasColumn(name) && !isRightKey[name] {
			outName = name + opts.Suffixes[0]
		}
		cols = append(cols, taken.Rename(outName))
	}

	for _, name := range right.Columns() {
		if isRightKey[name] {
			continue
		}
		s, _ := right.Column(name)
		taken, err := s.Take(rightPos)
		if err != nil {
			return nil, err
		}
		outName := name
		if leftNames[name] {
			outName = name + opts.Suffixes[1]
		}
		cols = append(cols, taken.Rename(outName))
	}

	return New(cols...)
}

// coalesce fills a's NA elements from b
func coalesce(a, b *series.Series) (*series.Series, error) {
	vals := a.Values()
	other := b.Values()
	for i, v := range vals {
		if v == nil {
			vals[i] = other[i]
		}
	}
	return series.FromValues(a.Name(), vals)
}
