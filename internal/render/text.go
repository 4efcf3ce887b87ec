package render

import (
	"strings"

	"tabular/domain/frame"
	"tabular/domain/series"
)

// Options control truncation when a frame is rendered for a terminal.
type Options struct {
	MaxRows  int // rows shown before eliding the middle with "..."
	MaxWidth int // max cell width, longer cells are cut with an ellipsis
}

func DefaultOptions() Options {
	return Options{MaxRows: 20, MaxWidth: 40}
}

const ellipsisRow = "..."

// grid materializes the visible cells of a frame: header row, index
// column, elided middle. All later renderers build on it.
type grid struct {
	header []string
	rows   [][]string
	naCell [][]bool // parallel to rows, headers excluded
	elided int      // row position of the "..." marker, -1 when none
}

func buildGrid(f *frame.Frame, opts Options) grid {
	if opts.MaxRows <= 0 {
		opts.MaxRows = DefaultOptions().MaxRows
	}
	if opts.MaxWidth <= 0 {
		opts.MaxWidth = DefaultOptions().MaxWidth
	}

	names := f.Columns()
	header := make([]string, 0, len(names)+1)
	header = append(header, f.Index().Name())
	header = append(header, names...)

	nRows := f.NRows()
	positions := make([]int, 0, nRows)
	elided := -1
	if nRows > opts.MaxRows {
		top := (opts.MaxRows + 1) / 2
		bottom := opts.MaxRows - top
		for i := 0; i < top; i++ {
			positions = append(positions, i)
		}
		elided = len(positions)
		positions = append(positions, -1)
		for i := nRows - bottom; i < nRows; i++ {
			positions = append(positions, i)
		}
	} else {
		for i := 0; i < nRows; i++ {
			positions = append(positions, i)
		}
	}

	cols := make([]*series.Series, len(names))
	for j, name := range names {
		cols[j], _ = f.Column(name)
	}

	g := grid{header: header, elided: elided}
	for _, pos := range positions {
		row := make([]string, len(header))
		na := make([]bool, len(header))
		if pos < 0 {
			for j := range row {
				row[j] = ellipsisRow
			}
			g.rows = append(g.rows, row)
			g.naCell = append(g.naCell, na)
			continue
		}
		label, _ := f.Index().Label(pos)
		row[0] = clip(label, opts.MaxWidth)
		for j, col := range cols {
			if col.IsNA(pos) {
				row[j+1] = "NA"
				na[j+1] = true
				continue
			}
			row[j+1] = clip(col.FormatAt(pos), opts.MaxWidth)
		}
		g.rows = append(g.rows, row)
		g.naCell = append(g.naCell, na)
	}
	return g
}

func (g grid) widths() []int {
	w := make([]int, len(g.header))
	for i, h := range g.header {
		w[i] = len([]rune(h))
	}
	for _, row := range g.rows {
		for i, cell := range row {
			if n := len([]rune(cell)); n > w[i] {
				w[i] = n
			}
		}
	}
	return w
}

func clip(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

// Text renders a frame as an aligned plain-text grid. The index column
// comes first, long frames are elided in the middle and NA cells print
// as "NA".
func Text(f *frame.Frame, opts Options) string {
	g := buildGrid(f, opts)
	widths := g.widths()

	var b strings.Builder
	writeRow := func(cells []string) {
		for i, cell := range cells {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(pad(cell, widths[i]))
		}
		b.WriteString("\n")
	}
	writeRow(g.header)
	for _, row := range g.rows {
		writeRow(row)
	}
	return b.String()
}

func pad(s string, width int) string {
	n := width - len([]rune(s))
	if n <= 0 {
		return s
	}
	return s + strings.Repeat(" ", n)
}
