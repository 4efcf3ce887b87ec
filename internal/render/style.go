package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tabular/domain/frame"
)

var (
	colorCyan = lipgloss.Color("36")
	colorDim  = lipgloss.Color("240")
	colorGray = lipgloss.Color("245")

	styleHeader = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleIndex  = lipgloss.NewStyle().Foreground(colorGray)
	styleNA     = lipgloss.NewStyle().Foreground(colorDim)
	styleCell   = lipgloss.NewStyle()
)

// Styled renders a frame for the terminal: bold headers, dimmed index
// labels and NA cells. Column layout matches Text so the two line up
// in logs.
func Styled(f *frame.Frame, opts Options) string {
	g := buildGrid(f, opts)
	widths := g.widths()

	var b strings.Builder
	for i, h := range g.header {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(styleHeader.Render(pad(h, widths[i])))
	}
	b.WriteString("\n")

	for r, row := range g.rows {
		for i, cell := range row {
			if i > 0 {
				b.WriteString("  ")
			}
			padded := pad(cell, widths[i])
			switch {
			case r == g.elided:
				b.WriteString(styleNA.Render(padded))
			case i == 0:
				b.WriteString(styleIndex.Render(padded))
			case g.naCell[r][i]:
				b.WriteString(styleNA.Render(padded))
			default:
				b.WriteString(styleCell.Render(padded))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
