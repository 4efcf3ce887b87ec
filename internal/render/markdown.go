package render

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	apperrors "tabular/internal/errors"

	"tabular/domain/frame"
)

// Markdown renders a frame as a GitHub-style pipe table.
func Markdown(f *frame.Frame, opts Options) string {
	g := buildGrid(f, opts)

	var b strings.Builder
	writeRow := func(cells []string) {
		b.WriteString("|")
		for _, cell := range cells {
			b.WriteString(" ")
			b.WriteString(escapePipes(cell))
			b.WriteString(" |")
		}
		b.WriteString("\n")
	}
	writeRow(g.header)
	b.WriteString("|")
	for range g.header {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for _, row := range g.rows {
		writeRow(row)
	}
	return b.String()
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

// Report accumulates markdown narrative and frame tables, and renders
// the whole document to HTML.
type Report struct {
	title string
	parts []string
	opts  Options
}

func NewReport(title string, opts Options) *Report {
	return &Report{title: title, opts: opts}
}

func (r *Report) AddHeading(level int, text string) *Report {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	r.parts = append(r.parts, strings.Repeat("#", level)+" "+text)
	return r
}

func (r *Report) AddText(text string) *Report {
	r.parts = append(r.parts, text)
	return r
}

func (r *Report) AddFrame(caption string, f *frame.Frame) *Report {
	var b strings.Builder
	if caption != "" {
		b.WriteString("**" + caption + "**\n\n")
	}
	b.WriteString(Markdown(f, r.opts))
	r.parts = append(r.parts, b.String())
	return r
}

// Markdown returns the assembled document source.
func (r *Report) Markdown() string {
	sections := make([]string, 0, len(r.parts)+1)
	if r.title != "" {
		sections = append(sections, "# "+r.title)
	}
	sections = append(sections, r.parts...)
	return strings.Join(sections, "\n\n") + "\n"
}

// HTML renders the report to a standalone HTML page.
func (r *Report) HTML() ([]byte, error) {
	src := r.Markdown()
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs | parser.Tables)
	doc := p.Parse([]byte(src))

	renderer := html.NewRenderer(html.RendererOptions{
		Title: r.title,
		Flags: html.CommonFlags | html.CompletePage,
	})
	out := markdown.Render(doc, renderer)
	if len(out) == 0 {
		return nil, apperrors.New(apperrors.CodeRenderError, fmt.Sprintf("report %q rendered empty", r.title))
	}
	return out, nil
}
