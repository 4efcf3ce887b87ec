package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tabular/adapters/excel"
	"tabular/domain/frame"
	apperrors "tabular/internal/errors"
	"tabular/internal/render"
)

func newDescribeCmd() *cobra.Command {
	var (
		sheet  string
		hist   string
		bins   int
		report string
	)

	cmd := &cobra.Command{
		Use:   "describe <file>",
		Short: "Summarize the columns of a data file",
		Long: `Summarize a data file: per-column structure (kind, missing and
distinct counts, a sparkline for numeric columns) plus summary
statistics for the numeric columns. With --hist, additionally plot a
unicode histogram of one column; with --report, write the summary as a
standalone HTML page.`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			out := c.OutOrStdout()

			f, err := readFrame(c.Context(), args[0], excel.ReadOptions{Sheet: sheet})
			if err != nil {
				return err
			}

			nRows, nCols := f.Shape()
			fmt.Fprintf(out, "%s: %d rows × %d columns\n\n", args[0], nRows, nCols)
			for _, info := range f.Info() {
				fmt.Fprintf(out, "  %-20s %-8s non-null %-6d missing %-6d distinct %-6d %s\n",
					info.Name, info.Kind, info.NonNull, info.Missing, info.Distinct,
					columnSparkline(f, info.Name))
			}
			fmt.Fprintln(out)

			desc, err := f.Describe()
			if err != nil {
				loggerFromContext(c.Context()).Warnf("no numeric summary: %v", err)
				desc = nil
			} else {
				fmt.Fprint(out, render.Text(desc, render.DefaultOptions()))
			}

			if hist != "" {
				col, err := f.Column(hist)
				if err != nil {
					return err
				}
				chart, err := render.HistogramText(col, bins, 40)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "\n%s\n%s", hist, chart)
			}

			if report != "" {
				return writeReport(report, args[0], f, desc)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "worksheet name for Excel files")
	cmd.Flags().StringVar(&hist, "hist", "", "plot a histogram of the named column")
	cmd.Flags().IntVar(&bins, "bins", 10, "histogram bucket count")
	cmd.Flags().StringVar(&report, "report", "", "write the summary as an HTML report to this path")

	return cmd
}

// columnSparkline renders a one-line profile of a numeric column, empty for
// kinds a sparkline cannot show.
func columnSparkline(f *frame.Frame, name string) string {
	col, err := f.Column(name)
	if err != nil {
		return ""
	}
	line, err := render.Sparkline(col.Head(40))
	if err != nil {
		return ""
	}
	return line
}

// writeReport assembles the describe output as an HTML page.
func writeReport(path, source string, f *frame.Frame, desc *frame.Frame) error {
	nRows, nCols := f.Shape()
	r := render.NewReport(source, render.DefaultOptions()).
		AddText(fmt.Sprintf("%d rows × %d columns.", nRows, nCols))

	if desc != nil {
		r.AddHeading(2, "Summary statistics").AddFrame("", desc)
	}
	r.AddHeading(2, "Preview").AddFrame("", f.Head(10))

	page, err := r.HTML()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, page, 0o644); err != nil {
		return apperrors.IOError(path, err)
	}
	return nil
}
