package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"tabular/adapters/excel"
	"tabular/internal/render"
)

func newHeadCmd() *cobra.Command {
	var (
		rows     int
		sheet    string
		noHeader bool
		plain    bool
	)

	cmd := &cobra.Command{
		Use:   "head <file>",
		Short: "Preview the first rows of a data file",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			logger := loggerFromContext(c.Context())

			f, err := readFrame(c.Context(), args[0], excel.ReadOptions{Sheet: sheet, NoHeader: noHeader})
			if err != nil {
				return err
			}
			nRows, nCols := f.Shape()
			logger.Debugf("loaded %s: %d rows, %d columns", args[0], nRows, nCols)

			shown := f.Head(rows)
			opts := render.DefaultOptions()
			opts.MaxRows = rows
			if plain {
				fmt.Fprint(c.OutOrStdout(), render.Text(shown, opts))
			} else {
				fmt.Fprint(c.OutOrStdout(), render.Styled(shown, opts))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&rows, "rows", "n", 10, "number of rows to show")
	cmd.Flags().StringVar(&sheet, "sheet", "", "worksheet name for Excel files")
	cmd.Flags().BoolVar(&noHeader, "no-header", false, "treat the first row as data")
	cmd.Flags().BoolVar(&plain, "plain", false, "disable terminal styling")

	return cmd
}
