package cli

import (
	"github.com/spf13/cobra"

	"tabular/adapters/excel"
)

func newConvertCmd() *cobra.Command {
	var (
		sheet    string
		outSheet string
		noHeader bool
	)

	cmd := &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Convert a data file between CSV, Excel and Parquet",
		Long: `Convert between formats, inferred from the file extensions.

Examples:
  tabular convert sales.csv sales.parquet
  tabular convert report.xlsx report.csv --sheet Q3`,
		Args: cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			logger := loggerFromContext(c.Context())
			p := newProgress(logger)

			f, err := readFrame(c.Context(), args[0], excel.ReadOptions{Sheet: sheet, NoHeader: noHeader})
			if err != nil {
				return err
			}
			if err := writeFrame(args[1], f, excel.WriteOptions{Sheet: outSheet}); err != nil {
				return err
			}

			nRows, nCols := f.Shape()
			p.done("converted %s to %s, %d rows × %d columns", args[0], args[1], nRows, nCols)
			return nil
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "input worksheet name for Excel files")
	cmd.Flags().StringVar(&outSheet, "out-sheet", "", "output worksheet name for Excel files")
	cmd.Flags().BoolVar(&noHeader, "no-header", false, "treat the first input row as data")

	return cmd
}
