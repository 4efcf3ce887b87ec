package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tabular/adapters/excel"
	"tabular/adapters/parquet"
	"tabular/domain/frame"
	apperrors "tabular/internal/errors"
)

type fileFormat string

const (
	formatCSV     fileFormat = "csv"
	formatExcel   fileFormat = "xlsx"
	formatParquet fileFormat = "parquet"
)

func detectFormat(path string) (fileFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return formatCSV, nil
	case ".xlsx", ".xls":
		return formatExcel, nil
	case ".parquet":
		return formatParquet, nil
	default:
		return "", apperrors.InvalidInput(fmt.Sprintf("cannot infer format from %q, expected .csv, .xlsx or .parquet", path))
	}
}

// readFrame loads a frame from a local file, format chosen by extension.
func readFrame(ctx context.Context, path string, opts excel.ReadOptions) (*frame.Frame, error) {
	format, err := detectFormat(path)
	if err != nil {
		return nil, err
	}
	switch format {
	case formatParquet:
		fh, err := os.Open(path)
		if err != nil {
			return nil, apperrors.IOError(path, err)
		}
		defer fh.Close()
		return parquet.ReadParquet(fh)
	default:
		return excel.NewDataReader(path, opts).ReadFrame(ctx)
	}
}

// writeFrame stores a frame to a local file, format chosen by extension.
func writeFrame(path string, f *frame.Frame, opts excel.WriteOptions) error {
	format, err := detectFormat(path)
	if err != nil {
		return err
	}
	switch format {
	case formatParquet:
		fh, err := os.Create(path)
		if err != nil {
			return apperrors.IOError(path, err)
		}
		defer fh.Close()
		return parquet.WriteParquet(f, fh)
	default:
		return excel.NewWriter(path, opts).WriteFrame(f)
	}
}
