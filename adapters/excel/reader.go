package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"tabular/adapters/coerce"
	"tabular/domain/core"
	"tabular/domain/frame"
	"tabular/domain/series"
)

// ReadOptions controls how a file is parsed into a frame
type ReadOptions struct {
	Sheet     string                 // xlsx worksheet, defaults to the first sheet
	NoHeader  bool                   // synthesize col0, col1, ... names
	Delimiter rune                   // csv field separator, defaults to comma
	Overrides map[string]series.Kind // skip inference for these columns
	Coercion  *coerce.Config         // nil means coerce.DefaultConfig
}

// DataReader reads Excel and CSV files into typed frames
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	opts     ReadOptions
}

// NewDataReader creates a reader that handles both Excel and CSV files,
// picking the format from the extension.
func NewDataReader(filePath string, opts ReadOptions) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType, opts: opts}
}

// ReadFrame reads the file and coerces every column to its detected kind
func (r *DataReader) ReadFrame(ctx context.Context) (*frame.Frame, error) {
	header, rows, err := r.ReadRaw()
	if err != nil {
		return nil, err
	}

	cfg := coerce.DefaultConfig()
	if r.opts.Coercion != nil {
		cfg = *r.opts.Coercion
	}
	return coerce.New(cfg).CoerceTable(ctx, header, rows, r.opts.Overrides)
}

// ReadRaw reads the file into a header and string cells, leaving typing to
// the caller.
func (r *DataReader) ReadRaw() ([]string, [][]string, error) {
	log.Printf("[DataReader] Starting to read %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("%w: %s file %s", core.ErrNotFound, r.fileType, r.filePath)
	}

	var raw [][]string
	var err error
	switch r.fileType {
	case "csv":
		raw, err = r.readCSVRows()
	case "xlsx":
		raw, err = r.readExcelRows()
	default:
		err = fmt.Errorf("unsupported file type: %s", r.fileType)
	}
	if err != nil {
		return nil, nil, err
	}
	if len(raw) == 0 {
		return nil, nil, fmt.Errorf("%s file %s has no rows", r.fileType, r.filePath)
	}

	return r.splitHeader(raw)
}

func (r *DataReader) readExcelRows() ([][]string, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := r.opts.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %q in %s", core.ErrSheetNotFound, sheet, r.filePath)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	log.Printf("[DataReader] Sheet %q read in %.2fms (%d rows)", sheet,
		float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))
	return rows, nil
}

func (r *DataReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	if r.opts.Delimiter != 0 {
		reader.Comma = r.opts.Delimiter
	}
	reader.FieldsPerRecord = -1 // width checked against the header later

	startTime := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	log.Printf("[DataReader] CSV file read in %.2fms (%d rows)",
		float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))
	return rows, nil
}

// splitHeader separates the header from data rows and pads short rows so
// every row matches the header width.
func (r *DataReader) splitHeader(raw [][]string) ([]string, [][]string, error) {
	var header []string
	var body [][]string

	if r.opts.NoHeader {
		width := 0
		for _, row := range raw {
			if len(row) > width {
				width = len(row)
			}
		}
		header = make([]string, width)
		for i := range header {
			header[i] = fmt.Sprintf("col%d", i)
		}
		body = raw
	} else {
		header = make([]string, len(raw[0]))
		for i, h := range raw[0] {
			header[i] = strings.TrimSpace(h)
		}
		body = raw[1:]
	}

	rows := make([][]string, len(body))
	for i, row := range body {
		if len(row) > len(header) {
			return nil, nil, fmt.Errorf("row %d: %w", i+1, core.NewLengthMismatchError(len(header), len(row)))
		}
		padded := make([]string, len(header))
		for j, cell := range row {
			padded[j] = strings.TrimSpace(cell)
		}
		rows[i] = padded
	}

	log.Printf("[DataReader] %s file processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), len(header), len(rows))
	return header, rows, nil
}
