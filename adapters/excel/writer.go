package excel

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"tabular/domain/frame"
	"tabular/domain/series"
)

// WriteOptions controls file output
type WriteOptions struct {
	Sheet     string // xlsx worksheet name, defaults to Sheet1
	Delimiter rune   // csv field separator, defaults to comma
	NoHeader  bool
}

// Writer writes frames to CSV and Excel files, picking the format from the
// extension. Missing cells come out empty.
type Writer struct {
	filePath string
	fileType string
	opts     WriteOptions
}

// NewWriter creates a frame writer for the given path
func NewWriter(filePath string, opts WriteOptions) *Writer {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &Writer{filePath: filePath, fileType: fileType, opts: opts}
}

// WriteFrame writes the frame body (not the index) to the file
func (w *Writer) WriteFrame(f *frame.Frame) error {
	switch w.fileType {
	case "csv":
		return w.writeCSV(f)
	case "xlsx":
		return w.writeExcel(f)
	default:
		return fmt.Errorf("unsupported file type: %s", w.fileType)
	}
}

func (w *Writer) writeCSV(f *frame.Frame) error {
	file, err := os.Create(w.filePath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if w.opts.Delimiter != 0 {
		writer.Comma = w.opts.Delimiter
	}

	if !w.opts.NoHeader {
		if err := writer.Write(f.Columns()); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	cols, err := bodyColumns(f)
	if err != nil {
		return err
	}
	record := make([]string, len(cols))
	for i := 0; i < f.NRows(); i++ {
		for j, col := range cols {
			record[j] = col.FormatAt(i)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV file: %w", err)
	}
	log.Printf("[Writer] CSV file written: %s (%d rows)", w.filePath, f.NRows())
	return nil
}

// writeExcel streams rows so large frames do not hold a full worksheet model
// in memory.
func (w *Writer) writeExcel(f *frame.Frame) error {
	sheet := w.opts.Sheet
	if sheet == "" {
		sheet = "Sheet1"
	}

	xf := excelize.NewFile()
	defer xf.Close()
	if sheet != "Sheet1" {
		if err := xf.SetSheetName("Sheet1", sheet); err != nil {
			return fmt.Errorf("failed to name sheet %q: %w", sheet, err)
		}
	}

	sw, err := xf.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("failed to open stream writer: %w", err)
	}

	rowNum := 1
	if !w.opts.NoHeader {
		header := make([]interface{}, f.NCols())
		for i, name := range f.Columns() {
			header[i] = name
		}
		cell, _ := excelize.CoordinatesToCellName(1, rowNum)
		if err := sw.SetRow(cell, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		rowNum++
	}

	cols, err := bodyColumns(f)
	if err != nil {
		return err
	}
	for i := 0; i < f.NRows(); i++ {
		row := make([]interface{}, len(cols))
		for j, col := range cols {
			v, err := col.At(i)
			if err != nil {
				return err
			}
			row[j] = v // nil renders as an empty cell
		}
		cell, _ := excelize.CoordinatesToCellName(1, rowNum)
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
		rowNum++
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush stream writer: %w", err)
	}
	if err := xf.SaveAs(w.filePath); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}
	log.Printf("[Writer] Excel file written: %s (%d rows)", w.filePath, f.NRows())
	return nil
}

func bodyColumns(f *frame.Frame) ([]*series.Series, error) {
	names := f.Columns()
	cols := make([]*series.Series, len(names))
	for i, name := range names {
		c, err := f.Column(name)
		if err != nil {
			return nil, err
		}
		cols[i] = c
	}
	return cols, nil
}
