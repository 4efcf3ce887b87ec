package parquet

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/xitongsys/parquet-go-source/buffer"
	writerfile "github.com/xitongsys/parquet-go-source/writerfile"
	"github.com/xitongsys/parquet-go/common"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"

	"tabular/domain/core"
	"tabular/domain/frame"
	"tabular/domain/series"
)

const rootName = "parquet_go_root"

// WriteParquet writes a frame as a snappy-compressed parquet file. Every
// column is OPTIONAL so missing cells survive the trip; times are stored as
// millisecond timestamps.
func WriteParquet(f *frame.Frame, w io.Writer) error {
	if f.NCols() == 0 {
		return core.ErrEmptyFrame
	}

	pfw := writerfile.NewWriterFile(w)
	pw, err := writer.NewJSONWriter(schemaJSON(f), pfw, 4)
	if err != nil {
		return fmt.Errorf("failed to open parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	names := f.Columns()
	kinds := f.Types()
	cols := make([]*series.Series, len(names))
	for i, name := range names {
		c, err := f.Column(name)
		if err != nil {
			return err
		}
		cols[i] = c
	}

	for i := 0; i < f.NRows(); i++ {
		row := make(map[string]any, len(names))
		for j, name := range names {
			v, err := cols[j].At(i)
			if err != nil {
				return err
			}
			if v != nil && kinds[name] == series.Time {
				v = v.(time.Time).UnixMilli()
			}
			row[name] = v
		}
		encoded, err := json.Marshal(row)
		if err != nil {
			_ = pw.WriteStop()
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
		if err := pw.Write(string(encoded)); err != nil {
			_ = pw.WriteStop()
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	return nil
}

// ReadParquet rebuilds a frame from parquet bytes written by WriteParquet or
// any file with a flat optional schema.
func ReadParquet(r io.Reader) (*frame.Frame, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet bytes: %w", err)
	}

	pf := buffer.NewBufferFileFromBytes(data)
	pr, err := reader.NewParquetReader(pf, nil, 4)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet reader: %w", err)
	}
	defer pr.ReadStop()

	num := int(pr.GetNumRows())
	root := pr.Footer.Schema[0].GetName()

	var cols []*series.Series
	for idx, el := range pr.Footer.Schema[1:] {
		if el.Type == nil {
			return nil, fmt.Errorf("column %q: nested parquet schemas are not supported", el.GetName())
		}
		// the reader renames footer schema elements to their Go-style
		// in-names; the original column name is kept in Infos as ExName
		name := el.GetName()
		if infos := pr.SchemaHandler.Infos; idx+1 < len(infos) {
			name = infos[idx+1].ExName
		}
		vals, _, dls, err := pr.ReadColumnByPath(common.ReformPathStr(root+"."+el.GetName()), int64(num))
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", el.GetName(), err)
		}

		cells := make([]any, len(dls))
		for i := range dls {
			if dls[i] == 0 || vals[i] == nil {
				continue
			}
			cells[i] = decodeValue(vals[i], el)
		}
		s, err := series.FromValues(name, cells)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", el.GetName(), err)
		}
		cols = append(cols, s)
	}
	return frame.New(cols...)
}

// schemaJSON builds the JSON schema string the parquet writer expects, one
// optional field per column.
func schemaJSON(f *frame.Frame) string {
	kinds := f.Types()
	fields := make([]map[string]string, 0, f.NCols())
	for _, name := range f.Columns() {
		fields = append(fields, map[string]string{
			"Tag": fmt.Sprintf("name=%s, type=%s, repetitiontype=OPTIONAL", name, fieldTag(kinds[name])),
		})
	}
	out := map[string]any{
		"Tag":    fmt.Sprintf("name=%s, repetitiontype=REQUIRED", rootName),
		"Fields": fields,
	}
	b, _ := json.Marshal(out)
	return string(b)
}

func fieldTag(kind series.Kind) string {
	switch kind {
	case series.Float:
		return "DOUBLE"
	case series.Int:
		return "INT64"
	case series.Bool:
		return "BOOLEAN"
	case series.Time:
		return "INT64, convertedtype=TIMESTAMP_MILLIS"
	default:
		return "BYTE_ARRAY, convertedtype=UTF8"
	}
}

// decodeValue maps a stored parquet value back onto a series cell
func decodeValue(v any, el *parquet.SchemaElement) any {
	if el.ConvertedType != nil && *el.ConvertedType == parquet.ConvertedType_TIMESTAMP_MILLIS {
		if ms, ok := v.(int64); ok {
			return time.UnixMilli(ms).UTC()
		}
	}
	switch t := v.(type) {
	case string, int64, float64, bool:
		return t
	case int32:
		return int64(t)
	case float32:
		return float64(t)
	case []byte:
		return string(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
