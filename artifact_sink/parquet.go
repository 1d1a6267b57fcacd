package artifact_sink

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/turbot/tailpipe-sales-etl/schema"
	"github.com/turbot/tailpipe-sales-etl/table"
)

var pool = memory.NewGoAllocator()

// EncodeParquet serializes the table as a single row group, snappy compressed.
// The arrow schema is stored in the file metadata; no index column is written.
func EncodeParquet(t *table.Table) ([]byte, error) {
	arrowSchema, err := t.Schema.ToArrow()
	if err != nil {
		return nil, err
	}

	b := array.NewRecordBuilder(pool, arrowSchema)
	defer b.Release()

	for rowIdx, row := range t.Rows {
		for colIdx, v := range row {
			if err := appendValue(b.Field(colIdx), v); err != nil {
				return nil, fmt.Errorf("row %d: column '%s', %w", rowIdx, t.Schema.Columns[colIdx].ColumnName, err)
			}
		}
	}
	rec := b.NewRecord()
	defer rec.Release()

	var buf bytes.Buffer
	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())

	w, err := pqarrow.NewFileWriter(arrowSchema, &buf, props, arrowProps)
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet writer, %w", err)
	}
	if err := w.Write(rec); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to write parquet record, %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to close parquet writer, %w", err)
	}
	return buf.Bytes(), nil
}

func appendValue(fb array.Builder, v any) error {
	if v == nil {
		fb.AppendNull()
		return nil
	}

	var ok bool
	switch b := fb.(type) {
	case *array.StringBuilder:
		var s string
		if s, ok = v.(string); ok {
			b.Append(s)
		}
	case *array.Int64Builder:
		var i int64
		if i, ok = v.(int64); ok {
			b.Append(i)
		}
	case *array.Float64Builder:
		var f float64
		if f, ok = v.(float64); ok {
			b.Append(f)
		}
	case *array.Date32Builder:
		var d time.Time
		if d, ok = v.(time.Time); ok {
			b.Append(arrow.Date32FromTime(d))
		}
	case *array.TimestampBuilder:
		var d time.Time
		if d, ok = v.(time.Time); ok {
			b.Append(arrow.Timestamp(d.UnixMicro()))
		}
	default:
		return fmt.Errorf("unsupported builder %T", fb)
	}
	if !ok {
		return fmt.Errorf("value %v (%T) does not match column type %s", v, v, fb.Type())
	}
	return nil
}

// DecodeParquet reads a parquet file back into a table
func DecodeParquet(ctx context.Context, data []byte) (*table.Table, error) {
	arrowTable, err := pqarrow.ReadTable(ctx, bytes.NewReader(data), parquet.NewReaderProperties(pool), pqarrow.ArrowReadProperties{}, pool)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet, %w", err)
	}
	defer arrowTable.Release()

	rowSchema, err := schema.RowSchemaFromArrow(arrowTable.Schema())
	if err != nil {
		return nil, err
	}

	numRows := int(arrowTable.NumRows())
	numCols := int(arrowTable.NumCols())
	res := table.New(rowSchema)
	res.Rows = make([]table.Row, numRows)
	for i := range res.Rows {
		res.Rows[i] = make(table.Row, numCols)
	}

	for colIdx := 0; colIdx < numCols; colIdx++ {
		rowIdx := 0
		for _, chunk := range arrowTable.Column(colIdx).Data().Chunks() {
			for j := 0; j < chunk.Len(); j++ {
				v, err := arrayValue(chunk, j)
				if err != nil {
					return nil, fmt.Errorf("column '%s', %w", rowSchema.Columns[colIdx].ColumnName, err)
				}
				res.Rows[rowIdx][colIdx] = v
				rowIdx++
			}
		}
	}
	return res, nil
}

func arrayValue(arr arrow.Array, i int) (any, error) {
	if arr.IsNull(i) {
		return nil, nil
	}
	switch a := arr.(type) {
	case *array.String:
		return a.Value(i), nil
	case *array.LargeString:
		return a.Value(i), nil
	case *array.Int64:
		return a.Value(i), nil
	case *array.Int32:
		return int64(a.Value(i)), nil
	case *array.Float64:
		return a.Value(i), nil
	case *array.Float32:
		return float64(a.Value(i)), nil
	case *array.Date32:
		return a.Value(i).ToTime().UTC(), nil
	case *array.Timestamp:
		unit := a.DataType().(*arrow.TimestampType).Unit
		return a.Value(i).ToTime(unit).UTC(), nil
	default:
		return nil, fmt.Errorf("unsupported array type %s", arr.DataType())
	}
}
