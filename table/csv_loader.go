package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/turbot/tailpipe-sales-etl/schema"
)

// LoadCsv reads delimited text with a header row into a Table.
// Header names are kept as written (trimmed, with any byte order mark removed) unless
// WithSnakeCaseColumnNames is given. Empty cells become nulls and column types are inferred
// from the data (BIGINT, DOUBLE or VARCHAR).
func LoadCsv(r io.Reader, opts ...CsvOpts) (*Table, error) {
	config := newCsvConfig(opts...)

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.Comma = config.Delimiter
	reader.Comment = config.Comment
	// field counts are checked below so the error can name the line
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("no header row found")
		}
		return nil, fmt.Errorf("failed to read header row, %w", err)
	}

	rowSchema := &schema.RowSchema{}
	for i, sourceName := range header {
		columnName := sourceName
		if i == 0 {
			// strip a UTF-8 byte order mark left on the first header cell
			columnName = strings.TrimPrefix(columnName, "\ufeff")
		}
		columnName = strings.TrimSpace(columnName)
		if config.SnakeCaseColumnNames {
			columnName = strcase.ToSnake(columnName)
		}
		rowSchema.Columns = append(rowSchema.Columns, &schema.ColumnSchema{
			SourceName: sourceName,
			ColumnName: columnName,
		})
	}

	// read all raw values, column-wise, so types can be inferred before conversion
	rawColumns := make([][]string, len(header))
	rowCount := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv data, %w", err)
		}
		if len(record) != len(header) {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("line %d: expected %d columns, got %d", line, len(header), len(record))
		}
		for i, v := range record {
			rawColumns[i] = append(rawColumns[i], strings.TrimSpace(v))
		}
		rowCount++
	}

	for i, c := range rowSchema.Columns {
		c.Type = schema.InferColumnType(rawColumns[i])
	}
	if err := rowSchema.Validate(); err != nil {
		return nil, err
	}

	t := New(rowSchema)
	t.Rows = make([]Row, rowCount)
	for r := 0; r < rowCount; r++ {
		// allow room for one derived column without reallocating
		row := make(Row, len(header), len(header)+1)
		for i, c := range rowSchema.Columns {
			v, err := schema.ConvertValue(rawColumns[i][r], c.Type)
			if err != nil {
				// inference guarantees conversion succeeds
				return nil, fmt.Errorf("row %d: column '%s', %w", r, c.ColumnName, err)
			}
			row[i] = v
		}
		t.Rows[r] = row
	}

	slog.Debug("LoadCsv", "columns", rowSchema.ColumnNames(), "rows", rowCount)
	return t, nil
}

// LoadCsvBytes reads an in-memory csv buffer, for example the body of a storage object
func LoadCsvBytes(data []byte, opts ...CsvOpts) (*Table, error) {
	return LoadCsv(bytes.NewReader(data), opts...)
}
