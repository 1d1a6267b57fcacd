package table

import (
	"fmt"

	"github.com/turbot/tailpipe-sales-etl/schema"
	"github.com/turbot/tailpipe-sales-etl/types"
)

// Row holds one value per schema column. Values are nil (null), string, int64, float64 or time.Time.
type Row []any

// Table is an in-memory ordered collection of rows sharing a column schema
type Table struct {
	Schema *schema.RowSchema
	Rows   []Row
}

func New(rowSchema *schema.RowSchema) *Table {
	if rowSchema == nil {
		rowSchema = schema.NewRowSchema()
	}
	return &Table{Schema: rowSchema}
}

func (t *Table) NumRows() int {
	return len(t.Rows)
}

func (t *Table) NumColumns() int {
	return len(t.Schema.Columns)
}

// AppendRow adds a row. The number of values must match the number of columns.
func (t *Table) AppendRow(values ...any) error {
	if len(values) != t.NumColumns() {
		return fmt.Errorf("expected %d values, got %d", t.NumColumns(), len(values))
	}
	t.Rows = append(t.Rows, Row(values))
	return nil
}

// ColumnIndex returns the position of the named column, or a MissingColumnError
func (t *Table) ColumnIndex(name string) (int, error) {
	idx := t.Schema.Index(name)
	if idx == -1 {
		return -1, &types.MissingColumnError{Column: name}
	}
	return idx, nil
}

// ColumnValues returns the values of the named column in row order
func (t *Table) ColumnValues(name string) ([]any, error) {
	idx, err := t.ColumnIndex(name)
	if err != nil {
		return nil, err
	}
	res := make([]any, len(t.Rows))
	for i, row := range t.Rows {
		res[i] = row[idx]
	}
	return res, nil
}

// SetColumn replaces the values of an existing column, or appends a new column.
// values must hold one entry per row.
func (t *Table) SetColumn(name, columnType string, values []any) error {
	if len(values) != len(t.Rows) {
		return fmt.Errorf("column '%s': expected %d values, got %d", name, len(t.Rows), len(values))
	}

	if idx := t.Schema.Index(name); idx != -1 {
		t.Schema.Columns[idx].Type = columnType
		for i, row := range t.Rows {
			row[idx] = values[i]
		}
		return nil
	}

	t.Schema.Columns = append(t.Schema.Columns, schema.NewColumnSchema(name, columnType))
	for i, row := range t.Rows {
		t.Rows[i] = append(row, values[i])
	}
	return nil
}

// Clone returns a copy of the table which shares no mutable state with the original
func (t *Table) Clone() *Table {
	res := &Table{
		Schema: t.Schema.Clone(),
		Rows:   make([]Row, len(t.Rows)),
	}
	for i, row := range t.Rows {
		// allow room for one derived column without reallocating
		r := make(Row, len(row), len(row)+1)
		copy(r, row)
		res.Rows[i] = r
	}
	return res
}

// Filter returns a new table holding the rows for which keep returns true, in their original order
func (t *Table) Filter(keep func(Row) bool) *Table {
	res := &Table{Schema: t.Schema.Clone()}
	for _, row := range t.Rows {
		if keep(row) {
			r := make(Row, len(row))
			copy(r, row)
			res.Rows = append(res.Rows, r)
		}
	}
	return res
}

// Head returns a table holding at most the first n rows
func (t *Table) Head(n int) *Table {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	res := &Table{Schema: t.Schema, Rows: make([]Row, n)}
	copy(res.Rows, t.Rows[:n])
	return res
}

// AsFloat converts a numeric table value to float64.
// It returns false for nulls and non-numeric values.
func AsFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
