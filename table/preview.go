package table

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/turbot/tailpipe-sales-etl/schema"
)

// Preview renders the first n rows of the table
func (t *Table) Preview(w io.Writer, n int) {
	head := t.Head(n)

	tw := tablewriter.NewWriter(w)
	tw.SetAutoFormatHeaders(false)
	tw.SetHeader(head.Schema.ColumnNames())
	for _, row := range head.Rows {
		values := make([]string, len(row))
		for i, v := range row {
			values[i] = FormatValue(v, head.Schema.Columns[i].Type)
		}
		tw.Append(values)
	}
	tw.Render()
	fmt.Fprintf(w, "%d of %d rows\n", head.NumRows(), t.NumRows())
}

// FormatValue renders a single table value as text
func FormatValue(v any, columnType string) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case time.Time:
		if columnType == schema.TypeDate {
			return val.Format(time.DateOnly)
		}
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", val)
	}
}
