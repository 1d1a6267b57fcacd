package transform

import (
	"github.com/turbot/tailpipe-sales-etl/table"
)

// FilterThreshold returns the rows whose value in the named column is greater than threshold
// (or equal to it, when inclusive). Row order is preserved and null values never match.
func FilterThreshold(t *table.Table, column string, threshold float64, inclusive bool) (*table.Table, error) {
	if _, err := numericColumn(t, column); err != nil {
		return nil, err
	}
	idx, _ := t.ColumnIndex(column)

	return t.Filter(func(row table.Row) bool {
		v, ok := table.AsFloat(row[idx])
		if !ok {
			return false
		}
		if inclusive {
			return v >= threshold
		}
		return v > threshold
	}), nil
}
