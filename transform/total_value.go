package transform

import (
	"github.com/turbot/tailpipe-sales-etl/constants"
	"github.com/turbot/tailpipe-sales-etl/schema"
	"github.com/turbot/tailpipe-sales-etl/table"
	"github.com/turbot/tailpipe-sales-etl/types"
)

// AddTotalValue returns a copy of the table with total_value = quantity * price appended.
// An existing total_value column is overwritten.
func AddTotalValue(t *table.Table) (*table.Table, error) {
	return AddProduct(t, constants.ColumnTotalValue, constants.ColumnQuantity, constants.ColumnPrice)
}

// AddProduct returns a copy of the table with target = left * right.
//
// The result is BIGINT when both operands are BIGINT and DOUBLE otherwise. A null operand gives
// a null result. Values are not checked for sign or range.
func AddProduct(t *table.Table, target, left, right string) (*table.Table, error) {
	leftCol, err := numericColumn(t, left)
	if err != nil {
		return nil, err
	}
	rightCol, err := numericColumn(t, right)
	if err != nil {
		return nil, err
	}

	leftIdx, _ := t.ColumnIndex(left)
	rightIdx, _ := t.ColumnIndex(right)
	integer := leftCol.Type == schema.TypeBigint && rightCol.Type == schema.TypeBigint

	values := make([]any, t.NumRows())
	for i, row := range t.Rows {
		l, r := row[leftIdx], row[rightIdx]
		if l == nil || r == nil {
			continue
		}
		if integer {
			values[i] = l.(int64) * r.(int64)
			continue
		}
		lf, _ := table.AsFloat(l)
		rf, _ := table.AsFloat(r)
		values[i] = lf * rf
	}

	columnType := schema.TypeDouble
	if integer {
		columnType = schema.TypeBigint
	}

	res := t.Clone()
	if err := res.SetColumn(target, columnType, values); err != nil {
		return nil, err
	}
	return res, nil
}

func numericColumn(t *table.Table, name string) (*schema.ColumnSchema, error) {
	c, ok := t.Schema.Column(name)
	if !ok {
		return nil, &types.MissingColumnError{Column: name}
	}
	if !schema.IsNumericType(c.Type) {
		return nil, &types.ColumnTypeError{Column: name, Type: c.Type, Expected: "BIGINT or DOUBLE"}
	}
	return c, nil
}
