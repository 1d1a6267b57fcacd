package schema

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"golang.org/x/exp/maps"
)

var arrowTypes = map[string]arrow.DataType{
	TypeVarchar:   arrow.BinaryTypes.String,
	TypeBigint:    arrow.PrimitiveTypes.Int64,
	TypeDouble:    arrow.PrimitiveTypes.Float64,
	TypeDate:      arrow.FixedWidthTypes.Date32,
	TypeTimestamp: &arrow.TimestampType{Unit: arrow.Microsecond, TimeZone: "UTC"},
}

// ToArrow builds the arrow schema used to write the table as parquet.
// All columns are nullable.
func (r *RowSchema) ToArrow() (*arrow.Schema, error) {
	fields := make([]arrow.Field, len(r.Columns))
	for i, c := range r.Columns {
		dataType, ok := arrowTypes[c.Type]
		if !ok {
			return nil, fmt.Errorf("column '%s': type '%s' must be one of %v", c.ColumnName, c.Type, maps.Keys(arrowTypes))
		}
		fields[i] = arrow.Field{Name: c.ColumnName, Type: dataType, Nullable: true}
	}
	return arrow.NewSchema(fields, nil), nil
}

// RowSchemaFromArrow maps an arrow schema (as read back from parquet) to a RowSchema
func RowSchemaFromArrow(s *arrow.Schema) (*RowSchema, error) {
	res := &RowSchema{}
	for _, f := range s.Fields() {
		var columnType string
		switch f.Type.ID() {
		case arrow.STRING, arrow.LARGE_STRING:
			columnType = TypeVarchar
		case arrow.INT64, arrow.INT32:
			columnType = TypeBigint
		case arrow.FLOAT64, arrow.FLOAT32:
			columnType = TypeDouble
		case arrow.DATE32:
			columnType = TypeDate
		case arrow.TIMESTAMP:
			columnType = TypeTimestamp
		default:
			return nil, fmt.Errorf("column '%s': unsupported arrow type %s", f.Name, f.Type)
		}
		res.Columns = append(res.Columns, NewColumnSchema(f.Name, columnType))
	}
	return res, nil
}
