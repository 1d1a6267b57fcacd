package schema

import (
	"strconv"
)

// column types - these use DuckDB type names, as does the parquet output
const (
	TypeVarchar   = "VARCHAR"
	TypeBigint    = "BIGINT"
	TypeDouble    = "DOUBLE"
	TypeDate      = "DATE"
	TypeTimestamp = "TIMESTAMP"
)

var validColumnTypes = map[string]struct{}{
	TypeVarchar:   {},
	TypeBigint:    {},
	TypeDouble:    {},
	TypeDate:      {},
	TypeTimestamp: {},
}

// IsNumericType returns whether values of the given type are int64 or float64
func IsNumericType(columnType string) bool {
	return columnType == TypeBigint || columnType == TypeDouble
}

// IsTemporalType returns whether values of the given type are time.Time
func IsTemporalType(columnType string) bool {
	return columnType == TypeDate || columnType == TypeTimestamp
}

// InferColumnType returns the narrowest type which can hold all the given raw values.
// Empty strings are nulls and do not take part in inference. A column with no values is DOUBLE
// so it can still take part in arithmetic, where its nulls give null results.
func InferColumnType(values []string) string {
	isInt, isFloat, seen := true, true, false
	for _, v := range values {
		if v == "" {
			continue
		}
		seen = true
		if isInt {
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				isInt = false
			}
		}
		if !isInt {
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				isFloat = false
				break
			}
		}
	}

	switch {
	case !seen:
		return TypeDouble
	case isInt:
		return TypeBigint
	case isFloat:
		return TypeDouble
	default:
		return TypeVarchar
	}
}

// ConvertValue converts a raw value to the Go representation of the column type.
// Empty strings become nil.
func ConvertValue(raw string, columnType string) (any, error) {
	if raw == "" {
		return nil, nil
	}
	switch columnType {
	case TypeBigint:
		return strconv.ParseInt(raw, 10, 64)
	case TypeDouble:
		return strconv.ParseFloat(raw, 64)
	default:
		return raw, nil
	}
}
