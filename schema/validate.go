package schema

// IsValidColumnType checks if a column type is one the table and parquet writer support.
func IsValidColumnType(columnType string) bool {
	_, isValid := validColumnTypes[columnType]
	return isValid
}
