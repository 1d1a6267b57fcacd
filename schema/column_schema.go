package schema

type ColumnSchema struct {
	// SourceName is the header text as it appeared in the source file
	SourceName string `json:"-"`
	ColumnName string `json:"name"`
	// DuckDB type for the column
	Type string `json:"type"`
}

func NewColumnSchema(name, columnType string) *ColumnSchema {
	return &ColumnSchema{SourceName: name, ColumnName: name, Type: columnType}
}

func (c *ColumnSchema) Clone() *ColumnSchema {
	res := *c
	return &res
}
