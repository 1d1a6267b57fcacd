package schema

import (
	"fmt"
	"strings"
)

// RowSchema is the ordered set of columns shared by every row of a table
type RowSchema struct {
	Columns []*ColumnSchema `json:"columns"`
}

func NewRowSchema(columns ...*ColumnSchema) *RowSchema {
	return &RowSchema{Columns: columns}
}

func (r *RowSchema) AsMap() map[string]*ColumnSchema {
	var res = make(map[string]*ColumnSchema, len(r.Columns))
	for _, c := range r.Columns {
		res[c.ColumnName] = c
	}
	return res
}

// Index returns the position of the named column, or -1
func (r *RowSchema) Index(columnName string) int {
	for i, c := range r.Columns {
		if c.ColumnName == columnName {
			return i
		}
	}
	return -1
}

func (r *RowSchema) Column(columnName string) (*ColumnSchema, bool) {
	idx := r.Index(columnName)
	if idx == -1 {
		return nil, false
	}
	return r.Columns[idx], true
}

func (r *RowSchema) ColumnNames() []string {
	res := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		res[i] = c.ColumnName
	}
	return res
}

func (r *RowSchema) Clone() *RowSchema {
	res := &RowSchema{Columns: make([]*ColumnSchema, len(r.Columns))}
	for i, c := range r.Columns {
		res.Columns[i] = c.Clone()
	}
	return res
}

// Validate checks that all column names are non-empty and unique and all types are known.
// Names are otherwise free text, as in the source header.
func (r *RowSchema) Validate() error {
	var errs []string
	seen := make(map[string]struct{}, len(r.Columns))
	for i, c := range r.Columns {
		if c.ColumnName == "" {
			errs = append(errs, fmt.Sprintf("column %d has an empty name", i+1))
		}
		if _, ok := seen[c.ColumnName]; ok {
			errs = append(errs, fmt.Sprintf("duplicate column name '%s'", c.ColumnName))
		}
		seen[c.ColumnName] = struct{}{}
		if !IsValidColumnType(c.Type) {
			errs = append(errs, fmt.Sprintf("column '%s' has unsupported type '%s'", c.ColumnName, c.Type))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid schema: %s", strings.Join(errs, ", "))
	}
	return nil
}
