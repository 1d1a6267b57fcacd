package transform

import (
	"fmt"
	"time"

	"github.com/araddon/dateparse"
	"github.com/turbot/tailpipe-sales-etl/schema"
	"github.com/turbot/tailpipe-sales-etl/table"
	"github.com/turbot/tailpipe-sales-etl/types"
)

// ISO-8601 layouts are always tried first. Values without a zone are read as UTC.
var isoLayouts = []string{
	time.DateOnly,
	time.RFC3339Nano,
	time.DateTime,
	"2006-01-02T15:04:05",
}

// DateParser converts text to dates.
//
// Values matching an ISO-8601 layout are parsed exactly. Anything else is inferred by dateparse,
// reading ambiguous numeric dates month first (01/02/2023 is 2 January). When Strict is set,
// ambiguous values are rejected instead.
type DateParser struct {
	Strict bool
}

func (p DateParser) Parse(value string) (time.Time, error) {
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}

	if p.Strict {
		if _, err := dateparse.ParseStrict(value); err != nil {
			return time.Time{}, err
		}
	}
	t, err := dateparse.ParseIn(value, time.UTC, dateparse.PreferMonthFirst(true))
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// ParseDates returns a copy of the table with the named column converted from text to dates.
// The column becomes DATE if every value falls on midnight UTC, TIMESTAMP otherwise.
// Nulls and unparseable values fail with a MalformedDateError naming the row.
func (p DateParser) ParseDates(t *table.Table, column string) (*table.Table, error) {
	values, err := t.ColumnValues(column)
	if err != nil {
		return nil, err
	}

	parsed := make([]any, len(values))
	dateOnly := true
	for i, v := range values {
		var d time.Time
		switch val := v.(type) {
		case time.Time:
			d = val.UTC()
		case string:
			if val == "" {
				return nil, &types.MalformedDateError{Row: i, Column: column}
			}
			d, err = p.Parse(val)
			if err != nil {
				return nil, &types.MalformedDateError{Row: i, Column: column, Value: val, Err: err}
			}
		case nil:
			return nil, &types.MalformedDateError{Row: i, Column: column}
		default:
			// numbers are not accepted as dates
			raw := fmt.Sprintf("%v", val)
			return nil, &types.MalformedDateError{Row: i, Column: column, Value: raw}
		}
		if !d.Equal(d.Truncate(24 * time.Hour)) {
			dateOnly = false
		}
		parsed[i] = d
	}

	columnType := schema.TypeTimestamp
	if dateOnly {
		columnType = schema.TypeDate
	}

	res := t.Clone()
	if err := res.SetColumn(column, columnType, parsed); err != nil {
		return nil, err
	}
	return res, nil
}

// ParseDates converts the named column using the default (non-strict) parser
func ParseDates(t *table.Table, column string) (*table.Table, error) {
	return DateParser{}.ParseDates(t, column)
}
