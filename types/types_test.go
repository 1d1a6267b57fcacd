package types

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestObjectLocation_Parts(t *testing.T) {
	tests := []struct {
		name     string
		location ObjectLocation
		wantDir  string
		wantName string
		wantExt  string
	}{
		{
			name:     "nested key",
			location: NewObjectLocation("raw-sales", "orders/jan.csv"),
			wantDir:  "orders",
			wantName: "jan",
			wantExt:  ".csv",
		},
		{
			name:     "root key",
			location: NewObjectLocation("raw-sales", "jan.csv"),
			wantDir:  "",
			wantName: "jan",
			wantExt:  ".csv",
		},
		{
			name:     "no extension",
			location: NewObjectLocation("raw-sales", "a/b/data"),
			wantDir:  "a/b",
			wantName: "data",
			wantExt:  "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantDir, tt.location.Dir())
			assert.Equal(t, tt.wantName, tt.location.Name())
			assert.Equal(t, tt.wantExt, tt.location.Ext())
		})
	}
}

func TestExtensionLookup_IsValid(t *testing.T) {
	lookup := NewExtensionLookup(".csv")

	assert.True(t, lookup.IsValid("../sales_data.csv"))
	assert.True(t, lookup.IsValid("SALES.CSV"))
	assert.False(t, lookup.IsValid("sales.parquet"))
	assert.True(t, NewExtensionLookup().IsValid("anything.bin"))
}

func TestErrors_Unwrap(t *testing.T) {
	cause := errors.New("access denied")

	var err error = &StorageAccessError{Location: NewObjectLocation("raw-sales", "jan.csv"), Code: "AccessDenied", Err: cause}
	wrapped := fmt.Errorf("source failed, %w", err)

	var accessErr *StorageAccessError
	assert.True(t, errors.As(wrapped, &accessErr))
	assert.Equal(t, "AccessDenied", accessErr.Code)
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, "failed to read raw-sales/jan.csv (AccessDenied), access denied", err.Error())

	writeErr := &StorageWriteError{Destination: "out.parquet", Err: cause}
	assert.ErrorIs(t, writeErr, cause)

	dateErr := &MalformedDateError{Row: 2, Column: "date", Value: "not-a-date"}
	assert.Equal(t, "row 2: cannot parse 'not-a-date' in column 'date' as a date", dateErr.Error())
}

func TestTimingMap_Stages(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	m := TimingMap{
		"write":     {Start: start.Add(2 * time.Second), End: start.Add(3 * time.Second)},
		"read":      {Start: start, End: start.Add(time.Second)},
		"transform": {Start: start.Add(time.Second), End: start.Add(2 * time.Second)},
	}

	assert.Equal(t, []string{"read", "transform", "write"}, m.Stages())
	assert.Contains(t, m.String(), "transform:1s")
}
