package artifact_sink

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turbot/tailpipe-sales-etl/object_store"
	"github.com/turbot/tailpipe-sales-etl/schema"
	"github.com/turbot/tailpipe-sales-etl/table"
	"github.com/turbot/tailpipe-sales-etl/transform"
	"github.com/turbot/tailpipe-sales-etl/types"
)

func filteredTable(t *testing.T) *table.Table {
	t.Helper()
	tbl := table.New(schema.NewRowSchema(
		schema.NewColumnSchema("date", schema.TypeDate),
		schema.NewColumnSchema("quantity", schema.TypeBigint),
		schema.NewColumnSchema("price", schema.TypeDouble),
		schema.NewColumnSchema("region", schema.TypeVarchar),
		schema.NewColumnSchema("total_value", schema.TypeDouble),
	))
	require.NoError(t, tbl.AppendRow(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), int64(10), 6.0, "emea", 60.0))
	require.NoError(t, tbl.AppendRow(time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), int64(3), 19.5, nil, 58.5))
	require.NoError(t, tbl.AppendRow(time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC), nil, 100.0, "apac", nil))
	return tbl
}

func TestParquet_RoundTrip(t *testing.T) {
	tbl := filteredTable(t)

	data, err := EncodeParquet(tbl)
	require.NoError(t, err)
	// parquet magic
	assert.Equal(t, "PAR1", string(data[:4]))

	got, err := DecodeParquet(context.Background(), data)
	require.NoError(t, err)

	assert.Equal(t, tbl.Schema.ColumnNames(), got.Schema.ColumnNames())
	for i, c := range tbl.Schema.Columns {
		assert.Equal(t, c.Type, got.Schema.Columns[i].Type, c.ColumnName)
	}
	assert.Equal(t, tbl.Rows, got.Rows)
}

func TestParquet_PassThroughColumnsSurvive(t *testing.T) {
	input, err := table.LoadCsvBytes([]byte("date,quantity,price,unit price ($),customerID,2023_region\n" +
		"2023-01-01,10,6,6.5,C1,north\n" +
		"2023-01-02,5,5,5.25,C2,south\n" +
		"2023-01-03,20,3,3.75,C3,\n"))
	require.NoError(t, err)
	filtered, err := transform.NewPipeline().Run(input)
	require.NoError(t, err)

	data, err := EncodeParquet(filtered)
	require.NoError(t, err)
	got, err := DecodeParquet(context.Background(), data)
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"date", "quantity", "price", "unit price ($)", "customerID", "2023_region", "total_value"},
		got.Schema.ColumnNames())
	assert.Equal(t, []table.Row{
		{time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), int64(10), int64(6), 6.5, "C1", "north", int64(60)},
		{time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC), int64(20), int64(3), 3.75, "C3", nil, int64(60)},
	}, got.Rows)
}

func TestParquet_HeaderOnlyCsv(t *testing.T) {
	input, err := table.LoadCsvBytes([]byte("date,quantity,price\n"))
	require.NoError(t, err)
	filtered, err := transform.NewPipeline().Run(input)
	require.NoError(t, err)

	data, err := EncodeParquet(filtered)
	require.NoError(t, err)
	got, err := DecodeParquet(context.Background(), data)
	require.NoError(t, err)

	assert.Equal(t, []string{"date", "quantity", "price", "total_value"}, got.Schema.ColumnNames())
	assert.Equal(t, 0, got.NumRows())
}

func TestParquet_Timestamps(t *testing.T) {
	tbl := table.New(schema.NewRowSchema(schema.NewColumnSchema("date", schema.TypeTimestamp)))
	ts := time.Date(2023, 1, 1, 13, 45, 10, 123456000, time.UTC)
	require.NoError(t, tbl.AppendRow(ts))

	data, err := EncodeParquet(tbl)
	require.NoError(t, err)
	got, err := DecodeParquet(context.Background(), data)
	require.NoError(t, err)

	require.Equal(t, 1, got.NumRows())
	assert.True(t, ts.Equal(got.Rows[0][0].(time.Time)))
}

func TestParquet_EmptyTable(t *testing.T) {
	tbl := table.New(schema.NewRowSchema(
		schema.NewColumnSchema("quantity", schema.TypeBigint),
		schema.NewColumnSchema("total_value", schema.TypeDouble),
	))

	data, err := EncodeParquet(tbl)
	require.NoError(t, err)
	got, err := DecodeParquet(context.Background(), data)
	require.NoError(t, err)

	assert.Equal(t, 0, got.NumRows())
	assert.Equal(t, []string{"quantity", "total_value"}, got.Schema.ColumnNames())
}

func TestParquet_ValueTypeMismatch(t *testing.T) {
	tbl := table.New(schema.NewRowSchema(schema.NewColumnSchema("quantity", schema.TypeBigint)))
	require.NoError(t, tbl.AppendRow("ten"))

	_, err := EncodeParquet(tbl)
	assert.ErrorContains(t, err, "row 0: column 'quantity'")
}

func TestRawToCleanResolver(t *testing.T) {
	tests := []struct {
		name    string
		source  types.ObjectLocation
		want    types.ObjectLocation
		wantErr bool
	}{
		{
			name:   "raw bucket csv key",
			source: types.NewObjectLocation("raw-sales", "orders/jan.csv"),
			want:   types.NewObjectLocation("clean-sales", "orders/jan.parquet"),
		},
		{
			name:   "every occurrence replaced",
			source: types.NewObjectLocation("raw-raw", "jan.csv"),
			want:   types.NewObjectLocation("clean-clean", "jan.parquet"),
		},
		{
			name:   "only trailing extension replaced",
			source: types.NewObjectLocation("raw-sales", "exports.csv/jan.csv"),
			want:   types.NewObjectLocation("clean-sales", "exports.csv/jan.parquet"),
		},
		{
			name:   "gzipped csv",
			source: types.NewObjectLocation("raw-sales", "orders/jan.csv.gz"),
			want:   types.NewObjectLocation("clean-sales", "orders/jan.parquet"),
		},
		{
			name:   "key without extension",
			source: types.NewObjectLocation("raw-sales", "orders/jan"),
			want:   types.NewObjectLocation("clean-sales", "orders/jan.parquet"),
		},
		{
			name:   "bucket without marker",
			source: types.NewObjectLocation("sales", "jan.csv"),
			want:   types.NewObjectLocation("sales", "jan.parquet"),
		},
		{
			name:    "empty key",
			source:  types.NewObjectLocation("raw-sales", ""),
			wantErr: true,
		},
	}
	resolve := RawToCleanResolver()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolve(tt.source)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewResolver_RejectsSourceAsDestination(t *testing.T) {
	resolve := NewResolver(ResolverOptions{Extension: ""})

	_, err := resolve(types.NewObjectLocation("sales", "jan.csv"))
	assert.ErrorContains(t, err, "is the source object")
}

func TestNewTemplateResolver(t *testing.T) {
	tests := []struct {
		name           string
		bucketTemplate string
		keyTemplate    string
		source         types.ObjectLocation
		want           types.ObjectLocation
	}{
		{
			name:           "bucket suffix and key prefix",
			bucketTemplate: "{{ .Bucket }}-processed",
			keyTemplate:    "parquet/{{ .Dir }}/{{ .Name }}.parquet",
			source:         types.NewObjectLocation("sales", "orders/jan.csv"),
			want:           types.NewObjectLocation("sales-processed", "parquet/orders/jan.parquet"),
		},
		{
			name:        "default bucket",
			keyTemplate: "{{ .Dir }}/{{ .Name }}.parquet",
			source:      types.NewObjectLocation("sales", "jan.csv"),
			want:        types.NewObjectLocation("sales", "jan.parquet"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolve, err := NewTemplateResolver(tt.bucketTemplate, tt.keyTemplate)
			require.NoError(t, err)

			got, err := resolve(tt.source)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewTemplateResolver_Invalid(t *testing.T) {
	_, err := NewTemplateResolver("", "")
	assert.Error(t, err)

	_, err = NewTemplateResolver("{{ .Bucket", "{{ .Key }}")
	assert.ErrorContains(t, err, "invalid bucket template")

	resolve, err := NewTemplateResolver("", "{{ .Missing }}")
	require.NoError(t, err)
	_, err = resolve(types.NewObjectLocation("sales", "jan.csv"))
	assert.ErrorContains(t, err, "failed to render key template")
}

func TestFileSink_Write(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "processed_data.parquet")
	sink := NewFileSink(path)

	dest, err := sink.Write(context.Background(), filteredTable(t))
	require.NoError(t, err)
	assert.Equal(t, path, dest)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	got, err := DecodeParquet(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, 3, got.NumRows())

	// no temp files left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileSink_WriteFailure(t *testing.T) {
	dir := t.TempDir()
	// a regular file where the output directory should be
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	sink := NewFileSink(filepath.Join(blocker, "processed_data.parquet"))

	_, err := sink.Write(context.Background(), filteredTable(t))

	var writeErr *types.StorageWriteError
	require.ErrorAs(t, err, &writeErr)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestObjectStoreSink_Write(t *testing.T) {
	store := object_store.NewMemoryStore()
	sink := NewObjectStoreSink(store, types.NewObjectLocation("clean-sales", "orders/jan.parquet"))

	dest, err := sink.Write(context.Background(), filteredTable(t))
	require.NoError(t, err)
	assert.Equal(t, "clean-sales/orders/jan.parquet", dest)
	assert.Equal(t, object_store.MemoryStoreIdentifier, sink.Identifier())

	data, ok := store.Object("clean-sales", "orders/jan.parquet")
	require.True(t, ok)
	got, err := DecodeParquet(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, 3, got.NumRows())
}

func TestObjectStoreSink_WriteFailure(t *testing.T) {
	store := object_store.NewMemoryStore()
	store.PutErr = errors.New("connection reset")
	sink := NewObjectStoreSink(store, types.NewObjectLocation("clean-sales", "orders/jan.parquet"))

	_, err := sink.Write(context.Background(), filteredTable(t))

	var writeErr *types.StorageWriteError
	require.ErrorAs(t, err, &writeErr)
	assert.Equal(t, "clean-sales/orders/jan.parquet", writeErr.Destination)
	assert.ErrorContains(t, err, "connection reset")
}
