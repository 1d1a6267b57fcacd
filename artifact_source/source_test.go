package artifact_source

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turbot/tailpipe-sales-etl/object_store"
	"github.com/turbot/tailpipe-sales-etl/types"
)

const salesCsv = "date,quantity,price\n2023-01-01,10,6\n2023-01-02,5,5\n"

func TestFileSystemSource_Load(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sales_data.csv")
	require.NoError(t, os.WriteFile(path, []byte(salesCsv), 0644))

	got, err := NewFileSystemSource(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, got.NumRows())
	assert.Equal(t, []string{"date", "quantity", "price"}, got.Schema.ColumnNames())
}

func TestFileSystemSource_NotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.csv")

	_, err := NewFileSystemSource(path).Load(context.Background())

	var notFound *types.NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, path, notFound.Path)
}

func TestFileSystemSource_Directory(t *testing.T) {
	_, err := NewFileSystemSource(t.TempDir()).Load(context.Background())
	assert.Error(t, err)
}

func TestObjectStoreSource_Load(t *testing.T) {
	store := object_store.NewMemoryStore()
	store.Seed("raw-sales", "orders/jan.csv", []byte(salesCsv))
	location := types.NewObjectLocation("raw-sales", "orders/jan.csv")

	source := NewObjectStoreSource(store, location)
	got, err := source.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, got.NumRows())
	assert.Equal(t, "raw-sales/orders/jan.csv", source.Location())
	assert.Equal(t, []types.ObjectLocation{location}, store.GetCalls)
}

func TestObjectStoreSource_AccessError(t *testing.T) {
	tests := []struct {
		name     string
		getErr   error
		wantCode string
	}{
		{name: "missing object", wantCode: "NotFound"},
		{name: "permission denied", getErr: os.ErrPermission, wantCode: "AccessDenied"},
		{name: "network", getErr: errors.New("connection reset"), wantCode: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := object_store.NewMemoryStore()
			store.GetErr = tt.getErr

			_, err := NewObjectStoreSource(store, types.NewObjectLocation("raw-sales", "orders/jan.csv")).Load(context.Background())

			var accessErr *types.StorageAccessError
			require.True(t, errors.As(err, &accessErr))
			assert.Equal(t, tt.wantCode, accessErr.Code)
			assert.Equal(t, "orders/jan.csv", accessErr.Location.Key)
		})
	}
}

func TestObjectStoreSource_BadCsv(t *testing.T) {
	store := object_store.NewMemoryStore()
	store.Seed("raw-sales", "jan.csv", []byte("date,quantity\n2023-01-01\n"))

	_, err := NewObjectStoreSource(store, types.NewObjectLocation("raw-sales", "jan.csv")).Load(context.Background())

	require.Error(t, err)
	var accessErr *types.StorageAccessError
	assert.False(t, errors.As(err, &accessErr))
}

func gzipped(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestSources_Gzip(t *testing.T) {
	data := gzipped(t, salesCsv)

	t.Run("file system", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sales_data.csv.gz")
		require.NoError(t, os.WriteFile(path, data, 0644))

		got, err := NewFileSystemSource(path).Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, got.NumRows())
	})

	t.Run("object store", func(t *testing.T) {
		store := object_store.NewMemoryStore()
		store.Seed("raw-sales", "orders/jan.csv.gz", data)

		got, err := NewObjectStoreSource(store, types.NewObjectLocation("raw-sales", "orders/jan.csv.gz")).Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, got.NumRows())
	})
}
