package artifact_loader

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gzipped(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestFactory_ForName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{name: "sales_data.csv", want: FileLoaderIdentifier},
		{name: "orders/jan.csv.gz", want: GzipLoaderIdentifier},
		{name: "orders/JAN.CSV.GZ", want: GzipLoaderIdentifier},
		{name: "no_extension", want: FileLoaderIdentifier},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Factory.ForName(tt.name).Identifier())
		})
	}
}

func TestFactory_ContentName(t *testing.T) {
	assert.Equal(t, "orders/jan.csv", Factory.ContentName("orders/jan.csv.gz"))
	assert.Equal(t, "orders/jan.csv", Factory.ContentName("orders/jan.csv"))
}

func TestLoaders(t *testing.T) {
	const content = "date,quantity,price\n2023-01-01,10,6\n"
	tests := []struct {
		name    string
		file    string
		data    []byte
		wantErr bool
	}{
		{name: "plain", file: "sales.csv", data: []byte(content)},
		{name: "gzip", file: "sales.csv.gz", data: gzipped(t, content)},
		{name: "corrupt gzip", file: "sales.csv.gz", data: []byte(content), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc, err := Factory.ForName(tt.file).Load(context.Background(), tt.file, bytes.NewReader(tt.data))
			if tt.wantErr {
				assert.ErrorContains(t, err, tt.file)
				return
			}
			require.NoError(t, err)
			defer rc.Close()

			got, err := io.ReadAll(rc)
			require.NoError(t, err)
			assert.Equal(t, content, string(got))
		})
	}
}

func TestFileLoader_PassesThrough(t *testing.T) {
	rc, err := NewFileLoader().Load(context.Background(), "x", strings.NewReader("abc"))
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}
