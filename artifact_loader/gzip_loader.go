package artifact_loader

import (
	"context"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

const GzipLoaderIdentifier = "gzip_loader"

// GzipLoader decompresses gzip content, e.g. sales_data.csv.gz
type GzipLoader struct {
}

func NewGzipLoader() Loader {
	return &GzipLoader{}
}

func (g GzipLoader) Identifier() string {
	return GzipLoaderIdentifier
}

func (g GzipLoader) Load(_ context.Context, name string, r io.Reader) (io.ReadCloser, error) {
	gzReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("error creating gzip reader for %s: %w", name, err)
	}
	return gzReader, nil
}
