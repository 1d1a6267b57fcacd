package artifact_loader

import (
	"context"
	"io"
)

const FileLoaderIdentifier = "file_loader"

// FileLoader passes uncompressed content through unchanged
type FileLoader struct {
}

func NewFileLoader() Loader {
	return &FileLoader{}
}

func (l FileLoader) Identifier() string {
	return FileLoaderIdentifier
}

func (l FileLoader) Load(_ context.Context, _ string, r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(r), nil
}
