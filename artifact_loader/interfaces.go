package artifact_loader

import (
	"context"
	"io"
)

// Loader wraps the raw bytes of an artifact and performs any necessary decompression.
// Loaders provided: [FileLoader], [GzipLoader]
type Loader interface {
	Identifier() string
	// Load returns a reader over the decoded content. name is used for error messages only.
	Load(ctx context.Context, name string, r io.Reader) (io.ReadCloser, error)
}
