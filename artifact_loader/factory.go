package artifact_loader

import (
	"path"
	"strings"

	"github.com/turbot/tailpipe-sales-etl/constants"
)

// Factory is a global ArtifactLoaderFactory instance
var Factory = newArtifactLoaderFactory()

type ArtifactLoaderFactory struct {
	// keyed by compression extension
	artifactLoaders map[string]func() Loader
}

func newArtifactLoaderFactory() ArtifactLoaderFactory {
	f := ArtifactLoaderFactory{
		artifactLoaders: make(map[string]func() Loader),
	}
	f.RegisterArtifactLoader(constants.GzipExtension, NewGzipLoader)
	return f
}

func (b *ArtifactLoaderFactory) RegisterArtifactLoader(extension string, ctor func() Loader) {
	b.artifactLoaders[strings.ToLower(extension)] = ctor
}

// ForName returns the loader for the compression extension of name, or a FileLoader if it has none
func (b *ArtifactLoaderFactory) ForName(name string) Loader {
	if ctor, ok := b.artifactLoaders[strings.ToLower(path.Ext(name))]; ok {
		return ctor()
	}
	return NewFileLoader()
}

// ContentName strips a registered compression extension from name:
// "orders/jan.csv.gz" returns "orders/jan.csv"
func (b *ArtifactLoaderFactory) ContentName(name string) string {
	ext := path.Ext(name)
	if _, ok := b.artifactLoaders[strings.ToLower(ext)]; ok {
		return strings.TrimSuffix(name, ext)
	}
	return name
}
