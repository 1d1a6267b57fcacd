package artifact_sink

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/turbot/tailpipe-sales-etl/object_store"
	"github.com/turbot/tailpipe-sales-etl/table"
	"github.com/turbot/tailpipe-sales-etl/types"
)

const FileSinkIdentifier = "file"

// FileSink writes parquet to a local file. The file is written to a temp file and renamed into place.
type FileSink struct {
	Path string
}

func NewFileSink(path string) *FileSink {
	return &FileSink{Path: path}
}

func (s *FileSink) Identifier() string {
	return FileSinkIdentifier
}

func (s *FileSink) Location() string {
	return s.Path
}

func (s *FileSink) Write(_ context.Context, t *table.Table) (string, error) {
	data, err := EncodeParquet(t)
	if err != nil {
		return "", err
	}

	path, err := homedir.Expand(s.Path)
	if err != nil {
		return "", &types.StorageWriteError{Destination: s.Path, Err: err}
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", &types.StorageWriteError{Destination: s.Path, Err: err}
	}

	if err := object_store.WriteFileAtomic(absPath, data); err != nil {
		return "", &types.StorageWriteError{Destination: absPath, Err: err}
	}
	slog.Info("FileSink wrote parquet", "path", absPath, "rows", t.NumRows(), "bytes", len(data))
	return absPath, nil
}
