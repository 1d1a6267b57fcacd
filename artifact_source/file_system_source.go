package artifact_source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/turbot/tailpipe-sales-etl/artifact_loader"
	"github.com/turbot/tailpipe-sales-etl/constants"
	"github.com/turbot/tailpipe-sales-etl/table"
	"github.com/turbot/tailpipe-sales-etl/types"
)

const FileSystemSourceIdentifier = "file_system"

// FileSystemSource reads a csv file from the local file system. Gzipped files (.csv.gz) are decompressed.
type FileSystemSource struct {
	Path       string
	Extensions types.ExtensionLookup
	CsvOpts    []table.CsvOpts
}

func NewFileSystemSource(path string, opts ...table.CsvOpts) *FileSystemSource {
	return &FileSystemSource{
		Path:       path,
		Extensions: types.NewExtensionLookup(constants.CsvExtension),
		CsvOpts:    opts,
	}
}

func (s *FileSystemSource) Identifier() string {
	return FileSystemSourceIdentifier
}

func (s *FileSystemSource) Location() string {
	return s.Path
}

// Stat returns the absolute path of the source file, or a NotFoundError (carrying the absolute path)
// if the file does not exist
func (s *FileSystemSource) Stat() (string, error) {
	path, err := homedir.Expand(s.Path)
	if err != nil {
		return "", fmt.Errorf("failed to expand path %s, %w", s.Path, err)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &types.NotFoundError{Path: absPath}
		}
		return "", fmt.Errorf("failed to stat %s, %w", absPath, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", absPath)
	}
	return absPath, nil
}

// Load returns a NotFoundError (carrying the absolute path) if the file does not exist
func (s *FileSystemSource) Load(ctx context.Context) (*table.Table, error) {
	absPath, err := s.Stat()
	if err != nil {
		return nil, err
	}
	if !s.Extensions.IsValid(artifact_loader.Factory.ContentName(absPath)) {
		slog.Warn("FileSystemSource: unexpected file extension, reading as csv", "path", absPath)
	}

	f, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s, %w", absPath, err)
	}
	defer f.Close()

	loader := artifact_loader.Factory.ForName(absPath)
	r, err := loader.Load(ctx, absPath, f)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	t, err := table.LoadCsv(r, s.CsvOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s, %w", absPath, err)
	}
	slog.Info("FileSystemSource loaded table", "path", absPath, "loader", loader.Identifier(), "rows", t.NumRows())
	return t, nil
}
