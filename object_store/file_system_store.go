package object_store

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/turbot/tailpipe-sales-etl/constants"
)

// FileSystemStore is an ObjectStore backed by a local directory.
// Each bucket is a sub directory of Root and keys are slash separated paths below it.
type FileSystemStore struct {
	Root string
}

func NewFileSystemStore(root string) (*FileSystemStore, error) {
	if root == "" {
		return nil, fmt.Errorf("root is required")
	}
	expanded, err := homedir.Expand(root)
	if err != nil {
		return nil, fmt.Errorf("failed to expand root %s, %w", root, err)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return nil, err
	}
	slog.Info("Initialized FileSystemStore", "root", abs)
	return &FileSystemStore{Root: abs}, nil
}

func (s *FileSystemStore) Identifier() string {
	return constants.StorageFileSystem
}

func (s *FileSystemStore) Get(_ context.Context, bucket, key string) ([]byte, error) {
	p, err := s.objectPath(bucket, key)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(p)
}

func (s *FileSystemStore) Put(_ context.Context, bucket, key string, data []byte) error {
	p, err := s.objectPath(bucket, key)
	if err != nil {
		return err
	}
	return WriteFileAtomic(p, data)
}

func (s *FileSystemStore) objectPath(bucket, key string) (string, error) {
	if bucket == "" || key == "" {
		return "", fmt.Errorf("bucket and key are required")
	}
	root := filepath.Clean(s.Root)
	rootPrefix := root
	if !strings.HasSuffix(rootPrefix, string(os.PathSeparator)) {
		rootPrefix += string(os.PathSeparator)
	}
	// buckets must not escape the root, and keys must not escape the bucket
	bucketDir := filepath.Join(root, bucket)
	if !strings.HasPrefix(bucketDir, rootPrefix) {
		return "", fmt.Errorf("bucket %s is outside root %s", bucket, s.Root)
	}
	p := filepath.Join(bucketDir, filepath.FromSlash(key))
	if !strings.HasPrefix(p, bucketDir+string(os.PathSeparator)) {
		return "", fmt.Errorf("key %s is outside bucket %s", key, bucket)
	}
	return p, nil
}

// WriteFileAtomic writes data to a temp file in the target directory then renames it into place,
// so a failed write never leaves a partial file at path.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory for file, %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file, %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write data to file, %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close file, %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move file into place, %w", err)
	}
	return nil
}
