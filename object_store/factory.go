package object_store

import (
	"context"
	"fmt"

	"github.com/turbot/tailpipe-sales-etl/constants"
)

// StoreConfig selects and configures an ObjectStore implementation
type StoreConfig struct {
	Type string
	Aws  *AwsConnection
	Gcp  *GcpConnection
	// Root is the base directory of a file system store
	Root string
}

// NewObjectStore builds the store named by config.Type. An empty type selects S3.
func NewObjectStore(ctx context.Context, config StoreConfig) (ObjectStore, error) {
	switch config.Type {
	case constants.StorageAwsS3Bucket, "":
		return NewAwsS3BucketStore(ctx, config.Aws)
	case constants.StorageGcpStorageBucket:
		return NewGcpStorageBucketStore(ctx, config.Gcp)
	case constants.StorageFileSystem:
		return NewFileSystemStore(config.Root)
	default:
		return nil, fmt.Errorf("unsupported storage type '%s'", config.Type)
	}
}
