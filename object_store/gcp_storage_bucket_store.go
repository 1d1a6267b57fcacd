package object_store

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"cloud.google.com/go/storage"
	"github.com/turbot/tailpipe-sales-etl/constants"
)

// GcpStorageBucketStore is an ObjectStore backed by Google Cloud Storage
type GcpStorageBucketStore struct {
	client *storage.Client
}

func NewGcpStorageBucketStore(ctx context.Context, conn *GcpConnection) (*GcpStorageBucketStore, error) {
	if conn == nil {
		conn = &GcpConnection{}
	}
	opts, err := conn.GetClientOptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed setting GCP Storage client config: %s", err.Error())
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCP Storage client: %s", err.Error())
	}

	slog.Info("Initialized GcpStorageBucketStore", "project", conn.GetProject())
	return &GcpStorageBucketStore{client: client}, nil
}

func (s *GcpStorageBucketStore) Identifier() string {
	return constants.StorageGcpStorageBucket
}

func (s *GcpStorageBucketStore) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	reader, err := s.client.Bucket(bucket).Object(key).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get object reader, %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read object, %w", err)
	}
	return data, nil
}

// Put uploads the object. The object only becomes visible when the writer is closed,
// so a failed upload leaves nothing behind.
func (s *GcpStorageBucketStore) Put(ctx context.Context, bucket, key string, data []byte) error {
	writer := s.client.Bucket(bucket).Object(key).NewWriter(ctx)
	writer.ContentType = contentType(key)

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write object, %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize object, %w", err)
	}
	return nil
}

func (s *GcpStorageBucketStore) Close() error {
	return s.client.Close()
}
