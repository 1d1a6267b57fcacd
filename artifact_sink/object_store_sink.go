package artifact_sink

import (
	"context"
	"log/slog"

	"github.com/turbot/tailpipe-sales-etl/object_store"
	"github.com/turbot/tailpipe-sales-etl/table"
	"github.com/turbot/tailpipe-sales-etl/types"
)

// ObjectStoreSink writes parquet to a bucket
type ObjectStoreSink struct {
	Store          object_store.ObjectStore
	ObjectLocation types.ObjectLocation
}

func NewObjectStoreSink(store object_store.ObjectStore, location types.ObjectLocation) *ObjectStoreSink {
	return &ObjectStoreSink{Store: store, ObjectLocation: location}
}

func (s *ObjectStoreSink) Identifier() string {
	return s.Store.Identifier()
}

func (s *ObjectStoreSink) Location() string {
	return s.ObjectLocation.String()
}

// Write puts the object in a single request; if it fails the object may or may not exist, depending on the store.
func (s *ObjectStoreSink) Write(ctx context.Context, t *table.Table) (string, error) {
	data, err := EncodeParquet(t)
	if err != nil {
		return "", err
	}

	if err := s.Store.Put(ctx, s.ObjectLocation.Bucket, s.ObjectLocation.Key, data); err != nil {
		return "", &types.StorageWriteError{Destination: s.ObjectLocation.String(), Err: err}
	}
	slog.Info("ObjectStoreSink wrote parquet", "store", s.Store.Identifier(), "location", s.ObjectLocation.String(), "rows", t.NumRows(), "bytes", len(data))
	return s.ObjectLocation.String(), nil
}
